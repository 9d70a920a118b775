package middleware_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"pawcheck/internal/domain"
	"pawcheck/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Use(middleware.RequestID())
	return app
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, v), string(body))
}

func TestErrorHandler_DomainErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"result not found", domain.NewResultNotFoundError("01HZX3K9Q8V7T6R5S4P3N2M1KJ"), http.StatusNotFound, "RESULT_NOT_FOUND"},
		{"not found", domain.NewNotFoundError("missing"), http.StatusNotFound, "NOT_FOUND"},
		{"invalid input", domain.NewInvalidInputError("bad"), http.StatusBadRequest, "INVALID_INPUT"},
		{"session finished", domain.NewError(domain.CodeSessionFinished, "done", nil), http.StatusConflict, "SESSION_FINISHED"},
		{"record failed", domain.NewRecordFailedError("01HZX3K9Q8V7T6R5S4P3N2M1KJ", errors.New("db down")), http.StatusServiceUnavailable, "RECORD_FAILED"},
		{"invalid bank", domain.NewInvalidBankError("broken", nil), http.StatusInternalServerError, "INVALID_QUESTION_BANK"},
		{"wrapped internal", errors.Join(errors.New("outer"), domain.NewInternalError("boom", nil)), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newApp()
			app.Get("/", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body middleware.ErrorResponse
			decode(t, resp, &body)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantStatus, body.Status)
		})
	}
}

func TestErrorHandler_RecordFailedCarriesResultID(t *testing.T) {
	app := newApp()
	app.Post("/", func(c *fiber.Ctx) error {
		return domain.NewRecordFailedError("01HZX3K9Q8V7T6R5S4P3N2M1KJ", errors.New("db down"))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/", nil))
	require.NoError(t, err)

	var body middleware.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, "01HZX3K9Q8V7T6R5S4P3N2M1KJ", body.Details["result_id"])
}

func TestErrorHandler_ValidationErrors(t *testing.T) {
	app := newApp()
	app.Get("/", func(c *fiber.Ctx) error {
		return domain.ValidationErrors{
			domain.NewUnknownQuestionError("q.nope"),
			domain.NewMissingFieldError("pet_id"),
		}
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body middleware.ValidationErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	require.Len(t, body.Errors, 2)
	assert.Equal(t, domain.CodeUnknownQuestion, body.Errors[0].Code)
	assert.Equal(t, "pet_id", body.Errors[1].Field)
}

func TestErrorHandler_FiberAndUnknownErrors(t *testing.T) {
	app := newApp()
	app.Get("/teapot", func(c *fiber.Ctx) error { return fiber.NewError(http.StatusTeapot, "short and stout") })
	app.Get("/plain", func(c *fiber.Ctx) error { return errors.New("something odd") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/teapot", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	var body middleware.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, "HTTP_ERROR", body.Code)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/plain", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	decode(t, resp, &body)
	assert.Equal(t, "INTERNAL_ERROR", body.Code)
	assert.Equal(t, "Internal server error", body.Message)
}

func TestErrorHandler_EchoesRequestID(t *testing.T) {
	app := newApp()
	app.Get("/", func(c *fiber.Ctx) error { return domain.NewNotFoundError("missing") })

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.HeaderRequestID, id)
	resp, err := app.Test(req)
	require.NoError(t, err)

	var body middleware.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, id, body.RequestID)
	assert.Equal(t, id, resp.Header.Get(middleware.HeaderRequestID))
}

func TestRequestID(t *testing.T) {
	app := newApp()
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(middleware.RequestIDFrom(c)) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	generated := resp.Header.Get(middleware.HeaderRequestID)
	_, err = uuid.Parse(generated)
	assert.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, generated, string(body))

	known := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.HeaderRequestID, known)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, known, resp.Header.Get(middleware.HeaderRequestID))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.HeaderRequestID, "not-a-uuid")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.NotEqual(t, "not-a-uuid", resp.Header.Get(middleware.HeaderRequestID))
}

func TestValidationMiddleware(t *testing.T) {
	vm := middleware.NewValidationMiddleware()
	app := newApp()
	app.Get("/pets/:petId/assessments", vm.ValidatePetID(), vm.ValidateHistoryLimit(20), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"pet":   c.Locals(middleware.LocalPetID),
			"limit": c.Locals(middleware.LocalHistoryLimit),
		})
	})
	app.Post("/results/:resultId", vm.ValidateResultID(), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(middleware.LocalResultID).(string))
	})

	tests := []struct {
		name       string
		method     string
		target     string
		wantStatus int
	}{
		{"valid without limit", http.MethodGet, "/pets/coco/assessments", http.StatusOK},
		{"valid limit", http.MethodGet, "/pets/coco/assessments?limit=5", http.StatusOK},
		{"limit zero means full window", http.MethodGet, "/pets/coco/assessments?limit=0", http.StatusOK},
		{"signed limit", http.MethodGet, "/pets/coco/assessments?limit=+5", http.StatusBadRequest},
		{"limit overflowing int", http.MethodGet, "/pets/coco/assessments?limit=99999999999999999999999", http.StatusBadRequest},
		{"limit above retention", http.MethodGet, "/pets/coco/assessments?limit=999999999999", http.StatusBadRequest},
		{"limit not a number", http.MethodGet, "/pets/coco/assessments?limit=ten", http.StatusBadRequest},
		{"bad pet id", http.MethodGet, "/pets/co%20co/assessments", http.StatusBadRequest},
		{"valid result id", http.MethodPost, "/results/01HZX3K9Q8V7T6R5S4P3N2M1KJ", http.StatusOK},
		{"bad result id", http.MethodPost, "/results/nope", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(tt.method, tt.target, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/pets/coco/assessments?limit=5", nil))
	require.NoError(t, err)
	var body struct {
		Pet   string `json:"pet"`
		Limit int    `json:"limit"`
	}
	decode(t, resp, &body)
	assert.Equal(t, "coco", body.Pet)
	assert.Equal(t, 5, body.Limit)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/pets/coco/assessments?limit=0", nil))
	require.NoError(t, err)
	decode(t, resp, &body)
	assert.Equal(t, 0, body.Limit)
}
