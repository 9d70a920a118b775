package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pawcheck/internal/domain"
	"pawcheck/internal/dto"
	"pawcheck/internal/handler"
	"pawcheck/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultID = "01HZX3K9Q8V7T6R5S4P3N2M1KJ"

// --- Manual Mocks ---

type MockAssessmentService struct {
	BankFunc     func() *domain.QuestionBank
	VisibleFunc  func(answers domain.AnswerMap) (*dto.VisibleQuestionsResponse, error)
	EvaluateFunc func(ctx context.Context, answers domain.AnswerMap) (*domain.AssessmentResult, error)
	SubmitFunc   func(ctx context.Context, petID string, answers domain.AnswerMap) (*domain.AssessmentResult, error)
	CommitFunc   func(ctx context.Context, petID, resultID string) (*domain.AssessmentResult, error)
	HistoryFunc  func(ctx context.Context, petID string, limit int) ([]domain.AssessmentResult, error)
}

func (m *MockAssessmentService) Bank() *domain.QuestionBank {
	if m.BankFunc != nil {
		return m.BankFunc()
	}
	panic("MockAssessmentService.BankFunc not implemented")
}

func (m *MockAssessmentService) Categories() []dto.CategoryResponse {
	return []dto.CategoryResponse{
		{Code: domain.CategoryGI, Label: "소화기"},
		{Code: domain.CategoryRESP, Label: "호흡기"},
	}
}

func (m *MockAssessmentService) Visible(answers domain.AnswerMap) (*dto.VisibleQuestionsResponse, error) {
	if m.VisibleFunc != nil {
		return m.VisibleFunc(answers)
	}
	panic("MockAssessmentService.VisibleFunc not implemented")
}

func (m *MockAssessmentService) Evaluate(ctx context.Context, answers domain.AnswerMap) (*domain.AssessmentResult, error) {
	if m.EvaluateFunc != nil {
		return m.EvaluateFunc(ctx, answers)
	}
	panic("MockAssessmentService.EvaluateFunc not implemented")
}

func (m *MockAssessmentService) Submit(ctx context.Context, petID string, answers domain.AnswerMap) (*domain.AssessmentResult, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, petID, answers)
	}
	panic("MockAssessmentService.SubmitFunc not implemented")
}

func (m *MockAssessmentService) Commit(ctx context.Context, petID, resultID string) (*domain.AssessmentResult, error) {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx, petID, resultID)
	}
	panic("MockAssessmentService.CommitFunc not implemented")
}

func (m *MockAssessmentService) History(ctx context.Context, petID string, limit int) ([]domain.AssessmentResult, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, petID, limit)
	}
	panic("MockAssessmentService.HistoryFunc not implemented")
}

// --- Helpers ---

func setupApp(svc *MockAssessmentService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Use(middleware.RequestID())
	handler.NewAssessmentHandler(svc, 20).RegisterRoutes(app.Group("/api"))
	return app
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func sampleResult() *domain.AssessmentResult {
	return &domain.AssessmentResult{
		ID:           resultID,
		Timestamp:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		PerCategory:  map[domain.Category]int{domain.CategoryGI: 12},
		OverallScore: 7,
		Level:        domain.LevelNormal,
		RedFlags:     []string{},
		Version:      "2026.03",
	}
}

// --- Tests ---

func TestGetQuestionBank(t *testing.T) {
	bank := &domain.QuestionBank{
		Version:    "test",
		Categories: map[domain.Category]string{domain.CategoryGI: "소화기"},
		Questions:  []domain.Question{{ID: "q1", Text: "?", Type: domain.QuestionTypeBool, Weight: 1}},
	}
	app := setupApp(&MockAssessmentService{BankFunc: func() *domain.QuestionBank { return bank }})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/questions", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.QuestionBankResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "test", body.Version)
	require.Len(t, body.Questions, 1)
	assert.Equal(t, "q1", body.Questions[0].ID)
}

func TestGetCategories(t *testing.T) {
	app := setupApp(&MockAssessmentService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/categories", nil))
	require.NoError(t, err)

	var body []dto.CategoryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body, 2)
	assert.Equal(t, domain.CategoryGI, body[0].Code)
}

func TestGetVisibleQuestions(t *testing.T) {
	var got domain.AnswerMap
	svc := &MockAssessmentService{
		VisibleFunc: func(answers domain.AnswerMap) (*dto.VisibleQuestionsResponse, error) {
			got = answers
			return &dto.VisibleQuestionsResponse{Visible: []string{"q.resp.cough", "q.resp.night_cough"}, NextQuestionID: "q.resp.night_cough", Answered: 1, Total: 2}, nil
		},
	}
	app := setupApp(svc)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/questions/visible", map[string]interface{}{
		"answers": map[string]interface{}{"q.resp.cough": "자주"},
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	choice, ok := got["q.resp.cough"].Choice()
	assert.True(t, ok)
	assert.Equal(t, domain.ChoiceOften, choice)

	var body dto.VisibleQuestionsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "q.resp.night_cough", body.NextQuestionID)
	assert.False(t, body.Terminal)
}

func TestEvaluateAssessment(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &MockAssessmentService{
			EvaluateFunc: func(ctx context.Context, answers domain.AnswerMap) (*domain.AssessmentResult, error) {
				v, ok := answers["q.gi.bloody_stool"].Bool()
				assert.True(t, ok)
				assert.True(t, v)
				return sampleResult(), nil
			},
		}
		app := setupApp(svc)

		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/assessments/evaluate", map[string]interface{}{
			"answers": map[string]interface{}{"q.gi.bloody_stool": true},
		}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, resultID, body["id"])
		assert.Equal(t, float64(7), body["overallScore"])
		assert.Equal(t, "normal", body["level"])
		labels := body["categoryLabels"].(map[string]interface{})
		assert.Equal(t, "소화기", labels["GI"])
	})

	t.Run("empty body means no answers", func(t *testing.T) {
		svc := &MockAssessmentService{
			EvaluateFunc: func(ctx context.Context, answers domain.AnswerMap) (*domain.AssessmentResult, error) {
				assert.Empty(t, answers)
				return sampleResult(), nil
			},
		}
		resp, err := setupApp(svc).Test(jsonRequest(t, http.MethodPost, "/api/assessments/evaluate", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/assessments/evaluate", bytes.NewBufferString(`{"answers": {"q1": 3}}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := setupApp(&MockAssessmentService{}).Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("validation errors", func(t *testing.T) {
		svc := &MockAssessmentService{
			EvaluateFunc: func(ctx context.Context, answers domain.AnswerMap) (*domain.AssessmentResult, error) {
				return nil, domain.ValidationErrors{domain.NewUnknownQuestionError("q.nope")}
			},
		}
		resp, err := setupApp(svc).Test(jsonRequest(t, http.MethodPost, "/api/assessments/evaluate", map[string]interface{}{
			"answers": map[string]interface{}{"q.nope": true},
		}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body middleware.ValidationErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body.Errors, 1)
		assert.Equal(t, "q.nope", body.Errors[0].Field)
	})
}

func TestSubmitAssessment(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &MockAssessmentService{
			SubmitFunc: func(ctx context.Context, petID string, answers domain.AnswerMap) (*domain.AssessmentResult, error) {
				assert.Equal(t, "coco", petID)
				return sampleResult(), nil
			},
		}
		resp, err := setupApp(svc).Test(jsonRequest(t, http.MethodPost, "/api/pets/coco/assessments", map[string]interface{}{
			"answers": map[string]interface{}{"q.gi.vomit": "가끔"},
		}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("record failure returns the result id", func(t *testing.T) {
		svc := &MockAssessmentService{
			SubmitFunc: func(ctx context.Context, petID string, answers domain.AnswerMap) (*domain.AssessmentResult, error) {
				return sampleResult(), domain.NewRecordFailedError(resultID, errors.New("db down"))
			},
		}
		resp, err := setupApp(svc).Test(jsonRequest(t, http.MethodPost, "/api/pets/coco/assessments", map[string]interface{}{}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body middleware.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "RECORD_FAILED", body.Code)
		assert.Equal(t, resultID, body.Details["result_id"])
	})

	t.Run("invalid pet id", func(t *testing.T) {
		resp, err := setupApp(&MockAssessmentService{}).Test(jsonRequest(t, http.MethodPost, "/api/pets/bad.pet/assessments", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestCommitAssessment(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &MockAssessmentService{
			CommitFunc: func(ctx context.Context, petID, id string) (*domain.AssessmentResult, error) {
				assert.Equal(t, "coco", petID)
				assert.Equal(t, resultID, id)
				return sampleResult(), nil
			},
		}
		resp, err := setupApp(svc).Test(jsonRequest(t, http.MethodPost, "/api/pets/coco/assessments/"+resultID+"/commit", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("expired", func(t *testing.T) {
		svc := &MockAssessmentService{
			CommitFunc: func(ctx context.Context, petID, id string) (*domain.AssessmentResult, error) {
				return nil, domain.NewResultNotFoundError(id)
			},
		}
		resp, err := setupApp(svc).Test(jsonRequest(t, http.MethodPost, "/api/pets/coco/assessments/"+resultID+"/commit", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("bad result id", func(t *testing.T) {
		resp, err := setupApp(&MockAssessmentService{}).Test(jsonRequest(t, http.MethodPost, "/api/pets/coco/assessments/xyz/commit", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetHistory(t *testing.T) {
	var gotLimit int
	svc := &MockAssessmentService{
		HistoryFunc: func(ctx context.Context, petID string, limit int) ([]domain.AssessmentResult, error) {
			gotLimit = limit
			if petID == "empty" {
				return nil, nil
			}
			return []domain.AssessmentResult{*sampleResult()}, nil
		},
	}
	app := setupApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/pets/coco/assessments?limit=3", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, gotLimit)

	var body dto.HistoryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "coco", body.PetID)
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, resultID, body.Assessments[0].ID)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/pets/empty/assessments", nil))
	require.NoError(t, err)
	assert.Equal(t, 0, gotLimit)
	raw, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"pet_id":"empty","assessments":[],"count":0}`, string(raw))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/pets/coco/assessments?limit=21", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
