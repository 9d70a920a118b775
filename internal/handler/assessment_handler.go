package handler

import (
	"pawcheck/internal/domain"
	"pawcheck/internal/dto"
	"pawcheck/internal/logger"
	"pawcheck/internal/middleware"
	"pawcheck/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AssessmentHandler handles question bank and assessment HTTP requests
type AssessmentHandler struct {
	service    service.AssessmentService
	validation *middleware.ValidationMiddleware
	retention  int
}

// NewAssessmentHandler creates a new AssessmentHandler instance
func NewAssessmentHandler(service service.AssessmentService, retention int) *AssessmentHandler {
	if retention <= 0 {
		retention = domain.DefaultHistoryLimit
	}
	return &AssessmentHandler{
		service:    service,
		validation: middleware.NewValidationMiddleware(),
		retention:  retention,
	}
}

// RegisterRoutes mounts the assessment API on router.
func (h *AssessmentHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/questions", h.GetQuestionBank)
	router.Post("/questions/visible", h.GetVisibleQuestions)
	router.Get("/categories", h.GetCategories)
	router.Post("/assessments/evaluate", h.EvaluateAssessment)

	pets := router.Group("/pets/:petId", h.validation.ValidatePetID())
	pets.Post("/assessments", h.SubmitAssessment)
	pets.Post("/assessments/:resultId/commit", h.validation.ValidateResultID(), h.CommitAssessment)
	pets.Get("/assessments", h.validation.ValidateHistoryLimit(h.retention), h.GetHistory)
}

// GetQuestionBank godoc
// @Summary Get the question bank
// @Description Returns every question with its type, tags, weight and visibility condition
// @Tags questions
// @Produce json
// @Success 200 {object} dto.QuestionBankResponse
// @Router /questions [get]
func (h *AssessmentHandler) GetQuestionBank(c *fiber.Ctx) error {
	bank := h.service.Bank()
	return c.JSON(dto.QuestionBankResponse{
		Version:    bank.Version,
		Categories: bank.Categories,
		Questions:  bank.Questions,
	})
}

// GetCategories godoc
// @Summary Get display categories
// @Description Returns the five display categories in display order
// @Tags questions
// @Produce json
// @Success 200 {array} dto.CategoryResponse
// @Router /categories [get]
func (h *AssessmentHandler) GetCategories(c *fiber.Ctx) error {
	return c.JSON(h.service.Categories())
}

// GetVisibleQuestions godoc
// @Summary Resolve visible questions
// @Description Returns the questions visible for a partial answer map and the next one to ask
// @Tags questions
// @Accept json
// @Produce json
// @Param request body dto.AnswersRequest true "Answers so far"
// @Success 200 {object} dto.VisibleQuestionsResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /questions/visible [post]
func (h *AssessmentHandler) GetVisibleQuestions(c *fiber.Ctx) error {
	req, err := parseAnswers(c)
	if err != nil {
		return err
	}

	resp, err := h.service.Visible(req.Answers)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// EvaluateAssessment godoc
// @Summary Evaluate answers
// @Description Scores the answers and infers suspects without recording them. The result can be committed later.
// @Tags assessments
// @Accept json
// @Produce json
// @Param request body dto.AnswersRequest true "Answers"
// @Success 200 {object} dto.AssessmentResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /assessments/evaluate [post]
func (h *AssessmentHandler) EvaluateAssessment(c *fiber.Ctx) error {
	req, err := parseAnswers(c)
	if err != nil {
		return err
	}

	result, err := h.service.Evaluate(c.UserContext(), req.Answers)
	if err != nil {
		return err
	}
	return c.JSON(h.toResponse(result))
}

// SubmitAssessment godoc
// @Summary Submit an assessment
// @Description Evaluates the answers and records the result in the pet's history
// @Tags assessments
// @Accept json
// @Produce json
// @Param petId path string true "Pet ID"
// @Param request body dto.AnswersRequest true "Answers"
// @Success 201 {object} dto.AssessmentResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 503 {object} middleware.ErrorResponse "RECORD_FAILED, details.result_id can be committed"
// @Router /pets/{petId}/assessments [post]
func (h *AssessmentHandler) SubmitAssessment(c *fiber.Ctx) error {
	petID := c.Locals(middleware.LocalPetID).(string)

	req, err := parseAnswers(c)
	if err != nil {
		return err
	}

	result, err := h.service.Submit(c.UserContext(), petID, req.Answers)
	if err != nil {
		if result != nil {
			logger.Get().Warn("Assessment computed but not recorded",
				zap.String("pet_id", petID),
				zap.String("result_id", result.ID),
			)
		}
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(h.toResponse(result))
}

// CommitAssessment godoc
// @Summary Commit an evaluated assessment
// @Description Records a result previously returned by evaluate or by a failed submit
// @Tags assessments
// @Produce json
// @Param petId path string true "Pet ID"
// @Param resultId path string true "Result ID"
// @Success 201 {object} dto.AssessmentResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /pets/{petId}/assessments/{resultId}/commit [post]
func (h *AssessmentHandler) CommitAssessment(c *fiber.Ctx) error {
	petID := c.Locals(middleware.LocalPetID).(string)
	resultID := c.Locals(middleware.LocalResultID).(string)

	result, err := h.service.Commit(c.UserContext(), petID, resultID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(h.toResponse(result))
}

// GetHistory godoc
// @Summary Get assessment history
// @Description Returns the pet's most recent results, newest last
// @Tags assessments
// @Produce json
// @Param petId path string true "Pet ID"
// @Param limit query int false "Number of results (default: retention window)"
// @Success 200 {object} dto.HistoryResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /pets/{petId}/assessments [get]
func (h *AssessmentHandler) GetHistory(c *fiber.Ctx) error {
	petID := c.Locals(middleware.LocalPetID).(string)
	limit := c.Locals(middleware.LocalHistoryLimit).(int)

	results, err := h.service.History(c.UserContext(), petID, limit)
	if err != nil {
		return err
	}
	if results == nil {
		results = []domain.AssessmentResult{}
	}
	return c.JSON(dto.HistoryResponse{
		PetID:       petID,
		Assessments: results,
		Count:       len(results),
	})
}

func (h *AssessmentHandler) toResponse(result *domain.AssessmentResult) dto.AssessmentResponse {
	labels := make(map[domain.Category]string, len(domain.DisplayCategories))
	for _, cat := range h.service.Categories() {
		labels[cat.Code] = cat.Label
	}
	return dto.AssessmentResponse{AssessmentResult: result, CategoryLabels: labels}
}

// parseAnswers accepts an empty body as an empty answer map.
func parseAnswers(c *fiber.Ctx) (*dto.AnswersRequest, error) {
	req := &dto.AnswersRequest{}
	if len(c.Body()) == 0 {
		req.Answers = domain.AnswerMap{}
		return req, nil
	}
	if err := c.BodyParser(req); err != nil {
		logger.Get().Debug("Failed to parse answers body", zap.Error(err))
		return nil, domain.NewInvalidInputError("request body must be {\"answers\": {questionId: value}}")
	}
	if req.Answers == nil {
		req.Answers = domain.AnswerMap{}
	}
	return req, nil
}
