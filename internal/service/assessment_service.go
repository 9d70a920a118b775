package service

import (
	"context"
	"errors"
	"time"

	"pawcheck/internal/domain"
	"pawcheck/internal/dto"
	"pawcheck/internal/flow"
	"pawcheck/internal/logger"
	"pawcheck/internal/scoring"
	"pawcheck/internal/suspicion"
	"pawcheck/internal/util"
	"pawcheck/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AssessmentService defines the operations behind the HTTP API and the CLI.
type AssessmentService interface {
	Bank() *domain.QuestionBank
	Categories() []dto.CategoryResponse
	Visible(answers domain.AnswerMap) (*dto.VisibleQuestionsResponse, error)
	Evaluate(ctx context.Context, answers domain.AnswerMap) (*domain.AssessmentResult, error)
	Submit(ctx context.Context, petID string, answers domain.AnswerMap) (*domain.AssessmentResult, error)
	Commit(ctx context.Context, petID, resultID string) (*domain.AssessmentResult, error)
	History(ctx context.Context, petID string, limit int) ([]domain.AssessmentResult, error)
}

// Inferencer maps answers to suspected conditions per category.
type Inferencer interface {
	Infer(answers domain.AnswerMap) map[domain.Category][]domain.Suspicion
}

type assessmentService struct {
	bank       *domain.QuestionBank
	inferencer Inferencer
	recorder   domain.AssessmentRecorder
	pending    PendingResultCache
	validator  *validation.Validator
	retention  int

	now   func() time.Time
	newID func(time.Time) string
}

// NewAssessmentService wires the scoring engine and the suspicion rules to
// a recorder. A nil pending cache disables the commit retry path.
func NewAssessmentService(
	bank *domain.QuestionBank,
	recorder domain.AssessmentRecorder,
	pending PendingResultCache,
	retention int,
) AssessmentService {
	if pending == nil {
		pending = &noopPendingResultCache{}
	}
	if retention <= 0 {
		retention = domain.DefaultHistoryLimit
	}
	return &assessmentService{
		bank:       bank,
		inferencer: suspicion.New(nil),
		recorder:   recorder,
		pending:    pending,
		validator:  validation.NewValidator(),
		retention:  retention,
		now:        time.Now,
		newID:      util.NewULIDAt,
	}
}

func (s *assessmentService) Bank() *domain.QuestionBank { return s.bank }

// Categories lists the display categories in fixed order with their labels.
func (s *assessmentService) Categories() []dto.CategoryResponse {
	out := make([]dto.CategoryResponse, 0, len(domain.DisplayCategories))
	for _, c := range domain.DisplayCategories {
		out = append(out, dto.CategoryResponse{Code: c, Label: s.bank.Label(c)})
	}
	return out
}

// Visible reports which questions an answer map makes visible and which
// one a client should ask next.
func (s *assessmentService) Visible(answers domain.AnswerMap) (*dto.VisibleQuestionsResponse, error) {
	if errs := s.validator.ValidateAnswers(s.bank, answers); len(errs) > 0 {
		return nil, errs
	}

	state := flow.State{Answers: answers}
	visible := flow.Visible(s.bank, state)
	resp := &dto.VisibleQuestionsResponse{
		Visible: make([]string, 0, len(visible)),
		Total:   len(visible),
	}
	for _, q := range visible {
		resp.Visible = append(resp.Visible, q.ID)
		if answers.Has(q.ID) {
			resp.Answered++
		} else if resp.NextQuestionID == "" {
			resp.NextQuestionID = q.ID
		}
	}
	resp.Terminal = resp.NextQuestionID == ""
	return resp, nil
}

// Evaluate scores answers and infers suspects concurrently, then merges
// both into a stamped result. The result is cached as pending so that it
// can be committed later.
func (s *assessmentService) Evaluate(ctx context.Context, answers domain.AnswerMap) (*domain.AssessmentResult, error) {
	if errs := s.validator.ValidateAnswers(s.bank, answers); len(errs) > 0 {
		return nil, errs
	}
	if answers == nil {
		answers = domain.AnswerMap{}
	}

	var (
		report   domain.ScoreReport
		suspects map[domain.Category][]domain.Suspicion
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		report = scoring.Score(s.bank, answers)
		return gctx.Err()
	})
	g.Go(func() error {
		suspects = s.inferencer.Infer(answers)
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	at := s.now().UTC()
	result := domain.NewAssessmentResult(s.newID(at), at, s.bank.Version, report, suspects)
	if err := result.Validate(); err != nil {
		return nil, domain.NewInternalError("computed assessment violates its invariants", err)
	}

	if err := s.pending.Put(ctx, result); err != nil {
		logger.Get().Warn("Failed to cache pending assessment", zap.String("result_id", result.ID), zap.Error(err))
	}

	logger.Get().Info("Assessment evaluated",
		zap.String("result_id", result.ID),
		zap.Int("overall_score", result.OverallScore),
		zap.String("level", string(result.Level)),
		zap.Int("red_flags", len(result.RedFlags)),
	)
	return result, nil
}

// Submit evaluates and records. When recording fails the computed result
// is still returned, together with a RECORD_FAILED error.
func (s *assessmentService) Submit(ctx context.Context, petID string, answers domain.AnswerMap) (*domain.AssessmentResult, error) {
	if errs := s.validator.ValidatePetID(petID); len(errs) > 0 {
		return nil, errs
	}
	result, err := s.Evaluate(ctx, answers)
	if err != nil {
		return nil, err
	}
	if err := s.record(ctx, petID, result); err != nil {
		return result, err
	}
	return result, nil
}

// Commit records a result previously produced by Evaluate.
func (s *assessmentService) Commit(ctx context.Context, petID, resultID string) (*domain.AssessmentResult, error) {
	if errs := append(s.validator.ValidatePetID(petID), s.validator.ValidateResultID(resultID)...); len(errs) > 0 {
		return nil, errs
	}

	result, err := s.pending.Get(ctx, resultID)
	if err != nil {
		if errors.Is(err, ErrPendingResultNotFound) {
			return nil, domain.NewResultNotFoundError(resultID)
		}
		return nil, err
	}
	if err := s.record(ctx, petID, result); err != nil {
		return result, err
	}
	return result, nil
}

// History returns up to limit of the pet's newest results, oldest first.
// A zero limit means the full retention window.
func (s *assessmentService) History(ctx context.Context, petID string, limit int) ([]domain.AssessmentResult, error) {
	if limit == 0 {
		limit = s.retention
	}
	if errs := append(s.validator.ValidatePetID(petID), s.validator.ValidateLimit(limit, s.retention)...); len(errs) > 0 {
		return nil, errs
	}

	results, err := s.recorder.Recent(ctx, petID, limit)
	if err != nil {
		return nil, domain.NewInternalError("failed to load assessment history", err)
	}
	return results, nil
}

func (s *assessmentService) record(ctx context.Context, petID string, result *domain.AssessmentResult) error {
	// 취소된 세션은 저장하지 않는다
	if err := ctx.Err(); err != nil {
		return domain.NewRecordFailedError(result.ID, err)
	}
	if err := s.recorder.Record(ctx, petID, result); err != nil {
		logger.Get().Error("Failed to record assessment",
			zap.String("pet_id", petID),
			zap.String("result_id", result.ID),
			zap.Error(err),
		)
		return domain.NewRecordFailedError(result.ID, err)
	}

	if err := s.pending.Delete(ctx, result.ID); err != nil {
		logger.Get().Warn("Failed to drop pending assessment", zap.String("result_id", result.ID), zap.Error(err))
	}
	logger.Get().Info("Assessment recorded", zap.String("pet_id", petID), zap.String("result_id", result.ID))
	return nil
}
