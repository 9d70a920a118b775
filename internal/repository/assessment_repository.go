package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pawcheck/internal/domain"
	"pawcheck/internal/logger"
	"pawcheck/internal/repository/models"
	"pawcheck/internal/util"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const (
	insertAssessmentQuery = `INSERT INTO assessments (ID, PET_ID, BANK_VERSION, OVERALL_SCORE, SEVERITY, RED_FLAGS, PAYLOAD, ASSESSED_AT, CREATED_AT)
	          VALUES (:1, :2, :3, :4, :5, :6, :7, :8, :9)`

	// 최신 retention개를 제외한 나머지 행 삭제
	evictAssessmentsQuery = `DELETE FROM assessments WHERE PET_ID = :1 AND ID NOT IN (
	          SELECT ID FROM (SELECT ID FROM assessments WHERE PET_ID = :2 ORDER BY ASSESSED_AT DESC, ID DESC) WHERE ROWNUM <= :3)`

	recentAssessmentsQuery = `SELECT ID, PET_ID, BANK_VERSION, OVERALL_SCORE, SEVERITY, RED_FLAGS, PAYLOAD, ASSESSED_AT, CREATED_AT
	          FROM assessments WHERE PET_ID = :1 ORDER BY ASSESSED_AT DESC, ID DESC FETCH FIRST :2 ROWS ONLY`
)

// sqlxAssessmentRepository implements domain.AssessmentRecorder on Oracle using sqlx.
type sqlxAssessmentRepository struct {
	db        *sqlx.DB
	txManager domain.TransactionManager
	retention int
	now       func() time.Time
}

// NewAssessmentRepository creates a recorder that keeps at most retention
// results per pet.
func NewAssessmentRepository(db *sqlx.DB, txManager domain.TransactionManager, retention int) domain.AssessmentRecorder {
	if retention <= 0 {
		retention = domain.DefaultHistoryLimit
	}
	return &sqlxAssessmentRepository{db: db, txManager: txManager, retention: retention, now: time.Now}
}

func toAssessmentModel(petID string, result *domain.AssessmentResult, createdAt time.Time) (*models.Assessment, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal assessment %s: %w", result.ID, err)
	}
	return &models.Assessment{
		ID:           result.ID,
		PetID:        petID,
		BankVersion:  util.StringToNullString(result.Version),
		OverallScore: result.OverallScore,
		Level:        string(result.Level),
		RedFlags:     models.StringSlice(result.RedFlags),
		Payload:      string(payload),
		AssessedAt:   result.Timestamp,
		CreatedAt:    createdAt,
	}, nil
}

func toDomainAssessment(m *models.Assessment) (domain.AssessmentResult, error) {
	var result domain.AssessmentResult
	if err := json.Unmarshal([]byte(m.Payload), &result); err != nil {
		return domain.AssessmentResult{}, fmt.Errorf("failed to unmarshal assessment %s payload: %w", m.ID, err)
	}
	// 요약 컬럼이 기준값
	result.ID = m.ID
	result.Version = util.NullStringValue(m.BankVersion)
	return result, nil
}

// Record inserts result and evicts the pet's oldest rows beyond the
// retention count in one transaction.
func (r *sqlxAssessmentRepository) Record(ctx context.Context, petID string, result *domain.AssessmentResult) error {
	if err := result.Validate(); err != nil {
		return err
	}
	model, err := toAssessmentModel(petID, result, r.now())
	if err != nil {
		return err
	}

	redFlags, err := model.RedFlags.Value()
	if err != nil {
		return fmt.Errorf("failed to convert red flags to string: %w", err)
	}

	return r.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		exec := GetExecutor(ctx, r.db)

		if _, err := exec.ExecContext(ctx, insertAssessmentQuery,
			model.ID,
			model.PetID,
			model.BankVersion,
			model.OverallScore,
			model.Level,
			redFlags,
			model.Payload,
			model.AssessedAt,
			model.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert assessment: %w", err)
		}

		res, err := exec.ExecContext(ctx, evictAssessmentsQuery, petID, petID, r.retention)
		if err != nil {
			return fmt.Errorf("failed to evict old assessments: %w", err)
		}
		if evicted, err := res.RowsAffected(); err == nil && evicted > 0 {
			logger.Get().Debug("Evicted old assessments", zap.String("pet_id", petID), zap.Int64("count", evicted))
		}
		return nil
	})
}

// Recent returns up to n of the pet's newest results, oldest first.
func (r *sqlxAssessmentRepository) Recent(ctx context.Context, petID string, n int) ([]domain.AssessmentResult, error) {
	if n <= 0 {
		return []domain.AssessmentResult{}, nil
	}
	if n > r.retention {
		n = r.retention
	}

	var rows []models.Assessment
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, recentAssessmentsQuery, petID, n); err != nil {
		return nil, fmt.Errorf("failed to query assessments for pet %s: %w", petID, err)
	}

	results := make([]domain.AssessmentResult, len(rows))
	for i := range rows {
		result, err := toDomainAssessment(&rows[i])
		if err != nil {
			return nil, err
		}
		// 쿼리는 최신순, 결과는 오래된 순
		results[len(rows)-1-i] = result
	}
	return results, nil
}
