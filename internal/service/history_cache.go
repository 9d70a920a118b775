package service

import (
	"context"
	"encoding/json"
	"fmt"
	"pawcheck/internal/cache"
	"pawcheck/internal/domain"
	"pawcheck/internal/logger"

	"go.uber.org/zap"
)

// redisHistoryRecorder keeps each pet's history in a capped cache list.
type redisHistoryRecorder struct {
	cache     domain.Cache
	retention int
}

// NewCacheHistoryRecorder returns a domain.AssessmentRecorder backed by
// cache lists. Append and trim happen in one atomic step.
func NewCacheHistoryRecorder(cache domain.Cache, retention int) domain.AssessmentRecorder {
	if retention <= 0 {
		retention = domain.DefaultHistoryLimit
	}
	return &redisHistoryRecorder{cache: cache, retention: retention}
}

func (r *redisHistoryRecorder) Record(ctx context.Context, petID string, result *domain.AssessmentResult) error {
	if err := result.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal assessment %s: %w", result.ID, err)
	}
	key := cache.HistoryKey(petID)
	if err := r.cache.AppendCapped(ctx, key, string(data), int64(r.retention)); err != nil {
		return fmt.Errorf("failed to append assessment to %s: %w", key, err)
	}
	return nil
}

func (r *redisHistoryRecorder) Recent(ctx context.Context, petID string, n int) ([]domain.AssessmentResult, error) {
	if n <= 0 {
		return []domain.AssessmentResult{}, nil
	}
	if n > r.retention {
		n = r.retention
	}
	key := cache.HistoryKey(petID)
	entries, err := r.cache.ListTail(ctx, key, int64(n))
	if err != nil {
		return nil, fmt.Errorf("failed to read history %s: %w", key, err)
	}

	results := make([]domain.AssessmentResult, 0, len(entries))
	for _, entry := range entries {
		var result domain.AssessmentResult
		if err := json.Unmarshal([]byte(entry), &result); err != nil {
			// 손상된 항목은 건너뛰고 나머지 이력은 반환
			logger.Get().Warn("Skipping unreadable history entry", zap.String("key", key), zap.Error(err))
			continue
		}
		results = append(results, result)
	}
	return results, nil
}
