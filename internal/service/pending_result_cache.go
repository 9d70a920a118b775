package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"pawcheck/internal/cache"
	"pawcheck/internal/domain"
	"pawcheck/internal/logger"
	"time"

	"go.uber.org/zap"
)

// ErrPendingResultNotFound is returned when an evaluated result is no longer cached.
var ErrPendingResultNotFound = errors.New("pending result not found in cache")

// PendingResultCache holds evaluated results until they are recorded, so a
// failed write can be committed again without trusting a client-sent result.
type PendingResultCache interface {
	Put(ctx context.Context, result *domain.AssessmentResult) error
	Get(ctx context.Context, resultID string) (*domain.AssessmentResult, error)
	Delete(ctx context.Context, resultID string) error
}

type pendingResultCacheImpl struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewPendingResultCache creates a PendingResultCache on top of cache.
// A nil cache yields a no-op implementation.
func NewPendingResultCache(cache domain.Cache, ttl time.Duration) PendingResultCache {
	if cache == nil {
		logger.Get().Warn("PendingResultCache initialized with nil cache. Failed writes cannot be committed again.")
		return &noopPendingResultCache{}
	}
	return &pendingResultCacheImpl{
		cache: cache,
		ttl:   ttl,
	}
}

func (s *pendingResultCacheImpl) Put(ctx context.Context, result *domain.AssessmentResult) error {
	if result == nil {
		return domain.NewInvalidInputError("cannot cache nil result")
	}

	key := cache.PendingResultKey(result.ID)
	dataBytes, err := json.Marshal(result)
	if err != nil {
		logger.Get().Error("Failed to marshal pending result", zap.Error(err), zap.String("result_id", result.ID))
		return domain.NewInternalError("failed to marshal result for caching", err)
	}

	if err := s.cache.Set(ctx, key, string(dataBytes), s.ttl); err != nil {
		logger.Get().Error("Failed to cache pending result", zap.Error(err), zap.String("key", key))
		return domain.NewInternalError(fmt.Sprintf("failed to set pending result to cache for key %s", key), err)
	}
	logger.Get().Debug("Cached pending result", zap.String("key", key), zap.Duration("ttl", s.ttl))
	return nil
}

func (s *pendingResultCacheImpl) Get(ctx context.Context, resultID string) (*domain.AssessmentResult, error) {
	key := cache.PendingResultKey(resultID)
	dataString, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Debug("Pending result cache miss", zap.String("key", key))
			return nil, ErrPendingResultNotFound
		}
		logger.Get().Error("Failed to get pending result from cache", zap.Error(err), zap.String("key", key))
		return nil, domain.NewInternalError(fmt.Sprintf("failed to get pending result from cache for key %s", key), err)
	}
	if dataString == "" {
		return nil, ErrPendingResultNotFound
	}

	var result domain.AssessmentResult
	if err := json.Unmarshal([]byte(dataString), &result); err != nil {
		logger.Get().Error("Failed to unmarshal pending result", zap.Error(err), zap.String("key", key))
		return nil, domain.NewInternalError(fmt.Sprintf("failed to unmarshal result from cache for key %s", key), err)
	}
	return &result, nil
}

func (s *pendingResultCacheImpl) Delete(ctx context.Context, resultID string) error {
	key := cache.PendingResultKey(resultID)
	if err := s.cache.Delete(ctx, key); err != nil {
		return domain.NewInternalError(fmt.Sprintf("failed to delete pending result for key %s", key), err)
	}
	return nil
}

// noopPendingResultCache is used when no cache is configured.
type noopPendingResultCache struct{}

func (s *noopPendingResultCache) Put(ctx context.Context, result *domain.AssessmentResult) error {
	return nil
}

func (s *noopPendingResultCache) Get(ctx context.Context, resultID string) (*domain.AssessmentResult, error) {
	return nil, ErrPendingResultNotFound
}

func (s *noopPendingResultCache) Delete(ctx context.Context, resultID string) error {
	return nil
}
