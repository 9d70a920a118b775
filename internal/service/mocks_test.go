package service

import (
	"context"
	"time"

	"pawcheck/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockAssessmentRecorder ---
type MockAssessmentRecorder struct {
	mock.Mock
}

func (m *MockAssessmentRecorder) Record(ctx context.Context, petID string, result *domain.AssessmentResult) error {
	args := m.Called(ctx, petID, result)
	return args.Error(0)
}

func (m *MockAssessmentRecorder) Recent(ctx context.Context, petID string, n int) ([]domain.AssessmentResult, error) {
	args := m.Called(ctx, petID, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AssessmentResult), args.Error(1)
}

// --- MockPendingResultCache ---
type MockPendingResultCache struct {
	mock.Mock
}

func (m *MockPendingResultCache) Put(ctx context.Context, result *domain.AssessmentResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockPendingResultCache) Get(ctx context.Context, resultID string) (*domain.AssessmentResult, error) {
	args := m.Called(ctx, resultID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AssessmentResult), args.Error(1)
}

func (m *MockPendingResultCache) Delete(ctx context.Context, resultID string) error {
	args := m.Called(ctx, resultID)
	return args.Error(0)
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCache) AppendCapped(ctx context.Context, key string, value string, capacity int64) error {
	args := m.Called(ctx, key, value, capacity)
	return args.Error(0)
}

func (m *MockCache) ListTail(ctx context.Context, key string, n int64) ([]string, error) {
	args := m.Called(ctx, key, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
