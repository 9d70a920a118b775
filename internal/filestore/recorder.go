// Package filestore keeps assessment history in a single JSON document on
// local disk. It backs the assess CLI, where no database is available.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"pawcheck/internal/domain"
	"pawcheck/internal/logger"

	"go.uber.org/zap"
)

const documentVersion = 1

// document is the on-disk layout: per-pet history lists, newest last.
type document struct {
	Version int                                  `json:"version"`
	Pets    map[string][]domain.AssessmentResult `json:"pets"`
}

// Recorder implements domain.AssessmentRecorder on a JSON file guarded by
// a "<path>.lock" file lock.
type Recorder struct {
	path      string
	lockPath  string
	retention int
}

// NewRecorder returns a recorder writing to path and keeping at most
// retention results per pet.
func NewRecorder(path string, retention int) *Recorder {
	if retention <= 0 {
		retention = domain.DefaultHistoryLimit
	}
	return &Recorder{path: path, lockPath: path + ".lock", retention: retention}
}

// Path is the history file location.
func (r *Recorder) Path() string { return r.path }

func (r *Recorder) Record(ctx context.Context, petID string, result *domain.AssessmentResult) error {
	if err := result.Validate(); err != nil {
		return err
	}
	// a lock per call: flock handles held through one Flock are shared
	lock := newFileLock(r.lockPath)
	if err := lock.lock(ctx); err != nil {
		return err
	}
	defer func() {
		if err := lock.unlock(); err != nil {
			logger.Get().Warn("Failed to release history lock", zap.Error(err))
		}
	}()

	doc, err := r.read()
	if err != nil {
		return err
	}

	history := append(doc.Pets[petID], *result)
	if len(history) > r.retention {
		history = history[len(history)-r.retention:]
	}
	doc.Pets[petID] = history

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	// 잠금을 잡은 뒤에도 취소되었다면 기록하지 않는다
	if err := ctx.Err(); err != nil {
		return err
	}
	return replaceHistory(r.path, data)
}

func (r *Recorder) Recent(ctx context.Context, petID string, n int) ([]domain.AssessmentResult, error) {
	if n <= 0 {
		return []domain.AssessmentResult{}, nil
	}
	lock := newFileLock(r.lockPath)
	if err := lock.rlock(ctx); err != nil {
		return nil, err
	}
	defer func() {
		if err := lock.unlock(); err != nil {
			logger.Get().Warn("Failed to release history lock", zap.Error(err))
		}
	}()

	doc, err := r.read()
	if err != nil {
		return nil, err
	}
	history := doc.Pets[petID]
	if len(history) > n {
		history = history[len(history)-n:]
	}
	out := make([]domain.AssessmentResult, len(history))
	copy(out, history)
	return out, nil
}

// read loads the document. A missing file is an empty history.
func (r *Recorder) read() (*document, error) {
	doc := &document{Version: documentVersion, Pets: map[string][]domain.AssessmentResult{}}

	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history file %s: %w", r.path, err)
	}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to parse history file %s: %w", r.path, err)
	}
	if doc.Pets == nil {
		doc.Pets = map[string][]domain.AssessmentResult{}
	}
	return doc, nil
}
