package domain

import (
	"fmt"
	"time"
)

// Level is the overall severity of an assessment.
type Level string

const (
	LevelNormal Level = "normal"
	LevelMid    Level = "mid"
	LevelWarn   Level = "warn"
	LevelUrgent Level = "urgent"
)

// Valid reports whether l is a known level.
func (l Level) Valid() bool {
	switch l {
	case LevelNormal, LevelMid, LevelWarn, LevelUrgent:
		return true
	}
	return false
}

// Confidence ranks how strongly an answer pattern points at a suspicion.
type Confidence int

const (
	ConfidenceLow    Confidence = 1
	ConfidenceMedium Confidence = 2
	ConfidenceHigh   Confidence = 3
)

// MaxSuspectsPerCategory bounds the suspects reported for one category.
const MaxSuspectsPerCategory = 3

// Suspicion is a named candidate condition. It is advisory only.
type Suspicion struct {
	Name       string     `json:"name"`
	Reason     string     `json:"reason"`
	Confidence Confidence `json:"confidence"`
}

// ScoreReport is the output of the scoring engine.
type ScoreReport struct {
	PerCategory  map[Category]int      `json:"perCategory"`
	OverallScore int                   `json:"overallScore"`
	Level        Level                 `json:"level"`
	RedFlags     []string              `json:"redFlags"`
	Evidence     map[Category][]string `json:"evidence"`
}

// AssessmentResult is one completed self-assessment.
type AssessmentResult struct {
	ID           string                   `json:"id"`
	Timestamp    time.Time                `json:"timestamp"`
	PerCategory  map[Category]int         `json:"perCategory"`
	OverallScore int                      `json:"overallScore"`
	Level        Level                    `json:"level"`
	RedFlags     []string                 `json:"redFlags"`
	Evidence     map[Category][]string    `json:"evidence"`
	Suspects     map[Category][]Suspicion `json:"suspects"`
	Version      string                   `json:"version"`
}

// NewAssessmentResult merges the two independent engine outputs.
func NewAssessmentResult(id string, at time.Time, version string, report ScoreReport, suspects map[Category][]Suspicion) *AssessmentResult {
	return &AssessmentResult{
		ID:           id,
		Timestamp:    at,
		PerCategory:  report.PerCategory,
		OverallScore: report.OverallScore,
		Level:        report.Level,
		RedFlags:     report.RedFlags,
		Evidence:     report.Evidence,
		Suspects:     suspects,
		Version:      version,
	}
}

// Validate checks the invariants every stored result must hold.
func (r *AssessmentResult) Validate() error {
	if r == nil {
		return NewInvalidResultError("result is nil")
	}
	if r.ID == "" {
		return NewInvalidResultError("result id is required")
	}
	if r.Timestamp.IsZero() {
		return NewInvalidResultError("result timestamp is required")
	}
	for _, c := range DisplayCategories {
		score, ok := r.PerCategory[c]
		if !ok {
			return NewInvalidResultError(fmt.Sprintf("missing score for category %s", c))
		}
		if score < 0 || score > 100 {
			return NewInvalidResultError(fmt.Sprintf("score %d for category %s out of range", score, c))
		}
	}
	if r.OverallScore < 0 || r.OverallScore > 100 {
		return NewInvalidResultError(fmt.Sprintf("overall score %d out of range", r.OverallScore))
	}
	if !r.Level.Valid() {
		return NewInvalidResultError(fmt.Sprintf("unknown level %q", r.Level))
	}
	if (len(r.RedFlags) > 0) != (r.Level == LevelUrgent) {
		return NewInvalidResultError("level must be urgent exactly when red flags fired")
	}
	for c, list := range r.Suspects {
		if len(list) > MaxSuspectsPerCategory {
			return NewInvalidResultError(fmt.Sprintf("too many suspects for category %s", c))
		}
		seen := make(map[string]struct{}, len(list))
		for _, s := range list {
			if _, dup := seen[s.Name]; dup {
				return NewInvalidResultError(fmt.Sprintf("duplicate suspect %q in category %s", s.Name, c))
			}
			seen[s.Name] = struct{}{}
		}
	}
	return nil
}
