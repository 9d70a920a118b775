package domain

import "context"

// DefaultHistoryLimit is the retention count used when none is configured.
const DefaultHistoryLimit = 20

// AssessmentRecorder persists completed assessments as a capacity-bounded,
// append-only history per pet. Implementations must refuse results that fail
// Validate and must never leave a partial record behind.
type AssessmentRecorder interface {
	// Record appends result to the pet's history, evicting the oldest
	// entries beyond the retention count.
	Record(ctx context.Context, petID string, result *AssessmentResult) error

	// Recent returns up to n of the newest results, newest last.
	Recent(ctx context.Context, petID string, n int) ([]AssessmentResult, error)
}
