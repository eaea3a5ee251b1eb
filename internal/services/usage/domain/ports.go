package domain

import (
	"context"

	settingsdom "chattally/internal/services/settings/domain"
)

// RecorderPort records confirmed usage
type RecorderPort interface {
	// Record increments the subject's counter for dateKey and appends r to the
	// day's history as one unit, returning the new count. Increments for the
	// same subject are serialized; storage errors propagate to the caller
	Record(ctx context.Context, subjectID, dateKey string, r Record) (int, error)
}

// ReaderPort serves counter and history reads
type ReaderPort interface {
	// CountOn returns the subject's count for one date key, zero when absent
	CountOn(ctx context.Context, subjectID, dateKey string) (int, error)

	// Month returns the subject's stats and history for a period (YYYY-MM)
	Month(ctx context.Context, subjectID, period string) (MonthData, error)

	// LastActiveSubject returns the subject with the most recent counter, for
	// callers that need a subject before any request-start has been seen
	LastActiveSubject(ctx context.Context) (string, bool, error)
}

// MergerPort folds remote month data into local storage
type MergerPort interface {
	// Absorb raises each local counter to max(local, remote) and appends the
	// remote history verbatim. History is concatenated, not deduplicated, so
	// absorbing the same remote month twice doubles its records
	Absorb(ctx context.Context, subjectID, period string, remote MonthData) error
}

// Notifier receives goal notifications from the recorder
type Notifier interface {
	GoalReached(ctx context.Context, subjectID string, goal int)
}

// Ports declares the inbound dependencies the usage module needs wired in.
// Notifier may be nil; Settings may not
type Ports struct {
	Settings settingsdom.ReaderPort
	Notifier Notifier
}
