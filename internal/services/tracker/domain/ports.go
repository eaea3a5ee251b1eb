package domain

import (
	"context"

	confirmdom "chattally/internal/services/confirm/domain"
	pendingdom "chattally/internal/services/pending/domain"
	settingsdom "chattally/internal/services/settings/domain"
	syncdom "chattally/internal/services/sync/domain"
	usagedom "chattally/internal/services/usage/domain"
)

// EnginePort is the tracker's public surface
type EnginePort interface {
	// Submit hands an observed request to the event loop. It blocks until the
	// loop accepts the event or ctx is done; events are processed one at a
	// time in arrival order
	Submit(ctx context.Context, ev Event) error

	// Run processes events until ctx is done. Call Bootstrap first
	Run(ctx context.Context) error

	// Bootstrap resets the session-scoped stores and pulls the current month
	// for the last known subject
	Bootstrap(ctx context.Context) error

	// Status reports a subject's progress against today's goal
	Status(ctx context.Context, subjectID string) (Status, error)

	// FetchPeriod pulls one remote month on demand and merges it in
	FetchPeriod(ctx context.Context, subjectID, period string) (FetchResult, error)
}

// SubjectPort tracks the current subject across restarts
type SubjectPort interface {
	// SetCurrent remembers the subject seen on the latest request-start
	SetCurrent(ctx context.Context, subjectID string) error

	// Current returns the remembered subject, or falls back to the subject
	// with the most recent recorded usage
	Current(ctx context.Context) (string, bool, error)
}

// Ports declares the inbound dependencies the tracker module needs wired in
type Ports struct {
	Settings settingsdom.ReaderPort
	Pending  pendingdom.StorePort
	Detector confirmdom.DetectorPort
	Reader   usagedom.ReaderPort
	Recorder usagedom.RecorderPort
	Sync     syncdom.EnginePort
	Notifier Notifier
}

// Notifier is the reminder surface the tracker drives on its minute cadence
type Notifier interface {
	Reminder(ctx context.Context, subjectID string, count, goal int)
	NoData(ctx context.Context)
}
