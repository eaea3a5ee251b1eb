// Package domain defines the sync engine's ports
package domain

import (
	"context"

	usagedom "chattally/internal/services/usage/domain"
)

// EnginePort is the sync surface the tracker and its HTTP routes use
type EnginePort interface {
	// PullMerge fetches a subject's month from the remote store and folds it
	// into local storage. Absent remote data is not an error; found reports
	// whether anything came back
	PullMerge(ctx context.Context, subjectID, period string) (found bool, err error)

	// PushMonth dumps the subject's local month and replaces the remote copy
	PushMonth(ctx context.Context, subjectID, period string) error

	// PushCurrentMonth pushes the current calendar month detached from the
	// caller: it returns immediately and swallows failures
	PushCurrentMonth(ctx context.Context, subjectID string)
}

// ClientPort is the remote store client the engine drives
type ClientPort interface {
	Fetch(ctx context.Context, subjectID, period string) (usagedom.MonthData, bool, error)
	Push(ctx context.Context, subjectID, period string, data usagedom.MonthData) error
}

// Ports declares the inbound dependencies the sync module needs wired in
type Ports struct {
	Client ClientPort
	Reader usagedom.ReaderPort
	Merger usagedom.MergerPort
}
