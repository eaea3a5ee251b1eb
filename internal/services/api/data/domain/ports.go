package domain

import (
	"context"
	"encoding/json"
)

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	// Month returns the raw snapshot for (subject, period), not found when none was pushed
	Month(ctx context.Context, subjectID, period string) (json.RawMessage, error)

	// Replace overwrites the whole snapshot for (subject, period)
	Replace(ctx context.Context, subjectID, period string, raw json.RawMessage) error

	// Stats summarizes the stored month
	Stats(ctx context.Context, subjectID, period string) (MonthStats, error)

	// Today reads today's count for a subject from the current month snapshot
	Today(ctx context.Context, subjectID string) (TodayCount, error)
}
