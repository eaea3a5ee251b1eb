// Package domain defines the usage record types shared across services
package domain

import (
	"time"

	pendingdom "chattally/internal/services/pending/domain"
)

// Record is one confirmed usage event. JSON field names follow the sync wire
// format, so a month dump round-trips through the remote store unchanged
type Record struct {
	ID           string    `json:"id"`
	RecordedAt   time.Time `json:"timestamp"`
	RequestID    string    `json:"messageId"`
	Message      string    `json:"message"`
	ModelVariant string    `json:"modelCode"`
}

// FromPending builds a Record out of a resolved pending entry. The
// confirmation's request id wins over whatever the entry carried; ID and
// RecordedAt are stamped by the recorder
func FromPending(e pendingdom.Entry, requestID string) Record {
	if requestID == "" {
		requestID = e.RequestID
	}
	return Record{
		RequestID:    requestID,
		Message:      e.Message,
		ModelVariant: e.ModelVariant,
	}
}

// MonthData is one subject's month of counters and history, keyed by date
// (YYYY-MM-DD). It is both the sync payload and the read-model for the month
// endpoints
type MonthData struct {
	Stats   map[string]int      `json:"stats"`
	History map[string][]Record `json:"history"`
}

// Empty reports whether the month holds no data at all
func (m MonthData) Empty() bool {
	return len(m.Stats) == 0 && len(m.History) == 0
}
