// Package domain defines the tracker engine's types and ports
package domain

import (
	"encoding/json"
	"time"
)

// Event is one observed network request handed to the engine. The body is
// whatever the capture source saw; classification and parsing happen inside
// the event loop
type Event struct {
	URL        string
	Body       []byte
	ReceivedAt time.Time
}

// Status is what a badge or popup renders for one subject
type Status struct {
	SubjectID string `json:"subjectId"`
	Date      string `json:"date"`
	Count     int    `json:"count"`
	Goal      int    `json:"goal"`
}

// FetchResult reports an on-demand period pull
type FetchResult struct {
	Found bool `json:"found"`
}

// CaptureInput is one observed request posted by a capture source
type CaptureInput struct {
	URL  string          `json:"url" validate:"required,url" example:"https://chat.example.com/oneai/chats/streaming"`
	Body json.RawMessage `json:"body,omitempty"`
}

// FetchInput asks for one remote month to be pulled and merged
type FetchInput struct {
	SubjectID string `json:"subjectId" validate:"required,min=1,max=100" example:"E12345"`
	Period    string `json:"period" validate:"required,len=7" example:"2025-06"`
}
