// Package domain defines the types and interfaces for the success detector
package domain

import "time"

// Sentinel values fixed by the upstream protocol: a monitor event counts as a
// success confirmation only when both match
const (
	SuccessEventType = 3
	SuccessStepName  = "Client_ReveiceTokenToGenerate"
)

// DefaultWindow is how long a confirmation stays remembered: long enough for
// late model variants of the same message, and for suppressing re-delivery
const DefaultWindow = 10 * time.Minute

// Confirmation is a parsed success-confirmation event
type Confirmation struct {
	EventType int
	StepName  string
	RequestID string
}

// IsSuccess reports whether the event carries the success sentinels and an id
func (c Confirmation) IsSuccess() bool {
	return c.EventType == SuccessEventType && c.StepName == SuccessStepName && c.RequestID != ""
}

// Bucket names the two independent dedup tables
type Bucket string

const (
	// BucketConfirmed records that a request id's confirmation has been seen,
	// so model variants arriving just after the confirmation still count
	BucketConfirmed Bucket = "confirmed"

	// BucketProcessed records that a confirmation has been fully handled,
	// guarding against the monitor stream firing more than once per message
	BucketProcessed Bucket = "processed"
)
