// Package domain defines the types and interfaces for the pending
// correlation store
package domain

import (
	"sort"
	"strings"
	"time"
)

// Entry is a provisional usage event: a request-start was seen and passed the
// filter, and we are waiting for its success confirmation. At least one of
// AnswerID/RequestID is always set; the same logical message may be known by
// either or both
type Entry struct {
	SubjectID    string
	CreatedAt    time.Time
	AnswerID     string
	RequestID    string
	Message      string
	ModelVariant string
}

// HasID reports whether the entry carries the given identifier in either slot
func (e Entry) HasID(id string) bool {
	return id != "" && (e.AnswerID == id || e.RequestID == id)
}

// Valid reports whether the entry satisfies the store invariant
func (e Entry) Valid() bool {
	return e.SubjectID != "" && (e.AnswerID != "" || e.RequestID != "")
}

// GroupKey derives the deterministic key for the entry's logical message: the
// known identifiers sorted lexically and joined. Entries for different model
// variants of one message share a group when their identifiers coincide
func (e Entry) GroupKey() string {
	return GroupKey(e.AnswerID, e.RequestID)
}

// GroupKey builds a group key from up to two identifiers
func GroupKey(answerID, requestID string) string {
	parts := make([]string, 0, 2)
	if answerID != "" {
		parts = append(parts, answerID)
	}
	if requestID != "" {
		parts = append(parts, requestID)
	}
	sort.Strings(parts)
	return strings.Join(parts, "||")
}
