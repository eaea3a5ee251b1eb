// Package capture classifies observed network requests into tracker events.
// The classifier works on URL shape alone; payloads are parsed only after a
// URL matched one of the two streams
package capture

import (
	"net/url"
	"strings"

	"chattally/internal/core/payload"
	confirmdom "chattally/internal/services/confirm/domain"
)

// Kind is the stream a captured request belongs to
type Kind int

const (
	// KindIgnored is everything the tracker does not care about
	KindIgnored Kind = iota

	// KindRequestStart is a streaming chat request (step one)
	KindRequestStart

	// KindConfirmation is a monitor log event (step two)
	KindConfirmation
)

// Config bounds which URLs the classifier accepts
type Config struct {
	// Hosts is an allowlist of hostnames; empty admits any host
	Hosts []string

	// PathSegment must appear somewhere in the path when set
	PathSegment string
}

// Classifier maps request URLs onto capture kinds
type Classifier struct {
	cfg Config
}

// NewClassifier constructs a Classifier
func NewClassifier(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify implements the two-stream URL match: a path containing
// /chats/streaming is a request-start, a path ending in /log/monitor under
// /api/system/ is a confirmation
func (c *Classifier) Classify(rawURL string) Kind {
	u, err := url.Parse(rawURL)
	if err != nil {
		return KindIgnored
	}
	if !c.hostAllowed(u.Hostname()) {
		return KindIgnored
	}
	if c.cfg.PathSegment != "" && !strings.Contains(u.Path, c.cfg.PathSegment) {
		return KindIgnored
	}
	switch {
	case strings.Contains(u.Path, "/chats/streaming"):
		return KindRequestStart
	case strings.HasSuffix(u.Path, "/log/monitor") && strings.Contains(u.Path, "/api/system/"):
		return KindConfirmation
	default:
		return KindIgnored
	}
}

func (c *Classifier) hostAllowed(host string) bool {
	if len(c.cfg.Hosts) == 0 {
		return true
	}
	for _, h := range c.cfg.Hosts {
		if strings.EqualFold(h, host) {
			return true
		}
	}
	return false
}

// RequestStart is the parsed step-one event
type RequestStart struct {
	SubjectID    string
	AnswerID     string
	RequestID    string
	Message      string
	ModelVariant string
}

// ParseRequestStart pulls the step-one fields from a raw body. ok is false
// when the payload misses a subject or both identifiers
func ParseRequestStart(raw []byte) (RequestStart, bool) {
	m := payload.Decode(raw)
	if m == nil {
		return RequestStart{}, false
	}
	rs := RequestStart{
		SubjectID:    payload.FieldSubject.String(m),
		AnswerID:     payload.FieldAnswerID.String(m),
		RequestID:    payload.FieldRequestID.String(m),
		Message:      payload.FieldMessage.String(m),
		ModelVariant: payload.FieldModelVariant.String(m),
	}
	if rs.SubjectID == "" || (rs.AnswerID == "" && rs.RequestID == "") {
		return RequestStart{}, false
	}
	return rs, true
}

// ParseConfirmation pulls the step-two fields from a raw body. ok is false
// when the payload is not an object; whether the event is a success is the
// detector's call, not the parser's
func ParseConfirmation(raw []byte) (confirmdom.Confirmation, bool) {
	m := payload.Decode(raw)
	if m == nil {
		return confirmdom.Confirmation{}, false
	}
	et, _ := payload.FieldEventType.Int(m)
	return confirmdom.Confirmation{
		EventType: et,
		StepName:  payload.FieldStepName.String(m),
		RequestID: payload.FieldRequestID.String(m),
	}, true
}
