// Package httpkit provides tiny HTTP helpers and adapters
package httpkit

import (
	"crypto/subtle"
	"net/http"
	"strings"

	perrs "chattally/internal/platform/errors"
)

// HeaderPort implements middleware.AuthPort by comparing a fixed header
// against a shared secret. An empty secret rejects everything
type HeaderPort struct {
	header string
	secret string
}

// NewHeaderPort builds a HeaderPort for the given header name and secret
func NewHeaderPort(header, secret string) *HeaderPort {
	return &HeaderPort{header: header, secret: secret}
}

// Parse accepts the request when the header carries the shared secret
func (p *HeaderPort) Parse(r *http.Request) (string, string, error) {
	tok := strings.TrimSpace(r.Header.Get(p.header))
	if p.secret == "" || tok == "" {
		return "", "", perrs.Unauthorizedf("missing auth token")
	}
	if subtle.ConstantTimeCompare([]byte(tok), []byte(p.secret)) != 1 {
		return "", "", perrs.Unauthorizedf("invalid auth token")
	}
	return "", "", nil
}
