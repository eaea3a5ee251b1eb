// Package http provides the options surface for settings
package http

import (
	stdhttp "net/http"

	"chattally/internal/modkit/httpkit"
	"chattally/internal/services/settings/domain"
)

// Register mounts the settings endpoints on the given router
func Register(r httpkit.Router, reader domain.ReaderPort, writer domain.WriterPort) {
	h := &handlers{reader: reader, writer: writer}

	httpkit.Get(r, "/settings", h.get)
	httpkit.PutJSON[domain.Settings](r, "/settings", h.put)
}

type handlers struct {
	reader domain.ReaderPort
	writer domain.WriterPort
}

// @Summary Current engine settings
// @Tags Settings
// @Produce json
// @Success 200 {object} domain.Settings "ok"
// @Router /settings [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	return h.reader.Get(r.Context())
}

// @Summary Save settings
// @Tags Settings
// @Accept json
// @Produce json
// @Param payload body domain.Settings true "Settings"
// @Success 200 {object} domain.Settings "ok"
// @Router /settings [put]
func (h *handlers) put(r *stdhttp.Request, in domain.Settings) (any, error) {
	// zero-valued fields fall back to the defaults on the next read
	if err := h.writer.Save(r.Context(), in); err != nil {
		return nil, err
	}
	return h.reader.Get(r.Context())
}
