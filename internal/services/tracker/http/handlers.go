// Package http provides http transport for the tracker
package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"

	"chattally/internal/modkit/httpkit"
	"chattally/internal/services/tracker/domain"
)

// Register mounts tracker endpoints on the given router
func Register(r httpkit.Router, engine domain.EnginePort) {
	h := &handlers{engine: engine}

	// capture sources post observed requests here
	httpkit.PostJSON[domain.CaptureInput](r, "/capture", h.capture)

	// on-demand remote month pull
	httpkit.PostJSON[domain.FetchInput](r, "/sync/fetch", h.fetch)

	// badge read: today's count vs goal
	httpkit.Get(r, "/status/{subjectId}", h.status)
}

type handlers struct{ engine domain.EnginePort }

// @Summary Submit an observed request
// @Tags Tracker
// @Accept json
// @Produce json
// @Param payload body domain.CaptureInput true "Observed request"
// @Success 200 {object} map[string]bool "ok"
// @Router /capture [post]
func (h *handlers) capture(r *stdhttp.Request, in domain.CaptureInput) (any, error) {
	ev := domain.Event{URL: in.URL, Body: in.Body}
	if err := h.engine.Submit(r.Context(), ev); err != nil {
		return nil, err
	}
	return map[string]bool{"accepted": true}, nil
}

// @Summary Pull one remote month and merge it in
// @Tags Tracker
// @Accept json
// @Produce json
// @Param payload body domain.FetchInput true "Subject and period"
// @Success 200 {object} domain.FetchResult "ok"
// @Router /sync/fetch [post]
func (h *handlers) fetch(r *stdhttp.Request, in domain.FetchInput) (any, error) {
	return h.engine.FetchPeriod(r.Context(), in.SubjectID, in.Period)
}

// @Summary Today's count against the goal for one subject
// @Tags Tracker
// @Produce json
// @Param subjectId path string true "Subject"
// @Success 200 {object} domain.Status "ok"
// @Router /status/{subjectId} [get]
func (h *handlers) status(r *stdhttp.Request) (any, error) {
	return h.engine.Status(r.Context(), chi.URLParam(r, "subjectId"))
}
