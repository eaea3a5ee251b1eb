// Package http provides http transport for the data store
package http

import (
	"io"
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"

	"chattally/internal/modkit/httpkit"
	perr "chattally/internal/platform/errors"
	"chattally/internal/services/api/data/domain"
	svc "chattally/internal/services/api/data/service"
)

// mirror of the original express json body limit
const maxBodyBytes = 1 << 20

// Register mounts data store endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// month snapshot pull and full replace
	httpkit.Get(r, "/{subjectId}", h.month)
	httpkit.Post(r, "/{subjectId}", h.replace)

	// popup reads
	httpkit.Get(r, "/{subjectId}/stats", h.stats)
	httpkit.Get(r, "/{subjectId}/today", h.today)
}

type handlers struct{ svc svc.Service }

// @Summary Month snapshot for one subject
// @Tags Data
// @Produce json
// @Param subjectId path string true "Subject"
// @Param period query string true "Period YYYY-MM"
// @Success 200 {object} map[string]any "ok"
// @Failure 404 {object} map[string]any "no snapshot"
// @Router /data/{subjectId} [get]
func (h *handlers) month(r *stdhttp.Request) (any, error) {
	return h.svc.Month(r.Context(), chi.URLParam(r, "subjectId"), r.URL.Query().Get("period"))
}

// @Summary Overwrite a month snapshot
// @Tags Data
// @Accept json
// @Produce json
// @Param subjectId path string true "Subject"
// @Param period query string true "Period YYYY-MM"
// @Success 200 {object} domain.ReplaceResult "ok"
// @Router /data/{subjectId} [post]
func (h *handlers) replace(r *stdhttp.Request) (any, error) {
	// body is stored verbatim, so it bypasses the struct validator
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "read snapshot body")
	}
	if err := h.svc.Replace(r.Context(), chi.URLParam(r, "subjectId"), r.URL.Query().Get("period"), raw); err != nil {
		return nil, err
	}
	return domain.ReplaceResult{Status: "success"}, nil
}

// @Summary Month stats summary for one subject
// @Tags Data
// @Produce json
// @Param subjectId path string true "Subject"
// @Param period query string true "Period YYYY-MM"
// @Success 200 {object} domain.MonthStats "ok"
// @Router /data/{subjectId}/stats [get]
func (h *handlers) stats(r *stdhttp.Request) (any, error) {
	return h.svc.Stats(r.Context(), chi.URLParam(r, "subjectId"), r.URL.Query().Get("period"))
}

// @Summary Today's count for one subject
// @Tags Data
// @Produce json
// @Param subjectId path string true "Subject"
// @Success 200 {object} domain.TodayCount "ok"
// @Router /data/{subjectId}/today [get]
func (h *handlers) today(r *stdhttp.Request) (any, error) {
	return h.svc.Today(r.Context(), chi.URLParam(r, "subjectId"))
}
