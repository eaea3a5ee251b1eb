// Package service implements the success detector
package service

import (
	"context"
	"time"

	"chattally/internal/modkit/repokit"
	"chattally/internal/platform/logger"
	ptime "chattally/internal/platform/time"
	"chattally/internal/services/confirm/domain"
	"chattally/internal/services/confirm/repo"
	pendingdom "chattally/internal/services/pending/domain"
	usagedom "chattally/internal/services/usage/domain"
)

// Config for the success detector
type Config struct {
	// Window bounds both dedup tables; zero means domain.DefaultWindow
	Window time.Duration

	// Now overrides the detector clock; nil means time.Now
	Now func() time.Time
}

// Service implements domain.DetectorPort
type Service struct {
	db       repokit.TxRunner
	binder   repokit.Binder[repo.Storage]
	pending  pendingdom.StorePort
	recorder usagedom.RecorderPort
	pusher   domain.Pusher // optional
	cfg      Config

	now func() time.Time // seam for tests
}

// New constructs a new detector service. pusher may be nil
func New(
	db repokit.TxRunner,
	binder repokit.Binder[repo.Storage],
	pending pendingdom.StorePort,
	recorder usagedom.RecorderPort,
	pusher domain.Pusher,
	cfg Config,
) *Service {
	if cfg.Window <= 0 {
		cfg.Window = domain.DefaultWindow
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		db:       db,
		binder:   binder,
		pending:  pending,
		recorder: recorder,
		pusher:   pusher,
		cfg:      cfg,
		now:      now,
	}
}

// Reset implements domain.DetectorPort
func (s *Service) Reset(ctx context.Context) error {
	return s.binder.Bind(s.db).Reset(ctx)
}

// WasConfirmed implements domain.DetectorPort
func (s *Service) WasConfirmed(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	return s.binder.Bind(s.db).Seen(ctx, domain.BucketConfirmed, id, s.now(), s.cfg.Window)
}

// Handle implements domain.DetectorPort
func (s *Service) Handle(ctx context.Context, c domain.Confirmation) (int, error) {
	if !c.IsSuccess() {
		return 0, nil
	}
	st := s.binder.Bind(s.db)
	now := s.now()

	// idempotent re-delivery guard
	done, err := st.Seen(ctx, domain.BucketProcessed, c.RequestID, now, s.cfg.Window)
	if err != nil {
		return 0, err
	}
	if done {
		logger.C(ctx).Debug().Str("request_id", c.RequestID).Msg("confirmation already processed")
		return 0, nil
	}
	if err := st.Mark(ctx, domain.BucketProcessed, c.RequestID, now); err != nil {
		return 0, err
	}
	// remember the confirmation itself so late model variants still count
	if err := st.Mark(ctx, domain.BucketConfirmed, c.RequestID, now); err != nil {
		return 0, err
	}

	entries, err := s.pending.PopAllByEitherID(ctx, c.RequestID)
	if err != nil {
		return 0, err
	}

	day := ptime.DateKey(now)
	recorded := 0
	pushed := map[string]bool{}
	for _, e := range entries {
		if _, err := s.recorder.Record(ctx, e.SubjectID, day, usagedom.FromPending(e, c.RequestID)); err != nil {
			return recorded, err
		}
		recorded++
		if s.pusher != nil && !pushed[e.SubjectID] {
			pushed[e.SubjectID] = true
			s.pusher.PushCurrentMonth(ctx, e.SubjectID)
		}
	}
	if recorded > 0 {
		logger.C(ctx).Info().
			Str("request_id", c.RequestID).
			Int("entries", recorded).
			Msg("usage confirmed")
	}
	return recorded, nil
}
