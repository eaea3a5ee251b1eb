// Package service implements the sync engine
package service

import (
	"context"
	"time"

	perr "chattally/internal/platform/errors"
	"chattally/internal/platform/logger"
	ptime "chattally/internal/platform/time"
	"chattally/internal/services/sync/domain"
	usagedom "chattally/internal/services/usage/domain"
)

// pushTimeout bounds a detached push; the caller is long gone by then
const pushTimeout = 30 * time.Second

// Service implements domain.EnginePort
type Service struct {
	client domain.ClientPort
	reader usagedom.ReaderPort
	merger usagedom.MergerPort

	now func() time.Time // seam for tests

	// spawn runs the detached push; tests swap it for a synchronous call
	spawn func(func())
}

// New constructs a new sync engine
func New(client domain.ClientPort, reader usagedom.ReaderPort, merger usagedom.MergerPort) *Service {
	return &Service{
		client: client,
		reader: reader,
		merger: merger,
		now:    time.Now,
		spawn:  func(fn func()) { go fn() },
	}
}

// PullMerge implements domain.EnginePort
func (s *Service) PullMerge(ctx context.Context, subjectID, period string) (bool, error) {
	if subjectID == "" || !ptime.ValidPeriod(period) {
		return false, perr.Newf(perr.ErrorCodeInvalidArgument, "bad subject or period %q", period)
	}
	remote, found, err := s.client.Fetch(ctx, subjectID, period)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	if err := s.merger.Absorb(ctx, subjectID, period, remote); err != nil {
		return true, err
	}
	return true, nil
}

// PushMonth implements domain.EnginePort
func (s *Service) PushMonth(ctx context.Context, subjectID, period string) error {
	if subjectID == "" || !ptime.ValidPeriod(period) {
		return perr.Newf(perr.ErrorCodeInvalidArgument, "bad subject or period %q", period)
	}
	dump, err := s.reader.Month(ctx, subjectID, period)
	if err != nil {
		return err
	}
	return s.client.Push(ctx, subjectID, period, dump)
}

// PushCurrentMonth implements domain.EnginePort. The push runs detached from
// the caller's context and failures only make it into the log
func (s *Service) PushCurrentMonth(ctx context.Context, subjectID string) {
	if subjectID == "" {
		return
	}
	period := ptime.PeriodKey(s.now())
	log := logger.C(ctx)
	s.spawn(func() {
		pctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
		defer cancel()
		if err := s.PushMonth(pctx, subjectID, period); err != nil {
			log.Warn().Err(err).
				Str("subject_id", subjectID).
				Str("period", period).
				Msg("background push failed")
		}
	})
}
