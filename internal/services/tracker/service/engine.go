// Package service implements the tracker engine
package service

import (
	"context"
	"time"

	"chattally/internal/adapters/capture"
	"chattally/internal/core/textfilter"
	perr "chattally/internal/platform/errors"
	"chattally/internal/platform/logger"
	ptime "chattally/internal/platform/time"
	pendingdom "chattally/internal/services/pending/domain"
	"chattally/internal/services/tracker/domain"
	usagedom "chattally/internal/services/usage/domain"
)

// defaultQueueSize bounds how many capture events can sit waiting for the
// loop; Submit blocks once it is full
const defaultQueueSize = 256

// Engine implements domain.EnginePort. All event handling happens on one
// goroutine, so pending-store mutations from the two streams never interleave
type Engine struct {
	ports   domain.Ports
	subject domain.SubjectPort
	class   *capture.Classifier

	events chan domain.Event
	log    logger.Logger
	now    func() time.Time // seam for tests
}

// NewEngine constructs a tracker engine
func NewEngine(ports domain.Ports, subject domain.SubjectPort, class *capture.Classifier) *Engine {
	return &Engine{
		ports:   ports,
		subject: subject,
		class:   class,
		events:  make(chan domain.Event, defaultQueueSize),
		log:     *logger.Named("tracker"),
		now:     time.Now,
	}
}

// Submit implements domain.EnginePort
func (e *Engine) Submit(ctx context.Context, ev domain.Event) error {
	if ev.ReceivedAt.IsZero() {
		ev.ReceivedAt = e.now()
	}
	select {
	case e.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run implements domain.EnginePort
func (e *Engine) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-e.events:
			e.dispatch(ctx, ev)
		}
	}
}

// Bootstrap implements domain.EnginePort. Session-scoped state never survives
// a restart; persistent counters do, and the remote copy of the current month
// is folded in when a subject is already known
func (e *Engine) Bootstrap(ctx context.Context) error {
	if err := e.ports.Pending.Reset(ctx); err != nil {
		return err
	}
	if err := e.ports.Detector.Reset(ctx); err != nil {
		return err
	}

	subject, found, err := e.subject.Current(ctx)
	if err != nil {
		e.log.Warn().Err(err).Msg("current subject unavailable, skipping startup pull")
		return nil
	}
	if !found {
		return nil
	}
	period := ptime.PeriodKey(e.now())
	if _, err := e.ports.Sync.PullMerge(ctx, subject, period); err != nil {
		e.log.Warn().Err(err).
			Str("subject_id", subject).
			Str("period", period).
			Msg("startup pull failed")
	}
	return nil
}

func (e *Engine) dispatch(ctx context.Context, ev domain.Event) {
	switch e.class.Classify(ev.URL) {
	case capture.KindRequestStart:
		e.handleRequestStart(ctx, ev)
	case capture.KindConfirmation:
		e.handleConfirmation(ctx, ev)
	}
}

func (e *Engine) handleRequestStart(ctx context.Context, ev domain.Event) {
	rs, ok := capture.ParseRequestStart(ev.Body)
	if !ok {
		return
	}
	if err := e.subject.SetCurrent(ctx, rs.SubjectID); err != nil {
		e.log.Warn().Err(err).Msg("current subject not persisted")
	}

	set, err := e.ports.Settings.Get(ctx)
	if err != nil {
		e.log.Error().Err(err).Msg("settings unavailable, request-start dropped")
		return
	}
	if !textfilter.Eligible(rs.Message, set.MinWordCount, set.BlockedPhrases) {
		e.log.Debug().Str("subject_id", rs.SubjectID).Msg("message filtered out")
		return
	}

	entry := pendingdom.Entry{
		SubjectID:    rs.SubjectID,
		CreatedAt:    ev.ReceivedAt,
		AnswerID:     rs.AnswerID,
		RequestID:    rs.RequestID,
		Message:      rs.Message,
		ModelVariant: rs.ModelVariant,
	}
	if err := e.ports.Pending.Put(ctx, entry); err != nil {
		e.log.Error().Err(err).Msg("pending put failed")
		return
	}
	e.log.Debug().
		Str("subject_id", rs.SubjectID).
		Str("group", entry.GroupKey()).
		Msg("pending entry stored")

	e.resolveIfConfirmed(ctx, entry)
}

// resolveIfConfirmed covers the late model variant: a request-start stored
// after its message's confirmation already fired still counts while the
// confirmation window holds
func (e *Engine) resolveIfConfirmed(ctx context.Context, entry pendingdom.Entry) {
	for _, id := range []string{entry.RequestID, entry.AnswerID} {
		if id == "" {
			continue
		}
		done, err := e.ports.Detector.WasConfirmed(ctx, id)
		if err != nil {
			e.log.Warn().Err(err).Msg("confirmation lookup failed")
			return
		}
		if !done {
			continue
		}
		entries, err := e.ports.Pending.PopAllByEitherID(ctx, id)
		if err != nil {
			e.log.Error().Err(err).Msg("late variant pop failed")
			return
		}
		day := ptime.DateKey(e.now())
		pushed := map[string]bool{}
		for _, p := range entries {
			if _, err := e.ports.Recorder.Record(ctx, p.SubjectID, day, usagedom.FromPending(p, id)); err != nil {
				e.log.Error().Err(err).Msg("late variant record failed")
				return
			}
			if !pushed[p.SubjectID] {
				pushed[p.SubjectID] = true
				e.ports.Sync.PushCurrentMonth(ctx, p.SubjectID)
			}
		}
		if len(entries) > 0 {
			e.log.Info().Str("request_id", id).Int("entries", len(entries)).
				Msg("late variant counted against earlier confirmation")
		}
		return
	}
}

func (e *Engine) handleConfirmation(ctx context.Context, ev domain.Event) {
	c, ok := capture.ParseConfirmation(ev.Body)
	if !ok {
		return
	}
	if _, err := e.ports.Detector.Handle(ctx, c); err != nil {
		e.log.Error().Err(err).Str("request_id", c.RequestID).Msg("confirmation handling failed")
	}
}

// Status implements domain.EnginePort
func (e *Engine) Status(ctx context.Context, subjectID string) (domain.Status, error) {
	if subjectID == "" {
		return domain.Status{}, perr.New(perr.ErrorCodeInvalidArgument, "missing subject")
	}
	set, err := e.ports.Settings.Get(ctx)
	if err != nil {
		return domain.Status{}, err
	}
	day := ptime.DateKey(e.now())
	count, err := e.ports.Reader.CountOn(ctx, subjectID, day)
	if err != nil {
		return domain.Status{}, err
	}
	return domain.Status{
		SubjectID: subjectID,
		Date:      day,
		Count:     count,
		Goal:      set.DailyGoal,
	}, nil
}

// FetchPeriod implements domain.EnginePort
func (e *Engine) FetchPeriod(ctx context.Context, subjectID, period string) (domain.FetchResult, error) {
	found, err := e.ports.Sync.PullMerge(ctx, subjectID, period)
	if err != nil {
		return domain.FetchResult{}, err
	}
	return domain.FetchResult{Found: found}, nil
}
