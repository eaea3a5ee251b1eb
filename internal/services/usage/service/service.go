// Package service implements the usage recorder
package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"chattally/internal/modkit/repokit"
	"chattally/internal/platform/logger"
	"chattally/internal/platform/store"
	ptime "chattally/internal/platform/time"
	"chattally/internal/services/usage/domain"
	"chattally/internal/services/usage/repo"
)

// AuditTable is the ClickHouse table confirmed usage events land in when an
// audit sink is configured
const AuditTable = "usage_events"

// Service implements domain.RecorderPort, domain.ReaderPort and
// domain.MergerPort
type Service struct {
	db     repokit.TxRunner
	binder repokit.Binder[repo.Storage]
	ports  domain.Ports
	audit  store.Clickhouse // optional; nil disables the audit sink

	lockmu sync.Mutex
	locks  map[string]*sync.Mutex

	now func() time.Time // seam for tests
}

// New constructs a new usage service. audit may be nil
func New(
	db repokit.TxRunner,
	binder repokit.Binder[repo.Storage],
	ports domain.Ports,
	audit store.Clickhouse,
) *Service {
	return &Service{
		db:     db,
		binder: binder,
		ports:  ports,
		audit:  audit,
		locks:  make(map[string]*sync.Mutex),
		now:    time.Now,
	}
}

// subjectLock returns the mutex serializing writes for one subject
func (s *Service) subjectLock(subjectID string) *sync.Mutex {
	s.lockmu.Lock()
	defer s.lockmu.Unlock()
	mu, ok := s.locks[subjectID]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[subjectID] = mu
	}
	return mu
}

// Record implements domain.RecorderPort
func (s *Service) Record(ctx context.Context, subjectID, dateKey string, r domain.Record) (int, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.RecordedAt.IsZero() {
		r.RecordedAt = s.now()
	}

	mu := s.subjectLock(subjectID)
	mu.Lock()

	var newCount int
	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		st := s.binder.Bind(q)
		n, err := st.Increment(ctx, subjectID, dateKey)
		if err != nil {
			return err
		}
		newCount = n
		return st.AppendHistory(ctx, subjectID, dateKey, r)
	})
	mu.Unlock()
	if err != nil {
		return 0, err
	}

	s.auditEvent(ctx, subjectID, dateKey, r)

	if s.ports.Notifier != nil {
		goal, alerts, err := s.goal(ctx)
		if err != nil {
			logger.C(ctx).Warn().Err(err).Msg("settings read failed, goal check skipped")
		} else if alerts && newCount == goal {
			s.ports.Notifier.GoalReached(ctx, subjectID, goal)
		}
	}
	return newCount, nil
}

func (s *Service) goal(ctx context.Context) (int, bool, error) {
	set, err := s.ports.Settings.Get(ctx)
	if err != nil {
		return 0, false, err
	}
	return set.DailyGoal, set.AlertsEnabled, nil
}

// auditEvent writes the confirmed event to the columnar sink. Audit failures
// are logged and never surface to the recorder's caller
func (s *Service) auditEvent(ctx context.Context, subjectID, dateKey string, r domain.Record) {
	if s.audit == nil {
		return
	}
	row := []any{r.ID, subjectID, dateKey, r.RecordedAt, r.RequestID, r.Message, r.ModelVariant}
	if err := s.audit.Insert(ctx, AuditTable, [][]any{row}); err != nil {
		logger.C(ctx).Warn().Err(err).Str("subject_id", subjectID).Msg("usage audit insert failed")
	}
}

// CountOn implements domain.ReaderPort
func (s *Service) CountOn(ctx context.Context, subjectID, dateKey string) (int, error) {
	return s.binder.Bind(s.db).CountOn(ctx, subjectID, dateKey)
}

// Month implements domain.ReaderPort
func (s *Service) Month(ctx context.Context, subjectID, period string) (domain.MonthData, error) {
	st := s.binder.Bind(s.db)
	stats, err := st.StatsInPeriod(ctx, subjectID, period)
	if err != nil {
		return domain.MonthData{}, err
	}
	hist, err := st.HistoryInPeriod(ctx, subjectID, period)
	if err != nil {
		return domain.MonthData{}, err
	}
	return domain.MonthData{Stats: stats, History: hist}, nil
}

// LastActiveSubject implements domain.ReaderPort
func (s *Service) LastActiveSubject(ctx context.Context) (string, bool, error) {
	return s.binder.Bind(s.db).LastActiveSubject(ctx)
}

// Absorb implements domain.MergerPort. Counters only ever go up; history is
// appended as-is, so replaying the same remote month duplicates its records
func (s *Service) Absorb(ctx context.Context, subjectID, period string, remote domain.MonthData) error {
	if remote.Empty() {
		return nil
	}
	mu := s.subjectLock(subjectID)
	mu.Lock()
	defer mu.Unlock()

	return repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		st := s.binder.Bind(q)
		// only keys inside the pulled month merge; a stray snapshot cannot
		// touch other months
		for day, n := range remote.Stats {
			if !ptime.InPeriod(day, period) {
				continue
			}
			if err := st.RaiseStat(ctx, subjectID, day, n); err != nil {
				return err
			}
		}
		for day, recs := range remote.History {
			if !ptime.InPeriod(day, period) {
				continue
			}
			for _, r := range recs {
				if r.ID == "" {
					r.ID = uuid.NewString()
				}
				if r.RecordedAt.IsZero() {
					r.RecordedAt = s.now()
				}
				if err := st.AppendHistory(ctx, subjectID, day, r); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
