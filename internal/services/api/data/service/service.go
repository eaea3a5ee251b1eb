// Package service contains snapshot store workflows
package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"chattally/internal/modkit/repokit"
	perr "chattally/internal/platform/errors"
	ptime "chattally/internal/platform/time"
	"chattally/internal/services/api/data/domain"
	"chattally/internal/services/api/data/repo"
	usagedom "chattally/internal/services/usage/domain"
)

// Service defines the data service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the snapshot store
type Svc struct {
	Repo repo.Storage

	// now is a seam for tests
	now func() time.Time
}

// New constructs a data service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage]) *Svc {
	if db == nil {
		panic("data.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("data.Service requires a non nil Storage binder")
	}
	return &Svc{Repo: binder.Bind(db), now: time.Now}
}

func checkKey(subjectID, period string) (string, error) {
	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" {
		return "", perr.New(perr.ErrorCodeInvalidArgument, "missing subject")
	}
	if !ptime.ValidPeriod(period) {
		return "", perr.Newf(perr.ErrorCodeInvalidArgument, "bad period %q, expected YYYY-MM", period)
	}
	return subjectID, nil
}

// Month returns the raw snapshot for (subject, period)
func (s *Svc) Month(ctx context.Context, subjectID, period string) (json.RawMessage, error) {
	subjectID, err := checkKey(subjectID, period)
	if err != nil {
		return nil, err
	}
	raw, found, err := s.Repo.Load(ctx, subjectID, period)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, perr.Newf(perr.ErrorCodeNotFound, "no snapshot for %s %s", subjectID, period)
	}
	return json.RawMessage(raw), nil
}

// Replace overwrites the whole snapshot for (subject, period). The body must
// at least decode as month data so the tracker can pull it back later
func (s *Svc) Replace(ctx context.Context, subjectID, period string, raw json.RawMessage) error {
	subjectID, err := checkKey(subjectID, period)
	if err != nil {
		return err
	}
	var md usagedom.MonthData
	if err := json.Unmarshal(raw, &md); err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "decode snapshot body")
	}
	return s.Repo.Save(ctx, subjectID, period, raw)
}

// Stats summarizes the stored month
func (s *Svc) Stats(ctx context.Context, subjectID, period string) (domain.MonthStats, error) {
	subjectID, err := checkKey(subjectID, period)
	if err != nil {
		return domain.MonthStats{}, err
	}
	out := domain.MonthStats{SubjectID: subjectID, Period: period, Stats: map[string]int{}}
	raw, found, err := s.Repo.Load(ctx, subjectID, period)
	if err != nil {
		return domain.MonthStats{}, err
	}
	if !found {
		return out, nil
	}
	var md usagedom.MonthData
	if err := json.Unmarshal(raw, &md); err != nil {
		return domain.MonthStats{}, perr.Wrap(err, perr.ErrorCodeJSON, "decode snapshot")
	}
	for day, n := range md.Stats {
		out.Stats[day] = n
		out.Total += n
	}
	return out, nil
}

// Today reads today's count for a subject from the current month snapshot.
// An absent snapshot reads as zero rather than not found
func (s *Svc) Today(ctx context.Context, subjectID string) (domain.TodayCount, error) {
	now := s.now()
	period := ptime.PeriodKey(now)
	day := ptime.DateKey(now)

	subjectID, err := checkKey(subjectID, period)
	if err != nil {
		return domain.TodayCount{}, err
	}
	out := domain.TodayCount{SubjectID: subjectID, Date: day}
	raw, found, err := s.Repo.Load(ctx, subjectID, period)
	if err != nil {
		return domain.TodayCount{}, err
	}
	if !found {
		return out, nil
	}
	var md usagedom.MonthData
	if err := json.Unmarshal(raw, &md); err != nil {
		return domain.TodayCount{}, perr.Wrap(err, perr.ErrorCodeJSON, "decode snapshot")
	}
	out.Count = md.Stats[day]
	return out, nil
}
