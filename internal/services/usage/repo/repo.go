// Package repo provides the persistent counters and history repository
package repo

import (
	"context"

	"chattally/internal/modkit/repokit"
	perr "chattally/internal/platform/errors"
	"chattally/internal/services/usage/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the usage repository
type Storage interface {
	Increment(ctx context.Context, subjectID, dateKey string) (int, error)
	RaiseStat(ctx context.Context, subjectID, dateKey string, n int) error
	AppendHistory(ctx context.Context, subjectID, dateKey string, r domain.Record) error
	CountOn(ctx context.Context, subjectID, dateKey string) (int, error)
	StatsInPeriod(ctx context.Context, subjectID, period string) (map[string]int, error)
	HistoryInPeriod(ctx context.Context, subjectID, period string) (map[string][]domain.Record, error)
	LastActiveSubject(ctx context.Context) (string, bool, error)
}

// EnsureSchema creates the counters and history tables when absent
func EnsureSchema(ctx context.Context, q repokit.Queryer) error {
	_, err := q.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS daily_stats (
			subject_id text NOT NULL,
			day        text NOT NULL,
			n          integer NOT NULL DEFAULT 0,
			PRIMARY KEY (subject_id, day)
		)`)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "ensure daily_stats")
	}
	_, err = q.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS history (
			seq           bigint GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			id            text NOT NULL,
			subject_id    text NOT NULL,
			day           text NOT NULL,
			recorded_at   timestamptz NOT NULL,
			request_id    text NOT NULL DEFAULT '',
			message       text NOT NULL DEFAULT '',
			model_variant text NOT NULL DEFAULT ''
		)`)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "ensure history")
	}
	_, err = q.Exec(ctx,
		`CREATE INDEX IF NOT EXISTS history_subject_day_idx ON history (subject_id, day)`)
	return perr.WrapIf(err, perr.ErrorCodeDB, "index history")
}

// Increment implements Storage: bumps the day counter and returns the new value
func (s *pg) Increment(ctx context.Context, subjectID, dateKey string) (int, error) {
	var n int
	err := s.q.QueryRow(ctx, `
		INSERT INTO daily_stats (subject_id, day, n) VALUES ($1,$2,1)
		ON CONFLICT (subject_id, day) DO UPDATE SET n = daily_stats.n + 1
		RETURNING n`,
		subjectID, dateKey).Scan(&n)
	if err != nil {
		return 0, perr.Wrap(err, perr.ErrorCodeDB, "increment daily stat")
	}
	return n, nil
}

// RaiseStat implements Storage: lifts the counter to at least n, never lowers
func (s *pg) RaiseStat(ctx context.Context, subjectID, dateKey string, n int) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO daily_stats (subject_id, day, n) VALUES ($1,$2,$3)
		ON CONFLICT (subject_id, day) DO UPDATE SET n = GREATEST(daily_stats.n, EXCLUDED.n)`,
		subjectID, dateKey, n)
	return perr.WrapIf(err, perr.ErrorCodeDB, "raise daily stat")
}

// AppendHistory implements Storage
func (s *pg) AppendHistory(ctx context.Context, subjectID, dateKey string, r domain.Record) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO history (id, subject_id, day, recorded_at, request_id, message, model_variant)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		r.ID, subjectID, dateKey, r.RecordedAt, r.RequestID, r.Message, r.ModelVariant)
	return perr.WrapIf(err, perr.ErrorCodeDB, "append history")
}

// CountOn implements Storage
func (s *pg) CountOn(ctx context.Context, subjectID, dateKey string) (int, error) {
	var n int
	err := s.q.QueryRow(ctx,
		`SELECT n FROM daily_stats WHERE subject_id = $1 AND day = $2`,
		subjectID, dateKey).Scan(&n)
	if perr.IsNoRows(err) {
		return 0, nil
	}
	if err != nil {
		return 0, perr.Wrap(err, perr.ErrorCodeDB, "read daily stat")
	}
	return n, nil
}

// StatsInPeriod implements Storage; period is YYYY-MM and days are keyed
// YYYY-MM-DD, so a prefix match selects exactly the month
func (s *pg) StatsInPeriod(ctx context.Context, subjectID, period string) (map[string]int, error) {
	rows, err := s.q.Query(ctx, `
		SELECT day, n FROM daily_stats
		WHERE subject_id = $1 AND day LIKE $2 || '-%'
		ORDER BY day`,
		subjectID, period)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "read period stats")
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var day string
		var n int
		if err := rows.Scan(&day, &n); err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeDB, "scan period stat")
		}
		out[day] = n
	}
	return out, perr.WrapIf(rows.Err(), perr.ErrorCodeDB, "read period stats")
}

// HistoryInPeriod implements Storage; records come back in insertion order
// within each day
func (s *pg) HistoryInPeriod(ctx context.Context, subjectID, period string) (map[string][]domain.Record, error) {
	rows, err := s.q.Query(ctx, `
		SELECT day, id, recorded_at, request_id, message, model_variant
		FROM history
		WHERE subject_id = $1 AND day LIKE $2 || '-%'
		ORDER BY seq`,
		subjectID, period)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "read period history")
	}
	defer rows.Close()

	out := map[string][]domain.Record{}
	for rows.Next() {
		var day string
		var r domain.Record
		if err := rows.Scan(&day, &r.ID, &r.RecordedAt, &r.RequestID, &r.Message, &r.ModelVariant); err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeDB, "scan history record")
		}
		out[day] = append(out[day], r)
	}
	return out, perr.WrapIf(rows.Err(), perr.ErrorCodeDB, "read period history")
}

// LastActiveSubject implements Storage: the subject owning the newest counter
func (s *pg) LastActiveSubject(ctx context.Context) (string, bool, error) {
	var subject string
	err := s.q.QueryRow(ctx,
		`SELECT subject_id FROM daily_stats ORDER BY day DESC, subject_id LIMIT 1`).
		Scan(&subject)
	if perr.IsNoRows(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, perr.Wrap(err, perr.ErrorCodeDB, "read last active subject")
	}
	return subject, true, nil
}
