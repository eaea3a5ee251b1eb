// Package repo persists monthly usage snapshots
package repo

import (
	"context"

	"chattally/internal/modkit/repokit"
	perr "chattally/internal/platform/errors"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the snapshot repository
type Storage interface {
	Load(ctx context.Context, subjectID, period string) ([]byte, bool, error)
	Save(ctx context.Context, subjectID, period string, raw []byte) error
}

// EnsureSchema creates the snapshot table when absent
func EnsureSchema(ctx context.Context, q repokit.Queryer) error {
	_, err := q.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS monthly_snapshots (
			subject_id text NOT NULL,
			period     text NOT NULL,
			data       jsonb NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT now(),
			PRIMARY KEY (subject_id, period)
		)`)
	return err
}

// Load returns the raw snapshot. found is false when nothing was pushed yet
func (s *pg) Load(ctx context.Context, subjectID, period string) ([]byte, bool, error) {
	var raw []byte
	err := s.q.QueryRow(ctx,
		`SELECT data FROM monthly_snapshots WHERE subject_id = $1 AND period = $2`,
		subjectID, period,
	).Scan(&raw)
	if err != nil {
		if perr.IsNoRows(err) {
			return nil, false, nil
		}
		return nil, false, perr.Wrap(err, perr.ErrorCodeDB, "load snapshot")
	}
	return raw, true, nil
}

// Save overwrites the snapshot for (subject, period)
func (s *pg) Save(ctx context.Context, subjectID, period string, raw []byte) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO monthly_snapshots (subject_id, period, data, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (subject_id, period) DO UPDATE
		SET data = EXCLUDED.data, updated_at = now()`,
		subjectID, period, raw)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "save snapshot")
	}
	return nil
}
