// Package repo provides the session-scoped dedup tables
package repo

import (
	"context"
	"time"

	"chattally/internal/modkit/repokit"
	perr "chattally/internal/platform/errors"
	"chattally/internal/services/confirm/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage holds the dedup records. Expiry is lazy: Seen deletes a stale row
// and reports it absent; there is no background sweeper
type Storage interface {
	Mark(ctx context.Context, b domain.Bucket, key string, at time.Time) error
	Seen(ctx context.Context, b domain.Bucket, key string, now time.Time, window time.Duration) (bool, error)
	Reset(ctx context.Context) error
}

// EnsureSchema creates the dedup table when absent
func EnsureSchema(ctx context.Context, q repokit.Queryer) error {
	_, err := q.Exec(ctx, `
		CREATE UNLOGGED TABLE IF NOT EXISTS session_dedup (
			bucket      text NOT NULL,
			key         text NOT NULL,
			recorded_at timestamptz NOT NULL,
			PRIMARY KEY (bucket, key)
		)`)
	return perr.WrapIf(err, perr.ErrorCodeDB, "ensure session_dedup")
}

// Reset implements Storage
func (s *pg) Reset(ctx context.Context) error {
	if err := EnsureSchema(ctx, s.q); err != nil {
		return err
	}
	_, err := s.q.Exec(ctx, `TRUNCATE session_dedup`)
	return perr.WrapIf(err, perr.ErrorCodeDB, "reset session_dedup")
}

// Mark implements Storage. Re-marking restarts the expiry window
func (s *pg) Mark(ctx context.Context, b domain.Bucket, key string, at time.Time) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO session_dedup (bucket, key, recorded_at) VALUES ($1,$2,$3)
		ON CONFLICT (bucket, key) DO UPDATE SET recorded_at = EXCLUDED.recorded_at`,
		string(b), key, at)
	return perr.WrapIf(err, perr.ErrorCodeDB, "mark dedup record")
}

// Seen implements Storage
func (s *pg) Seen(
	ctx context.Context,
	b domain.Bucket,
	key string,
	now time.Time,
	window time.Duration,
) (bool, error) {
	var at time.Time
	err := s.q.QueryRow(ctx,
		`SELECT recorded_at FROM session_dedup WHERE bucket = $1 AND key = $2`,
		string(b), key).Scan(&at)
	if err != nil {
		if perr.IsNoRows(err) {
			return false, nil
		}
		return false, perr.Wrap(err, perr.ErrorCodeDB, "read dedup record")
	}
	if now.Sub(at) > window {
		// stale, drop it on the way out
		_, err := s.q.Exec(ctx,
			`DELETE FROM session_dedup WHERE bucket = $1 AND key = $2`, string(b), key)
		return false, perr.WrapIf(err, perr.ErrorCodeDB, "expire dedup record")
	}
	return true, nil
}
