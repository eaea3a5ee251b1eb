// Package repo provides the session-scoped pending repository
package repo

import (
	"context"

	"chattally/internal/modkit/repokit"
	perr "chattally/internal/platform/errors"
	"chattally/internal/services/pending/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage is the durable session-scoped half of the pending store. The table
// is UNLOGGED and truncated at daemon start: pending entries never survive a
// restart, matching the session lifetime of the in-memory fast path
type Storage interface {
	InsertGroup(ctx context.Context, groupKey string, xs []domain.Entry) error
	ClearAll(ctx context.Context) error
	PopGroup(ctx context.Context, groupKey, modelVariant string) (domain.Entry, bool, error)
	PopMatching(ctx context.Context, id string) ([]domain.Entry, error)
	Reset(ctx context.Context) error
}

// EnsureSchema creates the session table when absent
func EnsureSchema(ctx context.Context, q repokit.Queryer) error {
	_, err := q.Exec(ctx, `
		CREATE UNLOGGED TABLE IF NOT EXISTS session_pending (
			seq           bigint GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			group_key     text NOT NULL,
			subject_id    text NOT NULL,
			answer_id     text NOT NULL DEFAULT '',
			request_id    text NOT NULL DEFAULT '',
			message       text NOT NULL DEFAULT '',
			model_variant text NOT NULL DEFAULT '',
			created_at    timestamptz NOT NULL
		)`)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "ensure session_pending")
	}
	_, err = q.Exec(ctx,
		`CREATE INDEX IF NOT EXISTS session_pending_group_idx ON session_pending (group_key)`)
	return perr.WrapIf(err, perr.ErrorCodeDB, "index session_pending")
}

// Reset implements Storage
func (s *pg) Reset(ctx context.Context) error {
	if err := EnsureSchema(ctx, s.q); err != nil {
		return err
	}
	_, err := s.q.Exec(ctx, `TRUNCATE session_pending`)
	return perr.WrapIf(err, perr.ErrorCodeDB, "reset session_pending")
}

// InsertGroup implements Storage
func (s *pg) InsertGroup(ctx context.Context, groupKey string, xs []domain.Entry) error {
	for _, e := range xs {
		_, err := s.q.Exec(ctx, `
			INSERT INTO session_pending
				(group_key, subject_id, answer_id, request_id, message, model_variant, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			groupKey, e.SubjectID, e.AnswerID, e.RequestID, e.Message, e.ModelVariant, e.CreatedAt)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "insert pending entry")
		}
	}
	return nil
}

// ClearAll implements Storage
func (s *pg) ClearAll(ctx context.Context) error {
	_, err := s.q.Exec(ctx, `DELETE FROM session_pending`)
	return perr.WrapIf(err, perr.ErrorCodeDB, "clear pending")
}

const entryCols = `subject_id, answer_id, request_id, message, model_variant, created_at`

// PopGroup implements Storage. When modelVariant is set and present in the
// group it wins; otherwise the oldest entry goes
func (s *pg) PopGroup(ctx context.Context, groupKey, modelVariant string) (domain.Entry, bool, error) {
	pick := `
		SELECT seq FROM session_pending
		WHERE group_key = $1 AND model_variant = $2
		ORDER BY seq LIMIT 1`
	var seq int64
	err := s.q.QueryRow(ctx, pick, groupKey, modelVariant).Scan(&seq)
	if perr.IsNoRows(err) {
		err = s.q.QueryRow(ctx, `
			SELECT seq FROM session_pending
			WHERE group_key = $1
			ORDER BY seq LIMIT 1`, groupKey).Scan(&seq)
	}
	if err != nil {
		if perr.IsNoRows(err) {
			return domain.Entry{}, false, nil
		}
		return domain.Entry{}, false, perr.Wrap(err, perr.ErrorCodeDB, "pick pending entry")
	}

	var e domain.Entry
	err = s.q.QueryRow(ctx,
		`DELETE FROM session_pending WHERE seq = $1 RETURNING `+entryCols, seq).
		Scan(&e.SubjectID, &e.AnswerID, &e.RequestID, &e.Message, &e.ModelVariant, &e.CreatedAt)
	if err != nil {
		return domain.Entry{}, false, perr.Wrap(err, perr.ErrorCodeDB, "pop pending entry")
	}
	return e, true, nil
}

// PopMatching implements Storage: removes and returns every entry whose
// identifier pair contains id in either slot, in insertion order
func (s *pg) PopMatching(ctx context.Context, id string) ([]domain.Entry, error) {
	rows, err := s.q.Query(ctx, `
		DELETE FROM session_pending
		WHERE answer_id = $1 OR request_id = $1
		RETURNING `+entryCols+`, seq`, id)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "pop pending by id")
	}
	defer rows.Close()

	type seqEntry struct {
		e   domain.Entry
		seq int64
	}
	var buf []seqEntry
	for rows.Next() {
		var se seqEntry
		if err := rows.Scan(
			&se.e.SubjectID, &se.e.AnswerID, &se.e.RequestID,
			&se.e.Message, &se.e.ModelVariant, &se.e.CreatedAt, &se.seq,
		); err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeDB, "scan pending entry")
		}
		buf = append(buf, se)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "pop pending by id")
	}
	// DELETE ... RETURNING order is not guaranteed
	for i := 1; i < len(buf); i++ {
		for j := i; j > 0 && buf[j].seq < buf[j-1].seq; j-- {
			buf[j], buf[j-1] = buf[j-1], buf[j]
		}
	}
	out := make([]domain.Entry, 0, len(buf))
	for _, se := range buf {
		out = append(out, se.e)
	}
	return out, nil
}
