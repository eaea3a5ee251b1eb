// Package repo persists the current subject in the app kv table
package repo

import (
	"context"
	"encoding/json"

	"chattally/internal/modkit/repokit"
	perr "chattally/internal/platform/errors"
)

const kvKey = "current_subject"

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the current-subject repository
type Storage interface {
	Load(ctx context.Context) (string, bool, error)
	Save(ctx context.Context, subjectID string) error
}

// Load implements Storage
func (s *pg) Load(ctx context.Context) (string, bool, error) {
	var raw []byte
	err := s.q.QueryRow(ctx,
		`SELECT value FROM app_kv WHERE key = $1`, kvKey).Scan(&raw)
	if perr.IsNoRows(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, perr.Wrap(err, perr.ErrorCodeDB, "load current subject")
	}
	var subject string
	if err := json.Unmarshal(raw, &subject); err != nil {
		return "", false, perr.Wrap(err, perr.ErrorCodeDB, "decode current subject")
	}
	return subject, subject != "", nil
}

// Save implements Storage
func (s *pg) Save(ctx context.Context, subjectID string) error {
	raw, err := json.Marshal(subjectID)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "encode current subject")
	}
	_, err = s.q.Exec(ctx, `
		INSERT INTO app_kv (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		kvKey, raw)
	return perr.WrapIf(err, perr.ErrorCodeDB, "save current subject")
}
