// Package repo persists settings in the app kv table
package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"chattally/internal/modkit/repokit"
	perr "chattally/internal/platform/errors"
	"chattally/internal/services/settings/domain"
)

const kvKey = "settings"

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the settings repository
type Storage interface {
	Load(ctx context.Context) (domain.Settings, bool, error)
	Save(ctx context.Context, s domain.Settings) error
}

// EnsureSchema creates the kv table when absent
func EnsureSchema(ctx context.Context, q repokit.Queryer) error {
	_, err := q.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS app_kv (
			key   text PRIMARY KEY,
			value jsonb NOT NULL
		)`)
	return err
}

// stored tolerates both current and legacy field names; the legacy shapes are
// rewritten on the next Save
type stored struct {
	domain.Settings

	// shadows the embedded field so an absent key reads as enabled rather
	// than the bool zero value
	AlertsEnabled *bool `json:"alertsEnabled"`

	// legacy aliases
	WordMinThreshold int      `json:"wordMinThreshold,omitempty"`
	BlockedKeywords  []string `json:"blockedKeywords,omitempty"`
	ReminderHour     *int     `json:"reminderHour,omitempty"`
	ReminderHours    []int    `json:"reminderHours,omitempty"`
}

func (st stored) migrate() domain.Settings {
	s := st.Settings
	s.AlertsEnabled = st.AlertsEnabled == nil || *st.AlertsEnabled
	if s.MinWordCount <= 0 && st.WordMinThreshold > 0 {
		s.MinWordCount = st.WordMinThreshold
	}
	if s.BlockedPhrases == nil && st.BlockedKeywords != nil {
		s.BlockedPhrases = st.BlockedKeywords
	}
	if len(s.ReminderTimes) == 0 {
		switch {
		case len(st.ReminderHours) > 0:
			for _, h := range st.ReminderHours {
				s.ReminderTimes = append(s.ReminderTimes, hourToken(h))
			}
		case st.ReminderHour != nil:
			s.ReminderTimes = []string{hourToken(*st.ReminderHour)}
		}
	}
	return s
}

func hourToken(h int) string {
	if h < 0 {
		h = 0
	}
	if h > 23 {
		h = 23
	}
	return fmt.Sprintf("%02d:00", h)
}

// Load implements Storage. found is false on first run
func (s *pg) Load(ctx context.Context) (domain.Settings, bool, error) {
	var raw []byte
	err := s.q.QueryRow(ctx, `SELECT value FROM app_kv WHERE key = $1`, kvKey).Scan(&raw)
	if err != nil {
		if perr.IsNoRows(err) {
			return domain.Settings{}, false, nil
		}
		return domain.Settings{}, false, perr.Wrap(err, perr.ErrorCodeDB, "load settings")
	}
	var st stored
	if err := json.Unmarshal(raw, &st); err != nil {
		return domain.Settings{}, false, perr.Wrap(err, perr.ErrorCodeJSON, "decode settings")
	}
	return st.migrate(), true, nil
}

// Save implements Storage
func (s *pg) Save(ctx context.Context, set domain.Settings) error {
	raw, err := json.Marshal(set)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "encode settings")
	}
	_, err = s.q.Exec(ctx, `
		INSERT INTO app_kv (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, kvKey, raw)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "save settings")
	}
	return nil
}
