// Package service provides the settings service implementation
package service

import (
	"context"

	"chattally/internal/modkit/repokit"
	"chattally/internal/services/settings/domain"
	"chattally/internal/services/settings/repo"
)

// Service implements domain.ReaderPort and domain.WriterPort
type Service struct {
	db     repokit.TxRunner
	binder repokit.Binder[repo.Storage]
}

// New constructs a new settings service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage]) *Service {
	return &Service{db: db, binder: binder}
}

// Get implements domain.ReaderPort. First run persists and returns defaults;
// stored values are overlaid on the defaults so new knobs pick up factory
// values without a migration
func (s *Service) Get(ctx context.Context) (domain.Settings, error) {
	st := s.binder.Bind(s.db)
	set, found, err := st.Load(ctx)
	if err != nil {
		return domain.Settings{}, err
	}
	if !found {
		def := domain.Defaults()
		if err := st.Save(ctx, def); err != nil {
			return domain.Settings{}, err
		}
		return def, nil
	}
	return set.Merged(), nil
}

// Save implements domain.WriterPort
func (s *Service) Save(ctx context.Context, set domain.Settings) error {
	return s.binder.Bind(s.db).Save(ctx, set.Merged())
}
