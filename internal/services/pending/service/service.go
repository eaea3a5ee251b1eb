// Package service implements the pending correlation store
package service

import (
	"context"
	"sync"
	"time"

	"chattally/internal/modkit/repokit"
	"chattally/internal/services/pending/domain"
	"chattally/internal/services/pending/repo"
)

// Service implements domain.StorePort with an in-memory fast path over the
// durable session-scoped repo. Both halves are written on Put before it
// returns, so a confirmation arriving right behind the request-start observes
// the entry on either path
type Service struct {
	db     repokit.TxRunner
	binder repokit.Binder[repo.Storage]

	mu  sync.Mutex
	mem map[string][]domain.Entry

	now func() time.Time // seam for tests
}

// New constructs a new pending store service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage]) *Service {
	return &Service{
		db:     db,
		binder: binder,
		mem:    make(map[string][]domain.Entry),
		now:    time.Now,
	}
}

// Reset implements domain.StorePort
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.mem = make(map[string][]domain.Entry)
	s.mu.Unlock()
	return s.binder.Bind(s.db).Reset(ctx)
}

// Put implements domain.StorePort. Invalid entries are silently dropped; a
// valid one replaces the entire store contents (all groups, both halves)
func (s *Service) Put(ctx context.Context, e domain.Entry) error {
	if !e.Valid() {
		return nil
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	key := e.GroupKey()

	s.mu.Lock()
	s.mem = map[string][]domain.Entry{key: {e}}
	s.mu.Unlock()

	return repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		st := s.binder.Bind(q)
		if err := st.ClearAll(ctx); err != nil {
			return err
		}
		return st.InsertGroup(ctx, key, []domain.Entry{e})
	})
}

// PopByGroup implements domain.StorePort
func (s *Service) PopByGroup(ctx context.Context, groupKey, modelVariant string) (domain.Entry, bool, error) {
	s.mu.Lock()
	if list, ok := s.mem[groupKey]; ok && len(list) > 0 {
		idx := 0
		if modelVariant != "" {
			for i, e := range list {
				if e.ModelVariant == modelVariant {
					idx = i
					break
				}
			}
		}
		e := list[idx]
		rest := append(append([]domain.Entry{}, list[:idx]...), list[idx+1:]...)
		if len(rest) == 0 {
			delete(s.mem, groupKey)
		} else {
			s.mem[groupKey] = rest
		}
		s.mu.Unlock()
		// keep the durable half in step with the entry we actually took
		_, _, err := s.binder.Bind(s.db).PopGroup(ctx, groupKey, e.ModelVariant)
		return e, true, err
	}
	s.mu.Unlock()
	return s.binder.Bind(s.db).PopGroup(ctx, groupKey, modelVariant)
}

// PopAllByEitherID implements domain.StorePort. The fast path wins when any
// group matches; a hit empties the whole cache. Only a cache miss consults
// the session store
func (s *Service) PopAllByEitherID(ctx context.Context, id string) ([]domain.Entry, error) {
	if id == "" {
		return nil, nil
	}
	s.mu.Lock()
	var collected []domain.Entry
	for _, list := range s.mem {
		if len(list) > 0 && list[0].HasID(id) {
			collected = append(collected, list...)
		}
	}
	if len(collected) > 0 {
		s.mem = make(map[string][]domain.Entry)
		s.mu.Unlock()
		return collected, nil
	}
	s.mu.Unlock()

	return s.binder.Bind(s.db).PopMatching(ctx, id)
}
