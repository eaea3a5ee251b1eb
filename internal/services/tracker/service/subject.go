package service

import (
	"context"
	"sync"

	"chattally/internal/modkit/repokit"
	"chattally/internal/services/tracker/repo"
	usagedom "chattally/internal/services/usage/domain"
)

// SubjectTracker implements domain.SubjectPort: a memory cache over the kv
// row, falling back to the subject with the most recent usage when nothing
// was remembered yet
type SubjectTracker struct {
	db     repokit.TxRunner
	binder repokit.Binder[repo.Storage]
	reader usagedom.ReaderPort

	mu  sync.Mutex
	cur string
}

// NewSubjectTracker constructs a SubjectTracker
func NewSubjectTracker(
	db repokit.TxRunner,
	binder repokit.Binder[repo.Storage],
	reader usagedom.ReaderPort,
) *SubjectTracker {
	return &SubjectTracker{db: db, binder: binder, reader: reader}
}

// SetCurrent implements domain.SubjectPort
func (t *SubjectTracker) SetCurrent(ctx context.Context, subjectID string) error {
	if subjectID == "" {
		return nil
	}
	t.mu.Lock()
	same := t.cur == subjectID
	t.cur = subjectID
	t.mu.Unlock()
	if same {
		return nil
	}
	return t.binder.Bind(t.db).Save(ctx, subjectID)
}

// Current implements domain.SubjectPort
func (t *SubjectTracker) Current(ctx context.Context) (string, bool, error) {
	t.mu.Lock()
	cur := t.cur
	t.mu.Unlock()
	if cur != "" {
		return cur, true, nil
	}

	subject, found, err := t.binder.Bind(t.db).Load(ctx)
	if err != nil {
		return "", false, err
	}
	if !found {
		subject, found, err = t.reader.LastActiveSubject(ctx)
		if err != nil || !found {
			return "", false, err
		}
	}
	t.mu.Lock()
	t.cur = subject
	t.mu.Unlock()
	return subject, true, nil
}
