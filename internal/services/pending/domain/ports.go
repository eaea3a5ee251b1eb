package domain

import "context"

// StorePort is the pending correlation store surface the engine uses
type StorePort interface {
	// Put clears every pending entry across all groups, then stores e under
	// its group key. Entries failing the invariant are silently dropped.
	// The single-slot overwrite is load-bearing: the design assumes at most
	// one in-flight message at a time, and a second message before the
	// first's confirmation discards the first
	Put(ctx context.Context, e Entry) error

	// PopByGroup removes and returns one entry under groupKey, preferring a
	// matching model variant when several share the group
	PopByGroup(ctx context.Context, groupKey, modelVariant string) (Entry, bool, error)

	// PopAllByEitherID removes and returns every entry whose identifier pair
	// contains id in either slot
	PopAllByEitherID(ctx context.Context, id string) ([]Entry, error)

	// Reset clears the session-scoped backing store; called once at daemon
	// start so no entry outlives a session
	Reset(ctx context.Context) error
}
