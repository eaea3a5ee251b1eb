package domain

import (
	"context"

	pendingdom "chattally/internal/services/pending/domain"
	usagedom "chattally/internal/services/usage/domain"
)

// Pusher is the sync hook the detector fires after entries are recorded.
// Implementations return immediately and swallow their own failures
type Pusher interface {
	PushCurrentMonth(ctx context.Context, subjectID string)
}

// Ports declares the inbound dependencies the confirm module needs wired in.
// Pusher may be nil
type Ports struct {
	Pending  pendingdom.StorePort
	Recorder usagedom.RecorderPort
	Pusher   Pusher
}

// DetectorPort is the success detector surface the engine uses
type DetectorPort interface {
	// Handle processes one raw confirmation event. Non-success events and
	// re-deliveries inside the dedup window are silently discarded; matching
	// pending entries are resolved into usage records. Returns how many
	// entries were recorded
	Handle(ctx context.Context, c Confirmation) (int, error)

	// WasConfirmed reports whether a confirmation for id was seen within the
	// window. The engine uses it to resolve a pending entry stored after its
	// confirmation already fired (a late model variant)
	WasConfirmed(ctx context.Context, id string) (bool, error)

	// Reset clears both dedup tables; called once at daemon start
	Reset(ctx context.Context) error
}
