package domain

import "context"

// ReaderPort reads the effective settings
type ReaderPort interface {
	Get(ctx context.Context) (Settings, error)
}

// WriterPort persists settings changes made through the options surface
type WriterPort interface {
	Save(ctx context.Context, s Settings) error
}
