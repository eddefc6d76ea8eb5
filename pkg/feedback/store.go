package feedback

import "context"

// Store is the interface for feedback storage backends.
type Store interface {
	// Save persists one entry.
	Save(ctx context.Context, entry Entry) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
