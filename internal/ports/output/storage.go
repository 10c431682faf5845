package output

import (
	"context"

	"calbot/internal/domain/entities"
)

// EventStorage persists the whole event collection. Implementations only
// support whole-collection replacement.
type EventStorage interface {
	// Read returns the stored collection. Missing or unreadable data yields
	// an empty slice, never an error.
	Read(ctx context.Context) []entities.Event
	// Write atomically replaces the stored collection.
	Write(ctx context.Context, events []entities.Event) error
	// Available reports whether the backend is reachable.
	Available(ctx context.Context) bool
}
