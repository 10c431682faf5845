package input

import (
	"context"
	"time"

	"calbot/internal/domain/entities"
)

type EventUseCase interface {
	List(ctx context.Context) []entities.Event
	Upcoming(ctx context.Context, now time.Time, limit int) []entities.Event
	Get(ctx context.Context, id string) (*entities.Event, error)
	Create(ctx context.Context, in entities.EventInput) (*entities.Event, error)
	Update(ctx context.Context, id string, in entities.EventInput) (*entities.Event, error)
	Delete(ctx context.Context, id string) (bool, error)
	MergeEvents(ctx context.Context, candidates []entities.EventInput) (entities.MergeResult, error)
	Clear(ctx context.Context) error
	Count(ctx context.Context) int
}

// EventReader is the read-only view the broadcast scheduler holds.
type EventReader interface {
	List(ctx context.Context) []entities.Event
}
