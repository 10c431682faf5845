package output

import (
	"context"

	"calbot/internal/domain/entities"
)

// CalendarSource fetches an external calendar feed and returns normalized
// candidates ready to be merged.
type CalendarSource interface {
	Fetch(ctx context.Context, url string) ([]entities.EventInput, error)
}
