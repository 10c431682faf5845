package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"calbot/internal/domain/entities"
	"calbot/internal/ports/output"
)

var _ output.EventStorage = (*EventRepository)(nil)

// EventRepository stores the whole event collection as one jsonb document in
// the single row of event_collection.
type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

func (r *EventRepository) Read(ctx context.Context) []entities.Event {
	var payload []byte
	err := r.pool.QueryRow(ctx, `SELECT payload FROM event_collection WHERE id = 1`).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return []entities.Event{}
	}
	if err != nil {
		log.Printf("❌ Lecture des événements (postgres): %v", err)
		return []entities.Event{}
	}
	var events []entities.Event
	if err := json.Unmarshal(payload, &events); err != nil {
		log.Printf("⚠️ Contenu des événements illisible (postgres): %v", err)
		return []entities.Event{}
	}
	if events == nil {
		events = []entities.Event{}
	}
	return events
}

func (r *EventRepository) Write(ctx context.Context, events []entities.Event) error {
	if events == nil {
		events = []entities.Event{}
	}
	payload, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("encode events: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO event_collection (id, payload, updated_at)
		VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`,
		string(payload))
	if err != nil {
		return fmt.Errorf("write event collection: %w", err)
	}
	return nil
}

func (r *EventRepository) Available(ctx context.Context) bool {
	return r.pool.Ping(ctx) == nil
}
