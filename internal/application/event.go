package application

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"calbot/internal/domain"
	"calbot/internal/domain/entities"
	"calbot/internal/ports/output"
)

// timeLayouts are the accepted ISO-8601 forms; all of them carry an offset.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05 -0700",
}

// EventStore is the validated, deduplicating CRUD layer over the whole event
// collection. Every call holds mu for its full duration and re-reads the
// collection from storage, so the backend stays the single source of truth.
type EventStore struct {
	mu      sync.Mutex
	storage output.EventStorage
}

func NewEventStore(storage output.EventStorage) *EventStore {
	return &EventStore{storage: storage}
}

func (s *EventStore) List(ctx context.Context) []entities.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storage.Read(ctx)
}

// Upcoming returns events that have not ended yet, sorted by start time.
// limit <= 0 means no limit.
func (s *EventStore) Upcoming(ctx context.Context, now time.Time, limit int) []entities.Event {
	s.mu.Lock()
	events := s.storage.Read(ctx)
	s.mu.Unlock()

	out := make([]entities.Event, 0, len(events))
	for _, ev := range events {
		if ev.EndTime.After(now) {
			out = append(out, ev)
		}
	}
	slices.SortStableFunc(out, func(a, b entities.Event) int {
		return a.StartTime.Compare(b.StartTime)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (s *EventStore) Get(ctx context.Context, id string) (*entities.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.storage.Read(ctx)
	idx := indexOfID(events, id)
	if idx < 0 {
		return nil, domain.ErrEventNotFound
	}
	ev := events[idx]
	return &ev, nil
}

// FindDuplicates returns the stored events sharing the (title, start_time)
// key of candidate.
func (s *EventStore) FindDuplicates(ctx context.Context, candidate entities.EventInput) ([]entities.Event, error) {
	start, err := parseTimestamp(candidate.StartTime)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entities.Event
	for _, ev := range s.storage.Read(ctx) {
		if ev.SameSlot(candidate.Title, start) {
			out = append(out, ev)
		}
	}
	return out, nil
}

// Create stores a new event. It returns (nil, nil) when an event with the same
// title and start time already exists: a duplicate is not an error. A
// supplied id that is already in use is replaced by a new one.
func (s *EventStore) Create(ctx context.Context, in entities.EventInput) (*entities.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start, end, err := validate(in)
	if err != nil {
		return nil, err
	}
	events := s.storage.Read(ctx)
	if indexOfSlot(events, in.Title, start) >= 0 {
		return nil, nil
	}
	ev := buildEvent(in, start, end)
	ev.ID = freeID(events, ev.ID)
	events = append(events, ev)
	if err := s.persist(ctx, events); err != nil {
		return nil, err
	}
	return &ev, nil
}

// Update replaces the mutable fields of the event with the given id. The id is
// kept; custom and imported_from_url keep their stored value when in omits
// them.
func (s *EventStore) Update(ctx context.Context, id string, in entities.EventInput) (*entities.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start, end, err := validate(in)
	if err != nil {
		return nil, err
	}
	events := s.storage.Read(ctx)
	idx := indexOfID(events, id)
	if idx < 0 {
		return nil, domain.ErrEventNotFound
	}
	ev := replaceEvent(events[idx], in, start, end)
	events[idx] = ev
	if err := s.persist(ctx, events); err != nil {
		return nil, err
	}
	return &ev, nil
}

// Delete removes the event with the given id and reports whether it existed.
func (s *EventStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.storage.Read(ctx)
	kept := slices.DeleteFunc(slices.Clone(events), func(ev entities.Event) bool {
		return ev.ID == id
	})
	if len(kept) == len(events) {
		return false, nil
	}
	if err := s.persist(ctx, kept); err != nil {
		return false, err
	}
	return true, nil
}

// MergeEvents upserts candidates against one snapshot of the collection, in
// order, and persists once at the end. Invalid candidates are counted in
// Errors and skipped; later candidates see the effect of earlier ones.
func (s *EventStore) MergeEvents(ctx context.Context, candidates []entities.EventInput) (entities.MergeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res entities.MergeResult
	working := s.storage.Read(ctx)
	for _, in := range candidates {
		start, end, err := validate(in)
		if err != nil {
			log.Printf("⚠️ Import: événement ignoré (%q): %v", in.Title, err)
			res.Errors++
			continue
		}
		if idx := indexOfSlot(working, in.Title, start); idx >= 0 {
			working[idx] = replaceEvent(working[idx], in, start, end)
			res.Updated++
			continue
		}
		ev := buildEvent(in, start, end)
		ev.ID = freeID(working, ev.ID)
		working = append(working, ev)
		res.Created++
	}
	if err := s.persist(ctx, working); err != nil {
		return res, err
	}
	return res, nil
}

// Clear persists an empty collection.
func (s *EventStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist(ctx, []entities.Event{})
}

func (s *EventStore) Count(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.storage.Read(ctx))
}

func (s *EventStore) persist(ctx context.Context, events []entities.Event) error {
	if err := s.storage.Write(ctx, events); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorageFailure, err)
	}
	return nil
}

// validate checks required fields then both timestamps.
func validate(in entities.EventInput) (start, end time.Time, err error) {
	var missing []string
	if strings.TrimSpace(in.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(in.StartTime) == "" {
		missing = append(missing, "start_time")
	}
	if strings.TrimSpace(in.EndTime) == "" {
		missing = append(missing, "end_time")
	}
	if len(missing) > 0 {
		return time.Time{}, time.Time{}, domain.NewMissingFieldsError(missing...)
	}
	if start, err = parseTimestamp(in.StartTime); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end, err = parseTimestamp(in.EndTime); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	v := strings.TrimSpace(raw)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, domain.NewInvalidTimeFormatError(raw)
}

func buildEvent(in entities.EventInput, start, end time.Time) entities.Event {
	ev := entities.Event{
		ID:              in.ID,
		Title:           in.Title,
		Description:     in.Description,
		StartTime:       start,
		EndTime:         end,
		ImportedFromURL: in.ImportedFromURL,
	}
	if in.Custom != nil {
		ev.Custom = *in.Custom
	}
	return ev
}

// replaceEvent applies in over prev, keeping prev's id and falling back to
// prev's custom/imported_from_url when in omits them.
func replaceEvent(prev entities.Event, in entities.EventInput, start, end time.Time) entities.Event {
	ev := buildEvent(in, start, end)
	ev.ID = prev.ID
	if in.Custom == nil {
		ev.Custom = prev.Custom
	}
	if in.ImportedFromURL == nil {
		ev.ImportedFromURL = prev.ImportedFromURL
	}
	return ev
}

// freeID returns id, or a new uuid when id is empty or already used in events.
func freeID(events []entities.Event, id string) string {
	if id == "" || indexOfID(events, id) >= 0 {
		return uuid.NewString()
	}
	return id
}

func indexOfID(events []entities.Event, id string) int {
	return slices.IndexFunc(events, func(ev entities.Event) bool { return ev.ID == id })
}

func indexOfSlot(events []entities.Event, title string, start time.Time) int {
	return slices.IndexFunc(events, func(ev entities.Event) bool { return ev.SameSlot(title, start) })
}
