package entities

import "time"

// Event is the stored calendar event. It is also the JSON shape persisted by
// every storage backend.
type Event struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     *string   `json:"description"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	Custom          bool      `json:"custom"`
	ImportedFromURL *string   `json:"imported_from_url"`
}

// SameSlot reports whether e and o share the deduplication key (title, start).
func (e *Event) SameSlot(title string, start time.Time) bool {
	return e.Title == title && e.StartTime.Equal(start)
}

// HasStarted reports whether the event start is at or before now.
func (e *Event) HasStarted(now time.Time) bool {
	return !e.StartTime.After(now)
}

// EventInput is the raw payload accepted by create, update and merge.
// Timestamps stay as text until validation; nil pointers mean "not supplied".
type EventInput struct {
	ID              string  `json:"id,omitempty"`
	Title           string  `json:"title"`
	Description     *string `json:"description,omitempty"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	Custom          *bool   `json:"custom,omitempty"`
	ImportedFromURL *string `json:"imported_from_url,omitempty"`
}

// MergeResult tallies a batch merge. Duplicates is always zero for now:
// matches are counted under Updated.
type MergeResult struct {
	Created    int `json:"created"`
	Updated    int `json:"updated"`
	Duplicates int `json:"duplicates"`
	Errors     int `json:"errors"`
}
