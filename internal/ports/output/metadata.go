package output

import "time"

// BroadcastMetadataStore persists the last broadcast time per event id.
type BroadcastMetadataStore interface {
	Load() (map[string]time.Time, error)
	Save(entries map[string]time.Time) error
}
