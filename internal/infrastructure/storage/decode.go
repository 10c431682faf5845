package storage

import (
	"bytes"
	"encoding/json"
	"log"

	"calbot/internal/domain/entities"
)

// decodeEvents parses a serialized collection. Blank input is an empty
// collection; malformed input is logged and treated as empty.
func decodeEvents(data []byte, backend string) []entities.Event {
	if len(bytes.TrimSpace(data)) == 0 {
		return []entities.Event{}
	}
	var events []entities.Event
	if err := json.Unmarshal(data, &events); err != nil {
		log.Printf("⚠️ Contenu des événements illisible (%s): %v", backend, err)
		return []entities.Event{}
	}
	if events == nil {
		events = []entities.Event{}
	}
	return events
}

func encodeEvents(events []entities.Event) ([]byte, error) {
	if events == nil {
		events = []entities.Event{}
	}
	return json.MarshalIndent(events, "", "  ")
}
