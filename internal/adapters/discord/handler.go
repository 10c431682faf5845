package discord

import (
	"time"

	"calbot/internal/ports/input"
	"calbot/internal/ports/output"
)

// Handler handles Discord interactions using use cases.
type Handler struct {
	events     input.EventUseCase
	importer   input.ImportUseCase
	broadcast  input.BroadcastUseCase
	translator output.T
	locale     string
	loc        *time.Location
	now        func() time.Time
}

// NewHandler creates a Handler. Texts are rendered in locale and times in loc.
func NewHandler(
	events input.EventUseCase,
	importer input.ImportUseCase,
	broadcast input.BroadcastUseCase,
	translator output.T,
	locale string,
	loc *time.Location,
) *Handler {
	return &Handler{
		events:     events,
		importer:   importer,
		broadcast:  broadcast,
		translator: translator,
		locale:     locale,
		loc:        loc,
		now:        time.Now,
	}
}

func (h *Handler) translate(key string, data map[string]any) string {
	return h.translator.T(h.locale, key, data)
}
