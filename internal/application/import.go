package application

import (
	"context"
	"fmt"
	"log"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"calbot/internal/domain/entities"
	"calbot/internal/ports/output"
)

// ImportService pulls an external calendar feed and merges it into the store.
type ImportService struct {
	source output.CalendarSource
	store  *EventStore
}

func NewImportService(source output.CalendarSource, store *EventStore) *ImportService {
	return &ImportService{source: source, store: store}
}

// Import fetches url and merges its events. Every candidate is tagged as
// imported from url.
func (s *ImportService) Import(ctx context.Context, url string) (entities.MergeResult, error) {
	url = strings.TrimSpace(url)
	ctx, span := tracer.Start(ctx, "import.merge", trace.WithAttributes(attribute.String("import.url", url)))
	defer span.End()

	candidates, err := s.source.Fetch(ctx, url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return entities.MergeResult{}, fmt.Errorf("fetch calendar: %w", err)
	}
	notCustom := false
	for i := range candidates {
		candidates[i].Custom = &notCustom
		candidates[i].ImportedFromURL = &url
	}

	res, err := s.store.MergeEvents(ctx, candidates)
	span.SetAttributes(
		attribute.Int("import.candidates", len(candidates)),
		attribute.Int("import.created", res.Created),
		attribute.Int("import.updated", res.Updated),
		attribute.Int("import.errors", res.Errors),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "merge failed")
		return res, fmt.Errorf("merge events: %w", err)
	}
	log.Printf("✅ Import terminé (créés=%d, mis à jour=%d, erreurs=%d)", res.Created, res.Updated, res.Errors)
	return res, nil
}
