package application

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"calbot/internal/domain/entities"
)

type fakeSource struct {
	events []entities.EventInput
	err    error
	gotURL string
}

func (f *fakeSource) Fetch(_ context.Context, url string) ([]entities.EventInput, error) {
	f.gotURL = url
	return f.events, f.err
}

func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr)))
	return sr
}

func TestImportService_TagsAndMerges(t *testing.T) {
	sr := recordSpans(t)
	mem := &memStorage{}
	store := NewEventStore(mem)
	ctx := context.Background()

	manual, _ := store.Create(ctx, entities.EventInput{
		Title: "Marché", StartTime: "2026-07-04T08:00:00+02:00", EndTime: "2026-07-04T13:00:00+02:00", Custom: boolPtr(true),
	})

	src := &fakeSource{events: []entities.EventInput{
		{Title: "Marché", StartTime: "2026-07-04T08:00:00+02:00", EndTime: "2026-07-04T12:00:00+02:00"},
		{Title: "Vide-grenier", StartTime: "2026-07-05T07:00:00+02:00", EndTime: "2026-07-05T17:00:00+02:00"},
		{Title: "Sans date"},
	}}
	svc := NewImportService(src, store)

	const url = "https://mairie.example/agenda.ics"
	res, err := svc.Import(ctx, "  "+url+" ")
	if err != nil {
		t.Fatal(err)
	}
	if src.gotURL != url {
		t.Fatalf("fetched %q", src.gotURL)
	}
	if res.Created != 1 || res.Updated != 1 || res.Errors != 1 {
		t.Fatalf("result=%+v", res)
	}

	for _, ev := range store.List(ctx) {
		if ev.Custom || ev.ImportedFromURL == nil || *ev.ImportedFromURL != url {
			t.Errorf("event %q not tagged as imported: %+v", ev.Title, ev)
		}
	}
	got, _ := store.Get(ctx, manual.ID)
	if got.EndTime.Hour() != 12 {
		t.Fatalf("existing slot not refreshed: %+v", got)
	}

	spans := sr.Ended()
	if len(spans) != 1 || spans[0].Name() != "import.merge" {
		t.Fatalf("spans=%v", spans)
	}
	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	if attrs["import.url"].AsString() != url || attrs["import.created"].AsInt64() != 1 {
		t.Fatalf("attributes=%v", attrs)
	}
}

func TestImportService_FetchFailure(t *testing.T) {
	mem := &memStorage{}
	store := NewEventStore(mem)
	svc := NewImportService(&fakeSource{err: errors.New("status 404")}, store)

	if _, err := svc.Import(context.Background(), "https://example.com/missing.ics"); err == nil {
		t.Fatal("expected an error")
	}
	if mem.writes != 0 {
		t.Fatalf("writes=%d", mem.writes)
	}
}
