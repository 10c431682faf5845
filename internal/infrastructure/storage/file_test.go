package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"calbot/internal/domain/entities"
)

func sampleEvents() []entities.Event {
	desc := "Salle des fêtes"
	url := "https://example.com/cal.ics"
	start := time.Date(2026, 6, 12, 20, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	return []entities.Event{
		{ID: "1", Title: "Quiz", Description: &desc, StartTime: start, EndTime: start.Add(2 * time.Hour), Custom: true},
		{ID: "2", Title: "Marché", StartTime: start.Add(48 * time.Hour), EndTime: start.Add(50 * time.Hour), ImportedFromURL: &url},
	}
}

func TestNewFileStorage_CreatesEmptyCollection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "events.json")
	s, err := NewFileStorage(path)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("file not created: %v", err)
	}
	if string(data) != "[]" {
		t.Fatalf("initial content=%q", data)
	}
	if got := s.Read(context.Background()); len(got) != 0 {
		t.Fatalf("read=%+v", got)
	}

	// idempotent: existing content is kept
	if err := s.Write(context.Background(), sampleEvents()); err != nil {
		t.Fatal(err)
	}
	s2, err := NewFileStorage(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := s2.Read(context.Background()); len(got) != 2 {
		t.Fatalf("reopen read len=%d", len(got))
	}
}

func TestFileStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStorage(filepath.Join(t.TempDir(), "events.json"))
	if err != nil {
		t.Fatal(err)
	}
	want := sampleEvents()
	if err := s.Write(ctx, want); err != nil {
		t.Fatal(err)
	}
	got := s.Read(ctx)
	if len(got) != len(want) {
		t.Fatalf("len=%d want %d", len(got), len(want))
	}
	for i := range want {
		w, g := want[i], got[i]
		if g.ID != w.ID || g.Title != w.Title || g.Custom != w.Custom {
			t.Fatalf("event %d=%+v want %+v", i, g, w)
		}
		if !g.StartTime.Equal(w.StartTime) || !g.EndTime.Equal(w.EndTime) {
			t.Fatalf("event %d times=%v/%v", i, g.StartTime, g.EndTime)
		}
		_, off := g.StartTime.Zone()
		if off != 2*3600 {
			t.Fatalf("offset lost: %d", off)
		}
	}
	if got[0].Description == nil || *got[0].Description != "Salle des fêtes" || got[0].ImportedFromURL != nil {
		t.Fatalf("event 0 optional fields=%+v", got[0])
	}
	if got[1].Description != nil || got[1].ImportedFromURL == nil {
		t.Fatalf("event 1 optional fields=%+v", got[1])
	}

	// no temp files left behind
	entries, _ := os.ReadDir(filepath.Dir(s.Path()))
	if len(entries) != 1 {
		t.Fatalf("dir entries=%d", len(entries))
	}
}

func TestFileStorage_DegradedReads(t *testing.T) {
	cases := map[string]string{
		"empty":      "",
		"whitespace": "  \n\t ",
		"malformed":  "{not json",
		"object":     `{"id":"1"}`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "events.json")
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatal(err)
			}
			s := &FileStorage{path: path}
			if got := s.Read(context.Background()); got == nil || len(got) != 0 {
				t.Fatalf("read=%+v", got)
			}
		})
	}

	missing := &FileStorage{path: filepath.Join(t.TempDir(), "absent.json")}
	if got := missing.Read(context.Background()); len(got) != 0 {
		t.Fatalf("missing read=%+v", got)
	}
	if !missing.Available(context.Background()) {
		t.Fatal("file backend is always available")
	}
}

func TestNewFileStorage_EmptyPath(t *testing.T) {
	if _, err := NewFileStorage(""); err == nil {
		t.Fatal("expected error")
	}
}
