package ics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetcher_Fetch(t *testing.T) {
	body := calendar(`BEGIN:VEVENT
UID:srv@test
SUMMARY:Vide-grenier
DTSTART:20260705T070000Z
DTEND:20260705T150000Z
END:VEVENT
`)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cal.ics" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/calendar")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	f := NewFetcher(30)
	f.now = func() time.Time { return time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC) }

	got, err := f.Fetch(context.Background(), srv.URL+"/cal.ics")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Title != "Vide-grenier" {
		t.Fatalf("got=%+v", got)
	}

	if _, err := f.Fetch(context.Background(), srv.URL+"/missing.ics"); err == nil {
		t.Fatal("expected error on 404")
	}
}

func TestFetcher_RejectsOversizedFeed(t *testing.T) {
	body := calendar(`BEGIN:VEVENT
UID:big@test
SUMMARY:Fête
DTSTART:20260705T070000Z
END:VEVENT
`)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	f := NewFetcher(30)
	f.now = func() time.Time { return time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC) }

	f.maxBody = int64(len(body))
	if _, err := f.Fetch(context.Background(), srv.URL); err != nil {
		t.Fatalf("body at the limit: %v", err)
	}
	f.maxBody = int64(len(body)) - 1
	if _, err := f.Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for a body over the limit")
	}
}

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "https://example.com/a.ics", want: "https://example.com/a.ics"},
		{in: " webcal://example.com/a.ics ", want: "https://example.com/a.ics"},
		{in: "ftp://example.com/a.ics", wantErr: true},
		{in: "https:///a.ics", wantErr: true},
	}
	for _, c := range cases {
		got, err := normalizeURL(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("normalizeURL(%q) expected error", c.in)
			}
			continue
		}
		if err != nil || got != c.want {
			t.Errorf("normalizeURL(%q)=%q, %v want %q", c.in, got, err, c.want)
		}
	}
}
