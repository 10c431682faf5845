//go:build integration

package database

import (
	"context"
	"testing"
	"time"

	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"calbot/internal/domain/entities"
)

func TestPostgresEventCollectionRoundTrip(t *testing.T) {
	ctx := context.Background()
	pg, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("calbot"),
		tcpostgres.WithUsername("calbot"),
		tcpostgres.WithPassword("calbot"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Skipf("skip: cannot start postgres: %v", err)
	}
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatal(err)
	}
	if err := RunMigrations(dsn); err != nil {
		t.Fatal(err)
	}
	// second run is a no-op
	if err := RunMigrations(dsn); err != nil {
		t.Fatal(err)
	}

	pool, err := NewPool(ctx, dsn)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(pool.Close)

	repo := NewEventRepository(pool)
	if !repo.Available(ctx) {
		t.Fatal("expected repository to be available")
	}
	if got := repo.Read(ctx); len(got) != 0 {
		t.Fatalf("fresh read=%+v", got)
	}

	start := time.Date(2026, 5, 1, 19, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	events := []entities.Event{
		{ID: "a", Title: "Concert", StartTime: start, EndTime: start.Add(2 * time.Hour), Custom: true},
		{ID: "b", Title: "Expo", StartTime: start.Add(24 * time.Hour), EndTime: start.Add(26 * time.Hour)},
	}
	if err := repo.Write(ctx, events); err != nil {
		t.Fatal(err)
	}
	got := repo.Read(ctx)
	if len(got) != 2 || got[0].ID != "a" || !got[0].StartTime.Equal(start) || !got[0].Custom {
		t.Fatalf("read=%+v", got)
	}

	if err := repo.Write(ctx, events[1:]); err != nil {
		t.Fatal(err)
	}
	if got := repo.Read(ctx); len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("after replace=%+v", got)
	}
}
