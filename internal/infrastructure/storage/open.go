package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"calbot/internal/infrastructure/database"
	"calbot/internal/ports/output"
)

// Supported backends.
const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

const probeTimeout = 5 * time.Second

// Options selects and configures the event storage backend.
type Options struct {
	Backend     string
	FilePath    string
	RedisURL    string
	DatabaseURL string
}

// Open builds the preferred backend and falls back to the file backend when
// it cannot be reached at startup. The returned close func is never nil.
func Open(ctx context.Context, opts Options) (output.EventStorage, func(), error) {
	switch opts.Backend {
	case BackendRedis:
		if s, ok := openRedis(ctx, opts.RedisURL); ok {
			log.Println("✅ Stockage des événements: redis")
			return s, func() { _ = s.Close() }, nil
		}
	case BackendPostgres:
		if s, closeFn, ok := openPostgres(ctx, opts.DatabaseURL); ok {
			log.Println("✅ Stockage des événements: postgres")
			return s, closeFn, nil
		}
	case BackendFile, "":
	default:
		return nil, func() {}, fmt.Errorf("storage: backend inconnu %q", opts.Backend)
	}

	fs, err := NewFileStorage(opts.FilePath)
	if err != nil {
		return nil, func() {}, err
	}
	log.Printf("✅ Stockage des événements: fichier %s", fs.Path())
	return fs, func() {}, nil
}

func openRedis(ctx context.Context, url string) (*RedisStorage, bool) {
	s, err := NewRedisStorageFromURL(url)
	if err != nil {
		log.Printf("⚠️ Redis indisponible, repli sur le fichier: %v", err)
		return nil, false
	}
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	if !s.Available(probeCtx) {
		log.Println("⚠️ Redis injoignable, repli sur le fichier")
		_ = s.Close()
		return nil, false
	}
	return s, true
}

func openPostgres(ctx context.Context, dsn string) (output.EventStorage, func(), bool) {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	pool, err := database.NewPool(probeCtx, dsn)
	if err != nil {
		log.Printf("⚠️ PostgreSQL injoignable, repli sur le fichier: %v", err)
		return nil, nil, false
	}
	if err := database.RunMigrations(dsn); err != nil {
		log.Printf("⚠️ Migrations PostgreSQL en échec, repli sur le fichier: %v", err)
		pool.Close()
		return nil, nil, false
	}
	return database.NewEventRepository(pool), pool.Close, true
}
