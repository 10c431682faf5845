package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	s, closeFn, err := Open(context.Background(), Options{Backend: BackendFile, FilePath: path})
	if err != nil {
		t.Fatal(err)
	}
	defer closeFn()
	if _, ok := s.(*FileStorage); !ok {
		t.Fatalf("got %T", s)
	}
}

func TestOpen_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	s, closeFn, err := Open(context.Background(), Options{
		Backend:  BackendRedis,
		RedisURL: "redis://" + mr.Addr(),
		FilePath: filepath.Join(t.TempDir(), "events.json"),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer closeFn()
	if _, ok := s.(*RedisStorage); !ok {
		t.Fatalf("got %T", s)
	}
}

func TestOpen_RedisFallsBackToFile(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	s, closeFn, err := Open(context.Background(), Options{
		Backend:  BackendRedis,
		RedisURL: "redis://" + addr,
		FilePath: filepath.Join(t.TempDir(), "events.json"),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer closeFn()
	if _, ok := s.(*FileStorage); !ok {
		t.Fatalf("expected file fallback, got %T", s)
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	if _, _, err := Open(context.Background(), Options{Backend: "mongo"}); err == nil {
		t.Fatal("expected error")
	}
}
