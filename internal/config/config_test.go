package config

import (
	"os"
	"path/filepath"
	"testing"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("TOKEN", "abc")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.StorageBackend != "file" || cfg.EventsFile != "data/events.json" {
		t.Fatalf("storage=%s file=%s", cfg.StorageBackend, cfg.EventsFile)
	}
	b := cfg.Broadcast
	if b.Enabled || b.CheckInterval != 30 || b.LeadTime != 300 || len(b.Targets) != 0 {
		t.Fatalf("broadcast=%+v", b)
	}
	if b.MetadataFile != "data/broadcast_metadata.json" {
		t.Fatalf("metadata file=%s", b.MetadataFile)
	}
	if cfg.Timezone != "Europe/Paris" || cfg.Locale != "fr" || cfg.ImportHorizonDays != 90 {
		t.Fatalf("cfg=%+v", cfg)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("TOKEN", "abc")
	t.Setenv("STORAGE_BACKEND", "Redis")
	t.Setenv("BROADCAST_ENABLED", "true")
	t.Setenv("BROADCAST_CHECK_INTERVAL", "10")
	t.Setenv("BROADCAST_LEAD_TIME", "60")
	t.Setenv("BROADCAST_TARGETS", "111, 222")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.StorageBackend != "redis" || cfg.RedisURL == "" {
		t.Fatalf("storage=%s redis=%s", cfg.StorageBackend, cfg.RedisURL)
	}
	bc := cfg.Broadcast.Entity()
	if !bc.Enabled || bc.CheckInterval != 10 || bc.LeadTime != 60 {
		t.Fatalf("broadcast=%+v", bc)
	}
	if len(bc.TargetDestinations) != 2 || bc.TargetDestinations[0] != "111" || bc.TargetDestinations[1] != "222" {
		t.Fatalf("targets=%q", bc.TargetDestinations)
	}
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := chdirTemp(t)
	yml := `token: from-yaml
events_file: /srv/events.json
broadcast:
  enabled: true
  lead_time: 120
  target_destinations: ["42"]
`
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("BROADCAST_LEAD_TIME", "90")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Token != "from-yaml" || cfg.EventsFile != "/srv/events.json" {
		t.Fatalf("cfg=%+v", cfg)
	}
	if !cfg.Broadcast.Enabled || cfg.Broadcast.LeadTime != 90 || cfg.Broadcast.CheckInterval != 30 {
		t.Fatalf("broadcast=%+v", cfg.Broadcast)
	}
}

func TestLoad_Errors(t *testing.T) {
	cases := map[string]map[string]string{
		"missing token":   {},
		"unknown backend": {"TOKEN": "x", "STORAGE_BACKEND": "mongo"},
		"bad dsn":         {"TOKEN": "x", "STORAGE_BACKEND": "postgres", "DATABASE_URL": "not-a-url"},
		"bad timezone":    {"TOKEN": "x", "TIMEZONE": "Mars/Olympus"},
		"bad interval":    {"TOKEN": "x", "BROADCAST_CHECK_INTERVAL": "soon"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			chdirTemp(t)
			t.Setenv("TOKEN", "")
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
