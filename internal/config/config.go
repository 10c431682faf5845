package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"calbot/internal/domain/entities"
	"calbot/pkg/tz"
)

const defaultConfigFile = "config.yaml"

type Config struct {
	Token   string `yaml:"token" envconfig:"TOKEN"`
	GuildID string `yaml:"guild_id" envconfig:"GUILD_ID"`

	StorageBackend string `yaml:"storage_backend" envconfig:"STORAGE_BACKEND"`
	EventsFile     string `yaml:"events_file" envconfig:"EVENTS_FILE"`
	RedisURL       string `yaml:"redis_url" envconfig:"REDIS_URL"`
	DatabaseURL    string `yaml:"database_url" envconfig:"DATABASE_URL"`

	Broadcast Broadcast `yaml:"broadcast" envconfig:"BROADCAST"`

	Timezone          string `yaml:"timezone" envconfig:"TIMEZONE"`
	Locale            string `yaml:"locale" envconfig:"LOCALE"`
	ImportHorizonDays int    `yaml:"import_horizon_days" envconfig:"IMPORT_HORIZON_DAYS"`
	OTelStdout        bool   `yaml:"otel_stdout" envconfig:"OTEL_STDOUT"`
}

// Broadcast holds the reminder options (BROADCAST_* variables); intervals are
// in minutes.
type Broadcast struct {
	Enabled       bool     `yaml:"enabled" envconfig:"ENABLED"`
	CheckInterval int      `yaml:"check_interval" envconfig:"CHECK_INTERVAL"`
	LeadTime      int      `yaml:"lead_time" envconfig:"LEAD_TIME"`
	Targets       []string `yaml:"target_destinations" envconfig:"TARGETS"`
	MetadataFile  string   `yaml:"metadata_file" envconfig:"METADATA_FILE"`
}

// Entity converts the options to the scheduler configuration.
func (b Broadcast) Entity() entities.BroadcastConfig {
	targets := make([]string, 0, len(b.Targets))
	for _, t := range b.Targets {
		if t = strings.TrimSpace(t); t != "" {
			targets = append(targets, t)
		}
	}
	return entities.BroadcastConfig{
		Enabled:            b.Enabled,
		CheckInterval:      b.CheckInterval,
		LeadTime:           b.LeadTime,
		TargetDestinations: targets,
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		StorageBackend: "file",
		EventsFile:     "data/events.json",
		Broadcast: Broadcast{
			CheckInterval: 30,
			LeadTime:      300,
			MetadataFile:  "data/broadcast_metadata.json",
		},
		Timezone:          "Europe/Paris",
		Locale:            "fr",
		ImportHorizonDays: 90,
	}
}

// Load charge la configuration: valeurs par défaut, puis fichier YAML
// optionnel (CONFIG_FILE), puis .env et variables d'environnement.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env est optionnel lorsque les variables sont fournies par l'environnement (Docker, CI, etc.).
	}

	cfg := Default()

	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = defaultConfigFile
	}
	if err := cfg.mergeYAML(path); err != nil {
		return nil, err
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("config: variables d'environnement: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeYAML overlays the YAML file at path; a missing file is not an error.
func (c *Config) mergeYAML(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("config: lecture de %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: %s invalide: %w", path, err)
	}
	return nil
}

// validate applique toutes les règles métier sur la configuration chargée.
func (c *Config) validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return fmt.Errorf("config: TOKEN est requis et ne peut pas être vide")
	}

	c.StorageBackend = strings.ToLower(strings.TrimSpace(c.StorageBackend))
	switch c.StorageBackend {
	case "":
		c.StorageBackend = "file"
	case "file", "redis", "postgres":
	default:
		return fmt.Errorf("config: STORAGE_BACKEND invalide (%q): file, redis ou postgres", c.StorageBackend)
	}

	if strings.TrimSpace(c.EventsFile) == "" {
		return fmt.Errorf("config: EVENTS_FILE ne peut pas être vide")
	}
	if strings.TrimSpace(c.Broadcast.MetadataFile) == "" {
		return fmt.Errorf("config: BROADCAST_METADATA_FILE ne peut pas être vide")
	}

	switch c.StorageBackend {
	case "redis":
		if strings.TrimSpace(c.RedisURL) == "" {
			// Valeur par défaut utile en local lorsque REDIS_URL n'est pas fournie.
			c.RedisURL = "redis://localhost:6379/0"
		}
	case "postgres":
		if strings.TrimSpace(c.DatabaseURL) == "" {
			c.DatabaseURL = "postgres://localhost:5432/calbot?sslmode=disable"
		}
		parsed, err := url.Parse(c.DatabaseURL)
		if err != nil {
			return fmt.Errorf("config: DATABASE_URL invalide (%q): %w", c.DatabaseURL, err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("config: DATABASE_URL invalide (%q): scheme ou host manquant", c.DatabaseURL)
		}
	}

	if _, err := tz.Load(c.Timezone); err != nil {
		return fmt.Errorf("config: TIMEZONE invalide: %w", err)
	}
	if c.ImportHorizonDays <= 0 {
		c.ImportHorizonDays = 90
	}
	return nil
}
