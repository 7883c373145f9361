package config

import (
	"fmt"
	"os"
	"time"

	"plant-sync/internal/core/plants"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenAddr  string `envconfig:"LISTEN_ADDR" default:":9090"`
	DatabaseDSN string `envconfig:"DATABASE_DSN" default:"plant-sync.db"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// NATSURL empty runs without events and with a process-local token cache.
	NATSURL        string        `envconfig:"NATS_URL"`
	TokenBucket    string        `envconfig:"TOKEN_BUCKET" default:"oss_tokens"`
	EventsStream   string        `envconfig:"EVENTS_STREAM" default:"PLANT_EVENTS"`
	EventsSubject  string        `envconfig:"EVENTS_SUBJECT" default:"plants.events"`
	PublishTimeout time.Duration `envconfig:"PUBLISH_TIMEOUT" default:"5s"`

	OSSHost     string        `envconfig:"OSS_API_HOST" required:"true"`
	OSSUsername string        `envconfig:"OSS_USERNAME"`
	OSSPassword string        `envconfig:"OSS_PASSWORD" json:"-"`
	OSSURL      string        `envconfig:"OSS_URL"`
	GrowattURL  string        `envconfig:"GROWATT_URL"`
	OSSTimeout  time.Duration `envconfig:"OSS_TIMEOUT" default:"30s"`
	OSSTokenTTL time.Duration `envconfig:"OSS_TOKEN_TTL" default:"12h"`

	SerialPattern string `envconfig:"SERIAL_PATTERN" default:"^[A-Z0-9]{10}$"`
	CatalogFile   string `envconfig:"CATALOG_FILE"`
}

// Load reads the settings from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// MustLoad loads the required settings for the system to operate
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return cfg
}

type catalogFile struct {
	Items []plants.Item `yaml:"items"`
}

// LoadCatalog reads the item catalog seeded at boot.
func LoadCatalog(path string) ([]plants.Item, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var cf catalogFile
	if err := yaml.Unmarshal(b, &cf); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	for i, it := range cf.Items {
		if it.ItemCode == "" || it.ItemName == "" {
			return nil, fmt.Errorf("catalog %s: item %d needs item_code and item_name", path, i)
		}
	}
	return cf.Items, nil
}
