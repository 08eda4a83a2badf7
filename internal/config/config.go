package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/toxiguard/internal/classifier"
	"github.com/JaimeStill/toxiguard/internal/history"
	"github.com/JaimeStill/toxiguard/pkg/database"
	"github.com/JaimeStill/toxiguard/pkg/observe"
	"github.com/JaimeStill/toxiguard/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvToxiguardEnv             = "TOXIGUARD_ENV"
	EnvToxiguardShutdownTimeout = "TOXIGUARD_SHUTDOWN_TIMEOUT"
	EnvToxiguardVersion         = "TOXIGUARD_VERSION"
)

var databaseEnv = &database.Env{
	Driver:          "TOXIGUARD_DB_DRIVER",
	URL:             "TOXIGUARD_DB_URL",
	URLFallback:     "DATABASE_URL",
	Path:            "TOXIGUARD_DB_PATH",
	Host:            "TOXIGUARD_DB_HOST",
	Port:            "TOXIGUARD_DB_PORT",
	Name:            "TOXIGUARD_DB_NAME",
	User:            "TOXIGUARD_DB_USER",
	Password:        "TOXIGUARD_DB_PASSWORD",
	SSLMode:         "TOXIGUARD_DB_SSL_MODE",
	MaxOpenConns:    "TOXIGUARD_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "TOXIGUARD_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "TOXIGUARD_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "TOXIGUARD_DB_CONN_TIMEOUT",
	AutoMigrate:     "TOXIGUARD_DB_AUTO_MIGRATE",
}

var storageEnv = &storage.Env{
	Provider:         "TOXIGUARD_STORAGE_PROVIDER",
	Root:             "TOXIGUARD_STORAGE_ROOT",
	ContainerName:    "TOXIGUARD_STORAGE_CONTAINER_NAME",
	ConnectionString: "TOXIGUARD_STORAGE_CONNECTION_STRING",
	AccountURL:       "TOXIGUARD_STORAGE_ACCOUNT_URL",
}

var classifierEnv = &classifier.Env{
	Provider:   "TOXIGUARD_CLASSIFIER_PROVIDER",
	Endpoint:   "TOXIGUARD_CLASSIFIER_ENDPOINT",
	Token:      "TOXIGUARD_CLASSIFIER_TOKEN",
	Model:      "TOXIGUARD_CLASSIFIER_MODEL",
	APIKey:     "TOXIGUARD_CLASSIFIER_API_KEY",
	Timeout:    "TOXIGUARD_CLASSIFIER_TIMEOUT",
	MaxRetries: "TOXIGUARD_CLASSIFIER_MAX_RETRIES",
}

var historyEnv = &history.Env{
	SnapshotKey:          "TOXIGUARD_HISTORY_SNAPSHOT_KEY",
	Timezone:             "TOXIGUARD_HISTORY_TIMEZONE",
	SyncSnapshotOnAppend: "TOXIGUARD_HISTORY_SYNC_SNAPSHOT_ON_APPEND",
}

var metricsEnv = &observe.Env{
	Enabled: "TOXIGUARD_METRICS_ENABLED",
	Path:    "TOXIGUARD_METRICS_PATH",
}

// Config is the root configuration for the toxiguard service.
type Config struct {
	Server          ServerConfig      `toml:"server"`
	Database        database.Config   `toml:"database"`
	Storage         storage.Config    `toml:"storage"`
	API             APIConfig         `toml:"api"`
	Classifier      classifier.Config `toml:"classifier"`
	History         history.Config    `toml:"history"`
	Logging         LoggingConfig     `toml:"logging"`
	Metrics         observe.Config    `toml:"metrics"`
	ShutdownTimeout string            `toml:"shutdown_timeout"`
	Version         string            `toml:"version"`
}

// Env returns the TOXIGUARD_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvToxiguardEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	return LoadFile(BaseConfigFile)
}

// LoadFile is Load with an explicit base config path. Overlays are resolved
// relative to the working directory.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(path); err == nil {
		loaded, err := load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if overlay := overlayPath(); overlay != "" {
		o, err := load(overlay)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", overlay, err)
		}
		cfg.Merge(o)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Classifier.Merge(&overlay.Classifier)
	c.History.Merge(&overlay.History)
	c.Logging.Merge(&overlay.Logging)
	c.Metrics.Merge(&overlay.Metrics)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Classifier.Finalize(classifierEnv); err != nil {
		return fmt.Errorf("classifier: %w", err)
	}
	if err := c.History.Finalize(historyEnv); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	if err := c.Logging.Finalize(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Metrics.Finalize(metricsEnv); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvToxiguardShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvToxiguardVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvToxiguardEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
