package history

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

// Config controls snapshot placement and timestamp rendering.
type Config struct {
	SnapshotKey          string `toml:"snapshot_key"`
	Timezone             string `toml:"timezone"`
	SyncSnapshotOnAppend *bool  `toml:"sync_snapshot_on_append"`
	ImportBatchSize      int    `toml:"import_batch_size"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	SnapshotKey          string
	Timezone             string
	SyncSnapshotOnAppend string
}

// Location returns the configured zone. Finalize guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SyncOnAppend reports whether each append also regenerates the snapshot.
func (c *Config) SyncOnAppend() bool {
	return c.SyncSnapshotOnAppend != nil && *c.SyncSnapshotOnAppend
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.SnapshotKey != "" {
		c.SnapshotKey = overlay.SnapshotKey
	}
	if overlay.Timezone != "" {
		c.Timezone = overlay.Timezone
	}
	if overlay.SyncSnapshotOnAppend != nil {
		c.SyncSnapshotOnAppend = overlay.SyncSnapshotOnAppend
	}
	if overlay.ImportBatchSize != 0 {
		c.ImportBatchSize = overlay.ImportBatchSize
	}
}

func (c *Config) loadDefaults() {
	if c.SnapshotKey == "" {
		c.SnapshotKey = "history.json"
	}
	if c.Timezone == "" {
		c.Timezone = "Europe/Bratislava"
	}
	if c.ImportBatchSize == 0 {
		c.ImportBatchSize = 50
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.SnapshotKey != "" {
		if v := os.Getenv(env.SnapshotKey); v != "" {
			c.SnapshotKey = v
		}
	}
	if env.Timezone != "" {
		if v := os.Getenv(env.Timezone); v != "" {
			c.Timezone = v
		}
	}
	if env.SyncSnapshotOnAppend != "" {
		if v := os.Getenv(env.SyncSnapshotOnAppend); v != "" {
			if sync, err := strconv.ParseBool(v); err == nil {
				c.SyncSnapshotOnAppend = &sync
			}
		}
	}
}

func (c *Config) validate() error {
	if strings.Contains(c.SnapshotKey, "..") {
		return fmt.Errorf("invalid snapshot_key: %s", c.SnapshotKey)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}
	if c.ImportBatchSize < 1 {
		return fmt.Errorf("import_batch_size must be positive: %d", c.ImportBatchSize)
	}
	return nil
}
