package infrastructure_test

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/JaimeStill/toxiguard/internal/classifier"
	"github.com/JaimeStill/toxiguard/internal/config"
	"github.com/JaimeStill/toxiguard/internal/infrastructure"
	"github.com/JaimeStill/toxiguard/pkg/database"
	"github.com/JaimeStill/toxiguard/pkg/storage"
)

func validConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	return &config.Config{
		Database: database.Config{
			Driver:          database.DriverSQLite,
			Path:            filepath.Join(dir, "toxiguard.db"),
			ConnMaxLifetime: "15m",
			ConnTimeout:     "5s",
		},
		Storage: storage.Config{
			Provider: storage.ProviderLocal,
			Root:     filepath.Join(dir, "snapshots"),
		},
		Classifier: classifier.Config{
			Provider: classifier.ProviderLexicon,
			Terms:    []string{"idiot"},
		},
		Logging: config.LoggingConfig{Level: "info", Format: "text"},
		Version: "0.1.0",
	}
}

func TestNew(t *testing.T) {
	infra, err := infrastructure.NewWithOutput(validConfig(t), io.Discard)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if infra.Lifecycle == nil {
		t.Error("Lifecycle is nil")
	}
	if infra.Logger == nil {
		t.Error("Logger is nil")
	}
	if infra.Database == nil || infra.Database.Connection() == nil {
		t.Error("Database is nil")
	}
	if infra.Storage == nil {
		t.Error("Storage is nil")
	}
	if infra.Observe == nil {
		t.Error("Observe is nil")
	}
	if infra.Classifier == nil {
		t.Error("Classifier is nil")
	}
}

func TestStartAndShutdown(t *testing.T) {
	infra, err := infrastructure.NewWithOutput(validConfig(t), io.Discard)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := infra.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	infra.Lifecycle.WaitForStartup()

	if !infra.Lifecycle.Ready() {
		t.Fatalf("not ready: %v", infra.Lifecycle.Err())
	}

	if err := infra.Lifecycle.Shutdown(5 * time.Second); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNewInvalidStorageConfig(t *testing.T) {
	cfg := validConfig(t)
	cfg.Storage = storage.Config{
		Provider:         storage.ProviderAzure,
		ContainerName:    "history",
		ConnectionString: "not-a-connection-string",
	}

	if _, err := infrastructure.NewWithOutput(cfg, io.Discard); err == nil {
		t.Fatal("expected error for invalid storage connection string")
	}
}

func TestNewUnknownClassifier(t *testing.T) {
	cfg := validConfig(t)
	cfg.Classifier.Provider = "oracle"

	if _, err := infrastructure.NewWithOutput(cfg, io.Discard); err == nil {
		t.Fatal("expected error for unknown classifier provider")
	}
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := infrastructure.NewLogger(&config.LoggingConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info("dropped")
	logger.Warn("kept", "key", "value")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("expected a single JSON record, got %q: %v", buf.String(), err)
	}
	if record["msg"] != "kept" || record["key"] != "value" {
		t.Errorf("record = %v", record)
	}
}
