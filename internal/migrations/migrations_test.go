package migrations_test

import (
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/JaimeStill/toxiguard/internal/migrations"
	"github.com/JaimeStill/toxiguard/pkg/database"
)

func sqliteConfig(t *testing.T) *database.Config {
	t.Helper()
	return &database.Config{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "history.db"),
	}
}

func TestURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  database.Config
		want string
	}{
		{
			name: "postgres url passthrough",
			cfg:  database.Config{Driver: database.DriverPostgres, URL: "postgres://u:p@db:5432/tg"},
			want: "postgres://u:p@db:5432/tg",
		},
		{
			name: "sqlite scheme prefixed",
			cfg:  database.Config{Driver: database.DriverSQLite, Path: "/var/lib/tg.db"},
			want: "sqlite:///var/lib/tg.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := migrations.URL(&tt.cfg); got != tt.want {
				t.Errorf("URL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUpCreatesHistoryTable(t *testing.T) {
	cfg := sqliteConfig(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	if err := migrations.Up(cfg, logger); err != nil {
		t.Fatalf("Up() error = %v", err)
	}
	if err := migrations.Up(cfg, logger); err != nil {
		t.Fatalf("second Up() error = %v", err)
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	var name string
	err = db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'history'").Scan(&name)
	if err != nil {
		t.Fatalf("history table missing: %v", err)
	}

	if _, err := db.Exec(
		"INSERT INTO history (id, text, prediction, timestamp) VALUES (?, ?, ?, ?)",
		"0b4a1c0e-0000-4000-8000-000000000001", "hello", "Neutrálny text", "2025-01-01 10:00:00+00:00",
	); err != nil {
		t.Errorf("insert into migrated table: %v", err)
	}
}

func TestDown(t *testing.T) {
	cfg := sqliteConfig(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	if err := migrations.Up(cfg, logger); err != nil {
		t.Fatalf("Up() error = %v", err)
	}

	m, err := migrations.New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := m.Down(); err != nil {
		t.Fatalf("Down() error = %v", err)
	}
	m.Close()

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE name = 'history'").Scan(&count); err != nil {
		t.Fatalf("query: %v", err)
	}
	if count != 0 {
		t.Errorf("history table still present after Down")
	}
}
