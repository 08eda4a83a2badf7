package api_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JaimeStill/toxiguard/internal/api"
	"github.com/JaimeStill/toxiguard/internal/classifier"
	"github.com/JaimeStill/toxiguard/internal/config"
	"github.com/JaimeStill/toxiguard/internal/history"
	"github.com/JaimeStill/toxiguard/internal/infrastructure"
	"github.com/JaimeStill/toxiguard/internal/migrations"
	"github.com/JaimeStill/toxiguard/pkg/database"
	"github.com/JaimeStill/toxiguard/pkg/middleware"
	"github.com/JaimeStill/toxiguard/pkg/module"
	"github.com/JaimeStill/toxiguard/pkg/pagination"
	"github.com/JaimeStill/toxiguard/pkg/storage"
)

func validConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.Config{
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
		API: config.APIConfig{
			BasePath:    "/api",
			MaxBodySize: "4KB",
			CORS: middleware.CORSConfig{
				Enabled:        true,
				Origins:        []string{"http://localhost:5173"},
				AllowedMethods: []string{"GET", "POST", "OPTIONS"},
				AllowedHeaders: []string{"Content-Type"},
				MaxAge:         3600,
			},
			Pagination: pagination.Config{DefaultPageSize: 25, MaxPageSize: 200},
		},
		Classifier: classifier.Config{
			Provider: classifier.ProviderLexicon,
			Terms:    []string{"idiot"},
		},
		History: history.Config{},
		Version: "0.1.0",
	}

	if err := cfg.History.Finalize(nil); err != nil {
		t.Fatalf("history config: %v", err)
	}
	return cfg
}

func setup(t *testing.T) http.Handler {
	t.Helper()
	cfg := validConfig(t)

	infra, err := infrastructure.NewWithOutput(cfg, io.Discard)
	if err != nil {
		t.Fatalf("infrastructure.New() error = %v", err)
	}
	t.Cleanup(func() { infra.Database.Connection().Close() })

	if err := migrations.Up(&cfg.Database, infra.Logger); err != nil {
		t.Fatalf("migrations.Up() error = %v", err)
	}

	m, err := api.NewModule(cfg, infra)
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}
	if m.Prefix() != "/api" {
		t.Errorf("Prefix() = %s, want /api", m.Prefix())
	}

	router := module.NewRouter()
	router.Mount(m)
	return router
}

func request(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestPredictRecordsEveryOccurrence(t *testing.T) {
	h := setup(t)

	for i := range 2 {
		rec := request(t, h, "POST", "/api/predict", `{"text":"hello"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("predict %d: status = %d, body = %s", i, rec.Code, rec.Body)
		}
		if got := decode[map[string]string](t, rec)["prediction"]; got != "Neutrálny text" {
			t.Errorf("predict %d: prediction = %q", i, got)
		}

		entries := decode[[]history.Entry](t, request(t, h, "GET", "/api/history", ""))
		if len(entries) != i+1 {
			t.Errorf("after predict %d: history len = %d, want %d", i, len(entries), i+1)
		}
	}

	stats := decode[map[string]int](t, request(t, h, "GET", "/api/predict/stats", ""))
	if stats["entries"] != 1 || stats["hits"] != 1 {
		t.Errorf("stats = %v, want one entry served once from cache", stats)
	}
}

func TestPredictValidation(t *testing.T) {
	h := setup(t)

	tests := []struct {
		name   string
		text   string
		status int
	}{
		{"empty", "", http.StatusBadRequest},
		{"boundary", strings.Repeat("a", 512), http.StatusOK},
		{"too long", strings.Repeat("a", 513), http.StatusBadRequest},
		{"cyrillic", "Привет", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := request(t, h, "POST", "/api/predict", fmt.Sprintf(`{"text":%q}`, tt.text))
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.status == http.StatusBadRequest {
				if msg := decode[map[string]string](t, rec)["error"]; msg == "" {
					t.Error("expected a non-empty error message")
				}
			}
		})
	}
}

func TestPredictBodyLimit(t *testing.T) {
	h := setup(t)

	body := fmt.Sprintf(`{"text":%q}`, strings.Repeat("a", 8*1024))
	rec := request(t, h, "POST", "/api/predict", body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestResetThenHistory(t *testing.T) {
	h := setup(t)

	request(t, h, "POST", "/api/predict", `{"text":"ty idiot"}`)
	request(t, h, "POST", "/api/predict", `{"text":"ahoj"}`)

	rec := request(t, h, "POST", "/api/history/reset", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("reset status = %d", rec.Code)
	}
	if msg := decode[map[string]string](t, rec)["message"]; msg != history.ResetMessage {
		t.Errorf("message = %q", msg)
	}

	rec = request(t, h, "GET", "/api/history", "")
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("history after reset = %q, want []", rec.Body.String())
	}

	rec = request(t, h, "GET", "/api/history/raw", "")
	if rec.Body.String() != "[]" {
		t.Errorf("raw after reset = %q, want []", rec.Body.String())
	}
}

func TestHistoryRawNotFound(t *testing.T) {
	h := setup(t)

	rec := request(t, h, "GET", "/api/history/raw", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := setup(t)

	req := httptest.NewRequest("OPTIONS", "/api/predict", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestHistoryStoreReads(t *testing.T) {
	h := setup(t)

	request(t, h, "POST", "/api/predict", `{"text":"ty idiot"}`)
	request(t, h, "POST", "/api/predict", `{"text":"ahoj"}`)
	request(t, h, "POST", "/api/predict", `{"text":"ahoj"}`)

	entries := decode[[]history.Entry](t, request(t, h, "GET", "/api/history/db", ""))
	if len(entries) != 3 {
		t.Fatalf("db len = %d, want 3", len(entries))
	}

	page := decode[pagination.Result[history.Entry]](t, request(t, h, "GET", "/api/history/search?prediction=neutral&page_size=1", ""))
	if page.Total != 2 || page.TotalPages != 2 || len(page.Data) != 1 {
		t.Errorf("page = %+v, want 2 neutral records one per page", page)
	}
}

func TestOpenAPIDocument(t *testing.T) {
	h := setup(t)

	rec := request(t, h, "GET", "/api/openapi.json", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var doc struct {
		OpenAPI string                    `json:"openapi"`
		Info    map[string]string         `json:"info"`
		Servers []map[string]string       `json:"servers"`
		Paths   map[string]map[string]any `json:"paths"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&doc); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if doc.Info["version"] != "0.1.0" {
		t.Errorf("info.version = %q", doc.Info["version"])
	}
	if len(doc.Servers) != 1 || doc.Servers[0]["url"] != "/api" {
		t.Errorf("servers = %v", doc.Servers)
	}

	for _, tt := range []struct{ path, method string }{
		{"/predict", "post"},
		{"/predict/stats", "get"},
		{"/history", "get"},
		{"/history/raw", "get"},
		{"/history/db", "get"},
		{"/history/search", "get"},
		{"/history/reset", "post"},
		{"/history/import", "post"},
	} {
		if _, ok := doc.Paths[tt.path][tt.method]; !ok {
			t.Errorf("missing %s %s", tt.method, tt.path)
		}
	}
}
