package pagination_test

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/JaimeStill/toxiguard/pkg/pagination"
	"github.com/JaimeStill/toxiguard/pkg/query"
)

func defaultConfig() pagination.Config {
	return pagination.Config{DefaultPageSize: 25, MaxPageSize: 200}
}

func TestConfigFinalizeDefaults(t *testing.T) {
	cfg := pagination.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if cfg.DefaultPageSize != 25 {
		t.Errorf("DefaultPageSize = %d, want 25", cfg.DefaultPageSize)
	}
	if cfg.MaxPageSize != 200 {
		t.Errorf("MaxPageSize = %d, want 200", cfg.MaxPageSize)
	}
}

func TestConfigFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_PAGE_SIZE", "10")
	t.Setenv("TEST_MAX_PAGE", "50")

	cfg := pagination.Config{}
	err := cfg.Finalize(&pagination.Env{
		DefaultPageSize: "TEST_PAGE_SIZE",
		MaxPageSize:     "TEST_MAX_PAGE",
	})
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if cfg.DefaultPageSize != 10 || cfg.MaxPageSize != 50 {
		t.Errorf("config = %+v, want {10 50}", cfg)
	}
}

func TestConfigFinalizeDefaultExceedsMax(t *testing.T) {
	cfg := pagination.Config{DefaultPageSize: 300, MaxPageSize: 100}

	err := cfg.Finalize(nil)
	if err == nil || !strings.Contains(err.Error(), "exceeds max_page_size") {
		t.Errorf("Finalize() error = %v, want exceeds max_page_size", err)
	}
}

func TestConfigMerge(t *testing.T) {
	base := defaultConfig()
	base.Merge(&pagination.Config{MaxPageSize: 500})

	if base.DefaultPageSize != 25 {
		t.Errorf("DefaultPageSize = %d, want 25", base.DefaultPageSize)
	}
	if base.MaxPageSize != 500 {
		t.Errorf("MaxPageSize = %d, want 500", base.MaxPageSize)
	}
}

func TestRequestFromQuery(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantPage     int
		wantPageSize int
		wantOffset   int
		wantSort     []query.SortField
	}{
		{"empty", "", 1, 25, 0, nil},
		{"explicit", "page=3&page_size=10", 3, 10, 20, nil},
		{"clamped size", "page_size=1000", 1, 200, 0, nil},
		{"malformed", "page=abc&page_size=-4", 1, 25, 0, nil},
		{"sort", "sort=text,-timestamp", 1, 25, 0, []query.SortField{
			{Field: "text"},
			{Field: "timestamp", Descending: true},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.raw)
			if err != nil {
				t.Fatalf("ParseQuery() error = %v", err)
			}

			req := pagination.RequestFromQuery(values, defaultConfig())

			if req.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", req.Page, tt.wantPage)
			}
			if req.PageSize != tt.wantPageSize {
				t.Errorf("PageSize = %d, want %d", req.PageSize, tt.wantPageSize)
			}
			if req.Offset() != tt.wantOffset {
				t.Errorf("Offset() = %d, want %d", req.Offset(), tt.wantOffset)
			}
			if len(req.Sort) != len(tt.wantSort) {
				t.Fatalf("Sort = %v, want %v", req.Sort, tt.wantSort)
			}
			for i := range tt.wantSort {
				if req.Sort[i] != tt.wantSort[i] {
					t.Errorf("Sort[%d] = %v, want %v", i, req.Sort[i], tt.wantSort[i])
				}
			}
		})
	}
}

func TestNewResult(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		pageSize  int
		wantPages int
	}{
		{"empty", 0, 25, 1},
		{"exact", 50, 25, 2},
		{"remainder", 51, 25, 3},
		{"single", 3, 25, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := pagination.NewResult[string](nil, tt.total, pagination.Request{Page: 1, PageSize: tt.pageSize})
			if r.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", r.TotalPages, tt.wantPages)
			}
			if r.Data == nil {
				t.Error("Data should never be nil")
			}
		})
	}
}

func TestResultJSON(t *testing.T) {
	r := pagination.NewResult[int](nil, 0, pagination.Request{Page: 1, PageSize: 25})

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	want := `{"data":[],"total":0,"page":1,"page_size":25,"total_pages":1}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}

func TestMap(t *testing.T) {
	r := pagination.NewResult([]int{1, 2, 3}, 7, pagination.Request{Page: 2, PageSize: 3})

	mapped := pagination.Map(r, func(n int) string { return strings.Repeat("x", n) })

	if len(mapped.Data) != 3 || mapped.Data[2] != "xxx" {
		t.Errorf("Data = %v, want [x xx xxx]", mapped.Data)
	}
	if mapped.Total != 7 || mapped.Page != 2 || mapped.PageSize != 3 || mapped.TotalPages != 3 {
		t.Errorf("metadata = %+v, want total 7 page 2 size 3 pages 3", mapped)
	}
}
