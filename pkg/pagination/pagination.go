// Package pagination provides page requests and page results for list endpoints.
package pagination

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/toxiguard/pkg/query"
)

// Request identifies one page of an ordered result set.
type Request struct {
	Page     int
	PageSize int
	Sort     []query.SortField
}

// Normalize clamps the request into the bounds of cfg.
func (r *Request) Normalize(cfg Config) {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize < 1 {
		r.PageSize = cfg.DefaultPageSize
	}
	if r.PageSize > cfg.MaxPageSize {
		r.PageSize = cfg.MaxPageSize
	}
}

// Offset is the number of rows before the first row of the page.
func (r Request) Offset() int {
	return (r.Page - 1) * r.PageSize
}

// RequestFromQuery reads page, page_size, and sort from URL query values
// and normalizes the result. Malformed numbers fall back to defaults.
func RequestFromQuery(values url.Values, cfg Config) Request {
	page, _ := strconv.Atoi(values.Get("page"))
	pageSize, _ := strconv.Atoi(values.Get("page_size"))

	req := Request{
		Page:     page,
		PageSize: pageSize,
		Sort:     query.ParseSortFields(values.Get("sort")),
	}

	req.Normalize(cfg)
	return req
}

// Result holds one page of data with the totals needed to walk the rest.
type Result[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// NewResult builds a Result for req. Data is never nil and TotalPages is at least one.
func NewResult[T any](data []T, total int, req Request) Result[T] {
	totalPages := 1
	if req.PageSize > 0 && total > 0 {
		totalPages = (total + req.PageSize - 1) / req.PageSize
	}

	if data == nil {
		data = []T{}
	}

	return Result[T]{
		Data:       data,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	}
}

// Map converts the data of a page while keeping its metadata.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	data := make([]U, len(r.Data))
	for i, v := range r.Data {
		data[i] = fn(v)
	}

	return Result[U]{
		Data:       data,
		Total:      r.Total,
		Page:       r.Page,
		PageSize:   r.PageSize,
		TotalPages: r.TotalPages,
	}
}
