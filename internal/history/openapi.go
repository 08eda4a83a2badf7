package history

import (
	"github.com/JaimeStill/toxiguard/internal/classifier"
	"github.com/JaimeStill/toxiguard/pkg/openapi"
)

func filterParams() []*openapi.Parameter {
	return []*openapi.Parameter{
		openapi.QueryParam("prediction", "string", "Only records with this label (toxic or neutral)", false),
		openapi.QueryParam("search", "string", "Case-insensitive substring of the text", false),
	}
}

// Paths documents the history endpoints relative to the API base path.
func Paths() map[string]*openapi.PathItem {
	tags := []string{"History"}

	return map[string]*openapi.PathItem{
		"/history": {
			Get: &openapi.Operation{
				Summary:     "List the history",
				Description: "Reads every record newest first and regenerates the snapshot from that read.",
				Tags:        tags,
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseArray("History entries, newest first", "HistoryEntry"),
					500: openapi.ResponseRef("InternalError"),
				},
			},
		},
		"/history/raw": {
			Get: &openapi.Operation{
				Summary: "Download the snapshot verbatim",
				Tags:    tags,
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseArray("Snapshot as last written", "HistoryEntry"),
					404: openapi.ResponseRef("NotFound"),
					500: openapi.ResponseRef("InternalError"),
				},
			},
		},
		"/history/db": {
			Get: &openapi.Operation{
				Summary:     "List the durable store",
				Description: "Reads the table directly without touching the snapshot.",
				Tags:        tags,
				Parameters: append(filterParams(),
					openapi.QueryParam("limit", "integer", "Maximum number of records", false),
				),
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseArray("History entries, newest first", "HistoryEntry"),
					500: openapi.ResponseRef("InternalError"),
				},
			},
		},
		"/history/search": {
			Get: &openapi.Operation{
				Summary: "Page through the durable store",
				Tags:    tags,
				Parameters: append(filterParams(),
					openapi.QueryParam("page", "integer", "Page number, starting at 1", false),
					openapi.QueryParam("page_size", "integer", "Records per page", false),
					openapi.QueryParam("sort", "string", "Comma-separated keys among text, prediction, timestamp. Prefix with - for descending.", false),
				),
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("One page of history entries", "HistoryPage"),
					500: openapi.ResponseRef("InternalError"),
				},
			},
		},
		"/history/reset": {
			Post: &openapi.Operation{
				Summary: "Delete every record and empty the snapshot",
				Tags:    tags,
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Reset confirmation", "Message"),
					500: openapi.ResponseRef("InternalError"),
				},
			},
		},
		"/history/import": {
			Post: &openapi.Operation{
				Summary:     "Import a snapshot",
				Description: "Inserts each well-formed entry, then regenerates the snapshot.",
				Tags:        tags,
				RequestBody: &openapi.RequestBody{
					Required: true,
					Content: map[string]*openapi.MediaType{
						"application/json": {Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("HistoryEntry")}},
					},
				},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Import counts", "ImportResult"),
					400: openapi.ResponseRef("BadRequest"),
					500: openapi.ResponseRef("InternalError"),
				},
			},
		},
	}
}

// Schemas returns the component schemas referenced by Paths.
func Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"HistoryEntry": {
			Type:     "object",
			Required: []string{"text", "prediction", "timestamp"},
			Properties: map[string]*openapi.Schema{
				"text": {Type: "string"},
				"prediction": {
					Type: "string",
					Enum: []any{classifier.Toxic.Display(), classifier.Neutral.Display()},
				},
				"timestamp": {Type: "string", Description: "DD.MM.YYYY HH:MM:SS in the configured zone", Example: "02.01.2025 11:01:00"},
			},
		},
		"HistoryPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("HistoryEntry")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
		"ImportResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"imported": {Type: "integer"},
				"skipped":  {Type: "integer", Description: "Entries missing a field or carrying an unknown label"},
				"failed":   {Type: "integer", Description: "Entries the store rejected"},
			},
		},
		"Message": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"message": {Type: "string", Example: ResetMessage},
			},
		},
	}
}
