package predictions

import (
	"github.com/JaimeStill/toxiguard/internal/classifier"
	"github.com/JaimeStill/toxiguard/pkg/openapi"
)

// Paths documents the prediction endpoints relative to the API base path.
func Paths() map[string]*openapi.PathItem {
	return map[string]*openapi.PathItem{
		"/predict": {
			Post: &openapi.Operation{
				Summary:     "Classify a text",
				Description: "Identical texts are classified once; every call is recorded in the history.",
				Tags:        []string{"Predictions"},
				RequestBody: openapi.RequestBodyJSON("PredictRequest", true),
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Classification label", "PredictResponse"),
					400: openapi.ResponseRef("BadRequest"),
					500: openapi.ResponseRef("InternalError"),
				},
			},
		},
		"/predict/stats": {
			Get: &openapi.Operation{
				Summary: "Result cache counters",
				Tags:    []string{"Predictions"},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Cache counters", "CacheStats"),
				},
			},
		},
	}
}

// Schemas returns the component schemas referenced by Paths.
func Schemas() map[string]*openapi.Schema {
	maxLength := MaxLength

	return map[string]*openapi.Schema{
		"PredictRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"text": {
					Type:        "string",
					Description: "Text to classify. Cyrillic characters are rejected.",
					MaxLength:   &maxLength,
					Example:     "Ahoj, ako sa máš?",
				},
			},
		},
		"PredictResponse": {
			Type:     "object",
			Required: []string{"prediction"},
			Properties: map[string]*openapi.Schema{
				"prediction": {
					Type: "string",
					Enum: []any{classifier.Toxic.Display(), classifier.Neutral.Display()},
				},
			},
		},
		"CacheStats": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"entries": {Type: "integer", Description: "Distinct texts classified"},
				"hits":    {Type: "integer", Description: "Requests served from the cache"},
				"misses":  {Type: "integer", Description: "Requests that reached the classifier"},
			},
		},
	}
}
