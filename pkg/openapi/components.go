package openapi

// NewComponents creates Components with the shared error schema and responses.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"Error": {
				Type:     "object",
				Required: []string{"error"},
				Properties: map[string]*Schema{
					"error": {Type: "string", Description: "Human-readable error message"},
				},
			},
		},
		Responses: map[string]*Response{
			"BadRequest":    ResponseJSON("Invalid request", "Error"),
			"NotFound":      ResponseJSON("Resource not found", "Error"),
			"InternalError": ResponseJSON("Unexpected server failure", "Error"),
		},
	}
}
