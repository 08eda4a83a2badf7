package predictions

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidInput wraps every validation failure.
	ErrInvalidInput = errors.New("invalid input")
	ErrEmptyText    = errors.New("text is empty")
	ErrTextTooLong  = errors.New("text exceeds maximum length")
	// ErrDisallowedScript indicates text containing Cyrillic characters.
	ErrDisallowedScript = errors.New("text contains a disallowed script")
	// ErrInvalidBody indicates a request body that is not a JSON object.
	ErrInvalidBody = errors.New("invalid request body")

	ErrClassify = errors.New("classification failed")
	ErrInternal = errors.New("internal error")
)

// messages are the user-facing texts shown for each validation rule.
var messages = map[error]string{
	ErrEmptyText:        "Text nesmie byť prázdny.",
	ErrTextTooLong:      "Text je príliš dlhý. Maximálne 512 znakov.",
	ErrDisallowedScript: "Text nesmie obsahovať azbuku (cyriliku).",
}

// MapHTTPStatus maps prediction errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidBody):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Message returns the text safe to show a client for err. Validation
// failures carry their rule message; anything else is reduced to its sentinel.
func Message(err error) string {
	for rule, msg := range messages {
		if errors.Is(err, rule) {
			return msg
		}
	}

	switch {
	case errors.Is(err, ErrInvalidBody):
		return ErrInvalidBody.Error()
	case errors.Is(err, ErrClassify):
		return ErrClassify.Error()
	}
	return ErrInternal.Error()
}
