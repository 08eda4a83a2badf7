package predictions

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/toxiguard/pkg/handlers"
	"github.com/JaimeStill/toxiguard/pkg/routes"
)

// Handler provides HTTP endpoints for the classification pipeline.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "predictions"),
	}
}

// Routes returns the route group definition for prediction endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/predict",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Predict},
			{Method: "GET", Pattern: "/stats", Handler: h.Stats},
		},
	}
}

// Predict classifies the text in a JSON body of the form {"text": "..."}.
// A missing text field is treated as empty text.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, fmt.Errorf("%w: %w", ErrInvalidBody, err))
		return
	}

	pred, err := h.sys.Predict(r.Context(), req.Text)
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Response{Prediction: pred.Label.Display()})
}

// Stats returns result cache usage counters.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.sys.Stats())
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	handlers.RespondError(w, h.logger, MapHTTPStatus(err), err, Message(err))
}
