package history

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/toxiguard/pkg/handlers"
	"github.com/JaimeStill/toxiguard/pkg/pagination"
	"github.com/JaimeStill/toxiguard/pkg/routes"
)

// ResetMessage is the confirmation returned by a successful reset.
const ResetMessage = "History reset successful."

// Handler provides HTTP endpoints for the classification ledger.
type Handler struct {
	sys    System
	pages  pagination.Config
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system, pagination bounds, and logger.
func NewHandler(sys System, pages pagination.Config, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		pages:  pages,
		logger: logger.With("handler", "history"),
	}
}

// Routes returns the route group definition for history endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/history",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/raw", Handler: h.Raw},
			{Method: "GET", Pattern: "/db", Handler: h.Stored},
			{Method: "GET", Pattern: "/search", Handler: h.Search},
			{Method: "POST", Pattern: "/reset", Handler: h.Reset},
			{Method: "POST", Pattern: "/import", Handler: h.Import},
		},
	}
}

// List returns every record newest first and regenerates the snapshot.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.sys.List(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Entries(records, h.sys.Location()))
}

// Raw returns the snapshot bytes as last written.
func (h *Handler) Raw(w http.ResponseWriter, r *http.Request) {
	data, err := h.sys.Raw(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondRaw(w, http.StatusOK, snapshotContentType, data)
}

// Stored reads the durable store directly, honoring prediction, search, and limit query parameters.
func (h *Handler) Stored(w http.ResponseWriter, r *http.Request) {
	records, err := h.sys.ListStored(r.Context(), FiltersFromQuery(r.URL.Query()))
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Entries(records, h.sys.Location()))
}

// Search returns one page of stored records. Accepts page, page_size, sort,
// prediction, and search query parameters.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	page := pagination.RequestFromQuery(values, h.pages)

	result, err := h.sys.Search(r.Context(), page, FiltersFromQuery(values))
	if err != nil {
		h.fail(w, err)
		return
	}

	loc := h.sys.Location()
	handlers.RespondJSON(w, http.StatusOK, pagination.Map(result, func(rec Record) Entry {
		return rec.Entry(loc)
	}))
}

// Reset clears the durable store and the snapshot.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.Reset(r.Context()); err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondMessage(w, http.StatusOK, ResetMessage)
}

// Import replays a legacy snapshot body into the durable store.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	var entries []Entry
	if err := json.NewDecoder(r.Body).Decode(&entries); err != nil {
		h.fail(w, fmt.Errorf("%w: %w", ErrInvalidImport, err))
		return
	}

	result, err := h.sys.Import(r.Context(), entries)
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	handlers.RespondError(w, h.logger, MapHTTPStatus(err), err, PublicError(err).Error())
}
