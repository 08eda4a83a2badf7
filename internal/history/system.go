package history

import (
	"context"
	"time"

	"github.com/JaimeStill/toxiguard/internal/classifier"
	"github.com/JaimeStill/toxiguard/pkg/pagination"
)

// System defines the public contract for the classification ledger.
// Every error it returns for a store or snapshot failure wraps ErrPersistence.
type System interface {
	Handler(pages pagination.Config) *Handler

	// Append inserts one record into the durable store.
	Append(ctx context.Context, text string, label classifier.Label, at time.Time) error
	// List reads every record, newest first, and regenerates the snapshot from that read.
	List(ctx context.Context) ([]Record, error)
	// ListStored reads records newest first without touching the snapshot.
	ListStored(ctx context.Context, filters Filters) ([]Record, error)
	// Search reads one page of stored records matching filters. Filters.Limit is ignored.
	Search(ctx context.Context, page pagination.Request, filters Filters) (pagination.Result[Record], error)
	// Count returns the number of stored records matching filters.
	Count(ctx context.Context, filters Filters) (int, error)
	// Reset empties the snapshot and deletes every durable record.
	Reset(ctx context.Context) error
	// Raw returns the last materialized snapshot bytes verbatim.
	Raw(ctx context.Context) ([]byte, error)
	// Export regenerates the snapshot from a full read and returns the records read.
	Export(ctx context.Context) ([]Record, error)
	// Import replays legacy snapshot entries into the durable store, then exports.
	Import(ctx context.Context, entries []Entry) (ImportResult, error)
	// ImportStored replays entries into the durable store without exporting.
	// Bulk loaders call it per batch and Export once at the end.
	ImportStored(ctx context.Context, entries []Entry) ImportResult
	// Location is the zone timestamps are rendered and parsed in.
	Location() *time.Location
}
