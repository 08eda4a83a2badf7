package history

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/JaimeStill/toxiguard/internal/classifier"
	"github.com/JaimeStill/toxiguard/pkg/database"
	"github.com/JaimeStill/toxiguard/pkg/pagination"
	"github.com/JaimeStill/toxiguard/pkg/query"
	"github.com/JaimeStill/toxiguard/pkg/repository"
	"github.com/JaimeStill/toxiguard/pkg/storage"
)

type repo struct {
	db      *sql.DB
	driver  database.Driver
	store   storage.System
	cfg     *Config
	loc     *time.Location
	now     func() time.Time
	logger  *slog.Logger
	metrics *metrics

	// mu serializes snapshot regeneration: the full read of the store and
	// the snapshot write happen under it. Raw takes no lock.
	mu sync.Mutex
}

// New creates the history ledger over db and the snapshot store.
func New(
	db *sql.DB,
	driver database.Driver,
	store storage.System,
	cfg *Config,
	meter metric.Meter,
	logger *slog.Logger,
) (System, error) {
	m, err := newMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("history metrics: %w", err)
	}

	return &repo{
		db:      db,
		driver:  driver,
		store:   store,
		cfg:     cfg,
		loc:     cfg.Location(),
		now:     time.Now,
		logger:  logger.With("system", "history"),
		metrics: m,
	}, nil
}

func (r *repo) Handler(pages pagination.Config) *Handler {
	return NewHandler(r, pages, r.logger)
}

func (r *repo) Location() *time.Location {
	return r.loc
}

func (r *repo) Append(ctx context.Context, text string, label classifier.Label, at time.Time) error {
	err := r.insert(ctx, r.db, text, label, at)
	r.metrics.append(ctx, err)
	if err != nil {
		return persistence("append record", err)
	}

	if r.cfg.SyncOnAppend() {
		if _, err := r.Export(ctx); err != nil {
			return err
		}
	}

	return nil
}

func (r *repo) List(ctx context.Context) ([]Record, error) {
	return r.Export(ctx)
}

func (r *repo) ListStored(ctx context.Context, filters Filters) ([]Record, error) {
	qb := filters.Apply(r.builder())
	q, args := qb.BuildLimit(filters.Limit)

	records, err := repository.QueryMany(ctx, r.db, q, args, scanRecord)
	if err != nil {
		return nil, persistence("read records", err)
	}
	return records, nil
}

func (r *repo) Search(ctx context.Context, page pagination.Request, filters Filters) (pagination.Result[Record], error) {
	total, err := r.Count(ctx, filters)
	if err != nil {
		return pagination.Result[Record]{}, err
	}

	qb := filters.Apply(r.builder()).OrderByFields(sortable(page.Sort))
	q, args := qb.BuildPage(page.Offset(), page.PageSize)

	records, err := repository.QueryMany(ctx, r.db, q, args, scanRecord)
	if err != nil {
		return pagination.Result[Record]{}, persistence("read page", err)
	}

	return pagination.NewResult(records, total, page), nil
}

func (r *repo) Count(ctx context.Context, filters Filters) (int, error) {
	q, args := filters.Apply(r.builder()).BuildCount()

	n, err := repository.QueryOne(ctx, r.db, q, args, func(s repository.Scanner) (int, error) {
		var n int
		err := s.Scan(&n)
		return n, err
	})
	if err != nil {
		return 0, persistence("count records", err)
	}
	return n, nil
}

func (r *repo) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshotErr := r.writeSnapshot(ctx, nil)
	if snapshotErr != nil {
		r.logger.Error("empty snapshot write failed", "error", snapshotErr)
	}

	deleted, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (int64, error) {
		return repository.ExecCount(ctx, tx, "DELETE FROM history")
	})
	if err != nil {
		r.logger.Error("durable reset failed, restoring snapshot", "error", err)
		if _, exportErr := r.export(ctx); exportErr != nil {
			r.logger.Error("snapshot restore failed", "error", exportErr)
		}
		return persistence("reset records", err)
	}

	if snapshotErr != nil {
		return persistence("reset snapshot", snapshotErr)
	}

	r.logger.Info("history reset", "deleted", deleted)
	return nil
}

func (r *repo) Raw(ctx context.Context) ([]byte, error) {
	rc, err := r.store.Download(ctx, r.cfg.SnapshotKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrSnapshotNotFound
		}
		return nil, persistence("download snapshot", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, persistence("read snapshot", err)
	}
	return data, nil
}

func (r *repo) Export(ctx context.Context) ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.export(ctx)
}

// export regenerates the snapshot. Callers hold mu.
func (r *repo) export(ctx context.Context) ([]Record, error) {
	records, err := r.ListStored(ctx, Filters{})
	if err != nil {
		return nil, err
	}

	if err := r.writeSnapshot(ctx, records); err != nil {
		return nil, persistence("write snapshot", err)
	}
	return records, nil
}

func (r *repo) Import(ctx context.Context, entries []Entry) (ImportResult, error) {
	result := r.ImportStored(ctx, entries)

	if _, err := r.Export(ctx); err != nil {
		return result, err
	}
	return result, nil
}

func (r *repo) ImportStored(ctx context.Context, entries []Entry) ImportResult {
	var result ImportResult

	for i, e := range entries {
		if e.Text == "" || e.Prediction == "" || e.Timestamp == "" {
			result.Skipped++
			continue
		}

		label, err := classifier.ParseLabel(e.Prediction)
		if err != nil {
			r.logger.Warn("import entry skipped", "index", i, "error", err)
			result.Skipped++
			continue
		}

		at, err := time.ParseInLocation(TimestampLayout, e.Timestamp, r.loc)
		if err != nil {
			r.logger.Warn("import timestamp unparsable, using now", "index", i, "timestamp", e.Timestamp)
			at = r.now()
		}

		if err := r.insert(ctx, r.db, e.Text, label, at); err != nil {
			r.logger.Error("import entry failed", "index", i, "error", err)
			result.Failed++
			continue
		}
		result.Imported++
	}

	r.logger.Info("history imported",
		"imported", result.Imported,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)

	return result
}

func (r *repo) builder() *query.Builder {
	return query.
		NewBuilder(projection, defaultSort).
		Placeholders(r.driver.Placeholder)
}

func (r *repo) insert(ctx context.Context, e repository.Executor, text string, label classifier.Label, at time.Time) error {
	q := fmt.Sprintf(
		"INSERT INTO history (id, text, prediction, timestamp) VALUES (%s)",
		r.placeholders(4),
	)
	err := repository.ExecExpectOne(ctx, e, q, uuid.New(), text, label.Display(), at.UTC())
	return repository.MapError(err, ErrNotWritten, ErrDuplicateRecord)
}

func (r *repo) placeholders(n int) string {
	ph := make([]string, n)
	for i := range n {
		ph[i] = r.driver.Placeholder(i + 1)
	}
	return strings.Join(ph, ", ")
}

// writeSnapshot replaces the snapshot with records rendered in the ledger zone.
// Callers hold mu.
func (r *repo) writeSnapshot(ctx context.Context, records []Record) error {
	data, err := encodeSnapshot(Entries(records, r.loc))
	if err != nil {
		return err
	}

	err = r.store.Upload(ctx, r.cfg.SnapshotKey, bytes.NewReader(data), snapshotContentType)
	r.metrics.snapshot(ctx, err)
	return err
}

func persistence(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

type metrics struct {
	appends   metric.Int64Counter
	snapshots metric.Int64Counter
}

func newMetrics(meter metric.Meter) (*metrics, error) {
	appends, err := meter.Int64Counter(
		"toxiguard.history.appends",
		metric.WithDescription("History records appended to the durable store"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, err
	}

	snapshots, err := meter.Int64Counter(
		"toxiguard.history.snapshot.writes",
		metric.WithDescription("Snapshot regenerations"),
		metric.WithUnit("{write}"),
	)
	if err != nil {
		return nil, err
	}

	return &metrics{appends: appends, snapshots: snapshots}, nil
}

func (m *metrics) append(ctx context.Context, err error) {
	m.appends.Add(ctx, 1, metric.WithAttributes(outcome(err)))
}

func (m *metrics) snapshot(ctx context.Context, err error) {
	m.snapshots.Add(ctx, 1, metric.WithAttributes(outcome(err)))
}

func outcome(err error) attribute.KeyValue {
	if err != nil {
		return attribute.String("outcome", "error")
	}
	return attribute.String("outcome", "ok")
}
