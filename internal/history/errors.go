package history

import (
	"errors"
	"net/http"
)

var (
	// ErrPersistence wraps any failure reading or writing the durable store or the snapshot.
	ErrPersistence = errors.New("history persistence failed")
	// ErrSnapshotNotFound indicates no snapshot has been materialized yet.
	ErrSnapshotNotFound = errors.New("history snapshot not found")
	// ErrDuplicateRecord indicates an insert rejected by a uniqueness constraint.
	ErrDuplicateRecord = errors.New("duplicate history record")
	// ErrNotWritten indicates an insert that affected no rows.
	ErrNotWritten = errors.New("history record not written")
	// ErrInvalidImport indicates an import payload that is not a JSON array of entries.
	ErrInvalidImport = errors.New("invalid history import payload")
)

// MapHTTPStatus maps history errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrSnapshotNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidImport):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// PublicError returns the error safe to show a client: the sentinel for
// persistence failures, err itself otherwise.
func PublicError(err error) error {
	if errors.Is(err, ErrPersistence) {
		return ErrPersistence
	}
	return err
}
