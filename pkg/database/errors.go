package database

import "errors"

var (
	// ErrNotReady indicates the database connection has not been established.
	ErrNotReady = errors.New("database not ready")
	// ErrUnknownDriver indicates the configured driver is not supported.
	ErrUnknownDriver = errors.New("unknown database driver")
)
