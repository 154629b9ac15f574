package store

import "errors"

var (
	// ErrNotFound is returned when an update or lookup references an
	// identifier that is not in the collection.
	ErrNotFound = errors.New("store: entry not found")

	// ErrBackupMissing is returned by RestoreFromBackup when no backup
	// snapshot has been created yet.
	ErrBackupMissing = errors.New("store: no backup available")

	// ErrDeserialize wraps a primary-file decode failure. Load treats it as
	// recoverable: the in-memory collection resets to empty.
	ErrDeserialize = errors.New("store: corrupt data file")
)
