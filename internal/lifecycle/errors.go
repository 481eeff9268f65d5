package lifecycle

import "errors"

var (
	// Migrating part content into a shared area failed.
	ErrMigration = errors.New("migration failed")

	// Removing a step's persisted state or migrated content failed.
	ErrClean = errors.New("clean failed")
)
