package inv

import (
	"lsinv/internal/listing"
	"lsinv/internal/model"
)

// Database provides metadata storage for parsed snapshots.
type Database interface {
	// CreateSnapshot persists a snapshot and its listing in one
	// transaction. Entries are stored in the listing's sorted order.
	CreateSnapshot(snapshot *model.Snapshot, ls *listing.Listing) error

	// GetSnapshot returns a snapshot and its listing by ID.
	// Returns (nil, nil, nil) if no snapshot with that ID exists.
	GetSnapshot(id string) (*model.Snapshot, *listing.Listing, error)

	// ListSnapshots returns the most recent snapshots, newest first.
	ListSnapshots(limit int) ([]*model.Snapshot, error)

	// CheckMigrations verifies that the database schema is up to date.
	CheckMigrations() error

	// Close closes the database connection.
	Close() error
}
