package model

import "time"

// Snapshot is one parsed listing persisted in the database. A snapshot is
// written in a single transaction and never mutated afterwards.
type Snapshot struct {
	ID          string // UUID
	HostID      string // host this inventory belongs to
	Source      string // where the listing text came from (capture key, file path, "stdin")
	CreatedAt   time.Time
	FileCount   int64
	FolderCount int64
}
