package inv

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"lsinv/internal/listing"
	"lsinv/internal/model"
)

// InventoryService is the orchestration layer that coordinates captures,
// parsing and snapshot storage for the CLI.
type InventoryService struct {
	database Database
	captures CaptureStore
	logger   Logger
	clock    Clock
	idgen    IDGenerator
	hostID   string
}

// NewInventoryService creates a new InventoryService with the provided
// dependencies.
func NewInventoryService(database Database, captures CaptureStore, logger Logger, clock Clock, idgen IDGenerator, hostID string) *InventoryService {
	return &InventoryService{
		database: database,
		captures: captures,
		logger:   logger,
		clock:    clock,
		idgen:    idgen,
		hostID:   hostID,
	}
}

// ImportListing parses raw listing text and persists the result as a new
// snapshot. source records where the text came from. Nothing is persisted
// when the parse fails: the parser returns no partial results and neither
// does this method.
func (s *InventoryService) ImportListing(source, text string) (*model.Snapshot, *listing.Listing, error) {
	ls, err := listing.Parse(text)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing listing from %s: %w", source, err)
	}

	snapshot := &model.Snapshot{
		ID:          s.idgen.New(),
		HostID:      s.hostID,
		Source:      source,
		CreatedAt:   s.clock.Now(),
		FileCount:   int64(len(ls.Files)),
		FolderCount: int64(len(ls.Folders)),
	}

	if err := s.database.CreateSnapshot(snapshot, ls); err != nil {
		return nil, nil, fmt.Errorf("persisting snapshot: %w", err)
	}

	s.logger.Info("listing imported",
		"snapshot", snapshot.ID,
		"source", source,
		"files", snapshot.FileCount,
		"folders", snapshot.FolderCount,
	)
	return snapshot, ls, nil
}

// ImportCapture fetches a stored capture by key and imports it as a new
// snapshot, with the capture key recorded as the source.
func (s *InventoryService) ImportCapture(key string) (*model.Snapshot, *listing.Listing, error) {
	var buf bytes.Buffer
	if err := s.captures.Get(key, &buf); err != nil {
		return nil, nil, fmt.Errorf("fetching capture %q: %w", key, err)
	}
	return s.ImportListing(key, buf.String())
}

// StoreCapture stashes raw listing text under the given key for later
// parsing. size is the number of bytes that will be read from r.
func (s *InventoryService) StoreCapture(key string, r io.Reader, size int64) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("capture key must not be empty")
	}
	if err := s.captures.Put(key, r, size); err != nil {
		return fmt.Errorf("storing capture %q: %w", key, err)
	}
	s.logger.Debug("capture stored", "key", key, "bytes", size)
	return nil
}

// ListCaptures returns the keys of stored captures with the given prefix.
func (s *InventoryService) ListCaptures(prefix string) ([]string, error) {
	keys, err := s.captures.List(prefix)
	if err != nil {
		return nil, fmt.Errorf("listing captures: %w", err)
	}
	return keys, nil
}

// Snapshot returns a stored snapshot and its listing by ID.
func (s *InventoryService) Snapshot(id string) (*model.Snapshot, *listing.Listing, error) {
	snapshot, ls, err := s.database.GetSnapshot(id)
	if err != nil {
		return nil, nil, fmt.Errorf("loading snapshot: %w", err)
	}
	if snapshot == nil {
		return nil, nil, fmt.Errorf("snapshot not found: %s", id)
	}
	return snapshot, ls, nil
}

// History returns the most recent snapshots, newest first.
func (s *InventoryService) History(limit int) ([]*model.Snapshot, error) {
	snapshots, err := s.database.ListSnapshots(limit)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	return snapshots, nil
}
