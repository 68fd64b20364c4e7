// Package export turns stored snapshots into portable TOML documents,
// optionally sealed with age encryption for transport off the host.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/BurntSushi/toml"

	"lsinv/internal/listing"
	"lsinv/internal/model"
)

// Document is the exported form of a snapshot.
type Document struct {
	Snapshot SnapshotInfo `toml:"snapshot"`
	Files    []FileInfo   `toml:"files"`
	Folders  []string     `toml:"folders"`
}

// SnapshotInfo carries the snapshot metadata in an export document.
type SnapshotInfo struct {
	ID        string    `toml:"id"`
	HostID    string    `toml:"host_id"`
	Source    string    `toml:"source"`
	CreatedAt time.Time `toml:"created_at"`
}

// FileInfo is one file entry in an export document.
type FileInfo struct {
	Name      string `toml:"name"`
	SizeBytes int64  `toml:"size_bytes"`
}

// NewDocument builds an export document from a snapshot and its listing.
// The entries keep the listing's sorted order.
func NewDocument(snapshot *model.Snapshot, ls *listing.Listing) *Document {
	doc := &Document{
		Snapshot: SnapshotInfo{
			ID:        snapshot.ID,
			HostID:    snapshot.HostID,
			Source:    snapshot.Source,
			CreatedAt: snapshot.CreatedAt,
		},
		Folders: ls.Folders,
	}
	for _, f := range ls.Files {
		doc.Files = append(doc.Files, FileInfo{Name: f.Name, SizeBytes: f.SizeBytes})
	}
	return doc
}

// Write encodes the document as TOML to the provided writer.
func (d *Document) Write(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(d); err != nil {
		return fmt.Errorf("failed to encode export document: %w", err)
	}
	return nil
}

// Read decodes an export document from the provided reader.
func Read(r io.Reader) (*Document, error) {
	var doc Document
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode export document: %w", err)
	}
	return &doc, nil
}
