package inv

import (
	"fmt"

	"lsinv/internal/listing"
)

// FileChange records a file present in both snapshots whose size changed.
type FileChange struct {
	Name    string
	OldSize int64
	NewSize int64
}

// SnapshotDiff is the difference between two snapshots of the same
// directory, computed entry-by-entry on the sorted listings.
type SnapshotDiff struct {
	OldID string
	NewID string

	AddedFiles   []listing.FileEntry
	RemovedFiles []listing.FileEntry
	ResizedFiles []FileChange

	AddedFolders   []string
	RemovedFolders []string
}

// Empty returns true if the two snapshots contain identical entries.
func (d *SnapshotDiff) Empty() bool {
	return len(d.AddedFiles) == 0 && len(d.RemovedFiles) == 0 &&
		len(d.ResizedFiles) == 0 &&
		len(d.AddedFolders) == 0 && len(d.RemovedFolders) == 0
}

// Diff loads two snapshots and reports what changed between them.
func (s *InventoryService) Diff(oldID, newID string) (*SnapshotDiff, error) {
	_, oldListing, err := s.Snapshot(oldID)
	if err != nil {
		return nil, fmt.Errorf("loading old snapshot: %w", err)
	}
	_, newListing, err := s.Snapshot(newID)
	if err != nil {
		return nil, fmt.Errorf("loading new snapshot: %w", err)
	}

	diff := &SnapshotDiff{OldID: oldID, NewID: newID}
	diff.AddedFiles, diff.RemovedFiles, diff.ResizedFiles = diffFiles(oldListing.Files, newListing.Files)
	diff.AddedFolders, diff.RemovedFolders = diffFolders(oldListing.Folders, newListing.Folders)
	return diff, nil
}

// diffFiles merge-walks two name-sorted file sequences. Names present only
// on one side become added/removed; names present on both with different
// sizes become resized.
func diffFiles(old, new []listing.FileEntry) (added, removed []listing.FileEntry, resized []FileChange) {
	i, j := 0, 0
	for i < len(old) && j < len(new) {
		switch {
		case old[i].Name < new[j].Name:
			removed = append(removed, old[i])
			i++
		case old[i].Name > new[j].Name:
			added = append(added, new[j])
			j++
		default:
			if old[i].SizeBytes != new[j].SizeBytes {
				resized = append(resized, FileChange{
					Name:    old[i].Name,
					OldSize: old[i].SizeBytes,
					NewSize: new[j].SizeBytes,
				})
			}
			i++
			j++
		}
	}
	removed = append(removed, old[i:]...)
	added = append(added, new[j:]...)
	return added, removed, resized
}

// diffFolders merge-walks two sorted folder name sequences.
func diffFolders(old, new []string) (added, removed []string) {
	i, j := 0, 0
	for i < len(old) && j < len(new) {
		switch {
		case old[i] < new[j]:
			removed = append(removed, old[i])
			i++
		case old[i] > new[j]:
			added = append(added, new[j])
			j++
		default:
			i++
			j++
		}
	}
	removed = append(removed, old[i:]...)
	added = append(added, new[j:]...)
	return added, removed
}
