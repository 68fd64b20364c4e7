package inv

import (
	"reflect"
	"testing"

	"lsinv/internal/listing"
)

func TestDiffFiles(t *testing.T) {
	t.Parallel()

	old := []listing.FileEntry{
		{Name: "a.txt", SizeBytes: 1},
		{Name: "b.txt", SizeBytes: 2},
		{Name: "c.txt", SizeBytes: 3},
	}
	new := []listing.FileEntry{
		{Name: "b.txt", SizeBytes: 20},
		{Name: "c.txt", SizeBytes: 3},
		{Name: "d.txt", SizeBytes: 4},
	}

	added, removed, resized := diffFiles(old, new)

	if want := []listing.FileEntry{{Name: "d.txt", SizeBytes: 4}}; !reflect.DeepEqual(added, want) {
		t.Errorf("added = %v, want %v", added, want)
	}
	if want := []listing.FileEntry{{Name: "a.txt", SizeBytes: 1}}; !reflect.DeepEqual(removed, want) {
		t.Errorf("removed = %v, want %v", removed, want)
	}
	if want := []FileChange{{Name: "b.txt", OldSize: 2, NewSize: 20}}; !reflect.DeepEqual(resized, want) {
		t.Errorf("resized = %v, want %v", resized, want)
	}
}

func TestDiffFiles_Empty(t *testing.T) {
	t.Parallel()

	entries := []listing.FileEntry{{Name: "a.txt", SizeBytes: 1}}

	added, removed, resized := diffFiles(nil, entries)
	if len(added) != 1 || len(removed) != 0 || len(resized) != 0 {
		t.Errorf("diff from empty: added=%v removed=%v resized=%v", added, removed, resized)
	}

	added, removed, _ = diffFiles(entries, nil)
	if len(added) != 0 || len(removed) != 1 {
		t.Errorf("diff to empty: added=%v removed=%v", added, removed)
	}
}

func TestDiffFolders(t *testing.T) {
	t.Parallel()

	added, removed := diffFolders(
		[]string{"alpha", "beta", "gamma"},
		[]string{"beta", "delta", "gamma"},
	)

	if want := []string{"delta"}; !reflect.DeepEqual(added, want) {
		t.Errorf("added = %v, want %v", added, want)
	}
	if want := []string{"alpha"}; !reflect.DeepEqual(removed, want) {
		t.Errorf("removed = %v, want %v", removed, want)
	}
}

func TestSnapshotDiff_Empty(t *testing.T) {
	t.Parallel()

	diff := &SnapshotDiff{}
	if !diff.Empty() {
		t.Error("Empty() = false for zero diff, want true")
	}

	diff.AddedFolders = []string{"new"}
	if diff.Empty() {
		t.Error("Empty() = true for diff with added folder, want false")
	}
}
