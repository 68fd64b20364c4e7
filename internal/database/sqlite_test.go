package database_test

import (
	"reflect"
	"testing"
	"time"

	"lsinv/internal/listing"
	"lsinv/internal/model"
	"lsinv/internal/testutil"
)

func testSnapshot(id string, createdAt time.Time) *model.Snapshot {
	return &model.Snapshot{
		ID:          id,
		HostID:      "host-1",
		Source:      "stdin",
		CreatedAt:   createdAt,
		FileCount:   2,
		FolderCount: 1,
	}
}

func TestSQLiteDatabase_CreateAndGetSnapshot(t *testing.T) {
	db := testutil.NewTestDatabase(t)

	ls := &listing.Listing{
		Files: []listing.FileEntry{
			{Name: ".hidden", SizeBytes: 8},
			{Name: "notes.txt", SizeBytes: 16},
		},
		Folders: []string{"docs"},
	}
	snapshot := testSnapshot("snap-1", time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC))
	if err := db.CreateSnapshot(snapshot, ls); err != nil {
		t.Fatalf("CreateSnapshot() error = %v", err)
	}

	got, gotListing, err := db.GetSnapshot("snap-1")
	if err != nil {
		t.Fatalf("GetSnapshot() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetSnapshot() returned nil snapshot")
	}

	if got.HostID != "host-1" || got.Source != "stdin" {
		t.Errorf("snapshot = %+v, want host-1/stdin", got)
	}
	if got.FileCount != 2 || got.FolderCount != 1 {
		t.Errorf("counts = %d/%d, want 2/1", got.FileCount, got.FolderCount)
	}
	if !reflect.DeepEqual(gotListing, ls) {
		t.Errorf("listing = %+v, want %+v", gotListing, ls)
	}
}

func TestSQLiteDatabase_GetSnapshot_NotFound(t *testing.T) {
	db := testutil.NewTestDatabase(t)

	snapshot, ls, err := db.GetSnapshot("missing")
	if err != nil {
		t.Fatalf("GetSnapshot() error = %v", err)
	}
	if snapshot != nil || ls != nil {
		t.Errorf("GetSnapshot() = %v, %v, want nil, nil for unknown ID", snapshot, ls)
	}
}

func TestSQLiteDatabase_PreservesOrderAndDuplicates(t *testing.T) {
	db := testutil.NewTestDatabase(t)

	// Duplicate names are legal in a listing and must survive storage in
	// their original order.
	ls := &listing.Listing{
		Files: []listing.FileEntry{
			{Name: "same", SizeBytes: 1},
			{Name: "same", SizeBytes: 2},
			{Name: "zz", SizeBytes: 3},
		},
		Folders: []string{"a", "a", "b"},
	}
	snapshot := testSnapshot("snap-dup", time.Now().UTC())
	if err := db.CreateSnapshot(snapshot, ls); err != nil {
		t.Fatalf("CreateSnapshot() error = %v", err)
	}

	_, gotListing, err := db.GetSnapshot("snap-dup")
	if err != nil {
		t.Fatalf("GetSnapshot() error = %v", err)
	}
	if !reflect.DeepEqual(gotListing, ls) {
		t.Errorf("listing = %+v, want %+v", gotListing, ls)
	}
}

func TestSQLiteDatabase_EmptyListing(t *testing.T) {
	db := testutil.NewTestDatabase(t)

	snapshot := testSnapshot("snap-empty", time.Now().UTC())
	snapshot.FileCount = 0
	snapshot.FolderCount = 0
	if err := db.CreateSnapshot(snapshot, &listing.Listing{}); err != nil {
		t.Fatalf("CreateSnapshot() error = %v", err)
	}

	got, gotListing, err := db.GetSnapshot("snap-empty")
	if err != nil {
		t.Fatalf("GetSnapshot() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetSnapshot() returned nil snapshot")
	}
	if len(gotListing.Files) != 0 || len(gotListing.Folders) != 0 {
		t.Errorf("listing = %+v, want empty", gotListing)
	}
}

func TestSQLiteDatabase_DuplicateSnapshotID(t *testing.T) {
	db := testutil.NewTestDatabase(t)

	snapshot := testSnapshot("snap-1", time.Now().UTC())
	if err := db.CreateSnapshot(snapshot, &listing.Listing{}); err != nil {
		t.Fatalf("CreateSnapshot() error = %v", err)
	}
	if err := db.CreateSnapshot(snapshot, &listing.Listing{}); err == nil {
		t.Error("CreateSnapshot() expected error for duplicate ID, got nil")
	}
}

func TestSQLiteDatabase_ListSnapshots(t *testing.T) {
	db := testutil.NewTestDatabase(t)

	base := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	for i, id := range []string{"snap-1", "snap-2", "snap-3"} {
		snapshot := testSnapshot(id, base.Add(time.Duration(i)*time.Minute))
		if err := db.CreateSnapshot(snapshot, &listing.Listing{}); err != nil {
			t.Fatalf("CreateSnapshot(%s) error = %v", id, err)
		}
	}

	snapshots, err := db.ListSnapshots(2)
	if err != nil {
		t.Fatalf("ListSnapshots() error = %v", err)
	}
	if len(snapshots) != 2 {
		t.Fatalf("ListSnapshots() returned %d, want 2", len(snapshots))
	}
	if snapshots[0].ID != "snap-3" || snapshots[1].ID != "snap-2" {
		t.Errorf("order = [%s, %s], want newest first", snapshots[0].ID, snapshots[1].ID)
	}
}

func TestSQLiteDatabase_CheckMigrations(t *testing.T) {
	db := testutil.NewTestDatabase(t)

	if err := db.CheckMigrations(); err != nil {
		t.Errorf("CheckMigrations() after migrate error = %v", err)
	}
}
