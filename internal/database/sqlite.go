package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lsinv/internal/database/migrations"
	"lsinv/internal/inv"
	"lsinv/internal/listing"
	"lsinv/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteDatabase implements the inv.Database interface using SQLite.
type SQLiteDatabase struct {
	db   *sql.DB
	path string
}

// NewSQLiteDatabase creates a new SQLite database connection.
// path can be a file path or ":memory:" for an in-memory database.
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	return &SQLiteDatabase{db: db, path: path}, nil
}

// OpenConnection opens and configures a SQLite database connection with
// appropriate PRAGMAs. Exported for tests that need a raw connection.
// path can be a file path or ":memory:" for an in-memory database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// Migrate brings the database schema to the latest version.
func (s *SQLiteDatabase) Migrate() error {
	return migrations.MigrateUp(s.db)
}

// CheckMigrations verifies that the database schema is up to date.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// CreateSnapshot persists a snapshot and its listing in one transaction.
// Entries keep the listing's sorted order through the position column.
func (s *SQLiteDatabase) CreateSnapshot(snapshot *model.Snapshot, ls *listing.Listing) error {
	ctx := context.Background()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, host_id, source, created_at, file_count, folder_count)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		snapshot.ID, snapshot.HostID, snapshot.Source, snapshot.CreatedAt,
		snapshot.FileCount, snapshot.FolderCount,
	)
	if err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}

	fileStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO snapshot_files (snapshot_id, position, name, size_bytes)
		 VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing file insert: %w", err)
	}
	defer fileStmt.Close()

	for i, f := range ls.Files {
		if _, err := fileStmt.ExecContext(ctx, snapshot.ID, i, f.Name, f.SizeBytes); err != nil {
			return fmt.Errorf("inserting file entry %q: %w", f.Name, err)
		}
	}

	folderStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO snapshot_folders (snapshot_id, position, name)
		 VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing folder insert: %w", err)
	}
	defer folderStmt.Close()

	for i, name := range ls.Folders {
		if _, err := folderStmt.ExecContext(ctx, snapshot.ID, i, name); err != nil {
			return fmt.Errorf("inserting folder entry %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}

// GetSnapshot returns a snapshot and its listing by ID.
// Returns (nil, nil, nil) if no snapshot with that ID exists.
func (s *SQLiteDatabase) GetSnapshot(id string) (*model.Snapshot, *listing.Listing, error) {
	ctx := context.Background()

	var snapshot model.Snapshot
	err := s.db.QueryRowContext(ctx,
		`SELECT id, host_id, source, created_at, file_count, folder_count
		 FROM snapshots WHERE id = ?`, id,
	).Scan(&snapshot.ID, &snapshot.HostID, &snapshot.Source, &snapshot.CreatedAt,
		&snapshot.FileCount, &snapshot.FolderCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, nil // Not found
		}
		return nil, nil, fmt.Errorf("finding snapshot: %w", err)
	}

	ls := &listing.Listing{}

	fileRows, err := s.db.QueryContext(ctx,
		`SELECT name, size_bytes FROM snapshot_files
		 WHERE snapshot_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("loading file entries: %w", err)
	}
	defer fileRows.Close()

	for fileRows.Next() {
		var f listing.FileEntry
		if err := fileRows.Scan(&f.Name, &f.SizeBytes); err != nil {
			return nil, nil, fmt.Errorf("scanning file entry: %w", err)
		}
		ls.Files = append(ls.Files, f)
	}
	if err := fileRows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterating file entries: %w", err)
	}

	folderRows, err := s.db.QueryContext(ctx,
		`SELECT name FROM snapshot_folders
		 WHERE snapshot_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("loading folder entries: %w", err)
	}
	defer folderRows.Close()

	for folderRows.Next() {
		var name string
		if err := folderRows.Scan(&name); err != nil {
			return nil, nil, fmt.Errorf("scanning folder entry: %w", err)
		}
		ls.Folders = append(ls.Folders, name)
	}
	if err := folderRows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterating folder entries: %w", err)
	}

	return &snapshot, ls, nil
}

// ListSnapshots returns the most recent snapshots, newest first.
func (s *SQLiteDatabase) ListSnapshots(limit int) ([]*model.Snapshot, error) {
	ctx := context.Background()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, host_id, source, created_at, file_count, folder_count
		 FROM snapshots ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*model.Snapshot
	for rows.Next() {
		var snapshot model.Snapshot
		if err := rows.Scan(&snapshot.ID, &snapshot.HostID, &snapshot.Source,
			&snapshot.CreatedAt, &snapshot.FileCount, &snapshot.FolderCount); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		snapshots = append(snapshots, &snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshots: %w", err)
	}

	return snapshots, nil
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	return s.db.Close()
}

// Compile-time check that SQLiteDatabase implements inv.Database interface
var _ inv.Database = (*SQLiteDatabase)(nil)
