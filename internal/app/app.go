package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"lsinv/internal/capture"
	"lsinv/internal/config"
	"lsinv/internal/database"
	"lsinv/internal/export"
	"lsinv/internal/inv"
	"lsinv/internal/listing"
	"lsinv/internal/model"
)

// App is the application layer between the CLI and InventoryService.
// It constructs all dependencies from config, exposes high-level
// operations, and manages the DB lifecycle on Close.
type App struct {
	cfg       *config.Config
	db        inv.Database
	captures  inv.CaptureStore
	encryptor inv.Encryptor
	service   *inv.InventoryService
	logFile   *os.File
}

// NewApp creates a fully wired App from the given config. operation
// identifies the CLI command being run (e.g. "ImportCapture", "Diff") and
// tags every log line of this invocation. The caller must call Close when
// done.
func NewApp(cfg *config.Config, operation string) (*App, error) {
	if len(cfg.Captures) == 0 {
		return nil, fmt.Errorf("no capture stores configured")
	}
	captures, err := capture.NewCaptureStoreFromConfig(cfg.Captures[0])
	if err != nil {
		return nil, fmt.Errorf("creating capture store: %w", err)
	}

	db, err := database.NewDatabaseFromConfig(cfg.Database, cfg.HostID)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	if err := db.CheckMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database schema out of date: %w", err)
	}

	encryptor, err := export.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	opID := time.Now().UTC().Format("20060102T150405Z") + "-" + operation
	logger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	svc := inv.NewInventoryService(db, captures, &slogAdapter{l: logger},
		inv.RealClock{}, inv.UUIDGenerator{}, cfg.HostID)

	return &App{
		cfg:       cfg,
		db:        db,
		captures:  captures,
		encryptor: encryptor,
		service:   svc,
		logFile:   logFile,
	}, nil
}

// Close releases the database connection and the log file.
func (a *App) Close() error {
	var firstErr error
	if err := a.db.Close(); err != nil {
		firstErr = err
	}
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ImportListing parses listing text and stores it as a new snapshot.
func (a *App) ImportListing(source, text string) (*model.Snapshot, *listing.Listing, error) {
	return a.service.ImportListing(source, text)
}

// ImportCapture fetches a stored capture and snapshots it.
func (a *App) ImportCapture(key string) (*model.Snapshot, *listing.Listing, error) {
	return a.service.ImportCapture(key)
}

// StoreCapture stashes raw listing text under the given key.
func (a *App) StoreCapture(key string, r io.Reader, size int64) error {
	return a.service.StoreCapture(key, r, size)
}

// ListCaptures returns the keys of stored captures with the given prefix.
func (a *App) ListCaptures(prefix string) ([]string, error) {
	return a.service.ListCaptures(prefix)
}

// Snapshot returns a stored snapshot and its listing by ID.
func (a *App) Snapshot(id string) (*model.Snapshot, *listing.Listing, error) {
	return a.service.Snapshot(id)
}

// History returns the most recent snapshots, newest first.
func (a *App) History(limit int) ([]*model.Snapshot, error) {
	return a.service.History(limit)
}

// Diff reports what changed between two snapshots.
func (a *App) Diff(oldID, newID string) (*inv.SnapshotDiff, error) {
	return a.service.Diff(oldID, newID)
}

// ExportSnapshot writes a snapshot as a TOML document to w, sealed with
// the configured public key when encrypt is set.
func (a *App) ExportSnapshot(id string, w io.Writer, encrypt bool) error {
	snapshot, ls, err := a.service.Snapshot(id)
	if err != nil {
		return err
	}

	doc := export.NewDocument(snapshot, ls)

	if !encrypt {
		return doc.Write(w)
	}

	if !a.encryptor.IsConfigured() {
		return fmt.Errorf("encryption keys not configured: run `lsinv keys init` first")
	}

	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(doc.Write(pw))
	}()
	if err := a.encryptor.Encrypt(pr, w); err != nil {
		return fmt.Errorf("encrypting export: %w", err)
	}
	return nil
}

// DecryptExport unlocks the private key with the passphrase and decrypts
// an exported document from r to w.
func (a *App) DecryptExport(r io.Reader, w io.Writer, passphrase string) error {
	dctx, err := a.encryptor.Unlock(passphrase)
	if err != nil {
		return fmt.Errorf("unlocking private key: %w", err)
	}
	if err := dctx.Decrypt(r, w); err != nil {
		return fmt.Errorf("decrypting export: %w", err)
	}
	return nil
}

// SetupKeys generates the age key pair protected by the passphrase.
// Refuses to overwrite existing keys.
func (a *App) SetupKeys(passphrase string) error {
	if a.encryptor.IsConfigured() {
		return fmt.Errorf("encryption keys already exist")
	}
	return a.encryptor.Setup(passphrase)
}
