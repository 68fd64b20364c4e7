package capture

import (
	"fmt"

	"lsinv/internal/config"
	"lsinv/internal/inv"
)

// NewCaptureStoreFromConfig creates a CaptureStore implementation based on
// the capture config type.
func NewCaptureStoreFromConfig(cfg config.CaptureConfig) (inv.CaptureStore, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStore(cfg.Name), nil
	case "filesystem":
		if cfg.FSRoot == "" {
			return nil, fmt.Errorf("filesystem capture store requires fs_root to be set")
		}
		return NewFileSystemStore(cfg.Name, cfg.FSRoot)
	case "s3":
		return NewS3Store(cfg)
	default:
		return nil, fmt.Errorf("unknown capture store type: %s", cfg.Type)
	}
}
