package config

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestManager_ReadWriteRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		HostID:  "host-1",
		BaseDir: "/data/lsinv",
		LogDir:  "/data/lsinv/log",
		Captures: []CaptureConfig{
			{Type: "filesystem", Name: "local", FSRoot: "/data/lsinv/captures"},
			{Type: "s3", Name: "offsite", S3Bucket: "inventories", S3Prefix: "host-1", S3Region: "us-east-1"},
		},
		Database: DatabaseConfig{Type: "sqlite", DataDir: "/data/lsinv/db"},
		Encryption: EncryptionConfig{
			Type:           "age",
			PublicKeyPath:  "/data/lsinv/keys/lsinv.pub",
			PrivateKeyPath: "/data/lsinv/keys/lsinv.key",
		},
	}

	m := &Manager{}
	var buf bytes.Buffer
	if err := m.Write(&buf, cfg); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if !reflect.DeepEqual(got, cfg) {
		t.Errorf("round trip = %+v, want %+v", got, cfg)
	}
}

func TestManager_ReadInvalid(t *testing.T) {
	t.Parallel()

	m := &Manager{}
	if _, err := m.Read(bytes.NewReader([]byte("host_id = [broken"))); err == nil {
		t.Error("Read() expected error for malformed TOML, got nil")
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg := NewConfig("host-1", "/base")

	if cfg.HostID != "host-1" || cfg.BaseDir != "/base" {
		t.Errorf("cfg = %+v, want host-1 under /base", cfg)
	}
	if cfg.LogDir != filepath.Join("/base", "log") {
		t.Errorf("LogDir = %q, want /base/log", cfg.LogDir)
	}
	if len(cfg.Captures) != 1 {
		t.Fatalf("Captures = %v, want one default store", cfg.Captures)
	}
	if c := cfg.Captures[0]; c.Type != "filesystem" || c.Name != "local" ||
		c.FSRoot != filepath.Join("/base", "captures") {
		t.Errorf("default capture = %+v", c)
	}
	if cfg.Database.Type != "sqlite" || cfg.Database.DataDir != filepath.Join("/base", "db") {
		t.Errorf("database = %+v", cfg.Database)
	}
	if cfg.Encryption.PublicKeyPath != filepath.Join("/base", "keys", "lsinv.pub") ||
		cfg.Encryption.PrivateKeyPath != filepath.Join("/base", "keys", "lsinv.key") {
		t.Errorf("encryption = %+v", cfg.Encryption)
	}
}

func TestInit(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "conf", "lsinv.toml")
	cfg := NewConfig("host-1", "/base")

	if err := Init(path, cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	got, err := ReadFromFile(path)
	if err != nil {
		t.Fatalf("ReadFromFile() error = %v", err)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Errorf("ReadFromFile() = %+v, want %+v", got, cfg)
	}
}

func TestInit_RefusesExisting(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "lsinv.toml")
	if err := os.WriteFile(path, []byte("host_id = \"old\"\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if err := Init(path, NewConfig("host-1", "/base")); err == nil {
		t.Error("Init() expected error for existing config, got nil")
	}
}

func TestReadFromFile_Missing(t *testing.T) {
	t.Parallel()

	if _, err := ReadFromFile(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("ReadFromFile() expected error for missing file, got nil")
	}
}
