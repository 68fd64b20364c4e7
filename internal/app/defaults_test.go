package app

import (
	"path/filepath"
	"testing"
)

func TestGetDefaults_EnvOverrides(t *testing.T) {
	t.Setenv("LSINV_CONFIG_PATH", "/custom/lsinv.toml")
	t.Setenv("LSINV_HOME", "/custom/home")

	defaults, err := GetDefaults()
	if err != nil {
		t.Fatalf("GetDefaults() error = %v", err)
	}

	if defaults["config_path"] != "/custom/lsinv.toml" {
		t.Errorf("config_path = %q, want env override", defaults["config_path"])
	}
	if defaults["base_dir"] != "/custom/home" {
		t.Errorf("base_dir = %q, want env override", defaults["base_dir"])
	}
	if want := filepath.Join("/custom/home", "log"); defaults["log_dir"] != want {
		t.Errorf("log_dir = %q, want %q", defaults["log_dir"], want)
	}
}

func TestGetDefaults_HomeFallback(t *testing.T) {
	t.Setenv("LSINV_CONFIG_PATH", "")
	t.Setenv("LSINV_HOME", "")
	t.Setenv("HOME", "/home/tester")

	defaults, err := GetDefaults()
	if err != nil {
		t.Fatalf("GetDefaults() error = %v", err)
	}

	if want := filepath.Join("/home/tester", ".config", "lsinv.toml"); defaults["config_path"] != want {
		t.Errorf("config_path = %q, want %q", defaults["config_path"], want)
	}
	if want := filepath.Join("/home/tester", ".local", "share", "lsinv"); defaults["base_dir"] != want {
		t.Errorf("base_dir = %q, want %q", defaults["base_dir"], want)
	}
}
