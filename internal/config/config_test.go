package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultPaths(t *testing.T) {
	t.Run("honors TIDY_ROOT", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("TIDY_ROOT", dir)

		paths, err := DefaultPaths()
		if err != nil {
			t.Fatalf("DefaultPaths failed: %v", err)
		}
		if paths.Root != dir {
			t.Errorf("root = %s, want %s", paths.Root, dir)
		}
		if paths.HistoryFile != filepath.Join(dir, "history.json") {
			t.Errorf("historyFile = %s", paths.HistoryFile)
		}
	})

	t.Run("defaults to home dot-dir", func(t *testing.T) {
		t.Setenv("TIDY_ROOT", "")

		paths, err := DefaultPaths()
		if err != nil {
			t.Fatalf("DefaultPaths failed: %v", err)
		}
		home, _ := os.UserHomeDir()
		if paths.Root != filepath.Join(home, ".tidy") {
			t.Errorf("root = %s", paths.Root)
		}
	})
}

func TestLoad(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.History.MaxEntries != 500 {
			t.Errorf("maxEntries = %d, want 500", cfg.History.MaxEntries)
		}
		if !cfg.CreateDirectories {
			t.Error("createDirectories should default to true")
		}
	})

	t.Run("parses overrides", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "history:\n  maxEntries: 42\n  maxAgeDays: 7\ncreateDirectories: false\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.History.MaxEntries != 42 || cfg.History.MaxAgeDays != 7 {
			t.Errorf("history limits = %+v", cfg.History)
		}
		if cfg.CreateDirectories {
			t.Error("createDirectories should be false")
		}
	})

	t.Run("invalid yaml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte(":\n\t-broken"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Error("expected error for invalid yaml")
		}
	})
}
