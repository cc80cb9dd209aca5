package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmbeddedDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if cfg.Grid.Width == 0 || cfg.Grid.Height == 0 {
		t.Fatalf("expected non-zero grid size from embedded defaults, got %+v", cfg.Grid)
	}
	if cfg.RNG.ColumnSeedMultiplier == 0 {
		t.Fatalf("expected non-zero column seed multiplier from embedded defaults")
	}
}

func TestLoadOverlaysUserFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "user.yaml")
	if err := os.WriteFile(path, []byte("grid:\n  width: 64\n  height: 64\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) error: %v", path, err)
	}
	if cfg.Grid.Width != 64 || cfg.Grid.Height != 64 {
		t.Fatalf("user overlay not applied, got %+v", cfg.Grid)
	}
	// Fields absent from the overlay keep the embedded default.
	if cfg.RNG.ColumnSeedMultiplier == 0 {
		t.Fatalf("overlay clobbered a field it didn't set")
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	if _, err := Load("/nonexistent/path/config.yaml"); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic calling Cfg() before Init()")
		}
	}()
	global = nil
	Cfg()
}

func TestMustInitPanicsOnBadPath(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic from MustInit on unreadable path")
		}
	}()
	MustInit("/nonexistent/path/config.yaml")
}
