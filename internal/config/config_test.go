package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestApplyDefaults(t *testing.T) {
	t.Parallel()

	var cfg Config
	ApplyDefaults(&cfg)

	if cfg.Binary != DefaultBinary || cfg.Interface != DefaultInterface {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.PingHistory != DefaultPingHistory || cfg.BandwidthHistory != DefaultBandwidthHistory {
		t.Fatalf("history caps: %+v", cfg)
	}
	if cfg.CanvasWidth != DefaultCanvasWidth || cfg.CanvasHeight != DefaultCanvasHeight {
		t.Fatalf("canvas: %dx%d", cfg.CanvasWidth, cfg.CanvasHeight)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	var cfg Config
	ApplyDefaults(&cfg)
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected: %v", err)
	}

	cfg.CanvasWidth = 5
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected canvas error")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Binary != DefaultBinary {
		t.Fatalf("cfg=%+v", cfg)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tsdash.yaml")
	data := "interface: wg0\nping_count: 5\ncanvas_width: 120\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Interface != "wg0" || cfg.PingCount != 5 || cfg.CanvasWidth != 120 {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.RefreshSec != DefaultRefreshSec {
		t.Fatalf("refresh=%d", cfg.RefreshSec)
	}
}

func TestSave_Writes0600(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tsdash.yaml")
	var cfg Config
	ApplyDefaults(&cfg)
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("mode=%o", info.Mode().Perm())
	}
}
