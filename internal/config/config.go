// Package config loads the dashboard's YAML configuration with defaults
// and minimal validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBinary           = "tailscale"
	DefaultInterface        = "tailscale0"
	DefaultRefreshSec       = 10
	DefaultSnapshotTTLSec   = 10
	DefaultPingCount        = 3
	DefaultPingTimeoutSec   = 5
	DefaultProbeConcurrency = 8
	DefaultPingHistory      = 100
	DefaultBandwidthHistory = 50
	DefaultCanvasWidth      = 80
	DefaultCanvasHeight     = 24
)

// Config holds dashboard settings.
type Config struct {
	Binary           string   `yaml:"binary"`
	Interface        string   `yaml:"interface"`
	RefreshSec       int      `yaml:"refresh_sec"`
	SnapshotTTLSec   int      `yaml:"snapshot_ttl_sec"`
	PingCount        int      `yaml:"ping_count"`
	PingTimeoutSec   int      `yaml:"ping_timeout_sec"`
	ProbeConcurrency int      `yaml:"probe_concurrency"`
	PingHistory      int      `yaml:"ping_history"`
	BandwidthHistory int      `yaml:"bandwidth_history"`
	CanvasWidth      int      `yaml:"canvas_width"`
	CanvasHeight     int      `yaml:"canvas_height"`
	STUNServers      []string `yaml:"stun_servers"`
}

// Load reads and parses a YAML config file. An empty or missing path
// yields the defaults; history is in-memory only, so there is no state to
// restore beyond these settings.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		ApplyDefaults(&cfg)
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			ApplyDefaults(&cfg)
			return cfg, nil
		}
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}

	ApplyDefaults(&cfg)
	return cfg, nil
}

// Save writes a YAML config file to disk.
func Save(path string, cfg Config) error {
	ApplyDefaults(&cfg)
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate performs minimal validation for required fields.
func Validate(cfg Config) error {
	if cfg.CanvasWidth < 20 || cfg.CanvasHeight < 8 {
		return fmt.Errorf("canvas must be at least 20x8, got %dx%d", cfg.CanvasWidth, cfg.CanvasHeight)
	}
	if cfg.RefreshSec <= 0 {
		return fmt.Errorf("refresh_sec must be positive")
	}
	return nil
}

// ApplyDefaults fills in default values when empty.
func ApplyDefaults(cfg *Config) {
	if cfg.Binary == "" {
		cfg.Binary = DefaultBinary
	}
	if cfg.Interface == "" {
		cfg.Interface = DefaultInterface
	}
	if cfg.RefreshSec == 0 {
		cfg.RefreshSec = DefaultRefreshSec
	}
	if cfg.SnapshotTTLSec == 0 {
		cfg.SnapshotTTLSec = DefaultSnapshotTTLSec
	}
	if cfg.PingCount == 0 {
		cfg.PingCount = DefaultPingCount
	}
	if cfg.PingTimeoutSec == 0 {
		cfg.PingTimeoutSec = DefaultPingTimeoutSec
	}
	if cfg.ProbeConcurrency == 0 {
		cfg.ProbeConcurrency = DefaultProbeConcurrency
	}
	if cfg.PingHistory == 0 {
		cfg.PingHistory = DefaultPingHistory
	}
	if cfg.BandwidthHistory == 0 {
		cfg.BandwidthHistory = DefaultBandwidthHistory
	}
	if cfg.CanvasWidth == 0 {
		cfg.CanvasWidth = DefaultCanvasWidth
	}
	if cfg.CanvasHeight == 0 {
		cfg.CanvasHeight = DefaultCanvasHeight
	}
}
