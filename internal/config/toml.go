// Package config provides configuration helpers and TOML parsing.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Analysis AnalysisConfig `toml:"analysis"`
	Store    StoreConfig    `toml:"store"`
	Batch    BatchConfig    `toml:"batch"`
	History  HistoryConfig  `toml:"history"`
	Chain    ChainConfig    `toml:"chain"`
}

// AnalysisConfig maps detector and inference settings.
type AnalysisConfig struct {
	StyleHint      *string  `toml:"style-hint"`
	MinConfidence  *float64 `toml:"min-confidence"`
	ArmRaiseMargin *float64 `toml:"arm-raise-margin"`
	KneeAngle      *float64 `toml:"knee-angle"`
	JumpThreshold  *float64 `toml:"jump-threshold"`
	SpinThreshold  *float64 `toml:"spin-threshold"`
	LegLiftMargin  *float64 `toml:"leg-lift-margin"`
}

// StoreConfig maps persistence settings.
type StoreConfig struct {
	Path    *string `toml:"path"`
	Disable *bool   `toml:"disable"`
}

// BatchConfig maps batch settings.
type BatchConfig struct {
	Workers *int `toml:"workers"`
}

// HistoryConfig maps history browser defaults.
type HistoryConfig struct {
	Last        *int `toml:"last"`
	TrendWindow *int `toml:"trend-window"`
}

// ChainConfig lists JSON-RPC endpoints in fallback order.
type ChainConfig struct {
	Endpoints []string `toml:"endpoints"`
	TimeoutMs *int     `toml:"timeout-ms"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Template is a commented starter config with every key at its default.
const Template = `# movemint configuration

[analysis]
# style-hint = "ballet"
# min-confidence = 0.1
# arm-raise-margin = 0.03
# knee-angle = 140.0
# jump-threshold = 0.15
# spin-threshold = 0.3
# leg-lift-margin = 0.1

[store]
# path = "~/.local/share/movemint/movemint.db"
# disable = false

[batch]
# workers = 4

[history]
# last = 50
# trend-window = 5

[chain]
# endpoints = ["https://rpc.sepolia.mantle.xyz", "https://aeneid.storyrpc.io"]
# timeout-ms = 10000
`

// WriteTemplate writes Template to path unless a file already exists there.
func WriteTemplate(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("config already exists at %s", path)
		}
		return fmt.Errorf("failed to create config: %w", err)
	}
	if _, err := file.WriteString(Template); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write config: %w", err)
	}
	return file.Close()
}
