package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileConfig is the optional TOML file read by the command-line tool.
//
//	[analysis]
//	preview-rows = 10
//
//	[audit]
//	driver = "sqlite"
//	path = "/home/me/.local/share/dxcodes/audit.db"
type FileConfig struct {
	Analysis FileAnalysisConfig `toml:"analysis"`
	Audit    FileAuditConfig    `toml:"audit"`
}

// FileAnalysisConfig holds analysis defaults. Nil means unset.
type FileAnalysisConfig struct {
	PreviewRows *int `toml:"preview-rows"`
}

// FileAuditConfig selects where the CLI records its audit trail.
type FileAuditConfig struct {
	Driver *string `toml:"driver"`
	Path   *string `toml:"path"`
}

// PreviewRowsOr returns the configured preview size or def.
func (c FileConfig) PreviewRowsOr(def int) int {
	if c.Analysis.PreviewRows != nil && *c.Analysis.PreviewRows > 0 {
		return *c.Analysis.PreviewRows
	}
	return def
}

// AuditDriverOr returns the configured audit driver or def.
func (c FileConfig) AuditDriverOr(def string) string {
	if c.Audit.Driver != nil && *c.Audit.Driver != "" {
		return *c.Audit.Driver
	}
	return def
}

// AuditPathOr returns the configured audit database path or def.
func (c FileConfig) AuditPathOr(def string) string {
	if c.Audit.Path != nil && *c.Audit.Path != "" {
		return *c.Audit.Path
	}
	return def
}

// LoadFile reads a TOML config from path. A missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("stat config: %w", err)
	}

	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config keys: %v", undecoded)
	}
	return cfg, nil
}

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultFilePath returns the default TOML config path.
func DefaultFilePath() string {
	return filepath.Join(XDGConfigHome(), "dxcodes", "config.toml")
}

// DefaultAuditPath returns the default SQLite audit database path.
func DefaultAuditPath() string {
	return filepath.Join(XDGDataHome(), "dxcodes", "audit.db")
}
