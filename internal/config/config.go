// Package config provides configuration management for agentdeck.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/sjson"
)

const appName = "agentdeck"

// Trigger selects how a row's action menu opens.
type Trigger string

// Trigger constants.
const (
	// TriggerClick opens the menu from the row's menu affordance and reports
	// open state to the host.
	TriggerClick Trigger = "click"
	// TriggerContextMenu opens the menu with a secondary click on the row.
	TriggerContextMenu Trigger = "contextmenu"
)

// Placement controls where the default list entry sits in the move menu.
type Placement string

// Placement constants.
const (
	PlacementFirst Placement = "first"
	PlacementLast  Placement = "last"
)

// Config is the top-level configuration structure.
type Config struct {
	Options *Options `json:"options,omitempty"`
	Menu    *Menu    `json:"menu,omitempty"`
}

// Options holds optional configuration settings.
//
//nolint:govet // Field order is intentional for JSON readability.
type Options struct {
	DataDir        string `json:"data_directory,omitempty"`
	ExportDir      string `json:"export_directory,omitempty"`
	Debug          bool   `json:"debug,omitempty"`
	CopyExportPath bool   `json:"copy_export_path,omitempty"`
}

// Menu configures the session action menu.
type Menu struct {
	Trigger               Trigger   `json:"trigger,omitempty"`
	DefaultGroupPlacement Placement `json:"default_group_placement,omitempty"`
}

// NewConfig creates a new Config with initialized sections.
func NewConfig() *Config {
	return &Config{
		Options: &Options{},
		Menu:    &Menu{},
	}
}

// Validate reports enum values the application does not understand.
func (c *Config) Validate() error {
	switch c.Menu.Trigger {
	case TriggerClick, TriggerContextMenu:
	default:
		return fmt.Errorf("menu.trigger: unknown value %q", c.Menu.Trigger)
	}
	switch c.Menu.DefaultGroupPlacement {
	case PlacementFirst, PlacementLast:
	default:
		return fmt.Errorf("menu.default_group_placement: unknown value %q", c.Menu.DefaultGroupPlacement)
	}
	return nil
}

// DataDir returns the data directory path from configuration.
func (c *Config) DataDir() string {
	if c.Options != nil && c.Options.DataDir != "" {
		return expandPath(c.Options.DataDir)
	}
	return filepath.Join(dataHome(), appName)
}

// ExportDir returns the directory export documents are written to.
func (c *Config) ExportDir() string {
	if c.Options != nil && c.Options.ExportDir != "" {
		return expandPath(c.Options.ExportDir)
	}
	return filepath.Join(c.DataDir(), "exports")
}

// DatabasePath returns the SQLite database location.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir(), appName+".db")
}

// DebugLogPath returns the debug log location.
func (c *Config) DebugLogPath() string {
	return filepath.Join(c.DataDir(), "debug.log")
}

// SetConfigField updates a single field in the config file using JSON path notation.
// This uses sjson for surgical updates - only the specified field is modified.
func (c *Config) SetConfigField(key string, value any) error {
	return SetFileField(GlobalConfigPath(), key, value)
}

// SetFileField applies a surgical sjson update to the config file at path.
func SetFileField(path, key string, value any) error {
	//nolint:gosec // G304: path is a trusted config location, not user input.
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("reading config file: %w", err)
		}
		data = []byte("{}")
	}

	newData, err := sjson.SetBytes(data, key, value)
	if err != nil {
		return fmt.Errorf("setting config field %q: %w", key, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	//nolint:gosec // 0o600 is intentionally restrictive for security.
	if err := os.WriteFile(path, newData, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// expandPath resolves environment variables and a leading ~.
func expandPath(p string) string {
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	return p
}
