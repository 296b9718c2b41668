package config

import (
	"os"
)

// IsFirstRun reports whether no global config file exists yet.
func IsFirstRun() bool {
	_, err := os.Stat(GlobalConfigPath())
	return os.IsNotExist(err)
}

// EnsureGlobal writes a default global config on first run so users have a
// file to edit.
func EnsureGlobal() error {
	if !IsFirstRun() {
		return nil
	}
	cfg := NewConfig()
	applyDefaults(cfg)
	return Save(cfg)
}
