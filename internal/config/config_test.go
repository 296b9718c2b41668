package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/tidwall/gjson"
)

// isolate points the XDG roots and the working directory at temp dirs.
func isolate(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error = %v", err)
	}
	work := filepath.Join(root, "work")
	if err := os.MkdirAll(work, 0o750); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.Chdir(work); err != nil {
		t.Fatalf("Chdir() error = %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) }) //nolint:errcheck // Best effort restore in cleanup
	return root
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	root := isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Menu.Trigger != TriggerClick {
		t.Errorf("Trigger = %q, want %q", cfg.Menu.Trigger, TriggerClick)
	}
	if cfg.Menu.DefaultGroupPlacement != PlacementFirst {
		t.Errorf("DefaultGroupPlacement = %q, want %q", cfg.Menu.DefaultGroupPlacement, PlacementFirst)
	}
	wantData := filepath.Join(root, "data", appName)
	if cfg.DataDir() != wantData {
		t.Errorf("DataDir() = %q, want %q", cfg.DataDir(), wantData)
	}
	if cfg.ExportDir() != filepath.Join(wantData, "exports") {
		t.Errorf("ExportDir() = %q", cfg.ExportDir())
	}
	if cfg.DatabasePath() != filepath.Join(wantData, "agentdeck.db") {
		t.Errorf("DatabasePath() = %q", cfg.DatabasePath())
	}
}

func TestLoad_ProjectOverridesGlobal(t *testing.T) {
	root := isolate(t)

	writeFile(t, GlobalConfigPath(), `{
		"options": {"export_directory": "/tmp/global-exports"},
		"menu": {"trigger": "contextmenu", "default_group_placement": "last"}
	}`)
	writeFile(t, filepath.Join(root, "work", "."+configFileName), `{
		"menu": {"trigger": "click"},
		"options": {"copy_export_path": true}
	}`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Menu.Trigger != TriggerClick {
		t.Errorf("Trigger = %q, want project value %q", cfg.Menu.Trigger, TriggerClick)
	}
	if cfg.Menu.DefaultGroupPlacement != PlacementLast {
		t.Errorf("DefaultGroupPlacement = %q, want global value %q", cfg.Menu.DefaultGroupPlacement, PlacementLast)
	}
	if cfg.ExportDir() != "/tmp/global-exports" {
		t.Errorf("ExportDir() = %q", cfg.ExportDir())
	}
	if !cfg.Options.CopyExportPath {
		t.Error("CopyExportPath should come from project config")
	}
}

func TestLoadFromFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{name: "valid", content: `{"menu":{"trigger":"contextmenu"}}`},
		{name: "empty object", content: `{}`},
		{name: "bad trigger", content: `{"menu":{"trigger":"hover"}}`, wantErr: true},
		{name: "bad placement", content: `{"menu":{"default_group_placement":"middle"}}`, wantErr: true},
		{name: "malformed", content: `{`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".json")
			writeFile(t, path, tt.content)
			_, err := LoadFromFile(path)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadFromFile() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if _, err := LoadFromFile(filepath.Join(dir, "missing.json")); !os.IsNotExist(err) {
		t.Errorf("LoadFromFile(missing) error = %v, want not-exist", err)
	}
}

func TestSetConfigField(t *testing.T) {
	isolate(t)

	writeFile(t, GlobalConfigPath(), `{"options":{"debug":true},"custom":"kept"}`)

	cfg := NewConfig()
	if err := cfg.SetConfigField("menu.trigger", string(TriggerContextMenu)); err != nil {
		t.Fatalf("SetConfigField() error = %v", err)
	}

	data, err := os.ReadFile(GlobalConfigPath())
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	doc := string(data)
	if got := gjson.Get(doc, "menu.trigger").String(); got != "contextmenu" {
		t.Errorf("menu.trigger = %q, want contextmenu", got)
	}
	if !gjson.Get(doc, "options.debug").Bool() {
		t.Error("options.debug should be preserved")
	}
	if gjson.Get(doc, "custom").String() != "kept" {
		t.Error("unknown fields should be preserved")
	}
}

func TestSetFileField_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "agentdeck.json")
	if err := SetFileField(path, "options.export_directory", "/x"); err != nil {
		t.Fatalf("SetFileField() error = %v", err)
	}
	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if cfg.ExportDir() != "/x" {
		t.Errorf("ExportDir() = %q, want /x", cfg.ExportDir())
	}
}

func TestSaveAndFirstRun(t *testing.T) {
	isolate(t)

	if !IsFirstRun() {
		t.Fatal("IsFirstRun() = false before any config exists")
	}
	if err := EnsureGlobal(); err != nil {
		t.Fatalf("EnsureGlobal() error = %v", err)
	}
	if IsFirstRun() {
		t.Error("IsFirstRun() = true after EnsureGlobal")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	cfg.Menu.DefaultGroupPlacement = PlacementLast
	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	reloaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if reloaded.Menu.DefaultGroupPlacement != PlacementLast {
		t.Errorf("DefaultGroupPlacement = %q, want last", reloaded.Menu.DefaultGroupPlacement)
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("AGENTDECK_TEST_DIR", "/srv/deck")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"/abs/path", "/abs/path"},
		{"$AGENTDECK_TEST_DIR/data", "/srv/deck/data"},
		{"~/decks", filepath.Join(home, "decks")},
		{"~", home},
	}
	for _, tt := range tests {
		if got := expandPath(tt.in); got != tt.want {
			t.Errorf("expandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
