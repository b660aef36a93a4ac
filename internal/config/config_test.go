package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/evanschultz/prio/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := Default("/tmp/prio.db", "/tmp/todos.json")
	if cfg.Storage.Backend != BackendSQLite || cfg.Storage.Path != "/tmp/prio.db" {
		t.Fatalf("unexpected storage defaults %#v", cfg.Storage)
	}
	if cfg.Storage.FilePath != "/tmp/todos.json" || cfg.Storage.Key != "todos" {
		t.Fatalf("unexpected storage defaults %#v", cfg.Storage)
	}
	if cfg.Filter() != domain.FilterFor(domain.PriorityMedium) || cfg.Priority() != domain.PriorityMedium {
		t.Fatalf("expected medium startup filter and priority, got %q %q", cfg.Filter(), cfg.Priority())
	}
	if cfg.UI.ShowHelp {
		t.Fatal("expected help hidden by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	defaults := Default("/tmp/prio.db", "/tmp/todos.json")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"), defaults)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg != defaults {
		t.Fatalf("expected defaults, got %#v", cfg)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[storage]
backend = "file"
file_path = "/custom/todos.json"

[logging]
level = "debug"

[logging.dev_file]
enabled = false

[ui]
default_filter = "Tous"
default_priority = "urgente"
show_help = true
`)

	cfg, err := Load(path, Default("/tmp/default.db", "/tmp/default.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.Backend != BackendFile || cfg.Storage.FilePath != "/custom/todos.json" {
		t.Fatalf("unexpected storage %#v", cfg.Storage)
	}
	if cfg.Storage.Path != "/tmp/default.db" {
		t.Fatalf("expected untouched db path, got %q", cfg.Storage.Path)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.DevFile.Enabled {
		t.Fatalf("unexpected logging %#v", cfg.Logging)
	}
	if cfg.Filter() != domain.FilterAll || cfg.Priority() != domain.PriorityUrgent {
		t.Fatalf("unexpected ui defaults %q %q", cfg.Filter(), cfg.Priority())
	}
	if !cfg.UI.ShowHelp {
		t.Fatal("expected help shown from config override")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"backend":   "[storage]\nbackend = \"redis\"\n",
		"filter":    "[ui]\ndefault_filter = \"someday\"\n",
		"priority":  "[ui]\ndefault_priority = \"meh\"\n",
		"log level": "[logging]\nlevel = \"loud\"\n",
		"empty key": "[storage]\nkey = \" \"\n",
		"bad toml":  "[storage\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, content), Default("/tmp/prio.db", "/tmp/todos.json")); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestValidateRequiresBackendPath(t *testing.T) {
	cfg := Default("", "/tmp/todos.json")
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty sqlite path")
	}
	cfg.Storage.Backend = BackendFile
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected file backend to ignore db path, got %v", err)
	}
}
