package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	charmLog "github.com/charmbracelet/log"
	"github.com/evanschultz/prio/internal/domain"
	toml "github.com/pelletier/go-toml/v2"
)

// Backend selects where the item collection is persisted.
type Backend string

// BackendSQLite and BackendFile are the supported storage backends.
const (
	BackendSQLite Backend = "sqlite"
	BackendFile   Backend = "file"
)

// Config holds all runtime settings loaded from TOML.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Logging LoggingConfig `toml:"logging"`
	UI      UIConfig      `toml:"ui"`
}

// StorageConfig selects the backend and where it keeps the collection.
type StorageConfig struct {
	Backend  Backend `toml:"backend"`
	Path     string  `toml:"path"`
	FilePath string  `toml:"file_path"`
	Key      string  `toml:"key"`
}

// LoggingConfig sets the log level and the dev-mode log file.
type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

// DevFileConfig controls the dev-mode log file.
type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// UIConfig holds the startup filter, add priority and help state.
type UIConfig struct {
	DefaultFilter   string `toml:"default_filter"`
	DefaultPriority string `toml:"default_priority"`
	ShowHelp        bool   `toml:"show_help"`
}

// Default returns the baseline config for the given storage paths.
func Default(dbPath, jsonPath string) Config {
	return Config{
		Storage: StorageConfig{
			Backend:  BackendSQLite,
			Path:     dbPath,
			FilePath: jsonPath,
			Key:      "todos",
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: true,
				Dir:     filepath.Join(".prio", "log"),
			},
		},
		UI: UIConfig{
			DefaultFilter:   string(domain.FilterFor(domain.PriorityMedium)),
			DefaultPriority: string(domain.PriorityMedium),
			ShowHelp:        false,
		},
	}
}

// Load reads path over defaults. A missing or empty file yields defaults unchanged.
func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks backend paths, the log level and the UI defaults.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite:
		if strings.TrimSpace(c.Storage.Path) == "" {
			return errors.New("storage.path is required for the sqlite backend")
		}
		if strings.TrimSpace(c.Storage.Key) == "" {
			return errors.New("storage.key is required for the sqlite backend")
		}
	case BackendFile:
		if strings.TrimSpace(c.Storage.FilePath) == "" {
			return errors.New("storage.file_path is required for the file backend")
		}
	default:
		return fmt.Errorf("invalid storage.backend: %q", c.Storage.Backend)
	}

	if _, err := charmLog.ParseLevel(strings.ToLower(strings.TrimSpace(c.Logging.Level))); err != nil {
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}
	if c.Logging.DevFile.Enabled && strings.TrimSpace(c.Logging.DevFile.Dir) == "" {
		return errors.New("logging.dev_file.dir is required when the dev file is enabled")
	}

	if _, err := domain.ParseFilter(c.UI.DefaultFilter); err != nil {
		return fmt.Errorf("invalid ui.default_filter: %q", c.UI.DefaultFilter)
	}
	if _, err := domain.ParsePriority(c.UI.DefaultPriority); err != nil {
		return fmt.Errorf("invalid ui.default_priority: %q", c.UI.DefaultPriority)
	}
	return nil
}

// Filter returns the parsed startup filter. Call after Validate.
func (c Config) Filter() domain.Filter {
	f, err := domain.ParseFilter(c.UI.DefaultFilter)
	if err != nil {
		return domain.FilterFor(domain.PriorityMedium)
	}
	return f
}

// Priority returns the parsed startup add priority. Call after Validate.
func (c Config) Priority() domain.Priority {
	p, err := domain.ParsePriority(c.UI.DefaultPriority)
	if err != nil {
		return domain.PriorityMedium
	}
	return p
}
