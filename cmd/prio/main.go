package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/evanschultz/prio/internal/adapters/storage/jsonfile"
	"github.com/evanschultz/prio/internal/adapters/storage/sqlite"
	"github.com/evanschultz/prio/internal/app"
	"github.com/evanschultz/prio/internal/config"
	"github.com/evanschultz/prio/internal/platform"
	"github.com/evanschultz/prio/internal/tui"
	"github.com/spf13/cobra"
)

// version stores a package-level helper value.
var version = "dev"

// program represents program data used by this package.
type program interface {
	Run() (tea.Model, error)
}

// programFactory stores a package-level helper value.
var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

func main() {
	root := newRootCmd(os.Stdout, os.Stderr)
	if err := fang.Execute(context.Background(), root, fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

// run executes the command tree against args without fang's styling.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// cli holds the persistent flag values shared by every command.
type cli struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	dbPath     string
	appName    string
	devMode    bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	c := &cli{stdout: stdout, stderr: stderr}

	defaultDevMode := version == "dev"
	if envDev, ok := parseBoolEnv("PRIO_DEV_MODE"); ok {
		defaultDevMode = envDev
	}

	root := &cobra.Command{
		Use:           "prio",
		Short:         "Priority-tagged task list for the terminal",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		Example: strings.TrimSpace(`
  # Start the interactive list
  prio

  # Scriptable commands
  prio add --priority urgent call the bank
  prio ls --filter urgent
  prio export --format yaml --out backup.yaml
`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runTUI(cmd.Context())
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", envOr("PRIO_CONFIG", ""), "path to config TOML")
	flags.StringVar(&c.dbPath, "db", envOr("PRIO_DB_PATH", ""), "path to sqlite database")
	flags.StringVar(&c.appName, "app", envOr("PRIO_APP_NAME", platform.DefaultAppName), "application name for config/data path resolution")
	flags.BoolVar(&c.devMode, "dev", defaultDevMode, "use dev mode paths (<app>-dev)")

	root.AddCommand(
		newAddCmd(c),
		newListCmd(c),
		newEditCmd(c),
		newRemoveCmd(c),
		newExportCmd(c),
		newImportCmd(c),
		newPathsCmd(c),
	)
	return root
}

// session is the opened runtime state one command works against.
type session struct {
	cfg        config.Config
	configPath string
	logger     *runtimeLogger
	list       *app.List
	repo       *sqlite.Repository
	closers    []func() error
}

// Close releases the store and the log sinks.
func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			s.logger.Warn("close failed", "err", err)
		}
	}
	_ = s.logger.Close()
}

func (c *cli) paths() (platform.Paths, error) {
	return platform.DefaultPathsWithOptions(platform.Options{
		AppName: c.appName,
		DevMode: c.devMode,
	})
}

// open resolves config, logging and storage, then loads the list. Interactive
// sessions keep the console sink muted so logs never draw over the TUI.
func (c *cli) open(ctx context.Context, command string, interactive bool) (*session, error) {
	paths, err := c.paths()
	if err != nil {
		return nil, err
	}
	configPath := strings.TrimSpace(c.configPath)
	if configPath == "" {
		configPath = paths.ConfigPath
	}
	cfg, err := config.Load(configPath, config.Default(paths.DBPath, paths.JSONPath))
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", configPath, err)
	}
	if dbPath := strings.TrimSpace(c.dbPath); dbPath != "" {
		cfg.Storage.Backend = config.BackendSQLite
		cfg.Storage.Path = dbPath
	}

	logger, err := newRuntimeLogger(c.stderr, c.appName, c.devMode, cfg.Logging, time.Now)
	if err != nil {
		return nil, fmt.Errorf("configure runtime logger: %w", err)
	}
	logger.SetConsoleEnabled(!interactive)
	s := &session{cfg: cfg, configPath: configPath, logger: logger}

	logger.Info("startup configuration resolved", "app", c.appName, "dev_mode", c.devMode, "command", command)
	logger.Debug("runtime paths resolved", "config_path", configPath, "data_dir", paths.DataDir)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}

	var store app.Store
	switch cfg.Storage.Backend {
	case config.BackendFile:
		fileStore, err := jsonfile.New(cfg.Storage.FilePath)
		if err != nil {
			s.Close()
			return nil, err
		}
		logger.Info("json file store ready", "path", fileStore.Path())
		store = fileStore
	default:
		repo, err := sqlite.Open(cfg.Storage.Path)
		if err != nil {
			logger.Error("sqlite open failed", "db_path", cfg.Storage.Path, "err", err)
			s.Close()
			return nil, fmt.Errorf("open sqlite repository: %w", err)
		}
		s.closers = append(s.closers, repo.Close)
		s.repo = repo
		logger.Info("sqlite repository ready", "db_path", cfg.Storage.Path, "key", cfg.Storage.Key)
		store = repo.ItemStore(cfg.Storage.Key)
	}

	list, err := app.NewList(ctx, store, nil, app.ListConfig{
		DefaultFilter:   cfg.Filter(),
		DefaultPriority: cfg.Priority(),
	}, logger)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.list = list
	return s, nil
}

// lastSaved reports when the sqlite backend last wrote the collection. It is
// false for the file backend and for a key that was never written.
func (s *session) lastSaved(ctx context.Context) (time.Time, bool, error) {
	if s.repo == nil {
		return time.Time{}, false, nil
	}
	at, err := s.repo.UpdatedAt(ctx, s.cfg.Storage.Key)
	switch {
	case errors.Is(err, app.ErrNotFound):
		return time.Time{}, false, nil
	case err != nil:
		return time.Time{}, false, err
	}
	return at, !at.IsZero(), nil
}

func (c *cli) runTUI(ctx context.Context) error {
	s, err := c.open(ctx, "tui", true)
	if err != nil {
		return err
	}
	defer s.Close()

	m := tui.NewModel(s.list, tui.WithShowHelp(s.cfg.UI.ShowHelp))
	s.logger.Info("starting tui program loop")
	if _, err := programFactory(m).Run(); err != nil {
		s.logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	s.logger.Info("command flow complete", "command", "tui")
	return nil
}

// envOr returns the trimmed environment value for name, or fallback when unset.
func envOr(name, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return fallback
}

// parseBoolEnv parses input into a normalized form.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

// parseIDs parses positional item ids.
func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, raw := range args {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid item id %q", raw)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, errors.New("at least one item id is required")
	}
	return ids, nil
}
