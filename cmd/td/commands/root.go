package commands

import (
	"context"
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/nikbrunner/td/internal/logging"
	"github.com/nikbrunner/td/internal/storage"
	"github.com/nikbrunner/td/internal/tui"
	"github.com/spf13/cobra"
)

// rootOptions holds the global flags shared by every subcommand.
type rootOptions struct {
	configPath string
	dbPath     string
	logLevel   string
}

// Execute runs the root command.
func Execute(ctx context.Context, version string) error {
	return NewRootCommand(version).ExecuteContext(ctx)
}

// NewRootCommand builds the td command tree.
func NewRootCommand(version string) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "td",
		Short: "td - folders of to-dos in your terminal",
		Long: `td keeps to-do items in folders, stored in a local SQLite database.

Run without arguments to open the interactive TUI:
  j/k         Move down/up
  l/Enter     Open folder
  h/Esc       Back to folders
  gg/G        Jump to top/bottom
  a           Add folder or to-do
  e           Toggle edit mode (Enter renames)
  d/D         Delete selected / delete all
  y           Copy title to clipboard
  q           Quit`,
		Version:      version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file path (default ~/.config/td/config.json)")
	rootCmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "database path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(newFolderCommand(opts))
	rootCmd.AddCommand(newToDoCommand(opts))
	rootCmd.AddCommand(newExportCommand(opts))
	rootCmd.AddCommand(newImportCommand(opts))

	return rootCmd
}

// loadConfig reads the config file and applies flag overrides.
func (o *rootOptions) loadConfig() (*storage.Config, error) {
	path := o.configPath
	if path == "" {
		var err error
		path, err = storage.DefaultConfigFilePath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config path: %w", err)
		}
	}

	cfg, err := storage.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	if o.dbPath != "" {
		cfg.DatabasePath = o.dbPath
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if err := cfg.ResolvePaths(); err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	return cfg, nil
}

// session is an open database plus the stores over it.
type session struct {
	db     *storage.DB
	stores storage.Stores
	logger *log.Logger
}

func (s *session) Close() error {
	return s.db.Close()
}

// openSession opens the database for a CLI command, logging to stderr.
func (o *rootOptions) openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	logger := logging.New(cmd.ErrOrStderr(), cfg.LogLevel)

	db, err := storage.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	logger.Debug("opened database", "path", db.Path())

	return &session{
		db:     db,
		stores: storage.NewStores(db, storage.StoreParams{Logger: logger}),
		logger: logger,
	}, nil
}

// runTUI opens the interactive app. Logs go to a file since the
// alt screen owns the terminal.
func runTUI(ctx context.Context, opts *rootOptions) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	logger, logFile, err := logging.OpenFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	db, err := storage.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	logger.Info("starting tui", "db", db.Path())

	tracker := tui.NewChangeTracker(logger)
	stores := storage.NewStores(db, storage.StoreParams{
		Logger:   logger,
		OnChange: tracker.Observe,
	})

	app := tui.NewApp(tui.AppParams{
		Ctx:           ctx,
		Folders:       stores.Folders,
		ToDos:         stores.ToDos,
		Changes:       tracker,
		Logger:        logger,
		ConfirmDelete: cfg.ConfirmDelete,
	})

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run app: %w", err)
	}
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
