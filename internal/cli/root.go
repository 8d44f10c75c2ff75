package cli

import (
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"todotree/internal/config"
	"todotree/internal/service"
	"todotree/internal/storage"
	"todotree/internal/ui"
)

type App struct {
	ConfigPath string
	DBPath     string

	cfg     config.Config
	store   *storage.Store
	coord   *service.Coordinator
	logFile *os.File
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "todotree",
		Short:         "Nested task list in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive tree
  todotree

  # Print the tree
  todotree list

  # Add a subtask under task 3
  todotree add "Write tests" --parent 3
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(false); err != nil {
				return err
			}
			return ui.Run(app.coord, app.cfg)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.close()
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Path to config.toml (default $TODOTREE_CONFIG or ~/.config/todotree/config.toml)")
	cmd.PersistentFlags().StringVar(&app.DBPath, "db", "", "Path to the SQLite database (overrides db_path and $DB_PATH)")

	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newDoneCmd(app))
	cmd.AddCommand(newRmCmd(app))
	cmd.AddCommand(newSeedCmd(app))

	return cmd
}

// open loads config and the store. Non-interactive commands log to
// log_path when set; the TUI sets up its own log file.
func (a *App) open(cliLogging bool) error {
	path := a.ConfigPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return err
	}
	if a.DBPath != "" {
		cfg.DBPath = a.DBPath
	}
	a.cfg = cfg

	if cliLogging {
		if err := a.setupLogging(); err != nil {
			return err
		}
	}

	st, err := storage.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	a.store = st
	a.coord = service.New(st)
	return nil
}

func (a *App) setupLogging() error {
	if a.cfg.LogPath == "" {
		log.SetOutput(io.Discard)
		return nil
	}
	f, err := os.OpenFile(a.cfg.LogPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return err
	}
	a.logFile = f
	log.SetOutput(f)
	log.SetPrefix("todotree ")
	return nil
}

func (a *App) close() error {
	if a.logFile != nil {
		a.logFile.Close()
		a.logFile = nil
	}
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}
