package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/binabdulkhalim-prog/winter-starfall/internal/config"
	"github.com/binabdulkhalim-prog/winter-starfall/internal/db"
	"github.com/binabdulkhalim-prog/winter-starfall/internal/services"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	_ "modernc.org/sqlite"
)

// app holds everything the subcommands share. It is filled in by the root
// command's PersistentPreRunE.
type app struct {
	// flags
	configPath   string
	dbPath       string
	verbose      bool
	showActivity bool
	showDetail   bool

	cfg      *config.Config
	logger   *zap.Logger
	sqlDB    *sql.DB
	queue    *db.DBQueue
	repo     *db.UserDataRepository
	activity *services.ActivityLog
	store    *services.TrackedUserData
	progress *services.ProgressService
	links    *services.Links
}

func main() {
	rootCmd, a := newRootCmd()
	if err := execute(rootCmd, a); err != nil {
		os.Exit(1)
	}
}

// execute runs the command tree and releases the store whether or not the
// command succeeded.
func execute(rootCmd *cobra.Command, a *app) error {
	defer a.close()
	return rootCmd.Execute()
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "starfall",
		Short: "Inspect and update Winter Starfall player progress",
		Long: `starfall reads the read-only "Completed" user data record of players
from a local user data store, reports which checkpoints they have finished
and whether their starter grant was issued, and records progress updates.

Every call made against the store is logged and can be printed with --activity.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.showActivity || a.showDetail {
				a.printActivity(cmd)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", config.DefaultPath, "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "Path to the SQLite user data store (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&a.showActivity, "activity", false, "Print backend activity after the command")
	rootCmd.PersistentFlags().BoolVar(&a.showDetail, "detail", false, "Print request and response of every backend call")

	rootCmd.AddCommand(
		a.progressCmd(),
		a.pendingCmd(),
		a.grantCmd(),
		a.completeCmd(),
		a.importCmd(),
		a.deleteCmd(),
		a.playersCmd(),
	)

	return rootCmd, a
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.DBPath = a.dbPath
	}
	a.cfg = cfg

	a.logger, err = buildLogger(cfg.Logging.Level, a.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.sqlDB, err = sql.Open("sqlite", cfg.DBPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.InitSchema(a.sqlDB); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	a.queue = db.NewDBQueue(a.sqlDB, a.logger)
	a.activity = services.NewActivityLog(cfg.Activity.Capacity, a.logger)
	a.repo = db.NewUserDataRepository(a.queue)
	a.store = services.NewTrackedUserData(a.repo, a.activity)
	a.progress = services.NewProgressService(a.store, a.logger)
	a.links = services.NewLinks(cfg.Links)

	a.logger.Debug("store opened", zap.String("db", cfg.DBPath))
	return nil
}

func (a *app) close() {
	if a.queue != nil {
		a.queue.Close()
		a.queue = nil
	}
	if a.sqlDB != nil {
		_ = a.sqlDB.Close()
		a.sqlDB = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func buildLogger(level string, verbose bool) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	return zapCfg.Build()
}

func (a *app) printActivity(cmd *cobra.Command) {
	if a.activity == nil {
		return
	}
	out := cmd.OutOrStdout()
	events := a.activity.Events()

	// printed events are dropped
	defer a.activity.Clear()

	fmt.Fprintln(out)
	fmt.Fprint(out, services.FormatActivitySidebar(events, a.links, a.cfg.TitleID))
	if !a.showDetail {
		return
	}
	for _, e := range events {
		a.activity.Select(e.ID)
		if selected, ok := a.activity.Selected(); ok {
			fmt.Fprintln(out)
			fmt.Fprint(out, services.FormatActivityDetail(selected, a.links))
		}
	}
	a.activity.ClearSelected()
}
