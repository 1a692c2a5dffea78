package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/careercoach/internal/config"
	"github.com/abhisek/careercoach/internal/store"
)

// cfg is loaded once per invocation by the root command's pre-run hook.
var cfg config.Config

// closeLog flushes the log file, if any.
var closeLog = func() error { return nil }

var rootCmd = &cobra.Command{
	Use:   "careercoach",
	Short: "AI career coach in your terminal",
	Long: "Career Coach analyzes your profile, recommends skills, builds a weekly learning\n" +
		"roadmap and unlocks each week once you pass its assessment.",
	SilenceUsage: true,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Assigned here rather than in the literal: setup refers to rootCmd,
	// which would otherwise be an initialization cycle.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	}

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/careercoach/config.yaml)")
	pf.String("users", "", "User store: JSON file, *.db / sqlite: path, or postgres:// URL (overrides CAREERCOACH_USERS)")
	pf.String("db", "", "Path to SQLite event database (overrides CAREERCOACH_DB)")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.Flags().Bool("no-splash", false, "Skip the welcome animation")

	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads .env, the config file and the environment, applies flag
// overrides and installs the process logger.
func setup(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	path, _ := cmd.Flags().GetString("config")
	loaded, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if v, _ := cmd.Flags().GetString("users"); v != "" {
		loaded.Users = v
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		loaded.DBPath = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		loaded.LogLevel = v
		if err := loaded.Validate(); err != nil {
			return err
		}
	}
	cfg = loaded

	tui := cmd == rootCmd
	logger, closeFn, err := config.NewLogger(cfg, tui)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	closeLog = closeFn
	return nil
}

// resolveDBPath returns the event database path: --db / CAREERCOACH_DB /
// config first, then the default XDG path.
func resolveDBPath() (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// openStore opens the event database.
func openStore() (*store.Store, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
