// Package cli provides the command-line interface for topsacred.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/raphaelgruber/topsacred-go/internal/config"
	"github.com/raphaelgruber/topsacred-go/internal/db"
	"github.com/raphaelgruber/topsacred-go/internal/display"
	"github.com/raphaelgruber/topsacred-go/internal/metrics"
	"github.com/raphaelgruber/topsacred-go/internal/mongostore"
	"github.com/raphaelgruber/topsacred-go/internal/store"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool

	// Global config, logger and backend
	cfg       config.Config
	logger    *slog.Logger
	closeLog  func() error
	collector *metrics.Collector
	backend   store.Server
	closeFn   func(context.Context) error
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "topsacred",
	Short: "Inspect experiment runs recorded by sacred",
	Long: `Topsacred summarizes experiment runs stored by the sacred experiment tracker.

It counts runs per status for every collection of a database and flattens
run configurations and results into one table per collection, dropping
columns that are the same for every run.

The backend is MongoDB (sacred's native store) or SurrealDB, chosen with
TOPSACRED_BACKEND.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip DB connection for version and help commands
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if verbose && cfg.LogLevel > slog.LevelInfo {
			cfg.LogLevel = slog.LevelInfo
		}

		logger, closeLog = config.SetupLogger(cfg.LogFile, cfg.LogLevel)
		slog.SetDefault(logger)

		display.Setup(display.Options{
			Theme:   display.DefaultTheme,
			Margin:  cfg.Margin,
			Bounded: cfg.Bounded,
		})

		collector = metrics.NewCollector()
		backend, closeFn, err = connect(cmd.Context())
		if err != nil {
			return fmt.Errorf("connect to %s: %w", cfg.Backend, err)
		}
		return nil
	},
}

// connect opens the configured backend.
func connect(ctx context.Context) (store.Server, func(context.Context) error, error) {
	switch cfg.Backend {
	case config.BackendSurrealDB:
		c, err := db.NewClient(ctx, db.Config{
			URL:       cfg.SurrealDBURL,
			Namespace: cfg.SurrealDBNamespace,
			Database:  cfg.SurrealDBDatabase,
			Username:  cfg.SurrealDBUser,
			Password:  cfg.SurrealDBPass,
			AuthLevel: cfg.SurrealDBAuthLevel,
		}, logger, collector)
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	default:
		c, err := mongostore.NewClient(ctx, mongostore.Config{URI: cfg.MongoURI}, logger, collector)
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	}
}

// defaultDatabase is the database used when --database is not given.
func defaultDatabase() string {
	if cfg.Backend == config.BackendSurrealDB {
		return cfg.SurrealDBDatabase
	}
	return cfg.MongoDatabase
}

// openDatabase resolves name, or the configured default, to an existing database.
func openDatabase(ctx context.Context, name string) (store.Database, error) {
	if name == "" {
		name = defaultDatabase()
	}
	return store.LookupDatabase(ctx, backend, name)
}

// printMetrics displays backend query statistics.
func printMetrics(w io.Writer, c *metrics.Collector) {
	fmt.Fprintf(w, "\nQuery Statistics\n")
	fmt.Fprintf(w, "════════════════════════════════\n")
	fmt.Fprintf(w, "Uptime: %.1f seconds\n", c.Uptime().Seconds())
	for _, op := range c.Snapshot() {
		fmt.Fprintf(w, "\n%s:\n", op.Name)
		fmt.Fprintf(w, "  Calls: %d, Errors: %d, Total: %dms\n", op.Count, op.Errors, op.TotalTimeMs)
		fmt.Fprintf(w, "  Time: avg %.1fms, min %dms, max %dms\n", op.AvgTimeMs, op.MinTimeMs, op.MaxTimeMs)
	}
}

// cleanup closes the backend and the log file, printing query statistics to w
// when verbose. It runs after every command, including failed ones.
func cleanup(w io.Writer) {
	if closeFn != nil {
		if err := closeFn(context.Background()); err != nil {
			fmt.Fprintf(w, "Warning: failed to close database: %v\n", err)
		}
		closeFn = nil
		backend = nil
	}
	if verbose && collector != nil {
		printMetrics(w, collector)
	}
	collector = nil
	if closeLog != nil {
		_ = closeLog()
		closeLog = nil
	}
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	defer cleanup(os.Stderr)
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output and query statistics")

	// Add subcommands
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(versionCmd)
}
