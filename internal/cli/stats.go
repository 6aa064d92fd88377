package cli

import (
	"fmt"

	"github.com/raphaelgruber/topsacred-go/internal/display"
	"github.com/raphaelgruber/topsacred-go/internal/stats"
	"github.com/spf13/cobra"
)

var (
	statsDatabase string
	statsAll      bool
	statsFilter   []string
	statsKeepZero bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count runs per status for each collection",
	Long: `Count the runs of every collection by status.

RUNNING runs whose last heartbeat is older than the patience
(TOPSACRED_PATIENCE, default 120s) are counted as DIED.

Examples:
  topsacred stats
  topsacred stats --database mnist
  topsacred stats --all
  topsacred stats --filter config.dataset=cifar10 --keep-zero`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVarP(&statsDatabase, "database", "d", "", "database to inspect (default from config)")
	statsCmd.Flags().BoolVarP(&statsAll, "all", "a", false, "inspect every database of the server")
	statsCmd.Flags().StringArrayVarP(&statsFilter, "filter", "f", nil, "restrict runs, e.g. config.lr>0.01 (repeatable)")
	statsCmd.Flags().BoolVar(&statsKeepZero, "keep-zero", false, "keep status columns that are zero everywhere")
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	filter, err := parseFilter(statsFilter)
	if err != nil {
		return err
	}

	var src stats.Source
	if statsAll {
		src = stats.FromServer(backend)
	} else {
		database, err := openDatabase(ctx, statsDatabase)
		if err != nil {
			return err
		}
		src = stats.FromDatabase(database)
	}

	agg := stats.Aggregator{Patience: cfg.Patience, Logger: logger}
	tbl, err := agg.ComputeStatusCounts(ctx, src, filter, !statsKeepZero)
	if err != nil {
		return fmt.Errorf("compute status counts: %w", err)
	}

	out := cmd.OutOrStdout()
	if tbl.NumRows() == 0 {
		fmt.Fprintln(out, "No collections found.")
		return nil
	}
	fmt.Fprintln(out, display.Render(tbl))
	return nil
}
