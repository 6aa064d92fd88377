package cli

import (
	"fmt"
	"strings"

	"github.com/raphaelgruber/topsacred-go/internal/display"
	"github.com/raphaelgruber/topsacred-go/internal/docpath"
	"github.com/raphaelgruber/topsacred-go/internal/models"
	"github.com/raphaelgruber/topsacred-go/internal/results"
	"github.com/raphaelgruber/topsacred-go/internal/store"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --format.
const (
	formatTable = "table"
	formatYAML  = "yaml"
)

var (
	resultsDatabase    string
	resultsFilter      []string
	resultsCompleted   bool
	resultsProject     []string
	resultsColumns     []string
	resultsSort        string
	resultsAscending   bool
	resultsIndex       bool
	resultsNoPrune     bool
	resultsInteractive bool
	resultsFormat      string
)

var resultsCmd = &cobra.Command{
	Use:   "results <collection>",
	Short: "Tabulate run configs and results of a collection",
	Long: `Flatten the config and result of every matching run into one table.

Nested fields become stacked column headers. Columns whose value is the same
for every run are dropped and reported on stderr, unless --no-prune is set.

Examples:
  topsacred results runs
  topsacred results runs --completed --sort result
  topsacred results runs --filter config.model.depth>=3 --project config.lr
  topsacred results runs --column depth=config.model.depth --no-prune
  topsacred results runs --interactive
  topsacred results runs --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runResults,
}

func init() {
	resultsCmd.Flags().StringVarP(&resultsDatabase, "database", "d", "", "database holding the collection (default from config)")
	resultsCmd.Flags().StringArrayVarP(&resultsFilter, "filter", "f", nil, "restrict runs, e.g. status=COMPLETED (repeatable)")
	resultsCmd.Flags().BoolVar(&resultsCompleted, "completed", false, "only completed runs")
	resultsCmd.Flags().StringSliceVarP(&resultsProject, "project", "p", nil, "fields to include instead of the whole config")
	resultsCmd.Flags().StringArrayVarP(&resultsColumns, "column", "c", nil, "extra column as name=dotted.path (repeatable)")
	resultsCmd.Flags().StringVarP(&resultsSort, "sort", "s", models.FieldResult, "field to sort by")
	resultsCmd.Flags().BoolVar(&resultsAscending, "ascending", false, "sort ascending instead of descending")
	resultsCmd.Flags().BoolVar(&resultsIndex, "index", false, "include the run id column")
	resultsCmd.Flags().BoolVar(&resultsNoPrune, "no-prune", false, "keep columns that are constant across runs")
	resultsCmd.Flags().BoolVarP(&resultsInteractive, "interactive", "i", false, "browse the table in a pager")
	resultsCmd.Flags().StringVarP(&resultsFormat, "format", "o", formatTable, "output format: table or yaml")
}

func runResults(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	q, err := buildQuery()
	if err != nil {
		return err
	}

	database, err := openDatabase(ctx, resultsDatabase)
	if err != nil {
		return err
	}

	rep := results.MultiReporter{
		results.WriterReporter{W: cmd.ErrOrStderr()},
		results.LogReporter{Logger: logger},
	}
	tbl, err := results.GetResults(ctx, database.Collection(args[0]), q, rep)
	if err != nil {
		return fmt.Errorf("get results: %w", err)
	}

	out := cmd.OutOrStdout()
	switch {
	case resultsFormat == formatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(tbl.Records()); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case tbl.NumRows() == 0:
		fmt.Fprintln(out, "No runs found.")
		return nil
	case resultsInteractive:
		return display.Browse(tbl)
	default:
		fmt.Fprintln(out, display.Render(tbl))
		return nil
	}
}

// buildQuery turns the results flags into a query.
func buildQuery() (results.Query, error) {
	if resultsFormat != formatTable && resultsFormat != formatYAML {
		return results.Query{}, fmt.Errorf("unknown format %q", resultsFormat)
	}

	filter, err := parseFilter(resultsFilter)
	if err != nil {
		return results.Query{}, err
	}
	if resultsCompleted {
		filter = results.Completed().And(filter)
	}

	q := results.DefaultQuery()
	q.Filter = filter
	q.IncludeIndex = resultsIndex
	q.Prune = !resultsNoPrune
	q.Sort = store.Sort{Field: resultsSort, Direction: store.Descending}
	if resultsAscending {
		q.Sort.Direction = store.Ascending
	}
	if len(resultsProject) > 0 {
		q.Project = results.Fields(resultsProject)
	}

	if len(resultsColumns) > 0 {
		q.CustomCols = make(map[string]results.CustomColumn, len(resultsColumns))
		for _, col := range resultsColumns {
			name, path, ok := strings.Cut(col, "=")
			if !ok || name == "" || path == "" {
				return results.Query{}, fmt.Errorf("invalid column %q: want name=dotted.path", col)
			}
			q.CustomCols[name] = lookup(path)
		}
	}
	return q, nil
}

func lookup(path string) results.CustomColumn {
	return func(doc store.Document) any {
		return docpath.Get(doc, path)
	}
}
