package results

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/raphaelgruber/topsacred-go/internal/table"
)

// Reporter receives the columns dropped by pruning, with their constant value,
// and the config columns hidden by another field of the same name.
type Reporter interface {
	Skipped(col table.Column, value any)
	Shadowed(col, by table.Column)
}

// WriterReporter prints one human-readable line per dropped column.
type WriterReporter struct {
	W io.Writer
}

// Skipped writes "skipping <name> = <value>".
func (r WriterReporter) Skipped(col table.Column, value any) {
	fmt.Fprintf(r.W, "skipping %20s = %v\n", col.Name(), value)
}

// Shadowed writes "skipping <name> (shadowed by <other>)".
func (r WriterReporter) Shadowed(col, by table.Column) {
	fmt.Fprintf(r.W, "skipping %20s (shadowed by %s)\n", col.Name(), by.Name())
}

// LogReporter logs dropped columns at info level.
type LogReporter struct {
	Logger *slog.Logger
}

// Skipped logs the dropped column.
func (r LogReporter) Skipped(col table.Column, value any) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("skipping constant column", "column", col.Name(), "value", value)
}

// Shadowed logs the hidden column.
func (r LogReporter) Shadowed(col, by table.Column) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("skipping shadowed column", "column", col.Name(), "shadowed_by", by.Name())
}

// MultiReporter forwards every report to each of its reporters.
type MultiReporter []Reporter

// Skipped forwards the report.
func (m MultiReporter) Skipped(col table.Column, value any) {
	for _, r := range m {
		r.Skipped(col, value)
	}
}

// Shadowed forwards the report.
func (m MultiReporter) Shadowed(col, by table.Column) {
	for _, r := range m {
		r.Shadowed(col, by)
	}
}

type nopReporter struct{}

func (nopReporter) Skipped(table.Column, any) {}

func (nopReporter) Shadowed(table.Column, table.Column) {}
