// Package stats counts experiment runs per status across collections.
package stats

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/raphaelgruber/topsacred-go/internal/models"
	"github.com/raphaelgruber/topsacred-go/internal/store"
	"github.com/raphaelgruber/topsacred-go/internal/table"
)

// Aggregator computes status count tables. The zero value uses the wall
// clock, the default heartbeat patience and the default logger.
type Aggregator struct {
	Now      func() time.Time
	Patience time.Duration
	Logger   *slog.Logger
}

// ComputeStatusCounts counts runs per status with the zero Aggregator.
func ComputeStatusCounts(ctx context.Context, src Source, filter store.Filter, clean bool) (*table.Table, error) {
	return Aggregator{}.ComputeStatusCounts(ctx, src, filter, clean)
}

// ComputeStatusCounts returns a table with one row per collection of src and
// one column per status. filter is added to every per-status query. With clean
// set, statuses that are zero for every collection are dropped.
func (a Aggregator) ComputeStatusCounts(ctx context.Context, src Source, filter store.Filter, clean bool) (*table.Table, error) {
	colls, err := src.Collections(ctx)
	if err != nil {
		return nil, err
	}
	if len(colls) == 0 {
		return &table.Table{}, nil
	}
	sort.Slice(colls, func(i, j int) bool { return colls[i].Name < colls[j].Name })

	cutoff := a.now().Add(-a.patience())
	logger := a.logger()

	t := &table.Table{
		Index:   make([]string, 0, len(colls)),
		Columns: make([]table.Column, len(models.Statuses)),
		Rows:    make([][]any, 0, len(colls)),
	}
	for i, status := range models.Statuses {
		t.Columns[i] = table.NewColumn(string(status))
	}

	for _, nc := range colls {
		row := make([]any, len(models.Statuses))
		for i, status := range models.Statuses {
			q := Predicate(status, cutoff).And(filter)
			n, err := nc.Collection.Count(ctx, q)
			if err != nil {
				return nil, fmt.Errorf("count %s in %s: %w", status, nc.Name, err)
			}
			row[i] = n
		}
		logger.Debug("counted runs", "collection", nc.Name, "counts", row)

		t.Index = append(t.Index, nc.Name)
		t.Rows = append(t.Rows, row)
	}

	if clean {
		t = dropZeroColumns(t)
	}
	return t, nil
}

// Predicate returns the query selecting runs with the given effective status.
// cutoff is the oldest heartbeat still considered alive (exclusive).
func Predicate(status models.Status, cutoff time.Time) store.Filter {
	switch status {
	case models.StatusTotal:
		return store.Filter{}
	case models.StatusRunning:
		return store.Filter{
			store.Eq(models.FieldStatus, string(models.StatusRunning)),
			store.Gt(models.FieldHeartbeat, cutoff),
		}
	case models.StatusDied:
		return store.Filter{
			store.Eq(models.FieldStatus, string(models.StatusRunning)),
			store.Lte(models.FieldHeartbeat, cutoff),
		}
	default:
		return store.Filter{store.Eq(models.FieldStatus, string(status))}
	}
}

func dropZeroColumns(t *table.Table) *table.Table {
	var keep []int
	for c := range t.Columns {
		for _, row := range t.Rows {
			if row[c].(int) != 0 {
				keep = append(keep, c)
				break
			}
		}
	}
	return t.Select(keep)
}

func (a Aggregator) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a Aggregator) patience() time.Duration {
	if a.Patience > 0 {
		return a.Patience
	}
	return models.DefaultPatience
}

func (a Aggregator) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}
