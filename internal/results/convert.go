package results

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/raphaelgruber/topsacred-go/internal/docpath"
	"github.com/raphaelgruber/topsacred-go/internal/store"
	"github.com/raphaelgruber/topsacred-go/internal/table"
)

// ErrInvalidDepth is returned when a column path would have to be truncated to
// fit the header depth.
var ErrInvalidDepth = errors.New("target depth shorter than column path")

// configPrefix is stripped from column names so config entries read as
// top-level parameters.
const configPrefix = "config."

// sourceColumn is a flattened field name together with the header path it
// is displayed under.
type sourceColumn struct {
	name     string
	segments []string
	path     []string
}

// ConvertToTable flattens run summaries into a table. Rows keep the order of
// summaries. Columns are ordered by nesting depth, then lexicographically, and
// padded to a common depth. With prune set, constant and empty columns are
// removed and reported to rep.
func ConvertToTable(summaries []store.Document, prune bool, rep Reporter) (*table.Table, error) {
	if rep == nil {
		rep = nopReporter{}
	}

	flat := make([]map[string]any, len(summaries))
	names := make(map[string]struct{})
	for i, s := range summaries {
		flat[i] = docpath.Flatten(s)
		for name := range flat[i] {
			names[name] = struct{}{}
		}
	}

	cols, shadowed := orderColumns(names)
	for _, sh := range shadowed {
		rep.Shadowed(table.NewColumn(sh.col.segments...), table.NewColumn(sh.by.segments...))
	}

	depth := 0
	for _, c := range cols {
		depth = max(depth, len(c.path))
	}

	t := &table.Table{
		Columns: make([]table.Column, len(cols)),
		Rows:    make([][]any, len(flat)),
	}
	for i, c := range cols {
		padded, err := padPath(c.path, depth)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.name, err)
		}
		t.Columns[i] = table.Column{Path: padded}
	}
	for r, rec := range flat {
		row := make([]any, len(cols))
		for i, c := range cols {
			row[i] = rec[c.name]
		}
		t.Rows[r] = row
	}

	if prune {
		t = Prune(t, rep)
	}
	return t, nil
}

// shadowedColumn is a config entry hidden by another field with the same
// header path.
type shadowedColumn struct {
	col sourceColumn
	by  sourceColumn
}

// orderColumns sorts flattened names by (depth, segments) and derives their
// header paths. When a config entry and another field end up under the same
// header path, the other field wins: it was requested explicitly. The losing
// entries are returned as shadowed.
func orderColumns(names map[string]struct{}) ([]sourceColumn, []shadowedColumn) {
	cols := make([]sourceColumn, 0, len(names))
	for name := range names {
		cols = append(cols, sourceColumn{
			name:     name,
			segments: docpath.Split(name),
			path:     docpath.Split(strings.TrimPrefix(name, configPrefix)),
		})
	}

	slices.SortFunc(cols, func(a, b sourceColumn) int {
		if len(a.segments) != len(b.segments) {
			return len(a.segments) - len(b.segments)
		}
		return slices.Compare(a.segments, b.segments)
	})

	owner := make(map[string]sourceColumn, len(cols))
	for _, c := range cols {
		key := strings.Join(c.path, docpath.Separator)
		prev, taken := owner[key]
		if !taken || strings.HasPrefix(prev.name, configPrefix) {
			owner[key] = c
		}
	}

	var shadowed []shadowedColumn
	out := make([]sourceColumn, 0, len(cols))
	for _, c := range cols {
		winner := owner[strings.Join(c.path, docpath.Separator)]
		if winner.name == c.name {
			out = append(out, c)
			continue
		}
		shadowed = append(shadowed, shadowedColumn{col: c, by: winner})
	}
	return out, shadowed
}

// padPath right-pads path with empty segments up to depth.
func padPath(path []string, depth int) ([]string, error) {
	if len(path) > depth {
		return nil, fmt.Errorf("%w: %d < %d", ErrInvalidDepth, depth, len(path))
	}
	out := make([]string, depth)
	copy(out, path)
	return out, nil
}
