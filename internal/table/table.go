// Package table holds in-memory tables with hierarchical column names.
package table

import (
	"github.com/raphaelgruber/topsacred-go/internal/docpath"
)

// Column identifies a column by its path of header levels. Every column of a
// table has the same path length; unused trailing levels are "".
type Column struct {
	Path []string
}

// NewColumn builds a column from its path segments.
func NewColumn(path ...string) Column {
	return Column{Path: path}
}

// Name is the column path with empty levels dropped, joined by dots.
func (c Column) Name() string {
	return docpath.Join(c.Path)
}

// Table is a row-major table. Index, when set, labels each row.
// A nil cell means the row has no value for that column.
type Table struct {
	Index   []string
	Columns []Column
	Rows    [][]any
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return len(t.Rows) }

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int { return len(t.Columns) }

// Depth returns the number of header levels.
func (t *Table) Depth() int {
	depth := 0
	for _, c := range t.Columns {
		if len(c.Path) > depth {
			depth = len(c.Path)
		}
	}
	return depth
}

// ColumnIndex returns the position of the column with the given name, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name() == name {
			return i
		}
	}
	return -1
}

// Values returns the cells of column i, top to bottom.
func (t *Table) Values(i int) []any {
	out := make([]any, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out
}

// Select returns a new table holding only the given columns, in that order.
func (t *Table) Select(cols []int) *Table {
	out := &Table{
		Index:   t.Index,
		Columns: make([]Column, len(cols)),
		Rows:    make([][]any, len(t.Rows)),
	}
	for j, c := range cols {
		out.Columns[j] = t.Columns[c]
	}
	for r, row := range t.Rows {
		cells := make([]any, len(cols))
		for j, c := range cols {
			cells[j] = row[c]
		}
		out.Rows[r] = cells
	}
	return out
}

// Records converts the table into one map per row keyed by column name.
// Nil cells are omitted.
func (t *Table) Records() []map[string]any {
	out := make([]map[string]any, len(t.Rows))
	for r, row := range t.Rows {
		rec := make(map[string]any, len(row))
		if t.Index != nil {
			rec["index"] = t.Index[r]
		}
		for c, v := range row {
			if v != nil {
				rec[t.Columns[c].Name()] = v
			}
		}
		out[r] = rec
	}
	return out
}
