package results

import (
	"github.com/raphaelgruber/topsacred-go/internal/store"
	"github.com/raphaelgruber/topsacred-go/internal/table"
)

// Prune drops columns that carry no information: all null, or never differing
// from the first row. Each dropped column is reported to rep before removal.
// Remaining columns keep their order.
//
// A single-row table is constant in every column and prunes to no columns.
func Prune(t *table.Table, rep Reporter) *table.Table {
	if rep == nil {
		rep = nopReporter{}
	}

	keep := make([]int, 0, len(t.Columns))
	for c, col := range t.Columns {
		values := t.Values(c)
		if informative(values) {
			keep = append(keep, c)
			continue
		}
		var first any
		if len(values) > 0 {
			first = values[0]
		}
		rep.Skipped(col, first)
	}

	if len(keep) == len(t.Columns) {
		return t
	}
	return t.Select(keep)
}

// informative reports whether values hold a non-null entry and an entry that
// differs from the first one. Null differs from every non-null value.
func informative(values []any) bool {
	hasValue := false
	for _, v := range values {
		if !store.IsNull(v) {
			hasValue = true
			break
		}
	}
	if !hasValue {
		return false
	}

	first := values[0]
	for _, v := range values[1:] {
		if differs(first, v) {
			return true
		}
	}
	return false
}

func differs(a, b any) bool {
	if store.IsNull(a) || store.IsNull(b) {
		return store.IsNull(a) != store.IsNull(b)
	}
	return !store.Equal(a, b)
}
