// Package results turns experiment run documents into flat, hierarchically
// labelled tables.
package results

import (
	"context"
	"fmt"
	"sort"

	"github.com/raphaelgruber/topsacred-go/internal/docpath"
	"github.com/raphaelgruber/topsacred-go/internal/models"
	"github.com/raphaelgruber/topsacred-go/internal/store"
	"github.com/raphaelgruber/topsacred-go/internal/table"
)

// Projection selects which document fields end up in the table.
type Projection interface {
	apply(fields map[string]bool)
}

// Fields requests exactly the listed dotted paths.
type Fields []string

func (f Fields) apply(fields map[string]bool) {
	for _, path := range f {
		fields[path] = true
	}
}

// FieldSet maps dotted paths to whether they are included. It can also
// switch off the default result and _id fields.
type FieldSet map[string]bool

func (f FieldSet) apply(fields map[string]bool) {
	for path, include := range f {
		fields[path] = include
	}
}

// CustomColumn computes a column value from a raw run document.
type CustomColumn func(doc store.Document) any

// Query describes which runs to fetch and how to shape them.
type Query struct {
	Filter store.Filter
	// Project nil includes the whole config subtree.
	Project      Projection
	CustomCols   map[string]CustomColumn
	Sort         store.Sort
	IncludeIndex bool
	Prune        bool
}

// DefaultQuery returns the query used when nothing is customised: best result
// first, constant columns pruned.
func DefaultQuery() Query {
	return Query{
		Sort:  store.Sort{Field: models.FieldResult, Direction: store.Descending},
		Prune: true,
	}
}

// Completed matches runs that finished successfully.
func Completed() store.Filter {
	return store.Filter{store.Eq(models.FieldStatus, string(models.StatusCompleted))}
}

// GetResults fetches the runs of coll matching q and converts them into a
// table. Dropped columns are reported to rep, which may be nil.
func GetResults(ctx context.Context, coll store.Collection, q Query, rep Reporter) (*table.Table, error) {
	docs, err := coll.Find(ctx, q.Filter, q.Sort)
	if err != nil {
		return nil, fmt.Errorf("find runs in %s: %w", coll.Name(), err)
	}

	fields := q.fields()
	summaries := make([]store.Document, len(docs))
	for i, doc := range docs {
		summaries[i] = Summarize(doc, fields, q.CustomCols)
	}

	return ConvertToTable(summaries, q.Prune, rep)
}

// fields returns the sorted list of dotted paths the query projects.
func (q Query) fields() []string {
	set := map[string]bool{
		models.FieldResult: true,
		models.FieldID:     q.IncludeIndex,
	}
	if q.Project == nil {
		set[models.FieldConfig] = true
	} else {
		q.Project.apply(set)
	}

	out := make([]string, 0, len(set))
	for path, include := range set {
		if include {
			out = append(out, path)
		}
	}
	sort.Strings(out)
	return out
}

// Summarize builds the flat summary of a single run: each field resolved by
// dotted path, then every custom column computed on the raw document.
// Custom columns override projected fields of the same name.
func Summarize(doc store.Document, fields []string, custom map[string]CustomColumn) store.Document {
	summary := make(store.Document, len(fields)+len(custom))
	for _, path := range fields {
		summary[path] = docpath.Get(doc, path)
	}
	for name, fn := range custom {
		summary[name] = fn(doc)
	}
	return summary
}
