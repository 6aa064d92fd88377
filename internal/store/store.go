// Package store defines the read-only contract the library needs from a
// document database holding experiment runs.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Document is a single decoded run document.
type Document = map[string]any

// ErrUnknownDatabase is returned when a named database does not exist.
var ErrUnknownDatabase = errors.New("unknown database")

// reserved holds collection names used internally by the tracker or by the
// database (index catalogue, metadata, file storage).
var reserved = map[string]struct{}{
	"system.indexes": {},
	"_properties":    {},
	"fs.files":       {},
	"fs.chunks":      {},
}

// IsReserved reports whether a collection name is internal and never holds runs.
func IsReserved(name string) bool {
	_, ok := reserved[name]
	return ok
}

// Collection is a queryable set of run documents.
type Collection interface {
	Name() string
	// Count returns the number of documents matching filter.
	Count(ctx context.Context, filter Filter) (int, error)
	// Find returns every document matching filter ordered by sort.
	Find(ctx context.Context, filter Filter, sort Sort) ([]Document, error)
}

// Database is a named group of collections.
type Database interface {
	Name() string
	CollectionNames(ctx context.Context) ([]string, error)
	Collection(name string) Collection
}

// Server is a connection exposing several databases.
type Server interface {
	DatabaseNames(ctx context.Context) ([]string, error)
	Database(name string) Database
}

// LookupDatabase returns the named database of srv, or ErrUnknownDatabase
// when the server does not list it.
func LookupDatabase(ctx context.Context, srv Server, name string) (Database, error) {
	names, err := srv.DatabaseNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list databases: %w", err)
	}
	for _, n := range names {
		if n == name {
			return srv.Database(name), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownDatabase, name)
}

// Op is a comparison operator in a filter condition.
type Op string

// Supported comparison operators.
const (
	OpEq  Op = "="
	OpNe  Op = "!="
	OpGt  Op = ">"
	OpGte Op = ">="
	OpLt  Op = "<"
	OpLte Op = "<="
)

// Condition constrains the value at a dotted field path.
type Condition struct {
	Field string
	Op    Op
	Value any
}

func (c Condition) String() string {
	return fmt.Sprintf("%s %s %v", c.Field, c.Op, c.Value)
}

// Filter is a conjunction of conditions. The empty filter matches everything.
type Filter []Condition

// Eq builds an equality condition.
func Eq(field string, value any) Condition { return Condition{Field: field, Op: OpEq, Value: value} }

// Gt builds a greater-than condition.
func Gt(field string, value any) Condition { return Condition{Field: field, Op: OpGt, Value: value} }

// Lte builds a less-than-or-equal condition.
func Lte(field string, value any) Condition { return Condition{Field: field, Op: OpLte, Value: value} }

// And returns a new filter holding the conditions of f followed by other.
func (f Filter) And(other Filter) Filter {
	out := make(Filter, 0, len(f)+len(other))
	out = append(out, f...)
	return append(out, other...)
}

func (f Filter) String() string {
	if len(f) == 0 {
		return "{}"
	}
	parts := make([]string, len(f))
	for i, c := range f {
		parts[i] = c.String()
	}
	return strings.Join(parts, " AND ")
}

// ParseOp maps an operator token to an Op.
func ParseOp(s string) (Op, error) {
	switch Op(s) {
	case OpEq, OpNe, OpGt, OpGte, OpLt, OpLte:
		return Op(s), nil
	case "==":
		return OpEq, nil
	}
	return "", fmt.Errorf("unsupported operator %q", s)
}

// Direction orders query results.
type Direction int

// Sort directions.
const (
	Ascending  Direction = 1
	Descending Direction = -1
)

// Sort orders results by a dotted field path. An empty Field keeps the
// store's native order.
type Sort struct {
	Field     string
	Direction Direction
}
