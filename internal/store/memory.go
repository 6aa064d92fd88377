package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/raphaelgruber/topsacred-go/internal/docpath"
)

// MemoryServer is an in-process Server. It backs tests and callers that
// already hold run documents in memory.
type MemoryServer struct {
	mu        sync.RWMutex
	databases map[string]*MemoryDatabase
}

// NewMemoryServer creates an empty in-memory server.
func NewMemoryServer() *MemoryServer {
	return &MemoryServer{databases: make(map[string]*MemoryDatabase)}
}

// DatabaseNames returns the database names in sorted order.
func (s *MemoryServer) DatabaseNames(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.databases))
	for name := range s.databases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Database returns the named database, creating it on first use.
func (s *MemoryServer) Database(name string) Database {
	return s.MemoryDatabase(name)
}

// MemoryDatabase is Database with the concrete type, for seeding.
func (s *MemoryServer) MemoryDatabase(name string) *MemoryDatabase {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, ok := s.databases[name]
	if !ok {
		db = NewMemoryDatabase(name)
		s.databases[name] = db
	}
	return db
}

// MemoryDatabase is an in-process Database.
type MemoryDatabase struct {
	name        string
	mu          sync.RWMutex
	collections map[string]*MemoryCollection
}

// NewMemoryDatabase creates an empty in-memory database.
func NewMemoryDatabase(name string) *MemoryDatabase {
	return &MemoryDatabase{name: name, collections: make(map[string]*MemoryCollection)}
}

// Name returns the database name.
func (d *MemoryDatabase) Name() string { return d.name }

// CollectionNames returns the collection names in sorted order.
func (d *MemoryDatabase) CollectionNames(ctx context.Context) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.collections))
	for name := range d.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Collection returns the named collection, creating it on first use.
func (d *MemoryDatabase) Collection(name string) Collection {
	return d.MemoryCollection(name)
}

// MemoryCollection is Collection with the concrete type, for seeding.
func (d *MemoryDatabase) MemoryCollection(name string) *MemoryCollection {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, ok := d.collections[name]
	if !ok {
		c = &MemoryCollection{name: name}
		d.collections[name] = c
	}
	return c
}

// MemoryCollection is an in-process Collection. Filters follow document
// database semantics: a range condition never matches a missing field.
type MemoryCollection struct {
	name string
	mu   sync.RWMutex
	docs []Document
}

// Name returns the collection name.
func (c *MemoryCollection) Name() string { return c.name }

// Insert appends documents, assigning an _id to those without one.
func (c *MemoryCollection) Insert(docs ...Document) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, doc := range docs {
		if _, ok := doc["_id"]; !ok {
			doc["_id"] = uuid.New().String()
		}
		c.docs = append(c.docs, doc)
	}
}

// Count returns the number of documents matching filter.
func (c *MemoryCollection) Count(ctx context.Context, filter Filter) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, doc := range c.docs {
		if Matches(doc, filter) {
			n++
		}
	}
	return n, nil
}

// Find returns matching documents ordered by sort. Documents lacking the sort
// field order before every other document, as null sorts lowest.
func (c *MemoryCollection) Find(ctx context.Context, filter Filter, s Sort) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	out := make([]Document, 0, len(c.docs))
	for _, doc := range c.docs {
		if Matches(doc, filter) {
			out = append(out, doc)
		}
	}
	c.mu.RUnlock()

	if s.Field == "" {
		return out, nil
	}

	sort.SliceStable(out, func(i, j int) bool {
		cmp := compareForSort(docpath.Get(out[i], s.Field), docpath.Get(out[j], s.Field))
		if s.Direction == Descending {
			return cmp > 0
		}
		return cmp < 0
	})
	return out, nil
}

// Matches reports whether doc satisfies every condition in filter.
func Matches(doc Document, filter Filter) bool {
	for _, cond := range filter {
		if !matchCondition(docpath.Get(doc, cond.Field), cond) {
			return false
		}
	}
	return true
}

func matchCondition(v any, cond Condition) bool {
	switch cond.Op {
	case OpEq:
		if v == nil || cond.Value == nil {
			return v == nil && cond.Value == nil
		}
		return Equal(v, cond.Value)
	case OpNe:
		if v == nil || cond.Value == nil {
			return (v == nil) != (cond.Value == nil)
		}
		return !Equal(v, cond.Value)
	}

	c, ok := Compare(v, cond.Value)
	if !ok {
		return false
	}
	switch cond.Op {
	case OpGt:
		return c > 0
	case OpGte:
		return c >= 0
	case OpLt:
		return c < 0
	case OpLte:
		return c <= 0
	}
	return false
}

// compareForSort orders nulls first and falls back to equality for values
// of different families.
func compareForSort(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	c, _ := Compare(a, b)
	return c
}
