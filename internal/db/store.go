package db

import (
	"context"
	"fmt"
	"sort"

	"github.com/raphaelgruber/topsacred-go/internal/metrics"
	"github.com/raphaelgruber/topsacred-go/internal/store"
	"github.com/surrealdb/surrealdb.go"
)

type surrealResult = surrealdb.QueryResult[map[string]any]

// DatabaseNames lists the databases of the configured namespace.
func (c *Client) DatabaseNames(ctx context.Context) (names []string, err error) {
	defer func(done func(error)) { done(err) }(c.metrics.Time(metrics.OpList))

	res, err := Query[map[string]any](ctx, c, c.cfg.Database, "INFO FOR NS", nil)
	if err != nil {
		return nil, fmt.Errorf("info for ns: %w", err)
	}
	return infoKeys(res, "databases"), nil
}

// Database returns a handle to the named database of the namespace.
func (c *Client) Database(name string) store.Database {
	return &Database{name: name, client: c}
}

// Database is a SurrealDB database implementing store.Database.
type Database struct {
	name   string
	client *Client
}

// Name returns the database name.
func (d *Database) Name() string { return d.name }

// CollectionNames lists the tables of the database.
func (d *Database) CollectionNames(ctx context.Context) (names []string, err error) {
	defer func(done func(error)) { done(err) }(d.client.metrics.Time(metrics.OpList))

	res, err := Query[map[string]any](ctx, d.client, d.name, "INFO FOR DB", nil)
	if err != nil {
		return nil, fmt.Errorf("info for db %s: %w", d.name, err)
	}
	return infoKeys(res, "tables"), nil
}

// Collection returns a handle to the named table.
func (d *Database) Collection(name string) store.Collection {
	return &Table{name: name, db: d}
}

// Table is a SurrealDB table implementing store.Collection.
type Table struct {
	name string
	db   *Database
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Count returns the number of records matching filter.
func (t *Table) Count(ctx context.Context, filter store.Filter) (n int, err error) {
	c := t.db.client
	defer func(done func(error)) { done(err) }(c.metrics.Time(metrics.OpCount))

	sql, vars := t.selectSQL("count() AS count", filter)
	sql += " GROUP ALL"
	c.logger.Debug("count records", "table", t.name, "filter", filter.String())

	res, err := Query[[]struct {
		Count int `json:"count"`
	}](ctx, c, t.db.name, sql, vars)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	if res != nil && len(*res) > 0 && len((*res)[0].Result) > 0 {
		return (*res)[0].Result[0].Count, nil
	}
	return 0, nil
}

// Find returns the records matching filter ordered by s.
func (t *Table) Find(ctx context.Context, filter store.Filter, s store.Sort) (docs []store.Document, err error) {
	c := t.db.client
	defer func(done func(error)) { done(err) }(c.metrics.Time(metrics.OpFind))

	sql, vars := t.selectSQL("*", filter)
	sql += orderBy(s)
	c.logger.Debug("find records", "table", t.name, "filter", filter.String(), "sort", s.Field)

	res, err := Query[[]map[string]any](ctx, c, t.db.name, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("find records: %w", err)
	}

	docs = []store.Document{}
	if res != nil && len(*res) > 0 {
		for _, row := range (*res)[0].Result {
			docs = append(docs, normalizeRecord(row))
		}
	}
	return docs, nil
}

func (t *Table) selectSQL(projection string, filter store.Filter) (string, map[string]any) {
	where, vars := compileWhere(filter)
	vars["tb"] = t.name
	sql := fmt.Sprintf("SELECT %s FROM type::table($tb)", projection)
	if where != "" {
		sql += " WHERE " + where
	}
	return sql, vars
}

// infoKeys returns the sorted keys of the named section of an INFO result.
func infoKeys(res *[]surrealResult, section string) []string {
	names := []string{}
	if res == nil || len(*res) == 0 {
		return names
	}
	entries, _ := (*res)[0].Result[section].(map[string]any)
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
