package stats

import (
	"context"
	"fmt"

	"github.com/raphaelgruber/topsacred-go/internal/store"
)

// NamedCollection is a collection together with the row label it gets in a
// status table.
type NamedCollection struct {
	Name       string
	Collection store.Collection
}

// Source enumerates the collections to aggregate over.
type Source interface {
	Collections(ctx context.Context) ([]NamedCollection, error)
}

// FromDatabase aggregates over the collections of a single database.
// Rows are labelled with the bare collection name.
func FromDatabase(db store.Database) Source {
	return databaseSource{db: db}
}

// FromServer aggregates over every database of a server.
// Rows are labelled "<database>.<collection>".
func FromServer(srv store.Server) Source {
	return serverSource{srv: srv}
}

type databaseSource struct {
	db store.Database
}

func (s databaseSource) Collections(ctx context.Context) ([]NamedCollection, error) {
	return collectionsOf(ctx, s.db, "")
}

type serverSource struct {
	srv store.Server
}

func (s serverSource) Collections(ctx context.Context) ([]NamedCollection, error) {
	names, err := s.srv.DatabaseNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list databases: %w", err)
	}

	var out []NamedCollection
	for _, name := range names {
		colls, err := collectionsOf(ctx, s.srv.Database(name), name+".")
		if err != nil {
			return nil, err
		}
		out = append(out, colls...)
	}
	return out, nil
}

func collectionsOf(ctx context.Context, db store.Database, prefix string) ([]NamedCollection, error) {
	names, err := db.CollectionNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections of %s: %w", db.Name(), err)
	}

	out := make([]NamedCollection, 0, len(names))
	for _, name := range names {
		if store.IsReserved(name) {
			continue
		}
		out = append(out, NamedCollection{
			Name:       prefix + name,
			Collection: db.Collection(name),
		})
	}
	return out, nil
}
