// Package mongostore reads experiment runs from MongoDB, the tracker's
// native store.
package mongostore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/raphaelgruber/topsacred-go/internal/metrics"
	"github.com/raphaelgruber/topsacred-go/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Config holds MongoDB connection configuration.
type Config struct {
	URI string
	// Timeout bounds server selection and connection setup.
	Timeout time.Duration
}

// Client is a read-only MongoDB connection implementing store.Server.
type Client struct {
	client  *mongo.Client
	logger  *slog.Logger
	metrics *metrics.Collector
}

// NewClient connects to MongoDB and verifies the connection with a ping.
// collector may be nil.
func NewClient(ctx context.Context, cfg Config, log *slog.Logger, collector *metrics.Collector) (*Client, error) {
	if log == nil {
		log = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(timeout).
		SetConnectTimeout(timeout)

	log.Info("connecting to MongoDB", "uri", cfg.URI)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping: %w", err)
	}

	log.Info("MongoDB connection established")
	return &Client{client: client, logger: log, metrics: collector}, nil
}

// Close disconnects from MongoDB.
func (c *Client) Close(ctx context.Context) error {
	c.logger.Info("closing MongoDB connection")
	return c.client.Disconnect(ctx)
}

// DatabaseNames lists every database on the server.
func (c *Client) DatabaseNames(ctx context.Context) (names []string, err error) {
	defer func(done func(error)) { done(err) }(c.metrics.Time(metrics.OpList))

	names, err = c.client.ListDatabaseNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list databases: %w", err)
	}
	return names, nil
}

// Database returns a handle to the named database.
func (c *Client) Database(name string) store.Database {
	return &Database{db: c.client.Database(name), client: c}
}

// Database is a MongoDB database implementing store.Database.
type Database struct {
	db     *mongo.Database
	client *Client
}

// Name returns the database name.
func (d *Database) Name() string { return d.db.Name() }

// CollectionNames lists the collections of the database.
func (d *Database) CollectionNames(ctx context.Context) (names []string, err error) {
	defer func(done func(error)) { done(err) }(d.client.metrics.Time(metrics.OpList))

	names, err = d.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list collections of %s: %w", d.db.Name(), err)
	}
	return names, nil
}

// Collection returns a handle to the named collection.
func (d *Database) Collection(name string) store.Collection {
	return &Collection{coll: d.db.Collection(name), client: d.client}
}

// Collection is a MongoDB collection implementing store.Collection.
type Collection struct {
	coll   *mongo.Collection
	client *Client
}

// Name returns the collection name.
func (c *Collection) Name() string { return c.coll.Name() }

// Count returns the number of documents matching filter.
func (c *Collection) Count(ctx context.Context, filter store.Filter) (n int, err error) {
	defer func(done func(error)) { done(err) }(c.client.metrics.Time(metrics.OpCount))

	q := compileFilter(filter)
	c.client.logger.Debug("count documents", "collection", c.coll.Name(), "filter", filter.String())

	count, err := c.coll.CountDocuments(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return int(count), nil
}

// Find returns the documents matching filter ordered by s, normalised to
// plain Go values.
func (c *Collection) Find(ctx context.Context, filter store.Filter, s store.Sort) (docs []store.Document, err error) {
	defer func(done func(error)) { done(err) }(c.client.metrics.Time(metrics.OpFind))

	opts := options.Find()
	if s.Field != "" {
		opts.SetSort(bson.D{{Key: s.Field, Value: int(s.Direction)}})
	}
	c.client.logger.Debug("find documents", "collection", c.coll.Name(), "filter", filter.String(), "sort", s.Field)

	cur, err := c.coll.Find(ctx, compileFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("find documents: %w", err)
	}

	var raw []bson.M
	if err := cur.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}

	docs = make([]store.Document, len(raw))
	for i, m := range raw {
		docs[i] = normalizeDocument(m)
	}
	return docs, nil
}
