package store

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsReserved(t *testing.T) {
	for _, name := range []string{"system.indexes", "_properties", "fs.files", "fs.chunks"} {
		assert.True(t, IsReserved(name), name)
	}
	for _, name := range []string{"runs", "fs", "system", "properties"} {
		assert.False(t, IsReserved(name), name)
	}
}

func TestMatches(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	doc := Document{
		"status":    "RUNNING",
		"heartbeat": now,
		"config":    map[string]any{"lr": 0.1, "layers": 3},
	}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty filter", nil, true},
		{"status equal", Filter{Eq("status", "RUNNING")}, true},
		{"status differs", Filter{Eq("status", "QUEUED")}, false},
		{"int equals float", Filter{Eq("config.layers", 3.0)}, true},
		{"nested gt", Filter{Gt("config.lr", 0.01)}, true},
		{"time gt", Filter{Gt("heartbeat", now.Add(-time.Minute))}, true},
		{"time lte", Filter{Lte("heartbeat", now.Add(-time.Minute))}, false},
		{"range on missing field", Filter{Gt("missing", 1)}, false},
		{"eq nil on missing field", Filter{Eq("missing", nil)}, true},
		{"ne on missing field", Filter{{Field: "missing", Op: OpNe, Value: 1}}, true},
		{"mismatched families", Filter{Gt("status", 1)}, false},
		{"conjunction", Filter{Eq("status", "RUNNING"), Lte("config.lr", 0.1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(doc, tt.filter))
		})
	}
}

func TestMemoryCollectionFind(t *testing.T) {
	ctx := context.Background()
	coll := NewMemoryDatabase("db").MemoryCollection("runs")
	coll.Insert(
		Document{"_id": 1, "result": 0.5},
		Document{"_id": 2, "result": 0.9},
		Document{"_id": 3},
		Document{"_id": 4, "result": 0.7},
	)

	ids := func(docs []Document) []any {
		out := make([]any, len(docs))
		for i, d := range docs {
			out[i] = d["_id"]
		}
		return out
	}

	desc, err := coll.Find(ctx, nil, Sort{Field: "result", Direction: Descending})
	require.NoError(t, err)
	assert.Equal(t, []any{2, 4, 1, 3}, ids(desc))

	asc, err := coll.Find(ctx, nil, Sort{Field: "result", Direction: Ascending})
	require.NoError(t, err)
	assert.Equal(t, []any{3, 1, 4, 2}, ids(asc))

	native, err := coll.Find(ctx, Filter{Gt("result", 0.6)}, Sort{})
	require.NoError(t, err)
	assert.Equal(t, []any{2, 4}, ids(native))

	n, err := coll.Count(ctx, Filter{Gt("result", 0.6)})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestMemoryCollectionInsertAssignsID(t *testing.T) {
	coll := NewMemoryDatabase("db").MemoryCollection("runs")
	doc := Document{"result": 1}
	coll.Insert(doc)
	assert.NotEmpty(t, doc["_id"])
}

func TestMemoryServerNames(t *testing.T) {
	ctx := context.Background()
	srv := NewMemoryServer()
	srv.MemoryDatabase("b").MemoryCollection("runs")
	srv.MemoryDatabase("a").MemoryCollection("z")
	srv.MemoryDatabase("a").MemoryCollection("y")

	dbs, err := srv.DatabaseNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, dbs)

	colls, err := srv.Database("a").CollectionNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"y", "z"}, colls)
}

func TestLookupDatabase(t *testing.T) {
	ctx := context.Background()
	srv := NewMemoryServer()
	srv.MemoryDatabase("sacred").MemoryCollection("runs")

	db, err := LookupDatabase(ctx, srv, "sacred")
	require.NoError(t, err)
	assert.Equal(t, "sacred", db.Name())

	_, err = LookupDatabase(ctx, srv, "missing")
	assert.ErrorIs(t, err, ErrUnknownDatabase)
}

func TestMemoryCollectionCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	coll := NewMemoryDatabase("db").MemoryCollection("runs")
	_, err := coll.Count(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEqual(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, Equal(1, 1.0))
	assert.True(t, Equal(int64(3), uint8(3)))
	assert.True(t, Equal("a", "a"))
	assert.True(t, Equal(ts, ts.In(time.FixedZone("x", 3600))))
	assert.True(t, Equal([]any{1, 2}, []any{1, 2}))
	assert.False(t, Equal(1, "1"))
	assert.False(t, Equal(0.1, 0.2))
	assert.False(t, Equal(math.NaN(), math.NaN()))
}

func TestCompareIntegers(t *testing.T) {
	big := int64(1 << 53)
	tests := []struct {
		name string
		a, b any
		want int
	}{
		{"signed above 2^53", big, big + 1, -1},
		{"unsigned above 2^53", uint64(big + 1), uint64(big), 1},
		{"signed vs unsigned equal", big, uint64(big), 0},
		{"negative vs unsigned", int64(-1), uint64(math.MaxUint64), -1},
		{"unsigned vs negative", uint8(0), int32(-5), 1},
		{"int vs float", 2, 1.5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Compare(tt.a, tt.b)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.False(t, Equal(big, big+1))
	assert.False(t, Matches(Document{"seed": big + 1}, Filter{Eq("seed", big)}))
}

func TestIsNull(t *testing.T) {
	assert.True(t, IsNull(nil))
	assert.True(t, IsNull(math.NaN()))
	assert.False(t, IsNull(0))
	assert.False(t, IsNull(""))
	assert.False(t, IsNull(0.0))
}

func TestParseOp(t *testing.T) {
	op, err := ParseOp("==")
	require.NoError(t, err)
	assert.Equal(t, OpEq, op)

	op, err = ParseOp(">=")
	require.NoError(t, err)
	assert.Equal(t, OpGte, op)

	_, err = ParseOp("~")
	assert.Error(t, err)
}

func TestFilterAnd(t *testing.T) {
	base := Filter{Eq("status", "RUNNING")}
	extra := Filter{Gt("result", 1)}

	merged := base.And(extra)
	assert.Len(t, merged, 2)
	assert.Len(t, base, 1, "receiver must not be modified")
	assert.Equal(t, "status = RUNNING AND result > 1", merged.String())
	assert.Equal(t, "{}", Filter(nil).String())
}
