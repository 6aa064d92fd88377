package mongostore

import (
	"testing"
	"time"

	"github.com/raphaelgruber/topsacred-go/internal/store"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCompileFilter(t *testing.T) {
	assert.Equal(t, bson.D{}, compileFilter(nil))

	cutoff := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	got := compileFilter(store.Filter{
		store.Eq("status", "RUNNING"),
		store.Gt("heartbeat", cutoff),
		store.Lte("heartbeat", cutoff.Add(time.Hour)),
	})

	assert.Equal(t, bson.D{{Key: "$and", Value: bson.A{
		bson.D{{Key: "status", Value: bson.D{{Key: "$eq", Value: "RUNNING"}}}},
		bson.D{{Key: "heartbeat", Value: bson.D{{Key: "$gt", Value: cutoff}}}},
		bson.D{{Key: "heartbeat", Value: bson.D{{Key: "$lte", Value: cutoff.Add(time.Hour)}}}},
	}}}, got)
}

func TestNormalizeDocument(t *testing.T) {
	oid := primitive.NewObjectID()
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	doc := normalizeDocument(bson.M{
		"_id":       oid,
		"heartbeat": primitive.NewDateTimeFromTime(ts),
		"config": primitive.M{
			"lr":     0.1,
			"layers": primitive.A{int32(8), int32(16)},
			"model":  primitive.D{{Key: "depth", Value: int32(3)}},
		},
		"result": primitive.Null{},
	})

	assert.Equal(t, store.Document{
		"_id":       oid.Hex(),
		"heartbeat": ts,
		"config": map[string]any{
			"lr":     0.1,
			"layers": []any{int32(8), int32(16)},
			"model":  map[string]any{"depth": int32(3)},
		},
		"result": nil,
	}, doc)
}
