package mongostore

import (
	"github.com/raphaelgruber/topsacred-go/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var operators = map[store.Op]string{
	store.OpEq:  "$eq",
	store.OpNe:  "$ne",
	store.OpGt:  "$gt",
	store.OpGte: "$gte",
	store.OpLt:  "$lt",
	store.OpLte: "$lte",
}

// compileFilter translates a filter into a MongoDB query document. Each
// condition becomes one clause of an $and so repeated fields don't collide.
func compileFilter(filter store.Filter) bson.D {
	if len(filter) == 0 {
		return bson.D{}
	}

	clauses := make(bson.A, len(filter))
	for i, c := range filter {
		clauses[i] = bson.D{{Key: c.Field, Value: bson.D{{Key: operators[c.Op], Value: c.Value}}}}
	}
	return bson.D{{Key: "$and", Value: clauses}}
}

// normalizeDocument converts decoded BSON into the plain Go shapes the rest of
// the library works with: map[string]any, []any, time.Time and strings for
// object ids.
func normalizeDocument(m bson.M) store.Document {
	out := make(store.Document, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch x := v.(type) {
	case primitive.M:
		return normalizeDocument(bson.M(x))
	case map[string]any:
		return normalizeDocument(bson.M(x))
	case primitive.D:
		out := make(map[string]any, len(x))
		for _, e := range x {
			out[e.Key] = normalizeValue(e.Value)
		}
		return out
	case primitive.A:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalizeValue(e)
		}
		return out
	case primitive.DateTime:
		return x.Time().UTC()
	case primitive.ObjectID:
		return x.Hex()
	case primitive.Decimal128:
		return x.String()
	case primitive.Null, primitive.Undefined:
		return nil
	}
	return v
}
