package db

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/raphaelgruber/topsacred-go/internal/docpath"
	"github.com/raphaelgruber/topsacred-go/internal/models"
	"github.com/raphaelgruber/topsacred-go/internal/store"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// recordIDField is SurrealDB's record id, exposed to callers as models.FieldID.
const recordIDField = "id"

var simpleIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// idiom renders a dotted document path as a SurrealQL field idiom.
func idiom(path string) string {
	if path == models.FieldID {
		return recordIDField
	}
	segs := docpath.Split(path)
	for i, s := range segs {
		if !simpleIdent.MatchString(s) {
			segs[i] = "`" + strings.ReplaceAll(s, "`", "\\`") + "`"
		}
	}
	return strings.Join(segs, ".")
}

// compileWhere renders filter as a WHERE clause (without the keyword) and the
// parameters it references. An empty filter yields an empty clause.
//
// SurrealDB orders NONE and NULL below every other value, so range conditions
// carry an explicit guard to keep missing fields from matching.
func compileWhere(filter store.Filter) (string, map[string]any) {
	vars := map[string]any{}
	if len(filter) == 0 {
		return "", vars
	}

	clauses := make([]string, len(filter))
	for i, c := range filter {
		field := idiom(c.Field)

		if c.Value == nil {
			switch c.Op {
			case store.OpEq:
				clauses[i] = fmt.Sprintf("(%s = NONE OR %s = NULL)", field, field)
				continue
			case store.OpNe:
				clauses[i] = fmt.Sprintf("(%s != NONE AND %s != NULL)", field, field)
				continue
			}
		}

		name := fmt.Sprintf("f%d", i)
		param := "$" + name
		if t, ok := c.Value.(time.Time); ok {
			vars[name] = t.UTC().Format(time.RFC3339Nano)
			param = "<datetime>" + param
		} else {
			vars[name] = c.Value
		}

		switch c.Op {
		case store.OpEq, store.OpNe:
			clauses[i] = fmt.Sprintf("%s %s %s", field, c.Op, param)
		default:
			clauses[i] = fmt.Sprintf("(%s != NONE AND %s != NULL AND %s %s %s)", field, field, field, c.Op, param)
		}
	}
	return strings.Join(clauses, " AND "), vars
}

// orderBy renders s as an ORDER BY clause, or "" when s has no field.
func orderBy(s store.Sort) string {
	if s.Field == "" {
		return ""
	}
	dir := "ASC"
	if s.Direction == store.Descending {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", idiom(s.Field), dir)
}

// normalizeRecord converts a decoded row into a store.Document. The record
// id moves to models.FieldID and SurrealDB value types become plain Go ones.
func normalizeRecord(row map[string]any) store.Document {
	doc := make(store.Document, len(row))
	for k, v := range row {
		if k == recordIDField {
			doc[models.FieldID] = recordKey(v)
			continue
		}
		doc[k] = normalizeValue(v)
	}
	return doc
}

// recordKey returns the key part of a record id.
func recordKey(v any) any {
	var rid surrealmodels.RecordID
	switch x := v.(type) {
	case surrealmodels.RecordID:
		rid = x
	case *surrealmodels.RecordID:
		if x == nil {
			return nil
		}
		rid = *x
	default:
		return normalizeValue(v)
	}
	switch id := rid.ID.(type) {
	case string, int, int64, uint64:
		return normalizeValue(id)
	default:
		return fmt.Sprint(id)
	}
}

func normalizeValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = normalizeValue(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalizeValue(e)
		}
		return out
	case surrealmodels.CustomDateTime:
		return x.Time.UTC()
	case *surrealmodels.CustomDateTime:
		if x == nil {
			return nil
		}
		return x.Time.UTC()
	case time.Time:
		return x.UTC()
	case surrealmodels.RecordID:
		return fmt.Sprintf("%s:%v", x.Table, x.ID)
	case uint64:
		if x <= 1<<63-1 {
			return int64(x)
		}
	}
	return v
}
