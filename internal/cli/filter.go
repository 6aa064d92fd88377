package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/raphaelgruber/topsacred-go/internal/store"
	"gopkg.in/yaml.v3"
)

// parseFilter parses terms like "status=COMPLETED" or "config.lr>=0.01" into
// a filter. Values are YAML scalars, so numbers, booleans and null keep
// their type; an empty value means null.
func parseFilter(terms []string) (store.Filter, error) {
	filter := make(store.Filter, 0, len(terms))
	for _, term := range terms {
		c, err := parseCondition(term)
		if err != nil {
			return nil, err
		}
		filter = append(filter, c)
	}
	return filter, nil
}

func parseCondition(term string) (store.Condition, error) {
	at := strings.IndexAny(term, "=!<>")
	if at <= 0 {
		return store.Condition{}, fmt.Errorf("invalid filter %q: want <field><op><value>", term)
	}

	end := at + 1
	if end < len(term) && term[end] == '=' {
		end++
	}
	op, err := store.ParseOp(term[at:end])
	if err != nil {
		return store.Condition{}, fmt.Errorf("invalid filter %q: %w", term, err)
	}

	field := strings.TrimSpace(term[:at])
	value, err := parseValue(strings.TrimSpace(term[end:]))
	if err != nil {
		return store.Condition{}, fmt.Errorf("invalid filter %q: %w", term, err)
	}
	return store.Condition{Field: field, Op: op, Value: value}, nil
}

func parseValue(raw string) (any, error) {
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("parse value: %w", err)
	}
	switch x := v.(type) {
	case map[string]any, []any:
		return nil, fmt.Errorf("value %q is not a scalar", raw)
	case string:
		// yaml leaves timestamps as strings when decoding into any
		if t, err := time.Parse(time.RFC3339, x); err == nil {
			return t, nil
		}
	}
	return v, nil
}
