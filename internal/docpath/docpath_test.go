package docpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	doc := map[string]any{
		"foo": map[string]any{"a": 12, "b": map[string]any{"c": "deep"}},
		"list": []any{1, 2},
		"nil":  nil,
	}

	tests := []struct {
		name string
		path string
		want any
	}{
		{"top level", "list", []any{1, 2}},
		{"nested", "foo.a", 12},
		{"deeply nested", "foo.b.c", "deep"},
		{"subtree", "foo.b", map[string]any{"c": "deep"}},
		{"missing top", "bar", nil},
		{"missing nested", "foo.z", nil},
		{"missing below missing", "bar.baz.qux", nil},
		{"through scalar", "foo.a.b", nil},
		{"through list", "list.0", nil},
		{"explicit nil", "nil", nil},
		{"consecutive dots", "foo..a", nil},
		{"trailing dot", "foo.", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Get(doc, tt.path))
		})
	}

	t.Run("empty path returns document", func(t *testing.T) {
		assert.Equal(t, doc, Get(doc, ""))
	})

	t.Run("nil document", func(t *testing.T) {
		assert.Nil(t, Get(nil, "foo"))
	})
}

func TestFlatten(t *testing.T) {
	doc := map[string]any{
		"result": 0.5,
		"config": map[string]any{
			"lr":    0.1,
			"model": map[string]any{"depth": 3, "act": "relu"},
			"empty": map[string]any{},
			"sizes": []any{1, 2},
		},
		"config.seed": 7,
	}

	flat := Flatten(doc)
	assert.Equal(t, map[string]any{
		"result":             0.5,
		"config.lr":          0.1,
		"config.model.depth": 3,
		"config.model.act":   "relu",
		"config.sizes":       []any{1, 2},
		"config.seed":        7,
	}, flat)
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "model.depth", Join([]string{"model", "depth", ""}))
	assert.Equal(t, "result", Join([]string{"result", "", ""}))
	assert.Equal(t, "", Join(nil))
	assert.Equal(t, []string{"a", "b"}, Split("a.b"))
}
