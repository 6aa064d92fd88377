// Package docpath addresses values inside nested documents by dotted paths.
package docpath

import (
	"strings"
)

// Separator joins path segments.
const Separator = "."

// Get returns the value at the dotted path inside doc.
// An empty path returns doc itself. A segment that is absent, or a parent
// that is not a document, yields nil: lookups never fail.
//
//	Get(map[string]any{"foo": map[string]any{"a": 12}}, "foo.a") // 12
func Get(doc map[string]any, path string) any {
	if path == "" {
		return doc
	}

	var current any = doc
	for _, segment := range strings.Split(path, Separator) {
		m, ok := asMap(current)
		if !ok {
			return nil
		}
		v, ok := m[segment]
		if !ok {
			return nil
		}
		current = v
	}
	return current
}

// Flatten converts a nested document into a flat map keyed by dot-joined paths.
// Nested documents are expanded; lists and scalars are leaves. An empty nested
// document contributes no key.
func Flatten(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	flattenInto(out, "", doc)
	return out
}

func flattenInto(out map[string]any, prefix string, doc map[string]any) {
	for k, v := range doc {
		key := k
		if prefix != "" {
			key = prefix + Separator + k
		}
		if m, ok := asMap(v); ok {
			flattenInto(out, key, m)
			continue
		}
		out[key] = v
	}
}

// Split breaks a dotted path into its segments.
func Split(path string) []string {
	return strings.Split(path, Separator)
}

// Join concatenates segments into a dotted path, skipping empty ones.
func Join(segments []string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, Separator)
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}
