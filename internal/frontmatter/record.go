package frontmatter

import (
	"strings"
)

// Kind reports how a header field was written.
type Kind int

const (
	// KindScalar is a single-line `key: value` field.
	KindScalar Kind = iota
	// KindList is a sequence, either `- item` lines or an inline `[a, b]` value.
	KindList
	// KindBlock is a `|` or `>` block scalar.
	KindBlock
)

func (k Kind) String() string {
	switch k {
	case KindList:
		return "list"
	case KindBlock:
		return "block"
	default:
		return "scalar"
	}
}

// Value is one parsed header field.
type Value struct {
	Kind  Kind
	Text  string
	Items []string
}

// Record maps header keys to their parsed values. Keys are unique; a later
// occurrence of the same key replaces the earlier one.
type Record map[string]Value

// Has reports whether the key was present in the header.
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// String returns the textual value for scalar and block fields. List fields
// are joined with ", " so callers that expect text still get something useful.
func (r Record) String(key string) string {
	value, ok := r[key]
	if !ok {
		return ""
	}
	if value.Kind == KindList {
		return strings.Join(value.Items, ", ")
	}
	return value.Text
}

// Strings returns list items for list fields and a single-element slice for
// non-empty scalars.
func (r Record) Strings(key string) []string {
	value, ok := r[key]
	if !ok {
		return nil
	}
	if value.Kind == KindList {
		return append([]string(nil), value.Items...)
	}
	if strings.TrimSpace(value.Text) == "" {
		return nil
	}
	return []string{value.Text}
}

// Bool reports whether the field holds the literal true (any case).
func (r Record) Bool(key string) bool {
	value, ok := r[key]
	if !ok || value.Kind == KindList {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(value.Text), "true")
}

// Raw converts the record into plain values suitable for JSON encoding.
func (r Record) Raw() map[string]any {
	out := make(map[string]any, len(r))
	for key, value := range r {
		if value.Kind == KindList {
			items := make([]string, len(value.Items))
			copy(items, value.Items)
			out[key] = items
			continue
		}
		out[key] = value.Text
	}
	return out
}
