package domain

import "strings"

// Ordering is one "ordering" query term, e.g. "-name".
type Ordering struct {
	Field string
	Desc  bool
}

// ParseOrdering parses a comma separated ordering value, accepting only allowed fields.
func ParseOrdering(raw string, allowed ...string) ([]Ordering, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, true
	}

	var out []Ordering
	for _, term := range strings.Split(raw, ",") {
		term = strings.TrimSpace(term)
		o := Ordering{Field: strings.TrimPrefix(term, "-"), Desc: strings.HasPrefix(term, "-")}
		if !contains(allowed, o.Field) {
			return nil, false
		}
		out = append(out, o)
	}
	return out, true
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func sameOwner(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
