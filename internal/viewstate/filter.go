package viewstate

import "strings"

// Searchable exposes the fields a free-text query is matched against.
type Searchable interface {
	SearchFields() []string
}

// Filter keeps the items with at least one field containing query,
// case-insensitively, in their original order. A blank query keeps all.
func Filter[T Searchable](items []T, query string) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]T, 0, len(items))
	if q == "" {
		return append(out, items...)
	}
	for _, it := range items {
		for _, f := range it.SearchFields() {
			if strings.Contains(strings.ToLower(f), q) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}
