package catalog

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// UnknownIngredientName is shown for a line item whose ingredient was deleted.
const UnknownIngredientName = "unknown"

// NormalizeName is the comparison key for name uniqueness. Display values
// keep their original casing.
func NormalizeName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// ContainsFold reports whether query occurs in name ignoring case. The query
// is not trimmed, so surrounding spaces must match too. A blank query matches
// everything.
func ContainsFold(name, query string) bool {
	if strings.TrimSpace(query) == "" {
		return true
	}
	return strings.Contains(cases.Fold().String(name), cases.Fold().String(query))
}

// Named is implemented by every record type that carries a unique name.
type Named interface {
	GetID() uuid.UUID
	GetName() string
}

// FindDuplicate scans existing once and returns the first record whose
// normalized name equals candidate, skipping the record identified by exclude.
func FindDuplicate[T Named](existing []T, candidate string, exclude uuid.UUID) (T, bool) {
	var zero T
	key := NormalizeName(candidate)
	for _, rec := range existing {
		if exclude != uuid.Nil && rec.GetID() == exclude {
			continue
		}
		if NormalizeName(rec.GetName()) == key {
			return rec, true
		}
	}
	return zero, false
}

// Find is a linear-scan filter preserving input order.
func Find[T any](items []T, pred func(T) bool) []T {
	out := make([]T, 0)
	for _, it := range items {
		if pred == nil || pred(it) {
			out = append(out, it)
		}
	}
	return out
}
