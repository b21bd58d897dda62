package listctl

import (
	"context"
	"slices"
	"strings"
)

// Entity is a record the controller can keep in its collection. GetID
// returns 0 for records that have not been persisted yet.
type Entity interface {
	GetID() int64
	DisplayName() string
}

// FieldSetter is implemented by pointer entities whose fields can be edited
// by name from text input.
type FieldSetter interface {
	SetField(name, value string) error
}

// Remote is the resource API the controller mirrors. Every error's message
// is shown to the user verbatim.
type Remote[T Entity] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, record T) (T, error)
	Update(ctx context.Context, record T) (T, error)
	Delete(ctx context.Context, id int64) error
}

// SortByName returns a copy of items ordered by display name, ascending and
// case-sensitive.
func SortByName[T Entity](items []T) []T {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b T) int {
		return strings.Compare(a.DisplayName(), b.DisplayName())
	})
	return sorted
}

// upsert removes every record sharing rec's id and appends rec.
func upsert[T Entity](items []T, rec T) []T {
	items = removeID(items, rec.GetID())
	return append(items, rec)
}

// removeID drops every record with the given id.
func removeID[T Entity](items []T, id int64) []T {
	return slices.DeleteFunc(items, func(r T) bool { return r.GetID() == id })
}

// dedupe keeps the last occurrence of each persisted id, preserving order.
func dedupe[T Entity](records []T) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if r.GetID() != 0 {
			out = removeID(out, r.GetID())
		}
		out = append(out, r)
	}
	return out
}
