// Package siblings edits ordered sibling lists whose items carry their own order.
//
// Every function returns a new slice and leaves its input untouched. Results are always
// dense: item i has order i.
package siblings

import (
	"fmt"

	"syllabus-cli/internal/errs"
)

// Item is anything that can live in an ordered sibling list.
type Item[T any] interface {
	SiblingID() string
	SiblingOrder() int
	WithOrder(order int) T
}

// Renumber returns a copy of list with each item's order set to its index.
// It is idempotent.
func Renumber[T Item[T]](list []T) []T {
	if list == nil {
		return nil
	}
	out := make([]T, len(list))
	for i, it := range list {
		out[i] = it.WithOrder(i)
	}
	return out
}

// IsDense reports whether orders form exactly 0..n-1 in list position.
func IsDense[T Item[T]](list []T) bool {
	for i, it := range list {
		if it.SiblingOrder() != i {
			return false
		}
	}
	return true
}

func IndexOf[T Item[T]](list []T, id string) int {
	for i, it := range list {
		if it.SiblingID() == id {
			return i
		}
	}
	return -1
}

// Insert places item at index (0..len(list)).
func Insert[T Item[T]](list []T, index int, item T) ([]T, error) {
	if index < 0 || index > len(list) {
		return nil, errs.InvalidOperation("siblings.insert", fmt.Sprintf("index %d out of range 0..%d", index, len(list)))
	}
	if IndexOf(list, item.SiblingID()) >= 0 {
		return nil, errs.InvalidOperation("siblings.insert", "duplicate id: "+item.SiblingID())
	}
	out := make([]T, 0, len(list)+1)
	out = append(out, list[:index]...)
	out = append(out, item)
	out = append(out, list[index:]...)
	return Renumber(out), nil
}

// Append is Insert at the end.
func Append[T Item[T]](list []T, item T) ([]T, error) {
	return Insert(list, len(list), item)
}

// RemoveByID drops the item with id and returns the remaining list and the removed item.
func RemoveByID[T Item[T]](list []T, id string) ([]T, T, error) {
	var zero T
	idx := IndexOf(list, id)
	if idx < 0 {
		return nil, zero, errs.NotFound("siblings.remove", "item", id)
	}
	removed := list[idx]
	out := make([]T, 0, len(list)-1)
	out = append(out, list[:idx]...)
	out = append(out, list[idx+1:]...)
	if len(out) == 0 {
		return nil, removed, nil
	}
	return Renumber(out), removed, nil
}

// Move relocates one item: it is removed at from, then inserted at to (both indexes refer
// to the list as the caller sees it, so to == len(list)-1 moves to the end).
func Move[T Item[T]](list []T, from, to int) ([]T, error) {
	if from < 0 || from >= len(list) {
		return nil, errs.InvalidOperation("siblings.move", fmt.Sprintf("from index %d out of range 0..%d", from, len(list)-1))
	}
	if to < 0 || to >= len(list) {
		return nil, errs.InvalidOperation("siblings.move", fmt.Sprintf("to index %d out of range 0..%d", to, len(list)-1))
	}
	moved := list[from]
	rest := make([]T, 0, len(list))
	rest = append(rest, list[:from]...)
	rest = append(rest, list[from+1:]...)

	out := make([]T, 0, len(list))
	out = append(out, rest[:to]...)
	out = append(out, moved)
	out = append(out, rest[to:]...)
	return Renumber(out), nil
}

// Reorder arranges list to follow ids, which must be an exact permutation of the list's ids.
func Reorder[T Item[T]](list []T, ids []string) ([]T, error) {
	if len(ids) != len(list) {
		return nil, errs.InvalidOperation("siblings.reorder", fmt.Sprintf("expected %d ids, got %d", len(list), len(ids)))
	}
	byID := make(map[string]T, len(list))
	for _, it := range list {
		byID[it.SiblingID()] = it
	}
	out := make([]T, 0, len(list))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		it, ok := byID[id]
		if !ok {
			return nil, errs.InvalidOperation("siblings.reorder", "unknown id: "+id)
		}
		if seen[id] {
			return nil, errs.InvalidOperation("siblings.reorder", "duplicate id: "+id)
		}
		seen[id] = true
		out = append(out, it)
	}
	return Renumber(out), nil
}
