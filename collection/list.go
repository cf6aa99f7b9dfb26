// Package collection holds the ordered backing data of a reorderable list.
//
// Every item carries a stable id which survives reordering and view
// recycling. Index based mutations are bounds checked and report whether they
// were applied; an out-of-range index is a no-op, never a panic.
package collection

import (
	"fmt"

	"github.com/google/uuid"
)

type entry[T any] struct {
	id    uuid.UUID
	value T
}

// List is an ordered sequence of values, each tagged with a stable id.
type List[T any] struct {
	entries []entry[T]
	format  func(T) string
}

// New returns a list holding the given values in order. Each value receives a
// fresh random id.
func New[T any](values ...T) *List[T] {
	l := &List[T]{
		entries: make([]entry[T], 0, len(values)),
	}
	for _, v := range values {
		l.Append(v)
	}
	return l
}

// SetFormatter sets the function used by Text. The default uses fmt.Sprint.
func (l *List[T]) SetFormatter(format func(T) string) *List[T] {
	l.format = format
	return l
}

// Append adds a value to the end of the list and returns its id.
func (l *List[T]) Append(value T) uuid.UUID {
	id := uuid.New()
	l.entries = append(l.entries, entry[T]{id: id, value: value})
	return id
}

// Len returns the number of items.
func (l *List[T]) Len() int {
	return len(l.entries)
}

// At returns the value at index. ok is false when the index is out of range.
func (l *List[T]) At(index int) (value T, ok bool) {
	if !l.inRange(index) {
		return value, false
	}
	return l.entries[index].value, true
}

// ID returns the stable id of the item at index, or uuid.Nil when the index
// is out of range.
func (l *List[T]) ID(index int) uuid.UUID {
	if !l.inRange(index) {
		return uuid.Nil
	}
	return l.entries[index].id
}

// Text returns the display text of the item at index.
func (l *List[T]) Text(index int) string {
	if !l.inRange(index) {
		return ""
	}
	v := l.entries[index].value
	if l.format != nil {
		return l.format(v)
	}
	return fmt.Sprint(v)
}

// IndexOf returns the current index of the item with the given id, or -1.
func (l *List[T]) IndexOf(id uuid.UUID) int {
	for i := range l.entries {
		if l.entries[i].id == id {
			return i
		}
	}
	return -1
}

// Swap exchanges the items at i and j.
func (l *List[T]) Swap(i, j int) bool {
	if !l.inRange(i) || !l.inRange(j) {
		return false
	}
	l.entries[i], l.entries[j] = l.entries[j], l.entries[i]
	return true
}

// Remove deletes the item at index.
func (l *List[T]) Remove(index int) bool {
	if !l.inRange(index) {
		return false
	}
	l.entries = append(l.entries[:index], l.entries[index+1:]...)
	return true
}

// Move removes the item at from and reinserts it at to, shifting the items in
// between by one. Moving an item onto itself reports false.
func (l *List[T]) Move(from, to int) bool {
	if !l.inRange(from) || !l.inRange(to) || from == to {
		return false
	}
	moved := l.entries[from]
	if from < to {
		copy(l.entries[from:to], l.entries[from+1:to+1])
	} else {
		copy(l.entries[to+1:from+1], l.entries[to:from])
	}
	l.entries[to] = moved
	return true
}

// Values returns a copy of the values in order.
func (l *List[T]) Values() []T {
	values := make([]T, len(l.entries))
	for i, e := range l.entries {
		values[i] = e.value
	}
	return values
}

func (l *List[T]) inRange(index int) bool {
	return index >= 0 && index < len(l.entries)
}
