// Package drag implements the drag-to-reorder interaction for a virtualized,
// recycling list.
//
// A Controller tracks one hover cell (the floating proxy of the dragged item)
// through pointer movement, resolves the list position under it against the
// current layout, and reports lifecycle events to the active Policy. Policies
// own every mutation of the backing collection and request the animations
// that make the rest of the list follow.
package drag

import (
	"time"

	"github.com/google/uuid"
)

// Position is a zero-based index into the backing collection. Its meaning
// changes whenever the collection is mutated.
type Position int

// InvalidPosition is returned when a point is not over any rendered row or an
// item has no row.
const InvalidPosition Position = -1

// Valid reports whether p refers to a list slot.
func (p Position) Valid() bool {
	return p >= 0
}

// PointerID identifies the input contact (mouse button) driving a drag.
type PointerID int

// NoPointer means no contact has been latched yet.
const NoPointer PointerID = -1

// Row is a rendered row handle. Handles are reused by the viewport for
// different items as the list scrolls, so a handle is only meaningful until
// the next layout pass.
type Row interface {
	// ID returns the stable id of the item currently bound to the row.
	ID() uuid.UUID
	// Position returns the list position currently bound to the row.
	Position() Position
	// Bounds returns the on-screen rectangle of the row, without any
	// animation offset applied.
	Bounds() Rect
	// SetHidden hides or shows the row's content.
	SetHidden(hidden bool)
	// Snapshot captures the row's current rendering for use as the hover
	// cell.
	Snapshot() any
}

// Viewport is the rendering engine that hosts the list.
type Viewport interface {
	// RowForID returns the rendered row of an item, or nil.
	RowForID(id uuid.UUID) Row
	// PositionForID returns the position of a rendered item, or
	// InvalidPosition.
	PositionForID(id uuid.UUID) Position
	// PositionAtPoint hit-tests the rendered rows back to front.
	PositionAtPoint(x, y int) Position
	// VisibleRange returns the first rendered position and the row count.
	VisibleRange() (first, count int)
	// Bounds returns the rectangle rows are laid out in.
	Bounds() Rect
	// CanScroll reports whether there is content beyond the leading
	// (direction < 0) or trailing (direction > 0) edge.
	CanScroll(direction int) bool
	// ScrollBy scrolls the content by amount lines. Positive scrolls down.
	ScrollBy(amount int)
	// Refresh signals that the backing collection changed.
	Refresh()
	// RegisterNextPass registers fn to run once on the next layout pass.
	RegisterNextPass(fn func())
}

// Collection is the backing ordered collection as seen by a Policy. Index
// based mutations report false and change nothing when out of range.
type Collection interface {
	Len() int
	IndexOf(id uuid.UUID) int
	Swap(i, j int) bool
	Remove(index int) bool
	Move(from, to int) bool
}

// Animator shifts rows to reflect a reorder. Requests are measured on the
// next layout pass, after the mutation that caused them has been rendered.
type Animator interface {
	// Shift animates the rows at [start, end] from the slot amount positions
	// before them.
	Shift(start, end Position, amount int)
	// Swap animates the rows at a and b from each other's slot.
	Swap(a, b Position)
	// MoveTo animates the row of id from the screen cell (x, y) into place.
	// done runs once the animation finished or was superseded.
	MoveTo(id uuid.UUID, x, y int, done func())
	// Cancel snaps every running and pending animation to its final state.
	Cancel()
}

// Request is the immutable description of the hover cell's placement that
// the Controller hands to a Policy.
type Request struct {
	ID               uuid.UUID
	CurrentPosition  Position
	OriginalPosition Position
	HoverBounds      Rect
	OriginalBounds   Rect
}

// Observer receives drag lifecycle notifications, typically for metrics.
type Observer interface {
	DragStarted(id uuid.UUID)
	DragMoved(req Request)
	DragDropped(req Request, elapsed time.Duration)
	DragCancelled(elapsed time.Duration)
	AutoScrolled(direction int)
}

type nopObserver struct{}

func (nopObserver) DragStarted(uuid.UUID) {}
func (nopObserver) DragMoved(Request) {}
func (nopObserver) DragDropped(Request, time.Duration) {}
func (nopObserver) DragCancelled(time.Duration) {}
func (nopObserver) AutoScrolled(int) {}
