package drag

import (
	"time"

	"github.com/google/uuid"
)

const rowWidth = 10

type fakeRow struct {
	id     uuid.UUID
	pos    Position
	bounds Rect
	bound  bool
	hidden bool
}

func (r *fakeRow) ID() uuid.UUID         { return r.id }
func (r *fakeRow) Position() Position    { return r.pos }
func (r *fakeRow) Bounds() Rect          { return r.bounds }
func (r *fakeRow) SetHidden(hidden bool) { r.hidden = hidden }
func (r *fakeRow) Snapshot() any         { return r.id.String() }

// fakeViewport lays out one-cell-high rows from the top of the view and
// recycles a pool of height+1 slots.
type fakeViewport struct {
	ids    []uuid.UUID
	top    int
	height int
	slots  []*fakeRow

	scrolls   []int
	refreshes int
	next      func()
}

func newFakeViewport(n, height int) *fakeViewport {
	v := &fakeViewport{height: height}
	for range n {
		v.ids = append(v.ids, uuid.New())
	}
	for range height + 1 {
		v.slots = append(v.slots, &fakeRow{pos: InvalidPosition})
	}
	v.layout()
	return v
}

func (v *fakeViewport) layout() {
	for _, slot := range v.slots {
		slot.bound = false
	}
	for i := 0; i < v.height && v.top+i < len(v.ids); i++ {
		pos := v.top + i
		slot := v.slots[pos%len(v.slots)]
		slot.id = v.ids[pos]
		slot.pos = Position(pos)
		slot.bounds = Rect{X: 0, Y: i, Width: rowWidth, Height: 1}
		slot.bound = true
	}
}

// scrollTo moves the window, lays out and reports the pass to c.
func (v *fakeViewport) scrollTo(c *Controller, top int) {
	v.top = top
	v.layout()
	c.RowsLaidOut(v.VisibleRange())
}

func (v *fakeViewport) slotOf(id uuid.UUID) *fakeRow {
	for _, slot := range v.slots {
		if slot.bound && slot.id == id {
			return slot
		}
	}
	return nil
}

func (v *fakeViewport) RowForID(id uuid.UUID) Row {
	if slot := v.slotOf(id); slot != nil {
		return slot
	}
	return nil
}

func (v *fakeViewport) PositionForID(id uuid.UUID) Position {
	if slot := v.slotOf(id); slot != nil {
		return slot.pos
	}
	return InvalidPosition
}

func (v *fakeViewport) PositionAtPoint(x, y int) Position {
	for _, slot := range v.slots {
		if slot.bound && slot.bounds.Contains(x, y) {
			return slot.pos
		}
	}
	return InvalidPosition
}

func (v *fakeViewport) VisibleRange() (int, int) {
	return v.top, min(v.height, len(v.ids)-v.top)
}

func (v *fakeViewport) Bounds() Rect {
	return Rect{X: 0, Y: 0, Width: rowWidth, Height: v.height}
}

func (v *fakeViewport) CanScroll(direction int) bool {
	if direction < 0 {
		return v.top > 0
	}
	return v.top+v.height < len(v.ids)
}

func (v *fakeViewport) ScrollBy(amount int)        { v.scrolls = append(v.scrolls, amount) }
func (v *fakeViewport) Refresh()                   { v.refreshes++ }
func (v *fakeViewport) RegisterNextPass(fn func()) { v.next = fn }

type moveTo struct {
	id   uuid.UUID
	x, y int
	done func()
}

type fakeAnimator struct {
	shifts  [][3]int
	swaps   [][2]Position
	moves   []moveTo
	cancels int
}

func (a *fakeAnimator) Shift(start, end Position, amount int) {
	a.shifts = append(a.shifts, [3]int{int(start), int(end), amount})
}

func (a *fakeAnimator) Swap(p, q Position) {
	a.swaps = append(a.swaps, [2]Position{p, q})
}

func (a *fakeAnimator) MoveTo(id uuid.UUID, x, y int, done func()) {
	a.moves = append(a.moves, moveTo{id: id, x: x, y: y, done: done})
}

func (a *fakeAnimator) Cancel() {
	a.cancels++
	moves := a.moves
	a.moves = nil
	for _, m := range moves {
		if m.done != nil {
			m.done()
		}
	}
}

type availability struct {
	id        uuid.UUID
	available bool
}

type fakePolicy struct {
	armed     []uuid.UUID
	live      []Request
	drops     []Request
	available []availability
}

func (p *fakePolicy) OnArmed(_ *Stage, id uuid.UUID)   { p.armed = append(p.armed, id) }
func (p *fakePolicy) OnLiveMove(_ *Stage, req Request) { p.live = append(p.live, req) }
func (p *fakePolicy) OnDrop(_ *Stage, req Request)     { p.drops = append(p.drops, req) }
func (p *fakePolicy) OnRowAvailabilityChanged(_ *Stage, id uuid.UUID, available bool) {
	p.available = append(p.available, availability{id: id, available: available})
}

type fakeObserver struct {
	started, moved, dropped, cancelled int
	scrolled                           []int
	elapsed                            time.Duration
}

func (o *fakeObserver) DragStarted(uuid.UUID) { o.started++ }
func (o *fakeObserver) DragMoved(Request)     { o.moved++ }
func (o *fakeObserver) DragDropped(_ Request, elapsed time.Duration) {
	o.dropped++
	o.elapsed = elapsed
}
func (o *fakeObserver) DragCancelled(elapsed time.Duration) {
	o.cancelled++
	o.elapsed = elapsed
}
func (o *fakeObserver) AutoScrolled(direction int) { o.scrolled = append(o.scrolled, direction) }

// fakeCollection only counts; controller tests never let it mutate.
type fakeCollection struct{ n int }

func (c fakeCollection) Len() int              { return c.n }
func (c fakeCollection) IndexOf(uuid.UUID) int { return -1 }
func (c fakeCollection) Swap(int, int) bool    { return false }
func (c fakeCollection) Remove(int) bool       { return false }
func (c fakeCollection) Move(int, int) bool    { return false }
