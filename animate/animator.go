// Package animate runs the position-shift animations of a reorderable list.
//
// Rows are animated by giving them a translation offset that starts at the
// difference between where they appeared before a reorder and where the new
// layout puts them, and decays to zero. The rendered rows are recorded when
// the first request of a frame arrives. Requests made during one frame are
// merged into a single batch that is measured on the next layout pass, so the
// "after" geometry always reflects every mutation requested before it.
package animate

import (
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/xqrs/dragview/drag"
)

// DefaultDuration is the length of a shift animation.
const DefaultDuration = 150 * time.Millisecond

// Layout is the rendered geometry an Animator measures against.
type Layout interface {
	// RowAt returns the item and bounds of the rendered row at pos.
	RowAt(pos drag.Position) (uuid.UUID, drag.Rect, bool)
	// RowOf returns the bounds of the rendered row of id.
	RowOf(id uuid.UUID) (drag.Rect, bool)
	// VisibleRange returns the first rendered position and the row count.
	VisibleRange() (first, count int)
	// RegisterNextPass registers fn to run once on the next layout pass.
	RegisterNextPass(fn func())
}

// TimeProvider supplies the animation clock.
type TimeProvider interface {
	Now() time.Time
}

type systemTime struct{}

func (systemTime) Now() time.Time { return time.Now() }

type shapeKind int

const (
	shapeShift shapeKind = iota
	shapeSwap
	shapeMoveTo
)

// shape is one pending request.
type shape struct {
	kind       shapeKind
	start, end drag.Position
	amount     int
	id         uuid.UUID
	target     drag.Point
	done       func()
}

type batch struct {
	started time.Time
	from    map[uuid.UUID]drag.Point
	done    []func()
}

// Option configures an Animator.
type Option func(*Animator)

// WithDuration sets the animation length.
func WithDuration(d time.Duration) Option {
	return func(a *Animator) {
		if d > 0 {
			a.duration = d
		}
	}
}

// WithTimeProvider sets the clock. The default is the system clock.
func WithTimeProvider(clock TimeProvider) Option {
	return func(a *Animator) {
		if clock != nil {
			a.clock = clock
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Animator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// Animator owns at most one running batch of row offsets.
type Animator struct {
	layout   Layout
	clock    TimeProvider
	duration time.Duration
	logger   *slog.Logger

	pending []shape
	before  snapshot
	current *batch
}

// snapshot is where the rendered rows were when a batch was requested.
type snapshot struct {
	first int
	rows  map[uuid.UUID]drag.Point
}

var _ drag.Animator = (*Animator)(nil)

// New returns an animator measuring against layout.
func New(layout Layout, options ...Option) *Animator {
	a := &Animator{
		layout:   layout,
		clock:    systemTime{},
		duration: DefaultDuration,
		logger:   slog.Default(),
	}
	for _, option := range options {
		option(a)
	}
	return a
}

// Shift animates the rendered rows in [start, end] from where they were drawn
// when the request was made. An insert that pushes rows down uses amount 1, a
// removal that pulls them up uses -1.
func (a *Animator) Shift(start, end drag.Position, amount int) {
	a.request(shape{kind: shapeShift, start: start, end: end, amount: amount})
}

// Swap animates the rows at p and q from each other's slot.
func (a *Animator) Swap(p, q drag.Position) {
	a.request(shape{kind: shapeSwap, start: p, end: q})
}

// MoveTo animates the row of id from the cell (x, y) into its slot. done runs
// exactly once, when the batch completes or is superseded.
func (a *Animator) MoveTo(id uuid.UUID, x, y int, done func()) {
	a.request(shape{kind: shapeMoveTo, id: id, target: drag.Point{X: x, Y: y}, done: done})
}

// Cancel drops pending requests and snaps the running batch to its final
// state. Completion callbacks still run.
func (a *Animator) Cancel() {
	pending := a.pending
	a.pending = nil
	a.before = snapshot{}
	a.finish()
	for _, s := range pending {
		if s.done != nil {
			s.done()
		}
	}
}

// Active reports whether a batch is running or waiting to be measured.
func (a *Animator) Active() bool {
	return a.current != nil || len(a.pending) > 0
}

// Tick completes the running batch once its duration elapsed. Call it once
// per frame.
func (a *Animator) Tick() {
	if a.current == nil {
		return
	}
	if a.clock.Now().Sub(a.current.started) >= a.duration {
		a.finish()
	}
}

// Offset returns the current translation of the row of id.
func (a *Animator) Offset(id uuid.UUID) drag.Point {
	if a.current == nil {
		return drag.Point{}
	}
	from, ok := a.current.from[id]
	if !ok {
		return drag.Point{}
	}
	remaining := 1 - decelerate(a.progress())
	return drag.Point{
		X: int(math.Round(float64(from.X) * remaining)),
		Y: int(math.Round(float64(from.Y) * remaining)),
	}
}

func (a *Animator) progress() float64 {
	elapsed := a.clock.Now().Sub(a.current.started)
	if elapsed <= 0 {
		return 0
	}
	if elapsed >= a.duration {
		return 1
	}
	return float64(elapsed) / float64(a.duration)
}

func decelerate(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

// request queues s for the next layout pass. The layout keeps a single
// callback slot, so registering again is harmless and survives replacement.
// The first request of a batch records the rendered rows; the layout has not
// been redone yet, so they are still in their old places.
func (a *Animator) request(s shape) {
	if len(a.pending) == 0 {
		a.before = a.record()
	}
	a.pending = append(a.pending, s)
	a.layout.RegisterNextPass(a.measure)
}

func (a *Animator) record() snapshot {
	first, count := a.layout.VisibleRange()
	snap := snapshot{first: first, rows: make(map[uuid.UUID]drag.Point, count)}
	for pos := first; pos < first+count; pos++ {
		if id, bounds, ok := a.layout.RowAt(drag.Position(pos)); ok {
			snap.rows[id] = bounds.Min()
		}
	}
	return snap
}

// measure runs on the layout pass following the requests. It supersedes the
// running batch and starts a new one from the merged requests.
func (a *Animator) measure() {
	pending, before := a.pending, a.before
	a.pending, a.before = nil, snapshot{}
	a.finish()
	if len(pending) == 0 {
		return
	}

	next := &batch{
		started: a.clock.Now(),
		from:    make(map[uuid.UUID]drag.Point),
	}

	rows := a.selectRows(pending, before)
	for id, bounds := range rows {
		if from, seen := before.rows[id]; seen {
			a.offset(next, id, from.Sub(bounds.Min()))
		}
	}
	for _, s := range pending {
		switch s.kind {
		case shapeMoveTo:
			if bounds, ok := a.layout.RowOf(s.id); ok {
				a.offset(next, s.id, s.target.Sub(bounds.Min()))
			}
		}
		if s.done != nil {
			next.done = append(next.done, s.done)
		}
	}

	if len(next.from) == 0 {
		a.runDone(next.done)
		return
	}
	a.logger.Debug("animation started", "rows", len(next.from), "requests", len(pending))
	a.current = next
}

// selectRows returns the rendered rows the requests displaced, with their
// new bounds. If the visible window moved since the requests, every rendered
// row was displaced, e.g. after a removal near the end clamps the window.
func (a *Animator) selectRows(pending []shape, before snapshot) map[uuid.UUID]drag.Rect {
	first, count := a.layout.VisibleRange()
	last := first + count - 1
	rows := make(map[uuid.UUID]drag.Rect)
	add := func(pos int) {
		if id, bounds, ok := a.layout.RowAt(drag.Position(pos)); ok {
			rows[id] = bounds
		}
	}

	if first != before.first {
		for pos := first; pos <= last; pos++ {
			add(pos)
		}
		return rows
	}
	for _, s := range pending {
		switch s.kind {
		case shapeShift:
			for pos := max(int(s.start), first); pos <= min(int(s.end), last); pos++ {
				add(pos)
			}
		case shapeSwap:
			add(int(s.start))
			add(int(s.end))
		}
	}
	return rows
}

func (a *Animator) offset(b *batch, id uuid.UUID, d drag.Point) {
	if d == (drag.Point{}) {
		delete(b.from, id)
		return
	}
	b.from[id] = d
}

func (a *Animator) finish() {
	if a.current == nil {
		return
	}
	done := a.current.done
	a.current = nil
	a.runDone(done)
}

func (a *Animator) runDone(done []func()) {
	for _, fn := range done {
		fn()
	}
}
