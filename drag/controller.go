package drag

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// DefaultAutoScrollAmount is the number of lines scrolled when the hover cell
// touches an edge of the viewport.
const DefaultAutoScrollAmount = 1

// State is the phase of the drag interaction.
type State int

const (
	// Idle means no drag is in progress.
	Idle State = iota
	// Armed means the hover cell exists but no pointer motion was applied.
	Armed
	// Dragging means the hover cell follows the pointer.
	Dragging
	// Releasing means the drop animation is in flight and input is detached.
	Releasing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case Dragging:
		return "dragging"
	case Releasing:
		return "releasing"
	}
	return "unknown"
}

// Session is the state of an in-progress drag.
type Session struct {
	// ID is the dragged item, uuid.Nil when idle.
	ID uuid.UUID
	// OriginalPosition is the item's position when the drag started.
	OriginalPosition Position
	// Pointer is the last processed pointer location; valid when PointerSet.
	Pointer    Point
	PointerSet bool
	// HoverBounds is the current placement of the hover cell.
	HoverBounds Rect
	// OriginalBounds is the row's rectangle when the drag started.
	OriginalBounds Rect
	// PointerID is the contact driving the drag.
	PointerID PointerID
	// AutoScrolling is set while an edge scroll is in flight.
	AutoScrolling bool
	// Proxy is the row snapshot drawn as the hover cell.
	Proxy any

	row     Row
	started time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithAutoScrollAmount sets the number of lines scrolled per edge scroll.
func WithAutoScrollAmount(amount int) Option {
	return func(c *Controller) {
		if amount > 0 {
			c.autoScrollAmount = amount
		}
	}
}

// WithObserver sets the lifecycle observer.
func WithObserver(observer Observer) Option {
	return func(c *Controller) {
		if observer != nil {
			c.observer = observer
		}
	}
}

// WithClock sets the time source used to measure drag durations.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// Controller is the drag state machine. All methods must be called from the
// UI goroutine.
type Controller struct {
	viewport Viewport
	stage    *Stage
	policy   Policy

	state   State
	session Session

	firstVisible, visibleCount int

	autoScrollAmount int
	observer         Observer
	logger           *slog.Logger
	now              func() time.Time
}

// NewController returns an idle controller for the given viewport. items is
// the backing collection; it is only ever mutated by the active policy.
func NewController(viewport Viewport, items Collection, animator Animator, options ...Option) *Controller {
	c := &Controller{
		viewport:         viewport,
		autoScrollAmount: DefaultAutoScrollAmount,
		observer:         nopObserver{},
		logger:           slog.Default(),
		now:              time.Now,
	}
	for _, option := range options {
		option(c)
	}
	c.stage = NewStage(items, animator, viewport, c.logger)
	c.session = idleSession()
	return c
}

func idleSession() Session {
	return Session{
		ID:               uuid.Nil,
		OriginalPosition: InvalidPosition,
		PointerID:        NoPointer,
	}
}

// SetPolicy sets the active reorder policy. nil disables reordering while
// still allowing drag visuals.
func (c *Controller) SetPolicy(policy Policy) *Controller {
	c.policy = policy
	return c
}

// Policy returns the active policy.
func (c *Controller) Policy() Policy {
	return c.policy
}

// State returns the current phase.
func (c *Controller) State() State {
	return c.state
}

// Active reports whether a drag session exists.
func (c *Controller) Active() bool {
	return c.state != Idle
}

// Tracking reports whether the hover cell follows the pointer.
func (c *Controller) Tracking() bool {
	return c.state == Armed || c.state == Dragging
}

// AutoScrolling reports whether an edge scroll is in flight.
func (c *Controller) AutoScrolling() bool {
	return c.Tracking() && c.session.AutoScrolling
}

// Session returns a copy of the current session.
func (c *Controller) Session() Session {
	return c.session
}

// HoverBounds returns where the hover cell is drawn while it follows the
// pointer.
func (c *Controller) HoverBounds() (Rect, bool) {
	if !c.Tracking() {
		return Rect{}, false
	}
	return c.session.HoverBounds, true
}

// BeginDrag starts dragging the item with the given id. It fails when a drag
// is already in progress or the item has no rendered row.
func (c *Controller) BeginDrag(id uuid.UUID) bool {
	if c.state != Idle {
		c.logger.Debug("drag rejected, session active", "id", id, "state", c.state)
		return false
	}
	row := c.viewport.RowForID(id)
	if row == nil {
		c.logger.Debug("drag rejected, item not rendered", "id", id)
		return false
	}

	bounds := row.Bounds()
	c.session = Session{
		ID:               id,
		OriginalPosition: row.Position(),
		HoverBounds:      bounds,
		OriginalBounds:   bounds,
		PointerID:        NoPointer,
		Proxy:            row.Snapshot(),
		row:              row,
		started:          c.now(),
	}
	row.SetHidden(true)
	c.firstVisible, c.visibleCount = c.viewport.VisibleRange()
	c.state = Armed

	c.logger.Debug("drag armed", "id", id, "position", c.session.OriginalPosition)
	c.observer.DragStarted(id)
	if c.policy != nil {
		c.policy.OnArmed(c.stage, id)
	}
	return true
}

// Move applies pointer motion. The first motion latches the contact; motion
// from any other contact is ignored afterwards.
func (c *Controller) Move(pointer PointerID, x, y int) {
	if !c.Tracking() {
		return
	}
	if !c.session.PointerSet {
		c.session.PointerID = pointer
		c.session.Pointer = Point{X: x, Y: y}
		c.session.PointerSet = true
	}
	if pointer != c.session.PointerID {
		return
	}

	delta := Point{X: x, Y: y}.Sub(c.session.Pointer)
	c.session.HoverBounds = c.session.HoverBounds.Translate(delta.X, delta.Y)
	c.session.Pointer = Point{X: x, Y: y}
	c.state = Dragging

	c.notifyHoverPosition()
	c.handleEdgeScroll()
}

// Release ends the drag when the active contact is lifted. The policy sees
// the final placement, then the hover cell settles into its row.
func (c *Controller) Release(pointer PointerID) {
	if !c.Tracking() {
		return
	}
	if c.session.PointerSet && pointer != c.session.PointerID {
		return
	}

	req := c.request()
	c.logger.Debug("drag dropped", "id", req.ID, "from", req.OriginalPosition, "to", req.CurrentPosition)
	if c.policy != nil {
		c.policy.OnDrop(c.stage, req)
	}
	c.observer.DragDropped(req, c.now().Sub(c.session.started))

	c.state = Releasing
	c.session.AutoScrolling = false
	id := req.ID
	c.stage.Animator.MoveTo(id, req.HoverBounds.X, req.HoverBounds.Y, func() {
		c.settled(id)
	})
}

// Cancel discards the session without dropping. Running animations snap to
// their final state. While releasing, the drop already happened, so only the
// settle animation is cut short.
func (c *Controller) Cancel() {
	switch c.state {
	case Idle:
		return
	case Releasing:
		c.stage.Animator.Cancel()
		if c.state != Idle {
			c.reset()
		}
		return
	}
	elapsed := c.now().Sub(c.session.started)
	c.logger.Debug("drag cancelled", "id", c.session.ID, "state", c.state)
	c.observer.DragCancelled(elapsed)
	c.stage.Animator.Cancel()
	c.reset()
}

// RowsLaidOut must be called by the viewport after every layout pass, before
// rows are drawn. It revalidates the dragged item's row across recycling and
// re-resolves the hover position when the visible window changed.
func (c *Controller) RowsLaidOut(first, count int) {
	if c.state == Idle {
		return
	}

	row := c.viewport.RowForID(c.session.ID)
	wasAvailable := c.session.row != nil
	if c.session.row != nil && c.session.row != row {
		// The old handle now shows another item.
		c.session.row.SetHidden(false)
	}
	if row != nil {
		row.SetHidden(true)
	}
	c.session.row = row

	if available := row != nil; available != wasAvailable {
		c.logger.Debug("dragged row availability changed", "id", c.session.ID, "available", available)
		if c.policy != nil && c.Tracking() {
			c.policy.OnRowAvailabilityChanged(c.stage, c.session.ID, available)
		}
	}

	if first == c.firstVisible && count == c.visibleCount {
		return
	}
	c.firstVisible, c.visibleCount = first, count
	if c.Tracking() && c.session.PointerSet {
		c.notifyHoverPosition()
	}
}

// ScrollIdle must be called by the viewport when a scroll has been applied
// and no further scroll is pending. A running edge scroll repeats while the
// hover cell still touches the edge.
func (c *Controller) ScrollIdle() {
	if !c.Tracking() || !c.session.AutoScrolling {
		return
	}
	c.session.AutoScrolling = false
	c.handleEdgeScroll()
}

func (c *Controller) request() Request {
	center := c.session.HoverBounds.Center()
	return Request{
		ID:               c.session.ID,
		CurrentPosition:  c.viewport.PositionAtPoint(center.X, center.Y),
		OriginalPosition: c.session.OriginalPosition,
		HoverBounds:      c.session.HoverBounds,
		OriginalBounds:   c.session.OriginalBounds,
	}
}

func (c *Controller) notifyHoverPosition() {
	req := c.request()
	c.observer.DragMoved(req)
	if c.policy != nil {
		c.policy.OnLiveMove(c.stage, req)
	}
}

func (c *Controller) handleEdgeScroll() {
	if c.session.AutoScrolling {
		return
	}
	view := c.viewport.Bounds()
	hover := c.session.HoverBounds

	direction := 0
	switch {
	case hover.Y <= view.Y && c.viewport.CanScroll(-1):
		direction = -1
	case hover.Bottom() >= view.Bottom() && c.viewport.CanScroll(1):
		direction = 1
	default:
		return
	}

	c.session.AutoScrolling = true
	c.viewport.ScrollBy(direction * c.autoScrollAmount)
	c.observer.AutoScrolled(direction)
}

func (c *Controller) settled(id uuid.UUID) {
	if c.state != Releasing || c.session.ID != id {
		return
	}
	c.logger.Debug("drag settled", "id", id)
	c.reset()
}

func (c *Controller) reset() {
	if c.session.row != nil {
		c.session.row.SetHidden(false)
	}
	if row := c.viewport.RowForID(c.session.ID); row != nil {
		row.SetHidden(false)
	}
	c.session = idleSession()
	c.state = Idle
	c.viewport.Refresh()
}
