package dragview

import (
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"

	"github.com/xqrs/dragview/animate"
	"github.com/xqrs/dragview/drag"
	"github.com/xqrs/dragview/keybind"
)

// ReorderSource is the data shown by a ReorderList. Positions are zero-based;
// ids are stable across reorders.
type ReorderSource interface {
	Len() int
	ID(index int) uuid.UUID
	IndexOf(id uuid.UUID) int
	Text(index int) string
}

// ReorderKeyMap holds the keybinds handled by a ReorderList.
type ReorderKeyMap struct {
	Cancel     keybind.Keybind
	ScrollUp   keybind.Keybind
	ScrollDown keybind.Keybind
	PageUp     keybind.Keybind
	PageDown   keybind.Keybind
}

// DefaultReorderKeyMap returns the default list keybinds.
func DefaultReorderKeyMap() ReorderKeyMap {
	return ReorderKeyMap{
		Cancel:     keybind.NewKeybind(keybind.WithKeys("esc"), keybind.WithHelp("esc", "cancel drag")),
		ScrollUp:   keybind.NewKeybind(keybind.WithKeys("up", "k"), keybind.WithHelp("↑/k", "up")),
		ScrollDown: keybind.NewKeybind(keybind.WithKeys("down", "j"), keybind.WithHelp("↓/j", "down")),
		PageUp:     keybind.NewKeybind(keybind.WithKeys("pgup"), keybind.WithHelp("pgup", "page up")),
		PageDown:   keybind.NewKeybind(keybind.WithKeys("pgdn"), keybind.WithHelp("pgdn", "page down")),
	}
}

// ShortHelp implements help.KeyMap.
func (k ReorderKeyMap) ShortHelp() []keybind.Keybind {
	return []keybind.Keybind{k.ScrollUp, k.ScrollDown, k.Cancel}
}

// FullHelp implements help.KeyMap.
func (k ReorderKeyMap) FullHelp() [][]keybind.Keybind {
	return [][]keybind.Keybind{
		{k.ScrollUp, k.ScrollDown},
		{k.PageUp, k.PageDown},
		{k.Cancel},
	}
}

// The number of layout passes a single draw may take when a policy mutates
// the source while rows are being laid out.
const maxLayoutPasses = 3

// ReorderList displays a virtual list of uniform rows whose items can be
// dragged to a new position. A small pool of row slots is rebound to list
// positions on every draw; slot k shows the position p with p%len(pool)==k,
// so a slot keeps its item for as long as the item stays in view.
//
// The list is the viewport of a drag.Controller and the layout of an
// animate.Animator. Both are created with NewReorderList and may be replaced
// with SetController and SetAnimator.
type ReorderList struct {
	*Box

	source    ReorderSource
	rowHeight int

	// Index of the first visible position.
	top int
	// Pending scroll delta in rows, applied on the next draw.
	pending int
	// Set when a scroll was applied and not yet reported idle.
	settling    bool
	scrolledAt  time.Time
	scrollPause time.Duration

	slots []*rowSlot
	count int
	rect  drag.Rect
	stale bool

	// Single callback slot drained once per draw after layout.
	nextPass func()

	controller *drag.Controller
	animator   *animate.Animator

	rowStyle    tcell.Style
	hoverStyle  tcell.Style
	hoverBorder BorderSet
	dragOnClick bool

	keys   ReorderKeyMap
	now    func() time.Time
	logger *slog.Logger
}

// NewReorderList returns a list showing source. collection is what the drag
// policy mutates, usually the same value as source. The list creates its own
// controller, without a policy, and animator.
func NewReorderList(source ReorderSource, collection drag.Collection, logger *slog.Logger) *ReorderList {
	if logger == nil {
		logger = slog.Default()
	}
	l := &ReorderList{
		Box:         NewBox(),
		source:      source,
		rowHeight:   1,
		rowStyle:    tcell.StyleDefault.Foreground(Styles.PrimaryTextColor).Background(Styles.PrimitiveBackgroundColor),
		hoverStyle:  tcell.StyleDefault.Foreground(Styles.HoverTextColor).Background(Styles.HoverBackgroundColor),
		hoverBorder: BorderSetRound(),
		keys:        DefaultReorderKeyMap(),
		now:         time.Now,
		logger:      logger,
		stale:       true,
	}
	l.animator = animate.New(l, animate.WithLogger(logger))
	l.controller = drag.NewController(l, collection, l.animator, drag.WithLogger(logger))
	return l
}

// SetSource sets the data shown by the list.
func (l *ReorderList) SetSource(source ReorderSource) *ReorderList {
	l.source = source
	l.Refresh()
	return l
}

// SetController replaces the drag controller. The controller must use this
// list as its viewport.
func (l *ReorderList) SetController(controller *drag.Controller) *ReorderList {
	if l.controller != nil {
		l.controller.Cancel()
	}
	l.controller = controller
	return l
}

// Controller returns the drag controller.
func (l *ReorderList) Controller() *drag.Controller {
	return l.controller
}

// SetAnimator replaces the animator used to offset rows. It should be the
// animator given to the controller.
func (l *ReorderList) SetAnimator(animator *animate.Animator) *ReorderList {
	l.animator = animator
	return l
}

// Animator returns the animator.
func (l *ReorderList) Animator() *animate.Animator {
	return l.animator
}

// SetRowHeight sets the height of every row in cells.
func (l *ReorderList) SetRowHeight(height int) *ReorderList {
	height = max(height, 1)
	if l.rowHeight != height {
		l.rowHeight = height
		l.slots = nil
		l.Refresh()
	}
	return l
}

// SetRowStyle sets the style of rows.
func (l *ReorderList) SetRowStyle(style tcell.Style) *ReorderList {
	l.rowStyle = style
	l.MarkDirty()
	return l
}

// SetHoverStyle sets the style of the hover cell.
func (l *ReorderList) SetHoverStyle(style tcell.Style) *ReorderList {
	l.hoverStyle = style
	l.MarkDirty()
	return l
}

// SetHoverBorder sets the border decoration drawn around the hover cell.
func (l *ReorderList) SetHoverBorder(set BorderSet) *ReorderList {
	l.hoverBorder = set
	l.MarkDirty()
	return l
}

// SetDragOnClick makes a plain click start a drag. By default only a long
// press does.
func (l *ReorderList) SetDragOnClick(enabled bool) *ReorderList {
	l.dragOnClick = enabled
	return l
}

// SetScrollPause sets how long an applied scroll must rest before it is
// reported idle, which paces repeated edge scrolling.
func (l *ReorderList) SetScrollPause(d time.Duration) *ReorderList {
	l.scrollPause = max(d, 0)
	return l
}

// SetKeyMap sets the list keybinds.
func (l *ReorderList) SetKeyMap(keys ReorderKeyMap) *ReorderList {
	l.keys = keys
	return l
}

// KeyMap returns the list keybinds.
func (l *ReorderList) KeyMap() ReorderKeyMap {
	return l.keys
}

// BeginDrag starts dragging the item at position with the pointer resting at
// (x, y). It fails if the position is not rendered or a drag is active.
func (l *ReorderList) BeginDrag(position drag.Position, x, y int) bool {
	if l.source == nil || l.controller == nil || position < 0 || int(position) >= l.source.Len() {
		return false
	}
	if !l.controller.BeginDrag(l.source.ID(int(position))) {
		return false
	}
	l.controller.Move(0, x, y)
	return true
}

// Animating reports whether the list needs frames without further input.
func (l *ReorderList) Animating() bool {
	if l.nextPass != nil || l.settling || l.pending != 0 {
		return true
	}
	if l.animator != nil && l.animator.Active() {
		return true
	}
	return l.controller != nil && (l.controller.State() == drag.Releasing || l.controller.AutoScrolling())
}

// Refresh implements drag.Viewport. The rows are laid out again on the next
// draw.
func (l *ReorderList) Refresh() {
	l.stale = true
	l.MarkDirty()
}

// ScrollBy implements drag.Viewport. The scroll is applied on the next draw.
func (l *ReorderList) ScrollBy(amount int) {
	l.pending += amount
	l.MarkDirty()
}

// RegisterNextPass implements drag.Viewport and animate.Layout. A callback
// registered while another is pending replaces it.
func (l *ReorderList) RegisterNextPass(fn func()) {
	l.nextPass = fn
}

// RowForID implements drag.Viewport.
func (l *ReorderList) RowForID(id uuid.UUID) drag.Row {
	if slot := l.slotForID(id); slot != nil {
		return slot
	}
	return nil
}

// PositionForID implements drag.Viewport.
func (l *ReorderList) PositionForID(id uuid.UUID) drag.Position {
	if l.source == nil {
		return drag.InvalidPosition
	}
	if index := l.source.IndexOf(id); index >= 0 {
		return drag.Position(index)
	}
	return drag.InvalidPosition
}

// PositionAtPoint implements drag.Viewport. Rendered rows are tested back to
// front, hidden ones included.
func (l *ReorderList) PositionAtPoint(x, y int) drag.Position {
	for i := l.count - 1; i >= 0; i-- {
		slot := l.slotAt(l.top + i)
		if slot != nil && slot.rect.Contains(x, y) {
			return slot.position
		}
	}
	return drag.InvalidPosition
}

// VisibleRange implements drag.Viewport and animate.Layout.
func (l *ReorderList) VisibleRange() (first, count int) {
	return l.top, l.count
}

// Bounds implements drag.Viewport.
func (l *ReorderList) Bounds() drag.Rect {
	x, y, width, height := l.GetInnerRect()
	return drag.Rect{X: x, Y: y, Width: width, Height: height}
}

// CanScroll implements drag.Viewport.
func (l *ReorderList) CanScroll(direction int) bool {
	top := l.top + l.pending
	switch {
	case direction < 0:
		return top > 0
	case direction > 0:
		return top < l.maxTop()
	}
	return false
}

// RowAt implements animate.Layout.
func (l *ReorderList) RowAt(position drag.Position) (uuid.UUID, drag.Rect, bool) {
	slot := l.slotAt(int(position))
	if slot == nil {
		return uuid.Nil, drag.Rect{}, false
	}
	return slot.id, slot.rect, true
}

// RowOf implements animate.Layout.
func (l *ReorderList) RowOf(id uuid.UUID) (drag.Rect, bool) {
	slot := l.slotForID(id)
	if slot == nil {
		return drag.Rect{}, false
	}
	return slot.rect, true
}

func (l *ReorderList) slotAt(position int) *rowSlot {
	if len(l.slots) == 0 || position < l.top || position >= l.top+l.count {
		return nil
	}
	slot := l.slots[position%len(l.slots)]
	if !slot.bound || int(slot.position) != position {
		return nil
	}
	return slot
}

func (l *ReorderList) slotForID(id uuid.UUID) *rowSlot {
	if id == uuid.Nil {
		return nil
	}
	for _, slot := range l.slots {
		if slot.bound && slot.id == id {
			return slot
		}
	}
	return nil
}

func (l *ReorderList) length() int {
	if l.source == nil {
		return 0
	}
	return l.source.Len()
}

func (l *ReorderList) pageRows() int {
	_, _, _, height := l.GetInnerRect()
	return max(height/l.rowHeight, 1)
}

func (l *ReorderList) maxTop() int {
	return max(l.length()-l.pageRows(), 0)
}

// layout applies the pending scroll and binds the slot pool to the visible
// positions.
func (l *ReorderList) layout() {
	x, y, width, height := l.GetInnerRect()
	l.stale = false
	l.rect = drag.Rect{X: x, Y: y, Width: width, Height: height}

	if l.pending != 0 {
		l.top += l.pending
		l.pending = 0
		l.settling = true
		l.scrolledAt = l.now()
	}
	l.top = min(max(l.top, 0), l.maxTop())

	if width <= 0 || height <= 0 {
		l.count = 0
		l.unbind()
		return
	}

	// One spare slot for the partially visible row at the bottom.
	poolSize := (height+l.rowHeight-1)/l.rowHeight + 1
	if len(l.slots) != poolSize {
		l.slots = make([]*rowSlot, poolSize)
		for i := range l.slots {
			l.slots[i] = &rowSlot{position: drag.InvalidPosition}
		}
	}

	l.count = min((height+l.rowHeight-1)/l.rowHeight, l.length()-l.top)
	l.count = max(l.count, 0)
	l.unbind()
	for i := 0; i < l.count; i++ {
		position := l.top + i
		slot := l.slots[position%len(l.slots)]
		slot.bind(drag.Position(position), l.source.ID(position), l.source.Text(position), drag.Rect{
			X:      x,
			Y:      y + i*l.rowHeight,
			Width:  width,
			Height: l.rowHeight,
		})
	}
}

// unbind marks every slot free. Slots keep their hidden flag so a recycled
// slot still hides until the controller revalidates it.
func (l *ReorderList) unbind() {
	for _, slot := range l.slots {
		slot.bound = false
	}
}

func (l *ReorderList) layoutPasses() {
	for i := 0; i < maxLayoutPasses; i++ {
		l.layout()
		if l.controller != nil {
			l.controller.RowsLaidOut(l.top, l.count)
		}
		if !l.stale {
			return
		}
	}
	l.logger.Debug("layout did not settle", "passes", maxLayoutPasses)
}

// Draw draws this primitive onto the screen.
func (l *ReorderList) Draw(screen tcell.Screen) {
	l.DrawForSubclass(screen, l)

	wasSettling := l.settling
	l.layoutPasses()
	if fn := l.nextPass; fn != nil {
		l.nextPass = nil
		fn()
	}
	if l.stale {
		l.layoutPasses()
	}
	if l.animator != nil {
		l.animator.Tick()
	}

	clipped := newClippedScreen(screen, l.rect.X, l.rect.Y, l.rect.Width, l.rect.Height)
	for i := 0; i < l.count; i++ {
		slot := l.slotAt(l.top + i)
		if slot == nil || slot.hidden {
			continue
		}
		l.drawRow(clipped, slot.text, slot.rect.Translate(l.offset(slot.id)), l.rowStyle, BordersNone)
	}

	if l.controller != nil {
		switch l.controller.State() {
		case drag.Releasing:
			session := l.controller.Session()
			if slot := l.slotForID(session.ID); slot != nil {
				l.drawHover(clipped, session.Proxy, slot.rect.Translate(l.offset(slot.id)))
			}
		case drag.Armed, drag.Dragging:
			session := l.controller.Session()
			l.drawHover(clipped, session.Proxy, session.HoverBounds)
		}
	}

	// A scroll applied by an earlier draw has now rendered.
	if wasSettling && l.settling && l.pending == 0 && l.now().Sub(l.scrolledAt) >= l.scrollPause {
		l.settling = false
		if l.controller != nil {
			l.controller.ScrollIdle()
		}
	}
	l.MarkClean()
}

func (l *ReorderList) offset(id uuid.UUID) (int, int) {
	if l.animator == nil {
		return 0, 0
	}
	d := l.animator.Offset(id)
	return d.X, d.Y
}

func (l *ReorderList) drawHover(screen *clippedScreen, proxy any, rect drag.Rect) {
	snapshot, _ := proxy.(rowSnapshot)
	l.drawRow(screen, snapshot.text, rect, l.hoverStyle, BordersAll)
}

// drawRow fills rect with style and prints text on its middle line. With
// borders the frame takes the first and last column.
func (l *ReorderList) drawRow(screen *clippedScreen, text string, rect drag.Rect, style tcell.Style, borders Borders) {
	fill(screen, rect.X, rect.Y, rect.Width, rect.Height, style)
	textX, textWidth := rect.X+1, rect.Width-2
	if borders != BordersNone {
		drawFrame(screen, rect.X, rect.Y, rect.Width, rect.Height, l.hoverBorder, borders, style.Foreground(Styles.HoverBorderColor))
		textX, textWidth = rect.X+2, rect.Width-4
	}
	Print(screen, text, textX, rect.Y+rect.Height/2, textWidth, AlignmentLeft, style)
}

// InputHandler returns the handler for this primitive.
func (l *ReorderList) InputHandler(event *tcell.EventKey) Command {
	switch {
	case keybind.Matches(event, l.keys.Cancel):
		if l.controller == nil || !l.controller.Active() {
			return nil
		}
		l.controller.Cancel()
	case keybind.Matches(event, l.keys.ScrollUp):
		l.ScrollBy(-1)
	case keybind.Matches(event, l.keys.ScrollDown):
		l.ScrollBy(1)
	case keybind.Matches(event, l.keys.PageUp):
		l.ScrollBy(-l.pageRows())
	case keybind.Matches(event, l.keys.PageDown):
		l.ScrollBy(l.pageRows())
	default:
		return nil
	}
	return AnimateCommand{Source: l}
}

// MouseHandler returns the mouse handler for this primitive. While a drag
// follows the pointer the list captures the mouse.
func (l *ReorderList) MouseHandler(action MouseAction, event *tcell.EventMouse) (Primitive, Command) {
	x, y := event.Position()

	if l.controller != nil && l.controller.Tracking() {
		switch action {
		case MouseMove:
			l.controller.Move(0, x, y)
		case MouseLeftUp:
			l.controller.Release(0)
			return nil, AnimateCommand{Source: l}
		case MouseScrollUp:
			l.ScrollBy(-1)
		case MouseScrollDown:
			l.ScrollBy(1)
		default:
			return l, nil
		}
		return l, AnimateCommand{Source: l}
	}

	if !l.InRect(x, y) {
		return nil, nil
	}

	switch action {
	case MouseLeftDown:
		return nil, SetFocusCommand{Target: l}
	case MouseLeftLongPress:
		if l.BeginDrag(l.PositionAtPoint(x, y), x, y) {
			return l, AnimateCommand{Source: l}
		}
	case MouseLeftClick:
		if l.dragOnClick && l.BeginDrag(l.PositionAtPoint(x, y), x, y) {
			return l, AnimateCommand{Source: l}
		}
	case MouseScrollUp:
		l.ScrollBy(-1)
		return nil, AnimateCommand{Source: l}
	case MouseScrollDown:
		l.ScrollBy(1)
		return nil, AnimateCommand{Source: l}
	}
	return nil, nil
}

var (
	_ Primitive      = (*ReorderList)(nil)
	_ Animated       = (*ReorderList)(nil)
	_ drag.Viewport  = (*ReorderList)(nil)
	_ animate.Layout = (*ReorderList)(nil)
)

// rowSlot is a recycled row handle. Its hidden flag belongs to the slot, not
// to the item it currently shows.
type rowSlot struct {
	position drag.Position
	id       uuid.UUID
	text     string
	rect     drag.Rect
	bound    bool
	hidden   bool
}

func (s *rowSlot) bind(position drag.Position, id uuid.UUID, text string, rect drag.Rect) {
	s.position = position
	s.id = id
	s.text = text
	s.rect = rect
	s.bound = true
}

func (s *rowSlot) ID() uuid.UUID           { return s.id }
func (s *rowSlot) Position() drag.Position { return s.position }
func (s *rowSlot) Bounds() drag.Rect       { return s.rect }
func (s *rowSlot) SetHidden(hidden bool)   { s.hidden = hidden }
func (s *rowSlot) Snapshot() any           { return rowSnapshot{text: s.text} }

// rowSnapshot is what the hover cell draws: the row's text at drag start.
type rowSnapshot struct {
	text string
}

type clippedScreen struct {
	tcell.Screen
	x      int
	y      int
	width  int
	height int
}

func newClippedScreen(screen tcell.Screen, x, y, width, height int) *clippedScreen {
	return &clippedScreen{
		Screen: screen,
		x:      x,
		y:      y,
		width:  width,
		height: height,
	}
}

func (s *clippedScreen) inBounds(x, y int) bool {
	return x >= s.x && x < s.x+s.width && y >= s.y && y < s.y+s.height
}

func (s *clippedScreen) SetContent(x int, y int, primary rune, combining []rune, style tcell.Style) {
	if !s.inBounds(x, y) {
		return
	}
	s.Screen.SetContent(x, y, primary, combining, style)
}
