package dragview

import (
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/xqrs/dragview/drag"
)

// Box is the base of every primitive. It owns the bounds, an optional frame
// with a title, focus state and the dirty flag. Primitives embed it and draw
// their content inside GetInnerRect.
type Box struct {
	bounds drag.Rect
	// Cached content area; valid only when innerValid is set.
	inner      drag.Rect
	innerValid bool

	padding insets

	background tcell.Color
	frame      frame
	hasFocus   bool

	dirty atomic.Bool
}

type insets struct {
	top, bottom, left, right int
}

type frame struct {
	borders Borders
	set     BorderSet
	style   tcell.Style

	title      string
	titleStyle tcell.Style
	titleAlign Alignment
}

// NewBox returns a 15x10 Box at the origin, without borders.
func NewBox() *Box {
	b := &Box{
		bounds:     drag.Rect{Width: 15, Height: 10},
		background: Styles.PrimitiveBackgroundColor,
		frame: frame{
			set:        BorderSetPlain(),
			style:      tcell.StyleDefault.Foreground(Styles.BorderColor).Background(Styles.PrimitiveBackgroundColor),
			titleStyle: tcell.StyleDefault.Foreground(Styles.TitleColor).Background(Styles.PrimitiveBackgroundColor),
			titleAlign: AlignmentCenter,
		},
	}
	b.dirty.Store(true)
	return b
}

// changed invalidates the content area and marks the box dirty.
func (b *Box) changed() {
	b.innerValid = false
	b.MarkDirty()
}

// SetBorderPadding sets the space kept between the frame and the content.
func (b *Box) SetBorderPadding(top, bottom, left, right int) *Box {
	if p := (insets{top, bottom, left, right}); p != b.padding {
		b.padding = p
		b.changed()
	}
	return b
}

func (b *Box) GetRect() (int, int, int, int) {
	return b.bounds.X, b.bounds.Y, b.bounds.Width, b.bounds.Height
}

func (b *Box) SetRect(x, y, width, height int) {
	if r := (drag.Rect{X: x, Y: y, Width: width, Height: height}); r != b.bounds {
		b.bounds = r
		b.changed()
	}
}

// GetInnerRect returns the content area: the bounds minus the frame, the
// title row and the padding. Width and height never go below zero.
func (b *Box) GetInnerRect() (int, int, int, int) {
	if !b.innerValid {
		b.inner = b.contentArea()
		b.innerValid = true
	}
	return b.inner.X, b.inner.Y, b.inner.Width, b.inner.Height
}

func (b *Box) contentArea() drag.Rect {
	edge := b.padding
	if b.frame.title != "" || b.frame.borders.Has(BordersTop) {
		edge.top++
	}
	if b.frame.borders.Has(BordersBottom) {
		edge.bottom++
	}
	if b.frame.borders.Has(BordersLeft) {
		edge.left++
	}
	if b.frame.borders.Has(BordersRight) {
		edge.right++
	}
	return drag.Rect{
		X:      b.bounds.X + edge.left,
		Y:      b.bounds.Y + edge.top,
		Width:  max(b.bounds.Width-edge.left-edge.right, 0),
		Height: max(b.bounds.Height-edge.top-edge.bottom, 0),
	}
}

// InRect reports whether the cell lies within the bounds.
func (b *Box) InRect(x, y int) bool {
	return b.bounds.Contains(x, y)
}

// InInnerRect reports whether the cell lies within the content area.
func (b *Box) InInnerRect(x, y int) bool {
	ix, iy, w, h := b.GetInnerRect()
	return drag.Rect{X: ix, Y: iy, Width: w, Height: h}.Contains(x, y)
}

func (b *Box) IsDirty() bool {
	return b.dirty.Load()
}

func (b *Box) MarkDirty() {
	b.dirty.Store(true)
}

func (b *Box) MarkClean() {
	b.dirty.Store(false)
}

func (b *Box) InputHandler(event *tcell.EventKey) Command {
	return nil
}

// MouseHandler asks for focus on a left press inside the bounds.
func (b *Box) MouseHandler(action MouseAction, event *tcell.EventMouse) (Primitive, Command) {
	if action == MouseLeftDown && b.InRect(event.Position()) {
		return nil, SetFocusCommand{Target: b}
	}
	return nil, nil
}

func (b *Box) SetBackgroundColor(color tcell.Color) *Box {
	if b.background != color {
		b.background = color
		b.frame.style = b.frame.style.Background(color)
		b.frame.titleStyle = b.frame.titleStyle.Background(color)
		b.MarkDirty()
	}
	return b
}

func (b *Box) GetBackgroundColor() tcell.Color {
	return b.background
}

// SetBorders selects the frame edges to draw.
func (b *Box) SetBorders(flag Borders) *Box {
	if b.frame.borders != flag {
		b.frame.borders = flag
		b.changed()
	}
	return b
}

func (b *Box) SetBorderSet(set BorderSet) *Box {
	if b.frame.set != set {
		b.frame.set = set
		b.MarkDirty()
	}
	return b
}

func (b *Box) SetBorderStyle(style tcell.Style) *Box {
	if b.frame.style != style {
		b.frame.style = style
		b.MarkDirty()
	}
	return b
}

func (b *Box) GetTitle() string {
	return b.frame.title
}

// SetTitle sets the title printed over the top edge. A title reserves the
// top row even without a top border.
func (b *Box) SetTitle(title string) *Box {
	if b.frame.title != title {
		b.frame.title = title
		b.changed()
	}
	return b
}

func (b *Box) SetTitleAlignment(alignment Alignment) *Box {
	if b.frame.titleAlign != alignment {
		b.frame.titleAlign = alignment
		b.MarkDirty()
	}
	return b
}

func (b *Box) Draw(screen tcell.Screen) {
	b.DrawForSubclass(screen, b)
}

// DrawForSubclass clears the bounds and draws the frame for p, the primitive
// embedding b. The content area is recomputed and b is marked clean.
func (b *Box) DrawForSubclass(screen tcell.Screen, p Primitive) {
	r := b.bounds
	if r.Empty() {
		return
	}

	fill(screen, r.X, r.Y, r.Width, r.Height, tcell.StyleDefault.Background(b.background))
	drawFrame(screen, r.X, r.Y, r.Width, r.Height, b.frame.set, b.frame.borders, b.frame.style)
	if b.frame.title != "" && r.Width >= 4 {
		Print(screen, b.frame.title, r.X+1, r.Y, r.Width-2, b.frame.titleAlign, b.frame.titleStyle)
	}

	b.innerValid = false
	b.GetInnerRect()
	b.MarkClean()
}

func (b *Box) Focus(delegate func(p Primitive)) {
	if !b.hasFocus {
		b.hasFocus = true
		b.MarkDirty()
	}
}

func (b *Box) Blur() {
	if b.hasFocus {
		b.hasFocus = false
		b.MarkDirty()
	}
}

// HasFocus reports whether the box itself holds focus.
func (b *Box) HasFocus() bool {
	return b.hasFocus
}
