package dragview

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/xqrs/dragview/drag"
)

var (
	// DoubleClickInterval is the longest gap between two clicks that still
	// counts as a double click.
	DoubleClickInterval = 500 * time.Millisecond

	// LongPressInterval is how long the primary button must be held still
	// before a long press is reported.
	LongPressInterval = 500 * time.Millisecond
)

// MouseAction is a logical mouse action derived from raw button state.
type MouseAction int16

const (
	MouseMove MouseAction = iota
	MouseLeftDown
	MouseLeftUp
	MouseLeftClick
	MouseLeftDoubleClick
	MouseLeftLongPress
	MouseMiddleDown
	MouseMiddleUp
	MouseMiddleClick
	MouseMiddleDoubleClick
	MouseRightDown
	MouseRightUp
	MouseRightClick
	MouseRightDoubleClick
	MouseScrollUp
	MouseScrollDown
	MouseScrollLeft
	MouseScrollRight
)

type buttonActions struct {
	button                       tcell.ButtonMask
	down, up, click, doubleClick MouseAction
}

var buttons = []buttonActions{
	{tcell.ButtonPrimary, MouseLeftDown, MouseLeftUp, MouseLeftClick, MouseLeftDoubleClick},
	{tcell.ButtonMiddle, MouseMiddleDown, MouseMiddleUp, MouseMiddleClick, MouseMiddleDoubleClick},
	{tcell.ButtonSecondary, MouseRightDown, MouseRightUp, MouseRightClick, MouseRightDoubleClick},
}

var wheels = []struct {
	mask   tcell.ButtonMask
	action MouseAction
}{
	{tcell.WheelUp, MouseScrollUp},
	{tcell.WheelDown, MouseScrollDown},
	{tcell.WheelLeft, MouseScrollLeft},
	{tcell.WheelRight, MouseScrollRight},
}

// mouseState is what the application remembers between mouse events.
type mouseState struct {
	// Receives every action until a handler stops returning it.
	capture Primitive

	pos       drag.Point
	downAt    drag.Point
	buttons   tcell.ButtonMask
	lastClick time.Time

	// pressSeq identifies the current primary press so a stale long press
	// timer can tell it lost the race. longPressed suppresses the click that
	// would otherwise follow the release.
	pressSeq    uint64
	longPressed bool
}

// handleMouse derives actions from event, delivers them and records the
// button state. It reports whether a redraw is needed.
func (a *Application) handleMouse(event *tcell.EventMouse) bool {
	m := &a.mouse
	x, y := event.Position()
	pos := drag.Point{X: x, Y: y}
	pressed := event.Buttons()
	changed := pressed ^ m.buttons

	d := delivery{app: a, event: event}
	if pos != m.pos {
		d.fire(MouseMove)
		m.pos = pos
	}

	wentDown := false
	for _, b := range buttons {
		switch {
		case changed&b.button == 0:
		case pressed&b.button != 0:
			d.fire(b.down)
			wentDown = true
			if b.button == tcell.ButtonPrimary {
				a.armLongPress(pos)
			}
		default:
			d.fire(b.up)
			if b.button == tcell.ButtonPrimary {
				m.pressSeq++
				if m.longPressed {
					m.longPressed = false
					continue
				}
			}
			if pos != m.downAt {
				continue
			}
			now := time.Now()
			if now.Sub(m.lastClick) > DoubleClickInterval {
				d.fire(b.click)
				m.lastClick = now
			} else {
				d.fire(b.doubleClick)
				m.lastClick = time.Time{}
			}
		}
	}

	for _, w := range wheels {
		if pressed&w.mask != 0 {
			d.fire(w.action)
		}
	}

	m.buttons = pressed
	if wentDown {
		m.downAt = pos
	}
	return d.redraw
}

// delivery sends the actions of one raw event to a single target: the
// capturing primitive if any, otherwise the root.
type delivery struct {
	app    *Application
	event  *tcell.EventMouse
	target Primitive
	redraw bool
}

func (d *delivery) fire(action MouseAction) {
	a := d.app
	switch {
	case a.mouse.capture != nil:
		d.target = a.mouse.capture
	case d.target == nil:
		a.RLock()
		d.target = a.root
		a.RUnlock()
	}
	if d.target == nil {
		return
	}
	capture, cmd := d.target.MouseHandler(action, d.event)
	a.mouse.capture = capture
	if a.executeCommand(cmd) {
		d.redraw = true
	}
}

// armLongPress reports a long press at pos once LongPressInterval has passed,
// unless the button was released or the pointer moved first.
func (a *Application) armLongPress(pos drag.Point) {
	a.mouse.pressSeq++
	a.mouse.longPressed = false
	seq := a.mouse.pressSeq
	time.AfterFunc(LongPressInterval, func() {
		a.queue(func() {
			m := &a.mouse
			if seq != m.pressSeq || m.buttons&tcell.ButtonPrimary == 0 || m.pos != pos {
				return
			}
			m.longPressed = true
			d := delivery{app: a, event: tcell.NewEventMouse(pos.X, pos.Y, tcell.ButtonPrimary, tcell.ModNone)}
			d.fire(MouseLeftLongPress)
			if d.redraw {
				a.draw()
			}
		})
	})
}
