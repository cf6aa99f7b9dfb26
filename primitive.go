package dragview

import "github.com/gdamore/tcell/v2"

// Primitive is anything the application can lay out, draw and route events
// to. Embed *Box to get the defaults.
type Primitive interface {
	Draw(screen tcell.Screen)

	GetRect() (int, int, int, int)
	SetRect(x, y, width, height int)

	// InputHandler receives key events while the primitive has focus.
	InputHandler(event *tcell.EventKey) Command
	// MouseHandler receives mouse actions. A non-nil capture primitive gets
	// every following action until it stops returning itself.
	MouseHandler(action MouseAction, event *tcell.EventMouse) (capture Primitive, cmd Command)

	// HasFocus is true if the primitive or one of its children has focus.
	HasFocus() bool
	// Focus gives focus to the primitive, which may hand it to a child
	// through delegate.
	Focus(delegate func(p Primitive))
	Blur()
}

// Animated is implemented by primitives that move on their own. The
// application keeps drawing frames while Animating returns true.
type Animated interface {
	Animating() bool
}
