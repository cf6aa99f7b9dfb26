package dragview

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mouseRecorder records the mouse actions it receives.
type mouseRecorder struct {
	*Box
	actions   []MouseAction
	captureOn MouseAction
	animating bool
}

func newMouseRecorder() *mouseRecorder {
	return &mouseRecorder{Box: NewBox(), captureOn: -1}
}

func (r *mouseRecorder) MouseHandler(action MouseAction, event *tcell.EventMouse) (Primitive, Command) {
	r.actions = append(r.actions, action)
	if action == r.captureOn {
		return r, RedrawCommand{}
	}
	return nil, nil
}

func (r *mouseRecorder) Animating() bool { return r.animating }

func (r *mouseRecorder) reset() { r.actions = nil }

func newTestApplication(t *testing.T, root Primitive) *Application {
	t.Helper()
	interval := LongPressInterval
	LongPressInterval = 10 * time.Millisecond
	t.Cleanup(func() { LongPressInterval = interval })
	return NewApplication().SetRoot(root)
}

func press(x, y int) *tcell.EventMouse {
	return tcell.NewEventMouse(x, y, tcell.ButtonPrimary, tcell.ModNone)
}

func release(x, y int) *tcell.EventMouse {
	return tcell.NewEventMouse(x, y, tcell.ButtonNone, tcell.ModNone)
}

// runQueued runs the next queued update, failing if none arrives in time.
func runQueued(t *testing.T, a *Application) {
	t.Helper()
	select {
	case u := <-a.updates:
		u.f()
	case <-time.After(time.Second):
		require.FailNow(t, "no update queued")
	}
}

func TestMouseClick(t *testing.T) {
	root := newMouseRecorder()
	a := newTestApplication(t, root)

	a.handleMouse(press(2, 2))
	a.handleMouse(release(2, 2))

	assert.Equal(t, []MouseAction{MouseMove, MouseLeftDown, MouseLeftUp, MouseLeftClick}, root.actions)
}

func TestMouseDoubleClick(t *testing.T) {
	root := newMouseRecorder()
	a := newTestApplication(t, root)

	a.handleMouse(press(2, 2))
	a.handleMouse(release(2, 2))
	root.reset()
	a.handleMouse(press(2, 2))
	a.handleMouse(release(2, 2))

	assert.Equal(t, []MouseAction{MouseLeftDown, MouseLeftUp, MouseLeftDoubleClick}, root.actions)
}

func TestMouseDragIsNotAClick(t *testing.T) {
	root := newMouseRecorder()
	a := newTestApplication(t, root)

	a.handleMouse(press(2, 2))
	a.handleMouse(press(4, 2))
	a.handleMouse(release(4, 2))

	assert.Equal(t, []MouseAction{MouseMove, MouseLeftDown, MouseMove, MouseLeftUp}, root.actions)
}

func TestLongPressFiresWhileHeld(t *testing.T) {
	root := newMouseRecorder()
	a := newTestApplication(t, root)

	a.handleMouse(press(2, 2))
	root.reset()
	runQueued(t, a)
	assert.Equal(t, []MouseAction{MouseLeftLongPress}, root.actions)

	// The release after a long press is not a click.
	root.reset()
	a.handleMouse(release(2, 2))
	assert.Equal(t, []MouseAction{MouseLeftUp}, root.actions)
}

func TestLongPressCancelledByRelease(t *testing.T) {
	root := newMouseRecorder()
	a := newTestApplication(t, root)

	a.handleMouse(press(2, 2))
	a.handleMouse(release(2, 2))
	root.reset()
	runQueued(t, a)

	assert.Empty(t, root.actions)
}

func TestLongPressCancelledByMove(t *testing.T) {
	root := newMouseRecorder()
	a := newTestApplication(t, root)

	a.handleMouse(press(2, 2))
	a.handleMouse(press(3, 2))
	root.reset()
	runQueued(t, a)

	assert.Empty(t, root.actions)
}

func TestMouseCapture(t *testing.T) {
	root := newMouseRecorder()
	root.captureOn = MouseLeftDown
	a := newTestApplication(t, root)

	a.handleMouse(press(2, 2))
	assert.Equal(t, Primitive(root), a.mouse.capture)

	// Released by the next handler returning no capture.
	a.handleMouse(press(3, 2))
	assert.Nil(t, a.mouse.capture)
}

func TestExecuteCommand(t *testing.T) {
	root := newMouseRecorder()
	a := newTestApplication(t, root)
	other := NewBox()

	assert.False(t, a.executeCommand(nil))
	assert.True(t, a.executeCommand(RedrawCommand{}))
	assert.True(t, a.executeCommand(BatchCommand{nil, SetFocusCommand{Target: other}}))
	assert.Equal(t, Primitive(other), a.GetFocus())
	assert.False(t, root.HasFocus())
	assert.False(t, a.executeCommand(SetFocusCommand{Target: other}))
	assert.False(t, a.executeCommand("unknown"))
}

func TestAnimateCommandRunsFramesUntilIdle(t *testing.T) {
	root := newMouseRecorder()
	root.animating = true
	a := newTestApplication(t, root)

	assert.True(t, a.executeCommand(AnimateCommand{Source: root}))
	assert.True(t, a.executeCommand(AnimateCommand{Source: root}))
	require.NotNil(t, a.frames.C())
	assert.Len(t, a.frames.sources, 1)

	a.frames.prune()
	assert.NotNil(t, a.frames.C())

	root.animating = false
	a.frames.prune()
	assert.Nil(t, a.frames.C())
	assert.Empty(t, a.frames.sources)
}

func TestAppendCommand(t *testing.T) {
	assert.Nil(t, AppendCommand(nil, nil))
	assert.Equal(t, RedrawCommand{}, AppendCommand(nil, RedrawCommand{}))
	assert.Equal(t,
		BatchCommand{RedrawCommand{}, QuitCommand{}, RedrawCommand{}},
		AppendCommand(BatchCommand{RedrawCommand{}, QuitCommand{}}, RedrawCommand{}),
	)
}
