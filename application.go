package dragview

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
)

const (
	// Capacity of the event and update queues.
	queueSize = 100
	// Resize events closer together than this are coalesced.
	resizePause = 50 * time.Millisecond
)

// update is a function queued to run on the event loop. done, if set,
// is closed after f returns.
type update struct {
	f    func()
	done chan struct{}
}

// Application owns the screen and runs the event loop. All primitive state is
// touched from the loop goroutine only; other goroutines go through
// QueueUpdate.
//
//	app := dragview.NewApplication().SetRoot(list)
//	if err := app.Run(); err != nil {
//		log.Fatal(err)
//	}
type Application struct {
	sync.RWMutex

	screen tcell.Screen
	root   Primitive
	focus  Primitive

	events  chan tcell.Event
	updates chan update
	quit    chan struct{}

	mouse  mouseState
	frames frameScheduler

	lastResize  time.Time
	resizeTimer *time.Timer

	logger *slog.Logger
}

func NewApplication() *Application {
	return &Application{
		events:  make(chan tcell.Event, queueSize),
		updates: make(chan update, queueSize),
		quit:    make(chan struct{}),
		logger:  slog.Default(),
	}
}

// SetLogger sets the logger for event loop diagnostics. A nil logger is
// ignored.
func (a *Application) SetLogger(logger *slog.Logger) *Application {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// SetScreen sets an uninitialized screen to run on. Without one, Run creates
// a terminal screen.
func (a *Application) SetScreen(screen tcell.Screen) *Application {
	a.Lock()
	defer a.Unlock()
	if a.screen == nil {
		a.screen = screen
	}
	return a
}

// Run initializes the screen and processes events until Stop is called or the
// terminal reports an error.
func (a *Application) Run() error {
	screen, err := a.initScreen()
	if err != nil {
		return err
	}

	// A panic would leave the terminal in raw mode.
	defer func() {
		if p := recover(); p != nil {
			a.Stop()
			panic(p)
		}
	}()
	defer a.frames.stop()

	a.draw()
	go a.pollEvents(screen)

	for {
		select {
		case event := <-a.events:
			if event == nil {
				return nil
			}
			if err := a.handleEvent(screen, event); err != nil {
				return err
			}
		case <-a.frames.C():
			a.draw()
			a.frames.prune()
		case u := <-a.updates:
			u.f()
			if u.done != nil {
				close(u.done)
			}
		}
	}
}

func (a *Application) initScreen() (tcell.Screen, error) {
	a.Lock()
	defer a.Unlock()
	if a.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return nil, err
		}
		a.screen = screen
	}
	if err := a.screen.Init(); err != nil {
		return nil, err
	}
	a.screen.EnableMouse(tcell.MouseMotionEvents)
	return a.screen, nil
}

func (a *Application) handleEvent(screen tcell.Screen, event tcell.Event) error {
	switch event := event.(type) {
	case *tcell.EventKey:
		a.RLock()
		root := a.root
		a.RUnlock()
		if root != nil && root.HasFocus() && a.executeCommand(root.InputHandler(event)) {
			a.draw()
		}
	case *tcell.EventMouse:
		if a.handleMouse(event) {
			a.draw()
		}
	case *tcell.EventResize:
		// Replay the last resize of a burst once it settles.
		if time.Since(a.lastResize) < resizePause {
			if a.resizeTimer != nil {
				a.resizeTimer.Stop()
			}
			a.resizeTimer = time.AfterFunc(resizePause, func() {
				a.QueueEvent(event)
			})
		}
		a.lastResize = time.Now()
		screen.Clear()
		a.draw()
	case *tcell.EventError:
		a.logger.Error("terminal event error", "error", event)
		a.Stop()
		return event
	}
	return nil
}

// pollEvents forwards screen events until the screen is finalized.
func (a *Application) pollEvents(screen tcell.Screen) {
	for {
		event := screen.PollEvent()
		select {
		case a.events <- event:
		case <-a.quit:
			return
		}
		if event == nil {
			return
		}
	}
}

// Stop finalizes the screen and makes Run return. Calling it again is a
// no-op.
func (a *Application) Stop() {
	a.Lock()
	defer a.Unlock()
	if a.screen == nil {
		return
	}
	a.screen.Fini()
	a.screen = nil
	close(a.quit)
	select {
	case a.events <- nil:
	default:
	}
}

// Draw schedules a redraw on the event loop and waits for it. It must not be
// called from the loop itself.
func (a *Application) Draw() *Application {
	return a.QueueUpdate(func() { a.draw() })
}

func (a *Application) draw() {
	a.RLock()
	screen, root := a.screen, a.root
	a.RUnlock()
	if screen == nil || root == nil {
		return
	}
	width, height := screen.Size()
	root.SetRect(0, 0, width, height)
	root.Draw(screen)
	screen.Show()
}

// SetRoot sets the primitive filling the screen and focuses it.
func (a *Application) SetRoot(root Primitive) *Application {
	a.Lock()
	a.root = root
	a.Unlock()
	return a.SetFocus(root)
}

// SetFocus blurs the focused primitive and focuses p. p may pass focus on
// through the delegate it receives.
func (a *Application) SetFocus(p Primitive) *Application {
	a.Lock()
	previous := a.focus
	a.focus = p
	if a.screen != nil {
		a.screen.HideCursor()
	}
	a.Unlock()

	if previous != nil {
		previous.Blur()
	}
	if p != nil {
		p.Focus(func(next Primitive) { a.SetFocus(next) })
	}
	return a
}

func (a *Application) GetFocus() Primitive {
	a.RLock()
	defer a.RUnlock()
	return a.focus
}

// QueueUpdate runs f on the event loop and returns once it has run.
func (a *Application) QueueUpdate(f func()) *Application {
	done := make(chan struct{})
	a.updates <- update{f: f, done: done}
	<-done
	return a
}

// QueueUpdateDraw is QueueUpdate followed by a redraw.
func (a *Application) QueueUpdateDraw(f func()) *Application {
	return a.QueueUpdate(func() {
		f()
		a.draw()
	})
}

// queue schedules f on the event loop without waiting.
func (a *Application) queue(f func()) {
	select {
	case a.updates <- update{f: f}:
	case <-a.quit:
	}
}

// QueueEvent injects an event into the loop.
func (a *Application) QueueEvent(event tcell.Event) *Application {
	select {
	case a.events <- event:
	case <-a.quit:
	}
	return a
}

// executeCommand applies cmd and reports whether the screen needs a redraw.
func (a *Application) executeCommand(cmd Command) bool {
	switch c := cmd.(type) {
	case nil:
		return false
	case BatchCommand:
		redraw := false
		for _, item := range c {
			redraw = a.executeCommand(item) || redraw
		}
		return redraw
	case RedrawCommand:
		return true
	case QuitCommand:
		a.Stop()
		return false
	case SetFocusCommand:
		if c.Target == nil || c.Target == a.GetFocus() {
			return false
		}
		a.SetFocus(c.Target)
		return true
	case AnimateCommand:
		a.frames.add(c.Source)
		return true
	default:
		a.logger.Debug("unknown command", "command", cmd)
		return false
	}
}
