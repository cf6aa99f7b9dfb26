// Package layers stacks primitives on top of each other, drawn back to front.
// An overlay layer dims what is behind it and takes all input while visible.
package layers

import (
	"iter"
	"slices"

	"github.com/gdamore/tcell/v2"

	"github.com/xqrs/dragview"
)

type layer struct {
	name    string
	item    dragview.Primitive
	resize  bool // fill the container's inner rect on draw
	visible bool
	overlay bool
}

// Layers holds named layers. The last added layer is in front.
type Layers struct {
	*dragview.Box

	stack []*layer
	// Applied to every layer behind the front-most visible overlay.
	behindOverlay tcell.Style

	delegate func(p dragview.Primitive)
	changed  func()
}

// Option configures a layer in AddLayer.
type Option func(*layer)

func WithName(name string) Option {
	return func(l *layer) { l.name = name }
}

// WithResize makes the layer fill the container's inner rect.
func WithResize(resize bool) Option {
	return func(l *layer) { l.resize = resize }
}

// WithVisible sets whether the layer starts visible. Layers are visible by
// default.
func WithVisible(visible bool) Option {
	return func(l *layer) { l.visible = visible }
}

// WithOverlay dims the layers behind this one and keeps the mouse from
// reaching them while it is visible.
func WithOverlay() Option {
	return func(l *layer) { l.overlay = true }
}

func New() *Layers {
	return &Layers{
		Box:           dragview.NewBox(),
		behindOverlay: tcell.StyleDefault.Dim(true),
	}
}

// SetChangedFunc sets a function called whenever a layer is added, shown or
// hidden.
func (l *Layers) SetChangedFunc(handler func()) *Layers {
	l.changed = handler
	return l
}

// SetBackgroundLayerStyle sets the style merged into layers behind a visible
// overlay.
func (l *Layers) SetBackgroundLayerStyle(style tcell.Style) *Layers {
	l.behindOverlay = style
	l.MarkDirty()
	return l
}

// AddLayer puts item in front of all layers, replacing a layer of the same
// name.
func (l *Layers) AddLayer(item dragview.Primitive, opts ...Option) *Layers {
	added := &layer{item: item, visible: true}
	for _, opt := range opts {
		if opt != nil {
			opt(added)
		}
	}
	if added.name != "" {
		l.stack = slices.DeleteFunc(l.stack, func(existing *layer) bool {
			return existing.name == added.name
		})
	}
	l.stack = append(l.stack, added)
	l.changedLayers()
	return l
}

func (l *Layers) find(name string) *layer {
	i := slices.IndexFunc(l.stack, func(layer *layer) bool { return layer.name == name })
	if i < 0 {
		return nil
	}
	return l.stack[i]
}

// Visible reports whether the named layer exists and is visible.
func (l *Layers) Visible(name string) bool {
	layer := l.find(name)
	return layer != nil && layer.visible
}

// ShowLayer shows the named layer. If it ends up in front, it gets the focus.
func (l *Layers) ShowLayer(name string) *Layers {
	return l.setVisible(name, true)
}

// HideLayer hides the named layer and moves focus to the next visible one.
func (l *Layers) HideLayer(name string) *Layers {
	return l.setVisible(name, false)
}

func (l *Layers) setVisible(name string, visible bool) *Layers {
	layer := l.find(name)
	if layer == nil || layer.visible == visible {
		return l
	}
	layer.visible = visible
	if !visible && layer.item.HasFocus() {
		layer.item.Blur()
	}
	l.changedLayers()
	return l
}

func (l *Layers) changedLayers() {
	l.MarkDirty()
	if l.changed != nil {
		l.changed()
	}
	if l.delegate != nil {
		l.Focus(l.delegate)
	}
}

// frontToBack yields the visible layers with their stack index, front first.
func (l *Layers) frontToBack() iter.Seq2[int, *layer] {
	return func(yield func(int, *layer) bool) {
		for i := len(l.stack) - 1; i >= 0; i-- {
			if l.stack[i].visible && !yield(i, l.stack[i]) {
				return
			}
		}
	}
}

// FrontLayer returns the front-most visible layer, or ("", nil) if every
// layer is hidden.
func (l *Layers) FrontLayer() (name string, item dragview.Primitive) {
	for _, layer := range l.frontToBack() {
		return layer.name, layer.item
	}
	return "", nil
}

// overlayIndex returns the stack index of the front-most visible overlay, or
// -1.
func (l *Layers) overlayIndex() int {
	for i, layer := range l.frontToBack() {
		if layer.overlay {
			return i
		}
	}
	return -1
}

func (l *Layers) HasFocus() bool {
	for _, layer := range l.frontToBack() {
		if layer.item.HasFocus() {
			return true
		}
	}
	return l.Box.HasFocus()
}

// Focus hands focus to the front layer. The delegate is kept so that showing
// or hiding a layer later moves the focus along.
func (l *Layers) Focus(delegate func(p dragview.Primitive)) {
	if delegate == nil {
		return
	}
	l.delegate = delegate
	if _, front := l.FrontLayer(); front != nil {
		delegate(front)
		return
	}
	l.Box.Focus(delegate)
}

// Animating reports whether any visible layer is animating.
func (l *Layers) Animating() bool {
	for _, layer := range l.frontToBack() {
		if a, ok := layer.item.(dragview.Animated); ok && a.Animating() {
			return true
		}
	}
	return false
}

func (l *Layers) Draw(screen tcell.Screen) {
	l.DrawForSubclass(screen, l)

	overlay := l.overlayIndex()
	dimmed := &styledScreen{Screen: screen, style: l.behindOverlay}
	for i, layer := range l.stack {
		if !layer.visible {
			continue
		}
		if layer.resize {
			layer.item.SetRect(l.GetInnerRect())
		}
		if i < overlay {
			layer.item.Draw(dimmed)
		} else {
			layer.item.Draw(screen)
		}
	}
}

// InputHandler sends key events to the front-most visible layer holding
// focus.
func (l *Layers) InputHandler(event *tcell.EventKey) dragview.Command {
	for _, layer := range l.frontToBack() {
		if layer.item.HasFocus() {
			return layer.item.InputHandler(event)
		}
	}
	return nil
}

// MouseHandler offers the action to visible layers front to back and stops at
// the first that captures or returns a command. Layers behind a visible
// overlay are never asked.
func (l *Layers) MouseHandler(action dragview.MouseAction, event *tcell.EventMouse) (dragview.Primitive, dragview.Command) {
	overlay := l.overlayIndex()
	for i, layer := range l.frontToBack() {
		if i < overlay {
			break
		}
		if capture, cmd := layer.item.MouseHandler(action, event); capture != nil || cmd != nil {
			return capture, cmd
		}
	}
	return nil, nil
}

var (
	_ dragview.Primitive = (*Layers)(nil)
	_ dragview.Animated  = (*Layers)(nil)
)

// styledScreen merges style into every cell written through it.
type styledScreen struct {
	tcell.Screen
	style tcell.Style
}

func (s *styledScreen) SetContent(x int, y int, primary rune, combining []rune, style tcell.Style) {
	s.Screen.SetContent(x, y, primary, combining, applyBackgroundStyle(style, s.style))
}

// applyBackgroundStyle merges overlay into base. Colors that are set replace
// the base colors and attributes are added.
func applyBackgroundStyle(base tcell.Style, overlay tcell.Style) tcell.Style {
	fg, bg, attrs := overlay.Decompose()
	if fg != tcell.ColorDefault {
		base = base.Foreground(fg)
	}
	if bg != tcell.ColorDefault {
		base = base.Background(bg)
	}
	_, _, baseAttrs := base.Decompose()
	return base.Attributes(baseAttrs | attrs)
}
