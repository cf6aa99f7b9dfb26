package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/xqrs/dragview"
	"github.com/xqrs/dragview/keybind"
	"github.com/xqrs/dragview/policy"
)

// picker is a centered panel listing the reorder policies.
type picker struct {
	*dragview.Box
	panel *dragview.Box

	kinds    []policy.Kind
	cursor   int
	selected policy.Kind

	up, down, choose, close keybind.Keybind

	onSelect func(policy.Kind)
	onClose  func()
}

func newPicker() *picker {
	p := &picker{
		Box:    dragview.NewBox(),
		panel:  dragview.NewBox(),
		kinds:  policy.Kinds(),
		up:     keybind.NewKeybind(keybind.WithKeys("up", "k")),
		down:   keybind.NewKeybind(keybind.WithKeys("down", "j")),
		choose: keybind.NewKeybind(keybind.WithKeys("enter", "space")),
		close:  keybind.NewKeybind(keybind.WithKeys("esc", "p")),
	}
	p.panel.SetBorders(dragview.BordersAll).
		SetBorderSet(dragview.BorderSetRound()).
		SetTitle(" Reorder policy ").
		SetBorderPadding(0, 0, 1, 1)
	return p
}

// SetSelected marks kind as the active policy and moves the cursor to it.
func (p *picker) SetSelected(kind policy.Kind) {
	p.selected = kind
	for i, k := range p.kinds {
		if k == kind {
			p.cursor = i
		}
	}
	p.MarkDirty()
}

func (p *picker) Draw(screen tcell.Screen) {
	x, y, width, height := p.GetRect()
	panelWidth := min(30, width)
	panelHeight := min(len(p.kinds)+2, height)
	p.panel.SetRect(x+(width-panelWidth)/2, y+(height-panelHeight)/2, panelWidth, panelHeight)
	p.panel.Draw(screen)

	ix, iy, iw, ih := p.panel.GetInnerRect()
	for i, kind := range p.kinds {
		if i >= ih {
			break
		}
		style := tcell.StyleDefault.Foreground(dragview.Styles.PrimaryTextColor).Background(dragview.Styles.PrimitiveBackgroundColor)
		if i == p.cursor {
			style = style.Reverse(true)
		}
		mark := "( )"
		if kind == p.selected {
			mark = "(•)"
		}
		dragview.Print(screen, fmt.Sprintf("%s %d %s", mark, i+1, kind), ix, iy+i, iw, dragview.AlignmentLeft, style)
	}
}

func (p *picker) InputHandler(event *tcell.EventKey) dragview.Command {
	switch {
	case keybind.Matches(event, p.up):
		p.cursor = max(p.cursor-1, 0)
	case keybind.Matches(event, p.down):
		p.cursor = min(p.cursor+1, len(p.kinds)-1)
	case keybind.Matches(event, p.choose):
		p.pick(p.cursor)
	case keybind.Matches(event, p.close):
		if p.onClose != nil {
			p.onClose()
		}
	default:
		if event.Key() == tcell.KeyRune {
			if n := int(event.Rune() - '1'); n >= 0 && n < len(p.kinds) {
				p.pick(n)
			}
		}
	}
	return dragview.RedrawCommand{}
}

func (p *picker) MouseHandler(action dragview.MouseAction, event *tcell.EventMouse) (dragview.Primitive, dragview.Command) {
	if action != dragview.MouseLeftClick {
		return nil, nil
	}
	x, y := event.Position()
	if !p.panel.InInnerRect(x, y) {
		if !p.panel.InRect(x, y) && p.onClose != nil {
			p.onClose()
		}
		return nil, dragview.RedrawCommand{}
	}
	_, iy, _, _ := p.panel.GetInnerRect()
	if n := y - iy; n >= 0 && n < len(p.kinds) {
		p.pick(n)
	}
	return nil, dragview.RedrawCommand{}
}

func (p *picker) pick(n int) {
	p.cursor = n
	p.selected = p.kinds[n]
	if p.onSelect != nil {
		p.onSelect(p.selected)
	}
}
