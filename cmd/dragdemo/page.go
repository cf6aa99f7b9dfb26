package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/xqrs/dragview"
	"github.com/xqrs/dragview/help"
	"github.com/xqrs/dragview/keybind"
	"github.com/xqrs/dragview/policy"
)

type pageKeyMap struct {
	list     dragview.ReorderKeyMap
	policies []keybind.Keybind
	picker   keybind.Keybind
	help     keybind.Keybind
	quit     keybind.Keybind
}

func newPageKeyMap(list dragview.ReorderKeyMap) pageKeyMap {
	k := pageKeyMap{
		list:   list,
		picker: keybind.NewKeybind(keybind.WithKeys("p"), keybind.WithHelp("p", "pick policy")),
		help:   keybind.NewKeybind(keybind.WithKeys("?"), keybind.WithHelp("?", "more")),
		quit:   keybind.NewKeybind(keybind.WithKeys("q", "ctrl+c"), keybind.WithHelp("q", "quit")),
	}
	for i := range policy.Kinds() {
		kb := keybind.NewKeybind(keybind.WithKeys(fmt.Sprint(i + 1)))
		if i == 0 {
			kb.SetHelp(fmt.Sprintf("1-%d", len(policy.Kinds())), "policy")
		}
		k.policies = append(k.policies, kb)
	}
	return k
}

func (k pageKeyMap) ShortHelp() []keybind.Keybind {
	short := []keybind.Keybind{k.policies[0], k.picker}
	short = append(short, k.list.ShortHelp()...)
	return append(short, k.help, k.quit)
}

func (k pageKeyMap) FullHelp() [][]keybind.Keybind {
	full := [][]keybind.Keybind{{k.policies[0], k.picker}}
	full = append(full, k.list.FullHelp()...)
	return append(full, []keybind.Keybind{k.help, k.quit})
}

// statusBar shows the active policy and the last mutation.
type statusBar struct {
	*dragview.Box
	text  string
	style tcell.Style
}

func newStatusBar() *statusBar {
	return &statusBar{
		Box:   dragview.NewBox(),
		style: tcell.StyleDefault.Foreground(dragview.Styles.SecondaryTextColor).Background(dragview.Styles.PrimitiveBackgroundColor),
	}
}

func (s *statusBar) SetText(text string) {
	s.text = text
	s.MarkDirty()
}

func (s *statusBar) Draw(screen tcell.Screen) {
	s.DrawForSubclass(screen, s)
	x, y, width, _ := s.GetInnerRect()
	dragview.Print(screen, s.text, x, y, width, dragview.AlignmentLeft, s.style)
}

// page stacks the list, the status bar and the help bar.
type page struct {
	*dragview.Box

	list   *dragview.ReorderList
	status *statusBar
	help   *help.Help
	keys   pageKeyMap

	onPolicy func(policy.Kind)
	onPicker func()
}

func newPage(list *dragview.ReorderList) *page {
	p := &page{
		Box:    dragview.NewBox(),
		list:   list,
		status: newStatusBar(),
		help:   help.New(),
		keys:   newPageKeyMap(list.KeyMap()),
	}
	p.help.SetKeyMap(p.keys)
	return p
}

func (p *page) Draw(screen tcell.Screen) {
	p.DrawForSubclass(screen, p)
	x, y, width, height := p.GetInnerRect()

	helpHeight := min(p.help.Height(width), max(height-2, 0))
	listHeight := max(height-helpHeight-1, 0)

	p.list.SetRect(x, y, width, listHeight)
	p.status.SetRect(x, y+listHeight, width, 1)
	p.help.SetRect(x, y+listHeight+1, width, helpHeight)

	p.list.Draw(screen)
	p.status.Draw(screen)
	p.help.Draw(screen)
}

func (p *page) HasFocus() bool {
	return p.Box.HasFocus() || p.list.HasFocus()
}

func (p *page) Focus(delegate func(dragview.Primitive)) {
	delegate(p.list)
}

func (p *page) Animating() bool {
	return p.list.Animating()
}

func (p *page) InputHandler(event *tcell.EventKey) dragview.Command {
	switch {
	case keybind.Matches(event, p.keys.quit):
		return dragview.QuitCommand{}
	case keybind.Matches(event, p.keys.picker):
		if p.onPicker != nil {
			p.onPicker()
		}
		return dragview.RedrawCommand{}
	case keybind.Matches(event, p.keys.help):
		p.help.SetShowAll(!p.help.ShowAll())
		return dragview.RedrawCommand{}
	}
	for i, kb := range p.keys.policies {
		if keybind.Matches(event, kb) {
			if p.onPolicy != nil {
				p.onPolicy(policy.Kinds()[i])
			}
			return dragview.RedrawCommand{}
		}
	}
	return p.list.InputHandler(event)
}

func (p *page) MouseHandler(action dragview.MouseAction, event *tcell.EventMouse) (dragview.Primitive, dragview.Command) {
	return p.list.MouseHandler(action, event)
}
