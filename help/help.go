// Package help renders keybind help as a single line or as aligned columns.
package help

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/xqrs/dragview"
	"github.com/xqrs/dragview/keybind"
)

const (
	shortSeparator = " • "
	fullSeparator  = "    "
	ellipsis       = "…"
)

type KeyMap interface {
	// ShortHelp returns keybinds for single-line help.
	ShortHelp() []keybind.Keybind
	// FullHelp returns keybind groups, where each top-level entry is a column.
	FullHelp() [][]keybind.Keybind
}

// Help is a primitive that shows the help entries of a KeyMap. Disabled
// keybinds and keybinds without help text are skipped.
type Help struct {
	*dragview.Box
	Styles Styles

	keyMap  KeyMap
	showAll bool
}

func New() *Help {
	return &Help{
		Box:    dragview.NewBox(),
		Styles: DefaultStyles(),
	}
}

// SetKeyMap sets the key map used by this help primitive.
func (h *Help) SetKeyMap(keyMap KeyMap) *Help {
	h.keyMap = keyMap
	h.MarkDirty()
	return h
}

// SetShowAll switches between the single line and the full columns.
func (h *Help) SetShowAll(showAll bool) *Help {
	h.showAll = showAll
	h.MarkDirty()
	return h
}

func (h *Help) ShowAll() bool {
	return h.showAll
}

// SetStyles sets help styles.
func (h *Help) SetStyles(styles Styles) *Help {
	h.Styles = styles
	h.MarkDirty()
	return h
}

// Height returns the number of lines the help needs at the given width.
func (h *Help) Height(width int) int {
	return len(h.lines(width))
}

// Draw draws this primitive onto the screen.
func (h *Help) Draw(screen tcell.Screen) {
	h.DrawForSubclass(screen, h)

	x, y, width, height := h.GetInnerRect()
	for row, l := range h.lines(width) {
		if row >= height {
			break
		}
		cursor := x
		for _, s := range l.spans {
			if cursor >= x+width {
				break
			}
			cursor += dragview.Print(screen, s.text, cursor, y+row, x+width-cursor, dragview.AlignmentLeft, s.style)
		}
	}
}

func (h *Help) lines(width int) []line {
	if h.keyMap == nil {
		return nil
	}
	if h.showAll {
		return h.fullLines(h.keyMap.FullHelp(), width)
	}
	return []line{h.shortLine(h.keyMap.ShortHelp(), width)}
}

type span struct {
	text  string
	style tcell.Style
}

// line is a run of styled spans with its cell width.
type line struct {
	spans []span
	width int
}

func (l *line) add(text string, style tcell.Style) {
	if text == "" {
		return
	}
	l.spans = append(l.spans, span{text: text, style: style})
	l.width += uniseg.StringWidth(text)
}

// pad adds spaces up to width.
func (l *line) pad(width int, style tcell.Style) {
	if width > l.width {
		l.add(strings.Repeat(" ", width-l.width), style)
	}
}

// addEllipsis appends " …" if it fits within maxWidth.
func (l *line) addEllipsis(maxWidth int, style tcell.Style) {
	if l.width+1+uniseg.StringWidth(ellipsis) <= maxWidth {
		l.add(" ", style)
		l.add(ellipsis, style)
	}
}

func (l line) String() string {
	var b strings.Builder
	for _, s := range l.spans {
		b.WriteString(s.text)
	}
	return b.String()
}

type entry struct {
	key, desc string
}

func entries(bindings []keybind.Keybind) []entry {
	var out []entry
	for _, kb := range bindings {
		help := kb.Help()
		if !kb.Enabled() || (help.Key == "" && help.Desc == "") {
			continue
		}
		out = append(out, entry{key: help.Key, desc: help.Desc})
	}
	return out
}

// render writes e with its key padded to keyWidth.
func (h *Help) render(l *line, e entry, keyWidth int) {
	start := l.width
	l.add(e.key, h.Styles.Key)
	l.pad(start+keyWidth, h.Styles.Key)
	if e.key != "" && e.desc != "" {
		l.add(" ", h.Styles.Desc)
	}
	l.add(e.desc, h.Styles.Desc)
}

// shortLine joins entries with separators until the next one would not fit
// in maxWidth, then ends with an ellipsis. A maxWidth of zero means no limit.
func (h *Help) shortLine(bindings []keybind.Keybind, maxWidth int) line {
	var l line
	for i, e := range entries(bindings) {
		var item line
		if i > 0 {
			item.add(shortSeparator, h.Styles.Separator)
		}
		h.render(&item, e, 0)
		if maxWidth > 0 && l.width+item.width > maxWidth {
			if i > 0 {
				l.addEllipsis(maxWidth, h.Styles.Ellipsis)
			}
			break
		}
		l.spans = append(l.spans, item.spans...)
		l.width += item.width
	}
	return l
}

type column struct {
	entries  []entry
	keyWidth int
	width    int
}

func newColumn(bindings []keybind.Keybind) column {
	c := column{entries: entries(bindings)}
	for _, e := range c.entries {
		c.keyWidth = max(c.keyWidth, uniseg.StringWidth(e.key))
	}
	for _, e := range c.entries {
		w := c.keyWidth + uniseg.StringWidth(e.desc)
		if e.key != "" && e.desc != "" {
			w++
		}
		c.width = max(c.width, w)
	}
	return c
}

// fullLines lays groups out as columns, left to right, while they fit in
// maxWidth. Dropped columns are marked with an ellipsis on the first line.
func (h *Help) fullLines(groups [][]keybind.Keybind, maxWidth int) []line {
	var columns []column
	for _, group := range groups {
		if c := newColumn(group); len(c.entries) > 0 {
			columns = append(columns, c)
		}
	}
	if len(columns) == 0 {
		return nil
	}

	sepWidth := uniseg.StringWidth(fullSeparator)
	fit, total, rows := 0, 0, 0
	for i, c := range columns {
		w := c.width
		if i > 0 {
			w += sepWidth
		}
		if maxWidth > 0 && total+w > maxWidth {
			break
		}
		fit++
		total += w
		rows = max(rows, len(c.entries))
	}
	if fit == 0 {
		var l line
		l.add(ellipsis, h.Styles.Ellipsis)
		return []line{l}
	}

	lines := make([]line, rows)
	for row := range lines {
		l := &lines[row]
		offset := 0
		for i, c := range columns[:fit] {
			if i > 0 {
				l.pad(offset, h.Styles.Desc)
				l.add(fullSeparator, h.Styles.Separator)
				offset += sepWidth
			}
			if row < len(c.entries) {
				h.render(l, c.entries[row], c.keyWidth)
			}
			offset += c.width
		}
	}
	if fit < len(columns) {
		lines[0].addEllipsis(maxWidth, h.Styles.Ellipsis)
	}
	return lines
}

// FullHelpLines renders groups as they would appear in full mode, as plain
// text.
func (h *Help) FullHelpLines(groups [][]keybind.Keybind, maxWidth int) []string {
	lines := h.fullLines(groups, maxWidth)
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return out
}
