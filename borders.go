package dragview

import "github.com/gdamore/tcell/v2"

// BorderSet defines the runes used to frame a rectangle.
type BorderSet struct {
	Top         rune
	Bottom      rune
	Left        rune
	Right       rune
	TopLeft     rune
	TopRight    rune
	BottomLeft  rune
	BottomRight rune
}

func BorderSetPlain() BorderSet {
	return BorderSet{
		Top:         '─',
		Bottom:      '─',
		Left:        '│',
		Right:       '│',
		TopLeft:     '┌',
		TopRight:    '┐',
		BottomLeft:  '└',
		BottomRight: '┘',
	}
}

func BorderSetRound() BorderSet {
	b := BorderSetPlain()
	b.TopLeft = '╭'
	b.TopRight = '╮'
	b.BottomLeft = '╰'
	b.BottomRight = '╯'
	return b
}

func BorderSetThick() BorderSet {
	return BorderSet{
		Top:         '━',
		Bottom:      '━',
		Left:        '┃',
		Right:       '┃',
		TopLeft:     '┏',
		TopRight:    '┓',
		BottomLeft:  '┗',
		BottomRight: '┛',
	}
}

func BorderSetDouble() BorderSet {
	return BorderSet{
		Top:         '═',
		Bottom:      '═',
		Left:        '║',
		Right:       '║',
		TopLeft:     '╔',
		TopRight:    '╗',
		BottomLeft:  '╚',
		BottomRight: '╝',
	}
}

// BorderSetByName returns the border set with the given name: plain, round,
// thick, or double. Unknown names yield the plain set and false.
func BorderSetByName(name string) (BorderSet, bool) {
	switch name {
	case "plain", "":
		return BorderSetPlain(), true
	case "round":
		return BorderSetRound(), true
	case "thick":
		return BorderSetThick(), true
	case "double":
		return BorderSetDouble(), true
	}
	return BorderSetPlain(), false
}

type Borders uint

const (
	BordersTop Borders = 1 << iota
	BordersBottom
	BordersLeft
	BordersRight

	BordersNone Borders = 0
	BordersAll  Borders = BordersTop | BordersBottom | BordersLeft | BordersRight
)

func (b Borders) Has(flag Borders) bool {
	return b&flag == flag
}

// drawFrame draws the borders of the rectangle with the given set. Rectangles
// lower than two rows get side bars only, so a one-line row still reads as
// framed.
func drawFrame(screen setContenter, x, y, width, height int, set BorderSet, borders Borders, style tcell.Style) {
	if width < 2 || height < 1 || borders == BordersNone {
		return
	}
	if height < 2 {
		if borders.Has(BordersLeft) {
			screen.SetContent(x, y, set.Left, nil, style)
		}
		if borders.Has(BordersRight) {
			screen.SetContent(x+width-1, y, set.Right, nil, style)
		}
		return
	}

	right, bottom := x+width-1, y+height-1
	if borders.Has(BordersTop) {
		for cx := x + 1; cx < right; cx++ {
			screen.SetContent(cx, y, set.Top, nil, style)
		}
	}
	if borders.Has(BordersBottom) {
		for cx := x + 1; cx < right; cx++ {
			screen.SetContent(cx, bottom, set.Bottom, nil, style)
		}
	}
	if borders.Has(BordersLeft) {
		for cy := y + 1; cy < bottom; cy++ {
			screen.SetContent(x, cy, set.Left, nil, style)
		}
	}
	if borders.Has(BordersRight) {
		for cy := y + 1; cy < bottom; cy++ {
			screen.SetContent(right, cy, set.Right, nil, style)
		}
	}
	if borders.Has(BordersTop | BordersLeft) {
		screen.SetContent(x, y, set.TopLeft, nil, style)
	}
	if borders.Has(BordersTop | BordersRight) {
		screen.SetContent(right, y, set.TopRight, nil, style)
	}
	if borders.Has(BordersBottom | BordersLeft) {
		screen.SetContent(x, bottom, set.BottomLeft, nil, style)
	}
	if borders.Has(BordersBottom | BordersRight) {
		screen.SetContent(right, bottom, set.BottomRight, nil, style)
	}
}
