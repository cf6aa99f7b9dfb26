package dragview

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

type Alignment int

const (
	AlignmentLeft Alignment = iota
	AlignmentCenter
	AlignmentRight
)

// setContenter is the part of tcell.Screen needed to put cells.
type setContenter interface {
	SetContent(x int, y int, primary rune, combining []rune, style tcell.Style)
}

// Print prints text onto the screen into the given box at (x,y,maxWidth,1),
// not exceeding that box, and returns the width actually printed. Text that
// does not fit is cut at a grapheme cluster boundary.
func Print(screen setContenter, text string, x, y, maxWidth int, alignment Alignment, style tcell.Style) int {
	if maxWidth <= 0 || text == "" {
		return 0
	}

	textWidth := uniseg.StringWidth(text)
	switch alignment {
	case AlignmentCenter:
		if textWidth < maxWidth {
			x += (maxWidth - textWidth) / 2
		}
	case AlignmentRight:
		if textWidth < maxWidth {
			x += maxWidth - textWidth
		}
	}

	printed := 0
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		runes := gr.Runes()
		width := gr.Width()
		if width <= 0 {
			continue
		}
		if printed+width > maxWidth {
			break
		}
		var combining []rune
		if len(runes) > 1 {
			combining = runes[1:]
		}
		screen.SetContent(x+printed, y, runes[0], combining, style)
		printed += width
	}
	return printed
}

// fill paints a rectangle with blanks in the given style.
func fill(screen setContenter, x, y, width, height int, style tcell.Style) {
	for cy := y; cy < y+height; cy++ {
		for cx := x; cx < x+width; cx++ {
			screen.SetContent(cx, cy, ' ', nil, style)
		}
	}
}
