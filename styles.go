package dragview

import "github.com/gdamore/tcell/v2"

// Theme defines the colors used when primitives are initialized.
type Theme struct {
	PrimitiveBackgroundColor tcell.Color // Main background color for primitives.
	ContrastBackgroundColor  tcell.Color // Background color for contrasting elements.
	BorderColor              tcell.Color // Box borders.
	TitleColor               tcell.Color // Box titles.
	PrimaryTextColor         tcell.Color // Primary text.
	SecondaryTextColor       tcell.Color // Secondary text (e.g. labels).
	TertiaryTextColor        tcell.Color // Tertiary text (e.g. subtitles, notes).
	HoverTextColor           tcell.Color // Text of the dragged item's hover cell.
	HoverBackgroundColor     tcell.Color // Background of the hover cell.
	HoverBorderColor         tcell.Color // Frame drawn around the hover cell.
}

// Styles defines the theme for applications. The default is for a black
// background and some basic colors: black, white, yellow, green, and blue.
var Styles = Theme{
	PrimitiveBackgroundColor: tcell.ColorBlack,
	ContrastBackgroundColor:  tcell.ColorBlue,
	BorderColor:              tcell.ColorWhite,
	TitleColor:               tcell.ColorWhite,
	PrimaryTextColor:         tcell.ColorWhite,
	SecondaryTextColor:       tcell.ColorYellow,
	TertiaryTextColor:        tcell.ColorGreen,
	HoverTextColor:           tcell.ColorBlack,
	HoverBackgroundColor:     tcell.ColorYellow,
	HoverBorderColor:         tcell.ColorBlack,
}
