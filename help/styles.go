package help

import (
	"github.com/gdamore/tcell/v2"

	"github.com/xqrs/dragview"
)

// Styles are shared by the short and the full help.
type Styles struct {
	Key       tcell.Style
	Desc      tcell.Style
	Separator tcell.Style
	Ellipsis  tcell.Style
}

// DefaultStyles derives help styles from the application theme.
func DefaultStyles() Styles {
	base := tcell.StyleDefault.Background(dragview.Styles.PrimitiveBackgroundColor)
	muted := base.Foreground(dragview.Styles.TertiaryTextColor).Dim(true)
	return Styles{
		Key:       base.Foreground(dragview.Styles.SecondaryTextColor),
		Desc:      base.Foreground(dragview.Styles.PrimaryTextColor),
		Separator: muted,
		Ellipsis:  muted,
	}
}
