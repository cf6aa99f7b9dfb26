// Package keybind matches tcell key events against configurable key strings
// such as "ctrl+c", "esc", "pgdn" or "k".
package keybind

import (
	"slices"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Keybind is a set of equivalent key strings ("ctrl+c", "esc", "1") with the
// help entry shown for them. A disabled keybind never matches and is left out
// of help.
type Keybind struct {
	chords   []chord
	help     Help
	disabled bool
}

type Help struct {
	Key  string
	Desc string
}

type Option func(*Keybind)

func NewKeybind(options ...Option) Keybind {
	var k Keybind
	for _, option := range options {
		option(&k)
	}
	return k
}

// WithKeys sets the keys. Unparseable keys are dropped.
func WithKeys(keys ...string) Option {
	return func(k *Keybind) {
		k.SetKeys(keys...)
	}
}

func WithHelp(key, desc string) Option {
	return func(k *Keybind) {
		k.SetHelp(key, desc)
	}
}

// WithDisabled creates the keybind disabled.
func WithDisabled() Option {
	return func(k *Keybind) {
		k.disabled = true
	}
}

// Keys returns the keys in canonical form.
func (k Keybind) Keys() []string {
	keys := make([]string, len(k.chords))
	for i, c := range k.chords {
		keys[i] = c.String()
	}
	return keys
}

func (k *Keybind) SetKeys(keys ...string) {
	k.chords = nil
	for _, key := range keys {
		if c, ok := parseChord(key); ok {
			k.chords = append(k.chords, c)
		}
	}
}

func (k Keybind) Help() Help {
	return k.help
}

func (k *Keybind) SetHelp(key, desc string) {
	k.help = Help{Key: key, Desc: desc}
}

func (k Keybind) Enabled() bool {
	return !k.disabled
}

func (k *Keybind) SetEnabled(enabled bool) {
	k.disabled = !enabled
}

// Matches reports whether event matches any enabled keybind.
func Matches(event *tcell.EventKey, keybinds ...Keybind) bool {
	if event == nil {
		return false
	}
	c := eventChord(event)
	for _, keybind := range keybinds {
		if keybind.Enabled() && slices.Contains(keybind.chords, c) {
			return true
		}
	}
	return false
}

type modifiers uint8

const (
	modCtrl modifiers = 1 << iota
	modAlt
	modShift
	modMeta
)

// Canonical modifier order.
var modifierNames = []struct {
	mod  modifiers
	name string
}{
	{modCtrl, "ctrl"},
	{modAlt, "alt"},
	{modShift, "shift"},
	{modMeta, "meta"},
}

// chord is one key with its modifiers. Two chords are equal iff they name the
// same key press.
type chord struct {
	mods modifiers
	key  string
}

func (c chord) String() string {
	var b strings.Builder
	for _, m := range modifierNames {
		if c.mods&m.mod != 0 {
			b.WriteString(m.name)
			b.WriteByte('+')
		}
	}
	b.WriteString(c.key)
	return b.String()
}

var keyAliases = map[string]string{
	"escape":   "esc",
	"return":   "enter",
	"pageup":   "pgup",
	"pagedown": "pgdn",
	"del":      "delete",
	"ins":      "insert",
}

// parseChord reads "mod+mod+key". It also accepts tcell's "Ctrl-X" and
// "Rune[x]" names.
func parseChord(s string) (chord, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "Rune[") && strings.HasSuffix(s, "]") && len(s) > len("Rune[]") {
		return chord{key: s[len("Rune[") : len(s)-1]}, true
	}
	if lower := strings.ToLower(s); strings.HasPrefix(lower, "ctrl-") && len(s) > len("ctrl-") {
		s = "ctrl+" + s[len("ctrl-"):]
	}

	var c chord
	for part := range strings.SplitSeq(s, "+") {
		part = strings.TrimSpace(part)
		switch strings.ToLower(part) {
		case "":
		case "ctrl", "control":
			c.mods |= modCtrl
		case "alt":
			c.mods |= modAlt
		case "shift":
			c.mods |= modShift
		case "meta":
			c.mods |= modMeta
		default:
			c.key = part
		}
	}
	if c.key == "" {
		return chord{}, false
	}
	return c.normalized(), true
}

func (c chord) normalized() chord {
	if len([]rune(c.key)) == 1 {
		if c.mods != 0 {
			c.key = strings.ToLower(c.key)
		}
		return c
	}
	c.key = strings.ToLower(c.key)
	if alias, ok := keyAliases[c.key]; ok {
		c.key = alias
	}
	if c.key == "backtab" {
		c.mods |= modShift
		c.key = "tab"
	}
	return c
}

var keyNames = map[tcell.Key]string{
	tcell.KeyEnter:      "enter",
	tcell.KeyEscape:     "esc",
	tcell.KeyTab:        "tab",
	tcell.KeyHome:       "home",
	tcell.KeyEnd:        "end",
	tcell.KeyUp:         "up",
	tcell.KeyDown:       "down",
	tcell.KeyLeft:       "left",
	tcell.KeyRight:      "right",
	tcell.KeyPgUp:       "pgup",
	tcell.KeyPgDn:       "pgdn",
	tcell.KeyDelete:     "delete",
	tcell.KeyInsert:     "insert",
	tcell.KeyBackspace:  "backspace",
	tcell.KeyBackspace2: "backspace",
}

func eventChord(event *tcell.EventKey) chord {
	var mods modifiers
	m := event.Modifiers()
	if m&tcell.ModCtrl != 0 {
		mods |= modCtrl
	}
	if m&tcell.ModAlt != 0 {
		mods |= modAlt
	}
	if m&tcell.ModShift != 0 {
		mods |= modShift
	}
	if m&tcell.ModMeta != 0 {
		mods |= modMeta
	}

	// Tab, enter and backspace share codes with ctrl+i, ctrl+m and ctrl+h,
	// so named keys are looked up first.
	key := event.Key()
	if name, ok := keyNames[key]; ok {
		return chord{mods: mods, key: name}
	}
	switch {
	case key == tcell.KeyBacktab:
		return chord{mods: mods | modShift, key: "tab"}
	case key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ:
		return chord{mods: modCtrl, key: string(rune('a' + (key - tcell.KeyCtrlA)))}
	case key == tcell.KeyRune:
		// The rune already carries the case.
		c := chord{mods: mods &^ modShift, key: string(event.Rune())}
		if c.key == " " {
			c.key = "space"
		}
		return c.normalized()
	}
	if c, ok := parseChord(event.Name()); ok {
		return c
	}
	return chord{}
}
