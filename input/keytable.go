package input

import (
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/danmaku/event"
)

// Behavior classifies how a terminal key press becomes key transitions
type Behavior uint8

const (
	// BehaviorHold keys stay pressed while the terminal auto-repeats them
	BehaviorHold Behavior = iota
	// BehaviorToggle keys flip between pressed and released on every press
	BehaviorToggle
	// BehaviorTap keys emit a press immediately followed by a release
	BehaviorTap
)

// Binding maps a terminal key to a game key
type Binding struct {
	Key      event.Key
	Behavior Behavior
}

// KeyTable maps terminal keys to game keys
type KeyTable struct {
	Special map[tcell.Key]Binding
	Runes   map[rune]Binding
}

// DefaultKeyTable returns the default bindings
// Terminals repeat only the most recent key, so fire and focus toggle instead of hold
func DefaultKeyTable() *KeyTable {
	return &KeyTable{
		Special: map[tcell.Key]Binding{
			tcell.KeyLeft:   {event.KeyLeft, BehaviorHold},
			tcell.KeyRight:  {event.KeyRight, BehaviorHold},
			tcell.KeyUp:     {event.KeyUp, BehaviorHold},
			tcell.KeyDown:   {event.KeyDown, BehaviorHold},
			tcell.KeyEscape: {event.KeyQuit, BehaviorTap},
			tcell.KeyCtrlC:  {event.KeyQuit, BehaviorTap},
		},
		Runes: map[rune]Binding{
			'h': {event.KeyLeft, BehaviorHold},
			'l': {event.KeyRight, BehaviorHold},
			'k': {event.KeyUp, BehaviorHold},
			'j': {event.KeyDown, BehaviorHold},
			'z': {event.KeyFire, BehaviorToggle},
			'x': {event.KeyFocus, BehaviorToggle},
			'p': {event.KeyPause, BehaviorTap},
			'q': {event.KeyQuit, BehaviorTap},
		},
	}
}

// Lookup resolves a terminal key event
func (t *KeyTable) Lookup(ev *tcell.EventKey) (Binding, bool) {
	if ev.Key() == tcell.KeyRune {
		b, ok := t.Runes[unicode.ToLower(ev.Rune())]
		return b, ok
	}
	b, ok := t.Special[ev.Key()]
	return b, ok
}
