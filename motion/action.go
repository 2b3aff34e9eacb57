package motion

import "time"

// ActionKind is the closed set of path actions
type ActionKind uint8

const (
	ActionNone ActionKind = iota
	// ActionBullets starts a bullet pattern at the owner's position
	ActionBullets
)

// Action is a delayed effect attached to a path
type Action struct {
	Kind    ActionKind
	Delay   time.Duration
	Bullet  string // bullet descriptor name
	Pattern *PatternBuilder
}

// MirrorX returns a copy whose pattern angles are reflected across the vertical axis
func (a Action) MirrorX() Action {
	if a.Pattern != nil {
		a.Pattern = a.Pattern.MirrorX()
	}
	return a
}

// MirrorY returns a copy whose pattern angles are reflected across the horizontal axis
func (a Action) MirrorY() Action {
	if a.Pattern != nil {
		a.Pattern = a.Pattern.MirrorY()
	}
	return a
}
