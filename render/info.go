package render

import (
	"github.com/lixenwraith/danmaku/core"
	"github.com/lixenwraith/danmaku/vmath"
)

// Layer is the render phase an entity submitted from
type Layer uint8

const (
	LayerNormal Layer = iota
	LayerCustom
	LayerMenu
)

// Info is the render record of one drawable entity for one frame
type Info struct {
	Entity core.Entity
	Sprite string
	Slot   core.Entity
	Pos    vmath.Vec2
	Layer  Layer
	// Fade blends the sprite towards the background, 0 draws it opaque
	Fade float64
}
