package render

import (
	"math"

	"github.com/lixenwraith/danmaku/level"
	"github.com/lixenwraith/danmaku/vmath"
)

// Appearance is how a sprite class is drawn on a terminal
type Appearance struct {
	Glyph rune
	Color RGB
}

// Appearances builds the terminal look of every sprite of a level
func Appearances(sprites map[string]*level.Sprite) map[string]Appearance {
	out := make(map[string]Appearance, len(sprites))
	for name, s := range sprites {
		glyph := s.Glyph
		if glyph == 0 {
			glyph = '?'
		}
		out[name] = Appearance{Glyph: glyph, Color: ParseColor(s.Color, RgbSprite)}
	}
	return out
}

// Frame is the per-frame input of the renderers, built by the caller and passed by pointer
type Frame struct {
	Infos   []Info
	Sprites map[string]Appearance
	Status  string
	Paused  bool

	// Playfield rectangle in cells, inside the border
	View Projection
}

// Projection maps world coordinates (origin at center, +Y up) onto a cell rectangle
type Projection struct {
	X, Y          int // top-left cell
	Width, Height int
	WorldW        float64
	WorldH        float64
}

// NewProjection fits a world of size worldW x worldH into a cell rectangle
func NewProjection(x, y, width, height int, worldW, worldH float64) Projection {
	return Projection{X: x, Y: y, Width: width, Height: height, WorldW: worldW, WorldH: worldH}
}

// Cell returns the cell containing p and whether it lies inside the rectangle
func (p Projection) Cell(pos vmath.Vec2) (int, int, bool) {
	if p.Width <= 0 || p.Height <= 0 {
		return 0, 0, false
	}
	fx := (pos.X + p.WorldW/2) / p.WorldW
	fy := (p.WorldH/2 - pos.Y) / p.WorldH
	cx := int(math.Floor(fx * float64(p.Width)))
	cy := int(math.Floor(fy * float64(p.Height)))
	if cx < 0 || cx >= p.Width || cy < 0 || cy >= p.Height {
		return 0, 0, false
	}
	return p.X + cx, p.Y + cy, true
}

// World returns the world position at the center of cell x, y
func (p Projection) World(x, y int) (vmath.Vec2, bool) {
	cx, cy := x-p.X, y-p.Y
	if p.Width <= 0 || p.Height <= 0 || cx < 0 || cx >= p.Width || cy < 0 || cy >= p.Height {
		return vmath.Vec2{}, false
	}
	wx := (float64(cx)+0.5)/float64(p.Width)*p.WorldW - p.WorldW/2
	wy := p.WorldH/2 - (float64(cy)+0.5)/float64(p.Height)*p.WorldH
	return vmath.V(wx, wy), true
}
