package render

import "github.com/gdamore/tcell/v2"

// RGB stores explicit 8-bit color channels
type RGB struct {
	R, G, B uint8
}

// Palette
var (
	RGBBlack      = RGB{0, 0, 0}
	RGBWhite      = RGB{255, 255, 255}
	RgbBackground = RGB{16, 16, 28}
	RgbBorder     = RGB{70, 70, 110}
	RgbStatus     = RGB{150, 200, 255}
	RgbSprite     = RGB{220, 220, 220}
)

// Blend performs alpha blending: result = src*alpha + dst*(1-alpha)
func (dst RGB) Blend(src RGB, alpha float64) RGB {
	if alpha <= 0 {
		return dst
	}
	if alpha >= 1 {
		return src
	}
	inv := 1.0 - alpha
	return RGB{
		R: uint8(float64(src.R)*alpha + float64(dst.R)*inv),
		G: uint8(float64(src.G)*alpha + float64(dst.G)*inv),
		B: uint8(float64(src.B)*alpha + float64(dst.B)*inv),
	}
}

// Color converts to a tcell true color
func (c RGB) Color() tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// ParseColor resolves a W3C color name or #rrggbb value, falling back to def
func ParseColor(name string, def RGB) RGB {
	if name == "" {
		return def
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return def
	}
	r, g, b := c.RGB()
	if r < 0 {
		return def
	}
	return RGB{uint8(r), uint8(g), uint8(b)}
}
