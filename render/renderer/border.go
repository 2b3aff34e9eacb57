package renderer

import "github.com/lixenwraith/danmaku/render"

// BorderRenderer frames the playfield
type BorderRenderer struct{}

func (BorderRenderer) Render(f *render.Frame, buf *render.Buffer) {
	v := f.View
	left, right := v.X-1, v.X+v.Width
	top, bottom := v.Y-1, v.Y+v.Height

	for x := left; x <= right; x++ {
		buf.SetWithBg(x, top, '─', render.RgbBorder, render.RgbBackground)
		buf.SetWithBg(x, bottom, '─', render.RgbBorder, render.RgbBackground)
	}
	for y := top; y <= bottom; y++ {
		buf.SetWithBg(left, y, '│', render.RgbBorder, render.RgbBackground)
		buf.SetWithBg(right, y, '│', render.RgbBorder, render.RgbBackground)
	}
	buf.Set(left, top, '┌', render.RgbBorder)
	buf.Set(right, top, '┐', render.RgbBorder)
	buf.Set(left, bottom, '└', render.RgbBorder)
	buf.Set(right, bottom, '┘', render.RgbBorder)
}
