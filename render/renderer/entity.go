package renderer

import (
	"sort"

	"github.com/lixenwraith/danmaku/render"
)

// EntityRenderer draws every submitted render info inside the playfield
// Later layers draw over earlier ones; within a layer higher entity ids win
type EntityRenderer struct {
	order []render.Info
}

func (r *EntityRenderer) Render(f *render.Frame, buf *render.Buffer) {
	r.order = append(r.order[:0], f.Infos...)
	sort.SliceStable(r.order, func(i, j int) bool {
		a, b := r.order[i], r.order[j]
		if a.Layer != b.Layer {
			return a.Layer < b.Layer
		}
		return a.Entity < b.Entity
	})

	for _, info := range r.order {
		x, y, ok := f.View.Cell(info.Pos)
		if !ok {
			continue
		}
		look, ok := f.Sprites[info.Sprite]
		if !ok {
			look = render.Appearance{Glyph: '?', Color: render.RgbSprite}
		}
		fg := look.Color
		if info.Fade > 0 {
			fg = fg.Blend(render.RgbBackground, info.Fade)
		}
		buf.Set(x, y, look.Glyph, fg)
	}
}
