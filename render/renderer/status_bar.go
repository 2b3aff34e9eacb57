package renderer

import (
	"github.com/lixenwraith/danmaku/render"
	"github.com/lixenwraith/danmaku/status"
)

// StatusBarKeys are the metrics shown on the status line, in order
var StatusBarKeys = []string{
	status.KeyLevel,
	status.KeyLives,
	status.KeyScore,
	status.KeyEntities,
	status.KeyCollisions,
	status.KeyStepMillis,
	status.KeyStrategy,
}

// StatusBarRenderer draws the metric line under the playfield
type StatusBarRenderer struct {
	reg *status.Registry
}

// NewStatusBarRenderer creates a status bar reading from reg
func NewStatusBarRenderer(reg *status.Registry) *StatusBarRenderer {
	return &StatusBarRenderer{reg: reg}
}

func (r *StatusBarRenderer) Render(f *render.Frame, buf *render.Buffer) {
	w, h := buf.Bounds()
	y := f.View.Y + f.View.Height + 1
	if y >= h {
		y = h - 1
	}
	for x := 0; x < w; x++ {
		buf.SetWithBg(x, y, ' ', render.RgbStatus, render.RgbBackground)
	}

	line := r.reg.Line(StatusBarKeys...)
	if f.Paused {
		line = "[PAUSED] " + line
	}
	if f.Status != "" {
		line += "  " + f.Status
	}
	buf.Text(0, y, line, render.RgbStatus)
}
