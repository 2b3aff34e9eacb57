package object

import (
	"go.uber.org/zap"

	"github.com/lixenwraith/danmaku/core"
	"github.com/lixenwraith/danmaku/engine"
	"github.com/lixenwraith/danmaku/event"
	"github.com/lixenwraith/danmaku/parameter"
	"github.com/lixenwraith/danmaku/physics"
	"github.com/lixenwraith/danmaku/vmath"
)

// ScreenArea is the proximity volume of the playfield plus the cull margin
// Bullets destroy themselves on leaving it
type ScreenArea struct {
	base engine.Base
}

// NewScreenArea creates the playfield volume
func NewScreenArea() engine.Constructor {
	return func(ctx *engine.Context, id core.Entity) (engine.Object, error) {
		return &ScreenArea{base: engine.NewBase(id, vmath.Vec2{})}, nil
	}
}

func (s *ScreenArea) Base() *engine.Base { return &s.base }

func (s *ScreenArea) HandleEvent(ctx *engine.Context, ev *event.Event) {
	if ev.Type != event.Spawn {
		return
	}
	if err := ctx.Registry.Alias(AliasScreen, s.base.ID); err != nil {
		ctx.Log.Warn("screen area already present", zap.Error(err))
		ctx.Destroy(s.base.ID)
		return
	}
	shape := physics.Rect(parameter.WorldWidth+2*parameter.CullMargin, parameter.WorldHeight+2*parameter.CullMargin)
	s.base.AddHitbox(ctx, shape, physics.Interactive, physics.QueryProximity, physics.TagBoundary)
}

// InBounds reports whether pos lies within the playfield plus the cull margin
func InBounds(pos vmath.Vec2) bool {
	hw := parameter.WorldWidth/2 + parameter.CullMargin
	hh := parameter.WorldHeight/2 + parameter.CullMargin
	return pos.X >= -hw && pos.X <= hw && pos.Y >= -hh && pos.Y <= hh
}
