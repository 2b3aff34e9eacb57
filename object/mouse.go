package object

import (
	"sort"

	"go.uber.org/zap"

	"github.com/lixenwraith/danmaku/core"
	"github.com/lixenwraith/danmaku/engine"
	"github.com/lixenwraith/danmaku/event"
	"github.com/lixenwraith/danmaku/parameter"
	"github.com/lixenwraith/danmaku/physics"
	"github.com/lixenwraith/danmaku/vmath"
)

// Mouse follows the pointer and tells entities when it hovers or clicks them
type Mouse struct {
	base engine.Base
	over map[core.Entity]struct{}
	down bool
}

// NewMouse creates the pointer entity
func NewMouse() engine.Constructor {
	return func(ctx *engine.Context, id core.Entity) (engine.Object, error) {
		return &Mouse{
			base: engine.NewBase(id, vmath.Vec2{}),
			over: make(map[core.Entity]struct{}),
		}, nil
	}
}

func (m *Mouse) Base() *engine.Base { return &m.base }

// Hovered returns the entities under the pointer in id order
func (m *Mouse) Hovered() []core.Entity {
	out := make([]core.Entity, 0, len(m.over))
	for id := range m.over {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (m *Mouse) HandleEvent(ctx *engine.Context, ev *event.Event) {
	id := m.base.ID
	switch ev.Type {
	case event.Spawn:
		if err := ctx.Registry.Alias(AliasMouse, id); err != nil {
			ctx.Log.Warn("second mouse spawn ignored", zap.Error(err))
			ctx.Destroy(id)
			return
		}
		m.base.AddHitbox(ctx, physics.Circle(parameter.CursorRadius), physics.Interactive, physics.QueryProximity, physics.TagCursor)
		ctx.Subscribe(id, event.MouseMove, event.MouseInput)

	case event.MouseMove:
		m.base.MoveTo(ctx, ev.Payload.(*event.MousePayload).Pos)

	case event.MouseInput:
		mp := ev.Payload.(*event.MousePayload)
		if mp.Button != event.MouseLeft {
			return
		}
		m.base.MoveTo(ctx, mp.Pos)
		pressed := mp.State == event.Pressed
		if pressed == m.down {
			return
		}
		m.down = pressed
		kind := event.AppMouseUnclicked
		if pressed {
			kind = event.AppMouseClicked
		}
		for _, other := range m.Hovered() {
			// Removed objects leave proximity without an exit transition
			if !ctx.Registry.IsLive(other) {
				delete(m.over, other)
				continue
			}
			ctx.Bus.PublishTo(other, event.NewApp(kind, int64(id)))
		}

	case event.Proximity:
		p := ev.Payload.(*event.ProximityPayload)
		if p.Other == core.None || (p.OtherData != nil && p.OtherData.Tag == physics.TagBoundary) {
			return
		}
		if p.State == physics.Entered {
			m.over[p.Other] = struct{}{}
			ctx.Bus.PublishTo(p.Other, event.NewApp(event.AppMouseOver, int64(id)))
			return
		}
		delete(m.over, p.Other)
		ctx.Bus.PublishTo(p.Other, event.NewApp(event.AppMouseLeft, int64(id)))
	}
}
