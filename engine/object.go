package engine

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lixenwraith/danmaku/core"
	"github.com/lixenwraith/danmaku/event"
	"github.com/lixenwraith/danmaku/physics"
	"github.com/lixenwraith/danmaku/render"
	"github.com/lixenwraith/danmaku/vmath"
)

// Constructor builds an object for a freshly allocated id
// Runs while the system queue is applied; the object receives Spawn right after
type Constructor func(ctx *Context, id core.Entity) (Object, error)

// Object is one simulated entity kind
// Implementations live in the object package and reach services only through ctx
type Object interface {
	Base() *Base
	HandleEvent(ctx *Context, ev *event.Event)
}

// Base holds the facets torn down by Despawn
// Objects hold it in a field and return it from Base()
type Base struct {
	ID  core.Entity
	Pos vmath.Vec2

	hitboxes []core.Entity

	sprite string
	slot   core.Entity
	layer  render.Layer
	fade   float64
}

// NewBase returns facets for id at pos
func NewBase(id core.Entity, pos vmath.Vec2) Base {
	return Base{ID: id, Pos: pos}
}

// AddHitbox registers a spatial object owned by this entity at the current position
func (b *Base) AddHitbox(ctx *Context, shape physics.Shape, group physics.Group, query physics.Query, tag byte) core.Entity {
	h := ctx.Physics.Add(b.Pos, shape, group, query, &physics.Data{Entity: b.ID, Tag: tag})
	b.hitboxes = append(b.hitboxes, h)
	return h
}

// Hitboxes returns the spatial handles owned by this entity
func (b *Base) Hitboxes() []core.Entity {
	return b.hitboxes
}

// MoveTo sets the position and stages the move of every hitbox
func (b *Base) MoveTo(ctx *Context, pos vmath.Vec2) {
	b.Pos = pos
	for _, h := range b.hitboxes {
		ctx.Physics.SetPosition(h, pos)
	}
}

// AcquireSprite takes a render slot of sprite
func (b *Base) AcquireSprite(ctx *Context, sprite string) error {
	if b.slot != core.None {
		return errors.Errorf("entity %d already draws %q", b.ID, b.sprite)
	}
	slot, err := ctx.Slots.Acquire(sprite)
	if err != nil {
		return err
	}
	b.sprite, b.slot = sprite, slot
	return nil
}

// Sprite returns the sprite class and slot, slot is None when not drawable
func (b *Base) Sprite() (string, core.Entity) {
	return b.sprite, b.slot
}

// SetLayer selects the render phase the entity submits from
func (b *Base) SetLayer(l render.Layer) {
	b.layer = l
}

// SetFade blends the sprite towards the background
func (b *Base) SetFade(f float64) {
	b.fade = f
}

// Submit records the render info of the current frame; no-op without a slot
func (b *Base) Submit(ctx *Context) {
	if b.slot == core.None {
		return
	}
	ctx.Submit(render.Info{
		Entity: b.ID,
		Sprite: b.sprite,
		Slot:   b.slot,
		Pos:    b.Pos,
		Layer:  b.layer,
		Fade:   b.fade,
	})
}

// RenderPhase reports whether ev is the render phase matching the entity layer
func (b *Base) RenderPhase(ev *event.Event) bool {
	switch ev.Type {
	case event.Render:
		return b.layer == render.LayerNormal
	case event.RenderCustom:
		return b.layer == render.LayerCustom
	case event.RenderMenu:
		return b.layer == render.LayerMenu
	}
	return false
}

// teardown removes hitboxes and returns the render slot
func (b *Base) teardown(ctx *Context) {
	for _, h := range b.hitboxes {
		ctx.Physics.Remove(h)
	}
	b.hitboxes = nil

	if b.slot != core.None {
		if err := ctx.Slots.Release(b.sprite, b.slot); err != nil {
			ctx.Log.Warn("render slot release",
				zap.Uint64("entity", uint64(b.ID)),
				zap.String("sprite", b.sprite),
				zap.Error(err))
		}
		b.slot = core.None
	}
}
