package object

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lixenwraith/danmaku/core"
	"github.com/lixenwraith/danmaku/engine"
	"github.com/lixenwraith/danmaku/event"
	"github.com/lixenwraith/danmaku/level"
	"github.com/lixenwraith/danmaku/parameter"
	"github.com/lixenwraith/danmaku/physics"
	"github.com/lixenwraith/danmaku/vmath"
)

// Bullet is an enemy projectile moving with a fixed direction
// Destroyed on leaving the screen area or on touching the player
type Bullet struct {
	base   engine.Base
	class  *level.Bullet
	sprite *level.Sprite
	vel    vmath.Vec2
	age    time.Duration
}

// NewBullet creates an enemy bullet of class at pos with initial velocity vel
func NewBullet(class *level.Bullet, sprite *level.Sprite, pos, vel vmath.Vec2) engine.Constructor {
	return func(ctx *engine.Context, id core.Entity) (engine.Object, error) {
		if class == nil || sprite == nil {
			return nil, errors.Wrap(level.ErrUnknownRef, "bullet without class or sprite")
		}
		return &Bullet{
			base:   engine.NewBase(id, pos),
			class:  class,
			sprite: sprite,
			vel:    vel,
		}, nil
	}
}

func (b *Bullet) Base() *engine.Base { return &b.base }

// Velocity returns the current velocity after deceleration
func (b *Bullet) Velocity() vmath.Vec2 {
	return b.vel.Scale(b.class.SpeedScale(b.age))
}

// Damage returns the damage dealt to the player
func (b *Bullet) Damage() int {
	return b.class.Damage
}

func (b *Bullet) HandleEvent(ctx *engine.Context, ev *event.Event) {
	switch ev.Type {
	case event.Spawn:
		if err := b.base.AcquireSprite(ctx, b.sprite.Name); err != nil {
			ctx.Log.Debug("bullet dropped", zap.String("bullet", b.class.Name), zap.Error(err))
			ctx.Destroy(b.base.ID)
			return
		}
		b.base.AddHitbox(ctx, b.sprite.Hitbox, physics.SemiInteractive, physics.QueryContact, physics.TagEnemyBullet)
		ctx.Registry.Tag(b.base.ID, TagBullets)
		ctx.Subscribe(b.base.ID, event.Update, event.Render)

	case event.Update:
		dt := ev.Payload.(*event.UpdatePayload).DT
		b.age += dt
		pos := b.base.Pos.Add(b.Velocity().Scale(dt.Seconds()))
		b.base.MoveTo(ctx, pos)
		if !InBounds(pos) {
			ctx.Destroy(b.base.ID)
		}

	case event.Proximity:
		p := ev.Payload.(*event.ProximityPayload)
		if p.State == physics.Exited && p.OtherData != nil && p.OtherData.Tag == physics.TagBoundary {
			ctx.Destroy(b.base.ID)
		}

	case event.Collision:
		c := ev.Payload.(*event.CollisionPayload)
		if c.OtherData != nil && c.OtherData.Tag == physics.TagPlayer {
			ctx.Destroy(b.base.ID)
		}

	case event.Render:
		b.base.Submit(ctx)
	}
}

// PlayerBullet is a player projectile flying straight up
type PlayerBullet struct {
	base engine.Base
	vel  vmath.Vec2
}

// NewPlayerBullet creates a player bullet at pos
func NewPlayerBullet(pos vmath.Vec2) engine.Constructor {
	return func(ctx *engine.Context, id core.Entity) (engine.Object, error) {
		return &PlayerBullet{
			base: engine.NewBase(id, pos),
			vel:  vmath.V(0, parameter.PlayerBulletSpeed),
		}, nil
	}
}

func (b *PlayerBullet) Base() *engine.Base { return &b.base }

func (b *PlayerBullet) HandleEvent(ctx *engine.Context, ev *event.Event) {
	switch ev.Type {
	case event.Spawn:
		if err := b.base.AcquireSprite(ctx, parameter.PlayerBulletSprite); err != nil {
			ctx.Log.Debug("player bullet not drawable", zap.Error(err))
		}
		b.base.AddHitbox(ctx, physics.Circle(parameter.PlayerBulletRadius),
			physics.SemiInteractive, physics.QueryContact, physics.TagPlayerBullet)
		ctx.Subscribe(b.base.ID, event.Update, event.Render)

	case event.Update:
		dt := ev.Payload.(*event.UpdatePayload).DT
		pos := b.base.Pos.Add(b.vel.Scale(dt.Seconds()))
		b.base.MoveTo(ctx, pos)
		if !InBounds(pos) {
			ctx.Destroy(b.base.ID)
		}

	case event.Proximity:
		p := ev.Payload.(*event.ProximityPayload)
		if p.State == physics.Exited && p.OtherData != nil && p.OtherData.Tag == physics.TagBoundary {
			ctx.Destroy(b.base.ID)
		}

	case event.Collision:
		c := ev.Payload.(*event.CollisionPayload)
		if c.OtherData != nil && c.OtherData.Tag == physics.TagEnemy {
			ctx.Destroy(b.base.ID)
		}

	case event.Render:
		b.base.Submit(ctx)
	}
}
