package object

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lixenwraith/danmaku/audio"
	"github.com/lixenwraith/danmaku/core"
	"github.com/lixenwraith/danmaku/engine"
	"github.com/lixenwraith/danmaku/event"
	"github.com/lixenwraith/danmaku/level"
	"github.com/lixenwraith/danmaku/motion"
	"github.com/lixenwraith/danmaku/parameter"
	"github.com/lixenwraith/danmaku/physics"
	"github.com/lixenwraith/danmaku/vmath"
)

// firing is a bullet pattern started by a path action
type firing struct {
	pattern *motion.Pattern
	bullet  *level.Bullet
	sprite  *level.Sprite
}

// Enemy follows its paths in order, runs their actions and dies when the last path ends
type Enemy struct {
	base  engine.Base
	lvl   *level.Level
	class *level.Enemy

	paths   []*motion.PathBuilder
	path    motion.Path
	actions map[uint32]motion.Action
	nextID  uint32
	firing  []*firing

	health int
	dead   bool // killed or out of paths, destroy pending
}

// NewEnemy creates an enemy of the spawn's class at pos
func NewEnemy(lvl *level.Level, s *level.Spawn, pos vmath.Vec2) engine.Constructor {
	return func(ctx *engine.Context, id core.Entity) (engine.Object, error) {
		class, ok := lvl.Enemies[s.Enemy]
		if !ok {
			return nil, errors.Wrapf(level.ErrUnknownRef, "enemy %q", s.Enemy)
		}
		return &Enemy{
			base:    engine.NewBase(id, pos),
			lvl:     lvl,
			class:   class,
			paths:   append([]*motion.PathBuilder(nil), s.Paths...),
			actions: make(map[uint32]motion.Action),
			health:  class.Health,
		}, nil
	}
}

func (e *Enemy) Base() *engine.Base { return &e.base }

// Health returns the remaining health
func (e *Enemy) Health() int { return e.health }

// Firing returns the number of active bullet patterns
func (e *Enemy) Firing() int { return len(e.firing) }

func (e *Enemy) HandleEvent(ctx *engine.Context, ev *event.Event) {
	switch ev.Type {
	case event.Spawn:
		e.spawn(ctx)

	case event.Update:
		e.update(ctx, ev.Payload.(*event.UpdatePayload).DT)

	case event.TimerFired:
		t := ev.Payload.(*event.TimerPayload)
		if t.Class != parameter.ClassAction {
			return
		}
		a, ok := e.actions[t.ID]
		if !ok {
			ctx.Log.Debug("stale action timer", zap.Uint32("id", t.ID))
			return
		}
		delete(e.actions, t.ID)
		e.run(ctx, a)

	case event.Collision:
		c := ev.Payload.(*event.CollisionPayload)
		if c.OtherData != nil && c.OtherData.Tag == physics.TagPlayerBullet {
			e.damage(ctx, parameter.PlayerBulletDamage)
		}

	case event.Render:
		e.base.Submit(ctx)
	}
}

func (e *Enemy) spawn(ctx *engine.Context) {
	id := e.base.ID
	sprite, ok := e.lvl.Sprites[e.class.Sprite]
	if !ok {
		ctx.Log.Warn("enemy sprite missing", zap.String("enemy", e.class.Name))
		ctx.Destroy(id)
		return
	}
	if err := e.base.AcquireSprite(ctx, sprite.Name); err != nil {
		ctx.Log.Debug("enemy dropped", zap.String("enemy", e.class.Name), zap.Error(err))
		ctx.Destroy(id)
		return
	}
	e.base.AddHitbox(ctx, sprite.Hitbox, physics.NonInteractive, physics.QueryContact, physics.TagEnemy)
	ctx.Registry.Tag(id, TagEnemies)
	ctx.Subscribe(id, event.Update, event.Render)
	e.nextPath(ctx)
}

// nextPath builds the next path from the current position; with none left the enemy leaves
func (e *Enemy) nextPath(ctx *engine.Context) {
	for len(e.paths) > 0 {
		b := e.paths[0]
		e.paths = e.paths[1:]

		p, err := b.Build(e.base.Pos, ctx.Target())
		if err != nil {
			ctx.Log.Warn("enemy path skipped", zap.String("enemy", e.class.Name), zap.Error(err))
			continue
		}
		e.path = p
		for _, a := range p.TakeActions() {
			e.schedule(ctx, a)
		}
		return
	}
	e.path = nil
	e.dead = true
	ctx.Destroy(e.base.ID)
}

// schedule runs zero-delay actions inline and the rest on class Action timers
func (e *Enemy) schedule(ctx *engine.Context, a motion.Action) {
	if a.Delay <= 0 {
		e.run(ctx, a)
		return
	}
	e.nextID++
	e.actions[e.nextID] = a
	ctx.SetTimer(e.base.ID, event.OneShot(e.nextID, parameter.ClassAction, a.Delay))
}

func (e *Enemy) run(ctx *engine.Context, a motion.Action) {
	if a.Kind != motion.ActionBullets || a.Pattern == nil {
		return
	}
	bullet, ok := e.lvl.Bullets[a.Bullet]
	if !ok {
		ctx.Log.Warn("unknown bullet in action", zap.String("bullet", a.Bullet))
		return
	}
	sprite, ok := e.lvl.Sprites[bullet.Sprite]
	if !ok {
		ctx.Log.Warn("bullet sprite missing", zap.String("bullet", a.Bullet))
		return
	}
	p, err := a.Pattern.Build(e.base.Pos, ctx.Target())
	if err != nil {
		ctx.Log.Warn("action pattern", zap.Error(err))
		return
	}
	p.SetTracker(ctx.Target)
	e.firing = append(e.firing, &firing{pattern: p, bullet: bullet, sprite: sprite})
}

func (e *Enemy) update(ctx *engine.Context, dt time.Duration) {
	if e.dead {
		return
	}
	if e.path != nil {
		pos, _ := e.path.Advance(dt)
		e.base.MoveTo(ctx, pos)
	}

	kept := e.firing[:0]
	for _, f := range e.firing {
		f.pattern.MoveTo(e.base.Pos)
		for _, shot := range f.pattern.Advance(dt) {
			ctx.Create(NewBullet(f.bullet, f.sprite, e.base.Pos.Add(shot.Offset), shot.Velocity))
		}
		if !f.pattern.Finished() {
			kept = append(kept, f)
		}
	}
	for i := len(kept); i < len(e.firing); i++ {
		e.firing[i] = nil
	}
	e.firing = kept

	if e.path == nil || e.path.Finished() {
		e.nextPath(ctx)
	}
}

func (e *Enemy) damage(ctx *engine.Context, n int) {
	if e.dead {
		return
	}
	e.health -= n
	if e.health > 0 {
		ctx.Play(audio.CueHit)
		return
	}
	e.dead = true
	ctx.Play(audio.CueDeath)
	ctx.AddScore(parameter.EnemyScore)
	ctx.Bus.Publish(event.NewApp(event.AppEnemyKilled, int64(e.base.ID)))
	ctx.Destroy(e.base.ID)
}
