package object

import (
	"math"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lixenwraith/danmaku/audio"
	"github.com/lixenwraith/danmaku/core"
	"github.com/lixenwraith/danmaku/engine"
	"github.com/lixenwraith/danmaku/event"
	"github.com/lixenwraith/danmaku/parameter"
	"github.com/lixenwraith/danmaku/physics"
	"github.com/lixenwraith/danmaku/vmath"
)

// Player is the keyboard-controlled ship and the tracked target of every aimed pattern
type Player struct {
	base engine.Base

	held   map[event.Key]bool
	focus  bool
	firing bool

	lives  int
	invuln time.Duration
	hover  bool
}

// NewPlayer creates the player at pos
func NewPlayer(pos vmath.Vec2) engine.Constructor {
	return func(ctx *engine.Context, id core.Entity) (engine.Object, error) {
		return &Player{
			base:  engine.NewBase(id, pos),
			held:  make(map[event.Key]bool, 4),
			lives: parameter.PlayerLives,
		}, nil
	}
}

func (p *Player) Base() *engine.Base { return &p.base }

// Lives returns the remaining lives
func (p *Player) Lives() int { return p.lives }

// Invulnerable reports whether hits are currently ignored
func (p *Player) Invulnerable() bool { return p.invuln > 0 }

// Firing reports whether auto-fire is on
func (p *Player) Firing() bool { return p.firing }

func (p *Player) HandleEvent(ctx *engine.Context, ev *event.Event) {
	switch ev.Type {
	case event.Spawn:
		p.spawn(ctx)

	case event.KeyInput:
		k := ev.Payload.(*event.KeyPayload)
		p.key(ctx, k.Key, k.State == event.Pressed)

	case event.Update:
		p.update(ctx, ev.Payload.(*event.UpdatePayload).DT)

	case event.TimerFired:
		// Expiry may be queued ahead of the release that removed the timer
		if t := ev.Payload.(*event.TimerPayload); t.Class == parameter.ClassFire && p.firing {
			p.shoot(ctx)
		}

	case event.Collision:
		c := ev.Payload.(*event.CollisionPayload)
		if c.OtherData != nil && c.OtherData.Tag == physics.TagEnemyBullet {
			p.hit(ctx)
		}

	case event.App:
		switch ev.Payload.(*event.AppPayload).Kind {
		case event.AppMouseOver:
			p.hover = true
		case event.AppMouseLeft:
			p.hover = false
		}

	case event.Render:
		p.base.SetFade(p.fade(ctx.Elapsed()))
		p.base.Submit(ctx)
	}
}

func (p *Player) spawn(ctx *engine.Context) {
	id := p.base.ID
	if err := ctx.Registry.Alias(AliasPlayer, id); err != nil {
		ctx.Log.Warn("second player spawn ignored", zap.Error(err))
		ctx.Destroy(id)
		return
	}

	shape := physics.Circle(parameter.PlayerHitboxRadius)
	if ctx.Level != nil {
		if s, ok := ctx.Level.Sprites[parameter.PlayerSprite]; ok {
			shape = s.Hitbox
		}
	}
	if err := p.base.AcquireSprite(ctx, parameter.PlayerSprite); err != nil {
		ctx.Log.Debug("player not drawable", zap.Error(err))
	}
	p.base.AddHitbox(ctx, shape, physics.Interactive, physics.QueryContact, physics.TagPlayer)
	ctx.Subscribe(id, event.Update, event.KeyInput, event.Render)
	ctx.Track(id, p.base.Pos)
	ctx.SetLives(p.lives)
}

func (p *Player) key(ctx *engine.Context, k event.Key, pressed bool) {
	switch k {
	case event.KeyLeft, event.KeyRight, event.KeyUp, event.KeyDown:
		p.held[k] = pressed
	case event.KeyFocus:
		p.focus = pressed
	case event.KeyFire:
		if pressed == p.firing {
			return
		}
		p.firing = pressed
		if pressed {
			p.shoot(ctx)
			ctx.SetTimer(p.base.ID, event.Repeating(parameter.PlayerFireTimerID, parameter.ClassFire, parameter.PlayerFireInterval))
			return
		}
		err := ctx.Timers.RemoveClass(p.base.ID, parameter.PlayerFireTimerID, parameter.ClassFire)
		if err != nil && !errors.Is(err, event.ErrTimerNotFound) {
			ctx.Log.Warn("fire timer", zap.Error(err))
		}
	}
}

// Direction returns the unit-per-axis movement vector of the held keys
func (p *Player) Direction() vmath.Vec2 {
	var d vmath.Vec2
	if p.held[event.KeyLeft] {
		d.X--
	}
	if p.held[event.KeyRight] {
		d.X++
	}
	if p.held[event.KeyUp] {
		d.Y++
	}
	if p.held[event.KeyDown] {
		d.Y--
	}
	return d
}

func (p *Player) update(ctx *engine.Context, dt time.Duration) {
	if p.invuln > 0 {
		p.invuln -= dt
	}

	speed := parameter.PlayerSpeed
	if p.focus {
		speed *= parameter.PlayerSlowFactor
	}
	pos := p.base.Pos.Add(p.Direction().Scale(speed * dt.Seconds()))
	hw, hh := parameter.WorldWidth/2, parameter.WorldHeight/2
	pos.X = math.Max(-hw, math.Min(hw, pos.X))
	pos.Y = math.Max(-hh, math.Min(hh, pos.Y))

	p.base.MoveTo(ctx, pos)
	ctx.Track(p.base.ID, pos)
}

func (p *Player) shoot(ctx *engine.Context) {
	ctx.Create(NewPlayerBullet(p.base.Pos))
	ctx.Play(audio.CueShot)
}

func (p *Player) hit(ctx *engine.Context) {
	if p.invuln > 0 || p.lives <= 0 {
		return
	}
	p.lives--
	p.invuln = parameter.PlayerInvulnerable
	ctx.SetLives(p.lives)
	ctx.Bus.Publish(event.NewApp(event.AppPlayerHit, int64(p.lives)))
	ctx.Log.Debug("player hit", zap.Int("lives", p.lives))

	if p.lives == 0 {
		ctx.Play(audio.CueDeath)
		ctx.Destroy(p.base.ID)
		return
	}
	ctx.Play(audio.CueHit)
}

// fade blinks the sprite while invulnerable and dims it under the pointer
func (p *Player) fade(now time.Duration) float64 {
	if p.invuln > 0 && (now/parameter.PlayerBlinkInterval)%2 == 1 {
		return 0.7
	}
	if p.hover {
		return 0.3
	}
	return 0
}
