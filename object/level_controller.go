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
	"github.com/lixenwraith/danmaku/vmath"
)

// LevelController owns the sequencer of one level
// It sets up the playfield on spawn and turns fired spawns into entity creates
type LevelController struct {
	base     engine.Base
	lvl      *level.Level
	seq      *level.Sequencer
	ctx      *engine.Context // bound on Spawn for the sequencer callbacks
	finished bool
	start    time.Duration

	// Enemies created since the last update are not tagged until their Spawn
	pending int
}

// NewLevelController validates the event graph of lvl and creates its controller
func NewLevelController(lvl *level.Level) engine.Constructor {
	return NewLevelControllerAt(lvl, 0)
}

// NewLevelControllerAt begins the level start into its timeline by fast-forwarding on spawn
// start is clamped to the level duration
func NewLevelControllerAt(lvl *level.Level, start time.Duration) engine.Constructor {
	return func(ctx *engine.Context, id core.Entity) (engine.Object, error) {
		if lvl == nil {
			return nil, errors.New("level controller without level")
		}
		seq, err := level.NewSequencer(lvl.Events, ctx.Log.Named("level"))
		if err != nil {
			return nil, errors.Wrapf(err, "level %q", lvl.Name)
		}
		return &LevelController{
			base:  engine.NewBase(id, vmath.Vec2{}),
			lvl:   lvl,
			seq:   seq,
			start: min(max(start, 0), lvl.Duration()),
		}, nil
	}
}

func (c *LevelController) Base() *engine.Base { return &c.base }

// Sequencer exposes the event state machine
func (c *LevelController) Sequencer() *level.Sequencer { return c.seq }

// Finished reports whether every event fired and every enemy is gone
func (c *LevelController) Finished() bool { return c.finished }

// Start is the clamped offset the level was started at
func (c *LevelController) Start() time.Duration { return c.start }

func (c *LevelController) HandleEvent(ctx *engine.Context, ev *event.Event) {
	switch ev.Type {
	case event.Spawn:
		if err := ctx.Registry.Alias(AliasLevel, c.base.ID); err != nil {
			ctx.Log.Warn("second level controller ignored", zap.Error(err))
			ctx.Destroy(c.base.ID)
			return
		}
		c.ctx = ctx
		ctx.Subscribe(c.base.ID, event.Update)

		if _, ok := ctx.Registry.Lookup(AliasScreen); !ok {
			ctx.Create(NewScreenArea())
		}
		if !c.lvl.HasPlayerSpawn() {
			ctx.Create(NewPlayer(vmath.V(parameter.PlayerSpawnX, parameter.PlayerSpawnY)))
		}
		c.announce(ctx, c.seq.Start(c, c))
		if c.start > 0 {
			ctx.FastForward(c.start)
		}
		ctx.Log.Info("level started",
			zap.String("level", c.lvl.Name),
			zap.Int("events", len(c.lvl.EventNames())),
			zap.Duration("start", c.start))

	case event.TimerFired:
		t := ev.Payload.(*event.TimerPayload)
		c.announce(ctx, c.seq.TimerFired(t.ID, t.Class))

	case event.Update:
		c.seq.Update(ev.Payload.(*event.UpdatePayload).DT)
		c.checkFinished(ctx)
	}
}

func (c *LevelController) announce(ctx *engine.Context, fired []*level.LevelEvent) {
	for _, ev := range fired {
		ctx.Bus.Publish(event.NewApp(event.AppLevelFired, int64(ev.ID)))
	}
	ctx.SetLevelProgress(c.seq.Fired(), c.finished)
}

func (c *LevelController) checkFinished(ctx *engine.Context) {
	if c.pending > 0 {
		c.pending = 0
		return
	}
	if c.finished || !c.seq.Done() || len(ctx.Registry.Tagged(TagEnemies)) > 0 {
		return
	}
	c.finished = true
	ctx.SetLevelProgress(c.seq.Fired(), true)
	ctx.Bus.Publish(event.NewApp(event.AppLevelFinished, 0))
	ctx.Log.Info("level finished", zap.String("level", c.lvl.Name), zap.Int64("score", ctx.Score()))
}

// SetTimer implements level.Scheduler on the controller's own timers
func (c *LevelController) SetTimer(t event.Timer) {
	c.ctx.SetTimer(c.base.ID, t)
}

// RemoveTimer implements level.Scheduler
func (c *LevelController) RemoveTimer(id uint32, class byte) error {
	return c.ctx.Timers.RemoveClass(c.base.ID, id, class)
}

// Spawn implements level.Spawner
func (c *LevelController) Spawn(s *level.Spawn, at vmath.Vec2) {
	switch s.Kind {
	case level.SpawnPlayer:
		if _, ok := c.ctx.Registry.Lookup(AliasPlayer); ok {
			c.ctx.Log.Debug("player already present, spawn skipped")
			return
		}
		c.ctx.Create(NewPlayer(at))
	default:
		c.pending++
		c.ctx.Create(NewEnemy(c.lvl, s, at))
	}
}

// Target implements level.Spawner
func (c *LevelController) Target() vmath.Vec2 {
	return c.ctx.Target()
}

var (
	_ level.Scheduler = (*LevelController)(nil)
	_ level.Spawner   = (*LevelController)(nil)
)

