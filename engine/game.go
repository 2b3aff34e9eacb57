package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lixenwraith/danmaku/audio"
	"github.com/lixenwraith/danmaku/core"
	"github.com/lixenwraith/danmaku/event"
	"github.com/lixenwraith/danmaku/level"
	"github.com/lixenwraith/danmaku/parameter"
	"github.com/lixenwraith/danmaku/physics"
	"github.com/lixenwraith/danmaku/registry"
	"github.com/lixenwraith/danmaku/render"
	"github.com/lixenwraith/danmaku/status"
)

// ErrNoObject is returned when despawning an id with no live object
var ErrNoObject = errors.New("no live object")

// Options configures an Engine; zero values select defaults
type Options struct {
	Log      *zap.Logger
	Strategy physics.Strategy
	Audio    audio.Player
	Status   *status.Registry
	Level    *level.Level
}

// Engine runs the fixed-step pipeline over the object arena
//
// Step order:
//  1. timers advance, expiries queue Timer events
//  2. Update published and delivered
//  3. physics commit and interaction pass, Collision/Proximity delivered to both sides
//  4. Render, RenderCustom, RenderMenu published and delivered
//  5. system queue applied: creates deliver Spawn, destroys deliver Destroyed then Despawn
//  6. registry, spatial handles and render slots reclaimed
//
// Fast-forward requests replay the whole pipeline in sub-steps after the step ends
type Engine struct {
	ctx   *Context
	arena *Arena
	log   *zap.Logger
	runID uuid.UUID

	ticks      uint64
	skip       time.Duration
	forwarding bool

	snapMu   sync.RWMutex
	snapshot []render.Info

	// Cached metric pointers
	statTicks      *atomic.Int64
	statEntities   *atomic.Int64
	statCollisions *atomic.Int64
	statEvents     *atomic.Int64
	statCreates    *atomic.Int64
	statDestroys   *atomic.Int64
	statStep       *status.AtomicFloat
}

// New creates an engine with empty services
func New(opts Options) *Engine {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	runID := uuid.New()
	log = log.With(zap.String("run", runID.String()))

	reg := opts.Status
	if reg == nil {
		reg = status.NewRegistry()
	}
	player := opts.Audio
	if player == nil {
		player = audio.Silent{}
	}

	worldOpts := []physics.Option{physics.WithLogger(log.Named("physics"))}
	if opts.Strategy != nil {
		worldOpts = append(worldOpts, physics.WithStrategy(opts.Strategy))
	}

	ctx := &Context{
		Registry: registry.New(),
		Physics:  physics.NewWorld(worldOpts...),
		Bus:      event.NewBus[Constructor](log.Named("bus")),
		Timers:   event.NewTimerService(),
		Slots:    render.NewSlotPool(),
		Status:   reg,
		Audio:    player,
		Level:    opts.Level,
		Log:      log,

		statLives: reg.Ints.Get(status.KeyLives),
		statScore: reg.Ints.Get(status.KeyScore),
		statFired: reg.Ints.Get(status.KeyFired),
		statDone:  reg.Bools.Get(status.KeyDone),
	}
	if opts.Level != nil {
		for name, s := range opts.Level.Sprites {
			ctx.Slots.Define(name, s.MaxAmount)
		}
		reg.Strings.Get(status.KeyLevel).Store(opts.Level.Name)
	}
	reg.Strings.Get(status.KeyStrategy).Store(ctx.Physics.StrategyName())

	return &Engine{
		ctx:   ctx,
		arena: NewArena(),
		log:   log,
		runID: runID,

		statTicks:      reg.Ints.Get(status.KeyTicks),
		statEntities:   reg.Ints.Get(status.KeyEntities),
		statCollisions: reg.Ints.Get(status.KeyCollisions),
		statEvents:     reg.Ints.Get(status.KeyEvents),
		statCreates:    reg.Ints.Get(status.KeyCreates),
		statDestroys:   reg.Ints.Get(status.KeyDestroys),
		statStep:       reg.Floats.Get(status.KeyStepMillis),
	}
}

// Context returns the simulation context
func (e *Engine) Context() *Context {
	return e.ctx
}

// RunID identifies this engine instance in logs
func (e *Engine) RunID() uuid.UUID {
	return e.runID
}

// Ticks returns the number of steps run, fast-forward sub-steps included
func (e *Engine) Ticks() uint64 {
	return e.ticks
}

// Len returns the number of live objects
func (e *Engine) Len() int {
	return e.arena.Len()
}

// Object returns the live object of id
func (e *Engine) Object(id core.Entity) (Object, bool) {
	return e.arena.Get(id)
}

// Spawn queues a create applied at the end of the next step
func (e *Engine) Spawn(ctor Constructor) {
	e.ctx.Create(ctor)
}

// Input publishes external input events to their subscribers for the next step
func (e *Engine) Input(evs []*event.Event) {
	for _, ev := range evs {
		e.ctx.Bus.Publish(ev)
	}
}

// FastForward queues a time skip replayed after the next step
func (e *Engine) FastForward(d time.Duration) {
	e.ctx.FastForward(d)
}

// Step runs one simulation step of dt, then any requested fast-forward
func (e *Engine) Step(dt time.Duration) {
	start := time.Now()
	e.step(dt)

	if !e.forwarding && e.skip > 0 {
		e.forwarding = true
		skipped := e.skip
		for e.skip > 0 {
			d := min(e.skip, parameter.FastForwardStep)
			e.skip -= d
			e.step(d)
		}
		e.forwarding = false
		e.log.Debug("fast forward", zap.Duration("amount", skipped))
	}

	e.statStep.Smooth(float64(time.Since(start).Microseconds())/1000, parameter.StepTimeSmoothing)
}

func (e *Engine) step(dt time.Duration) {
	ctx := e.ctx
	ctx.elapsed += dt
	e.ticks++

	ctx.Timers.Advance(dt, ctx.Bus)
	ctx.Bus.Publish(event.NewUpdate(dt))
	e.deliver()

	collisions, proximity := ctx.Physics.Update(dt.Seconds())
	for _, c := range collisions {
		e.publishPair(c.Data1, event.NewCollision(c))
		e.publishPair(c.Data2, event.NewCollision(c.Swap()))
	}
	for _, p := range proximity {
		e.publishPair(p.Data1, event.NewProximity(p))
		e.publishPair(p.Data2, event.NewProximity(p.Swap()))
	}
	e.statCollisions.Add(int64(len(collisions)))
	e.deliver()

	ctx.frame = ctx.frame[:0]
	ctx.Bus.Publish(&event.Event{Type: event.Render})
	ctx.Bus.Publish(&event.Event{Type: event.RenderCustom})
	ctx.Bus.Publish(&event.Event{Type: event.RenderMenu})
	e.deliver()
	e.publishFrame()

	e.applySystem()

	ctx.Registry.Reclaim()
	ctx.Physics.Reclaim()
	ctx.Slots.Reclaim()

	e.statTicks.Store(int64(e.ticks))
	e.statEntities.Store(int64(e.arena.Len()))
	e.statEvents.Store(int64(ctx.Bus.Published()))
}

func (e *Engine) publishPair(self *physics.Data, ev *event.Event) {
	if self == nil || self.Entity == core.None {
		return
	}
	e.ctx.Bus.PublishTo(self.Entity, ev)
}

// deliver drains the queue until empty; events published by handlers are delivered in the same phase
func (e *Engine) deliver() {
	for pass := 0; e.ctx.Bus.Pending() > 0; pass++ {
		if pass == parameter.MaxDeliveryPasses {
			e.log.Warn("delivery pass limit reached, deferring to next phase",
				zap.Int("pending", e.ctx.Bus.Pending()))
			return
		}
		for _, d := range e.ctx.Bus.Drain() {
			obj, ok := e.arena.Get(d.Target)
			if !ok {
				e.log.Debug("event for missing entity",
					zap.Uint64("entity", uint64(d.Target)),
					zap.Stringer("type", d.Event.Type))
				continue
			}
			obj.HandleEvent(e.ctx, d.Event)
		}
	}
}

// applySystem applies structural requests until the queue stays empty
// Spawn events of new objects may queue further creates
func (e *Engine) applySystem() {
	for {
		sys := e.ctx.Bus.DrainSystem()
		if len(sys) == 0 {
			return
		}
		for _, req := range sys {
			switch req.Kind {
			case event.SysCreate:
				e.create(req.Create)
			case event.SysDestroy:
				e.destroy(req.Target)
			case event.SysFastForward:
				if e.forwarding {
					e.log.Debug("fast forward requested while forwarding, ignored", zap.Duration("amount", req.Amount))
					continue
				}
				e.skip += req.Amount
			}
		}
		e.deliver()
	}
}

func (e *Engine) create(ctor Constructor) {
	if ctor == nil {
		return
	}
	ctx := e.ctx
	id := ctx.Registry.Allocate()
	obj, err := ctor(ctx, id)
	if err != nil {
		e.log.Warn("entity constructor failed", zap.Uint64("entity", uint64(id)), zap.Error(err))
		if rerr := ctx.Registry.Release(id); rerr != nil {
			e.log.Error("release after failed create", zap.Error(rerr))
		}
		return
	}
	obj.Base().ID = id
	e.arena.Insert(id, obj)
	ctx.Bus.PublishTo(id, &event.Event{Type: event.Spawn})
	e.statCreates.Add(1)
}

func (e *Engine) destroy(id core.Entity) {
	obj, ok := e.arena.Get(id)
	if !ok {
		e.log.Debug("destroy of missing entity", zap.Uint64("entity", uint64(id)))
		return
	}
	obj.HandleEvent(e.ctx, &event.Event{Type: event.Destroyed})
	if err := e.Despawn(id); err != nil {
		e.log.Warn("despawn", zap.Error(err))
	}
}

// Despawn tears down id immediately in fixed order:
// unsubscribe, timers, spatial objects, render slot, registry id (with its aliases and tags), arena
func (e *Engine) Despawn(id core.Entity) error {
	obj, ok := e.arena.Get(id)
	if !ok {
		return errors.Wrapf(ErrNoObject, "despawn %d", id)
	}
	ctx := e.ctx

	ctx.Bus.UnsubscribeAll(id)
	ctx.Timers.Clear(id)
	obj.Base().teardown(ctx)

	if ctx.tracked == id {
		ctx.tracked = core.None
	}
	err := ctx.Registry.Release(id)
	e.arena.Remove(id)
	e.statDestroys.Add(1)
	return err
}

func (e *Engine) publishFrame() {
	e.snapMu.Lock()
	e.snapshot = append(e.snapshot[:0], e.ctx.frame...)
	e.snapMu.Unlock()
}

// Snapshot returns a copy of the render infos submitted in the last step
// Safe to call from the render goroutine
func (e *Engine) Snapshot() []render.Info {
	e.snapMu.RLock()
	defer e.snapMu.RUnlock()
	out := make([]render.Info, len(e.snapshot))
	copy(out, e.snapshot)
	return out
}
