package engine

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/danmaku/audio"
	"github.com/lixenwraith/danmaku/core"
	"github.com/lixenwraith/danmaku/event"
	"github.com/lixenwraith/danmaku/level"
	"github.com/lixenwraith/danmaku/physics"
	"github.com/lixenwraith/danmaku/registry"
	"github.com/lixenwraith/danmaku/render"
	"github.com/lixenwraith/danmaku/status"
	"github.com/lixenwraith/danmaku/vmath"
)

// Context is the simulation state passed to every object operation
// Each service has exactly one owner: the Engine that created the Context
type Context struct {
	Registry *registry.Registry
	Physics  *physics.World
	Bus      *event.Bus[Constructor]
	Timers   *event.TimerService
	Slots    *render.SlotPool
	Status   *status.Registry
	Audio    audio.Player
	Level    *level.Level
	Log      *zap.Logger

	target  vmath.Vec2
	tracked core.Entity
	elapsed time.Duration

	frame []render.Info

	// Cached metric pointers
	statLives *atomic.Int64
	statScore *atomic.Int64
	statFired *atomic.Int64
	statDone  *atomic.Bool
}

// Create queues construction of a new entity, applied after this step's delivery
func (c *Context) Create(ctor Constructor) {
	c.Bus.Create(ctor)
}

// Destroy queues teardown of id
func (c *Context) Destroy(id core.Entity) {
	c.Bus.Destroy(id)
}

// FastForward queues replaying d of simulation time in sub-steps after this step
func (c *Context) FastForward(d time.Duration) {
	c.Bus.EnqueueSystem(event.FastForwardEvent[Constructor](d))
}

// Subscribe registers id for every listed event type
func (c *Context) Subscribe(id core.Entity, types ...event.Type) {
	for _, t := range types {
		c.Bus.Subscribe(id, t)
	}
}

// SetTimer sets a timer owned by id
func (c *Context) SetTimer(id core.Entity, t event.Timer) {
	c.Timers.Set(id, t)
}

// Target returns the tracked target position
// The last known value is kept when the tracked entity is gone
func (c *Context) Target() vmath.Vec2 {
	return c.target
}

// Track publishes id's position as the tracked target
func (c *Context) Track(id core.Entity, pos vmath.Vec2) {
	c.tracked = id
	c.target = pos
}

// Tracked returns the entity currently publishing the target, None if none
func (c *Context) Tracked() core.Entity {
	return c.tracked
}

// Elapsed returns the simulated time since the engine started
func (c *Context) Elapsed() time.Duration {
	return c.elapsed
}

// Submit records render info for the frame being built
func (c *Context) Submit(info render.Info) {
	c.frame = append(c.frame, info)
}

// Play sends a sound cue to the audio player
func (c *Context) Play(cue audio.Cue) {
	if c.Audio != nil {
		c.Audio.Play(cue)
	}
}

// SetLives publishes the player's remaining lives
func (c *Context) SetLives(n int) {
	c.statLives.Store(int64(n))
}

// AddScore adds to the player's score
func (c *Context) AddScore(n int) {
	c.statScore.Add(int64(n))
}

// Score returns the player's score
func (c *Context) Score() int64 {
	return c.statScore.Load()
}

// SetLevelProgress publishes the sequencer counters
func (c *Context) SetLevelProgress(fired int, done bool) {
	c.statFired.Store(int64(fired))
	c.statDone.Store(done)
}
