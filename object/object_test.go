package object

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/lixenwraith/danmaku/core"
	"github.com/lixenwraith/danmaku/engine"
	"github.com/lixenwraith/danmaku/event"
	"github.com/lixenwraith/danmaku/level"
	"github.com/lixenwraith/danmaku/parameter"
	"github.com/lixenwraith/danmaku/physics"
	"github.com/lixenwraith/danmaku/status"
	"github.com/lixenwraith/danmaku/vmath"
)

const tick = parameter.TickInterval

const testClasses = `
[sprites.player]
glyph = "A"
size = [8, 8]
max_amount = 1
radius = 2

[sprites.dot]
glyph = "o"
size = [4, 4]
radius = 2

[enemies.grunt]
sprite = "dot"
health = 2

[bullets.ball]
sprite = "dot"
`

func testLevel(t *testing.T, events string) *level.Level {
	t.Helper()
	l, err := level.Parse([]byte(testClasses+events), "", zaptest.NewLogger(t))
	require.NoError(t, err)
	return l
}

func newEngine(t *testing.T, l *level.Level) *engine.Engine {
	t.Helper()
	return engine.New(engine.Options{Log: zaptest.NewLogger(t), Level: l})
}

// aliased returns the live object registered under name
func aliased[T engine.Object](t *testing.T, eng *engine.Engine, name string) T {
	t.Helper()
	id, ok := eng.Context().Registry.Lookup(name)
	require.True(t, ok, "no %s", name)
	obj, ok := eng.Object(id)
	require.True(t, ok)
	v, ok := obj.(T)
	require.True(t, ok)
	return v
}

// probe records every event it receives after Spawn
type probe struct {
	base   engine.Base
	types  []event.Type
	shape  *physics.Shape
	events []*event.Event
}

func (p *probe) at(pos vmath.Vec2) engine.Constructor {
	return func(ctx *engine.Context, id core.Entity) (engine.Object, error) {
		p.base = engine.NewBase(id, pos)
		return p, nil
	}
}

func (p *probe) Base() *engine.Base { return &p.base }

func (p *probe) HandleEvent(ctx *engine.Context, ev *event.Event) {
	if ev.Type == event.Spawn {
		ctx.Subscribe(p.base.ID, p.types...)
		if p.shape != nil {
			p.base.AddHitbox(ctx, *p.shape, physics.Interactive, physics.QueryContact, 0)
		}
		return
	}
	p.events = append(p.events, ev)
}

func (p *probe) apps() []event.AppPayload {
	var out []event.AppPayload
	for _, ev := range p.events {
		if ev.Type == event.App {
			out = append(out, *ev.Payload.(*event.AppPayload))
		}
	}
	return out
}

func TestPlayerMoveAndClamp(t *testing.T) {
	eng := newEngine(t, nil)
	ctx := eng.Context()
	eng.Spawn(NewPlayer(vmath.V(0, 0)))
	eng.Step(tick)

	p := aliased[*Player](t, eng, AliasPlayer)
	assert.Equal(t, parameter.PlayerLives, p.Lives())
	assert.Equal(t, int64(parameter.PlayerLives), ctx.Status.Ints.Get(status.KeyLives).Load())
	assert.Equal(t, p.Base().ID, ctx.Tracked())

	eng.Input([]*event.Event{event.NewKey(event.KeyRight, event.Pressed)})
	eng.Step(time.Second)
	assert.InDelta(t, parameter.PlayerSpeed, p.Base().Pos.X, 1e-9)
	assert.Equal(t, p.Base().Pos, ctx.Target())

	eng.Input([]*event.Event{event.NewKey(event.KeyFocus, event.Pressed)})
	eng.Step(time.Second)
	assert.InDelta(t, parameter.PlayerSpeed*(1+parameter.PlayerSlowFactor), p.Base().Pos.X, 1e-9)

	eng.Step(10 * time.Second)
	assert.InDelta(t, parameter.WorldWidth/2, p.Base().Pos.X, 1e-9)

	eng.Input([]*event.Event{
		event.NewKey(event.KeyRight, event.Released),
		event.NewKey(event.KeyDown, event.Pressed),
	})
	eng.Step(time.Second)
	assert.Equal(t, vmath.V(0, -1), p.Direction())
	assert.InDelta(t, parameter.WorldWidth/2, p.Base().Pos.X, 1e-9)
	assert.Less(t, p.Base().Pos.Y, 0.0)
}

func TestPlayerSecondSpawnDestroyed(t *testing.T) {
	eng := newEngine(t, nil)
	eng.Spawn(NewPlayer(vmath.V(0, 0)))
	eng.Spawn(NewPlayer(vmath.V(10, 0)))
	eng.Step(tick)

	assert.Equal(t, 1, eng.Len())
	assert.Equal(t, vmath.V(0, 0), aliased[*Player](t, eng, AliasPlayer).Base().Pos)
}

func TestPlayerAutoFire(t *testing.T) {
	eng := newEngine(t, nil)
	ctx := eng.Context()
	eng.Spawn(NewPlayer(vmath.V(0, -100)))
	eng.Step(tick)
	p := aliased[*Player](t, eng, AliasPlayer)
	require.Equal(t, 1, eng.Len())

	eng.Input([]*event.Event{event.NewKey(event.KeyFire, event.Pressed)})
	eng.Step(tick)
	assert.True(t, p.Firing())
	assert.Equal(t, 2, eng.Len(), "first shot on press")
	assert.True(t, ctx.Timers.Has(p.Base().ID, parameter.PlayerFireTimerID, parameter.ClassFire))

	eng.Step(parameter.PlayerFireInterval)
	assert.Equal(t, 3, eng.Len(), "timer shot")

	// Repeated press while firing is not a new shot
	eng.Input([]*event.Event{event.NewKey(event.KeyFire, event.Pressed)})
	eng.Input([]*event.Event{event.NewKey(event.KeyFire, event.Released)})
	eng.Step(parameter.PlayerFireInterval)
	assert.False(t, p.Firing())
	assert.False(t, ctx.Timers.Has(p.Base().ID, parameter.PlayerFireTimerID, parameter.ClassFire))
	assert.Equal(t, 3, eng.Len())
}

func TestPlayerBulletLeavesScreen(t *testing.T) {
	eng := newEngine(t, nil)
	eng.Spawn(NewScreenArea())
	eng.Spawn(NewPlayerBullet(vmath.V(0, 200)))
	eng.Step(tick)
	require.Equal(t, 2, eng.Len())

	eng.Step(100 * time.Millisecond)
	eng.Step(100 * time.Millisecond)
	assert.Equal(t, 1, eng.Len())
}

func TestPlayerHitAndDeath(t *testing.T) {
	l := testLevel(t, "")
	eng := newEngine(t, l)
	ctx := eng.Context()
	watch := &probe{types: []event.Type{event.App}}
	eng.Spawn(watch.at(vmath.V(0, 0)))
	eng.Spawn(NewPlayer(vmath.V(0, 0)))
	eng.Step(tick)
	p := aliased[*Player](t, eng, AliasPlayer)

	for i := 0; i < parameter.PlayerLives; i++ {
		eng.Spawn(NewBullet(l.Bullets["ball"], l.Sprites["dot"], vmath.V(0, 0), vmath.Vec2{}))
		eng.Step(tick)
		require.Len(t, ctx.Registry.Tagged(TagBullets), 1)

		eng.Step(tick)
		assert.Empty(t, ctx.Registry.Tagged(TagBullets), "bullet consumed by the hit")
		if i < parameter.PlayerLives-1 {
			assert.True(t, p.Invulnerable())

			// A bullet during the grace time is absorbed without damage
			eng.Spawn(NewBullet(l.Bullets["ball"], l.Sprites["dot"], vmath.V(0, 0), vmath.Vec2{}))
			eng.Step(tick)
			eng.Step(tick)
			assert.Equal(t, parameter.PlayerLives-1-i, p.Lives())

			eng.Step(parameter.PlayerInvulnerable)
			assert.False(t, p.Invulnerable())
		}
	}

	_, ok := ctx.Registry.Lookup(AliasPlayer)
	assert.False(t, ok, "player destroyed at zero lives")
	assert.Equal(t, int64(0), ctx.Status.Ints.Get(status.KeyLives).Load())
	assert.Equal(t, []event.AppPayload{
		{Kind: event.AppPlayerHit, Value: 2},
		{Kind: event.AppPlayerHit, Value: 1},
		{Kind: event.AppPlayerHit, Value: 0},
	}, watch.apps())
}

func TestPlayerBlinkWhileInvulnerable(t *testing.T) {
	p := &Player{invuln: time.Second}
	assert.Equal(t, 0.0, p.fade(0))
	assert.Equal(t, 0.7, p.fade(parameter.PlayerBlinkInterval))
	p.invuln = 0
	p.hover = true
	assert.Equal(t, 0.3, p.fade(parameter.PlayerBlinkInterval))
}

func firstSpawn(t *testing.T, l *level.Level) *level.Spawn {
	t.Helper()
	evs := l.Events[parameter.StartEvent]
	require.NotEmpty(t, evs)
	require.NotEmpty(t, evs[0].Spawns)
	return evs[0].Spawns[0]
}

func TestEnemyLeavesAfterLastPath(t *testing.T) {
	l := testLevel(t, `
[level.wave]
time = { after = "start", delay = 0 }
spawn = { type = "enemy", enemy_id = "grunt", paths = [{ type = "fixed", time = 0.5 }, { type = "curve", speed = 100, points = ["current", ["current", 50, 0]] }] }
`)
	eng := newEngine(t, l)
	ctx := eng.Context()
	eng.Spawn(NewEnemy(l, firstSpawn(t, l), vmath.V(0, 100)))
	eng.Step(tick)
	require.Len(t, ctx.Registry.Tagged(TagEnemies), 1)
	e, ok := eng.Object(ctx.Registry.Tagged(TagEnemies)[0])
	require.True(t, ok)
	enemy := e.(*Enemy)

	eng.Step(250 * time.Millisecond)
	assert.Equal(t, vmath.V(0, 100), enemy.Base().Pos, "fixed path holds")

	// Hold ends, curve starts from the current position
	eng.Step(250 * time.Millisecond)
	eng.Step(250 * time.Millisecond)
	assert.InDelta(t, 25, enemy.Base().Pos.X, 1e-6)

	for i := 0; i < 10 && eng.Len() > 0; i++ {
		eng.Step(250 * time.Millisecond)
	}
	assert.Equal(t, 0, eng.Len())
	assert.Equal(t, int64(0), ctx.Score(), "leaving is not a kill")
}

func TestEnemyUnknownClass(t *testing.T) {
	l := testLevel(t, "")
	eng := newEngine(t, l)
	eng.Spawn(NewEnemy(l, &level.Spawn{Enemy: "ghost"}, vmath.Vec2{}))
	eng.Step(tick)
	assert.Equal(t, 0, eng.Len())
}

func TestEnemyIgnoresOwnBullets(t *testing.T) {
	l := testLevel(t, `
[level.wave]
time = { after = "start", delay = 0 }

[level.wave.spawn]
type = "enemy"
enemy_id = "grunt"

[[level.wave.spawn.paths]]
type = "fixed"
time = 5

[[level.wave.spawn.paths.action]]
type = "bullets"
bullet_id = "ball"
pattern = { type = "point", angle = 270, amount = 1, speed = 1 }
`)
	eng := newEngine(t, l)
	ctx := eng.Context()
	eng.Spawn(NewEnemy(l, firstSpawn(t, l), vmath.V(0, 0)))
	for i := 0; i < 4; i++ {
		eng.Step(tick)
	}

	require.Len(t, ctx.Registry.Tagged(TagBullets), 1)
	enemies := ctx.Registry.Tagged(TagEnemies)
	require.Len(t, enemies, 1)
	obj, _ := eng.Object(enemies[0])
	assert.Equal(t, 2, obj.(*Enemy).Health())

	// Enemy bullets and enemies are interacting groups; the pair is reported and dropped by the enemy
	assert.Positive(t, ctx.Status.Ints.Get(status.KeyCollisions).Load())
}

func TestEnemyFiresAction(t *testing.T) {
	l := testLevel(t, `
[level.wave]
time = { after = "start", delay = 0 }

[level.wave.spawn]
type = "enemy"
enemy_id = "grunt"

[[level.wave.spawn.paths]]
type = "fixed"
time = 5

[[level.wave.spawn.paths.action]]
type = "bullets"
bullet_id = "ball"
pattern = { type = "point", angle = 270, amount = 3, time_int = 0.1, speed = 100 }

[[level.wave.spawn.paths.action]]
type = "bullets"
bullet_id = "ball"
delay = 1
pattern = { type = "point", angle = 90, amount = 1, speed = 50 }
`)
	eng := newEngine(t, l)
	ctx := eng.Context()
	eng.Spawn(NewEnemy(l, firstSpawn(t, l), vmath.V(0, 0)))
	eng.Step(tick)
	id := ctx.Registry.Tagged(TagEnemies)[0]
	obj, _ := eng.Object(id)
	enemy := obj.(*Enemy)
	assert.Equal(t, 1, enemy.Firing(), "zero-delay action starts inline")
	assert.True(t, ctx.Timers.Has(id, 1, parameter.ClassAction))

	eng.Step(tick)
	assert.Len(t, ctx.Registry.Tagged(TagBullets), 1, "first shot immediately")

	eng.Step(500 * time.Millisecond)
	assert.Len(t, ctx.Registry.Tagged(TagBullets), 3)
	assert.Equal(t, 0, enemy.Firing())

	// Timer expiry is delivered ahead of Update, so the delayed burst fires in the same step
	eng.Step(500 * time.Millisecond)
	assert.False(t, ctx.Timers.Has(id, 1, parameter.ClassAction))
	assert.Equal(t, 0, enemy.Firing())
	bullets := ctx.Registry.Tagged(TagBullets)
	require.Len(t, bullets, 4)

	obj, _ = eng.Object(bullets[3])
	b := obj.(*Bullet)
	assert.InDelta(t, 0, b.Velocity().X, 1e-9)
	assert.InDelta(t, 50, b.Velocity().Y, 1e-9)
	assert.Equal(t, parameter.DefaultBulletDamage, b.Damage())
}

func TestEnemyKilledByPlayerBullets(t *testing.T) {
	l := testLevel(t, `
[level.wave]
time = { after = "start", delay = 0 }
spawn = { type = "enemy", enemy_id = "grunt", paths = [{ type = "fixed", time = 10 }] }
`)
	eng := newEngine(t, l)
	ctx := eng.Context()
	watch := &probe{types: []event.Type{event.App}}
	eng.Spawn(watch.at(vmath.Vec2{}))
	eng.Spawn(NewEnemy(l, firstSpawn(t, l), vmath.V(0, 50)))
	eng.Step(tick)
	id := ctx.Registry.Tagged(TagEnemies)[0]
	obj, _ := eng.Object(id)
	enemy := obj.(*Enemy)

	eng.Spawn(NewPlayerBullet(vmath.V(0, 50)))
	eng.Step(time.Millisecond)
	eng.Step(time.Millisecond)
	assert.Equal(t, 1, enemy.Health())
	assert.Equal(t, 2, eng.Len(), "bullet spent on the hit")

	eng.Spawn(NewPlayerBullet(vmath.V(0, 50)))
	eng.Step(time.Millisecond)
	eng.Step(time.Millisecond)
	assert.Equal(t, 1, eng.Len())
	assert.Empty(t, ctx.Registry.Tagged(TagEnemies))
	assert.Equal(t, int64(parameter.EnemyScore), ctx.Score())
	assert.Equal(t, []event.AppPayload{{Kind: event.AppEnemyKilled, Value: int64(id)}}, watch.apps())
}

func TestBulletCulledOutsideScreen(t *testing.T) {
	l := testLevel(t, "")
	eng := newEngine(t, l)
	ctx := eng.Context()
	eng.Spawn(NewScreenArea())
	eng.Spawn(NewBullet(l.Bullets["ball"], l.Sprites["dot"], vmath.V(0, 200), vmath.V(0, 100)))
	eng.Spawn(NewBullet(l.Bullets["ball"], l.Sprites["dot"], vmath.V(0, 500), vmath.V(0, -1)))
	eng.Step(tick)
	assert.Len(t, ctx.Registry.Tagged(TagBullets), 2)
	eng.Step(tick)
	assert.Len(t, ctx.Registry.Tagged(TagBullets), 1, "bullet created outside is culled on its first update")

	for i := 0; i < 10; i++ {
		eng.Step(100 * time.Millisecond)
	}
	assert.Empty(t, ctx.Registry.Tagged(TagBullets))
	assert.Equal(t, 0, ctx.Slots.InUse("dot"))
}

func TestBulletWithoutClass(t *testing.T) {
	eng := newEngine(t, nil)
	eng.Spawn(NewBullet(nil, nil, vmath.Vec2{}, vmath.Vec2{}))
	eng.Step(tick)
	assert.Equal(t, 0, eng.Len())
}

func TestScreenAreaBounds(t *testing.T) {
	assert.True(t, InBounds(vmath.V(0, 0)))
	assert.True(t, InBounds(vmath.V(parameter.WorldWidth/2+parameter.CullMargin, 0)))
	assert.False(t, InBounds(vmath.V(0, -parameter.WorldHeight)))
}

func TestMouseHoverAndClick(t *testing.T) {
	eng := newEngine(t, nil)
	shape := physics.Circle(4)
	target := &probe{shape: &shape}
	eng.Spawn(NewMouse())
	eng.Spawn(NewScreenArea())
	eng.Spawn(target.at(vmath.V(50, 50)))
	eng.Step(tick)
	m := aliased[*Mouse](t, eng, AliasMouse)
	mouseID := int64(m.Base().ID)
	assert.Empty(t, m.Hovered())

	eng.Input([]*event.Event{event.NewMouseMove(vmath.V(50, 50))})
	eng.Step(tick)
	assert.Equal(t, []core.Entity{target.Base().ID}, m.Hovered())

	eng.Input([]*event.Event{
		event.NewMouseButton(vmath.V(50, 50), event.MouseLeft, event.Pressed),
		event.NewMouseButton(vmath.V(50, 50), event.MouseLeft, event.Pressed),
		event.NewMouseButton(vmath.V(50, 50), event.MouseRight, event.Released),
	})
	eng.Step(tick)
	eng.Input([]*event.Event{event.NewMouseButton(vmath.V(50, 50), event.MouseLeft, event.Released)})
	eng.Step(tick)

	eng.Input([]*event.Event{event.NewMouseMove(vmath.V(-50, -50))})
	eng.Step(tick)
	assert.Empty(t, m.Hovered())

	assert.Equal(t, []event.AppPayload{
		{Kind: event.AppMouseOver, Value: mouseID},
		{Kind: event.AppMouseClicked, Value: mouseID},
		{Kind: event.AppMouseUnclicked, Value: mouseID},
		{Kind: event.AppMouseLeft, Value: mouseID},
	}, target.apps())
}

func TestMouseHoverDimsPlayer(t *testing.T) {
	eng := newEngine(t, testLevel(t, ""))
	eng.Spawn(NewMouse())
	eng.Spawn(NewPlayer(vmath.V(20, 0)))
	eng.Step(tick)
	p := aliased[*Player](t, eng, AliasPlayer)

	eng.Input([]*event.Event{event.NewMouseMove(vmath.V(20, 0))})
	eng.Step(tick)
	require.True(t, p.hover)

	frame := eng.Snapshot()
	require.Len(t, frame, 1)
	assert.Equal(t, parameter.PlayerSprite, frame[0].Sprite)
	assert.Equal(t, 0.3, frame[0].Fade)
}

func TestLevelControllerDefaultPlayer(t *testing.T) {
	l := testLevel(t, `
[level.wave]
time = { after = "start", delay = 1 }
spawn = { type = "enemy", enemy_id = "grunt", location = [0, 100], paths = [{ type = "fixed", time = 0.5 }] }
`)
	eng := newEngine(t, l)
	ctx := eng.Context()
	watch := &probe{types: []event.Type{event.App}}
	eng.Spawn(watch.at(vmath.Vec2{}))
	eng.Spawn(NewLevelController(l))
	eng.Step(tick)

	c := aliased[*LevelController](t, eng, AliasLevel)
	p := aliased[*Player](t, eng, AliasPlayer)
	aliased[*ScreenArea](t, eng, AliasScreen)
	assert.Equal(t, vmath.V(parameter.PlayerSpawnX, parameter.PlayerSpawnY), p.Base().Pos)
	st, _ := c.Sequencer().State("wave")
	assert.Equal(t, level.StateWaiting, st)

	eng.Step(time.Second)
	assert.Equal(t, int64(1), ctx.Status.Ints.Get(status.KeyFired).Load())
	assert.False(t, c.Finished(), "enemy created but not yet live")

	eng.Step(tick)
	assert.Len(t, ctx.Registry.Tagged(TagEnemies), 1)
	assert.False(t, c.Finished())

	for i := 0; i < 10 && !c.Finished(); i++ {
		eng.Step(250 * time.Millisecond)
	}
	assert.True(t, c.Finished())
	assert.True(t, ctx.Status.Bools.Get(status.KeyDone).Load())

	var kinds []event.AppKind
	for _, a := range watch.apps() {
		kinds = append(kinds, a.Kind)
	}
	assert.Equal(t, []event.AppKind{event.AppLevelFired, event.AppLevelFinished}, kinds)
}

func TestLevelControllerStartsAtOffset(t *testing.T) {
	l := testLevel(t, `
[level.a]
time = { after = "start", delay = 1 }
spawn = { type = "enemy", enemy_id = "grunt", location = [0, 100], paths = [{ type = "fixed", time = 10 }] }

[level.b]
time = { after = "a", delay = 1 }
spawn = { type = "enemy", enemy_id = "grunt", location = [20, 100], paths = [{ type = "fixed", time = 10 }] }

[level.c]
time = { after = "b", delay = 1 }
spawn = { type = "enemy", enemy_id = "grunt", location = [40, 100], paths = [{ type = "fixed", time = 10 }] }

[level.d]
time = { after = "start", delay = 0.5 }
spawn = { type = "enemy", enemy_id = "grunt", location = [60, 100], paths = [{ type = "fixed", time = 10 }] }
`)
	require.Equal(t, 3*time.Second, l.Duration())

	eng := newEngine(t, l)
	ctx := eng.Context()
	eng.Spawn(NewLevelControllerAt(l, 2500*time.Millisecond))
	eng.Step(tick)

	c := aliased[*LevelController](t, eng, AliasLevel)
	assert.Equal(t, 2500*time.Millisecond, c.Start())
	want := map[string]level.State{"a": level.StateFired, "b": level.StateFired, "c": level.StateWaiting, "d": level.StateFired}
	for name, st := range want {
		got, ok := c.Sequencer().State(name)
		require.True(t, ok)
		assert.Equal(t, st, got, "event %s", name)
	}
	assert.Equal(t, int64(3), ctx.Status.Ints.Get(status.KeyFired).Load())
	assert.Len(t, ctx.Registry.Tagged(TagEnemies), 3)
	assert.False(t, c.Finished())
}

func TestLevelControllerStartClamped(t *testing.T) {
	l := testLevel(t, `
[level.wave]
time = { after = "start", delay = 2 }
spawn = { type = "enemy", enemy_id = "grunt", location = [0, 100], paths = [{ type = "fixed", time = 10 }] }
`)
	eng := newEngine(t, l)
	eng.Spawn(NewLevelControllerAt(l, time.Hour))
	eng.Step(tick)
	assert.Equal(t, 2*time.Second, aliased[*LevelController](t, eng, AliasLevel).Start())

	eng = newEngine(t, l)
	eng.Spawn(NewLevelController(l))
	eng.Step(tick)
	c := aliased[*LevelController](t, eng, AliasLevel)
	assert.Zero(t, c.Start())
	st, _ := c.Sequencer().State("wave")
	assert.Equal(t, level.StateWaiting, st)
}

func TestLevelControllerRejectsCycle(t *testing.T) {
	l := testLevel(t, `
[level.a]
time = { after = "b", delay = 1 }
spawn = { type = "player" }

[level.b]
time = { after = "a", delay = 1 }
spawn = { type = "player" }
`)
	eng := newEngine(t, l)
	eng.Spawn(NewLevelController(l))
	eng.Step(tick)
	assert.Equal(t, 0, eng.Len())
}

func TestStageRunsToCompletion(t *testing.T) {
	l, err := level.Load(filepath.Join("..", parameter.DefaultLevelPath), zaptest.NewLogger(t))
	require.NoError(t, err)

	grid := physics.NewGridPass(parameter.WorldWidth+2*parameter.CullMargin,
		parameter.WorldHeight+2*parameter.CullMargin, parameter.GridCellSize)
	eng := engine.New(engine.Options{Log: zaptest.NewLogger(t), Level: l, Strategy: grid})
	ctx := eng.Context()
	watch := &probe{types: []event.Type{event.App}}
	eng.Spawn(watch.at(vmath.Vec2{}))
	eng.Spawn(NewLevelController(l))
	eng.Step(tick)

	p := aliased[*Player](t, eng, AliasPlayer)
	assert.Equal(t, vmath.V(0, -156), p.Base().Pos, "level places the player")
	c := aliased[*LevelController](t, eng, AliasLevel)

	maxBullets := 0
	for elapsed := time.Duration(0); elapsed < 90*time.Second && !c.Finished(); elapsed += tick {
		eng.Step(tick)
		maxBullets = max(maxBullets, len(ctx.Registry.Tagged(TagBullets)))
	}
	require.True(t, c.Finished())
	assert.Equal(t, len(l.EventNames()), c.Sequencer().Fired())
	assert.Positive(t, maxBullets)
	assert.Empty(t, ctx.Registry.Tagged(TagEnemies))

	fired := 0
	for _, a := range watch.apps() {
		if a.Kind == event.AppLevelFired {
			fired++
		}
	}
	assert.Equal(t, len(l.EventNames()), fired)
}
