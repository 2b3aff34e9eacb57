package level

import (
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/lixenwraith/danmaku/motion"
	"github.com/lixenwraith/danmaku/parameter"
	"github.com/lixenwraith/danmaku/physics"
	"github.com/lixenwraith/danmaku/vmath"
)

// ErrUnknownRef is returned when a descriptor names a sprite, enemy or bullet that does not exist
var ErrUnknownRef = errors.New("unknown reference")

// Sprite is a drawable class with a fixed pool of render slots
type Sprite struct {
	Name      string
	Texture   string
	Glyph     rune
	Color     string
	Size      vmath.Vec2
	MaxAmount int
	Hitbox    physics.Shape
}

// Enemy describes an enemy class
type Enemy struct {
	Name   string
	Sprite string
	Health int
	Damage int
}

// Behavior is the motion model of an enemy bullet
type Behavior uint8

const (
	// Straight keeps the emitted velocity
	Straight Behavior = iota
	// Deaccel scales speed down linearly over DeaccelTime by DeaccelAmount
	Deaccel
)

func (b Behavior) String() string {
	if b == Deaccel {
		return "deaccel"
	}
	return "straight"
}

// Bullet describes an enemy bullet class
type Bullet struct {
	Name          string
	Sprite        string
	Damage        int
	Behavior      Behavior
	DeaccelTime   time.Duration
	DeaccelAmount float64 // fraction of the initial speed removed, 0..1
}

// SpeedScale returns the velocity multiplier after alive time t
func (b *Bullet) SpeedScale(t time.Duration) float64 {
	if b.Behavior != Deaccel || b.DeaccelTime <= 0 {
		return 1
	}
	f := t.Seconds() / b.DeaccelTime.Seconds()
	if f > 1 {
		f = 1
	}
	return 1 - b.DeaccelAmount*f
}

// SpawnKind selects what a spawn creates
type SpawnKind uint8

const (
	SpawnEnemy SpawnKind = iota
	SpawnPlayer
)

func (k SpawnKind) String() string {
	if k == SpawnPlayer {
		return "player"
	}
	return "enemy"
}

// Spawn places one or more entities when its level event fires
// With a Pattern, every emitted shot becomes one entity at Location plus the shot offset
type Spawn struct {
	Kind        SpawnKind
	Enemy       string
	Location    motion.Point
	Pattern     *motion.PatternBuilder
	Paths       []*motion.PathBuilder
	Repeat      int
	RepeatDelay time.Duration
	MirrorX     bool
	MirrorY     bool
}

func (s *Spawn) clone() *Spawn {
	c := *s
	c.Paths = append([]*motion.PathBuilder(nil), s.Paths...)
	c.MirrorX, c.MirrorY = false, false
	return &c
}

func (s *Spawn) mirrorX() *Spawn {
	c := s.clone()
	c.Location = c.Location.MirrorX()
	if c.Pattern != nil {
		c.Pattern = c.Pattern.MirrorX()
	}
	for i, p := range c.Paths {
		c.Paths[i] = p.MirrorX()
	}
	return c
}

func (s *Spawn) mirrorY() *Spawn {
	c := s.clone()
	c.Location = c.Location.MirrorY()
	if c.Pattern != nil {
		c.Pattern = c.Pattern.MirrorY()
	}
	for i, p := range c.Paths {
		c.Paths[i] = p.MirrorY()
	}
	return c
}

// Expand returns the mirrored copies requested by the flags followed by the spawn itself
func (s *Spawn) Expand() []*Spawn {
	var out []*Spawn
	if s.MirrorX {
		out = append(out, s.mirrorX())
	}
	if s.MirrorY {
		out = append(out, s.mirrorY())
	}
	return append(out, s)
}

// LevelEvent is a named group of spawns fired Delay after its predecessor
type LevelEvent struct {
	Name   string
	ID     uint32
	After  string
	Delay  time.Duration
	Spawns []*Spawn
}

// Level is a fully resolved content bundle
type Level struct {
	Name    string
	Sprites map[string]*Sprite
	Enemies map[string]*Enemy
	Bullets map[string]*Bullet
	// Events maps a predecessor name to the events waiting on it
	Events map[string][]*LevelEvent
	// Hash is the content hash of the root file
	Hash uint64
}

// NewLevel returns an empty bundle
func NewLevel(name string) *Level {
	return &Level{
		Name:    name,
		Sprites: make(map[string]*Sprite),
		Enemies: make(map[string]*Enemy),
		Bullets: make(map[string]*Bullet),
		Events:  make(map[string][]*LevelEvent),
	}
}

// AddEvent registers ev under its predecessor
func (l *Level) AddEvent(ev *LevelEvent) {
	l.Events[ev.After] = append(l.Events[ev.After], ev)
}

// EventNames returns every event name in sorted order
func (l *Level) EventNames() []string {
	var names []string
	for _, list := range l.Events {
		for _, ev := range list {
			names = append(names, ev.Name)
		}
	}
	sort.Strings(names)
	return names
}

// Duration is the longest chain of delays from the start event
// Events on a cycle or behind an unknown predecessor never fire and add nothing
func (l *Level) Duration() time.Duration {
	onPath := make(map[string]bool)
	var walk func(name string) time.Duration
	walk = func(name string) time.Duration {
		if onPath[name] {
			return 0
		}
		onPath[name] = true
		defer delete(onPath, name)

		var longest time.Duration
		for _, ev := range l.Events[name] {
			longest = max(longest, ev.Delay+walk(ev.Name))
		}
		return longest
	}
	return walk(parameter.StartEvent)
}

// HasPlayerSpawn reports whether any event spawns the player
func (l *Level) HasPlayerSpawn() bool {
	for _, list := range l.Events {
		for _, ev := range list {
			for _, s := range ev.Spawns {
				if s.Kind == SpawnPlayer {
					return true
				}
			}
		}
	}
	return false
}

// SpriteOf returns the sprite drawn for an enemy or bullet name
func (l *Level) SpriteOf(enemyOrBullet string) (*Sprite, bool) {
	if e, ok := l.Enemies[enemyOrBullet]; ok {
		s, ok := l.Sprites[e.Sprite]
		return s, ok
	}
	if b, ok := l.Bullets[enemyOrBullet]; ok {
		s, ok := l.Sprites[b.Sprite]
		return s, ok
	}
	return nil, false
}

// Validate checks every cross reference
func (l *Level) Validate() error {
	for name, e := range l.Enemies {
		if _, ok := l.Sprites[e.Sprite]; !ok {
			return errors.Wrapf(ErrUnknownRef, "enemy %q: sprite %q", name, e.Sprite)
		}
	}
	for name, b := range l.Bullets {
		if _, ok := l.Sprites[b.Sprite]; !ok {
			return errors.Wrapf(ErrUnknownRef, "bullet %q: sprite %q", name, b.Sprite)
		}
	}
	for _, list := range l.Events {
		for _, ev := range list {
			for _, s := range ev.Spawns {
				if s.Kind != SpawnEnemy {
					continue
				}
				if _, ok := l.Enemies[s.Enemy]; !ok {
					return errors.Wrapf(ErrUnknownRef, "event %q: enemy %q", ev.Name, s.Enemy)
				}
				for _, p := range s.Paths {
					for _, a := range p.Actions() {
						if a.Kind != motion.ActionBullets {
							continue
						}
						if _, ok := l.Bullets[a.Bullet]; !ok {
							return errors.Wrapf(ErrUnknownRef, "event %q: bullet %q", ev.Name, a.Bullet)
						}
					}
				}
			}
		}
	}
	return nil
}
