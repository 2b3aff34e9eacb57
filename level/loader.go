package level

import (
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lixenwraith/danmaku/motion"
	"github.com/lixenwraith/danmaku/parameter"
	"github.com/lixenwraith/danmaku/physics"
	"github.com/lixenwraith/danmaku/vmath"
)

// ErrImportCycle is returned when level files import each other
var ErrImportCycle = errors.New("level import cycle")

// File layout

type rawFile struct {
	Name    string               `toml:"name"`
	Import  []string             `toml:"import"`
	Sprites map[string]rawSprite `toml:"sprites"`
	Enemies map[string]rawEnemy  `toml:"enemies"`
	Bullets map[string]rawBullet `toml:"bullets"`
	Level   map[string]rawEvent  `toml:"level"`
}

type rawSprite struct {
	Texture      string     `toml:"texture"`
	Glyph        string     `toml:"glyph"`
	Color        string     `toml:"color"`
	Size         []number   `toml:"size"`
	MaxAmount    int        `toml:"max_amount"`
	Hitbox       string     `toml:"hitbox"`
	Radius       number     `toml:"radius"`
	HitboxBounds [][]number `toml:"hitbox_bounds"`
}

type rawEnemy struct {
	Sprite string `toml:"sprite"`
	Health *int   `toml:"health"`
	Damage *int   `toml:"damage"`
}

type rawBullet struct {
	Sprite        string `toml:"sprite"`
	Damage        *int   `toml:"damage"`
	Behavior      string `toml:"behavior"`
	DeaccelTime   number `toml:"deaccel_time"`
	DeaccelAmount number `toml:"deaccel_amount"`
}

type rawEvent struct {
	Time struct {
		After string `toml:"after"`
		Delay number `toml:"delay"`
	} `toml:"time"`
	// Spawn is one table or an array of tables
	Spawn toml.Primitive `toml:"spawn"`
}

type rawSpawn struct {
	Type        string      `toml:"type"`
	EnemyID     string      `toml:"enemy_id"`
	Location    *pointValue `toml:"location"`
	Pattern     *rawPattern `toml:"pattern"`
	Paths       []rawPath   `toml:"paths"`
	Repeat      int         `toml:"repeat"`
	RepeatDelay number      `toml:"repeat_delay"`
	MirrorX     bool        `toml:"mirror_x"`
	MirrorY     bool        `toml:"mirror_y"`
}

type rawPattern struct {
	Type        string      `toml:"type"`
	Speed       *number     `toml:"speed"`
	Amount      *int        `toml:"amount"`
	Radius      number      `toml:"radius"`
	TimeInt     number      `toml:"time_int"`
	Repeat      int         `toml:"repeat"`
	RepeatDelay number      `toml:"repeat_delay"`
	Angle       *angleValue `toml:"angle"`
	AStart      *angleValue `toml:"astart"`
	AEnd        *angleValue `toml:"aend"`
	Wobble      *struct {
		HalfAngle   number         `toml:"half_angle"`
		QuarterTime number         `toml:"quarter_time"`
		InitialDir  *rotationValue `toml:"initial_dir"`
	} `toml:"wobble"`
}

type rawPath struct {
	Type      string         `toml:"type"`
	Speed     *number        `toml:"speed"`
	Points    []pointValue   `toml:"points"`
	Center    *pointValue    `toml:"center"`
	Radius    *number        `toml:"radius"`
	Degrees   *number        `toml:"degrees"`
	Direction *rotationValue `toml:"direction"`
	Time      *number        `toml:"time"`
	// Action is one table or an array of tables
	Action toml.Primitive `toml:"action"`
}

type rawAction struct {
	Type     string      `toml:"type"`
	BulletID string      `toml:"bullet_id"`
	Pattern  *rawPattern `toml:"pattern"`
	Delay    number      `toml:"delay"`
}

// loader merges a root file and its imports into one Level
type loader struct {
	level   *Level
	events  []*LevelEvent
	names   map[string]string // event name -> defining file
	merged  map[uint64]bool
	loading map[uint64]string
	log     *zap.Logger
}

// Load reads a level file and every file it imports
func Load(path string, log *zap.Logger) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read level")
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return parse(data, filepath.Dir(path), path, name, log)
}

// Parse decodes level data; imports resolve relative to dir
func Parse(data []byte, dir string, log *zap.Logger) (*Level, error) {
	return parse(data, dir, "<inline>", parameter.DefaultLevel, log)
}

func parse(data []byte, dir, origin, name string, log *zap.Logger) (*Level, error) {
	if log == nil {
		log = zap.NewNop()
	}
	l := &loader{
		level:   NewLevel(name),
		names:   make(map[string]string),
		merged:  make(map[uint64]bool),
		loading: make(map[uint64]string),
		log:     log,
	}
	l.level.Hash = xxhash.Sum64(data)

	if err := l.load(data, dir, origin); err != nil {
		return nil, err
	}

	// Ids follow name order so they are stable across runs
	sort.Slice(l.events, func(i, j int) bool { return l.events[i].Name < l.events[j].Name })
	for i, ev := range l.events {
		ev.ID = uint32(i + 1)
		l.level.AddEvent(ev)
	}

	if err := l.level.Validate(); err != nil {
		return nil, errors.Wrapf(err, "level %q", l.level.Name)
	}
	log.Info("level loaded",
		zap.String("level", l.level.Name),
		zap.Int("sprites", len(l.level.Sprites)),
		zap.Int("enemies", len(l.level.Enemies)),
		zap.Int("bullets", len(l.level.Bullets)),
		zap.Int("events", len(l.events)),
		zap.Uint64("hash", l.level.Hash))
	return l.level, nil
}

func (l *loader) load(data []byte, dir, origin string) error {
	h := xxhash.Sum64(data)
	if prev, ok := l.loading[h]; ok {
		return errors.Wrapf(ErrImportCycle, "%s imports %s", origin, prev)
	}
	if l.merged[h] {
		l.log.Debug("level import already merged", zap.String("file", origin))
		return nil
	}
	l.loading[h] = origin
	defer delete(l.loading, h)

	var raw rawFile
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return errors.Wrapf(err, "parse %s", origin)
	}
	if raw.Name != "" && origin == "<inline>" {
		l.level.Name = raw.Name
	}

	// Imports merge first so local definitions override them
	for _, imp := range raw.Import {
		path := filepath.Join(dir, imp)
		b, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "%s: import %q", origin, imp)
		}
		if err := l.load(b, filepath.Dir(path), path); err != nil {
			return err
		}
	}

	for name, r := range raw.Sprites {
		s, err := convertSprite(name, r)
		if err != nil {
			return errors.Wrapf(err, "%s: sprite %q", origin, name)
		}
		l.level.Sprites[name] = s
	}
	for name, r := range raw.Enemies {
		l.level.Enemies[name] = convertEnemy(name, r)
	}
	for name, r := range raw.Bullets {
		b, err := convertBullet(name, r)
		if err != nil {
			return errors.Wrapf(err, "%s: bullet %q", origin, name)
		}
		l.level.Bullets[name] = b
	}

	names := make([]string, 0, len(raw.Level))
	for name := range raw.Level {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if prev, ok := l.names[name]; ok {
			return errors.Wrapf(ErrDuplicateEvent, "%q defined in %s and %s", name, prev, origin)
		}
		ev, err := l.convertEvent(md, name, raw.Level[name])
		if err != nil {
			return errors.Wrapf(err, "%s: event %q", origin, name)
		}
		l.names[name] = origin
		l.events = append(l.events, ev)
	}

	for _, key := range md.Undecoded() {
		l.log.Warn("unknown level key", zap.String("file", origin), zap.String("key", key.String()))
	}
	l.merged[h] = true
	return nil
}

// decodeTables decodes a primitive holding one table or an array of tables
func decodeTables[T any](md toml.MetaData, prim toml.Primitive) ([]T, error) {
	var list []T
	if err := md.PrimitiveDecode(prim, &list); err == nil {
		return list, nil
	}
	var one T
	if err := md.PrimitiveDecode(prim, &one); err != nil {
		return nil, err
	}
	return []T{one}, nil
}

func convertSprite(name string, r rawSprite) (*Sprite, error) {
	s := &Sprite{
		Name:      name,
		Texture:   r.Texture,
		Color:     r.Color,
		MaxAmount: r.MaxAmount,
	}
	if s.MaxAmount <= 0 {
		s.MaxAmount = parameter.DefaultMaxAmount
	}
	glyph := r.Glyph
	if glyph == "" {
		glyph = name
	}
	s.Glyph, _ = utf8.DecodeRuneInString(glyph)

	switch len(r.Size) {
	case 0:
		s.Size = vmath.V(2*parameter.DefaultSpriteRadius, 2*parameter.DefaultSpriteRadius)
	case 2:
		s.Size = vmath.V(float64(r.Size[0]), float64(r.Size[1]))
	default:
		return nil, errors.Errorf("size must be [w, h], got %d values", len(r.Size))
	}

	switch r.Hitbox {
	case "", "sphere":
		radius := float64(r.Radius)
		if radius <= 0 {
			radius = math.Min(s.Size.X, s.Size.Y) / 2
		}
		s.Hitbox = physics.Circle(radius)
	case "box":
		s.Hitbox = physics.Rect(s.Size.X, s.Size.Y)
	case "points":
		// Convex hulls collapse to their bounding box
		if len(r.HitboxBounds) == 0 {
			return nil, errors.New("points hitbox needs hitbox_bounds")
		}
		lo := vmath.V(math.Inf(1), math.Inf(1))
		hi := vmath.V(math.Inf(-1), math.Inf(-1))
		for _, p := range r.HitboxBounds {
			if len(p) != 2 {
				return nil, errors.New("hitbox_bounds entries must be [x, y]")
			}
			lo = vmath.V(math.Min(lo.X, float64(p[0])), math.Min(lo.Y, float64(p[1])))
			hi = vmath.V(math.Max(hi.X, float64(p[0])), math.Max(hi.Y, float64(p[1])))
		}
		s.Hitbox = physics.Rect(2*math.Max(math.Abs(lo.X), math.Abs(hi.X)), 2*math.Max(math.Abs(lo.Y), math.Abs(hi.Y)))
	default:
		return nil, errors.Errorf("hitbox must be sphere, box or points, got %q", r.Hitbox)
	}
	return s, nil
}

func convertEnemy(name string, r rawEnemy) *Enemy {
	e := &Enemy{Name: name, Sprite: r.Sprite, Health: parameter.DefaultEnemyHealth}
	if r.Health != nil {
		e.Health = *r.Health
	}
	if r.Damage != nil {
		e.Damage = *r.Damage
	}
	return e
}

func convertBullet(name string, r rawBullet) (*Bullet, error) {
	b := &Bullet{Name: name, Sprite: r.Sprite, Damage: parameter.DefaultBulletDamage}
	if r.Damage != nil {
		b.Damage = *r.Damage
	}
	switch r.Behavior {
	case "", "straight":
		b.Behavior = Straight
	case "deaccel":
		b.Behavior = Deaccel
		b.DeaccelTime = r.DeaccelTime.seconds()
		b.DeaccelAmount = float64(r.DeaccelAmount)
		if b.DeaccelTime <= 0 || b.DeaccelAmount < 0 || b.DeaccelAmount > 1 {
			return nil, errors.Errorf("deaccel needs deaccel_time > 0 and deaccel_amount in [0, 1]")
		}
	default:
		return nil, errors.Errorf("behavior must be straight or deaccel, got %q", r.Behavior)
	}
	return b, nil
}

func (l *loader) convertEvent(md toml.MetaData, name string, r rawEvent) (*LevelEvent, error) {
	ev := &LevelEvent{
		Name:  name,
		After: r.Time.After,
		Delay: r.Time.Delay.seconds(),
	}
	if ev.After == "" {
		ev.After = parameter.StartEvent
	}

	spawns, err := decodeTables[rawSpawn](md, r.Spawn)
	if err != nil {
		return nil, errors.Wrap(err, "spawn")
	}
	for i, rs := range spawns {
		s, err := l.convertSpawn(md, rs)
		if err != nil {
			return nil, errors.Wrapf(err, "spawn %d", i+1)
		}
		ev.Spawns = append(ev.Spawns, s.Expand()...)
	}
	return ev, nil
}

func (l *loader) convertSpawn(md toml.MetaData, r rawSpawn) (*Spawn, error) {
	s := &Spawn{
		Location:    motion.Fixed(0, 0),
		Repeat:      r.Repeat,
		RepeatDelay: r.RepeatDelay.seconds(),
		MirrorX:     r.MirrorX,
		MirrorY:     r.MirrorY,
	}
	if r.Location != nil {
		s.Location = r.Location.Point
	}
	if s.Repeat < 0 {
		return nil, errors.Errorf("negative repeat %d", s.Repeat)
	}

	switch r.Type {
	case "player":
		s.Kind = SpawnPlayer
		return s, nil
	case "enemy":
		s.Kind = SpawnEnemy
	default:
		return nil, errors.Errorf("type must be player or enemy, got %q", r.Type)
	}

	if r.EnemyID == "" {
		return nil, errors.New("enemy spawn needs enemy_id")
	}
	s.Enemy = r.EnemyID

	if r.Pattern != nil {
		p, err := convertPattern(*r.Pattern)
		if err != nil {
			return nil, errors.Wrap(err, "pattern")
		}
		s.Pattern = p
	}

	for i, rp := range r.Paths {
		p, err := convertPath(md, rp)
		if err != nil {
			return nil, errors.Wrapf(err, "path %d", i+1)
		}
		s.Paths = append(s.Paths, p)
	}
	if len(s.Paths) == 0 {
		return nil, errors.New("enemy spawn needs at least one path")
	}
	return s, nil
}

func convertPattern(r rawPattern) (*motion.PatternBuilder, error) {
	b := motion.NewPattern().
		Radius(float64(r.Radius)).
		Interval(r.TimeInt.seconds()).
		Repeat(r.Repeat, r.RepeatDelay.seconds())
	if r.Speed != nil {
		b.Speed(float64(*r.Speed))
	} else {
		b.Speed(0)
	}
	if r.Amount != nil {
		b.Amount(*r.Amount)
	}
	if w := r.Wobble; w != nil {
		dir := motion.CounterClockwise
		if w.InitialDir != nil {
			dir = w.InitialDir.Rotation
		}
		b.Wobble(motion.Wobble{
			Amplitude: float64(w.HalfAngle),
			Period:    4 * w.QuarterTime.seconds(),
			Direction: dir,
		})
	}

	switch r.Type {
	case "point":
		angle := motion.FixedAngle(0)
		if r.Angle != nil {
			angle = r.Angle.Angle
		}
		b.Angle(angle)
	case "arc":
		if r.AStart == nil || r.AEnd == nil {
			return nil, errors.Wrap(motion.ErrMissingField, "arc pattern: astart, aend")
		}
		b.Sweep(r.AStart.Angle, r.AEnd.Angle)
	default:
		return nil, errors.Errorf("type must be point or arc, got %q", r.Type)
	}

	// Surface missing fields now rather than when the spawn fires
	if _, err := b.Build(vmath.Vec2{}, vmath.Vec2{}); err != nil {
		return nil, err
	}
	return b, nil
}

func convertPath(md toml.MetaData, r rawPath) (*motion.PathBuilder, error) {
	var b *motion.PathBuilder
	switch r.Type {
	case "arc":
		b = motion.NewArc()
		if r.Center != nil {
			b.Center(r.Center.Point)
		}
		if r.Radius != nil {
			b.Radius(float64(*r.Radius))
		}
		if r.Degrees != nil {
			b.Degrees(float64(*r.Degrees))
		}
		if r.Direction != nil {
			b.Direction(r.Direction.Rotation)
		}
	case "curve":
		b = motion.NewCurve()
		if len(r.Points) > 0 {
			pts := make([]motion.Point, len(r.Points))
			for i, p := range r.Points {
				pts[i] = p.Point
			}
			b.Points(pts...)
		}
	case "fixed":
		b = motion.NewFixed()
		if r.Time != nil {
			b.Duration(r.Time.seconds())
		}
	default:
		return nil, errors.Errorf("type must be arc, curve or fixed, got %q", r.Type)
	}
	if r.Speed != nil {
		b.Speed(float64(*r.Speed))
	} else if r.Type != "fixed" {
		b.Speed(0)
	}

	actions, err := decodeTables[rawAction](md, r.Action)
	if err != nil {
		return nil, errors.Wrap(err, "action")
	}
	for i, ra := range actions {
		a, err := convertAction(ra)
		if err != nil {
			return nil, errors.Wrapf(err, "action %d", i+1)
		}
		b.Action(a)
	}

	if _, err := b.Build(vmath.Vec2{}, vmath.Vec2{}); err != nil {
		return nil, err
	}
	return b, nil
}

func convertAction(r rawAction) (motion.Action, error) {
	switch r.Type {
	case "none":
		return motion.Action{Kind: motion.ActionNone}, nil
	case "bullets":
	default:
		return motion.Action{}, errors.Errorf("type must be bullets or none, got %q", r.Type)
	}
	if r.BulletID == "" {
		return motion.Action{}, errors.New("bullets action needs bullet_id")
	}
	if r.Pattern == nil {
		return motion.Action{}, errors.Wrap(motion.ErrMissingField, "bullets action: pattern")
	}
	p, err := convertPattern(*r.Pattern)
	if err != nil {
		return motion.Action{}, errors.Wrap(err, "pattern")
	}
	return motion.Action{
		Kind:    motion.ActionBullets,
		Delay:   r.Delay.seconds(),
		Bullet:  r.BulletID,
		Pattern: p,
	}, nil
}
