package motion

import (
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/lixenwraith/danmaku/vmath"
)

// Shot is one projectile emitted by a pattern
type Shot struct {
	Offset   vmath.Vec2 // relative to the emitter
	Velocity vmath.Vec2 // units per second
}

// Wobble is a sinusoidal angular offset applied to every shot of a burst
type Wobble struct {
	Amplitude float64 // degrees
	Period    time.Duration
	Direction Rotation
}

// offset returns the angular offset at elapsed burst time t
func (w *Wobble) offset(t time.Duration) float64 {
	if w == nil || w.Period <= 0 {
		return 0
	}
	phase := 2 * math.Pi * t.Seconds() / w.Period.Seconds()
	return w.Direction.Sign() * w.Amplitude * math.Sin(phase)
}

// Tracker returns the tracked target's position, or its last known one
type Tracker func() vmath.Vec2

// PatternBuilder describes an emission pattern
type PatternBuilder struct {
	start, stop Angle
	hasStop     bool
	amount      int
	radius      float64
	speed       float64
	interval    time.Duration
	repeat      int
	repeatDelay time.Duration
	wobble      *Wobble

	has patternFields
}

type patternFields uint8

const (
	hasStart patternFields = 1 << iota
	hasAmount
	hasPatternSpeed
)

// NewPattern starts a pattern builder
func NewPattern() *PatternBuilder {
	return &PatternBuilder{}
}

// Angle sets the same start and stop direction (point pattern)
func (b *PatternBuilder) Angle(a Angle) *PatternBuilder {
	b.start = a
	b.has |= hasStart
	return b
}

// Sweep sets distinct start and stop directions (arc pattern)
func (b *PatternBuilder) Sweep(start, stop Angle) *PatternBuilder {
	b.start, b.stop = start, stop
	b.hasStop = true
	b.has |= hasStart
	return b
}

// Amount sets the number of shots per burst
func (b *PatternBuilder) Amount(n int) *PatternBuilder {
	b.amount = n
	b.has |= hasAmount
	return b
}

// Radius sets the spawn distance from the emitter
func (b *PatternBuilder) Radius(r float64) *PatternBuilder {
	b.radius = r
	return b
}

func (b *PatternBuilder) Speed(s float64) *PatternBuilder {
	b.speed = s
	b.has |= hasPatternSpeed
	return b
}

// Interval sets the time between shots of one burst; zero emits the whole burst at once
func (b *PatternBuilder) Interval(d time.Duration) *PatternBuilder {
	b.interval = d
	return b
}

// Repeat sets the number of extra bursts and the delay between burst starts
func (b *PatternBuilder) Repeat(n int, delay time.Duration) *PatternBuilder {
	b.repeat = n
	b.repeatDelay = delay
	return b
}

func (b *PatternBuilder) Wobble(w Wobble) *PatternBuilder {
	b.wobble = &w
	return b
}

// Angles returns the symbolic start and stop directions
func (b *PatternBuilder) Angles() (Angle, Angle) {
	if b.hasStop {
		return b.start, b.stop
	}
	return b.start, b.start
}

func (b *PatternBuilder) clone() *PatternBuilder {
	c := *b
	if b.wobble != nil {
		w := *b.wobble
		c.wobble = &w
	}
	return &c
}

// MirrorX returns a copy with angles reflected across the vertical axis and wobble reversed
func (b *PatternBuilder) MirrorX() *PatternBuilder {
	c := b.clone()
	c.start, c.stop = c.start.MirrorX(), c.stop.MirrorX()
	if c.wobble != nil {
		c.wobble.Direction = c.wobble.Direction.Flip()
	}
	return c
}

// MirrorY returns a copy with angles reflected across the horizontal axis and wobble reversed
func (b *PatternBuilder) MirrorY() *PatternBuilder {
	c := b.clone()
	c.start, c.stop = c.start.MirrorY(), c.stop.MirrorY()
	if c.wobble != nil {
		c.wobble.Direction = c.wobble.Direction.Flip()
	}
	return c
}

// Build resolves the angles once from the emitter and target positions
func (b *PatternBuilder) Build(from, target vmath.Vec2) (*Pattern, error) {
	switch {
	case b.has&hasStart == 0:
		return nil, errors.Wrap(ErrMissingField, "pattern: angle")
	case b.has&hasAmount == 0:
		return nil, errors.Wrap(ErrMissingField, "pattern: amount")
	case b.has&hasPatternSpeed == 0:
		return nil, errors.Wrap(ErrMissingField, "pattern: speed")
	case b.amount < 1:
		return nil, errors.Errorf("pattern: amount must be positive, got %d", b.amount)
	case b.repeat < 0:
		return nil, errors.Errorf("pattern: negative repeat %d", b.repeat)
	}

	p := &Pattern{
		cfg:        b.clone(),
		from:       from,
		target:     target,
		repeatLeft: b.repeat,
	}
	p.start, p.stop = p.resolve()
	p.bursts = append(p.bursts, p.newBurst())
	return p, nil
}

type burst struct {
	angle   float64
	step    float64
	left    int
	acc     time.Duration
	elapsed time.Duration
}

// Pattern emits the shots of one or more bursts as time advances
// Multiple bursts run independently when repeats overlap
type Pattern struct {
	cfg         *PatternBuilder
	from        vmath.Vec2
	target      vmath.Vec2
	start, stop float64

	tracker    Tracker
	bursts     []*burst
	repeatLeft int
	repeatAcc  time.Duration
	emitted    int
}

// SetTracker attaches a position fetcher; later bursts re-aim at its current value
func (p *Pattern) SetTracker(t Tracker) {
	p.tracker = t
}

// MoveTo updates the emitter position used when later bursts re-resolve tracked angles
func (p *Pattern) MoveTo(pos vmath.Vec2) {
	p.from = pos
}

func (p *Pattern) resolve() (float64, float64) {
	start, stop := p.cfg.Angles()
	return start.Resolve(p.from, p.target), stop.Resolve(p.from, p.target)
}

// newBurst starts a burst whose first shot is due immediately
func (p *Pattern) newBurst() *burst {
	step := 0.0
	if n := p.cfg.amount; n > 1 {
		step = (p.stop - p.start) / float64(n-1)
	}
	return &burst{
		angle: p.start,
		step:  step,
		left:  p.cfg.amount,
		acc:   p.cfg.interval,
	}
}

// retarget re-resolves angles against the tracker before a new burst
func (p *Pattern) retarget() {
	if p.tracker == nil {
		return
	}
	p.target = p.tracker()
	p.start, p.stop = p.resolve()
}

// Trigger starts an extra burst now, independent of the repeat counter
func (p *Pattern) Trigger() {
	p.retarget()
	p.bursts = append(p.bursts, p.newBurst())
}

// Advance moves every burst forward by dt and returns the shots due
func (p *Pattern) Advance(dt time.Duration) []Shot {
	if p.repeatLeft > 0 {
		p.repeatAcc += dt
		for p.repeatLeft > 0 && p.repeatAcc >= p.cfg.repeatDelay {
			p.repeatAcc -= p.cfg.repeatDelay
			p.repeatLeft--
			p.retarget()
			p.bursts = append(p.bursts, p.newBurst())
		}
	}

	var shots []Shot
	kept := p.bursts[:0]
	for _, b := range p.bursts {
		b.acc += dt
		b.elapsed += dt
		for b.left > 0 && b.acc >= p.cfg.interval {
			deg := b.angle + p.cfg.wobble.offset(b.elapsed)
			dir := vmath.FromAngle(deg, 1)
			shots = append(shots, Shot{
				Offset:   dir.Scale(p.cfg.radius),
				Velocity: dir.Scale(p.cfg.speed),
			})
			b.angle += b.step
			b.left--
			if p.cfg.interval > 0 {
				b.acc -= p.cfg.interval
			}
		}
		if b.left > 0 {
			kept = append(kept, b)
		}
	}
	p.bursts = kept
	p.emitted += len(shots)
	return shots
}

// Finished is true once the repeat counter is exhausted and every burst has emitted all shots
func (p *Pattern) Finished() bool {
	return p.repeatLeft == 0 && len(p.bursts) == 0
}

// Emitted returns the total number of shots produced
func (p *Pattern) Emitted() int {
	return p.emitted
}

// Angles returns the currently resolved start and stop directions
func (p *Pattern) Angles() (float64, float64) {
	return p.start, p.stop
}

// MirrorX reflects the pattern in place: resolved and in-flight angles map a -> 180-a
func (p *Pattern) MirrorX() {
	p.cfg = p.cfg.MirrorX()
	p.start, p.stop = 180-p.start, 180-p.stop
	for _, b := range p.bursts {
		b.angle = 180 - b.angle
		b.step = -b.step
	}
}

// MirrorY reflects the pattern in place: a -> -a
func (p *Pattern) MirrorY() {
	p.cfg = p.cfg.MirrorY()
	p.start, p.stop = -p.start, -p.stop
	for _, b := range p.bursts {
		b.angle = -b.angle
		b.step = -b.step
	}
}
