package level

import (
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lixenwraith/danmaku/event"
	"github.com/lixenwraith/danmaku/motion"
	"github.com/lixenwraith/danmaku/parameter"
	"github.com/lixenwraith/danmaku/vmath"
)

var (
	// ErrCycle is returned when level events wait on each other
	ErrCycle = errors.New("level event cycle")
	// ErrDuplicateEvent is returned when two events share a name or id
	ErrDuplicateEvent = errors.New("duplicate level event")
)

// State is the lifecycle position of one level event
type State uint8

const (
	// StatePending: registered, predecessor not finished
	StatePending State = iota
	// StateWaiting: predecessor finished, delay timer running
	StateWaiting
	// StateFired: spawns issued
	StateFired
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateWaiting:
		return "waiting"
	case StateFired:
		return "fired"
	}
	return "unknown"
}

// Scheduler owns the timers of the entity running the sequencer
type Scheduler interface {
	SetTimer(t event.Timer)
	RemoveTimer(id uint32, class byte) error
}

// Spawner turns fired spawns into entity creates
type Spawner interface {
	Spawn(s *Spawn, at vmath.Vec2)
	// Target returns the tracked target position used to resolve symbolic points
	Target() vmath.Vec2
}

// activeSpawn is a fired spawn that still has shots or repeats left
type activeSpawn struct {
	spawn       *Spawn
	at          vmath.Vec2
	pattern     *motion.Pattern
	timerID     uint32
	repeatsLeft int
}

func (a *activeSpawn) done() bool {
	return a.repeatsLeft <= 0 && (a.pattern == nil || a.pattern.Finished())
}

// Sequencer drives level events through pending, waiting and fired
type Sequencer struct {
	events map[string][]*LevelEvent
	byName map[string]*LevelEvent
	byID   map[uint32]*LevelEvent
	state  map[string]State

	sched   Scheduler
	spawner Spawner
	active  []*activeSpawn
	repeat  uint32 // last spawn repeat timer id
	fired   int

	log *zap.Logger
}

// NewSequencer validates the event graph and returns a sequencer with every event pending
// Names and ids must be unique and the graph of predecessors acyclic
func NewSequencer(events map[string][]*LevelEvent, log *zap.Logger) (*Sequencer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Sequencer{
		events: make(map[string][]*LevelEvent, len(events)),
		byName: make(map[string]*LevelEvent),
		byID:   make(map[uint32]*LevelEvent),
		state:  make(map[string]State),
		log:    log,
	}

	// Sorted predecessor order keeps validation errors deterministic
	preds := make([]string, 0, len(events))
	for after := range events {
		preds = append(preds, after)
	}
	sort.Strings(preds)

	for _, after := range preds {
		list := events[after]
		for _, ev := range list {
			if ev.Name == parameter.StartEvent {
				return nil, errors.Wrapf(ErrDuplicateEvent, "%q is reserved", ev.Name)
			}
			if _, ok := s.byName[ev.Name]; ok {
				return nil, errors.Wrapf(ErrDuplicateEvent, "name %q", ev.Name)
			}
			if prev, ok := s.byID[ev.ID]; ok {
				return nil, errors.Wrapf(ErrDuplicateEvent, "id %d used by %q and %q", ev.ID, prev.Name, ev.Name)
			}
			s.byName[ev.Name] = ev
			s.byID[ev.ID] = ev
			s.state[ev.Name] = StatePending
		}
		s.events[after] = append([]*LevelEvent(nil), list...)
	}

	if err := s.checkCycles(preds); err != nil {
		return nil, err
	}

	for _, after := range preds {
		if after == parameter.StartEvent {
			continue
		}
		if _, ok := s.byName[after]; !ok {
			log.Warn("level events wait on an unknown predecessor and will never fire",
				zap.String("after", after),
				zap.Int("events", len(events[after])))
		}
	}
	return s, nil
}

// checkCycles walks successor edges depth first from every event
func (s *Sequencer) checkCycles(preds []string) error {
	const (
		white = iota
		grey
		black
	)
	color := make(map[string]int, len(s.byName))
	var stack []string

	var visit func(name string) error
	visit = func(name string) error {
		switch color[name] {
		case grey:
			i := len(stack) - 1
			for i > 0 && stack[i] != name {
				i--
			}
			cycle := append(append([]string(nil), stack[i:]...), name)
			return errors.Wrap(ErrCycle, strings.Join(cycle, " -> "))
		case black:
			return nil
		}
		color[name] = grey
		stack = append(stack, name)
		for _, ev := range s.events[name] {
			if err := visit(ev.Name); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		color[name] = black
		return nil
	}

	for _, after := range preds {
		if err := visit(after); err != nil {
			return err
		}
	}
	return nil
}

// Start binds the collaborators and finishes the implicit start event
// Returns every event fired inline
func (s *Sequencer) Start(sched Scheduler, spawner Spawner) []*LevelEvent {
	s.sched = sched
	s.spawner = spawner
	return s.EventFinished(parameter.StartEvent)
}

// EventFinished advances every event waiting on name
// Zero-delay events fire inline and recursively finish their own successors
func (s *Sequencer) EventFinished(name string) []*LevelEvent {
	list, ok := s.events[name]
	if !ok {
		if _, known := s.byName[name]; !known && name != parameter.StartEvent {
			s.log.Debug("no level events registered", zap.String("after", name))
		}
		return nil
	}

	var fired []*LevelEvent
	for _, ev := range list {
		if s.state[ev.Name] != StatePending {
			continue
		}
		if ev.Delay <= 0 {
			fired = append(fired, s.fire(ev)...)
			continue
		}
		s.state[ev.Name] = StateWaiting
		s.sched.SetTimer(event.OneShot(ev.ID, parameter.ClassLevel, ev.Delay))
	}
	return fired
}

// TimerFired routes a timer expiry of the owning entity
// Level delay timers fire their event; spawn repeat timers re-trigger the spawn
func (s *Sequencer) TimerFired(id uint32, class byte) []*LevelEvent {
	switch class {
	case parameter.ClassLevel:
		ev, ok := s.byID[id]
		if !ok || s.state[ev.Name] != StateWaiting {
			s.log.Debug("stale level timer", zap.Uint32("id", id))
			return nil
		}
		return s.fire(ev)

	case parameter.ClassRepeat:
		for _, a := range s.active {
			if a.timerID == id && a.repeatsLeft > 0 {
				s.repeatSpawn(a)
				return nil
			}
		}
		s.log.Debug("stale spawn repeat timer", zap.Uint32("id", id))
	}
	return nil
}

func (s *Sequencer) fire(ev *LevelEvent) []*LevelEvent {
	s.state[ev.Name] = StateFired
	s.fired++
	s.log.Debug("level event fired",
		zap.String("event", ev.Name),
		zap.Int("spawns", len(ev.Spawns)))

	for _, sp := range ev.Spawns {
		s.activate(sp)
	}
	return append([]*LevelEvent{ev}, s.EventFinished(ev.Name)...)
}

func (s *Sequencer) activate(sp *Spawn) {
	target := s.spawner.Target()
	a := &activeSpawn{
		spawn:       sp,
		at:          sp.Location.Resolve(vmath.Vec2{}, target),
		repeatsLeft: sp.Repeat,
	}

	if sp.Pattern != nil {
		p, err := sp.Pattern.Build(a.at, target)
		if err != nil {
			s.log.Error("spawn pattern", zap.Error(err))
			return
		}
		p.SetTracker(s.spawner.Target)
		a.pattern = p
	} else {
		s.spawner.Spawn(sp, a.at)
	}

	if sp.Repeat > 0 {
		s.repeat++
		a.timerID = s.repeat
		s.sched.SetTimer(event.Repeating(a.timerID, parameter.ClassRepeat, sp.RepeatDelay))
	}
	if !a.done() {
		s.active = append(s.active, a)
	}
}

func (s *Sequencer) repeatSpawn(a *activeSpawn) {
	a.repeatsLeft--
	if a.pattern != nil {
		a.pattern.Trigger()
	} else {
		s.spawner.Spawn(a.spawn, a.at)
	}
	if a.repeatsLeft == 0 {
		if err := s.sched.RemoveTimer(a.timerID, parameter.ClassRepeat); err != nil {
			s.log.Warn("spawn repeat timer", zap.Uint32("id", a.timerID), zap.Error(err))
		}
	}
}

// Update advances every active spawn pattern and spawns one entity per emitted shot
// Returns the number of entities spawned
func (s *Sequencer) Update(dt time.Duration) int {
	n := 0
	kept := s.active[:0]
	for _, a := range s.active {
		if a.pattern != nil {
			for _, shot := range a.pattern.Advance(dt) {
				s.spawner.Spawn(a.spawn, a.at.Add(shot.Offset))
				n++
			}
		}
		if !a.done() {
			kept = append(kept, a)
		}
	}
	for i := len(kept); i < len(s.active); i++ {
		s.active[i] = nil
	}
	s.active = kept
	return n
}

// State returns the lifecycle state of the named event
func (s *Sequencer) State(name string) (State, bool) {
	st, ok := s.state[name]
	return st, ok
}

// Fired returns the number of events fired so far
func (s *Sequencer) Fired() int {
	return s.fired
}

// Active returns the number of spawns still emitting
func (s *Sequencer) Active() int {
	return len(s.active)
}

// Done is true once every event fired and every spawn finished
func (s *Sequencer) Done() bool {
	return s.fired == len(s.byName) && len(s.active) == 0
}
