package physics

import (
	"sort"

	"go.uber.org/zap"

	"github.com/lixenwraith/danmaku/core"
	"github.com/lixenwraith/danmaku/parameter"
	"github.com/lixenwraith/danmaku/registry"
	"github.com/lixenwraith/danmaku/vmath"
)

// Object is one entry of the live spatial index
type Object struct {
	Handle core.Entity
	Pos    vmath.Vec2
	Shape  Shape
	Group  Group
	Query  Query
	Data   *Data
}

// Collision is a contact between two overlapping objects
type Collision struct {
	ID1, ID2     core.Entity
	Data1, Data2 *Data
}

// Swap returns the pair seen from the second participant
func (c Collision) Swap() Collision {
	return Collision{ID1: c.ID2, ID2: c.ID1, Data1: c.Data2, Data2: c.Data1}
}

// ProximityState is the transition reported for proximity pairs
type ProximityState uint8

const (
	Entered ProximityState = iota
	Exited
)

func (s ProximityState) String() string {
	if s == Entered {
		return "entered"
	}
	return "exited"
}

// Proximity is an enter or exit transition between two objects
type Proximity struct {
	ID1, ID2     core.Entity
	Data1, Data2 *Data
	State        ProximityState
}

// Swap returns the pair seen from the second participant
func (p Proximity) Swap() Proximity {
	return Proximity{ID1: p.ID2, ID2: p.ID1, Data1: p.Data2, Data2: p.Data1, State: p.State}
}

type opKind uint8

const (
	opAdd opKind = iota
	opRemove
	opMove
)

type stagedOp struct {
	kind opKind
	obj  *Object
	h    core.Entity
	pos  vmath.Vec2
}

type pairKey struct {
	lo, hi core.Entity
}

func keyOf(a, b core.Entity) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// Stats counts the work of the last interaction pass
type Stats struct {
	Objects    int
	Candidates int
	Collisions int
	Proximity  int
	Elapsed    float64
}

// World is the spatial index with a two-phase (stage, commit) mutation API
// Add, Remove and SetPosition only stage; Commit is the sole writer of the live index
type World struct {
	handles  *registry.Registry
	strategy Strategy
	margin   float64
	log      *zap.Logger

	live    map[core.Entity]*Object
	order   []*Object // live objects sorted by handle
	dirty   bool
	retired map[core.Entity]*Object

	staged    []stagedOp
	stagedPos map[core.Entity]vmath.Vec2
	removing  map[core.Entity]struct{}

	near    map[pairKey]Proximity // proximity pairs currently overlapping
	stats   Stats
	elapsed float64
}

// Option configures a World
type Option func(*World)

// WithStrategy selects the broad-phase strategy
func WithStrategy(s Strategy) Option {
	return func(w *World) { w.strategy = s }
}

// WithLogger attaches a logger
func WithLogger(l *zap.Logger) Option {
	return func(w *World) { w.log = l }
}

// WithProximityMargin overrides the slack added to proximity pairs
func WithProximityMargin(m float64) Option {
	return func(w *World) { w.margin = m }
}

// NewWorld creates an empty world using the tracked pass by default
func NewWorld(opts ...Option) *World {
	w := &World{
		handles:   registry.New(),
		strategy:  TrackedPass{},
		margin:    parameter.ProximityMargin,
		log:       zap.NewNop(),
		live:      make(map[core.Entity]*Object),
		retired:   make(map[core.Entity]*Object),
		stagedPos: make(map[core.Entity]vmath.Vec2),
		removing:  make(map[core.Entity]struct{}),
		near:      make(map[pairKey]Proximity),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Add stages a new object and returns its handle immediately
// The object joins the interaction pass after the next Commit
func (w *World) Add(pos vmath.Vec2, shape Shape, group Group, query Query, data *Data) core.Entity {
	h := w.handles.Allocate()
	obj := &Object{Handle: h, Pos: pos, Shape: shape, Group: group, Query: query, Data: data}
	w.staged = append(w.staged, stagedOp{kind: opAdd, obj: obj, h: h})
	w.stagedPos[h] = pos
	return h
}

// Remove stages removal; the object is excluded from the next pass
// Its last position stays queryable until Reclaim
func (w *World) Remove(h core.Entity) {
	if _, ok := w.removing[h]; ok {
		return
	}
	if !w.known(h) {
		w.log.Debug("remove of unknown spatial object", zap.Uint64("handle", uint64(h)))
		return
	}
	w.removing[h] = struct{}{}
	w.staged = append(w.staged, stagedOp{kind: opRemove, h: h})
}

// SetPosition stages a move; writes within one step coalesce to the last value
func (w *World) SetPosition(h core.Entity, pos vmath.Vec2) {
	if !w.known(h) {
		w.log.Debug("move of unknown spatial object", zap.Uint64("handle", uint64(h)))
		return
	}
	if _, ok := w.stagedPos[h]; ok {
		w.stagedPos[h] = pos
		return
	}
	w.stagedPos[h] = pos
	w.staged = append(w.staged, stagedOp{kind: opMove, h: h})
}

// Position answers from staged, live, then retired state
func (w *World) Position(h core.Entity) (vmath.Vec2, bool) {
	if p, ok := w.stagedPos[h]; ok {
		return p, true
	}
	if o, ok := w.live[h]; ok {
		return o.Pos, true
	}
	if o, ok := w.retired[h]; ok {
		return o.Pos, true
	}
	return vmath.Vec2{}, false
}

// Contains reports whether h is in the live index
func (w *World) Contains(h core.Entity) bool {
	_, ok := w.live[h]
	return ok
}

// Len returns the number of live objects
func (w *World) Len() int {
	return len(w.live)
}

func (w *World) known(h core.Entity) bool {
	if _, ok := w.live[h]; ok {
		return true
	}
	_, ok := w.stagedPos[h]
	return ok
}

// Commit applies every staged operation in order
func (w *World) Commit() {
	for _, op := range w.staged {
		switch op.kind {
		case opAdd:
			w.live[op.h] = op.obj
			w.dirty = true
		case opMove:
			// applied below from the coalesced map
		case opRemove:
			obj, ok := w.live[op.h]
			if !ok {
				continue
			}
			if p, ok := w.stagedPos[op.h]; ok {
				obj.Pos = p
				delete(w.stagedPos, op.h)
			}
			delete(w.live, op.h)
			w.retired[op.h] = obj
			w.forget(op.h)
			if err := w.handles.Release(op.h); err != nil {
				w.log.Warn("spatial handle release", zap.Error(err))
			}
			w.dirty = true
		}
	}
	for h, p := range w.stagedPos {
		if obj, ok := w.live[h]; ok {
			obj.Pos = p
		}
	}

	w.staged = w.staged[:0]
	clear(w.stagedPos)
	clear(w.removing)

	if w.dirty {
		w.order = w.order[:0]
		for _, obj := range w.live {
			w.order = append(w.order, obj)
		}
		sort.Slice(w.order, func(i, j int) bool { return w.order[i].Handle < w.order[j].Handle })
		w.dirty = false
	}
}

// forget drops proximity state of a removed object without reporting an exit
func (w *World) forget(h core.Entity) {
	for k := range w.near {
		if k.lo == h || k.hi == h {
			delete(w.near, k)
		}
	}
}

// Update commits staged changes and runs the interaction pass
// Each overlapping pair is reported once; callers deliver it to both sides
func (w *World) Update(dt float64) ([]Collision, []Proximity) {
	w.elapsed += dt
	w.Commit()

	var (
		collisions []Collision
		proximity  []Proximity
		seen       = make(map[pairKey]struct{})
		candidates int
	)

	w.strategy.Candidates(w.order, w.margin, func(a, b *Object) {
		if a.Handle == b.Handle || !CanInteract(a.Group, b.Group) {
			return
		}
		if a.Handle > b.Handle {
			a, b = b, a
		}
		k := pairKey{a.Handle, b.Handle}
		if _, dup := seen[k]; dup {
			return
		}
		seen[k] = struct{}{}
		candidates++

		if a.Query == QueryProximity || b.Query == QueryProximity {
			overlap := Overlaps(a.Shape, a.Pos, b.Shape, b.Pos, w.margin)
			_, was := w.near[k]
			switch {
			case overlap && !was:
				p := Proximity{ID1: a.Handle, ID2: b.Handle, Data1: a.Data, Data2: b.Data, State: Entered}
				w.near[k] = p
				proximity = append(proximity, p)
			case !overlap && was:
				p := w.near[k]
				p.State = Exited
				delete(w.near, k)
				proximity = append(proximity, p)
			}
			return
		}

		if Overlaps(a.Shape, a.Pos, b.Shape, b.Pos, 0) {
			collisions = append(collisions, Collision{ID1: a.Handle, ID2: b.Handle, Data1: a.Data, Data2: b.Data})
		}
	})

	// Pairs near last step that were not even candidates this step have separated
	for k, p := range w.near {
		if _, ok := seen[k]; ok {
			continue
		}
		p.State = Exited
		delete(w.near, k)
		proximity = append(proximity, p)
	}

	sort.Slice(collisions, func(i, j int) bool {
		if collisions[i].ID1 != collisions[j].ID1 {
			return collisions[i].ID1 < collisions[j].ID1
		}
		return collisions[i].ID2 < collisions[j].ID2
	})
	sort.SliceStable(proximity, func(i, j int) bool {
		if proximity[i].ID1 != proximity[j].ID1 {
			return proximity[i].ID1 < proximity[j].ID1
		}
		return proximity[i].ID2 < proximity[j].ID2
	})

	w.stats = Stats{
		Objects:    len(w.order),
		Candidates: candidates,
		Collisions: len(collisions),
		Proximity:  len(proximity),
		Elapsed:    w.elapsed,
	}
	return collisions, proximity
}

// Reclaim drops retired objects and recycles their handles
// Called at the end of the step together with the entity registry
func (w *World) Reclaim() {
	clear(w.retired)
	w.handles.Reclaim()
}

// Stats returns counters of the last Update
func (w *World) Stats() Stats {
	return w.stats
}

// StrategyName returns the active broad-phase name
func (w *World) StrategyName() string {
	return w.strategy.Name()
}
