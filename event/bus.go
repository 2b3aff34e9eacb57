package event

import (
	"sort"

	"go.uber.org/zap"

	"github.com/lixenwraith/danmaku/core"
)

// Delivery is one queued (target, event) pair
type Delivery struct {
	Target core.Entity
	Event  *Event
}

// Publisher is the enqueue side of the bus used by timers and game objects
type Publisher interface {
	Publish(ev *Event)
	PublishTo(id core.Entity, ev *Event)
}

// Bus holds the subscription table, the ordinary delivery queue and the system queue
// C is the constructor type carried by create requests
//
// Architecture:
//   - Publish fans out to current subscribers at enqueue time
//   - Drain hands the whole queue to the caller; events published during
//     delivery land in a fresh queue and are drained on the next pass
//   - System requests are held until the caller drains them after delivery
type Bus[C any] struct {
	subs   map[Type]map[core.Entity]struct{}
	sorted map[Type][]core.Entity // cache, nil when stale
	bySub  map[core.Entity]map[Type]struct{}

	queue  []Delivery
	system []SystemEvent[C]

	published uint64
	log       *zap.Logger
}

// NewBus creates an empty bus
func NewBus[C any](log *zap.Logger) *Bus[C] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bus[C]{
		subs:   make(map[Type]map[core.Entity]struct{}),
		sorted: make(map[Type][]core.Entity),
		bySub:  make(map[core.Entity]map[Type]struct{}),
		log:    log,
	}
}

// Subscribe registers id for events of type t; repeated calls are no-ops
func (b *Bus[C]) Subscribe(id core.Entity, t Type) {
	set, ok := b.subs[t]
	if !ok {
		set = make(map[core.Entity]struct{})
		b.subs[t] = set
	}
	if _, dup := set[id]; dup {
		return
	}
	set[id] = struct{}{}
	delete(b.sorted, t)

	types, ok := b.bySub[id]
	if !ok {
		types = make(map[Type]struct{})
		b.bySub[id] = types
	}
	types[t] = struct{}{}
}

// Unsubscribe removes one subscription
func (b *Bus[C]) Unsubscribe(id core.Entity, t Type) {
	if set, ok := b.subs[t]; ok {
		if _, had := set[id]; had {
			delete(set, id)
			delete(b.sorted, t)
		}
	}
	if types, ok := b.bySub[id]; ok {
		delete(types, t)
		if len(types) == 0 {
			delete(b.bySub, id)
		}
	}
}

// UnsubscribeAll removes every subscription of id
func (b *Bus[C]) UnsubscribeAll(id core.Entity) {
	for t := range b.bySub[id] {
		delete(b.subs[t], id)
		delete(b.sorted, t)
	}
	delete(b.bySub, id)
}

// IsSubscribed reports whether id receives events of type t
func (b *Bus[C]) IsSubscribed(id core.Entity, t Type) bool {
	_, ok := b.subs[t][id]
	return ok
}

// Subscribers returns the subscribers of t in ascending id order
// The returned slice is shared; do not modify
func (b *Bus[C]) Subscribers(t Type) []core.Entity {
	if ids, ok := b.sorted[t]; ok {
		return ids
	}
	set := b.subs[t]
	ids := make([]core.Entity, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	b.sorted[t] = ids
	return ids
}

// Publish enqueues one delivery per subscriber, all sharing ev
func (b *Bus[C]) Publish(ev *Event) {
	subs := b.Subscribers(ev.Type)
	if len(subs) == 0 {
		return
	}
	for _, id := range subs {
		b.queue = append(b.queue, Delivery{Target: id, Event: ev})
	}
	b.published += uint64(len(subs))
}

// PublishTo enqueues a single delivery bypassing subscriptions
func (b *Bus[C]) PublishTo(id core.Entity, ev *Event) {
	b.queue = append(b.queue, Delivery{Target: id, Event: ev})
	b.published++
}

// Pending returns the number of queued deliveries
func (b *Bus[C]) Pending() int {
	return len(b.queue)
}

// Drain empties and returns the ordinary queue in FIFO order
func (b *Bus[C]) Drain() []Delivery {
	if len(b.queue) == 0 {
		return nil
	}
	out := b.queue
	b.queue = nil
	return out
}

// EnqueueSystem queues a structural request
func (b *Bus[C]) EnqueueSystem(ev SystemEvent[C]) {
	b.system = append(b.system, ev)
}

// Create is shorthand for EnqueueSystem(CreateEvent(c))
func (b *Bus[C]) Create(c C) {
	b.EnqueueSystem(CreateEvent(c))
}

// Destroy is shorthand for EnqueueSystem(DestroyEvent(id))
func (b *Bus[C]) Destroy(id core.Entity) {
	b.EnqueueSystem(DestroyEvent[C](id))
}

// DrainSystem empties and returns the system queue in FIFO order
func (b *Bus[C]) DrainSystem() []SystemEvent[C] {
	if len(b.system) == 0 {
		return nil
	}
	out := b.system
	b.system = nil
	return out
}

// Published returns the total deliveries enqueued since creation
func (b *Bus[C]) Published() uint64 {
	return b.published
}
