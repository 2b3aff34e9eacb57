package registry

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/lixenwraith/danmaku/core"
)

var (
	// ErrAliasTaken is returned when a name is already bound to an identity
	ErrAliasTaken = errors.New("alias already bound")

	// ErrNotLive is returned when releasing or aliasing an id that is not live
	ErrNotLive = errors.New("id is not live")

	// ErrExhausted is returned by a bounded registry with every id live
	ErrExhausted = errors.New("registry exhausted")
)

// Registry issues identities and maps names and tags onto them
// Released ids are pending until Reclaim, so ids still referenced by
// undelivered events are never reissued within the same step
// Not safe for concurrent use; the step goroutine owns it
type Registry struct {
	counter core.Entity
	max     int // 0 = unbounded

	live    map[core.Entity]struct{}
	free    []core.Entity // sorted ascending
	pending []core.Entity

	aliases map[string]core.Entity
	aliasOf map[core.Entity]string
	tags    map[string]map[core.Entity]struct{}
	tagsOf  map[core.Entity]map[string]struct{}
}

// New creates an unbounded registry
func New() *Registry {
	return &Registry{
		live:    make(map[core.Entity]struct{}),
		aliases: make(map[string]core.Entity),
		aliasOf: make(map[core.Entity]string),
		tags:    make(map[string]map[core.Entity]struct{}),
		tagsOf:  make(map[core.Entity]map[string]struct{}),
	}
}

// NewBounded creates a registry that holds at most max live ids
func NewBounded(max int) *Registry {
	r := New()
	r.max = max
	return r
}

// Allocate returns the smallest reusable id, else extends the counter
// Panics on a bounded registry that is full; use TryAllocate there
func (r *Registry) Allocate() core.Entity {
	id, err := r.TryAllocate()
	if err != nil {
		panic(err)
	}
	return id
}

// TryAllocate is Allocate that reports exhaustion of a bounded registry
func (r *Registry) TryAllocate() (core.Entity, error) {
	if r.max > 0 && len(r.live) >= r.max {
		return core.None, ErrExhausted
	}

	var id core.Entity
	if len(r.free) > 0 {
		id = r.free[0]
		r.free = r.free[1:]
	} else {
		r.counter++
		id = r.counter
	}
	r.live[id] = struct{}{}
	return id, nil
}

// Release retires id; it becomes reusable after the next Reclaim
// Aliases and tags of the id are dropped immediately
func (r *Registry) Release(id core.Entity) error {
	if _, ok := r.live[id]; !ok {
		return errors.Wrapf(ErrNotLive, "release %d", id)
	}
	delete(r.live, id)
	r.pending = append(r.pending, id)

	if name, ok := r.aliasOf[id]; ok {
		delete(r.aliases, name)
		delete(r.aliasOf, id)
	}
	for name := range r.tagsOf[id] {
		set := r.tags[name]
		delete(set, id)
		if len(set) == 0 {
			delete(r.tags, name)
		}
	}
	delete(r.tagsOf, id)
	return nil
}

// Reclaim moves every pending id into the reusable pool
// Called exactly once per step after event delivery completes
func (r *Registry) Reclaim() {
	if len(r.pending) == 0 {
		return
	}
	r.free = append(r.free, r.pending...)
	r.pending = r.pending[:0]
	sort.Slice(r.free, func(i, j int) bool { return r.free[i] < r.free[j] })
}

// IsLive reports whether id is allocated and not released
func (r *Registry) IsLive(id core.Entity) bool {
	_, ok := r.live[id]
	return ok
}

// Live returns the number of live ids
func (r *Registry) Live() int {
	return len(r.live)
}

// Pending returns the number of released ids awaiting reclaim
func (r *Registry) Pending() int {
	return len(r.pending)
}

// Alias binds name to id
// Rebinding a name without Unalias first is an error
func (r *Registry) Alias(name string, id core.Entity) error {
	if cur, ok := r.aliases[name]; ok {
		return errors.Wrapf(ErrAliasTaken, "alias %q bound to %d", name, cur)
	}
	if _, ok := r.live[id]; !ok {
		return errors.Wrapf(ErrNotLive, "alias %q", name)
	}
	if old, ok := r.aliasOf[id]; ok {
		delete(r.aliases, old)
	}
	r.aliases[name] = id
	r.aliasOf[id] = name
	return nil
}

// Unalias removes a name binding; unknown names are ignored
func (r *Registry) Unalias(name string) {
	if id, ok := r.aliases[name]; ok {
		delete(r.aliases, name)
		delete(r.aliasOf, id)
	}
}

// Lookup resolves an alias
func (r *Registry) Lookup(name string) (core.Entity, bool) {
	id, ok := r.aliases[name]
	return id, ok
}

// AliasOf returns the name bound to id
func (r *Registry) AliasOf(id core.Entity) (string, bool) {
	name, ok := r.aliasOf[id]
	return name, ok
}

// Tag adds id to the named group
func (r *Registry) Tag(id core.Entity, name string) {
	if _, ok := r.live[id]; !ok {
		return
	}
	set, ok := r.tags[name]
	if !ok {
		set = make(map[core.Entity]struct{})
		r.tags[name] = set
	}
	set[id] = struct{}{}

	names, ok := r.tagsOf[id]
	if !ok {
		names = make(map[string]struct{})
		r.tagsOf[id] = names
	}
	names[name] = struct{}{}
}

// Untag removes id from the named group
func (r *Registry) Untag(id core.Entity, name string) {
	if set, ok := r.tags[name]; ok {
		delete(set, id)
		if len(set) == 0 {
			delete(r.tags, name)
		}
	}
	if names, ok := r.tagsOf[id]; ok {
		delete(names, name)
		if len(names) == 0 {
			delete(r.tagsOf, id)
		}
	}
}

// Tagged returns the ids in the named group in ascending order, empty when unknown
func (r *Registry) Tagged(name string) []core.Entity {
	set := r.tags[name]
	out := make([]core.Entity, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// HasTag reports group membership
func (r *Registry) HasTag(id core.Entity, name string) bool {
	_, ok := r.tags[name][id]
	return ok
}
