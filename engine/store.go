package engine

import (
	"sort"

	"github.com/lixenwraith/danmaku/core"
)

// Arena holds the live objects keyed by entity id
// Iteration order is ascending id, so delivery and snapshots are deterministic
// Only the step goroutine touches it; renderers read Engine.Snapshot instead
type Arena struct {
	objects map[core.Entity]Object
	ids     []core.Entity // sorted
}

// NewArena creates an empty arena
func NewArena() *Arena {
	return &Arena{
		objects: make(map[core.Entity]Object),
		ids:     make([]core.Entity, 0, 64),
	}
}

// Insert adds or replaces the object of id
func (a *Arena) Insert(id core.Entity, obj Object) {
	if _, exists := a.objects[id]; !exists {
		i := sort.Search(len(a.ids), func(i int) bool { return a.ids[i] >= id })
		a.ids = append(a.ids, 0)
		copy(a.ids[i+1:], a.ids[i:])
		a.ids[i] = id
	}
	a.objects[id] = obj
}

// Get returns the object of id
func (a *Arena) Get(id core.Entity) (Object, bool) {
	obj, ok := a.objects[id]
	return obj, ok
}

// Remove deletes the object of id
func (a *Arena) Remove(id core.Entity) bool {
	if _, exists := a.objects[id]; !exists {
		return false
	}
	delete(a.objects, id)
	i := sort.Search(len(a.ids), func(i int) bool { return a.ids[i] >= id })
	a.ids = append(a.ids[:i], a.ids[i+1:]...)
	return true
}

// Has reports whether id is live in the arena
func (a *Arena) Has(id core.Entity) bool {
	_, ok := a.objects[id]
	return ok
}

// IDs returns a copy of the live ids in ascending order
func (a *Arena) IDs() []core.Entity {
	out := make([]core.Entity, len(a.ids))
	copy(out, a.ids)
	return out
}

// Len returns the number of live objects
func (a *Arena) Len() int {
	return len(a.ids)
}
