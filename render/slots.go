package render

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/lixenwraith/danmaku/core"
	"github.com/lixenwraith/danmaku/registry"
)

// ErrUnknownSprite is returned for a sprite class never defined on the pool
var ErrUnknownSprite = errors.New("unknown sprite")

// SlotPool hands out per-sprite instance slots up to each sprite's max amount
// Released slots become reusable after Reclaim, like registry ids
type SlotPool struct {
	pools map[string]*registry.Registry
}

// NewSlotPool creates an empty pool
func NewSlotPool() *SlotPool {
	return &SlotPool{pools: make(map[string]*registry.Registry)}
}

// Define registers a sprite class with max instances; redefining keeps the live slots
func (p *SlotPool) Define(sprite string, max int) {
	if _, ok := p.pools[sprite]; ok {
		return
	}
	p.pools[sprite] = registry.NewBounded(max)
}

// Acquire takes a free slot of sprite
func (p *SlotPool) Acquire(sprite string) (core.Entity, error) {
	r, ok := p.pools[sprite]
	if !ok {
		return core.None, errors.Wrap(ErrUnknownSprite, sprite)
	}
	slot, err := r.TryAllocate()
	if err != nil {
		return core.None, errors.Wrapf(err, "sprite %q", sprite)
	}
	return slot, nil
}

// Release returns a slot of sprite
func (p *SlotPool) Release(sprite string, slot core.Entity) error {
	r, ok := p.pools[sprite]
	if !ok {
		return errors.Wrap(ErrUnknownSprite, sprite)
	}
	return r.Release(slot)
}

// Reclaim makes every released slot reusable
func (p *SlotPool) Reclaim() {
	for _, r := range p.pools {
		r.Reclaim()
	}
}

// InUse returns the live slot count of sprite
func (p *SlotPool) InUse(sprite string) int {
	if r, ok := p.pools[sprite]; ok {
		return r.Live()
	}
	return 0
}

// Sprites returns the defined sprite names in order
func (p *SlotPool) Sprites() []string {
	names := make([]string, 0, len(p.pools))
	for name := range p.pools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
