package registry

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/danmaku/core"
)

func TestAllocateReuseLowest(t *testing.T) {
	r := New()
	assert.Equal(t, core.Entity(1), r.Allocate())
	assert.Equal(t, core.Entity(2), r.Allocate())
	assert.Equal(t, core.Entity(3), r.Allocate())

	require.NoError(t, r.Release(2))
	r.Reclaim()

	assert.Equal(t, core.Entity(2), r.Allocate(), "lowest reusable id first")
	assert.Equal(t, core.Entity(4), r.Allocate(), "counter extends once pool is empty")
}

func TestReleasedNotReusableBeforeReclaim(t *testing.T) {
	r := New()
	a := r.Allocate()
	r.Allocate()
	require.NoError(t, r.Release(a))

	assert.Equal(t, 1, r.Pending())
	assert.False(t, r.IsLive(a))
	assert.Equal(t, core.Entity(3), r.Allocate(), "pending id must not be reissued")

	r.Reclaim()
	assert.Equal(t, a, r.Allocate())
}

func TestReclaimOrdersPool(t *testing.T) {
	r := New()
	for i := 0; i < 5; i++ {
		r.Allocate()
	}
	require.NoError(t, r.Release(5))
	require.NoError(t, r.Release(2))
	require.NoError(t, r.Release(4))
	r.Reclaim()

	assert.Equal(t, core.Entity(2), r.Allocate())
	assert.Equal(t, core.Entity(4), r.Allocate())
	assert.Equal(t, core.Entity(5), r.Allocate())
	assert.Equal(t, core.Entity(6), r.Allocate())
}

func TestDoubleReleaseFails(t *testing.T) {
	r := New()
	id := r.Allocate()
	require.NoError(t, r.Release(id))
	err := r.Release(id)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotLive))

	assert.Error(t, r.Release(99))
}

func TestLiveIdsUnique(t *testing.T) {
	r := New()
	seen := make(map[core.Entity]bool)
	var held []core.Entity
	for step := 0; step < 50; step++ {
		for i := 0; i < 3; i++ {
			id := r.Allocate()
			require.False(t, seen[id], "id %d issued twice while live", id)
			seen[id] = true
			held = append(held, id)
		}
		// Release the oldest two each step
		for i := 0; i < 2 && len(held) > 0; i++ {
			require.NoError(t, r.Release(held[0]))
			delete(seen, held[0])
			held = held[1:]
		}
		r.Reclaim()
	}
	assert.Equal(t, len(held), r.Live())
}

func TestAlias(t *testing.T) {
	r := New()
	p := r.Allocate()
	q := r.Allocate()

	require.NoError(t, r.Alias("player", p))
	err := r.Alias("player", q)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAliasTaken))

	id, ok := r.Lookup("player")
	require.True(t, ok)
	assert.Equal(t, p, id)

	name, ok := r.AliasOf(p)
	require.True(t, ok)
	assert.Equal(t, "player", name)

	r.Unalias("player")
	require.NoError(t, r.Alias("player", q))

	_, ok = r.Lookup("nobody")
	assert.False(t, ok)
}

func TestReleaseDropsAliasAndTags(t *testing.T) {
	r := New()
	id := r.Allocate()
	require.NoError(t, r.Alias("boss", id))
	r.Tag(id, "enemy")
	r.Tag(id, "shooter")

	require.NoError(t, r.Release(id))

	_, ok := r.Lookup("boss")
	assert.False(t, ok)
	assert.Empty(t, r.Tagged("enemy"))
	assert.Empty(t, r.Tagged("shooter"))
}

func TestTags(t *testing.T) {
	r := New()
	a, b, c := r.Allocate(), r.Allocate(), r.Allocate()
	r.Tag(c, "enemy")
	r.Tag(a, "enemy")
	r.Tag(b, "bullet")
	r.Tag(a, "enemy")

	assert.Equal(t, []core.Entity{a, c}, r.Tagged("enemy"))
	assert.True(t, r.HasTag(b, "bullet"))

	r.Untag(a, "enemy")
	assert.Equal(t, []core.Entity{c}, r.Tagged("enemy"))
	assert.Empty(t, r.Tagged("unknown"))
}

func TestBounded(t *testing.T) {
	r := NewBounded(2)
	_, err := r.TryAllocate()
	require.NoError(t, err)
	second, err := r.TryAllocate()
	require.NoError(t, err)

	_, err = r.TryAllocate()
	assert.True(t, errors.Is(err, ErrExhausted))

	require.NoError(t, r.Release(second))
	_, err = r.TryAllocate()
	assert.NoError(t, err, "released ids free capacity even before reclaim")
	assert.Panics(t, func() { r.Allocate() })
}
