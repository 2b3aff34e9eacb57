package render

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/danmaku/core"
	"github.com/lixenwraith/danmaku/registry"
)

func TestSlotPoolBounded(t *testing.T) {
	p := NewSlotPool()
	p.Define("pellet", 2)

	a, err := p.Acquire("pellet")
	require.NoError(t, err)
	b, err := p.Acquire("pellet")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, p.InUse("pellet"))

	_, err = p.Acquire("pellet")
	assert.True(t, errors.Is(err, registry.ErrExhausted))

	require.NoError(t, p.Release("pellet", a))
	_, err = p.Acquire("pellet")
	assert.Error(t, err, "released slot waits for reclaim")

	p.Reclaim()
	c, err := p.Acquire("pellet")
	require.NoError(t, err)
	assert.Equal(t, a, c)
}

func TestSlotPoolUnknownSprite(t *testing.T) {
	p := NewSlotPool()
	_, err := p.Acquire("ghost")
	assert.True(t, errors.Is(err, ErrUnknownSprite))
	assert.True(t, errors.Is(p.Release("ghost", core.Entity(1)), ErrUnknownSprite))
	assert.Zero(t, p.InUse("ghost"))
}

func TestSlotPoolDefineKeepsLive(t *testing.T) {
	p := NewSlotPool()
	p.Define("b", 1)
	_, err := p.Acquire("b")
	require.NoError(t, err)
	p.Define("b", 5)
	assert.Equal(t, 1, p.InUse("b"))
	assert.Equal(t, []string{"b"}, p.Sprites())
}
