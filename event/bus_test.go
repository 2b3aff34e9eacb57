package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/lixenwraith/danmaku/core"
	"github.com/lixenwraith/danmaku/physics"
)

type ctor func() string

func newBus(t *testing.T) *Bus[ctor] {
	return NewBus[ctor](zaptest.NewLogger(t))
}

func TestPublishSharesEvent(t *testing.T) {
	b := newBus(t)
	b.Subscribe(3, Update)
	b.Subscribe(1, Update)
	b.Subscribe(2, Render)

	ev := NewUpdate(time.Second / 60)
	b.Publish(ev)

	out := b.Drain()
	require.Len(t, out, 2)
	assert.Equal(t, core.Entity(1), out[0].Target, "subscriber order by id")
	assert.Equal(t, core.Entity(3), out[1].Target)
	assert.Same(t, ev, out[0].Event)
	assert.Same(t, out[0].Event, out[1].Event)

	assert.Nil(t, b.Drain(), "drain empties the queue")
}

func TestSubscriptionMatchesKindOnly(t *testing.T) {
	b := newBus(t)
	b.Subscribe(1, TimerFired)
	b.Subscribe(1, TimerFired)

	b.Publish(NewTimer(7, 1))
	b.Publish(NewTimer(8, 2))
	assert.Len(t, b.Drain(), 2, "duplicate subscribe is a no-op, payload ignored")
}

func TestUnsubscribe(t *testing.T) {
	b := newBus(t)
	b.Subscribe(1, Update)
	b.Subscribe(1, Render)
	b.Subscribe(2, Update)

	b.Unsubscribe(1, Update)
	assert.False(t, b.IsSubscribed(1, Update))
	assert.True(t, b.IsSubscribed(1, Render))

	b.UnsubscribeAll(1)
	assert.False(t, b.IsSubscribed(1, Render))
	assert.Equal(t, []core.Entity{2}, b.Subscribers(Update))

	b.Publish(&Event{Type: Render})
	assert.Empty(t, b.Drain())
}

func TestPublishToBypassesSubscriptions(t *testing.T) {
	b := newBus(t)
	b.PublishTo(9, &Event{Type: Destroyed})
	out := b.Drain()
	require.Len(t, out, 1)
	assert.Equal(t, core.Entity(9), out[0].Target)
	assert.Equal(t, uint64(1), b.Published())
}

func TestPublishDuringDeliveryLandsInNextDrain(t *testing.T) {
	b := newBus(t)
	b.PublishTo(1, &Event{Type: Spawn})

	first := b.Drain()
	require.Len(t, first, 1)
	b.PublishTo(2, &Event{Type: Spawn})
	assert.Len(t, first, 1)
	assert.Len(t, b.Drain(), 1)
}

func TestSystemQueueSeparate(t *testing.T) {
	b := newBus(t)
	b.Create(func() string { return "enemy" })
	b.Destroy(4)
	b.EnqueueSystem(FastForwardEvent[ctor](time.Second))
	b.PublishTo(1, &Event{Type: Spawn})

	sys := b.DrainSystem()
	require.Len(t, sys, 3)
	assert.Equal(t, SysCreate, sys[0].Kind)
	assert.Equal(t, "enemy", sys[0].Create())
	assert.Equal(t, SysDestroy, sys[1].Kind)
	assert.Equal(t, core.Entity(4), sys[1].Target)
	assert.Equal(t, SysFastForward, sys[2].Kind)
	assert.Equal(t, time.Second, sys[2].Amount)

	assert.Equal(t, 1, b.Pending(), "ordinary queue untouched")
	assert.Nil(t, b.DrainSystem())
}

func TestCollisionEventsMirror(t *testing.T) {
	a := &physics.Data{Entity: 10, Tag: physics.TagPlayer}
	c := &physics.Data{Entity: 20, Tag: physics.TagEnemyBullet}
	col := physics.Collision{ID1: 1, ID2: 2, Data1: a, Data2: c}

	forA := NewCollision(col).Payload.(*CollisionPayload)
	forC := NewCollision(col.Swap()).Payload.(*CollisionPayload)

	assert.Equal(t, core.Entity(20), forA.Other)
	assert.Equal(t, core.Entity(10), forC.Other)
	assert.Same(t, forA.Self, forC.OtherData)
	assert.Same(t, forA.OtherData, forC.Self)
}

func TestTypeNames(t *testing.T) {
	assert.Equal(t, "Update", Update.String())
	assert.Equal(t, "App", App.String())
	assert.Equal(t, "Unknown", typeCount.String())

	tp, ok := GetEventType("Collision")
	require.True(t, ok)
	assert.Equal(t, Collision, tp)
	assert.Equal(t, "player_hit", AppPlayerHit.String())
}
