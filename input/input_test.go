package input

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/danmaku/event"
	"github.com/lixenwraith/danmaku/render"
	"github.com/lixenwraith/danmaku/vmath"
)

type transition struct {
	key   event.Key
	state event.KeyState
}

func keys(evs []*event.Event) []transition {
	out := make([]transition, 0, len(evs))
	for _, ev := range evs {
		p := ev.Payload.(*event.KeyPayload)
		out = append(out, transition{p.Key, p.State})
	}
	return out
}

func TestLatchHoldAndExpire(t *testing.T) {
	l := NewLatch(500*time.Millisecond, 100*time.Millisecond)
	t0 := time.Unix(0, 0)
	left := Binding{event.KeyLeft, BehaviorHold}

	assert.Equal(t, []transition{{event.KeyLeft, event.Pressed}}, keys(l.Press(left, t0)))
	assert.True(t, l.Held(event.KeyLeft))

	// Initial window covers the repeat delay
	assert.Empty(t, l.Expire(t0.Add(400*time.Millisecond)))

	// Repeats refresh without new transitions
	assert.Empty(t, l.Press(left, t0.Add(450*time.Millisecond)))
	assert.Empty(t, l.Expire(t0.Add(540*time.Millisecond)))

	assert.Equal(t, []transition{{event.KeyLeft, event.Released}}, keys(l.Expire(t0.Add(550*time.Millisecond))))
	assert.False(t, l.Held(event.KeyLeft))
}

func TestLatchNewHoldReleasesOthers(t *testing.T) {
	l := NewLatch(time.Second, time.Second)
	t0 := time.Unix(0, 0)

	l.Press(Binding{event.KeyLeft, BehaviorHold}, t0)
	got := keys(l.Press(Binding{event.KeyUp, BehaviorHold}, t0))
	assert.Equal(t, []transition{{event.KeyLeft, event.Released}, {event.KeyUp, event.Pressed}}, got)
}

func TestLatchToggleAndTap(t *testing.T) {
	l := NewLatch(time.Second, time.Second)
	t0 := time.Unix(0, 0)
	fire := Binding{event.KeyFire, BehaviorToggle}

	assert.Equal(t, []transition{{event.KeyFire, event.Pressed}}, keys(l.Press(fire, t0)))
	assert.Empty(t, l.Expire(t0.Add(time.Hour)), "toggles never expire")
	assert.Equal(t, []transition{{event.KeyFire, event.Released}}, keys(l.Press(fire, t0)))

	assert.Equal(t, []transition{{event.KeyPause, event.Pressed}, {event.KeyPause, event.Released}},
		keys(l.Press(Binding{event.KeyPause, BehaviorTap}, t0)))
}

func TestLatchReleaseAll(t *testing.T) {
	l := NewLatch(time.Second, time.Second)
	t0 := time.Unix(0, 0)
	l.Press(Binding{event.KeyDown, BehaviorHold}, t0)
	l.Press(Binding{event.KeyFocus, BehaviorToggle}, t0)

	assert.Equal(t, []transition{{event.KeyDown, event.Released}, {event.KeyFocus, event.Released}}, keys(l.ReleaseAll()))
	assert.Empty(t, l.ReleaseAll())
}

func TestKeyTableLookup(t *testing.T) {
	table := DefaultKeyTable()

	b, ok := table.Lookup(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone))
	require.True(t, ok)
	assert.Equal(t, Binding{event.KeyLeft, BehaviorHold}, b)

	b, ok = table.Lookup(tcell.NewEventKey(tcell.KeyRune, 'Z', tcell.ModShift))
	require.True(t, ok)
	assert.Equal(t, event.KeyFire, b.Key)

	_, ok = table.Lookup(tcell.NewEventKey(tcell.KeyRune, '?', tcell.ModNone))
	assert.False(t, ok)
}

func TestReaderHandle(t *testing.T) {
	q := event.NewInputQueue()
	view := render.NewProjection(0, 0, 10, 10, 100, 100)
	r := NewReader(nil, q, func() render.Projection { return view }, nil)
	now := time.Unix(0, 0)

	r.Handle(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), now)
	r.Handle(tcell.NewEventMouse(5, 5, tcell.Button1, tcell.ModNone), now)
	r.Handle(tcell.NewEventMouse(5, 5, tcell.ButtonNone, tcell.ModNone), now)
	r.Handle(tcell.NewEventMouse(50, 50, tcell.Button1, tcell.ModNone), now)

	evs := q.Consume()
	require.Len(t, evs, 4)
	assert.Equal(t, event.KeyInput, evs[0].Type)
	assert.Equal(t, event.MouseMove, evs[1].Type)
	assert.Equal(t, vmath.V(5, -5), evs[1].Payload.(*event.MousePayload).Pos)
	assert.Equal(t, event.MouseInput, evs[2].Type)
	assert.Equal(t, event.Pressed, evs[2].Payload.(*event.MousePayload).State)
	assert.Equal(t, event.MouseInput, evs[3].Type)
	assert.Equal(t, event.Released, evs[3].Payload.(*event.MousePayload).State)
}

func TestReaderResizeAndFocus(t *testing.T) {
	q := event.NewInputQueue()
	r := NewReader(nil, q, func() render.Projection { return render.Projection{} }, nil)
	resized := false
	r.OnResize = func() { resized = true }

	r.Handle(tcell.NewEventResize(80, 24), time.Unix(0, 0))
	assert.True(t, resized)

	r.Handle(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), time.Unix(0, 0))
	r.Handle(tcell.NewEventFocus(false), time.Unix(0, 0))
	assert.Equal(t, []transition{{event.KeyFocus, event.Pressed}, {event.KeyFocus, event.Released}}, keys(q.Consume()))
}
