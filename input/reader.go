package input

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/danmaku/event"
	"github.com/lixenwraith/danmaku/parameter"
	"github.com/lixenwraith/danmaku/render"
	"github.com/lixenwraith/danmaku/vmath"
)

// Reader converts terminal events into simulation input events on the input queue
// It runs on its own goroutine; the simulation consumes the queue once per frame
type Reader struct {
	screen tcell.Screen
	table  *KeyTable
	latch  *Latch
	queue  *event.InputQueue
	view   func() render.Projection

	// OnResize runs on the reader goroutine after a terminal resize
	OnResize func()

	buttons tcell.ButtonMask
	mouse   vmath.Vec2
	log     *zap.Logger
}

// NewReader creates a reader; view maps terminal cells back to world coordinates
func NewReader(screen tcell.Screen, queue *event.InputQueue, view func() render.Projection, log *zap.Logger) *Reader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reader{
		screen: screen,
		table:  DefaultKeyTable(),
		latch:  NewLatch(parameter.InputLatchInitial, parameter.InputLatchHold),
		queue:  queue,
		view:   view,
		log:    log,
	}
}

// Run pumps terminal events until ctx is cancelled
func (r *Reader) Run(ctx context.Context) error {
	events := make(chan tcell.Event, parameter.InputQueueSize)
	quit := make(chan struct{})
	go r.screen.ChannelEvents(events, quit)
	defer close(quit)

	ticker := time.NewTicker(parameter.InputPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			r.Handle(ev, time.Now())
		case now := <-ticker.C:
			r.push(r.latch.Expire(now))
		}
	}
}

// Handle translates one terminal event observed at now
func (r *Reader) Handle(ev tcell.Event, now time.Time) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		b, ok := r.table.Lookup(e)
		if !ok {
			return
		}
		r.push(r.latch.Press(b, now))

	case *tcell.EventMouse:
		r.handleMouse(e)

	case *tcell.EventResize:
		if r.OnResize != nil {
			r.OnResize()
		}

	case *tcell.EventFocus:
		// Held keys never see their repeats end while unfocused
		if !e.Focused {
			r.push(r.latch.ReleaseAll())
		}
	}
}

func (r *Reader) handleMouse(e *tcell.EventMouse) {
	x, y := e.Position()
	pos, ok := r.view().World(x, y)
	if !ok {
		return
	}
	if pos != r.mouse {
		r.mouse = pos
		r.queue.Push(event.NewMouseMove(pos))
	}

	buttons := e.Buttons()
	for _, m := range []struct {
		mask   tcell.ButtonMask
		button event.MouseButton
	}{
		{tcell.Button1, event.MouseLeft},
		{tcell.Button2, event.MouseRight},
	} {
		was, is := r.buttons&m.mask != 0, buttons&m.mask != 0
		switch {
		case is && !was:
			r.queue.Push(event.NewMouseButton(pos, m.button, event.Pressed))
		case was && !is:
			r.queue.Push(event.NewMouseButton(pos, m.button, event.Released))
		}
	}
	r.buttons = buttons
}

func (r *Reader) push(evs []*event.Event) {
	for _, ev := range evs {
		r.queue.Push(ev)
	}
}
