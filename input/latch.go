package input

import (
	"sort"
	"time"

	"github.com/lixenwraith/danmaku/event"
)

// Latch turns terminal key presses into press and release transitions
// Terminals report no key-up, so a held key is released when its auto-repeat stops
type Latch struct {
	initial time.Duration
	hold    time.Duration
	expiry  map[event.Key]time.Time
	toggled map[event.Key]bool
}

// NewLatch creates a latch; initial covers the auto-repeat delay, hold the repeat interval
func NewLatch(initial, hold time.Duration) *Latch {
	return &Latch{
		initial: initial,
		hold:    hold,
		expiry:  make(map[event.Key]time.Time),
		toggled: make(map[event.Key]bool),
	}
}

// Press records one terminal press and returns the resulting transitions
func (l *Latch) Press(b Binding, now time.Time) []*event.Event {
	switch b.Behavior {
	case BehaviorTap:
		return []*event.Event{event.NewKey(b.Key, event.Pressed), event.NewKey(b.Key, event.Released)}

	case BehaviorToggle:
		on := !l.toggled[b.Key]
		l.toggled[b.Key] = on
		if on {
			return []*event.Event{event.NewKey(b.Key, event.Pressed)}
		}
		return []*event.Event{event.NewKey(b.Key, event.Released)}
	}

	if _, held := l.expiry[b.Key]; held {
		l.expiry[b.Key] = now.Add(l.hold)
		return nil
	}

	// Only the newest key auto-repeats, every other held key is released
	out := l.releaseWhere(func(k event.Key) bool { return k != b.Key })
	l.expiry[b.Key] = now.Add(l.initial)
	return append(out, event.NewKey(b.Key, event.Pressed))
}

// Expire releases held keys whose repeat window has passed
func (l *Latch) Expire(now time.Time) []*event.Event {
	return l.releaseWhere(func(k event.Key) bool { return !now.Before(l.expiry[k]) })
}

// ReleaseAll releases every held and toggled key
func (l *Latch) ReleaseAll() []*event.Event {
	out := l.releaseWhere(func(event.Key) bool { return true })
	keys := make([]event.Key, 0, len(l.toggled))
	for k, on := range l.toggled {
		if on {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, k := range keys {
		l.toggled[k] = false
		out = append(out, event.NewKey(k, event.Released))
	}
	return out
}

// Held reports whether k is currently pressed
func (l *Latch) Held(k event.Key) bool {
	_, held := l.expiry[k]
	return held || l.toggled[k]
}

func (l *Latch) releaseWhere(match func(event.Key) bool) []*event.Event {
	var keys []event.Key
	for k := range l.expiry {
		if match(k) {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	out := make([]*event.Event, 0, len(keys))
	for _, k := range keys {
		delete(l.expiry, k)
		out = append(out, event.NewKey(k, event.Released))
	}
	return out
}
