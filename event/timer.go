package event

import (
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/lixenwraith/danmaku/core"
)

// ErrTimerNotFound is returned when removing a timer that does not exist
var ErrTimerNotFound = errors.New("timer not found")

// Timer is one per-entity countdown
type Timer struct {
	ID       uint32
	Class    byte
	Left     time.Duration
	Interval time.Duration
	Repeat   bool
}

// OneShot creates a timer firing once after d
func OneShot(id uint32, class byte, d time.Duration) Timer {
	return Timer{ID: id, Class: class, Left: d, Interval: d}
}

// Repeating creates a timer firing every d, first after d
func Repeating(id uint32, class byte, d time.Duration) Timer {
	return Timer{ID: id, Class: class, Left: d, Interval: d, Repeat: true}
}

// TimerService owns every entity's timers
type TimerService struct {
	timers map[core.Entity][]*Timer
	owners []core.Entity // sorted, nil when stale
	fired  uint64
}

// NewTimerService creates an empty service
func NewTimerService() *TimerService {
	return &TimerService{timers: make(map[core.Entity][]*Timer)}
}

// Set adds t to owner, replacing a timer with the same id and class
func (s *TimerService) Set(owner core.Entity, t Timer) {
	list := s.timers[owner]
	for _, cur := range list {
		if cur.ID == t.ID && cur.Class == t.Class {
			*cur = t
			return
		}
	}
	if len(list) == 0 {
		s.owners = nil
	}
	s.timers[owner] = append(list, &t)
}

// Remove deletes every timer of owner with the given id, any class
func (s *TimerService) Remove(owner core.Entity, id uint32) error {
	return s.remove(owner, func(t *Timer) bool { return t.ID == id }, id)
}

// RemoveClass deletes the timer of owner with the given id and class
func (s *TimerService) RemoveClass(owner core.Entity, id uint32, class byte) error {
	return s.remove(owner, func(t *Timer) bool { return t.ID == id && t.Class == class }, id)
}

func (s *TimerService) remove(owner core.Entity, match func(*Timer) bool, id uint32) error {
	list := s.timers[owner]
	kept := list[:0]
	removed := false
	for _, t := range list {
		if match(t) {
			removed = true
			continue
		}
		kept = append(kept, t)
	}
	if !removed {
		return errors.Wrapf(ErrTimerNotFound, "entity %d timer %d", owner, id)
	}
	s.store(owner, kept)
	return nil
}

func (s *TimerService) store(owner core.Entity, list []*Timer) {
	if len(list) == 0 {
		delete(s.timers, owner)
		s.owners = nil
		return
	}
	s.timers[owner] = list
}

// Has reports whether owner has a timer with id and class
func (s *TimerService) Has(owner core.Entity, id uint32, class byte) bool {
	for _, t := range s.timers[owner] {
		if t.ID == id && t.Class == class {
			return true
		}
	}
	return false
}

// Count returns the number of timers held by owner
func (s *TimerService) Count(owner core.Entity) int {
	return len(s.timers[owner])
}

// Clear drops every timer of owner
func (s *TimerService) Clear(owner core.Entity) {
	if _, ok := s.timers[owner]; ok {
		delete(s.timers, owner)
		s.owners = nil
	}
}

// Advance decrements every timer by dt and publishes a Timer event to the owner per expiry
// Repeating timers carry the remainder, so a large dt can fire one timer several times
func (s *TimerService) Advance(dt time.Duration, out Publisher) {
	if s.owners == nil {
		s.owners = make([]core.Entity, 0, len(s.timers))
		for owner := range s.timers {
			s.owners = append(s.owners, owner)
		}
		sort.Slice(s.owners, func(i, j int) bool { return s.owners[i] < s.owners[j] })
	}

	// Snapshot: Set/Clear from inside Publish must not disturb this pass
	owners := append([]core.Entity(nil), s.owners...)
	for _, owner := range owners {
		list := s.timers[owner]
		if len(list) == 0 {
			continue
		}
		kept := list[:0]
		for _, t := range list {
			t.Left -= dt
			done := false
			for t.Left <= 0 {
				out.PublishTo(owner, NewTimer(t.ID, t.Class))
				s.fired++
				if !t.Repeat {
					done = true
					break
				}
				if t.Interval <= 0 {
					t.Left = 0
					break
				}
				t.Left += t.Interval
			}
			if !done {
				kept = append(kept, t)
			}
		}
		s.store(owner, kept)
	}
}

// Fired returns the total timer expiries since creation
func (s *TimerService) Fired() uint64 {
	return s.fired
}
