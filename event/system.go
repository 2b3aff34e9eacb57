package event

import (
	"time"

	"github.com/lixenwraith/danmaku/core"
)

// SystemKind is the kind of a structural request
type SystemKind uint8

const (
	SysCreate SystemKind = iota
	SysDestroy
	SysFastForward
)

func (k SystemKind) String() string {
	switch k {
	case SysCreate:
		return "create"
	case SysDestroy:
		return "destroy"
	case SysFastForward:
		return "fast_forward"
	}
	return "unknown"
}

// SystemEvent is a create, destroy or time-skip request
// Applied only after a full delivery pass so the world is never mutated mid-iteration
type SystemEvent[C any] struct {
	Kind   SystemKind
	Create C
	Target core.Entity
	Amount time.Duration
}

// CreateEvent requests construction of a new entity
func CreateEvent[C any](c C) SystemEvent[C] {
	return SystemEvent[C]{Kind: SysCreate, Create: c}
}

// DestroyEvent requests teardown of id
func DestroyEvent[C any](id core.Entity) SystemEvent[C] {
	return SystemEvent[C]{Kind: SysDestroy, Target: id}
}

// FastForwardEvent requests replaying d of simulation time in sub-steps
func FastForwardEvent[C any](d time.Duration) SystemEvent[C] {
	return SystemEvent[C]{Kind: SysFastForward, Amount: d}
}
