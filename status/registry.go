package status

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
)

// Metric keys published by the simulation
const (
	KeyTicks      = "engine.ticks"
	KeyEntities   = "engine.entities"
	KeyCollisions = "engine.collisions"
	KeyEvents     = "engine.events"
	KeyCreates    = "engine.creates"
	KeyDestroys   = "engine.destroys"
	KeyStepMillis = "engine.step_ms"
	KeyStrategy   = "physics.strategy"
	KeyFired      = "level.fired"
	KeyLevel      = "level.name"
	KeyDone       = "level.done"
	KeyLives      = "player.lives"
	KeyScore      = "player.score"
	KeyPaused     = "engine.paused"
)

// Registry groups the metric maps of one simulation
// Producers cache the pointers once; readers walk the maps from other goroutines
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns the number of metrics across all maps
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Line renders the selected keys as "key=value" pairs in the given order
// Keys not registered in any map are skipped
func (r *Registry) Line(keys ...string) string {
	var sb strings.Builder
	for _, k := range keys {
		v, ok := r.value(k)
		if !ok {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(short(k))
		sb.WriteByte('=')
		sb.WriteString(v)
	}
	return sb.String()
}

func (r *Registry) value(k string) (string, bool) {
	switch {
	case r.Ints.Has(k):
		return strconv.FormatInt(r.Ints.Get(k).Load(), 10), true
	case r.Floats.Has(k):
		return fmt.Sprintf("%.2f", r.Floats.Get(k).Get()), true
	case r.Strings.Has(k):
		return r.Strings.Get(k).Load(), true
	case r.Bools.Has(k):
		return strconv.FormatBool(r.Bools.Get(k).Load()), true
	}
	return "", false
}

// short drops the namespace prefix of a key
func short(k string) string {
	if i := strings.LastIndexByte(k, '.'); i >= 0 {
		return k[i+1:]
	}
	return k
}
