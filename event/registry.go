package event

import "sync"

var (
	registryMu sync.RWMutex
	nameToType = make(map[string]Type)
	typeToName = make(map[Type]string)
	initOnce   sync.Once
)

// RegisterType maps a string name to a Type
func RegisterType(name string, t Type) {
	registryMu.Lock()
	defer registryMu.Unlock()
	nameToType[name] = t
	typeToName[t] = name
}

// GetEventType returns the Type for a given name
func GetEventType(name string) (Type, bool) {
	InitRegistry()
	registryMu.RLock()
	defer registryMu.RUnlock()
	t, ok := nameToType[name]
	return t, ok
}

// GetEventName returns the string name for a Type
func GetEventName(t Type) string {
	InitRegistry()
	registryMu.RLock()
	defer registryMu.RUnlock()
	return typeToName[t]
}

// InitRegistry populates the registry with all engine events
// Safe to call repeatedly
func InitRegistry() {
	initOnce.Do(func() {
		RegisterType("Update", Update)
		RegisterType("Collision", Collision)
		RegisterType("Proximity", Proximity)
		RegisterType("KeyInput", KeyInput)
		RegisterType("MouseMove", MouseMove)
		RegisterType("MouseInput", MouseInput)
		RegisterType("Spawn", Spawn)
		RegisterType("Destroyed", Destroyed)
		RegisterType("Timer", TimerFired)
		RegisterType("Render", Render)
		RegisterType("RenderCustom", RenderCustom)
		RegisterType("RenderMenu", RenderMenu)
		RegisterType("App", App)
	})
}
