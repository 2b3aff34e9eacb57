package event

// Type is the kind of an engine event
// Subscriptions match on Type only; payload values are never compared
type Type int

const (
	// Update advances simulation state by one step
	// Trigger: Engine, once per step before physics
	// Consumer: Subscribers | Payload: *UpdatePayload
	Update Type = iota

	// Collision reports an overlapping contact pair
	// Trigger: Spatial world pass, delivered to both participants
	// Consumer: Directed | Payload: *CollisionPayload
	Collision

	// Proximity reports a proximity pair entering or leaving overlap
	// Trigger: Spatial world pass, delivered to both participants
	// Consumer: Directed | Payload: *ProximityPayload
	Proximity

	// KeyInput is a keyboard press or release transition
	// Trigger: Input latch
	// Consumer: Subscribers | Payload: *KeyPayload
	KeyInput

	// MouseMove is a pointer position change
	// Trigger: Terminal mouse reporting
	// Consumer: Subscribers | Payload: *MousePayload
	MouseMove

	// MouseInput is a mouse button transition
	// Trigger: Terminal mouse reporting
	// Consumer: Subscribers | Payload: *MousePayload
	MouseInput

	// Spawn is the first event an entity receives after creation
	// Trigger: System queue create
	// Consumer: Directed | Payload: nil
	Spawn

	// Destroyed notifies an entity that its destroy request was accepted
	// Trigger: System queue destroy, delivered before teardown
	// Consumer: Directed | Payload: nil
	Destroyed

	// TimerFired reports an expired per-entity timer
	// Trigger: TimerService.Advance
	// Consumer: Directed | Payload: *TimerPayload
	TimerFired

	// Render asks drawable entities to refresh their render info
	// Trigger: Engine, after physics delivery
	// Consumer: Subscribers | Payload: nil
	Render

	// RenderCustom is the second render phase for overlays drawn above sprites
	// Trigger: Engine
	// Consumer: Subscribers | Payload: nil
	RenderCustom

	// RenderMenu is the last render phase for menu state
	// Trigger: Engine
	// Consumer: Subscribers | Payload: nil
	RenderMenu

	// App carries a closed application event
	// Trigger: Game objects
	// Consumer: Subscribers or Directed | Payload: *AppPayload
	App

	typeCount
)

// String returns the registered name of the type
func (t Type) String() string {
	if name := GetEventName(t); name != "" {
		return name
	}
	return "Unknown"
}
