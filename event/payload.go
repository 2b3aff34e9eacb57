package event

import (
	"time"

	"github.com/lixenwraith/danmaku/core"
	"github.com/lixenwraith/danmaku/physics"
	"github.com/lixenwraith/danmaku/vmath"
)

// Event is one queued notification
// A published event is shared by pointer across every subscriber; treat as read-only
type Event struct {
	Type    Type
	Payload any
}

// UpdatePayload carries the step duration
type UpdatePayload struct {
	DT time.Duration
}

// Seconds returns the step duration in seconds
func (p *UpdatePayload) Seconds() float64 {
	return p.DT.Seconds()
}

// CollisionPayload is a contact seen from the receiving entity
type CollisionPayload struct {
	Other     core.Entity // owning entity of the other object
	Self      *physics.Data
	OtherData *physics.Data
}

// ProximityPayload is a proximity transition seen from the receiving entity
type ProximityPayload struct {
	Other     core.Entity
	Self      *physics.Data
	OtherData *physics.Data
	State     physics.ProximityState
}

// Key is a logical game key
type Key uint8

const (
	KeyLeft Key = iota
	KeyRight
	KeyUp
	KeyDown
	KeyFocus
	KeyFire
	KeyPause
	KeyQuit
)

// KeyState is a press or release transition
type KeyState uint8

const (
	Pressed KeyState = iota
	Released
)

// KeyPayload is a keyboard transition
type KeyPayload struct {
	Key   Key
	State KeyState
}

// MouseButton identifies a pointer button
type MouseButton uint8

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseRight
)

// MousePayload is a pointer move or button transition in world coordinates
type MousePayload struct {
	Pos    vmath.Vec2
	Button MouseButton
	State  KeyState
}

// TimerPayload identifies the expired timer
type TimerPayload struct {
	ID    uint32
	Class byte
}

// AppKind is the closed set of application events
type AppKind uint8

const (
	// AppMouseOver: pointer entered an entity's bounds
	AppMouseOver AppKind = iota
	// AppMouseLeft: pointer left an entity's bounds
	AppMouseLeft
	// AppMouseClicked: button pressed over an entity
	AppMouseClicked
	// AppMouseUnclicked: button released over an entity
	AppMouseUnclicked
	// AppLevelFired: a level event fired, Value is its id
	AppLevelFired
	// AppLevelFinished: sequencer has nothing pending and no enemies remain
	AppLevelFinished
	// AppPlayerHit: player took a hit, Value is remaining lives
	AppPlayerHit
	// AppEnemyKilled: enemy destroyed by damage, Value is its entity
	AppEnemyKilled
)

var appNames = [...]string{
	AppMouseOver:      "mouse_over",
	AppMouseLeft:      "mouse_left",
	AppMouseClicked:   "mouse_clicked",
	AppMouseUnclicked: "mouse_unclicked",
	AppLevelFired:     "level_fired",
	AppLevelFinished:  "level_finished",
	AppPlayerHit:      "player_hit",
	AppEnemyKilled:    "enemy_killed",
}

func (k AppKind) String() string {
	if int(k) < len(appNames) {
		return appNames[k]
	}
	return "unknown"
}

// AppPayload is an application event
type AppPayload struct {
	Kind  AppKind
	Value int64
}

// NewUpdate creates an Update event
func NewUpdate(dt time.Duration) *Event {
	return &Event{Type: Update, Payload: &UpdatePayload{DT: dt}}
}

// NewTimer creates a Timer event
func NewTimer(id uint32, class byte) *Event {
	return &Event{Type: TimerFired, Payload: &TimerPayload{ID: id, Class: class}}
}

// NewKey creates a KeyInput event
func NewKey(k Key, s KeyState) *Event {
	return &Event{Type: KeyInput, Payload: &KeyPayload{Key: k, State: s}}
}

// NewMouseMove creates a MouseMove event at world position pos
func NewMouseMove(pos vmath.Vec2) *Event {
	return &Event{Type: MouseMove, Payload: &MousePayload{Pos: pos}}
}

// NewMouseButton creates a MouseInput event
func NewMouseButton(pos vmath.Vec2, b MouseButton, s KeyState) *Event {
	return &Event{Type: MouseInput, Payload: &MousePayload{Pos: pos, Button: b, State: s}}
}

// NewApp creates an App event
func NewApp(kind AppKind, value int64) *Event {
	return &Event{Type: App, Payload: &AppPayload{Kind: kind, Value: value}}
}

// NewCollision builds the event seen by c.Data1's owner
func NewCollision(c physics.Collision) *Event {
	p := &CollisionPayload{Self: c.Data1, OtherData: c.Data2}
	if c.Data2 != nil {
		p.Other = c.Data2.Entity
	}
	return &Event{Type: Collision, Payload: p}
}

// NewProximity builds the event seen by p.Data1's owner
func NewProximity(p physics.Proximity) *Event {
	pl := &ProximityPayload{Self: p.Data1, OtherData: p.Data2, State: p.State}
	if p.Data2 != nil {
		pl.Other = p.Data2.Entity
	}
	return &Event{Type: Proximity, Payload: pl}
}
