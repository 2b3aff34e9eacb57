package physics

import "github.com/lixenwraith/danmaku/core"

// Group selects the asymmetric interaction rule set of a spatial object
type Group uint8

const (
	// Interactive objects interact with Interactive and SemiInteractive (player hitbox, world bounds)
	Interactive Group = iota
	// SemiInteractive objects interact with Interactive and NonInteractive (bullets)
	SemiInteractive
	// NonInteractive objects interact with SemiInteractive only (enemies, background volumes)
	NonInteractive
)

func (g Group) String() string {
	switch g {
	case Interactive:
		return "interactive"
	case SemiInteractive:
		return "semi"
	case NonInteractive:
		return "non"
	}
	return "unknown"
}

// CanInteract reports whether objects of the two groups generate events
// The relation is symmetric
func CanInteract(a, b Group) bool {
	switch a {
	case Interactive:
		return b == Interactive || b == SemiInteractive
	case SemiInteractive:
		return b == Interactive || b == NonInteractive
	case NonInteractive:
		return b == SemiInteractive
	}
	return false
}

// Query selects how overlaps involving an object are reported
type Query uint8

const (
	// QueryContact reports a collision every step the pair overlaps
	QueryContact Query = iota
	// QueryProximity reports only enter and exit transitions
	QueryProximity
)

// Tag bits identify the semantic role of the owning entity
const (
	TagPlayer       byte = 1
	TagEnemyBullet  byte = 2
	TagEnemy        byte = 4
	TagPlayerBullet byte = 8
	TagBoundary     byte = 16
	TagCursor       byte = 32
)

// Data is the immutable payload of a spatial object
// Events share it by pointer, so it outlives the object when both die in one step
type Data struct {
	Entity core.Entity
	Tag    byte
}
