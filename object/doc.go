// Package object implements the closed set of simulated entity kinds
//
// Every kind keeps an engine.Base for its facets and acquires them in its Spawn
// handler: subscriptions, hitboxes, render slot, aliases. Teardown is done by
// the engine's despawn pass, never by the objects themselves.
package object

// Registry aliases and tags used across kinds
const (
	AliasLevel  = "level"
	AliasScreen = "screen_area"
	AliasPlayer = "player"
	AliasMouse  = "mouse"

	TagEnemies = "enemy"
	TagBullets = "bullet"
)
