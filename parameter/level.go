package parameter

// Level sequencing
const (
	// StartEvent is the implicit predecessor fired when a level begins
	StartEvent = "start"

	// DefaultLevel is the level name played when none is configured
	DefaultLevel = "main"

	// DefaultLevelPath is the level file loaded when none is configured
	DefaultLevelPath = "assets/levels/stage1.toml"
)

// Content defaults applied by the loader
const (
	DefaultEnemyHealth  = 10
	DefaultBulletDamage = 1
	DefaultSpriteRadius = 4.0
	DefaultMaxAmount    = 1024
)
