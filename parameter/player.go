package parameter

import "time"

// Player movement & firing
const (
	// PlayerSpeed is the movement speed in units per second per axis
	PlayerSpeed = 100.0

	// PlayerSlowFactor scales speed while focus (shift) is held
	PlayerSlowFactor = 0.5

	// PlayerFireInterval is the auto-fire period while the fire key is held
	PlayerFireInterval = 80 * time.Millisecond

	// PlayerFireTimerID is the timer id of the auto-fire timer
	PlayerFireTimerID = 1

	PlayerBulletSpeed  = 400.0
	PlayerBulletDamage = 1
	PlayerBulletRadius = 2.0

	// PlayerHitboxRadius is the precise contact radius
	PlayerHitboxRadius = 2.0

	PlayerLives = 3

	// PlayerSprite and PlayerBulletSprite name the sprite classes drawn for the player
	PlayerSprite       = "player"
	PlayerBulletSprite = "shot"

	// EnemyScore is awarded per enemy destroyed by damage
	EnemyScore = 100

	// PlayerInvulnerable is the grace time after being hit
	PlayerInvulnerable = 2 * time.Second

	// PlayerBlinkInterval toggles the sprite while invulnerable
	PlayerBlinkInterval = 100 * time.Millisecond
)

// PlayerSpawnX and PlayerSpawnY place a default player near the bottom center
const (
	PlayerSpawnX = 0.0
	PlayerSpawnY = -WorldHeight * 0.35
)
