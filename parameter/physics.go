package parameter

// World geometry in world units, origin at the playfield center, +Y up
// Mirroring across X negates x, across Y negates y
const (
	WorldWidth  = 384.0
	WorldHeight = 448.0

	// CullMargin extends the screen area so bullets leave fully before culling
	CullMargin = 16.0

	// ProximityMargin is the default slack added to proximity-mode shapes
	ProximityMargin = 0.5

	// CursorRadius is the hover radius of the mouse pointer
	CursorRadius = 3.0

	// GridCellSize is the edge of one broad-phase grid cell
	GridCellSize = 32.0
)

// CurveSamples is the polyline resolution of curve paths
const CurveSamples = 100

// Collision strategies selectable from config
const (
	CollisionTracked = "tracked"
	CollisionGrid    = "grid"
)
