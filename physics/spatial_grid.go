package physics

import (
	"math"

	"github.com/lixenwraith/danmaku/core"
)

// MaxEntitiesPerCell is set to 15 to ensure the inline part of Cell fits into 128 bytes
// 15 * 8 (Entities) + 1 (Count) + 7 (Padding) = 128 bytes; crowded cells spill to Overflow
const MaxEntitiesPerCell = 15

// Cell holds the objects whose bounding box touches one grid cell
type Cell struct {
	Count    uint8
	_        [7]byte
	Entities [MaxEntitiesPerCell]core.Entity
	Overflow []core.Entity
}

// All returns a view of every entity in the cell
// INTERNAL USE ONLY - valid until the next Clear
func (c *Cell) All(buf []core.Entity) []core.Entity {
	buf = append(buf[:0], c.Entities[:c.Count]...)
	return append(buf, c.Overflow...)
}

// SpatialGrid is a dense 2D grid over a fixed world rectangle centered on the origin
type SpatialGrid struct {
	Width    int
	Height   int
	MinX     float64
	MinY     float64
	CellSize float64
	Cells    []Cell // 1D array: index = y*Width + x
}

// NewSpatialGrid creates a grid covering worldW x worldH with square cells
func NewSpatialGrid(worldW, worldH, cellSize float64) *SpatialGrid {
	w := int(math.Ceil(worldW / cellSize))
	h := int(math.Ceil(worldH / cellSize))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return &SpatialGrid{
		Width:    w,
		Height:   h,
		MinX:     -worldW / 2,
		MinY:     -worldH / 2,
		CellSize: cellSize,
		Cells:    make([]Cell, w*h),
	}
}

// Add inserts e into cell (x, y); out of bounds is clamped to the border cells
func (g *SpatialGrid) Add(e core.Entity, x, y int) {
	x, y = g.clampCell(x, y)
	cell := &g.Cells[y*g.Width+x]
	if cell.Count < MaxEntitiesPerCell {
		cell.Entities[cell.Count] = e
		cell.Count++
		return
	}
	cell.Overflow = append(cell.Overflow, e)
}

// CellRange returns the inclusive cell span covered by a world-space box
func (g *SpatialGrid) CellRange(minX, minY, maxX, maxY float64) (x0, y0, x1, y1 int) {
	x0, y0 = g.clampCell(g.cellOf(minX, g.MinX), g.cellOf(minY, g.MinY))
	x1, y1 = g.clampCell(g.cellOf(maxX, g.MinX), g.cellOf(maxY, g.MinY))
	return
}

func (g *SpatialGrid) cellOf(v, origin float64) int {
	return int(math.Floor((v - origin) / g.CellSize))
}

func (g *SpatialGrid) clampCell(x, y int) (int, int) {
	if x < 0 {
		x = 0
	} else if x >= g.Width {
		x = g.Width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= g.Height {
		y = g.Height - 1
	}
	return x, y
}

// Clear removes all entities from all cells, keeping overflow capacity
func (g *SpatialGrid) Clear() {
	for i := range g.Cells {
		g.Cells[i].Count = 0
		g.Cells[i].Overflow = g.Cells[i].Overflow[:0]
	}
}

// GridPass buckets objects by bounding box and pairs objects sharing a cell
// Objects outside the grid land in the border cells, so nothing is dropped
type GridPass struct {
	grid  *SpatialGrid
	index map[core.Entity]*Object
	buf   []core.Entity
}

// NewGridPass creates a grid strategy for a world of the given size
func NewGridPass(worldW, worldH, cellSize float64) *GridPass {
	return &GridPass{
		grid:  NewSpatialGrid(worldW, worldH, cellSize),
		index: make(map[core.Entity]*Object),
	}
}

func (*GridPass) Name() string { return "grid" }

func (p *GridPass) Candidates(objects []*Object, margin float64, emit func(a, b *Object)) {
	p.grid.Clear()
	clear(p.index)

	for _, o := range objects {
		p.index[o.Handle] = o
		// Pad by the proximity margin so near-miss pairs across a cell edge still meet
		ext := o.Shape.Extent()
		ext.X += margin
		ext.Y += margin
		x0, y0, x1, y1 := p.grid.CellRange(o.Pos.X-ext.X, o.Pos.Y-ext.Y, o.Pos.X+ext.X, o.Pos.Y+ext.Y)
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				p.grid.Add(o.Handle, x, y)
			}
		}
	}

	for i := range p.grid.Cells {
		cell := &p.grid.Cells[i]
		if int(cell.Count)+len(cell.Overflow) < 2 {
			continue
		}
		p.buf = cell.All(p.buf)
		for a := 0; a < len(p.buf); a++ {
			oa := p.index[p.buf[a]]
			for b := a + 1; b < len(p.buf); b++ {
				ob := p.index[p.buf[b]]
				if CanInteract(oa.Group, ob.Group) {
					emit(oa, ob)
				}
			}
		}
	}
}
