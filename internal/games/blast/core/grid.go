package core

// DefaultBufferRows is the number of hidden rows stacked above the visible area.
const DefaultBufferRows = 20

// Cell is a read-only view of one grid position.
type Cell struct {
	Pos  Coord
	Item *Item
}

// IsEmpty reports whether no item (not even a phantom) occupies the cell.
func (c Cell) IsEmpty() bool {
	return c.Item == nil
}

// Grid stores items on the extended grid: buffer rows on top, visible rows below.
// Cells are stored in row-major order: index = y*width + x.
// All accessors fail closed on out-of-range coordinates.
type Grid struct {
	width  int
	height int
	buffer int
	cells  []*Item
	nextID uint64
}

// NewGrid creates an empty grid with the given visible size and buffer rows.
func NewGrid(width, height, buffer int) *Grid {
	width = max(width, 0)
	height = max(height, 0)
	buffer = max(buffer, 0)
	return &Grid{
		width:  width,
		height: height,
		buffer: buffer,
		cells:  make([]*Item, width*(height+buffer)),
	}
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of visible rows.
func (g *Grid) Height() int { return g.height }

// BufferRows returns the number of hidden rows above the visible area.
func (g *Grid) BufferRows() int { return g.buffer }

// TotalHeight returns visible plus buffer rows.
func (g *Grid) TotalHeight() int { return g.height + g.buffer }

// CellIndex returns the dense index of an in-bounds coordinate.
func (g *Grid) CellIndex(c Coord) int {
	return c.Y*g.width + c.X
}

// InBounds reports whether c lies on the extended grid.
func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.width && c.Y >= 0 && c.Y < g.TotalHeight()
}

// InVisible reports whether c lies on a player-visible row.
func (g *Grid) InVisible(c Coord) bool {
	return c.X >= 0 && c.X < g.width && c.Y >= g.buffer && c.Y < g.TotalHeight()
}

// InBuffer reports whether c lies on a hidden buffer row.
func (g *Grid) InBuffer(c Coord) bool {
	return c.X >= 0 && c.X < g.width && c.Y >= 0 && c.Y < g.buffer
}

// ToExtended converts visible coordinates to an extended coordinate.
func (g *Grid) ToExtended(x, y int) Coord {
	return Coord{X: x, Y: y + g.buffer}
}

// ToVisible converts an extended coordinate to visible coordinates.
// Buffer rows map to negative y.
func (g *Grid) ToVisible(c Coord) (x, y int) {
	return c.X, c.Y - g.buffer
}

// Cell returns the cell at c. ok is false when c is out of range.
func (g *Grid) Cell(c Coord) (Cell, bool) {
	if !g.InBounds(c) {
		return Cell{}, false
	}
	return Cell{Pos: c, Item: g.cells[g.CellIndex(c)]}, true
}

// Item returns the item at c, or nil when empty or out of range.
func (g *Grid) Item(c Coord) *Item {
	if !g.InBounds(c) {
		return nil
	}
	return g.cells[g.CellIndex(c)]
}

// IsEmpty reports whether c is in range and holds no item.
// Phantoms occupy their cell.
func (g *Grid) IsEmpty(c Coord) bool {
	return g.InBounds(c) && g.cells[g.CellIndex(c)] == nil
}

// SetItem places it at c, replacing a phantom if one is there.
// Fails when c is out of range, it is nil or already placed, or the cell holds a
// non-phantom item.
func (g *Grid) SetItem(c Coord, it *Item) bool {
	if it == nil || it.placed || !g.InBounds(c) {
		return false
	}
	idx := g.CellIndex(c)
	if cur := g.cells[idx]; cur != nil {
		if !cur.IsPhantom() {
			return false
		}
		cur.placed = false
	}
	if it.id == 0 {
		g.nextID++
		it.id = g.nextID
	}
	it.cell = c
	it.placed = true
	g.cells[idx] = it
	return true
}

// RemoveItem clears c and returns what was there.
func (g *Grid) RemoveItem(c Coord) *Item {
	if !g.InBounds(c) {
		return nil
	}
	idx := g.CellIndex(c)
	it := g.cells[idx]
	if it == nil {
		return nil
	}
	g.cells[idx] = nil
	it.placed = false
	return it
}

// MoveItem moves the item at from to to, clearing a phantom at the destination.
func (g *Grid) MoveItem(from, to Coord) bool {
	it := g.Item(from)
	if it == nil || !g.InBounds(to) || from == to {
		return false
	}
	if dst := g.Item(to); dst != nil {
		if !dst.IsPhantom() {
			return false
		}
		g.RemoveItem(to)
	}
	g.cells[g.CellIndex(from)] = nil
	g.cells[g.CellIndex(to)] = it
	it.cell = to
	return true
}

// AdjacentCells returns the orthogonal neighbours of c that lie on visible rows.
func (g *Grid) AdjacentCells(c Coord) []Coord {
	return g.neighbours(c, g.InVisible)
}

// AdjacentExtended returns the orthogonal neighbours of c on the extended grid.
func (g *Grid) AdjacentExtended(c Coord) []Coord {
	return g.neighbours(c, g.InBounds)
}

func (g *Grid) neighbours(c Coord, valid func(Coord) bool) []Coord {
	out := make([]Coord, 0, 4)
	for _, d := range [4]Dir{DirUp, DirDown, DirLeft, DirRight} {
		if n := c.Step(d); valid(n) {
			out = append(out, n)
		}
	}
	return out
}

// Each calls fn for every occupied cell of the extended grid in row-major order.
// Iteration stops when fn returns false.
func (g *Grid) Each(fn func(Coord, *Item) bool) {
	for idx, it := range g.cells {
		if it == nil {
			continue
		}
		if !fn(Coord{X: idx % g.width, Y: idx / g.width}, it) {
			return
		}
	}
}

// EachVisible is Each restricted to visible rows.
func (g *Grid) EachVisible(fn func(Coord, *Item) bool) {
	g.Each(func(c Coord, it *Item) bool {
		if c.Y < g.buffer {
			return true
		}
		return fn(c, it)
	})
}

// ClearPhantoms removes every phantom and returns how many were removed.
func (g *Grid) ClearPhantoms() int {
	n := 0
	for idx, it := range g.cells {
		if it.IsPhantom() {
			it.placed = false
			g.cells[idx] = nil
			n++
		}
	}
	return n
}
