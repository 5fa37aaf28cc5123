package core

import "fmt"

// Coord is a position on the extended grid.
// X grows to the right, Y grows downward; rows 0..BufferRows-1 are hidden.
type Coord struct {
	X int
	Y int
}

// C is a convenience constructor for Coord.
func C(x, y int) Coord {
	return Coord{X: x, Y: y}
}

// String returns a string representation of the coordinate.
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Add returns a new Coord offset by (dx, dy).
func (c Coord) Add(dx, dy int) Coord {
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

// Step returns the neighbouring coordinate in direction d.
func (c Coord) Step(d Dir) Coord {
	dx, dy := d.Delta()
	return c.Add(dx, dy)
}

// Dir is one of the four cardinal directions.
type Dir uint8

const (
	DirUp Dir = iota
	DirDown
	DirLeft
	DirRight
)

// CardinalDirs lists directions in the order projectiles are launched for combos.
var CardinalDirs = [4]Dir{DirLeft, DirRight, DirUp, DirDown}

// Delta returns the unit offset for the direction.
func (d Dir) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	}
	return 0, 0
}

// Opposite returns the reverse direction.
func (d Dir) Opposite() Dir {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	default:
		return DirLeft
	}
}

// Horizontal reports whether the direction moves along a row.
func (d Dir) Horizontal() bool {
	return d == DirLeft || d == DirRight
}

// String returns the direction name.
func (d Dir) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	}
	return "unknown"
}

// perpendicularOffset shifts c sideways relative to travel direction d.
// Rows shift vertically for horizontal travel and columns shift horizontally otherwise.
func perpendicularOffset(c Coord, d Dir, offset int) Coord {
	if d.Horizontal() {
		return c.Add(0, offset)
	}
	return c.Add(offset, 0)
}
