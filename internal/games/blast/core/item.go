// Package core implements the rule engine of the blast puzzle: grid, matches,
// rockets, gravity, goals and the move orchestrator.
// It is UI-agnostic; collaborators observe it through the event bus and snapshots.
package core

import (
	"fmt"
	"math/rand"
)

// ItemType identifies what occupies a cell as seen by collaborators.
// It is the "type" carried by input and output events.
type ItemType uint8

const (
	TypeEmpty ItemType = iota
	TypeRedCube
	TypeGreenCube
	TypeBlueCube
	TypeYellowCube
	TypeRandomCube
	TypeHorizontalRocket
	TypeVerticalRocket
	TypeBox
	TypeStone
	TypeVase
	TypePhantom
)

var itemTypeNames = [...]string{
	TypeEmpty:            "empty",
	TypeRedCube:          "red_cube",
	TypeGreenCube:        "green_cube",
	TypeBlueCube:         "blue_cube",
	TypeYellowCube:       "yellow_cube",
	TypeRandomCube:       "random_cube",
	TypeHorizontalRocket: "horizontal_rocket",
	TypeVerticalRocket:   "vertical_rocket",
	TypeBox:              "box",
	TypeStone:            "stone",
	TypeVase:             "vase",
	TypePhantom:          "phantom",
}

// String returns the snake_case name of the type.
func (t ItemType) String() string {
	if int(t) < len(itemTypeNames) {
		return itemTypeNames[t]
	}
	return fmt.Sprintf("item_type(%d)", t)
}

// IsCube reports whether the type is a coloured cube.
func (t ItemType) IsCube() bool {
	return t >= TypeRedCube && t <= TypeYellowCube
}

// IsRocket reports whether the type is a rocket.
func (t ItemType) IsRocket() bool {
	return t == TypeHorizontalRocket || t == TypeVerticalRocket
}

// IsObstacle reports whether the type is an obstacle.
func (t ItemType) IsObstacle() bool {
	return t == TypeBox || t == TypeStone || t == TypeVase
}

// CubeColor is the colour of a cube.
type CubeColor uint8

const (
	ColorNone CubeColor = iota
	ColorRed
	ColorGreen
	ColorBlue
	ColorYellow
)

// CubeColors lists the colours random cubes are drawn from.
var CubeColors = [4]CubeColor{ColorRed, ColorGreen, ColorBlue, ColorYellow}

// String returns the colour name.
func (c CubeColor) String() string {
	switch c {
	case ColorRed:
		return "red"
	case ColorGreen:
		return "green"
	case ColorBlue:
		return "blue"
	case ColorYellow:
		return "yellow"
	}
	return "none"
}

// RandomColor draws a cube colour uniformly.
func RandomColor(rng *rand.Rand) CubeColor {
	return CubeColors[rng.Intn(len(CubeColors))]
}

// Orientation is the axis a rocket fires along.
type Orientation uint8

const (
	Horizontal Orientation = iota
	Vertical
)

// Dirs returns the two projectile directions for a rocket of this orientation.
func (o Orientation) Dirs() [2]Dir {
	if o == Horizontal {
		return [2]Dir{DirRight, DirLeft}
	}
	return [2]Dir{DirUp, DirDown}
}

// String returns the orientation name.
func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// ItemKind is the variant tag of an Item.
type ItemKind uint8

const (
	KindCube ItemKind = iota + 1
	KindRocket
	KindObstacle
	KindPhantom
)

// Item is a tagged variant over cubes, rockets, obstacles and phantoms.
// Only the fields of the active variant are meaningful.
type Item struct {
	id       uint64
	kind     ItemKind
	color    CubeColor
	orient   Orientation
	obstacle ObstacleKind
	health   int

	cell   Coord
	placed bool
}

// NewCube creates a cube of the given colour.
func NewCube(color CubeColor) *Item {
	return &Item{kind: KindCube, color: color}
}

// NewRocket creates a rocket with the given orientation.
func NewRocket(o Orientation) *Item {
	return &Item{kind: KindRocket, orient: o}
}

// NewObstacle creates an obstacle at full health.
func NewObstacle(kind ObstacleKind) *Item {
	return &Item{kind: KindObstacle, obstacle: kind, health: MaxHealth(kind)}
}

func newPhantom() *Item {
	return &Item{kind: KindPhantom}
}

// NewItem creates an item from its type. Random cubes draw a colour from rng.
// Returns nil for TypeEmpty and unknown types.
func NewItem(t ItemType, rng *rand.Rand) *Item {
	switch t {
	case TypeRedCube:
		return NewCube(ColorRed)
	case TypeGreenCube:
		return NewCube(ColorGreen)
	case TypeBlueCube:
		return NewCube(ColorBlue)
	case TypeYellowCube:
		return NewCube(ColorYellow)
	case TypeRandomCube:
		return NewCube(RandomColor(rng))
	case TypeHorizontalRocket:
		return NewRocket(Horizontal)
	case TypeVerticalRocket:
		return NewRocket(Vertical)
	case TypeBox:
		return NewObstacle(ObstacleBox)
	case TypeStone:
		return NewObstacle(ObstacleStone)
	case TypeVase:
		return NewObstacle(ObstacleVase)
	case TypePhantom:
		return newPhantom()
	}
	return nil
}

// ID returns the identifier assigned when the item was first placed on a grid.
func (it *Item) ID() uint64 { return it.id }

// Kind returns the variant tag.
func (it *Item) Kind() ItemKind { return it.kind }

// Color returns the cube colour, or ColorNone for other variants.
func (it *Item) Color() CubeColor { return it.color }

// Orientation returns the rocket orientation.
func (it *Item) Orientation() Orientation { return it.orient }

// Obstacle returns the obstacle kind.
func (it *Item) Obstacle() ObstacleKind { return it.obstacle }

// Health returns remaining obstacle hit points.
func (it *Item) Health() int { return it.health }

// Cell returns the cell the item occupies. ok is false once removed.
func (it *Item) Cell() (c Coord, ok bool) {
	return it.cell, it.placed
}

func (it *Item) IsCube() bool     { return it != nil && it.kind == KindCube }
func (it *Item) IsRocket() bool   { return it != nil && it.kind == KindRocket }
func (it *Item) IsObstacle() bool { return it != nil && it.kind == KindObstacle }
func (it *Item) IsPhantom() bool  { return it != nil && it.kind == KindPhantom }

// CanFall reports whether gravity may move the item.
func (it *Item) CanFall() bool {
	switch it.kind {
	case KindCube, KindRocket:
		return true
	case KindObstacle:
		return CanFall(it.obstacle)
	}
	return false
}

// Visual returns the presentation state of the item.
func (it *Item) Visual() VisualState {
	if it.kind == KindObstacle {
		return VisualStateFor(it.obstacle, it.health)
	}
	return VisualIntact
}

// Type maps the item back to its ItemType.
func (it *Item) Type() ItemType {
	if it == nil {
		return TypeEmpty
	}
	switch it.kind {
	case KindCube:
		switch it.color {
		case ColorRed:
			return TypeRedCube
		case ColorGreen:
			return TypeGreenCube
		case ColorBlue:
			return TypeBlueCube
		case ColorYellow:
			return TypeYellowCube
		}
	case KindRocket:
		if it.orient == Horizontal {
			return TypeHorizontalRocket
		}
		return TypeVerticalRocket
	case KindObstacle:
		return it.obstacle.ItemType()
	case KindPhantom:
		return TypePhantom
	}
	return TypeEmpty
}

// String returns a short description for logs.
func (it *Item) String() string {
	if it == nil {
		return "<nil>"
	}
	if it.kind == KindObstacle {
		return fmt.Sprintf("%s#%d(hp=%d)", it.Type(), it.id, it.health)
	}
	return fmt.Sprintf("%s#%d", it.Type(), it.id)
}
