package core

import (
	"fmt"
	"strings"
)

// Level size limits.
const (
	MinLevelSize = 2
	MaxLevelSize = 16
	MaxMoves     = 999
)

// ValidationError contains details about validation failure.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// LevelSpec is a level descriptor as provided by the level loader.
// Grid holds Width*Height tokens in row-major order; row 0 is the bottom row.
type LevelSpec struct {
	Number int
	Name   string
	Width  int
	Height int
	Moves  int
	Grid   []string
}

// ParseToken maps a cell code to an item type. Matching is case-insensitive;
// unrecognised tokens are empty.
func ParseToken(tok string) ItemType {
	switch strings.ToLower(strings.TrimSpace(tok)) {
	case "r":
		return TypeRedCube
	case "g":
		return TypeGreenCube
	case "b":
		return TypeBlueCube
	case "y":
		return TypeYellowCube
	case "rand":
		return TypeRandomCube
	case "hro":
		return TypeHorizontalRocket
	case "vro":
		return TypeVerticalRocket
	case "bo":
		return TypeBox
	case "s":
		return TypeStone
	case "v":
		return TypeVase
	}
	return TypeEmpty
}

// TokenFor is the inverse of ParseToken. Empty and phantom cells map to "".
func TokenFor(t ItemType) string {
	switch t {
	case TypeRedCube:
		return "r"
	case TypeGreenCube:
		return "g"
	case TypeBlueCube:
		return "b"
	case TypeYellowCube:
		return "y"
	case TypeRandomCube:
		return "rand"
	case TypeHorizontalRocket:
		return "hro"
	case TypeVerticalRocket:
		return "vro"
	case TypeBox:
		return "bo"
	case TypeStone:
		return "s"
	case TypeVase:
		return "v"
	}
	return ""
}

// Validate checks size, moves and grid length.
func (l LevelSpec) Validate() error {
	if l.Width < MinLevelSize || l.Width > MaxLevelSize || l.Height < MinLevelSize || l.Height > MaxLevelSize {
		return ValidationError{
			Code:    "INVALID_SIZE",
			Message: fmt.Sprintf("grid %dx%d outside %d..%d", l.Width, l.Height, MinLevelSize, MaxLevelSize),
		}
	}
	if l.Moves < 1 || l.Moves > MaxMoves {
		return ValidationError{
			Code:    "INVALID_MOVES",
			Message: fmt.Sprintf("move count %d outside 1..%d", l.Moves, MaxMoves),
		}
	}
	if len(l.Grid) != l.Width*l.Height {
		return ValidationError{
			Code:    "GRID_SIZE_MISMATCH",
			Message: fmt.Sprintf("grid has %d cells, want %d", len(l.Grid), l.Width*l.Height),
		}
	}
	return nil
}

// TokenAt returns the token for visible cell (x, y), where y=0 is the top row.
// Returns "" when out of range.
func (l LevelSpec) TokenAt(x, y int) string {
	if x < 0 || x >= l.Width || y < 0 || y >= l.Height {
		return ""
	}
	idx := (l.Height-1-y)*l.Width + x
	if idx >= len(l.Grid) {
		return ""
	}
	return l.Grid[idx]
}

// ObstacleCount returns how many obstacles the descriptor places.
func (l LevelSpec) ObstacleCount() int {
	n := 0
	for _, tok := range l.Grid {
		if ParseToken(tok).IsObstacle() {
			n++
		}
	}
	return n
}

// LevelFromRows builds a descriptor from rows listed top-down, each row a
// whitespace-separated list of tokens. Use "." or "-" for empty cells.
// The width is taken from the first row.
func LevelFromRows(number, moves int, rows ...string) (LevelSpec, error) {
	l := LevelSpec{Number: number, Moves: moves, Height: len(rows)}
	parsed := make([][]string, len(rows))
	for i, row := range rows {
		parsed[i] = strings.Fields(row)
		if i == 0 {
			l.Width = len(parsed[i])
		}
		if len(parsed[i]) != l.Width {
			return LevelSpec{}, ValidationError{
				Code:    "RAGGED_ROWS",
				Message: fmt.Sprintf("row %d has %d cells, want %d", i, len(parsed[i]), l.Width),
			}
		}
	}

	l.Grid = make([]string, 0, l.Width*l.Height)
	for i := len(parsed) - 1; i >= 0; i-- {
		for _, tok := range parsed[i] {
			if tok == "." || tok == "-" {
				tok = ""
			}
			l.Grid = append(l.Grid, tok)
		}
	}
	return l, l.Validate()
}

// MustLevel is LevelFromRows that panics on error. Intended for tests and fixtures.
func MustLevel(number, moves int, rows ...string) LevelSpec {
	l, err := LevelFromRows(number, moves, rows...)
	if err != nil {
		panic(err)
	}
	return l
}
