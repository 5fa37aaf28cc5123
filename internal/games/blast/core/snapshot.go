package core

import "github.com/kamstrup/intmap"

// CellView is the presentation view of one visible cell.
type CellView struct {
	Type   ItemType
	Health int
	Visual VisualState
	Hint   bool // cube belongs to a group that would spawn a rocket
}

// Empty reports whether nothing occupies the cell.
func (v CellView) Empty() bool { return v.Type == TypeEmpty }

// Phantom reports whether the cell holds a projectile marker.
func (v CellView) Phantom() bool { return v.Type == TypePhantom }

// Snapshot is an immutable copy of the session state.
// Cells cover the visible rows only, row-major with y=0 at the top.
type Snapshot struct {
	SessionID string
	Level     int
	LevelName string
	Width     int
	Height    int
	Cells     []CellView
	Moves     int
	Phase     Phase
	Status    Status
	Goals     []Goal
	Stats     Stats
	Score     int
}

// At returns the view of visible cell (x, y), or an empty view when out of range.
func (s *Snapshot) At(x, y int) CellView {
	if s == nil || x < 0 || x >= s.Width || y < 0 || y >= s.Height {
		return CellView{}
	}
	return s.Cells[y*s.Width+x]
}

// Remaining returns the goal count left for kind.
func (s *Snapshot) Remaining(kind ObstacleKind) int {
	for _, g := range s.Goals {
		if g.Kind == kind {
			return g.Remaining
		}
	}
	return 0
}

// Over reports whether the level has ended.
func (s *Snapshot) Over() bool {
	return s.Status == StatusWon || s.Status == StatusLost
}

// viewCells copies the visible rows of g. Hints are computed when threshold > 0.
func viewCells(g *Grid, hintThreshold int) []CellView {
	cells := make([]CellView, g.Width()*g.Height())
	var hints *intmap.Map[int, struct{}]
	if hintThreshold > 0 {
		hints = RocketHints(g, hintThreshold)
	}
	g.EachVisible(func(c Coord, it *Item) bool {
		x, y := g.ToVisible(c)
		v := CellView{Type: it.Type(), Visual: it.Visual()}
		if it.IsObstacle() {
			v.Health = it.Health()
		}
		if hints != nil {
			_, v.Hint = hints.Get(g.CellIndex(c))
		}
		cells[y*g.Width()+x] = v
		return true
	})
	return cells
}
