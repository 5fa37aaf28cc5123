package core

import "github.com/kamstrup/intmap"

// Bot weights used by ChooseTap.
const (
	botObstacleWeight = 8
	botRocketBonus    = 6
	botComboBonus     = 12
)

// ChooseTap implements a greedy tap policy over a snapshot:
// rockets score by the obstacles on their line, cube groups by size plus the
// obstacles they would damage. Returns ok=false when no tap would use a move.
func ChooseTap(s *Snapshot, rules MatchRules) (x, y int, ok bool) {
	if s == nil || s.Over() {
		return 0, 0, false
	}
	rules = rules.normalized()

	best := -1
	seen := intmap.New[int, struct{}](64)
	for cy := 0; cy < s.Height; cy++ {
		for cx := 0; cx < s.Width; cx++ {
			v := s.At(cx, cy)
			score := -1
			switch {
			case v.Type.IsRocket():
				score = botRocketScore(s, cx, cy)
			case v.Type.IsCube():
				if _, done := seen.Get(cy*s.Width + cx); done {
					continue
				}
				group := snapshotGroup(s, cx, cy)
				for _, c := range group {
					seen.Put(c.Y*s.Width+c.X, struct{}{})
				}
				if rules.IsValidMatch(len(group)) {
					score = botGroupScore(s, group, rules)
				}
			}
			if score > best {
				best, x, y, ok = score, cx, cy, true
			}
		}
	}
	return x, y, ok
}

// snapshotGroup flood-fills same-type cubes in visible coordinates.
func snapshotGroup(s *Snapshot, x, y int) []Coord {
	t := s.At(x, y).Type
	visited := intmap.New[int, struct{}](16)
	visited.Put(y*s.Width+x, struct{}{})
	group := []Coord{C(x, y)}
	for i := 0; i < len(group); i++ {
		for _, d := range CardinalDirs {
			n := group[i].Step(d)
			if n.X < 0 || n.X >= s.Width || n.Y < 0 || n.Y >= s.Height {
				continue
			}
			idx := n.Y*s.Width + n.X
			if _, done := visited.Get(idx); done {
				continue
			}
			visited.Put(idx, struct{}{})
			if s.At(n.X, n.Y).Type == t {
				group = append(group, n)
			}
		}
	}
	return group
}

func botGroupScore(s *Snapshot, group []Coord, rules MatchRules) int {
	score := len(group)
	if rules.CreatesRocket(len(group)) {
		score += botRocketBonus
	}
	touched := intmap.New[int, struct{}](8)
	for _, c := range group {
		for _, d := range CardinalDirs {
			n := c.Step(d)
			v := s.At(n.X, n.Y)
			kind, isObstacle := ObstacleKindOf(v.Type)
			if !isObstacle || !CanTakeDamage(kind, SourceAdjacentBlast) {
				continue
			}
			idx := n.Y*s.Width + n.X
			if _, done := touched.Get(idx); !done {
				touched.Put(idx, struct{}{})
				score += botObstacleWeight
			}
		}
	}
	return score
}

func botRocketScore(s *Snapshot, x, y int) int {
	score := botRocketBonus
	for _, d := range CardinalDirs {
		n := C(x, y).Step(d)
		if s.At(n.X, n.Y).Type.IsRocket() {
			score += botComboBonus
		}
	}
	line := func(v CellView) {
		if v.Type.IsObstacle() {
			score += botObstacleWeight
		}
	}
	if s.At(x, y).Type == TypeHorizontalRocket {
		for cx := 0; cx < s.Width; cx++ {
			line(s.At(cx, y))
		}
	} else {
		for cy := 0; cy < s.Height; cy++ {
			line(s.At(x, cy))
		}
	}
	return score
}
