package core

import "github.com/kamstrup/intmap"

// RocketHints returns the visible cubes that belong to a group large enough to
// spawn a rocket, keyed by dense cell index.
func RocketHints(g *Grid, threshold int) *intmap.Map[int, struct{}] {
	hints := intmap.New[int, struct{}](16)
	if threshold < 2 {
		return hints
	}
	seen := intmap.New[int, struct{}](64)
	g.EachVisible(func(c Coord, it *Item) bool {
		if !it.IsCube() {
			return true
		}
		if _, done := seen.Get(g.CellIndex(c)); done {
			return true
		}
		group := FindMatchingGroup(g, c)
		for _, m := range group {
			seen.Put(g.CellIndex(m), struct{}{})
		}
		if len(group) >= threshold {
			for _, m := range group {
				hints.Put(g.CellIndex(m), struct{}{})
			}
		}
		return true
	})
	return hints
}

// LargestGroup returns the biggest matchable group on the visible rows.
// Ties are broken by scan order. Returns nil when the board has no cubes.
func LargestGroup(g *Grid) []Coord {
	var best []Coord
	seen := intmap.New[int, struct{}](64)
	g.EachVisible(func(c Coord, it *Item) bool {
		if !it.IsCube() {
			return true
		}
		if _, done := seen.Get(g.CellIndex(c)); done {
			return true
		}
		group := FindMatchingGroup(g, c)
		for _, m := range group {
			seen.Put(g.CellIndex(m), struct{}{})
		}
		if len(group) > len(best) {
			best = group
		}
		return true
	})
	return best
}
