package core

import (
	"math/rand"

	"github.com/kamstrup/intmap"
)

// FindMatchingGroup returns the cubes connected to seed that share its colour.
// The search is breadth-first over visible 4-neighbours and visits each cell once.
// The seed is always the first element. Returns nil when seed is not a visible cube.
func FindMatchingGroup(g *Grid, seed Coord) []Coord {
	it := g.Item(seed)
	if !g.InVisible(seed) || !it.IsCube() {
		return nil
	}
	color := it.Color()

	visited := intmap.New[int, struct{}](16)
	visited.Put(g.CellIndex(seed), struct{}{})
	group := []Coord{seed}

	for i := 0; i < len(group); i++ {
		for _, n := range g.AdjacentCells(group[i]) {
			idx := g.CellIndex(n)
			if _, seen := visited.Get(idx); seen {
				continue
			}
			visited.Put(idx, struct{}{})
			if nb := g.Item(n); nb.IsCube() && nb.Color() == color {
				group = append(group, n)
			}
		}
	}
	return group
}

// MatchRules holds the size thresholds for matches.
type MatchRules struct {
	MinMatch        int // smallest group that clears
	RocketThreshold int // smallest group that spawns a rocket
}

// DefaultMatchRules returns the stock thresholds: pairs clear, four spawn a rocket.
func DefaultMatchRules() MatchRules {
	return MatchRules{MinMatch: 2, RocketThreshold: 4}
}

func (r MatchRules) normalized() MatchRules {
	if r.MinMatch < 2 {
		r.MinMatch = 2
	}
	if r.RocketThreshold < r.MinMatch {
		r.RocketThreshold = r.MinMatch
	}
	return r
}

// IsValidMatch reports whether a group of size n clears.
func (r MatchRules) IsValidMatch(n int) bool {
	return n >= r.normalized().MinMatch
}

// CreatesRocket reports whether a group of size n spawns a rocket.
func (r MatchRules) CreatesRocket(n int) bool {
	return r.IsValidMatch(n) && n >= r.normalized().RocketThreshold
}

// MatchResult describes a resolved cube match.
type MatchResult struct {
	Tapped        Coord
	Group         []Coord
	Color         CubeColor
	RocketCreated bool
	Rocket        Orientation
	Damaged       int // obstacles that took adjacent-blast damage
}

// MatchResolver clears matched groups, spawns rockets and damages neighbours.
type MatchResolver struct {
	fx    *effects
	rng   *rand.Rand
	rules MatchRules
}

// NewMatchResolver creates a resolver operating on g and publishing to bus.
func NewMatchResolver(g *Grid, bus *Bus, rng *rand.Rand, rules MatchRules) *MatchResolver {
	return newMatchResolver(newEffects(g, bus, nil), rng, rules)
}

func newMatchResolver(fx *effects, rng *rand.Rand, rules MatchRules) *MatchResolver {
	return &MatchResolver{fx: fx, rng: rng, rules: rules.normalized()}
}

// Rules returns the thresholds in use.
func (m *MatchResolver) Rules() MatchRules {
	return m.rules
}

// Resolve clears the group containing tap.
// ok is false, and nothing changes, when the tap is not a valid match.
func (m *MatchResolver) Resolve(tap Coord) (res MatchResult, ok bool) {
	grid := m.fx.grid
	group := FindMatchingGroup(grid, tap)
	if !m.rules.IsValidMatch(len(group)) {
		return MatchResult{}, false
	}

	cube := grid.Item(tap)
	res = MatchResult{Tapped: tap, Group: group, Color: cube.Color()}
	m.fx.bus.Publish(MatchFound{Count: len(group), Type: cube.Type()})

	res.RocketCreated = m.rules.CreatesRocket(len(group))
	if res.RocketCreated {
		res.Rocket = Orientation(m.rng.Intn(2))
	}

	for _, c := range group {
		m.fx.destroy(c)
	}

	if res.RocketCreated {
		rocket := NewRocket(res.Rocket)
		if m.fx.spawn(tap, rocket) {
			x, y := grid.ToVisible(tap)
			m.fx.bus.Publish(RocketCreated{X: x, Y: y, Type: rocket.Type()})
			m.fx.stats.RocketsCreated++
		}
	}

	res.Damaged = m.damageAdjacent(group)
	m.fx.bus.Publish(MatchProcessed{Count: len(group), RocketCreated: res.RocketCreated})
	return res, true
}

// damageAdjacent hits each obstacle next to a cleared cell once.
func (m *MatchResolver) damageAdjacent(cleared []Coord) int {
	grid := m.fx.grid
	hit := intmap.New[uint64, struct{}](8)
	for _, c := range cleared {
		for _, n := range grid.AdjacentCells(c) {
			it := grid.Item(n)
			if !it.IsObstacle() || !CanTakeDamage(it.Obstacle(), SourceAdjacentBlast) {
				continue
			}
			if _, done := hit.Get(it.ID()); done {
				continue
			}
			hit.Put(it.ID(), struct{}{})
			m.fx.damage(it, SourceAdjacentBlast)
		}
	}
	return hit.Len()
}
