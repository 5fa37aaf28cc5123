package core

// Stats counts what happened during a session.
type Stats struct {
	MovesUsed           int
	CubesCleared        int
	ObstaclesDestroyed  int
	RocketsCreated      int
	RocketsExploded     int
	Combos              int
	ProjectilesLaunched int
}

// ScoreWeights converts stats into points.
type ScoreWeights struct {
	Cube     int
	Obstacle int
	Rocket   int
	MoveLeft int // bonus per unused move, only on a win
}

// DefaultScoreWeights returns the stock scoring table.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{Cube: 10, Obstacle: 50, Rocket: 25, MoveLeft: 100}
}

// Score computes points for the stats.
func (s Stats) Score(w ScoreWeights, movesLeft int, won bool) int {
	score := s.CubesCleared*w.Cube + s.ObstaclesDestroyed*w.Obstacle + s.RocketsExploded*w.Rocket
	if won && movesLeft > 0 {
		score += movesLeft * w.MoveLeft
	}
	return score
}

// effects applies grid mutations that must be announced on the bus.
type effects struct {
	grid  *Grid
	bus   *Bus
	stats *Stats
}

func newEffects(g *Grid, bus *Bus, stats *Stats) *effects {
	if stats == nil {
		stats = &Stats{}
	}
	return &effects{grid: g, bus: bus, stats: stats}
}

// destroy removes the item at c and publishes ItemDestroyed.
func (f *effects) destroy(c Coord) *Item {
	it := f.grid.RemoveItem(c)
	if it == nil {
		return nil
	}
	if it.IsPhantom() {
		return it
	}
	x, y := f.grid.ToVisible(c)
	f.bus.Publish(ItemDestroyed{X: x, Y: y, Type: it.Type()})
	if it.IsCube() {
		f.stats.CubesCleared++
	}
	return it
}

// damage deals one hit from source to an obstacle.
// Returns true when the obstacle was destroyed by this hit.
func (f *effects) damage(it *Item, source DamageSource) bool {
	if !it.IsObstacle() || !CanTakeDamage(it.obstacle, source) {
		return false
	}
	c, ok := it.Cell()
	if !ok {
		return false
	}
	it.health--
	x, y := f.grid.ToVisible(c)
	f.bus.Publish(ItemDamaged{X: x, Y: y, Type: it.Type(), Amount: 1, Remaining: it.health})
	if it.health > 0 {
		return false
	}
	f.grid.RemoveItem(c)
	f.bus.Publish(ItemDestroyed{X: x, Y: y, Type: it.Type()})
	f.bus.Publish(ObstacleDestroyed{Type: it.Type()})
	f.stats.ObstaclesDestroyed++
	return true
}

// spawn places a new item at c and publishes ItemSpawned.
func (f *effects) spawn(c Coord, it *Item) bool {
	if !f.grid.SetItem(c, it) {
		return false
	}
	x, y := f.grid.ToVisible(c)
	f.bus.Publish(ItemSpawned{X: x, Y: y, Type: it.Type()})
	return true
}
