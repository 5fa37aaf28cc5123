package core

import (
	"io"
	"math/rand"

	"github.com/charmbracelet/log"
)

// DefaultGravityCap bounds the number of settle passes per resolution.
const DefaultGravityCap = 20

// FallOp records one item moving down.
type FallOp struct {
	From     Coord
	To       Coord
	Distance int
}

// GravityResult summarises a gravity resolution.
type GravityResult struct {
	Falls   []FallOp
	Passes  int
	Spawned int
	CapHit  bool
}

// Stable reports whether nothing moved and nothing was spawned.
func (r GravityResult) Stable() bool {
	return len(r.Falls) == 0 && r.Spawned == 0
}

// GravityResolver drops items into holes and refills the buffer rows.
type GravityResolver struct {
	fx     *effects
	rng    *rand.Rand
	cap    int
	logger *log.Logger
}

// NewGravityResolver creates a resolver operating on g.
// A cap below 1 uses DefaultGravityCap; a nil logger discards output.
func NewGravityResolver(g *Grid, bus *Bus, rng *rand.Rand, cap int, logger *log.Logger) *GravityResolver {
	return newGravityResolver(newEffects(g, bus, nil), rng, cap, logger)
}

func newGravityResolver(fx *effects, rng *rand.Rand, cap int, logger *log.Logger) *GravityResolver {
	if cap < 1 {
		cap = DefaultGravityCap
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &GravityResolver{fx: fx, rng: rng, cap: cap, logger: logger}
}

// Resolve settles the grid and then refills every empty buffer cell.
func (r *GravityResolver) Resolve() GravityResult {
	res := r.Settle()
	res.Spawned = r.Refill()
	return res
}

// Settle runs fall passes until one moves nothing or the cap is reached.
func (r *GravityResolver) Settle() GravityResult {
	var res GravityResult
	for res.Passes < r.cap {
		falls := r.pass()
		res.Passes++
		if len(falls) == 0 {
			return res
		}
		res.Falls = append(res.Falls, falls...)
	}
	res.CapHit = true
	r.logger.Warn("gravity did not settle", "passes", res.Passes, "falls", len(res.Falls))
	return res
}

// pass scans every column bottom-up, skipping the floor row.
func (r *GravityResolver) pass() []FallOp {
	grid := r.fx.grid
	var falls []FallOp
	for y := grid.TotalHeight() - 2; y >= 0; y-- {
		for x := 0; x < grid.Width(); x++ {
			from := C(x, y)
			it := grid.Item(from)
			if it == nil || !it.CanFall() {
				continue
			}
			dist := r.fallDistance(from)
			if dist == 0 {
				continue
			}
			to := from.Add(0, dist)
			if grid.MoveItem(from, to) {
				falls = append(falls, FallOp{From: from, To: to, Distance: dist})
			}
		}
	}
	return falls
}

// fallDistance counts the contiguous empty cells directly below c.
func (r *GravityResolver) fallDistance(c Coord) int {
	grid := r.fx.grid
	dist := 0
	for below := c.Add(0, 1); grid.IsEmpty(below); below = below.Add(0, 1) {
		dist++
	}
	return dist
}

// Refill spawns a random cube into every empty buffer cell.
func (r *GravityResolver) Refill() int {
	grid := r.fx.grid
	spawned := 0
	for y := 0; y < grid.BufferRows(); y++ {
		for x := 0; x < grid.Width(); x++ {
			c := C(x, y)
			if !grid.IsEmpty(c) && !grid.Item(c).IsPhantom() {
				continue
			}
			if r.fx.spawn(c, NewCube(RandomColor(r.rng))) {
				spawned++
			}
		}
	}
	return spawned
}
