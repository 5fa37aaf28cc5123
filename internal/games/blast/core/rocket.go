package core

import (
	"context"

	"github.com/kamstrup/intmap"
)

// Pacer is called after every projectile wave.
// Presentation uses it to wait between frames; a non-nil error aborts the activation.
type Pacer func(ctx context.Context, wave int) error

// RocketResult summarises one rocket activation.
type RocketResult struct {
	Origin      Coord
	Combo       bool
	Exploded    int // detonations, chain reactions included
	Projectiles int
	Waves       int
	Phantoms    int
}

// RocketResolver activates rockets and runs their projectiles to completion.
type RocketResolver struct {
	fx    *effects
	pacer Pacer
}

// NewRocketResolver creates a resolver operating on g and publishing to bus.
// pacer may be nil.
func NewRocketResolver(g *Grid, bus *Bus, pacer Pacer) *RocketResolver {
	return newRocketResolver(newEffects(g, bus, nil), pacer)
}

func newRocketResolver(fx *effects, pacer Pacer) *RocketResolver {
	return &RocketResolver{fx: fx, pacer: pacer}
}

// AdjacentRockets returns the rockets orthogonally next to c on visible rows.
func AdjacentRockets(g *Grid, c Coord) []Coord {
	var out []Coord
	for _, n := range g.AdjacentCells(c) {
		if g.Item(n).IsRocket() {
			out = append(out, n)
		}
	}
	return out
}

// Activate detonates the rocket at c.
// A rocket with no rocket neighbour fires two projectiles along its axis; otherwise
// the combo clears the 3x3 area around c and fires twelve projectiles.
// Returns ErrNotRocket when c holds no visible rocket. On cancellation the grid is
// left as is, minus phantoms, and ctx.Err() is returned.
func (r *RocketResolver) Activate(ctx context.Context, c Coord) (RocketResult, error) {
	grid := r.fx.grid
	rocket := grid.Item(c)
	if !grid.InVisible(c) || !rocket.IsRocket() {
		return RocketResult{}, ErrNotRocket
	}

	run := &rocketRun{
		fx:        r.fx,
		detonated: intmap.New[uint64, struct{}](8),
		visited:   intmap.New[int, struct{}](32),
		res:       RocketResult{Origin: c},
	}

	neighbours := AdjacentRockets(grid, c)
	if len(neighbours) == 0 {
		run.detonate(c, rocket, false, true)
	} else {
		run.combo(c, rocket, neighbours)
	}

	err := run.fly(ctx, r.pacer)
	return run.res, err
}

type projectile struct {
	pos Coord
	dir Dir
}

// rocketRun is the state of one activation: a breadth-first queue of projectiles
// advanced one wave at a time, and an in-flight count that gates completion.
type rocketRun struct {
	fx        *effects
	queue     []projectile
	inFlight  int
	detonated *intmap.Map[uint64, struct{}]
	visited   *intmap.Map[int, struct{}]
	phantoms  []Coord
	res       RocketResult
}

// detonate destroys a rocket once. With launch set it fires along the rocket's axis.
func (run *rocketRun) detonate(c Coord, rocket *Item, combo, launch bool) bool {
	if _, done := run.detonated.Get(rocket.ID()); done {
		return false
	}
	run.detonated.Put(rocket.ID(), struct{}{})

	x, y := run.fx.grid.ToVisible(c)
	run.fx.bus.Publish(RocketExploded{X: x, Y: y, Type: rocket.Type(), IsCombo: combo})
	run.fx.destroy(c)
	run.fx.stats.RocketsExploded++
	run.res.Exploded++

	if launch {
		for _, d := range rocket.Orientation().Dirs() {
			run.launch(c, d)
		}
	}
	return true
}

func (run *rocketRun) combo(c Coord, trigger *Item, neighbours []Coord) {
	grid := run.fx.grid
	run.res.Combo = true
	run.fx.stats.Combos++

	run.detonate(c, trigger, true, false)
	for _, n := range neighbours {
		run.detonate(n, grid.Item(n), true, false)
	}

	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if a := c.Add(dx, dy); grid.InVisible(a) {
				run.hit(a)
			}
		}
	}

	for _, d := range CardinalDirs {
		for offset := -1; offset <= 1; offset++ {
			if start := perpendicularOffset(c, d, offset); grid.InVisible(start) {
				run.launch(start, d)
			}
		}
	}
}

func (run *rocketRun) launch(from Coord, d Dir) {
	run.queue = append(run.queue, projectile{pos: from, dir: d})
	run.inFlight++
	run.res.Projectiles++
	run.fx.stats.ProjectilesLaunched++
}

// hit applies one rocket hit to whatever occupies c.
func (run *rocketRun) hit(c Coord) {
	it := run.fx.grid.Item(c)
	switch {
	case it.IsCube():
		run.fx.destroy(c)
	case it.IsObstacle():
		run.fx.damage(it, SourceRocket)
	case it.IsRocket():
		run.detonate(c, it, false, true)
	}
}

func (run *rocketRun) fly(ctx context.Context, pacer Pacer) error {
	defer run.clearPhantoms()

	grid := run.fx.grid
	for run.inFlight > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		wave := run.queue
		run.queue = nil
		for _, p := range wave {
			next := p.pos.Step(p.dir)
			if !grid.InVisible(next) {
				run.inFlight--
				continue
			}
			run.hit(next)
			run.markPassed(next)
			run.queue = append(run.queue, projectile{pos: next, dir: p.dir})
		}
		run.res.Waves++

		if pacer != nil {
			if err := pacer(ctx, run.res.Waves); err != nil {
				return err
			}
		}
	}
	return nil
}

// markPassed leaves a phantom in an empty cell a projectile has crossed.
func (run *rocketRun) markPassed(c Coord) {
	grid := run.fx.grid
	idx := grid.CellIndex(c)
	if _, seen := run.visited.Get(idx); seen || !grid.IsEmpty(c) {
		return
	}
	run.visited.Put(idx, struct{}{})
	if grid.SetItem(c, newPhantom()) {
		run.phantoms = append(run.phantoms, c)
		run.res.Phantoms++
	}
}

func (run *rocketRun) clearPhantoms() {
	grid := run.fx.grid
	for _, c := range run.phantoms {
		if grid.Item(c).IsPhantom() {
			grid.RemoveItem(c)
		}
	}
	run.phantoms = nil
}
