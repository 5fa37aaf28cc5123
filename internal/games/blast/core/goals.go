package core

import "sync"

// Goal is the destruction target for one obstacle kind.
type Goal struct {
	Kind      ObstacleKind
	Required  int
	Remaining int
}

// Type returns the item type the goal counts.
func (g Goal) Type() ItemType {
	return g.Kind.ItemType()
}

// Done reports whether the goal has been met.
func (g Goal) Done() bool {
	return g.Remaining == 0
}

// Census counts obstacles on the visible rows by kind.
func Census(g *Grid) map[ObstacleKind]int {
	out := make(map[ObstacleKind]int)
	g.EachVisible(func(_ Coord, it *Item) bool {
		if it.IsObstacle() {
			out[it.Obstacle()]++
		}
		return true
	})
	return out
}

// GoalTracker counts down obstacle goals as ObstacleDestroyed events arrive.
type GoalTracker struct {
	mu        sync.Mutex
	bus       *Bus
	goals     map[ObstacleKind]*Goal
	fired     bool
	onCleared func()
	unsub     func()
}

// NewGoalTracker creates a tracker from an obstacle census and subscribes it to bus.
// Kinds with a zero count are not tracked.
func NewGoalTracker(bus *Bus, census map[ObstacleKind]int) *GoalTracker {
	t := &GoalTracker{
		bus:   bus,
		goals: make(map[ObstacleKind]*Goal, len(census)),
	}
	for kind, n := range census {
		if n > 0 {
			t.goals[kind] = &Goal{Kind: kind, Required: n, Remaining: n}
		}
	}
	t.unsub = On(bus, t.handle)
	return t
}

// OnCleared registers fn to run once, the first time every goal reaches zero.
func (t *GoalTracker) OnCleared(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onCleared = fn
}

// Detach unsubscribes the tracker from the bus.
func (t *GoalTracker) Detach() {
	if t.unsub != nil {
		t.unsub()
		t.unsub = nil
	}
}

// Goals returns the tracked goals in display order.
func (t *GoalTracker) Goals() []Goal {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Goal, 0, len(t.goals))
	for _, kind := range ObstacleKinds {
		if g, ok := t.goals[kind]; ok {
			out = append(out, *g)
		}
	}
	return out
}

// Remaining returns how many obstacles of kind are still required.
func (t *GoalTracker) Remaining(kind ObstacleKind) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if g, ok := t.goals[kind]; ok {
		return g.Remaining
	}
	return 0
}

// AllGoalsCleared reports whether at least one goal exists and all are met.
func (t *GoalTracker) AllGoalsCleared() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.allClearedLocked()
}

func (t *GoalTracker) allClearedLocked() bool {
	if len(t.goals) == 0 {
		return false
	}
	for _, g := range t.goals {
		if g.Remaining > 0 {
			return false
		}
	}
	return true
}

func (t *GoalTracker) handle(e ObstacleDestroyed) {
	kind, ok := ObstacleKindOf(e.Type)
	if !ok {
		return
	}

	t.mu.Lock()
	g, tracked := t.goals[kind]
	if !tracked {
		t.mu.Unlock()
		return
	}
	g.Remaining = max(g.Remaining-1, 0)
	remaining := g.Remaining

	var hook func()
	if !t.fired && t.allClearedLocked() {
		t.fired = true
		hook = t.onCleared
	}
	t.mu.Unlock()

	t.bus.Publish(GoalUpdated{Type: e.Type, Remaining: remaining})
	if hook != nil {
		hook()
	}
}
