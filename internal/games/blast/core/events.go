package core

import "fmt"

// EventKind tags an engine event.
type EventKind uint8

const (
	EventGridInitialized EventKind = iota
	EventGridUpdated
	EventItemSpawned
	EventItemDestroyed
	EventItemDamaged
	EventMatchFound
	EventMatchProcessed
	EventRocketCreated
	EventRocketExploded
	EventObstacleDestroyed
	EventGoalUpdated
	EventMovesChanged
	EventGravityStarted
	EventGravityCompleted
	EventLevelWon
	EventLevelLost

	eventKindCount
)

var eventKindNames = [eventKindCount]string{
	EventGridInitialized:   "GridInitialized",
	EventGridUpdated:       "GridUpdated",
	EventItemSpawned:       "ItemSpawned",
	EventItemDestroyed:     "ItemDestroyed",
	EventItemDamaged:       "ItemDamaged",
	EventMatchFound:        "MatchFound",
	EventMatchProcessed:    "MatchProcessed",
	EventRocketCreated:     "RocketCreated",
	EventRocketExploded:    "RocketExploded",
	EventObstacleDestroyed: "ObstacleDestroyed",
	EventGoalUpdated:       "GoalUpdated",
	EventMovesChanged:      "MovesChanged",
	EventGravityStarted:    "GravityStarted",
	EventGravityCompleted:  "GravityCompleted",
	EventLevelWon:          "LevelWon",
	EventLevelLost:         "LevelLost",
}

// String returns the event name.
func (k EventKind) String() string {
	if k < eventKindCount {
		return eventKindNames[k]
	}
	return fmt.Sprintf("EventKind(%d)", k)
}

// Event is implemented by every payload the engine publishes.
// Coordinates in payloads are visible coordinates; buffer rows are negative.
type Event interface {
	Kind() EventKind
}

// GridInitialized is published when a level's grid has been built.
type GridInitialized struct {
	Width  int
	Height int
}

// GridUpdated is published after the grid settles at the end of a move.
type GridUpdated struct{}

// ItemSpawned is published when an item is created on the grid.
type ItemSpawned struct {
	X, Y int
	Type ItemType
}

// ItemDestroyed is published when an item leaves the grid for good.
type ItemDestroyed struct {
	X, Y int
	Type ItemType
}

// ItemDamaged is published when an obstacle loses hit points.
type ItemDamaged struct {
	X, Y      int
	Type      ItemType
	Amount    int
	Remaining int
}

// MatchFound is published when a tapped group qualifies as a match.
type MatchFound struct {
	Count int
	Type  ItemType
}

// MatchProcessed is published after a match has been cleared.
type MatchProcessed struct {
	Count         int
	RocketCreated bool
}

// RocketCreated is published when a match spawns a rocket.
type RocketCreated struct {
	X, Y int
	Type ItemType
}

// RocketExploded is published for every rocket detonation, including chain reactions.
type RocketExploded struct {
	X, Y    int
	Type    ItemType
	IsCombo bool
}

// ObstacleDestroyed is published when an obstacle reaches zero hit points.
type ObstacleDestroyed struct {
	Type ItemType
}

// GoalUpdated carries the remaining count for one obstacle goal.
type GoalUpdated struct {
	Type      ItemType
	Remaining int
}

// MovesChanged carries the moves left after a change.
type MovesChanged struct {
	Remaining int
}

// GravityStarted is published before gravity resolution.
type GravityStarted struct{}

// GravityCompleted is published once the grid is stable and refilled.
type GravityCompleted struct {
	Falls   int
	Spawned int
	Passes  int
}

// LevelWon is published once when every goal is cleared.
type LevelWon struct {
	Level int
}

// LevelLost is published when moves run out before the goals are met.
type LevelLost struct {
	Level int
}

func (GridInitialized) Kind() EventKind   { return EventGridInitialized }
func (GridUpdated) Kind() EventKind       { return EventGridUpdated }
func (ItemSpawned) Kind() EventKind       { return EventItemSpawned }
func (ItemDestroyed) Kind() EventKind     { return EventItemDestroyed }
func (ItemDamaged) Kind() EventKind       { return EventItemDamaged }
func (MatchFound) Kind() EventKind        { return EventMatchFound }
func (MatchProcessed) Kind() EventKind    { return EventMatchProcessed }
func (RocketCreated) Kind() EventKind     { return EventRocketCreated }
func (RocketExploded) Kind() EventKind    { return EventRocketExploded }
func (ObstacleDestroyed) Kind() EventKind { return EventObstacleDestroyed }
func (GoalUpdated) Kind() EventKind       { return EventGoalUpdated }
func (MovesChanged) Kind() EventKind      { return EventMovesChanged }
func (GravityStarted) Kind() EventKind    { return EventGravityStarted }
func (GravityCompleted) Kind() EventKind  { return EventGravityCompleted }
func (LevelWon) Kind() EventKind          { return EventLevelWon }
func (LevelLost) Kind() EventKind         { return EventLevelLost }
