package core

import "errors"

var (
	// ErrMoveInProgress is returned when a tap arrives while a move is resolving.
	ErrMoveInProgress = errors.New("blast: move in progress")
	// ErrNotPlaying is returned when input arrives while the session is paused or over.
	ErrNotPlaying = errors.New("blast: session is not playing")
	// ErrNoLevel is returned when a session has not been started.
	ErrNoLevel = errors.New("blast: no level loaded")
	// ErrNotRocket is returned when a rocket activation targets a cell without a rocket.
	ErrNotRocket = errors.New("blast: no rocket at cell")
	// ErrLevelReloaded is returned for a tap issued before a Start or Restart
	// that reached the session after it.
	ErrLevelReloaded = errors.New("blast: level reloaded before the move started")
)
