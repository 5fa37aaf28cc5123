package core

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Phase is the move orchestrator state.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseResolving
	PhaseCascading
	PhaseWon
	PhaseLost
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseResolving:
		return "resolving"
	case PhaseCascading:
		return "cascading"
	case PhaseWon:
		return "won"
	case PhaseLost:
		return "lost"
	}
	return "unknown"
}

// Status is the game state seen by the UI.
type Status uint32

const (
	StatusPlaying Status = iota
	StatusPaused
	StatusWon
	StatusLost
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	case StatusWon:
		return "won"
	case StatusLost:
		return "lost"
	}
	return "unknown"
}

// CanProcessInput reports whether a tap may start a move.
func CanProcessInput(status Status, processing, inputLocked bool) bool {
	return status == StatusPlaying && !processing && !inputLocked
}

// Options configures a Session.
type Options struct {
	BufferRows      int
	MinMatch        int
	RocketThreshold int
	GravityCap      int
	Hints           bool
	Seed            int64 // 0 picks a time-based seed
	Scoring         ScoreWeights
	Logger          *log.Logger
	Pacer           Pacer
}

// DefaultOptions returns the stock rules.
func DefaultOptions() Options {
	rules := DefaultMatchRules()
	return Options{
		BufferRows:      DefaultBufferRows,
		MinMatch:        rules.MinMatch,
		RocketThreshold: rules.RocketThreshold,
		GravityCap:      DefaultGravityCap,
		Hints:           true,
		Scoring:         DefaultScoreWeights(),
	}
}

// Input is a tap delivered by an input collaborator.
type Input interface {
	cell() (x, y int)
	accepts(it *Item) bool
}

// CubeTapped asks to resolve the match containing the cube at visible (X, Y).
// Type must match the cube there; TypeEmpty matches any cube.
type CubeTapped struct {
	X, Y int
	Type ItemType
}

func (in CubeTapped) cell() (int, int) { return in.X, in.Y }
func (in CubeTapped) accepts(it *Item) bool {
	return it.IsCube() && (in.Type == TypeEmpty || in.Type == it.Type())
}

// RocketTapped asks to activate the rocket at visible (X, Y).
// Type must match the rocket there; TypeEmpty matches any rocket.
type RocketTapped struct {
	X, Y int
	Type ItemType
}

func (in RocketTapped) cell() (int, int) { return in.X, in.Y }
func (in RocketTapped) accepts(it *Item) bool {
	return it.IsRocket() && (in.Type == TypeEmpty || in.Type == it.Type())
}

// MoveKind classifies a tap.
type MoveKind uint8

const (
	MoveNone MoveKind = iota
	MoveMatch
	MoveRocket
)

// String returns the move kind name.
func (k MoveKind) String() string {
	switch k {
	case MoveMatch:
		return "match"
	case MoveRocket:
		return "rocket"
	}
	return "none"
}

// MoveResult describes what one tap did.
type MoveResult struct {
	Kind      MoveKind
	Match     MatchResult
	Rocket    RocketResult
	Gravity   GravityResult
	Phase     Phase
	MovesLeft int
}

// Accepted reports whether the tap consumed a move.
func (r MoveResult) Accepted() bool {
	return r.Kind != MoveNone
}

// Session owns one level in play: the grid, goals, resolvers and event bus.
// Moves are single-flight; Snapshot may be read from any goroutine.
// Event handlers run on the moving goroutine and must not call Start or Restart.
type Session struct {
	id     string
	opts   Options
	bus    *Bus
	logger *log.Logger
	rng    *rand.Rand

	busy     atomic.Bool
	gen      atomic.Uint64 // bumped by Start and Restart
	status   atomic.Uint32
	snap     atomic.Pointer[Snapshot]
	cancelMu sync.Mutex
	cancel   context.CancelFunc

	mu      sync.Mutex
	level   LevelSpec
	loaded  bool
	grid    *Grid
	stats   Stats
	moves   int
	phase   Phase
	tracker *GoalTracker
	matcher *MatchResolver
	rockets *RocketResolver
	gravity *GravityResolver
}

// NewSession creates a session. Call Start to load a level.
func NewSession(opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.BufferRows < 0 {
		opts.BufferRows = 0
	}
	rules := DefaultMatchRules()
	if opts.MinMatch <= 0 {
		opts.MinMatch = rules.MinMatch
	}
	if opts.RocketThreshold <= 0 {
		opts.RocketThreshold = rules.RocketThreshold
	}
	if opts.Scoring == (ScoreWeights{}) {
		opts.Scoring = DefaultScoreWeights()
	}
	id := uuid.Must(uuid.NewV7()).String()
	return &Session{
		id:     id,
		opts:   opts,
		bus:    NewBus(),
		logger: opts.Logger.With("session", id[len(id)-8:]),
		rng:    rand.New(rand.NewSource(opts.Seed)),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Bus returns the event bus.
func (s *Session) Bus() *Bus { return s.bus }

// Options returns the options the session was created with.
func (s *Session) Options() Options { return s.opts }

// Status returns the game state.
func (s *Session) Status() Status { return Status(s.status.Load()) }

// Busy reports whether a move is resolving.
func (s *Session) Busy() bool { return s.busy.Load() }

// Snapshot returns the latest published state, or nil before Start.
func (s *Session) Snapshot() *Snapshot { return s.snap.Load() }

// Grid exposes the live grid for inspection.
// It must not be touched while a move is in flight.
func (s *Session) Grid() *Grid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid
}

// Level returns the level descriptor in play.
func (s *Session) Level() LevelSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

// Start builds the grid for level and resets moves, goals and stats.
func (s *Session) Start(level LevelSpec) error {
	s.gen.Add(1)
	s.abortMove()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startLocked(level)
}

// Restart cancels any move in flight, clears phantoms and reloads the current level.
func (s *Session) Restart() error {
	s.gen.Add(1)
	s.abortMove()
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNoLevel
	}
	s.grid.ClearPhantoms()
	return s.startLocked(s.level)
}

// Pause stops input until Resume. It has no effect once the level is over.
func (s *Session) Pause() bool {
	ok := s.status.CompareAndSwap(uint32(StatusPlaying), uint32(StatusPaused))
	if ok {
		s.refreshStatus()
	}
	return ok
}

// Resume re-enables input after Pause.
func (s *Session) Resume() bool {
	ok := s.status.CompareAndSwap(uint32(StatusPaused), uint32(StatusPlaying))
	if ok {
		s.refreshStatus()
	}
	return ok
}

// CanProcessInput reports whether a tap would currently be accepted.
func (s *Session) CanProcessInput() bool {
	snap := s.Snapshot()
	locked := snap == nil || snap.Phase != PhaseIdle
	return CanProcessInput(s.Status(), s.busy.Load(), locked)
}

// Tap resolves a tap at visible (x, y): a rocket activates, a cube resolves its group.
// Taps that cannot start a move return a MoveNone result and no error.
func (s *Session) Tap(ctx context.Context, x, y int) (MoveResult, error) {
	return s.play(ctx, x, y, nil)
}

// HandleInput resolves a CubeTapped or RocketTapped input.
// An input whose type does not match the cell is ignored.
func (s *Session) HandleInput(ctx context.Context, in Input) (MoveResult, error) {
	x, y := in.cell()
	return s.play(ctx, x, y, in.accepts)
}

func (s *Session) play(ctx context.Context, x, y int, accepts func(*Item) bool) (MoveResult, error) {
	gen := s.gen.Load()
	if !s.busy.CompareAndSwap(false, true) {
		return MoveResult{}, ErrMoveInProgress
	}
	defer s.busy.Store(false)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return MoveResult{}, ErrNoLevel
	}
	if s.gen.Load() != gen {
		return MoveResult{Phase: s.phase, MovesLeft: s.moves}, ErrLevelReloaded
	}
	if s.Status() != StatusPlaying || s.phase != PhaseIdle {
		return MoveResult{Phase: s.phase, MovesLeft: s.moves}, ErrNotPlaying
	}

	c := s.grid.ToExtended(x, y)
	it := s.grid.Item(c)
	none := MoveResult{Phase: s.phase, MovesLeft: s.moves}
	if !s.grid.InVisible(c) || (accepts != nil && !accepts(it)) {
		return none, nil
	}

	switch {
	case it.IsRocket():
		return s.playRocket(ctx, c, gen)
	case it.IsCube():
		if !s.matcher.Rules().IsValidMatch(len(FindMatchingGroup(s.grid, c))) {
			return none, nil
		}
		return s.playMatch(c)
	}
	return none, nil
}

func (s *Session) playMatch(c Coord) (MoveResult, error) {
	res := MoveResult{Kind: MoveMatch}
	s.useMove()
	s.setPhase(PhaseResolving)

	res.Match, _ = s.matcher.Resolve(c)
	x, y := s.grid.ToVisible(c)
	s.logger.Debug("match", "x", x, "y", y, "size", len(res.Match.Group), "rocket", res.Match.RocketCreated)

	res.Gravity = s.cascade()
	res.Phase = s.evaluate()
	res.MovesLeft = s.moves
	return res, nil
}

func (s *Session) playRocket(ctx context.Context, c Coord, gen uint64) (MoveResult, error) {
	res := MoveResult{Kind: MoveRocket}
	s.useMove()
	s.setPhase(PhaseResolving)

	moveCtx, cancel := context.WithCancel(ctx)
	s.cancelMu.Lock()
	s.cancel = cancel
	s.cancelMu.Unlock()
	defer func() {
		s.cancelMu.Lock()
		s.cancel = nil
		s.cancelMu.Unlock()
		cancel()
	}()

	var err error
	res.Rocket, err = s.rockets.Activate(moveCtx, c)
	x, y := s.grid.ToVisible(c)
	s.logger.Debug("rocket", "x", x, "y", y, "combo", res.Rocket.Combo,
		"exploded", res.Rocket.Exploded, "projectiles", res.Rocket.Projectiles, "waves", res.Rocket.Waves)
	if err != nil {
		s.logger.Debug("rocket aborted", "err", err)
		err = fmt.Errorf("blast: rocket at %d,%d: %w", x, y, err)
		if s.gen.Load() != gen {
			// Start or Restart is waiting to rebuild the grid.
			s.setPhase(PhaseIdle)
			res.Phase = s.phase
			res.MovesLeft = s.moves
			return res, err
		}
		// The move was spent; settle the board and end the level if due.
		res.Gravity = s.cascade()
		res.Phase = s.evaluate()
		res.MovesLeft = s.moves
		return res, err
	}

	res.Gravity = s.cascade()
	res.Phase = s.evaluate()
	res.MovesLeft = s.moves
	return res, nil
}

func (s *Session) useMove() {
	s.moves = max(s.moves-1, 0)
	s.stats.MovesUsed++
	s.bus.Publish(MovesChanged{Remaining: s.moves})
}

func (s *Session) cascade() GravityResult {
	s.setPhase(PhaseCascading)
	s.bus.Publish(GravityStarted{})
	res := s.gravity.Resolve()
	s.bus.Publish(GravityCompleted{Falls: len(res.Falls), Spawned: res.Spawned, Passes: res.Passes})
	s.bus.Publish(GridUpdated{})
	return res
}

// evaluate checks the win condition before the loss condition.
func (s *Session) evaluate() Phase {
	switch {
	case s.tracker.AllGoalsCleared():
		s.status.Store(uint32(StatusWon))
		s.setPhase(PhaseWon)
		s.logger.Info("level won", "level", s.level.Number, "moves_left", s.moves)
		s.bus.Publish(LevelWon{Level: s.level.Number})
	case s.moves <= 0:
		s.status.Store(uint32(StatusLost))
		s.setPhase(PhaseLost)
		s.logger.Info("level lost", "level", s.level.Number)
		s.bus.Publish(LevelLost{Level: s.level.Number})
	default:
		s.setPhase(PhaseIdle)
	}
	return s.phase
}

func (s *Session) startLocked(level LevelSpec) error {
	if err := level.Validate(); err != nil {
		return fmt.Errorf("blast: start level %d: %w", level.Number, err)
	}
	if s.tracker != nil {
		s.tracker.Detach()
	}

	grid := NewGrid(level.Width, level.Height, s.opts.BufferRows)
	for y := 0; y < level.Height; y++ {
		for x := 0; x < level.Width; x++ {
			t := ParseToken(level.TokenAt(x, y))
			if it := NewItem(t, s.rng); it != nil {
				grid.SetItem(grid.ToExtended(x, y), it)
			}
		}
	}
	for y := 0; y < grid.BufferRows(); y++ {
		for x := 0; x < grid.Width(); x++ {
			grid.SetItem(C(x, y), NewCube(RandomColor(s.rng)))
		}
	}

	s.level = level
	s.loaded = true
	s.grid = grid
	s.stats = Stats{}
	s.moves = level.Moves
	s.phase = PhaseIdle
	s.status.Store(uint32(StatusPlaying))

	fx := newEffects(grid, s.bus, &s.stats)
	s.matcher = newMatchResolver(fx, s.rng, MatchRules{MinMatch: s.opts.MinMatch, RocketThreshold: s.opts.RocketThreshold})
	s.rockets = newRocketResolver(fx, s.paceWave)
	s.gravity = newGravityResolver(fx, s.rng, s.opts.GravityCap, s.logger)
	s.tracker = NewGoalTracker(s.bus, Census(grid))
	s.tracker.OnCleared(func() {
		s.logger.Debug("goals cleared", "level", level.Number)
	})

	s.logger.Debug("level started", "level", level.Number, "size", fmt.Sprintf("%dx%d", level.Width, level.Height),
		"moves", level.Moves, "goals", len(s.tracker.Goals()))

	s.bus.Publish(GridInitialized{Width: level.Width, Height: level.Height})
	s.bus.Publish(MovesChanged{Remaining: s.moves})
	for _, g := range s.tracker.Goals() {
		s.bus.Publish(GoalUpdated{Type: g.Type(), Remaining: g.Remaining})
	}
	s.bus.Publish(GridUpdated{})
	s.publishSnapshot()
	return nil
}

// paceWave publishes a snapshot between projectile waves before handing off to
// the configured pacer.
func (s *Session) paceWave(ctx context.Context, wave int) error {
	s.publishSnapshot()
	if s.opts.Pacer != nil {
		return s.opts.Pacer(ctx, wave)
	}
	return nil
}

func (s *Session) abortMove() {
	s.cancelMu.Lock()
	defer s.cancelMu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Session) setPhase(p Phase) {
	s.phase = p
	s.publishSnapshot()
}

// refreshStatus republishes the last snapshot with the current status.
func (s *Session) refreshStatus() {
	for {
		old := s.snap.Load()
		if old == nil {
			return
		}
		next := *old
		next.Status = s.Status()
		if s.snap.CompareAndSwap(old, &next) {
			return
		}
	}
}

func (s *Session) publishSnapshot() {
	threshold := 0
	if s.opts.Hints {
		threshold = s.matcher.Rules().RocketThreshold
	}
	status := s.Status()
	snap := &Snapshot{
		SessionID: s.id,
		Level:     s.level.Number,
		LevelName: s.level.Name,
		Width:     s.grid.Width(),
		Height:    s.grid.Height(),
		Cells:     viewCells(s.grid, threshold),
		Moves:     s.moves,
		Phase:     s.phase,
		Status:    status,
		Goals:     s.tracker.Goals(),
		Stats:     s.stats,
		Score:     s.stats.Score(s.opts.Scoring, s.moves, status == StatusWon),
	}
	s.snap.Store(snap)
	// A Pause or Resume may have landed while the snapshot was built.
	if s.Status() != status {
		s.refreshStatus()
	}
}
