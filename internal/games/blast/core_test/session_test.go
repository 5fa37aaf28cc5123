package core_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blast-arcade/internal/games/blast/core"
)

var ctx = context.Background()

func TestSessionStart(t *testing.T) {
	level := core.MustLevel(3, 12,
		"r g bo",
		"s v y",
	)
	s, rec := newSession(t, level)

	snap := s.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, 3, snap.Level)
	assert.Equal(t, 12, snap.Moves)
	assert.Equal(t, core.PhaseIdle, snap.Phase)
	assert.Equal(t, core.StatusPlaying, snap.Status)
	assert.Equal(t, s.ID(), snap.SessionID)
	assert.Len(t, snap.Goals, 3)
	assert.Equal(t, core.TypeBox, snap.At(2, 0).Type)
	assert.Equal(t, core.TypeVase, snap.At(1, 1).Type)

	assert.Equal(t, []core.EventKind{
		core.EventGridInitialized,
		core.EventMovesChanged,
		core.EventGoalUpdated,
		core.EventGoalUpdated,
		core.EventGoalUpdated,
		core.EventGridUpdated,
	}, rec.Kinds())
}

func TestSessionStartFillsBuffer(t *testing.T) {
	s, _ := newSession(t, core.MustLevel(1, 5, "r r", "g b"), func(o *core.Options) {
		o.BufferRows = core.DefaultBufferRows
	})
	g := s.Grid()
	assert.Equal(t, 20, g.BufferRows())

	_, err := s.Tap(ctx, 0, 0)
	require.NoError(t, err)
	for y := 0; y < g.BufferRows(); y++ {
		for x := 0; x < g.Width(); x++ {
			assert.True(t, g.Item(core.C(x, y)).IsCube())
		}
	}
	assert.True(t, at(g, 0, 0).IsCube(), "refill drops into view")
}

func TestSessionStartRejectsInvalidLevel(t *testing.T) {
	s := core.NewSession(core.DefaultOptions())
	err := s.Start(core.LevelSpec{Width: 1, Height: 4, Moves: 3})

	var verr core.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "INVALID_SIZE", verr.Code)

	_, err = s.Tap(ctx, 0, 0)
	assert.ErrorIs(t, err, core.ErrNoLevel)
	assert.ErrorIs(t, s.Restart(), core.ErrNoLevel)
}

func TestSixBySixScenario(t *testing.T) {
	level := core.MustLevel(1, 15,
		"g b y g b y",
		"b y g b y g",
		"g b r r b y",
		"b y r r s g",
		"g b y g b y",
		"b y g b y g",
	)
	s, rec := newSession(t, level)
	rec.Reset()

	res, err := s.Tap(ctx, 2, 3)
	require.NoError(t, err)

	assert.Equal(t, core.MoveMatch, res.Kind)
	assert.Len(t, res.Match.Group, 4)
	assert.True(t, res.Match.RocketCreated)
	assert.Equal(t, 14, res.MovesLeft)
	assert.Zero(t, res.Match.Damaged)

	snap := s.Snapshot()
	assert.Equal(t, 14, snap.Moves)
	assert.True(t, snap.At(2, 3).Type.IsRocket(), "rocket at the tapped cell")
	assert.Equal(t, core.TypeStone, snap.At(4, 3).Type, "stone ignores adjacent blasts")
	assert.Equal(t, 1, snap.Remaining(core.ObstacleStone))
	assert.Equal(t, core.PhaseIdle, snap.Phase)
	assert.Equal(t, 1, rec.Count(core.EventRocketCreated))
	assert.Zero(t, rec.Count(core.EventItemDamaged))
}

func TestSessionMoveEventOrder(t *testing.T) {
	s, rec := newSession(t, core.MustLevel(1, 5,
		"r r g",
		"g b y",
	))
	rec.Reset()

	_, err := s.Tap(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []core.EventKind{
		core.EventMovesChanged,
		core.EventMatchFound,
		core.EventItemDestroyed,
		core.EventItemDestroyed,
		core.EventMatchProcessed,
		core.EventGravityStarted,
		core.EventGravityCompleted,
		core.EventGridUpdated,
	}, rec.Kinds())
}

func TestSessionNoopTaps(t *testing.T) {
	s, rec := newSession(t, core.MustLevel(1, 5,
		"r r g",
		"bo . y",
	))
	rec.Reset()

	taps := [][2]int{{2, 0}, {0, 1}, {1, 1}, {-1, 0}, {9, 9}}
	for _, tap := range taps {
		res, err := s.Tap(ctx, tap[0], tap[1])
		require.NoError(t, err)
		assert.False(t, res.Accepted(), "tap %v", tap)
		assert.Equal(t, 5, res.MovesLeft)
	}
	assert.Empty(t, rec.Events())
	assert.Equal(t, 5, s.Snapshot().Moves)
}

func TestSessionHandleInput(t *testing.T) {
	s, _ := newSession(t, core.MustLevel(1, 5,
		"r r hro",
		"g b y",
	))

	res, err := s.HandleInput(ctx, core.CubeTapped{X: 0, Y: 0, Type: core.TypeBlueCube})
	require.NoError(t, err)
	assert.False(t, res.Accepted(), "type mismatch is ignored")

	res, err = s.HandleInput(ctx, core.RocketTapped{X: 0, Y: 0, Type: core.TypeHorizontalRocket})
	require.NoError(t, err)
	assert.False(t, res.Accepted(), "no rocket there")

	res, err = s.HandleInput(ctx, core.CubeTapped{X: 0, Y: 0, Type: core.TypeRedCube})
	require.NoError(t, err)
	assert.Equal(t, core.MoveMatch, res.Kind)
	assert.Equal(t, 4, res.MovesLeft)

	res, err = s.HandleInput(ctx, core.RocketTapped{X: 2, Y: 0})
	require.NoError(t, err)
	assert.Equal(t, core.MoveRocket, res.Kind)
	assert.Equal(t, 3, res.MovesLeft)
}

func TestSessionRocketMove(t *testing.T) {
	s, rec := newSession(t, core.MustLevel(1, 3,
		"g g g",
		"hro b bo",
		"b y b",
	))
	rec.Reset()

	res, err := s.Tap(ctx, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, core.MoveRocket, res.Kind)
	assert.Equal(t, 2, res.MovesLeft)
	assert.Equal(t, 2, res.Rocket.Projectiles)
	assert.Equal(t, 1, rec.Count(core.EventMovesChanged), "one move per activation")
	assert.Equal(t, 1, rec.Count(core.EventRocketExploded))

	// Destroying the only box wins the level.
	assert.Equal(t, core.PhaseWon, res.Phase)
	assert.Equal(t, 1, rec.Count(core.EventLevelWon))
	assert.Zero(t, countPhantoms(s.Grid()))
}

func TestSessionWinTakesPrecedence(t *testing.T) {
	s, rec := newSession(t, core.MustLevel(7, 1,
		"r r bo",
		"g b y",
	))

	res, err := s.Tap(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, core.PhaseWon, res.Phase)
	assert.Equal(t, 0, res.MovesLeft)
	assert.Equal(t, core.StatusWon, s.Status())
	assert.Equal(t, 1, rec.Count(core.EventLevelWon))
	assert.Zero(t, rec.Count(core.EventLevelLost))

	won := rec.Events()[len(rec.Events())-1].(core.LevelWon)
	assert.Equal(t, 7, won.Level)

	_, err = s.Tap(ctx, 1, 1)
	assert.ErrorIs(t, err, core.ErrNotPlaying)
	assert.Equal(t, 1, rec.Count(core.EventLevelWon), "won fires once")

	snap := s.Snapshot()
	assert.True(t, snap.Over())
	assert.Equal(t, 1, snap.Stats.ObstaclesDestroyed)
	assert.Equal(t, 2, snap.Stats.CubesCleared)
}

func TestSessionLoses(t *testing.T) {
	s, rec := newSession(t, core.MustLevel(2, 1,
		"r r g",
		"g b s",
	))

	res, err := s.Tap(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, core.PhaseLost, res.Phase)
	assert.Equal(t, core.StatusLost, s.Status())
	assert.Equal(t, 1, rec.Count(core.EventLevelLost))
	assert.Zero(t, rec.Count(core.EventLevelWon))
}

func TestSessionPause(t *testing.T) {
	s, _ := newSession(t, core.MustLevel(1, 5, "r r", "g b"))

	require.True(t, s.Pause())
	assert.Equal(t, core.StatusPaused, s.Snapshot().Status)
	assert.False(t, s.CanProcessInput())
	_, err := s.Tap(ctx, 0, 0)
	assert.ErrorIs(t, err, core.ErrNotPlaying)

	require.True(t, s.Resume())
	assert.True(t, s.CanProcessInput())
	res, err := s.Tap(ctx, 0, 0)
	require.NoError(t, err)
	assert.True(t, res.Accepted())
}

func TestCanProcessInput(t *testing.T) {
	assert.True(t, core.CanProcessInput(core.StatusPlaying, false, false))
	assert.False(t, core.CanProcessInput(core.StatusPlaying, true, false))
	assert.False(t, core.CanProcessInput(core.StatusPlaying, false, true))
	assert.False(t, core.CanProcessInput(core.StatusPaused, false, false))
	assert.False(t, core.CanProcessInput(core.StatusWon, false, false))
}

// blockingPacer signals on started at the first wave and then waits for release
// or cancellation.
func blockingPacer(started chan<- struct{}, release <-chan struct{}) core.Pacer {
	var once sync.Once
	return func(ctx context.Context, _ int) error {
		once.Do(func() { close(started) })
		select {
		case <-release:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func rocketLevel() core.LevelSpec {
	return core.MustLevel(1, 4,
		"g b y",
		"hro y g",
		"b g s",
	)
}

func TestSessionSingleFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	s, _ := newSession(t, rocketLevel(), func(o *core.Options) {
		o.Pacer = blockingPacer(started, release)
	})

	done := make(chan error, 1)
	go func() {
		_, err := s.Tap(ctx, 0, 1)
		done <- err
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("rocket move did not start")
	}

	assert.True(t, s.Busy())
	assert.False(t, s.CanProcessInput())
	assert.Equal(t, core.PhaseResolving, s.Snapshot().Phase)
	_, err := s.Tap(ctx, 1, 0)
	assert.ErrorIs(t, err, core.ErrMoveInProgress)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, s.Busy())
	assert.Equal(t, 3, s.Snapshot().Moves)
}

func TestSessionRestartCancelsMove(t *testing.T) {
	started := make(chan struct{})
	s, rec := newSession(t, rocketLevel(), func(o *core.Options) {
		o.Pacer = blockingPacer(started, nil)
	})

	done := make(chan error, 1)
	go func() {
		_, err := s.Tap(ctx, 0, 1)
		done <- err
	}()
	<-started

	require.NoError(t, s.Restart())
	err := <-done
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))

	snap := s.Snapshot()
	assert.Equal(t, 4, snap.Moves)
	assert.Equal(t, core.PhaseIdle, snap.Phase)
	assert.Equal(t, core.TypeHorizontalRocket, snap.At(0, 1).Type)
	assert.Zero(t, countPhantoms(s.Grid()))
	assert.Equal(t, 2, rec.Count(core.EventGridInitialized))
}

func TestSessionPacerErrorSettlesLastMove(t *testing.T) {
	stop := errors.New("stop")
	level := rocketLevel()
	level.Moves = 1
	s, rec := newSession(t, level, func(o *core.Options) {
		o.Pacer = func(context.Context, int) error { return stop }
	})
	rec.Reset()

	res, err := s.Tap(ctx, 0, 1)
	require.ErrorIs(t, err, stop)
	assert.Equal(t, core.MoveRocket, res.Kind)
	assert.Equal(t, core.PhaseLost, res.Phase)
	assert.Equal(t, 0, res.MovesLeft)
	assert.Equal(t, core.StatusLost, s.Status())
	assert.Equal(t, 1, rec.Count(core.EventLevelLost))
	assert.Equal(t, 1, rec.Count(core.EventGravityCompleted))
	assert.Zero(t, countPhantoms(s.Grid()))

	_, err = s.Tap(ctx, 1, 0)
	assert.ErrorIs(t, err, core.ErrNotPlaying, "no free move after the last one")
	assert.Equal(t, 1, s.Snapshot().Stats.MovesUsed)
}

func TestSessionCallerCancelSettlesMove(t *testing.T) {
	started := make(chan struct{})
	s, rec := newSession(t, rocketLevel(), func(o *core.Options) {
		o.Pacer = blockingPacer(started, nil)
	})
	rec.Reset()

	moveCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan error, 1)
	go func() {
		_, err := s.Tap(moveCtx, 0, 1)
		done <- err
	}()
	<-started
	cancel()

	require.ErrorIs(t, <-done, context.Canceled)
	snap := s.Snapshot()
	assert.Equal(t, 3, snap.Moves)
	assert.Equal(t, core.PhaseIdle, snap.Phase)
	assert.Equal(t, core.StatusPlaying, snap.Status)
	assert.Equal(t, 1, rec.Count(core.EventGravityCompleted))
	assert.Zero(t, countPhantoms(s.Grid()))
}

func TestSessionSnapshotFollowsPause(t *testing.T) {
	level := core.MustLevel(1, 500,
		"r r g g",
		"r r g g",
		"b b y s",
		"b b y y",
	)
	s, _ := newSession(t, level, func(o *core.Options) {
		o.BufferRows = core.DefaultBufferRows
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range 200 {
			s.Pause()
			s.Resume()
		}
		s.Pause()
	}()
	for range 200 {
		x, y, ok := core.ChooseTap(s.Snapshot(), core.DefaultMatchRules())
		if !ok {
			break
		}
		s.Tap(ctx, x, y) //nolint:errcheck // paused taps are expected to fail
	}
	wg.Wait()

	assert.Equal(t, s.Status(), s.Snapshot().Status)
}
