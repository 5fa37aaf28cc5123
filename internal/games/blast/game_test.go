package blast_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blast-arcade/internal/config"
	platformcore "github.com/vovakirdan/blast-arcade/internal/core"
	"github.com/vovakirdan/blast-arcade/internal/games/blast"
	"github.com/vovakirdan/blast-arcade/internal/games/blast/core"
	"github.com/vovakirdan/blast-arcade/internal/games/blast/levels"
	"github.com/vovakirdan/blast-arcade/internal/registry"
)

var (
	_ registry.Game    = (*blast.Game)(nil)
	_ registry.Closer  = (*blast.Game)(nil)
	_ registry.Resizer = (*blast.Game)(nil)
)

func frame(actions ...platformcore.Action) platformcore.InputFrame {
	f := platformcore.NewInputFrame()
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

func instantConfig() config.BlastConfig {
	cfg := config.DefaultBlastConfig()
	cfg.Animation.WaveDelayMs = 0
	return cfg
}

func newGame(t *testing.T, cfg config.BlastConfig, lvls ...levels.Level) (*blast.Game, *blast.MemoryProgress) {
	t.Helper()
	store := blast.NewMemoryProgress()
	g := blast.New(blast.Options{
		Config:   cfg,
		Campaign: blast.NewCampaign(levels.NewManager(lvls), store, nil),
	})
	g.Reset(platformcore.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 7})
	t.Cleanup(g.Close)
	return g, store
}

func render(g *blast.Game) string {
	scr := platformcore.NewScreen(80, 24)
	g.Render(scr)
	return scr.String()
}

func TestGameStartsCampaignLevel(t *testing.T) {
	g, _ := newGame(t, instantConfig(),
		testLevel(1, 5, "r r bo", "g b y"),
		testLevel(2, 6, "g g s", "y b v"),
	)

	st := g.State()
	assert.Equal(t, 1, st.Level)
	assert.False(t, st.GameOver)
	assert.NotEmpty(t, g.SessionID())

	out := render(g)
	assert.Contains(t, out, "Level 1")
	assert.Contains(t, out, "Moves: 5")
	assert.Contains(t, out, "Goals:")
}

func TestGameConfirmWinsAndAdvances(t *testing.T) {
	g, store := newGame(t, instantConfig(),
		testLevel(1, 5, "r r bo", "g b y"),
		testLevel(2, 6, "g g s", "y b v"),
	)

	res := g.Step(frame(platformcore.ActionConfirm))
	assert.True(t, res.State.GameOver)
	assert.True(t, res.State.Won)
	assert.Positive(t, res.State.Score)

	g.Step(frame())
	done, err := store.IsLevelCompleted(blast.GameID, 1)
	require.NoError(t, err)
	assert.True(t, done)
	cur, _ := store.CurrentLevel(blast.GameID)
	assert.Equal(t, 2, cur)
	assert.Contains(t, render(g), "Level cleared!")

	res = g.Step(frame(platformcore.ActionNext))
	assert.Equal(t, 2, res.State.Level)
	assert.False(t, res.State.GameOver)
	assert.Equal(t, 6, g.Snapshot().Moves)
}

func TestGameLastLevelFinishesCampaign(t *testing.T) {
	g, _ := newGame(t, instantConfig(), testLevel(1, 5, "r r bo", "g b y"))

	g.Step(frame(platformcore.ActionConfirm))
	g.Step(frame())
	assert.Contains(t, render(g), "Campaign complete!")

	res := g.Step(frame(platformcore.ActionNext))
	assert.True(t, res.State.Won, "nothing to advance to")
}

func TestGameCursorClamps(t *testing.T) {
	g, _ := newGame(t, instantConfig(), testLevel(1, 5, "r g bo", "g b y"))

	for i := 0; i < 5; i++ {
		g.Step(frame(platformcore.ActionRight, platformcore.ActionDown))
	}
	// The cursor now sits on the bottom-right cube; a lone cube is a no-op.
	g.Step(frame(platformcore.ActionConfirm))
	assert.Equal(t, 5, g.Snapshot().Moves)

	for i := 0; i < 5; i++ {
		g.Step(frame(platformcore.ActionLeft, platformcore.ActionUp))
	}
	g.Step(frame(platformcore.ActionConfirm))
	assert.Equal(t, 5, g.Snapshot().Moves, "lone red cube")
}

func TestGameClickTapsCell(t *testing.T) {
	g, _ := newGame(t, instantConfig(), testLevel(1, 5, "r r bo", "g b y"))

	// 3 cells of width 3 plus the frame are centered on an 80x24 screen:
	// the frame starts at (34, 11), the first cell at (35, 12).
	f := frame()
	f.Click(0, 0)
	g.Step(f)
	assert.Equal(t, 5, g.Snapshot().Moves, "click outside the board")

	f = frame()
	f.Click(39, 12)
	res := g.Step(f)
	assert.True(t, res.State.Won, "second red cube")
}

func TestGameLossAndRestart(t *testing.T) {
	g, store := newGame(t, instantConfig(), testLevel(1, 1, "r r g", "g b s"))

	res := g.Step(frame(platformcore.ActionConfirm))
	assert.True(t, res.State.GameOver)
	assert.False(t, res.State.Won)
	assert.Contains(t, render(g), "Out of moves")

	res = g.Step(frame(platformcore.ActionRestart))
	assert.False(t, res.State.GameOver)
	assert.Equal(t, 1, g.Snapshot().Moves)

	done, _ := store.IsLevelCompleted(blast.GameID, 1)
	assert.False(t, done)
}

func TestGamePause(t *testing.T) {
	g, _ := newGame(t, instantConfig(), testLevel(1, 5, "r r bo", "g b y"))

	res := g.Step(frame(platformcore.ActionPause))
	assert.True(t, res.State.Paused)
	assert.Contains(t, render(g), "Paused")

	res = g.Step(frame(platformcore.ActionConfirm))
	assert.False(t, res.State.GameOver, "paused games ignore taps")

	res = g.Step(frame(platformcore.ActionPause))
	assert.False(t, res.State.Paused)
	res = g.Step(frame(platformcore.ActionConfirm))
	assert.True(t, res.State.Won)
}

func rocketGameLevel() levels.Level {
	return testLevel(1, 4,
		"hro g y",
		"g b s",
		"b g y",
	)
}

func TestGameAsyncRocketMove(t *testing.T) {
	cfg := config.DefaultBlastConfig()
	cfg.Animation.WaveDelayMs = 5
	g, _ := newGame(t, cfg, rocketGameLevel())

	g.Step(frame(platformcore.ActionConfirm))
	assert.Eventually(t, func() bool {
		g.Step(frame())
		snap := g.Snapshot()
		return snap.Phase == core.PhaseIdle && snap.Moves == 3
	}, 2*time.Second, 5*time.Millisecond)
}

func TestGameCloseCancelsMove(t *testing.T) {
	cfg := config.DefaultBlastConfig()
	cfg.Animation.WaveDelayMs = 60_000
	g, _ := newGame(t, cfg, rocketGameLevel())

	g.Step(frame(platformcore.ActionConfirm))
	g.Close()
	assert.Eventually(t, func() bool {
		return g.Snapshot().Phase == core.PhaseIdle
	}, 2*time.Second, 5*time.Millisecond)
}

func TestGameResizeKeepsLevel(t *testing.T) {
	g, _ := newGame(t, instantConfig(), testLevel(1, 5, "r r bo", "g b y"))
	g.Step(frame(platformcore.ActionRight))

	g.Resize(6, 6)
	assert.Contains(t, render(g), "Window too small")
	res := g.Step(frame(platformcore.ActionConfirm))
	assert.False(t, res.State.GameOver, "no taps while the board does not fit")

	g.Resize(80, 24)
	res = g.Step(frame(platformcore.ActionConfirm))
	assert.True(t, res.State.Won)
}

func TestGameDifficultyScalesMoves(t *testing.T) {
	cfg := instantConfig()
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.InitialLevel = 0
	cfg.Difficulty.Progression.Type = "none"
	cfg.Difficulty.Scaling.ExtraMoves = 4
	cfg.Difficulty.Scaling.MovePenalty = 2
	g, _ := newGame(t, cfg, testLevel(1, 5, "r r bo", "g b y"))

	assert.Equal(t, 9, g.Snapshot().Moves)
}

func TestGameWithoutLevels(t *testing.T) {
	g, _ := newGame(t, instantConfig())

	assert.True(t, g.State().GameOver)
	assert.True(t, strings.Contains(render(g), "No level to play"))
	assert.NotPanics(t, func() { g.Step(frame(platformcore.ActionConfirm)) })
}

func TestGameDefaultCampaign(t *testing.T) {
	g := blast.New(blast.Options{})
	g.Reset(platformcore.RuntimeConfig{ScreenW: 100, ScreenH: 40, Seed: 1})
	defer g.Close()

	assert.Equal(t, "blast", g.ID())
	assert.Equal(t, "Blast", g.Title())
	assert.Equal(t, 1, g.State().Level)
}
