package blast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blast-arcade/internal/games/blast"
	"github.com/vovakirdan/blast-arcade/internal/games/blast/core"
	"github.com/vovakirdan/blast-arcade/internal/games/blast/levels"
)

func testLevel(number, moves int, rows ...string) levels.Level {
	return levels.Level{LevelSpec: core.MustLevel(number, moves, rows...)}
}

// winnable levels: tapping the top-left pair breaks the only box.
func testManager(numbers ...int) *levels.Manager {
	lvls := make([]levels.Level, 0, len(numbers))
	for _, n := range numbers {
		lvls = append(lvls, testLevel(n, 5, "r r bo", "g b y"))
	}
	return levels.NewManager(lvls)
}

func TestCampaignCurrent(t *testing.T) {
	store := blast.NewMemoryProgress()
	c := blast.NewCampaign(testManager(1, 2, 4), store, nil)

	lvl, ok, err := c.Current()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, lvl.Number)

	require.NoError(t, store.SetCurrentLevel(blast.GameID, 3))
	lvl, ok, err = c.Current()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 4, lvl.Number, "gaps skip to the next level")

	require.NoError(t, store.SetCurrentLevel(blast.GameID, 5))
	_, ok, err = c.Current()
	require.NoError(t, err)
	assert.False(t, ok, "past the last level")
}

func TestCampaignCurrentWithoutLevels(t *testing.T) {
	c := blast.NewCampaign(levels.NewManager(nil), nil, nil)
	_, _, err := c.Current()
	assert.ErrorIs(t, err, blast.ErrNoLevels)

	done, err := c.AllCompleted()
	require.NoError(t, err)
	assert.False(t, done)
}

func TestCampaignComplete(t *testing.T) {
	store := blast.NewMemoryProgress()
	c := blast.NewCampaign(testManager(1, 2, 3), store, nil)

	res, err := c.Complete(1, 120, 2)
	require.NoError(t, err)
	assert.Equal(t, blast.Completion{Next: 2, Finished: false}, res)
	cur, _ := store.CurrentLevel(blast.GameID)
	assert.Equal(t, 2, cur)

	// Replaying an earlier level does not move the frontier back.
	res, err = c.Complete(1, 200, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Next)
	cur, _ = store.CurrentLevel(blast.GameID)
	assert.Equal(t, 2, cur)

	_, err = c.Complete(2, 80, 0)
	require.NoError(t, err)
	res, err = c.Complete(3, 90, 1)
	require.NoError(t, err)
	assert.Equal(t, blast.Completion{Next: -1, Finished: true}, res)

	cur, _ = store.CurrentLevel(blast.GameID)
	assert.Equal(t, 4, cur)
	_, ok, err := c.Current()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCampaignFinishedNeedsEveryLevel(t *testing.T) {
	store := blast.NewMemoryProgress()
	c := blast.NewCampaign(testManager(1, 2), store, nil)

	// Jumping straight to the last level does not finish the campaign.
	res, err := c.Complete(2, 50, 0)
	require.NoError(t, err)
	assert.Equal(t, -1, res.Next)
	assert.False(t, res.Finished)
}

func TestCampaignUnlocked(t *testing.T) {
	store := blast.NewMemoryProgress()
	c := blast.NewCampaign(testManager(1, 2, 3), store, nil)

	for n, want := range map[int]bool{1: true, 2: false, 3: false, 9: false} {
		got, err := c.Unlocked(n)
		require.NoError(t, err)
		assert.Equal(t, want, got, "level %d", n)
	}

	_, err := c.Complete(1, 10, 0)
	require.NoError(t, err)
	got, err := c.Unlocked(2)
	require.NoError(t, err)
	assert.True(t, got)

	_, err = c.Level(9)
	assert.Error(t, err)
}

func TestMemoryProgress(t *testing.T) {
	m := blast.NewMemoryProgress()

	cur, err := m.CurrentLevel("x")
	require.NoError(t, err)
	assert.Equal(t, 1, cur)

	require.NoError(t, m.SetCurrentLevel("x", -3))
	cur, _ = m.CurrentLevel("x")
	assert.Equal(t, 1, cur)

	done, _ := m.IsLevelCompleted("x", 1)
	assert.False(t, done)
	require.NoError(t, m.MarkLevelCompleted("x", 1, 10, 0))
	done, _ = m.IsLevelCompleted("x", 1)
	assert.True(t, done)
	done, _ = m.IsLevelCompleted("y", 1)
	assert.False(t, done)
}
