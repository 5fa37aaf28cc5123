package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vovakirdan/blast-arcade/internal/games/blast/core"
)

func TestRocketHints(t *testing.T) {
	g := gridFrom(t, 1,
		"r r g g",
		"r r g b",
		"y b b b",
	)

	hints := core.RocketHints(g, 4)
	assert.Equal(t, 8, hints.Len())
	for _, c := range []core.Coord{g.ToExtended(0, 0), g.ToExtended(1, 1), g.ToExtended(3, 1), g.ToExtended(1, 2)} {
		_, ok := hints.Get(g.CellIndex(c))
		assert.True(t, ok, "%s hinted", c)
	}
	_, ok := hints.Get(g.CellIndex(g.ToExtended(2, 0)))
	assert.False(t, ok, "green triple is below the threshold")

	assert.Zero(t, core.RocketHints(g, 0).Len())
}

func TestLargestGroup(t *testing.T) {
	g := gridFrom(t, 0,
		"r g g",
		"b g y",
		"b r y",
	)
	assert.Len(t, core.LargestGroup(g), 3)
	assert.Nil(t, core.LargestGroup(gridFrom(t, 0, "bo s", ". v")))
}

func TestChooseTap(t *testing.T) {
	tests := []struct {
		name   string
		rows   []string
		x, y   int
		wantOK bool
	}{
		{
			name:   "group next to a box beats a bigger group",
			rows:   []string{"g g g y", "b r r bo", "y b y b"},
			x:      1,
			y:      1,
			wantOK: true,
		},
		{
			name:   "rocket combo",
			rows:   []string{"hro vro g", "r r b", "y b y"},
			x:      0,
			y:      0,
			wantOK: true,
		},
		{
			name:   "no playable cells",
			rows:   []string{"r g", "bo s"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newSession(t, core.MustLevel(1, 5, tt.rows...))
			x, y, ok := core.ChooseTap(s.Snapshot(), core.DefaultMatchRules())
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.x, x)
				assert.Equal(t, tt.y, y)
				res, err := s.Tap(ctx, x, y)
				assert.NoError(t, err)
				assert.True(t, res.Accepted())
			}
		})
	}
}
