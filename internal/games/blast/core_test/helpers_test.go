package core_test

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blast-arcade/internal/games/blast/core"
)

// gridFrom builds a grid from top-down rows of level tokens; "." is empty.
// Buffer rows are left empty.
func gridFrom(t *testing.T, buffer int, rows ...string) *core.Grid {
	t.Helper()
	require.NotEmpty(t, rows)
	width := len(strings.Fields(rows[0]))
	g := core.NewGrid(width, len(rows), buffer)
	rng := rand.New(rand.NewSource(1))
	for y, row := range rows {
		toks := strings.Fields(row)
		require.Len(t, toks, width, "row %d", y)
		for x, tok := range toks {
			if it := core.NewItem(core.ParseToken(tok), rng); it != nil {
				require.True(t, g.SetItem(g.ToExtended(x, y), it))
			}
		}
	}
	return g
}

// at returns the item at visible (x, y).
func at(g *core.Grid, x, y int) *core.Item {
	return g.Item(g.ToExtended(x, y))
}

// board renders the visible rows of g, one string per row.
func board(g *core.Grid) []string {
	rows := make([]string, g.Height())
	for y := 0; y < g.Height(); y++ {
		var sb strings.Builder
		for x := 0; x < g.Width(); x++ {
			sb.WriteRune(core.CellRune(core.CellView{Type: at(g, x, y).Type(), Visual: visual(at(g, x, y))}))
		}
		rows[y] = sb.String()
	}
	return rows
}

func visual(it *core.Item) core.VisualState {
	if it == nil {
		return core.VisualIntact
	}
	return it.Visual()
}

func countPhantoms(g *core.Grid) int {
	n := 0
	g.Each(func(_ core.Coord, it *core.Item) bool {
		if it.IsPhantom() {
			n++
		}
		return true
	})
	return n
}

// newSession starts a session with no buffer rows so refills never happen.
func newSession(t *testing.T, level core.LevelSpec, mutate ...func(*core.Options)) (*core.Session, *core.Recorder) {
	t.Helper()
	opts := core.DefaultOptions()
	opts.BufferRows = 0
	opts.Seed = 42
	for _, m := range mutate {
		m(&opts)
	}
	s := core.NewSession(opts)
	rec := &core.Recorder{}
	rec.Attach(s.Bus())
	require.NoError(t, s.Start(level))
	return s, rec
}
