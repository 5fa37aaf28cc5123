package levels_test

import (
	"encoding/json"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blast-arcade/internal/games/blast/core"
	"github.com/vovakirdan/blast-arcade/internal/games/blast/levels"
	"github.com/vovakirdan/blast-arcade/internal/games/blast/levels/formats"
)

func TestLoaderLoadAll(t *testing.T) {
	lvls, err := levels.NewLoader("testdata").LoadAll()
	require.NoError(t, err)

	require.Len(t, lvls, 2, "broken, duplicate and non-level files are skipped")
	assert.Equal(t, 7, lvls[0].Number)
	assert.Equal(t, "level_07.json", lvls[0].FilePath)
	assert.Equal(t, 8, lvls[1].Number, "number falls back to the file name")
}

func TestLoaderJSONLevel(t *testing.T) {
	lvl, err := levels.NewLoader("testdata").LoadByNumber(7)
	require.NoError(t, err)

	assert.Equal(t, 3, lvl.Width)
	assert.Equal(t, 2, lvl.Height)
	assert.Equal(t, 4, lvl.Moves)
	assert.Equal(t, "r", lvl.TokenAt(0, 0), "last grid row is drawn on top")
	assert.Equal(t, "bo", lvl.TokenAt(2, 1))
	assert.Equal(t, 2, lvl.ObstacleCount())
}

func TestLoaderYAMLRows(t *testing.T) {
	lvl, err := levels.NewLoader("testdata").LoadFile("level_08.yaml")
	require.NoError(t, err)

	assert.Equal(t, 8, lvl.Number)
	assert.Equal(t, "vro", lvl.TokenAt(1, 1))
	assert.Equal(t, "bo", lvl.TokenAt(0, 2))
	assert.Equal(t, 3, lvl.ObstacleCount())
}

func TestLoaderErrors(t *testing.T) {
	l := levels.NewLoader("testdata")

	_, err := l.LoadFile("broken.yaml")
	var verr core.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "GRID_SIZE_MISMATCH", verr.Code)

	_, err = l.LoadFile("notes.txt")
	assert.ErrorContains(t, err, "unsupported extension")

	_, err = l.LoadByNumber(42)
	assert.ErrorContains(t, err, "level 42 not found")
}

func TestLoaderFS(t *testing.T) {
	fsys := fstest.MapFS{
		"pack/b.yaml": {Data: []byte("level_number: 3\nmove_count: 2\nrows: [\"r g\", \"s r\"]\n")},
		"pack/a.yml":  {Data: []byte("level_number: 2\nmove_count: 2\ngrid_width: 3\nrows: [\"r g\", \"s r\"]\n")},
		"c.json":      {Data: []byte(`{"level_number": 1, "grid_width": 2, "grid_height": 2, "move_count": 9, "grid": ["r","r","g","g"]}`)},
	}

	nums, err := levels.NewFSLoader(fsys).Numbers()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, nums, "a.yml draws 2 columns but declares 3")
}

func TestParseYAMLRowsMismatch(t *testing.T) {
	_, err := formats.ParseYAML([]byte("level_number: 1\nmove_count: 3\ngrid_height: 3\nrows: [\"r g\", \"g r\"]\n"))
	var verr core.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "GRID_SIZE_MISMATCH", verr.Code)

	_, err = formats.ParseYAML([]byte("rows: [unterminated"))
	assert.ErrorContains(t, err, "yaml unmarshal")
}

func TestParseJSONExport(t *testing.T) {
	lvl, err := formats.ParseYAML([]byte("level_number: 4\nname: Mini\nmove_count: 6\nrows: [\"r hro\", \"bo v\"]\n"))
	require.NoError(t, err)

	data, err := json.Marshal(lvl)
	require.NoError(t, err)
	back, err := formats.ParseJSON(data)
	require.NoError(t, err)
	assert.Equal(t, lvl.LevelSpec, back.LevelSpec)

	_, err = formats.ParseJSON([]byte("{"))
	assert.ErrorContains(t, err, "json unmarshal")
}

func TestDefaultCampaign(t *testing.T) {
	m, err := levels.Load(levels.Default())
	require.NoError(t, err)

	assert.Equal(t, 6, m.Count())
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, m.Numbers())

	for _, n := range m.Numbers() {
		lvl, ok := m.Get(n)
		require.True(t, ok)
		assert.NotEmpty(t, lvl.Name, "level %d", n)
		assert.Positive(t, lvl.ObstacleCount(), "level %d has goals", n)

		s := core.NewSession(core.DefaultOptions())
		require.NoError(t, s.Start(lvl.LevelSpec), "level %d", n)
		assert.Equal(t, lvl.Moves, s.Snapshot().Moves)
	}
}

func TestManagerNavigation(t *testing.T) {
	m := levels.NewManager([]levels.Level{
		{LevelSpec: core.LevelSpec{Number: 5}},
		{LevelSpec: core.LevelSpec{Number: 2}},
		{LevelSpec: core.LevelSpec{Number: 9}},
		{LevelSpec: core.LevelSpec{Number: 5, Name: "dup"}},
	})

	assert.Equal(t, 3, m.Count())
	assert.Equal(t, 2, m.First())
	assert.Equal(t, 2, m.NextAfter(0))
	assert.Equal(t, 5, m.NextAfter(2))
	assert.Equal(t, 9, m.NextAfter(6))
	assert.Equal(t, -1, m.NextAfter(9))
	assert.True(t, m.HasMoreAfter(5))
	assert.False(t, m.HasMoreAfter(9))
	assert.True(t, m.Last(9))
	assert.False(t, m.Last(10))
	assert.True(t, m.IsValid(5))
	assert.False(t, m.IsValid(3))

	lvl, ok := m.Get(5)
	require.True(t, ok)
	assert.Empty(t, lvl.Name, "first occurrence wins")

	empty := levels.NewManager(nil)
	assert.Equal(t, 1, empty.First())
	assert.Equal(t, -1, empty.NextAfter(0))
}
