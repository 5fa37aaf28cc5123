package core_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blast-arcade/internal/games/blast/core"
)

func TestFindMatchingGroupConnectedAndHomogeneous(t *testing.T) {
	g := gridFrom(t, 2,
		"r r g b",
		"g r g b",
		"r r r .",
		"b g r r",
	)

	seed := g.ToExtended(0, 0)
	group := core.FindMatchingGroup(g, seed)
	require.NotEmpty(t, group)
	assert.Equal(t, seed, group[0], "seed is first")
	assert.Len(t, group, 8)

	members := make(map[core.Coord]bool)
	for _, c := range group {
		assert.Equal(t, core.ColorRed, g.Item(c).Color())
		members[c] = true
	}
	assert.Len(t, members, len(group), "no duplicates")

	// Every member but the seed touches an earlier member.
	for i, c := range group[1:] {
		touches := false
		for _, prev := range group[:i+1] {
			dx, dy := c.X-prev.X, c.Y-prev.Y
			if dx*dx+dy*dy == 1 {
				touches = true
				break
			}
		}
		assert.True(t, touches, "%s is connected", c)
	}
}

func TestFindMatchingGroupNonCube(t *testing.T) {
	g := gridFrom(t, 1,
		"bo hro",
		". r",
	)
	assert.Nil(t, core.FindMatchingGroup(g, g.ToExtended(0, 0)))
	assert.Nil(t, core.FindMatchingGroup(g, g.ToExtended(1, 0)))
	assert.Nil(t, core.FindMatchingGroup(g, g.ToExtended(0, 1)))
	assert.Equal(t, []core.Coord{g.ToExtended(1, 1)}, core.FindMatchingGroup(g, g.ToExtended(1, 1)))
	assert.Nil(t, core.FindMatchingGroup(g, core.C(9, 9)))
}

func TestFindMatchingGroupIgnoresBuffer(t *testing.T) {
	g := core.NewGrid(1, 1, 1)
	g.SetItem(core.C(0, 0), core.NewCube(core.ColorRed))
	g.SetItem(core.C(0, 1), core.NewCube(core.ColorRed))

	assert.Len(t, core.FindMatchingGroup(g, core.C(0, 1)), 1)
	assert.Nil(t, core.FindMatchingGroup(g, core.C(0, 0)), "buffer cubes cannot be tapped")
}

func TestMatchRules(t *testing.T) {
	rules := core.DefaultMatchRules()

	tests := []struct {
		size          int
		valid, rocket bool
	}{
		{0, false, false},
		{1, false, false},
		{2, true, false},
		{3, true, false},
		{4, true, true},
		{9, true, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.valid, rules.IsValidMatch(tt.size), "valid(%d)", tt.size)
		assert.Equal(t, tt.rocket, rules.CreatesRocket(tt.size), "rocket(%d)", tt.size)
	}

	custom := core.MatchRules{MinMatch: 2, RocketThreshold: 5}
	assert.False(t, custom.CreatesRocket(4))
	assert.True(t, custom.CreatesRocket(5))
}

func TestResolveRewardTiers(t *testing.T) {
	tests := []struct {
		name    string
		rows    []string
		cleared int
		rocket  bool
	}{
		{"pair", []string{"r r g", "b g b"}, 2, false},
		{"triple", []string{"r r r", "b g b"}, 3, false},
		{"four", []string{"r r r", "r g b"}, 4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gridFrom(t, 0, tt.rows...)
			bus := core.NewBus()
			rec := &core.Recorder{}
			rec.Attach(bus)
			m := core.NewMatchResolver(g, bus, rand.New(rand.NewSource(7)), core.DefaultMatchRules())

			res, ok := m.Resolve(core.C(0, 0))
			require.True(t, ok)
			assert.Len(t, res.Group, tt.cleared)
			assert.Equal(t, tt.rocket, res.RocketCreated)
			assert.Equal(t, tt.cleared, rec.Count(core.EventItemDestroyed))

			rockets := 0
			g.Each(func(_ core.Coord, it *core.Item) bool {
				assert.NotEqual(t, core.ColorRed, it.Color())
				if it.IsRocket() {
					rockets++
				}
				return true
			})
			if tt.rocket {
				assert.Equal(t, 1, rockets)
				assert.True(t, g.Item(core.C(0, 0)).IsRocket(), "rocket spawns at the tapped cell")
				assert.Equal(t, 1, rec.Count(core.EventRocketCreated))
			} else {
				assert.Zero(t, rockets)
				assert.Zero(t, rec.Count(core.EventRocketCreated))
			}
		})
	}
}

func TestResolveSingleCubeIsNoop(t *testing.T) {
	g := gridFrom(t, 0, "r g", "g r")
	bus := core.NewBus()
	rec := &core.Recorder{}
	rec.Attach(bus)
	m := core.NewMatchResolver(g, bus, rand.New(rand.NewSource(1)), core.DefaultMatchRules())

	_, ok := m.Resolve(core.C(0, 0))
	assert.False(t, ok)
	assert.Empty(t, rec.Events())
	assert.Equal(t, []string{"rg", "gr"}, board(g))
}

func TestResolveEventOrder(t *testing.T) {
	g := gridFrom(t, 0,
		"r r bo",
		"g b g",
	)
	bus := core.NewBus()
	rec := &core.Recorder{}
	rec.Attach(bus)
	m := core.NewMatchResolver(g, bus, rand.New(rand.NewSource(1)), core.DefaultMatchRules())

	_, ok := m.Resolve(core.C(1, 0))
	require.True(t, ok)
	assert.Equal(t, []core.EventKind{
		core.EventMatchFound,
		core.EventItemDestroyed,
		core.EventItemDestroyed,
		core.EventItemDamaged,
		core.EventItemDestroyed,
		core.EventObstacleDestroyed,
		core.EventMatchProcessed,
	}, rec.Kinds())

	found := rec.Events()[0].(core.MatchFound)
	assert.Equal(t, 2, found.Count)
	assert.Equal(t, core.TypeRedCube, found.Type)
}

func TestAdjacentDamageIsDeduplicated(t *testing.T) {
	// The top vase touches two cleared cells; it must lose exactly one hit point.
	g := gridFrom(t, 0,
		"r v .",
		"r r .",
		"b r v",
	)
	m := core.NewMatchResolver(g, core.NewBus(), rand.New(rand.NewSource(1)), core.DefaultMatchRules())

	res, ok := m.Resolve(core.C(0, 0))
	require.True(t, ok)
	assert.Len(t, res.Group, 4)
	assert.Equal(t, 2, res.Damaged)

	vase := g.Item(core.C(1, 0))
	require.NotNil(t, vase)
	assert.Equal(t, 1, vase.Health())
	assert.Equal(t, core.VisualDamaged, vase.Visual())
	assert.Equal(t, 1, g.Item(core.C(2, 2)).Health())
}

func TestAdjacentBlastSkipsStone(t *testing.T) {
	g := gridFrom(t, 0,
		"r r s",
		"bo g b",
	)
	m := core.NewMatchResolver(g, core.NewBus(), rand.New(rand.NewSource(1)), core.DefaultMatchRules())

	res, ok := m.Resolve(core.C(0, 0))
	require.True(t, ok)
	assert.Equal(t, 1, res.Damaged, "only the box takes damage")
	assert.True(t, g.Item(core.C(2, 0)).IsObstacle())
	assert.Nil(t, g.Item(core.C(0, 1)))
}
