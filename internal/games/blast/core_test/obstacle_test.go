package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vovakirdan/blast-arcade/internal/games/blast/core"
)

func TestObstacleRules(t *testing.T) {
	tests := []struct {
		kind      core.ObstacleKind
		health    int
		adjacent  bool
		rocket    bool
		falls     bool
		itemType  core.ItemType
		typeToken string
	}{
		{core.ObstacleBox, 1, true, true, false, core.TypeBox, "bo"},
		{core.ObstacleStone, 1, false, true, false, core.TypeStone, "s"},
		{core.ObstacleVase, 2, true, true, true, core.TypeVase, "v"},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.health, core.MaxHealth(tt.kind))
			assert.Equal(t, tt.adjacent, core.CanTakeDamage(tt.kind, core.SourceAdjacentBlast))
			assert.Equal(t, tt.rocket, core.CanTakeDamage(tt.kind, core.SourceRocket))
			assert.Equal(t, tt.falls, core.CanFall(tt.kind))
			assert.Equal(t, tt.itemType, tt.kind.ItemType())
			assert.Equal(t, tt.itemType, core.ParseToken(tt.typeToken))

			it := core.NewObstacle(tt.kind)
			assert.Equal(t, tt.health, it.Health())
			assert.Equal(t, tt.falls, it.CanFall())
			assert.Equal(t, core.VisualIntact, it.Visual())
		})
	}
}

func TestVaseVisualStates(t *testing.T) {
	assert.Equal(t, core.VisualIntact, core.VisualStateFor(core.ObstacleVase, 2))
	assert.Equal(t, core.VisualDamaged, core.VisualStateFor(core.ObstacleVase, 1))
	assert.Equal(t, core.VisualDestroyed, core.VisualStateFor(core.ObstacleVase, 0))
	assert.Equal(t, core.VisualIntact, core.VisualStateFor(core.ObstacleBox, 1))
	assert.Equal(t, core.VisualDestroyed, core.VisualStateFor(core.ObstacleStone, 0))
}

func TestItemVariants(t *testing.T) {
	assert.True(t, core.NewCube(core.ColorRed).CanFall())
	assert.True(t, core.NewRocket(core.Vertical).CanFall())
	assert.False(t, core.NewItem(core.TypePhantom, nil).CanFall())

	var none *core.Item
	assert.Equal(t, core.TypeEmpty, none.Type())
	assert.False(t, none.IsCube())
	assert.False(t, none.IsObstacle())

	assert.Equal(t, [2]core.Dir{core.DirRight, core.DirLeft}, core.Horizontal.Dirs())
	assert.Equal(t, [2]core.Dir{core.DirUp, core.DirDown}, core.Vertical.Dirs())
	assert.Nil(t, core.NewItem(core.TypeEmpty, nil))
}
