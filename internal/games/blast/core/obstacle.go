package core

// ObstacleKind tags the obstacle variant.
type ObstacleKind uint8

const (
	ObstacleBox ObstacleKind = iota + 1
	ObstacleStone
	ObstacleVase
)

// ObstacleKinds lists every obstacle kind in goal display order.
var ObstacleKinds = [3]ObstacleKind{ObstacleBox, ObstacleStone, ObstacleVase}

// String returns the obstacle name.
func (k ObstacleKind) String() string {
	return k.ItemType().String()
}

// ItemType maps the kind to its ItemType.
func (k ObstacleKind) ItemType() ItemType {
	switch k {
	case ObstacleBox:
		return TypeBox
	case ObstacleStone:
		return TypeStone
	case ObstacleVase:
		return TypeVase
	}
	return TypeEmpty
}

// ObstacleKindOf maps an ItemType to its obstacle kind.
func ObstacleKindOf(t ItemType) (ObstacleKind, bool) {
	switch t {
	case TypeBox:
		return ObstacleBox, true
	case TypeStone:
		return ObstacleStone, true
	case TypeVase:
		return ObstacleVase, true
	}
	return 0, false
}

// DamageSource is what dealt a hit.
type DamageSource uint8

const (
	// SourceAdjacentBlast is a cube match next to the obstacle.
	SourceAdjacentBlast DamageSource = iota
	// SourceRocket is a projectile, combo area or chain reaction.
	SourceRocket
)

// String returns the source name.
func (s DamageSource) String() string {
	if s == SourceRocket {
		return "rocket"
	}
	return "adjacent_blast"
}

// VisualState is the presentation tag of an item.
type VisualState uint8

const (
	VisualIntact VisualState = iota
	VisualDamaged
	VisualDestroyed
)

// String returns the state name.
func (v VisualState) String() string {
	switch v {
	case VisualDamaged:
		return "damaged"
	case VisualDestroyed:
		return "destroyed"
	}
	return "intact"
}

// MaxHealth returns the starting hit points of an obstacle kind.
func MaxHealth(kind ObstacleKind) int {
	if kind == ObstacleVase {
		return 2
	}
	return 1
}

// CanTakeDamage reports whether kind accepts damage from source.
func CanTakeDamage(kind ObstacleKind, source DamageSource) bool {
	switch kind {
	case ObstacleBox, ObstacleVase:
		return true
	case ObstacleStone:
		return source == SourceRocket
	}
	return false
}

// CanFall reports whether gravity moves obstacles of this kind.
func CanFall(kind ObstacleKind) bool {
	return kind == ObstacleVase
}

// VisualStateFor returns the visual state of an obstacle with the given health.
func VisualStateFor(kind ObstacleKind, health int) VisualState {
	switch {
	case health <= 0:
		return VisualDestroyed
	case kind == ObstacleVase && health < MaxHealth(kind):
		return VisualDamaged
	}
	return VisualIntact
}
