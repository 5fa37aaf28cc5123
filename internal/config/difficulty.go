package config

import "math"

// DifficultyManager adjusts level parameters as the campaign progresses.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// IsEnabled returns whether difficulty adjustments are active.
func (d *DifficultyManager) IsEnabled() bool {
	return d != nil && d.cfg.Enabled
}

// Level returns the difficulty (0.0 to 1.0) for a campaign level number.
func (d *DifficultyManager) Level(levelNumber int) float64 {
	if d.cfg.Progression.Type != "level" {
		return d.initialLevel
	}

	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 1 {
		return 1.0
	}

	// Level 1 starts at the initial difficulty
	progress := clampF(float64(levelNumber-1)/(maxAt-1), 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// Moves returns the move budget for a level after difficulty scaling.
// Disabled managers return base unchanged. The result is at least 1.
func (d *DifficultyManager) Moves(base, levelNumber int) int {
	if !d.IsEnabled() {
		return base
	}
	level := d.Level(levelNumber)
	bonus := int(math.Round((1.0 - level) * float64(d.cfg.Scaling.ExtraMoves)))
	penalty := int(math.Round(level * float64(d.cfg.Scaling.MovePenalty)))
	return max(base+bonus-penalty, 1)
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
