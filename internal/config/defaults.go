package config

import (
	_ "embed"
)

//go:embed defaults/blast.yaml
var defaultBlastYAML []byte

// DefaultBlastConfig returns the default Blast configuration.
func DefaultBlastConfig() BlastConfig {
	return BlastConfig{
		Rules: BlastRules{
			MinMatch:        2,
			RocketThreshold: 4,
			BufferRows:      20,
			GravityCap:      20,
		},
		Animation: BlastAnimation{
			WaveDelayMs: 40,
		},
		Scoring: BlastScoring{
			Cube:     10,
			Obstacle: 50,
			Rocket:   25,
			MoveLeft: 100,
		},
		Board: BlastBoard{
			Hints:     true,
			CellWidth: 3,
		},
		Difficulty: DifficultyConfig{
			Enabled:      false,
			InitialLevel: 0.3,
			Progression: ProgressionConfig{
				Type:  "level",
				MaxAt: 10,
			},
			Scaling: ScalingConfig{
				ExtraMoves:  5,
				MovePenalty: 3,
			},
		},
	}
}
