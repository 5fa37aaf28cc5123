// Package config provides YAML-based game configuration loading and
// difficulty management for the arcade platform.
package config

import "time"

// BlastConfig contains all configuration for the Blast puzzle.
type BlastConfig struct {
	Rules      BlastRules       `yaml:"rules"`
	Animation  BlastAnimation   `yaml:"animation"`
	Scoring    BlastScoring     `yaml:"scoring"`
	Board      BlastBoard       `yaml:"board"`
	Levels     BlastLevels      `yaml:"levels"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// BlastRules defines the rule engine parameters.
type BlastRules struct {
	MinMatch        int `yaml:"min_match"`
	RocketThreshold int `yaml:"rocket_threshold"`
	BufferRows      int `yaml:"buffer_rows"`
	GravityCap      int `yaml:"gravity_cap"`
}

// BlastAnimation defines presentation pacing.
type BlastAnimation struct {
	WaveDelayMs int `yaml:"wave_delay_ms"` // 0 resolves rockets instantly
}

// WaveDelay returns the pause between projectile waves.
func (a BlastAnimation) WaveDelay() time.Duration {
	if a.WaveDelayMs <= 0 {
		return 0
	}
	return time.Duration(a.WaveDelayMs) * time.Millisecond
}

// BlastScoring defines points per event.
type BlastScoring struct {
	Cube     int `yaml:"cube"`
	Obstacle int `yaml:"obstacle"`
	Rocket   int `yaml:"rocket"`
	MoveLeft int `yaml:"move_left"`
}

// BlastBoard defines board presentation options.
type BlastBoard struct {
	Hints     bool `yaml:"hints"`      // highlight cubes that would make a rocket
	CellWidth int  `yaml:"cell_width"` // screen columns per cell
}

// BlastLevels points at an optional level directory that replaces the built-in campaign.
type BlastLevels struct {
	Dir string `yaml:"dir"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases through the campaign.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "level" or "none"
	MaxAt int    `yaml:"max_at"` // Level number at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	ExtraMoves  int `yaml:"extra_moves"`  // Moves added at difficulty 0
	MovePenalty int `yaml:"move_penalty"` // Moves removed at difficulty 1
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name. An empty name is normal.
func ParsePreset(name string) (DifficultyPreset, bool) {
	switch p := DifficultyPreset(name); p {
	case "":
		return DifficultyNormal, true
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, true
	}
	return "", false
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}
