// Package formats provides pluggable level file format parsers.
package formats

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/blast-arcade/internal/games/blast/core"
	"gopkg.in/yaml.v3"
)

// YAMLLevel represents the YAML structure for a level file.
// A level either lists its cells in Grid (bottom row first, like the JSON
// format) or draws them in Rows (top row first, space separated tokens).
type YAMLLevel struct {
	Number int      `yaml:"level_number"`
	Name   string   `yaml:"name,omitempty"`
	Width  int      `yaml:"grid_width"`
	Height int      `yaml:"grid_height"`
	Moves  int      `yaml:"move_count"`
	Grid   []string `yaml:"grid,omitempty"`
	Rows   []string `yaml:"rows,omitempty"`
}

// Level represents a parsed level ready for use.
type Level struct {
	core.LevelSpec
}

// ParseYAML parses a YAML level file.
func ParseYAML(data []byte) (Level, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	if len(yl.Rows) > 0 {
		spec, err := core.LevelFromRows(yl.Number, yl.Moves, yl.Rows...)
		if err != nil {
			return Level{}, err
		}
		if (yl.Width != 0 && yl.Width != spec.Width) || (yl.Height != 0 && yl.Height != spec.Height) {
			return Level{}, core.ValidationError{
				Code:    "GRID_SIZE_MISMATCH",
				Message: fmt.Sprintf("rows draw %dx%d, header says %dx%d", spec.Width, spec.Height, yl.Width, yl.Height),
			}
		}
		spec.Name = yl.Name
		return Level{spec}, nil
	}

	return newLevel(yl.Number, yl.Name, yl.Width, yl.Height, yl.Moves, yl.Grid)
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml", ".json"}
}

func newLevel(number int, name string, width, height, moves int, grid []string) (Level, error) {
	cells := make([]string, len(grid))
	for i, tok := range grid {
		cells[i] = strings.TrimSpace(tok)
	}
	spec := core.LevelSpec{
		Number: number,
		Name:   name,
		Width:  width,
		Height: height,
		Moves:  moves,
		Grid:   cells,
	}
	if err := spec.Validate(); err != nil {
		return Level{}, err
	}
	return Level{spec}, nil
}
