package formats

import (
	"encoding/json"
	"fmt"
)

// JSONLevel is the flat layout of .json level files:
// grid lists width*height tokens, bottom row first.
type JSONLevel struct {
	Number int      `json:"level_number"`
	Name   string   `json:"name,omitempty"`
	Width  int      `json:"grid_width"`
	Height int      `json:"grid_height"`
	Moves  int      `json:"move_count"`
	Grid   []string `json:"grid"`
}

// ParseJSON parses a JSON level file.
func ParseJSON(data []byte) (Level, error) {
	var jl JSONLevel
	if err := json.Unmarshal(data, &jl); err != nil {
		return Level{}, fmt.Errorf("json unmarshal: %w", err)
	}
	return newLevel(jl.Number, jl.Name, jl.Width, jl.Height, jl.Moves, jl.Grid)
}

// MarshalJSON renders a level in the flat layout accepted by ParseJSON.
func (l Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(JSONLevel{
		Number: l.Number,
		Name:   l.Name,
		Width:  l.Width,
		Height: l.Height,
		Moves:  l.Moves,
		Grid:   l.Grid,
	})
}
