package core

import (
	"fmt"
	"strings"
)

// CellRune returns the ASCII character for a cell view.
//
// Format:
//   - cubes: r/g/b/y, uppercase when hinted
//   - rockets: H/V
//   - obstacles: '#' box, '@' stone, 'U' vase, 'u' damaged vase
//   - '*' phantom, '.' empty
func CellRune(v CellView) rune {
	var r rune
	switch v.Type {
	case TypeRedCube:
		r = 'r'
	case TypeGreenCube:
		r = 'g'
	case TypeBlueCube:
		r = 'b'
	case TypeYellowCube:
		r = 'y'
	case TypeHorizontalRocket:
		return 'H'
	case TypeVerticalRocket:
		return 'V'
	case TypeBox:
		return '#'
	case TypeStone:
		return '@'
	case TypeVase:
		if v.Visual == VisualDamaged {
			return 'u'
		}
		return 'U'
	case TypePhantom:
		return '*'
	default:
		return '.'
	}
	if v.Hint {
		r -= 'a' - 'A'
	}
	return r
}

// RenderASCII creates an ASCII representation of a snapshot.
// Used for the CLI, debugging and golden tests.
func RenderASCII(s *Snapshot) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Level %d | Moves: %d | Phase: %s | Status: %s\n",
		s.Level, s.Moves, s.Phase, s.Status))
	sb.WriteString("Goals:")
	if len(s.Goals) == 0 {
		sb.WriteString(" (none)")
	}
	for _, g := range s.Goals {
		sb.WriteString(fmt.Sprintf(" %s %d/%d", g.Kind, g.Remaining, g.Required))
	}
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", max(s.Width, 8)) + "\n")
	sb.WriteString(RenderBoard(s))
	return sb.String()
}

// RenderBoard renders just the visible cells, one line per row.
func RenderBoard(s *Snapshot) string {
	var sb strings.Builder
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			sb.WriteRune(CellRune(s.At(x, y)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
