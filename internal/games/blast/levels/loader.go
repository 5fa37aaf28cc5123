// Package levels provides level loading for Blast.
// This package depends on core but core does not depend on levels.
package levels

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/vovakirdan/blast-arcade/internal/games/blast/core"
	"github.com/vovakirdan/blast-arcade/internal/games/blast/levels/formats"
)

//go:embed data/*.yaml
var defaultLevels embed.FS

// Level is a loaded level definition together with the file it came from.
type Level struct {
	core.LevelSpec
	FilePath string
}

// Loader handles loading levels from a file system.
type Loader struct {
	FS fs.FS
}

// NewLoader creates a loader over a directory on disk.
func NewLoader(root string) *Loader {
	return &Loader{FS: os.DirFS(root)}
}

// NewFSLoader creates a loader over any file system.
func NewFSLoader(fsys fs.FS) *Loader {
	return &Loader{FS: fsys}
}

// Default returns a loader over the built-in campaign.
func Default() *Loader {
	sub, err := fs.Sub(defaultLevels, "data")
	if err != nil {
		panic(err)
	}
	return &Loader{FS: sub}
}

// LoadAll recursively scans and loads all level files.
// Invalid files are skipped. Returns levels sorted by number; when two files
// share a number the first in path order wins.
func (l *Loader) LoadAll() ([]Level, error) {
	var levels []Level
	seen := make(map[int]bool)

	err := fs.WalkDir(l.FS, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !isSupportedExtension(strings.ToLower(path.Ext(p))) {
			return nil
		}

		level, err := l.LoadFile(p)
		if err != nil {
			return nil
		}
		if seen[level.Number] {
			return nil
		}
		seen[level.Number] = true
		levels = append(levels, level)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("levels: walking: %w", err)
	}

	sort.Slice(levels, func(i, j int) bool {
		return levels[i].Number < levels[j].Number
	})
	return levels, nil
}

// LoadFile loads a single level file.
func (l *Loader) LoadFile(p string) (Level, error) {
	data, err := fs.ReadFile(l.FS, p)
	if err != nil {
		return Level{}, fmt.Errorf("levels: reading %s: %w", p, err)
	}

	parsed, err := parseByExtension(data, strings.ToLower(path.Ext(p)))
	if err != nil {
		return Level{}, fmt.Errorf("levels: parsing %s: %w", p, err)
	}
	if parsed.Number <= 0 {
		parsed.Number = numberFromName(p)
	}
	if parsed.Number <= 0 {
		return Level{}, fmt.Errorf("levels: %s: missing level_number", p)
	}
	return Level{LevelSpec: parsed.LevelSpec, FilePath: p}, nil
}

// LoadByNumber loads a specific level by number.
func (l *Loader) LoadByNumber(n int) (Level, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return Level{}, err
	}
	for _, lvl := range levels {
		if lvl.Number == n {
			return lvl, nil
		}
	}
	return Level{}, fmt.Errorf("levels: level %d not found", n)
}

// Numbers returns all level numbers in ascending order.
func (l *Loader) Numbers() ([]int, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	nums := make([]int, len(levels))
	for i, lvl := range levels {
		nums[i] = lvl.Number
	}
	return nums, nil
}

// numberFromName reads the number out of names like "level_07.json".
func numberFromName(p string) int {
	base := strings.TrimSuffix(path.Base(p), path.Ext(p))
	digits, ok := strings.CutPrefix(base, "level_")
	if !ok {
		return 0
	}
	var n int
	if _, err := fmt.Sscanf(digits, "%d", &n); err != nil {
		return 0
	}
	return n
}

func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// parseByExtension routes to the correct parser.
func parseByExtension(data []byte, ext string) (formats.Level, error) {
	switch ext {
	case ".yaml", ".yml":
		return formats.ParseYAML(data)
	case ".json":
		return formats.ParseJSON(data)
	default:
		return formats.Level{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}
