package blast

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blast-arcade/internal/games/blast/levels"
)

// GameID is the identifier used for registration and storage.
const GameID = "blast"

// ErrNoLevels is returned when the campaign has nothing to play.
var ErrNoLevels = errors.New("blast: no levels available")

// ProgressStore persists campaign position and completed levels.
// storage.Store implements it.
type ProgressStore interface {
	CurrentLevel(gameID string) (int, error)
	SetCurrentLevel(gameID string, level int) error
	MarkLevelCompleted(gameID string, level, score, movesLeft int) error
	IsLevelCompleted(gameID string, level int) (bool, error)
}

// Campaign walks the level list and records progress.
type Campaign struct {
	levels *levels.Manager
	store  ProgressStore
	logger *log.Logger
}

// Completion is the outcome of recording a win.
type Completion struct {
	Next     int  // next level to play, -1 when none follows
	Finished bool // every level has been completed
}

// NewCampaign creates a campaign. A nil store keeps progress in memory.
func NewCampaign(m *levels.Manager, store ProgressStore, logger *log.Logger) *Campaign {
	if store == nil {
		store = NewMemoryProgress()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Campaign{levels: m, store: store, logger: logger}
}

// Store returns the progress store.
func (c *Campaign) Store() ProgressStore { return c.store }

// Levels returns the level index.
func (c *Campaign) Levels() *levels.Manager { return c.levels }

// Current returns the level the player should play next.
// ok is false once the saved position is past the last level.
func (c *Campaign) Current() (lvl levels.Level, ok bool, err error) {
	if c.levels.Count() == 0 {
		return levels.Level{}, false, ErrNoLevels
	}
	n, err := c.store.CurrentLevel(GameID)
	if err != nil {
		return levels.Level{}, false, err
	}
	if lvl, ok := c.levels.Get(n); ok {
		return lvl, true, nil
	}

	nums := c.levels.Numbers()
	if n > nums[len(nums)-1] {
		return levels.Level{}, false, nil
	}
	next := c.levels.NextAfter(n - 1)
	lvl, _ = c.levels.Get(next)
	return lvl, true, nil
}

// Level returns a level by number.
func (c *Campaign) Level(n int) (levels.Level, error) {
	lvl, ok := c.levels.Get(n)
	if !ok {
		return levels.Level{}, fmt.Errorf("blast: level %d not found", n)
	}
	return lvl, nil
}

// Unlocked reports whether level n may be played: it was completed before or
// is not past the saved position.
func (c *Campaign) Unlocked(n int) (bool, error) {
	if !c.levels.IsValid(n) {
		return false, nil
	}
	done, err := c.store.IsLevelCompleted(GameID, n)
	if err != nil || done {
		return done, err
	}
	cur, err := c.store.CurrentLevel(GameID)
	if err != nil {
		return false, err
	}
	return n <= cur, nil
}

// Complete records a win on level n and advances the saved position when n
// was the frontier. Past the last level the position moves to n+1 so the
// campaign reads as finished.
func (c *Campaign) Complete(n, score, movesLeft int) (Completion, error) {
	if err := c.store.MarkLevelCompleted(GameID, n, score, movesLeft); err != nil {
		return Completion{}, err
	}

	next := c.levels.NextAfter(n)
	cur, err := c.store.CurrentLevel(GameID)
	if err != nil {
		return Completion{}, err
	}
	if n >= cur {
		pos := next
		if pos == -1 {
			pos = n + 1
		}
		if err := c.store.SetCurrentLevel(GameID, pos); err != nil {
			return Completion{}, err
		}
		c.logger.Debug("campaign advanced", "level", n, "position", pos)
	}

	finished, err := c.AllCompleted()
	if err != nil {
		return Completion{}, err
	}
	return Completion{Next: next, Finished: finished}, nil
}

// AllCompleted reports whether every level has been won at least once.
func (c *Campaign) AllCompleted() (bool, error) {
	nums := c.levels.Numbers()
	if len(nums) == 0 {
		return false, nil
	}
	for _, n := range nums {
		done, err := c.store.IsLevelCompleted(GameID, n)
		if err != nil {
			return false, err
		}
		if !done {
			return false, nil
		}
	}
	return true, nil
}

// MemoryProgress is a ProgressStore that lives for the process only.
type MemoryProgress struct {
	mu        sync.Mutex
	current   map[string]int
	completed map[string]map[int]int
}

// NewMemoryProgress creates an empty in-memory store.
func NewMemoryProgress() *MemoryProgress {
	return &MemoryProgress{
		current:   make(map[string]int),
		completed: make(map[string]map[int]int),
	}
}

// CurrentLevel returns the saved position, 1 by default.
func (m *MemoryProgress) CurrentLevel(gameID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.current[gameID]; ok {
		return n, nil
	}
	return 1, nil
}

// SetCurrentLevel saves the position, clamped to at least 1.
func (m *MemoryProgress) SetCurrentLevel(gameID string, level int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current[gameID] = max(level, 1)
	return nil
}

// MarkLevelCompleted records a win and keeps the best score.
func (m *MemoryProgress) MarkLevelCompleted(gameID string, level, score, _ int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.completed[gameID] == nil {
		m.completed[gameID] = make(map[int]int)
	}
	m.completed[gameID][level] = max(m.completed[gameID][level], score)
	return nil
}

// IsLevelCompleted reports whether the level was won.
func (m *MemoryProgress) IsLevelCompleted(gameID string, level int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.completed[gameID][level]
	return ok, nil
}
