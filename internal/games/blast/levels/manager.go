package levels

import "sort"

// Manager indexes a loaded campaign by level number.
type Manager struct {
	byNumber map[int]Level
	numbers  []int
}

// NewManager indexes the given levels. Later duplicates are ignored.
func NewManager(levels []Level) *Manager {
	m := &Manager{byNumber: make(map[int]Level, len(levels))}
	for _, lvl := range levels {
		if _, dup := m.byNumber[lvl.Number]; dup {
			continue
		}
		m.byNumber[lvl.Number] = lvl
		m.numbers = append(m.numbers, lvl.Number)
	}
	sort.Ints(m.numbers)
	return m
}

// Load reads every level the loader can find into a manager.
func Load(l *Loader) (*Manager, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	return NewManager(levels), nil
}

// Get returns the level with the given number.
func (m *Manager) Get(n int) (Level, bool) {
	lvl, ok := m.byNumber[n]
	return lvl, ok
}

// IsValid reports whether a level with the given number exists.
func (m *Manager) IsValid(n int) bool {
	_, ok := m.byNumber[n]
	return ok
}

// Count returns the number of levels.
func (m *Manager) Count() int { return len(m.numbers) }

// Numbers returns all level numbers in ascending order.
func (m *Manager) Numbers() []int {
	out := make([]int, len(m.numbers))
	copy(out, m.numbers)
	return out
}

// First returns the lowest level number, or 1 when the campaign is empty.
func (m *Manager) First() int {
	if len(m.numbers) == 0 {
		return 1
	}
	return m.numbers[0]
}

// NextAfter returns the lowest level number greater than n, or -1.
func (m *Manager) NextAfter(n int) int {
	i := sort.SearchInts(m.numbers, n+1)
	if i == len(m.numbers) {
		return -1
	}
	return m.numbers[i]
}

// HasMoreAfter reports whether any level follows n.
func (m *Manager) HasMoreAfter(n int) bool {
	return m.NextAfter(n) != -1
}

// Last reports whether n is the highest level number.
func (m *Manager) Last(n int) bool {
	return m.IsValid(n) && !m.HasMoreAfter(n)
}
