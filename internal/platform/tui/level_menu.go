package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/blast-arcade/internal/core"
	"github.com/vovakirdan/blast-arcade/internal/games/blast"
)

// LevelEntry is one row of the level picker.
type LevelEntry struct {
	Number    int
	Name      string
	Moves     int
	Completed bool
	Unlocked  bool
	Current   bool
}

// LevelEntries lists the campaign levels with their progress state.
func LevelEntries(c *blast.Campaign) ([]LevelEntry, error) {
	current := -1
	if lvl, ok, err := c.Current(); err == nil && ok {
		current = lvl.Number
	}

	var entries []LevelEntry
	for _, n := range c.Levels().Numbers() {
		lvl, err := c.Level(n)
		if err != nil {
			return nil, err
		}
		unlocked, err := c.Unlocked(n)
		if err != nil {
			return nil, err
		}
		completed, err := c.Store().IsLevelCompleted(blast.GameID, n)
		if err != nil {
			return nil, err
		}
		entries = append(entries, LevelEntry{
			Number:    n,
			Name:      lvl.Name,
			Moves:     lvl.Moves,
			Completed: completed,
			Unlocked:  unlocked || n == current,
			Current:   n == current,
		})
	}
	return entries, nil
}

// LevelMenuModel is the level picker.
type LevelMenuModel struct {
	entries      []LevelEntry
	cursor       int
	width        int
	height       int
	scrollOffset int
	keyMapper    *KeyMapper
	theme        Theme
	selected     int
	quitting     bool
	back         bool
}

// NewLevelMenuModel creates a level picker with the cursor on the current level.
func NewLevelMenuModel(entries []LevelEntry, width, height int, theme Theme) LevelMenuModel {
	m := LevelMenuModel{
		entries:   entries,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
		theme:     theme,
	}
	for i, e := range entries {
		if e.Current {
			m.cursor = i
		}
	}
	m.updateScroll()
	return m
}

// Init initializes the model.
func (m LevelMenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m LevelMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateScroll()
		return m, nil
	}
	return m, nil
}

func (m LevelMenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
			m.updateScroll()
		}
	case MenuActionDown:
		if m.cursor < len(m.entries)-1 {
			m.cursor++
			m.updateScroll()
		}
	case MenuActionSelect:
		if len(m.entries) == 0 || !m.entries[m.cursor].Unlocked {
			return m, nil
		}
		m.selected = m.entries[m.cursor].Number
		return m, tea.Quit
	case MenuActionBack:
		m.back = true
		return m, tea.Quit
	}

	return m, nil
}

func (m LevelMenuModel) visibleItems() int {
	return max(m.height-10, 3) // header and footer
}

// updateScroll adjusts scroll offset to keep cursor visible.
func (m *LevelMenuModel) updateScroll() {
	visible := m.visibleItems()
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	} else if m.cursor >= m.scrollOffset+visible {
		m.scrollOffset = m.cursor - visible + 1
	}
}

// View renders the level selection.
func (m LevelMenuModel) View() string {
	if m.quitting || m.back {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(m.theme.MenuTitle.Render("S E L E C T   L E V E L"), m.width))
	b.WriteString("\n\n")

	if len(m.entries) == 0 {
		b.WriteString(centerText(m.theme.MenuDescription.Render("No levels found"), m.width))
		b.WriteString("\n")
	}

	end := min(m.scrollOffset+m.visibleItems(), len(m.entries))
	if m.scrollOffset > 0 {
		b.WriteString(centerText(m.theme.MenuDescription.Render("... more above ..."), m.width))
		b.WriteString("\n")
	}
	for i := m.scrollOffset; i < end; i++ {
		b.WriteString(centerText(m.renderEntry(i), m.width))
		b.WriteString("\n")
	}
	if end < len(m.entries) {
		b.WriteString(centerText(m.theme.MenuDescription.Render("... more below ..."), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Play  |  Esc: Back  |  Q: Quit"
	b.WriteString(centerText(m.theme.MenuControls.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

func (m LevelMenuModel) renderEntry(i int) string {
	e := m.entries[i]

	cursor := "  "
	style := m.theme.MenuItemNormal
	switch {
	case i == m.cursor:
		cursor = "> "
		style = m.theme.MenuItemActive
	case !e.Unlocked:
		style = m.theme.MenuItemLocked
	}

	var mark string
	switch {
	case e.Completed:
		mark = m.theme.Completed.Render(" ✓")
	case e.Current:
		mark = m.theme.Current.Render(" ◀")
	case !e.Unlocked:
		mark = m.theme.MenuItemLocked.Render(" locked")
	}

	line := fmt.Sprintf("%s%2d. %-16s %2d moves", cursor, e.Number, e.Name, e.Moves)
	return style.Render(line) + mark
}

// Selected returns the chosen level number, or 0 if none was chosen.
func (m LevelMenuModel) Selected() int {
	return m.selected
}

// IsQuitting returns true if user wants to quit.
func (m LevelMenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m LevelMenuModel) WantsBack() bool {
	return m.back
}

// RunLevelSelector runs the level picker and returns the chosen level,
// 0 when the player backed out or quit.
func RunLevelSelector(c *blast.Campaign, cfg core.RuntimeConfig, theme Theme) (int, error) {
	entries, err := LevelEntries(c)
	if err != nil {
		return 0, err
	}
	model := NewLevelMenuModel(entries, cfg.ScreenW, cfg.ScreenH, theme)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return 0, err
	}

	m, ok := finalModel.(LevelMenuModel)
	if !ok {
		return 0, nil
	}
	return m.Selected(), nil
}
