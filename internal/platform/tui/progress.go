package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/blast-arcade/internal/games/blast"
	"github.com/vovakirdan/blast-arcade/internal/storage"
)

// ProgressRows builds one table row per campaign level: number, name,
// status and the best stored result.
func ProgressRows(entries []LevelEntry, records []storage.LevelRecord) []table.Row {
	best := make(map[int]storage.LevelRecord, len(records))
	for _, r := range records {
		best[r.Level] = r
	}

	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		status := "locked"
		switch {
		case e.Completed:
			status = "cleared"
		case e.Current:
			status = "current"
		case e.Unlocked:
			status = "open"
		}
		score, moves := "-", "-"
		if r, ok := best[e.Number]; ok && r.Completed {
			score = fmt.Sprintf("%d", r.BestScore)
			moves = fmt.Sprintf("%d", r.BestMovesLeft)
		}
		rows = append(rows, table.Row{fmt.Sprintf("%d", e.Number), e.Name, status, score, moves})
	}
	return rows
}

// ProgressModel shows campaign progress per level.
type ProgressModel struct {
	table     table.Model
	keys      ScoreboardKeyMap
	theme     Theme
	summary   string
	width     int
	quitting  bool
	goingBack bool
}

// NewProgressModel loads progress from the campaign and, when given, the store.
func NewProgressModel(c *blast.Campaign, store *storage.Store, width, height int, theme Theme) (ProgressModel, error) {
	entries, err := LevelEntries(c)
	if err != nil {
		return ProgressModel{}, err
	}
	var records []storage.LevelRecord
	if store != nil {
		if records, err = store.LevelProgress(blast.GameID); err != nil {
			return ProgressModel{}, err
		}
	}

	cleared := 0
	for _, e := range entries {
		if e.Completed {
			cleared++
		}
	}

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Level", Width: 6},
			{Title: "Name", Width: 18},
			{Title: "Status", Width: 9},
			{Title: "Best", Width: 8},
			{Title: "Moves left", Width: 10},
		}),
		table.WithRows(ProgressRows(entries, records)),
		table.WithFocused(true),
		table.WithHeight(max(height-8, 3)),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.TableBorder).
		BorderBottom(true).
		Bold(true)
	s.Selected = theme.TableSelected
	t.SetStyles(s)

	return ProgressModel{
		table:   t,
		keys:    DefaultScoreboardKeyMap(),
		theme:   theme,
		summary: fmt.Sprintf("%d of %d levels cleared", cleared, len(entries)),
		width:   width,
	}, nil
}

// Init initializes the model.
func (m ProgressModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.table.SetHeight(max(msg.Height-8, 3))
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the progress table.
func (m ProgressModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(m.theme.MenuTitle.Render("P R O G R E S S"), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(m.theme.MenuDescription.Render(m.summary), m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.TableBorder).
		Padding(0, 1)
	b.WriteString(centerText(tableStyle.Render(m.table.View()), m.width))
	b.WriteString("\n")
	b.WriteString(m.theme.MenuControls.Render("up/down: scroll  esc/b: back  q: quit"))

	return b.String()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ProgressModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ProgressModel) IsQuitting() bool {
	return m.quitting
}

// RunProgress runs the progress screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunProgress(c *blast.Campaign, store *storage.Store, width, height int, theme Theme) (goBack bool, err error) {
	model, err := NewProgressModel(c, store, width, height, theme)
	if err != nil {
		return false, err
	}

	finalModel, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(ProgressModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
