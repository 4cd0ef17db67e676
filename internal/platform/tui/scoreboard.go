package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/vovakirdan/tui-2048/internal/storage"
)

// Scoreboard layout constants
const (
	tableMinWidth = 50  // Below this the Source column is dropped
	maxScores     = 100 // Max results to load
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Back key.Binding
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b", "tab"),
			key.WithHelp("esc/tab", "back to board"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Scoreboard shows the best stored results. It runs inside Model rather
// than as its own program.
type Scoreboard struct {
	store   *storage.Store
	results []storage.Result
	stats   storage.Stats
	err     error
	table   table.Model
	help    help.Model
	keys    ScoreboardKeyMap
	width   int
	height  int
}

// NewScoreboard creates a scoreboard sized to the terminal.
func NewScoreboard(store *storage.Store, width, height int) Scoreboard {
	s := Scoreboard{
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	s.table = s.createTable()
	return s
}

// createTable creates a new table with appropriate columns.
func (s *Scoreboard) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Score", Width: 8},
		{Title: "Tile", Width: 6},
		{Title: "Moves", Width: 6},
		{Title: "Date", Width: 13},
	}
	if s.width-4 >= tableMinWidth+8 {
		columns = append(columns, table.Column{Title: "Source", Width: 6})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(s.height-10, 3)), // Leave room for header, stats, help
	)

	st := table.DefaultStyles()
	st.Header = st.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	st.Selected = st.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(st)

	return t
}

// Load reads results and stats from the store.
func (s *Scoreboard) Load() {
	s.results, s.err = nil, nil
	if s.store != nil {
		s.results, s.err = s.store.TopResults(maxScores)
		if s.err == nil {
			s.stats, s.err = s.store.Stats()
		}
	}
	s.updateTableRows()
}

// updateTableRows updates the table with current results.
func (s *Scoreboard) updateTableRows() {
	withSource := len(s.table.Columns()) > 5
	rows := lo.Map(s.results, func(r storage.Result, i int) table.Row {
		row := table.Row{
			fmt.Sprintf("#%d", i+1),
			strconv.Itoa(r.Score),
			strconv.Itoa(r.MaxTile),
			strconv.Itoa(r.Moves),
			r.CreatedAt.Local().Format("Jan 02 15:04"),
		}
		if withSource {
			row = append(row, r.Source)
		}
		return row
	})
	s.table.SetRows(rows)
	s.table.GotoTop()
}

// Resize adapts the table to a new terminal size.
func (s *Scoreboard) Resize(width, height int) {
	s.width = width
	s.height = height
	s.table = s.createTable()
	s.updateTableRows()
	s.help.Width = width
}

// Update handles scrolling. It reports whether the user asked to leave the
// scoreboard and whether they asked to quit.
func (s Scoreboard) Update(msg tea.Msg) (Scoreboard, tea.Cmd, bool, bool) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, s.keys.Quit):
			return s, nil, false, true
		case key.Matches(msg, s.keys.Back):
			return s, nil, true, false
		}
	}

	var cmd tea.Cmd
	s.table, cmd = s.table.Update(msg)
	return s, cmd, false, false
}

// View renders the scoreboard.
func (s Scoreboard) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	b.WriteString(titleStyle.Render(centerText("HIGH SCORES", s.width)))
	b.WriteString("\n\n")

	statsStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	stats := fmt.Sprintf("Games: %d   Best: %d   Best tile: %d   Average: %.0f",
		s.stats.Played, s.stats.Best, s.stats.BestTile, s.stats.Average)
	b.WriteString(statsStyle.Render(centerText(stats, s.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(s.renderTableContent()))

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(s.help.View(s.keys)))

	return b.String()
}

// renderTableContent renders the table or an empty/error message.
func (s Scoreboard) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case s.store == nil:
		return emptyStyle.Render("Scores are not being recorded.")
	case s.err != nil:
		return emptyStyle.Render("Could not load scores:\n" + s.err.Error())
	case len(s.results) == 0:
		return emptyStyle.Render("No scores recorded yet.\nPlay a game to set a high score!")
	}
	return s.table.View()
}

// centerText pads text with spaces to center it within width.
func centerText(text string, width int) string {
	pad := (width - lipgloss.Width(text)) / 2
	if pad <= 0 {
		return text
	}
	return strings.Repeat(" ", pad) + text
}
