// Package review provides a read-only TUI over per-commit annotation
// outcomes, for eyeballing what a pass will do before the host pipeline
// runs it.
package review

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/releasetrain/tracelink/internal/annotate"
	"github.com/releasetrain/tracelink/internal/changelog"
	"github.com/releasetrain/tracelink/internal/ticket"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	helpStyle  = lipgloss.NewStyle().Faint(true).Padding(0, 1)
	baseStyle  = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))
)

// Model is the review screen: one table row per commit with the detected
// ticket or the skip reason.
type Model struct {
	table    table.Model
	outcomes []annotate.Outcome
	baseURL  string
	width    int
	height   int
}

// New builds the review model for a commit collection without mutating it.
func New(commits []*changelog.Commit, opts annotate.Options) Model {
	outcomes := annotate.Inspect(commits, opts)

	columns := []table.Column{
		{Title: "COMMIT", Width: 9},
		{Title: "BRANCH", Width: 32},
		{Title: "TICKET", Width: 14},
		{Title: "OUTCOME", Width: 24},
	}

	rows := make([]table.Row, 0, len(outcomes))
	for i, o := range outcomes {
		rows = append(rows, table.Row{
			shortHash(commits[i]),
			o.Branch,
			o.Ticket,
			outcomeText(o),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(len(rows)+1),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(s)

	return Model{table: t, outcomes: outcomes, baseURL: opts.BaseURL}
}

func shortHash(c *changelog.Commit) string {
	if c.Hash == "" {
		return "-"
	}
	return c.ShortHash()
}

func outcomeText(o annotate.Outcome) string {
	if o.Skip != annotate.SkipNone {
		return "skip: " + string(o.Skip)
	}
	return "link " + o.Ticket
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if h := msg.Height - 6; h > 1 && h < len(m.outcomes)+1 {
			m.table.SetHeight(h)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	header := titleStyle.Render(fmt.Sprintf("tracelink review — %d commits, %d links", len(m.outcomes), m.linkCount()))
	footer := helpStyle.Render("↑/↓ move · q quit")

	if sel := m.selected(); sel != nil && sel.Ticket != "" {
		footer = helpStyle.Render(ticket.BrowseURL(sel.Ticket, m.baseURL)) + "\n" + footer
	}

	return header + "\n" + baseStyle.Render(m.table.View()) + "\n" + footer
}

func (m Model) selected() *annotate.Outcome {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.outcomes) {
		return nil
	}
	return &m.outcomes[i]
}

func (m Model) linkCount() int {
	n := 0
	for _, o := range m.outcomes {
		if o.Skip == annotate.SkipNone {
			n++
		}
	}
	return n
}
