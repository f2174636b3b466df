package flavors

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	tastingdto "cuplog/internal/modules/tasting/dto"
	"cuplog/internal/ui/theme"
)

const topLimit = 25

type Port interface {
	TopFlavors(ctx context.Context, limit int) ([]tastingdto.FlavorCountOutput, error)
	Reindex(ctx context.Context) (tastingdto.ReindexOutput, error)
}

type LoadedMsg struct {
	Flavors []tastingdto.FlavorCountOutput
	Err     error
}

type ReindexedMsg struct {
	Out tastingdto.ReindexOutput
	Err error
}

// Model ranks the flavors picked across all saved tastings.
type Model struct {
	port   Port
	table  table.Model
	status string
	width  int
	height int
}

func New(port Port) Model {
	t := table.New(
		table.WithColumns(columns(60)),
		table.WithFocused(true),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(theme.Caramel).BorderForeground(theme.Parchment).Bold(true)
	styles.Selected = styles.Selected.Foreground(theme.Espresso).Background(theme.Caramel)
	t.SetStyles(styles)
	return Model{port: port, table: t}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{}
		}
		flavors, err := m.port.TopFlavors(context.Background(), topLimit)
		return LoadedMsg{Flavors: flavors, Err: err}
	}
}

func (m Model) reindex() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return ReindexedMsg{}
		}
		out, err := m.port.Reindex(context.Background())
		return ReindexedMsg{Out: out, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetColumns(columns(m.width))
		m.table.SetHeight(max(m.height-4, 3))
		return m, nil

	case LoadedMsg:
		if msg.Err != nil {
			m.status = "load failed: " + msg.Err.Error()
			return m, nil
		}
		rows := make([]table.Row, len(msg.Flavors))
		for i, f := range msg.Flavors {
			rows[i] = table.Row{strconv.Itoa(i + 1), f.Text, f.FlavorID, strconv.Itoa(f.Count)}
		}
		m.table.SetRows(rows)
		m.status = fmt.Sprintf("%d flavors", len(rows))
		return m, nil

	case ReindexedMsg:
		if msg.Err != nil {
			m.status = "reindex failed: " + msg.Err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("reindexed %d records", msg.Out.Records)
		return m, m.Reload()

	case tea.KeyMsg:
		if msg.String() == "r" {
			m.status = "reindexing…"
			return m, m.reindex()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.table.Rows()) == 0 && m.status != "" && m.status != "0 flavors" {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, theme.Muted.Render(m.status))
	}
	if len(m.table.Rows()) == 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Muted.Render("No flavors recorded yet. r: rebuild index"))
	}
	footer := theme.Muted.Render(m.status + "  r: rebuild index")
	return lipgloss.JoinVertical(lipgloss.Left, theme.Title.Render("Top flavors"), m.table.View(), footer)
}

// Status is the last load or reindex outcome.
func (m Model) Status() string {
	return m.status
}

// Rows exposes the rendered ranking.
func (m Model) Rows() []table.Row {
	return m.table.Rows()
}

func columns(width int) []table.Column {
	name := max(width-6-24-8-8, 12)
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "Flavor", Width: name},
		{Title: "ID", Width: 24},
		{Title: "Cups", Width: 6},
	}
}
