package app

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	tastingdto "cuplog/internal/modules/tasting/dto"
	"cuplog/internal/ui/components"
	"cuplog/internal/ui/theme"
	flavorsview "cuplog/internal/ui/views/flavors"
	journalview "cuplog/internal/ui/views/journal"
	sessionview "cuplog/internal/ui/views/session"
)

// TastingPort is everything the TUI needs from the tasting module.
// Sub-views narrow it further.
type TastingPort interface {
	sessionview.Port
	ListRecords(ctx context.Context, userID string) ([]tastingdto.RecordOutput, error)
	Statistics(ctx context.Context, coffeeName string) (*tastingdto.StatisticsOutput, error)
	TopFlavors(ctx context.Context, limit int) ([]tastingdto.FlavorCountOutput, error)
	Reindex(ctx context.Context) (tastingdto.ReindexOutput, error)
}

type tabID int

const (
	tabSession tabID = iota
	tabJournal
	tabFlavors
	tabCount
)

var tabLabels = [tabCount]string{"Session", "Journal", "Flavors"}

type keyMap struct {
	Tab     key.Binding
	Next    key.Binding
	Back    key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Next:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next step")),
		Back:    key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "previous step")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "brew bar")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Next, k.Back},
		{k.Help, k.Palette, k.Quit},
	}
}

// Model is the root Bubble Tea model: tab routing, help overlay and the command palette.
// Rendering and port calls belong to the sub-views.
type Model struct {
	sessionView sessionview.Model
	journalView journalview.Model
	flavorsView flavorsview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

func NewModel(tasting TastingPort, userID string) Model {
	return Model{
		sessionView: sessionview.New(tasting, userID),
		journalView: journalview.New(tasting, userID),
		flavorsView: flavorsview.New(tasting),
		activeTab:   tabSession,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(),
		status:      "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.sessionView.Init(),
		m.journalView.Init(),
		m.flavorsView.Init(),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	// Session results are routed to the session view whatever tab is showing.
	case sessionview.LoadedMsg, sessionview.NavigatedMsg, sessionview.DiscardedMsg:
		var cmd tea.Cmd
		m.sessionView, cmd = m.sessionView.Update(msg)
		m.status = m.sessionView.Status()
		return m, cmd

	case sessionview.SavedMsg:
		var cmd tea.Cmd
		m.sessionView, cmd = m.sessionView.Update(msg)
		m.status = m.sessionView.Status()
		if msg.Err == nil {
			cmds = append(cmds, cmd, m.journalView.Reload(), m.flavorsView.Reload())
			return m, tea.Batch(cmds...)
		}
		return m, cmd

	case journalview.RecordsLoadedMsg, journalview.StatsLoadedMsg:
		var cmd tea.Cmd
		m.journalView, cmd = m.journalView.Update(msg)
		return m, cmd

	case flavorsview.LoadedMsg, flavorsview.ReindexedMsg:
		var cmd tea.Cmd
		m.flavorsView, cmd = m.flavorsView.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		if m.activeTab == tabJournal && m.journalView.Filtering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		}
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabSession:
		m.sessionView, tabCmd = m.sessionView.Update(msg)
	case tabJournal:
		m.journalView, tabCmd = m.journalView.Update(msg)
	case tabFlavors:
		m.flavorsView, tabCmd = m.flavorsView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()

	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabSession:
		return m.sessionView.View()
	case tabJournal:
		return m.journalView.View()
	case tabFlavors:
		return m.flavorsView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + tabLabels[i] + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + tabLabels[i] + " ")
		}
	}
	bar := "cuplog  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Espresso).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.sessionView.Active() {
		left = theme.Hot.Render("● "+m.sessionView.Step()) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  ::bar  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return "\n" + lipgloss.NewStyle().Background(theme.Espresso).Width(m.width).Render(left+strings.Repeat(" ", gap)+right)
}

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}
	rest := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))

	switch parts[0] {
	case "start":
		if len(parts) != 2 {
			m.status = "usage: start <cafe|homecafe|pro>"
			return m, nil
		}
		m.activeTab = tabSession
		return m, m.sessionView.StartCmd(parts[1])
	case "next":
		return m, m.sessionView.NextCmd()
	case "back":
		return m, m.sessionView.BackCmd()
	case "coffee":
		if len(parts) < 2 {
			m.status = "usage: coffee <name> [cafe]"
			return m, nil
		}
		info := tastingdto.CoffeeInfo{CoffeeName: parts[1]}
		if len(parts) > 2 {
			info.CafeName = strings.Join(parts[2:], " ")
		}
		return m, m.sessionView.CoffeeCmd(info)
	case "flavors":
		if len(parts) < 2 {
			m.status = "usage: flavors <id=text>..."
			return m, nil
		}
		return m, m.sessionView.FlavorsCmd(parts[1:])
	case "comment":
		return m, m.sessionView.CommentCmd(rest)
	case "save":
		return m, m.sessionView.SaveCmd()
	case "discard":
		return m, m.sessionView.DiscardCmd()
	case "stats":
		if rest == "" {
			m.status = "usage: stats <coffee>"
			return m, nil
		}
		m.activeTab = tabJournal
		return m, m.journalView.LoadStats(rest)
	case "refresh":
		return m, tea.Batch(m.journalView.Reload(), m.flavorsView.Reload())
	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.sessionView, _ = m.sessionView.Update(sz)
	m.journalView, _ = m.journalView.Update(sz)
	m.flavorsView, _ = m.flavorsView.Update(sz)
}
