package journal

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	tastingdto "cuplog/internal/modules/tasting/dto"
	"cuplog/internal/ui/theme"
)

type Port interface {
	ListRecords(ctx context.Context, userID string) ([]tastingdto.RecordOutput, error)
	Statistics(ctx context.Context, coffeeName string) (*tastingdto.StatisticsOutput, error)
}

type RecordsLoadedMsg struct {
	Records []tastingdto.RecordOutput
	Err     error
}

type StatsLoadedMsg struct {
	CoffeeName string
	Stats      *tastingdto.StatisticsOutput
	Err        error
}

type recordItem struct {
	record tastingdto.RecordOutput
}

func (i recordItem) Title() string {
	return i.record.CoffeeInfo.CoffeeName
}

func (i recordItem) Description() string {
	return fmt.Sprintf("%s  %s  %d", i.record.Mode, i.record.CreatedAt.Local().Format("2006-01-02 15:04"), i.record.MatchScore.Total)
}

func (i recordItem) FilterValue() string {
	return i.record.CoffeeInfo.CoffeeName + " " + i.record.CoffeeInfo.CafeName
}

// Model lists saved tastings with a detail pane for the selection and its coffee's statistics.
type Model struct {
	port    Port
	userID  string
	list    list.Model
	detail  viewport.Model
	spinner spinner.Model
	stats   map[string]*tastingdto.StatisticsOutput
	loading bool
	width   int
	height  int
}

func New(port Port, userID string) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Caramel).BorderForeground(theme.Caramel)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Latte).BorderForeground(theme.Caramel)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Journal"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Background(theme.Roast).Foreground(theme.Crema).Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Caramel)

	return Model{
		port:    port,
		userID:  userID,
		list:    l,
		detail:  vp,
		spinner: sp,
		stats:   map[string]*tastingdto.StatisticsOutput{},
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

// Reload fetches the user's records again, e.g. after a save.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return RecordsLoadedMsg{}
		}
		records, err := m.port.ListRecords(context.Background(), m.userID)
		return RecordsLoadedMsg{Records: records, Err: err}
	}
}

// LoadStats fetches statistics for one coffee name.
func (m Model) LoadStats(coffeeName string) tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return StatsLoadedMsg{CoffeeName: coffeeName}
		}
		stats, err := m.port.Statistics(context.Background(), coffeeName)
		return StatsLoadedMsg{CoffeeName: coffeeName, Stats: stats, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case RecordsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Journal: " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = "Journal"
		items := make([]list.Item, len(msg.Records))
		for i, r := range msg.Records {
			items[i] = recordItem{record: r}
		}
		cmds = append(cmds, m.list.SetItems(items))
		if len(msg.Records) > 0 {
			cmds = append(cmds, m.LoadStats(msg.Records[0].CoffeeInfo.CoffeeName))
		}
		m.detail.SetContent(m.renderDetail())

	case StatsLoadedMsg:
		if msg.Err == nil {
			m.stats[msg.CoffeeName] = msg.Stats
		}
		m.detail.SetContent(m.renderDetail())

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			if item, ok := m.list.SelectedItem().(recordItem); ok {
				if _, cached := m.stats[item.record.CoffeeInfo.CoffeeName]; !cached {
					cmds = append(cmds, m.LoadStats(item.record.CoffeeInfo.CoffeeName))
				}
			}
			m.detail.SetContent(m.renderDetail())
		}

		var vCmd tea.Cmd
		m.detail, vCmd = m.detail.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading journal…")
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().Width(listW).Height(m.height).Render(m.list.View())
	detailPane := theme.Pane.Padding(0).Width(detailW - 2).Height(m.height - 2).Render(m.detail.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// Filtering reports whether the list's search filter is open.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Len is the number of records shown.
func (m Model) Len() int {
	return len(m.list.Items())
}

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.detail.Width = detailW - 4
	m.detail.Height = m.height - 4
}

func (m Model) renderDetail() string {
	item, ok := m.list.SelectedItem().(recordItem)
	if !ok {
		return theme.Muted.Render("No tastings yet. Start one from the Session tab.")
	}
	r := item.record
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(r.CoffeeInfo.CoffeeName) + "\n\n")
	row := func(label, value string) {
		if value != "" {
			sb.WriteString(theme.Muted.Render(fmt.Sprintf("%-9s", label)) + value + "\n")
		}
	}
	row("mode:", r.Mode)
	row("cafe:", r.CoffeeInfo.CafeName)
	row("roastery:", r.CoffeeInfo.Roastery)
	row("origin:", r.CoffeeInfo.Origin)
	row("process:", r.CoffeeInfo.Process)
	if r.Duration != nil {
		row("time:", fmt.Sprintf("%dm%02ds", *r.Duration/60, *r.Duration%60))
	}

	score := r.MatchScore
	sb.WriteString("\n" + theme.Score(score.Total).Render(fmt.Sprintf("%d", score.Total)) +
		theme.Muted.Render(fmt.Sprintf("  flavor %d · sensory %d · bonus %d", score.FlavorMatch, score.SensoryMatch, score.RoasterBonus)) + "\n")

	if len(r.SelectedFlavors) > 0 {
		names := make([]string, len(r.SelectedFlavors))
		for i, f := range r.SelectedFlavors {
			names[i] = f.Text
		}
		sb.WriteString("\n" + theme.Muted.Render("flavors  ") + strings.Join(names, ", ") + "\n")
	}
	if r.SensorySkipped {
		sb.WriteString(theme.Muted.Render("sensory  skipped") + "\n")
	}
	if r.PersonalComment != nil && *r.PersonalComment != "" {
		sb.WriteString("\n" + *r.PersonalComment + "\n")
	}

	if stats := m.stats[r.CoffeeInfo.CoffeeName]; stats != nil {
		sb.WriteString("\n" + theme.Title.Render("This coffee") + "\n")
		sb.WriteString(fmt.Sprintf("%s%d  %s%d  %s%d  %s%d\n",
			theme.Muted.Render("cups "), stats.TotalRecords,
			theme.Muted.Render("avg "), stats.AverageScore,
			theme.Muted.Render("best "), stats.BestScore,
			theme.Muted.Render("latest "), stats.LatestScore))
	}
	return sb.String()
}
