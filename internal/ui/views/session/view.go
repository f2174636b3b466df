package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	tastingdto "cuplog/internal/modules/tasting/dto"
	apperrors "cuplog/internal/platform/errors"
	"cuplog/internal/ui/theme"
)

const firstStep = "mode-selection"

type Port interface {
	Start(ctx context.Context, mode string) (tastingdto.SessionOutput, error)
	Show(ctx context.Context) (tastingdto.SessionOutput, error)
	Discard(ctx context.Context) error
	Next(ctx context.Context, from string) (tastingdto.NavigateOutput, error)
	Back(ctx context.Context, from string) (tastingdto.NavigateOutput, error)
	Save(ctx context.Context, userID string) (tastingdto.SaveOutput, error)
	SetCoffeeInfo(ctx context.Context, input tastingdto.CoffeeInfo) (tastingdto.SessionOutput, error)
	SetFlavors(ctx context.Context, pairs []string) (tastingdto.SessionOutput, error)
	SetComment(ctx context.Context, comment string) (tastingdto.SessionOutput, error)
}

// LoadedMsg carries the session after a load or an edit.
type LoadedMsg struct {
	Session tastingdto.SessionOutput
	Started bool
	Err     error
}

type NavigatedMsg struct {
	Out tastingdto.NavigateOutput
	Err error
}

// SavedMsg is also consumed by the app to refresh the journal.
type SavedMsg struct {
	Out tastingdto.SaveOutput
	Err error
}

type DiscardedMsg struct{ Err error }

// Model walks the active tasting through its steps.
type Model struct {
	port     Port
	userID   string
	session  tastingdto.SessionOutput
	active   bool
	step     string
	status   string
	progress progress.Model
	width    int
	height   int
}

func New(port Port, userID string) Model {
	bar := progress.New(progress.WithGradient(string(theme.Husk), string(theme.Caramel)), progress.WithoutPercentage())
	return Model{port: port, userID: userID, step: firstStep, progress: bar}
}

func (m Model) Init() tea.Cmd {
	return m.load()
}

func (m Model) load() tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Show(context.Background())
		return LoadedMsg{Session: out, Err: err}
	}
}

func (m Model) StartCmd(mode string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Start(context.Background(), mode)
		return LoadedMsg{Session: out, Started: true, Err: err}
	}
}

func (m Model) NextCmd() tea.Cmd {
	from := m.step
	return func() tea.Msg {
		out, err := m.port.Next(context.Background(), from)
		return NavigatedMsg{Out: out, Err: err}
	}
}

func (m Model) BackCmd() tea.Cmd {
	from := m.step
	return func() tea.Msg {
		out, err := m.port.Back(context.Background(), from)
		return NavigatedMsg{Out: out, Err: err}
	}
}

func (m Model) SaveCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Save(context.Background(), m.userID)
		return SavedMsg{Out: out, Err: err}
	}
}

func (m Model) DiscardCmd() tea.Cmd {
	return func() tea.Msg {
		return DiscardedMsg{Err: m.port.Discard(context.Background())}
	}
}

func (m Model) CoffeeCmd(info tastingdto.CoffeeInfo) tea.Cmd {
	return m.edit(func(ctx context.Context) (tastingdto.SessionOutput, error) {
		return m.port.SetCoffeeInfo(ctx, info)
	})
}

func (m Model) FlavorsCmd(pairs []string) tea.Cmd {
	return m.edit(func(ctx context.Context) (tastingdto.SessionOutput, error) {
		return m.port.SetFlavors(ctx, pairs)
	})
}

func (m Model) CommentCmd(comment string) tea.Cmd {
	return m.edit(func(ctx context.Context) (tastingdto.SessionOutput, error) {
		return m.port.SetComment(ctx, comment)
	})
}

func (m Model) edit(fn func(context.Context) (tastingdto.SessionOutput, error)) tea.Cmd {
	return func() tea.Msg {
		out, err := fn(context.Background())
		return LoadedMsg{Session: out, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(min(m.width-8, 60), 10)

	case LoadedMsg:
		if msg.Err != nil {
			if errors.Is(msg.Err, apperrors.ErrNoActiveSession) {
				m.active = false
				m.status = "no active tasting"
			} else {
				m.status = msg.Err.Error()
			}
			return m, nil
		}
		m.session = msg.Session
		m.active = true
		if msg.Started || !m.onPath(m.step) {
			m.step = firstStep
		}
		m.status = "saved to draft"

	case NavigatedMsg:
		if msg.Err != nil {
			m.status = msg.Err.Error()
			return m, nil
		}
		m.step = msg.Out.Step
		if msg.Out.Kind != "resolved" {
			m.status = "back to mode selection (" + msg.Out.Kind + ")"
		} else {
			m.status = ""
		}

	case SavedMsg:
		if msg.Err != nil {
			m.status = "save failed: " + msg.Err.Error()
			return m, nil
		}
		m.reset()
		m.status = fmt.Sprintf("saved %s: %d", msg.Out.Record.CoffeeInfo.CoffeeName, msg.Out.Record.MatchScore.Total)

	case DiscardedMsg:
		if msg.Err != nil {
			m.status = "discard failed: " + msg.Err.Error()
			return m, nil
		}
		m.reset()
		m.status = "discarded"

	case tea.KeyMsg:
		if !m.active {
			return m, nil
		}
		switch msg.String() {
		case "n", "right":
			return m, m.NextCmd()
		case "b", "left":
			return m, m.BackCmd()
		}
	}
	return m, nil
}

func (m Model) View() string {
	if !m.active {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Muted.Render("No tasting in progress.\n\n:start cafe | homecafe | pro"))
	}

	var sb strings.Builder
	sb.WriteString(theme.Title.Render(strings.ToUpper(m.session.Mode)+" tasting") + "\n\n")
	sb.WriteString(m.renderPath() + "\n")
	sb.WriteString(m.progress.ViewAs(m.completion()) + "\n\n")
	sb.WriteString(m.renderSummary())
	sb.WriteString("\n" + theme.Muted.Render("n: next  b: back  :save  :discard"))
	if m.status != "" {
		sb.WriteString("\n" + theme.Muted.Render(m.status))
	}
	return theme.Pane.Width(max(m.width-2, 10)).Render(sb.String())
}

// Active reports whether a tasting is loaded.
func (m Model) Active() bool { return m.active }

// Step is the step the user is on.
func (m Model) Step() string { return m.step }

// Status is the last outcome shown under the session.
func (m Model) Status() string { return m.status }

// Session is the loaded snapshot.
func (m Model) Session() tastingdto.SessionOutput { return m.session }

func (m *Model) reset() {
	m.active = false
	m.session = tastingdto.SessionOutput{}
	m.step = firstStep
}

func (m Model) onPath(step string) bool {
	for _, s := range m.session.Path {
		if s == step {
			return true
		}
	}
	return false
}

func (m Model) completion() float64 {
	if len(m.session.Path) < 2 {
		return 0
	}
	for i, s := range m.session.Path {
		if s == m.step {
			return float64(i) / float64(len(m.session.Path)-1)
		}
	}
	return 0
}

func (m Model) renderPath() string {
	parts := make([]string, len(m.session.Path))
	for i, s := range m.session.Path {
		if s == m.step {
			parts[i] = theme.Hot.Render("[" + s + "]")
		} else {
			parts[i] = theme.Muted.Render(s)
		}
	}
	return strings.Join(parts, theme.Muted.Render(" › "))
}

func (m Model) renderSummary() string {
	s := m.session
	var sb strings.Builder
	row := func(label, value string) {
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("%-10s", label)) + value + "\n")
	}
	if s.CoffeeInfo != nil {
		coffee := s.CoffeeInfo.CoffeeName
		if s.CoffeeInfo.CafeName != "" {
			coffee += " @ " + s.CoffeeInfo.CafeName
		}
		row("coffee", coffee)
	}
	if s.BrewSettings != nil {
		recipe := s.BrewSettings.Dripper
		if r := s.BrewSettings.Recipe.Ratio; r != nil {
			recipe += fmt.Sprintf(" 1:%.1f", *r)
		}
		row("brew", strings.TrimSpace(recipe))
	}
	if s.ExperimentalData != nil && s.ExperimentalData.TDS != nil {
		row("tds", fmt.Sprintf("%.2f", *s.ExperimentalData.TDS))
	}
	if len(s.SelectedFlavors) > 0 {
		names := make([]string, len(s.SelectedFlavors))
		for i, f := range s.SelectedFlavors {
			names[i] = f.Text
		}
		row("flavors", strings.Join(names, ", "))
	}
	if len(s.SensoryExpressions) > 0 {
		row("sensory", fmt.Sprintf("%d notes", len(s.SensoryExpressions)))
	}
	if s.SensorySliderData != nil {
		axes := make([]string, 0, len(s.SensorySliderData.Ratings))
		for axis := range s.SensorySliderData.Ratings {
			axes = append(axes, axis)
		}
		sort.Strings(axes)
		row("mouthfeel", fmt.Sprintf("%.1f (%s)", s.SensorySliderData.Overall, strings.Join(axes, ", ")))
	}
	if s.PersonalComment != nil {
		row("comment", *s.PersonalComment)
	}
	if s.RoasterNotes != nil {
		row("roaster", *s.RoasterNotes)
	}
	return sb.String()
}
