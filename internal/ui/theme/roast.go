package theme

import "github.com/charmbracelet/lipgloss"

var (
	Espresso  = lipgloss.Color("#1b1410")
	Roast     = lipgloss.Color("#241a15")
	Husk      = lipgloss.Color("#3a2c24")
	Parchment = lipgloss.Color("#5a4638")
	Crema     = lipgloss.Color("#eadbc8")
	Latte     = lipgloss.Color("#b8a089")
	Caramel   = lipgloss.Color("#d9a05b")
	Cherry    = lipgloss.Color("#c8553d")
	Leaf      = lipgloss.Color("#8fb07a")
	Honey     = lipgloss.Color("#f2c572")

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Parchment).
		Background(Roast).
		Foreground(Crema).
		Padding(1)

	Title = lipgloss.NewStyle().Foreground(Caramel).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Latte)
	Hot   = lipgloss.NewStyle().Foreground(Honey).Bold(true)
	Good  = lipgloss.NewStyle().Foreground(Leaf)
	Bad   = lipgloss.NewStyle().Foreground(Cherry)
)

// Score colors a 0..100 total: green from 90, amber from 80, red below.
func Score(total int) lipgloss.Style {
	switch {
	case total >= 90:
		return Good.Bold(true)
	case total >= 80:
		return Hot
	default:
		return Bad
	}
}
