package style

import "github.com/charmbracelet/lipgloss"

var (
	CrossIcon   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).SetString("✗").Bold(true)
	TickIcon    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).SetString("✓").Bold(true)
	ActiveIcon  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).SetString("●").Bold(true)
	PendingIcon = lipgloss.NewStyle().Foreground(lipgloss.Color("178")).SetString("◌")
	ChevronIcon = lipgloss.NewStyle().Foreground(lipgloss.Color("251")).SetString("> ").Bold(true)
)
