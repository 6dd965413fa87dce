package style

import "github.com/charmbracelet/lipgloss"

var (
	Container = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0,
		1).BorderForeground(lipgloss.Color("#874BFD")) //nolint:mnd
	Title     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#874BFD"))
	Muted     = lipgloss.NewStyle().Faint(true)
	Selected  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	ErrorText = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	ToastOK   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	ToastFail = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	cliHeaderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(0, 2). //nolint:mnd
			Bold(true).
			Italic(true).
			Align(lipgloss.Center).
			Width(40) //nolint:mnd
)

func CLIHeader(title string, description string) string {
	return cliHeaderStyle.Render(title) + "\n" + description
}
