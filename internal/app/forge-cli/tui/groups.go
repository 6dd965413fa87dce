package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"pkg.world.dev/forge-cli/internal/app/forge-cli/clients/api"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/deployments"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/models"
	"pkg.world.dev/forge-cli/internal/pkg/tea/style"
)

// row is one selectable deployment on the groups screen.
type row struct {
	group      string
	deployment models.Deployment
	active     bool
}

// flatten lists each group's active deployment followed by its other in-flight deployments.
func flatten(groups []deployments.GroupView) []row {
	rows := []row{}
	for _, g := range groups {
		activeID := ""
		if g.Active != nil {
			activeID = g.Active.DeploymentID
			rows = append(rows, row{group: g.Name, deployment: *g.Active, active: true})
		}
		for _, d := range g.Progressing {
			if d.DeploymentID == activeID {
				continue
			}
			rows = append(rows, row{group: g.Name, deployment: d})
		}
	}
	return rows
}

func (m Model) handleGroups(result deployments.PollResult[deployments.Snapshot]) Model {
	if result.Err != nil {
		m.groupsErr = result.Err
		return m
	}
	m.groupsErr = nil
	m.groupsLoaded = true
	m.snapshot = result.Value

	// keep the cursor on the same deployment across refreshes
	var selectedID string
	if r, ok := m.selectedRow(); ok {
		selectedID = r.deployment.DeploymentID
	}
	m.rows = flatten(result.Value.Groups)
	m.cursor = min(m.cursor, max(len(m.rows)-1, 0))
	for i, r := range m.rows {
		if r.deployment.DeploymentID == selectedID {
			m.cursor = i
			break
		}
	}
	return m
}

func (m Model) selectedRow() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

func (m Model) handleGroupsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		return m, nil
	case "f":
		return m, m.refresh()
	}

	r, ok := m.selectedRow()
	if !ok {
		return m, nil
	}
	switch msg.String() {
	case "enter":
		return m.openDetail(r.deployment.DeploymentID)
	default:
		return m.handleActionKey(msg, r.deployment)
	}
}

func (m Model) groupsView() string {
	if m.groupsErr != nil {
		return style.ErrorText.Render("Failed to load deployments: "+api.UserMessage(m.groupsErr)) +
			"\n" + style.Muted.Render("press f to retry")
	}
	if !m.groupsLoaded {
		return style.Muted.Render("Loading deployments...")
	}
	if len(m.rows) == 0 {
		return style.Muted.Render("No active or in-flight deployments.")
	}

	var sb strings.Builder
	lastGroup := ""
	for i, r := range m.rows {
		if r.group != lastGroup {
			if lastGroup != "" {
				sb.WriteString("\n")
			}
			sb.WriteString(style.Title.Render(r.group) + "\n")
			lastGroup = r.group
		}
		icon := style.PendingIcon.String()
		if r.active {
			icon = style.ActiveIcon.String()
		}
		line := fmt.Sprintf("%s %-24s %-12s %s", icon, r.deployment.DeploymentID, r.deployment.Status, r.deployment.Created)
		if i == m.cursor {
			sb.WriteString(style.ChevronIcon.String() + style.Selected.Render(line) + "\n")
		} else {
			sb.WriteString("  " + line + "\n")
		}
	}
	return sb.String()
}
