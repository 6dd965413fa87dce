package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"pkg.world.dev/forge-cli/internal/app/forge-cli/clients/api"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/deployments"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/models"
	"pkg.world.dev/forge-cli/internal/pkg/tea/style"
)

const buildLogLines = 10

// openDetail switches to the detail screen of id and starts polling it.
func (m Model) openDetail(id string) (tea.Model, tea.Cmd) {
	m.stopLogs()
	m.screen = screenDetail
	if m.detailID != id {
		m.detail = nil
		m.detailErr = nil
	}
	m.detailID = id
	return m, m.startDetailPoller(id)
}

func (m Model) startDetailPoller(id string) tea.Cmd {
	m.stopDetailPoller()
	ctx, cancel := context.WithCancel(m.ctx)
	send := m.send
	poller := deployments.NewDeploymentPoller(m.opts.Client, m.opts.Project, id, m.opts.PollInterval,
		func(result deployments.PollResult[models.Deployment]) {
			send(detailMsg{id: id, result: result})
		})
	m.rt.detailPoller = poller
	m.rt.detailCancel = cancel
	m.rt.detailRunning = true
	return func() tea.Msg {
		return detailStoppedMsg{poller: poller, err: poller.Run(ctx)}
	}
}

func (m Model) stopDetailPoller() {
	if m.rt.detailCancel != nil {
		m.rt.detailCancel()
		m.rt.detailCancel = nil
	}
	m.rt.detailRunning = false
}

func (m Model) handleDetail(msg detailMsg) Model {
	// results of a poller for a deployment that is no longer shown
	if msg.id != m.detailID {
		return m
	}
	if msg.result.Err != nil {
		m.detailErr = msg.result.Err
		return m
	}
	d := msg.result.Value
	m.detail = &d
	m.detailErr = nil
	return m
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace":
		m.stopDetailPoller()
		m.screen = screenGroups
		return m, m.refresh()
	case "f":
		return m, m.refresh()
	}
	if m.detail == nil {
		return m, nil
	}
	return m.handleActionKey(msg, *m.detail)
}

func (m Model) detailView() string {
	if m.detailErr != nil {
		return style.ErrorText.Render("Failed to load deployment: "+api.UserMessage(m.detailErr)) +
			"\n" + style.Muted.Render("press f to retry")
	}
	if m.detail == nil {
		return style.Muted.Render("Loading " + m.detailID + "...")
	}
	d := *m.detail

	var sb strings.Builder
	sb.WriteString(style.Title.Render("Deployment "+d.DeploymentID) + "\n")
	field := func(name, value string) {
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(&sb, "  %-11s %s\n", name+":", value)
	}
	field("Status", string(d.Status))
	field("Group", d.Group())
	if d.IsActive {
		field("Active", "yes")
	}
	field("Image", d.Image)
	field("URL", d.PrimaryURL)
	if len(d.CustomDomainURLs) > 0 {
		field("Domains", strings.Join(d.CustomDomainURLs, ", "))
	}
	field("Created", d.Created)
	field("Created by", d.CreatedByEmail)
	if d.ErrorMessage != nil && *d.ErrorMessage != "" {
		sb.WriteString(style.ErrorText.Render("  "+*d.ErrorMessage) + "\n")
	}

	sb.WriteString("\n" + style.Title.Render("Timeline") + "\n")
	events := deployments.BuildTimeline(d)
	if len(events) == 0 {
		sb.WriteString(style.Muted.Render("  No lifecycle events recorded.") + "\n")
	}
	for _, group := range deployments.GroupByPhase(events) {
		sb.WriteString("  " + style.Selected.Render(string(group.Phase)) + "\n")
		for _, e := range group.Events {
			fmt.Fprintf(&sb, "    %-32s %-28s %s\n", e.Label, e.Timestamp, style.Muted.Render(e.Delta))
		}
	}

	if m.opts.Features[FeatureBuildLogs] && d.BuildLogs != nil && *d.BuildLogs != "" {
		sb.WriteString("\n" + style.Title.Render("Build output") + "\n")
		lines := strings.Split(strings.TrimRight(*d.BuildLogs, "\n"), "\n")
		if len(lines) > buildLogLines {
			lines = lines[len(lines)-buildLogLines:]
		}
		for _, line := range lines {
			sb.WriteString(style.Muted.Render("  "+line) + "\n")
		}
	}
	return sb.String()
}
