package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"pkg.world.dev/forge-cli/internal/app/forge-cli/clients/api"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/logstream"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/models"
	"pkg.world.dev/forge-cli/internal/pkg/tea/component/multispinner"
	"pkg.world.dev/forge-cli/internal/pkg/tea/style"
)

const loadLogsTask = "load-logs"

// openLogs switches to the log screen of d and starts following its logs.
func (m Model) openLogs(d models.Deployment) (tea.Model, tea.Cmd) {
	m.stopDetailPoller()
	m.stopLogs()

	send := m.send
	m.rt.session = logstream.NewSession(
		logstream.ClientOpener(m.opts.Client, m.opts.Project, d.DeploymentID),
		logstream.WithTail(m.tail.Value()),
		logstream.WithCapacity(m.opts.MaxLogLines),
		logstream.WithOnUpdate(func() { send(logsUpdatedMsg{}) }),
	)
	m.logTarget = d
	m.screen = screenLogs
	m.viewport.SetContent("")
	m.rt.session.Follow(m.ctx)
	return m, nil
}

// stopLogs aborts the current log stream, if any.
func (m Model) stopLogs() {
	if m.rt.session != nil {
		m.rt.session.Stop()
		m.rt.session = nil
	}
}

func (m Model) syncLogs() Model {
	if m.rt.session == nil {
		return m
	}
	m.viewport.SetContent(strings.Join(m.rt.session.Lines(), "\n"))
	if m.autoScroll {
		m.viewport.GotoBottom()
	}
	return m
}

// commitTail applies the tail field. A changed tail restarts a running stream.
func (m Model) commitTail() Model {
	m.tail.Edit(m.tailField.Value())
	value, changed := m.tail.Commit()
	m.tailField.SetValue(m.tail.Draft())
	m.tailField.Blur()
	if changed && m.rt.session != nil {
		// Commit only returns positive values
		_ = m.rt.session.SetTail(value)
	}
	return m
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.tailField.Focused() {
		switch msg.String() {
		case "enter", "esc", "tab":
			return m.commitTail(), nil
		}
		var cmd tea.Cmd
		m.tailField, cmd = m.tailField.Update(msg)
		m.tail.Edit(m.tailField.Value())
		return m, cmd
	}

	session := m.rt.session
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace":
		m.stopLogs()
		return m.openDetail(m.logTarget.DeploymentID)
	case "f":
		session.Follow(m.ctx)
		return m, nil
	case "x":
		session.Stop()
		return m, nil
	case "o":
		if m.tasks.Has(loadLogsTask) {
			return m, nil
		}
		tick := m.tasks.Start(multispinner.ProcessState{
			Name:   loadLogsTask,
			State:  "Loading logs of",
			Detail: m.logTarget.DeploymentID,
		})
		ctx := m.ctx
		load := func() tea.Msg { return logsLoadedMsg{err: session.Load(ctx)} }
		return m, tea.Batch(load, tick)
	case "c":
		session.Clear()
		return m, nil
	case "t":
		cmd := m.tailField.Focus()
		return m, cmd
	case "a":
		m.autoScroll = !m.autoScroll
		if m.autoScroll {
			m.viewport.GotoBottom()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) logsView() string {
	var sb strings.Builder
	state := "idle"
	if m.rt.session != nil {
		state = m.rt.session.State().String()
	}
	scroll := "off"
	if m.autoScroll {
		scroll = "on"
	}
	sb.WriteString(style.Title.Render("Logs · "+m.logTarget.DeploymentID) + " ")
	sb.WriteString(style.Muted.Render(fmt.Sprintf("%s · tail %d · auto-scroll %s", state, m.tail.Value(), scroll)))
	sb.WriteString("\n")
	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")
	if m.rt.session != nil && m.rt.session.State() == logstream.Error {
		sb.WriteString(style.ErrorText.Render("Log stream failed: "+api.UserMessage(m.rt.session.Err())) + "\n")
	}
	if m.tailField.Focused() {
		sb.WriteString(m.tailField.View() + "\n")
	}
	return sb.String()
}
