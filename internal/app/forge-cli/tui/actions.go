package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"pkg.world.dev/forge-cli/internal/app/forge-cli/deployments"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/models"
	"pkg.world.dev/forge-cli/internal/pkg/tea/component/multispinner"
)

// pendingAction waits for the user to confirm it.
type pendingAction struct {
	kind       actionKind
	deployment models.Deployment
	// origin is the screen the action was requested from.
	origin screen
}

func (p pendingAction) prompt() string {
	d := p.deployment
	switch p.kind {
	case actionStop:
		return fmt.Sprintf("Stop deployment %s? (y/n)", d.DeploymentID)
	case actionRedeploy, actionRedeployWithSourceEnv:
	}
	verb := "Roll back to"
	if deployments.KindFor(d) == deployments.ActionRedeploy {
		verb = "Redeploy"
	}
	envVars := "the project's current environment variables"
	if p.kind == actionRedeployWithSourceEnv {
		envVars = "the environment variables of " + d.DeploymentID
	}
	return fmt.Sprintf("%s %s using %s? (y/n)", verb, d.DeploymentID, envVars)
}

// progress describes the action while it runs.
func (p pendingAction) progress() string {
	switch {
	case p.kind == actionStop:
		return "Stopping"
	case deployments.KindFor(p.deployment) == deployments.ActionRedeploy:
		return "Redeploying"
	default:
		return "Rolling back to"
	}
}

// handleActionKey offers an action only when it is available for d.
func (m Model) handleActionKey(msg tea.KeyMsg, d models.Deployment) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "s":
		if m.rt.actions.CanStop(d) {
			m.pending = &pendingAction{kind: actionStop, deployment: d, origin: m.screen}
		}
	case "r":
		if m.rt.actions.CanRollback(d) {
			m.pending = &pendingAction{kind: actionRedeploy, deployment: d, origin: m.screen}
		}
	case "R":
		if m.rt.actions.CanRollback(d) {
			m.pending = &pendingAction{kind: actionRedeployWithSourceEnv, deployment: d, origin: m.screen}
		}
	case "l":
		if d.Status.CanViewLogs() {
			return m.openLogs(d)
		}
	}
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		action := *m.pending
		m.pending = nil
		m.taskSeq++
		task := fmt.Sprintf("action-%d", m.taskSeq)
		tick := m.tasks.Start(multispinner.ProcessState{
			Name:   task,
			State:  action.progress(),
			Detail: action.deployment.DeploymentID,
		})
		return m, tea.Batch(m.runAction(action, task), tick)
	case "n", "N", "esc":
		m.pending = nil
	}
	return m, nil
}

func (m Model) runAction(a pendingAction, task string) tea.Cmd {
	actions, ctx := m.rt.actions, m.ctx
	return func() tea.Msg {
		if a.kind == actionStop {
			err := actions.Stop(ctx, a.deployment)
			return actionDoneMsg{task: task, kind: a.kind, origin: a.origin, source: a.deployment, err: err}
		}
		newID, err := actions.RollbackOrRedeploy(ctx, a.deployment, a.kind == actionRedeployWithSourceEnv)
		return actionDoneMsg{task: task, kind: a.kind, origin: a.origin, source: a.deployment, newID: newID, err: err}
	}
}

// handleActionDone brings the user back to the deployment list after a successful rollback or
// redeploy, where the new deployment shows up with the refetch. Failures were already shown as
// a toast and leave the view as it was.
func (m Model) handleActionDone(msg actionDoneMsg) (tea.Model, tea.Cmd) {
	m.tasks.Done(msg.task)
	if msg.err != nil {
		if errors.Is(msg.err, deployments.ErrActionInFlight) {
			return m, func() tea.Msg { return toastMsg{ok: false, text: "Another action is still running"} }
		}
		return m, nil
	}
	if msg.kind == actionStop {
		return m, nil
	}
	// the user may have moved on while the action ran
	if msg.origin == screenDetail && m.screen == screenDetail && m.detailID == msg.source.DeploymentID {
		m.stopDetailPoller()
		m.screen = screenGroups
	}
	return m, m.refreshGroups()
}
