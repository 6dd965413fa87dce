package tui

import (
	"pkg.world.dev/forge-cli/internal/app/forge-cli/deployments"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/models"
)

type (
	groupsMsg        deployments.PollResult[deployments.Snapshot]
	groupsStoppedMsg struct{ err error }

	detailMsg struct {
		id     string
		result deployments.PollResult[models.Deployment]
	}
	detailStoppedMsg struct {
		poller *deployments.Poller[models.Deployment]
		err    error
	}

	// logsUpdatedMsg is sent by the log session after every change.
	logsUpdatedMsg struct{}
	logsLoadedMsg  struct{ err error }

	toastMsg struct {
		ok   bool
		text string
	}
	toastExpiredMsg struct{ seq int }

	// refreshMsg asks for an authoritative refetch after an action.
	refreshMsg struct{}

	actionDoneMsg struct {
		task   string
		kind   actionKind
		origin screen
		source models.Deployment
		newID  string
		err    error
	}
)

type actionKind int

const (
	actionStop actionKind = iota
	actionRedeploy
	actionRedeployWithSourceEnv
)
