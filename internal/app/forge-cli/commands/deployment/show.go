package deployment

import (
	"context"

	"github.com/rotisserie/eris"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/clients/api"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/deployments"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/models"
	"pkg.world.dev/forge-cli/internal/pkg/printer"
)

// Show prints one deployment with its timeline. With --watch it keeps refreshing until the
// deployment reaches a terminal status.
func (h *Handler) Show(ctx context.Context, state models.CommandState, flags models.ShowDeploymentFlags) error {
	if flags.ID == "" {
		return api.ErrNoDeploymentID
	}

	if !flags.Watch {
		d, err := h.apiClient.GetDeployment(ctx, state.Project, flags.ID)
		if err != nil {
			return eris.Wrap(err, "Failed to get deployment")
		}
		return renderDetail(d, flags.Output)
	}

	var last models.Deployment
	poller := deployments.NewDeploymentPoller(h.apiClient, state.Project, flags.ID, h.settings().PollInterval,
		func(result deployments.PollResult[models.Deployment]) {
			redraw()
			if result.Err != nil {
				printer.Errorf("Failed to refresh deployment: %s\n", api.UserMessage(result.Err))
				return
			}
			last = result.Value
			if err := renderDetail(result.Value, flags.Output); err != nil {
				printer.Errorln(err.Error())
			}
		})
	if err := watch(ctx, poller.Run); err != nil {
		return err
	}
	if last.Status.IsTerminal() && flags.Output == models.OutputTable {
		printer.NewLine(1)
		printer.Notificationf("Deployment %s is %s, stopped watching\n", last.DeploymentID, last.Status)
	}
	return nil
}

func renderDetail(d models.Deployment, format models.OutputFormat) error {
	timeline := deployments.BuildTimeline(d)
	return render(format, detailOutput{Deployment: d, Timeline: timeline}, func() {
		printDeployment(d)
		printTimeline(timeline)
	})
}
