package deployment

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/clients/api"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/deployments"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/models"
	"pkg.world.dev/forge-cli/internal/pkg/printer"
)

// printerNotifier shows action outcomes on the terminal.
type printerNotifier struct{}

func (printerNotifier) Success(msg string) { printer.Successln(msg) }
func (printerNotifier) Error(msg string)   { printer.Errorln(msg) }

// Stop stops a deployment after confirmation and prints its refreshed status.
func (h *Handler) Stop(ctx context.Context, state models.CommandState, flags models.StopDeploymentFlags) error {
	d, err := h.resolveDeployment(ctx, state.Project, flags.ID, "stop", models.DeploymentStatus.CanStop)
	if err != nil {
		return err
	}

	controller := deployments.NewActionController(h.apiClient, state.Project, printerNotifier{},
		deployments.WithAfterStop(func(ctx context.Context, d models.Deployment) {
			h.printRefreshed(ctx, state.Project, d.DeploymentID)
		}))

	if controller.CanStop(d) && !flags.Yes {
		ok, err := h.inputHandler.Confirm(ctx,
			fmt.Sprintf("Stop deployment %s in group %s (%s)? (y/N)", d.DeploymentID, d.Group(), d.Status), "n")
		if err != nil {
			return eris.Wrap(err, "failed to confirm stop")
		}
		if !ok {
			printer.Infoln("Stop canceled")
			return nil
		}
	}
	return models.Reported(controller.Stop(ctx, d))
}

// Rollback creates a new deployment from an earlier one, or redeploys the active one.
func (h *Handler) Rollback(
	ctx context.Context,
	state models.CommandState,
	flags models.RollbackDeploymentFlags,
) error {
	d, err := h.resolveDeployment(ctx, state.Project, flags.ID, "roll back to", models.DeploymentStatus.CanRollback)
	if err != nil {
		return err
	}

	controller := deployments.NewActionController(h.apiClient, state.Project, printerNotifier{},
		deployments.WithAfterRedeploy(func(ctx context.Context, _ models.Deployment, newID string) {
			printer.Infof("Follow the new deployment with 'forge deployments show %s --watch'\n\n", newID)
			snapshot, err := deployments.FetchGroups(ctx, h.apiClient, state.Project, "")
			if err != nil {
				printer.Errorf("Failed to refresh deployments: %s\n", api.UserMessage(err))
				return
			}
			printGroups(state.Project, snapshot)
		}))

	if controller.CanRollback(d) && !flags.Yes {
		envVars := "the project's current environment variables"
		if flags.UseSourceEnv {
			envVars = "the environment variables of " + d.DeploymentID
		}
		verb := "Roll back to"
		if deployments.KindFor(d) == deployments.ActionRedeploy {
			verb = "Redeploy"
		}
		ok, err := h.inputHandler.Confirm(ctx,
			fmt.Sprintf("%s deployment %s in group %s using %s? (y/N)", verb, d.DeploymentID, d.Group(), envVars), "n")
		if err != nil {
			return eris.Wrap(err, "failed to confirm rollback")
		}
		if !ok {
			printer.Infoln("Rollback canceled")
			return nil
		}
	}

	_, err = controller.RollbackOrRedeploy(ctx, d, flags.UseSourceEnv)
	return models.Reported(err)
}

// printRefreshed refetches a deployment in place after an action.
func (h *Handler) printRefreshed(ctx context.Context, project, id string) {
	d, err := h.apiClient.GetDeployment(ctx, project, id)
	if err != nil {
		printer.Errorf("Failed to refresh deployment: %s\n", api.UserMessage(err))
		return
	}
	printer.Infof("Deployment %s is now %s\n", d.DeploymentID, d.Status)
}
