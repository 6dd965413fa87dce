package deployment

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/clients/api"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/deployments"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/logstream"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/models"
	"pkg.world.dev/forge-cli/internal/pkg/logger"
	"pkg.world.dev/forge-cli/internal/pkg/printer"
)

// Logs prints the runtime logs of a deployment. With --follow new lines are printed as the
// server sends them until the stream ends or the command is interrupted.
func (h *Handler) Logs(ctx context.Context, state models.CommandState, flags models.LogsFlags) error {
	settings := h.settings()
	tail := flags.Tail
	if tail == 0 {
		tail = settings.Tail
	}
	if tail < 0 {
		return logstream.ErrInvalidTail
	}

	d, err := h.resolveDeployment(ctx, state.Project, flags.ID, "view logs of", models.DeploymentStatus.CanViewLogs)
	if err != nil {
		return err
	}
	if !d.Status.CanViewLogs() {
		return eris.Wrapf(deployments.ErrActionUnavailable,
			"deployment %s is %s and has no runtime logs yet", d.DeploymentID, d.Status)
	}

	if !flags.Follow {
		session := logstream.NewSession(
			logstream.ClientOpener(h.apiClient, state.Project, d.DeploymentID),
			logstream.WithTail(tail),
			logstream.WithCapacity(settings.MaxLogLines),
		)
		defer session.Close()
		if err := session.Load(ctx); err != nil {
			return eris.Wrap(err, "Failed to load logs")
		}
		for _, line := range session.Lines() {
			printer.Infoln(line)
		}
		return nil
	}

	return h.followLogs(ctx, state.Project, d.DeploymentID, tail)
}

func (h *Handler) followLogs(ctx context.Context, project, deploymentID string, tail int) error {
	body, err := h.apiClient.OpenLogStream(ctx, project, deploymentID, api.LogOptions{Follow: true, Tail: tail})
	if err != nil {
		return eris.Wrap(err, "Failed to open log stream")
	}
	defer body.Close()
	stop := context.AfterFunc(ctx, func() { _ = body.Close() })
	defer stop()

	printer.Mutedln("Following logs of " + deploymentID + " (ctrl+c to stop)")
	for line, err := range logstream.Records(body) {
		if err != nil {
			// interrupted by the user
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return eris.Wrap(err, "Log stream failed")
		}
		printer.Infoln(line)
	}
	logger.Debugf("log stream of %s ended", deploymentID)
	printer.Mutedln("Log stream ended")
	return nil
}
