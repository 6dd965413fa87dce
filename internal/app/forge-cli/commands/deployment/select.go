package deployment

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/deployments"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/models"
)

// resolveDeployment fetches the deployment named by id. When id is empty the user picks one
// of the project's deployments for which allowed reports true.
func (h *Handler) resolveDeployment(
	ctx context.Context,
	project, id, action string,
	allowed func(models.DeploymentStatus) bool,
) (models.Deployment, error) {
	if id != "" {
		d, err := h.apiClient.GetDeployment(ctx, project, id)
		if err != nil {
			return models.Deployment{}, eris.Wrap(err, "Failed to get deployment")
		}
		return d, nil
	}

	all, err := deployments.ListAll(ctx, h.apiClient, project, "")
	if err != nil {
		return models.Deployment{}, err
	}
	candidates := []models.Deployment{}
	for _, d := range all {
		if allowed(d.Status) {
			candidates = append(candidates, d)
		}
	}
	if len(candidates) == 0 {
		return models.Deployment{}, eris.Wrapf(ErrNoDeployments, "nothing to %s in project %s", action, project)
	}

	options := make([]string, 0, len(candidates))
	for _, d := range candidates {
		options = append(options, selectLabel(d))
	}
	idx, err := h.inputHandler.Select(ctx, fmt.Sprintf("Deployments you can %s:", action),
		"Enter deployment number ('q' to quit)", options, 0)
	if err != nil {
		return models.Deployment{}, err
	}
	return candidates[idx], nil
}

func selectLabel(d models.Deployment) string {
	label := fmt.Sprintf("%s  [%s]  %s  %s", d.DeploymentID, d.Group(), d.Status, orNone(d.Created))
	if d.IsActive {
		label += "  (active)"
	}
	return label
}
