package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/rotisserie/eris"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/models"
)

const (
	get  = http.MethodGet
	post = http.MethodPost
)

func projectPath(project string) string {
	return "/api/projects/" + url.PathEscape(project)
}

func deploymentPath(project, deploymentID string) string {
	return projectPath(project) + "/deployments/" + url.PathEscape(deploymentID)
}

func validate(project, deploymentID string) error {
	if project == "" {
		return ErrNoProject
	}
	if deploymentID == "" {
		return ErrNoDeploymentID
	}
	return nil
}

// ListDeployments retrieves one page of a project's deployments.
func (c *Client) ListDeployments(
	ctx context.Context,
	project string,
	opts ListOptions,
) ([]models.Deployment, error) {
	if project == "" {
		return nil, ErrNoProject
	}

	query := url.Values{}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		query.Set("offset", strconv.Itoa(opts.Offset))
	}
	if opts.Group != "" {
		query.Set("group", opts.Group)
	}
	endpoint := projectPath(project) + "/deployments"
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	body, err := c.sendRequest(ctx, get, endpoint, nil)
	if err != nil {
		return nil, eris.Wrap(err, "Failed to list deployments")
	}
	return parseResponse[[]models.Deployment](body)
}

// GetDeployment retrieves a single deployment.
func (c *Client) GetDeployment(ctx context.Context, project, deploymentID string) (models.Deployment, error) {
	if err := validate(project, deploymentID); err != nil {
		return models.Deployment{}, err
	}

	body, err := c.sendRequest(ctx, get, deploymentPath(project, deploymentID), nil)
	if err != nil {
		return models.Deployment{}, eris.Wrapf(err, "Failed to get deployment %s", deploymentID)
	}
	return parseResponse[models.Deployment](body)
}

// ListDeploymentGroups retrieves the distinct deployment group names of a project.
func (c *Client) ListDeploymentGroups(ctx context.Context, project string) ([]string, error) {
	if project == "" {
		return nil, ErrNoProject
	}

	body, err := c.sendRequest(ctx, get, projectPath(project)+"/deployment-groups", nil)
	if err != nil {
		return nil, eris.Wrap(err, "Failed to list deployment groups")
	}
	groups, err := parseResponse[[]string](body)
	if err != nil {
		return nil, err
	}
	sort.Strings(groups)
	return groups, nil
}

// StopDeployment asks the server to stop a running deployment.
func (c *Client) StopDeployment(ctx context.Context, project, deploymentID string) error {
	if err := validate(project, deploymentID); err != nil {
		return err
	}

	_, err := c.sendRequest(ctx, post, deploymentPath(project, deploymentID)+"/stop", nil)
	if err != nil {
		return eris.Wrapf(err, "Failed to stop deployment %s", deploymentID)
	}
	return nil
}

// CreateDeploymentFrom creates a new deployment from the image of an existing one
// and returns the new deployment ID.
func (c *Client) CreateDeploymentFrom(
	ctx context.Context,
	project, sourceDeploymentID string,
	useSourceEnvVars bool,
) (string, error) {
	if err := validate(project, sourceDeploymentID); err != nil {
		return "", err
	}

	payload := map[string]interface{}{
		"source_deployment_id": sourceDeploymentID,
		"use_source_env_vars":  useSourceEnvVars,
	}
	// a retried create could start a second deployment
	body, err := c.sendRequestOnce(ctx, post, projectPath(project)+"/deployments/from", payload)
	if err != nil {
		return "", eris.Wrapf(err, "Failed to create deployment from %s", sourceDeploymentID)
	}

	created, err := parseResponse[models.CreatedDeployment](body)
	if err != nil {
		return "", err
	}
	if created.DeploymentID == "" {
		return "", eris.New(fmt.Sprintf("Server did not return a deployment ID for %s", sourceDeploymentID))
	}
	return created.DeploymentID, nil
}
