package deployments

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/rotisserie/eris"

	"pkg.world.dev/forge-cli/internal/app/forge-cli/clients/api"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/models"
	"pkg.world.dev/forge-cli/internal/pkg/logger"
)

var (
	ErrActionUnavailable = eris.New("action not available for this deployment")
	ErrActionInFlight    = eris.New("action already in progress")
)

// ActionKind names what RollbackOrRedeploy will do for a deployment.
type ActionKind string

const (
	ActionRedeploy ActionKind = "redeploy"
	ActionRollback ActionKind = "rollback"
)

// KindFor returns redeploy for the active deployment of a group and rollback otherwise.
func KindFor(d models.Deployment) ActionKind {
	if d.IsActive {
		return ActionRedeploy
	}
	return ActionRollback
}

// Notifier receives transient action outcomes.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// NotifierFuncs adapts two funcs to a Notifier.
type NotifierFuncs struct {
	OnSuccess func(msg string)
	OnError   func(msg string)
}

func (n NotifierFuncs) Success(msg string) {
	if n.OnSuccess != nil {
		n.OnSuccess(msg)
	}
}

func (n NotifierFuncs) Error(msg string) {
	if n.OnError != nil {
		n.OnError(msg)
	}
}

type ActionOption func(*ActionController)

// WithAfterStop runs fn after a successful stop, e.g. to reload the list.
func WithAfterStop(fn func(ctx context.Context, d models.Deployment)) ActionOption {
	return func(c *ActionController) { c.afterStop = fn }
}

// WithAfterRedeploy runs fn after a successful rollback or redeploy with the new deployment id.
func WithAfterRedeploy(fn func(ctx context.Context, source models.Deployment, newID string)) ActionOption {
	return func(c *ActionController) { c.afterRedeploy = fn }
}

// ActionController runs stop and rollback/redeploy against one project.
// Each action kind has its own busy flag.
type ActionController struct {
	client   api.ClientInterface
	project  string
	notifier Notifier

	stopPending     atomic.Bool
	redeployPending atomic.Bool

	afterStop     func(ctx context.Context, d models.Deployment)
	afterRedeploy func(ctx context.Context, source models.Deployment, newID string)
}

func NewActionController(
	client api.ClientInterface,
	project string,
	notifier Notifier,
	opts ...ActionOption,
) *ActionController {
	c := &ActionController{
		client:   client,
		project:  project,
		notifier: notifier,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StopPending reports whether a stop is in flight.
func (c *ActionController) StopPending() bool {
	return c.stopPending.Load()
}

// RedeployPending reports whether a rollback or redeploy is in flight.
func (c *ActionController) RedeployPending() bool {
	return c.redeployPending.Load()
}

// CanStop reports whether the stop control should be offered for d.
func (c *ActionController) CanStop(d models.Deployment) bool {
	return d.Status.CanStop() && !c.StopPending()
}

// CanRollback reports whether the rollback/redeploy control should be offered for d.
func (c *ActionController) CanRollback(d models.Deployment) bool {
	return d.Status.CanRollback() && !c.RedeployPending()
}

// Stop stops d. The outcome is sent to the notifier and also returned.
func (c *ActionController) Stop(ctx context.Context, d models.Deployment) error {
	if !d.Status.CanStop() {
		err := eris.Wrapf(ErrActionUnavailable, "cannot stop deployment %s in status %s", d.DeploymentID, d.Status)
		c.notifier.Error(err.Error())
		return err
	}
	if !c.stopPending.CompareAndSwap(false, true) {
		return ErrActionInFlight
	}
	defer c.stopPending.Store(false)

	logger.Debugf("stopping deployment %s in project %s", d.DeploymentID, c.project)
	if err := c.client.StopDeployment(ctx, c.project, d.DeploymentID); err != nil {
		c.notifier.Error(fmt.Sprintf("Failed to stop deployment: %s", api.UserMessage(err)))
		return eris.Wrap(err, "failed to stop deployment")
	}

	c.notifier.Success(fmt.Sprintf("Stopping deployment %s", d.DeploymentID))
	if c.afterStop != nil {
		c.afterStop(ctx, d)
	}
	return nil
}

// RollbackOrRedeploy creates a new deployment from d. It is a redeploy when d is the active
// deployment of its group and a rollback otherwise. When useSourceEnvVars is false the new
// deployment resolves the project's current environment variables.
func (c *ActionController) RollbackOrRedeploy(ctx context.Context, d models.Deployment, useSourceEnvVars bool) (string, error) {
	kind := KindFor(d)
	if !d.Status.CanRollback() {
		err := eris.Wrapf(ErrActionUnavailable, "cannot %s deployment %s in status %s", kind, d.DeploymentID, d.Status)
		c.notifier.Error(err.Error())
		return "", err
	}
	if !c.redeployPending.CompareAndSwap(false, true) {
		return "", ErrActionInFlight
	}
	defer c.redeployPending.Store(false)

	logger.DebugWithFields("creating deployment from source", map[string]interface{}{
		"project":             c.project,
		"source":              d.DeploymentID,
		"kind":                string(kind),
		"use_source_env_vars": useSourceEnvVars,
	})
	newID, err := c.client.CreateDeploymentFrom(ctx, c.project, d.DeploymentID, useSourceEnvVars)
	if err != nil {
		c.notifier.Error(fmt.Sprintf("Failed to %s deployment: %s", kind, api.UserMessage(err)))
		return "", eris.Wrapf(err, "failed to %s deployment", kind)
	}

	if kind == ActionRedeploy {
		c.notifier.Success(fmt.Sprintf("Redeploying %s as %s", d.DeploymentID, newID))
	} else {
		c.notifier.Success(fmt.Sprintf("Rolling back to %s as %s", d.DeploymentID, newID))
	}
	if c.afterRedeploy != nil {
		c.afterRedeploy(ctx, d, newID)
	}
	return newID, nil
}
