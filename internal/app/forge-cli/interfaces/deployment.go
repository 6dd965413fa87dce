package interfaces

import (
	"context"

	"pkg.world.dev/forge-cli/internal/app/forge-cli/models"
)

type DeploymentHandler interface {
	List(ctx context.Context, state models.CommandState, flags models.ListDeploymentsFlags) error
	Show(ctx context.Context, state models.CommandState, flags models.ShowDeploymentFlags) error
	Groups(ctx context.Context, state models.CommandState, flags models.GroupsFlags) error
	Stop(ctx context.Context, state models.CommandState, flags models.StopDeploymentFlags) error
	Rollback(ctx context.Context, state models.CommandState, flags models.RollbackDeploymentFlags) error
	Logs(ctx context.Context, state models.CommandState, flags models.LogsFlags) error
	Dashboard(ctx context.Context, state models.CommandState, flags models.DashboardFlags) error
}

type RootHandler interface {
	Version() error
	SetAppVersion(version string)
	UseProject(ctx context.Context, flags models.UseProjectFlags) error
}
