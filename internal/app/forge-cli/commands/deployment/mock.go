package deployment

import (
	"context"

	"github.com/stretchr/testify/mock"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/interfaces"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/models"
)

// Interface guard.
var _ interfaces.DeploymentHandler = (*MockHandler)(nil)

type MockHandler struct {
	mock.Mock
}

func (m *MockHandler) List(ctx context.Context, state models.CommandState, flags models.ListDeploymentsFlags) error {
	args := m.Called(ctx, state, flags)
	return args.Error(0)
}

func (m *MockHandler) Show(ctx context.Context, state models.CommandState, flags models.ShowDeploymentFlags) error {
	args := m.Called(ctx, state, flags)
	return args.Error(0)
}

func (m *MockHandler) Groups(ctx context.Context, state models.CommandState, flags models.GroupsFlags) error {
	args := m.Called(ctx, state, flags)
	return args.Error(0)
}

func (m *MockHandler) Stop(ctx context.Context, state models.CommandState, flags models.StopDeploymentFlags) error {
	args := m.Called(ctx, state, flags)
	return args.Error(0)
}

func (m *MockHandler) Rollback(
	ctx context.Context,
	state models.CommandState,
	flags models.RollbackDeploymentFlags,
) error {
	args := m.Called(ctx, state, flags)
	return args.Error(0)
}

func (m *MockHandler) Logs(ctx context.Context, state models.CommandState, flags models.LogsFlags) error {
	args := m.Called(ctx, state, flags)
	return args.Error(0)
}

func (m *MockHandler) Dashboard(ctx context.Context, state models.CommandState, flags models.DashboardFlags) error {
	args := m.Called(ctx, state, flags)
	return args.Error(0)
}
