package root

import (
	"context"

	"github.com/stretchr/testify/mock"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/interfaces"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/models"
)

// Interface guard.
var _ interfaces.RootHandler = (*MockHandler)(nil)

type MockHandler struct {
	mock.Mock
}

func (m *MockHandler) Version() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockHandler) SetAppVersion(version string) {
	m.Called(version)
}

func (m *MockHandler) UseProject(ctx context.Context, flags models.UseProjectFlags) error {
	args := m.Called(ctx, flags)
	return args.Error(0)
}
