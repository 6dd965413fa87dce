package api

import (
	"context"
	"io"
	"net/http"

	"github.com/stretchr/testify/mock"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/models"
)

// Ensure MockClient implements the interface.
var _ ClientInterface = (*MockClient)(nil)

// MockClient is a mock implementation of ClientInterface.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) ListDeployments(
	ctx context.Context,
	project string,
	opts ListOptions,
) ([]models.Deployment, error) {
	args := m.Called(ctx, project, opts)
	deployments, _ := args.Get(0).([]models.Deployment)
	return deployments, args.Error(1)
}

func (m *MockClient) GetDeployment(ctx context.Context, project, deploymentID string) (models.Deployment, error) {
	args := m.Called(ctx, project, deploymentID)
	deployment, _ := args.Get(0).(models.Deployment)
	return deployment, args.Error(1)
}

func (m *MockClient) ListDeploymentGroups(ctx context.Context, project string) ([]string, error) {
	args := m.Called(ctx, project)
	groups, _ := args.Get(0).([]string)
	return groups, args.Error(1)
}

func (m *MockClient) StopDeployment(ctx context.Context, project, deploymentID string) error {
	args := m.Called(ctx, project, deploymentID)
	return args.Error(0)
}

func (m *MockClient) CreateDeploymentFrom(
	ctx context.Context,
	project, sourceDeploymentID string,
	useSourceEnvVars bool,
) (string, error) {
	args := m.Called(ctx, project, sourceDeploymentID, useSourceEnvVars)
	return args.String(0), args.Error(1)
}

func (m *MockClient) OpenLogStream(
	ctx context.Context,
	project, deploymentID string,
	opts LogOptions,
) (io.ReadCloser, error) {
	args := m.Called(ctx, project, deploymentID, opts)
	body, _ := args.Get(0).(io.ReadCloser)
	return body, args.Error(1)
}

// SetAuthToken mocks setting the authentication token.
func (m *MockClient) SetAuthToken(token string) {
	m.Called(token)
}

// MockHTTPClient is a mock implementation of HTTPClientInterface.
type MockHTTPClient struct {
	mock.Mock
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	resp, _ := args.Get(0).(*http.Response)
	return resp, args.Error(1)
}
