package api

import (
	"context"
	"io"
	"net/http"
	"time"

	"pkg.world.dev/forge-cli/internal/app/forge-cli/models"
)

// Interface implementation check.
var _ ClientInterface = &Client{}

// Client implements HTTP API client with retry logic and authentication.
type Client struct {
	BaseURL       string
	Token         string
	SessionCookie string
	HTTPClient    HTTPClientInterface
	// StreamClient has no overall timeout so followed log streams can stay open.
	StreamClient HTTPClientInterface
	Retry        RequestConfig
}

// ClientInterface defines the deployment operations the CLI consumes.
type ClientInterface interface {
	ListDeployments(ctx context.Context, project string, opts ListOptions) ([]models.Deployment, error)
	GetDeployment(ctx context.Context, project, deploymentID string) (models.Deployment, error)
	ListDeploymentGroups(ctx context.Context, project string) ([]string, error)
	StopDeployment(ctx context.Context, project, deploymentID string) error
	CreateDeploymentFrom(ctx context.Context, project, sourceDeploymentID string, useSourceEnvVars bool) (string, error)
	OpenLogStream(ctx context.Context, project, deploymentID string, opts LogOptions) (io.ReadCloser, error)

	// Utility methods
	SetAuthToken(token string)
}

// HTTPClientInterface allows for mocking the underlying HTTP client.
type HTTPClientInterface interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestConfig holds configuration for individual requests.
type RequestConfig struct {
	MaxRetries  int
	BaseDelay   time.Duration
	Timeout     time.Duration
	ContentType string
}

// ListOptions pages through a project's deployments.
type ListOptions struct {
	Limit  int
	Offset int
	Group  string
}

// LogOptions selects between a one-shot read and a followed stream.
type LogOptions struct {
	Follow bool
	Tail   int
}
