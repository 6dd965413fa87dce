package deployment_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/clients/api"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/commands/deployment"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/deployments"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/logstream"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/models"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/services/config"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/services/input"
	"pkg.world.dev/forge-cli/internal/pkg/printer"
	"pkg.world.dev/forge-cli/internal/pkg/tea/program"
)

type DeploymentTestSuite struct {
	suite.Suite
	out     *bytes.Buffer
	restore func()
	state   models.CommandState
}

func TestDeploymentSuite(t *testing.T) {
	suite.Run(t, new(DeploymentTestSuite))
}

func (s *DeploymentTestSuite) SetupTest() {
	s.out = &bytes.Buffer{}
	s.restore = printer.SetOutput(s.out)
	s.state = models.CommandState{LoggedIn: true, Project: "shop"}
}

func (s *DeploymentTestSuite) TearDownTest() {
	s.restore()
}

// Helper function to create test handler with mocks.
func (s *DeploymentTestSuite) createTestHandler() (
	*deployment.Handler,
	*api.MockClient,
	*config.MockService,
	*input.MockService,
) {
	mockAPI := &api.MockClient{}
	mockConfig := &config.MockService{}
	mockInput := &input.MockService{}
	mockConfig.On("GetConfig").Return(&config.Config{Settings: config.Settings{
		PollInterval: time.Hour,
		Tail:         100,
		MaxLogLines:  50,
	}}).Maybe()

	handler := deployment.NewHandler(mockAPI, mockConfig, mockInput)
	return handler, mockAPI, mockConfig, mockInput
}

func newDeployment(id, group string, status models.DeploymentStatus, active bool) models.Deployment {
	return models.Deployment{
		ID:              id,
		DeploymentID:    id,
		DeploymentGroup: group,
		Status:          status,
		IsActive:        active,
		Image:           "registry.world.dev/shop:" + id,
		PrimaryURL:      "https://" + id + ".shop.world.dev",
		Created:         "2025-03-01T10:00:00Z",
	}
}

func firstPage(group string) api.ListOptions {
	return api.ListOptions{Limit: deployments.ListPageSize, Group: group}
}

func (s *DeploymentTestSuite) TestHandler_List_Table() {
	handler, mockAPI, _, _ := s.createTestHandler()
	ctx := context.Background()
	mockAPI.On("ListDeployments", ctx, "shop", firstPage("")).Return([]models.Deployment{
		newDeployment("dep-1", "", models.StatusHealthy, true),
		newDeployment("dep-2", "staging", models.StatusBuilding, false),
		newDeployment("dep-0", "", models.StatusSuperseded, false),
	}, nil)

	err := handler.List(ctx, s.state, models.ListDeploymentsFlags{Output: models.OutputTable})

	s.Require().NoError(err)
	out := s.out.String()
	s.Contains(out, "Deployments of shop")
	s.Contains(out, "dep-1")
	s.Contains(out, "active")
	s.Contains(out, "dep-2")
	s.Contains(out, "progressing")
	s.NotContains(out, "dep-0")
	s.Less(strings.Index(out, "dep-1"), strings.Index(out, "dep-2"))
	mockAPI.AssertExpectations(s.T())
}

func (s *DeploymentTestSuite) TestHandler_List_JSON() {
	handler, mockAPI, _, _ := s.createTestHandler()
	ctx := context.Background()
	mockAPI.On("ListDeployments", ctx, "shop", firstPage("staging")).Return([]models.Deployment{
		newDeployment("dep-2", "staging", models.StatusBuilding, false),
	}, nil)

	err := handler.List(ctx, s.state, models.ListDeploymentsFlags{Group: "staging", Output: models.OutputJSON})

	s.Require().NoError(err)
	var snapshot deployments.Snapshot
	s.Require().NoError(json.Unmarshal(s.out.Bytes(), &snapshot))
	s.Require().Len(snapshot.Groups, 1)
	s.Equal("staging", snapshot.Groups[0].Name)
	s.Equal(1, snapshot.InFlight)
}

func (s *DeploymentTestSuite) TestHandler_List_APIError() {
	handler, mockAPI, _, _ := s.createTestHandler()
	ctx := context.Background()
	mockAPI.On("ListDeployments", ctx, "shop", mock.Anything).
		Return(nil, &api.HTTPError{StatusCode: 403, Status: "403 Forbidden"})

	err := handler.List(ctx, s.state, models.ListDeploymentsFlags{Output: models.OutputTable})

	s.Require().Error(err)
	var httpErr *api.HTTPError
	s.Require().ErrorAs(err, &httpErr)
	s.Equal(403, httpErr.StatusCode)
}

func (s *DeploymentTestSuite) TestHandler_List_WatchStopsWhenNothingInFlight() {
	handler, mockAPI, _, _ := s.createTestHandler()
	ctx := context.Background()
	mockAPI.On("ListDeployments", mock.Anything, "shop", firstPage("")).Return([]models.Deployment{
		newDeployment("dep-1", "", models.StatusStopped, false),
	}, nil).Once()

	err := handler.List(ctx, s.state, models.ListDeploymentsFlags{Watch: true, Output: models.OutputTable})

	s.Require().NoError(err)
	s.Contains(s.out.String(), "No active or in-flight deployments.")
	mockAPI.AssertExpectations(s.T())
}

// createWatchHandler returns a handler that polls fast enough for a watch to recover from errors.
func (s *DeploymentTestSuite) createWatchHandler() (*deployment.Handler, *api.MockClient) {
	mockAPI := &api.MockClient{}
	mockConfig := &config.MockService{}
	mockConfig.On("GetConfig").Return(&config.Config{Settings: config.Settings{
		PollInterval: time.Millisecond,
	}})
	return deployment.NewHandler(mockAPI, mockConfig, &input.MockService{}), mockAPI
}

func (s *DeploymentTestSuite) TestHandler_List_WatchErrorFollowsRedraw() {
	if program.IsInteractive() {
		s.T().Skip("running in a terminal")
	}
	handler, mockAPI := s.createWatchHandler()
	mockAPI.On("ListDeployments", mock.Anything, "shop", firstPage("")).
		Return(nil, errors.New("connection reset by peer")).Once()
	mockAPI.On("ListDeployments", mock.Anything, "shop", firstPage("")).Return([]models.Deployment{
		newDeployment("dep-1", "", models.StatusStopped, false),
	}, nil).Once()

	err := handler.List(context.Background(), s.state, models.ListDeploymentsFlags{Watch: true, Output: models.OutputTable})

	s.Require().NoError(err)
	out := s.out.String()
	failure := strings.Index(out, "Failed to refresh deployments")
	s.Require().NotEqual(-1, failure)
	s.Less(strings.Index(out, "refreshed at"), failure)
	s.Equal(2, strings.Count(out, "refreshed at"))
	mockAPI.AssertExpectations(s.T())
}

func (s *DeploymentTestSuite) TestHandler_List_WatchInterrupted() {
	handler, mockAPI, _, _ := s.createTestHandler()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mockAPI.On("ListDeployments", mock.Anything, "shop", firstPage("")).
		Run(func(mock.Arguments) { cancel() }).
		Return([]models.Deployment{newDeployment("dep-1", "", models.StatusBuilding, false)}, nil)

	err := handler.List(ctx, s.state, models.ListDeploymentsFlags{Watch: true, Output: models.OutputTable})

	s.Require().NoError(err)
}

func (s *DeploymentTestSuite) TestHandler_Show_Table() {
	handler, mockAPI, _, _ := s.createTestHandler()
	ctx := context.Background()
	d := newDeployment("dep-1", "", models.StatusHealthy, true)
	completed := "2025-03-01T10:01:30Z"
	d.CompletedAt = &completed
	d.ControllerMetadata = json.RawMessage(`{"health":{"last_check":"2025-03-01T10:02:00Z","healthy":true}}`)
	mockAPI.On("GetDeployment", ctx, "shop", "dep-1").Return(d, nil)

	err := handler.Show(ctx, s.state, models.ShowDeploymentFlags{ID: "dep-1", Output: models.OutputTable})

	s.Require().NoError(err)
	out := s.out.String()
	s.Contains(out, "Deployment dep-1")
	s.Contains(out, "Healthy")
	s.Contains(out, "healthy (checked 2025-03-01T10:02:00Z)")
	s.Contains(out, "Timeline")
	s.Contains(out, "Rollout started")
	s.Contains(out, "1m 30s")
}

func (s *DeploymentTestSuite) TestHandler_Show_YAML() {
	handler, mockAPI, _, _ := s.createTestHandler()
	ctx := context.Background()
	mockAPI.On("GetDeployment", ctx, "shop", "dep-1").
		Return(newDeployment("dep-1", "", models.StatusBuilding, false), nil)

	err := handler.Show(ctx, s.state, models.ShowDeploymentFlags{ID: "dep-1", Output: models.OutputYAML})

	s.Require().NoError(err)
	out := s.out.String()
	s.Contains(out, "deployment:")
	s.Contains(out, "deployment_id: dep-1")
	s.Contains(out, "timeline:")
	s.Contains(out, "phase: build")
}

func (s *DeploymentTestSuite) TestHandler_Show_MissingID() {
	handler, _, _, _ := s.createTestHandler()

	err := handler.Show(context.Background(), s.state, models.ShowDeploymentFlags{})

	s.Require().ErrorIs(err, api.ErrNoDeploymentID)
}

func (s *DeploymentTestSuite) TestHandler_Show_WatchStopsWhenTerminal() {
	handler, mockAPI, _, _ := s.createTestHandler()
	ctx := context.Background()
	mockAPI.On("GetDeployment", mock.Anything, "shop", "dep-1").
		Return(newDeployment("dep-1", "", models.StatusStopped, false), nil)

	err := handler.Show(ctx, s.state, models.ShowDeploymentFlags{ID: "dep-1", Watch: true, Output: models.OutputTable})

	s.Require().NoError(err)
	s.Contains(s.out.String(), "Deployment dep-1 is Stopped, stopped watching")
	mockAPI.AssertNumberOfCalls(s.T(), "GetDeployment", 1)
}

func (s *DeploymentTestSuite) TestHandler_Show_WatchErrorFollowsRedraw() {
	if program.IsInteractive() {
		s.T().Skip("running in a terminal")
	}
	handler, mockAPI := s.createWatchHandler()
	mockAPI.On("GetDeployment", mock.Anything, "shop", "dep-1").
		Return(models.Deployment{}, errors.New("connection reset by peer")).Once()
	mockAPI.On("GetDeployment", mock.Anything, "shop", "dep-1").
		Return(newDeployment("dep-1", "", models.StatusStopped, false), nil).Once()

	err := handler.Show(context.Background(), s.state,
		models.ShowDeploymentFlags{ID: "dep-1", Watch: true, Output: models.OutputTable})

	s.Require().NoError(err)
	out := s.out.String()
	failure := strings.Index(out, "Failed to refresh deployment")
	s.Require().NotEqual(-1, failure)
	s.Less(strings.Index(out, "refreshed at"), failure)
	s.Contains(out, "Deployment dep-1 is Stopped, stopped watching")
	mockAPI.AssertExpectations(s.T())
}

func (s *DeploymentTestSuite) TestHandler_Groups() {
	handler, mockAPI, _, _ := s.createTestHandler()
	ctx := context.Background()
	mockAPI.On("ListDeploymentGroups", mock.Anything, "shop").Return([]string{"default", "qa", "staging"}, nil)
	mockAPI.On("ListDeployments", mock.Anything, "shop", firstPage("")).Return([]models.Deployment{
		newDeployment("dep-1", "", models.StatusHealthy, true),
		newDeployment("dep-2", "staging", models.StatusBuilding, false),
	}, nil)

	err := handler.Groups(ctx, s.state, models.GroupsFlags{Output: models.OutputJSON})

	s.Require().NoError(err)
	var summaries []map[string]any
	s.Require().NoError(json.Unmarshal(s.out.Bytes(), &summaries))
	s.Require().Len(summaries, 3)
	s.Equal("default", summaries[0]["name"])
	s.Equal("dep-1", summaries[0]["active"])
	s.Equal("qa", summaries[1]["name"])
	s.Nil(summaries[1]["active"])
	s.InDelta(1, summaries[2]["progressing"], 0)
}

func (s *DeploymentTestSuite) TestHandler_Groups_Error() {
	handler, mockAPI, _, _ := s.createTestHandler()
	mockAPI.On("ListDeploymentGroups", mock.Anything, "shop").Return(nil, errors.New("connection refused"))
	mockAPI.On("ListDeployments", mock.Anything, "shop", mock.Anything).Return([]models.Deployment{}, nil).Maybe()

	err := handler.Groups(context.Background(), s.state, models.GroupsFlags{Output: models.OutputTable})

	s.Require().Error(err)
	s.Contains(err.Error(), "connection refused")
}

func (s *DeploymentTestSuite) TestHandler_Stop_Confirmed() {
	handler, mockAPI, _, mockInput := s.createTestHandler()
	ctx := context.Background()
	mockAPI.On("GetDeployment", ctx, "shop", "dep-1").
		Return(newDeployment("dep-1", "", models.StatusHealthy, true), nil).Once()
	mockAPI.On("GetDeployment", ctx, "shop", "dep-1").
		Return(newDeployment("dep-1", "", models.StatusTerminating, true), nil).Once()
	mockInput.On("Confirm", ctx, "Stop deployment dep-1 in group default (Healthy)? (y/N)", "n").Return(true, nil)
	mockAPI.On("StopDeployment", ctx, "shop", "dep-1").Return(nil)

	err := handler.Stop(ctx, s.state, models.StopDeploymentFlags{ID: "dep-1"})

	s.Require().NoError(err)
	s.Contains(s.out.String(), "Stopping deployment dep-1")
	s.Contains(s.out.String(), "Deployment dep-1 is now Terminating")
	mockAPI.AssertExpectations(s.T())
	mockInput.AssertExpectations(s.T())
}

func (s *DeploymentTestSuite) TestHandler_Stop_Declined() {
	handler, mockAPI, _, mockInput := s.createTestHandler()
	ctx := context.Background()
	mockAPI.On("GetDeployment", ctx, "shop", "dep-1").
		Return(newDeployment("dep-1", "", models.StatusHealthy, true), nil)
	mockInput.On("Confirm", ctx, mock.Anything, "n").Return(false, nil)

	err := handler.Stop(ctx, s.state, models.StopDeploymentFlags{ID: "dep-1"})

	s.Require().NoError(err)
	s.Contains(s.out.String(), "Stop canceled")
	mockAPI.AssertNotCalled(s.T(), "StopDeployment", mock.Anything, mock.Anything, mock.Anything)
}

func (s *DeploymentTestSuite) TestHandler_Stop_Unavailable() {
	handler, mockAPI, _, mockInput := s.createTestHandler()
	ctx := context.Background()
	mockAPI.On("GetDeployment", ctx, "shop", "dep-1").
		Return(newDeployment("dep-1", "", models.StatusStopped, false), nil)

	err := handler.Stop(ctx, s.state, models.StopDeploymentFlags{ID: "dep-1"})

	s.Require().ErrorIs(err, deployments.ErrActionUnavailable)
	var reported *models.ReportedError
	s.Require().ErrorAs(err, &reported)
	mockInput.AssertNotCalled(s.T(), "Confirm", mock.Anything, mock.Anything, mock.Anything)
	mockAPI.AssertNotCalled(s.T(), "StopDeployment", mock.Anything, mock.Anything, mock.Anything)
}

func (s *DeploymentTestSuite) TestHandler_Stop_SelectsFromStoppableDeployments() {
	handler, mockAPI, _, mockInput := s.createTestHandler()
	ctx := context.Background()
	mockAPI.On("ListDeployments", ctx, "shop", firstPage("")).Return([]models.Deployment{
		newDeployment("dep-2", "", models.StatusStopped, false),
		newDeployment("dep-1", "", models.StatusHealthy, true),
	}, nil)
	mockInput.On("Select", ctx, "Deployments you can stop:", mock.Anything,
		[]string{"dep-1  [default]  Healthy  2025-03-01T10:00:00Z  (active)"}, 0).Return(0, nil)
	mockAPI.On("StopDeployment", ctx, "shop", "dep-1").Return(nil)
	mockAPI.On("GetDeployment", ctx, "shop", "dep-1").
		Return(newDeployment("dep-1", "", models.StatusTerminating, true), nil)

	err := handler.Stop(ctx, s.state, models.StopDeploymentFlags{Yes: true})

	s.Require().NoError(err)
	mockInput.AssertExpectations(s.T())
	mockAPI.AssertExpectations(s.T())
}

func (s *DeploymentTestSuite) TestHandler_Stop_NothingToStop() {
	handler, mockAPI, _, _ := s.createTestHandler()
	ctx := context.Background()
	mockAPI.On("ListDeployments", ctx, "shop", firstPage("")).Return([]models.Deployment{
		newDeployment("dep-2", "", models.StatusStopped, false),
	}, nil)

	err := handler.Stop(ctx, s.state, models.StopDeploymentFlags{})

	s.Require().ErrorIs(err, deployment.ErrNoDeployments)
}

func (s *DeploymentTestSuite) TestHandler_Rollback_RedeploysActive() {
	handler, mockAPI, _, mockInput := s.createTestHandler()
	ctx := context.Background()
	mockAPI.On("GetDeployment", ctx, "shop", "dep-1").
		Return(newDeployment("dep-1", "", models.StatusHealthy, true), nil)
	mockInput.On("Confirm", ctx,
		"Redeploy deployment dep-1 in group default using the project's current environment variables? (y/N)",
		"n").Return(true, nil)
	mockAPI.On("CreateDeploymentFrom", ctx, "shop", "dep-1", false).Return("dep-9", nil)
	mockAPI.On("ListDeployments", ctx, "shop", firstPage("")).Return([]models.Deployment{
		newDeployment("dep-1", "", models.StatusHealthy, true),
		newDeployment("dep-9", "", models.StatusPending, false),
	}, nil)

	err := handler.Rollback(ctx, s.state, models.RollbackDeploymentFlags{ID: "dep-1"})

	s.Require().NoError(err)
	out := s.out.String()
	s.Contains(out, "Redeploying dep-1 as dep-9")
	s.Contains(out, "forge deployments show dep-9 --watch")
	s.Contains(out, "dep-9")
	mockAPI.AssertExpectations(s.T())
}

func (s *DeploymentTestSuite) TestHandler_Rollback_WithSourceEnv() {
	handler, mockAPI, _, mockInput := s.createTestHandler()
	ctx := context.Background()
	mockAPI.On("GetDeployment", ctx, "shop", "dep-0").
		Return(newDeployment("dep-0", "", models.StatusSuperseded, false), nil)
	mockInput.On("Confirm", ctx,
		"Roll back to deployment dep-0 in group default using the environment variables of dep-0? (y/N)",
		"n").Return(true, nil)
	mockAPI.On("CreateDeploymentFrom", ctx, "shop", "dep-0", true).Return("dep-9", nil)
	mockAPI.On("ListDeployments", ctx, "shop", firstPage("")).Return([]models.Deployment{}, nil)

	err := handler.Rollback(ctx, s.state, models.RollbackDeploymentFlags{ID: "dep-0", UseSourceEnv: true})

	s.Require().NoError(err)
	s.Contains(s.out.String(), "Rolling back to dep-0 as dep-9")
}

func (s *DeploymentTestSuite) TestHandler_Rollback_FailureIsReported() {
	handler, mockAPI, _, _ := s.createTestHandler()
	ctx := context.Background()
	mockAPI.On("GetDeployment", ctx, "shop", "dep-1").
		Return(newDeployment("dep-1", "", models.StatusHealthy, true), nil)
	mockAPI.On("CreateDeploymentFrom", ctx, "shop", "dep-1", false).
		Return("", &api.HTTPError{StatusCode: 409, Status: "409 Conflict", Message: "deployment in progress"})

	err := handler.Rollback(ctx, s.state, models.RollbackDeploymentFlags{ID: "dep-1", Yes: true})

	s.Require().Error(err)
	var reported *models.ReportedError
	s.Require().ErrorAs(err, &reported)
	s.Contains(s.out.String(), "Failed to redeploy deployment: 409 Conflict: deployment in progress")
	mockAPI.AssertNotCalled(s.T(), "ListDeployments", mock.Anything, mock.Anything, mock.Anything)
}

func (s *DeploymentTestSuite) TestHandler_Logs_LoadOnce() {
	handler, mockAPI, _, _ := s.createTestHandler()
	ctx := context.Background()
	mockAPI.On("GetDeployment", ctx, "shop", "dep-1").
		Return(newDeployment("dep-1", "", models.StatusHealthy, true), nil)
	mockAPI.On("OpenLogStream", mock.Anything, "shop", "dep-1", api.LogOptions{Tail: 100}).
		Return(io.NopCloser(strings.NewReader("data: booting\n\ndata: ready\n")), nil)

	err := handler.Logs(ctx, s.state, models.LogsFlags{ID: "dep-1"})

	s.Require().NoError(err)
	s.Equal("booting\nready\n", s.out.String())
}

func (s *DeploymentTestSuite) TestHandler_Logs_Follow() {
	handler, mockAPI, _, _ := s.createTestHandler()
	ctx := context.Background()
	mockAPI.On("GetDeployment", ctx, "shop", "dep-1").
		Return(newDeployment("dep-1", "", models.StatusDeploying, false), nil)
	mockAPI.On("OpenLogStream", ctx, "shop", "dep-1", api.LogOptions{Follow: true, Tail: 20}).
		Return(io.NopCloser(strings.NewReader("data: one\ndata: two")), nil)

	err := handler.Logs(ctx, s.state, models.LogsFlags{ID: "dep-1", Follow: true, Tail: 20})

	s.Require().NoError(err)
	out := s.out.String()
	s.Contains(out, "one\ntwo\n")
	s.Contains(out, "Log stream ended")
}

func (s *DeploymentTestSuite) TestHandler_Logs_StreamError() {
	handler, mockAPI, _, _ := s.createTestHandler()
	ctx := context.Background()
	mockAPI.On("GetDeployment", ctx, "shop", "dep-1").
		Return(newDeployment("dep-1", "", models.StatusHealthy, true), nil)
	mockAPI.On("OpenLogStream", ctx, "shop", "dep-1", mock.Anything).
		Return(nil, &api.HTTPError{StatusCode: 404, Status: "404 Not Found"})

	err := handler.Logs(ctx, s.state, models.LogsFlags{ID: "dep-1", Follow: true})

	s.Require().Error(err)
	s.Contains(err.Error(), "404 Not Found")
}

func (s *DeploymentTestSuite) TestHandler_Logs_NotYetRunning() {
	handler, mockAPI, _, _ := s.createTestHandler()
	ctx := context.Background()
	mockAPI.On("GetDeployment", ctx, "shop", "dep-1").
		Return(newDeployment("dep-1", "", models.StatusPending, false), nil)

	for _, follow := range []bool{false, true} {
		err := handler.Logs(ctx, s.state, models.LogsFlags{ID: "dep-1", Follow: follow})

		s.Require().ErrorIs(err, deployments.ErrActionUnavailable)
		s.Contains(err.Error(), "deployment dep-1 is Pending")
	}
	mockAPI.AssertNotCalled(s.T(), "OpenLogStream", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *DeploymentTestSuite) TestHandler_Logs_InvalidTail() {
	handler, mockAPI, _, _ := s.createTestHandler()

	err := handler.Logs(context.Background(), s.state, models.LogsFlags{ID: "dep-1", Tail: -1})

	s.Require().ErrorIs(err, logstream.ErrInvalidTail)
	mockAPI.AssertNotCalled(s.T(), "GetDeployment", mock.Anything, mock.Anything, mock.Anything)
}

func (s *DeploymentTestSuite) TestHandler_Dashboard_NeedsTerminal() {
	if program.IsInteractive() {
		s.T().Skip("running in a terminal")
	}
	handler, _, _, _ := s.createTestHandler()

	err := handler.Dashboard(context.Background(), s.state, models.DashboardFlags{})

	s.Require().ErrorIs(err, deployment.ErrNotInteractive)
}
