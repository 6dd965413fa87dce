package root

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pkg.world.dev/forge-cli/internal/app/forge-cli/commands/deployment"
	forgeroot "pkg.world.dev/forge-cli/internal/app/forge-cli/commands/root"
	cmdsetup "pkg.world.dev/forge-cli/internal/app/forge-cli/controllers/cmd_setup"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/models"
	"pkg.world.dev/forge-cli/internal/pkg/printer"
)

type mocks struct {
	deployments *deployment.MockHandler
	root        *forgeroot.MockHandler
	setup       *cmdsetup.MockController
}

// withMocks replaces the real clients and handlers for the duration of the test.
func withMocks(t *testing.T) mocks {
	t.Helper()
	m := mocks{
		deployments: &deployment.MockHandler{},
		root:        &forgeroot.MockHandler{},
		setup:       &cmdsetup.MockController{},
	}
	prev := newDependencies
	newDependencies = func(*cobra.Command) (cmdsetup.Dependencies, error) {
		return cmdsetup.Dependencies{
			DeploymentHandler: m.deployments,
			RootHandler:       m.root,
			SetupController:   m.setup,
		}, nil
	}
	t.Cleanup(func() { newDependencies = prev })
	return m
}

// resetFlags restores every flag to its default, cobra keeps values between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// executeCmd runs the rootCmd with the given arguments and returns its cobra output.
func executeCmd(t *testing.T, args string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(strings.Fields(args))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func loggedIn() models.CommandState {
	return models.CommandState{LoggedIn: true, Project: "shop"}
}

func TestSubcommandsHaveHelpText(t *testing.T) {
	out, err := executeCmd(t, "help")
	require.NoError(t, err)
	seenSubcommands := map[string]int{
		"completion":  0,
		"dashboard":   0,
		"deployments": 0,
		"help":        0,
		"logs":        0,
		"use":         0,
		"version":     0,
	}

	for _, line := range strings.Split(out, "\n") {
		for subcommand := range seenSubcommands {
			if strings.HasPrefix(line, "  "+subcommand) {
				seenSubcommands[subcommand]++
			}
		}
	}

	for subcommand, count := range seenSubcommands {
		assert.Positive(t, count, "subcommand %q is not listed in the help command", subcommand)
	}
}

func TestDeploymentsHelpListsSubcommands(t *testing.T) {
	out, err := executeCmd(t, "deployments --help")
	require.NoError(t, err)
	for _, sub := range []string{"list", "show", "groups", "stop", "rollback"} {
		assert.Contains(t, out, "  "+sub)
	}
}

func TestVersion(t *testing.T) {
	var buf bytes.Buffer
	t.Cleanup(printer.SetOutput(&buf))
	prev := AppVersion
	AppVersion = "v0.9.1"
	t.Cleanup(func() { AppVersion = prev })

	_, err := executeCmd(t, "version")

	require.NoError(t, err)
	assert.Equal(t, "Forge CLI v0.9.1\n", buf.String())
}

func TestListPassesFlags(t *testing.T) {
	m := withMocks(t)
	m.setup.On("SetupCommandState", mock.Anything, projectRequest()).Return(loggedIn(), nil)
	m.deployments.On("List", mock.Anything, loggedIn(), models.ListDeploymentsFlags{
		Group:  "staging",
		Watch:  true,
		Output: models.OutputJSON,
	}).Return(nil)

	_, err := executeCmd(t, "deployments list -g staging --watch -o json")

	require.NoError(t, err)
	m.deployments.AssertExpectations(t)
}

func TestListRejectsUnknownOutput(t *testing.T) {
	m := withMocks(t)

	_, err := executeCmd(t, "deployments ls -o xml")

	require.ErrorIs(t, err, models.ErrInvalidOutput)
	m.setup.AssertNotCalled(t, "SetupCommandState", mock.Anything, mock.Anything)
}

func TestShowNeedsDeploymentID(t *testing.T) {
	m := withMocks(t)

	_, err := executeCmd(t, "deployments show")

	require.Error(t, err)
	m.deployments.AssertNotCalled(t, "Show", mock.Anything, mock.Anything, mock.Anything)
}

func TestShowPassesFlags(t *testing.T) {
	m := withMocks(t)
	m.setup.On("SetupCommandState", mock.Anything, projectRequest()).Return(loggedIn(), nil)
	m.deployments.On("Show", mock.Anything, loggedIn(), models.ShowDeploymentFlags{
		ID:     "dep-1",
		Output: models.OutputYAML,
	}).Return(nil)

	_, err := executeCmd(t, "deployments show dep-1 --output yaml")

	require.NoError(t, err)
	m.deployments.AssertExpectations(t)
}

func TestStopWithoutID(t *testing.T) {
	m := withMocks(t)
	m.setup.On("SetupCommandState", mock.Anything, projectRequest()).Return(loggedIn(), nil)
	m.deployments.On("Stop", mock.Anything, loggedIn(), models.StopDeploymentFlags{Yes: true}).Return(nil)

	_, err := executeCmd(t, "deployments stop --yes")

	require.NoError(t, err)
	m.deployments.AssertExpectations(t)
}

func TestRedeployAlias(t *testing.T) {
	m := withMocks(t)
	m.setup.On("SetupCommandState", mock.Anything, projectRequest()).Return(loggedIn(), nil)
	m.deployments.On("Rollback", mock.Anything, loggedIn(), models.RollbackDeploymentFlags{
		ID:           "dep-1",
		UseSourceEnv: true,
	}).Return(nil)

	_, err := executeCmd(t, "deployments redeploy dep-1 --use-source-env")

	require.NoError(t, err)
	m.deployments.AssertExpectations(t)
}

func TestLogsPassesFlags(t *testing.T) {
	m := withMocks(t)
	m.setup.On("SetupCommandState", mock.Anything, projectRequest()).Return(loggedIn(), nil)
	m.deployments.On("Logs", mock.Anything, loggedIn(), models.LogsFlags{
		ID:     "dep-1",
		Follow: true,
		Tail:   50,
	}).Return(nil)

	_, err := executeCmd(t, "logs dep-1 -f -n 50")

	require.NoError(t, err)
	m.deployments.AssertExpectations(t)
}

func TestDashboardPassesGroup(t *testing.T) {
	m := withMocks(t)
	m.setup.On("SetupCommandState", mock.Anything, projectRequest()).Return(loggedIn(), nil)
	m.deployments.On("Dashboard", mock.Anything, loggedIn(), models.DashboardFlags{Group: "staging"}).Return(nil)

	_, err := executeCmd(t, "dashboard --group staging")

	require.NoError(t, err)
	m.deployments.AssertExpectations(t)
}

func TestUseDoesNotNeedLogin(t *testing.T) {
	m := withMocks(t)
	m.setup.On("SetupCommandState", mock.Anything, models.SetupRequest{
		LoginRequired:   models.IgnoreLogin,
		ProjectRequired: models.Ignore,
	}).Return(models.CommandState{}, nil)
	m.root.On("UseProject", mock.Anything, models.UseProjectFlags{Project: "shop"}).Return(nil)

	_, err := executeCmd(t, "use shop")

	require.NoError(t, err)
	m.root.AssertExpectations(t)
}

func TestSetupFailureSkipsCommand(t *testing.T) {
	m := withMocks(t)
	m.setup.On("SetupCommandState", mock.Anything, projectRequest()).
		Return(models.CommandState{}, cmdsetup.ErrLogin)

	_, err := executeCmd(t, "deployments groups")

	require.ErrorIs(t, err, cmdsetup.ErrLogin)
	m.deployments.AssertNotCalled(t, "Groups", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecuteExitCode(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		wantCode  int
		wantPrint string
	}{
		{name: "success", wantCode: 0},
		{name: "failure is printed", err: errors.New("connection refused"), wantCode: 1, wantPrint: "connection refused"},
		{name: "reported failure is not printed again", err: models.Reported(errors.New("already shown")), wantCode: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			t.Cleanup(printer.SetOutput(&buf))
			m := withMocks(t)
			m.setup.On("SetupCommandState", mock.Anything, projectRequest()).Return(loggedIn(), nil)
			m.deployments.On("Groups", mock.Anything, loggedIn(), mock.Anything).Return(tc.err)
			rootCmd.SetArgs([]string{"deployments", "groups"})
			t.Cleanup(func() {
				rootCmd.SetArgs(nil)
				resetFlags(rootCmd)
			})

			assert.Equal(t, tc.wantCode, Execute())
			if tc.wantPrint != "" {
				assert.Contains(t, buf.String(), tc.wantPrint)
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}
