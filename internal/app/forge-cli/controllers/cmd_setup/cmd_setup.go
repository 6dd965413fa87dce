package cmdsetup

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/models"
	"pkg.world.dev/forge-cli/internal/pkg/logger"
	"pkg.world.dev/forge-cli/internal/pkg/printer"
)

// WithSetup establishes the command state required by req and runs fn with it.
func WithSetup(
	ctx context.Context,
	deps Dependencies,
	req models.SetupRequest,
	fn func(state models.CommandState) error,
) error {
	if deps.SetupController == nil {
		return eris.New("command setup controller is not initialized")
	}
	state, err := deps.SetupController.SetupCommandState(ctx, req)
	if err != nil {
		return err
	}
	return fn(state)
}

func (c *Controller) SetupCommandState(ctx context.Context, req models.SetupRequest) (models.CommandState, error) {
	cfg := c.configService.GetConfig()
	state := models.CommandState{
		LoggedIn: cfg.Settings.Token != "" || cfg.Credential.SessionCookie != "",
		Project:  cfg.Settings.Project,
	}

	if req.LoginRequired == models.NeedLogin && !state.LoggedIn {
		return state, eris.Wrap(ErrLogin, "set FORGE_TOKEN or save a token in the forge config")
	}

	switch req.ProjectRequired {
	case models.Ignore:
	case models.NeedExistingIDOnly:
		if state.Project == "" {
			return state, eris.Wrap(ErrNoProject, "run 'forge use <project>' or set FORGE_PROJECT")
		}
	case models.NeedIDOnly:
		if state.Project != "" {
			break
		}
		project, err := c.promptForProject(ctx)
		if err != nil {
			return state, err
		}
		state.Project = project
	}

	logger.Debugf("command state: logged_in=%t project=%q", state.LoggedIn, state.Project)
	return state, nil
}

// promptForProject asks for a project name and offers to remember it.
func (c *Controller) promptForProject(ctx context.Context) (string, error) {
	printer.Notificationln("No project selected.")
	project, err := c.inputService.Prompt(ctx, "Enter the project name", "")
	if err != nil {
		return "", eris.Wrap(err, "failed to read project name")
	}
	project = strings.TrimSpace(project)
	if project == "" {
		return "", ErrNoProject
	}

	remember, err := c.inputService.Confirm(ctx, "Use this project by default? (Y/n)", "Y")
	if err != nil {
		return "", eris.Wrap(err, "failed to confirm project selection")
	}
	if !remember {
		return project, nil
	}

	cfg := c.configService.GetConfig()
	cfg.ProjectName = project
	cfg.Settings.Project = project
	if err := c.configService.Save(); err != nil {
		// the project is still usable for this command
		logger.Errors(err)
		printer.Errorln("Could not save the selected project")
	}
	return project, nil
}
