package root

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"pkg.world.dev/forge-cli/internal/app/forge-cli/clients/api"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/commands/deployment"
	forgeroot "pkg.world.dev/forge-cli/internal/app/forge-cli/commands/root"
	cmdsetup "pkg.world.dev/forge-cli/internal/app/forge-cli/controllers/cmd_setup"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/models"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/services/config"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/services/input"
)

// newDependencies builds the clients and handlers from the config and the global flags.
//
//nolint:gochecknoglobals // replaced in tests
var newDependencies = func(cmd *cobra.Command) (cmdsetup.Dependencies, error) {
	if err := config.LoadDotEnv("."); err != nil {
		return cmdsetup.Dependencies{}, err
	}

	env, _ := cmd.Flags().GetString(flagEnv)
	configFile, _ := cmd.Flags().GetString(flagConfig)
	configService, err := config.NewService(env, configFile)
	if err != nil {
		return cmdsetup.Dependencies{}, eris.Wrap(err, "failed to create config service")
	}

	cfg := configService.GetConfig()
	overrides, err := overridesFromFlags(cmd)
	if err != nil {
		return cmdsetup.Dependencies{}, err
	}
	if err := cfg.Settings.Apply(overrides); err != nil {
		return cmdsetup.Dependencies{}, err
	}

	apiClient := api.NewClient(cfg.Settings.APIURL, api.WithSessionCookie(cfg.Credential.SessionCookie))
	apiClient.SetAuthToken(cfg.Settings.Token)
	inputService := input.NewService()

	return cmdsetup.Dependencies{
		ConfigService:     configService,
		InputService:      inputService,
		APIClient:         apiClient,
		DeploymentHandler: deployment.NewHandler(apiClient, configService, inputService),
		RootHandler:       forgeroot.NewHandler(AppVersion, configService),
		SetupController:   cmdsetup.NewController(configService, apiClient, inputService),
	}, nil
}

func overridesFromFlags(cmd *cobra.Command) (config.Overrides, error) {
	var overrides config.Overrides
	var err error
	flags := cmd.Flags()
	if overrides.APIURL, err = flags.GetString(flagAPIURL); err != nil {
		return overrides, err
	}
	if overrides.Project, err = flags.GetString(flagProject); err != nil {
		return overrides, err
	}
	if overrides.PollInterval, err = flags.GetDuration(flagPollInterval); err != nil {
		return overrides, err
	}
	// only the logs command has --tail
	if flags.Lookup(flagTail) != nil {
		if overrides.Tail, err = flags.GetInt(flagTail); err != nil {
			return overrides, err
		}
	}
	return overrides, nil
}

// runWithSetup builds the dependencies, establishes the command state and runs fn.
func runWithSetup(
	cmd *cobra.Command,
	req models.SetupRequest,
	fn func(deps cmdsetup.Dependencies, state models.CommandState) error,
) error {
	deps, err := newDependencies(cmd)
	if err != nil {
		return err
	}
	return cmdsetup.WithSetup(cmd.Context(), deps, req, func(state models.CommandState) error {
		return fn(deps, state)
	})
}

// projectRequest is the setup of commands reading or changing a project's deployments.
func projectRequest() models.SetupRequest {
	return models.SetupRequest{
		LoginRequired:   models.NeedLogin,
		ProjectRequired: models.NeedIDOnly,
	}
}

func outputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP(flagOutput, "o", string(models.OutputTable), "Output format (table, json or yaml)")
}

func outputFormat(cmd *cobra.Command) (models.OutputFormat, error) {
	value, err := cmd.Flags().GetString(flagOutput)
	if err != nil {
		return "", err
	}
	return models.ParseOutputFormat(value)
}
