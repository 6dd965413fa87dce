package root

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pkg.world.dev/forge-cli/internal/app/forge-cli/models"
	"pkg.world.dev/forge-cli/internal/pkg/logger"
	"pkg.world.dev/forge-cli/internal/pkg/printer"
	"pkg.world.dev/forge-cli/internal/pkg/tea/style"
	"pkg.world.dev/forge-cli/internal/pkg/telemetry"
)

const (
	flagConfig       = "config"
	flagEnv          = "env"
	flagProject      = "project"
	flagAPIURL       = "api-url"
	flagPollInterval = "poll-interval"
	flagTail         = "tail"
	flagOutput       = "output"
)

var AppVersion string

func init() {
	// Enable case-insensitive commands
	cobra.EnableCaseInsensitive = true

	// Register groups
	rootCmd.AddGroup(&cobra.Group{ID: "Deployments", Title: "Deployment Commands:"})
	rootCmd.AddGroup(&cobra.Group{ID: "Core", Title: "Forge CLI Commands:"})

	// Register base commands
	rootCmd.AddCommand(useCmd, versionCmd)

	// Register subcommands
	rootCmd.AddCommand(deploymentsCmd, logsCmd, dashboardCmd)

	addGlobalFlags(rootCmd)

	// Add --debug flag
	logger.AddLogFlag(rootCmd)
}

// rootCmd represents the base command
// Usage: `forge`
var rootCmd = &cobra.Command{
	Use:           "forge",
	Short:         "Watch and operate World Forge deployments",
	Long:          style.CLIHeader("Forge CLI", "Watch and operate World Forge deployments"),
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		logger.SetDebugMode(cmd)
		telemetry.PosthogCaptureEvent(AppVersion, telemetry.CommandEvent, map[string]interface{}{
			"command": cmd.CommandPath(),
		})
	},
}

func addGlobalFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String(flagConfig, "", "Path to a forge.toml project file")
	flags.String(flagEnv, "", "Forge environment to talk to (PROD, DEV or LOCAL)")
	flags.StringP(flagProject, "p", "", "Project to operate on")
	flags.String(flagAPIURL, "", "Override the Forge API URL")
	flags.Duration(flagPollInterval, 0, "How often watched views refresh")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// It returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		logger.Errors(err)
		var reported *models.ReportedError
		if !errors.As(err, &reported) {
			printer.Errorln(err.Error())
		}
	}
	// print log stack
	logger.PrintLogs()
	if err != nil {
		return 1
	}
	return 0
}
