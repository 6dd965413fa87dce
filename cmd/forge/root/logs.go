package root

import (
	"github.com/spf13/cobra"

	cmdsetup "pkg.world.dev/forge-cli/internal/app/forge-cli/controllers/cmd_setup"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/models"
)

const flagFollow = "follow"

func init() {
	logsCmd.Flags().BoolP(flagFollow, "f", false, "Keep printing new lines as they arrive")
	logsCmd.Flags().IntP(flagTail, "n", 0, "Number of recent lines to show first (default from config)")
}

// logsCmd prints the runtime logs of a deployment.
// Usage: `forge logs [deployment-id] [--follow] [--tail <n>]`
var logsCmd = &cobra.Command{
	Use:     "logs [deployment-id]",
	GroupID: "Deployments",
	Short:   "Show the runtime logs of a deployment",
	Long: `Show the runtime logs of a deployment.

With --follow the stream stays open and new lines are printed as the
deployment writes them, until the stream ends or you press ctrl+c.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		follow, _ := cmd.Flags().GetBool(flagFollow)
		tail, _ := cmd.Flags().GetInt(flagTail)
		flags := models.LogsFlags{ID: optionalArg(args), Follow: follow, Tail: tail}

		return runWithSetup(cmd, projectRequest(),
			func(deps cmdsetup.Dependencies, state models.CommandState) error {
				return deps.DeploymentHandler.Logs(cmd.Context(), state, flags)
			})
	},
}
