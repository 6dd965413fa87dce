package root

import (
	"github.com/spf13/cobra"

	cmdsetup "pkg.world.dev/forge-cli/internal/app/forge-cli/controllers/cmd_setup"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/models"
)

func init() {
	dashboardCmd.Flags().StringP(flagGroup, "g", "", "Only show this deployment group")
	dashboardCmd.Flags().IntP(flagTail, "n", 0, "Number of recent log lines to load (default from config)")
}

// dashboardCmd opens the interactive deployment dashboard.
// Usage: `forge dashboard`
var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"ui"},
	GroupID: "Deployments",
	Short:   "Open the interactive deployment dashboard",
	Long: `Open an interactive view of a project's deployments.

Browse groups, follow a deployment's timeline and logs, and stop, redeploy
or roll back deployments from one screen.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		group, _ := cmd.Flags().GetString(flagGroup)
		flags := models.DashboardFlags{Group: group}

		return runWithSetup(cmd, projectRequest(),
			func(deps cmdsetup.Dependencies, state models.CommandState) error {
				return deps.DeploymentHandler.Dashboard(cmd.Context(), state, flags)
			})
	},
}
