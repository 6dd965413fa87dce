package root

import (
	"github.com/spf13/cobra"

	cmdsetup "pkg.world.dev/forge-cli/internal/app/forge-cli/controllers/cmd_setup"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/models"
)

// useCmd saves the default project.
// Usage: `forge use <project>`
var useCmd = &cobra.Command{
	Use:     "use <project>",
	GroupID: "Core",
	Short:   "Set the project used when none is given",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := models.UseProjectFlags{Project: args[0]}
		req := models.SetupRequest{LoginRequired: models.IgnoreLogin, ProjectRequired: models.Ignore}

		return runWithSetup(cmd, req, func(deps cmdsetup.Dependencies, _ models.CommandState) error {
			return deps.RootHandler.UseProject(cmd.Context(), flags)
		})
	},
}
