package root

import (
	"github.com/spf13/cobra"

	forgeroot "pkg.world.dev/forge-cli/internal/app/forge-cli/commands/root"
)

// versionCmd print the version number of Forge CLI.
// Usage: `forge version`.
var versionCmd = &cobra.Command{
	Use:     "version",
	GroupID: "Core",
	Short:   "Display the current Forge CLI version",
	Long: `Show the exact version of Forge CLI you're currently using.

This information is useful when reporting issues or checking for updates.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		// needs no config, so it works before the CLI is set up
		return forgeroot.NewHandler(AppVersion, nil).Version()
	},
}
