package root

import (
	"github.com/spf13/cobra"

	cmdsetup "pkg.world.dev/forge-cli/internal/app/forge-cli/controllers/cmd_setup"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/models"
)

const (
	flagGroup        = "group"
	flagWatch        = "watch"
	flagYes          = "yes"
	flagUseSourceEnv = "use-source-env"
)

func init() {
	deploymentsCmd.AddCommand(listCmd, showCmd, groupsCmd, stopCmd, rollbackCmd)

	listCmd.Flags().StringP(flagGroup, "g", "", "Only show this deployment group")
	listCmd.Flags().BoolP(flagWatch, "w", false, "Refresh the view until nothing is in flight")
	outputFlag(listCmd)

	showCmd.Flags().BoolP(flagWatch, "w", false, "Refresh the view until the deployment is finished")
	outputFlag(showCmd)

	outputFlag(groupsCmd)

	stopCmd.Flags().BoolP(flagYes, "y", false, "Skip the confirmation prompt")

	rollbackCmd.Flags().Bool(flagUseSourceEnv, false,
		"Use the environment variables of the source deployment instead of the current ones")
	rollbackCmd.Flags().BoolP(flagYes, "y", false, "Skip the confirmation prompt")
}

// deploymentsCmd groups the deployment lifecycle commands.
// Usage: `forge deployments <command>`
var deploymentsCmd = &cobra.Command{
	Use:     "deployments",
	Aliases: []string{"deployment", "deploys"},
	GroupID: "Deployments",
	Short:   "Inspect and manage the deployments of a project",
	Long: `Inspect and manage the deployments of a World Forge project.

Deployments are shown by deployment group: the active deployment serving
each group, followed by any deployment still building or rolling out.`,
}

// Usage: `forge deployments list [--group <name>] [--watch] [-o json]`
var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List active and in-flight deployments by group",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		output, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		group, _ := cmd.Flags().GetString(flagGroup)
		watch, _ := cmd.Flags().GetBool(flagWatch)
		flags := models.ListDeploymentsFlags{Group: group, Watch: watch, Output: output}

		return runWithSetup(cmd, projectRequest(),
			func(deps cmdsetup.Dependencies, state models.CommandState) error {
				return deps.DeploymentHandler.List(cmd.Context(), state, flags)
			})
	},
}

// Usage: `forge deployments show <deployment-id> [--watch] [-o yaml]`
var showCmd = &cobra.Command{
	Use:   "show <deployment-id>",
	Short: "Show a deployment and its lifecycle timeline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		watch, _ := cmd.Flags().GetBool(flagWatch)
		flags := models.ShowDeploymentFlags{ID: args[0], Watch: watch, Output: output}

		return runWithSetup(cmd, projectRequest(),
			func(deps cmdsetup.Dependencies, state models.CommandState) error {
				return deps.DeploymentHandler.Show(cmd.Context(), state, flags)
			})
	},
}

// Usage: `forge deployments groups`
var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List the deployment groups of a project",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		output, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		flags := models.GroupsFlags{Output: output}

		return runWithSetup(cmd, projectRequest(),
			func(deps cmdsetup.Dependencies, state models.CommandState) error {
				return deps.DeploymentHandler.Groups(cmd.Context(), state, flags)
			})
	},
}

// Usage: `forge deployments stop [deployment-id] [--yes]`
var stopCmd = &cobra.Command{
	Use:   "stop [deployment-id]",
	Short: "Stop a deployment",
	Long: `Stop a deployment that is still building, rolling out or serving traffic.

Without a deployment id you can pick one of the stoppable deployments.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool(flagYes)
		flags := models.StopDeploymentFlags{ID: optionalArg(args), Yes: yes}

		return runWithSetup(cmd, projectRequest(),
			func(deps cmdsetup.Dependencies, state models.CommandState) error {
				return deps.DeploymentHandler.Stop(cmd.Context(), state, flags)
			})
	},
}

// Usage: `forge deployments rollback [deployment-id] [--use-source-env] [--yes]`
var rollbackCmd = &cobra.Command{
	Use:     "rollback [deployment-id]",
	Aliases: []string{"redeploy"},
	Short:   "Roll back to an earlier deployment or redeploy the active one",
	Long: `Create a new deployment from the image of an existing one.

For a superseded deployment this rolls its group back. For the active
deployment it redeploys the same image, which picks up changed environment
variables unless --use-source-env is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		useSourceEnv, _ := cmd.Flags().GetBool(flagUseSourceEnv)
		yes, _ := cmd.Flags().GetBool(flagYes)
		flags := models.RollbackDeploymentFlags{ID: optionalArg(args), UseSourceEnv: useSourceEnv, Yes: yes}

		return runWithSetup(cmd, projectRequest(),
			func(deps cmdsetup.Dependencies, state models.CommandState) error {
				return deps.DeploymentHandler.Rollback(cmd.Context(), state, flags)
			})
	},
}

func optionalArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
