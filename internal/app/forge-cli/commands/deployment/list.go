package deployment

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/clients/api"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/deployments"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/models"
	"pkg.world.dev/forge-cli/internal/pkg/printer"
	"pkg.world.dev/forge-cli/internal/pkg/tea/program"
)

// List prints the grouped deployment view of the project. With --watch the view is refreshed
// every poll interval until nothing is in flight.
func (h *Handler) List(ctx context.Context, state models.CommandState, flags models.ListDeploymentsFlags) error {
	if !flags.Watch {
		snapshot, err := deployments.FetchGroups(ctx, h.apiClient, state.Project, flags.Group)
		if err != nil {
			return eris.Wrap(err, "Failed to list deployments")
		}
		return renderSnapshot(state.Project, snapshot, flags.Output)
	}

	poller := deployments.NewGroupsPoller(h.apiClient, state.Project, flags.Group, h.settings().PollInterval,
		func(result deployments.PollResult[deployments.Snapshot]) {
			redraw()
			if result.Err != nil {
				printer.Errorf("Failed to refresh deployments: %s\n", api.UserMessage(result.Err))
				return
			}
			if err := renderSnapshot(state.Project, result.Value, flags.Output); err != nil {
				printer.Errorln(err.Error())
			}
		})
	return watch(ctx, poller.Run)
}

func renderSnapshot(project string, snapshot deployments.Snapshot, format models.OutputFormat) error {
	return render(format, snapshot, func() {
		printGroups(project, snapshot)
	})
}

// Groups prints every deployment group of the project with its active deployment.
func (h *Handler) Groups(ctx context.Context, state models.CommandState, flags models.GroupsFlags) error {
	var (
		names    []string
		snapshot deployments.Snapshot
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		names, err = h.apiClient.ListDeploymentGroups(egCtx, state.Project)
		return err
	})
	eg.Go(func() error {
		var err error
		snapshot, err = deployments.FetchGroups(egCtx, h.apiClient, state.Project, "")
		return err
	})
	if err := eg.Wait(); err != nil {
		return eris.Wrap(err, "Failed to list deployment groups")
	}

	summaries := summarizeGroups(names, snapshot.Groups)
	return render(flags.Output, summaries, func() {
		printGroupSummaries(state.Project, summaries)
	})
}

// summarizeGroups joins the server's group names with the aggregated views. Names come
// first in server order, followed by any aggregated group the server did not list.
func summarizeGroups(names []string, views []deployments.GroupView) []groupSummary {
	byName := make(map[string]deployments.GroupView, len(views))
	for _, v := range views {
		byName[v.Name] = v
	}

	summaries := make([]groupSummary, 0, len(names))
	seen := map[string]bool{}
	add := func(name string) {
		if seen[name] {
			return
		}
		seen[name] = true
		summary := groupSummary{Name: name}
		if v, ok := byName[name]; ok {
			if v.Active != nil {
				summary.Active = v.Active.DeploymentID
				summary.Status = string(v.Active.Status)
			}
			summary.Progressing = len(v.Progressing)
		}
		summaries = append(summaries, summary)
	}
	for _, name := range names {
		add(name)
	}
	for _, v := range views {
		add(v.Name)
	}
	return summaries
}

// watch runs a poll loop. Interrupting it is not an error.
func watch(ctx context.Context, run func(context.Context) error) error {
	err := run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// redraw separates watch mode refreshes.
func redraw() {
	if program.IsInteractive() {
		printer.ClearScreen()
		return
	}
	printer.SectionDivider("-", dividerSize)
	printer.Mutedln("refreshed at " + time.Now().Format(time.TimeOnly))
}
