package deployments

import (
	"context"
	"slices"

	"github.com/rotisserie/eris"

	"pkg.world.dev/forge-cli/internal/app/forge-cli/clients/api"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/models"
)

const (
	// ListPageSize is the page size used when listing a project's deployments.
	ListPageSize = 100

	maxListPages = 50
)

// GroupView is the client-side view of one deployment group.
// It is rebuilt from scratch on every fetch.
type GroupView struct {
	Name        string              `json:"name"        yaml:"name"`
	Active      *models.Deployment  `json:"active"      yaml:"active"`
	Progressing []models.Deployment `json:"progressing" yaml:"progressing"`
}

// HasProgressing reports whether any deployment in the group is still in flight.
func (g GroupView) HasProgressing() bool {
	return len(g.Progressing) > 0
}

// Aggregate groups deployments by deployment group and returns the groups worth showing,
// sorted for display.
//
// A group is kept when it has an active deployment, or when it is not the default group and
// has progressing deployments. If more than one deployment in a group claims to be active the
// last one seen wins.
func Aggregate(deployments []models.Deployment) []GroupView {
	index := map[string]int{}
	groups := []GroupView{}

	for i := range deployments {
		d := deployments[i]
		name := d.Group()
		pos, ok := index[name]
		if !ok {
			pos = len(groups)
			index[name] = pos
			groups = append(groups, GroupView{Name: name, Progressing: []models.Deployment{}})
		}
		if d.IsActive {
			groups[pos].Active = &d
		}
		if !d.Status.IsTerminal() {
			groups[pos].Progressing = append(groups[pos].Progressing, d)
		}
	}

	groups = slices.DeleteFunc(groups, func(g GroupView) bool {
		if g.Active != nil {
			return false
		}
		return g.Name == models.DefaultDeploymentGroup || !g.HasProgressing()
	})

	slices.SortStableFunc(groups, compareGroups)
	return groups
}

// compareGroups orders the default group first, then groups with an active deployment by
// its creation time descending, then groups without an active deployment.
func compareGroups(a, b GroupView) int {
	aDefault := a.Name == models.DefaultDeploymentGroup
	bDefault := b.Name == models.DefaultDeploymentGroup
	switch {
	case aDefault && !bDefault:
		return -1
	case bDefault && !aDefault:
		return 1
	}

	switch {
	case a.Active != nil && b.Active == nil:
		return -1
	case a.Active == nil && b.Active != nil:
		return 1
	case a.Active == nil && b.Active == nil:
		return 0
	}

	aTime, _ := a.Active.CreatedTime()
	bTime, _ := b.Active.CreatedTime()
	return bTime.Compare(aTime)
}

// AnyProgressing reports whether any group still has deployments in flight.
func AnyProgressing(groups []GroupView) bool {
	return slices.ContainsFunc(groups, GroupView.HasProgressing)
}

// ListAll pages through every deployment of a project.
func ListAll(ctx context.Context, client api.ClientInterface, project, group string) ([]models.Deployment, error) {
	all := []models.Deployment{}
	for page := range maxListPages {
		batch, err := client.ListDeployments(ctx, project, api.ListOptions{
			Limit:  ListPageSize,
			Offset: page * ListPageSize,
			Group:  group,
		})
		if err != nil {
			return nil, eris.Wrap(err, "failed to list deployments")
		}
		all = append(all, batch...)
		if len(batch) < ListPageSize {
			return all, nil
		}
	}
	return all, nil
}

// Snapshot is one aggregated read of a project's deployments.
type Snapshot struct {
	Groups []GroupView `json:"groups" yaml:"groups"`
	// InFlight counts non-terminal deployments, including ones in hidden groups.
	InFlight int `json:"in_flight" yaml:"in_flight"`
}

// FetchGroups lists every deployment of a project, optionally limited to one group, and
// aggregates them.
func FetchGroups(ctx context.Context, client api.ClientInterface, project, group string) (Snapshot, error) {
	all, err := ListAll(ctx, client, project, group)
	if err != nil {
		return Snapshot{}, err
	}
	inFlight := 0
	for _, d := range all {
		if !d.Status.IsTerminal() {
			inFlight++
		}
	}
	return Snapshot{Groups: Aggregate(all), InFlight: inFlight}, nil
}
