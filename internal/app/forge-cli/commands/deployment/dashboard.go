package deployment

import (
	"context"

	"pkg.world.dev/forge-cli/internal/app/forge-cli/models"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/tui"
	"pkg.world.dev/forge-cli/internal/pkg/tea/program"
)

// Dashboard opens the interactive deployment dashboard.
func (h *Handler) Dashboard(ctx context.Context, state models.CommandState, flags models.DashboardFlags) error {
	if !program.IsInteractive() {
		return ErrNotInteractive
	}
	settings := h.settings()
	return tui.Run(ctx, tui.Options{
		Client:       h.apiClient,
		Project:      state.Project,
		Group:        flags.Group,
		PollInterval: settings.PollInterval,
		Tail:         settings.Tail,
		MaxLogLines:  settings.MaxLogLines,
		AutoScroll:   settings.AutoScroll,
		Features:     settings.Features,
	})
}
