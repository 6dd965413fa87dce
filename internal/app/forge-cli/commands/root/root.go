package root

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/models"
	"pkg.world.dev/forge-cli/internal/pkg/printer"
)

func (h *Handler) Version() error {
	printer.Infof("Forge CLI %s\n", h.AppVersion)
	return nil
}

func (h *Handler) SetAppVersion(version string) {
	h.AppVersion = version
}

// UseProject saves the project used by commands that don't name one.
func (h *Handler) UseProject(_ context.Context, flags models.UseProjectFlags) error {
	project := strings.TrimSpace(flags.Project)
	if project == "" {
		return ErrEmptyProject
	}

	cfg := h.configService.GetConfig()
	previous, previousSetting := cfg.ProjectName, cfg.Settings.Project
	cfg.ProjectName = project
	cfg.Settings.Project = project
	if err := h.configService.Save(); err != nil {
		cfg.ProjectName, cfg.Settings.Project = previous, previousSetting
		return eris.Wrap(err, "failed to save project selection")
	}

	printer.Successf("Now using project %s\n", project)
	if cfg.Settings.ProjectFile != "" {
		printer.Notificationf("%s in this directory still takes precedence\n", cfg.Settings.ProjectFile)
	}
	return nil
}
