package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rotisserie/eris"

	"pkg.world.dev/forge-cli/internal/app/forge-cli/clients/api"
	"pkg.world.dev/forge-cli/internal/pkg/logger"
	"pkg.world.dev/forge-cli/internal/pkg/tea/program"
)

// FeatureBuildLogs shows the stored build output on the detail screen.
const FeatureBuildLogs = "build_logs"

const toastDuration = 4 * time.Second

type Options struct {
	Client       api.ClientInterface
	Project      string
	Group        string
	PollInterval time.Duration
	Tail         int
	MaxLogLines  int
	AutoScroll   bool
	Features     map[string]bool
}

// Run shows the dashboard until the user quits or ctx ends.
func Run(ctx context.Context, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var p *tea.Program
	m := NewModel(ctx, opts, func(msg tea.Msg) { p.Send(msg) })
	p = program.NewTeaProgram(m, tea.WithContext(ctx))

	_, err := p.Run()
	m.Close()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return eris.Wrap(err, "dashboard failed")
	}
	logger.Debug("dashboard closed")
	return nil
}
