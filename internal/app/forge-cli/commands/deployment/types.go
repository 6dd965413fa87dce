package deployment

import (
	"github.com/rotisserie/eris"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/clients/api"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/interfaces"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/services/config"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/services/input"
)

// Interface guard.
var _ interfaces.DeploymentHandler = (*Handler)(nil)

var (
	ErrNoDeployments  = eris.New("no deployments available")
	ErrNotInteractive = eris.New("the dashboard needs an interactive terminal")
)

type Handler struct {
	apiClient     api.ClientInterface
	configService config.ServiceInterface
	inputHandler  input.ServiceInterface
}

func NewHandler(
	apiClient api.ClientInterface,
	configService config.ServiceInterface,
	inputHandler input.ServiceInterface,
) *Handler {
	return &Handler{
		apiClient:     apiClient,
		configService: configService,
		inputHandler:  inputHandler,
	}
}

func (h *Handler) settings() config.Settings {
	return h.configService.GetConfig().Settings
}
