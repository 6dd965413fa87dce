package cmdsetup

import (
	"github.com/rotisserie/eris"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/clients/api"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/interfaces"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/services/config"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/services/input"
)

var (
	ErrLogin     = eris.New("not logged in")
	ErrNoProject = eris.New("no project selected")
)

// Dependencies holds all initialized clients and handlers.
type Dependencies struct {
	ConfigService     config.ServiceInterface
	InputService      input.ServiceInterface
	APIClient         api.ClientInterface
	DeploymentHandler interfaces.DeploymentHandler
	RootHandler       interfaces.RootHandler
	SetupController   interfaces.CommandSetupController
}

type Controller struct {
	configService config.ServiceInterface
	inputService  input.ServiceInterface
	apiClient     api.ClientInterface
}

func NewController(
	configService config.ServiceInterface,
	apiClient api.ClientInterface,
	inputService input.ServiceInterface,
) interfaces.CommandSetupController {
	return &Controller{
		configService: configService,
		inputService:  inputService,
		apiClient:     apiClient,
	}
}
