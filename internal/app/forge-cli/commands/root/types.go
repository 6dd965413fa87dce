package root

import (
	"github.com/rotisserie/eris"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/interfaces"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/services/config"
)

// Interface guard.
var _ interfaces.RootHandler = (*Handler)(nil)

var ErrEmptyProject = eris.New("project name cannot be empty")

type Handler struct {
	AppVersion    string
	configService config.ServiceInterface
}

func NewHandler(appVersion string, configService config.ServiceInterface) *Handler {
	return &Handler{
		AppVersion:    appVersion,
		configService: configService,
	}
}
