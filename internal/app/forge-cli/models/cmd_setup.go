package models

type CommandState struct {
	LoggedIn bool
	Project  string
}

// SetupRequirement defines what level of setup is needed for the project.
type SetupRequirement int

const (
	Ignore             SetupRequirement = iota
	NeedIDOnly                          // we need the project name, prompt for it if not configured
	NeedExistingIDOnly                  // the project name must already be configured
)

// LoginRequirement defines what level of login is needed.
type LoginRequirement int

const (
	IgnoreLogin LoginRequirement = iota // don't care if we are logged in or not
	NeedLogin
)

// SetupRequest defines what a command needs to be properly initialized.
type SetupRequest struct {
	LoginRequired   LoginRequirement
	ProjectRequired SetupRequirement
}
