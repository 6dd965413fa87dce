package config

import "time"

type Config struct {
	ProjectName string     `json:"project_name"`
	Credential  Credential `json:"credential"`
	// the following are resolved at load time and never saved
	Settings Settings `json:"-"`
}

type Credential struct {
	Token         string `json:"token"`
	SessionCookie string `json:"session_cookie,omitempty"`
	Email         string `json:"email,omitempty"`
}

// Settings is the effective runtime configuration after applying, in increasing priority,
// defaults, the saved user config, forge.toml, environment variables and command flags.
type Settings struct {
	APIURL       string
	Project      string
	Token        string
	PollInterval time.Duration
	Tail         int
	MaxLogLines  int
	AutoScroll   bool
	Features     map[string]bool
	// ProjectFile is the forge.toml in use, empty when none was found.
	ProjectFile string
}

// Overrides carries command flag values. Zero values leave the setting untouched.
type Overrides struct {
	APIURL       string
	Project      string
	PollInterval time.Duration
	Tail         int
}

// ProjectFile is the decoded content of a forge.toml.
type ProjectFile struct {
	Path         string
	Project      string
	APIURL       string
	PollInterval time.Duration
	Tail         int
	MaxLogLines  int
	AutoScroll   *bool
	Features     map[string]bool
}

var _ ServiceInterface = (*Service)(nil)

type Service struct {
	Env    string
	Config Config
}

type ServiceInterface interface {
	// GetConfig returns the loaded config
	GetConfig() *Config
	// Save saves the config to the file system
	Save() error
}
