package config

import (
	"maps"

	"github.com/rotisserie/eris"
)

// DefaultSettings returns the built-in settings for env.
func DefaultSettings(env string) Settings {
	return Settings{
		APIURL:       defaultAPIURLs[NormalizeEnv(env)],
		PollInterval: DefaultPollInterval,
		Tail:         DefaultTail,
		MaxLogLines:  DefaultMaxLogLines,
		AutoScroll:   true,
		Features:     map[string]bool{},
	}
}

// ResolveSettings layers saved config, project file and environment over the defaults.
// project may be nil.
func ResolveSettings(env string, saved Config, project *ProjectFile, getenv func(string) string) (Settings, error) {
	settings := DefaultSettings(env)
	settings.Project = saved.ProjectName
	settings.Token = saved.Credential.Token

	if project != nil {
		settings.ProjectFile = project.Path
		if project.Project != "" {
			settings.Project = project.Project
		}
		if project.APIURL != "" {
			settings.APIURL = project.APIURL
		}
		if project.PollInterval > 0 {
			settings.PollInterval = project.PollInterval
		}
		if project.Tail > 0 {
			settings.Tail = project.Tail
		}
		if project.MaxLogLines > 0 {
			settings.MaxLogLines = project.MaxLogLines
		}
		if project.AutoScroll != nil {
			settings.AutoScroll = *project.AutoScroll
		}
		maps.Copy(settings.Features, project.Features)
	}

	if v := getenv(EnvVarAPIURL); v != "" {
		settings.APIURL = v
	}
	if v := getenv(EnvVarProject); v != "" {
		settings.Project = v
	}
	if v := getenv(EnvVarToken); v != "" {
		settings.Token = v
	}

	if settings.APIURL == "" {
		return Settings{}, eris.Wrap(ErrInvalidSetting, "api url cannot be empty")
	}
	return settings, nil
}

// Apply layers command flag values over the settings.
func (s *Settings) Apply(o Overrides) error {
	if o.Tail < 0 {
		return eris.Wrap(ErrInvalidSetting, "tail must be a positive integer")
	}
	if o.PollInterval < 0 {
		return eris.Wrap(ErrInvalidSetting, "poll interval must be positive")
	}
	if o.APIURL != "" {
		s.APIURL = o.APIURL
	}
	if o.Project != "" {
		s.Project = o.Project
	}
	if o.PollInterval > 0 {
		s.PollInterval = o.PollInterval
	}
	if o.Tail > 0 {
		s.Tail = o.Tail
	}
	return nil
}

// FeatureEnabled reports whether a preview feature was switched on in forge.toml.
func (s Settings) FeatureEnabled(name string) bool {
	return s.Features[name]
}
