package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/rotisserie/eris"

	"pkg.world.dev/forge-cli/internal/pkg/logger"
)

const ProjectFileName = "forge.toml"

// FindProjectFile locates and loads forge.toml. An explicit path wins, then FORGE_CONFIG_FILE,
// then the nearest forge.toml walking up from the working directory.
// It returns nil without error when no file is found by walking.
func FindProjectFile(explicit string) (*ProjectFile, error) {
	if explicit != "" {
		return LoadProjectFile(explicit)
	}
	if filename := os.Getenv(EnvVarConfigFile); filename != "" {
		return LoadProjectFile(filename)
	}

	currDir, err := os.Getwd()
	if err != nil {
		return nil, eris.Wrap(err, "failed to get working directory")
	}
	for {
		filename := filepath.Join(currDir, ProjectFileName)
		if _, err := os.Stat(filename); err == nil {
			return LoadProjectFile(filename)
		}
		parent := filepath.Dir(currDir)
		if parent == currDir {
			break
		}
		currDir = parent
	}

	logger.Debug("no forge.toml found")
	return nil, nil //nolint:nilnil // a missing project file is not an error
}

// LoadProjectFile decodes a forge.toml.
func LoadProjectFile(filename string) (*ProjectFile, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to open %s", filename)
	}
	defer file.Close()

	data := map[string]any{}
	if err = toml.NewDecoder(file).Decode(&data); err != nil {
		return nil, eris.Wrapf(err, "failed to decode %s", filename)
	}

	project := &ProjectFile{Path: filename}
	if project.Project, err = stringValue(data, "project"); err != nil {
		return nil, err
	}
	if project.APIURL, err = stringValue(data, "api_url"); err != nil {
		return nil, err
	}
	if project.PollInterval, err = durationValue(data, "poll_interval"); err != nil {
		return nil, err
	}
	if project.Tail, err = intValue(data, "tail"); err != nil {
		return nil, err
	}
	if project.MaxLogLines, err = intValue(data, "max_log_lines"); err != nil {
		return nil, err
	}
	if raw, ok := data["auto_scroll"]; ok {
		autoScroll, ok := raw.(bool)
		if !ok {
			return nil, eris.Wrap(ErrInvalidSetting, "auto_scroll must be a boolean")
		}
		project.AutoScroll = &autoScroll
	}
	if raw, ok := data["features"]; ok {
		table, ok := raw.(map[string]any)
		if !ok {
			return nil, eris.Wrap(ErrInvalidSetting, "features must be a table")
		}
		project.Features = make(map[string]bool, len(table))
		for name, value := range table {
			enabled, ok := value.(bool)
			if !ok {
				return nil, eris.Wrapf(ErrInvalidSetting, "feature %q must be a boolean", name)
			}
			project.Features[name] = enabled
		}
	}

	logger.Debugf("successfully loaded project config from %q", filename)
	return project, nil
}

func stringValue(data map[string]any, key string) (string, error) {
	raw, ok := data[key]
	if !ok {
		return "", nil
	}
	value, ok := raw.(string)
	if !ok {
		return "", eris.Wrapf(ErrInvalidSetting, "%s must be a string", key)
	}
	return value, nil
}

func intValue(data map[string]any, key string) (int, error) {
	raw, ok := data[key]
	if !ok {
		return 0, nil
	}
	value, ok := raw.(int64)
	if !ok || value <= 0 {
		return 0, eris.Wrapf(ErrInvalidSetting, "%s must be a positive integer", key)
	}
	return int(value), nil
}

// durationValue accepts a Go duration string ("10s") or a number of seconds.
func durationValue(data map[string]any, key string) (time.Duration, error) {
	raw, ok := data[key]
	if !ok {
		return 0, nil
	}
	var d time.Duration
	switch v := raw.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return 0, eris.Wrapf(ErrInvalidSetting, "%s: %v", key, err)
		}
		d = parsed
	case int64:
		d = time.Duration(v) * time.Second
	default:
		return 0, eris.Wrapf(ErrInvalidSetting, "%s must be a duration, got %s", key, fmt.Sprintf("%T", raw))
	}
	if d <= 0 {
		return 0, eris.Wrapf(ErrInvalidSetting, "%s must be positive", key)
	}
	return d, nil
}
