package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"

	"pkg.world.dev/forge-cli/internal/pkg/logger"
)

const (
	EnvLocal = "LOCAL"
	EnvDev   = "DEV"
	EnvProd  = "PROD"

	EnvVarAPIURL     = "FORGE_API_URL"
	EnvVarToken      = "FORGE_TOKEN"
	EnvVarProject    = "FORGE_PROJECT"
	EnvVarEnv        = "FORGE_ENV"
	EnvVarConfigFile = "FORGE_CONFIG_FILE"

	DefaultPollInterval = 5 * time.Second
	DefaultTail         = 100
	DefaultMaxLogLines  = 5000

	configDir       = ".forgecli"
	defaultFileName = "forge-config.json"
)

var (
	ErrCannotSaveConfig = eris.New("Critical config update error could not save")
	ErrInvalidSetting   = eris.New("invalid setting")
)

//nolint:gochecknoglobals // read only
var defaultAPIURLs = map[string]string{
	EnvLocal: "http://localhost:8001",
	EnvDev:   "https://forge.dev.world.dev",
	EnvProd:  "https://forge.world.dev",
}

//nolint:gochecknoglobals // replaced in tests
var GetCLIConfigDir = func() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, configDir), nil
}

// NewService loads the saved user config for env and resolves the effective settings.
// projectFile is the value of the --config flag and may be empty.
func NewService(env, projectFile string) (ServiceInterface, error) {
	service := &Service{
		Env:    NormalizeEnv(env),
		Config: Config{},
	}

	if err := service.getSetConfig(); err != nil {
		return nil, eris.Wrap(err, "failed to get config")
	}

	project, err := FindProjectFile(projectFile)
	if err != nil {
		return nil, err
	}

	settings, err := ResolveSettings(service.Env, service.Config, project, os.Getenv)
	if err != nil {
		return nil, err
	}
	service.Config.Settings = settings
	return service, nil
}

func (s *Service) GetConfig() *Config {
	return &s.Config
}

func (s *Service) Save() error {
	configFile, err := s.getConfigFileName()
	if err != nil {
		return eris.Wrap(err, "failed get config file name")
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return eris.Wrap(err, "failed to create config dir")
	}

	configJSON, err := json.Marshal(s.Config)
	if err != nil {
		return eris.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(configFile, configJSON, 0600); err != nil {
		return eris.Wrap(ErrCannotSaveConfig, err.Error())
	}
	return nil
}

// NormalizeEnv upper-cases env and maps unknown values to EnvProd.
func NormalizeEnv(env string) string {
	env = strings.ToUpper(strings.TrimSpace(env))
	if _, ok := defaultAPIURLs[env]; ok {
		return env
	}
	return EnvProd
}

// LoadDotEnv loads a .env file from dir into the process environment.
// Variables already set are kept, a missing file is not an error.
func LoadDotEnv(dir string) error {
	filename := filepath.Join(dir, ".env")
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(filename); err != nil {
		return eris.Wrapf(err, "failed to load %s", filename)
	}
	logger.Debugf("loaded environment from %q", filename)
	return nil
}

//////////////////////////////////////////////////////////////////////////////////////////////////
// internal functions
//////////////////////////////////////////////////////////////////////////////////////////////////

func (s *Service) getSetConfig() error {
	var config Config

	configFile, err := s.getConfigFileName()
	if err != nil {
		return eris.Wrap(err, "failed get config file name")
	}

	file, err := os.ReadFile(configFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // this is ok, just create empty config
		}
		return eris.Wrap(err, "failed to read config file")
	}

	if err = json.Unmarshal(file, &config); err != nil {
		err = eris.Wrap(err, "failed to unmarshal config")
		logger.Errors(err)
		return err
	}

	s.Config = config
	return nil
}

func (s *Service) getConfigFileName() (string, error) {
	fileName := defaultFileName
	if s.Env == EnvDev || s.Env == EnvLocal {
		fileName = strings.ToLower(s.Env) + "-" + fileName
	}
	fullConfigDir, err := GetCLIConfigDir()
	if err != nil {
		return "", eris.Wrap(err, "failed get config dir")
	}
	return filepath.Join(fullConfigDir, fileName), nil
}
