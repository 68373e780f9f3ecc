package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for CLI settings.
const envPrefix = "DEKORATE"

// envKeys maps config keys to their environment variables.
var envKeys = map[string]string{
	"kubeconfig": "DEKORATE_KUBECONFIG",
	"context":    "DEKORATE_CONTEXT",
	"namespace":  "DEKORATE_NAMESPACE",
	"dockerHost": "DEKORATE_DOCKER_HOST",
	"outputDir":  "DEKORATE_OUTPUT_DIR",
}

// newEnvViper returns a viper instance reading only the environment.
func newEnvViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	for key, env := range envKeys {
		_ = v.BindEnv(key, env)
	}
	return v
}

// Loader reads the configuration file.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a configuration loader.
func NewLoader() *Loader {
	return &Loader{v: viper.New()}
}

// Load reads configFile, or the default config file when empty. A missing
// file yields an empty Config. Environment variables are not consulted;
// ResolveAll layers them on top.
func (l *Loader) Load(configFile string) (*Config, error) {
	if configFile == "" {
		var err error
		configFile, err = GetConfigFile()
		if err != nil {
			return nil, fmt.Errorf("getting config file path: %w", err)
		}
	}

	expandedPath, err := ExpandPath(configFile)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}

	l.v.SetConfigFile(expandedPath)
	l.v.SetConfigType("yaml")

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config file %s: %w", expandedPath, err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ConfigFileExists reports whether the config file exists.
func ConfigFileExists(configFile string) (bool, error) {
	if configFile == "" {
		var err error
		configFile, err = GetConfigFile()
		if err != nil {
			return false, err
		}
	}

	expandedPath, err := ExpandPath(configFile)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(expandedPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
