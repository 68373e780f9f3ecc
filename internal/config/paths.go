package config

import (
	"os"
	"path/filepath"
)

// Paths contains the standard dekorate filesystem paths.
type Paths struct {
	// HomeDir is ~/.dekorate.
	HomeDir string

	// ConfigFile is ~/.dekorate/config.yaml.
	ConfigFile string
}

// DefaultPaths returns the default paths.
func DefaultPaths() (*Paths, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	home := filepath.Join(homeDir, ".dekorate")
	return &Paths{
		HomeDir:    home,
		ConfigFile: filepath.Join(home, "config.yaml"),
	}, nil
}

// GetConfigFile returns the config file path. DEKORATE_CONFIG takes
// precedence over the default.
func GetConfigFile() (string, error) {
	if envPath := os.Getenv("DEKORATE_CONFIG"); envPath != "" {
		return envPath, nil
	}

	paths, err := DefaultPaths()
	if err != nil {
		return "", err
	}
	return paths.ConfigFile, nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if len(path) == 1 {
		return homeDir, nil
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:]), nil
	}

	// ~username is not supported
	return path, nil
}
