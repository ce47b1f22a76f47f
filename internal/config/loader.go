package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default profile file name.
const DefaultConfigFile = ".sigvec"

// ErrConfigNotFound is returned when the profile file does not exist.
var ErrConfigNotFound = errors.New("profile file not found")

// LoadConfigFile loads tuning profiles from a YAML file. If the file does
// not exist it returns ErrConfigNotFound; callers decide whether that is
// fatal based on whether the path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	if f.Profiles == nil {
		f.Profiles = make(map[string]Profile)
	}
	return &f, nil
}

// FindConfigFile searches for the profile file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .sigvec in the current directory
// 3. Look for .sigvec in the user's home directory
//
// Returns the path if found, or empty string if not.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
