// Package project persists AtlasPack data: the TOML app config, JSON project
// files, the page preset inventory and full backups.
package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/go-homedir"
	"github.com/piwi3910/AtlasPack/internal/model"
)

const (
	configDirName  = ".atlaspack"
	configFileName = "config.toml"
)

// DefaultConfigDir returns ~/.atlaspack, or .atlaspack in the working
// directory when the home directory cannot be found.
func DefaultConfigDir() string {
	home, err := homedir.Dir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, configDirName)
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), configFileName)
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", path, err)
	}
	return expanded, nil
}

// writeFile creates the parent directories of path and writes data to it.
func writeFile(path string, data []byte) error {
	path, err := ExpandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// readFile reads path after expanding a leading ~.
func readFile(path string) ([]byte, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// SaveAppConfig writes config to path as TOML, creating parent directories.
func SaveAppConfig(path string, config model.AppConfig) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return writeFile(path, buf.Bytes())
}

// LoadAppConfig reads an AppConfig from path. Keys missing from the file keep
// their default values, and a missing file yields DefaultAppConfig.
func LoadAppConfig(path string) (model.AppConfig, error) {
	config := model.DefaultAppConfig()

	data, err := readFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config, nil
		}
		return model.AppConfig{}, err
	}
	if _, err := toml.Decode(string(data), &config); err != nil {
		return model.AppConfig{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if config.RecentProjects == nil {
		config.RecentProjects = []string{}
	}
	return config, nil
}
