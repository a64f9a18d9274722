package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath is the environment variable for an explicit config path
	EnvConfigPath = "SWITCHGRAPH_CONFIG"
	// ConfigFileName is the config file name looked up in the working directory
	ConfigFileName = "switchgraph.yaml"
	// ConfigDirName is the config directory name under XDG and /etc
	ConfigDirName = "switchgraph"
)

// SearchPaths lists config locations in priority order:
//  1. $SWITCHGRAPH_CONFIG
//  2. ./switchgraph.yaml
//  3. $XDG_CONFIG_HOME/switchgraph/config.yaml
//  4. ~/.config/switchgraph/config.yaml
//  5. /etc/switchgraph/config.yaml
func SearchPaths() []string {
	var paths []string
	if path := os.Getenv(EnvConfigPath); path != "" {
		paths = append(paths, path)
	}
	paths = append(paths, ConfigFileName)
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		paths = append(paths, filepath.Join(xdgHome, ConfigDirName, "config.yaml"))
	}
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", ConfigDirName, "config.yaml"))
	}
	return append(paths, filepath.Join("/etc", ConfigDirName, "config.yaml"))
}

// FindConfigPath returns the first existing entry of SearchPaths, or "" when
// there is no config file
func FindConfigPath() string {
	for _, path := range SearchPaths() {
		if !fileExists(path) {
			continue
		}
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
