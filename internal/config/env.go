package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override credentials
const (
	EnvUsername = "SWITCHGRAPH_USERNAME"
	EnvPassword = "SWITCHGRAPH_PASSWORD"
	EnvKeyFile  = "SWITCHGRAPH_KEY_FILE"
	EnvLogLevel = "LOG_LEVEL"
)

// LoadDotEnv loads variables from the given .env files (default ".env").
// Missing files are ignored; variables already set are not overwritten.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// ApplyEnv overrides global credentials and log level from the environment
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvUsername); v != "" {
		c.Credentials.Username = v
	}
	if v := os.Getenv(EnvPassword); v != "" {
		c.Credentials.Password = v
	}
	if v := os.Getenv(EnvKeyFile); v != "" {
		c.Credentials.PrivateKeyPath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}
