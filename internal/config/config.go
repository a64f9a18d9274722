// Package config provides configuration management for switchgraph.
//
// Settings come from three layers, later layers winning:
//   - a YAML file (see SearchPaths)
//   - environment variables, optionally loaded from a .env file
//   - command-line flags, applied by the caller
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults
const (
	DefaultWorkers        = 10
	DefaultConnectTimeout = 10 * time.Second
	DefaultCommandTimeout = 30 * time.Second
	DefaultSSHPort        = 22
	DefaultOutputPath     = "html/data.json"
	DefaultOutputFormat   = "json"
	DefaultHistoryPath    = "./switchgraph.db"
	DefaultStrategy       = "shared-mac"
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, path, nil
}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Collection.Workers <= 0 {
		c.Collection.Workers = DefaultWorkers
	}
	if c.Collection.ConnectTimeout == 0 {
		c.Collection.ConnectTimeout = Duration(DefaultConnectTimeout)
	}
	if c.Collection.CommandTimeout == 0 {
		c.Collection.CommandTimeout = Duration(DefaultCommandTimeout)
	}
	if c.Inference.Strategy == "" {
		c.Inference.Strategy = DefaultStrategy
	}
	if c.Output.Path == "" {
		c.Output.Path = DefaultOutputPath
	}
	if c.Output.Format == "" {
		c.Output.Format = DefaultOutputFormat
	}
	if c.History.Path == "" {
		c.History.Path = DefaultHistoryPath
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	for i := range c.Devices {
		if c.Devices[i].Port == 0 {
			c.Devices[i].Port = DefaultSSHPort
		}
	}
}

// AddHosts appends devices given on the command line, skipping hosts that
// are already configured
func (c *Config) AddHosts(hosts ...string) {
	seen := make(map[string]bool, len(c.Devices))
	for _, d := range c.Devices {
		seen[d.Host] = true
	}
	for _, h := range hosts {
		h = strings.TrimSpace(h)
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		c.Devices = append(c.Devices, DeviceConfig{Host: h, Port: DefaultSSHPort})
	}
}

// CredentialsFor returns the credentials to use for a device: its own block
// when present, otherwise the global one
func (c *Config) CredentialsFor(d DeviceConfig) Credentials {
	if d.Credentials == nil {
		return c.Credentials
	}
	creds := *d.Credentials
	if creds.Username == "" {
		creds.Username = c.Credentials.Username
	}
	if creds.Password == "" && creds.PrivateKeyPath == "" {
		creds.Password = c.Credentials.Password
		creds.PrivateKeyPath = c.Credentials.PrivateKeyPath
		creds.Passphrase = c.Credentials.Passphrase
	}
	return creds
}

// Validate checks settings needed before a live collection
func (c *Config) Validate() error {
	var errs []error

	if len(c.Devices) == 0 {
		errs = append(errs, errors.New("no devices configured"))
	}
	seen := make(map[string]bool, len(c.Devices))
	for i, d := range c.Devices {
		if d.Host == "" {
			errs = append(errs, fmt.Errorf("devices[%d]: host is required", i))
			continue
		}
		if seen[d.Host] {
			errs = append(errs, fmt.Errorf("devices[%d]: duplicate host %q", i, d.Host))
		}
		seen[d.Host] = true
		if d.Port < 0 || d.Port > 65535 {
			errs = append(errs, fmt.Errorf("devices[%d]: invalid port %d", i, d.Port))
		}
		creds := c.CredentialsFor(d)
		if creds.Username == "" {
			errs = append(errs, fmt.Errorf("devices[%d] %s: username is required", i, d.Host))
		}
		if creds.Password == "" && creds.PrivateKeyPath == "" {
			errs = append(errs, fmt.Errorf("devices[%d] %s: password or private key is required", i, d.Host))
		}
	}

	if err := c.ValidateOffline(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// ValidateOffline checks settings that matter even without SSH access
func (c *Config) ValidateOffline() error {
	var errs []error
	if c.Collection.Workers <= 0 {
		errs = append(errs, errors.New("collection.workers must be positive"))
	}
	switch c.Inference.Strategy {
	case "shared-mac", "owned-mac":
	default:
		errs = append(errs, fmt.Errorf("inference.strategy: unknown strategy %q", c.Inference.Strategy))
	}
	switch strings.ToLower(c.Output.Format) {
	case "json", "yaml", "yml":
	default:
		errs = append(errs, fmt.Errorf("output.format: unsupported format %q", c.Output.Format))
	}
	return errors.Join(errs...)
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	summary := fmt.Sprintf("Devices: %d, Workers: %d, Strategy: %s\n",
		len(c.Devices), c.Collection.Workers, c.Inference.Strategy)
	summary += fmt.Sprintf("Output: %s (%s)", c.Output.Path, c.Output.Format)
	if c.History.Enabled {
		summary += fmt.Sprintf(", History: %s", c.History.Path)
	}
	return summary
}
