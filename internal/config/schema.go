package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version     int              `yaml:"version"`
	Devices     []DeviceConfig   `yaml:"devices,omitempty"`
	Credentials Credentials      `yaml:"credentials"`
	Collection  CollectionConfig `yaml:"collection"`
	Inference   InferenceConfig  `yaml:"inference"`
	Output      OutputConfig     `yaml:"output"`
	History     HistoryConfig    `yaml:"history"`
	Log         LogConfig        `yaml:"log"`
}

// DeviceConfig names one switch to collect from
type DeviceConfig struct {
	Host        string       `yaml:"host"`
	Label       string       `yaml:"label,omitempty"`
	Port        int          `yaml:"port,omitempty"`
	Credentials *Credentials `yaml:"credentials,omitempty"` // nil = use global credentials
}

// Credentials holds SSH login material. Values may come from the file, the
// environment or flags.
type Credentials struct {
	Username       string `yaml:"username,omitempty"`
	Password       string `yaml:"password,omitempty"`
	PrivateKeyPath string `yaml:"private_key_path,omitempty"`
	Passphrase     string `yaml:"passphrase,omitempty"`
}

// CollectionConfig controls the device fan-out
type CollectionConfig struct {
	Workers        int      `yaml:"workers"`
	ConnectTimeout Duration `yaml:"connect_timeout"`
	CommandTimeout Duration `yaml:"command_timeout"`
	Commands       []string `yaml:"commands,omitempty"`
	Preflight      bool     `yaml:"preflight"` // nmap SSH port sweep before connecting
}

// InferenceConfig selects the link inference behaviour
type InferenceConfig struct {
	Strategy            string `yaml:"strategy"`
	ResolvePortChannels bool   `yaml:"resolve_port_channels"`
	DropConflictingMACs bool   `yaml:"drop_conflicting_macs"`
}

// OutputConfig describes where the topology document goes
type OutputConfig struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"`
}

// HistoryConfig holds run history database settings
type HistoryConfig struct {
	Path    string `yaml:"path"`
	Enabled bool   `yaml:"enabled"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `yaml:"level"`
	Debug bool   `yaml:"debug"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
