package service

import (
	"switchgraph/internal/collector"
	"switchgraph/internal/config"
)

// TargetsFromConfig turns configured devices into collection targets, each
// carrying its own resolved credentials
func TargetsFromConfig(cfg *config.Config) []collector.Target {
	targets := make([]collector.Target, 0, len(cfg.Devices))
	for _, d := range cfg.Devices {
		creds := cfg.CredentialsFor(d)
		targets = append(targets, collector.Target{
			Host:  d.Host,
			Label: d.Label,
			Port:  d.Port,
			Credentials: collector.Credentials{
				Username:       creds.Username,
				Password:       creds.Password,
				PrivateKeyPath: creds.PrivateKeyPath,
				Passphrase:     creds.Passphrase,
			},
		})
	}
	return targets
}
