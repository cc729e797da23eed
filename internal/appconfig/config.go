package appconfig

import (
	"os"
	"path/filepath"
)

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion int          `mapstructure:"config_version" yaml:"config_version"`
	Plan9         Plan9Config  `mapstructure:"plan9" yaml:"plan9"`
	Events        EventsConfig `mapstructure:"events" yaml:"events"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// Plan9Config locates the plan9port tools.
type Plan9Config struct {
	NinePBinary     string   `mapstructure:"bin_9p" yaml:"bin_9p"`
	AcmeEventBinary string   `mapstructure:"bin_acmeevent" yaml:"bin_acmeevent"`
	ExtraArgs       []string `mapstructure:"extra_args" yaml:"extra_args"`
	Env             []string `mapstructure:"env" yaml:"env"`
}

// EventsConfig controls event stream behavior.
type EventsConfig struct {
	Buffer           int `mapstructure:"buffer" yaml:"buffer"`
	StopGraceSeconds int `mapstructure:"stop_grace_seconds" yaml:"stop_grace_seconds"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ConfigVersion: CurrentConfigVersion,
		Plan9: Plan9Config{
			NinePBinary:     "9p",
			AcmeEventBinary: "acmeevent",
			ExtraArgs:       []string{},
			Env:             []string{},
		},
		Events: EventsConfig{
			Buffer:           32,
			StopGraceSeconds: 3,
		},
	}
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".acmectl", "config.yaml"), nil
}
