package appconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Load reads configuration from the provided path. If path is empty, uses DefaultConfigPath.
func Load(path string) (Config, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = defaultPath
	}

	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("config_version", cfg.ConfigVersion)
	v.SetDefault("plan9.bin_9p", cfg.Plan9.NinePBinary)
	v.SetDefault("plan9.bin_acmeevent", cfg.Plan9.AcmeEventBinary)
	v.SetDefault("plan9.extra_args", cfg.Plan9.ExtraArgs)
	v.SetDefault("plan9.env", cfg.Plan9.Env)
	v.SetDefault("events.buffer", cfg.Events.Buffer)
	v.SetDefault("events.stop_grace_seconds", cfg.Events.StopGraceSeconds)

	configLoaded := false
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	} else {
		configLoaded = true
	}

	if configLoaded {
		if !v.IsSet("config_version") {
			return Config{}, fmt.Errorf("config_version is required; expected %d", CurrentConfigVersion)
		}
		if v.GetInt("config_version") != CurrentConfigVersion {
			return Config{}, fmt.Errorf("unsupported config_version %d; expected %d", v.GetInt("config_version"), CurrentConfigVersion)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	expandConfigEnv(&cfg)
	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.Plan9.NinePBinary) == "" {
		return fmt.Errorf("plan9.bin_9p must not be empty")
	}
	if strings.TrimSpace(cfg.Plan9.AcmeEventBinary) == "" {
		return fmt.Errorf("plan9.bin_acmeevent must not be empty")
	}
	if cfg.Events.Buffer <= 0 {
		return fmt.Errorf("events.buffer must be positive")
	}
	if cfg.Events.StopGraceSeconds <= 0 {
		return fmt.Errorf("events.stop_grace_seconds must be positive")
	}
	return nil
}

func expandConfigEnv(cfg *Config) {
	if cfg == nil {
		return
	}
	cfg.Plan9.NinePBinary = expandEnv(cfg.Plan9.NinePBinary)
	cfg.Plan9.AcmeEventBinary = expandEnv(cfg.Plan9.AcmeEventBinary)
	for i, arg := range cfg.Plan9.ExtraArgs {
		cfg.Plan9.ExtraArgs[i] = expandEnv(arg)
	}
	for i, entry := range cfg.Plan9.Env {
		cfg.Plan9.Env[i] = expandEnv(entry)
	}
}

func expandEnv(value string) string {
	if value == "" {
		return value
	}
	return os.Expand(value, func(key string) string {
		if key == "" {
			return ""
		}
		if val, ok := lookupEnv(key); ok {
			return val
		}
		return "$" + key
	})
}

func lookupEnv(key string) (string, bool) {
	if val, ok := os.LookupEnv(key); ok {
		return val, true
	}
	switch key {
	case "UID":
		return fmt.Sprintf("%d", os.Getuid()), true
	case "GID":
		return fmt.Sprintf("%d", os.Getgid()), true
	}
	return "", false
}

// WriteDefault writes the default config to the target path.
func WriteDefault(path string, overwrite bool) (string, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", err
		}
		path = defaultPath
	}

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config already exists at %s", path)
		}
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
