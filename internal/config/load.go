package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/zjrosen/gitmon/internal/log"
)

// EnvPrefix prefixes environment overrides, e.g. GITMON_DEBOUNCE_MS.
const EnvPrefix = "GITMON"

// RepoConfigPath is the per-repository config file, relative to the
// repository root.
const RepoConfigPath = ".gitmon/config.yaml"

// UserConfigPath returns ~/.config/gitmon/config.yaml, or "" when the home
// directory is unknown.
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gitmon", "config.yaml")
}

// Locate returns the config file to read: explicit when set, then the
// repository file, then the user file. It returns "" when none exists. An
// explicit path must exist.
func Locate(explicit, repoRoot string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file %s: %w", explicit, err)
		}
		return explicit, nil
	}
	if repoRoot != "" {
		p := filepath.Join(repoRoot, RepoConfigPath)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	if p := UserConfigPath(); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}

// Load reads configuration into v from path (when non-empty) plus
// GITMON_* environment variables, on top of Defaults. Flags bound to v
// before Load take precedence over both.
func Load(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return Config{}, fmt.Errorf("reading config %s: %w", path, err)
			}
			log.Debug(log.CatConfig, "Config file not found, using defaults", "path", path)
		} else {
			log.Info(log.CatConfig, "Loaded config", "path", v.ConfigFileUsed())
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
