package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads the configuration file and applies environment overrides.
// A missing file is not an error; defaults apply.
func Load() (*Config, error) {
	return LoadFile(Path())
}

// LoadFile loads configuration from an explicit path
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("THINGS_BRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults must be registered for AutomaticEnv to see the keys.
	v.SetDefault("version", cfg.Version)
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.token", cfg.Server.Token)
	v.SetDefault("database.path", cfg.Database.Path)

	// A missing file is fine: defaults plus env overrides apply.
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}

// Path returns the path to the config file
func Path() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".things-bridge", "config.yaml")
}

// DatabasePath resolves the Things database location: the configured
// path when set, otherwise discovery inside the group container.
func (c *Config) DatabasePath() (string, error) {
	if c.Database.Path != "" {
		return expandHome(c.Database.Path), nil
	}
	return DiscoverDatabase()
}

// groupContainer is the Things sandbox container relative to the home
// directory. The database moved into a per-account subdirectory in
// Things 3.15.16, hence the glob in DiscoverDatabase.
const groupContainer = "Library/Group Containers/JLMPQHK86H.com.culturedcode.ThingsMac"

// DiscoverDatabase locates main.sqlite inside the Things group
// container, preferring the modern per-account layout.
func DiscoverDatabase() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	container := filepath.Join(home, groupContainer)

	candidates := []string{
		filepath.Join(container, "ThingsData-*", "Things Database.thingsdatabase", "main.sqlite"),
		filepath.Join(container, "Things Database.thingsdatabase", "main.sqlite"),
	}
	for _, pattern := range candidates {
		matches, _ := filepath.Glob(pattern)
		if len(matches) > 0 {
			return matches[0], nil
		}
	}

	return "", fmt.Errorf("things database not found under %s (is Things installed?)", container)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
