package config

// Config represents the full things-bridge configuration
type Config struct {
	Version string `yaml:"version" mapstructure:"version"`

	// Server configuration
	Server ServerConfig `yaml:"server" mapstructure:"server"`

	// Database configuration
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
}

// ServerConfig configures the HTTP surface
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`

	// Token is the bearer token required on every request. Empty means
	// the API is open; only sensible behind a loopback bind.
	Token string `yaml:"token" mapstructure:"token"`
}

// DatabaseConfig locates the Things database
type DatabaseConfig struct {
	// Path points at main.sqlite. When empty the loader discovers it
	// inside the Things group container.
	Path string `yaml:"path" mapstructure:"path"`
}
