package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: "1",
		Server: ServerConfig{
			Addr: "127.0.0.1:8712",
		},
	}
}

// WriteDefault writes a commented starter configuration to a file
func WriteDefault(path string) error {
	content := `# things-bridge configuration
version: "1"

server:
  # Bind address. Keep this on loopback unless a token is set.
  addr: 127.0.0.1:8712
  # Bearer token required on every request. Generate one with
  # "things-bridge token". Empty disables authentication.
  token: ""

database:
  # Path to the Things main.sqlite. Leave empty to auto-discover it
  # inside the Things group container.
  path: ""
`

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename config: %w", err)
	}
	return nil
}
