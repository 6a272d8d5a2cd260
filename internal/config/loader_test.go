package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Server.Addr != "127.0.0.1:8712" {
		t.Errorf("Addr = %q, want default 127.0.0.1:8712", cfg.Server.Addr)
	}
	if cfg.Server.Token != "" {
		t.Errorf("Token = %q, want empty default", cfg.Server.Token)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `version: "1"
server:
  addr: 0.0.0.0:9000
  token: sekrit
database:
  path: /tmp/custom.sqlite
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Server.Addr != "0.0.0.0:9000" {
		t.Errorf("Addr = %q, want 0.0.0.0:9000", cfg.Server.Addr)
	}
	if cfg.Server.Token != "sekrit" {
		t.Errorf("Token = %q, want sekrit", cfg.Server.Token)
	}
	if cfg.Database.Path != "/tmp/custom.sqlite" {
		t.Errorf("Database path = %q, want /tmp/custom.sqlite", cfg.Database.Path)
	}
}

func TestLoadFileEnvOverride(t *testing.T) {
	t.Setenv("THINGS_BRIDGE_SERVER_ADDR", "127.0.0.1:7000")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Server.Addr != "127.0.0.1:7000" {
		t.Errorf("Addr = %q, want env override 127.0.0.1:7000", cfg.Server.Addr)
	}
}

func TestLoadFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{not yaml: ["), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Error("Given a malformed file, LoadFile should fail")
	}
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile of written default failed: %v", err)
	}
	if cfg.Server.Addr != DefaultConfig().Server.Addr {
		t.Errorf("Addr = %q, want default %q", cfg.Server.Addr, DefaultConfig().Server.Addr)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Server.Token = "generated-token"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if loaded.Server.Token != "generated-token" {
		t.Errorf("Token = %q, want generated-token", loaded.Server.Token)
	}
}

func TestDatabasePathPrefersExplicitConfig(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{Path: "/explicit/main.sqlite"}}

	path, err := cfg.DatabasePath()
	if err != nil {
		t.Fatalf("DatabasePath failed: %v", err)
	}
	if path != "/explicit/main.sqlite" {
		t.Errorf("path = %q, want the configured one", path)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory in test environment")
	}

	got := expandHome("~/x/main.sqlite")
	want := filepath.Join(home, "x", "main.sqlite")
	if got != want {
		t.Errorf("expandHome = %q, want %q", got, want)
	}

	if got := expandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("expandHome(/abs/path) = %q, want unchanged", got)
	}
}
