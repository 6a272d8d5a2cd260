package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/paravar/things-bridge/internal/config"
	"github.com/paravar/things-bridge/internal/scripting"
	"github.com/paravar/things-bridge/internal/things"
	"github.com/paravar/things-bridge/internal/web"
)

var (
	serveAddr  string
	serveToken string
	serveDB    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP bridge",
	Long: `Start the HTTP bridge over the Things database.

Examples:
  things-bridge serve
  things-bridge serve --addr 127.0.0.1:9000
  things-bridge serve --db "/path/to/main.sqlite" --token secret`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "bind address (overrides config)")
	serveCmd.Flags().StringVar(&serveToken, "token", "", "bearer token (overrides config)")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "path to the Things main.sqlite (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveToken != "" {
		cfg.Server.Token = serveToken
	}
	if serveDB != "" {
		cfg.Database.Path = serveDB
	}

	dbPath, err := cfg.DatabasePath()
	if err != nil {
		return err
	}

	store := things.NewStore(dbPath)
	defer store.Close()

	if cfg.Server.Token == "" {
		log.Printf("no token configured; API is open on %s", cfg.Server.Addr)
	}
	log.Printf("serving things-bridge on %s (database: %s)", cfg.Server.Addr, dbPath)

	server := web.NewServer(store, scripting.NewClient(), cfg.Server.Token)
	if err := server.Run(cfg.Server.Addr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
