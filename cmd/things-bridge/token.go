package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/paravar/things-bridge/internal/config"
)

var tokenSave bool

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Generate a bearer token for the API",
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().BoolVar(&tokenSave, "save", false, "persist the token into the config file")
}

func runToken(cmd *cobra.Command, args []string) error {
	token := uuid.New().String()
	fmt.Println(token)

	if !tokenSave {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.Server.Token = token
	if err := config.Save(config.Path(), cfg); err != nil {
		return err
	}

	fmt.Printf("Saved token to %s\n", config.Path())
	return nil
}
