package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/paravar/things-bridge/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := config.Path()

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
	}

	if err := config.WriteDefault(path); err != nil {
		return err
	}

	fmt.Printf("Wrote config to %s\n", path)
	return nil
}
