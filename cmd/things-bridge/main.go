package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "things-bridge",
		Short:   "things-bridge - HTTP bridge over the Things 3 database",
		Long: `things-bridge exposes the local Things 3 task store as a small
read/write HTTP API. Reads go straight to the app's database in
read-only mode; writes are relayed through the Things URL scheme.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(tokenCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
