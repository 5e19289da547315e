package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Imported so migration init() funcs run and register themselves.
	_ "github.com/zmaxim/skystore/database/migrations"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "skystore",
	Short: "Skystore server and management CLI",
	Long:  "Skystore is an online furniture store with a blog. This CLI runs the API server and manages the database.",
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)
}
