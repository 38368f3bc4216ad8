// Package main is the chorechart command: the web server plus schema and
// backup maintenance.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "chorechart",
	Short: "Daily chore chart for the household",
	Long: `chorechart serves a page per kid listing today's chores. Each chore can be
marked done, skipped or back to pending, and every open screen updates live.

Running chorechart with no subcommand starts the server.`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	addServeFlags(rootCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
}
