package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dukerupert/chorechart/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down|status]",
	Short: "Apply, roll back or inspect schema migrations",
	Long: `Run schema migrations against the configured database.

Examples:
  # Apply pending migrations
  chorechart migrate

  # Roll back the latest migration
  chorechart migrate down`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"up", "down", "status"},
	RunE:      runMigrate,
}

func init() {
	migrateCmd.Flags().String("db", "", "database path (overrides CHORECHART_DB_PATH)")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)

	db, err := database.Connect(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	action := "up"
	if len(args) == 1 {
		action = args[0]
	}

	switch action {
	case "up":
		if err := database.EnsureSchema(db.DB); err != nil {
			return err
		}
	case "down":
		if err := database.MigrateDown(db.DB); err != nil {
			return err
		}
	case "status":
		return database.MigrateStatus(db.DB)
	default:
		return fmt.Errorf("unknown migrate action %q (want up, down or status)", action)
	}

	v, err := database.Version(db.DB)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", v)
	return nil
}
