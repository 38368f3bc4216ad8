package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dukerupert/chorechart/internal/backup"
	"github.com/dukerupert/chorechart/internal/config"
	"github.com/dukerupert/chorechart/internal/database"
	"github.com/dukerupert/chorechart/internal/logging"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Upload an encrypted snapshot of the database",
	Long: `Snapshot the database, encrypt it with CHORECHART_BACKUP_PASSPHRASE and
upload it to the configured S3-compatible bucket.

Examples:
  # Take a backup now
  chorechart backup

  # List stored backups
  chorechart backup list`,
	Args: cobra.NoArgs,
	RunE: runBackup,
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored backups, newest first",
	Args:  cobra.NoArgs,
	RunE:  runBackupList,
}

var restoreCmd = &cobra.Command{
	Use:   "restore <key>",
	Short: "Replace the database with a stored backup",
	Long: `Download, decrypt and integrity-check a backup, then replace the database
file with it. Stop the server first.

Examples:
  chorechart restore chorechart/backup-2026-02-05T210405.000Z.db.enc`,
	Args: cobra.ExactArgs(1),
	RunE: runRestore,
}

func init() {
	for _, cmd := range []*cobra.Command{backupCmd, restoreCmd} {
		cmd.Flags().String("db", "", "database path (overrides CHORECHART_DB_PATH)")
	}
	backupCmd.AddCommand(backupListCmd)
}

func backupConfig(cfg *config.Config) backup.Config {
	return backup.Config{
		Endpoint:   cfg.S3Endpoint,
		Bucket:     cfg.S3Bucket,
		Region:     cfg.S3Region,
		AccessKey:  cfg.S3AccessKey,
		SecretKey:  cfg.S3SecretKey,
		Passphrase: cfg.BackupPassphrase,
	}
}

func runBackup(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)
	logger, flush := logging.Setup(cfg.Level(), cfg.SentryDSN)
	defer flush()

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	mgr, err := backup.NewManager(backupConfig(cfg), db.DB, logger.With("component", "backup"))
	if err != nil {
		return err
	}
	key, err := mgr.Run(cmd.Context())
	if err != nil {
		logger.Error("backup failed", "error", err)
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), key)
	return nil
}

func runBackupList(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)
	logger, flush := logging.Setup(cfg.Level(), cfg.SentryDSN)
	defer flush()

	mgr, err := backup.NewManager(backupConfig(cfg), nil, logger.With("component", "backup"))
	if err != nil {
		return err
	}
	objects, err := mgr.List(cmd.Context())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tSIZE\tMODIFIED")
	for _, o := range objects {
		fmt.Fprintf(w, "%s\t%d\t%s\n", o.Key, o.Size, o.LastModified.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func runRestore(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)
	logger, flush := logging.Setup(cfg.Level(), cfg.SentryDSN)
	defer flush()

	mgr, err := backup.NewManager(backupConfig(cfg), nil, logger.With("component", "backup"))
	if err != nil {
		return err
	}
	if err := mgr.Restore(cmd.Context(), args[0], cfg.DBPath); err != nil {
		logger.Error("restore failed", "key", args[0], "error", err)
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "restored %s into %s\n", args[0], cfg.DBPath)
	return nil
}
