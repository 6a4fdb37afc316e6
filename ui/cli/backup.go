// Copyright (c) 2026 Vault Team
// Vault - key pair issuance service
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ogarcia-dev/Vault/internal/backup"
	"github.com/ogarcia-dev/Vault/internal/db"
	"github.com/ogarcia-dev/Vault/internal/i18n"
)

// backupCmd represents the 'backup' command.
// It dumps all data from the store into a compressed JSON file.
var backupCmd = &cobra.Command{
	Use:   "backup [output-file]",
	Short: "Create a compressed (zstd) JSON backup of the store",
	Long: `Dumps the entire contents of the Vault store (key pairs and audit log)
into a single, Zstandard-compressed JSON file.

If an output file is specified, '.zst' will be appended to the name if it's
not already present. If no output file is specified, a default filename
'vault-backup-YYYY-MM-DD.json.zst' is used.

This file can be used for disaster recovery or for migrating to a different
database backend.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: setupDefaultServices,
	RunE: func(cmd *cobra.Command, args []string) error {
		var outputFile string
		if len(args) == 0 {
			outputFile = fmt.Sprintf("vault-backup-%s.json.zst", time.Now().Format("2006-01-02"))
		} else {
			outputFile = args[0]
			if !strings.HasSuffix(outputFile, ".zst") {
				outputFile += ".zst"
			}
		}
		fmt.Println(i18n.T("backup.cli_starting"))
		outf, err := os.Create(outputFile)
		if err != nil {
			return errors.New(i18n.T("backup.cli_error_write", err))
		}
		defer func() { _ = outf.Close() }()
		if err := backup.Write(store, outf); err != nil {
			return errors.New(i18n.T("backup.cli_error_export", err))
		}
		fmt.Println(i18n.T("backup.cli_success", outputFile))
		return nil
	},
}

// restoreCmd represents the 'restore' command.
// It replaces the store contents from a compressed JSON backup file.
var restoreCmd = &cobra.Command{
	Use:   "restore <backup-file.zst>",
	Short: "Restore the store from a compressed JSON backup",
	Long: `Restores the entire Vault store from a Zstandard-compressed JSON backup
file. The existing contents are replaced by the backup.

This command is intended for disaster recovery or for moving between
database backends (e.g., from SQLite to PostgreSQL).`,
	Args:    cobra.ExactArgs(1),
	PreRunE: setupDefaultServices,
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFile := args[0]
		fmt.Println(i18n.T("restore.cli_starting", inputFile))
		f, err := os.Open(inputFile)
		if err != nil {
			return errors.New(i18n.T("restore.cli_error_read", err))
		}
		defer func() { _ = f.Close() }()
		if err := backup.Restore(f, store); err != nil {
			return errors.New(i18n.T("restore.cli_error_import", err))
		}
		fmt.Println(i18n.T("restore.cli_success"))
		return nil
	},
}

// migrateCmd represents the 'migrate' command.
var migrateCmd = &cobra.Command{
	Use:   "migrate --target-type <db-type> --target-dsn <target-dsn>",
	Short: "Migrate data from the current store to a new one",
	Long: `Performs a store migration by exporting all data from the current
database (configured in vault.yaml) and importing it into a new target
database.

This command automates the following steps:
1. Exports data from the source database in-memory.
2. Connects to the target database specified by --target-type and --target-dsn.
3. Applies all necessary database schema migrations to the target.
4. Imports the exported data into the target database.

Example:
  vault migrate --target-type postgres --target-dsn "host=localhost user=vault dbname=vault"`,
	PreRunE: setupDefaultServices,
	RunE: func(cmd *cobra.Command, args []string) error {
		targetType, _ := cmd.Flags().GetString("target-type")
		targetDsn, _ := cmd.Flags().GetString("target-dsn")
		if targetType == "" || targetDsn == "" {
			return errors.New(i18n.T("migrate.cli_error_flags"))
		}
		fmt.Println(i18n.T("migrate.cli_starting_backup"))
		if err := backup.Migrate(store, targetType, targetDsn); err != nil {
			return errors.New(i18n.T("migrate.cli_error_backup", err))
		}
		fmt.Println(i18n.T("migrate.cli_success"))
		fmt.Println(i18n.T("migrate.cli_next_steps"))
		return nil
	},
}

// dbMaintainCmd runs database maintenance tasks for the configured database.
var dbMaintainCmd = &cobra.Command{
	Use:     "db-maintain",
	Short:   "Run database maintenance (VACUUM/OPTIMIZE) for the configured DB",
	Long:    `Runs engine-specific maintenance tasks (VACUUM, OPTIMIZE TABLE, PRAGMA optimize).`,
	PreRunE: setupDefaultServices,
	RunE: func(cmd *cobra.Command, args []string) error {
		timeoutSec, _ := cmd.Flags().GetInt("timeout")
		dsn := appConfig.Database.Dsn
		dbType := appConfig.Database.Type
		if timeoutSec > 0 {
			done := make(chan error, 1)
			go func() {
				done <- db.RunDBMaintenance(dbType, dsn)
			}()
			select {
			case err := <-done:
				if err != nil {
					fmt.Printf("Maintenance failed: %v\n", err)
					os.Exit(1)
				}
				fmt.Println("Maintenance completed successfully")
			case <-time.After(time.Duration(timeoutSec) * time.Second):
				fmt.Println("Maintenance timed out")
				os.Exit(2)
			}
			return nil
		}
		if err := db.RunDBMaintenance(dbType, dsn); err != nil {
			fmt.Printf("Maintenance failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Maintenance completed successfully")
		return nil
	},
}
