package cmd

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/templui/microblog/internal/config"
	"github.com/templui/microblog/internal/db"
)

func MigrateCmd(cfg *config.Config) *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openMigrated(cfg)
			if err != nil {
				return err
			}
			defer database.Close()
			return printVersion(cmd, cfg, database.DB)
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := open(cfg)
			if err != nil {
				return err
			}
			defer database.Close()
			if err := db.MigrateDown(database.DB, cfg.DBDriver); err != nil {
				return err
			}
			return printVersion(cmd, cfg, database.DB)
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := open(cfg)
			if err != nil {
				return err
			}
			defer database.Close()
			return printVersion(cmd, cfg, database.DB)
		},
	})

	return migrateCmd
}

func printVersion(cmd *cobra.Command, cfg *config.Config, database *sql.DB) error {
	version, err := db.Version(database, cfg.DBDriver)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version: %d\n", version)
	return nil
}
