package cmd

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fittrack/fittrack/internal/db"
)

func MigrateCmd() *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply, roll back or inspect schema migrations",
	}

	migrate.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, conn, err := open()
			if err != nil {
				return err
			}
			defer conn.Close()

			err = db.RunMigrations(conn.DB, cfg.DBDriver)
			if err != nil {
				return err
			}
			return printVersion(cmd, conn.DB, cfg.DBDriver)
		},
	})

	migrate.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, conn, err := open()
			if err != nil {
				return err
			}
			defer conn.Close()

			err = db.MigrateDown(conn.DB, cfg.DBDriver)
			if err != nil {
				return err
			}
			return printVersion(cmd, conn.DB, cfg.DBDriver)
		},
	})

	migrate.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, conn, err := open()
			if err != nil {
				return err
			}
			defer conn.Close()

			return printVersion(cmd, conn.DB, cfg.DBDriver)
		},
	})

	return migrate
}

func printVersion(cmd *cobra.Command, conn *sql.DB, driver string) error {
	version, err := db.MigrationVersion(conn, driver)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
	return nil
}
