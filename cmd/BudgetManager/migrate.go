package main

import (
	"fmt"
	"strconv"

	"github.com/sebuszqo/BudgetManager/internal/config"
	database "github.com/sebuszqo/BudgetManager/internal/db"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(func(m *database.Migrator) error {
					if err := m.Up(); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Roll back migrations, one step by default",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				steps := 1
				if len(args) == 1 {
					n, err := strconv.Atoi(args[0])
					if err != nil {
						return fmt.Errorf("invalid steps %q: %w", args[0], err)
					}
					steps = n
				}
				return withMigrator(func(m *database.Migrator) error {
					if err := m.Down(steps); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %d migration(s)\n", steps)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(func(m *database.Migrator) error {
					version, dirty, err := m.Version()
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "version: %d, dirty: %t\n", version, dirty)
					return nil
				})
			},
		},
	)
	return migrateCmd
}

func withMigrator(fn func(m *database.Migrator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	m, err := database.NewMigrator(cfg.DBConnectionString)
	if err != nil {
		return err
	}
	defer m.Close()
	return fn(m)
}
