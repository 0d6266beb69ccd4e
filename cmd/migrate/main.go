package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/siriuscareer/career-admin/internal/config"
	"github.com/siriuscareer/career-admin/internal/database"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dbURL string

	open := func() (*migrate.Migrate, error) {
		if dbURL == "" {
			dbURL = config.Load().DatabaseURL
		}
		if dbURL == "" {
			return nil, errors.New("DATABASE_URL is not set")
		}
		return database.NewMigrator(dbURL)
	}

	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Apply or inspect the embedded schema migrations",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&dbURL, "database-url", "", "database URL (defaults to DATABASE_URL)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				m, err := open()
				if err != nil {
					return err
				}
				defer m.Close()

				if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
					return fmt.Errorf("up failed: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Migrated up successfully")
				return nil
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back all migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				m, err := open()
				if err != nil {
					return err
				}
				defer m.Close()

				if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
					return fmt.Errorf("down failed: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Migrated down successfully")
				return nil
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				m, err := open()
				if err != nil {
					return err
				}
				defer m.Close()

				version, dirty, err := m.Version()
				if errors.Is(err, migrate.ErrNilVersion) {
					fmt.Fprintln(cmd.OutOrStdout(), "Version: none")
					return nil
				}
				if err != nil {
					return fmt.Errorf("version failed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Version: %d, Dirty: %t\n", version, dirty)
				return nil
			},
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Set the schema version without running migrations",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid version: %w", err)
				}

				m, err := open()
				if err != nil {
					return err
				}
				defer m.Close()

				if err := m.Force(v); err != nil {
					return fmt.Errorf("force failed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Forced version to %d\n", v)
				return nil
			},
		},
	)
	return cmd
}
