package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/texforge/resumed/internal/api"
	"github.com/texforge/resumed/internal/infrastructure/database"
	"github.com/texforge/resumed/internal/latex"
)

// defaultTokenTTL is the lifetime of tokens minted by `resumed token`.
const defaultTokenTTL = 24 * time.Hour

func checkCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the LaTeX toolchain is installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			path, err := latex.CheckToolchain(cfg.Render.Binary)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "latexmk: %s\n", path)
			return nil
		},
	}
}

func tokenCmd(opts *globalOptions) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	c := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the render endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if ttl < 0 {
				return errors.New("--ttl must not be negative")
			}
			token, err := api.IssueToken(cfg.Security.JWT, subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	c.Flags().StringVar(&subject, "subject", "", "token subject, e.g. the client name (required)")
	c.Flags().DurationVar(&ttl, "ttl", defaultTokenTTL, "token lifetime; 0 never expires")
	_ = c.MarkFlagRequired("subject")
	return c
}

func migrateCmd(opts *globalOptions) *cobra.Command {
	var (
		down   bool
		status bool
	)

	c := &cobra.Command{
		Use:   "migrate",
		Short: "Apply, roll back or inspect database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if down && status {
				return errors.New("--down and --status are mutually exclusive")
			}
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			db, err := database.Open(database.Config{
				Path:        cfg.Database.Path,
				WALMode:     cfg.Database.WALMode,
				BusyTimeout: cfg.Database.BusyTimeout,
			})
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer db.Close() //nolint:errcheck // CLI exit

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			switch {
			case status:
				applied, pending, err := db.GetMigrationStatus(ctx)
				if err != nil {
					return err
				}
				for _, m := range applied {
					fmt.Fprintf(out, "applied  %s  %s\n", m.Version, m.AppliedAt.Format(time.RFC3339))
				}
				for _, m := range pending {
					fmt.Fprintf(out, "pending  %s  %s\n", m.Version, m.Name)
				}
			case down:
				if err := db.MigrateDown(ctx); err != nil {
					return err
				}
				fmt.Fprintln(out, "rolled back latest migration")
			default:
				if err := db.Migrate(ctx); err != nil {
					return err
				}
				fmt.Fprintln(out, "migrations applied")
			}
			return nil
		},
	}

	c.Flags().BoolVar(&down, "down", false, "roll back the most recent migration")
	c.Flags().BoolVar(&status, "status", false, "list applied and pending migrations")
	return c
}
