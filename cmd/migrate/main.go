package main

import (
	"context"
	"fmt"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"blog/internal/config"
	"blog/internal/database"
	"blog/internal/migrate"
	"blog/internal/migrations"
)

var target string

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the blog database schema",
	Long:  `Migrate applies, reverts and inspects the blog's migration chain against the configured PostgreSQL database.`,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	Long:  `Apply every pending migration in chain order, or stop after --target.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(cmd.Context(), func(ctx context.Context, runner *migrate.Runner) error {
			n, err := runner.Apply(ctx, target)
			if err != nil {
				return err
			}
			fmt.Printf("%d migration(s) applied\n", n)
			return nil
		})
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert applied migrations",
	Long:  `Revert applied migrations newest first, down to and keeping --target; without a target the whole history is reverted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(cmd.Context(), func(ctx context.Context, runner *migrate.Runner) error {
			n, err := runner.Revert(ctx, target)
			if err != nil {
				return err
			}
			fmt.Printf("%d migration(s) reverted\n", n)
			return nil
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied and pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(cmd.Context(), func(ctx context.Context, runner *migrate.Runner) error {
			applied, pending, err := runner.Status(ctx)
			if err != nil {
				return err
			}
			for _, rec := range applied {
				fmt.Printf("applied  %s  %s  %s\n", rec.Name, rec.Checksum, rec.AppliedAt.Format(time.RFC3339))
			}
			for _, name := range pending {
				fmt.Printf("pending  %s\n", name)
			}
			return nil
		})
	},
}

func init() {
	upCmd.Flags().StringVar(&target, "target", "", "stop after this migration")
	downCmd.Flags().StringVar(&target, "target", "", "revert down to, and keep, this migration")
	rootCmd.AddCommand(upCmd, downCmd, statusCmd)
}

func withRunner(ctx context.Context, fn func(context.Context, *migrate.Runner) error) error {
	cfg := config.Load()

	pool, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	runner, err := migrate.NewRunner(pool, migrations.All())
	if err != nil {
		return fmt.Errorf("invalid migration set: %w", err)
	}
	return fn(ctx, runner)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
