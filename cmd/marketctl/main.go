package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vrnomarket/internal/authtoken"
	"vrnomarket/internal/db"
	"vrnomarket/internal/models"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "marketctl",
		Short:         "Operator utility for the vrno market gateway",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newTokenCommand())
	cmd.AddCommand(newMaintenanceCommand())
	return cmd
}

func openDatabase(ctx context.Context) (*gorm.DB, error) {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		return nil, errors.New("DB_DSN is not set")
	}
	return db.Connect(ctx, dsn)
}

func newTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "One-time auth token operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newTokenIssueCommand())
	cmd.AddCommand(newTokenVerifyCommand())
	cmd.AddCommand(newTokenSweepCommand())
	return cmd
}

func newTokenIssueCommand() *cobra.Command {
	var (
		subject string
		purpose string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a one-time token for a subject and purpose",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			database, err := openDatabase(ctx)
			if err != nil {
				return err
			}
			defer db.Close(database) //nolint:errcheck

			store, err := authtoken.NewStore(database, zerolog.Nop())
			if err != nil {
				return err
			}
			token, err := store.Issue(ctx, subject, purpose, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Username the token is issued for")
	cmd.Flags().StringVar(&purpose, "purpose", "", "Purpose the token is bound to")
	cmd.Flags().DurationVar(&ttl, "ttl", 15*time.Minute, "Token lifetime")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("purpose")
	return cmd
}

func newTokenVerifyCommand() *cobra.Command {
	var (
		token   string
		purpose string
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Consume a one-time token and print its subject",
		Long:  "Verification is destructive: a valid token is spent by this command.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			database, err := openDatabase(ctx)
			if err != nil {
				return err
			}
			defer db.Close(database) //nolint:errcheck

			store, err := authtoken.NewStore(database, zerolog.Nop())
			if err != nil {
				return err
			}
			subject, err := store.VerifyAndConsume(ctx, token, purpose)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), subject)
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Token value to consume")
	cmd.Flags().StringVar(&purpose, "purpose", "", "Purpose the token must match")
	_ = cmd.MarkFlagRequired("token")
	_ = cmd.MarkFlagRequired("purpose")
	return cmd
}

func newTokenSweepCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Delete all expired tokens now",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			database, err := openDatabase(ctx)
			if err != nil {
				return err
			}
			defer db.Close(database) //nolint:errcheck

			sweeper := authtoken.NewSweeper(database, 0, zerolog.Nop())
			deleted, err := sweeper.SweepOnce(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d expired tokens\n", deleted)
			return nil
		},
	}
	return cmd
}

func newMaintenanceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maintenance",
		Short: "Toggle gateway maintenance mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newMaintenanceSetCommand("on", "true"))
	cmd.AddCommand(newMaintenanceSetCommand("off", "false"))
	return cmd
}

func newMaintenanceSetCommand(use, value string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: "Set maintenance_mode to " + value,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			database, err := openDatabase(ctx)
			if err != nil {
				return err
			}
			defer db.Close(database) //nolint:errcheck

			cfg := models.AdminConfig{ConfigKey: "maintenance_mode", ConfigValue: value}
			err = database.WithContext(ctx).
				Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "config_key"}},
					DoUpdates: clause.AssignmentColumns([]string{"config_value", "updated_at"}),
				}).
				Create(&cfg).Error
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "maintenance_mode=%s\n", value)
			return nil
		},
	}
}
