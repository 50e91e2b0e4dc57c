package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/baharkarakas/payment-authorizer/internal/app"
	"github.com/baharkarakas/payment-authorizer/internal/auth"
	"github.com/baharkarakas/payment-authorizer/internal/config"
	"github.com/baharkarakas/payment-authorizer/internal/db"
	"github.com/baharkarakas/payment-authorizer/internal/repository"
)

func migrateCmd(cfg config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "migrate [up|down|status|redo]",
		Short:     "Run database migrations against DATABASE_URL",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"up", "down", "status", "redo"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cobra.OnlyValidArgs(cmd, args); err != nil {
				return err
			}
			dsn, _ := cmd.Flags().GetString("dsn")
			return db.RunMigrations(cmd.Context(), dsn, args[0])
		},
	}
	cmd.Flags().String("dsn", cfg.DatabaseURL, "postgres connection string")
	return cmd
}

func seedCmd(cfg config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed [file.yaml]",
		Short: "Load merchants and accounts from a YAML file",
		Long: `Load merchants and accounts into the configured stores.

Merchants go to STORE_BACKEND. Accounts go to ACCOUNT_BACKEND, so with
ACCOUNT_BACKEND=redis they land in redis.

Examples:
  authctl seed fixtures/dev.yaml
  ACCOUNT_BACKEND=redis authctl seed fixtures/dev.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.StoreBackend == config.BackendMemory && cfg.AccountBackend == config.BackendMemory {
				return errors.New("seeding the memory backend from authctl has no effect, use SEED_FILE on the api")
			}
			seed, err := repository.LoadSeed(args[0])
			if err != nil {
				return err
			}

			b, err := app.OpenBackend(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer b.Close()

			if err := seed.Apply(cmd.Context(), b.Repos.Seeder); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d merchants, %d accounts\n", len(seed.Merchants), len(seed.Accounts))
			return nil
		},
	}
	return cmd
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for OPERATOR_PASSWORD_HASH",
		Long:  "Hashes the argument, or the first line of stdin when no argument is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var pw string
			if len(args) == 1 {
				pw = args[0]
			} else {
				sc := bufio.NewScanner(cmd.InOrStdin())
				if sc.Scan() {
					pw = strings.TrimRight(sc.Text(), "\r\n")
				}
				if err := sc.Err(); err != nil {
					return err
				}
			}
			if pw == "" {
				return errors.New("empty password")
			}
			hash, err := auth.HashPassword(pw)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
