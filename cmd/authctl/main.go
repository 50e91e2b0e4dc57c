package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/baharkarakas/payment-authorizer/internal/config"
	"github.com/baharkarakas/payment-authorizer/internal/logger"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(logger.New(cfg.Env))

	rootCmd := &cobra.Command{
		Use:           "authctl",
		Short:         "Operator tooling for the payment authorizer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(migrateCmd(cfg))
	rootCmd.AddCommand(seedCmd(cfg))
	rootCmd.AddCommand(hashPasswordCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
