package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/sebuszqo/FinanceDashboard/internal/config"
	"github.com/sebuszqo/FinanceDashboard/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	envFile string
	cfg     *config.Config
	rootCmd = &cobra.Command{
		Use:   "FinanceDashboard",
		Short: "Personal finance dashboard API and CLI",
		Long: `FinanceDashboard serves the accounts, transactions and goals API
and drives it from the command line.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (console, json)")
	rootCmd.PersistentFlags().String("db-driver", "", "database driver (pgx, sqlite3)")
	rootCmd.PersistentFlags().String("db", "", "database connection string")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL used by the client commands")
	rootCmd.PersistentFlags().String("token", "", "access token used by the client commands")

	bindFlag(config.KeyLogLevel, "log-level")
	bindFlag(config.KeyLogFormat, "log-format")
	bindFlag(config.KeyDBDriver, "db-driver")
	bindFlag(config.KeyDBConnectionString, "db")
	bindFlag(config.KeyAPIURL, "api-url")
	bindFlag(config.KeyAPIToken, "token")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(tokenCmd())
	rootCmd.AddCommand(accountsCmd())
	rootCmd.AddCommand(transactionsCmd())
	rootCmd.AddCommand(importOFXCmd())
}

// bindFlag binds a flag to a config key. Unset flags fall through to the environment.
func bindFlag(key, flag string) {
	_ = viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag))
}

// bindCommandFlag binds a command's local flag to a config key.
func bindCommandFlag(cmd *cobra.Command, key, flag string) error {
	return viper.BindPFlag(key, cmd.Flags().Lookup(flag))
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info().Msg("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(viper.GetViper(), envFile)
	if err != nil {
		return err
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded

	appLogger := logger.New(cfg.LogLevel, cfg.LogFormat)
	log.Logger = appLogger
	cmd.SetContext(logger.WithContext(cmd.Context(), appLogger))
	return nil
}
