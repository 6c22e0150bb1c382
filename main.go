package main

import (
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/maoshanman/durian-order-bot/internal/config"
)

const version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:     "durianbot",
	Short:   "MaoShanMan durian order bot",
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadDotEnv()
		setupLogging(os.Getenv("LOG_LEVEL"), os.Getenv("ENVIRONMENT"))
	},
	RunE:          runServe,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.AddCommand(serveCmd, ordersCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("❌ Command failed")
		os.Exit(1)
	}
}

func setupLogging(level, environment string) {
	zerolog.TimeFieldFormat = time.RFC3339

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
