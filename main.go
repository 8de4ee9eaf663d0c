package main

import (
	"os"
	"planner/config"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:   "planner",
		Short: "Monte Carlo tree search for partially observable multi-agent problems",
		Long: `planner grows one search tree per player from a single hidden-state
trajectory, and uses it to play 2048 and the shell game or to run
search experiments.`,
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (PLANNER_* env vars override it)")
	rootCmd.AddCommand(playCmd, experimentCmd)
}

// setup loads the config and points the global logger at stderr.
func setup() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	zerolog.SetGlobalLevel(cfg.Level())
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("planner failed")
		os.Exit(1)
	}
}
