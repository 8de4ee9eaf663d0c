package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"planner/config"
	"planner/experiments"
	"planner/experiments/metrics"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	experimentKind string
	metricsAddr    string

	experimentCmd = &cobra.Command{
		Use:   "experiment",
		Short: "Runs a 2048 search experiment",
		Long: `Plays batches of 2048 games for a sweep of search horizons or episode
budgets and writes agent_configs.csv, game_records.csv and
move_records.csv under the experiment directory.`,
		Args: cobra.NoArgs,
		RunE: runExperimentCommand,
	}
)

func init() {
	experimentCmd.Flags().StringVarP(&experimentKind, "kind", "k", "horizon", "experiment to run: horizon or episodes")
	experimentCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address, e.g. :2112")
}

func experimentSettings(cfg config.Config) experiments.Settings {
	return experiments.Settings{
		Games:       cfg.Experiment.Games,
		Parallel:    cfg.Experiment.Parallel,
		MaxSteps:    cfg.Experiment.MaxSteps,
		BaseDir:     cfg.Experiment.Dir,
		Seed:        cfg.Seed,
		Episodes:    cfg.Search.Episodes,
		Horizon:     cfg.Search.Horizon,
		Horizons:    cfg.Experiment.Horizons,
		EpisodeRuns: cfg.Experiment.EpisodeRuns,
		Discount:    cfg.Search.Discount,
		Exploration: cfg.Search.Exploration,
	}
}

func runExperimentCommand(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	run := experiments.RunHorizonExperiment
	switch experimentKind {
	case "horizon":
	case "episodes":
		run = experiments.RunEpisodeExperiment
	default:
		return fmt.Errorf("unknown experiment kind %q", experimentKind)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	settings := experimentSettings(cfg)
	if metricsAddr != "" {
		reg := prometheus.NewRegistry()
		settings.Series = metrics.NewSeries(reg)
		shutdown := serveMetrics(metricsAddr, reg)
		defer shutdown()
	}

	summaries, err := run(ctx, settings)
	if err != nil {
		return err
	}
	for _, s := range summaries {
		fmt.Printf("config %d (episodes=%d horizon=%d): mean %.1f ± %.1f over %d games, max tile %d\n",
			s.Config.ID, s.Config.Episodes, s.Config.Horizon, s.Mean, s.StdDev, s.Games, s.MaxTile)
	}
	return nil
}

// serveMetrics exposes reg on addr/metrics until the returned func is called.
func serveMetrics(addr string, reg *prometheus.Registry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		log.Info().Str("addr", addr).Msg("serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
