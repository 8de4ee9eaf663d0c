package experiments

import (
	"context"
	"fmt"
	"math"
	"planner/engine"
	"planner/experiments/metrics"
	"planner/game"
	"planner/meta"
	"planner/searcher"
	"planner/searcher/agent"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// Settings control how an experiment plays its games. Zero values fall back
// to the meta defaults.
type Settings struct {
	Games    int // Per agent config
	Parallel int
	MaxSteps int
	BaseDir  string
	Seed     uint64

	Episodes    int   // Held fixed by the horizon sweep
	Horizon     int   // Held fixed by the episode sweep
	Horizons    []int // Swept by the horizon experiment
	EpisodeRuns []int // Swept by the episode experiment

	Discount    float64
	Exploration float64

	// Series, if set, receives the search metrics of every move
	Series *metrics.Series
}

func (s Settings) withDefaults() Settings {
	if s.Games <= 0 {
		s.Games = meta.GAMES
	}
	if s.Parallel <= 0 {
		s.Parallel = meta.PARALLEL_GAMES
	}
	if s.MaxSteps <= 0 {
		s.MaxSteps = meta.MAX_STEPS
	}
	if s.BaseDir == "" {
		s.BaseDir = meta.EXPERIMENTS_DIR
	}
	if s.Episodes <= 0 {
		s.Episodes = meta.EPISODES
	}
	if s.Horizon <= 0 {
		s.Horizon = meta.HORIZON
	}
	if len(s.Horizons) == 0 {
		s.Horizons = []int{1, 5, 10, 25, 50}
	}
	if len(s.EpisodeRuns) == 0 {
		s.EpisodeRuns = []int{10, 50, 100, 250, 500}
	}
	if s.Discount <= 0 || s.Discount > 1 {
		s.Discount = searcher.DefaultDiscount
	}
	if s.Exploration <= 0 {
		s.Exploration = searcher.CSquared
	}
	return s
}

// Summary is the agent's 2048 score over every game of one config.
type Summary struct {
	Config  metrics.AgentConfig
	Games   int
	Mean    float64
	StdDev  float64
	MaxTile uint32
	Dir     string
}

// RunHorizonExperiment plays 2048 with a fixed episode budget per move and a
// growing search horizon.
func RunHorizonExperiment(ctx context.Context, settings Settings) ([]Summary, error) {
	settings = settings.withDefaults()
	configs := make([]metrics.AgentConfig, len(settings.Horizons))
	for i, horizon := range settings.Horizons {
		configs[i] = metrics.AgentConfig{
			ID:          i + 1,
			Episodes:    settings.Episodes,
			Horizon:     horizon,
			Discount:    settings.Discount,
			Exploration: settings.Exploration,
		}
	}
	return runExperiment(ctx, "horizon", configs, settings)
}

// RunEpisodeExperiment plays 2048 with a fixed horizon and a growing episode
// budget per move.
func RunEpisodeExperiment(ctx context.Context, settings Settings) ([]Summary, error) {
	settings = settings.withDefaults()
	configs := make([]metrics.AgentConfig, len(settings.EpisodeRuns))
	for i, episodes := range settings.EpisodeRuns {
		configs[i] = metrics.AgentConfig{
			ID:          i + 1,
			Episodes:    episodes,
			Horizon:     settings.Horizon,
			Discount:    settings.Discount,
			Exploration: settings.Exploration,
		}
	}
	return runExperiment(ctx, "episodes", configs, settings)
}

type gameResult struct {
	config  metrics.AgentConfig
	game    metrics.GameMetric
	moves   []metrics.MoveMetric
	maxTile uint32
}

func runExperiment(ctx context.Context, name string, configs []metrics.AgentConfig, settings Settings) ([]Summary, error) {
	log.Info().Msgf("starting %s experiment with %d configs of %d games...", name, len(configs), settings.Games)

	results := make([]gameResult, len(configs)*settings.Games)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(settings.Parallel)
	for ci, config := range configs {
		config := config
		for i := 0; i < settings.Games; i++ {
			i := i
			slot := ci*settings.Games + i
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				seed := settings.Seed + uint64(slot)
				result, err := runGame(config, seed, settings)
				if err != nil {
					return fmt.Errorf("config %d game %d: %w", config.ID, i+1, err)
				}
				results[slot] = result
				log.Info().Msgf("completed config %d game %d of %d with score %.0f", config.ID, i+1, settings.Games, result.game.Returns[agentIndex])
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info().Msgf("completed %s experiment", name)

	writer, err := metrics.NewWriter(settings.BaseDir, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := store(writer, configs, results); err != nil {
		return nil, err
	}
	log.Info().Str("dir", writer.Dir()).Msg("stored experiment records")

	summaries := summarize(configs, results, settings.Games)
	for i := range summaries {
		summaries[i].Dir = writer.Dir()
		s := summaries[i]
		log.Info().Int("config", s.Config.ID).Int("episodes", s.Config.Episodes).Int("horizon", s.Config.Horizon).
			Float64("mean", s.Mean).Float64("stddev", s.StdDev).Uint32("max_tile", s.MaxTile).Msg("config-summary")
	}
	return summaries, nil
}

// agentIndex is the agent's position in game.TwoZeroFourEight's players.
const agentIndex = 1

// Seeds are the seeds of the independent random streams of one game.
type Seeds struct {
	Search      uint64 // Tree policy tie-breaking
	Rollout     uint64
	Environment uint64 // Random tile placement
	Sampling    uint64 // Training agent's action sampling
}

// DeriveSeeds splits seed into one distinct seed per random stream.
func DeriveSeeds(seed uint64) Seeds {
	return Seeds{
		Search:      seed,
		Rollout:     seed ^ 0xb0a2d,
		Environment: seed ^ 0x5eed,
		Sampling:    seed ^ 0x7e39,
	}
}

func runGame(config metrics.AgentConfig, seed uint64, settings Settings) (gameResult, error) {
	seeds := DeriveSeeds(seed)
	problem := game.TwoZeroFourEight{}
	mcts := searcher.NewMCTS[game.Board, game.Action, game.Player](problem, createOptions(config, seeds, settings.Series)...)
	agents := []agent.Agent[game.Board, game.Action, game.Player]{
		agent.NewRandomAgent[game.Board, game.Action, game.Player](problem, rand.New(rand.NewSource(seeds.Environment))),
		agent.NewEvaluationAgent(mcts),
	}
	var e engine.Engine[game.Board] = engine.LocalEngine[game.Board, game.Action, game.Player](problem, game.NewBoard(), agents, settings.MaxSteps)

	gameMetric, moveMetrics, err := e.Run()
	if err != nil {
		return gameResult{}, err
	}
	return gameResult{
		config:  config,
		game:    gameMetric,
		moves:   moveMetrics,
		maxTile: e.State().MaxTile(),
	}, nil
}

func createOptions(config metrics.AgentConfig, seeds Seeds, series *metrics.Series) []searcher.Option {
	options := []searcher.Option{
		searcher.WithSeed(seeds.Search),
		searcher.WithSimulator[game.Board, game.Action, game.Player](game.NewBoardSimulator(rand.New(rand.NewSource(seeds.Rollout)))),
	}

	if config.Episodes > 0 {
		options = append(options, searcher.WithEpisodes(config.Episodes))
	}
	if config.Duration > 0 {
		options = append(options, searcher.WithDuration(config.Duration))
	}
	if config.Horizon > 0 {
		options = append(options, searcher.WithHorizon(config.Horizon))
	}
	if config.Discount > 0 {
		options = append(options, searcher.WithDiscount(config.Discount))
	}
	options = append(options, searcher.WithExploration(config.Exploration))

	if series != nil {
		options = append(options, searcher.WithMetrics(series.Collector()))
	} else {
		options = append(options, searcher.WithMetrics(nil))
	}
	return options
}

func store(writer *metrics.Writer, configs []metrics.AgentConfig, results []gameResult) error {
	err := writer.WriteAgentConfigs(configs)
	if err != nil {
		return fmt.Errorf("failed to store agent configs: %w", err)
	}

	gameRecords := make([]metrics.GameRecord, 0, len(results))
	moveRecords := []metrics.MoveRecord{}
	for i, result := range results {
		id := i + 1
		gameRecords = append(gameRecords, metrics.GameRecord{
			ID:         id,
			Agent:      result.config.ID,
			GameMetric: result.game,
		})
		for _, mm := range result.moves {
			moveRecords = append(moveRecords, metrics.MoveRecord{
				Game:       id,
				MoveMetric: mm,
			})
		}
	}

	err = writer.WriteGameRecords(gameRecords)
	if err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	err = writer.WriteMoveRecords(moveRecords)
	if err != nil {
		return fmt.Errorf("failed to write move records: %w", err)
	}
	return nil
}

func summarize(configs []metrics.AgentConfig, results []gameResult, games int) []Summary {
	summaries := make([]Summary, len(configs))
	for ci, config := range configs {
		scores := make([]float64, games)
		var maxTile uint32
		for i := 0; i < games; i++ {
			result := results[ci*games+i]
			scores[i] = result.game.Returns[agentIndex]
			maxTile = max(maxTile, result.maxTile)
		}
		mean, std := stat.MeanStdDev(scores, nil)
		if math.IsNaN(std) {
			std = 0 // Single game
		}
		summaries[ci] = Summary{Config: config, Games: games, Mean: mean, StdDev: std, MaxTile: maxTile}
	}
	return summaries
}
