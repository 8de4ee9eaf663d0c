package main

import (
	"fmt"
	"planner/config"
	"planner/engine"
	"planner/experiments"
	"planner/game"
	"planner/searcher"
	"planner/searcher/agent"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"
)

var (
	gameName string

	playCmd = &cobra.Command{
		Use:   "play",
		Short: "Plays one game with a searching agent",
		Long: `Plays one game and logs every move. In 2048 the agent searches against a
random environment. In the shell game a random hider plays against a
searching seeker.`,
		Args: cobra.NoArgs,
		RunE: runPlayCommand,
	}
)

func init() {
	playCmd.Flags().StringVarP(&gameName, "game", "g", "2048", "game to play: 2048 or shell")
}

func runPlayCommand(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	switch gameName {
	case "2048":
		return play2048(cfg)
	case "shell":
		return playShell(cfg)
	}
	return fmt.Errorf("unknown game %q", gameName)
}

// searchingAgent returns a training agent when a temperature is configured,
// and an evaluation agent otherwise.
func searchingAgent[S searcher.HiddenState[S, A, P], A comparable, P comparable](cfg config.Config, mcts *searcher.MCTS[S, A, P]) agent.Agent[S, A, P] {
	if cfg.Search.Temperature > 0 {
		seeds := experiments.DeriveSeeds(cfg.Seed)
		return agent.NewTrainingAgent(mcts, cfg.Search.Temperature, rand.New(rand.NewSource(seeds.Sampling)))
	}
	return agent.NewEvaluationAgent(mcts)
}

func play2048(cfg config.Config) error {
	seeds := experiments.DeriveSeeds(cfg.Seed)
	problem := game.TwoZeroFourEight{}
	options := append(cfg.SearchOptions(),
		searcher.WithSimulator[game.Board, game.Action, game.Player](game.NewBoardSimulator(rand.New(rand.NewSource(seeds.Rollout)))),
		searcher.WithMetrics(nil),
	)
	mcts := searcher.NewMCTS[game.Board, game.Action, game.Player](problem, options...)
	agents := []agent.Agent[game.Board, game.Action, game.Player]{
		agent.NewRandomAgent[game.Board, game.Action, game.Player](problem, rand.New(rand.NewSource(seeds.Environment))),
		searchingAgent(cfg, mcts),
	}

	local := engine.LocalEngine[game.Board, game.Action, game.Player](problem, game.NewBoard(), agents, cfg.Experiment.MaxSteps)
	local.OnStep = func(step int, actor game.Player, action game.Action, state game.Board) {
		if actor == game.Agent {
			log.Info().Msgf("step %d: %s plays %s\n%s", step, actor, action, state)
		}
	}
	var e engine.Engine[game.Board] = local

	gameMetric, moveMetrics, err := e.Run()
	if err != nil {
		return err
	}
	log.Info().Float64("score", gameMetric.Returns[1]).Uint32("max_tile", e.State().MaxTile()).
		Int("moves", len(moveMetrics)).Bool("terminal", gameMetric.Terminal).Dur("took", gameMetric.Duration).Msg("game-over")
	return nil
}

func playShell(cfg config.Config) error {
	problem := game.ShellGame{}
	options := append(cfg.SearchOptions(), searcher.WithMetrics(nil))
	mcts := searcher.NewMCTS[game.ShellState, game.ShellAction, game.ShellPlayer](problem, options...)
	agents := []agent.Agent[game.ShellState, game.ShellAction, game.ShellPlayer]{
		agent.NewRandomAgent[game.ShellState, game.ShellAction, game.ShellPlayer](problem, rand.New(rand.NewSource(experiments.DeriveSeeds(cfg.Seed).Environment))),
		searchingAgent(cfg, mcts),
	}

	e := engine.LocalEngine[game.ShellState, game.ShellAction, game.ShellPlayer](problem, game.NewShellState(3), agents, cfg.Experiment.MaxSteps)
	e.OnStep = func(step int, actor game.ShellPlayer, action game.ShellAction, _ game.ShellState) {
		log.Info().Msgf("step %d: %s plays %s", step, actor, action)
	}

	if _, _, err := e.Run(); err != nil {
		return err
	}
	log.Info().Int("ball", e.State().Ball).Int("guess", e.State().Choice).Bool("found", e.State().Found()).Msg("game-over")
	return nil
}
