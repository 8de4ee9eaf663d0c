// meta/meta.go
package meta

// GAMES defines the number of games played per agent config in an experiment.
const GAMES = 30

// PARALLEL_GAMES defines the number of games an experiment plays at once.
const PARALLEL_GAMES = 8

// EPISODES defines the number of episodes for MCTS.
const EPISODES = 150

// HORIZON defines the number of plies a search walk or rollout may span.
const HORIZON = 50

// MAX_STEPS defines the number of actions after which a game is stopped.
const MAX_STEPS = 2000

// EXPERIMENTS_DIR defines where experiment results are written.
const EXPERIMENTS_DIR = "results"
