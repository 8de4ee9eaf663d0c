package searcher

// Hyperparameters for MCTS

const CSquared = 2.0 // Exploration constant

const DefaultHorizon = 50 // Maximum plies per selection walk and per rollout

const DefaultDiscount = 1.0 // Rollout discount factor
