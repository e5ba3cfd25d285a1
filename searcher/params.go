package searcher

// Hyperparameters for MCTS

// SIMULATIONS defines the number of simulations per search.
const SIMULATIONS = 1000

// EXPLORATION_WEIGHT scales the exploration term of the selection score.
const EXPLORATION_WEIGHT = 10.0

// DECAY discounts values backpropagated to distant ancestors. Together with
// the double-square-root exploration term this deviates from textbook UCB1;
// the downstream training statistics depend on these exact formulas, so do
// not "fix" them.
const DECAY = 0.9
