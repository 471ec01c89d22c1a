package ga

import "errors"

var (
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrConfigLocked      = errors.New("configuration is locked")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNoFitnessFunction = errors.New("no fitness function configured")
	ErrNegativeFitness   = errors.New("fitness values must be non-negative")
	ErrGreedyInvariant   = errors.New("greedy crossover requires permutations of an identical gene set")
)
