package eval

import (
	"errors"
	"fmt"

	"gaengine/internal/config"
	"gaengine/internal/ga"
	"gaengine/internal/gene"
)

// ErrUnknownProblem is returned for problem names missing from the catalogue
var ErrUnknownProblem = errors.New("unknown problem")

// Problem supplies everything problem specific a run needs: the gene layout
// of the sample chromosome and the fitness function.
type Problem interface {
	Name() string
	Sample(conf *ga.Configuration) (*ga.Chromosome, error)
	Evaluate(c *ga.Chromosome) float64
	Describe(c *ga.Chromosome) string
}

// Distancer is implemented by problems that can drive a greedy crossover
type Distancer interface {
	Distance(a, b gene.Gene) float64
}

// New builds the problem named in cfg
func New(cfg config.ProblemConfig) (Problem, error) {
	switch cfg.Name {
	case "onemax":
		return NewOneMax(cfg.Size)
	case "change":
		return NewChange(cfg.Target, cfg.Size, cfg.Delta)
	case "tsp":
		return NewTSP(cfg.Size, cfg.Delta)
	case "xor":
		return NewXOR(cfg.Hidden, cfg.Delta)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProblem, cfg.Name)
	}
}

// DistanceOf returns the problem's distance metric, or nil when it has none
func DistanceOf(p Problem) ga.DistanceFunc {
	if d, ok := p.(Distancer); ok {
		return d.Distance
	}
	return nil
}

// Install sets the sample chromosome and fitness function on conf. Problems
// that are also initializers replace the random initializer. When cacheSize
// is positive the fitness function is wrapped in an LRU cache, which is returned.
func Install(conf *ga.Configuration, p Problem, cacheSize int) (*ga.CachedFitnessFunction, error) {
	sample, err := p.Sample(conf)
	if err != nil {
		return nil, fmt.Errorf("%s: sample: %w", p.Name(), err)
	}
	if err := conf.SetSampleChromosome(sample); err != nil {
		return nil, err
	}

	var (
		fitness ga.FitnessFunction = ga.FitnessFunc(p.Evaluate)
		cache   *ga.CachedFitnessFunction
	)
	if cacheSize > 0 {
		cache, err = ga.NewCachedFitnessFunction(fitness, cacheSize)
		if err != nil {
			return nil, err
		}
		fitness = cache
	}
	if err := conf.SetFitnessFunction(fitness); err != nil {
		return nil, err
	}

	if init, ok := p.(ga.Initializer); ok {
		if err := conf.SetInitializer(init); err != nil {
			return nil, err
		}
	}
	return cache, nil
}
