package ga

import "cmp"

// NoFitnessValue marks a chromosome whose fitness has not been computed.
const NoFitnessValue = -1.0

// FitnessFunction scores a single chromosome. Scores must be non-negative.
type FitnessFunction interface {
	Evaluate(c *Chromosome) float64
}

// FitnessFunc adapts a plain function to FitnessFunction
type FitnessFunc func(c *Chromosome) float64

func (f FitnessFunc) Evaluate(c *Chromosome) float64 { return f(c) }

// BulkFitnessFunction scores a whole population at once, typically by calling
// SetFitnessValue on every chromosome.
type BulkFitnessFunction interface {
	Evaluate(pop *Population) error
}

// BulkFitnessFunc adapts a plain function to BulkFitnessFunction
type BulkFitnessFunc func(pop *Population) error

func (f BulkFitnessFunc) Evaluate(pop *Population) error { return f(pop) }

// FitnessEvaluator decides which of two fitness values is better
type FitnessEvaluator interface {
	IsFitter(a, b float64) bool
}

// DefaultFitnessEvaluator treats higher fitness as better
type DefaultFitnessEvaluator struct{}

func (DefaultFitnessEvaluator) IsFitter(a, b float64) bool { return a > b }

// DeltaFitnessEvaluator treats lower fitness as better, e.g. for error terms
type DeltaFitnessEvaluator struct{}

func (DeltaFitnessEvaluator) IsFitter(a, b float64) bool { return a < b }

// compareByFitness orders fittest first; equal fitness puts the older chromosome first
func compareByFitness(ev FitnessEvaluator, a, b *Chromosome) int {
	fa, fb := a.FitnessValueDirectly(), b.FitnessValueDirectly()
	switch {
	case ev.IsFitter(fa, fb):
		return -1
	case ev.IsFitter(fb, fa):
		return 1
	}
	return cmp.Compare(b.Age(), a.Age())
}
