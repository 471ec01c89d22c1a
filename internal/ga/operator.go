package ga

import (
	"fmt"

	"gaengine/internal/gene"
)

// GeneticOperator derives new candidates from a population. Operators only
// ever append clones to offspring; members of pop are never modified.
type GeneticOperator interface {
	Name() string
	Operate(pop *Population, offspring []*Chromosome) ([]*Chromosome, error)
}

// MutationRateCalculator decides per gene whether it mutates
type MutationRateCalculator interface {
	// CalculateCurrentRate returns r for a 1/r mutation chance.
	CalculateCurrentRate() int
	ToBePermutated(c *Chromosome, geneIndex int) bool
}

// DefaultMutationRateCalculator mutates with chance 1/n where n is the
// number of atomic elements of the sample chromosome.
type DefaultMutationRateCalculator struct {
	conf *Configuration
}

func NewDefaultMutationRateCalculator(conf *Configuration) *DefaultMutationRateCalculator {
	return &DefaultMutationRateCalculator{conf: conf}
}

func (m *DefaultMutationRateCalculator) CalculateCurrentRate() int {
	total := 0
	if m.conf.sample != nil {
		for _, g := range m.conf.sample.genes {
			total += max(g.Size(), 1)
		}
	}
	return max(total, 1)
}

func (m *DefaultMutationRateCalculator) ToBePermutated(_ *Chromosome, _ int) bool {
	return m.conf.random.Intn(m.CalculateCurrentRate()) == 0
}

// CrossoverRateCalculator supplies r so that populationSize/r crossovers happen
type CrossoverRateCalculator interface {
	CalculateCurrentRate() int
}

// mutationDecider is shared by the operators that test genes one at a time.
type mutationDecider struct {
	conf *Configuration
	rate int
	calc MutationRateCalculator
}

func newMutationDecider(conf *Configuration, rate int) (mutationDecider, error) {
	if rate < 0 {
		return mutationDecider{}, fmt.Errorf("%w: mutation rate %d", ErrInvalidArgument, rate)
	}
	return mutationDecider{conf: conf, rate: rate}, nil
}

func (d mutationDecider) disabled() bool { return d.calc == nil && d.rate == 0 }

func (d mutationDecider) hit(c *Chromosome, geneIndex int) bool {
	if d.calc != nil {
		return d.calc.ToBePermutated(c, geneIndex)
	}
	return d.rate > 0 && d.conf.random.Intn(d.rate) == 0
}

// MutationRate returns the fixed rate, or the calculator's current rate
func (d mutationDecider) MutationRate() int {
	if d.calc != nil {
		return d.calc.CalculateCurrentRate()
	}
	return d.rate
}

// operatingSize bounds operators to the configured population size
func operatingSize(conf *Configuration, pop *Population) int {
	if conf.populationSize > 0 {
		return min(conf.populationSize, pop.Size())
	}
	return pop.Size()
}

// swapAlleles exchanges the alleles of a and b, leaving both untouched on failure.
func swapAlleles(a, b gene.Gene) error {
	av, bv := a.Allele(), b.Allele()
	if err := a.SetAllele(bv); err != nil {
		return err
	}
	if err := b.SetAllele(av); err != nil {
		_ = a.SetAllele(av)
		return err
	}
	return nil
}
