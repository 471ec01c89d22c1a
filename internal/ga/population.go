package ga

import (
	"fmt"
	"slices"
)

// Population is an ordered collection of chromosomes sharing one configuration
type Population struct {
	conf        *Configuration
	chromosomes []*Chromosome
	changed     bool
	sorted      bool
	fittest     *Chromosome
}

// NewPopulation creates a population holding the given chromosomes
func NewPopulation(conf *Configuration, chromosomes ...*Chromosome) *Population {
	p := &Population{conf: conf, changed: true}
	p.AddChromosomes(chromosomes)
	return p
}

func (p *Population) Configuration() *Configuration { return p.conf }

// Size returns the number of chromosomes
func (p *Population) Size() int {
	return len(p.chromosomes)
}

// Chromosome returns the chromosome at index i
func (p *Population) Chromosome(i int) *Chromosome {
	return p.chromosomes[i]
}

// Chromosomes returns a copy of the chromosome slice
func (p *Population) Chromosomes() []*Chromosome {
	return append([]*Chromosome(nil), p.chromosomes...)
}

// AddChromosome appends c; nil is ignored
func (p *Population) AddChromosome(c *Chromosome) {
	if c == nil {
		return
	}
	p.chromosomes = append(p.chromosomes, c)
	p.touch()
}

// AddChromosomes appends every non-nil chromosome
func (p *Population) AddChromosomes(cs []*Chromosome) {
	for _, c := range cs {
		p.AddChromosome(c)
	}
}

// SetChromosome replaces the chromosome at index i
func (p *Population) SetChromosome(i int, c *Chromosome) {
	p.chromosomes[i] = c
	p.touch()
}

// RemoveChromosome removes and returns the chromosome at index i
func (p *Population) RemoveChromosome(i int) *Chromosome {
	c := p.chromosomes[i]
	p.chromosomes = slices.Delete(p.chromosomes, i, i+1)
	p.touch()
	return c
}

// Contains reports whether c, or a chromosome equal to it, is in the population
func (p *Population) Contains(c *Chromosome) bool {
	for _, o := range p.chromosomes {
		if o == c || o.Equal(c) {
			return true
		}
	}
	return false
}

// IsChanged reports whether the population was modified since the fittest was last determined
func (p *Population) IsChanged() bool {
	return p.changed
}

func (p *Population) touch() {
	p.changed = true
	p.sorted = false
}

func (p *Population) evaluator() FitnessEvaluator {
	if p.conf == nil || p.conf.evaluator == nil {
		return DefaultFitnessEvaluator{}
	}
	return p.conf.evaluator
}

func (p *Population) realizeFitness() error {
	for i, c := range p.chromosomes {
		if _, err := c.FitnessValue(); err != nil {
			return fmt.Errorf("chromosome %d: %w", i, err)
		}
	}
	return nil
}

// DetermineFittestChromosome returns the fittest chromosome, computing missing
// fitness values. The result is cached until the population changes.
func (p *Population) DetermineFittestChromosome() (*Chromosome, error) {
	if len(p.chromosomes) == 0 {
		return nil, nil
	}
	if !p.changed && p.fittest != nil {
		return p.fittest, nil
	}
	if err := p.realizeFitness(); err != nil {
		return nil, err
	}
	ev := p.evaluator()
	best := p.chromosomes[0]
	for _, c := range p.chromosomes[1:] {
		if ev.IsFitter(c.FitnessValueDirectly(), best.FitnessValueDirectly()) {
			best = c
		}
	}
	p.fittest = best
	p.changed = false
	return best, nil
}

// DetermineFittestChromosomes returns up to n chromosomes, fittest first
func (p *Population) DetermineFittestChromosomes(n int) ([]*Chromosome, error) {
	if err := p.SortByFitness(); err != nil {
		return nil, err
	}
	n = min(max(n, 0), len(p.chromosomes))
	return append([]*Chromosome(nil), p.chromosomes[:n]...), nil
}

// SortByFitness sorts fittest first, breaking ties by age (older first)
func (p *Population) SortByFitness() error {
	if p.sorted {
		return nil
	}
	if err := p.realizeFitness(); err != nil {
		return err
	}
	ev := p.evaluator()
	slices.SortStableFunc(p.chromosomes, func(a, b *Chromosome) int {
		return compareByFitness(ev, a, b)
	})
	p.sorted = true
	return nil
}

// KeepPopSizeConstant trims the least fit chromosomes until at most size remain
func (p *Population) KeepPopSizeConstant(size int) error {
	if size < 1 {
		return fmt.Errorf("%w: population size %d", ErrInvalidArgument, size)
	}
	if len(p.chromosomes) <= size {
		return nil
	}
	if err := p.SortByFitness(); err != nil {
		return err
	}
	clear(p.chromosomes[size:])
	p.chromosomes = p.chromosomes[:size]
	p.changed = true
	return nil
}
