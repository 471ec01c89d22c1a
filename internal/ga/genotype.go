package ga

import (
	"fmt"

	"go.uber.org/zap"
)

// Genotype ties a locked configuration to its current population
type Genotype struct {
	conf    *Configuration
	pop     *Population
	breeder *Breeder
}

// NewGenotype locks conf and wraps an existing population
func NewGenotype(conf *Configuration, pop *Population) (*Genotype, error) {
	if err := conf.Lock(); err != nil {
		return nil, err
	}
	if pop == nil || pop.Size() == 0 {
		return nil, fmt.Errorf("%w: empty initial population", ErrInvalidArgument)
	}
	return &Genotype{conf: conf, pop: pop, breeder: NewBreeder()}, nil
}

// RandomInitialGenotype locks conf and fills a population through its initializer
func RandomInitialGenotype(conf *Configuration) (*Genotype, error) {
	if err := conf.Lock(); err != nil {
		return nil, err
	}
	pop := NewPopulation(conf)
	for i := range conf.populationSize {
		c, err := conf.initializer.Perform(conf.sample)
		if err != nil {
			return nil, fmt.Errorf("initialize chromosome %d: %w", i, err)
		}
		pop.AddChromosome(c)
	}
	conf.logger.Info("initial population created", zap.Int("size", pop.Size()))
	return &Genotype{conf: conf, pop: pop, breeder: NewBreeder()}, nil
}

func (g *Genotype) Configuration() *Configuration { return g.conf }

func (g *Genotype) Population() *Population { return g.pop }

// Evolve runs one generation
func (g *Genotype) Evolve() error {
	next, err := g.breeder.Evolve(g.pop, g.conf)
	if err != nil {
		return fmt.Errorf("generation %d: %w", g.conf.GenerationNr()+1, err)
	}
	g.pop = next
	return nil
}

// EvolveN runs n generations, stopping at the first error
func (g *Genotype) EvolveN(n int) error {
	for range n {
		if err := g.Evolve(); err != nil {
			return err
		}
	}
	return nil
}

// FittestChromosome returns the fittest chromosome of the current population
func (g *Genotype) FittestChromosome() (*Chromosome, error) {
	return g.pop.DetermineFittestChromosome()
}

// FittestChromosomes returns up to n chromosomes, fittest first
func (g *Genotype) FittestChromosomes(n int) ([]*Chromosome, error) {
	return g.pop.DetermineFittestChromosomes(n)
}
