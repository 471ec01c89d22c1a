package ga

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

// Breeder turns one generation into the next
type Breeder struct{}

func NewBreeder() *Breeder {
	return &Breeder{}
}

// Evolve runs one generation step on pop and returns the next population. An
// error aborts the step; pop may be left partially modified.
func (b *Breeder) Evolve(pop *Population, conf *Configuration) (*Population, error) {
	if !conf.IsLocked() {
		if err := conf.Lock(); err != nil {
			return nil, err
		}
	}
	log := conf.logger
	first := conf.GenerationNr() == 0

	var elite *Chromosome
	if first {
		for _, c := range pop.chromosomes {
			c.IncreaseAge()
		}
	} else if conf.preserveFittest {
		f, err := pop.DetermineFittestChromosome()
		if err != nil {
			return nil, fmt.Errorf("determine elite: %w", err)
		}
		elite = f
	}

	if !first && conf.keepPopSizeConstant {
		if err := pop.KeepPopSizeConstant(conf.populationSize); err != nil {
			return nil, err
		}
	}

	if conf.bulkFitness == nil {
		if err := pop.realizeFitness(); err != nil {
			return nil, err
		}
	}

	pop, err := b.applyNaturalSelectors(conf, pop, true)
	if err != nil {
		return nil, fmt.Errorf("pre-selection: %w", err)
	}

	survivors := pop.Size()
	var offspring []*Chromosome
	for _, op := range conf.operators {
		offspring, err = op.Operate(pop, offspring)
		if err != nil {
			return nil, err
		}
	}
	pop.AddChromosomes(offspring)

	for i, c := range pop.chromosomes {
		if i < survivors {
			c.IncreaseAge()
			c.ResetOperatedOn()
			continue
		}
		c.invalidateFitness()
		c.ResetAge()
		c.IncreaseOperatedOn()
	}

	if conf.bulkFitness != nil {
		if err := conf.bulkFitness.Evaluate(pop); err != nil {
			return nil, fmt.Errorf("bulk fitness: %w", err)
		}
	}
	if err := pop.realizeFitness(); err != nil {
		return nil, err
	}

	pop, err = b.applyNaturalSelectors(conf, pop, false)
	if err != nil {
		return nil, fmt.Errorf("post-selection: %w", err)
	}

	if conf.minPopSizePercent > 0 {
		floor := int(math.Round(float64(conf.populationSize) * float64(conf.minPopSizePercent) / 100))
		filled := 0
		for pop.Size() < floor {
			c, err := conf.initializer.Perform(conf.sample)
			if err != nil {
				return nil, fmt.Errorf("fill up population: %w", err)
			}
			pop.AddChromosome(c)
			filled++
		}
		if filled > 0 {
			log.Debug("population filled up", zap.Int("added", filled), zap.Int("floor", floor))
		}
	}

	if elite != nil && !pop.Contains(elite) {
		pop.AddChromosome(elite)
	}

	conf.incrementGenerationNr()
	fittest, err := pop.DetermineFittestChromosome()
	if err != nil {
		return nil, err
	}
	log.Debug("generation evolved",
		zap.Int("generation", conf.GenerationNr()),
		zap.Int("size", pop.Size()),
		zap.Int("offspring", len(offspring)))
	conf.events.Fire(GeneticEvent{
		Type:       GenerationEvolvedEvent,
		Generation: conf.GenerationNr(),
		Population: pop,
		Fittest:    fittest,
	})
	return pop, nil
}

// applyNaturalSelectors splits the configured population size among the
// selectors; the last one takes the remainder. Without selectors pop is returned as is.
func (b *Breeder) applyNaturalSelectors(conf *Configuration, pop *Population, pre bool) (*Population, error) {
	selectors := conf.preSelectors
	if !pre {
		selectors = conf.postSelectors
	}
	if len(selectors) == 0 {
		return pop, nil
	}
	size := conf.populationSize
	share := size / len(selectors)
	next := NewPopulation(conf)
	for i, s := range selectors {
		n := share
		if i == len(selectors)-1 {
			n = size - next.Size()
		}
		if err := s.Select(n, pop, next); err != nil {
			return nil, err
		}
	}
	return next, nil
}
