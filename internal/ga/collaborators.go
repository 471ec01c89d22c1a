package ga

import "github.com/google/uuid"

// Cloner duplicates chromosomes for selectors that fill slots with copies
type Cloner interface {
	Clone(c *Chromosome) *Chromosome
}

// DefaultCloner uses Chromosome.Clone
type DefaultCloner struct{}

func (DefaultCloner) Clone(c *Chromosome) *Chromosome { return c.Clone() }

// Initializer builds fresh chromosomes from the sample layout
type Initializer interface {
	Perform(sample *Chromosome) (*Chromosome, error)
}

// RandomInitializer draws every gene from the configuration's random generator
type RandomInitializer struct{}

func (RandomInitializer) Perform(sample *Chromosome) (*Chromosome, error) {
	conf := sample.Configuration()
	if conf == nil || conf.RandomGenerator() == nil {
		return nil, ErrInvalidConfig
	}
	return sample.RandomChromosome(conf.RandomGenerator()), nil
}

// UniqueKeyProvider issues chromosome ids
type UniqueKeyProvider interface {
	NewKey() string
}

// UUIDKeys issues random UUIDs
type UUIDKeys struct{}

func (UUIDKeys) NewKey() string { return uuid.NewString() }

// OperatorConstraint may veto an operator acting on the given chromosomes
type OperatorConstraint interface {
	IsValid(pop *Population, chromosomes []*Chromosome, op GeneticOperator) bool
}

// OperatorConstraintFunc adapts a plain function to OperatorConstraint
type OperatorConstraintFunc func(pop *Population, chromosomes []*Chromosome, op GeneticOperator) bool

func (f OperatorConstraintFunc) IsValid(pop *Population, chromosomes []*Chromosome, op GeneticOperator) bool {
	return f(pop, chromosomes, op)
}

func allowed(conf *Configuration, pop *Population, op GeneticOperator, chromosomes ...*Chromosome) bool {
	if conf.constraint == nil {
		return true
	}
	return conf.constraint.IsValid(pop, chromosomes, op)
}
