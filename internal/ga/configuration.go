package ga

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"gaengine/internal/rng"
)

// Configuration holds every collaborator of a run. It is mutable until Lock
// succeeds and read-only afterwards.
type Configuration struct {
	name                string
	logger              *zap.Logger
	populationSize      int
	sample              *Chromosome
	fitnessFunc         FitnessFunction
	bulkFitness         BulkFitnessFunction
	evaluator           FitnessEvaluator
	random              rng.Source
	preSelectors        []NaturalSelector
	postSelectors       []NaturalSelector
	operators           []GeneticOperator
	minPopSizePercent   int
	preserveFittest     bool
	keepPopSizeConstant bool
	cloner              Cloner
	initializer         Initializer
	events              *EventManager
	uniqueKeys          UniqueKeyProvider
	constraint          OperatorConstraint
	generation          int
	locked              bool
}

// NewConfiguration returns an empty configuration: no selectors, no operators,
// higher fitness is better and the population size is kept constant.
func NewConfiguration(name string, logger *zap.Logger) *Configuration {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Configuration{
		name:                name,
		logger:              logger.With(zap.String("config", name)),
		evaluator:           DefaultFitnessEvaluator{},
		random:              rng.NewStock(time.Now().UnixNano()),
		keepPopSizeConstant: true,
		cloner:              DefaultCloner{},
		initializer:         RandomInitializer{},
		events:              NewEventManager(),
	}
}

// NewDefaultConfiguration adds the usual collaborators: a best-chromosomes post
// selector keeping 90%, crossover at 35% and mutation at 1/12, with elitism.
func NewDefaultConfiguration(name string, logger *zap.Logger) (*Configuration, error) {
	c := NewConfiguration(name, logger)
	best, err := NewBestChromosomesSelector(c, 0.90)
	if err != nil {
		return nil, err
	}
	if err := c.AddNaturalSelector(best, false); err != nil {
		return nil, err
	}
	xover, err := NewCrossoverOperatorWithPercent(c, 0.35)
	if err != nil {
		return nil, err
	}
	mutation, err := NewMutationOperatorWithRate(c, 12)
	if err != nil {
		return nil, err
	}
	if err := c.AddGeneticOperator(xover); err != nil {
		return nil, err
	}
	if err := c.AddGeneticOperator(mutation); err != nil {
		return nil, err
	}
	c.preserveFittest = true
	c.minPopSizePercent = 0
	return c, nil
}

func (c *Configuration) checkUnlocked() error {
	if c.locked {
		return fmt.Errorf("%w: %s", ErrConfigLocked, c.name)
	}
	return nil
}

// Lock validates the configuration and freezes it
func (c *Configuration) Lock() error {
	if c.locked {
		return nil
	}
	var errs []error
	if c.populationSize < 1 {
		errs = append(errs, fmt.Errorf("population size must be positive, got %d", c.populationSize))
	}
	if c.sample == nil {
		errs = append(errs, errors.New("sample chromosome is required"))
	}
	if (c.fitnessFunc == nil) == (c.bulkFitness == nil) {
		errs = append(errs, errors.New("exactly one of fitness function and bulk fitness function is required"))
	}
	if len(c.operators) == 0 {
		errs = append(errs, errors.New("at least one genetic operator is required"))
	}
	if c.random == nil {
		errs = append(errs, errors.New("random generator is required"))
	}
	if c.evaluator == nil {
		errs = append(errs, errors.New("fitness evaluator is required"))
	}
	if c.minPopSizePercent < 0 || c.minPopSizePercent > 100 {
		errs = append(errs, fmt.Errorf("minimum population size percent %d outside [0,100]", c.minPopSizePercent))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, c.name, errors.Join(errs...))
	}
	c.locked = true
	c.logger.Debug("configuration locked",
		zap.Int("population_size", c.populationSize),
		zap.Int("pre_selectors", len(c.preSelectors)),
		zap.Int("post_selectors", len(c.postSelectors)),
		zap.Int("operators", len(c.operators)))
	return nil
}

func (c *Configuration) IsLocked() bool { return c.locked }

func (c *Configuration) Name() string { return c.name }

func (c *Configuration) Logger() *zap.Logger { return c.logger }

func (c *Configuration) PopulationSize() int { return c.populationSize }

func (c *Configuration) SetPopulationSize(n int) error {
	if err := c.checkUnlocked(); err != nil {
		return err
	}
	if n < 1 {
		return fmt.Errorf("%w: population size %d", ErrInvalidArgument, n)
	}
	c.populationSize = n
	return nil
}

func (c *Configuration) SampleChromosome() *Chromosome { return c.sample }

func (c *Configuration) SetSampleChromosome(sample *Chromosome) error {
	if err := c.checkUnlocked(); err != nil {
		return err
	}
	if sample == nil {
		return fmt.Errorf("%w: nil sample chromosome", ErrInvalidArgument)
	}
	c.sample = sample
	return nil
}

func (c *Configuration) FitnessFunction() FitnessFunction { return c.fitnessFunc }

func (c *Configuration) SetFitnessFunction(f FitnessFunction) error {
	if err := c.checkUnlocked(); err != nil {
		return err
	}
	if c.bulkFitness != nil {
		return fmt.Errorf("%w: bulk fitness function already set", ErrInvalidConfig)
	}
	c.fitnessFunc = f
	return nil
}

func (c *Configuration) BulkFitnessFunction() BulkFitnessFunction { return c.bulkFitness }

func (c *Configuration) SetBulkFitnessFunction(f BulkFitnessFunction) error {
	if err := c.checkUnlocked(); err != nil {
		return err
	}
	if c.fitnessFunc != nil {
		return fmt.Errorf("%w: fitness function already set", ErrInvalidConfig)
	}
	c.bulkFitness = f
	return nil
}

func (c *Configuration) FitnessEvaluator() FitnessEvaluator { return c.evaluator }

func (c *Configuration) SetFitnessEvaluator(ev FitnessEvaluator) error {
	if err := c.checkUnlocked(); err != nil {
		return err
	}
	c.evaluator = ev
	return nil
}

func (c *Configuration) RandomGenerator() rng.Source { return c.random }

func (c *Configuration) SetRandomGenerator(src rng.Source) error {
	if err := c.checkUnlocked(); err != nil {
		return err
	}
	c.random = src
	return nil
}

// AddNaturalSelector registers s to run before (pre) or after the genetic operators
func (c *Configuration) AddNaturalSelector(s NaturalSelector, pre bool) error {
	if err := c.checkUnlocked(); err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("%w: nil selector", ErrInvalidArgument)
	}
	if pre {
		c.preSelectors = append(c.preSelectors, s)
	} else {
		c.postSelectors = append(c.postSelectors, s)
	}
	return nil
}

// NaturalSelectors returns the pre or post selectors in registration order
func (c *Configuration) NaturalSelectors(pre bool) []NaturalSelector {
	if pre {
		return append([]NaturalSelector(nil), c.preSelectors...)
	}
	return append([]NaturalSelector(nil), c.postSelectors...)
}

func (c *Configuration) AddGeneticOperator(op GeneticOperator) error {
	if err := c.checkUnlocked(); err != nil {
		return err
	}
	if op == nil {
		return fmt.Errorf("%w: nil operator", ErrInvalidArgument)
	}
	c.operators = append(c.operators, op)
	return nil
}

func (c *Configuration) GeneticOperators() []GeneticOperator {
	return append([]GeneticOperator(nil), c.operators...)
}

func (c *Configuration) MinimumPopSizePercent() int { return c.minPopSizePercent }

func (c *Configuration) SetMinimumPopSizePercent(pct int) error {
	if err := c.checkUnlocked(); err != nil {
		return err
	}
	c.minPopSizePercent = pct
	return nil
}

func (c *Configuration) PreserveFittestIndividual() bool { return c.preserveFittest }

func (c *Configuration) SetPreserveFittestIndividual(on bool) error {
	if err := c.checkUnlocked(); err != nil {
		return err
	}
	c.preserveFittest = on
	return nil
}

func (c *Configuration) KeepPopulationSizeConstant() bool { return c.keepPopSizeConstant }

func (c *Configuration) SetKeepPopulationSizeConstant(on bool) error {
	if err := c.checkUnlocked(); err != nil {
		return err
	}
	c.keepPopSizeConstant = on
	return nil
}

func (c *Configuration) Cloner() Cloner { return c.cloner }

func (c *Configuration) SetCloner(cl Cloner) error {
	if err := c.checkUnlocked(); err != nil {
		return err
	}
	c.cloner = cl
	return nil
}

func (c *Configuration) Initializer() Initializer { return c.initializer }

func (c *Configuration) SetInitializer(in Initializer) error {
	if err := c.checkUnlocked(); err != nil {
		return err
	}
	c.initializer = in
	return nil
}

func (c *Configuration) EventManager() *EventManager { return c.events }

func (c *Configuration) UniqueKeyProvider() UniqueKeyProvider { return c.uniqueKeys }

// SetUniqueKeyProvider enables chromosome ids and lineage tracking
func (c *Configuration) SetUniqueKeyProvider(p UniqueKeyProvider) error {
	if err := c.checkUnlocked(); err != nil {
		return err
	}
	c.uniqueKeys = p
	return nil
}

func (c *Configuration) OperatorConstraint() OperatorConstraint { return c.constraint }

func (c *Configuration) SetOperatorConstraint(oc OperatorConstraint) error {
	if err := c.checkUnlocked(); err != nil {
		return err
	}
	c.constraint = oc
	return nil
}

// GenerationNr counts completed evolution steps
func (c *Configuration) GenerationNr() int { return c.generation }

func (c *Configuration) incrementGenerationNr() { c.generation++ }
