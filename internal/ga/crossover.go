package ga

import (
	"fmt"

	"gaengine/internal/gene"
	"gaengine/internal/rng"
)

// CrossoverOperator performs single-point crossover between random pairs
type CrossoverOperator struct {
	conf               *Configuration
	rate               int
	ratePercent        float64
	calc               CrossoverRateCalculator
	allowFullCrossover bool
	xoverNewAge        bool
}

// NewCrossoverOperator crosses 35% of the population per generation
func NewCrossoverOperator(conf *Configuration) *CrossoverOperator {
	return &CrossoverOperator{conf: conf, ratePercent: 0.35, allowFullCrossover: true, xoverNewAge: true}
}

// NewCrossoverOperatorWithRate performs populationSize/rate crossovers
func NewCrossoverOperatorWithRate(conf *Configuration, rate int) (*CrossoverOperator, error) {
	if rate < 1 {
		return nil, fmt.Errorf("%w: crossover rate %d", ErrInvalidArgument, rate)
	}
	op := NewCrossoverOperator(conf)
	op.rate, op.ratePercent = rate, 0
	return op, nil
}

// NewCrossoverOperatorWithPercent performs populationSize*pct crossovers
func NewCrossoverOperatorWithPercent(conf *Configuration, pct float64) (*CrossoverOperator, error) {
	if !(pct > 0 && pct <= 1) {
		return nil, fmt.Errorf("%w: crossover percentage %v outside (0,1]", ErrInvalidArgument, pct)
	}
	op := NewCrossoverOperator(conf)
	op.ratePercent = pct
	return op, nil
}

func NewCrossoverOperatorWithCalculator(conf *Configuration, calc CrossoverRateCalculator) (*CrossoverOperator, error) {
	if calc == nil {
		return nil, fmt.Errorf("%w: nil crossover rate calculator", ErrInvalidArgument)
	}
	op := NewCrossoverOperator(conf)
	op.calc, op.ratePercent = calc, 0
	return op, nil
}

func (op *CrossoverOperator) Name() string { return "crossover" }

// SetAllowFullCrossover controls whether the gene at the locus itself is swapped
func (op *CrossoverOperator) SetAllowFullCrossover(allow bool) { op.allowFullCrossover = allow }

// SetXoverNewAge controls whether two chromosomes that are both brand new may pair
func (op *CrossoverOperator) SetXoverNewAge(allow bool) { op.xoverNewAge = allow }

func (op *CrossoverOperator) numCrossovers(size int) int {
	switch {
	case op.calc != nil:
		return size / max(op.calc.CalculateCurrentRate(), 1)
	case op.rate > 0:
		return size / op.rate
	default:
		return int(float64(size) * op.ratePercent)
	}
}

func (op *CrossoverOperator) Operate(pop *Population, offspring []*Chromosome) ([]*Chromosome, error) {
	size := operatingSize(op.conf, pop)
	if size == 0 {
		return offspring, nil
	}
	src := op.conf.random
	for range op.numCrossovers(size) {
		first := pop.Chromosome(src.Intn(size))
		second := pop.Chromosome(src.Intn(size))
		if !op.xoverNewAge && first.Age() < 1 && second.Age() < 1 {
			continue
		}
		if !allowed(op.conf, pop, op, first, second) {
			continue
		}
		var locus int
		switch {
		case op.allowFullCrossover:
			locus = src.Intn(first.Size())
		case first.Size() > 1:
			locus = 1 + src.Intn(first.Size()-1)
		default:
			// a single gene has no locus past the first
			continue
		}
		a, b := first.Clone(), second.Clone()
		a.SetUniqueIDTemplate(second.UniqueID(), 1)
		b.SetUniqueIDTemplate(first.UniqueID(), 1)
		if err := crossGenes(a, b, locus, src); err != nil {
			return offspring, fmt.Errorf("%s: %w", op.Name(), err)
		}
		offspring = append(offspring, a, b)
	}
	return offspring, nil
}

// crossGenes swaps the alleles of a and b from locus on. Composite genes
// exchange one sub-gene picked at random.
func crossGenes(a, b *Chromosome, locus int, src rng.Source) error {
	n := min(a.Size(), b.Size())
	for j := locus; j < n; j++ {
		x, y := atomicPair(a.genes[j], b.genes[j], src)
		if err := swapAlleles(x, y); err != nil {
			return fmt.Errorf("gene %d: %w", j, err)
		}
	}
	a.invalidateFitness()
	b.invalidateFitness()
	return nil
}

// atomicPair resolves composite genes to one of their sub-genes. When both
// sides are composite they share the drawn index.
func atomicPair(x, y gene.Gene, src rng.Source) (gene.Gene, gene.Gene) {
	cx, xComposite := x.(*gene.CompositeGene)
	cy, yComposite := y.(*gene.CompositeGene)
	switch {
	case xComposite && yComposite && cx.Size() > 0 && cy.Size() > 0:
		i := src.Intn(cx.Size())
		return cx.GeneAt(i), cy.GeneAt(i % cy.Size())
	case xComposite && cx.Size() > 0:
		x = cx.GeneAt(src.Intn(cx.Size()))
	case yComposite && cy.Size() > 0:
		y = cy.GeneAt(src.Intn(cy.Size()))
	}
	return x, y
}

// AveragingCrossoverOperator crosses like CrossoverOperator but draws the
// locus of each iteration only once and reuses it on every later call.
type AveragingCrossoverOperator struct {
	conf *Configuration
	rate int
	calc CrossoverRateCalculator
	loci map[int]int
}

// NewAveragingCrossoverOperator performs populationSize/2 crossovers
func NewAveragingCrossoverOperator(conf *Configuration) *AveragingCrossoverOperator {
	return &AveragingCrossoverOperator{conf: conf, rate: 2, loci: make(map[int]int)}
}

func NewAveragingCrossoverOperatorWithRate(conf *Configuration, rate int) (*AveragingCrossoverOperator, error) {
	if rate < 1 {
		return nil, fmt.Errorf("%w: crossover rate %d", ErrInvalidArgument, rate)
	}
	op := NewAveragingCrossoverOperator(conf)
	op.rate = rate
	return op, nil
}

func NewAveragingCrossoverOperatorWithCalculator(conf *Configuration, calc CrossoverRateCalculator) (*AveragingCrossoverOperator, error) {
	if calc == nil {
		return nil, fmt.Errorf("%w: nil crossover rate calculator", ErrInvalidArgument)
	}
	op := NewAveragingCrossoverOperator(conf)
	op.calc = calc
	return op, nil
}

func (op *AveragingCrossoverOperator) Name() string { return "averaging_crossover" }

func (op *AveragingCrossoverOperator) locus(iteration, genes int, src rng.Source) int {
	if l, ok := op.loci[iteration]; ok {
		return l
	}
	l := src.Intn(genes)
	op.loci[iteration] = l
	return l
}

func (op *AveragingCrossoverOperator) Operate(pop *Population, offspring []*Chromosome) ([]*Chromosome, error) {
	size := operatingSize(op.conf, pop)
	if size == 0 {
		return offspring, nil
	}
	rate := op.rate
	if op.calc != nil {
		rate = max(op.calc.CalculateCurrentRate(), 1)
	}
	src := op.conf.random
	for i := range size / rate {
		first := pop.Chromosome(src.Intn(size))
		second := pop.Chromosome(src.Intn(size))
		if !allowed(op.conf, pop, op, first, second) {
			continue
		}
		a, b := first.Clone(), second.Clone()
		a.SetUniqueIDTemplate(second.UniqueID(), 1)
		b.SetUniqueIDTemplate(first.UniqueID(), 1)
		if err := crossGenes(a, b, op.locus(i, a.Size(), src), src); err != nil {
			return offspring, fmt.Errorf("%s: %w", op.Name(), err)
		}
		offspring = append(offspring, a, b)
	}
	return offspring, nil
}
