package ga

import (
	"fmt"

	"gaengine/internal/rng"
)

// SwappingMutationOperator swaps a hit gene with another gene of the same
// chromosome, so the gene multiset never changes. Suited to permutation problems.
type SwappingMutationOperator struct {
	mutationDecider
	startOffset int
	partner     func(src rng.Source, target, length int) int
}

func NewSwappingMutationOperator(conf *Configuration) *SwappingMutationOperator {
	op := &SwappingMutationOperator{mutationDecider: mutationDecider{conf: conf, calc: NewDefaultMutationRateCalculator(conf)}}
	op.partner = op.anyPartner
	return op
}

func NewSwappingMutationOperatorWithRate(conf *Configuration, rate int) (*SwappingMutationOperator, error) {
	d, err := newMutationDecider(conf, rate)
	if err != nil {
		return nil, err
	}
	op := &SwappingMutationOperator{mutationDecider: d}
	op.partner = op.anyPartner
	return op, nil
}

func (op *SwappingMutationOperator) Name() string { return "swapping_mutation" }

// SetStartOffset excludes the first n genes from swapping
func (op *SwappingMutationOperator) SetStartOffset(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: start offset %d", ErrInvalidArgument, n)
	}
	op.startOffset = n
	return nil
}

func (op *SwappingMutationOperator) anyPartner(src rng.Source, _ int, length int) int {
	return op.startOffset + src.Intn(length-op.startOffset)
}

func (op *SwappingMutationOperator) Operate(pop *Population, offspring []*Chromosome) ([]*Chromosome, error) {
	return op.operate(pop, offspring, op), nil
}

// operate reports self to the operator constraint
func (op *SwappingMutationOperator) operate(pop *Population, offspring []*Chromosome, self GeneticOperator) []*Chromosome {
	if op.disabled() {
		return offspring
	}
	for i := range operatingSize(op.conf, pop) {
		if mutant := op.mutate(pop, pop.Chromosome(i), self); mutant != nil {
			offspring = append(offspring, mutant)
		}
	}
	return offspring
}

func (op *SwappingMutationOperator) mutate(pop *Population, original *Chromosome, self GeneticOperator) *Chromosome {
	n := original.Size()
	if n-op.startOffset < 2 {
		return nil
	}
	src := op.conf.random
	var mutant *Chromosome
	for j := op.startOffset; j < n; j++ {
		if !op.hit(original, j) || !allowed(op.conf, pop, self, original) {
			continue
		}
		if mutant == nil {
			mutant = original.Clone()
			mutant.invalidateFitness()
		}
		k := op.partner(src, j, n)
		mutant.genes[j], mutant.genes[k] = mutant.genes[k], mutant.genes[j]
	}
	return mutant
}

// RangedSwappingMutationOperator only swaps genes at most Range positions apart
type RangedSwappingMutationOperator struct {
	*SwappingMutationOperator
	width int
}

func NewRangedSwappingMutationOperator(conf *Configuration, width int) (*RangedSwappingMutationOperator, error) {
	if width < 1 {
		return nil, fmt.Errorf("%w: swap range %d", ErrInvalidArgument, width)
	}
	op := &RangedSwappingMutationOperator{SwappingMutationOperator: NewSwappingMutationOperator(conf), width: width}
	op.partner = op.nearbyPartner
	return op, nil
}

func NewRangedSwappingMutationOperatorWithRate(conf *Configuration, rate, width int) (*RangedSwappingMutationOperator, error) {
	if width < 1 {
		return nil, fmt.Errorf("%w: swap range %d", ErrInvalidArgument, width)
	}
	inner, err := NewSwappingMutationOperatorWithRate(conf, rate)
	if err != nil {
		return nil, err
	}
	op := &RangedSwappingMutationOperator{SwappingMutationOperator: inner, width: width}
	op.partner = op.nearbyPartner
	return op, nil
}

func (op *RangedSwappingMutationOperator) Name() string { return "ranged_swapping_mutation" }

func (op *RangedSwappingMutationOperator) Range() int { return op.width }

func (op *RangedSwappingMutationOperator) nearbyPartner(src rng.Source, target, length int) int {
	k := target + src.Intn(2*op.width+1) - op.width
	return min(max(k, op.startOffset), length-1)
}

func (op *RangedSwappingMutationOperator) Operate(pop *Population, offspring []*Chromosome) ([]*Chromosome, error) {
	return op.operate(pop, offspring, op), nil
}
