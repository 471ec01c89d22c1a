package ga

import (
	"errors"
	"fmt"

	"gaengine/internal/gene"
	"gaengine/internal/rng"
)

// MutationOperator randomizes genes with a 1/rate chance each
type MutationOperator struct {
	mutationDecider
}

// NewMutationOperator uses a DefaultMutationRateCalculator
func NewMutationOperator(conf *Configuration) *MutationOperator {
	return &MutationOperator{mutationDecider{conf: conf, calc: NewDefaultMutationRateCalculator(conf)}}
}

// NewMutationOperatorWithRate mutates with chance 1/rate; 0 disables mutation
func NewMutationOperatorWithRate(conf *Configuration, rate int) (*MutationOperator, error) {
	d, err := newMutationDecider(conf, rate)
	if err != nil {
		return nil, err
	}
	return &MutationOperator{d}, nil
}

func NewMutationOperatorWithCalculator(conf *Configuration, calc MutationRateCalculator) (*MutationOperator, error) {
	if calc == nil {
		return nil, fmt.Errorf("%w: nil mutation rate calculator", ErrInvalidArgument)
	}
	return &MutationOperator{mutationDecider{conf: conf, calc: calc}}, nil
}

func (op *MutationOperator) Name() string { return "mutation" }

func (op *MutationOperator) Operate(pop *Population, offspring []*Chromosome) ([]*Chromosome, error) {
	if op.disabled() {
		return offspring, nil
	}
	src := op.conf.random
	for i := range operatingSize(op.conf, pop) {
		original := pop.Chromosome(i)
		var mutant *Chromosome
		for j := range original.Size() {
			if !op.hit(original, j) {
				continue
			}
			if !allowed(op.conf, pop, op, original) {
				continue
			}
			if mutant == nil {
				mutant = original.Clone()
				mutant.invalidateFitness()
				offspring = append(offspring, mutant)
			}
			mutant.genes[j].SetToRandomValue(src)
		}
	}
	return offspring, nil
}

// twoWayTiers are the chances of hitting each quarter of the gene indices
var twoWayTiers = [4]float64{0.4, 0.3, 0.2, 0.1}

// TwoWayMutationOperator prefers low gene indices: the first quarter of the
// chromosome is hit four times as often as the last. The chosen gene gets a
// percentage mutation on every atomic element.
type TwoWayMutationOperator struct {
	mutationDecider
}

func NewTwoWayMutationOperator(conf *Configuration) *TwoWayMutationOperator {
	return &TwoWayMutationOperator{mutationDecider{conf: conf, calc: NewDefaultMutationRateCalculator(conf)}}
}

func NewTwoWayMutationOperatorWithRate(conf *Configuration, rate int) (*TwoWayMutationOperator, error) {
	d, err := newMutationDecider(conf, rate)
	if err != nil {
		return nil, err
	}
	return &TwoWayMutationOperator{d}, nil
}

func (op *TwoWayMutationOperator) Name() string { return "two_way_mutation" }

func (op *TwoWayMutationOperator) Operate(pop *Population, offspring []*Chromosome) ([]*Chromosome, error) {
	if op.disabled() {
		return offspring, nil
	}
	src := op.conf.random
	for i := range operatingSize(op.conf, pop) {
		original := pop.Chromosome(i)
		var mutant *Chromosome
		for j := range original.Size() {
			if !op.hit(original, j) || !allowed(op.conf, pop, op, original) {
				continue
			}
			if mutant == nil {
				mutant = original.Clone()
				mutant.invalidateFitness()
				offspring = append(offspring, mutant)
			}
			target := tierIndex(src, mutant.Size())
			if err := perturb(mutant.genes[target], src); err != nil {
				return offspring, fmt.Errorf("%s: gene %d: %w", op.Name(), target, err)
			}
		}
	}
	return offspring, nil
}

// tierIndex draws a tier from twoWayTiers and a uniform index inside its quarter
func tierIndex(src rng.Source, n int) int {
	u := src.Float64()
	tier, acc := 0, twoWayTiers[0]
	for tier < len(twoWayTiers)-1 && u >= acc {
		tier++
		acc += twoWayTiers[tier]
	}
	lo, hi := tier*n/4, (tier+1)*n/4
	if hi <= lo {
		return min(lo, n-1)
	}
	return lo + src.Intn(hi-lo)
}

// perturb applies a uniform percentage in [-1,1) to every atomic element of g.
// Empty elements, such as an unset string inside a composite, are skipped.
func perturb(g gene.Gene, src rng.Source) error {
	for k := range g.Size() {
		err := g.ApplyMutation(k, -1+2*src.Float64())
		if err != nil && !errors.Is(err, gene.ErrIndexOutOfRange) {
			return err
		}
	}
	return nil
}

// GaussianMutationOperator adds normal noise to every gene of a copy of every chromosome
type GaussianMutationOperator struct {
	conf      *Configuration
	deviation float64
}

// NewGaussianMutationOperator uses a standard deviation of 0.05
func NewGaussianMutationOperator(conf *Configuration) *GaussianMutationOperator {
	return &GaussianMutationOperator{conf: conf, deviation: 0.05}
}

func NewGaussianMutationOperatorWithDeviation(conf *Configuration, deviation float64) (*GaussianMutationOperator, error) {
	if !(deviation > 0) {
		return nil, fmt.Errorf("%w: deviation %v", ErrInvalidArgument, deviation)
	}
	return &GaussianMutationOperator{conf: conf, deviation: deviation}, nil
}

func (op *GaussianMutationOperator) Name() string { return "gaussian_mutation" }

func (op *GaussianMutationOperator) Deviation() float64 { return op.deviation }

func (op *GaussianMutationOperator) Operate(pop *Population, offspring []*Chromosome) ([]*Chromosome, error) {
	noise := rng.NewGaussian(op.conf.random, 0, op.deviation)
	for i := range operatingSize(op.conf, pop) {
		original := pop.Chromosome(i)
		if !allowed(op.conf, pop, op, original) {
			continue
		}
		mutant := original.Clone()
		mutant.invalidateFitness()
		for j, g := range mutant.genes {
			if err := addNoise(g, noise.Next()); err != nil {
				return offspring, fmt.Errorf("%s: gene %d: %w", op.Name(), j, err)
			}
		}
		offspring = append(offspring, mutant)
	}
	return offspring, nil
}

// addNoise shifts a double allele by delta and pins it to the nearest bound,
// so noise never wraps through the gene's remap. Other numeric genes take
// delta as a mutation percentage and remap; remaining kinds are left alone.
func addNoise(g gene.Gene, delta float64) error {
	switch t := g.(type) {
	case *gene.DoubleGene:
		v := min(max(t.Float64Value()+delta, t.LowerBound()), t.UpperBound())
		return t.SetAllele(v)
	case *gene.CompositeGene:
		for _, sub := range t.Genes() {
			if err := addNoise(sub, delta); err != nil {
				return err
			}
		}
	case gene.NumberGene:
		return t.ApplyMutation(0, delta)
	}
	return nil
}
