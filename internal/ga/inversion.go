package ga

import "gaengine/internal/gene"

// InversionOperator rotates one random chromosome per call around a random
// locus: genes [locus..end] move to the front, followed by [0..locus).
type InversionOperator struct {
	conf *Configuration
}

func NewInversionOperator(conf *Configuration) *InversionOperator {
	return &InversionOperator{conf: conf}
}

func (op *InversionOperator) Name() string { return "inversion" }

func (op *InversionOperator) Operate(pop *Population, offspring []*Chromosome) ([]*Chromosome, error) {
	size := operatingSize(op.conf, pop)
	if size == 0 {
		return offspring, nil
	}
	src := op.conf.random
	original := pop.Chromosome(src.Intn(size))
	if !allowed(op.conf, pop, op, original) {
		return offspring, nil
	}
	mutant := original.Clone()
	locus := src.Intn(mutant.Size())
	if err := mutant.SetGenes(rotate(mutant.genes, locus)); err != nil {
		return offspring, err
	}
	return append(offspring, mutant), nil
}

func rotate(genes []gene.Gene, locus int) []gene.Gene {
	out := make([]gene.Gene, 0, len(genes))
	out = append(out, genes[locus:]...)
	return append(out, genes[:locus]...)
}
