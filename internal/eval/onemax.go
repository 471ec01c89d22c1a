package eval

import (
	"fmt"

	"gaengine/internal/ga"
	"gaengine/internal/gene"
)

const oneMaxWord = 8

// OneMax counts set bits. The bits are split into 8 bit genes so crossover has loci to work with.
type OneMax struct {
	bits int
}

func NewOneMax(bits int) (*OneMax, error) {
	if bits < 1 {
		return nil, fmt.Errorf("onemax: bits must be positive, got %d", bits)
	}
	return &OneMax{bits: bits}, nil
}

func (p *OneMax) Name() string { return "onemax" }

func (p *OneMax) Sample(conf *ga.Configuration) (*ga.Chromosome, error) {
	var genes []gene.Gene
	for left := p.bits; left > 0; left -= oneMaxWord {
		g, err := gene.NewFixedBinaryGene(min(left, oneMaxWord))
		if err != nil {
			return nil, err
		}
		genes = append(genes, g)
	}
	return ga.NewChromosome(conf, genes)
}

func (p *OneMax) Evaluate(c *ga.Chromosome) float64 {
	return float64(ones(c))
}

func (p *OneMax) Describe(c *ga.Chromosome) string {
	return fmt.Sprintf("%d of %d bits set", ones(c), p.bits)
}

func ones(c *ga.Chromosome) int {
	n := 0
	for _, g := range c.Genes() {
		n += g.(*gene.FixedBinaryGene).OnesCount()
	}
	return n
}
