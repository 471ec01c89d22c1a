package eval

import (
	"fmt"
	"strings"

	"gaengine/internal/ga"
	"gaengine/internal/gene"
)

// coins are the denominations in cents, largest first
var coins = []int{25, 10, 5, 1}

// Change looks for the fewest coins adding up to a target amount.
// Each gene holds the count of one denomination.
type Change struct {
	target int
	kinds  []int
	delta  bool
}

// NewChange uses the first kinds denominations of quarters, dimes, nickels and pennies.
// With delta set, lower fitness is better.
func NewChange(target, kinds int, delta bool) (*Change, error) {
	if target < 1 {
		return nil, fmt.Errorf("change: target must be positive, got %d", target)
	}
	if kinds < 1 || kinds > len(coins) {
		return nil, fmt.Errorf("change: kinds must be within [1,%d], got %d", len(coins), kinds)
	}
	return &Change{target: target, kinds: coins[:kinds], delta: delta}, nil
}

func (p *Change) Name() string { return "change" }

func (p *Change) Sample(conf *ga.Configuration) (*ga.Chromosome, error) {
	genes := make([]gene.Gene, len(p.kinds))
	for i, value := range p.kinds {
		g, err := gene.NewIntegerGene(0, p.target/value)
		if err != nil {
			return nil, err
		}
		genes[i] = g
	}
	return ga.NewChromosome(conf, genes)
}

func (p *Change) counts(c *ga.Chromosome) (amount, count int) {
	for i, g := range c.Genes() {
		n := g.(*gene.IntegerGene).IntValue()
		amount += n * p.kinds[i]
		count += n
	}
	return amount, count
}

// penalty grows by 100 per cent missed and by 1 per coin used
func (p *Change) penalty(c *ga.Chromosome) float64 {
	amount, count := p.counts(c)
	diff := amount - p.target
	if diff < 0 {
		diff = -diff
	}
	return float64(diff*100 + count)
}

func (p *Change) Evaluate(c *ga.Chromosome) float64 {
	if p.delta {
		return p.penalty(c)
	}
	return 1000 / (1 + p.penalty(c))
}

func (p *Change) Describe(c *ga.Chromosome) string {
	amount, count := p.counts(c)
	parts := make([]string, len(p.kinds))
	for i, g := range c.Genes() {
		parts[i] = fmt.Sprintf("%dc x%d", p.kinds[i], g.(*gene.IntegerGene).IntValue())
	}
	return fmt.Sprintf("%s = %d cents in %d coins (target %d)", strings.Join(parts, ", "), amount, count, p.target)
}
