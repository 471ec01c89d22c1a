package ga

import (
	"fmt"
	"slices"

	"gaengine/internal/gene"
)

// DistanceFunc measures how far apart two genes are, e.g. cities on a tour.
type DistanceFunc func(from, to gene.Gene) float64

// GreedyCrossover builds tours by following whichever parent continues to the
// nearer gene. Both parents must be permutations of the same gene set from the
// start offset on; anything else is a programming error.
type GreedyCrossover struct {
	conf        *Configuration
	distance    DistanceFunc
	startOffset int
}

func NewGreedyCrossover(conf *Configuration, distance DistanceFunc) (*GreedyCrossover, error) {
	if distance == nil {
		return nil, fmt.Errorf("%w: nil distance function", ErrInvalidArgument)
	}
	return &GreedyCrossover{conf: conf, distance: distance}, nil
}

func (op *GreedyCrossover) Name() string { return "greedy_crossover" }

// SetStartOffset keeps the first n genes in place, e.g. a fixed start city
func (op *GreedyCrossover) SetStartOffset(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: start offset %d", ErrInvalidArgument, n)
	}
	op.startOffset = n
	return nil
}

func (op *GreedyCrossover) StartOffset() int { return op.startOffset }

func (op *GreedyCrossover) Operate(pop *Population, offspring []*Chromosome) ([]*Chromosome, error) {
	size := operatingSize(op.conf, pop)
	if size == 0 {
		return offspring, nil
	}
	src := op.conf.random
	for range size / 2 {
		first := pop.Chromosome(src.Intn(size))
		second := pop.Chromosome(src.Intn(size))
		if !allowed(op.conf, pop, op, first, second) {
			continue
		}
		a, b := first.Clone(), second.Clone()
		a.SetUniqueIDTemplate(second.UniqueID(), 1)
		b.SetUniqueIDTemplate(first.UniqueID(), 1)
		if err := op.Cross(a, b); err != nil {
			return offspring, fmt.Errorf("%s: %w", op.Name(), err)
		}
		offspring = append(offspring, a, b)
	}
	return offspring, nil
}

// Cross replaces the genes of a and b with their two greedy children
func (op *GreedyCrossover) Cross(a, b *Chromosome) error {
	g1, g2 := a.Genes(), b.Genes()
	c1, err := op.tour(g1, g2)
	if err != nil {
		return err
	}
	c2, err := op.tour(g2, g1)
	if err != nil {
		return err
	}
	if err := a.SetGenes(c1); err != nil {
		return err
	}
	return b.SetGenes(c2)
}

func (op *GreedyCrossover) tour(g1, g2 []gene.Gene) ([]gene.Gene, error) {
	if err := op.checkPermutations(g1, g2); err != nil {
		return nil, err
	}
	start := op.startOffset
	out := []gene.Gene{g1[start]}
	notPicked := slices.Clone(g1[start+1:])
	slices.SortFunc(notPicked, func(a, b gene.Gene) int { return a.Compare(b) })
	for len(notPicked) > 1 {
		last := out[len(out)-1]
		n1 := op.findNext(g1, last)
		n2 := op.findNext(g2, last)
		picked, other := n2, n1
		if n1 != nil && (n2 == nil || op.distance(last, n1) < op.distance(last, n2)) {
			picked, other = n1, n2
		}
		if picked != nil && containsGene(out, picked) {
			picked = other
		}
		if picked == nil || containsGene(out, picked) {
			picked = notPicked[0]
		}
		i := slices.IndexFunc(notPicked, func(g gene.Gene) bool { return g.Compare(picked) == 0 })
		if i < 0 {
			return nil, fmt.Errorf("%w: gene %s is not part of the tour", ErrGreedyInvariant, picked)
		}
		notPicked = slices.Delete(notPicked, i, i+1)
		out = append(out, picked)
	}
	out = append(out, notPicked...)

	child := make([]gene.Gene, len(g1))
	for i := range start {
		child[i] = g1[i].Clone()
	}
	for i, g := range out {
		child[start+i] = g.Clone()
	}
	return child, nil
}

func (op *GreedyCrossover) checkPermutations(g1, g2 []gene.Gene) error {
	if len(g1) != len(g2) {
		return fmt.Errorf("%w: parents have %d and %d genes", ErrGreedyInvariant, len(g1), len(g2))
	}
	if op.startOffset >= len(g1) {
		return fmt.Errorf("%w: start offset %d leaves no genes to reorder", ErrGreedyInvariant, op.startOffset)
	}
	byGene := func(a, b gene.Gene) int { return a.Compare(b) }
	s1 := slices.SortedFunc(slices.Values(g1[op.startOffset:]), byGene)
	s2 := slices.SortedFunc(slices.Values(g2[op.startOffset:]), byGene)
	for i := range s1 {
		if i > 0 && s1[i-1].Compare(s1[i]) == 0 {
			return fmt.Errorf("%w: gene %s occurs twice", ErrGreedyInvariant, s1[i])
		}
		if s1[i].Compare(s2[i]) != 0 {
			return fmt.Errorf("%w: gene sets differ at %s", ErrGreedyInvariant, s1[i])
		}
	}
	return nil
}

// findNext returns the gene following x in genes, or nil when x is last or absent
func (op *GreedyCrossover) findNext(genes []gene.Gene, x gene.Gene) gene.Gene {
	for i := op.startOffset; i < len(genes)-1; i++ {
		if genes[i].Compare(x) == 0 {
			return genes[i+1]
		}
	}
	return nil
}

func containsGene(genes []gene.Gene, x gene.Gene) bool {
	return slices.ContainsFunc(genes, func(g gene.Gene) bool { return g.Compare(x) == 0 })
}
