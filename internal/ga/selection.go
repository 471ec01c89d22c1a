package ga

import (
	"fmt"
	"math"
	"slices"
)

// NaturalSelector picks chromosomes for the next generation. Chromosomes are
// collected with Add into a working pool owned by the selector; the pool lives
// until Empty. A selector is not safe for concurrent use.
type NaturalSelector interface {
	Name() string
	Add(c *Chromosome)
	// Select fills the pool from "from", selects howMany into "to" and empties the pool.
	Select(howMany int, from, to *Population) error
	SelectChromosomes(howMany int, to *Population) error
	Empty()
	// ReturnsUniqueChromosomes reports whether one call never yields the same chromosome twice.
	ReturnsUniqueChromosomes() bool
}

func selectFrom(s NaturalSelector, howMany int, from, to *Population) error {
	for _, c := range from.chromosomes {
		s.Add(c)
	}
	defer s.Empty()
	if err := s.SelectChromosomes(howMany, to); err != nil {
		return fmt.Errorf("%s: %w", s.Name(), err)
	}
	return nil
}

// intake adds selected chromosomes to a population. A chromosome that is
// already a member is cloned so that no two slots share one instance.
type intake struct {
	cloner Cloner
	to     *Population
	seen   map[*Chromosome]bool
}

func newIntake(conf *Configuration, to *Population) *intake {
	in := &intake{cloner: conf.cloner, to: to, seen: make(map[*Chromosome]bool, to.Size())}
	if in.cloner == nil {
		in.cloner = DefaultCloner{}
	}
	for _, c := range to.chromosomes {
		in.seen[c] = true
	}
	return in
}

func (in *intake) add(c *Chromosome) *Chromosome {
	if in.seen[c] {
		c = in.cloner.Clone(c)
	}
	in.seen[c] = true
	c.SetSelectedForNextGeneration(true)
	in.to.AddChromosome(c)
	return c
}

func containsEqual(pool []*Chromosome, c *Chromosome) bool {
	return slices.ContainsFunc(pool, func(o *Chromosome) bool { return o == c || o.Equal(c) })
}

func sortPool(conf *Configuration, pool []*Chromosome) {
	ev := conf.evaluator
	if ev == nil {
		ev = DefaultFitnessEvaluator{}
	}
	slices.SortStableFunc(pool, func(a, b *Chromosome) int { return compareByFitness(ev, a, b) })
}

// BestChromosomesSelector takes the fittest chromosomes of its pool
type BestChromosomesSelector struct {
	conf              *Configuration
	pool              []*Chromosome
	needsSorting      bool
	originalRate      float64
	doublettesAllowed bool
}

// NewBestChromosomesSelector keeps round(howMany*originalRate) of the best.
// Duplicates are allowed by default.
func NewBestChromosomesSelector(conf *Configuration, originalRate float64) (*BestChromosomesSelector, error) {
	if originalRate < 0 || originalRate > 1 || math.IsNaN(originalRate) {
		return nil, fmt.Errorf("%w: original rate %v outside [0,1]", ErrInvalidArgument, originalRate)
	}
	return &BestChromosomesSelector{conf: conf, originalRate: originalRate, doublettesAllowed: true}, nil
}

func (s *BestChromosomesSelector) Name() string { return "best_chromosomes" }

func (s *BestChromosomesSelector) SetDoubletteChromosomesAllowed(allowed bool) {
	s.doublettesAllowed = allowed
}

func (s *BestChromosomesSelector) DoubletteChromosomesAllowed() bool { return s.doublettesAllowed }

// Add puts c into the pool. Without doublettes, chromosomes equal to a pooled one are ignored.
func (s *BestChromosomesSelector) Add(c *Chromosome) {
	if !s.doublettesAllowed && containsEqual(s.pool, c) {
		return
	}
	c.SetSelectedForNextGeneration(false)
	s.pool = append(s.pool, c)
	s.needsSorting = true
}

func (s *BestChromosomesSelector) Select(howMany int, from, to *Population) error {
	return selectFrom(s, howMany, from, to)
}

func (s *BestChromosomesSelector) SelectChromosomes(howMany int, to *Population) error {
	n := len(s.pool)
	if n == 0 || howMany <= 0 {
		return nil
	}
	canBeSelected := min(howMany, n)
	if s.originalRate < 1 {
		canBeSelected = max(int(math.Round(float64(canBeSelected)*s.originalRate)), 1)
	}
	if s.needsSorting {
		for _, c := range s.pool {
			if _, err := c.FitnessValue(); err != nil {
				return err
			}
		}
		sortPool(s.conf, s.pool)
		s.needsSorting = false
	}
	in := newIntake(s.conf, to)
	for _, c := range s.pool[:canBeSelected] {
		in.add(c)
	}
	if !s.doublettesAllowed {
		return nil
	}
	for i := 0; i < howMany-canBeSelected; i++ {
		c := in.cloner.Clone(s.pool[i%n])
		c.IncreaseAge()
		in.add(c)
	}
	return nil
}

func (s *BestChromosomesSelector) Empty() {
	clear(s.pool)
	s.pool = s.pool[:0]
	s.needsSorting = false
}

func (s *BestChromosomesSelector) ReturnsUniqueChromosomes() bool { return !s.doublettesAllowed }
