package ga

import (
	"fmt"
	"math"
)

// ThresholdSelector grants the best share of the pool a place and fills the
// rest by uniform sampling with replacement.
type ThresholdSelector struct {
	conf              *Configuration
	pool              []*Chromosome
	needsSorting      bool
	bestPercentage    float64
	doublettesAllowed bool
}

func NewThresholdSelector(conf *Configuration, bestPercentage float64) (*ThresholdSelector, error) {
	if !(bestPercentage >= 0 && bestPercentage <= 1) {
		return nil, fmt.Errorf("%w: best percentage %v outside [0,1]", ErrInvalidArgument, bestPercentage)
	}
	return &ThresholdSelector{conf: conf, bestPercentage: bestPercentage, doublettesAllowed: true}, nil
}

func (s *ThresholdSelector) Name() string { return "threshold" }

func (s *ThresholdSelector) SetDoubletteChromosomesAllowed(allowed bool) {
	s.doublettesAllowed = allowed
}

func (s *ThresholdSelector) Add(c *Chromosome) {
	if !s.doublettesAllowed && containsEqual(s.pool, c) {
		return
	}
	s.pool = append(s.pool, c)
	s.needsSorting = true
}

func (s *ThresholdSelector) Select(howMany int, from, to *Population) error {
	return selectFrom(s, howMany, from, to)
}

func (s *ThresholdSelector) SelectChromosomes(howMany int, to *Population) error {
	n := len(s.pool)
	if n == 0 || howMany <= 0 {
		return nil
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
	granted := min(int(math.Round(float64(howMany)*s.bestPercentage)), n, howMany)
	in := newIntake(s.conf, to)
	for _, c := range s.pool[:granted] {
		in.add(c)
	}
	src := s.conf.random
	for i := granted; i < howMany; i++ {
		in.add(s.pool[src.Intn(n)])
	}
	return nil
}

func (s *ThresholdSelector) Empty() {
	clear(s.pool)
	s.pool = s.pool[:0]
	s.needsSorting = false
}

func (s *ThresholdSelector) ReturnsUniqueChromosomes() bool { return false }
