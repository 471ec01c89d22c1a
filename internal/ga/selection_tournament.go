package ga

import (
	"fmt"
	"math"
)

// TournamentSelector runs one tournament per selected chromosome
type TournamentSelector struct {
	conf           *Configuration
	pool           []*Chromosome
	tournamentSize int
	probability    float64
}

// NewTournamentSelector picks the i-th fittest contestant with probability p(1-p)^i
func NewTournamentSelector(conf *Configuration, tournamentSize int, probability float64) (*TournamentSelector, error) {
	if tournamentSize < 1 {
		return nil, fmt.Errorf("%w: tournament size %d", ErrInvalidArgument, tournamentSize)
	}
	if !(probability > 0 && probability <= 1) {
		return nil, fmt.Errorf("%w: probability %v outside (0,1]", ErrInvalidArgument, probability)
	}
	return &TournamentSelector{conf: conf, tournamentSize: tournamentSize, probability: probability}, nil
}

func (s *TournamentSelector) Name() string { return "tournament" }

func (s *TournamentSelector) Add(c *Chromosome) { s.pool = append(s.pool, c) }

func (s *TournamentSelector) Select(howMany int, from, to *Population) error {
	return selectFrom(s, howMany, from, to)
}

func (s *TournamentSelector) SelectChromosomes(howMany int, to *Population) error {
	n := len(s.pool)
	if n == 0 || howMany <= 0 {
		return nil
	}
	for _, c := range s.pool {
		if _, err := c.FitnessValue(); err != nil {
			return err
		}
	}
	src := s.conf.random
	in := newIntake(s.conf, to)
	tournament := make([]*Chromosome, s.tournamentSize)
	for range howMany {
		for j := range tournament {
			tournament[j] = s.pool[src.Intn(n)]
		}
		sortPool(s.conf, tournament)
		in.add(tournament[s.winner(src.Float64())])
	}
	return nil
}

// winner maps a uniform draw onto the geometric tournament distribution
func (s *TournamentSelector) winner(draw float64) int {
	p := s.probability
	acc := p
	for i := 0; i < s.tournamentSize-1; i++ {
		if draw < acc {
			return i
		}
		acc += p * math.Pow(1-p, float64(i+1))
	}
	return s.tournamentSize - 1
}

func (s *TournamentSelector) Empty() {
	clear(s.pool)
	s.pool = s.pool[:0]
}

func (s *TournamentSelector) ReturnsUniqueChromosomes() bool { return false }
