package ga

import "math"

// rouletteDelta is the tolerance used when locating the slot a spin landed on.
const rouletteDelta = 1e-7

type wheelEntry struct {
	chromosome *Chromosome
	fitness    float64
	counter    int
}

// WeightedRouletteSelector gives every distinct chromosome wheel slots in
// proportion to its fitness times the number of times it was added.
type WeightedRouletteSelector struct {
	conf              *Configuration
	wheel             []*wheelEntry
	index             map[*Chromosome]*wheelEntry
	doublettesAllowed bool
}

func NewWeightedRouletteSelector(conf *Configuration) *WeightedRouletteSelector {
	return &WeightedRouletteSelector{conf: conf, index: make(map[*Chromosome]*wheelEntry)}
}

func (s *WeightedRouletteSelector) Name() string { return "weighted_roulette" }

// SetDoubletteChromosomesAllowed lets one call pick the same slot mass repeatedly
func (s *WeightedRouletteSelector) SetDoubletteChromosomesAllowed(allowed bool) {
	s.doublettesAllowed = allowed
}

// Add registers c. Adding the same instance again adds another slot share.
func (s *WeightedRouletteSelector) Add(c *Chromosome) {
	if e, ok := s.index[c]; ok {
		e.counter++
		return
	}
	f, err := c.FitnessValue()
	if err != nil || f < 0 {
		f = 0
	}
	e := &wheelEntry{chromosome: c, fitness: f, counter: 1}
	s.index[c] = e
	s.wheel = append(s.wheel, e)
}

func (s *WeightedRouletteSelector) Select(howMany int, from, to *Population) error {
	return selectFrom(s, howMany, from, to)
}

// slots returns the wheel mass occupied by c
func (s *WeightedRouletteSelector) slots(c *Chromosome) float64 {
	e, ok := s.index[c]
	if !ok {
		return 0
	}
	return e.fitness * float64(e.counter)
}

// scaleFitnessValues divides every fitness by the largest one
func (s *WeightedRouletteSelector) scaleFitnessValues() {
	largest := 0.0
	for _, e := range s.wheel {
		largest = max(largest, e.fitness)
	}
	if largest <= rouletteDelta {
		return
	}
	for _, e := range s.wheel {
		e.fitness /= largest
	}
}

func (s *WeightedRouletteSelector) SelectChromosomes(howMany int, to *Population) error {
	if len(s.wheel) == 0 || howMany <= 0 {
		return nil
	}
	s.scaleFitnessValues()
	fitness := make([]float64, len(s.wheel))
	counters := make([]float64, len(s.wheel))
	total := 0.0
	for i, e := range s.wheel {
		fitness[i] = e.fitness
		counters[i] = s.slots(e.chromosome)
		total += counters[i]
	}
	src := s.conf.random
	higherIsBetter := s.conf.evaluator == nil || s.conf.evaluator.IsFitter(2, 1)
	in := newIntake(s.conf, to)
	for range howMany {
		i := s.spin(src.Float64()*total, total, counters, higherIsBetter)
		if !s.doublettesAllowed {
			counters[i] = max(counters[i]-fitness[i], 0)
			total = max(total-fitness[i], 0)
		}
		in.add(s.wheel[i].chromosome)
	}
	return nil
}

// spin returns the wheel index the selected slot falls into. When rounding
// keeps every entry from matching, the last entry with mass left wins.
func (s *WeightedRouletteSelector) spin(selected, total float64, counters []float64, higherIsBetter bool) int {
	selected = min(selected, total)
	current := 0.0
	for i, mass := range counters {
		current += mass
		if higherIsBetter {
			if selected-current <= rouletteDelta {
				return i
			}
		} else if math.Abs(current-selected) <= rouletteDelta {
			return i
		}
	}
	for i := len(counters) - 1; i >= 0; i-- {
		if counters[i] > 0 {
			return i
		}
	}
	return len(counters) - 1
}

func (s *WeightedRouletteSelector) Empty() {
	s.wheel = nil
	clear(s.index)
}

func (s *WeightedRouletteSelector) ReturnsUniqueChromosomes() bool { return false }
