package ga

// StandardPostSelector passes freshly bred chromosomes through first, then the
// fittest evaluated survivors, then cycles through both to fill up.
type StandardPostSelector struct {
	conf *Configuration
	pool []*Chromosome
}

func NewStandardPostSelector(conf *Configuration) *StandardPostSelector {
	return &StandardPostSelector{conf: conf}
}

func (s *StandardPostSelector) Name() string { return "standard_post" }

func (s *StandardPostSelector) Add(c *Chromosome) { s.pool = append(s.pool, c) }

func (s *StandardPostSelector) Select(howMany int, from, to *Population) error {
	return selectFrom(s, howMany, from, to)
}

func (s *StandardPostSelector) SelectChromosomes(howMany int, to *Population) error {
	if len(s.pool) == 0 || howMany <= 0 {
		return nil
	}
	var fresh, survivors []*Chromosome
	for _, c := range s.pool {
		if c.FitnessValueDirectly() == NoFitnessValue {
			fresh = append(fresh, c)
		} else {
			survivors = append(survivors, c)
		}
	}
	sortPool(s.conf, survivors)
	order := append(fresh, survivors...)
	in := newIntake(s.conf, to)
	for i := range howMany {
		in.add(order[i%len(order)])
	}
	return nil
}

func (s *StandardPostSelector) Empty() {
	clear(s.pool)
	s.pool = s.pool[:0]
}

func (s *StandardPostSelector) ReturnsUniqueChromosomes() bool { return false }
