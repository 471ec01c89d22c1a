package rng

// Sequence replays fixed values in order, cycling when a queue is exhausted.
// Empty queues fall back to zero values. Intn results are reduced modulo n.
type Sequence struct {
	Ints   []int
	Floats []float64
	Bools  []bool
	Norms  []float64

	ii, fi, bi, ni int
}

// NewSequence creates a generator that replays ints and floats
func NewSequence(ints []int, floats []float64) *Sequence {
	return &Sequence{Ints: ints, Floats: floats}
}

func (s *Sequence) Int() int {
	if len(s.Ints) == 0 {
		return 0
	}
	v := s.Ints[s.ii%len(s.Ints)]
	s.ii++
	return v
}

func (s *Sequence) Intn(n int) int {
	if n <= 0 {
		panic("rng: invalid argument to Intn")
	}
	v := s.Int() % n
	if v < 0 {
		v += n
	}
	return v
}

func (s *Sequence) Int63() int64 { return int64(s.Int()) }

func (s *Sequence) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0
	}
	v := s.Floats[s.fi%len(s.Floats)]
	s.fi++
	return v
}

func (s *Sequence) Float32() float32 { return float32(s.Float64()) }

func (s *Sequence) Bool() bool {
	if len(s.Bools) == 0 {
		return false
	}
	v := s.Bools[s.bi%len(s.Bools)]
	s.bi++
	return v
}

func (s *Sequence) NormFloat64() float64 {
	if len(s.Norms) == 0 {
		return 0
	}
	v := s.Norms[s.ni%len(s.Norms)]
	s.ni++
	return v
}
