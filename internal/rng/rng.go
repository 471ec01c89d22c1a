package rng

import (
	"math"
	"math/rand"
)

// Source is the single pseudo-random stream shared by every stochastic operator.
// Implementations are not required to be safe for concurrent use.
type Source interface {
	Int() int
	Intn(n int) int
	Int63() int64
	Float64() float64
	Float32() float32
	Bool() bool
	NormFloat64() float64
}

// Stock is a uniform generator backed by math/rand
type Stock struct {
	r *rand.Rand
}

// NewStock creates a generator with an explicit seed
func NewStock(seed int64) *Stock {
	return &Stock{r: rand.New(rand.NewSource(seed))}
}

func (s *Stock) Int() int             { return s.r.Int() }
func (s *Stock) Intn(n int) int       { return s.r.Intn(n) }
func (s *Stock) Int63() int64         { return s.r.Int63() }
func (s *Stock) Float64() float64     { return s.r.Float64() }
func (s *Stock) Float32() float32     { return s.r.Float32() }
func (s *Stock) Bool() bool           { return s.r.Intn(2) == 1 }
func (s *Stock) NormFloat64() float64 { return s.r.NormFloat64() }

// Gaussian draws normally distributed values around Mean
type Gaussian struct {
	Source
	Mean      float64
	Deviation float64
}

// NewGaussian wraps src with a normal distribution of the given deviation
func NewGaussian(src Source, mean, deviation float64) *Gaussian {
	return &Gaussian{Source: src, Mean: mean, Deviation: deviation}
}

// Next returns Mean + N(0,1)*Deviation
func (g *Gaussian) Next() float64 {
	return g.Mean + g.NormFloat64()*g.Deviation
}

// Cauchy draws Cauchy distributed values
type Cauchy struct {
	Source
	Location float64
	Scale    float64
}

// NewCauchy wraps src with a Cauchy distribution
func NewCauchy(src Source, location, scale float64) *Cauchy {
	return &Cauchy{Source: src, Location: location, Scale: scale}
}

// Next returns Location + Scale*tan(pi*(u-0.5)) for u uniform in [0,1)
func (c *Cauchy) Next() float64 {
	return c.Location + c.Scale*math.Tan(math.Pi*(c.Float64()-0.5))
}
