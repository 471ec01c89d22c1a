package rng

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStockDeterministicUnderSeed(t *testing.T) {
	a := NewStock(42)
	b := NewStock(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
		assert.Equal(t, a.Float64(), b.Float64())
		assert.Equal(t, a.Bool(), b.Bool())
	}
}

func TestSequenceCyclesAndReduces(t *testing.T) {
	s := NewSequence([]int{3, 7, -1}, []float64{0.25})
	assert.Equal(t, 3, s.Intn(5))
	assert.Equal(t, 2, s.Intn(5))
	assert.Equal(t, 4, s.Intn(5))
	assert.Equal(t, 3, s.Intn(10))
	assert.Equal(t, 0.25, s.Float64())
	assert.Equal(t, 0.25, s.Float64())
	assert.False(t, s.Bool())
}

func TestGaussianAndCauchy(t *testing.T) {
	seq := &Sequence{Norms: []float64{1.5}, Floats: []float64{0.5}}
	g := NewGaussian(seq, 2, 0.1)
	assert.InDelta(t, 2.15, g.Next(), 1e-12)

	c := NewCauchy(seq, 1, 3)
	assert.InDelta(t, 1.0, c.Next(), 1e-12)

	stock := NewStock(7)
	cs := NewCauchy(stock, 0, 1)
	for i := 0; i < 50; i++ {
		assert.False(t, math.IsNaN(cs.Next()))
	}
}
