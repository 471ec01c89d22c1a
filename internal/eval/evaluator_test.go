package eval

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"gaengine/internal/config"
	"gaengine/internal/ga"
	"gaengine/internal/gene"
	"gaengine/internal/rng"
)

func newConf(t *testing.T, seed int64) *ga.Configuration {
	t.Helper()
	conf := ga.NewConfiguration(t.Name(), zaptest.NewLogger(t))
	require.NoError(t, conf.SetPopulationSize(10))
	require.NoError(t, conf.SetRandomGenerator(rng.NewStock(seed)))
	return conf
}

func setInts(t *testing.T, c *ga.Chromosome, values ...int) {
	t.Helper()
	genes := c.Genes()
	for i, v := range values {
		require.NoError(t, genes[i].SetAllele(v))
	}
	require.NoError(t, c.SetGenes(genes))
}

func cities(c *ga.Chromosome) []int {
	out := make([]int, c.Size())
	for i, g := range c.Genes() {
		out[i] = g.(*gene.IntegerGene).IntValue()
	}
	return out
}

func TestNewPicksProblemByName(t *testing.T) {
	for _, name := range []string{"onemax", "change", "tsp", "xor"} {
		cfg := config.Default()
		cfg.Problem.Name = name
		cfg.Problem.Size = 4
		p, err := New(cfg.Problem)
		require.NoError(t, err, name)
		assert.Equal(t, name, p.Name())
	}

	_, err := New(config.ProblemConfig{Name: "snake"})
	assert.ErrorIs(t, err, ErrUnknownProblem)
}

func TestOneMax(t *testing.T) {
	conf := newConf(t, 1)
	p, err := NewOneMax(20)
	require.NoError(t, err)

	sample, err := p.Sample(conf)
	require.NoError(t, err)
	require.Equal(t, 3, sample.Size())
	assert.Equal(t, 4, sample.Gene(2).(*gene.FixedBinaryGene).Length())
	assert.Zero(t, p.Evaluate(sample))

	first := sample.Gene(0).(*gene.FixedBinaryGene)
	require.NoError(t, first.SetBit(0, true))
	require.NoError(t, first.SetBit(5, true))
	assert.Equal(t, 2.0, p.Evaluate(sample))
	assert.Equal(t, "2 of 20 bits set", p.Describe(sample))

	_, err = NewOneMax(0)
	assert.Error(t, err)
}

func TestChangeFitness(t *testing.T) {
	conf := newConf(t, 1)
	p, err := NewChange(89, 4, true)
	require.NoError(t, err)
	sample, err := p.Sample(conf)
	require.NoError(t, err)
	assert.Equal(t, 3.0, sample.Gene(0).(gene.NumberGene).UpperBound())

	// 3 quarters, 1 dime, 4 pennies
	setInts(t, sample, 3, 1, 0, 4)
	assert.Equal(t, 8.0, p.Evaluate(sample))
	setInts(t, sample, 3, 1, 0, 3)
	assert.Equal(t, 107.0, p.Evaluate(sample))
	assert.Contains(t, p.Describe(sample), "88 cents in 7 coins")

	higher, err := NewChange(89, 4, false)
	require.NoError(t, err)
	setInts(t, sample, 3, 1, 0, 4)
	best := higher.Evaluate(sample)
	setInts(t, sample, 0, 0, 0, 89)
	assert.Greater(t, best, higher.Evaluate(sample))

	_, err = NewChange(10, 5, false)
	assert.Error(t, err)
}

func TestTSPInitializerBuildsToursFromCityZero(t *testing.T) {
	conf := newConf(t, 11)
	p, err := NewTSP(7, false)
	require.NoError(t, err)
	sample, err := p.Sample(conf)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, cities(sample))
	assert.InDelta(t, p.Optimum(), p.TourLength(sample), 1e-9)

	for range 20 {
		c, err := p.Perform(sample)
		require.NoError(t, err)
		tour := cities(c)
		assert.Equal(t, 0, tour[0])
		sorted := slices.Clone(tour)
		slices.Sort(sorted)
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, sorted)
		assert.Equal(t, ga.NoFitnessValue, c.FitnessValueDirectly())
		assert.GreaterOrEqual(t, p.TourLength(c), p.Optimum()-1e-9)
	}
}

func TestTSPDistanceAndFitness(t *testing.T) {
	conf := newConf(t, 1)
	p, err := NewTSP(4, false)
	require.NoError(t, err)
	sample, err := p.Sample(conf)
	require.NoError(t, err)

	assert.InDelta(t, 100*math.Sqrt2, p.Distance(sample.Gene(0), sample.Gene(1)), 1e-9)
	assert.InDelta(t, 200, p.Distance(sample.Gene(0), sample.Gene(2)), 1e-9)

	ordered := p.Evaluate(sample)
	setInts(t, sample, 0, 2, 1, 3)
	assert.Greater(t, ordered, p.Evaluate(sample))
	assert.NotNil(t, DistanceOf(p))
	assert.Contains(t, p.Describe(sample), "tour 0-2-1-3")

	onemax, err := NewOneMax(4)
	require.NoError(t, err)
	assert.Nil(t, DistanceOf(onemax))
}

func TestXOR(t *testing.T) {
	conf := newConf(t, 5)
	p, err := NewXOR(2, false)
	require.NoError(t, err)
	sample, err := p.Sample(conf)
	require.NoError(t, err)
	require.Equal(t, 9, sample.Size())

	// zero weights answer 0.5 everywhere
	assert.InDelta(t, 1.0, p.SquaredError(sample), 1e-9)
	assert.InDelta(t, 3.0, p.Evaluate(sample), 1e-9)

	c, err := p.Perform(sample)
	require.NoError(t, err)
	for _, g := range c.Genes() {
		v := g.(*gene.DoubleGene).Float64Value()
		assert.LessOrEqual(t, math.Abs(v), xorWeightBound)
	}
	assert.Contains(t, p.Describe(c), "error")
}

func TestInstallWiresFitnessInitializerAndCache(t *testing.T) {
	conf := newConf(t, 3)
	p, err := NewTSP(5, true)
	require.NoError(t, err)
	require.NoError(t, conf.SetFitnessEvaluator(ga.DeltaFitnessEvaluator{}))
	swap := ga.NewSwappingMutationOperator(conf)
	require.NoError(t, swap.SetStartOffset(1))
	require.NoError(t, conf.AddGeneticOperator(swap))

	cache, err := Install(conf, p, 32)
	require.NoError(t, err)
	require.NotNil(t, cache)
	assert.Same(t, p, conf.Initializer())

	g, err := ga.RandomInitialGenotype(conf)
	require.NoError(t, err)
	require.NoError(t, g.EvolveN(3))
	_, misses := cache.Stats()
	assert.Positive(t, misses)

	best, err := g.FittestChromosome()
	require.NoError(t, err)
	assert.Equal(t, 0, cities(best)[0])
}

func TestInstallWithoutCache(t *testing.T) {
	conf := newConf(t, 3)
	p, err := NewOneMax(8)
	require.NoError(t, err)
	cache, err := Install(conf, p, 0)
	require.NoError(t, err)
	assert.Nil(t, cache)
	assert.IsType(t, ga.RandomInitializer{}, conf.Initializer())
}
