package ga

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"gaengine/internal/gene"
	"gaengine/internal/rng"
)

// sumFitness scores a chromosome of numeric genes by the sum of its alleles
func sumFitness(c *Chromosome) float64 {
	total := 0.0
	for _, g := range c.genes {
		total += g.(gene.NumberGene).Float64Value()
	}
	return total
}

func newTestConfig(t *testing.T, popSize, genes int, src rng.Source) *Configuration {
	t.Helper()
	conf := NewConfiguration(t.Name(), zaptest.NewLogger(t))
	require.NoError(t, conf.SetPopulationSize(popSize))
	require.NoError(t, conf.SetRandomGenerator(src))
	require.NoError(t, conf.SetFitnessFunction(FitnessFunc(sumFitness)))
	require.NoError(t, conf.SetSampleChromosome(intChromosome(t, conf, make([]int, genes)...)))
	return conf
}

func intChromosome(t *testing.T, conf *Configuration, values ...int) *Chromosome {
	t.Helper()
	genes := make([]gene.Gene, len(values))
	for i, v := range values {
		g, err := gene.NewIntegerGene(0, 10)
		require.NoError(t, err)
		require.NoError(t, g.SetAllele(v))
		genes[i] = g
	}
	c, err := NewChromosome(conf, genes)
	require.NoError(t, err)
	return c
}

func intValues(c *Chromosome) []int {
	out := make([]int, c.Size())
	for i := range out {
		out[i] = c.Gene(i).(*gene.IntegerGene).IntValue()
	}
	return out
}

func sortedValues(c *Chromosome) []int {
	v := intValues(c)
	slices.Sort(v)
	return v
}

func fitnesses(pop *Population) []float64 {
	out := make([]float64, pop.Size())
	for i, c := range pop.chromosomes {
		out[i] = c.FitnessValueDirectly()
	}
	return out
}

func populationOf(t *testing.T, conf *Configuration, rows ...[]int) *Population {
	t.Helper()
	pop := NewPopulation(conf)
	for _, row := range rows {
		pop.AddChromosome(intChromosome(t, conf, row...))
	}
	return pop
}

func representations(pop *Population) []string {
	out := make([]string, pop.Size())
	for i, c := range pop.chromosomes {
		out[i] = c.PersistentRepresentation()
	}
	return out
}
