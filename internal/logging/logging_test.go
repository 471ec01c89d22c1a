package logging

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"gaengine/internal/ga"
	"gaengine/internal/gene"
	"gaengine/internal/rng"
)

func sum(c *ga.Chromosome) float64 {
	total := 0.0
	for _, g := range c.Genes() {
		total += g.(gene.NumberGene).Float64Value()
	}
	return total
}

func testPopulation(t *testing.T, rows ...[]int) (*ga.Configuration, *ga.Population) {
	t.Helper()
	conf := ga.NewConfiguration(t.Name(), zaptest.NewLogger(t))
	require.NoError(t, conf.SetRandomGenerator(rng.NewStock(1)))
	require.NoError(t, conf.SetFitnessFunction(ga.FitnessFunc(sum)))

	pop := ga.NewPopulation(conf)
	for _, row := range rows {
		genes := make([]gene.Gene, len(row))
		for i, v := range row {
			g, err := gene.NewIntegerGene(0, 10)
			require.NoError(t, err)
			require.NoError(t, g.SetAllele(v))
			genes[i] = g
		}
		c, err := ga.NewChromosome(conf, genes)
		require.NoError(t, err)
		pop.AddChromosome(c)
	}
	return conf, pop
}

func TestNewZap(t *testing.T) {
	logger, err := NewZap(Config{Level: "debug", Format: "console", Output: filepath.Join(t.TempDir(), "run.log")})
	require.NoError(t, err)
	logger.Debug("hello")
	assert.NoError(t, logger.Sync())

	_, err = NewZap(Config{Format: "xml"})
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	_, pop := testPopulation(t, []int{1, 1}, []int{4, 4}, []int{2, 2}, []int{3, 3})
	best, err := pop.DetermineFittestChromosome()
	require.NoError(t, err)
	pop.Chromosome(0).IncreaseAge()

	s := Summarize(5, pop, best)
	assert.Equal(t, 5, s.Generation)
	assert.Equal(t, 4, s.Size)
	assert.Equal(t, 4, s.Evaluated)
	assert.Equal(t, 8.0, s.BestFitness)
	assert.Equal(t, 2.0, s.WorstFitness)
	assert.InDelta(t, 5.0, s.MeanFitness, 1e-9)
	assert.Greater(t, s.StdFitness, 0.0)
	assert.InDelta(t, 0.25, s.MeanAge, 1e-9)
	assert.Equal(t, best.PersistentRepresentation(), s.Fittest)
}

func TestSummarizeFollowsEvaluator(t *testing.T) {
	conf, pop := testPopulation(t, []int{1}, []int{4}, []int{2})
	require.NoError(t, conf.SetFitnessEvaluator(ga.DeltaFitnessEvaluator{}))
	for _, c := range pop.Chromosomes() {
		_, err := c.FitnessValue()
		require.NoError(t, err)
	}

	s := Summarize(1, pop, nil)
	assert.Equal(t, 1.0, s.BestFitness)
	assert.Equal(t, 4.0, s.WorstFitness)
	assert.Equal(t, 2.0, s.MedianFitness)
	assert.Empty(t, s.Fittest)
}

func TestLoggerWritesCSVAndJSONL(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "runs", "run.csv")
	jsonPath := filepath.Join(dir, "runs", "run.jsonl")

	l, err := NewLogger(csvPath, jsonPath)
	require.NoError(t, err)
	require.NoError(t, l.Init())
	var console bytes.Buffer
	l.SetConsole(&console)

	_, pop := testPopulation(t, []int{1}, []int{3})
	best, err := pop.DetermineFittestChromosome()
	require.NoError(t, err)
	for gen := 1; gen <= 2; gen++ {
		l.GeneticEventFired(ga.GeneticEvent{Type: ga.GenerationEvolvedEvent, Generation: gen, Population: pop, Fittest: best})
	}
	l.GeneticEventFired(ga.GeneticEvent{Type: "other", Population: pop})
	require.NoError(t, l.Close())
	require.NoError(t, l.Err())

	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "generation", rows[0][0])
	assert.Equal(t, []string{"2", "2", "3.0000"}, rows[2][:3])

	jf, err := os.Open(jsonPath)
	require.NoError(t, err)
	defer jf.Close()
	var lines []GenerationSummary
	scanner := bufio.NewScanner(jf)
	for scanner.Scan() {
		var s GenerationSummary
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &s))
		lines = append(lines, s)
	}
	require.Len(t, lines, 2)
	assert.Equal(t, 3.0, lines[1].BestFitness)

	assert.Contains(t, console.String(), "Gen    2")
}

func TestSaveAndLoadFittest(t *testing.T) {
	conf, pop := testPopulation(t, []int{7, 2, 9})
	best, err := pop.DetermineFittestChromosome()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "artifacts", "fittest.json")
	require.NoError(t, SaveFittest(path, "sum", best, 12))

	saved, err := LoadFittest(path)
	require.NoError(t, err)
	assert.Equal(t, "sum", saved.Problem)
	assert.Equal(t, 12, saved.Generation)
	assert.Equal(t, 18.0, saved.Fitness)

	sample := pop.Chromosome(0).RandomChromosome(conf.RandomGenerator())
	restored, err := saved.Restore(sample)
	require.NoError(t, err)
	assert.True(t, restored.Equal(best))
	assert.Equal(t, ga.NoFitnessValue, restored.FitnessValueDirectly())

	require.NoError(t, os.WriteFile(path, []byte(`{"generation": 1}`), 0644))
	_, err = LoadFittest(path)
	assert.Error(t, err)
}
