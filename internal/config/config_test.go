package config

import (
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

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadYAMLAppliesDefaults(t *testing.T) {
	path := writeFile(t, "run.yaml", `
seed: 7
problem:
  name: tsp
ga:
  population: 40
operators:
  - type: greedy_crossover
    start_offset: 1
  - type: swapping_mutation
    rate: 5
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, "tsp", cfg.Problem.Name)
	assert.Equal(t, 8, cfg.Problem.Size)
	assert.Equal(t, 40, cfg.GA.Population)
	assert.Equal(t, 100, cfg.GA.Generations)
	assert.True(t, *cfg.GA.PreserveFittest)
	require.Len(t, cfg.Selectors, 1)
	assert.Equal(t, "best", cfg.Selectors[0].Type)
	require.Len(t, cfg.Operators, 2)
	assert.Equal(t, 1, cfg.Operators[0].StartOffset)
	assert.Equal(t, "memory", cfg.Archive.Driver)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "run.toml", `
name = "change"
seed = 3

[problem]
name = "change"
target = 67
delta = true

[ga]
population = 25
preserve_fittest = false

[[selectors]]
type = "tournament"

[[operators]]
type = "mutation"
rate = 8

[archive]
driver = "sqlite"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "change", cfg.Name)
	assert.Equal(t, 67, cfg.Problem.Target)
	assert.True(t, cfg.Problem.Delta)
	assert.Equal(t, 4, cfg.Problem.Size)
	assert.False(t, *cfg.GA.PreserveFittest)
	require.Len(t, cfg.Selectors, 1)
	assert.Equal(t, 3, cfg.Selectors[0].TournamentSize)
	assert.Equal(t, 0.9, cfg.Selectors[0].Probability)
	assert.Equal(t, "runs/archive.db", cfg.Archive.Path)
}

func TestDefaultOperatorsFollowProblem(t *testing.T) {
	cfg := &Config{Problem: ProblemConfig{Name: "tsp"}}
	applyDefaults(cfg)
	require.Len(t, cfg.Operators, 2)
	assert.Equal(t, "greedy_crossover", cfg.Operators[0].Type)
	assert.Equal(t, 1, cfg.Operators[1].StartOffset)

	cfg = Default()
	assert.Equal(t, "onemax", cfg.Problem.Name)
	assert.Equal(t, "mutation", cfg.Operators[1].Type)
	assert.Equal(t, 12, cfg.Operators[1].Rate)
	assert.NoError(t, cfg.Validate())
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Problem.Name = "snake"
	cfg.GA.MinPopSizePercent = 120
	cfg.Selectors = append(cfg.Selectors, SelectorConfig{Type: "lottery"})
	cfg.Operators = append(cfg.Operators, OperatorConfig{Type: "mutation", Rate: -1})

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
	for _, want := range []string{"snake", "min_pop_size_percent", "lottery", "rate must not be negative"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	_, err := Load(writeFile(t, "bad.yaml", "ga:\n  population: -3\n"))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Load(writeFile(t, "broken.toml", "ga = [\n"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBuildWiresSelectorsAndOperators(t *testing.T) {
	cfg := Default()
	cfg.Problem.Delta = true
	cfg.Selectors = []SelectorConfig{
		{Type: "tournament", Pre: true, TournamentSize: 2, Probability: 0.8},
		{Type: "best", Rate: 0.5, Doublettes: boolPtr(false)},
	}
	cfg.Operators = []OperatorConfig{
		{Type: "crossover", Percent: 0.5},
		{Type: "greedy_crossover"},
		{Type: "ranged_swapping_mutation", Width: 2},
		{Type: "gaussian_mutation", Deviation: 0.1},
		{Type: "inversion"},
	}
	distance := func(a, b gene.Gene) float64 { return 1 }

	conf, err := Build(cfg, zaptest.NewLogger(t), distance)
	require.NoError(t, err)

	assert.Equal(t, cfg.GA.Population, conf.PopulationSize())
	assert.IsType(t, ga.DeltaFitnessEvaluator{}, conf.FitnessEvaluator())
	require.Len(t, conf.NaturalSelectors(true), 1)
	assert.Equal(t, "tournament", conf.NaturalSelectors(true)[0].Name())
	require.Len(t, conf.NaturalSelectors(false), 1)
	assert.True(t, conf.NaturalSelectors(false)[0].ReturnsUniqueChromosomes())

	var names []string
	for _, op := range conf.GeneticOperators() {
		names = append(names, op.Name())
	}
	assert.Equal(t, []string{"crossover", "greedy_crossover", "ranged_swapping_mutation", "gaussian_mutation", "inversion"}, names)
	assert.False(t, conf.IsLocked())
}

func TestShippedConfigsLoad(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "configs", "*"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)
	for _, path := range paths {
		cfg, err := Load(path)
		require.NoError(t, err, path)
		assert.Equal(t, cfg.Name, cfg.Problem.Name, path)
	}
}

func TestBuildNeedsDistanceForGreedyCrossover(t *testing.T) {
	cfg := Default()
	cfg.Operators = []OperatorConfig{{Type: "greedy_crossover"}}
	_, err := Build(cfg, zaptest.NewLogger(t), nil)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestBuildPropagatesOperatorErrors(t *testing.T) {
	cfg := Default()
	cfg.Operators = []OperatorConfig{{Type: "gaussian_mutation", Deviation: -1}}
	_, err := Build(cfg, zaptest.NewLogger(t), nil)
	assert.ErrorIs(t, err, ga.ErrInvalidArgument)
}

func TestBuildKeepsFullCrossoverUnlessDisabled(t *testing.T) {
	swapped := func(t *testing.T, allow *bool) []int {
		cfg := Default()
		cfg.Operators = []OperatorConfig{{Type: "crossover", Rate: 2, AllowFullCrossover: allow}}
		conf, err := Build(cfg, zaptest.NewLogger(t), nil)
		require.NoError(t, err)
		require.NoError(t, conf.SetRandomGenerator(&rng.Sequence{Ints: []int{0, 1, 0}}))

		pop := ga.NewPopulation(conf)
		for _, v := range []int{0, 10} {
			g, err := gene.NewIntegerGene(0, 10)
			require.NoError(t, err)
			require.NoError(t, g.SetAllele(v))
			c, err := ga.NewChromosome(conf, []gene.Gene{g})
			require.NoError(t, err)
			pop.AddChromosome(c)
		}
		offspring, err := conf.GeneticOperators()[0].Operate(pop, nil)
		require.NoError(t, err)
		var values []int
		for _, c := range offspring {
			values = append(values, c.Gene(0).(*gene.IntegerGene).IntValue())
		}
		return values
	}

	assert.Equal(t, []int{10, 0}, swapped(t, nil))
	assert.Equal(t, []int{10, 0}, swapped(t, boolPtr(true)))
	assert.Empty(t, swapped(t, boolPtr(false)))
}

func TestLoadLeavesFullCrossoverUnset(t *testing.T) {
	cfg, err := Load(writeFile(t, "run.yaml", "operators:\n  - type: crossover\n  - type: crossover\n    allow_full_crossover: false\n"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Operators[0].AllowFullCrossover)
	require.NotNil(t, cfg.Operators[1].AllowFullCrossover)
	assert.False(t, *cfg.Operators[1].AllowFullCrossover)
	for _, op := range Default().Operators {
		assert.Nil(t, op.AllowFullCrossover, op.Type)
	}
}
