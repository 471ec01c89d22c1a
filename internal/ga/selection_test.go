package ga

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gaengine/internal/rng"
)

func TestBestChromosomesSelectorPicksFittest(t *testing.T) {
	conf := newTestConfig(t, 5, 1, rng.NewStock(3))
	pop := populationOf(t, conf, []int{1}, []int{2}, []int{3}, []int{4}, []int{5})

	s, err := NewBestChromosomesSelector(conf, 1.0)
	require.NoError(t, err)
	s.SetDoubletteChromosomesAllowed(false)

	to := NewPopulation(conf)
	require.NoError(t, s.Select(3, pop, to))
	assert.Equal(t, []float64{5, 4, 3}, fitnesses(to))
	for _, c := range to.Chromosomes() {
		assert.True(t, c.IsSelectedForNextGeneration())
	}
	assert.True(t, s.ReturnsUniqueChromosomes())
}

func TestBestChromosomesSelectorIsExhaustive(t *testing.T) {
	conf := newTestConfig(t, 5, 1, rng.NewStock(3))
	pop := populationOf(t, conf, []int{1}, []int{2}, []int{3}, []int{4}, []int{5})
	s, err := NewBestChromosomesSelector(conf, 1.0)
	require.NoError(t, err)

	for k := 1; k <= pop.Size(); k++ {
		to := NewPopulation(conf)
		require.NoError(t, s.Select(k, pop, to))
		assert.Equal(t, k, to.Size(), "k=%d", k)
	}

	to := NewPopulation(conf)
	require.NoError(t, s.Select(7, pop, to))
	require.Equal(t, 7, to.Size())
	assert.Equal(t, 5.0, to.Chromosome(5).FitnessValueDirectly())
	assert.Equal(t, 1, to.Chromosome(5).Age())
	assert.NotSame(t, to.Chromosome(0), to.Chromosome(5))
}

func TestBestChromosomesSelectorRejectsDuplicates(t *testing.T) {
	conf := newTestConfig(t, 5, 1, rng.NewStock(3))
	s, err := NewBestChromosomesSelector(conf, 1.0)
	require.NoError(t, err)
	s.SetDoubletteChromosomesAllowed(false)

	s.Add(intChromosome(t, conf, 4))
	s.Add(intChromosome(t, conf, 4))
	s.Add(intChromosome(t, conf, 2))

	to := NewPopulation(conf)
	require.NoError(t, s.SelectChromosomes(3, to))
	assert.Equal(t, []float64{4, 2}, fitnesses(to))

	_, err = NewBestChromosomesSelector(conf, 1.5)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestBestChromosomesSelectorOriginalRate(t *testing.T) {
	conf := newTestConfig(t, 4, 1, rng.NewStock(3))
	pop := populationOf(t, conf, []int{1}, []int{2}, []int{3}, []int{4})
	s, err := NewBestChromosomesSelector(conf, 0.5)
	require.NoError(t, err)

	to := NewPopulation(conf)
	require.NoError(t, s.Select(4, pop, to))
	assert.Equal(t, []float64{4, 3, 4, 3}, fitnesses(to))
}

func TestWeightedRouletteSlotsFollowAddCount(t *testing.T) {
	conf := newTestConfig(t, 4, 1, rng.NewStock(3))
	thrice := intChromosome(t, conf, 10)
	once := intChromosome(t, conf, 10)

	s := NewWeightedRouletteSelector(conf)
	s.Add(thrice)
	s.Add(thrice)
	s.Add(thrice)
	s.Add(once)

	assert.Equal(t, 30.0, s.slots(thrice))
	assert.InDelta(t, 3*s.slots(once), s.slots(thrice), 1e-9)

	s.Empty()
	assert.Zero(t, s.slots(thrice))
}

func TestWeightedRouletteSpinConsumesSlots(t *testing.T) {
	src := &rng.Sequence{Floats: []float64{0.5}}
	conf := newTestConfig(t, 2, 1, src)
	pop := populationOf(t, conf, []int{1}, []int{3})

	s := NewWeightedRouletteSelector(conf)
	to := NewPopulation(conf)
	require.NoError(t, s.Select(2, pop, to))
	assert.Equal(t, []float64{3, 1}, fitnesses(to))
}

func TestWeightedRouletteSpinFollowsEvaluator(t *testing.T) {
	// scaled slots are 0.25, 0.5 and 1; the first spin lands exactly on the
	// end of the middle slot, the second falls inside the first slot
	tests := []struct {
		name      string
		evaluator FitnessEvaluator
		want      []float64
	}{
		{name: "higher is better", evaluator: DefaultFitnessEvaluator{}, want: []float64{2, 1}},
		{name: "lower is better falls back to last slot", evaluator: DeltaFitnessEvaluator{}, want: []float64{2, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &rng.Sequence{Floats: []float64{3.0 / 7, 0.08}}
			conf := newTestConfig(t, 3, 1, src)
			require.NoError(t, conf.SetFitnessEvaluator(tt.evaluator))
			pop := populationOf(t, conf, []int{1}, []int{2}, []int{4})

			s := NewWeightedRouletteSelector(conf)
			to := NewPopulation(conf)
			require.NoError(t, s.Select(2, pop, to))
			assert.Equal(t, tt.want, fitnesses(to))
		})
	}
}

func TestWeightedRouletteSelectsRequestedCount(t *testing.T) {
	conf := newTestConfig(t, 6, 1, rng.NewStock(17))
	pop := populationOf(t, conf, []int{1}, []int{2}, []int{3}, []int{4}, []int{0})

	s := NewWeightedRouletteSelector(conf)
	to := NewPopulation(conf)
	require.NoError(t, s.Select(6, pop, to))
	require.Equal(t, 6, to.Size())

	seen := map[*Chromosome]bool{}
	for _, c := range to.Chromosomes() {
		assert.False(t, seen[c], "chromosome instance selected twice")
		seen[c] = true
	}
}

func TestTournamentSelectorPicksBestContestant(t *testing.T) {
	src := &rng.Sequence{Ints: []int{0, 1, 2}, Floats: []float64{0}}
	conf := newTestConfig(t, 3, 1, src)
	pop := populationOf(t, conf, []int{1}, []int{3}, []int{2})

	s, err := NewTournamentSelector(conf, 3, 0.9)
	require.NoError(t, err)
	to := NewPopulation(conf)
	require.NoError(t, s.Select(2, pop, to))
	assert.Equal(t, []float64{3, 3}, fitnesses(to))
}

func TestTournamentWinnerDistribution(t *testing.T) {
	conf := newTestConfig(t, 3, 1, rng.NewStock(1))
	s, err := NewTournamentSelector(conf, 3, 0.5)
	require.NoError(t, err)

	assert.Equal(t, 0, s.winner(0.4))
	assert.Equal(t, 1, s.winner(0.6))
	assert.Equal(t, 2, s.winner(0.8))
	assert.Equal(t, 2, s.winner(0.99))

	_, err = NewTournamentSelector(conf, 0, 0.5)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewTournamentSelector(conf, 2, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestThresholdSelectorGrantsBest(t *testing.T) {
	src := &rng.Sequence{Ints: []int{0}}
	conf := newTestConfig(t, 4, 1, src)
	pop := populationOf(t, conf, []int{2}, []int{4}, []int{1}, []int{3})

	s, err := NewThresholdSelector(conf, 0.5)
	require.NoError(t, err)
	to := NewPopulation(conf)
	require.NoError(t, s.Select(4, pop, to))
	assert.Equal(t, []float64{4, 3, 4, 4}, fitnesses(to))
}

func TestStandardPostSelectorPassesFreshFirst(t *testing.T) {
	conf := newTestConfig(t, 4, 1, rng.NewStock(1))
	fresh := intChromosome(t, conf, 0)
	weak := intChromosome(t, conf, 2)
	strong := intChromosome(t, conf, 5)
	for _, c := range []*Chromosome{weak, strong} {
		_, err := c.FitnessValue()
		require.NoError(t, err)
	}

	s := NewStandardPostSelector(conf)
	s.Add(weak)
	s.Add(fresh)
	s.Add(strong)

	to := NewPopulation(conf)
	require.NoError(t, s.SelectChromosomes(4, to))
	require.Equal(t, 4, to.Size())
	assert.Same(t, fresh, to.Chromosome(0))
	assert.Same(t, strong, to.Chromosome(1))
	assert.Same(t, weak, to.Chromosome(2))
	assert.NotSame(t, fresh, to.Chromosome(3))
	assert.True(t, fresh.Equal(to.Chromosome(3)))
}
