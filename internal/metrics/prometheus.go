package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gonum.org/v1/gonum/stat"

	"gaengine/internal/ga"
)

// GenerationMetrics exports per generation statistics of a run
type GenerationMetrics struct {
	reg  prometheus.Registerer
	opts func(name, help string) prometheus.GaugeOpts

	GenerationsTotal   prometheus.Counter
	Generation         prometheus.Gauge
	PopulationSize     prometheus.Gauge
	BestFitness        prometheus.Gauge
	MeanFitness        prometheus.Gauge
	StdFitness         prometheus.Gauge
	GenerationDuration prometheus.Histogram

	now  func() time.Time
	last time.Time
}

// NewGenerationMetrics registers the run's metrics with reg, labelled by run name
func NewGenerationMetrics(reg prometheus.Registerer, namespace, run string) *GenerationMetrics {
	factory := promauto.With(reg)
	labels := prometheus.Labels{"run": run}
	gauge := func(name, help string) prometheus.GaugeOpts {
		return prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help, ConstLabels: labels}
	}

	m := &GenerationMetrics{
		reg:  reg,
		opts: gauge,

		GenerationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "generations_total",
			Help:        "Total number of evolved generations",
			ConstLabels: labels,
		}),
		Generation:     factory.NewGauge(gauge("generation", "Number of the last evolved generation")),
		PopulationSize: factory.NewGauge(gauge("population_size", "Chromosomes in the current population")),
		BestFitness:    factory.NewGauge(gauge("best_fitness", "Fitness of the fittest chromosome")),
		MeanFitness:    factory.NewGauge(gauge("mean_fitness", "Mean fitness of evaluated chromosomes")),
		StdFitness:     factory.NewGauge(gauge("fitness_stddev", "Standard deviation of fitness values")),
		GenerationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "generation_duration_seconds",
			Help:        "Wall time between evolved generations",
			Buckets:     prometheus.ExponentialBuckets(0.0005, 4, 10),
			ConstLabels: labels,
		}),

		now: time.Now,
	}
	m.last = m.now()
	return m
}

// WatchCache exports the hit and miss counts of a fitness cache
func (m *GenerationMetrics) WatchCache(cache *ga.CachedFitnessFunction) {
	factory := promauto.With(m.reg)
	hits := m.opts("fitness_cache_hits_total", "Fitness evaluations answered by the cache")
	misses := m.opts("fitness_cache_misses_total", "Fitness evaluations computed")
	factory.NewCounterFunc(prometheus.CounterOpts(hits), func() float64 {
		h, _ := cache.Stats()
		return float64(h)
	})
	factory.NewCounterFunc(prometheus.CounterOpts(misses), func() float64 {
		_, miss := cache.Stats()
		return float64(miss)
	})
}

// GeneticEventFired updates the gauges from an evolved generation
func (m *GenerationMetrics) GeneticEventFired(ev ga.GeneticEvent) {
	if ev.Type != ga.GenerationEvolvedEvent || ev.Population == nil {
		return
	}
	now := m.now()
	m.GenerationDuration.Observe(now.Sub(m.last).Seconds())
	m.last = now

	m.GenerationsTotal.Inc()
	m.Generation.Set(float64(ev.Generation))
	m.PopulationSize.Set(float64(ev.Population.Size()))
	if ev.Fittest != nil {
		m.BestFitness.Set(ev.Fittest.FitnessValueDirectly())
	}

	var fitness []float64
	for _, c := range ev.Population.Chromosomes() {
		if f := c.FitnessValueDirectly(); f != ga.NoFitnessValue {
			fitness = append(fitness, f)
		}
	}
	if len(fitness) == 0 {
		return
	}
	m.MeanFitness.Set(stat.Mean(fitness, nil))
	if len(fitness) > 1 {
		m.StdFitness.Set(stat.StdDev(fitness, nil))
	}
}
