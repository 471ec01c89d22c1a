package logging

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"gaengine/internal/ga"
)

// Logger writes one CSV row and one JSON line per evolved generation
type Logger struct {
	csvPath     string
	jsonPath    string
	csvFile     *os.File
	csvWriter   *csv.Writer
	jsonFile    *os.File
	console     io.Writer
	initialized bool
	err         error
}

// NewLogger creates a new logger
func NewLogger(csvPath, jsonPath string) (*Logger, error) {
	l := &Logger{
		csvPath:  csvPath,
		jsonPath: jsonPath,
		console:  os.Stdout,
	}

	// Ensure directories exist
	if err := os.MkdirAll(filepath.Dir(csvPath), 0755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(jsonPath), 0755); err != nil {
		return nil, err
	}

	return l, nil
}

// SetConsole redirects the per generation console line; nil silences it
func (l *Logger) SetConsole(w io.Writer) { l.console = w }

// Init initializes the log files
func (l *Logger) Init() error {
	var err error

	l.csvFile, err = os.Create(l.csvPath)
	if err != nil {
		return err
	}
	l.csvWriter = csv.NewWriter(l.csvFile)

	header := []string{
		"generation", "size", "best_fitness", "mean_fitness", "std_fitness",
		"median_fitness", "worst_fitness", "mean_age", "evaluated",
	}
	if err := l.csvWriter.Write(header); err != nil {
		return err
	}

	l.jsonFile, err = os.OpenFile(l.jsonPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	l.initialized = true
	return nil
}

// Close flushes and closes all log files
func (l *Logger) Close() error {
	var firstErr error
	keep := func(err error) {
		if firstErr == nil && err != nil {
			firstErr = err
		}
	}
	if l.csvWriter != nil {
		l.csvWriter.Flush()
		keep(l.csvWriter.Error())
	}
	if l.csvFile != nil {
		keep(l.csvFile.Close())
	}
	if l.jsonFile != nil {
		keep(l.jsonFile.Close())
	}
	return firstErr
}

// Err returns the first write error hit while logging generations
func (l *Logger) Err() error { return l.err }

// GenerationSummary holds per-generation statistics
type GenerationSummary struct {
	Generation    int     `json:"generation"`
	Size          int     `json:"size"`
	BestFitness   float64 `json:"best_fitness"`
	MeanFitness   float64 `json:"mean_fitness"`
	StdFitness    float64 `json:"std_fitness"`
	MedianFitness float64 `json:"median_fitness"`
	WorstFitness  float64 `json:"worst_fitness"`
	MeanAge       float64 `json:"mean_age"`
	Evaluated     int     `json:"evaluated"`
	Fittest       string  `json:"fittest,omitempty"`
}

// Summarize computes the statistics of an evaluated population.
// Chromosomes without a fitness value are counted in Size only.
func Summarize(gen int, pop *ga.Population, fittest *ga.Chromosome) GenerationSummary {
	var ev ga.FitnessEvaluator = ga.DefaultFitnessEvaluator{}
	if conf := pop.Configuration(); conf != nil && conf.FitnessEvaluator() != nil {
		ev = conf.FitnessEvaluator()
	}

	var fitness, ages []float64
	for _, c := range pop.Chromosomes() {
		ages = append(ages, float64(c.Age()))
		if f := c.FitnessValueDirectly(); f != ga.NoFitnessValue {
			fitness = append(fitness, f)
		}
	}

	s := GenerationSummary{Generation: gen, Size: pop.Size(), Evaluated: len(fitness)}
	if len(ages) > 0 {
		s.MeanAge = stat.Mean(ages, nil)
	}
	if len(fitness) > 0 {
		s.MeanFitness = stat.Mean(fitness, nil)
		if len(fitness) > 1 {
			s.StdFitness = stat.StdDev(fitness, nil)
		}
		s.BestFitness, s.WorstFitness = fitness[0], fitness[0]
		for _, f := range fitness[1:] {
			if ev.IsFitter(f, s.BestFitness) {
				s.BestFitness = f
			}
			if ev.IsFitter(s.WorstFitness, f) {
				s.WorstFitness = f
			}
		}
		slices.Sort(fitness)
		s.MedianFitness = stat.Quantile(0.5, stat.Empirical, fitness, nil)
	}
	if fittest != nil {
		s.BestFitness = fittest.FitnessValueDirectly()
		s.Fittest = fittest.PersistentRepresentation()
	}
	return s
}

// GeneticEventFired logs every evolved generation
func (l *Logger) GeneticEventFired(ev ga.GeneticEvent) {
	if ev.Type != ga.GenerationEvolvedEvent || ev.Population == nil {
		return
	}
	l.LogGeneration(Summarize(ev.Generation, ev.Population, ev.Fittest))
}

// LogGeneration logs a generation summary
func (l *Logger) LogGeneration(s GenerationSummary) {
	if !l.initialized {
		return
	}

	row := []string{
		strconv.Itoa(s.Generation),
		strconv.Itoa(s.Size),
		fmt.Sprintf("%.4f", s.BestFitness),
		fmt.Sprintf("%.4f", s.MeanFitness),
		fmt.Sprintf("%.4f", s.StdFitness),
		fmt.Sprintf("%.4f", s.MedianFitness),
		fmt.Sprintf("%.4f", s.WorstFitness),
		fmt.Sprintf("%.2f", s.MeanAge),
		strconv.Itoa(s.Evaluated),
	}
	if err := l.csvWriter.Write(row); err != nil {
		l.fail(err)
	}
	l.csvWriter.Flush()
	l.fail(l.csvWriter.Error())

	jsonLine, err := json.Marshal(s)
	if err != nil {
		l.fail(err)
		return
	}
	if _, err := l.jsonFile.Write(append(jsonLine, '\n')); err != nil {
		l.fail(err)
	}

	if l.console != nil {
		fmt.Fprintf(l.console, "Gen %4d | Best: %10.4f | Mean: %10.4f | Std: %8.4f | Size: %d\n",
			s.Generation, s.BestFitness, s.MeanFitness, s.StdFitness, s.Size)
	}
}

func (l *Logger) fail(err error) {
	if l.err == nil && err != nil {
		l.err = err
	}
}
