package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned for configurations that cannot describe a run
var ErrInvalid = errors.New("invalid config")

// Config is the root configuration structure
type Config struct {
	Name      string           `yaml:"name" toml:"name"`
	Seed      int64            `yaml:"seed" toml:"seed"`
	Problem   ProblemConfig    `yaml:"problem" toml:"problem"`
	GA        GAConfig         `yaml:"ga" toml:"ga"`
	Selectors []SelectorConfig `yaml:"selectors" toml:"selectors"`
	Operators []OperatorConfig `yaml:"operators" toml:"operators"`
	Logging   LogConfig        `yaml:"logging" toml:"logging"`
	Metrics   MetricsConfig    `yaml:"metrics" toml:"metrics"`
	Archive   ArchiveConfig    `yaml:"archive" toml:"archive"`
}

// ProblemConfig picks the problem to solve
type ProblemConfig struct {
	Name   string `yaml:"name" toml:"name"`     // onemax|change|tsp|xor
	Size   int    `yaml:"size" toml:"size"`     // bits, coin kinds or cities
	Target int    `yaml:"target" toml:"target"` // change: amount in cents
	Hidden int    `yaml:"hidden" toml:"hidden"` // xor: hidden units
	Delta  bool   `yaml:"delta" toml:"delta"`   // lower fitness is better
}

// GAConfig defines the evolution parameters
type GAConfig struct {
	Population          int   `yaml:"population" toml:"population"`
	Generations         int   `yaml:"generations" toml:"generations"`
	MinPopSizePercent   int   `yaml:"min_pop_size_percent" toml:"min_pop_size_percent"`
	PreserveFittest     *bool `yaml:"preserve_fittest" toml:"preserve_fittest"`
	KeepPopSizeConstant *bool `yaml:"keep_pop_size_constant" toml:"keep_pop_size_constant"`
	CacheSize           int   `yaml:"cache_size" toml:"cache_size"` // 0 disables the fitness cache
	UUIDKeys            bool  `yaml:"uuid_keys" toml:"uuid_keys"`
}

// SelectorConfig describes one natural selector
type SelectorConfig struct {
	Type           string  `yaml:"type" toml:"type"` // best|roulette|tournament|threshold|standard_post
	Pre            bool    `yaml:"pre" toml:"pre"`
	Rate           float64 `yaml:"rate" toml:"rate"` // best: original rate, threshold: best percentage
	Doublettes     *bool   `yaml:"doublettes" toml:"doublettes"`
	TournamentSize int     `yaml:"tournament_size" toml:"tournament_size"`
	Probability    float64 `yaml:"probability" toml:"probability"`
}

// OperatorConfig describes one genetic operator
type OperatorConfig struct {
	Type               string  `yaml:"type" toml:"type"`
	Rate               int     `yaml:"rate" toml:"rate"`       // 1/rate per gene or per chromosome
	Percent            float64 `yaml:"percent" toml:"percent"` // crossover share of the population
	Deviation          float64 `yaml:"deviation" toml:"deviation"`
	Width              int     `yaml:"width" toml:"width"` // ranged swapping
	StartOffset        int     `yaml:"start_offset" toml:"start_offset"`
	AllowFullCrossover *bool   `yaml:"allow_full_crossover" toml:"allow_full_crossover"`
	XoverNewAge        *bool   `yaml:"xover_new_age" toml:"xover_new_age"`
}

// LogConfig defines logging parameters
type LogConfig struct {
	Level           string `yaml:"level" toml:"level"`
	Format          string `yaml:"format" toml:"format"` // json|console
	EveryGenSummary bool   `yaml:"every_gen_summary" toml:"every_gen_summary"`
	CSVPath         string `yaml:"csv_path" toml:"csv_path"`
	JSONPath        string `yaml:"json_path" toml:"json_path"`
	FittestPath     string `yaml:"fittest_path" toml:"fittest_path"`
}

// MetricsConfig enables the prometheus endpoint when Addr is set
type MetricsConfig struct {
	Addr      string `yaml:"addr" toml:"addr"`
	Namespace string `yaml:"namespace" toml:"namespace"`
}

// ArchiveConfig selects where generation records are kept
type ArchiveConfig struct {
	Driver string `yaml:"driver" toml:"driver"` // memory|sqlite|none
	Path   string `yaml:"path" toml:"path"`
}

// Load reads a YAML or TOML config file, chosen by extension, and returns a Config
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	// Apply defaults
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Name == "" {
		cfg.Name = "gaengine"
	}
	if cfg.Seed == 0 {
		cfg.Seed = 1337
	}
	if cfg.Problem.Name == "" {
		cfg.Problem.Name = "onemax"
	}
	if cfg.Problem.Size == 0 {
		switch cfg.Problem.Name {
		case "change":
			cfg.Problem.Size = 4
		case "tsp":
			cfg.Problem.Size = 8
		default:
			cfg.Problem.Size = 32
		}
	}
	if cfg.Problem.Target == 0 {
		cfg.Problem.Target = 89
	}
	if cfg.Problem.Hidden == 0 {
		cfg.Problem.Hidden = 2
	}
	if cfg.GA.Population == 0 {
		cfg.GA.Population = 50
	}
	if cfg.GA.Generations == 0 {
		cfg.GA.Generations = 100
	}
	if cfg.GA.PreserveFittest == nil {
		cfg.GA.PreserveFittest = boolPtr(true)
	}
	if cfg.GA.KeepPopSizeConstant == nil {
		cfg.GA.KeepPopSizeConstant = boolPtr(true)
	}
	if len(cfg.Selectors) == 0 {
		cfg.Selectors = []SelectorConfig{{Type: "best", Rate: 0.90}}
	}
	for i := range cfg.Selectors {
		s := &cfg.Selectors[i]
		if s.Type == "tournament" && s.TournamentSize == 0 {
			s.TournamentSize = 3
		}
		if s.Type == "tournament" && s.Probability == 0 {
			s.Probability = 0.9
		}
	}
	if len(cfg.Operators) == 0 {
		switch cfg.Problem.Name {
		case "tsp":
			// tours must stay permutations with the first city fixed
			cfg.Operators = []OperatorConfig{
				{Type: "greedy_crossover", StartOffset: 1},
				{Type: "swapping_mutation", StartOffset: 1},
			}
		case "xor":
			cfg.Operators = []OperatorConfig{
				{Type: "crossover", Percent: 0.35},
				{Type: "gaussian_mutation", Deviation: 0.3},
			}
		default:
			cfg.Operators = []OperatorConfig{
				{Type: "crossover", Percent: 0.35},
				{Type: "mutation", Rate: 12},
			}
		}
	}
	for i := range cfg.Operators {
		op := &cfg.Operators[i]
		if op.Type == "gaussian_mutation" && op.Deviation == 0 {
			op.Deviation = 0.05
		}
		if op.Type == "ranged_swapping_mutation" && op.Width == 0 {
			op.Width = 1
		}
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Logging.CSVPath == "" {
		cfg.Logging.CSVPath = "runs/run.csv"
	}
	if cfg.Logging.JSONPath == "" {
		cfg.Logging.JSONPath = "runs/run.jsonl"
	}
	if cfg.Logging.FittestPath == "" {
		cfg.Logging.FittestPath = "artifacts/fittest.json"
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "gaengine"
	}
	if cfg.Archive.Driver == "" {
		cfg.Archive.Driver = "memory"
	}
	if cfg.Archive.Driver == "sqlite" && cfg.Archive.Path == "" {
		cfg.Archive.Path = "runs/archive.db"
	}
}

func boolPtr(v bool) *bool { return &v }

var (
	selectorTypes = []string{"best", "roulette", "tournament", "threshold", "standard_post"}
	operatorTypes = []string{
		"crossover", "averaging_crossover", "greedy_crossover",
		"mutation", "two_way_mutation", "gaussian_mutation",
		"swapping_mutation", "ranged_swapping_mutation", "inversion",
	}
	problemNames = []string{"onemax", "change", "tsp", "xor"}
)

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// Validate reports every problem found in the configuration
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if !oneOf(c.Problem.Name, problemNames) {
		bad("unknown problem %q", c.Problem.Name)
	}
	if c.Problem.Size < 1 {
		bad("problem size must be positive, got %d", c.Problem.Size)
	}
	if c.Problem.Name == "tsp" && c.Problem.Size < 3 {
		bad("tsp needs at least 3 cities, got %d", c.Problem.Size)
	}
	if c.GA.Population < 1 {
		bad("population must be positive, got %d", c.GA.Population)
	}
	if c.GA.Generations < 1 {
		bad("generations must be positive, got %d", c.GA.Generations)
	}
	if c.GA.MinPopSizePercent < 0 || c.GA.MinPopSizePercent > 100 {
		bad("min_pop_size_percent must be within [0,100], got %d", c.GA.MinPopSizePercent)
	}
	if c.GA.CacheSize < 0 {
		bad("cache_size must not be negative, got %d", c.GA.CacheSize)
	}
	for i, s := range c.Selectors {
		if !oneOf(s.Type, selectorTypes) {
			bad("selectors[%d]: unknown type %q", i, s.Type)
		}
		if s.Rate < 0 || s.Rate > 1 {
			bad("selectors[%d]: rate must be within [0,1], got %g", i, s.Rate)
		}
	}
	if len(c.Operators) == 0 {
		bad("at least one operator is required")
	}
	for i, op := range c.Operators {
		if !oneOf(op.Type, operatorTypes) {
			bad("operators[%d]: unknown type %q", i, op.Type)
		}
		if op.Rate < 0 {
			bad("operators[%d]: rate must not be negative, got %d", i, op.Rate)
		}
		if op.Percent < 0 || op.Percent > 1 {
			bad("operators[%d]: percent must be within [0,1], got %g", i, op.Percent)
		}
		if op.StartOffset < 0 {
			bad("operators[%d]: start_offset must not be negative, got %d", i, op.StartOffset)
		}
	}
	if !oneOf(c.Logging.Format, []string{"json", "console"}) {
		bad("unknown log format %q", c.Logging.Format)
	}
	if !oneOf(c.Archive.Driver, []string{"memory", "sqlite", "none"}) {
		bad("unknown archive driver %q", c.Archive.Driver)
	}
	return errors.Join(errs...)
}
