package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"gaengine/internal/archive"
	"gaengine/internal/config"
	"gaengine/internal/eval"
	"gaengine/internal/ga"
	"gaengine/internal/logging"
	"gaengine/internal/metrics"
)

type options struct {
	configPath  string
	generations int
	metricsAddr string
	quiet       bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "path to a YAML or TOML config file (defaults when empty)")
	flag.IntVar(&opts.generations, "generations", 0, "number of generations to run (overrides config)")
	flag.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address (overrides config)")
	flag.BoolVar(&opts.quiet, "quiet", false, "do not print per generation summaries")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(opts options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return nil, err
		}
	}
	if opts.generations > 0 {
		cfg.GA.Generations = opts.generations
	}
	if opts.metricsAddr != "" {
		cfg.Metrics.Addr = opts.metricsAddr
	}
	return cfg, cfg.Validate()
}

func run(ctx context.Context, opts options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, err := logging.NewZap(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	problem, err := eval.New(cfg.Problem)
	if err != nil {
		return err
	}
	conf, err := config.Build(cfg, logger, eval.DistanceOf(problem))
	if err != nil {
		return err
	}
	cache, err := eval.Install(conf, problem, cfg.GA.CacheSize)
	if err != nil {
		return err
	}

	logger.Info("starting run",
		zap.String("problem", problem.Name()),
		zap.Int("population", cfg.GA.Population),
		zap.Int("generations", cfg.GA.Generations),
		zap.Int64("seed", cfg.Seed))

	// Generation log
	genLog, err := logging.NewLogger(cfg.Logging.CSVPath, cfg.Logging.JSONPath)
	if err != nil {
		return fmt.Errorf("create generation log: %w", err)
	}
	if err := genLog.Init(); err != nil {
		return fmt.Errorf("init generation log: %w", err)
	}
	defer genLog.Close()
	if opts.quiet || !cfg.Logging.EveryGenSummary {
		genLog.SetConsole(nil)
	}
	conf.EventManager().AddListener(genLog)

	// Metrics
	reg := prometheus.NewRegistry()
	m := metrics.NewGenerationMetrics(reg, cfg.Metrics.Namespace, cfg.Name)
	if cache != nil {
		m.WatchCache(cache)
	}
	conf.EventManager().AddListener(m)
	if cfg.Metrics.Addr != "" {
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server stopped", zap.Error(err))
			}
		}()
		defer srv.Close()
		logger.Info("serving metrics", zap.String("addr", cfg.Metrics.Addr))
	}

	// Archive
	var recorder *archive.Recorder
	if cfg.Archive.Driver != "none" {
		store, err := archive.NewStore(cfg.Archive.Driver, cfg.Archive.Path)
		if err != nil {
			return err
		}
		if err := store.Init(ctx); err != nil {
			return fmt.Errorf("init archive: %w", err)
		}
		defer store.Close()
		recorder = archive.NewRecorder(ctx, store, cfg.Name, logger)
		conf.EventManager().AddListener(recorder)
	}

	genotype, err := ga.RandomInitialGenotype(conf)
	if err != nil {
		return err
	}

	startTime := time.Now()
	for gen := 1; gen <= cfg.GA.Generations; gen++ {
		if ctx.Err() != nil {
			logger.Warn("run interrupted", zap.Int("generation", gen-1))
			break
		}
		if err := genotype.Evolve(); err != nil {
			return err
		}
	}
	if err := genLog.Err(); err != nil {
		logger.Warn("generation log incomplete", zap.Error(err))
	}
	if recorder != nil && recorder.Err() != nil {
		logger.Warn("archive incomplete", zap.Error(recorder.Err()))
	}

	best, err := genotype.FittestChromosome()
	if err != nil {
		return err
	}
	logger.Info("run complete",
		zap.Int("generations", conf.GenerationNr()),
		zap.Duration("elapsed", time.Since(startTime)),
		zap.Float64("best_fitness", best.FitnessValueDirectly()))
	if cache != nil {
		hits, misses := cache.Stats()
		logger.Info("fitness cache", zap.Uint64("hits", hits), zap.Uint64("misses", misses))
	}
	fmt.Printf("Best: %s\n", problem.Describe(best))

	if err := logging.SaveFittest(cfg.Logging.FittestPath, problem.Name(), best, conf.GenerationNr()); err != nil {
		return fmt.Errorf("save fittest: %w", err)
	}
	return nil
}
