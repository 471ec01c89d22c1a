package config

import (
	"fmt"

	"go.uber.org/zap"

	"gaengine/internal/ga"
	"gaengine/internal/rng"
)

// Build turns the file configuration into an unlocked ga.Configuration.
// The caller still sets the sample chromosome and fitness function.
// distance is only needed when a greedy crossover is configured.
func Build(cfg *Config, logger *zap.Logger, distance ga.DistanceFunc) (*ga.Configuration, error) {
	conf := ga.NewConfiguration(cfg.Name, logger)

	steps := []func() error{
		func() error { return conf.SetPopulationSize(cfg.GA.Population) },
		func() error { return conf.SetRandomGenerator(rng.NewStock(cfg.Seed)) },
		func() error { return conf.SetMinimumPopSizePercent(cfg.GA.MinPopSizePercent) },
		func() error { return conf.SetPreserveFittestIndividual(*cfg.GA.PreserveFittest) },
		func() error { return conf.SetKeepPopulationSizeConstant(*cfg.GA.KeepPopSizeConstant) },
	}
	if cfg.Problem.Delta {
		steps = append(steps, func() error { return conf.SetFitnessEvaluator(ga.DeltaFitnessEvaluator{}) })
	}
	if cfg.GA.UUIDKeys {
		steps = append(steps, func() error { return conf.SetUniqueKeyProvider(ga.UUIDKeys{}) })
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}

	for i, sc := range cfg.Selectors {
		s, err := buildSelector(conf, sc)
		if err != nil {
			return nil, fmt.Errorf("selectors[%d]: %w", i, err)
		}
		if err := conf.AddNaturalSelector(s, sc.Pre); err != nil {
			return nil, err
		}
	}
	for i, oc := range cfg.Operators {
		op, err := buildOperator(conf, oc, distance)
		if err != nil {
			return nil, fmt.Errorf("operators[%d]: %w", i, err)
		}
		if err := conf.AddGeneticOperator(op); err != nil {
			return nil, err
		}
	}
	return conf, nil
}

func buildSelector(conf *ga.Configuration, sc SelectorConfig) (ga.NaturalSelector, error) {
	switch sc.Type {
	case "best":
		rate := sc.Rate
		if rate == 0 {
			rate = 1
		}
		s, err := ga.NewBestChromosomesSelector(conf, rate)
		if err != nil {
			return nil, err
		}
		if sc.Doublettes != nil {
			s.SetDoubletteChromosomesAllowed(*sc.Doublettes)
		}
		return s, nil
	case "roulette":
		s := ga.NewWeightedRouletteSelector(conf)
		if sc.Doublettes != nil {
			s.SetDoubletteChromosomesAllowed(*sc.Doublettes)
		}
		return s, nil
	case "tournament":
		return ga.NewTournamentSelector(conf, sc.TournamentSize, sc.Probability)
	case "threshold":
		s, err := ga.NewThresholdSelector(conf, sc.Rate)
		if err != nil {
			return nil, err
		}
		if sc.Doublettes != nil {
			s.SetDoubletteChromosomesAllowed(*sc.Doublettes)
		}
		return s, nil
	case "standard_post":
		return ga.NewStandardPostSelector(conf), nil
	default:
		return nil, fmt.Errorf("%w: unknown selector %q", ErrInvalid, sc.Type)
	}
}

func buildOperator(conf *ga.Configuration, oc OperatorConfig, distance ga.DistanceFunc) (ga.GeneticOperator, error) {
	switch oc.Type {
	case "crossover":
		var (
			op  *ga.CrossoverOperator
			err error
		)
		switch {
		case oc.Percent > 0:
			op, err = ga.NewCrossoverOperatorWithPercent(conf, oc.Percent)
		case oc.Rate > 0:
			op, err = ga.NewCrossoverOperatorWithRate(conf, oc.Rate)
		default:
			op = ga.NewCrossoverOperator(conf)
		}
		if err != nil {
			return nil, err
		}
		if oc.AllowFullCrossover != nil {
			op.SetAllowFullCrossover(*oc.AllowFullCrossover)
		}
		if oc.XoverNewAge != nil {
			op.SetXoverNewAge(*oc.XoverNewAge)
		}
		return op, nil
	case "averaging_crossover":
		if oc.Rate > 0 {
			return ga.NewAveragingCrossoverOperatorWithRate(conf, oc.Rate)
		}
		return ga.NewAveragingCrossoverOperator(conf), nil
	case "greedy_crossover":
		if distance == nil {
			return nil, fmt.Errorf("%w: greedy_crossover needs a distance metric", ErrInvalid)
		}
		op, err := ga.NewGreedyCrossover(conf, distance)
		if err != nil {
			return nil, err
		}
		if err := op.SetStartOffset(oc.StartOffset); err != nil {
			return nil, err
		}
		return op, nil
	case "mutation":
		if oc.Rate > 0 {
			return ga.NewMutationOperatorWithRate(conf, oc.Rate)
		}
		return ga.NewMutationOperator(conf), nil
	case "two_way_mutation":
		if oc.Rate > 0 {
			return ga.NewTwoWayMutationOperatorWithRate(conf, oc.Rate)
		}
		return ga.NewTwoWayMutationOperator(conf), nil
	case "gaussian_mutation":
		return ga.NewGaussianMutationOperatorWithDeviation(conf, oc.Deviation)
	case "swapping_mutation":
		var (
			op  *ga.SwappingMutationOperator
			err error
		)
		if oc.Rate > 0 {
			op, err = ga.NewSwappingMutationOperatorWithRate(conf, oc.Rate)
		} else {
			op = ga.NewSwappingMutationOperator(conf)
		}
		if err != nil {
			return nil, err
		}
		if err := op.SetStartOffset(oc.StartOffset); err != nil {
			return nil, err
		}
		return op, nil
	case "ranged_swapping_mutation":
		var (
			op  *ga.RangedSwappingMutationOperator
			err error
		)
		if oc.Rate > 0 {
			op, err = ga.NewRangedSwappingMutationOperatorWithRate(conf, oc.Rate, oc.Width)
		} else {
			op, err = ga.NewRangedSwappingMutationOperator(conf, oc.Width)
		}
		if err != nil {
			return nil, err
		}
		if err := op.SetStartOffset(oc.StartOffset); err != nil {
			return nil, err
		}
		return op, nil
	case "inversion":
		return ga.NewInversionOperator(conf), nil
	default:
		return nil, fmt.Errorf("%w: unknown operator %q", ErrInvalid, oc.Type)
	}
}
