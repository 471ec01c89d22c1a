package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"gaengine/internal/config"
	"gaengine/internal/eval"
	"gaengine/internal/ga"
	"gaengine/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to the config the chromosome was evolved with (defaults when empty)")
	fittestPath := flag.String("fittest", "artifacts/fittest.json", "path to a saved fittest chromosome")
	flag.Parse()

	if err := run(os.Stdout, *configPath, *fittestPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run decodes the saved chromosome onto the problem's gene layout and evaluates it again
func run(w io.Writer, configPath, fittestPath string) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}

	saved, err := logging.LoadFittest(fittestPath)
	if err != nil {
		return fmt.Errorf("load fittest: %w", err)
	}
	if saved.Problem != "" && saved.Problem != cfg.Problem.Name {
		return fmt.Errorf("%s holds a %s chromosome, config describes %s", fittestPath, saved.Problem, cfg.Problem.Name)
	}

	problem, err := eval.New(cfg.Problem)
	if err != nil {
		return err
	}
	conf := ga.NewConfiguration(cfg.Name, nil)
	sample, err := problem.Sample(conf)
	if err != nil {
		return err
	}
	c, err := saved.Restore(sample)
	if err != nil {
		return err
	}
	fitness := problem.Evaluate(c)

	fmt.Fprintf(w, "Loaded %s chromosome from gen %d (saved fitness=%g)\n", problem.Name(), saved.Generation, saved.Fitness)
	fmt.Fprintf(w, "Re-evaluated fitness: %g\n", fitness)
	fmt.Fprintf(w, "%s\n", problem.Describe(c))
	if fitness != saved.Fitness {
		fmt.Fprintln(w, "Warning: fitness differs from the saved value")
	}
	return nil
}
