package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gaengine/internal/archive"
	"gaengine/internal/logging"
)

func TestRunWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "tsp.yaml")
	body := fmt.Sprintf(`
name: tsp-test
seed: 11
problem:
  name: tsp
  size: 6
ga:
  population: 12
  generations: 5
  cache_size: 64
logging:
  level: warn
  csv_path: %[1]s/run.csv
  json_path: %[1]s/run.jsonl
  fittest_path: %[1]s/fittest.json
archive:
  driver: sqlite
  path: %[1]s/archive.db
`, dir)
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o644))

	require.NoError(t, run(context.Background(), options{configPath: cfgPath, quiet: true}))

	saved, err := logging.LoadFittest(filepath.Join(dir, "fittest.json"))
	require.NoError(t, err)
	assert.Equal(t, "tsp", saved.Problem)
	assert.Equal(t, 5, saved.Generation)
	assert.Positive(t, saved.Fitness)

	store := archive.NewSQLiteStore(filepath.Join(dir, "archive.db"))
	require.NoError(t, store.Init(context.Background()))
	defer store.Close()
	records, err := store.Generations(context.Background(), "tsp-test")
	require.NoError(t, err)
	assert.Len(t, records, 5)
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := loadConfig(options{generations: 3, metricsAddr: ":0"})
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.GA.Generations)
	assert.Equal(t, ":0", cfg.Metrics.Addr)

	_, err = loadConfig(options{configPath: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}
