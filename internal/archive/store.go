package archive

import (
	"context"
	"fmt"
	"time"
)

// Record is what the archive keeps about one evolved generation
type Record struct {
	RunID       string
	Generation  int
	Size        int
	BestFitness float64
	MeanFitness float64
	FittestID   string
	Fittest     string // persistent representation
	RecordedAt  time.Time
}

// Store persists generation records per run
type Store interface {
	Init(ctx context.Context) error
	SaveGeneration(ctx context.Context, rec Record) error
	Generations(ctx context.Context, runID string) ([]Record, error)
	Latest(ctx context.Context, runID string) (Record, bool, error)
	Close() error
}

// NewStore builds the store backend named by kind
func NewStore(kind, sqlitePath string) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return NewSQLiteStore(sqlitePath), nil
	default:
		return nil, fmt.Errorf("unsupported archive backend: %s", kind)
	}
}
