package archive

import (
	"context"
	"errors"
	"slices"
	"sync"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string][]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string][]Record)
	return nil
}

// SaveGeneration replaces an earlier record of the same generation
func (s *MemoryStore) SaveGeneration(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	records := s.runs[rec.RunID]
	i, found := slices.BinarySearchFunc(records, rec.Generation, func(r Record, gen int) int { return r.Generation - gen })
	if found {
		records[i] = rec
	} else {
		records = slices.Insert(records, i, rec)
	}
	s.runs[rec.RunID] = records
	return nil
}

func (s *MemoryStore) Generations(_ context.Context, runID string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.runs[runID]), nil
}

func (s *MemoryStore) Latest(_ context.Context, runID string) (Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.runs[runID]
	if len(records) == 0 {
		return Record{}, false, nil
	}
	return records[len(records)-1], true, nil
}

func (s *MemoryStore) Close() error { return nil }
