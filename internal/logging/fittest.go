package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gaengine/internal/ga"
)

// Fittest is the saved form of the best chromosome of a run
type Fittest struct {
	Problem        string  `json:"problem"`
	Generation     int     `json:"generation"`
	Fitness        float64 `json:"fitness"`
	Age            int     `json:"age"`
	UniqueID       string  `json:"unique_id,omitempty"`
	Representation string  `json:"representation"`
}

// SaveFittest saves the chromosome's persistent representation to a file
func SaveFittest(path, problem string, c *ga.Chromosome, gen int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data := Fittest{
		Problem:        problem,
		Generation:     gen,
		Fitness:        c.FitnessValueDirectly(),
		Age:            c.Age(),
		UniqueID:       c.UniqueID(),
		Representation: c.PersistentRepresentation(),
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, jsonData, 0644)
}

// LoadFittest loads a saved chromosome record from a file
func LoadFittest(path string) (*Fittest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var saved Fittest
	if err := json.Unmarshal(data, &saved); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if saved.Representation == "" {
		return nil, fmt.Errorf("decode %s: no representation", path)
	}
	return &saved, nil
}

// Restore decodes the record onto a chromosome with the sample's gene layout
func (f *Fittest) Restore(sample *ga.Chromosome) (*ga.Chromosome, error) {
	c := sample.Clone()
	if err := c.SetValueFromPersistentRepresentation(f.Representation); err != nil {
		return nil, err
	}
	return c, nil
}
