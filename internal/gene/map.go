package gene

import (
	"fmt"
	"strings"

	"gaengine/internal/rng"
)

const entryDelimiter = "="

// MapGene takes its allele from the values of an ordered key/value table
type MapGene struct {
	base
	keys   []any
	values []any
	value  any
}

func NewMapGene() *MapGene {
	return &MapGene{}
}

func (g *MapGene) Kind() string { return KindMap }

// AddAllele registers value under key, replacing a previous value for the same key
func (g *MapGene) AddAllele(key, value any) error {
	k, err := normalizeValue(key)
	if err != nil {
		return err
	}
	v, err := normalizeValue(value)
	if err != nil {
		return err
	}
	if i := indexOfValue(g.keys, k); i >= 0 {
		g.values[i] = v
		return nil
	}
	g.keys = append(g.keys, k)
	g.values = append(g.values, v)
	return nil
}

// Lookup returns the value registered for key
func (g *MapGene) Lookup(key any) (any, bool) {
	k, err := normalizeValue(key)
	if err != nil {
		return nil, false
	}
	i := indexOfValue(g.keys, k)
	if i < 0 {
		return nil, false
	}
	return g.values[i], true
}

func (g *MapGene) Keys() []any { return append([]any(nil), g.keys...) }

func (g *MapGene) Len() int { return len(g.keys) }

func (g *MapGene) Allele() any { return g.value }

// SetAllele accepts any registered value
func (g *MapGene) SetAllele(value any) error {
	if value == nil {
		g.value = nil
		return nil
	}
	v, err := normalizeValue(value)
	if err != nil {
		return err
	}
	i := indexOfValue(g.values, v)
	if i < 0 {
		return fmt.Errorf("%w: %v is not a registered value", ErrAlleleType, value)
	}
	g.value = g.values[i]
	return nil
}

func (g *MapGene) NewGene() Gene {
	return &MapGene{base: g.base, keys: g.Keys(), values: append([]any(nil), g.values...)}
}

func (g *MapGene) Clone() Gene {
	c := g.NewGene().(*MapGene)
	c.value = g.value
	return c
}

func (g *MapGene) SetToRandomValue(src rng.Source) {
	if len(g.keys) == 0 {
		return
	}
	g.value = g.values[src.Intn(len(g.keys))]
}

func (g *MapGene) ApplyMutation(_ int, percentage float64) error {
	if len(g.keys) == 0 {
		return fmt.Errorf("%w: %s has no registered entries", ErrInvalidArgument, KindMap)
	}
	g.value = g.values[shiftIndex(indexOfValue(g.values, g.value), len(g.values), percentage)]
	return nil
}

func (g *MapGene) Size() int { return 1 }

func (g *MapGene) Compare(other Gene) int {
	o, ok := other.(*MapGene)
	if !ok {
		return compareKinds(g, other)
	}
	if c := compareValues(g.value, o.value); c != 0 {
		return c
	}
	return g.compareApplicationData(other)
}

func (g *MapGene) PersistentRepresentation() string {
	entries := make([]string, len(g.keys))
	for i := range g.keys {
		entries[i] = encodeValue(g.keys[i]) + entryDelimiter + encodeValue(g.values[i])
	}
	return encodeOptionalValue(g.value) + FieldDelimiter + strings.Join(entries, listDelimiter)
}

func (g *MapGene) SetValueFromPersistentRepresentation(representation string) error {
	fields, err := splitFields(representation, 2)
	if err != nil {
		return err
	}
	decoded := NewMapGene()
	if fields[1] != "" {
		for _, entry := range strings.Split(fields[1], listDelimiter) {
			kt, vt, ok := strings.Cut(entry, entryDelimiter)
			if !ok {
				return fmt.Errorf("%w: map entry %q has no value", ErrRepresentation, entry)
			}
			k, err := decodeValue(kt)
			if err != nil {
				return err
			}
			v, err := decodeValue(vt)
			if err != nil {
				return err
			}
			if err := decoded.AddAllele(k, v); err != nil {
				return fmt.Errorf("%w: %v", ErrRepresentation, err)
			}
		}
	}
	value, err := decodeOptionalValue(fields[0])
	if err != nil {
		return err
	}
	if err := decoded.SetAllele(value); err != nil {
		return fmt.Errorf("%w: %v", ErrRepresentation, err)
	}
	g.keys, g.values, g.value = decoded.keys, decoded.values, decoded.value
	return nil
}

func (g *MapGene) String() string {
	return fmt.Sprintf("%s=%v", KindMap, g.value)
}
