package gene

import (
	"fmt"
	"math"
	"strings"

	"gaengine/internal/rng"
)

const listDelimiter = ","

// SetGene takes its allele from an ordered set of discrete values
type SetGene struct {
	base
	values []any
	value  any
}

// NewSetGene creates a gene whose allele is drawn from values. Duplicates are ignored.
func NewSetGene(values ...any) (*SetGene, error) {
	g := &SetGene{}
	for _, v := range values {
		if err := g.AddAllele(v); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (g *SetGene) Kind() string { return KindSet }

// AddAllele registers a value. Supported types are string, int, float64 and bool.
func (g *SetGene) AddAllele(value any) error {
	v, err := normalizeValue(value)
	if err != nil {
		return err
	}
	if indexOfValue(g.values, v) < 0 {
		g.values = append(g.values, v)
	}
	return nil
}

// Alleles returns the registered values in insertion order
func (g *SetGene) Alleles() []any {
	return append([]any(nil), g.values...)
}

func (g *SetGene) Allele() any { return g.value }

func (g *SetGene) SetAllele(value any) error {
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
		return fmt.Errorf("%w: %v is not a registered allele", ErrAlleleType, value)
	}
	g.value = g.values[i]
	return nil
}

func (g *SetGene) NewGene() Gene {
	return &SetGene{base: g.base, values: g.Alleles()}
}

func (g *SetGene) Clone() Gene {
	return &SetGene{base: g.base, values: g.Alleles(), value: g.value}
}

func (g *SetGene) SetToRandomValue(src rng.Source) {
	if len(g.values) == 0 {
		return
	}
	g.value = g.values[src.Intn(len(g.values))]
}

// ApplyMutation moves the allele ceil(|percentage|*n) positions through the set, wrapping around
func (g *SetGene) ApplyMutation(_ int, percentage float64) error {
	if len(g.values) == 0 {
		return fmt.Errorf("%w: %s has no registered alleles", ErrInvalidArgument, KindSet)
	}
	g.value = g.values[shiftIndex(indexOfValue(g.values, g.value), len(g.values), percentage)]
	return nil
}

func shiftIndex(current, n int, percentage float64) int {
	if current < 0 {
		current = 0
	}
	step := int(math.Ceil(math.Abs(percentage) * float64(n)))
	if percentage < 0 {
		step = -step
	}
	return ((current+step)%n + n) % n
}

func (g *SetGene) Size() int { return 1 }

func (g *SetGene) Compare(other Gene) int {
	o, ok := other.(*SetGene)
	if !ok {
		return compareKinds(g, other)
	}
	if c := compareValues(g.value, o.value); c != 0 {
		return c
	}
	return g.compareApplicationData(other)
}

func (g *SetGene) PersistentRepresentation() string {
	tokens := make([]string, len(g.values))
	for i, v := range g.values {
		tokens[i] = encodeValue(v)
	}
	return encodeOptionalValue(g.value) + FieldDelimiter + strings.Join(tokens, listDelimiter)
}

func (g *SetGene) SetValueFromPersistentRepresentation(representation string) error {
	fields, err := splitFields(representation, 2)
	if err != nil {
		return err
	}
	var values []any
	if fields[1] != "" {
		for _, token := range strings.Split(fields[1], listDelimiter) {
			v, err := decodeValue(token)
			if err != nil {
				return err
			}
			if indexOfValue(values, v) < 0 {
				values = append(values, v)
			}
		}
	}
	value, err := decodeOptionalValue(fields[0])
	if err != nil {
		return err
	}
	if value != nil {
		i := indexOfValue(values, value)
		if i < 0 {
			return fmt.Errorf("%w: allele %v is not in the encoded set", ErrRepresentation, value)
		}
		value = values[i]
	}
	g.values, g.value = values, value
	return nil
}

func (g *SetGene) String() string {
	return fmt.Sprintf("%s=%v", KindSet, g.value)
}
