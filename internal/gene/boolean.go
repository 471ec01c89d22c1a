package gene

import (
	"fmt"
	"strconv"

	"gaengine/internal/rng"
)

// BooleanGene holds a nullable bool allele
type BooleanGene struct {
	base
	value *bool
}

func NewBooleanGene() *BooleanGene {
	return &BooleanGene{}
}

func (g *BooleanGene) Kind() string { return KindBoolean }

func (g *BooleanGene) Allele() any {
	if g.value == nil {
		return nil
	}
	return *g.value
}

// BoolValue returns false for an unset allele
func (g *BooleanGene) BoolValue() bool {
	return g.value != nil && *g.value
}

func (g *BooleanGene) SetAllele(value any) error {
	switch v := value.(type) {
	case nil:
		g.value = nil
	case bool:
		g.value = &v
	default:
		return fmt.Errorf("%w: %s expects bool, got %T", ErrAlleleType, KindBoolean, value)
	}
	return nil
}

func (g *BooleanGene) NewGene() Gene {
	return &BooleanGene{base: g.base}
}

func (g *BooleanGene) Clone() Gene {
	c := &BooleanGene{base: g.base}
	if g.value != nil {
		v := *g.value
		c.value = &v
	}
	return c
}

func (g *BooleanGene) SetToRandomValue(src rng.Source) {
	v := src.Bool()
	g.value = &v
}

func (g *BooleanGene) ApplyMutation(_ int, percentage float64) error {
	switch {
	case percentage > 0:
		v := true
		g.value = &v
	case percentage < 0:
		v := false
		g.value = &v
	}
	return nil
}

func (g *BooleanGene) Size() int { return 1 }

func (g *BooleanGene) Compare(other Gene) int {
	o, ok := other.(*BooleanGene)
	if !ok {
		return compareKinds(g, other)
	}
	if c, done := compareNull(g.value == nil, o.value == nil); done {
		if c == 0 {
			return g.compareApplicationData(other)
		}
		return c
	}
	if c := compareValues(*g.value, *o.value); c != 0 {
		return c
	}
	return g.compareApplicationData(other)
}

func (g *BooleanGene) PersistentRepresentation() string {
	if g.value == nil {
		return NullRepresentation
	}
	return strconv.FormatBool(*g.value)
}

func (g *BooleanGene) SetValueFromPersistentRepresentation(representation string) error {
	switch representation {
	case NullRepresentation:
		g.value = nil
	case "true", "false":
		v := representation == "true"
		g.value = &v
	default:
		return fmt.Errorf("%w: %s cannot decode %q", ErrRepresentation, KindBoolean, representation)
	}
	return nil
}

func (g *BooleanGene) String() string {
	return KindBoolean + "=" + g.PersistentRepresentation()
}
