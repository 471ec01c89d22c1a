package gene

import (
	"cmp"
	"fmt"
	"math"
	"strconv"

	"gaengine/internal/rng"
)

// int64Span is the width of the native int64 range as a float.
const int64Span = 18446744073709551616.0

// NumberGene is implemented by the bounded ordinal variants
type NumberGene interface {
	Gene
	LowerBound() float64
	UpperBound() float64
	Float64Value() float64
}

// IntegerGene holds a nullable int allele within inclusive bounds
type IntegerGene struct {
	base
	value        *int
	lower, upper int
}

// NewIntegerGene creates a gene bounded to [lower, upper]
func NewIntegerGene(lower, upper int) (*IntegerGene, error) {
	if lower > upper {
		return nil, fmt.Errorf("%w: lower bound %d exceeds upper bound %d", ErrInvalidArgument, lower, upper)
	}
	return &IntegerGene{lower: lower, upper: upper}, nil
}

func (g *IntegerGene) Kind() string { return KindInteger }

func (g *IntegerGene) LowerBound() float64 { return float64(g.lower) }
func (g *IntegerGene) UpperBound() float64 { return float64(g.upper) }
func (g *IntegerGene) Lower() int          { return g.lower }
func (g *IntegerGene) Upper() int          { return g.upper }

func (g *IntegerGene) Allele() any {
	if g.value == nil {
		return nil
	}
	return *g.value
}

// IntValue returns the allele, or 0 when unset
func (g *IntegerGene) IntValue() int {
	if g.value == nil {
		return 0
	}
	return *g.value
}

func (g *IntegerGene) Float64Value() float64 { return float64(g.IntValue()) }

func (g *IntegerGene) SetAllele(value any) error {
	switch v := value.(type) {
	case nil:
		g.value = nil
	case int:
		g.set(v)
	case int64:
		g.set(int(v))
	case int32:
		g.set(int(v))
	default:
		return fmt.Errorf("%w: %s expects int, got %T", ErrAlleleType, KindInteger, value)
	}
	return nil
}

func (g *IntegerGene) set(v int) {
	v = mapIntIntoBounds(v, g.lower, g.upper)
	g.value = &v
}

// mapIntIntoBounds keeps the relative position of v within the int64 range
func mapIntIntoBounds(v, lower, upper int) int {
	if v >= lower && v <= upper {
		return v
	}
	frac := clampUnit(float64(v)/int64Span + 0.5)
	span := float64(upper) - float64(lower)
	mapped := int(math.Round(float64(lower) + frac*span))
	return min(max(mapped, lower), upper)
}

func (g *IntegerGene) NewGene() Gene {
	return &IntegerGene{base: g.base, lower: g.lower, upper: g.upper}
}

func (g *IntegerGene) Clone() Gene {
	c := &IntegerGene{base: g.base, lower: g.lower, upper: g.upper}
	if g.value != nil {
		v := *g.value
		c.value = &v
	}
	return c
}

func (g *IntegerGene) SetToRandomValue(src rng.Source) {
	// span wraps correctly in two's complement since lower <= upper
	span := uint64(g.upper) - uint64(g.lower)
	var offset uint64
	if span < math.MaxInt64 {
		offset = uint64(src.Intn(int(span) + 1))
	} else {
		// at least half of all draws land inside the span
		for offset = randomUint64(src); offset > span; offset = randomUint64(src) {
		}
	}
	v := int(uint64(g.lower) + offset)
	g.value = &v
}

func randomUint64(src rng.Source) uint64 {
	return uint64(src.Int63())<<1 ^ uint64(src.Int63())
}

func (g *IntegerGene) ApplyMutation(_ int, percentage float64) error {
	shift := (float64(g.upper) - float64(g.lower)) * percentage
	if g.value == nil {
		g.set(saturatingInt(float64(g.lower) + shift))
		return nil
	}
	g.set(saturatingInt(math.Round(float64(*g.value) + shift)))
	return nil
}

// saturatingInt converts f to int, pinning values beyond the int range to its ends
func saturatingInt(f float64) int {
	switch {
	case f >= int64Span/2:
		return math.MaxInt
	case f < -int64Span/2:
		return math.MinInt
	}
	return int(f)
}

func (g *IntegerGene) Size() int { return 1 }

func (g *IntegerGene) Compare(other Gene) int {
	o, ok := other.(*IntegerGene)
	if !ok {
		return compareKinds(g, other)
	}
	if c, done := compareNull(g.value == nil, o.value == nil); done {
		if c == 0 {
			return g.compareApplicationData(other)
		}
		return c
	}
	if c := cmp.Compare(*g.value, *o.value); c != 0 {
		return c
	}
	return g.compareApplicationData(other)
}

func (g *IntegerGene) PersistentRepresentation() string {
	value := NullRepresentation
	if g.value != nil {
		value = strconv.Itoa(*g.value)
	}
	return value + FieldDelimiter + strconv.Itoa(g.lower) + FieldDelimiter + strconv.Itoa(g.upper)
}

func (g *IntegerGene) SetValueFromPersistentRepresentation(representation string) error {
	fields, err := splitFields(representation, 3)
	if err != nil {
		return err
	}
	lower, err := strconv.Atoi(fields[1])
	if err != nil {
		return fmt.Errorf("%w: lower bound: %v", ErrRepresentation, err)
	}
	upper, err := strconv.Atoi(fields[2])
	if err != nil {
		return fmt.Errorf("%w: upper bound: %v", ErrRepresentation, err)
	}
	if lower > upper {
		return fmt.Errorf("%w: lower bound %d exceeds upper bound %d", ErrRepresentation, lower, upper)
	}
	var value *int
	if fields[0] != NullRepresentation {
		v, err := strconv.Atoi(fields[0])
		if err != nil {
			return fmt.Errorf("%w: value: %v", ErrRepresentation, err)
		}
		value = &v
	}
	g.lower, g.upper = lower, upper
	g.value = nil
	if value != nil {
		g.set(*value)
	}
	return nil
}

func (g *IntegerGene) String() string {
	return KindInteger + "=" + g.PersistentRepresentation()
}

// DoubleGene holds a nullable float64 allele within inclusive bounds
type DoubleGene struct {
	base
	value        *float64
	lower, upper float64
}

// NewDoubleGene creates a gene bounded to [lower, upper]
func NewDoubleGene(lower, upper float64) (*DoubleGene, error) {
	if math.IsNaN(lower) || math.IsNaN(upper) || math.IsInf(lower, 0) || math.IsInf(upper, 0) {
		return nil, fmt.Errorf("%w: bounds must be finite", ErrInvalidArgument)
	}
	if lower > upper {
		return nil, fmt.Errorf("%w: lower bound %g exceeds upper bound %g", ErrInvalidArgument, lower, upper)
	}
	return &DoubleGene{lower: lower, upper: upper}, nil
}

func (g *DoubleGene) Kind() string { return KindDouble }

func (g *DoubleGene) LowerBound() float64 { return g.lower }
func (g *DoubleGene) UpperBound() float64 { return g.upper }

func (g *DoubleGene) Allele() any {
	if g.value == nil {
		return nil
	}
	return *g.value
}

// Float64Value returns the allele, or 0 when unset
func (g *DoubleGene) Float64Value() float64 {
	if g.value == nil {
		return 0
	}
	return *g.value
}

func (g *DoubleGene) SetAllele(value any) error {
	switch v := value.(type) {
	case nil:
		g.value = nil
		return nil
	case float64:
		return g.set(v)
	case float32:
		return g.set(float64(v))
	case int:
		return g.set(float64(v))
	default:
		return fmt.Errorf("%w: %s expects float64, got %T", ErrAlleleType, KindDouble, value)
	}
}

func (g *DoubleGene) set(v float64) error {
	if math.IsNaN(v) {
		return fmt.Errorf("%w: NaN allele", ErrInvalidArgument)
	}
	v = mapFloatIntoBounds(v, g.lower, g.upper)
	g.value = &v
	return nil
}

// mapFloatIntoBounds keeps the relative position of v within the float64 range
func mapFloatIntoBounds(v, lower, upper float64) float64 {
	if v >= lower && v <= upper {
		return v
	}
	frac := clampUnit(v/math.MaxFloat64*0.5 + 0.5)
	mapped := lower + frac*upper - frac*lower
	return math.Min(math.Max(mapped, lower), upper)
}

func clampUnit(f float64) float64 {
	return math.Min(math.Max(f, 0), 1)
}

func (g *DoubleGene) NewGene() Gene {
	return &DoubleGene{base: g.base, lower: g.lower, upper: g.upper}
}

func (g *DoubleGene) Clone() Gene {
	c := &DoubleGene{base: g.base, lower: g.lower, upper: g.upper}
	if g.value != nil {
		v := *g.value
		c.value = &v
	}
	return c
}

func (g *DoubleGene) SetToRandomValue(src rng.Source) {
	u := src.Float64()
	v := math.Min(math.Max(g.lower+u*g.upper-u*g.lower, g.lower), g.upper)
	g.value = &v
}

func (g *DoubleGene) ApplyMutation(_ int, percentage float64) error {
	shift := g.upper*percentage - g.lower*percentage
	if g.value == nil {
		return g.set(g.lower + shift)
	}
	return g.set(*g.value + shift)
}

func (g *DoubleGene) Size() int { return 1 }

func (g *DoubleGene) Compare(other Gene) int {
	o, ok := other.(*DoubleGene)
	if !ok {
		return compareKinds(g, other)
	}
	if c, done := compareNull(g.value == nil, o.value == nil); done {
		if c == 0 {
			return g.compareApplicationData(other)
		}
		return c
	}
	if c := cmp.Compare(*g.value, *o.value); c != 0 {
		return c
	}
	return g.compareApplicationData(other)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func (g *DoubleGene) PersistentRepresentation() string {
	value := NullRepresentation
	if g.value != nil {
		value = formatFloat(*g.value)
	}
	return value + FieldDelimiter + formatFloat(g.lower) + FieldDelimiter + formatFloat(g.upper)
}

func (g *DoubleGene) SetValueFromPersistentRepresentation(representation string) error {
	fields, err := splitFields(representation, 3)
	if err != nil {
		return err
	}
	lower, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return fmt.Errorf("%w: lower bound: %v", ErrRepresentation, err)
	}
	upper, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return fmt.Errorf("%w: upper bound: %v", ErrRepresentation, err)
	}
	if lower > upper || math.IsNaN(lower) || math.IsNaN(upper) {
		return fmt.Errorf("%w: invalid bounds [%s, %s]", ErrRepresentation, fields[1], fields[2])
	}
	var value *float64
	if fields[0] != NullRepresentation {
		v, err := strconv.ParseFloat(fields[0], 64)
		if err != nil || math.IsNaN(v) {
			return fmt.Errorf("%w: value %q", ErrRepresentation, fields[0])
		}
		value = &v
	}
	g.lower, g.upper = lower, upper
	g.value = nil
	if value != nil {
		return g.set(*value)
	}
	return nil
}

func (g *DoubleGene) String() string {
	return KindDouble + "=" + g.PersistentRepresentation()
}
