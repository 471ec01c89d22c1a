package gene

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"gaengine/internal/rng"
)

// FixedBinaryGene is a bit vector of fixed length. Each bit is an atomic element.
type FixedBinaryGene struct {
	base
	length int
	bits   *bitset.BitSet
}

// NewFixedBinaryGene creates a gene of length bits, all cleared
func NewFixedBinaryGene(length int) (*FixedBinaryGene, error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: length must be positive, got %d", ErrInvalidArgument, length)
	}
	return &FixedBinaryGene{length: length, bits: bitset.New(uint(length))}, nil
}

func (g *FixedBinaryGene) Kind() string { return KindFixedBinary }

func (g *FixedBinaryGene) Length() int { return g.length }

// Bit reports whether bit i is set
func (g *FixedBinaryGene) Bit(i int) bool {
	return g.bits.Test(uint(i))
}

// SetBit sets or clears bit i
func (g *FixedBinaryGene) SetBit(i int, on bool) error {
	if err := checkIndex(i, g.length); err != nil {
		return err
	}
	if on {
		g.bits.Set(uint(i))
	} else {
		g.bits.Clear(uint(i))
	}
	return nil
}

// OnesCount returns the number of set bits
func (g *FixedBinaryGene) OnesCount() int {
	return int(g.bits.Count())
}

// Allele returns a copy of the bits as []bool
func (g *FixedBinaryGene) Allele() any {
	out := make([]bool, g.length)
	for i := range out {
		out[i] = g.bits.Test(uint(i))
	}
	return out
}

// SetAllele accepts []bool or []int (0/1) of exactly Length elements
func (g *FixedBinaryGene) SetAllele(value any) error {
	next := bitset.New(uint(g.length))
	switch v := value.(type) {
	case []bool:
		if len(v) != g.length {
			return fmt.Errorf("%w: expected %d bits, got %d", ErrAlleleType, g.length, len(v))
		}
		for i, b := range v {
			if b {
				next.Set(uint(i))
			}
		}
	case []int:
		if len(v) != g.length {
			return fmt.Errorf("%w: expected %d bits, got %d", ErrAlleleType, g.length, len(v))
		}
		for i, b := range v {
			switch b {
			case 0:
			case 1:
				next.Set(uint(i))
			default:
				return fmt.Errorf("%w: bit %d has value %d", ErrAlleleType, i, b)
			}
		}
	default:
		return fmt.Errorf("%w: %s expects []bool, got %T", ErrAlleleType, KindFixedBinary, value)
	}
	g.bits = next
	return nil
}

func (g *FixedBinaryGene) NewGene() Gene {
	return &FixedBinaryGene{base: g.base, length: g.length, bits: bitset.New(uint(g.length))}
}

func (g *FixedBinaryGene) Clone() Gene {
	return &FixedBinaryGene{base: g.base, length: g.length, bits: g.bits.Clone()}
}

func (g *FixedBinaryGene) SetToRandomValue(src rng.Source) {
	for i := 0; i < g.length; i++ {
		if src.Bool() {
			g.bits.Set(uint(i))
		} else {
			g.bits.Clear(uint(i))
		}
	}
}

// ApplyMutation forces bit index to 1 for a positive percentage and to 0 for a negative one
func (g *FixedBinaryGene) ApplyMutation(index int, percentage float64) error {
	if err := checkIndex(index, g.length); err != nil {
		return err
	}
	switch {
	case percentage > 0:
		g.bits.Set(uint(index))
	case percentage < 0:
		g.bits.Clear(uint(index))
	}
	return nil
}

func (g *FixedBinaryGene) Size() int { return g.length }

func (g *FixedBinaryGene) Compare(other Gene) int {
	o, ok := other.(*FixedBinaryGene)
	if !ok {
		return compareKinds(g, other)
	}
	if g.length != o.length {
		if g.length < o.length {
			return -1
		}
		return 1
	}
	for i := 0; i < g.length; i++ {
		a, b := g.Bit(i), o.Bit(i)
		if a != b {
			if b {
				return -1
			}
			return 1
		}
	}
	return g.compareApplicationData(other)
}

func (g *FixedBinaryGene) bitString() string {
	var sb strings.Builder
	sb.Grow(g.length)
	for i := 0; i < g.length; i++ {
		if g.Bit(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func (g *FixedBinaryGene) PersistentRepresentation() string {
	return strconv.Itoa(g.length) + FieldDelimiter + g.bitString()
}

func (g *FixedBinaryGene) SetValueFromPersistentRepresentation(representation string) error {
	fields, err := splitFields(representation, 2)
	if err != nil {
		return err
	}
	length, err := strconv.Atoi(fields[0])
	if err != nil {
		return fmt.Errorf("%w: length: %v", ErrRepresentation, err)
	}
	if length != g.length || len(fields[1]) != length {
		return fmt.Errorf("%w: expected %d bits, got length %s with %d bits",
			ErrRepresentation, g.length, fields[0], len(fields[1]))
	}
	next := bitset.New(uint(length))
	for i, c := range fields[1] {
		switch c {
		case '0':
		case '1':
			next.Set(uint(i))
		default:
			return fmt.Errorf("%w: invalid bit %q at %d", ErrRepresentation, c, i)
		}
	}
	g.bits = next
	return nil
}

func (g *FixedBinaryGene) String() string {
	return KindFixedBinary + "=[" + g.bitString() + "]"
}
