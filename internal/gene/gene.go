package gene

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"gaengine/internal/rng"
)

var (
	ErrRepresentation  = errors.New("unsupported persistent representation")
	ErrAlleleType      = errors.New("allele type mismatch")
	ErrNestedComposite = errors.New("composite genes cannot contain composite genes")
	ErrInvalidArgument = errors.New("invalid gene argument")
	ErrIndexOutOfRange = errors.New("atomic index out of range")
)

const (
	// NullRepresentation encodes an unset allele.
	NullRepresentation = "null"
	// FieldDelimiter separates the fields of a persistent representation.
	FieldDelimiter = ":"
	// KindDelimiter separates a gene kind from its representation in Encode.
	KindDelimiter = "|"
)

const (
	KindBoolean     = "BooleanGene"
	KindInteger     = "IntegerGene"
	KindDouble      = "DoubleGene"
	KindFixedBinary = "FixedBinaryGene"
	KindSet         = "SetGene"
	KindMap         = "MapGene"
	KindString      = "StringGene"
	KindComposite   = "CompositeGene"
)

// Gene is a single value cell of a chromosome
type Gene interface {
	Kind() string
	Allele() any
	SetAllele(value any) error
	// NewGene returns a gene with the same configuration and an undefined value.
	NewGene() Gene
	Clone() Gene
	SetToRandomValue(src rng.Source)
	// ApplyMutation changes the atomic element at index by percentage, which lies in (-1, 1).
	ApplyMutation(index int, percentage float64) error
	// Size is the number of atomic elements.
	Size() int
	Compare(other Gene) int
	PersistentRepresentation() string
	SetValueFromPersistentRepresentation(representation string) error
	ApplicationData() any
	SetApplicationData(data any)
	SetCompareApplicationData(enabled bool)
	String() string
}

// Comparer lets application data take part in gene ordering
type Comparer interface {
	CompareTo(other any) int
}

type base struct {
	appData        any
	compareAppData bool
}

func (b *base) ApplicationData() any { return b.appData }

func (b *base) SetApplicationData(data any) { b.appData = data }

func (b *base) SetCompareApplicationData(enabled bool) { b.compareAppData = enabled }

func (b *base) compareApplicationData(other Gene) int {
	if !b.compareAppData {
		return 0
	}
	return CompareApplicationData(b.appData, other.ApplicationData())
}

// CompareApplicationData orders two application data values; nil sorts first
func CompareApplicationData(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if c, ok := a.(Comparer); ok {
		return c.CompareTo(b)
	}
	return compareValues(a, b)
}

// compareKinds orders genes of different variants by kind name
func compareKinds(g, other Gene) int {
	return strings.Compare(g.Kind(), other.Kind())
}

// compareNull applies the null-first rule. ok is false when both are set.
func compareNull(aNull, bNull bool) (int, bool) {
	switch {
	case aNull && bNull:
		return 0, true
	case aNull:
		return -1, true
	case bNull:
		return 1, true
	}
	return 0, false
}

// Encode returns "kind|representation" for g
func Encode(g Gene) string {
	return g.Kind() + KindDelimiter + g.PersistentRepresentation()
}

// DecodeInto restores g from a token produced by Encode. The kind must match.
func DecodeInto(g Gene, token string) error {
	kind, repr, ok := strings.Cut(token, KindDelimiter)
	if !ok {
		return fmt.Errorf("%w: missing kind in %q", ErrRepresentation, token)
	}
	if kind != g.Kind() {
		return fmt.Errorf("%w: expected %s, got %s", ErrRepresentation, g.Kind(), kind)
	}
	return g.SetValueFromPersistentRepresentation(repr)
}

func escape(s string) string {
	return url.QueryEscape(s)
}

func unescape(s string) (string, error) {
	v, err := url.QueryUnescape(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRepresentation, err)
	}
	return v, nil
}

// escapeValue escapes a string allele so that it never collides with NullRepresentation
func escapeValue(s string) string {
	e := escape(s)
	if e == NullRepresentation {
		return "%6Eull"
	}
	return e
}

func splitFields(representation string, want int) ([]string, error) {
	fields := strings.Split(representation, FieldDelimiter)
	if len(fields) != want {
		return nil, fmt.Errorf("%w: expected %d fields, got %d in %q",
			ErrRepresentation, want, len(fields), representation)
	}
	return fields, nil
}

func checkIndex(index, size int) error {
	if index < 0 || index >= size {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, index, size)
	}
	return nil
}
