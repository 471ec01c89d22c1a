package gene

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"gaengine/internal/rng"
)

// DefaultAlphabet is used for random values when a StringGene has no alphabet.
const DefaultAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// StringGene holds a nullable string whose length lies in [minLength, maxLength].
// Each character is an atomic element. A maxLength of 0 means unbounded.
type StringGene struct {
	base
	minLength int
	maxLength int
	alphabet  string
	value     *string
}

func NewStringGene(minLength, maxLength int, alphabet string) (*StringGene, error) {
	if minLength < 0 || maxLength < 0 {
		return nil, fmt.Errorf("%w: negative length bound", ErrInvalidArgument)
	}
	if maxLength != 0 && maxLength < minLength {
		return nil, fmt.Errorf("%w: max length %d below min length %d", ErrInvalidArgument, maxLength, minLength)
	}
	return &StringGene{minLength: minLength, maxLength: maxLength, alphabet: alphabet}, nil
}

func (g *StringGene) Kind() string { return KindString }

func (g *StringGene) Alphabet() string { return g.alphabet }

func (g *StringGene) Allele() any {
	if g.value == nil {
		return nil
	}
	return *g.value
}

// StringValue returns the allele, or "" when unset
func (g *StringGene) StringValue() string {
	if g.value == nil {
		return ""
	}
	return *g.value
}

func (g *StringGene) SetAllele(value any) error {
	switch v := value.(type) {
	case nil:
		g.value = nil
		return nil
	case string:
		if err := g.validate(v); err != nil {
			return err
		}
		g.value = &v
		return nil
	default:
		return fmt.Errorf("%w: %s expects string, got %T", ErrAlleleType, KindString, value)
	}
}

func (g *StringGene) validate(v string) error {
	n := utf8.RuneCountInString(v)
	if n < g.minLength || (g.maxLength != 0 && n > g.maxLength) {
		return fmt.Errorf("%w: length %d outside [%d,%d]", ErrAlleleType, n, g.minLength, g.maxLength)
	}
	if g.alphabet == "" {
		return nil
	}
	for _, r := range v {
		if !strings.ContainsRune(g.alphabet, r) {
			return fmt.Errorf("%w: character %q not in alphabet", ErrAlleleType, r)
		}
	}
	return nil
}

func (g *StringGene) NewGene() Gene {
	return &StringGene{base: g.base, minLength: g.minLength, maxLength: g.maxLength, alphabet: g.alphabet}
}

func (g *StringGene) Clone() Gene {
	c := g.NewGene().(*StringGene)
	if g.value != nil {
		v := *g.value
		c.value = &v
	}
	return c
}

func (g *StringGene) letters() []rune {
	if g.alphabet == "" {
		return []rune(DefaultAlphabet)
	}
	return []rune(g.alphabet)
}

func (g *StringGene) SetToRandomValue(src rng.Source) {
	length := g.minLength
	if g.maxLength > g.minLength {
		length += src.Intn(g.maxLength - g.minLength + 1)
	}
	letters := g.letters()
	out := make([]rune, length)
	for i := range out {
		out[i] = letters[src.Intn(len(letters))]
	}
	v := string(out)
	g.value = &v
}

// ApplyMutation shifts the character at index through the alphabet by percentage of its size
func (g *StringGene) ApplyMutation(index int, percentage float64) error {
	runes := []rune(g.StringValue())
	if err := checkIndex(index, len(runes)); err != nil {
		return err
	}
	letters := g.letters()
	pos := 0
	for i, r := range letters {
		if r == runes[index] {
			pos = i
			break
		}
	}
	shift := int(math.Round(percentage * float64(len(letters))))
	runes[index] = letters[((pos+shift)%len(letters)+len(letters))%len(letters)]
	v := string(runes)
	g.value = &v
	return nil
}

func (g *StringGene) Size() int {
	return utf8.RuneCountInString(g.StringValue())
}

func (g *StringGene) Compare(other Gene) int {
	o, ok := other.(*StringGene)
	if !ok {
		return compareKinds(g, other)
	}
	if c, done := compareNull(g.value == nil, o.value == nil); done {
		if c == 0 {
			return g.compareApplicationData(other)
		}
		return c
	}
	if c := strings.Compare(*g.value, *o.value); c != 0 {
		return c
	}
	return g.compareApplicationData(other)
}

func (g *StringGene) PersistentRepresentation() string {
	value := NullRepresentation
	if g.value != nil {
		value = escapeValue(*g.value)
	}
	return strings.Join([]string{
		value,
		strconv.Itoa(g.minLength),
		strconv.Itoa(g.maxLength),
		escape(g.alphabet),
	}, FieldDelimiter)
}

func (g *StringGene) SetValueFromPersistentRepresentation(representation string) error {
	fields, err := splitFields(representation, 4)
	if err != nil {
		return err
	}
	minLength, err := strconv.Atoi(fields[1])
	if err != nil {
		return fmt.Errorf("%w: min length: %v", ErrRepresentation, err)
	}
	maxLength, err := strconv.Atoi(fields[2])
	if err != nil {
		return fmt.Errorf("%w: max length: %v", ErrRepresentation, err)
	}
	alphabet, err := unescape(fields[3])
	if err != nil {
		return err
	}
	decoded, err := NewStringGene(minLength, maxLength, alphabet)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRepresentation, err)
	}
	if fields[0] != NullRepresentation {
		v, err := unescape(fields[0])
		if err != nil {
			return err
		}
		if err := decoded.SetAllele(v); err != nil {
			return fmt.Errorf("%w: %v", ErrRepresentation, err)
		}
	}
	g.minLength, g.maxLength, g.alphabet, g.value = decoded.minLength, decoded.maxLength, decoded.alphabet, decoded.value
	return nil
}

func (g *StringGene) String() string {
	return KindString + "=" + strconv.Quote(g.StringValue())
}
