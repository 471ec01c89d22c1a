package gene

import (
	"fmt"
	"strings"

	"gaengine/internal/rng"
)

const (
	compositeHeading   = "<"
	compositeClosing   = ">"
	compositeDelimiter = "#"
)

// CompositeGene is an ordered sequence of non-composite genes acting as one gene.
// Its allele is the []any of the contained alleles.
type CompositeGene struct {
	base
	genes []Gene
}

func NewCompositeGene(genes ...Gene) (*CompositeGene, error) {
	g := &CompositeGene{}
	for _, sub := range genes {
		if err := g.AddGene(sub); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (g *CompositeGene) Kind() string { return KindComposite }

// AddGene appends sub. Composite genes are rejected.
func (g *CompositeGene) AddGene(sub Gene) error {
	if sub == nil {
		return fmt.Errorf("%w: nil sub-gene", ErrInvalidArgument)
	}
	if _, nested := sub.(*CompositeGene); nested {
		return ErrNestedComposite
	}
	g.genes = append(g.genes, sub)
	return nil
}

// GeneAt returns the i-th sub-gene
func (g *CompositeGene) GeneAt(i int) Gene { return g.genes[i] }

func (g *CompositeGene) Genes() []Gene { return append([]Gene(nil), g.genes...) }

func (g *CompositeGene) Allele() any {
	out := make([]any, len(g.genes))
	for i, sub := range g.genes {
		out[i] = sub.Allele()
	}
	return out
}

// SetAllele requires a []any matching the sub-genes by position and type.
// Nothing changes when any position is rejected.
func (g *CompositeGene) SetAllele(value any) error {
	alleles, ok := value.([]any)
	if !ok {
		return fmt.Errorf("%w: %s expects []any, got %T", ErrAlleleType, KindComposite, value)
	}
	if len(alleles) != len(g.genes) {
		return fmt.Errorf("%w: expected %d alleles, got %d", ErrAlleleType, len(g.genes), len(alleles))
	}
	next := make([]Gene, len(g.genes))
	for i, sub := range g.genes {
		c := sub.Clone()
		if err := c.SetAllele(alleles[i]); err != nil {
			return fmt.Errorf("position %d: %w", i, err)
		}
		next[i] = c
	}
	g.genes = next
	return nil
}

func (g *CompositeGene) NewGene() Gene {
	c := &CompositeGene{base: g.base, genes: make([]Gene, len(g.genes))}
	for i, sub := range g.genes {
		c.genes[i] = sub.NewGene()
	}
	return c
}

func (g *CompositeGene) Clone() Gene {
	c := &CompositeGene{base: g.base, genes: make([]Gene, len(g.genes))}
	for i, sub := range g.genes {
		c.genes[i] = sub.Clone()
	}
	return c
}

func (g *CompositeGene) SetToRandomValue(src rng.Source) {
	for _, sub := range g.genes {
		sub.SetToRandomValue(src)
	}
}

// ApplyMutation mutates the first atomic element of sub-gene index
func (g *CompositeGene) ApplyMutation(index int, percentage float64) error {
	if err := checkIndex(index, len(g.genes)); err != nil {
		return err
	}
	return g.genes[index].ApplyMutation(0, percentage)
}

// Size is the number of sub-genes
func (g *CompositeGene) Size() int { return len(g.genes) }

func (g *CompositeGene) Compare(other Gene) int {
	o, ok := other.(*CompositeGene)
	if !ok {
		return compareKinds(g, other)
	}
	for i := 0; i < len(g.genes) && i < len(o.genes); i++ {
		if c := g.genes[i].Compare(o.genes[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(g.genes) < len(o.genes):
		return -1
	case len(g.genes) > len(o.genes):
		return 1
	}
	return g.compareApplicationData(other)
}

func (g *CompositeGene) PersistentRepresentation() string {
	tokens := make([]string, len(g.genes))
	for i, sub := range g.genes {
		tokens[i] = escape(Encode(sub))
	}
	return compositeHeading + strings.Join(tokens, compositeDelimiter) + compositeClosing
}

// SetValueFromPersistentRepresentation decodes onto the existing sub-gene structure
func (g *CompositeGene) SetValueFromPersistentRepresentation(representation string) error {
	if !strings.HasPrefix(representation, compositeHeading) || !strings.HasSuffix(representation, compositeClosing) {
		return fmt.Errorf("%w: composite must be enclosed in %s%s", ErrRepresentation, compositeHeading, compositeClosing)
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(representation, compositeHeading), compositeClosing)
	var tokens []string
	if inner != "" {
		tokens = strings.Split(inner, compositeDelimiter)
	}
	if len(tokens) != len(g.genes) {
		return fmt.Errorf("%w: expected %d sub-genes, got %d", ErrRepresentation, len(g.genes), len(tokens))
	}
	next := make([]Gene, len(g.genes))
	for i, token := range tokens {
		raw, err := unescape(token)
		if err != nil {
			return err
		}
		c := g.genes[i].NewGene()
		if err := DecodeInto(c, raw); err != nil {
			return fmt.Errorf("sub-gene %d: %w", i, err)
		}
		next[i] = c
	}
	g.genes = next
	return nil
}

func (g *CompositeGene) String() string {
	parts := make([]string, len(g.genes))
	for i, sub := range g.genes {
		parts[i] = sub.String()
	}
	return KindComposite + "(" + strings.Join(parts, ", ") + ")"
}
