package ga

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"gaengine/internal/gene"
	"gaengine/internal/rng"
)

// GeneDelimiter separates encoded genes in a chromosome representation.
const GeneDelimiter = "#"

// Chromosome is an ordered, non-empty sequence of genes plus the bookkeeping
// the breeder needs: cached fitness, age, and lineage.
type Chromosome struct {
	conf       *Configuration
	genes      []gene.Gene
	fitness    float64
	age        int
	operatedOn int
	selected   bool
	uniqueID   string
	templates  [2]string
	appData    any
}

func NewChromosome(conf *Configuration, genes []gene.Gene) (*Chromosome, error) {
	if len(genes) == 0 {
		return nil, fmt.Errorf("%w: chromosome needs at least one gene", ErrInvalidArgument)
	}
	for i, g := range genes {
		if g == nil {
			return nil, fmt.Errorf("%w: gene %d is nil", ErrInvalidArgument, i)
		}
	}
	c := &Chromosome{conf: conf, genes: genes, fitness: NoFitnessValue}
	c.assignUniqueID()
	return c, nil
}

func (c *Chromosome) assignUniqueID() {
	if c.conf != nil && c.conf.uniqueKeys != nil {
		c.uniqueID = c.conf.uniqueKeys.NewKey()
	}
}

func (c *Chromosome) Configuration() *Configuration { return c.conf }

func (c *Chromosome) Size() int { return len(c.genes) }

func (c *Chromosome) Gene(i int) gene.Gene { return c.genes[i] }

// Genes returns a copy of the gene slice; the genes themselves are shared.
func (c *Chromosome) Genes() []gene.Gene { return append([]gene.Gene(nil), c.genes...) }

// SetGenes replaces all genes and invalidates the cached fitness
func (c *Chromosome) SetGenes(genes []gene.Gene) error {
	if len(genes) == 0 {
		return fmt.Errorf("%w: chromosome needs at least one gene", ErrInvalidArgument)
	}
	c.genes = genes
	c.fitness = NoFitnessValue
	return nil
}

// FitnessValue returns the cached fitness, computing it with the configured
// fitness function on first use.
func (c *Chromosome) FitnessValue() (float64, error) {
	if c.fitness != NoFitnessValue {
		return c.fitness, nil
	}
	if c.conf == nil {
		return NoFitnessValue, ErrNoFitnessFunction
	}
	ff := c.conf.fitnessFunc
	if ff == nil {
		if c.conf.bulkFitness != nil {
			return c.fitness, nil
		}
		return NoFitnessValue, ErrNoFitnessFunction
	}
	v := ff.Evaluate(c)
	if v < 0 || math.IsNaN(v) {
		return NoFitnessValue, fmt.Errorf("%w: got %v", ErrNegativeFitness, v)
	}
	c.fitness = v
	return v, nil
}

// FitnessValueDirectly returns the cached fitness without computing it
func (c *Chromosome) FitnessValueDirectly() float64 { return c.fitness }

// SetFitnessValue stores a fitness computed elsewhere, e.g. by a bulk function.
func (c *Chromosome) SetFitnessValue(v float64) error {
	if v < 0 || math.IsNaN(v) {
		return fmt.Errorf("%w: got %v", ErrNegativeFitness, v)
	}
	c.fitness = v
	return nil
}

func (c *Chromosome) invalidateFitness() { c.fitness = NoFitnessValue }

func (c *Chromosome) Age() int { return c.age }
func (c *Chromosome) IncreaseAge() { c.age++ }
func (c *Chromosome) ResetAge() { c.age = 0 }
func (c *Chromosome) OperatedOn() int { return c.operatedOn }

func (c *Chromosome) IncreaseOperatedOn() { c.operatedOn++ }
func (c *Chromosome) ResetOperatedOn() { c.operatedOn = 0 }

func (c *Chromosome) IsSelectedForNextGeneration() bool { return c.selected }

func (c *Chromosome) SetSelectedForNextGeneration(selected bool) { c.selected = selected }

// UniqueID is empty unless the configuration has a UniqueKeyProvider.
func (c *Chromosome) UniqueID() string { return c.uniqueID }

// UniqueIDTemplate returns the id of parent 0 or 1, set by cloning and crossover.
func (c *Chromosome) UniqueIDTemplate(index int) string { return c.templates[index] }

func (c *Chromosome) SetUniqueIDTemplate(id string, index int) { c.templates[index] = id }

func (c *Chromosome) ApplicationData() any { return c.appData }

func (c *Chromosome) SetApplicationData(data any) { c.appData = data }

// Clone deep-copies the genes and carries over fitness, age and application data.
// The clone gets a fresh unique id and records the source id as template 0.
func (c *Chromosome) Clone() *Chromosome {
	genes := make([]gene.Gene, len(c.genes))
	for i, g := range c.genes {
		genes[i] = g.Clone()
	}
	cp := &Chromosome{
		conf:       c.conf,
		genes:      genes,
		fitness:    c.fitness,
		age:        c.age,
		operatedOn: c.operatedOn,
		appData:    c.appData,
	}
	cp.assignUniqueID()
	cp.templates[0] = c.uniqueID
	return cp
}

// RandomChromosome builds a chromosome with the same gene layout and random alleles.
func (c *Chromosome) RandomChromosome(src rng.Source) *Chromosome {
	genes := make([]gene.Gene, len(c.genes))
	for i, g := range c.genes {
		genes[i] = g.NewGene()
		genes[i].SetToRandomValue(src)
	}
	out := &Chromosome{conf: c.conf, genes: genes, fitness: NoFitnessValue}
	out.assignUniqueID()
	return out
}

// Compare orders gene by gene, then by size.
func (c *Chromosome) Compare(other *Chromosome) int {
	if other == nil {
		return 1
	}
	for i := 0; i < len(c.genes) && i < len(other.genes); i++ {
		if r := c.genes[i].Compare(other.genes[i]); r != 0 {
			return r
		}
	}
	switch {
	case len(c.genes) < len(other.genes):
		return -1
	case len(c.genes) > len(other.genes):
		return 1
	}
	return 0
}

func (c *Chromosome) Equal(other *Chromosome) bool { return c.Compare(other) == 0 }

// PersistentRepresentation encodes every gene as kind|repr, escaped and joined by GeneDelimiter.
func (c *Chromosome) PersistentRepresentation() string {
	tokens := make([]string, len(c.genes))
	for i, g := range c.genes {
		tokens[i] = url.QueryEscape(gene.Encode(g))
	}
	return strings.Join(tokens, GeneDelimiter)
}

// SetValueFromPersistentRepresentation decodes onto the current gene layout.
// The chromosome is untouched when any gene fails to decode.
func (c *Chromosome) SetValueFromPersistentRepresentation(representation string) error {
	tokens := strings.Split(representation, GeneDelimiter)
	if len(tokens) != len(c.genes) {
		return fmt.Errorf("%w: expected %d genes, got %d", gene.ErrRepresentation, len(c.genes), len(tokens))
	}
	next := make([]gene.Gene, len(c.genes))
	for i, token := range tokens {
		raw, err := url.QueryUnescape(token)
		if err != nil {
			return fmt.Errorf("%w: gene %d: %v", gene.ErrRepresentation, i, err)
		}
		g := c.genes[i].NewGene()
		if err := gene.DecodeInto(g, raw); err != nil {
			return fmt.Errorf("gene %d: %w", i, err)
		}
		next[i] = g
	}
	c.genes = next
	c.fitness = NoFitnessValue
	return nil
}

func (c *Chromosome) String() string {
	parts := make([]string, len(c.genes))
	for i, g := range c.genes {
		parts[i] = g.String()
	}
	return fmt.Sprintf("[%s] fitness=%g age=%d", strings.Join(parts, ", "), c.fitness, c.age)
}
