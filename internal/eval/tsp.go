package eval

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gaengine/internal/ga"
	"gaengine/internal/gene"
)

const tspRadius = 100.0

// TSP tours cities evenly spaced on a circle, so the optimal tour visits them
// in index order. Each gene holds a city index; city 0 always comes first.
type TSP struct {
	xs, ys []float64
	delta  bool
}

func NewTSP(cities int, delta bool) (*TSP, error) {
	if cities < 3 {
		return nil, fmt.Errorf("tsp: need at least 3 cities, got %d", cities)
	}
	p := &TSP{xs: make([]float64, cities), ys: make([]float64, cities), delta: delta}
	for i := range cities {
		angle := 2 * math.Pi * float64(i) / float64(cities)
		p.xs[i] = tspRadius * math.Cos(angle)
		p.ys[i] = tspRadius * math.Sin(angle)
	}
	return p, nil
}

func (p *TSP) Name() string { return "tsp" }

func (p *TSP) Cities() int { return len(p.xs) }

func (p *TSP) Sample(conf *ga.Configuration) (*ga.Chromosome, error) {
	genes := make([]gene.Gene, len(p.xs))
	for i := range genes {
		g, err := gene.NewIntegerGene(0, len(p.xs)-1)
		if err != nil {
			return nil, err
		}
		if err := g.SetAllele(i); err != nil {
			return nil, err
		}
		genes[i] = g
	}
	return ga.NewChromosome(conf, genes)
}

// Perform builds a random tour starting at city 0
func (p *TSP) Perform(sample *ga.Chromosome) (*ga.Chromosome, error) {
	conf := sample.Configuration()
	if conf == nil || conf.RandomGenerator() == nil {
		return nil, ga.ErrInvalidConfig
	}
	src := conf.RandomGenerator()

	order := make([]int, len(p.xs))
	for i := range order {
		order[i] = i
	}
	for i := len(order) - 1; i > 1; i-- {
		j := 1 + src.Intn(i)
		order[i], order[j] = order[j], order[i]
	}

	c := sample.RandomChromosome(src)
	genes := c.Genes()
	for i, city := range order {
		if err := genes[i].SetAllele(city); err != nil {
			return nil, err
		}
	}
	if err := c.SetGenes(genes); err != nil {
		return nil, err
	}
	return c, nil
}

func city(g gene.Gene) int { return g.(*gene.IntegerGene).IntValue() }

// Distance is the euclidean distance between the cities held by two genes
func (p *TSP) Distance(a, b gene.Gene) float64 {
	i, j := city(a), city(b)
	return math.Hypot(p.xs[i]-p.xs[j], p.ys[i]-p.ys[j])
}

// TourLength sums the closed tour through the chromosome's cities
func (p *TSP) TourLength(c *ga.Chromosome) float64 {
	genes := c.Genes()
	total := 0.0
	for i, g := range genes {
		total += p.Distance(g, genes[(i+1)%len(genes)])
	}
	return total
}

// Optimum is the length of the index-order tour
func (p *TSP) Optimum() float64 {
	n := float64(len(p.xs))
	return n * 2 * tspRadius * math.Sin(math.Pi/n)
}

func (p *TSP) Evaluate(c *ga.Chromosome) float64 {
	length := p.TourLength(c)
	if p.delta {
		return length
	}
	// no edge is longer than the diameter
	return math.Max(0, float64(len(p.xs))*2*tspRadius-length)
}

func (p *TSP) Describe(c *ga.Chromosome) string {
	stops := make([]string, c.Size())
	for i, g := range c.Genes() {
		stops[i] = strconv.Itoa(city(g))
	}
	return fmt.Sprintf("tour %s length %.2f (optimum %.2f)", strings.Join(stops, "-"), p.TourLength(c), p.Optimum())
}
