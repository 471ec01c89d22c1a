package eval

import (
	"fmt"
	"math"
	"strings"

	"gaengine/internal/ga"
	"gaengine/internal/gene"
	"gaengine/internal/nn"
)

const xorWeightBound = 5.0

var xorCases = [4]struct {
	in   []float64
	want float64
}{
	{[]float64{0, 0}, 0},
	{[]float64{0, 1}, 1},
	{[]float64{1, 0}, 1},
	{[]float64{1, 1}, 0},
}

// XOR evolves the weights of a 2-hidden-1 network, one DoubleGene per weight
type XOR struct {
	hidden int
	delta  bool
}

func NewXOR(hidden int, delta bool) (*XOR, error) {
	if hidden < 1 {
		return nil, fmt.Errorf("xor: hidden units must be positive, got %d", hidden)
	}
	return &XOR{hidden: hidden, delta: delta}, nil
}

func (p *XOR) Name() string { return "xor" }

func (p *XOR) network() *nn.MLP {
	m, _ := nn.NewMLP(2, p.hidden, 0, 1, "tanh")
	return m
}

func (p *XOR) Sample(conf *ga.Configuration) (*ga.Chromosome, error) {
	genes := make([]gene.Gene, nn.GenomeSize(2, p.hidden, 0, 1))
	for i := range genes {
		g, err := gene.NewDoubleGene(-xorWeightBound, xorWeightBound)
		if err != nil {
			return nil, err
		}
		genes[i] = g
	}
	return ga.NewChromosome(conf, genes)
}

// Perform starts every network from Xavier-like weights instead of uniform ones
func (p *XOR) Perform(sample *ga.Chromosome) (*ga.Chromosome, error) {
	conf := sample.Configuration()
	if conf == nil || conf.RandomGenerator() == nil {
		return nil, ga.ErrInvalidConfig
	}
	c := sample.RandomChromosome(conf.RandomGenerator())
	genes := c.Genes()
	for i, w := range nn.RandomGenome(len(genes), conf.RandomGenerator()) {
		if err := genes[i].SetAllele(math.Max(-xorWeightBound, math.Min(xorWeightBound, w))); err != nil {
			return nil, err
		}
	}
	if err := c.SetGenes(genes); err != nil {
		return nil, err
	}
	return c, nil
}

func (p *XOR) outputs(c *ga.Chromosome) []float64 {
	weights := make([]float64, c.Size())
	for i, g := range c.Genes() {
		weights[i] = g.(*gene.DoubleGene).Float64Value()
	}
	m := p.network()
	if err := m.SetWeights(weights); err != nil {
		return nil
	}
	out := make([]float64, len(xorCases))
	for i, tc := range xorCases {
		out[i] = nn.Sigmoid(m.ForwardRaw(tc.in)[0])
	}
	return out
}

// SquaredError sums the squared error over the four xor cases
func (p *XOR) SquaredError(c *ga.Chromosome) float64 {
	out := p.outputs(c)
	if out == nil {
		return float64(len(xorCases))
	}
	sum := 0.0
	for i, tc := range xorCases {
		d := out[i] - tc.want
		sum += d * d
	}
	return sum
}

func (p *XOR) Evaluate(c *ga.Chromosome) float64 {
	e := p.SquaredError(c)
	if p.delta {
		return e
	}
	return float64(len(xorCases)) - e
}

func (p *XOR) Describe(c *ga.Chromosome) string {
	out := p.outputs(c)
	parts := make([]string, len(xorCases))
	for i, tc := range xorCases {
		v := math.NaN()
		if out != nil {
			v = out[i]
		}
		parts[i] = fmt.Sprintf("%v->%.3f", tc.in, v)
	}
	return fmt.Sprintf("%s error %.4f", strings.Join(parts, " "), p.SquaredError(c))
}
