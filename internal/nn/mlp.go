package nn

import (
	"fmt"
	"math"

	"gaengine/internal/rng"
)

// MLP is a small feedforward network whose weights are evolved rather than trained
type MLP struct {
	InputSize  int
	Hidden1    int
	Hidden2    int // 0 means no second hidden layer
	OutputSize int
	Activation string // relu|tanh|sigmoid, applied to hidden layers

	// Weights stored contiguously, bias first for every neuron
	Weights []float64

	// Pre-allocated buffers for forward pass
	h1  []float64
	h2  []float64
	out []float64

	act func(float64) float64
}

// NewMLP creates a new MLP with the given architecture
func NewMLP(inputSize, hidden1, hidden2, outputSize int, activation string) (*MLP, error) {
	act, err := activationFunc(activation)
	if err != nil {
		return nil, err
	}
	if inputSize < 1 || hidden1 < 1 || hidden2 < 0 || outputSize < 1 {
		return nil, fmt.Errorf("invalid layer sizes %d-%d-%d-%d", inputSize, hidden1, hidden2, outputSize)
	}
	m := &MLP{
		InputSize:  inputSize,
		Hidden1:    hidden1,
		Hidden2:    hidden2,
		OutputSize: outputSize,
		Activation: activation,
		act:        act,
	}

	m.Weights = make([]float64, m.GenomeSize())
	m.h1 = make([]float64, hidden1)
	if hidden2 > 0 {
		m.h2 = make([]float64, hidden2)
	}
	m.out = make([]float64, outputSize)
	return m, nil
}

func activationFunc(name string) (func(float64) float64, error) {
	switch name {
	case "", "relu":
		return relu, nil
	case "tanh":
		return math.Tanh, nil
	case "sigmoid":
		return Sigmoid, nil
	default:
		return nil, fmt.Errorf("unknown activation %q", name)
	}
}

// GenomeSize returns the total number of weights (including biases)
func (m *MLP) GenomeSize() int {
	return GenomeSize(m.InputSize, m.Hidden1, m.Hidden2, m.OutputSize)
}

// GenomeSize returns the weight count of a network without building it
func GenomeSize(inputSize, hidden1, hidden2, outputSize int) int {
	size := (inputSize + 1) * hidden1
	if hidden2 > 0 {
		size += (hidden1 + 1) * hidden2
		size += (hidden2 + 1) * outputSize
	} else {
		size += (hidden1 + 1) * outputSize
	}
	return size
}

// SetWeights copies genome into the network weights
func (m *MLP) SetWeights(genome []float64) error {
	if len(genome) != len(m.Weights) {
		return fmt.Errorf("genome has %d weights, network needs %d", len(genome), len(m.Weights))
	}
	copy(m.Weights, genome)
	return nil
}

func (m *MLP) layer(in, out []float64, offset int, act func(float64) float64) int {
	for j := range out {
		sum := m.Weights[offset] // bias
		offset++
		for _, x := range in {
			sum += x * m.Weights[offset]
			offset++
		}
		out[j] = act(sum)
	}
	return offset
}

// ForwardRaw performs a forward pass and returns a copy of the raw outputs
func (m *MLP) ForwardRaw(input []float64) []float64 {
	offset := m.layer(input[:m.InputSize], m.h1, 0, m.act)
	last := m.h1
	if m.Hidden2 > 0 {
		offset = m.layer(m.h1, m.h2, offset, m.act)
		last = m.h2
	}
	m.layer(last, m.out, offset, identity)

	result := make([]float64, m.OutputSize)
	copy(result, m.out)
	return result
}

// Forward performs a forward pass and returns the output index with max value
func (m *MLP) Forward(input []float64) int {
	return argmax(m.ForwardRaw(input))
}

func relu(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

func identity(x float64) float64 { return x }

// Sigmoid squashes x into (0,1)
func Sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func argmax(vals []float64) int {
	maxIdx := 0
	for i := 1; i < len(vals); i++ {
		if vals[i] > vals[maxIdx] {
			maxIdx = i
		}
	}
	return maxIdx
}

// RandomGenome draws Xavier-like initial weights
func RandomGenome(size int, src rng.Source) []float64 {
	genome := make([]float64, size)
	scale := math.Sqrt(2.0 / float64(size))
	for i := range genome {
		genome[i] = src.NormFloat64() * scale
	}
	return genome
}
