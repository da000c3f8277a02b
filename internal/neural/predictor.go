// Package neural implements the two-layer dense approximator behind the
// pilot-behavior model.
package neural

import (
	"math"
	"math/rand"
)

// Predictor is a fixed-topology two-layer network: tanh hidden layer,
// sigmoid output layer. Weights are mutated only by Train; callers never
// alias the internal matrices.
type Predictor struct {
	inputSize  int
	hiddenSize int
	outputSize int

	hiddenWeights [][]float64 // hiddenSize x inputSize
	outputWeights [][]float64 // outputSize x hiddenSize
	hiddenBias    []float64
	outputBias    []float64

	trained bool
}

// New builds a predictor with weights drawn uniformly from [-0.5, 0.5) using
// the supplied source. The source is required so fixtures can be reproduced.
func New(inputSize, hiddenSize, outputSize int, rng *rand.Rand) *Predictor {
	p := &Predictor{
		inputSize:     inputSize,
		hiddenSize:    hiddenSize,
		outputSize:    outputSize,
		hiddenWeights: make([][]float64, hiddenSize),
		outputWeights: make([][]float64, outputSize),
		hiddenBias:    make([]float64, hiddenSize),
		outputBias:    make([]float64, outputSize),
	}

	weight := func() float64 { return rng.Float64() - 0.5 }

	for i := 0; i < hiddenSize; i++ {
		p.hiddenWeights[i] = make([]float64, inputSize)
		for j := 0; j < inputSize; j++ {
			p.hiddenWeights[i][j] = weight()
		}
		p.hiddenBias[i] = weight()
	}

	for i := 0; i < outputSize; i++ {
		p.outputWeights[i] = make([]float64, hiddenSize)
		for j := 0; j < hiddenSize; j++ {
			p.outputWeights[i][j] = weight()
		}
		p.outputBias[i] = weight()
	}

	return p
}

// Forward runs one inference pass. A mismatched input length yields a zero
// vector of output size rather than an error; callers cannot distinguish
// "no opinion" from a bad call. This is a documented contract limitation,
// kept so downstream blending stays total.
func (p *Predictor) Forward(input []float64) []float64 {
	if len(input) != p.inputSize {
		return make([]float64, p.outputSize)
	}

	hidden := p.hiddenActivations(input)

	output := make([]float64, p.outputSize)
	for i := 0; i < p.outputSize; i++ {
		sum := p.outputBias[i]
		for j := 0; j < p.hiddenSize; j++ {
			sum += p.outputWeights[i][j] * hidden[j]
		}
		output[i] = sigmoid(sum)
	}
	return output
}

// Train applies a single-sample gradient step. Mismatched input or target
// lengths make it a no-op. Only the output layer is updated; the hidden
// layer stays frozen at its initialization. That asymmetry is deliberate and
// load-bearing for reproducibility of the shipped behavior model.
func (p *Predictor) Train(input, target []float64, rate float64) {
	if len(input) != p.inputSize || len(target) != p.outputSize {
		return
	}

	hidden := p.hiddenActivations(input)

	output := make([]float64, p.outputSize)
	for i := 0; i < p.outputSize; i++ {
		sum := p.outputBias[i]
		for j := 0; j < p.hiddenSize; j++ {
			sum += p.outputWeights[i][j] * hidden[j]
		}
		output[i] = sigmoid(sum)
	}

	for i := 0; i < p.outputSize; i++ {
		err := target[i] - output[i]
		delta := err * output[i] * (1.0 - output[i])
		for j := 0; j < p.hiddenSize; j++ {
			p.outputWeights[i][j] += rate * delta * hidden[j]
		}
		p.outputBias[i] += rate * delta
	}

	p.trained = true
}

func (p *Predictor) hiddenActivations(input []float64) []float64 {
	hidden := make([]float64, p.hiddenSize)
	for i := 0; i < p.hiddenSize; i++ {
		sum := p.hiddenBias[i]
		for j := 0; j < p.inputSize; j++ {
			sum += p.hiddenWeights[i][j] * input[j]
		}
		hidden[i] = math.Tanh(sum)
	}
	return hidden
}

// Trained reports whether at least one training step has been applied.
func (p *Predictor) Trained() bool { return p.trained }

// Reset clears the trained flag without touching the weights.
func (p *Predictor) Reset() { p.trained = false }

// InputSize returns the declared input width.
func (p *Predictor) InputSize() int { return p.inputSize }

// OutputSize returns the declared output width.
func (p *Predictor) OutputSize() int { return p.outputSize }

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
