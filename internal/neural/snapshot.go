package neural

import (
	"errors"
	"fmt"
)

var ErrBadSnapshot = errors.New("neural: malformed snapshot")

// Snapshot is the serializable form of a predictor's learned state.
type Snapshot struct {
	InputSize  int `json:"inputSize"`
	HiddenSize int `json:"hiddenSize"`
	OutputSize int `json:"outputSize"`

	HiddenWeights [][]float64 `json:"hiddenWeights"`
	OutputWeights [][]float64 `json:"outputWeights"`
	HiddenBias    []float64   `json:"hiddenBias"`
	OutputBias    []float64   `json:"outputBias"`

	Trained bool `json:"trained"`
}

// Snapshot copies out the full weight state.
func (p *Predictor) Snapshot() Snapshot {
	return Snapshot{
		InputSize:     p.inputSize,
		HiddenSize:    p.hiddenSize,
		OutputSize:    p.outputSize,
		HiddenWeights: copyMatrix(p.hiddenWeights),
		OutputWeights: copyMatrix(p.outputWeights),
		HiddenBias:    append([]float64(nil), p.hiddenBias...),
		OutputBias:    append([]float64(nil), p.outputBias...),
		Trained:       p.trained,
	}
}

// Restore replaces the predictor's weights with the snapshot's. The snapshot
// topology must match the predictor's declared sizes.
func (p *Predictor) Restore(s Snapshot) error {
	if s.InputSize != p.inputSize || s.HiddenSize != p.hiddenSize || s.OutputSize != p.outputSize {
		return fmt.Errorf("%w: topology %dx%dx%d, want %dx%dx%d",
			ErrBadSnapshot, s.InputSize, s.HiddenSize, s.OutputSize,
			p.inputSize, p.hiddenSize, p.outputSize)
	}
	if len(s.HiddenWeights) != s.HiddenSize || len(s.OutputWeights) != s.OutputSize ||
		len(s.HiddenBias) != s.HiddenSize || len(s.OutputBias) != s.OutputSize {
		return fmt.Errorf("%w: weight dimensions do not match declared topology", ErrBadSnapshot)
	}
	for _, row := range s.HiddenWeights {
		if len(row) != s.InputSize {
			return fmt.Errorf("%w: hidden weight row width %d, want %d", ErrBadSnapshot, len(row), s.InputSize)
		}
	}
	for _, row := range s.OutputWeights {
		if len(row) != s.HiddenSize {
			return fmt.Errorf("%w: output weight row width %d, want %d", ErrBadSnapshot, len(row), s.HiddenSize)
		}
	}

	p.hiddenWeights = copyMatrix(s.HiddenWeights)
	p.outputWeights = copyMatrix(s.OutputWeights)
	p.hiddenBias = append([]float64(nil), s.HiddenBias...)
	p.outputBias = append([]float64(nil), s.OutputBias...)
	p.trained = s.Trained
	return nil
}

func copyMatrix(m [][]float64) [][]float64 {
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = append([]float64(nil), row...)
	}
	return out
}
