package neural

import (
	"math"
	"math/rand"
	"reflect"
	"testing"
)

func newTestPredictor(seed int64) *Predictor {
	return New(3, 4, 2, rand.New(rand.NewSource(seed)))
}

func TestForwardOutputsInOpenUnitInterval(t *testing.T) {
	p := newTestPredictor(1)

	out := p.Forward([]float64{0.5, -0.25, 1.0})
	if len(out) != 2 {
		t.Fatalf("output length = %d, want 2", len(out))
	}
	for i, v := range out {
		if v <= 0 || v >= 1 {
			t.Fatalf("output[%d] = %v, want in (0,1)", i, v)
		}
	}
}

func TestForwardSizeMismatchYieldsZeroVector(t *testing.T) {
	p := newTestPredictor(1)

	for _, input := range [][]float64{nil, {1}, {1, 2, 3, 4}} {
		out := p.Forward(input)
		if len(out) != 2 {
			t.Fatalf("output length = %d, want 2", len(out))
		}
		for i, v := range out {
			if v != 0 {
				t.Fatalf("input len %d: output[%d] = %v, want 0", len(input), i, v)
			}
		}
	}
}

func TestTrainSizeMismatchIsNoOp(t *testing.T) {
	p := newTestPredictor(1)
	before := p.Snapshot()

	p.Train([]float64{1, 2}, []float64{0.5, 0.5}, 0.1)
	p.Train([]float64{1, 2, 3}, []float64{0.5}, 0.1)

	if !reflect.DeepEqual(before, p.Snapshot()) {
		t.Fatalf("weights changed on mismatched train call")
	}
	if p.Trained() {
		t.Fatalf("trained flag set by no-op train")
	}
}

func TestTrainUpdatesOutputLayerOnly(t *testing.T) {
	p := newTestPredictor(2)
	before := p.Snapshot()

	p.Train([]float64{0.1, 0.2, 0.3}, []float64{0.9, 0.1}, 0.5)
	after := p.Snapshot()

	if !reflect.DeepEqual(before.HiddenWeights, after.HiddenWeights) {
		t.Fatalf("hidden weights changed; the hidden layer is frozen by contract")
	}
	if !reflect.DeepEqual(before.HiddenBias, after.HiddenBias) {
		t.Fatalf("hidden bias changed; the hidden layer is frozen by contract")
	}
	if reflect.DeepEqual(before.OutputWeights, after.OutputWeights) {
		t.Fatalf("output weights unchanged after train")
	}
	if !p.Trained() {
		t.Fatalf("trained flag not set")
	}
}

func TestTrainReducesError(t *testing.T) {
	p := newTestPredictor(3)
	input := []float64{0.4, -0.3, 0.8}
	target := []float64{0.9, 0.2}

	errBefore := outputError(p.Forward(input), target)
	for i := 0; i < 200; i++ {
		p.Train(input, target, 0.1)
	}
	errAfter := outputError(p.Forward(input), target)

	if errAfter >= errBefore {
		t.Fatalf("training did not reduce error: %v -> %v", errBefore, errAfter)
	}
}

func TestSameSeedSameWeights(t *testing.T) {
	a := newTestPredictor(42)
	b := newTestPredictor(42)

	if !reflect.DeepEqual(a.Snapshot(), b.Snapshot()) {
		t.Fatalf("identical seeds produced different weights")
	}
}

func TestSnapshotRestoreRoundtrip(t *testing.T) {
	a := newTestPredictor(4)
	a.Train([]float64{0.1, 0.2, 0.3}, []float64{0.5, 0.5}, 0.1)

	b := newTestPredictor(99)
	if err := b.Restore(a.Snapshot()); err != nil {
		t.Fatalf("restore: %v", err)
	}

	input := []float64{0.7, -0.1, 0.4}
	if !reflect.DeepEqual(a.Forward(input), b.Forward(input)) {
		t.Fatalf("restored predictor diverges from source")
	}
	if !b.Trained() {
		t.Fatalf("trained flag not carried by snapshot")
	}
}

func TestRestoreRejectsWrongTopology(t *testing.T) {
	a := newTestPredictor(5)
	other := New(4, 4, 2, rand.New(rand.NewSource(5)))

	if err := a.Restore(other.Snapshot()); err == nil {
		t.Fatalf("expected topology mismatch error")
	}

	s := a.Snapshot()
	s.HiddenWeights = s.HiddenWeights[:1]
	if err := a.Restore(s); err == nil {
		t.Fatalf("expected dimension mismatch error")
	}
}

func TestResetClearsTrainedFlag(t *testing.T) {
	p := newTestPredictor(6)
	p.Train([]float64{0.1, 0.2, 0.3}, []float64{0.5, 0.5}, 0.1)
	if !p.Trained() {
		t.Fatalf("expected trained flag after train")
	}

	p.Reset()
	if p.Trained() {
		t.Fatalf("reset did not clear trained flag")
	}
}

func outputError(out, target []float64) float64 {
	sum := 0.0
	for i := range out {
		sum += math.Abs(target[i] - out[i])
	}
	return sum
}
