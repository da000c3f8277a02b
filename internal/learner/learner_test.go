package learner

import (
	"math/rand"
	"testing"

	"github.com/katya-aviation/neurofcc/internal/fcc"
)

func newTestLearner(cfg Config, seed int64) *Learner {
	return New(cfg, rand.New(rand.NewSource(seed)))
}

func sampleState(i int) fcc.AircraftState {
	return fcc.AircraftState{
		Roll:       float64(i%10) * 0.05,
		Pitch:      0.1,
		Airspeed:   120,
		Altitude:   3000,
		LoadFactor: 1.1,
	}
}

func sampleInput(i int) fcc.PilotInput {
	return fcc.PilotInput{
		StickX:        float64(i%5) * 0.1,
		StickY:        -0.2,
		ThrottleLever: 0.6,
	}
}

func observeN(l *Learner, n int) {
	for i := 0; i < n; i++ {
		l.Observe(sampleInput(i), sampleState(i))
	}
}

func TestPredictNeutralUntilReady(t *testing.T) {
	l := newTestLearner(DefaultConfig(), 1)

	observeN(l, 1000)
	if l.Ready() {
		t.Fatalf("ready at exactly 1000 samples; threshold is exclusive")
	}
	out := l.Predict(sampleState(0))
	if len(out) != 5 {
		t.Fatalf("prediction length = %d, want 5", len(out))
	}
	for i, v := range out {
		if v != 0 {
			t.Fatalf("prediction[%d] = %v before readiness, want 0", i, v)
		}
	}

	observeN(l, 1)
	if !l.Ready() {
		t.Fatalf("expected readiness past 1000 samples")
	}
	out = l.Predict(sampleState(0))
	nonTrivial := false
	for _, v := range out {
		if v != 0 {
			nonTrivial = true
		}
	}
	if !nonTrivial {
		t.Fatalf("expected non-trivial prediction once ready, got %v", out)
	}
}

func TestReadinessIndependentOfTraining(t *testing.T) {
	cfg := DefaultConfig()
	// Push the periodic retrain far out so no pass runs during the test.
	cfg.WarmupSamples = 100000
	l := newTestLearner(cfg, 1)

	observeN(l, 1001)

	if !l.Ready() {
		t.Fatalf("expected readiness from sample count alone")
	}
	if l.Trained() {
		t.Fatalf("no retrain pass ran; trained must be false")
	}
}

func TestHistoryEvictsFIFO(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HistoryCap = 10
	l := newTestLearner(cfg, 1)

	observeN(l, 25)

	if len(l.history) != 10 {
		t.Fatalf("history length = %d, want cap 10", len(l.history))
	}
	// Oldest retained sample is number 15 (0-indexed).
	if got, want := l.history[0].input.StickX, sampleInput(15).StickX; got != want {
		t.Fatalf("oldest retained stick_x = %v, want %v", got, want)
	}
	if l.Samples() != 25 {
		t.Fatalf("sample counter = %d, want lifetime 25", l.Samples())
	}
}

func TestRetrainCadence(t *testing.T) {
	l := newTestLearner(DefaultConfig(), 1)

	observeN(l, 500)
	if l.RetrainDue() {
		t.Fatalf("retrain due during warmup")
	}

	observeN(l, 100) // counter 600: past warmup, on the cadence
	if !l.RetrainDue() {
		t.Fatalf("expected retrain due at 600 samples")
	}

	l.LearnFromSession()
	if l.RetrainDue() {
		t.Fatalf("session did not clear the due flag")
	}
	if !l.Trained() {
		t.Fatalf("session did not mark the model trained")
	}
}

func TestLearnFromSessionNoOpUnderMinimum(t *testing.T) {
	l := newTestLearner(DefaultConfig(), 1)

	observeN(l, 99)
	l.LearnFromSession()

	if l.Trained() {
		t.Fatalf("session ran under the minimum sample floor")
	}
}

func TestSetAggressionClamps(t *testing.T) {
	l := newTestLearner(DefaultConfig(), 1)

	l.SetAggression(1.7)
	if l.Aggression() != 1.0 {
		t.Fatalf("aggression = %v, want clamp to 1.0", l.Aggression())
	}
	l.SetAggression(-0.3)
	if l.Aggression() != 0.0 {
		t.Fatalf("aggression = %v, want clamp to 0.0", l.Aggression())
	}
	l.SetAggression(0.4)
	if l.Aggression() != 0.4 {
		t.Fatalf("aggression = %v, want 0.4", l.Aggression())
	}
}
