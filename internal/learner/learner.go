// Package learner owns the bounded pilot-behavior history and the retrain
// cadence around the neural predictor.
//
// Ownership boundary:
// - sample history (bounded, FIFO)
//
// - retrain scheduling state
//
// - predictor weights (via internal/neural)
//
// The learner never touches flight mode or system health; the core forwards
// samples to it and the driver runs retrain passes on its own cadence.
package learner

import (
	"math/rand"

	"github.com/katya-aviation/neurofcc/internal/fcc"
	"github.com/katya-aviation/neurofcc/internal/neural"
)

const (
	featureSize = 10
	hiddenSize  = 20
	axisCount   = 5
)

// Config bounds the history and sets the retrain cadence.
type Config struct {
	// HistoryCap is the sliding-window size; the oldest sample is evicted
	// when a new one would exceed it.
	HistoryCap int
	// RetrainEvery marks a retrain due each time the sample counter crosses
	// a multiple of it, once WarmupSamples have been seen.
	RetrainEvery int
	// WarmupSamples gates the periodic retrain marking.
	WarmupSamples int
	// MinSessionSamples is the floor below which LearnFromSession is a no-op.
	MinSessionSamples int
	// SessionWindow caps how many recent samples one retrain pass consumes.
	SessionWindow int
	// ReadySamples gates predictions: until the counter exceeds it, Predict
	// returns the neutral vector.
	ReadySamples int
	// LearningRate for each gradient step.
	LearningRate float64
}

func DefaultConfig() Config {
	return Config{
		HistoryCap:        10000,
		RetrainEvery:      100,
		WarmupSamples:     500,
		MinSessionSamples: 100,
		SessionWindow:     1000,
		ReadySamples:      1000,
		LearningRate:      0.01,
	}
}

type sample struct {
	input fcc.PilotInput
	state fcc.AircraftState
}

// Learner records (pilot input, aircraft state) pairs and periodically fits
// the predictor to them.
type Learner struct {
	cfg       Config
	predictor *neural.Predictor

	history    []sample
	samples    int
	retrainDue bool
	trained    bool

	aggression float64
}

// New builds a learner with a freshly initialized predictor. The random
// source seeds the weight init so sessions are reproducible.
func New(cfg Config, rng *rand.Rand) *Learner {
	return &Learner{
		cfg:        cfg,
		predictor:  neural.New(featureSize, hiddenSize, axisCount, rng),
		aggression: 0.5,
	}
}

// Observe appends one sample to the bounded history. Retraining is never run
// inline here; once the counter clears the warmup it is only marked due every
// RetrainEvery samples, and the driver runs the pass off the hot path.
func (l *Learner) Observe(input fcc.PilotInput, state fcc.AircraftState) {
	l.history = append(l.history, sample{input: input, state: state})
	l.samples++

	if len(l.history) > l.cfg.HistoryCap {
		l.history = l.history[1:]
	}

	if l.samples > l.cfg.WarmupSamples && l.samples%l.cfg.RetrainEvery == 0 {
		l.retrainDue = true
	}
}

// RetrainDue reports whether a scheduled retrain pass is pending.
func (l *Learner) RetrainDue() bool { return l.retrainDue }

// LearnFromSession fits the predictor to the most recent SessionWindow
// samples. With fewer than MinSessionSamples recorded it does nothing.
func (l *Learner) LearnFromSession() {
	if len(l.history) < l.cfg.MinSessionSamples {
		return
	}

	start := len(l.history) - l.cfg.SessionWindow
	if start < 0 {
		start = 0
	}

	for _, s := range l.history[start:] {
		l.predictor.Train(extractFeatures(s.state), normalizeInput(s.input), l.cfg.LearningRate)
	}

	l.trained = true
	l.retrainDue = false
}

// Predict returns the modeled pilot axes for the given state, or the neutral
// all-zero vector until the learner is ready. Readiness is a pure sample
// count threshold, independent of whether a retrain pass has actually run.
func (l *Learner) Predict(state fcc.AircraftState) []float64 {
	if !l.Ready() {
		return make([]float64, axisCount)
	}
	return l.predictor.Forward(extractFeatures(state))
}

// Ready reports whether enough samples have been recorded for predictions.
func (l *Learner) Ready() bool { return l.samples > l.cfg.ReadySamples }

// Trained reports whether at least one retrain pass has executed. Distinct
// from Ready: the two may diverge.
func (l *Learner) Trained() bool { return l.trained }

// Samples returns the lifetime sample counter.
func (l *Learner) Samples() int { return l.samples }

// SetAggression clamps and stores the pilot aggression factor. It is not yet
// consumed by any control law; it is an extension point for law tuning.
func (l *Learner) SetAggression(factor float64) {
	if factor < 0 {
		factor = 0
	}
	if factor > 1 {
		factor = 1
	}
	l.aggression = factor
}

// Aggression returns the stored aggression factor.
func (l *Learner) Aggression() float64 { return l.aggression }

func extractFeatures(state fcc.AircraftState) []float64 {
	return []float64{
		state.Roll,
		state.Pitch,
		state.Yaw,
		state.RollRate,
		state.PitchRate,
		state.YawRate,
		state.Airspeed / 100.0,
		state.Altitude / 10000.0,
		state.VerticalSpeed / 10.0,
		state.LoadFactor,
	}
}

func normalizeInput(input fcc.PilotInput) []float64 {
	return []float64{
		input.StickX,
		input.StickY,
		input.RudderPedal,
		input.ThrottleLever,
		input.FlapLever,
	}
}
