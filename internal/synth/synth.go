// Package synth generates synthetic aircraft state and pilot input for the
// demo driver and for test fixtures. It is deliberately kept outside the
// core: the core never sees where its inputs come from, and a fixed seed
// reproduces a whole session.
package synth

import (
	"math/rand"
	"time"

	"github.com/katya-aviation/neurofcc/internal/fcc"
)

// Generator produces one (state, input) pair per tick from a seeded source.
type Generator struct {
	rng  *rand.Rand
	tick int
}

func New(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// uniform returns a value in [lo, hi).
func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

// Next advances one tick and returns a plausible airframe snapshot plus the
// matching pilot input. The flap lever follows a coarse schedule so the
// learner sees some configuration changes over a session.
func (g *Generator) Next(now time.Time) (fcc.AircraftState, fcc.PilotInput) {
	roll := g.uniform(-0.5, 0.5)

	state := fcc.AircraftState{
		Roll:          roll,
		Pitch:         g.uniform(-0.5, 0.5) * 0.3,
		Yaw:           g.uniform(-0.5, 0.5),
		RollRate:      g.uniform(-1, 1),
		PitchRate:     g.uniform(-1, 1) * 0.5,
		YawRate:       g.uniform(-1, 1) * 0.2,
		Airspeed:      g.uniform(50, 250),
		Altitude:      g.uniform(1000, 10000),
		VerticalSpeed: g.uniform(-1, 1) * 10.0,
		BankAngle:     roll,
	}
	if state.Roll < 0 {
		state.LoadFactor = 1.0 - state.Roll*0.5
	} else {
		state.LoadFactor = 1.0 + state.Roll*0.5
	}

	input := fcc.PilotInput{
		StickX:        g.uniform(-1, 1),
		StickY:        g.uniform(-1, 1),
		RudderPedal:   g.uniform(-1, 1) * 0.5,
		ThrottleLever: 0.5 + g.uniform(-1, 1)*0.5,
		FlapLever:     g.flapSchedule(),
		TS:            now,
	}

	g.tick++
	return state, input
}

// Tick returns the number of pairs generated so far.
func (g *Generator) Tick() int { return g.tick }

func (g *Generator) flapSchedule() float64 {
	if g.tick >= 200 && g.tick < 400 {
		return 0.3
	}
	return 0.0
}
