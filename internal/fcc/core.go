// Package fcc owns the flight-control decision core.
//
// Ownership boundary:
// - flight mode state machine
//
// - per-mode control law dispatch
//
// - system confidence and the bounded warning log
//
// The core is single-threaded by contract: the driver calls ProcessControl
// exactly once per tick from one control-loop context. No internal locking
// is provided or required under that discipline.
package fcc

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/katya-aviation/neurofcc/internal/observability"
)

// BehaviorLearner is the narrow surface the core needs from the pilot
// behavior learner. The concrete implementation lives in internal/learner.
type BehaviorLearner interface {
	Observe(input PilotInput, state AircraftState)
	Predict(state AircraftState) []float64
	Ready() bool
	RetrainDue() bool
	LearnFromSession()
}

// nopLearner stands in when no learner is wired; it never becomes ready.
type nopLearner struct{}

func (nopLearner) Observe(PilotInput, AircraftState) {}
func (nopLearner) Predict(AircraftState) []float64  { return make([]float64, 5) }
func (nopLearner) Ready() bool                      { return false }
func (nopLearner) RetrainDue() bool                 { return false }
func (nopLearner) LearnFromSession()                {}

// Config tunes the core. Zero values are filled by DefaultConfig.
type Config struct {
	// LatencyBudget is the soft per-tick budget. Overruns append a warning
	// and decay confidence; they never abort the tick.
	LatencyBudget time.Duration
	// MaxWarnings bounds the warning log; on overflow the oldest half is
	// evicted.
	MaxWarnings int
	// MaxLoadFactor is the g-load above which assisted mode halves elevator
	// authority.
	MaxLoadFactor float64
	// MinSafeAirspeed is the airspeed below which assisted mode floors the
	// flaps.
	MinSafeAirspeed float64

	// Learner receives manual-mode samples when learning is enabled. Nil
	// means no behavior learning.
	Learner BehaviorLearner

	Logger zerolog.Logger
}

func DefaultConfig() Config {
	return Config{
		LatencyBudget:   2 * time.Millisecond,
		MaxWarnings:     100,
		MaxLoadFactor:   2.5,
		MinSafeAirspeed: 50.0,
		Logger:          zerolog.Nop(),
	}
}

func (c Config) Validate() error {
	if c.LatencyBudget <= 0 {
		return fmt.Errorf("fcc: latency budget must be positive, got %v", c.LatencyBudget)
	}
	if c.MaxWarnings < 2 {
		return fmt.Errorf("fcc: max warnings must be at least 2, got %d", c.MaxWarnings)
	}
	if c.MaxLoadFactor <= 0 {
		return fmt.Errorf("fcc: max load factor must be positive, got %v", c.MaxLoadFactor)
	}
	if c.MinSafeAirspeed < 0 {
		return fmt.Errorf("fcc: min safe airspeed must not be negative, got %v", c.MinSafeAirspeed)
	}
	return nil
}

// Core is the flight-control decision core. Construct one per flight session.
type Core struct {
	cfg     Config
	log     zerolog.Logger
	learner BehaviorLearner

	mode            FlightMode
	emergencyActive bool
	emergencyReason string
	learningEnabled bool

	confidence float64
	warnings   []string

	now func() time.Time
}

// NewCore validates the config and builds an initialized core: manual mode,
// learning enabled, full confidence, empty warning log.
func NewCore(cfg Config) (*Core, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	l := cfg.Learner
	if l == nil {
		l = nopLearner{}
	}
	c := &Core{
		cfg:             cfg,
		log:             cfg.Logger,
		learner:         l,
		mode:            ModeManual,
		learningEnabled: true,
		confidence:      1.0,
		now:             time.Now,
	}
	observability.SetFlightMode(string(c.mode))
	c.log.Info().Str("mode", string(c.mode)).Msg("flight control core initialized")
	return c, nil
}

// SetMode changes the active control law. Requesting Emergency delegates to
// TriggerEmergency; any other mode clears the emergency flag.
func (c *Core) SetMode(mode FlightMode) {
	if mode == ModeEmergency {
		c.TriggerEmergency("manual emergency activation")
		return
	}
	c.mode = mode
	c.emergencyActive = false
	observability.SetFlightMode(string(mode))
	c.log.Info().Str("mode", string(mode)).Msg("flight mode changed")
}

// Mode returns the active flight mode.
func (c *Core) Mode() FlightMode { return c.mode }

// TriggerEmergency forces emergency mode, halves confidence and records the
// reason. Safe to call while already in emergency.
func (c *Core) TriggerEmergency(reason string) {
	c.emergencyActive = true
	c.emergencyReason = reason
	c.mode = ModeEmergency
	c.appendWarning("EMERGENCY: " + reason)
	c.confidence = clampConfidence(c.confidence * 0.5)
	observability.SetFlightMode(string(ModeEmergency))
	observability.RecordEmergency(reason)
	c.log.Warn().Str("reason", reason).Msg("emergency mode triggered")
}

// ClearEmergency returns the aircraft to assisted mode. There is no path
// back to the mode that was active before the emergency.
func (c *Core) ClearEmergency() {
	c.emergencyActive = false
	c.mode = ModeAssisted
	observability.SetFlightMode(string(ModeAssisted))
	c.log.Info().Msg("emergency cleared, returning to assisted mode")
}

// EmergencyActive reports whether the emergency flag is set.
func (c *Core) EmergencyActive() bool { return c.emergencyActive }

// EmergencyReason returns the reason recorded by the most recent trigger.
func (c *Core) EmergencyReason() string { return c.emergencyReason }

// EnableLearning toggles forwarding of manual-mode samples to the learner.
func (c *Core) EnableLearning(enable bool) {
	c.learningEnabled = enable
	c.log.Info().Bool("enabled", enable).Msg("behavior learning toggled")
}

// LearningEnabled reports whether samples are forwarded to the learner.
func (c *Core) LearningEnabled() bool { return c.learningEnabled }

// ProcessControl runs one control tick: dispatch the active law, clamp the
// result, update health and feed the learner. Latency over budget is
// advisory only; the tick is never aborted or delayed.
func (c *Core) ProcessControl(state AircraftState, input PilotInput, traj TrajectoryCommand) SurfaceCommand {
	start := c.now()

	var cmd SurfaceCommand
	switch c.mode {
	case ModeManual:
		cmd = manualLaw(input)
	case ModeAssisted:
		cmd = c.assistedLaw(state, input)
	case ModeAutopilot:
		cmd = autopilotLaw(state, traj)
	case ModeNeuroAssist:
		cmd = c.neuroAssistLaw(state, input)
	case ModeEmergency:
		cmd = c.emergencyLaw(state)
	}

	cmd.Clamp()
	c.updateSystemHealth(cmd)

	if c.learningEnabled && c.mode == ModeManual {
		c.learner.Observe(input, state)
	}

	latency := c.now().Sub(start)
	if latency > c.cfg.LatencyBudget {
		c.appendWarning(fmt.Sprintf("high latency detected: %v", latency))
		c.confidence = clampConfidence(c.confidence * 0.99)
	}
	observability.RecordControlTick(string(c.mode), latency)

	return cmd
}

// Maintain runs a scheduled retrain pass if one is due. The driver calls it
// on its own cadence, outside the latency-budgeted tick path.
func (c *Core) Maintain() {
	if !c.learner.RetrainDue() {
		return
	}
	c.learner.LearnFromSession()
	c.log.Debug().Msg("behavior model retrained")
}

// CalibratePilotBehavior forces an immediate retrain pass.
func (c *Core) CalibratePilotBehavior() {
	c.learner.LearnFromSession()
	c.log.Info().Msg("pilot behavior calibration completed")
}

// SystemHealthy reports confidence above 0.7 with no active emergency.
func (c *Core) SystemHealthy() bool {
	return c.confidence > 0.7 && !c.emergencyActive
}

// Confidence returns the current system confidence in [0.1, 1.0].
func (c *Core) Confidence() float64 { return c.confidence }

// Warnings returns a copy of the warning log, most recent last.
func (c *Core) Warnings() []string {
	return append([]string(nil), c.warnings...)
}

func (c *Core) updateSystemHealth(cmd SurfaceCommand) {
	c.detectAnomalies(cmd)

	if len(c.warnings) == 0 {
		c.confidence = clampConfidence(c.confidence + 0.001)
	} else {
		c.confidence = clampConfidence(c.confidence - 0.01)
	}

	// Overflow evicts the oldest half, never the newest.
	if len(c.warnings) > c.cfg.MaxWarnings {
		c.warnings = append([]string(nil), c.warnings[c.cfg.MaxWarnings/2:]...)
	}
}

func (c *Core) detectAnomalies(cmd SurfaceCommand) {
	if math.Abs(cmd.AileronLeft) > 0.9 || math.Abs(cmd.AileronRight) > 0.9 {
		c.appendWarning("extreme aileron deflection detected")
	}
	if math.Abs(cmd.Elevator) > 0.9 {
		c.appendWarning("extreme elevator deflection detected")
	}
	if math.Abs(cmd.AileronLeft+cmd.AileronRight) > 0.1 {
		c.appendWarning("aileron asymmetry detected")
	}
}

func (c *Core) appendWarning(msg string) {
	c.warnings = append(c.warnings, msg)
	observability.RecordWarning()
}

func clampConfidence(v float64) float64 {
	return clamp(v, 0.1, 1.0)
}
