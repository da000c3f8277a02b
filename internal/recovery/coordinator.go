// Package recovery owns actuator failure detection and the recovery
// procedure.
//
// Ownership boundary:
// - per-channel surface health
//
// - failure cool-down and escalation
//
// The coordinator reaches the core only through the narrow ModeController
// capability handed to it at construction; it has no access to the learner
// or any other core internals.
package recovery

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/katya-aviation/neurofcc/internal/fcc"
	"github.com/katya-aviation/neurofcc/internal/observability"
)

// ModeController is the capability surface the coordinator holds on the
// flight-control core: mode set and emergency trigger, nothing else.
type ModeController interface {
	SetMode(mode fcc.FlightMode)
	TriggerEmergency(reason string)
}

// Channel identifies one of the seven monitored actuator channels.
type Channel int

const (
	ChannelAileronLeft Channel = iota
	ChannelAileronRight
	ChannelElevator
	ChannelRudder
	ChannelThrottle
	ChannelFlaps
	ChannelSpoilers

	channelCount = 7

	// sensedChannels bounds the effectiveness comparison: throttle, flaps
	// and spoilers have no response sensor, so those three channels are
	// permanently excluded from detection.
	sensedChannels = 4
)

func (c Channel) String() string {
	switch c {
	case ChannelAileronLeft:
		return "left_aileron"
	case ChannelAileronRight:
		return "right_aileron"
	case ChannelElevator:
		return "elevator"
	case ChannelRudder:
		return "rudder"
	case ChannelThrottle:
		return "throttle"
	case ChannelFlaps:
		return "flaps"
	case ChannelSpoilers:
		return "spoilers"
	}
	return "unknown"
}

func (c Channel) failureLabel() string {
	return c.String() + " failure"
}

// Config tunes failure detection.
type Config struct {
	// Tolerance is the allowed gap between expected and actual channel
	// response before the channel is declared failed.
	Tolerance float64
	// Cooldown is the delay between detecting a failure and running the
	// recovery procedure.
	Cooldown time.Duration

	Logger zerolog.Logger
}

func DefaultConfig() Config {
	return Config{
		Tolerance: 0.1,
		Cooldown:  2 * time.Second,
		Logger:    zerolog.Nop(),
	}
}

func (c Config) Validate() error {
	if c.Tolerance <= 0 {
		return fmt.Errorf("recovery: tolerance must be positive, got %v", c.Tolerance)
	}
	if c.Cooldown <= 0 {
		return fmt.Errorf("recovery: cooldown must be positive, got %v", c.Cooldown)
	}
	return nil
}

// Coordinator monitors actuator effectiveness and drives compensation and
// emergency escalation. One coordinator is constructed per flight session;
// it must be driven from the same serialized tick context as the core, after
// ProcessControl, since it consumes its output.
type Coordinator struct {
	cfg  Config
	ctrl ModeController
	log  zerolog.Logger

	healthy         [channelCount]bool
	failureDetected bool
	failureType     string
	detectedAt      time.Time

	now func() time.Time
}

// New builds a coordinator bound to the given mode controller.
func New(ctrl ModeController, cfg Config) (*Coordinator, error) {
	if ctrl == nil {
		return nil, fmt.Errorf("recovery: mode controller is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Coordinator{
		cfg:  cfg,
		ctrl: ctrl,
		log:  cfg.Logger,
		now:  time.Now,
	}
	for i := range c.healthy {
		c.healthy[i] = true
	}
	return c, nil
}

// DetectFailure compares the commanded deflections against the measured
// airframe response. A channel whose response diverges beyond tolerance is
// marked unhealthy once and triggers emergency mode; while the failure
// cool-down runs, further divergence on that channel is ignored. After the
// cool-down elapses the recovery procedure executes.
func (c *Coordinator) DetectFailure(state fcc.AircraftState, commanded fcc.SurfaceCommand) {
	c.analyzeEffectiveness(state, commanded)

	if c.failureDetected && c.now().Sub(c.detectedAt) > c.cfg.Cooldown {
		c.ExecuteRecoveryProcedure()
	}
}

func (c *Coordinator) analyzeEffectiveness(state fcc.AircraftState, cmd fcc.SurfaceCommand) {
	// Expected response scales with airspeed; actual response is read from
	// the body rates.
	expected := [sensedChannels]float64{
		cmd.AileronLeft * state.Airspeed * 0.1,  // roll rate
		cmd.AileronRight * state.Airspeed * 0.1, // roll rate, opposite sense
		cmd.Elevator * state.Airspeed * 0.05,    // pitch rate
		cmd.Rudder * state.Airspeed * 0.03,      // yaw rate
	}
	actual := [sensedChannels]float64{
		state.RollRate,
		-state.RollRate,
		state.PitchRate,
		state.YawRate,
	}

	for i := 0; i < sensedChannels; i++ {
		ch := Channel(i)
		gap := math.Abs(expected[i] - actual[i])
		if gap <= c.cfg.Tolerance || !c.healthy[i] {
			continue
		}

		c.healthy[i] = false
		c.failureDetected = true
		c.failureType = ch.failureLabel()
		c.detectedAt = c.now()

		observability.RecordSurfaceFailure(ch.String())
		c.log.Warn().
			Str("channel", ch.String()).
			Float64("gap", gap).
			Float64("tolerance", c.cfg.Tolerance).
			Msg("surface failure detected")
		c.ctrl.TriggerEmergency(c.failureType)
	}
}

// ExecuteRecoveryProcedure applies qualitative compensation for each
// unhealthy channel and, with more than two channels down, escalates to the
// emergency landing pattern. Afterwards every channel is reset to healthy
// and the failure flag cleared; persistent-failure tracking across recovery
// cycles is out of scope for the simulated fault model.
func (c *Coordinator) ExecuteRecoveryProcedure() {
	if !c.failureDetected {
		return
	}

	c.log.Info().Str("failure", c.failureType).Msg("executing recovery procedure")
	c.compensateForFailedSurfaces()

	if c.unhealthyCount() > 2 {
		c.executeEmergencyLanding()
	}

	c.failureDetected = false
	for i := range c.healthy {
		c.healthy[i] = true
	}
	observability.RecordRecoveryProcedure()
	c.log.Info().Msg("recovery procedure completed")
}

// compensateForFailedSurfaces logs the compensation strategy per failed
// channel. The strategies are advisory; actual reallocation of authority
// stays with the core's emergency law.
func (c *Coordinator) compensateForFailedSurfaces() {
	if !c.healthy[ChannelAileronLeft] || !c.healthy[ChannelAileronRight] {
		c.log.Info().Msg("compensating for aileron failure using differential thrust and rudder")
	}
	if !c.healthy[ChannelElevator] {
		c.log.Info().Msg("compensating for elevator failure using trim and throttle modulation")
	}
	if !c.healthy[ChannelRudder] {
		c.log.Info().Msg("compensating for rudder failure using aileron coordination")
	}
	if !c.healthy[ChannelThrottle] {
		c.log.Info().Msg("compensating for throttle failure using glide management")
	}
}

func (c *Coordinator) executeEmergencyLanding() {
	c.log.Warn().Int("failed_channels", c.unhealthyCount()).
		Msg("multiple surface failures, initiating emergency landing pattern")
	c.ctrl.SetMode(fcc.ModeEmergency)
}

func (c *Coordinator) unhealthyCount() int {
	n := 0
	for _, ok := range c.healthy {
		if !ok {
			n++
		}
	}
	return n
}

// FailureDetected reports whether an unrecovered failure is pending.
func (c *Coordinator) FailureDetected() bool { return c.failureDetected }

// FailureType returns the label of the most recent detection.
func (c *Coordinator) FailureType() string { return c.failureType }

// SurfaceHealth returns a copy of the per-channel health flags.
func (c *Coordinator) SurfaceHealth() []bool {
	out := make([]bool, channelCount)
	copy(out, c.healthy[:])
	return out
}

// SetTolerance adjusts the detection tolerance at runtime.
func (c *Coordinator) SetTolerance(tolerance float64) { c.cfg.Tolerance = tolerance }

// Tolerance returns the active detection tolerance.
func (c *Coordinator) Tolerance() float64 { return c.cfg.Tolerance }
