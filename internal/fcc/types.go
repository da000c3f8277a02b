package fcc

import "time"

// AircraftState is an immutable per-tick snapshot of the airframe, owned by
// the caller.
type AircraftState struct {
	Roll  float64 `json:"roll"`  // radians
	Pitch float64 `json:"pitch"` // radians
	Yaw   float64 `json:"yaw"`   // radians

	RollRate  float64 `json:"rollRate"`  // rad/s
	PitchRate float64 `json:"pitchRate"` // rad/s
	YawRate   float64 `json:"yawRate"`   // rad/s

	Airspeed      float64 `json:"airspeed"`      // m/s
	Altitude      float64 `json:"altitude"`      // meters
	VerticalSpeed float64 `json:"verticalSpeed"` // m/s

	BankAngle  float64 `json:"bankAngle"`  // radians
	LoadFactor float64 `json:"loadFactor"` // g
}

// PilotInput carries the normalized cockpit axes for one tick.
type PilotInput struct {
	StickX        float64   `json:"stickX"`        // -1.0 to 1.0
	StickY        float64   `json:"stickY"`        // -1.0 to 1.0
	RudderPedal   float64   `json:"rudderPedal"`   // -1.0 to 1.0
	ThrottleLever float64   `json:"throttleLever"` // 0.0 to 1.0
	FlapLever     float64   `json:"flapLever"`     // 0.0 to 1.0
	TS            time.Time `json:"ts"`
}

// TrajectoryCommand holds the autopilot targets. The zero value means
// "no trajectory requested".
type TrajectoryCommand struct {
	DesiredRoll          float64   `json:"desiredRoll"`
	DesiredPitch         float64   `json:"desiredPitch"`
	DesiredYaw           float64   `json:"desiredYaw"`
	DesiredAirspeed      float64   `json:"desiredAirspeed"`
	DesiredAltitude      float64   `json:"desiredAltitude"`
	DesiredVerticalSpeed float64   `json:"desiredVerticalSpeed"`
	TS                   time.Time `json:"ts"`
}

// SurfaceCommand is the seven-channel actuator command returned each tick.
// Invariant: every channel is clamped to its documented range before the
// command leaves the core.
type SurfaceCommand struct {
	AileronLeft  float64 `json:"aileronLeft"`  // -1.0 to 1.0
	AileronRight float64 `json:"aileronRight"` // -1.0 to 1.0
	Elevator     float64 `json:"elevator"`     // -1.0 to 1.0
	Rudder       float64 `json:"rudder"`       // -1.0 to 1.0
	Throttle     float64 `json:"throttle"`     // 0.0 to 1.0
	Flaps        float64 `json:"flaps"`        // 0.0 to 1.0
	Spoilers     float64 `json:"spoilers"`     // 0.0 to 1.0
}

// FlightMode selects the active control law. Exactly one mode is active at a
// time and it is owned exclusively by the Core.
type FlightMode string

const (
	ModeManual      FlightMode = "manual"
	ModeAssisted    FlightMode = "assisted"
	ModeAutopilot   FlightMode = "autopilot"
	ModeNeuroAssist FlightMode = "neuro_assist"
	ModeEmergency   FlightMode = "emergency"
)

func (m FlightMode) Valid() bool {
	switch m {
	case ModeManual, ModeAssisted, ModeAutopilot, ModeNeuroAssist, ModeEmergency:
		return true
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp limits every channel to its documented range.
func (s *SurfaceCommand) Clamp() {
	s.AileronLeft = clamp(s.AileronLeft, -maxDeflection, maxDeflection)
	s.AileronRight = clamp(s.AileronRight, -maxDeflection, maxDeflection)
	s.Elevator = clamp(s.Elevator, -maxDeflection, maxDeflection)
	s.Rudder = clamp(s.Rudder, -maxDeflection, maxDeflection)
	s.Throttle = clamp(s.Throttle, 0, 1)
	s.Flaps = clamp(s.Flaps, 0, 1)
	s.Spoilers = clamp(s.Spoilers, 0, 1)
}

const maxDeflection = 1.0
