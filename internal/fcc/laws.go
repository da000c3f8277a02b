package fcc

// Per-mode control laws. Each law produces a raw command; the Core clamps and
// validates before returning it to the caller.

// manualLaw maps the pilot axes 1:1 onto the surfaces. The aileron pair is
// antisymmetric: full left stick drives the left aileron up and the right
// aileron down.
func manualLaw(input PilotInput) SurfaceCommand {
	return SurfaceCommand{
		AileronLeft:  input.StickX,
		AileronRight: -input.StickX,
		Elevator:     -input.StickY,
		Rudder:       input.RudderPedal,
		Throttle:     input.ThrottleLever,
		Flaps:        input.FlapLever,
		Spoilers:     0,
	}
}

// assistedLaw is the manual law plus envelope protection. Protection
// activations are surfaced as warnings only; they never change mode.
func (c *Core) assistedLaw(state AircraftState, input PilotInput) SurfaceCommand {
	cmd := manualLaw(input)

	if state.LoadFactor > c.cfg.MaxLoadFactor {
		cmd.Elevator *= 0.5
		c.appendWarning("high g-load protection activated")
	}

	if state.Airspeed < c.cfg.MinSafeAirspeed {
		if cmd.Flaps < 0.3 {
			cmd.Flaps = 0.3
		}
		c.appendWarning("low speed protection activated")
	}

	return cmd
}

// autopilotLaw holds wings level and flies proportional corrections toward
// the trajectory targets.
func autopilotLaw(state AircraftState, traj TrajectoryCommand) SurfaceCommand {
	cmd := SurfaceCommand{
		AileronLeft:  -state.Roll * 0.5,
		AileronRight: state.Roll * 0.5,
		Elevator:     (traj.DesiredAltitude - state.Altitude) / 1000.0 * 0.3,
		Rudder:       -state.YawRate * 0.3,
		Throttle:     (traj.DesiredAirspeed-state.Airspeed)/50.0*0.5 + 0.5,
	}
	if state.Airspeed < 80.0 {
		cmd.Flaps = 0.3
	}
	return cmd
}

// neuroAssistLaw blends the manual law 70/30 with the learner's prediction
// once the behavior model is ready. The predicted aileron deflection is
// applied with opposite sign on the right channel, consistent with the
// manual law's antisymmetry.
func (c *Core) neuroAssistLaw(state AircraftState, input PilotInput) SurfaceCommand {
	cmd := manualLaw(input)

	if !c.learner.Ready() {
		return cmd
	}

	predicted := c.learner.Predict(state)
	const blend = 0.3 // 30% neural assistance

	cmd.AileronLeft = (1-blend)*cmd.AileronLeft + blend*predicted[0]
	cmd.AileronRight = (1-blend)*cmd.AileronRight - blend*predicted[0]
	cmd.Elevator = (1-blend)*cmd.Elevator - blend*predicted[1]
	cmd.Rudder = (1-blend)*cmd.Rudder + blend*predicted[2]
	cmd.Throttle = (1-blend)*cmd.Throttle + blend*predicted[3]

	return cmd
}

// emergencyLaw ignores pilot input entirely: roll-damping ailerons, a gentle
// climb, moderate power and a little flap for stability.
func (c *Core) emergencyLaw(state AircraftState) SurfaceCommand {
	c.appendWarning("emergency control mode active")
	return SurfaceCommand{
		AileronLeft:  -state.Roll * 0.5,
		AileronRight: state.Roll * 0.5,
		Elevator:     0.1,
		Rudder:       0,
		Throttle:     0.7,
		Flaps:        0.2,
		Spoilers:     0,
	}
}
