package recovery

import (
	"testing"
	"time"

	"github.com/katya-aviation/neurofcc/internal/fcc"
	"github.com/katya-aviation/neurofcc/internal/testutil/testlog"
)

type fakeController struct {
	modes    []fcc.FlightMode
	triggers []string
}

func (f *fakeController) SetMode(mode fcc.FlightMode) { f.modes = append(f.modes, mode) }
func (f *fakeController) TriggerEmergency(reason string) {
	f.triggers = append(f.triggers, reason)
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestCoordinator(t *testing.T) (*Coordinator, *fakeController, *fakeClock) {
	t.Helper()
	ctrl := &fakeController{}
	cfg := DefaultConfig()
	cfg.Logger = testlog.Start(t)
	coord, err := New(ctrl, cfg)
	if err != nil {
		t.Fatalf("new coordinator: %v", err)
	}
	clock := &fakeClock{now: time.Unix(1000, 0)}
	coord.now = func() time.Time { return clock.now }
	return coord, ctrl, clock
}

func TestNewValidatesInputs(t *testing.T) {
	if _, err := New(nil, DefaultConfig()); err == nil {
		t.Fatalf("expected error for nil controller")
	}

	cfg := DefaultConfig()
	cfg.Tolerance = 0
	if _, err := New(&fakeController{}, cfg); err == nil {
		t.Fatalf("expected error for zero tolerance")
	}

	cfg = DefaultConfig()
	cfg.Cooldown = 0
	if _, err := New(&fakeController{}, cfg); err == nil {
		t.Fatalf("expected error for zero cooldown")
	}
}

// divergentAileron commands full left aileron while the airframe shows no
// roll response: expected response 10 rad/s against an actual of zero.
func divergentAileron() (fcc.AircraftState, fcc.SurfaceCommand) {
	state := fcc.AircraftState{Airspeed: 100}
	cmd := fcc.SurfaceCommand{AileronLeft: 1.0}
	return state, cmd
}

func TestDetectFailureMarksChannelAndTriggersOnce(t *testing.T) {
	coord, ctrl, clock := newTestCoordinator(t)

	state, cmd := divergentAileron()
	coord.DetectFailure(state, cmd)

	if !coord.FailureDetected() {
		t.Fatalf("expected failure detected")
	}
	if coord.FailureType() != "left_aileron failure" {
		t.Fatalf("failure type = %q", coord.FailureType())
	}
	if health := coord.SurfaceHealth(); health[ChannelAileronLeft] {
		t.Fatalf("left aileron still marked healthy")
	}
	if len(ctrl.triggers) != 1 {
		t.Fatalf("emergency triggers = %d, want 1", len(ctrl.triggers))
	}

	// A second divergent tick inside the cool-down must neither re-trigger
	// emergency nor run recovery.
	clock.advance(time.Second)
	coord.DetectFailure(state, cmd)

	if len(ctrl.triggers) != 1 {
		t.Fatalf("re-triggered emergency inside cool-down: %v", ctrl.triggers)
	}
	if !coord.FailureDetected() {
		t.Fatalf("recovery ran before cool-down elapsed")
	}
}

func TestRecoveryRunsAfterCooldown(t *testing.T) {
	coord, ctrl, clock := newTestCoordinator(t)

	state, cmd := divergentAileron()
	coord.DetectFailure(state, cmd)
	if !coord.FailureDetected() {
		t.Fatalf("expected failure detected")
	}

	clock.advance(2*time.Second + time.Millisecond)
	// A quiet tick past the cool-down executes the recovery procedure.
	coord.DetectFailure(fcc.AircraftState{}, fcc.SurfaceCommand{})

	if coord.FailureDetected() {
		t.Fatalf("failure flag not cleared by recovery")
	}
	for i, ok := range coord.SurfaceHealth() {
		if !ok {
			t.Fatalf("channel %d not reset to healthy", i)
		}
	}
	// Single failed channel: no emergency landing escalation.
	if len(ctrl.modes) != 0 {
		t.Fatalf("unexpected mode changes: %v", ctrl.modes)
	}
}

func TestMultipleFailuresEscalateToEmergencyLanding(t *testing.T) {
	coord, ctrl, _ := newTestCoordinator(t)

	// Left aileron, elevator and rudder all commanded hard with a dead
	// airframe response: three channels diverge in one tick.
	state := fcc.AircraftState{Airspeed: 100}
	cmd := fcc.SurfaceCommand{AileronLeft: 1.0, Elevator: 1.0, Rudder: 1.0}
	coord.DetectFailure(state, cmd)

	if got := len(ctrl.triggers); got != 3 {
		t.Fatalf("emergency triggers = %d, want 3", got)
	}

	coord.ExecuteRecoveryProcedure()

	if len(ctrl.modes) != 1 || ctrl.modes[0] != fcc.ModeEmergency {
		t.Fatalf("expected emergency landing mode change, got %v", ctrl.modes)
	}
}

func TestExecuteRecoveryWithoutFailureIsNoOp(t *testing.T) {
	coord, ctrl, _ := newTestCoordinator(t)

	coord.ExecuteRecoveryProcedure()

	if len(ctrl.modes) != 0 || len(ctrl.triggers) != 0 {
		t.Fatalf("recovery acted without a detected failure")
	}
}

func TestUnsensedChannelsNeverFail(t *testing.T) {
	coord, ctrl, _ := newTestCoordinator(t)

	// Full throttle, flaps and spoilers with zero response everywhere.
	state := fcc.AircraftState{Airspeed: 100}
	cmd := fcc.SurfaceCommand{Throttle: 1.0, Flaps: 1.0, Spoilers: 1.0}
	coord.DetectFailure(state, cmd)

	if coord.FailureDetected() {
		t.Fatalf("unsensed channel registered a failure")
	}
	if len(ctrl.triggers) != 0 {
		t.Fatalf("unexpected emergency triggers: %v", ctrl.triggers)
	}
}

func TestMatchedResponseWithinToleranceIsHealthy(t *testing.T) {
	coord, ctrl, _ := newTestCoordinator(t)

	// Commanded roll and the measured roll rate agree.
	state := fcc.AircraftState{Airspeed: 100, RollRate: 5.0}
	cmd := fcc.SurfaceCommand{AileronLeft: 0.5, AileronRight: -0.5}
	coord.DetectFailure(state, cmd)

	if coord.FailureDetected() {
		t.Fatalf("matched response flagged as failure")
	}
	if len(ctrl.triggers) != 0 {
		t.Fatalf("unexpected triggers: %v", ctrl.triggers)
	}
}

func TestSetToleranceAdjustsDetection(t *testing.T) {
	coord, ctrl, _ := newTestCoordinator(t)
	coord.SetTolerance(100.0)

	state, cmd := divergentAileron()
	coord.DetectFailure(state, cmd)

	if coord.FailureDetected() {
		t.Fatalf("gap within widened tolerance flagged as failure")
	}
	if coord.Tolerance() != 100.0 {
		t.Fatalf("tolerance = %v", coord.Tolerance())
	}
	if len(ctrl.triggers) != 0 {
		t.Fatalf("unexpected triggers: %v", ctrl.triggers)
	}
}
