package constraints

import "github.com/san-kum/safetyctl/internal/spatial"

// StopCheck selects which external effort an EmergencyStop watches.
type StopCheck uint8

const (
	CheckForces StopCheck = 1 << iota
	CheckTorques
	CheckBoth = CheckForces | CheckTorques
)

// StopThresholds holds activation and deactivation norms. Deactivation must
// be below activation; between the two the previous decision is kept.
type StopThresholds struct {
	Activation   *float64
	Deactivation *float64
}

// EmergencyStop returns 0 while the external force (or torque) norm is above
// its activation threshold and goes back to 1 once it falls below the
// deactivation threshold.
type EmergencyStop struct {
	wrench  *spatial.Wrench
	check   StopCheck
	force   StopThresholds
	torque  StopThresholds
	stopped bool
}

func NewEmergencyStop(wrench *spatial.Wrench, force StopThresholds) *EmergencyStop {
	return &EmergencyStop{wrench: wrench, check: CheckForces, force: force}
}

func NewEmergencyStopWithTorque(wrench *spatial.Wrench, check StopCheck, force, torque StopThresholds) *EmergencyStop {
	return &EmergencyStop{wrench: wrench, check: check, force: force, torque: torque}
}

func (e *EmergencyStop) Compute(spatial.Twist) float64 {
	forceStop := false
	if e.check&CheckForces != 0 {
		forceStop = hysteresis(e.wrench.ForceNorm(), e.force, e.stopped)
	}
	torqueStop := false
	if e.check&CheckTorques != 0 {
		torqueStop = hysteresis(e.wrench.TorqueNorm(), e.torque, e.stopped)
	}

	e.stopped = forceStop || torqueStop
	if e.stopped {
		return 0
	}
	return 1
}

func (e *EmergencyStop) Stopped() bool { return e.stopped }

func hysteresis(norm float64, th StopThresholds, previous bool) bool {
	switch {
	case norm >= *th.Activation:
		return true
	case norm <= *th.Deactivation:
		return false
	default:
		return previous
	}
}
