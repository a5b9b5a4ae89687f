package generators

import (
	"fmt"

	"github.com/san-kum/safetyctl/internal/spatial"
)

// ForceControlParams holds the per-axis gains. Axes with Selection false are
// not force controlled and produce no velocity.
type ForceControlParams struct {
	Kp        [6]float64
	Kd        [6]float64
	Selection [6]bool
}

// ForceControl produces a velocity driving the measured wrench towards a
// target wrench with a PD law on the filtered force error.
type ForceControl struct {
	target   *spatial.Wrench
	measured *spatial.Wrench
	params   ForceControlParams
	dt       float64

	filterCoeff float64
	prevError   spatial.Wrench
}

// NewForceControl reads target and measured through the given cells. dt is
// the control period in seconds. The error filter starts disabled.
func NewForceControl(target, measured *spatial.Wrench, params ForceControlParams, dt float64) (*ForceControl, error) {
	if dt <= 0 {
		return nil, fmt.Errorf("sample time must be positive, got %f", dt)
	}
	return &ForceControl{
		target:      target,
		measured:    measured,
		params:      params,
		dt:          dt,
		filterCoeff: 1,
	}, nil
}

// MinFilterTimeConstant is the shortest filter time constant giving a well
// behaved low-pass at sample time dt. Shorter ones are accepted but filter
// little.
func MinFilterTimeConstant(dt float64) float64 { return 5 * dt }

// ConfigureFilter enables a first-order low-pass filter on the force error.
// The time constant should be at least MinFilterTimeConstant(dt).
func (f *ForceControl) ConfigureFilter(timeConstant float64) error {
	if timeConstant <= 0 {
		return fmt.Errorf("time constant must be positive, got %f", timeConstant)
	}
	f.filterCoeff = f.dt / (timeConstant + f.dt)
	return nil
}

func (f *ForceControl) SetParams(params ForceControlParams) { f.params = params }

func (f *ForceControl) Params() ForceControlParams { return f.params }

func (f *ForceControl) Compute() spatial.Twist {
	e := f.target.Sub(*f.measured)
	for i, on := range f.params.Selection {
		if !on {
			e[i] = 0
		}
	}

	var cmd spatial.Twist
	for i := range cmd {
		cmd[i] = f.params.Kp[i] * e[i]
	}

	filtered := e.Scale(f.filterCoeff)
	for i := range filtered {
		filtered[i] += f.prevError[i] * (1 - f.filterCoeff)
	}
	for i := range cmd {
		cmd[i] += f.params.Kd[i] * (filtered[i] - f.prevError[i]) / f.dt
	}
	f.prevError = filtered

	return cmd
}
