package constraints

import "github.com/san-kum/safetyctl/internal/spatial"

// Power limits the power flowing from the environment into the robot. Only
// negative power (the external force opposing and overpowering the motion) is
// limited; power the robot spends against the environment is left alone.
type Power struct {
	force    *spatial.Wrench
	maxPower *float64
	last     float64
}

// NewPower reads the external wrench and the maximum power (W) through the
// given cells.
func NewPower(force *spatial.Wrench, maxPower *float64) *Power {
	return &Power{force: force, maxPower: maxPower}
}

// Compute scales the total velocity so that the power after scaling equals
// -maxPower exactly when the bound would be exceeded. A non-positive bound
// stops the robot whenever power is negative. NaN and Inf propagate.
func (p *Power) Compute(total spatial.Twist) float64 {
	power := spatial.Power(*p.force, total)
	p.last = power

	pmax := *p.maxPower
	if power >= 0 || power >= -pmax {
		return 1
	}
	if pmax <= 0 {
		return 0
	}
	return pmax / -power
}

// LastPower returns the power computed in the latest cycle, before scaling.
func (p *Power) LastPower() float64 { return p.last }
