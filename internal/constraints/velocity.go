package constraints

import (
	"math"

	"github.com/san-kum/safetyctl/internal/spatial"
)

// Velocity limits the norm of the TCP linear velocity (m/s).
type Velocity struct {
	maxVelocity *float64
}

func NewVelocity(maxVelocity *float64) *Velocity {
	return &Velocity{maxVelocity: maxVelocity}
}

func (v *Velocity) Compute(total spatial.Twist) float64 {
	return limitSpeed(total, *v.maxVelocity)
}

// KineticEnergy limits the TCP kinetic energy (J) of an equivalent point
// mass (kg) by turning the energy bound into a speed bound.
type KineticEnergy struct {
	mass      *float64
	maxEnergy *float64
	lastVmax  float64
}

func NewKineticEnergy(mass, maxEnergy *float64) *KineticEnergy {
	return &KineticEnergy{mass: mass, maxEnergy: maxEnergy}
}

func (k *KineticEnergy) Compute(total spatial.Twist) float64 {
	k.lastVmax = math.Sqrt(2 * *k.maxEnergy / *k.mass)
	return limitSpeed(total, k.lastVmax)
}

// MaxVelocity returns the speed bound derived in the latest cycle.
func (k *KineticEnergy) MaxVelocity() float64 { return k.lastVmax }

func limitSpeed(total spatial.Twist, vmax float64) float64 {
	norm := total.LinearNorm()
	vmax = math.Abs(vmax)
	if norm <= vmax {
		return 1
	}
	return vmax / norm
}
