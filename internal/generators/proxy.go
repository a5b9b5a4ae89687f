package generators

import "github.com/san-kum/safetyctl/internal/spatial"

// VelocityProxy echoes a caller-owned twist. External code (a planner, a
// teleoperation device) drives the motion by writing the cell between cycles.
type VelocityProxy struct {
	velocity *spatial.Twist
}

func NewVelocityProxy(velocity *spatial.Twist) *VelocityProxy {
	return &VelocityProxy{velocity: velocity}
}

func (p *VelocityProxy) Compute() spatial.Twist {
	return *p.velocity
}

// Velocity returns the shared cell this proxy reads from.
func (p *VelocityProxy) Velocity() *spatial.Twist {
	return p.velocity
}

// VelocityFunc adapts a plain function to a velocity generator.
type VelocityFunc func() spatial.Twist

func (f VelocityFunc) Compute() spatial.Twist { return f() }
