package safety

import "github.com/san-kum/safetyctl/internal/spatial"

// VelocityGenerator contributes a desired TCP twist. Compute must only read
// shared state.
type VelocityGenerator interface {
	Compute() spatial.Twist
}

// Constraint limits the total desired twist. Compute returns a factor in
// (0,1]; 1 means no limiting this cycle.
type Constraint interface {
	Compute(total spatial.Twist) float64
}

// Contribution is the last output of a named velocity generator.
type Contribution struct {
	Name     string
	Velocity spatial.Twist
}

// Limit is the last factor returned by a named constraint.
type Limit struct {
	Name   string
	Factor float64
}

// Diagnostic is the per-cycle record emitted in verbose mode.
type Diagnostic struct {
	Cycle       uint64
	Generators  []Contribution
	Constraints []Limit
	Total       spatial.Twist
	TCP         spatial.Twist
	Factor      float64
}
