package constraints

import "github.com/san-kum/safetyctl/internal/spatial"

// Func adapts a plain function to a constraint.
type Func func(total spatial.Twist) float64

func (f Func) Compute(total spatial.Twist) float64 { return f(total) }
