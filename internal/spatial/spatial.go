package spatial

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

type Twist [6]float64

type Wrench [6]float64

func (t Twist) Add(other Twist) Twist {
	floats.Add(t[:], other[:])
	return t
}

func (t Twist) Sub(other Twist) Twist {
	floats.Sub(t[:], other[:])
	return t
}

// Scale multiplies every component by f. The same factor applies to all six
// dimensions.
func (t Twist) Scale(f float64) Twist {
	floats.Scale(f, t[:])
	return t
}

func (t Twist) Linear() [3]float64 {
	return [3]float64{t[0], t[1], t[2]}
}

func (t Twist) Angular() [3]float64 {
	return [3]float64{t[3], t[4], t[5]}
}

func (t Twist) LinearNorm() float64 {
	return floats.Norm(t[:3], 2)
}

func (t Twist) Norm() float64 {
	return floats.Norm(t[:], 2)
}

func (t Twist) IsZero() bool {
	return t == Twist{}
}

func (t Twist) IsValid() bool {
	return isValid(t[:])
}

func (w Wrench) Force() [3]float64 {
	return [3]float64{w[0], w[1], w[2]}
}

func (w Wrench) Torque() [3]float64 {
	return [3]float64{w[3], w[4], w[5]}
}

func (w Wrench) ForceNorm() float64 {
	return floats.Norm(w[:3], 2)
}

func (w Wrench) TorqueNorm() float64 {
	return floats.Norm(w[3:], 2)
}

func (w Wrench) Sub(other Wrench) Wrench {
	floats.Sub(w[:], other[:])
	return w
}

func (w Wrench) Scale(f float64) Wrench {
	floats.Scale(f, w[:])
	return w
}

func (w Wrench) IsValid() bool {
	return isValid(w[:])
}

// Power returns the mechanical power w·t over all six dimensions. Negative
// values mean the environment is injecting energy at the controlled point.
func Power(w Wrench, t Twist) float64 {
	return floats.Dot(w[:], t[:])
}

func isValid(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
