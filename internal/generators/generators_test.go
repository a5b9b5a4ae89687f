package generators

import (
	"math"
	"testing"

	"github.com/san-kum/safetyctl/internal/spatial"
)

func TestVelocityProxy(t *testing.T) {
	cell := spatial.Twist{}
	p := NewVelocityProxy(&cell)

	if got := p.Compute(); got != (spatial.Twist{}) {
		t.Errorf("expected zero twist, got %v", got)
	}

	cell[0] = 0.2
	cell[5] = -1
	if got := p.Compute(); got != cell {
		t.Errorf("proxy did not follow cell: got %v, want %v", got, cell)
	}

	if p.Velocity() != &cell {
		t.Error("Velocity() should return the shared cell")
	}
}

func TestVelocityFunc(t *testing.T) {
	calls := 0
	gen := VelocityFunc(func() spatial.Twist {
		calls++
		return spatial.Twist{float64(calls)}
	})

	gen.Compute()
	if got := gen.Compute(); got[0] != 2 {
		t.Errorf("expected second call to return 2, got %v", got[0])
	}
}

func TestForceControl_Proportional(t *testing.T) {
	target := spatial.Wrench{0, 0, 10}
	measured := spatial.Wrench{}
	params := ForceControlParams{
		Kp:        [6]float64{0, 0, 0.01},
		Selection: [6]bool{false, false, true},
	}

	fc, err := NewForceControl(&target, &measured, params, 0.005)
	if err != nil {
		t.Fatalf("NewForceControl: %v", err)
	}

	v := fc.Compute()
	if math.Abs(v[2]-0.1) > 1e-12 {
		t.Errorf("expected vz 0.1, got %v", v[2])
	}

	measured[2] = 10
	v = fc.Compute()
	if v[2] != 0 {
		t.Errorf("expected zero command at target, got %v", v[2])
	}
}

func TestForceControl_SelectionMasksAxes(t *testing.T) {
	target := spatial.Wrench{5, 5, 5, 5, 5, 5}
	measured := spatial.Wrench{}
	params := ForceControlParams{
		Kp:        [6]float64{1, 1, 1, 1, 1, 1},
		Kd:        [6]float64{1, 1, 1, 1, 1, 1},
		Selection: [6]bool{true},
	}

	fc, err := NewForceControl(&target, &measured, params, 0.01)
	if err != nil {
		t.Fatalf("NewForceControl: %v", err)
	}

	v := fc.Compute()
	for i := 1; i < 6; i++ {
		if v[i] != 0 {
			t.Errorf("axis %d should be masked, got %v", i, v[i])
		}
	}
	if v[0] == 0 {
		t.Error("selected axis produced no command")
	}
}

func TestForceControl_DerivativeDecays(t *testing.T) {
	target := spatial.Wrench{10}
	measured := spatial.Wrench{}
	params := ForceControlParams{
		Kd:        [6]float64{0.001},
		Selection: [6]bool{true},
	}

	fc, err := NewForceControl(&target, &measured, params, 0.01)
	if err != nil {
		t.Fatalf("NewForceControl: %v", err)
	}
	if err := fc.ConfigureFilter(0.1); err != nil {
		t.Fatalf("ConfigureFilter: %v", err)
	}

	first := fc.Compute()[0]
	prev := first
	for i := 0; i < 50; i++ {
		v := fc.Compute()[0]
		if v > prev {
			t.Fatalf("derivative action grew at step %d: %v > %v", i, v, prev)
		}
		prev = v
	}
	if first <= 0 || prev >= first {
		t.Errorf("expected decaying positive derivative action, first=%v last=%v", first, prev)
	}
}

func TestForceControl_InvalidConfig(t *testing.T) {
	w := spatial.Wrench{}
	if _, err := NewForceControl(&w, &w, ForceControlParams{}, 0); err == nil {
		t.Error("expected error for zero sample time")
	}

	fc, err := NewForceControl(&w, &w, ForceControlParams{}, 0.01)
	if err != nil {
		t.Fatalf("NewForceControl: %v", err)
	}
	if err := fc.ConfigureFilter(-1); err == nil {
		t.Error("expected error for negative time constant")
	}
}

func TestForceControl_ShortTimeConstantStillFilters(t *testing.T) {
	target := spatial.Wrench{10}
	measured := spatial.Wrench{}
	params := ForceControlParams{
		Kd:        [6]float64{0.001},
		Selection: [6]bool{true},
	}
	dt := 0.01
	unfiltered, err := NewForceControl(&target, &measured, params, dt)
	if err != nil {
		t.Fatalf("NewForceControl: %v", err)
	}
	filtered, err := NewForceControl(&target, &measured, params, dt)
	if err != nil {
		t.Fatalf("NewForceControl: %v", err)
	}

	tc := 0.02
	if tc >= MinFilterTimeConstant(dt) {
		t.Fatalf("time constant %v should be below the recommended %v", tc, MinFilterTimeConstant(dt))
	}
	if err := filtered.ConfigureFilter(tc); err != nil {
		t.Fatalf("ConfigureFilter: %v", err)
	}

	// coefficient dt/(tc+dt) = 1/3 scales the first derivative kick
	raw, got := unfiltered.Compute()[0], filtered.Compute()[0]
	if math.Abs(got-raw/3) > 1e-12 {
		t.Errorf("filtered derivative = %v, want %v", got, raw/3)
	}
}
