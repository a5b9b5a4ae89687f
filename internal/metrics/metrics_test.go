package metrics

import (
	"math"
	"testing"
)

func TestPeakInjectedPower(t *testing.T) {
	m := NewPeakInjectedPower()

	for _, p := range []float64{2, -3, -10, 5} {
		m.Observe(Sample{TCPPower: p})
	}
	if m.Value() != -10 {
		t.Errorf("expected peak -10, got %f", m.Value())
	}

	m.Reset()
	m.Observe(Sample{TCPPower: 4})
	if m.Value() != 0 {
		t.Errorf("expected 0 when nothing is injected, got %f", m.Value())
	}
}

func TestPowerViolations(t *testing.T) {
	m := NewPowerViolations(1e-6)

	m.Observe(Sample{MaxPower: 10, TCPPower: -10})
	m.Observe(Sample{MaxPower: 10, TCPPower: -10.0000001})
	m.Observe(Sample{MaxPower: 10, TCPPower: -11})
	if m.Value() != 1 {
		t.Errorf("expected 1 violation, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestPowerViolations_BoundPerSample(t *testing.T) {
	m := NewPowerViolations(1e-6)

	// the bound is read from each sample, so raising it mid-run does not
	// turn admissible cycles into violations
	m.Observe(Sample{MaxPower: 10, TCPPower: -10})
	m.Observe(Sample{MaxPower: 20, TCPPower: -20})
	if m.Value() != 0 {
		t.Errorf("expected no violations, got %f", m.Value())
	}

	m.Observe(Sample{MaxPower: 5, TCPPower: -10})
	if m.Value() != 1 {
		t.Errorf("expected a violation after lowering the bound, got %f", m.Value())
	}
}

func TestMeanFactor(t *testing.T) {
	m := NewMeanFactor()
	if m.Value() != 1 {
		t.Errorf("expected 1 with no samples, got %f", m.Value())
	}

	m.Observe(Sample{Factor: 1})
	m.Observe(Sample{Factor: 0.5})
	if math.Abs(m.Value()-0.75) > 1e-12 {
		t.Errorf("expected 0.75, got %f", m.Value())
	}
}

func TestLimitedCycles(t *testing.T) {
	m := NewLimitedCycles()
	for _, f := range []float64{1, 0.9, 1, 0} {
		m.Observe(Sample{Factor: f})
	}
	if m.Value() != 2 {
		t.Errorf("expected 2 limited cycles, got %f", m.Value())
	}
}

func TestDefaults(t *testing.T) {
	seen := make(map[string]bool)
	for _, m := range Defaults() {
		if seen[m.Name()] {
			t.Errorf("duplicate metric name %s", m.Name())
		}
		seen[m.Name()] = true
	}
	if len(seen) != 4 {
		t.Errorf("expected 4 default metrics, got %d", len(seen))
	}
}
