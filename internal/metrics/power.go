package metrics

import "math"

// PeakInjectedPower tracks the most negative power at the TCP after scaling.
type PeakInjectedPower struct {
	name string
	peak float64
}

func NewPeakInjectedPower() *PeakInjectedPower {
	return &PeakInjectedPower{name: "peak_injected_power"}
}

func (p *PeakInjectedPower) Name() string { return p.name }

func (p *PeakInjectedPower) Observe(s Sample) {
	p.peak = math.Min(p.peak, s.TCPPower)
}

func (p *PeakInjectedPower) Value() float64 { return p.peak }

func (p *PeakInjectedPower) Reset() { p.peak = 0 }

// PowerViolations counts cycles whose TCP power fell below the negated
// bound of that cycle by more than tol. A correct power constraint keeps it
// at zero.
type PowerViolations struct {
	name  string
	tol   float64
	count int
}

func NewPowerViolations(tol float64) *PowerViolations {
	return &PowerViolations{name: "power_violations", tol: tol}
}

func (p *PowerViolations) Name() string { return p.name }

func (p *PowerViolations) Observe(s Sample) {
	if s.TCPPower < -s.MaxPower-p.tol {
		p.count++
	}
}

func (p *PowerViolations) Value() float64 { return float64(p.count) }

func (p *PowerViolations) Reset() { p.count = 0 }
