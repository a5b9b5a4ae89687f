package metrics

import "github.com/san-kum/safetyctl/internal/spatial"

// Sample is one control cycle as seen by the scenario runner. MaxPower is
// the bound in force during that cycle; it may change between cycles.
type Sample struct {
	Cycle    int           `json:"cycle"`
	Time     float64       `json:"time"`
	Phase    string        `json:"phase"`
	MaxPower float64       `json:"max_power"`
	Power    float64       `json:"power"`
	TCPPower float64       `json:"tcp_power"`
	Factor   float64       `json:"factor"`
	Total    spatial.Twist `json:"total"`
	TCP      spatial.Twist `json:"tcp"`
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

// Defaults returns the metrics recorded for every run.
func Defaults() []Metric {
	return []Metric{
		NewPeakInjectedPower(),
		NewMeanFactor(),
		NewLimitedCycles(),
		NewPowerViolations(1e-6),
	}
}
