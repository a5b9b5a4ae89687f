package metrics

type MeanFactor struct {
	name    string
	sum     float64
	samples int
}

func NewMeanFactor() *MeanFactor {
	return &MeanFactor{name: "mean_factor"}
}

func (m *MeanFactor) Name() string { return m.name }

func (m *MeanFactor) Observe(s Sample) {
	m.sum += s.Factor
	m.samples++
}

func (m *MeanFactor) Value() float64 {
	if m.samples == 0 {
		return 1
	}
	return m.sum / float64(m.samples)
}

func (m *MeanFactor) Reset() {
	m.sum = 0
	m.samples = 0
}

// LimitedCycles counts cycles where at least one constraint was active.
type LimitedCycles struct {
	name  string
	count int
}

func NewLimitedCycles() *LimitedCycles {
	return &LimitedCycles{name: "limited_cycles"}
}

func (l *LimitedCycles) Name() string { return l.name }

func (l *LimitedCycles) Observe(s Sample) {
	if s.Factor < 1 {
		l.count++
	}
}

func (l *LimitedCycles) Value() float64 { return float64(l.count) }

func (l *LimitedCycles) Reset() { l.count = 0 }
