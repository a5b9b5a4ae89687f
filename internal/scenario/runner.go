package scenario

import (
	"context"
	"fmt"

	"github.com/san-kum/safetyctl/internal/config"
	"github.com/san-kum/safetyctl/internal/constraints"
	"github.com/san-kum/safetyctl/internal/generators"
	"github.com/san-kum/safetyctl/internal/metrics"
	"github.com/san-kum/safetyctl/internal/safety"
	"github.com/san-kum/safetyctl/internal/spatial"
)

// Registered component names.
const (
	ProxyName         = "velocity proxy"
	ForceControlName  = "force control"
	JogName           = "operator jog"
	PowerName         = "power"
	VelocityName      = "velocity"
	KineticEnergyName = "kinetic energy"
	EmergencyStopName = "emergency stop"
	HoldName          = "operator hold"
)

type Result struct {
	Name    string
	Samples []metrics.Sample
	Metrics map[string]float64
}

// Runner owns the shared cells of one controller and replays the phases of
// a scenario into them, one control cycle per step.
type Runner struct {
	cfg  *config.Config
	ctrl *safety.Controller
	sink safety.Sink

	velocity    spatial.Twist
	wrench      spatial.Wrench
	maxPower    float64
	maxVelocity float64
	mass        float64
	maxEnergy   float64
	stopOn      float64
	stopOff     float64
	torqueOn    float64
	torqueOff   float64
	target      spatial.Wrench
	jog         spatial.Twist

	metrics []metrics.Metric

	phase   int
	inPhase int
	cycle   int
}

// New validates cfg and builds a controller wired to the runner's cells.
func New(cfg *config.Config) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario %q: %w", cfg.Name, err)
	}
	r := &Runner{cfg: cfg}
	if err := r.build(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Runner) build() error {
	cfg := r.cfg
	r.velocity = spatial.Twist{}
	r.wrench = spatial.Wrench{}
	r.jog = spatial.Twist{}
	r.maxPower = cfg.MaxPower

	ctrl := safety.New()
	ctrl.SetVerbose(cfg.Verbose)
	if r.sink != nil {
		ctrl.SetSink(r.sink)
	}

	if err := ctrl.AddVelocityGenerator(ProxyName, generators.NewVelocityProxy(&r.velocity)); err != nil {
		return err
	}

	if fc := cfg.ForceControl; fc != nil {
		r.target = spatial.Wrench{}
		copy(r.target[:], fc.Target)
		var params generators.ForceControlParams
		copy(params.Kp[:], fc.Kp)
		copy(params.Kd[:], fc.Kd)
		copy(params.Selection[:], fc.Selection)

		gen, err := generators.NewForceControl(&r.target, &r.wrench, params, cfg.Dt)
		if err != nil {
			return err
		}
		if fc.FilterTimeConstant > 0 {
			if err := gen.ConfigureFilter(fc.FilterTimeConstant); err != nil {
				return err
			}
		}
		if err := ctrl.AddVelocityGenerator(ForceControlName, gen); err != nil {
			return err
		}
	}

	cc := cfg.Constraints
	if cc.Power {
		if err := ctrl.AddConstraint(PowerName, constraints.NewPower(&r.wrench, &r.maxPower)); err != nil {
			return err
		}
	}
	if cc.MaxVelocity > 0 {
		r.maxVelocity = cc.MaxVelocity
		if err := ctrl.AddConstraint(VelocityName, constraints.NewVelocity(&r.maxVelocity)); err != nil {
			return err
		}
	}
	if ke := cc.KineticEnergy; ke != nil {
		r.mass, r.maxEnergy = ke.Mass, ke.MaxEnergy
		if err := ctrl.AddConstraint(KineticEnergyName, constraints.NewKineticEnergy(&r.mass, &r.maxEnergy)); err != nil {
			return err
		}
	}
	if es := cc.EmergencyStop; es != nil {
		r.stopOn, r.stopOff = es.Activation, es.Deactivation
		th := constraints.StopThresholds{Activation: &r.stopOn, Deactivation: &r.stopOff}
		stop := constraints.NewEmergencyStop(&r.wrench, th)
		if tq := es.Torque; tq != nil {
			r.torqueOn, r.torqueOff = tq.Activation, tq.Deactivation
			torque := constraints.StopThresholds{Activation: &r.torqueOn, Deactivation: &r.torqueOff}
			stop = constraints.NewEmergencyStopWithTorque(&r.wrench, constraints.CheckBoth, th, torque)
		}
		if err := ctrl.AddConstraint(EmergencyStopName, stop); err != nil {
			return err
		}
	}

	r.ctrl = ctrl
	r.phase, r.inPhase, r.cycle = 0, 0, 0
	return nil
}

func (r *Runner) AddMetric(m metrics.Metric) { r.metrics = append(r.metrics, m) }

// SetSink routes verbose diagnostics of the controller to s.
func (r *Runner) SetSink(s safety.Sink) {
	r.sink = s
	r.ctrl.SetSink(s)
}

func (r *Runner) Controller() *safety.Controller { return r.ctrl }

func (r *Runner) Config() *config.Config { return r.cfg }

// MaxPower returns the live power bound.
func (r *Runner) MaxPower() float64 { return r.maxPower }

// SetMaxPower changes the power bound between cycles.
func (r *Runner) SetMaxPower(p float64) { r.maxPower = p }

// Hold stops the robot from the next cycle on by registering a zero-factor
// constraint; releasing removes it again.
func (r *Runner) Hold(on bool) error {
	switch held := r.Held(); {
	case on && !held:
		return r.ctrl.AddConstraint(HoldName, constraints.Func(func(spatial.Twist) float64 { return 0 }))
	case !on && held:
		return r.ctrl.RemoveConstraint(HoldName)
	}
	return nil
}

func (r *Runner) Held() bool {
	_, held := r.ctrl.GetConstraint(HoldName)
	return held
}

// SetJog adds an operator twist on top of the scenario command. The jog
// generator is registered on first use and reads the value every cycle.
func (r *Runner) SetJog(v spatial.Twist) error {
	r.jog = v
	if _, ok := r.ctrl.GetVelocityGenerator(JogName); ok {
		return nil
	}
	return r.ctrl.AddVelocityGenerator(JogName, generators.VelocityFunc(func() spatial.Twist { return r.jog }))
}

func (r *Runner) Jog() spatial.Twist { return r.jog }

func (r *Runner) Done() bool { return r.phase >= len(r.cfg.Phases) }

// Reset rebuilds the controller and rewinds to the first phase. Metrics are
// reset too.
func (r *Runner) Reset() error {
	for _, m := range r.metrics {
		m.Reset()
	}
	return r.build()
}

// Step applies the current phase to the shared cells, runs one controller
// cycle and returns the resulting sample. ok is false once every phase has
// been played.
func (r *Runner) Step() (s metrics.Sample, ok bool) {
	if r.Done() {
		return metrics.Sample{}, false
	}
	p := r.cfg.Phases[r.phase]
	r.velocity = spatial.Twist{}
	copy(r.velocity[:], p.Velocity)
	r.wrench = spatial.Wrench{}
	copy(r.wrench[:], p.Wrench)

	r.ctrl.Update()

	total, tcp := r.ctrl.TotalVelocity(), r.ctrl.TCPVelocity()
	s = metrics.Sample{
		Cycle:    r.cycle,
		Time:     float64(r.cycle) * r.cfg.Dt,
		Phase:    p.Name,
		MaxPower: r.maxPower,
		Power:    spatial.Power(r.wrench, total),
		TCPPower: spatial.Power(r.wrench, tcp),
		Factor:   r.ctrl.ScalingFactor(),
		Total:    total,
		TCP:      tcp,
	}
	for _, m := range r.metrics {
		m.Observe(s)
	}

	r.cycle++
	r.inPhase++
	if r.inPhase >= p.Cycles {
		r.phase++
		r.inPhase = 0
	}
	return s, true
}

// Run plays every remaining phase. It stops early when ctx is done and
// returns the samples gathered so far with the context error.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	result := &Result{
		Name:    r.cfg.Name,
		Samples: make([]metrics.Sample, 0, r.cfg.TotalCycles()),
		Metrics: make(map[string]float64),
	}

	for !r.Done() {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		s, _ := r.Step()
		result.Samples = append(result.Samples, s)
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}
