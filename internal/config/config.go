package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 0.005
	DefaultMaxPower = 10.0
	DefaultCycles   = 200
)

type Config struct {
	Name         string              `yaml:"name"`
	Dt           float64             `yaml:"dt"`
	MaxPower     float64             `yaml:"max_power"`
	Verbose      bool                `yaml:"verbose"`
	Constraints  ConstraintsConfig   `yaml:"constraints"`
	ForceControl *ForceControlConfig `yaml:"force_control,omitempty"`
	Phases       []Phase             `yaml:"phases"`
}

// ConstraintsConfig selects the constraints registered on the controller.
// Zero or nil values leave the matching constraint out.
type ConstraintsConfig struct {
	Power         bool                 `yaml:"power"`
	MaxVelocity   float64              `yaml:"max_velocity"`
	KineticEnergy *KineticEnergyConfig `yaml:"kinetic_energy,omitempty"`
	EmergencyStop *EmergencyStopConfig `yaml:"emergency_stop,omitempty"`
}

type KineticEnergyConfig struct {
	Mass      float64 `yaml:"mass"`
	MaxEnergy float64 `yaml:"max_energy"`
}

// EmergencyStopConfig holds force norm thresholds (N). With a torque block
// the stop also watches the torque norm (Nm).
type EmergencyStopConfig struct {
	Activation   float64           `yaml:"activation"`
	Deactivation float64           `yaml:"deactivation"`
	Torque       *TorqueStopConfig `yaml:"torque,omitempty"`
}

type TorqueStopConfig struct {
	Activation   float64 `yaml:"activation"`
	Deactivation float64 `yaml:"deactivation"`
}

// ForceControlConfig adds a force control velocity generator regulating the
// phase wrench towards Target on the selected axes. A zero filter time
// constant leaves the error unfiltered.
type ForceControlConfig struct {
	Target             []float64 `yaml:"target"`
	Kp                 []float64 `yaml:"kp"`
	Kd                 []float64 `yaml:"kd"`
	Selection          []bool    `yaml:"selection"`
	FilterTimeConstant float64   `yaml:"filter_time_constant,omitempty"`
}

// Phase holds the commanded twist and the external wrench applied for a
// number of cycles. Missing trailing components are zero.
type Phase struct {
	Name     string    `yaml:"name"`
	Cycles   int       `yaml:"cycles"`
	Velocity []float64 `yaml:"velocity"`
	Wrench   []float64 `yaml:"wrench"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:     "default",
		Dt:       DefaultDt,
		MaxPower: DefaultMaxPower,
		Constraints: ConstraintsConfig{
			Power: true,
		},
		Phases: []Phase{
			{Name: "free", Cycles: DefaultCycles, Velocity: []float64{0.2}},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	var errs []error
	if c.Dt <= 0 {
		errs = append(errs, fmt.Errorf("dt must be positive, got %f", c.Dt))
	}
	if len(c.Phases) == 0 {
		errs = append(errs, errors.New("at least one phase is required"))
	}
	for i, p := range c.Phases {
		if p.Cycles <= 0 {
			errs = append(errs, fmt.Errorf("phase %d: cycles must be positive, got %d", i, p.Cycles))
		}
		if len(p.Velocity) > 6 {
			errs = append(errs, fmt.Errorf("phase %d: velocity has %d components, max 6", i, len(p.Velocity)))
		}
		if len(p.Wrench) > 6 {
			errs = append(errs, fmt.Errorf("phase %d: wrench has %d components, max 6", i, len(p.Wrench)))
		}
	}
	if c.Constraints.MaxVelocity < 0 {
		errs = append(errs, fmt.Errorf("max_velocity must not be negative, got %f", c.Constraints.MaxVelocity))
	}
	if ke := c.Constraints.KineticEnergy; ke != nil && (ke.Mass <= 0 || ke.MaxEnergy < 0) {
		errs = append(errs, errors.New("kinetic_energy: mass must be positive and max_energy non-negative"))
	}
	if es := c.Constraints.EmergencyStop; es != nil {
		if es.Deactivation >= es.Activation {
			errs = append(errs, fmt.Errorf("emergency_stop: deactivation %f must be below activation %f", es.Deactivation, es.Activation))
		}
		if tq := es.Torque; tq != nil && tq.Deactivation >= tq.Activation {
			errs = append(errs, fmt.Errorf("emergency_stop.torque: deactivation %f must be below activation %f", tq.Deactivation, tq.Activation))
		}
	}
	if fc := c.ForceControl; fc != nil {
		lengths := []struct {
			name string
			n    int
		}{
			{"target", len(fc.Target)},
			{"kp", len(fc.Kp)},
			{"kd", len(fc.Kd)},
			{"selection", len(fc.Selection)},
		}
		for _, l := range lengths {
			if l.n > 6 {
				errs = append(errs, fmt.Errorf("force_control: %s has %d components, max 6", l.name, l.n))
			}
		}
		if fc.FilterTimeConstant < 0 {
			errs = append(errs, fmt.Errorf("force_control: filter_time_constant must not be negative, got %f", fc.FilterTimeConstant))
		}
	}
	return errors.Join(errs...)
}

// TotalCycles returns the number of control cycles across all phases.
func (c *Config) TotalCycles() int {
	n := 0
	for _, p := range c.Phases {
		n += p.Cycles
	}
	return n
}

// Clone returns a deep copy so presets can be overridden safely.
func (c *Config) Clone() *Config {
	out := *c
	if c.Constraints.KineticEnergy != nil {
		ke := *c.Constraints.KineticEnergy
		out.Constraints.KineticEnergy = &ke
	}
	if c.Constraints.EmergencyStop != nil {
		es := *c.Constraints.EmergencyStop
		if es.Torque != nil {
			tq := *es.Torque
			es.Torque = &tq
		}
		out.Constraints.EmergencyStop = &es
	}
	if c.ForceControl != nil {
		fc := *c.ForceControl
		fc.Target = append([]float64(nil), fc.Target...)
		fc.Kp = append([]float64(nil), fc.Kp...)
		fc.Kd = append([]float64(nil), fc.Kd...)
		fc.Selection = append([]bool(nil), fc.Selection...)
		out.ForceControl = &fc
	}
	out.Phases = make([]Phase, len(c.Phases))
	for i, p := range c.Phases {
		p.Velocity = append([]float64(nil), p.Velocity...)
		p.Wrench = append([]float64(nil), p.Wrench...)
		out.Phases[i] = p
	}
	return &out
}
