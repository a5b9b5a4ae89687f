package config

import "sort"

var Presets = map[string]*Config{
	"power-check": {
		Name: "power-check", Dt: 0.005, MaxPower: 10,
		Constraints: ConstraintsConfig{Power: true},
		Phases: []Phase{
			{Name: "idle", Cycles: 1},
			{Name: "no force", Cycles: 1, Velocity: []float64{0.2}},
			{Name: "opposing below bound", Cycles: 1, Velocity: []float64{0.2}, Wrench: []float64{-10}},
			{Name: "aligned below bound", Cycles: 1, Velocity: []float64{0.2}, Wrench: []float64{10}},
			{Name: "opposing above bound", Cycles: 1, Velocity: []float64{0.2}, Wrench: []float64{-100}},
			{Name: "aligned above bound", Cycles: 1, Velocity: []float64{0.2}, Wrench: []float64{100}},
		},
	},
	"contact": {
		Name: "contact", Dt: 0.005, MaxPower: 5,
		Constraints: ConstraintsConfig{Power: true, MaxVelocity: 0.25},
		Phases: []Phase{
			{Name: "approach", Cycles: 200, Velocity: []float64{0, 0, -0.1}},
			{Name: "light contact", Cycles: 200, Velocity: []float64{0, 0, -0.1}, Wrench: []float64{0, 0, 20}},
			{Name: "pushed back", Cycles: 200, Velocity: []float64{0, 0, -0.1}, Wrench: []float64{0, 0, 150}},
			{Name: "retract", Cycles: 200, Velocity: []float64{0, 0, 0.3}, Wrench: []float64{0, 0, 150}},
		},
	},
	"estop": {
		Name: "estop", Dt: 0.005, MaxPower: 10,
		Constraints: ConstraintsConfig{
			Power:         true,
			EmergencyStop: &EmergencyStopConfig{Activation: 50, Deactivation: 10},
		},
		Phases: []Phase{
			{Name: "move", Cycles: 100, Velocity: []float64{0.2}},
			{Name: "impact", Cycles: 50, Velocity: []float64{0.2}, Wrench: []float64{-80}},
			{Name: "settling", Cycles: 50, Velocity: []float64{0.2}, Wrench: []float64{-30}},
			{Name: "released", Cycles: 100, Velocity: []float64{0.2}, Wrench: []float64{-5}},
		},
	},
	"estop-torque": {
		Name: "estop-torque", Dt: 0.005, MaxPower: 10,
		Constraints: ConstraintsConfig{
			Power: true,
			EmergencyStop: &EmergencyStopConfig{
				Activation: 50, Deactivation: 10,
				Torque: &TorqueStopConfig{Activation: 5, Deactivation: 1},
			},
		},
		Phases: []Phase{
			{Name: "move", Cycles: 50, Velocity: []float64{0.2}},
			{Name: "twist impact", Cycles: 20, Velocity: []float64{0.2}, Wrench: []float64{0, 0, 0, 0, 0, 8}},
			{Name: "twist settling", Cycles: 20, Velocity: []float64{0.2}, Wrench: []float64{0, 0, 0, 0, 0, 3}},
			{Name: "released", Cycles: 50, Velocity: []float64{0.2}, Wrench: []float64{0, 0, 0, 0, 0, 0.5}},
		},
	},
	// Regulates a 10 N contact force along z, limited to 0.1 m/s.
	"force-control": {
		Name: "force-control", Dt: 0.005, MaxPower: 10,
		Constraints: ConstraintsConfig{Power: true, MaxVelocity: 0.1},
		ForceControl: &ForceControlConfig{
			Target:             []float64{0, 0, 10},
			Kp:                 []float64{0, 0, 0.01},
			Kd:                 []float64{0, 0, 0.005},
			Selection:          []bool{false, false, true},
			FilterTimeConstant: 0.05,
		},
		Phases: []Phase{
			{Name: "approach", Cycles: 100},
			{Name: "contact", Cycles: 200, Wrench: []float64{0, 0, 10}},
			{Name: "pushed", Cycles: 100, Wrench: []float64{0, 0, 30}},
		},
	},
	"energy": {
		Name: "energy", Dt: 0.005, MaxPower: 20,
		Constraints: ConstraintsConfig{
			Power:         true,
			KineticEnergy: &KineticEnergyConfig{Mass: 4, MaxEnergy: 0.02},
		},
		Phases: []Phase{
			{Name: "slow", Cycles: 100, Velocity: []float64{0.05, 0.05}},
			{Name: "fast", Cycles: 100, Velocity: []float64{0.3, 0.3}},
			{Name: "fast under load", Cycles: 100, Velocity: []float64{0.3, 0.3}, Wrench: []float64{-200, -200}},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
