package scenario

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/safetyctl/internal/config"
	"github.com/san-kum/safetyctl/internal/metrics"
)

// Sweep replays one scenario for evenly spaced power bounds. Every point
// gets its own runner, so points run concurrently.
type Sweep struct {
	Base     *config.Config
	MinPower float64
	MaxPower float64
	Steps    int
	Workers  int
}

type SweepPoint struct {
	MaxPower          float64
	PeakInjectedPower float64
	MeanFactor        float64
	LimitedCycles     int
	Violations        int
}

func (s *Sweep) Run(ctx context.Context) ([]SweepPoint, error) {
	if s.Steps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", s.Steps)
	}
	if s.MaxPower <= s.MinPower {
		return nil, fmt.Errorf("sweep range [%f, %f] is empty", s.MinPower, s.MaxPower)
	}

	points := make([]SweepPoint, s.Steps)
	step := (s.MaxPower - s.MinPower) / float64(s.Steps-1)

	err := runBatch(ctx, s.Steps, s.Workers, func(ctx context.Context, i int) error {
		cfg := s.Base.Clone()
		cfg.MaxPower = s.MinPower + float64(i)*step
		cfg.Verbose = false

		p, err := runPoint(ctx, cfg)
		if err != nil {
			return fmt.Errorf("max power %f: %w", cfg.MaxPower, err)
		}
		points[i] = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return points, nil
}

// MonteCarlo perturbs the commanded twist and external wrench of every
// phase at random and checks the power bound on each trial.
type MonteCarlo struct {
	Base         *config.Config
	Perturbation float64
	Trials       int
	Seed         int64
	Workers      int
}

type TrialResult struct {
	Trial int
	SweepPoint
}

func (m *MonteCarlo) Run(ctx context.Context) ([]TrialResult, error) {
	if m.Trials <= 0 {
		return nil, errors.New("monte carlo needs at least one trial")
	}

	// perturbed configs are drawn up front so results do not depend on
	// worker scheduling
	rng := rand.New(rand.NewSource(m.Seed))
	cfgs := make([]*config.Config, m.Trials)
	for i := range cfgs {
		cfg := m.Base.Clone()
		cfg.Verbose = false
		for j := range cfg.Phases {
			cfg.Phases[j].Velocity = perturb(rng, cfg.Phases[j].Velocity, m.Perturbation)
			cfg.Phases[j].Wrench = perturb(rng, cfg.Phases[j].Wrench, m.Perturbation*100)
		}
		cfgs[i] = cfg
	}

	results := make([]TrialResult, m.Trials)
	err := runBatch(ctx, m.Trials, m.Workers, func(ctx context.Context, i int) error {
		p, err := runPoint(ctx, cfgs[i])
		if err != nil {
			return fmt.Errorf("trial %d: %w", i, err)
		}
		results[i] = TrialResult{Trial: i, SweepPoint: p}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func perturb(rng *rand.Rand, v []float64, amplitude float64) []float64 {
	out := make([]float64, 6)
	copy(out, v)
	for i := range out {
		out[i] += (rng.Float64() - 0.5) * 2 * amplitude
	}
	return out
}

func runPoint(ctx context.Context, cfg *config.Config) (SweepPoint, error) {
	r, err := New(cfg)
	if err != nil {
		return SweepPoint{}, err
	}
	for _, m := range metrics.Defaults() {
		r.AddMetric(m)
	}

	res, err := r.Run(ctx)
	if err != nil {
		return SweepPoint{}, err
	}
	return SweepPoint{
		MaxPower:          cfg.MaxPower,
		PeakInjectedPower: res.Metrics["peak_injected_power"],
		MeanFactor:        res.Metrics["mean_factor"],
		LimitedCycles:     int(res.Metrics["limited_cycles"]),
		Violations:        int(res.Metrics["power_violations"]),
	}, nil
}

func runBatch(ctx context.Context, n, workers int, fn func(ctx context.Context, i int) error) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		g.Go(func() error { return fn(ctx, i) })
	}
	return g.Wait()
}
