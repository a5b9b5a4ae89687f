package scenario

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/safetyctl/internal/config"
)

func TestSweep(t *testing.T) {
	s := &Sweep{
		Base:     config.GetPreset("contact"),
		MinPower: 1,
		MaxPower: 20,
		Steps:    5,
		Workers:  2,
	}

	points, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, points, 5)

	assert.Equal(t, 1.0, points[0].MaxPower)
	assert.Equal(t, 20.0, points[4].MaxPower)
	for i, p := range points {
		assert.Zero(t, p.Violations, "point %d", i)
		assert.GreaterOrEqual(t, p.PeakInjectedPower, -p.MaxPower-1e-6, "point %d", i)
		if i > 0 {
			assert.GreaterOrEqual(t, p.MeanFactor, points[i-1].MeanFactor, "looser bound should limit less")
		}
	}
}

func TestSweep_InvalidRange(t *testing.T) {
	base := config.GetPreset("contact")

	_, err := (&Sweep{Base: base, MinPower: 1, MaxPower: 2, Steps: 1}).Run(context.Background())
	assert.Error(t, err)

	_, err = (&Sweep{Base: base, MinPower: 5, MaxPower: 5, Steps: 3}).Run(context.Background())
	assert.Error(t, err)
}

func TestMonteCarlo(t *testing.T) {
	mc := &MonteCarlo{
		Base:         config.GetPreset("contact"),
		Perturbation: 0.5,
		Trials:       20,
		Seed:         7,
	}

	results, err := mc.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 20)

	for _, r := range results {
		assert.Zero(t, r.Violations, "trial %d", r.Trial)
	}

	again, err := mc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, results, again, "same seed should reproduce the trials")
}

func TestMonteCarlo_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&MonteCarlo{Base: config.GetPreset("contact"), Trials: 3}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
