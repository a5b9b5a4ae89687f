package viz

import (
	"errors"
	"fmt"
	"io"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/safetyctl/internal/metrics"
)

const (
	plotHeight = 10
	plotWidth  = 80
)

// PlotRun writes one graph of the scaling factor and one of the power
// before (red) and after (green) scaling.
func PlotRun(w io.Writer, samples []metrics.Sample) error {
	if len(samples) == 0 {
		return errors.New("no data to plot")
	}

	factors := make([]float64, len(samples))
	power := make([]float64, len(samples))
	tcpPower := make([]float64, len(samples))
	for i, s := range samples {
		factors[i] = s.Factor
		power[i] = s.Power
		tcpPower[i] = s.TCPPower
	}

	graph := asciigraph.Plot(factors,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(1),
		asciigraph.Caption("scaling factor"),
	)
	if _, err := fmt.Fprintf(w, "%s\n\n", graph); err != nil {
		return err
	}

	graph = asciigraph.PlotMany([][]float64{power, tcpPower},
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Green),
		asciigraph.Caption("power (W): desired red, commanded green"),
	)
	_, err := fmt.Fprintf(w, "%s\n\n", graph)
	return err
}
