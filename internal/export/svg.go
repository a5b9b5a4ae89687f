package export

import (
	"fmt"
	"io"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/safetyctl/internal/metrics"
)

// Series is one line of an SVG chart.
type Series struct {
	Name   string
	Color  string
	Values []float64
}

// RunSeries returns the scaling factor and the injected TCP power of a run,
// normalised by maxPower so both share the [-1, 1] band.
func RunSeries(samples []metrics.Sample, maxPower float64) []Series {
	factor := make([]float64, len(samples))
	power := make([]float64, len(samples))
	norm := maxPower
	if norm <= 0 {
		norm = 1
	}
	for i, s := range samples {
		factor[i] = s.Factor
		power[i] = s.TCPPower / norm
	}
	return []Series{
		{Name: "factor", Color: "#00ff00", Values: factor},
		{Name: "tcp power / max", Color: "#ff8800", Values: power},
	}
}

// WriteSVG draws each series as a polyline over a shared y range.
func WriteSVG(w io.Writer, series []Series, width, height int) error {
	lo, hi, n := bounds(series)
	if n < 2 {
		return fmt.Errorf("need at least 2 samples, got %d", n)
	}

	// padding
	span := hi - lo
	if span == 0 {
		span = 1
	}
	lo -= span * 0.1
	hi += span * 0.1
	span = hi - lo

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for i, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, s.Color)
		for j, v := range s.Values {
			x := float64(j) / float64(n-1) * float64(width)
			y := float64(height) - (v-lo)/span*float64(height)
			if j > 0 {
				sb.WriteString(" L")
			}
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		}
		sb.WriteString("\"/>\n")
		fmt.Fprintf(&sb, `<text x="8" y="%d" fill="%s" font-family="monospace" font-size="12">%s</text>
`, 16*(i+1), s.Color, s.Name)
	}
	sb.WriteString("</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func bounds(series []Series) (lo, hi float64, n int) {
	first := true
	for _, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		n = max(n, len(s.Values))
		smin, smax := floats.Min(s.Values), floats.Max(s.Values)
		if first {
			lo, hi, first = smin, smax, false
			continue
		}
		lo, hi = min(lo, smin), max(hi, smax)
	}
	return lo, hi, n
}
