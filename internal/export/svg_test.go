package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/san-kum/safetyctl/internal/metrics"
)

func TestRunSeries(t *testing.T) {
	samples := []metrics.Sample{
		{Factor: 1, TCPPower: 0},
		{Factor: 0.5, TCPPower: -10},
	}
	series := RunSeries(samples, 10)
	if len(series) != 2 {
		t.Fatalf("got %d series, want 2", len(series))
	}
	if got := series[1].Values[1]; got != -1 {
		t.Errorf("normalised power = %v, want -1", got)
	}
	if got := series[0].Values[1]; got != 0.5 {
		t.Errorf("factor = %v, want 0.5", got)
	}
}

func TestWriteSVG(t *testing.T) {
	series := []Series{
		{Name: "a", Color: "#fff", Values: []float64{0, 1, 2}},
		{Name: "b", Color: "#000", Values: []float64{2, 1, 0}},
	}

	var buf bytes.Buffer
	if err := WriteSVG(&buf, series, 200, 100); err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "<?xml") {
		t.Error("missing xml header")
	}
	if got := strings.Count(out, "<path"); got != 2 {
		t.Errorf("got %d paths, want 2", got)
	}
	if !strings.Contains(out, "M0.0,") {
		t.Error("first point should start at x=0")
	}
	if !strings.HasSuffix(out, "</svg>\n") {
		t.Error("svg not closed")
	}
}

func TestWriteSVG_TooShort(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, []Series{{Values: []float64{1}}}, 10, 10); err == nil {
		t.Error("expected error for a single sample")
	}
	if err := WriteSVG(&buf, nil, 10, 10); err == nil {
		t.Error("expected error for no series")
	}
}
