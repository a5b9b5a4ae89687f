package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderSummary formats run metrics as a bordered two-column table, sorted
// by metric name.
func RenderSummary(title string, values map[string]float64) string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			labelStyle.Render(name),
			valueStyle.Render(fmt.Sprintf("%.6f", values[name])),
		))
	}

	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(title),
		b.String(),
	))
}
