// Package viz renders safety controller runs in the terminal.
//
//   - [PlotRun]: asciigraph plots of the scaling factor and power
//   - [RenderSummary]: styled metric table
//   - [LiveModel]: Bubble Tea program stepping a scenario in real time
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Restart the scenario
//	Up/K  - Raise the power bound by 10%
//	Down/J- Lower the power bound by 10%
//	Q     - Quit
package viz
