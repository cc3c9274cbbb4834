// Package viz renders sweep results in the terminal.
//
//   - [RenderSummary] and [RenderRuns]: lipgloss tables for finished runs
//   - [PlotTrajectory]: altitude over distance of a stored trajectory
//   - [ProgressModel]: Bubble Tea view of a running sweep
package viz
