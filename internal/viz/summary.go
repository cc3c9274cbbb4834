package viz

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/krzem5/4CBLA10-group51-flight-path-solver/internal/search"
	"github.com/krzem5/4CBLA10-group51-flight-path-solver/internal/storage"
)

// RenderSummary formats the totals and per-worker bests of a finished run.
func RenderSummary(sum *search.Summary) string {
	var b strings.Builder
	b.WriteString(Title.Render("SWEEP SUMMARY") + "\n")
	b.WriteString(Separator(40) + "\n")
	b.WriteString(metric("start points", fmt.Sprintf("%d", sum.StartPoints)) + "\n")
	b.WriteString(metric("samples", fmt.Sprintf("%d", sum.Points)) + "\n")
	b.WriteString(metric("generated", FormatBytes(float64(sum.Bytes))) + "\n")
	b.WriteString(metric("cached", FormatBytes(float64(sum.CachedBytes))) + "\n")
	b.WriteString(metric("elapsed", sum.Elapsed.Round(time.Millisecond).String()) + "\n")
	b.WriteString(metric("throughput", FormatBytes(sum.BytesPerSecond())+"/s") + "\n")

	if sum.Best != nil {
		b.WriteString(metric("best x", fmt.Sprintf("%.6f", sum.Best.BestX)) + "\n")
		b.WriteString(metric("start v", fmt.Sprintf("%.17g", sum.Best.BestV)) + "\n")
		b.WriteString(metric("start θ", fmt.Sprintf("%.17g", sum.Best.BestTheta)) + "\n")
	} else {
		b.WriteString(StatusFailed.Render("no finite trajectory") + "\n")
	}

	b.WriteString("\n")
	header := fmt.Sprintf("%-8s %12s %14s %12s %12s", "worker", "trajectories", "best x", "start v", "start θ")
	b.WriteString(Subtle.Render(header) + "\n")
	for _, w := range sum.Workers {
		row := fmt.Sprintf("%-8d %12d %14s %12s %12s", w.Index, w.Trajectories, "-", "-", "-")
		if w.Found {
			row = fmt.Sprintf("%-8d %12d %14.6f %12.6f %12.6f", w.Index, w.Trajectories, w.BestX, w.BestV, w.BestTheta)
		}
		if sum.Best != nil && w.Index == sum.Best.Index {
			row = Highlight.Render(row)
		}
		b.WriteString(row + "\n")
	}

	return Panel.Render(strings.TrimRight(b.String(), "\n"))
}

// RenderRuns formats stored runs, one line each.
func RenderRuns(runs []storage.RunMetadata) string {
	if len(runs) == 0 {
		return Subtle.Render("no runs found")
	}

	rows := make([]string, 0, len(runs)+1)
	rows = append(rows, Subtle.Render(fmt.Sprintf("%-28s %-20s %-7s %10s %14s", "id", "time", "method", "points", "best x")))
	for _, r := range runs {
		method, best := "-", "-"
		if r.Config != nil {
			method = r.Config.Method
		}
		if r.Best != nil && r.Best.Found {
			best = fmt.Sprintf("%.6f", r.Best.BestX)
		}
		rows = append(rows, fmt.Sprintf("%-28s %-20s %-7s %10d %14s",
			r.ID, r.Timestamp.Format("2006-01-02 15:04:05"), method, r.StartPoints, best))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// FormatBytes scales n to the largest binary unit below it.
func FormatBytes(n float64) string {
	units := []string{"B", "KiB", "MiB", "GiB", "TiB"}
	i := 0
	for n >= 1024 && i < len(units)-1 {
		n /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%.0f %s", n, units[i])
	}
	return fmt.Sprintf("%.2f %s", n, units[i])
}
