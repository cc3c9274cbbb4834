package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/krzem5/4CBLA10-group51-flight-path-solver/internal/search"
)

// ProgressMsg carries the completed percentage of the sweep.
type ProgressMsg uint

// DoneMsg ends the progress view.
type DoneMsg struct {
	Summary *search.Summary
	Err     error
}

type tickMsg time.Time

// ProgressModel is the Bubble Tea model shown by `run --tui`.
type ProgressModel struct {
	title     string
	workers   int
	percent   uint
	started   time.Time
	now       time.Time
	width     int
	done      bool
	cancelled bool
	summary   *search.Summary
	err       error
}

func NewProgressModel(title string, workers int) ProgressModel {
	now := time.Now()
	return ProgressModel{title: title, workers: workers, started: now, now: now, width: 80}
}

func tick() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m ProgressModel) Init() tea.Cmd { return tick() }

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ProgressMsg:
		if uint(msg) > m.percent {
			m.percent = min(uint(msg), 100)
		}
	case DoneMsg:
		m.done = true
		m.summary = msg.Summary
		m.err = msg.Err
		if msg.Err == nil {
			m.percent = 100
		}
		return m, tea.Quit
	case tickMsg:
		m.now = time.Time(msg)
		if !m.done {
			return m, tick()
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ProgressModel) View() string {
	var b strings.Builder
	b.WriteString(Title.Render(strings.ToUpper(m.title)) + "\n")
	b.WriteString(Subtle.Render(fmt.Sprintf("%d workers", m.workers)) + "\n\n")

	barWidth := m.width - 20
	if barWidth < 10 {
		barWidth = 10
	}
	if barWidth > 60 {
		barWidth = 60
	}
	b.WriteString(ProgressBar(float64(m.percent)/100, barWidth))
	b.WriteString(fmt.Sprintf(" %3d%%\n", m.percent))

	elapsed := m.now.Sub(m.started).Round(time.Second)
	status := StatusRunning.Render("running")
	switch {
	case m.err != nil:
		status = StatusFailed.Render("failed: " + m.err.Error())
	case m.done:
		status = StatusRunning.Render("done")
	case m.cancelled:
		status = StatusFailed.Render("cancelling")
	}
	b.WriteString(metric("elapsed", elapsed.String()) + "  " + status + "\n")

	if m.summary != nil && m.summary.Best != nil {
		b.WriteString(metric("best x", fmt.Sprintf("%.6f", m.summary.Best.BestX)) + "\n")
	}
	if !m.done {
		b.WriteString("\n" + KeyHint.Render("q cancel") + "\n")
	}
	return b.String()
}

func (m ProgressModel) Percent() uint   { return m.percent }
func (m ProgressModel) Cancelled() bool { return m.cancelled }
func (m ProgressModel) Done() bool      { return m.done }
