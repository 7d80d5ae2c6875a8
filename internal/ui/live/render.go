package live

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const (
	colorHeader  = lipgloss.Color("33")
	colorMuted   = lipgloss.Color("242")
	colorFooter  = lipgloss.Color("244")
	colorFailure = lipgloss.Color("196")
	colorBar     = lipgloss.Color("42")
)

func renderHeader(state State, now time.Time, noColor bool) string {
	parts := []string{"qaconv " + orDefault(state.Mode, "run")}
	if state.RunID != "" {
		parts = append(parts, state.RunID)
	}
	if state.CaseDir != "" {
		parts = append(parts, state.CaseDir)
	}
	if elapsed := runElapsed(state, now); elapsed != "" {
		parts = append(parts, elapsed)
	}
	return stylize(strings.Join(parts, " | "), noColor, colorHeader)
}

// runElapsed freezes at the finish time once the run has ended.
func runElapsed(state State, now time.Time) string {
	if state.StartedAt.IsZero() {
		return ""
	}
	end := now
	if state.Finished && !state.FinishedAt.IsZero() {
		end = state.FinishedAt
	}
	return end.Sub(state.StartedAt).Round(100 * time.Millisecond).String()
}

// renderProgress draws "done/total" with a bar sized to the terminal, followed by outcome counts.
func renderProgress(counts StatusCounts, width int, noColor bool) string {
	total := counts.Done + counts.Running + counts.Pending
	label := fmt.Sprintf("%d/%d files", counts.Done, total)
	tallies := fmt.Sprintf("changed %d  unchanged %d  errored %d  mismatched %d",
		counts.Changed, counts.Unchanged, counts.Errored, counts.Mismatched)

	barWidth := max(width-len(label)-len(tallies)-6, 10)
	filled := 0
	if total > 0 {
		filled = barWidth * counts.Done / total
	}
	bar := strings.Repeat("#", filled)
	rest := strings.Repeat("-", barWidth-filled)
	if !noColor {
		bar = lipgloss.NewStyle().Foreground(colorBar).Render(bar)
		rest = lipgloss.NewStyle().Foreground(colorMuted).Render(rest)
	}
	return fmt.Sprintf("[%s%s] %s  %s", bar, rest, label, stylize(tallies, noColor, colorMuted))
}

func renderFailures(rows []FileRow, noColor bool) string {
	if len(rows) == 0 {
		return ""
	}
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, stylize("Failures:", noColor, colorFailure))
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("  %s %s: %s", row.Status, filepath.Base(row.Path), truncate(row.Reason, 100)))
	}
	return strings.Join(lines, "\n")
}

func renderFooter(state State, noColor bool) string {
	if state.LastEvent == "" {
		return ""
	}
	return stylize(state.LastEvent, noColor, colorFooter)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
