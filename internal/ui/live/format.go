package live

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"qaconv/internal/batch"
)

// fmtInt converts an int to string.
func fmtInt(value int) string {
	return strconv.Itoa(value)
}

// truncate collapses whitespace and shortens text to limit runes.
func truncate(text string, limit int) string {
	normalized := strings.Join(strings.Fields(text), " ")
	runes := []rune(normalized)
	if len(runes) <= limit {
		return normalized
	}
	return string(runes[:limit-3]) + "..."
}

// formatStatus renders a status string for a row.
func formatStatus(row FileRow, noColor bool) string {
	label := string(row.Status)
	if noColor {
		return label
	}
	return statusStyle(row.Status).Render(label)
}

// formatRowDuration returns elapsed or total time for a row.
func formatRowDuration(row FileRow, now time.Time) string {
	if !row.FinishedAt.IsZero() && !row.StartedAt.IsZero() {
		return row.FinishedAt.Sub(row.StartedAt).Round(100 * time.Millisecond).String()
	}
	if !row.StartedAt.IsZero() {
		return now.Sub(row.StartedAt).Round(100 * time.Millisecond).String()
	}
	return ""
}

// formatWritten formats the number of rewritten outputs.
func formatWritten(row FileRow) string {
	if row.Status != FileChanged {
		return ""
	}
	return fmtInt(row.Written)
}

// formatRunEnd formats the run completion footer.
func formatRunEnd(summary batch.Summary) string {
	return "Run finished: " + fmtInt(summary.Processed) + " processed, " +
		fmtInt(summary.Errored) + " errored, " + fmtInt(summary.Mismatched) + " mismatched"
}

// statusOf maps a batch outcome to a display status.
func statusOf(outcome batch.Outcome) FileStatus {
	switch outcome {
	case batch.OutcomeChanged:
		return FileChanged
	case batch.OutcomeUnchanged:
		return FileUnchanged
	case batch.OutcomeMismatch:
		return FileMismatch
	default:
		return FileError
	}
}

// statusStyle selects a style for a given status.
func statusStyle(status FileStatus) lipgloss.Style {
	color := lipgloss.Color("244")
	switch status {
	case FileChanged:
		color = lipgloss.Color("42")
	case FileUnchanged:
		color = lipgloss.Color("246")
	case FileMismatch:
		color = lipgloss.Color("220")
	case FileError:
		color = lipgloss.Color("196")
	case FileRunning:
		color = lipgloss.Color("33")
	}
	return lipgloss.NewStyle().Foreground(color)
}
