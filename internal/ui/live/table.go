package live

import (
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

const (
	fileColumnWidth   = 36
	statusColumnWidth = 12
	timeColumnWidth   = 8
	outputColumnWidth = 8
	minReasonWidth    = 20
)

// columnsForWidth gives the remaining width to the reason column.
func columnsForWidth(width int) []table.Column {
	fixed := fileColumnWidth + statusColumnWidth + timeColumnWidth + outputColumnWidth + 8
	reason := max(width-fixed, minReasonWidth)
	return []table.Column{
		{Title: "File", Width: fileColumnWidth},
		{Title: "Status", Width: statusColumnWidth},
		{Title: "Time", Width: timeColumnWidth},
		{Title: "Outputs", Width: outputColumnWidth},
		{Title: "Reason", Width: reason},
	}
}

// tableStyles returns table styles for the UI.
func tableStyles(noColor bool) table.Styles {
	if noColor {
		return table.DefaultStyles()
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	return styles
}

// rowsForState converts UI state into table rows.
func rowsForState(state State, now time.Time, noColor bool) []table.Row {
	rows := make([]table.Row, 0, len(state.Rows))
	for _, row := range state.Rows {
		rows = append(rows, table.Row{
			truncate(filepath.Base(row.Path), fileColumnWidth),
			formatStatus(row, noColor),
			formatRowDuration(row, now),
			formatWritten(row),
			truncate(row.Reason, 80),
		})
	}
	return rows
}
