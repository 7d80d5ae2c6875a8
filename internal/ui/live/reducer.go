package live

import (
	"fmt"
	"path/filepath"
	"time"
)

// Reduce applies a file event to the UI state.
func Reduce(state State, event FileEvent) State {
	state = ensureRow(state, event)
	state = applyFileEvent(state, event)
	state.Counts = recount(state.Rows)
	if message := formatLastEvent(event); message != "" {
		state.LastEvent = message
	}
	return state
}

// ensureRow grows the state rows to include the target index.
func ensureRow(state State, event FileEvent) State {
	if event.Index < 0 || event.Index < len(state.Rows) {
		return state
	}
	rows := make([]FileRow, event.Index+1)
	copy(rows, state.Rows)
	for i := len(state.Rows); i < len(rows); i++ {
		rows[i] = FileRow{Index: i, Status: FilePending}
	}
	state.Rows = rows
	return state
}

// applyFileEvent updates a row with the given event.
func applyFileEvent(state State, event FileEvent) State {
	if event.Index < 0 || event.Index >= len(state.Rows) {
		return state
	}
	row := state.Rows[event.Index]
	if row.Path == "" {
		row.Path = event.Path
	}
	row.Status = event.Status
	if event.Status == FileRunning && row.StartedAt.IsZero() {
		row.StartedAt = event.EmittedAt
	}
	if isTerminalStatus(event.Status) {
		if !event.EmittedAt.IsZero() {
			row.FinishedAt = event.EmittedAt
		}
		row.Written = event.Written
		row.Reason = event.Reason
	}
	state.Rows[event.Index] = row
	return state
}

// isTerminalStatus reports whether a status is final.
func isTerminalStatus(status FileStatus) bool {
	switch status {
	case FileChanged, FileUnchanged, FileError, FileMismatch:
		return true
	default:
		return false
	}
}

// recount recomputes status counts for the current rows.
func recount(rows []FileRow) StatusCounts {
	var counts StatusCounts
	for _, row := range rows {
		switch row.Status {
		case FilePending:
			counts.Pending++
		case FileRunning:
			counts.Running++
		case FileChanged:
			counts.Done++
			counts.Changed++
		case FileUnchanged:
			counts.Done++
			counts.Unchanged++
		case FileError:
			counts.Done++
			counts.Errored++
		case FileMismatch:
			counts.Done++
			counts.Mismatched++
		}
	}
	return counts
}

// formatLastEvent creates a short footer message for the event.
func formatLastEvent(event FileEvent) string {
	name := filepath.Base(event.Path)
	switch event.Status {
	case FileError:
		return fmt.Sprintf("%s failed: %s", name, event.Reason)
	case FileMismatch:
		return fmt.Sprintf("%s mismatched: %s", name, event.Reason)
	case FileChanged:
		return fmt.Sprintf("%s wrote %d file(s)", name, event.Written)
	}
	return ""
}

// ReduceEvent applies a run-level event. Run start replaces all rows with
// pending entries for the walked files.
func ReduceEvent(state State, event Event, now time.Time) State {
	switch event.Kind {
	case EventRunStart:
		state.RunID = event.RunID
		state.CaseDir = event.CaseDir
		if event.Mode != "" {
			state.Mode = event.Mode
		}
		if state.StartedAt.IsZero() {
			state.StartedAt = now
		}
		state.Rows = make([]FileRow, len(event.Files))
		for index, path := range event.Files {
			state.Rows[index] = FileRow{Index: index, Path: path, Status: FilePending}
		}
		state.Counts = recount(state.Rows)
		state.LastEvent = ""
	case EventFile:
		state = Reduce(state, event.File)
	case EventRunEnd:
		state.Finished = true
		state.FinishedAt = now
		if event.Summary != nil {
			state.LastEvent = formatRunEnd(*event.Summary)
		}
	}
	return state
}

// failures returns the most recent error and mismatch rows, newest first.
func failures(state State, limit int) []FileRow {
	var rows []FileRow
	for i := len(state.Rows) - 1; i >= 0 && len(rows) < limit; i-- {
		switch state.Rows[i].Status {
		case FileError, FileMismatch:
			rows = append(rows, state.Rows[i])
		}
	}
	return rows
}
