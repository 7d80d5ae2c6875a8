package live

import "time"

// FileRow holds UI state for a single case file.
type FileRow struct {
	Index      int
	Path       string
	Status     FileStatus
	Written    int
	Reason     string
	StartedAt  time.Time
	FinishedAt time.Time
}

// StatusCounts aggregates counts by status bucket.
type StatusCounts struct {
	Pending    int
	Running    int
	Done       int
	Changed    int
	Unchanged  int
	Errored    int
	Mismatched int
}

// State captures the live UI state for a batch run.
type State struct {
	RunID      string
	CaseDir    string
	Mode       string
	StartedAt  time.Time
	FinishedAt time.Time
	Finished   bool
	LastEvent  string
	Rows       []FileRow
	Counts     StatusCounts
}
