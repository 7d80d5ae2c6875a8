package live

import (
	"time"

	"qaconv/internal/batch"
)

// EventKind identifies the type of live UI event.
type EventKind int

const (
	// EventRunStart signals the start of a run.
	EventRunStart EventKind = iota
	// EventFile delivers a file status update.
	EventFile
	// EventRunEnd signals run completion.
	EventRunEnd
)

// FileStatus is the display state of one case file.
type FileStatus string

const (
	FilePending   FileStatus = "pending"
	FileRunning   FileStatus = "running"
	FileChanged   FileStatus = "changed"
	FileUnchanged FileStatus = "unchanged"
	FileError     FileStatus = "error"
	FileMismatch  FileStatus = "mismatch"
)

// FileEvent carries a single status update for a file.
type FileEvent struct {
	Index     int
	Path      string
	Status    FileStatus
	Written   int
	Reason    string
	EmittedAt time.Time
}

// Event carries a UI update payload.
type Event struct {
	Kind    EventKind
	RunID   string
	CaseDir string
	Mode    string
	Files   []string
	File    FileEvent
	Summary *batch.Summary
}
