package batch

import (
	"qaconv/internal/check"
	"qaconv/internal/format"
	"qaconv/internal/qa"
)

// Mode selects what the driver does with each case file.
type Mode string

const (
	// ModeEncode regenerates derived artifacts.
	ModeEncode Mode = "encode"
	// ModeCheck lints existing TTL artifacts against a fresh encoding.
	ModeCheck Mode = "check"
	// ModeQA validates QA score files against the case data.
	ModeQA Mode = "qa"
)

// Config is the explicit input of one batch run.
type Config struct {
	BaseDir string
	Dataset string
	Task    string
	// OutputDir defaults to the case directory.
	OutputDir string
	Formats   []format.Format
	Mode      Mode
	// Markers overrides the checker's default marker list.
	Markers []string
	Workers int
	DryRun  bool
	QA      qa.Thresholds
}

// Outcome classifies a processed file.
type Outcome string

const (
	OutcomeChanged   Outcome = "changed"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeError     Outcome = "error"
	OutcomeMismatch  Outcome = "mismatch"
)

// FileResult is the outcome of processing one case file.
type FileResult struct {
	Path    string
	CaseID  string
	Outcome Outcome
	// Written lists output paths that were (or, in dry runs, would be) rewritten.
	Written []string
	Err     error
	Check   *check.Report
	QA      *qa.Report
}

// Reason returns the failure text for errored or mismatched files.
func (r FileResult) Reason() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// FileFailure is one failure line in the summary.
type FileFailure struct {
	Path    string
	Outcome Outcome
	Reason  string
}

// QATotals aggregates grades over all QA files of a run.
type QATotals struct {
	Pairs   int
	Perfect int
	Good    int
	Below   int
	Invalid int
}

// Summary is the aggregate result of a run.
type Summary struct {
	RunID      string
	Mode       Mode
	Processed  int
	Changed    int
	Unchanged  int
	Errored    int
	Mismatched int
	Failures   []FileFailure
	QA         QATotals
}

// OK reports whether no file errored or mismatched.
func (s Summary) OK() bool {
	return s.Errored == 0 && s.Mismatched == 0
}
