package live

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"qaconv/internal/batch"
)

// TestReduceFileLifecycle verifies core status transitions are recorded.
func TestReduceFileLifecycle(t *testing.T) {
	runWithTimeout(t, time.Second, func() {
		start := time.Now()
		state := State{}
		state = Reduce(state, event(0, FilePending, "", start))
		state = Reduce(state, event(0, FileRunning, "", start))
		done := event(0, FileChanged, "", start.Add(150*time.Millisecond))
		done.Written = 4
		state = Reduce(state, done)

		row := state.Rows[0]
		if row.Status != FileChanged {
			t.Fatalf("expected changed status, got %s", row.Status)
		}
		if row.Written != 4 {
			t.Fatalf("expected written count to be set, got %d", row.Written)
		}
		if elapsed := formatRowDuration(row, time.Now()); elapsed != "200ms" {
			t.Fatalf("unexpected duration %q", elapsed)
		}
		if state.Counts.Changed != 1 || state.Counts.Done != 1 {
			t.Fatalf("expected changed count, got %+v", state.Counts)
		}
	})
}

// TestReduceGrowsRowsAsPending verifies out-of-order events pad earlier rows.
func TestReduceGrowsRowsAsPending(t *testing.T) {
	runWithTimeout(t, time.Second, func() {
		state := Reduce(State{}, event(2, FileRunning, "", time.Now()))
		if len(state.Rows) != 3 {
			t.Fatalf("expected 3 rows, got %d", len(state.Rows))
		}
		if state.Counts.Pending != 2 || state.Counts.Running != 1 {
			t.Fatalf("unexpected counts %+v", state.Counts)
		}
	})
}

// TestReduceTerminalErrors verifies error and mismatch handling.
func TestReduceTerminalErrors(t *testing.T) {
	runWithTimeout(t, time.Second, func() {
		state := State{}
		state = Reduce(state, event(0, FileError, "malformed record", time.Now()))
		if state.Rows[0].Reason == "" {
			t.Fatalf("expected error reason to be recorded")
		}
		if !strings.Contains(state.LastEvent, "malformed record") {
			t.Fatalf("expected footer to mention error, got %q", state.LastEvent)
		}
		state = Reduce(state, event(1, FileMismatch, "missing qg:hasSubQuestion", time.Now()))
		if state.Counts.Errored != 1 || state.Counts.Mismatched != 1 {
			t.Fatalf("unexpected counts %+v", state.Counts)
		}
	})
}

// TestReduceEventRunLifecycle verifies run start seeds pending rows and run end freezes the clock.
func TestReduceEventRunLifecycle(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	state := ReduceEvent(State{}, Event{Kind: EventRunStart, RunID: "run-1", Mode: "check", Files: []string{"/a.json", "/b.json"}}, start)
	if len(state.Rows) != 2 || state.Counts.Pending != 2 || state.Mode != "check" || !state.StartedAt.Equal(start) {
		t.Fatalf("unexpected start state %+v", state)
	}
	state = ReduceEvent(state, Event{Kind: EventFile, File: FileEvent{Index: 1, Path: "/b.json", Status: FileMismatch, Reason: "missing"}}, start)
	summary := batch.Summary{Processed: 2, Mismatched: 1}
	state = ReduceEvent(state, Event{Kind: EventRunEnd, Summary: &summary}, start.Add(1500*time.Millisecond))
	if !state.Finished || state.Counts.Mismatched != 1 {
		t.Fatalf("unexpected end state %+v", state)
	}
	if got := runElapsed(state, start.Add(time.Hour)); got != "1.5s" {
		t.Fatalf("expected elapsed frozen at 1.5s, got %q", got)
	}
	if rows := failures(state, 5); len(rows) != 1 || rows[0].Path != "/b.json" {
		t.Fatalf("unexpected failures %+v", rows)
	}
}

// TestModelViewShowsProgressAndFailures verifies the rendered view in plain mode.
func TestModelViewShowsProgressAndFailures(t *testing.T) {
	model := NewModel(nil, Options{NoColor: true})
	model = model.apply(Event{Kind: EventRunStart, RunID: "run-1", CaseDir: "/data/survey/wave1", Mode: "encode", Files: []string{"/a.json", "/b.json"}})
	model = model.apply(Event{Kind: EventFile, File: FileEvent{Index: 0, Path: "/a.json", Status: FileError, Reason: "malformed record: responses: is required"}})
	model = model.apply(Event{Kind: EventFile, File: FileEvent{Index: 1, Path: "/b.json", Status: FileUnchanged}})
	summary := batch.Summary{Processed: 2, Unchanged: 1, Errored: 1}
	model = model.apply(Event{Kind: EventRunEnd, Summary: &summary})

	view := model.View()
	for _, want := range []string{"qaconv encode", "run-1", "2/2 files", "unchanged 1", "Failures:", "error a.json: malformed record", "Run finished: 2 processed"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
}

// TestModelCtrlCInterruptsRun verifies ctrl+c runs the interrupt hook before quitting.
func TestModelCtrlCInterruptsRun(t *testing.T) {
	interrupts := 0
	model := NewModel(nil, Options{NoColor: true, OnInterrupt: func() { interrupts++ }})

	if _, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}); cmd != nil || interrupts != 0 {
		t.Fatalf("expected other keys to be ignored, got %d interrupts", interrupts)
	}
	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if interrupts != 1 {
		t.Fatalf("expected one interrupt, got %d", interrupts)
	}
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

// event builds a FileEvent for testing.
func event(index int, status FileStatus, reason string, when time.Time) FileEvent {
	return FileEvent{
		Index:     index,
		Path:      "/data/case.json",
		Status:    status,
		Reason:    reason,
		EmittedAt: when,
	}
}

// runWithTimeout executes a test body with a timeout.
func runWithTimeout(t *testing.T, timeout time.Duration, fn func()) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-ctx.Done():
		t.Fatalf("test timed out")
	}
}
