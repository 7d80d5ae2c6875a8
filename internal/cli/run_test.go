package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"qaconv/internal/batch"
	"qaconv/internal/ui/live"
)

const caseTemplate = `{
  "questions": {
    "age": "How old are you?",
    "Parental_Education": {"base_question": "Highest education?", "sub_questions": {"Mother": "Mother"}}
  },
  "responses": [
    {"respondent": %d, "answers": {"age": 30, "Parental_Education": {"Mother": "College"}}}
  ]
}`

func writeTree(t *testing.T, files map[string]string) (string, string) {
	t.Helper()
	base := t.TempDir()
	caseDir := filepath.Join(base, "survey", "wave1")
	if err := os.MkdirAll(caseDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(caseDir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return base, caseDir
}

func treeArgs(command, base string, extra ...string) []string {
	args := []string{command, "--base-dir", base, "--dataset", "survey", "--task", "wave1", "--ui", "plain", "--no-color"}
	return append(args, extra...)
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	return line
}

// TestEncodeCommandReportsSummary verifies totals and failure lines for a mixed batch.
func TestEncodeCommandReportsSummary(t *testing.T) {
	base, caseDir := writeTree(t, map[string]string{
		"a.json":   fmt.Sprintf(caseTemplate, 1),
		"bad.json": `{"questions": {}}`,
		"c.json":   fmt.Sprintf(caseTemplate, 3),
	})

	var out, errOut bytes.Buffer
	code := Run(treeArgs("encode", base), &out, &errOut)
	if code != ExitError {
		t.Fatalf("expected exit %d, got %d (stderr %q)", ExitError, code, errOut.String())
	}
	if got := firstLine(out.String()); got != "Processed: 3 Changed: 2 Unchanged: 0 Errored: 1 Mismatched: 0" {
		t.Fatalf("unexpected summary line %q", got)
	}
	if !strings.Contains(out.String(), filepath.Join(caseDir, "bad.json")+": malformed record") {
		t.Fatalf("expected failure line, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "file failed") {
		t.Fatalf("expected failure to be logged, got %q", errOut.String())
	}
	for _, name := range []string{"a.xml", "a.html", "a.ttl", "a.txt", "c.ttl"} {
		if _, err := os.Stat(filepath.Join(caseDir, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}

	if err := os.Remove(filepath.Join(caseDir, "bad.json")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	out.Reset()
	code = Run(treeArgs("encode", base), &out, io.Discard)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d", ExitOK, code)
	}
	if got := firstLine(out.String()); got != "Processed: 2 Changed: 0 Unchanged: 2 Errored: 0 Mismatched: 0" {
		t.Fatalf("unexpected summary line %q", got)
	}
}

// TestCheckCommandReportsMismatch verifies check mode exits non-zero on missing markers.
func TestCheckCommandReportsMismatch(t *testing.T) {
	base, caseDir := writeTree(t, map[string]string{"a.json": fmt.Sprintf(caseTemplate, 1)})
	if code := Run(treeArgs("encode", base, "--formats", "ttl"), io.Discard, io.Discard); code != ExitOK {
		t.Fatalf("encode failed with %d", code)
	}

	var out bytes.Buffer
	if code := Run(treeArgs("check", base), &out, io.Discard); code != ExitOK {
		t.Fatalf("expected clean check, got %d: %s", code, out.String())
	}

	ttlPath := filepath.Join(caseDir, "a.ttl")
	data, err := os.ReadFile(ttlPath)
	if err != nil {
		t.Fatalf("read ttl: %v", err)
	}
	if err := os.WriteFile(ttlPath, []byte(strings.ReplaceAll(string(data), "pred:hasGroupResponse", "pred:groupResponse")), 0o644); err != nil {
		t.Fatalf("write ttl: %v", err)
	}
	out.Reset()
	if code := Run(treeArgs("check", base), &out, io.Discard); code != ExitError {
		t.Fatalf("expected mismatch exit, got %d", code)
	}
	if got := firstLine(out.String()); got != "Processed: 1 Changed: 0 Unchanged: 0 Errored: 0 Mismatched: 1" {
		t.Fatalf("unexpected summary line %q", got)
	}
	if !strings.Contains(out.String(), "pred:hasGroupResponse") {
		t.Fatalf("expected missing marker in output, got %q", out.String())
	}
}

// TestQACommandPrintsGradeTotals verifies the QA summary line and threshold flags.
func TestQACommandPrintsGradeTotals(t *testing.T) {
	base, _ := writeTree(t, map[string]string{
		"a.json":    fmt.Sprintf(caseTemplate, 1),
		"a.qa.json": `{"pairs": [{"id": "p1", "respondent": "Respondent1", "question": "age", "answer": "30", "score": 4}, {"id": "p2", "respondent": 1, "question": "Parental_Education.Mother", "score": 3}]}`,
	})
	var out bytes.Buffer
	code := Run(treeArgs("qa", base, "--good-score", "3", "--max-score", "4"), &out, io.Discard)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d: %s", ExitOK, code, out.String())
	}
	if !strings.Contains(out.String(), "QA pairs: 2 Perfect: 1 Good: 2 Below: 0 Invalid: 0") {
		t.Fatalf("unexpected qa output %q", out.String())
	}
}

// TestEncodeUsesConfigFile verifies config values apply and flags override them.
func TestEncodeUsesConfigFile(t *testing.T) {
	base, caseDir := writeTree(t, map[string]string{"a.json": fmt.Sprintf(caseTemplate, 1)})
	configPath := filepath.Join(base, "qaconv.yml")
	body := "version: 1\nbase_dir: .\ndataset: survey\ntask: wave1\nformats: [ttl]\n"
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var out bytes.Buffer
	if code := Run([]string{"encode", "--config", configPath, "--ui", "plain"}, &out, io.Discard); code != ExitOK {
		t.Fatalf("expected exit %d, got %d", ExitOK, code)
	}
	if _, err := os.Stat(filepath.Join(caseDir, "a.ttl")); err != nil {
		t.Fatalf("expected ttl output: %v", err)
	}
	if _, err := os.Stat(filepath.Join(caseDir, "a.xml")); !os.IsNotExist(err) {
		t.Fatalf("expected no xml output, got %v", err)
	}

	if code := Run([]string{"encode", "--config", configPath, "--ui", "plain", "--formats", "xml", "--dry-run"}, &out, io.Discard); code != ExitOK {
		t.Fatalf("expected exit %d, got %d", ExitOK, code)
	}
	if _, err := os.Stat(filepath.Join(caseDir, "a.xml")); !os.IsNotExist(err) {
		t.Fatalf("expected dry run to skip xml output, got %v", err)
	}
}

// TestEncodeRejectsInvalidConfig verifies validation errors surface before running.
func TestEncodeRejectsInvalidConfig(t *testing.T) {
	base, _ := writeTree(t, nil)
	var errOut bytes.Buffer
	code := Run(treeArgs("encode", base, "--formats", "pdf", "--workers", "-2"), io.Discard, &errOut)
	if code != ExitError {
		t.Fatalf("expected exit %d, got %d", ExitError, code)
	}
	for _, want := range []string{"formats[0]", "workers"} {
		if !strings.Contains(errOut.String(), want) {
			t.Fatalf("expected %q in %q", want, errOut.String())
		}
	}
}

// TestValidateCommand verifies config and case validation output.
func TestValidateCommand(t *testing.T) {
	base, _ := writeTree(t, map[string]string{
		"a.json": fmt.Sprintf(caseTemplate, 1),
		"b.json": `{"questions": {"age": "Age?"}, "responses": [{"respondent": 1, "answers": {"height": 2}}]}`,
	})
	var out, errOut bytes.Buffer
	code := Run(treeArgs("validate", base), &out, &errOut)
	if code != ExitError {
		t.Fatalf("expected exit %d, got %d", ExitError, code)
	}
	if !strings.Contains(out.String(), "Config OK") || !strings.Contains(out.String(), "Cases: 2 Valid: 1 Invalid: 1") {
		t.Fatalf("unexpected output %q", out.String())
	}
	if !strings.Contains(errOut.String(), "undeclared question") {
		t.Fatalf("expected undeclared question issue, got %q", errOut.String())
	}
}

type fakeUI struct {
	started bool
	files   int
	ended   bool
	closed  bool
	waited  bool
}

func (f *fakeUI) OnRunStart(_ string, _ string, files []string) {
	f.started = true
	f.files = len(files)
}
func (f *fakeUI) OnFileStart(string)          {}
func (f *fakeUI) OnFileDone(batch.FileResult) {}
func (f *fakeUI) OnRunEnd(batch.Summary)      { f.ended = true }
func (f *fakeUI) Close()                      { f.closed = true }
func (f *fakeUI) Wait()                       { f.waited = true }

// TestEncodeDrivesLiveUI verifies the live controller observes the run on a TTY.
func TestEncodeDrivesLiveUI(t *testing.T) {
	base, _ := writeTree(t, map[string]string{"a.json": fmt.Sprintf(caseTemplate, 1)})

	originalTTY, originalStart := isTerminal, startLiveUI
	t.Cleanup(func() {
		isTerminal = originalTTY
		startLiveUI = originalStart
	})
	isTerminal = func(io.Writer) bool { return true }
	ui := &fakeUI{}
	var gotMode string
	startLiveUI = func(_ io.Writer, opts live.Options) liveUI {
		gotMode = opts.Mode
		return ui
	}

	args := []string{"encode", "--base-dir", base, "--dataset", "survey", "--task", "wave1", "--no-color"}
	if code := Run(args, io.Discard, io.Discard); code != ExitOK {
		t.Fatalf("expected exit %d, got %d", ExitOK, code)
	}
	if !ui.started || ui.files != 1 || !ui.ended || !ui.closed || !ui.waited {
		t.Fatalf("unexpected ui calls: %+v", ui)
	}
	if gotMode != "encode" {
		t.Fatalf("expected encode mode, got %q", gotMode)
	}
}

// interruptingUI presses ctrl+c as soon as the run starts.
type interruptingUI struct {
	fakeUI
	interrupt func()
}

func (f *interruptingUI) OnRunStart(runID string, caseDir string, files []string) {
	f.fakeUI.OnRunStart(runID, caseDir, files)
	f.interrupt()
}

// TestLiveUIInterruptCancelsRun verifies quitting the live UI cancels the batch.
func TestLiveUIInterruptCancelsRun(t *testing.T) {
	base, _ := writeTree(t, map[string]string{"a.json": fmt.Sprintf(caseTemplate, 1)})

	originalTTY, originalStart := isTerminal, startLiveUI
	t.Cleanup(func() {
		isTerminal = originalTTY
		startLiveUI = originalStart
	})
	isTerminal = func(io.Writer) bool { return true }
	ui := &interruptingUI{}
	startLiveUI = func(_ io.Writer, opts live.Options) liveUI {
		if opts.OnInterrupt == nil {
			t.Fatalf("expected an interrupt hook")
		}
		ui.interrupt = opts.OnInterrupt
		return ui
	}

	var errOut bytes.Buffer
	args := []string{"encode", "--base-dir", base, "--dataset", "survey", "--task", "wave1", "--no-color"}
	if code := Run(args, io.Discard, &errOut); code != ExitError {
		t.Fatalf("expected exit %d, got %d", ExitError, code)
	}
	if !strings.Contains(errOut.String(), "Run interrupted: context canceled") {
		t.Fatalf("expected interrupted run, got %q", errOut.String())
	}
	if !ui.started || !ui.ended || !ui.closed || !ui.waited {
		t.Fatalf("unexpected ui calls: %+v", ui.fakeUI)
	}
}

// TestJSONLogsKeepPlainOutput verifies structured logs suppress the live table even on a TTY.
func TestJSONLogsKeepPlainOutput(t *testing.T) {
	base, _ := writeTree(t, map[string]string{"a.json": fmt.Sprintf(caseTemplate, 1)})

	originalTTY, originalStart := isTerminal, startLiveUI
	t.Cleanup(func() {
		isTerminal = originalTTY
		startLiveUI = originalStart
	})
	isTerminal = func(io.Writer) bool { return true }
	startLiveUI = func(io.Writer, live.Options) liveUI {
		t.Fatalf("live UI should not start with json logs")
		return nil
	}

	var out, errOut bytes.Buffer
	args := []string{"encode", "--base-dir", base, "--dataset", "survey", "--task", "wave1", "--ui", "live", "--log-format", "json", "--no-color"}
	if code := Run(args, &out, &errOut); code != ExitOK {
		t.Fatalf("expected exit %d, got %d: %s", ExitOK, code, errOut.String())
	}
	if !strings.Contains(errOut.String(), "Live UI disabled") {
		t.Fatalf("expected fallback warning, got %q", errOut.String())
	}
	if !strings.Contains(out.String(), "Processed: 1") {
		t.Fatalf("expected plain summary, got %q", out.String())
	}
}
