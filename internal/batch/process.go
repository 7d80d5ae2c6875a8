package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"qaconv/internal/check"
	"qaconv/internal/format"
	"qaconv/internal/qa"
	"qaconv/internal/record"
)

// ProcessFile applies the driver's mode to one case file. Errors are
// captured in the result.
func (d *Driver) ProcessFile(ctx context.Context, path string) FileResult {
	result := FileResult{Path: path, CaseID: record.CaseID(path)}
	if err := ctx.Err(); err != nil {
		return result.fail(err)
	}
	c, err := record.LoadFile(path)
	if err != nil {
		return result.fail(err)
	}
	switch d.cfg.Mode {
	case ModeCheck:
		return d.checkCase(result, c)
	case ModeQA:
		return d.validateQA(result, c)
	default:
		return d.encodeCase(result, c)
	}
}

func (r FileResult) fail(err error) FileResult {
	r.Outcome = OutcomeError
	r.Err = err
	return r
}

func (r FileResult) mismatch(err error) FileResult {
	r.Outcome = OutcomeMismatch
	r.Err = err
	return r
}

// encodeCase encodes every format in memory before writing so a failing
// encoder leaves no partial output for the case.
func (d *Driver) encodeCase(result FileResult, c record.CaseRecord) FileResult {
	type output struct {
		path string
		data []byte
	}
	outputs := make([]output, 0, len(d.cfg.Formats))
	for _, f := range d.cfg.Formats {
		data, err := format.Encode(f, c)
		if err != nil {
			return result.fail(err)
		}
		outputs = append(outputs, output{path: d.cfg.OutputPath(result.CaseID, f), data: data})
	}

	if !d.cfg.DryRun {
		if err := os.MkdirAll(d.cfg.ResolvedOutputDir(), 0o755); err != nil {
			return result.fail(fmt.Errorf("create output dir: %w", err))
		}
	}
	for _, out := range outputs {
		changed, err := writeIfChanged(out.path, out.data, d.cfg.DryRun)
		if err != nil {
			return result.fail(err)
		}
		if changed {
			result.Written = append(result.Written, out.path)
		}
	}
	if len(result.Written) > 0 {
		result.Outcome = OutcomeChanged
	} else {
		result.Outcome = OutcomeUnchanged
	}
	return result
}

// writeIfChanged writes data unless the file already holds the same bytes.
func writeIfChanged(path string, data []byte, dryRun bool) (bool, error) {
	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		if bytes.Equal(existing, data) {
			return false, nil
		}
	case !errors.Is(err, os.ErrNotExist):
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	if dryRun {
		return true, nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}

func (d *Driver) checkCase(result FileResult, c record.CaseRecord) FileResult {
	reference, err := format.Encode(format.TTL, c)
	if err != nil {
		return result.fail(err)
	}
	candidatePath := d.cfg.OutputPath(result.CaseID, format.TTL)
	candidate, err := os.ReadFile(candidatePath)
	if err != nil {
		return result.fail(fmt.Errorf("read candidate: %w", err))
	}
	report := check.Check(string(candidate), string(reference), d.cfg.Markers)
	result.Check = &report
	if err := report.Err(); err != nil {
		return result.mismatch(fmt.Errorf("%s: %w", candidatePath, err))
	}
	result.Outcome = OutcomeUnchanged
	return result
}

func (d *Driver) validateQA(result FileResult, c record.CaseRecord) FileResult {
	qaPath := d.cfg.QAPath(result.CaseID)
	file, err := qa.LoadFile(qaPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			result.Outcome = OutcomeUnchanged
			return result
		}
		return result.fail(err)
	}
	report := qa.Evaluate(file, c, d.cfg.QA)
	result.QA = &report
	if err := report.Err(); err != nil {
		return result.mismatch(err)
	}
	result.Outcome = OutcomeUnchanged
	return result
}
