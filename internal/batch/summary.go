package batch

// summarize aggregates file results, keeping failures in walk order.
func summarize(runID string, mode Mode, results []FileResult) Summary {
	summary := Summary{
		RunID:     runID,
		Mode:      mode,
		Processed: len(results),
		Failures:  make([]FileFailure, 0),
	}
	for _, result := range results {
		switch result.Outcome {
		case OutcomeChanged:
			summary.Changed++
		case OutcomeUnchanged:
			summary.Unchanged++
		case OutcomeError:
			summary.Errored++
		case OutcomeMismatch:
			summary.Mismatched++
		}
		if result.Err != nil {
			summary.Failures = append(summary.Failures, FileFailure{
				Path:    result.Path,
				Outcome: result.Outcome,
				Reason:  result.Reason(),
			})
		}
		if result.QA != nil {
			summary.QA.Pairs += result.QA.Total
			summary.QA.Perfect += result.QA.Perfect
			summary.QA.Good += result.QA.Good
			summary.QA.Below += result.QA.Below
			summary.QA.Invalid += result.QA.Invalid
		}
	}
	return summary
}
