package batch

// Observer receives run lifecycle events for UI or logging. Calls are
// serialized by the driver even when workers run concurrently.
type Observer interface {
	// OnRunStart signals the start of a run with the files in walk order.
	OnRunStart(runID string, caseDir string, files []string)
	// OnFileStart signals that a file is being processed.
	OnFileStart(path string)
	// OnFileDone delivers a file outcome.
	OnFileDone(result FileResult)
	// OnRunEnd signals run completion.
	OnRunEnd(summary Summary)
}

type nopObserver struct{}

func (nopObserver) OnRunStart(string, string, []string) {}
func (nopObserver) OnFileStart(string)                  {}
func (nopObserver) OnFileDone(FileResult)               {}
func (nopObserver) OnRunEnd(Summary)                    {}
