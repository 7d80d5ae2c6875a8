// Package check lints derived Turtle documents with a substring scan. It is
// a cheap structural check, not a grammar validator, and it never repairs
// documents; derived artifacts are regenerated from canonical JSON instead.
package check

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"qaconv/internal/format"
)

// DefaultMarkers are the literal substrings a Turtle document must carry.
var DefaultMarkers = []string{
	format.PrefixSurvey,
	format.PrefixPredicate,
	format.PrefixQuestionGroup,
	format.PredBaseQuestion,
	format.RelHasSubQuestion,
	format.PredHasGroupResponse,
}

// ErrStructuralMismatch marks a candidate that failed the marker scan.
var ErrStructuralMismatch = errors.New("structural mismatch")

// Report lists what the scan found wrong with a candidate.
type Report struct {
	MissingIndicators []string
	ShortIdentifiers  []string
}

// Consistent reports whether the candidate passed every check.
func (r Report) Consistent() bool {
	return len(r.MissingIndicators) == 0 && len(r.ShortIdentifiers) == 0
}

// Err returns a *StructuralMismatchError when the report is not consistent.
func (r Report) Err() error {
	if r.Consistent() {
		return nil
	}
	return &StructuralMismatchError{Report: r}
}

// StructuralMismatchError wraps an inconsistent report.
type StructuralMismatchError struct {
	Report Report
}

// Error returns a readable message listing missing markers and bad identifiers.
func (err *StructuralMismatchError) Error() string {
	if err == nil {
		return ""
	}
	parts := make([]string, 0, 2)
	if len(err.Report.MissingIndicators) > 0 {
		parts = append(parts, fmt.Sprintf("missing %s", quoteAll(err.Report.MissingIndicators)))
	}
	if len(err.Report.ShortIdentifiers) > 0 {
		parts = append(parts, fmt.Sprintf("short respondent identifiers %s", strings.Join(err.Report.ShortIdentifiers, ", ")))
	}
	return fmt.Sprintf("structural mismatch: %s", strings.Join(parts, "; "))
}

// Is matches ErrStructuralMismatch.
func (err *StructuralMismatchError) Is(target error) bool {
	return target == ErrStructuralMismatch
}

// Check scans candidate for each marker. A marker is required when the
// reference contains it; an empty reference requires every marker. Passing
// nil markers uses DefaultMarkers.
//
// Consistency is relative to the reference: a candidate is consistent when it
// carries every marker its reference carries. A marker absent from the
// reference is never reported, even when the candidate lacks it too.
func Check(candidate, reference string, markers []string) Report {
	if markers == nil {
		markers = DefaultMarkers
	}
	report := Report{
		MissingIndicators: findMissingMarkers(candidate, reference, markers),
		ShortIdentifiers:  findShortIdentifiers(candidate),
	}
	return report
}

// findMissingMarkers returns required markers absent from the candidate, in marker order.
func findMissingMarkers(candidate, reference string, markers []string) []string {
	missing := make([]string, 0)
	for _, marker := range markers {
		if marker == "" {
			continue
		}
		if reference != "" && !strings.Contains(reference, marker) {
			continue
		}
		if strings.Contains(candidate, marker) {
			continue
		}
		missing = append(missing, marker)
	}
	return missing
}

// shortIdentifierPattern matches subject fragments like :R42 or :R42_Group.
var shortIdentifierPattern = regexp.MustCompile(`(^|[\s;,])(:R\d+)(_[A-Za-z0-9_]+)?\b`)

// findShortIdentifiers lists distinct short-form respondent identifiers in first-seen order.
func findShortIdentifiers(candidate string) []string {
	found := make([]string, 0)
	seen := map[string]struct{}{}
	for _, match := range shortIdentifierPattern.FindAllStringSubmatch(candidate, -1) {
		token := match[2]
		if _, exists := seen[token]; exists {
			continue
		}
		if declaresQuestion(candidate, token) {
			continue
		}
		seen[token] = struct{}{}
		found = append(found, token)
	}
	return found
}

// declaresQuestion reports whether token is a question subject rather than a respondent.
func declaresQuestion(candidate, token string) bool {
	return strings.Contains(candidate, token+" "+format.PredText+" ") ||
		strings.Contains(candidate, token+" "+format.PredBaseQuestion+" ")
}

func quoteAll(values []string) string {
	quoted := make([]string, 0, len(values))
	for _, value := range values {
		quoted = append(quoted, fmt.Sprintf("%q", value))
	}
	return strings.Join(quoted, ", ")
}
