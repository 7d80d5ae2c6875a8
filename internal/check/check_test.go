package check

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"qaconv/internal/format"
	"qaconv/internal/record"
)

func referenceTTL(t *testing.T) string {
	t.Helper()
	c := record.CaseRecord{
		Questions: []record.QuestionDefinition{
			record.SimpleQuestion("age", "Age?"),
			record.GroupedQuestion("Parental_Education", "Education?",
				record.SubQuestion{Key: "Mother", Text: "Mother"},
			),
		},
		Responses: []record.RespondentRecord{{
			ID: record.NewRespondentID(42),
			Answers: []record.Answer{
				record.ScalarAnswer("age", record.IntValue(30)),
				record.GroupAnswer("Parental_Education", record.SubAnswer{Key: "Mother", Value: record.StringValue("College")}),
			},
		}},
	}
	out, err := format.Encode(format.TTL, c)
	if err != nil {
		t.Fatalf("encode reference: %v", err)
	}
	return string(out)
}

// TestCheckReferenceAgainstItself verifies a known-good document reports nothing missing.
func TestCheckReferenceAgainstItself(t *testing.T) {
	reference := referenceTTL(t)
	report := Check(reference, reference, nil)
	if !report.Consistent() {
		t.Fatalf("expected consistent report, got %+v", report)
	}
	if report.Err() != nil {
		t.Fatalf("expected nil error, got %v", report.Err())
	}
}

// TestCheckDetectsOmittedMarker verifies deleting qg:hasSubQuestion is reported alone.
func TestCheckDetectsOmittedMarker(t *testing.T) {
	reference := referenceTTL(t)
	candidate := strings.ReplaceAll(reference, format.RelHasSubQuestion, "")
	report := Check(candidate, reference, nil)
	if diff := cmp.Diff([]string{format.RelHasSubQuestion}, report.MissingIndicators); diff != "" {
		t.Fatalf("unexpected missing markers (-want +got):\n%s", diff)
	}
	err := report.Err()
	if !errors.Is(err, ErrStructuralMismatch) {
		t.Fatalf("expected structural mismatch, got %v", err)
	}
	if !strings.Contains(err.Error(), format.RelHasSubQuestion) {
		t.Fatalf("expected marker in message, got %v", err)
	}
}

// TestCheckEmptyReferenceRequiresAllMarkers verifies the fallback to the full marker list.
func TestCheckEmptyReferenceRequiresAllMarkers(t *testing.T) {
	report := Check(format.PrefixSurvey+"\n", "", nil)
	want := []string{
		format.PrefixPredicate,
		format.PrefixQuestionGroup,
		format.PredBaseQuestion,
		format.RelHasSubQuestion,
		format.PredHasGroupResponse,
	}
	if diff := cmp.Diff(want, report.MissingIndicators); diff != "" {
		t.Fatalf("unexpected missing markers (-want +got):\n%s", diff)
	}
}

// TestCheckSkipsMarkersAbsentFromReference verifies markers only apply when the reference uses them.
func TestCheckSkipsMarkersAbsentFromReference(t *testing.T) {
	reference := strings.Join(format.Prefixes, "\n") + "\n:q pred:Text \"Q\" .\n"
	report := Check(reference, reference, nil)
	if !report.Consistent() {
		t.Fatalf("expected consistent report without group markers, got %+v", report)
	}
}

// TestCheckMarkerRequirementFollowsReference verifies the same candidate passes against a
// reference without the marker and fails against one that has it.
func TestCheckMarkerRequirementFollowsReference(t *testing.T) {
	candidate := strings.Join(format.Prefixes, "\n") + "\n:q pred:Text \"Q\" .\n"
	markers := []string{format.PredText, format.PredHasGroupResponse}

	if report := Check(candidate, candidate, markers); !report.Consistent() {
		t.Fatalf("expected consistent against a reference without groups, got %+v", report)
	}
	grouped := candidate + ":Respondent1 " + format.PredHasGroupResponse + " :Respondent1_g .\n"
	report := Check(candidate, grouped, markers)
	if diff := cmp.Diff([]string{format.PredHasGroupResponse}, report.MissingIndicators); diff != "" {
		t.Fatalf("unexpected missing markers (-want +got):\n%s", diff)
	}
}

// TestCheckCustomMarkers verifies caller-supplied markers replace the defaults.
func TestCheckCustomMarkers(t *testing.T) {
	report := Check("alpha", "", []string{"alpha", "beta", ""})
	if diff := cmp.Diff([]string{"beta"}, report.MissingIndicators); diff != "" {
		t.Fatalf("unexpected missing markers (-want +got):\n%s", diff)
	}
}

// TestCheckFlagsShortIdentifiers verifies R<N> subjects are rejected.
func TestCheckFlagsShortIdentifiers(t *testing.T) {
	reference := referenceTTL(t)
	candidate := strings.ReplaceAll(reference, ":Respondent42", ":R42")
	report := Check(candidate, reference, nil)
	if len(report.MissingIndicators) != 0 {
		t.Fatalf("expected no missing markers, got %+v", report.MissingIndicators)
	}
	if diff := cmp.Diff([]string{":R42"}, report.ShortIdentifiers); diff != "" {
		t.Fatalf("unexpected identifiers (-want +got):\n%s", diff)
	}
	if report.Consistent() {
		t.Fatalf("expected inconsistent report")
	}
}

// TestCheckIgnoresQuestionSubjectsShapedLikeIDs verifies question keys like R1 are not flagged.
func TestCheckIgnoresQuestionSubjectsShapedLikeIDs(t *testing.T) {
	candidate := ":R1 pred:Text \"First round\" .\n:Respondent3 pred:R1 2 .\n"
	report := Check(candidate, candidate, nil)
	if len(report.ShortIdentifiers) != 0 {
		t.Fatalf("expected no short identifiers, got %+v", report.ShortIdentifiers)
	}
}
