package format

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"qaconv/internal/record"
)

// educationCase builds the age + Parental_Education case used across encoder tests.
func educationCase() record.CaseRecord {
	return record.CaseRecord{
		Questions: []record.QuestionDefinition{
			record.SimpleQuestion("age", "How old are you?"),
			record.GroupedQuestion("Parental_Education", "Highest education?",
				record.SubQuestion{Key: "Mother", Text: "Mother"},
				record.SubQuestion{Key: "Father", Text: "Father"},
			),
		},
		Responses: []record.RespondentRecord{
			{
				ID: record.RespondentID{Number: 42, Form: record.FormBare},
				Answers: []record.Answer{
					record.ScalarAnswer("age", record.IntValue(30)),
					record.GroupAnswer("Parental_Education",
						record.SubAnswer{Key: "Mother", Value: record.StringValue("College")},
						record.SubAnswer{Key: "Father", Value: record.StringValue("HighSchool")},
					),
				},
			},
		},
	}
}

// TestParseFormats verifies names, aliases, and duplicate handling.
func TestParseFormats(t *testing.T) {
	formats, err := ParseFormats([]string{"TTL", ".xml", "text", "turtle"})
	if err != nil {
		t.Fatalf("parse formats: %v", err)
	}
	if diff := cmp.Diff([]Format{TTL, XML, Text}, formats); diff != "" {
		t.Fatalf("unexpected formats (-want +got):\n%s", diff)
	}
	if _, err := ParseFormat("yaml"); err == nil {
		t.Fatalf("expected unknown format error")
	}
	if Text.Extension() != ".txt" {
		t.Fatalf("unexpected extension %s", Text.Extension())
	}
}

// TestEncodersRejectUndeclaredAnswerKeys verifies every encoder enforces referential integrity.
func TestEncodersRejectUndeclaredAnswerKeys(t *testing.T) {
	c := educationCase()
	c.Responses[0].Answers = append(c.Responses[0].Answers, record.ScalarAnswer("height", record.IntValue(180)))
	for _, f := range append([]Format{JSON}, Derived...) {
		_, err := Encode(f, c)
		if !errors.Is(err, ErrEncode) {
			t.Fatalf("%s: expected encode error, got %v", f, err)
		}
		var encodeErr *EncodeError
		if !errors.As(err, &encodeErr) || encodeErr.Format != f {
			t.Fatalf("%s: expected *EncodeError for the format, got %v", f, err)
		}
		if !strings.Contains(err.Error(), "height") {
			t.Fatalf("%s: expected offending key in message, got %v", f, err)
		}
	}
}

// TestEncodersSucceedOnValidRecord verifies valid records encode in every format.
func TestEncodersSucceedOnValidRecord(t *testing.T) {
	for _, f := range append([]Format{JSON}, Derived...) {
		out, err := Encode(f, educationCase())
		if err != nil {
			t.Fatalf("%s: encode: %v", f, err)
		}
		if len(out) == 0 {
			t.Fatalf("%s: expected output", f)
		}
	}
}

// TestEncodersRejectIncompleteGroups verifies group answers must match the declared sub-keys.
func TestEncodersRejectIncompleteGroups(t *testing.T) {
	fewer := educationCase()
	fewer.Responses[0].Answers[1].Group = fewer.Responses[0].Answers[1].Group[:1]
	extra := educationCase()
	extra.Responses[0].Answers[1].Group = append(extra.Responses[0].Answers[1].Group,
		record.SubAnswer{Key: "Sibling", Value: record.StringValue("None")})
	for name, c := range map[string]record.CaseRecord{"fewer": fewer, "extra": extra} {
		if _, err := Encode(TTL, c); !errors.Is(err, ErrEncode) {
			t.Fatalf("%s: expected encode error, got %v", name, err)
		}
	}
}

// TestEncodeRejectsInvalidNumberLiteral verifies numbers must be JSON literals.
func TestEncodeRejectsInvalidNumberLiteral(t *testing.T) {
	c := educationCase()
	c.Responses[0].Answers[0].Value = record.NumberValue("thirty")
	if _, err := Encode(TTL, c); !errors.Is(err, ErrEncode) {
		t.Fatalf("expected encode error, got %v", err)
	}
}
