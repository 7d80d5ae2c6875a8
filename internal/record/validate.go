package record

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedRecord marks canonical JSON that is missing required fields
// or violates referential integrity.
var ErrMalformedRecord = errors.New("malformed record")

// Issue captures a single problem found in a case record.
type Issue struct {
	Field   string
	Message string
}

// String formats the issue as field: message.
func (issue Issue) String() string {
	return fmt.Sprintf("%s: %s", issue.Field, issue.Message)
}

// MalformedRecordError reports why canonical JSON could not be loaded.
type MalformedRecordError struct {
	Issues []Issue
}

// Error returns a readable message for load failures.
func (err *MalformedRecordError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return ""
	}
	return fmt.Sprintf("malformed record: %s", JoinIssues(err.Issues))
}

// Is matches ErrMalformedRecord.
func (err *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// JoinIssues renders issues separated by semicolons.
func JoinIssues(issues []Issue) string {
	parts := make([]string, 0, len(issues))
	for _, issue := range issues {
		parts = append(parts, issue.String())
	}
	return strings.Join(parts, "; ")
}

type issueCollector struct {
	issues []Issue
}

func (collector *issueCollector) add(field, message string) {
	collector.issues = append(collector.issues, Issue{Field: field, Message: message})
}

func (collector *issueCollector) result() error {
	if len(collector.issues) == 0 {
		return nil
	}
	return &MalformedRecordError{Issues: collector.issues}
}

// Validate checks structural and referential integrity of a case record.
// It returns nil when the record is consistent.
func Validate(c CaseRecord) []Issue {
	collector := &issueCollector{}
	questions := validateQuestions(c.Questions, collector)
	validateResponses(c.Responses, questions, collector)
	return collector.issues
}

func validateQuestions(definitions []QuestionDefinition, collector *issueCollector) map[string]QuestionDefinition {
	questions := make(map[string]QuestionDefinition, len(definitions))
	for i, question := range definitions {
		if question.Key == "" {
			collector.add(fmt.Sprintf("questions[%d]", i), "key is required")
			continue
		}
		field := "questions." + question.Key
		if _, exists := questions[question.Key]; exists {
			collector.add(field, "duplicate question key")
			continue
		}
		questions[question.Key] = question
		if question.Group == nil {
			continue
		}
		if len(question.Group.SubQuestions) == 0 {
			collector.add(field+".sub_questions", "must include at least one entry")
		}
		seenSubs := map[string]struct{}{}
		for j, sub := range question.Group.SubQuestions {
			if sub.Key == "" {
				collector.add(fmt.Sprintf("%s.sub_questions[%d]", field, j), "key is required")
				continue
			}
			if _, exists := seenSubs[sub.Key]; exists {
				collector.add(field+".sub_questions."+sub.Key, "duplicate sub-question key")
				continue
			}
			seenSubs[sub.Key] = struct{}{}
		}
	}
	return questions
}

func validateResponses(responses []RespondentRecord, questions map[string]QuestionDefinition, collector *issueCollector) {
	seenIDs := map[int]struct{}{}
	for i, respondent := range responses {
		prefix := fmt.Sprintf("responses[%d]", i)
		if respondent.ID.Number < 0 {
			collector.add(prefix+".respondent", "must not be negative")
		}
		if _, exists := seenIDs[respondent.ID.Number]; exists {
			collector.add(prefix+".respondent", fmt.Sprintf("duplicate respondent %s", respondent.ID.Token()))
		}
		seenIDs[respondent.ID.Number] = struct{}{}

		seenAnswers := map[string]struct{}{}
		for _, answer := range respondent.Answers {
			field := prefix + ".answers." + answer.Key
			if _, exists := seenAnswers[answer.Key]; exists {
				collector.add(field, "duplicate answer key")
				continue
			}
			seenAnswers[answer.Key] = struct{}{}

			question, ok := questions[answer.Key]
			if !ok {
				collector.add(field, fmt.Sprintf("references undeclared question %q", answer.Key))
				continue
			}
			validateAnswerShape(field, question, answer, collector)
		}
	}
}

func validateAnswerShape(field string, question QuestionDefinition, answer Answer, collector *issueCollector) {
	if question.Group == nil {
		if answer.Grouped {
			collector.add(field, "grouped answer given for a simple question")
		}
		return
	}
	if !answer.Grouped {
		collector.add(field, "scalar answer given for a grouped question")
		return
	}
	declared := make(map[string]struct{}, len(question.Group.SubQuestions))
	for _, sub := range question.Group.SubQuestions {
		declared[sub.Key] = struct{}{}
	}
	seen := map[string]struct{}{}
	for _, sub := range answer.Group {
		if _, exists := seen[sub.Key]; exists {
			collector.add(field+"."+sub.Key, "duplicate sub-answer key")
			continue
		}
		seen[sub.Key] = struct{}{}
		if _, ok := declared[sub.Key]; !ok {
			collector.add(field+"."+sub.Key, "references undeclared sub-question")
		}
	}
	for _, sub := range question.Group.SubQuestions {
		if _, ok := seen[sub.Key]; !ok {
			collector.add(field+"."+sub.Key, "missing sub-answer; partial groups are not permitted")
		}
	}
}
