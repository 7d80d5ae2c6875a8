package qa

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"qaconv/internal/record"
)

// FileSuffix is appended to the case id to name its QA file.
const FileSuffix = ".qa.json"

// ErrInvalidPairs marks a QA file with pairs that do not match the case data.
var ErrInvalidPairs = errors.New("invalid qa pairs")

// InvalidPairsError lists the pairs that failed referential checks.
type InvalidPairsError struct {
	Report Report
}

// Error returns a readable message for failed pairs.
func (err *InvalidPairsError) Error() string {
	if err == nil {
		return ""
	}
	parts := make([]string, 0)
	for _, pair := range err.Report.Pairs {
		if len(pair.Problems) == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", pair.ID, strings.Join(pair.Problems, ", ")))
	}
	return fmt.Sprintf("%d of %d qa pairs invalid: %s", err.Report.Invalid, err.Report.Total, strings.Join(parts, "; "))
}

// Is matches ErrInvalidPairs.
func (err *InvalidPairsError) Is(target error) bool {
	return target == ErrInvalidPairs
}

// Err returns an *InvalidPairsError when any pair failed.
func (r Report) Err() error {
	if r.Invalid == 0 {
		return nil
	}
	return &InvalidPairsError{Report: r}
}

// LoadFile reads and parses a QA score file.
func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read qa file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a QA score file, rejecting unknown fields.
func Parse(data []byte) (File, error) {
	var file File
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&file); err != nil {
		return File{}, fmt.Errorf("parse qa json: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return File{}, fmt.Errorf("parse qa json: multiple documents are not supported")
		}
		return File{}, fmt.Errorf("parse qa json: %w", err)
	}
	return file, nil
}

// Evaluate grades each pair and checks it against the case record.
func Evaluate(file File, c record.CaseRecord, thresholds Thresholds) Report {
	maxScore := thresholds.MaxScore
	if maxScore <= 0 {
		for _, pair := range file.Pairs {
			maxScore = max(maxScore, pair.Score)
		}
	}
	perfect := thresholds.PerfectScore
	if perfect <= 0 {
		perfect = maxScore
	}

	report := Report{Pairs: make([]PairResult, 0, len(file.Pairs)), Total: len(file.Pairs)}
	for i, pair := range file.Pairs {
		result := PairResult{ID: pair.ID, Score: pair.Score}
		if result.ID == "" {
			result.ID = fmt.Sprintf("pairs[%d]", i)
		}
		result.Grade = grade(pair.Score, perfect, thresholds.GoodScore)
		result.Problems = checkPair(pair, c, maxScore)

		switch result.Grade {
		case GradePerfect:
			report.Perfect++
			report.Good++
		case GradeGood:
			report.Good++
		default:
			report.Below++
		}
		if len(result.Problems) > 0 {
			report.Invalid++
		}
		report.Pairs = append(report.Pairs, result)
	}
	return report
}

// grade classifies a score. Perfect implies good, so a perfect score below
// the good cut-off grades below.
func grade(score, perfect, good int) Grade {
	switch {
	case score == perfect && score >= good:
		return GradePerfect
	case score >= good:
		return GradeGood
	default:
		return GradeBelow
	}
}

func checkPair(pair Pair, c record.CaseRecord, maxScore int) []string {
	problems := make([]string, 0)
	if pair.Score < 0 || pair.Score > maxScore {
		problems = append(problems, fmt.Sprintf("score %d outside 0..%d", pair.Score, maxScore))
	}
	respondent, ok := c.Respondent(pair.Respondent)
	if !ok {
		return append(problems, fmt.Sprintf("unknown respondent %s", pair.Respondent.Token()))
	}
	value, declared, answered := lookupValue(c, respondent, pair.Question)
	if !declared {
		return append(problems, fmt.Sprintf("undeclared question %q", pair.Question))
	}
	if pair.Answer == "" {
		return problems
	}
	if !answered {
		return append(problems, fmt.Sprintf("%s did not answer %q", respondent.ID.Token(), pair.Question))
	}
	if normalizeAnswerText(pair.Answer) != normalizeAnswerText(value.Text) {
		problems = append(problems, fmt.Sprintf("answer %q does not match recorded %q", pair.Answer, value.Text))
	}
	return problems
}

// lookupValue resolves "key" or "group.sub" question references.
func lookupValue(c record.CaseRecord, respondent record.RespondentRecord, ref string) (record.Value, bool, bool) {
	if question, ok := c.Question(ref); ok && question.Group == nil {
		answer, answered := respondent.Answer(ref)
		return answer.Value, true, answered
	}
	dot := strings.LastIndex(ref, ".")
	if dot <= 0 {
		return record.Value{}, false, false
	}
	groupKey, subKey := ref[:dot], ref[dot+1:]
	question, ok := c.Question(groupKey)
	if !ok || question.Group == nil {
		return record.Value{}, false, false
	}
	declared := false
	for _, sub := range question.Group.SubQuestions {
		if sub.Key == subKey {
			declared = true
		}
	}
	if !declared {
		return record.Value{}, false, false
	}
	answer, answered := respondent.Answer(groupKey)
	if !answered {
		return record.Value{}, true, false
	}
	value, ok := answer.SubValue(subKey)
	return value, true, ok
}

// normalizeAnswerText trims whitespace and lowercases an answer for matching.
func normalizeAnswerText(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
