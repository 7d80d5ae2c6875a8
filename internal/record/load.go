package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Canonical JSON field names.
const (
	fieldQuestions    = "questions"
	fieldResponses    = "responses"
	fieldRespondent   = "respondent"
	fieldAnswers      = "answers"
	fieldBaseQuestion = "base_question"
	fieldSubQuestions = "sub_questions"
)

// LoadFile reads and loads a canonical JSON case file.
func LoadFile(path string) (CaseRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CaseRecord{}, fmt.Errorf("read case record: %w", err)
	}
	return Load(data)
}

// CaseID derives the case id from a canonical JSON path.
func CaseID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Load parses canonical JSON into a CaseRecord and validates it. Any
// missing required field or integrity violation yields a
// *MalformedRecordError.
func Load(data []byte) (CaseRecord, error) {
	collector := &issueCollector{}
	fields, err := decodeObject(data)
	if err != nil {
		collector.add("$", err.Error())
		return CaseRecord{}, collector.result()
	}

	var record CaseRecord
	var questionsRaw, responsesRaw json.RawMessage
	for _, f := range fields {
		switch f.key {
		case fieldQuestions:
			questionsRaw = f.raw
		case fieldResponses:
			responsesRaw = f.raw
		default:
			collector.add(f.key, "unknown field")
		}
	}
	if questionsRaw == nil {
		collector.add(fieldQuestions, "is required")
	} else {
		record.Questions = parseQuestions(questionsRaw, collector)
	}
	if responsesRaw == nil {
		collector.add(fieldResponses, "is required")
	} else {
		record.Responses = parseResponses(responsesRaw, collector)
	}
	if err := collector.result(); err != nil {
		return CaseRecord{}, err
	}

	for _, issue := range Validate(record) {
		collector.add(issue.Field, issue.Message)
	}
	if err := collector.result(); err != nil {
		return CaseRecord{}, err
	}
	return record, nil
}

func parseQuestions(raw json.RawMessage, collector *issueCollector) []QuestionDefinition {
	fields, err := decodeObject(raw)
	if err != nil {
		collector.add(fieldQuestions, err.Error())
		return nil
	}
	questions := make([]QuestionDefinition, 0, len(fields))
	for _, f := range fields {
		field := fieldQuestions + "." + f.key
		switch leadingByte(f.raw) {
		case '"':
			var text string
			if err := json.Unmarshal(f.raw, &text); err != nil {
				collector.add(field, err.Error())
				continue
			}
			questions = append(questions, SimpleQuestion(f.key, text))
		case '{':
			group, ok := parseQuestionGroup(field, f.raw, collector)
			if !ok {
				continue
			}
			questions = append(questions, QuestionDefinition{Key: f.key, Group: group})
		default:
			collector.add(field, "must be a string or a question group object")
		}
	}
	return questions
}

func parseQuestionGroup(field string, raw json.RawMessage, collector *issueCollector) (*QuestionGroup, bool) {
	fields, err := decodeObject(raw)
	if err != nil {
		collector.add(field, err.Error())
		return nil, false
	}
	group := &QuestionGroup{}
	var haveBase, haveSubs bool
	for _, f := range fields {
		switch f.key {
		case fieldBaseQuestion:
			if err := json.Unmarshal(f.raw, &group.BaseQuestion); err != nil {
				collector.add(field+"."+fieldBaseQuestion, "must be a string")
				return nil, false
			}
			haveBase = true
		case fieldSubQuestions:
			subs, err := decodeObject(f.raw)
			if err != nil {
				collector.add(field+"."+fieldSubQuestions, err.Error())
				return nil, false
			}
			group.SubQuestions = make([]SubQuestion, 0, len(subs))
			for _, sub := range subs {
				var text string
				if err := json.Unmarshal(sub.raw, &text); err != nil {
					collector.add(field+"."+fieldSubQuestions+"."+sub.key, "must be a string")
					return nil, false
				}
				group.SubQuestions = append(group.SubQuestions, SubQuestion{Key: sub.key, Text: text})
			}
			haveSubs = true
		default:
			collector.add(field+"."+f.key, "unknown field")
		}
	}
	if !haveBase {
		collector.add(field+"."+fieldBaseQuestion, "is required")
	}
	if !haveSubs {
		collector.add(field+"."+fieldSubQuestions, "is required")
	}
	return group, haveBase && haveSubs
}

func parseResponses(raw json.RawMessage, collector *issueCollector) []RespondentRecord {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		collector.add(fieldResponses, "must be an array")
		return nil
	}
	responses := make([]RespondentRecord, 0, len(items))
	for i, item := range items {
		prefix := fmt.Sprintf("%s[%d]", fieldResponses, i)
		fields, err := decodeObject(item)
		if err != nil {
			collector.add(prefix, err.Error())
			continue
		}
		var respondent RespondentRecord
		var haveID, haveAnswers bool
		for _, f := range fields {
			switch f.key {
			case fieldRespondent:
				id, err := parseRespondentRaw(f.raw)
				if err != nil {
					collector.add(prefix+"."+fieldRespondent, err.Error())
					continue
				}
				respondent.ID = id
				haveID = true
			case fieldAnswers:
				respondent.Answers = parseAnswers(prefix+"."+fieldAnswers, f.raw, collector)
				haveAnswers = true
			default:
				collector.add(prefix+"."+f.key, "unknown field")
			}
		}
		if !haveID {
			collector.add(prefix+"."+fieldRespondent, "is required")
		}
		if !haveAnswers {
			collector.add(prefix+"."+fieldAnswers, "is required")
		}
		responses = append(responses, respondent)
	}
	return responses
}

func parseRespondentRaw(raw json.RawMessage) (RespondentID, error) {
	switch leadingByte(raw) {
	case '"':
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return RespondentID{}, err
		}
		return ParseRespondentID(text)
	default:
		literal := string(bytes.TrimSpace(raw))
		number, err := strconv.Atoi(literal)
		if err != nil || number < 0 {
			return RespondentID{}, fmt.Errorf("must be a non-negative integer or a Respondent<N> token, got %s", literal)
		}
		return RespondentID{Number: number, Form: FormBare}, nil
	}
}

func parseAnswers(field string, raw json.RawMessage, collector *issueCollector) []Answer {
	fields, err := decodeObject(raw)
	if err != nil {
		collector.add(field, err.Error())
		return nil
	}
	answers := make([]Answer, 0, len(fields))
	for _, f := range fields {
		answerField := field + "." + f.key
		if leadingByte(f.raw) == '{' {
			subs, err := decodeObject(f.raw)
			if err != nil {
				collector.add(answerField, err.Error())
				continue
			}
			group := make([]SubAnswer, 0, len(subs))
			for _, sub := range subs {
				value, err := parseValue(sub.raw)
				if err != nil {
					collector.add(answerField+"."+sub.key, err.Error())
					continue
				}
				group = append(group, SubAnswer{Key: sub.key, Value: value})
			}
			answers = append(answers, GroupAnswer(f.key, group...))
			continue
		}
		value, err := parseValue(f.raw)
		if err != nil {
			collector.add(answerField, err.Error())
			continue
		}
		answers = append(answers, ScalarAnswer(f.key, value))
	}
	return answers
}

func parseValue(raw json.RawMessage) (Value, error) {
	switch b := leadingByte(raw); {
	case b == '"':
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return Value{}, err
		}
		return StringValue(text), nil
	case b == '-' || (b >= '0' && b <= '9'):
		var number json.Number
		if err := json.Unmarshal(raw, &number); err != nil {
			return Value{}, err
		}
		return NumberValue(number.String()), nil
	default:
		return Value{}, fmt.Errorf("unsupported answer value %s (expected number or string)", strings.TrimSpace(string(raw)))
	}
}

// objectField is one key/value pair of a JSON object in source order.
type objectField struct {
	key string
	raw json.RawMessage
}

// decodeObject reads a JSON object keeping key order. Duplicate keys are rejected.
func decodeObject(data []byte) ([]objectField, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	token, err := decoder.Token()
	if err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected a JSON object")
	}
	fields := make([]objectField, 0)
	seen := map[string]struct{}{}
	for decoder.More() {
		keyToken, err := decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
		key, ok := keyToken.(string)
		if !ok {
			return nil, fmt.Errorf("parse json: expected object key")
		}
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
		if _, exists := seen[key]; exists {
			return nil, fmt.Errorf("duplicate key %q", key)
		}
		seen[key] = struct{}{}
		fields = append(fields, objectField{key: key, raw: raw})
	}
	if _, err := decoder.Token(); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if _, err := decoder.Token(); err == nil {
		return nil, fmt.Errorf("parse json: trailing data after object")
	}
	return fields, nil
}

func leadingByte(raw []byte) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
