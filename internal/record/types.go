package record

// CaseRecord is the canonical in-memory form of one questionnaire case.
// Questions and Responses keep the order of the source JSON.
type CaseRecord struct {
	Questions []QuestionDefinition
	Responses []RespondentRecord
}

// QuestionDefinition is a simple question when Group is nil, a grouped
// question otherwise.
type QuestionDefinition struct {
	Key   string
	Text  string
	Group *QuestionGroup
}

// QuestionGroup holds the base prompt and ordered sub-questions of a grouped question.
type QuestionGroup struct {
	BaseQuestion string
	SubQuestions []SubQuestion
}

// SubQuestion is one entry of a question group.
type SubQuestion struct {
	Key  string
	Text string
}

// RespondentRecord holds one respondent's answers in file order.
type RespondentRecord struct {
	ID      RespondentID
	Answers []Answer
}

// Answer is either a scalar answer to a simple question or a set of
// sub-answers to a grouped question.
type Answer struct {
	Key     string
	Value   Value
	Grouped bool
	Group   []SubAnswer
}

// SubAnswer is the value given for one sub-question of a group.
type SubAnswer struct {
	Key   string
	Value Value
}

// SimpleQuestion builds a simple question definition.
func SimpleQuestion(key, text string) QuestionDefinition {
	return QuestionDefinition{Key: key, Text: text}
}

// GroupedQuestion builds a grouped question definition.
func GroupedQuestion(key, base string, subs ...SubQuestion) QuestionDefinition {
	return QuestionDefinition{
		Key:   key,
		Group: &QuestionGroup{BaseQuestion: base, SubQuestions: subs},
	}
}

// ScalarAnswer builds an answer to a simple question.
func ScalarAnswer(key string, value Value) Answer {
	return Answer{Key: key, Value: value}
}

// GroupAnswer builds an answer to a grouped question.
func GroupAnswer(key string, subs ...SubAnswer) Answer {
	if subs == nil {
		subs = []SubAnswer{}
	}
	return Answer{Key: key, Grouped: true, Group: subs}
}

// IsGrouped reports whether the question has sub-questions.
func (q QuestionDefinition) IsGrouped() bool {
	return q.Group != nil
}

// Prompt returns the question text, or the base question for groups.
func (q QuestionDefinition) Prompt() string {
	if q.Group != nil {
		return q.Group.BaseQuestion
	}
	return q.Text
}

// Question looks up a question definition by key.
func (c CaseRecord) Question(key string) (QuestionDefinition, bool) {
	for _, question := range c.Questions {
		if question.Key == key {
			return question, true
		}
	}
	return QuestionDefinition{}, false
}

// Respondent looks up a respondent by id number.
func (c CaseRecord) Respondent(id RespondentID) (RespondentRecord, bool) {
	for _, respondent := range c.Responses {
		if respondent.ID.Number == id.Number {
			return respondent, true
		}
	}
	return RespondentRecord{}, false
}

// Answer looks up the respondent's answer for a question key.
func (r RespondentRecord) Answer(key string) (Answer, bool) {
	for _, answer := range r.Answers {
		if answer.Key == key {
			return answer, true
		}
	}
	return Answer{}, false
}

// SubValue looks up a sub-answer value by sub-question key.
func (a Answer) SubValue(key string) (Value, bool) {
	for _, sub := range a.Group {
		if sub.Key == key {
			return sub.Value, true
		}
	}
	return Value{}, false
}
