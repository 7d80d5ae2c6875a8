package format

import (
	"bytes"
	"context"
	"fmt"
	"unicode"
	"unicode/utf8"

	"qaconv/internal/record"
)

//go:generate templ generate -f case_page.templ

// HTMLEncoder renders the questions list followed by one block per respondent.
// Markup lives in case_page.templ.
type HTMLEncoder struct{}

// Format implements Encoder.
func (HTMLEncoder) Format() Format { return HTML }

// Encode implements Encoder.
func (HTMLEncoder) Encode(c record.CaseRecord) ([]byte, error) {
	if err := checkEncodable(HTML, c); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := CasePage(c).Render(context.Background(), &buf); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

type answeredQuestion struct {
	question record.QuestionDefinition
	answer   record.Answer
}

// answeredQuestions pairs each question with the respondent's answer, in
// question order, skipping questions the respondent left out.
func answeredQuestions(questions []record.QuestionDefinition, respondent record.RespondentRecord) []answeredQuestion {
	items := make([]answeredQuestion, 0, len(questions))
	for _, question := range questions {
		answer, ok := respondent.Answer(question.Key)
		if !ok {
			continue
		}
		items = append(items, answeredQuestion{question: question, answer: answer})
	}
	return items
}

func subDisplayValue(answer record.Answer, key string) string {
	value, _ := answer.SubValue(key)
	return displayValue(value)
}

// displayValue lowercases single-letter option codes; anything else is unchanged.
func displayValue(value record.Value) string {
	text := value.Text
	if utf8.RuneCountInString(text) != 1 {
		return text
	}
	r, _ := utf8.DecodeRuneInString(text)
	if !unicode.IsLetter(r) {
		return text
	}
	return string(unicode.ToLower(r))
}
