package format

import (
	"strings"

	"qaconv/internal/record"
)

// TextEncoder writes an indented plain-text listing of questions and responses.
type TextEncoder struct{}

// Format implements Encoder.
func (TextEncoder) Format() Format { return Text }

// Encode implements Encoder.
func (TextEncoder) Encode(c record.CaseRecord) ([]byte, error) {
	if err := checkEncodable(Text, c); err != nil {
		return nil, err
	}
	var b strings.Builder
	b.WriteString("Questions:\n")
	for _, question := range c.Questions {
		writeLine(&b, 0, question.Key, question.Prompt())
		if question.Group == nil {
			continue
		}
		for _, sub := range question.Group.SubQuestions {
			writeLine(&b, 1, sub.Key, sub.Text)
		}
	}

	b.WriteString("\nResponses:\n")
	for _, respondent := range c.Responses {
		b.WriteString(respondent.ID.Token() + ":\n")
		for _, question := range c.Questions {
			answer, ok := respondent.Answer(question.Key)
			if !ok {
				continue
			}
			if question.Group == nil {
				writeLine(&b, 1, question.Key, answer.Value.Text)
				continue
			}
			b.WriteString(indent(1) + question.Key + ":\n")
			for _, sub := range question.Group.SubQuestions {
				value, _ := answer.SubValue(sub.Key)
				writeLine(&b, 2, sub.Key, value.Text)
			}
		}
	}
	return []byte(b.String()), nil
}

func writeLine(b *strings.Builder, depth int, key, text string) {
	b.WriteString(indent(depth) + key + ": " + flattenLines(text) + "\n")
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}

// flattenLines keeps multi-line text on one output line.
func flattenLines(text string) string {
	if !strings.ContainsAny(text, "\r\n") {
		return text
	}
	return strings.Join(strings.Fields(text), " ")
}
