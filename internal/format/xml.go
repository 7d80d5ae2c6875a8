package format

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"unicode/utf8"

	"qaconv/internal/record"
)

// XMLEncoder writes one <respondent> element per respondent with answers
// in question-mapping order.
type XMLEncoder struct{}

// Format implements Encoder.
func (XMLEncoder) Format() Format { return XML }

// Encode implements Encoder.
func (XMLEncoder) Encode(c record.CaseRecord) ([]byte, error) {
	if err := checkEncodable(XML, c); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	w := &xmlWriter{enc: xml.NewEncoder(&buf)}
	w.enc.Indent("", "  ")

	w.open("case")
	w.open("questions")
	for _, question := range c.Questions {
		if question.Group == nil {
			w.leaf("question", question.Text, xml.Attr{Name: xml.Name{Local: "key"}, Value: question.Key})
			continue
		}
		w.open("question_group", xml.Attr{Name: xml.Name{Local: "key"}, Value: question.Key})
		w.leaf("base_question", question.Group.BaseQuestion)
		for _, sub := range question.Group.SubQuestions {
			w.leaf("sub_question", sub.Text, xml.Attr{Name: xml.Name{Local: "key"}, Value: sub.Key})
		}
		w.close("question_group")
	}
	w.close("questions")

	w.open("responses")
	for _, respondent := range c.Responses {
		w.open("respondent", xml.Attr{Name: xml.Name{Local: "id"}, Value: respondent.ID.Token()})
		for _, question := range c.Questions {
			answer, ok := respondent.Answer(question.Key)
			if !ok {
				continue
			}
			if question.Group == nil {
				w.leaf("answer", answer.Value.Text, xml.Attr{Name: xml.Name{Local: "question"}, Value: question.Key})
				continue
			}
			w.open("answer_group", xml.Attr{Name: xml.Name{Local: "question"}, Value: question.Key})
			for _, sub := range question.Group.SubQuestions {
				value, _ := answer.SubValue(sub.Key)
				w.leaf("answer", value.Text, xml.Attr{Name: xml.Name{Local: "sub_question"}, Value: sub.Key})
			}
			w.close("answer_group")
		}
		w.close("respondent")
	}
	w.close("responses")
	w.close("case")

	if w.err == nil {
		w.err = w.enc.Flush()
	}
	if w.err != nil {
		return nil, fmt.Errorf("encode xml: %w", w.err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// xmlWriter emits tokens and keeps the first error.
type xmlWriter struct {
	enc *xml.Encoder
	err error
}

func (w *xmlWriter) token(t xml.Token) {
	if w.err != nil {
		return
	}
	w.err = w.enc.EncodeToken(t)
}

func (w *xmlWriter) open(name string, attrs ...xml.Attr) {
	w.token(xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs})
}

func (w *xmlWriter) close(name string) {
	w.token(xml.EndElement{Name: xml.Name{Local: name}})
}

func (w *xmlWriter) leaf(name, text string, attrs ...xml.Attr) {
	w.open(name, attrs...)
	if text != "" {
		w.token(xml.CharData(text))
	}
	w.close(name)
}

// checkXMLText reports text outside the XML Char production. encoding/xml
// would replace those characters with U+FFFD instead of failing.
func checkXMLText(c record.CaseRecord) []record.Issue {
	var issues []record.Issue
	add := func(field, text string) {
		if message, ok := xmlTextProblem(text); !ok {
			issues = append(issues, record.Issue{Field: field, Message: message})
		}
	}
	for _, question := range c.Questions {
		field := "questions." + question.Key
		add(field+".key", question.Key)
		if question.Group == nil {
			add(field+".text", question.Text)
			continue
		}
		add(field+".base_question", question.Group.BaseQuestion)
		for _, sub := range question.Group.SubQuestions {
			subField := field + ".sub_questions." + sub.Key
			add(subField+".key", sub.Key)
			add(subField+".text", sub.Text)
		}
	}
	for i, respondent := range c.Responses {
		for _, answer := range respondent.Answers {
			field := fmt.Sprintf("responses[%d].answers.%s", i, answer.Key)
			if !answer.Grouped {
				add(field, answer.Value.Text)
				continue
			}
			for _, sub := range answer.Group {
				add(field+"."+sub.Key, sub.Value.Text)
			}
		}
	}
	return issues
}

func xmlTextProblem(text string) (string, bool) {
	for i, r := range text {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(text[i:]); size == 1 {
				return fmt.Sprintf("invalid UTF-8 at byte %d", i), false
			}
		}
		if !isXMLChar(r) {
			return fmt.Sprintf("character %U at byte %d is not allowed in XML", r, i), false
		}
	}
	return "", true
}

func isXMLChar(r rune) bool {
	switch {
	case r == '\t', r == '\n', r == '\r':
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}
