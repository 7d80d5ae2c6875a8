package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"qaconv/internal/record"
)

// JSONEncoder writes the canonical JSON shape back out, keeping insertion order.
type JSONEncoder struct{}

// Format implements Encoder.
func (JSONEncoder) Format() Format { return JSON }

// Encode implements Encoder.
func (JSONEncoder) Encode(c record.CaseRecord) ([]byte, error) {
	if err := checkEncodable(JSON, c); err != nil {
		return nil, err
	}
	var compact bytes.Buffer
	w := &jsonWriter{buf: &compact}
	w.raw("{")
	w.key("questions")
	w.raw("{")
	for i, question := range c.Questions {
		w.comma(i)
		w.key(question.Key)
		if question.Group == nil {
			w.str(question.Text)
			continue
		}
		w.raw("{")
		w.key("base_question")
		w.str(question.Group.BaseQuestion)
		w.raw(",")
		w.key("sub_questions")
		w.raw("{")
		for j, sub := range question.Group.SubQuestions {
			w.comma(j)
			w.key(sub.Key)
			w.str(sub.Text)
		}
		w.raw("}}")
	}
	w.raw("},")
	w.key("responses")
	w.raw("[")
	for i, respondent := range c.Responses {
		w.comma(i)
		w.raw("{")
		w.key("respondent")
		writeJSONRespondentID(w, respondent.ID)
		w.raw(",")
		w.key("answers")
		w.raw("{")
		for j, answer := range respondent.Answers {
			w.comma(j)
			w.key(answer.Key)
			if !answer.Grouped {
				w.value(answer.Value)
				continue
			}
			w.raw("{")
			for k, sub := range answer.Group {
				w.comma(k)
				w.key(sub.Key)
				w.value(sub.Value)
			}
			w.raw("}")
		}
		w.raw("}}")
	}
	w.raw("]}")
	if w.err != nil {
		return nil, fmt.Errorf("encode json: %w", w.err)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("indent json: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func writeJSONRespondentID(w *jsonWriter, id record.RespondentID) {
	if id.Form == record.FormBare {
		w.raw(strconv.Itoa(id.Number))
		return
	}
	w.str(id.Token())
}

// jsonWriter builds compact JSON and keeps the first error.
type jsonWriter struct {
	buf *bytes.Buffer
	err error
}

func (w *jsonWriter) raw(s string) {
	w.buf.WriteString(s)
}

func (w *jsonWriter) comma(index int) {
	if index > 0 {
		w.buf.WriteByte(',')
	}
}

func (w *jsonWriter) key(k string) {
	w.str(k)
	w.buf.WriteByte(':')
}

func (w *jsonWriter) str(s string) {
	if w.err != nil {
		return
	}
	var scratch bytes.Buffer
	encoder := json.NewEncoder(&scratch)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(s); err != nil {
		w.err = err
		return
	}
	w.buf.Write(bytes.TrimRight(scratch.Bytes(), "\n"))
}

func (w *jsonWriter) value(v record.Value) {
	if v.IsNumber() {
		w.raw(v.Text)
		return
	}
	w.str(v.Text)
}
