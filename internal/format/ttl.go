package format

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"qaconv/internal/record"
)

// TTLEncoder writes the question vocabulary and per-respondent triples in Turtle.
//
// Within one respondent block the simple-answer statement comes first,
// followed by each answer group in question-mapping order, each group
// closed by its pred:hasGroupResponse link. The checker relies on that order.
type TTLEncoder struct{}

// Format implements Encoder.
func (TTLEncoder) Format() Format { return TTL }

// Encode implements Encoder.
func (TTLEncoder) Encode(c record.CaseRecord) ([]byte, error) {
	if err := checkEncodable(TTL, c); err != nil {
		return nil, err
	}
	var b strings.Builder
	for _, prefix := range Prefixes {
		b.WriteString(prefix + "\n")
	}

	if len(c.Questions) > 0 {
		b.WriteString("\n")
	}
	for _, question := range c.Questions {
		subject := ":" + SanitizeKey(question.Key)
		if question.Group == nil {
			writeTriple(&b, subject, PredText, turtleString(question.Text))
			continue
		}
		writeTriple(&b, subject, PredBaseQuestion, turtleString(question.Group.BaseQuestion))
		for _, sub := range question.Group.SubQuestions {
			writeTriple(&b, subject, RelHasSubQuestion, subject+"_"+SanitizeKey(sub.Key))
		}
		for _, sub := range question.Group.SubQuestions {
			writeTriple(&b, subject+"_"+SanitizeKey(sub.Key), PredText, turtleString(sub.Text))
		}
	}

	for _, respondent := range c.Responses {
		writeRespondentBlock(&b, c.Questions, respondent)
	}
	return []byte(b.String()), nil
}

func writeRespondentBlock(b *strings.Builder, questions []record.QuestionDefinition, respondent record.RespondentRecord) {
	subject := ":" + respondent.ID.Token()

	simple := make([]predicateObject, 0, len(respondent.Answers))
	for _, question := range questions {
		if question.Group != nil {
			continue
		}
		if answer, ok := respondent.Answer(question.Key); ok {
			simple = append(simple, predicateObject{
				predicate: "pred:" + SanitizeKey(question.Key),
				object:    turtleLiteral(answer.Value),
			})
		}
	}

	wrote := false
	if len(simple) > 0 {
		b.WriteString("\n")
		writeStatement(b, subject, simple)
		wrote = true
	}

	for _, question := range questions {
		if question.Group == nil {
			continue
		}
		answer, ok := respondent.Answer(question.Key)
		if !ok {
			continue
		}
		if !wrote {
			b.WriteString("\n")
			wrote = true
		}
		groupSubject := subject + "_" + SanitizeKey(question.Key)
		subs := make([]predicateObject, 0, len(question.Group.SubQuestions))
		for _, sub := range question.Group.SubQuestions {
			value, _ := answer.SubValue(sub.Key)
			subs = append(subs, predicateObject{
				predicate: "pred:" + SanitizeKey(sub.Key),
				object:    turtleLiteral(value),
			})
		}
		writeStatement(b, groupSubject, subs)
		writeTriple(b, subject, PredHasGroupResponse, groupSubject)
	}
}

type predicateObject struct {
	predicate string
	object    string
}

// writeStatement chains predicate/object pairs for one subject with ';'.
func writeStatement(b *strings.Builder, subject string, pairs []predicateObject) {
	for i, pair := range pairs {
		if i == 0 {
			b.WriteString(subject + " " + pair.predicate + " " + pair.object)
		} else {
			b.WriteString("    " + pair.predicate + " " + pair.object)
		}
		if i == len(pairs)-1 {
			b.WriteString(" .\n")
		} else {
			b.WriteString(" ;\n")
		}
	}
}

func writeTriple(b *strings.Builder, subject, predicate, object string) {
	b.WriteString(subject + " " + predicate + " " + object + " .\n")
}

// SanitizeKey rewrites spaces to underscores for use in predicate and subject names.
func SanitizeKey(key string) string {
	return strings.ReplaceAll(key, " ", "_")
}

// turtleLiteral renders numbers bare and text as a quoted string.
func turtleLiteral(value record.Value) string {
	if value.IsNumber() {
		return value.Text
	}
	return turtleString(value.Text)
}

var turtleEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func turtleString(text string) string {
	return `"` + turtleEscaper.Replace(text) + `"`
}

// checkTurtleNames reports keys whose sanitized form is not a Turtle local
// name, and distinct keys that sanitize to the same name in one namespace.
func checkTurtleNames(c record.CaseRecord) []record.Issue {
	var issues []record.Issue
	subjects := turtleNames{}
	predicates := turtleNames{}
	localName := func(field, key string) (string, bool) {
		name := SanitizeKey(key)
		if isTurtleLocalName(name) {
			return name, true
		}
		issues = append(issues, record.Issue{Field: field, Message: fmt.Sprintf("key %q is not a valid Turtle local name", key)})
		return "", false
	}

	for _, question := range c.Questions {
		if question.Key == "" {
			continue
		}
		field := "questions." + question.Key
		name, ok := localName(field, question.Key)
		if !ok {
			continue
		}
		owner := fmt.Sprintf("question %q", question.Key)
		issues = subjects.claim(issues, field, ":"+name, owner)
		if question.Group == nil {
			issues = predicates.claim(issues, field, "pred:"+name, owner)
			continue
		}
		subPredicates := turtleNames{}
		for _, sub := range question.Group.SubQuestions {
			if sub.Key == "" {
				continue
			}
			subField := field + ".sub_questions." + sub.Key
			subName, ok := localName(subField, sub.Key)
			if !ok {
				continue
			}
			subOwner := fmt.Sprintf("sub-question %q of %q", sub.Key, question.Key)
			issues = subjects.claim(issues, subField, ":"+name+"_"+subName, subOwner)
			issues = subPredicates.claim(issues, subField, "pred:"+subName, subOwner)
		}
	}

	for i, respondent := range c.Responses {
		token := respondent.ID.Token()
		owner := "respondent " + token
		issues = subjects.claim(issues, fmt.Sprintf("responses[%d].respondent", i), ":"+token, owner)
		for _, question := range c.Questions {
			if question.Group == nil || !isTurtleLocalName(SanitizeKey(question.Key)) {
				continue
			}
			if _, ok := respondent.Answer(question.Key); !ok {
				continue
			}
			field := fmt.Sprintf("responses[%d].answers.%s", i, question.Key)
			issues = subjects.claim(issues, field, ":"+token+"_"+SanitizeKey(question.Key), fmt.Sprintf("%s answer to %q", owner, question.Key))
		}
	}
	return issues
}

// turtleNames maps an emitted name to the first key that produced it.
type turtleNames map[string]string

func (names turtleNames) claim(issues []record.Issue, field, name, owner string) []record.Issue {
	previous, taken := names[name]
	if !taken {
		names[name] = owner
		return issues
	}
	if previous == owner {
		// Duplicate keys are reported by record.Validate.
		return issues
	}
	return append(issues, record.Issue{Field: field, Message: fmt.Sprintf("name %s collides with %s", name, previous)})
}

// isTurtleLocalName reports whether name matches PN_LOCAL without escapes.
func isTurtleLocalName(name string) bool {
	if name == "" || !utf8.ValidString(name) {
		return false
	}
	for i, r := range name {
		switch {
		case i == 0:
			if !isPNCharsU(r) && r != ':' && !isDigit(r) {
				return false
			}
		case !isPNChars(r) && r != '.' && r != ':':
			return false
		}
	}
	return !strings.HasSuffix(name, ".")
}

var pnCharsBase = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x0041, Hi: 0x005a, Stride: 1},
		{Lo: 0x0061, Hi: 0x007a, Stride: 1},
		{Lo: 0x00c0, Hi: 0x00d6, Stride: 1},
		{Lo: 0x00d8, Hi: 0x00f6, Stride: 1},
		{Lo: 0x00f8, Hi: 0x02ff, Stride: 1},
		{Lo: 0x0370, Hi: 0x037d, Stride: 1},
		{Lo: 0x037f, Hi: 0x1fff, Stride: 1},
		{Lo: 0x200c, Hi: 0x200d, Stride: 1},
		{Lo: 0x2070, Hi: 0x218f, Stride: 1},
		{Lo: 0x2c00, Hi: 0x2fef, Stride: 1},
		{Lo: 0x3001, Hi: 0xd7ff, Stride: 1},
		{Lo: 0xf900, Hi: 0xfdcf, Stride: 1},
		{Lo: 0xfdf0, Hi: 0xfffd, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x10000, Hi: 0xeffff, Stride: 1},
	},
	LatinOffset: 4,
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isPNCharsU(r rune) bool {
	return r == '_' || unicode.Is(pnCharsBase, r)
}

func isPNChars(r rune) bool {
	switch {
	case isPNCharsU(r), isDigit(r), r == '-', r == 0x00b7:
		return true
	case r >= 0x0300 && r <= 0x036f, r >= 0x203f && r <= 0x2040:
		return true
	}
	return false
}
