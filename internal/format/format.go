package format

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"qaconv/internal/record"
)

// Format names a serialized encoding of a case record.
type Format string

const (
	JSON Format = "json"
	XML  Format = "xml"
	HTML Format = "html"
	TTL  Format = "ttl"
	Text Format = "txt"
)

// Derived lists the derived artifact formats in their conventional order.
var Derived = []Format{XML, HTML, TTL, Text}

// Extension returns the file extension including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// ParseFormat resolves a format name or extension.
func ParseFormat(name string) (Format, error) {
	normalized := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), ".")
	switch normalized {
	case "json":
		return JSON, nil
	case "xml":
		return XML, nil
	case "html", "htm":
		return HTML, nil
	case "ttl", "turtle":
		return TTL, nil
	case "txt", "text":
		return Text, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected json|xml|html|ttl|txt)", name)
	}
}

// ParseFormats resolves a list of names, dropping duplicates while keeping order.
func ParseFormats(names []string) ([]Format, error) {
	formats := make([]Format, 0, len(names))
	seen := map[Format]struct{}{}
	for _, name := range names {
		f, err := ParseFormat(name)
		if err != nil {
			return nil, err
		}
		if _, exists := seen[f]; exists {
			continue
		}
		seen[f] = struct{}{}
		formats = append(formats, f)
	}
	return formats, nil
}

// Encoder serializes a case record into one format. Encoders are pure and
// deterministic.
type Encoder interface {
	Format() Format
	Encode(c record.CaseRecord) ([]byte, error)
}

// New returns the encoder for a format.
func New(f Format) (Encoder, error) {
	switch f {
	case JSON:
		return JSONEncoder{}, nil
	case XML:
		return XMLEncoder{}, nil
	case HTML:
		return HTMLEncoder{}, nil
	case TTL:
		return TTLEncoder{}, nil
	case Text:
		return TextEncoder{}, nil
	default:
		return nil, fmt.Errorf("no encoder for format %q", f)
	}
}

// Encode encodes a record with the encoder for f.
func Encode(f Format, c record.CaseRecord) ([]byte, error) {
	encoder, err := New(f)
	if err != nil {
		return nil, err
	}
	return encoder.Encode(c)
}

// ErrEncode marks records that cannot be represented in a target format.
var ErrEncode = errors.New("encode error")

// EncodeError reports why a record could not be encoded.
type EncodeError struct {
	Format Format
	Issues []record.Issue
}

// Error returns a readable message for encode failures.
func (err *EncodeError) Error() string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("encode %s: %s", err.Format, record.JoinIssues(err.Issues))
}

// Is matches ErrEncode.
func (err *EncodeError) Is(target error) bool {
	return target == ErrEncode
}

// checkEncodable rejects records that violate integrity or carry values the
// grammars cannot represent.
func checkEncodable(f Format, c record.CaseRecord) error {
	issues := record.Validate(c)
	switch f {
	case TTL:
		issues = append(issues, checkTurtleNames(c)...)
	case XML:
		issues = append(issues, checkXMLText(c)...)
	}
	for i, respondent := range c.Responses {
		for _, answer := range respondent.Answers {
			field := fmt.Sprintf("responses[%d].answers.%s", i, answer.Key)
			if !answer.Grouped {
				if issue, ok := checkValue(field, answer.Value); !ok {
					issues = append(issues, issue)
				}
				continue
			}
			for _, sub := range answer.Group {
				if issue, ok := checkValue(field+"."+sub.Key, sub.Value); !ok {
					issues = append(issues, issue)
				}
			}
		}
	}
	if len(issues) == 0 {
		return nil
	}
	return &EncodeError{Format: f, Issues: issues}
}

func checkValue(field string, value record.Value) (record.Issue, bool) {
	if !value.IsNumber() {
		return record.Issue{}, true
	}
	text := value.Text
	if text == "" || !json.Valid([]byte(text)) || (text[0] != '-' && (text[0] < '0' || text[0] > '9')) {
		return record.Issue{Field: field, Message: fmt.Sprintf("invalid number literal %q", text)}, false
	}
	return record.Issue{}, true
}
