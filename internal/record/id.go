package record

import (
	"fmt"
	"strconv"
	"strings"
)

// RespondentPrefix is the literal that prefixes every external respondent token.
const RespondentPrefix = "Respondent"

// shortRespondentPrefix is the legacy abbreviation accepted on input only.
const shortRespondentPrefix = "R"

// IDForm records how a respondent id was written in the canonical JSON.
type IDForm int

const (
	// FormBare is a JSON integer id.
	FormBare IDForm = iota
	// FormToken is a JSON string id of the form Respondent<N>.
	FormToken
)

// RespondentID is a typed respondent identifier. Identifiers are never
// handled as free text after parsing.
type RespondentID struct {
	Number int
	Form   IDForm
}

// NewRespondentID returns a token-form id for n.
func NewRespondentID(n int) RespondentID {
	return RespondentID{Number: n, Form: FormToken}
}

// Token renders the external identifier, always Respondent<N>.
func (id RespondentID) Token() string {
	return RespondentPrefix + strconv.Itoa(id.Number)
}

// String implements fmt.Stringer.
func (id RespondentID) String() string {
	return id.Token()
}

// ParseRespondentID parses a string id. Accepted forms are a bare digit
// string, Respondent<N>, and the legacy short form R<N>; all of them yield
// a token-form id.
func ParseRespondentID(value string) (RespondentID, error) {
	trimmed := strings.TrimSpace(value)
	digits := trimmed
	switch {
	case strings.HasPrefix(trimmed, RespondentPrefix):
		digits = strings.TrimPrefix(trimmed, RespondentPrefix)
	case strings.HasPrefix(trimmed, shortRespondentPrefix):
		digits = strings.TrimPrefix(trimmed, shortRespondentPrefix)
	}
	number, err := parseIDNumber(digits)
	if err != nil {
		return RespondentID{}, fmt.Errorf("invalid respondent id %q: %w", value, err)
	}
	return RespondentID{Number: number, Form: FormToken}, nil
}

// parseIDNumber accepts only ASCII digits.
func parseIDNumber(digits string) (int, error) {
	if digits == "" {
		return 0, fmt.Errorf("missing digits")
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("unexpected character %q", r)
		}
	}
	return strconv.Atoi(digits)
}

// UnmarshalJSON accepts a JSON integer or any string form ParseRespondentID accepts.
func (id *RespondentID) UnmarshalJSON(data []byte) error {
	parsed, err := parseRespondentRaw(data)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// MarshalJSON writes the id in the form it was parsed from.
func (id RespondentID) MarshalJSON() ([]byte, error) {
	if id.Form == FormBare {
		return []byte(strconv.Itoa(id.Number)), nil
	}
	return []byte(`"` + id.Token() + `"`), nil
}
