package config

import (
	"strings"
)

// Issue is one problem with a config field. Field uses the file's key
// names, e.g. "qa.good_score" or "formats[1]".
type Issue struct {
	Field   string
	Message string
}

func (i Issue) String() string {
	return i.Field + ": " + i.Message
}

// ValidationError lists every issue found in one validation pass.
type ValidationError struct {
	Issues []Issue
}

// Error renders one issue per line.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	var b strings.Builder
	for i, issue := range err.Issues {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(issue.String())
	}
	return b.String()
}

// HasField reports whether any issue concerns field.
func (err *ValidationError) HasField(field string) bool {
	if err == nil {
		return false
	}
	for _, issue := range err.Issues {
		if issue.Field == field {
			return true
		}
	}
	return false
}

type issueAdder func(field, message string)

type issueList []Issue

func (l *issueList) add(field, message string) {
	*l = append(*l, Issue{Field: field, Message: message})
}

func (l issueList) err() error {
	if len(l) == 0 {
		return nil
	}
	return &ValidationError{Issues: l}
}
