package batch

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const runIDSuffixLen = 12

// NewRunID returns a sortable run id with a random suffix.
func NewRunID() (string, error) {
	return NewRunIDWithSource(time.Now().UTC(), uuid.NewRandom)
}

// NewRunIDWithSource builds a run id from a timestamp and a uuid source.
func NewRunIDWithSource(now time.Time, source func() (uuid.UUID, error)) (string, error) {
	if source == nil {
		return "", fmt.Errorf("uuid source is nil")
	}
	id, err := source()
	if err != nil {
		return "", fmt.Errorf("generate run id: %w", err)
	}
	return FormatRunID(now, id), nil
}

// FormatRunID renders a UTC timestamp followed by the first hex digits of id.
func FormatRunID(now time.Time, id uuid.UUID) string {
	suffix := strings.ReplaceAll(id.String(), "-", "")[:runIDSuffixLen]
	return now.UTC().Format("20060102T150405Z") + "-" + suffix
}
