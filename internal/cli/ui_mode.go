package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// uiMode selects how batch progress is rendered.
type uiMode string

const (
	uiAuto  uiMode = "auto"
	uiLive  uiMode = "live"
	uiPlain uiMode = "plain"
)

// parseUIMode accepts auto, live, or plain; empty means auto.
func parseUIMode(value string) (uiMode, error) {
	switch mode := uiMode(strings.ToLower(strings.TrimSpace(value))); mode {
	case "":
		return uiAuto, nil
	case uiAuto, uiLive, uiPlain:
		return mode, nil
	default:
		return "", fmt.Errorf("invalid ui mode %q (expected auto|live|plain)", value)
	}
}

// uiInputs are the run settings that constrain the UI choice.
type uiInputs struct {
	verbose  bool
	jsonLogs bool
}

// uiDecision records whether the live table runs and why it was refused.
type uiDecision struct {
	live    bool
	warning string
}

// isTerminal reports whether a writer is a TTY.
var isTerminal = defaultIsTerminal

// resolveUIMode picks the renderer. Verbose or JSON logging write to the
// terminal alongside the run, so they force plain output.
func resolveUIMode(mode uiMode, in uiInputs, stdout io.Writer) uiDecision {
	if mode == uiPlain {
		return uiDecision{}
	}
	if in.verbose || in.jsonLogs {
		if mode == uiLive {
			return uiDecision{warning: "Live UI disabled while logs stream to the terminal; using plain output."}
		}
		return uiDecision{}
	}
	if isTerminal(stdout) {
		return uiDecision{live: true}
	}
	if mode == uiLive {
		return uiDecision{warning: "Live UI requested but stdout is not a TTY; falling back to plain output."}
	}
	return uiDecision{}
}

func defaultIsTerminal(stdout io.Writer) bool {
	switch w := stdout.(type) {
	case *os.File:
		return term.IsTerminal(int(w.Fd()))
	case interface{ Fd() uintptr }:
		return term.IsTerminal(int(w.Fd()))
	default:
		return false
	}
}
