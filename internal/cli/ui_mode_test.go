package cli

import (
	"io"
	"testing"
)

// TestParseUIMode verifies accepted spellings and the auto default.
func TestParseUIMode(t *testing.T) {
	for input, want := range map[string]uiMode{"": uiAuto, "AUTO": uiAuto, " live ": uiLive, "plain": uiPlain} {
		got, err := parseUIMode(input)
		if err != nil || got != want {
			t.Fatalf("parseUIMode(%q) = %q, %v; want %q", input, got, err, want)
		}
	}
	if _, err := parseUIMode("fancy"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

// TestResolveUIMode verifies when the live table runs and when it warns.
func TestResolveUIMode(t *testing.T) {
	cases := []struct {
		name     string
		mode     uiMode
		in       uiInputs
		isTTY    bool
		wantLive bool
		wantWarn bool
	}{
		{name: "auto tty", mode: uiAuto, isTTY: true, wantLive: true},
		{name: "auto pipe", mode: uiAuto},
		{name: "plain tty", mode: uiPlain, isTTY: true},
		{name: "verbose auto", mode: uiAuto, in: uiInputs{verbose: true}, isTTY: true},
		{name: "json logs live", mode: uiLive, in: uiInputs{jsonLogs: true}, isTTY: true, wantWarn: true},
		{name: "live tty", mode: uiLive, isTTY: true, wantLive: true},
		{name: "live pipe", mode: uiLive, wantWarn: true},
	}

	original := isTerminal
	t.Cleanup(func() { isTerminal = original })

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			isTerminal = func(io.Writer) bool { return tc.isTTY }
			decision := resolveUIMode(tc.mode, tc.in, nil)
			if decision.live != tc.wantLive {
				t.Fatalf("expected live=%v, got %v", tc.wantLive, decision.live)
			}
			if (decision.warning != "") != tc.wantWarn {
				t.Fatalf("unexpected warning %q", decision.warning)
			}
		})
	}
}
