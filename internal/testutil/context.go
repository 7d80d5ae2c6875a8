package testutil

import (
	"context"
	"testing"
	"time"
)

// DefaultTimeout bounds batch and watch tests that pass a zero timeout.
const DefaultTimeout = 10 * time.Second

// Context returns a context canceled at test cleanup or after timeout,
// whichever comes first. The timeout is clipped to leave a second before
// the test binary deadline so failures report instead of panicking.
func Context(t testing.TB, timeout time.Duration) context.Context {
	t.Helper()
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if tt, ok := t.(interface{ Deadline() (time.Time, bool) }); ok {
		if deadline, ok := tt.Deadline(); ok {
			if remaining := time.Until(deadline) - time.Second; remaining > 0 {
				timeout = min(timeout, remaining)
			}
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}
