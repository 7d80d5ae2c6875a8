package testutil

import (
	"testing"
	"time"
)

// PollInterval is how often Eventually retries its check.
const PollInterval = 10 * time.Millisecond

// Eventually retries check until it returns nil, failing the test with the
// last error once timeout elapses.
func Eventually(t testing.TB, timeout time.Duration, check func() error) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		err := check()
		if err == nil {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("condition not met after %s: %v", timeout, err)
		}
		time.Sleep(PollInterval)
	}
}
