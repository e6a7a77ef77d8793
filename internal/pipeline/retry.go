package pipeline

import (
	"errors"
	"math/rand/v2"
	"net"
	"strings"
	"time"

	"github.com/dcortezh/propgen/internal/generate"
)

const MaxRetries = 3

// IsRetryable checks whether an error is worth retrying: transient
// model failures or network-level trouble reaching the store.
func IsRetryable(err error) bool {
	var retryErr *generate.RetryableError
	if errors.As(err, &retryErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"connection refused", "connection reset", "429", "503"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}
