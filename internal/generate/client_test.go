package generate

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifyErr_TransientFailuresAreRetryable(t *testing.T) {
	for _, msg := range []string{
		"API returned unexpected status code: 429",
		"rate limit exceeded",
		"status 503 from upstream",
		"context deadline exceeded (Client.Timeout)",
	} {
		err := classifyErr(fmt.Errorf("%s", msg))
		var retryable *RetryableError
		if !errors.As(err, &retryable) {
			t.Errorf("expected %q to classify as retryable, got %v", msg, err)
		}
	}
}

func TestClassifyErr_PermanentFailuresAreNot(t *testing.T) {
	for _, msg := range []string{
		"invalid api key",
		"API returned unexpected status code: 400",
	} {
		err := classifyErr(fmt.Errorf("%s", msg))
		var retryable *RetryableError
		if errors.As(err, &retryable) {
			t.Errorf("expected %q to be permanent, got retryable", msg)
		}
	}
}
