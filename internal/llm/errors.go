package llm

import (
	"errors"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Kind classifies a service-call failure so callers can react to specific
// conditions without string matching at the call site.
type Kind int

const (
	// KindOther covers failures with no special handling.
	KindOther Kind = iota
	// KindRateLimited means the provider rejected the call over quota.
	KindRateLimited
	// KindModelNotFound means the requested model identifier is unknown
	// to the provider, usually a configuration problem.
	KindModelNotFound
)

// Classify maps an error from Complete to a Kind.
func Classify(err error) Kind {
	if err == nil {
		return KindOther
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return KindRateLimited
		case http.StatusNotFound:
			return KindModelNotFound
		}
	}

	// Some providers wrap status information into the message only.
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429"), strings.Contains(msg, "rate limit"):
		return KindRateLimited
	case strings.Contains(msg, "404"):
		return KindModelNotFound
	}
	return KindOther
}

// IsRetryable reports whether an error is worth retrying.
func IsRetryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500
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

const MaxRetries = 3
