package analysis

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/openai/openai-go"
)

var (
	// ErrNetworkUnavailable is returned before any provider attempt when no
	// connectivity is detected.
	ErrNetworkUnavailable = errors.New("analysis: network unavailable")

	// ErrInvalidCredential marks a rejected API key. It short-circuits the
	// provider's retry budget but still allows fallthrough to the next one.
	ErrInvalidCredential = errors.New("analysis: invalid credential")

	// ErrRateLimited marks a 429 from a provider. Retryable.
	ErrRateLimited = errors.New("analysis: rate limited")

	// ErrInvalidResponse marks a response body that does not contain the
	// expected assistant message text. Retryable.
	ErrInvalidResponse = errors.New("analysis: invalid provider response")

	// ErrTimeout marks an attempt that exceeded its deadline. Retryable.
	ErrTimeout = errors.New("analysis: request timed out")

	// ErrAllProvidersUnavailable is the terminal error after every provider
	// in the chain has been exhausted.
	ErrAllProvidersUnavailable = errors.New("analysis: all providers unavailable")
)

// ServerError carries a non-2xx provider status that is neither a credential
// rejection nor a rate limit.
type ServerError struct {
	Status int
	Detail string
}

func (e *ServerError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("analysis: provider returned http %d", e.Status)
	}
	return fmt.Sprintf("analysis: provider returned http %d: %s", e.Status, e.Detail)
}

// classifyStatus maps an HTTP status code onto the gateway error taxonomy.
func classifyStatus(status int, detail string) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrInvalidCredential
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return &ServerError{Status: status, Detail: detail}
	}
}

// classifyErr normalizes transport and SDK errors into the taxonomy.
func classifyErr(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	case errors.Is(err, ErrInvalidCredential),
		errors.Is(err, ErrRateLimited),
		errors.Is(err, ErrInvalidResponse),
		errors.Is(err, ErrTimeout):
		return err
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.StatusCode, "")
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}

	return err
}

// retryable reports whether another attempt against the same provider can
// succeed. Credential rejections and caller cancellation cannot.
func retryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled):
		return false
	case errors.Is(err, ErrInvalidCredential):
		return false
	}
	return true
}
