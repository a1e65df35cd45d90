package llm

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/openai/openai-go"
	"google.golang.org/api/googleapi"
)

// TransientError marks a failure worth retrying: timeouts, rate limits,
// provider 5xx responses.
type TransientError struct {
	Message string
	Cause   error
}

func (e *TransientError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("transient generation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("transient generation error: %s", e.Message)
}

func (e *TransientError) Unwrap() error {
	return e.Cause
}

// PermanentError marks a failure that retrying cannot fix: bad credentials,
// malformed requests, content policy rejections.
type PermanentError struct {
	Message string
	Cause   error
}

func (e *PermanentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("permanent generation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("permanent generation error: %s", e.Message)
}

func (e *PermanentError) Unwrap() error {
	return e.Cause
}

// IsTransient reports whether err is retryable.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// Classify wraps a provider error as transient or permanent. Errors already
// classified pass through unchanged; anything unrecognized is treated as
// transient so one network hiccup does not fail a whole run.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var te *TransientError
	var pe *PermanentError
	if errors.As(err, &te) || errors.As(err, &pe) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &TransientError{Message: "request timed out", Cause: err}
	}
	if errors.Is(err, context.Canceled) {
		return &PermanentError{Message: "request canceled", Cause: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TransientError{Message: "network timeout", Cause: err}
	}

	if code, ok := statusCode(err); ok {
		return classifyStatus(code, err)
	}

	return &TransientError{Message: "provider call failed", Cause: err}
}

// statusCode pulls the HTTP status from provider error types.
func statusCode(err error) (int, bool) {
	var oaiErr *openai.Error
	if errors.As(err, &oaiErr) {
		return oaiErr.StatusCode, true
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return gErr.Code, true
	}
	return 0, false
}

func classifyStatus(code int, err error) error {
	switch {
	case code == 429:
		return &TransientError{Message: "rate limited", Cause: err}
	case code >= 500:
		return &TransientError{Message: fmt.Sprintf("provider error %d", code), Cause: err}
	case code == 401 || code == 403:
		return &PermanentError{Message: "invalid credentials", Cause: err}
	case code >= 400:
		return &PermanentError{Message: fmt.Sprintf("request rejected with %d", code), Cause: err}
	default:
		return &TransientError{Message: fmt.Sprintf("unexpected status %d", code), Cause: err}
	}
}
