package translator

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
)

// TransientError marks a remote failure worth retrying: timeouts, rate
// limits, transient 5xx responses, network hiccups.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return "transient translation error: " + e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

// PermanentError marks a remote failure that retrying cannot fix: bad
// credentials, malformed requests, missing models.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return "permanent translation error: " + e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// IsPermanent reports whether err is classified as non-retryable.
func IsPermanent(err error) bool {
	var pe *PermanentError
	return errors.As(err, &pe)
}

// IsTransient reports whether err is classified as retryable.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// Classify wraps a raw provider error as transient or permanent.
// Unknown errors default to transient so one odd response never
// permanently poisons a record; the retry budget still bounds the cost.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if IsPermanent(err) || IsTransient(err) {
		return err
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &TransientError{Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TransientError{Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return &TransientError{Err: err}
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(reqErr.HTTPStatusCode, err)
	}

	return &TransientError{Err: err}
}

func classifyStatus(status int, err error) error {
	switch {
	case status == http.StatusRequestTimeout, status == http.StatusTooManyRequests, status >= 500:
		return &TransientError{Err: err}
	case status >= 400 && status < 500:
		return &PermanentError{Err: err}
	default:
		return &TransientError{Err: err}
	}
}
