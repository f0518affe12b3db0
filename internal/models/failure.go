package models

import (
	"errors"
	"fmt"
)

// FailureReason classifies why an outbound language-model call failed.
type FailureReason string

const (
	ReasonNoData      FailureReason = "no_data"
	ReasonRateLimited FailureReason = "rate_limited"
	ReasonMalformed   FailureReason = "malformed_response"
	ReasonUnavailable FailureReason = "unavailable"
	ReasonUpstream    FailureReason = "upstream_error"
)

// Failure is the typed failure attached to a report or summary.
type Failure struct {
	Reason  FailureReason `json:"reason"`
	Message string        `json:"message"`
}

// CompletionError is returned by language-model clients.
type CompletionError struct {
	Provider string
	Reason   FailureReason
	Err      error
}

func (e *CompletionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Provider, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Reason, e.Err)
}

func (e *CompletionError) Unwrap() error { return e.Err }

// ErrClientUnavailable is reported when no language-model client is configured.
var ErrClientUnavailable = errors.New("language model client not configured")

// ReasonOf classifies err. Errors that carry no classification are upstream errors.
func ReasonOf(err error) FailureReason {
	var ce *CompletionError
	if errors.As(err, &ce) {
		return ce.Reason
	}
	if errors.Is(err, ErrClientUnavailable) {
		return ReasonUnavailable
	}
	return ReasonUpstream
}

// NewFailure builds the typed failure for err.
func NewFailure(err error) *Failure {
	return &Failure{Reason: ReasonOf(err), Message: err.Error()}
}
