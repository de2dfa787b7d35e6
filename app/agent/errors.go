package agent

import "fmt"

// ValidationError rejects a request before anything is sent upstream.
// The message is safe to show to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

type InsightErrorKind string

const (
	// UpstreamFailure covers transport failures and terminal statuses
	// after the retry budget is spent.
	UpstreamFailure InsightErrorKind = "upstream_failure"
	// EmptyUpstreamResponse means the call succeeded but carried no
	// candidate text.
	EmptyUpstreamResponse InsightErrorKind = "empty_upstream_response"
)

// InsightError is the terminal failure of a query. Detail carries the
// root cause for logging; callers surface only a generic message.
type InsightError struct {
	Kind   InsightErrorKind
	Detail error
}

func (e *InsightError) Error() string {
	if e.Detail != nil {
		return fmt.Sprintf("insight query failed (%s): %v", e.Kind, e.Detail)
	}
	return fmt.Sprintf("insight query failed (%s)", e.Kind)
}

func (e *InsightError) Unwrap() error { return e.Detail }
