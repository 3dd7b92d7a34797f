// Package errclass defines the stable error classes returned by issuekit.
package errclass

import "fmt"

// IssueError is a stable, machine-readable error class.
type IssueError struct {
	Code    string
	Message string
}

func (e *IssueError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *IssueError) Is(target error) bool {
	t, ok := target.(*IssueError)
	return ok && e.Code == t.Code
}

// WithMessage returns a new IssueError with the same Code but a specific message.
func (e *IssueError) WithMessage(msg string) *IssueError {
	return &IssueError{Code: e.Code, Message: msg}
}

// WithMessagef returns a new IssueError with a formatted message.
func (e *IssueError) WithMessagef(format string, args ...any) *IssueError {
	return &IssueError{Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

var (
	// ErrGuardedField is returned when a locked field is mutated by an
	// ordinary update, e.g. severity after a manual override.
	ErrGuardedField      = &IssueError{Code: "E_GUARDED_FIELD"}
	ErrNameInvalid       = &IssueError{Code: "E_NAME_INVALID"}
	ErrValueInvalid      = &IssueError{Code: "E_VALUE_INVALID"}
	ErrIssueNotFound     = &IssueError{Code: "E_ISSUE_NOT_FOUND"}
	ErrFormatUnsupported = &IssueError{Code: "E_FORMAT_UNSUPPORTED"}
	ErrAuditChainBroken  = &IssueError{Code: "E_AUDIT_CHAIN_BROKEN"}
)
