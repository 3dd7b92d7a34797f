package model

import (
	"strings"

	"github.com/issuekit/issuekit/pkg/errclass"
)

// Severity of an issue, from least to most severe.
type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityMinor    Severity = "MINOR"
	SeverityMajor    Severity = "MAJOR"
	SeverityCritical Severity = "CRITICAL"
	SeverityBlocker  Severity = "BLOCKER"
)

// Severities lists all severities in ascending order.
var Severities = []Severity{SeverityInfo, SeverityMinor, SeverityMajor, SeverityCritical, SeverityBlocker}

// Rank returns the position of s in Severities, or -1 when unknown.
func (s Severity) Rank() int {
	for i, v := range Severities {
		if v == s {
			return i
		}
	}
	return -1
}

// Status is the workflow state of an issue.
type Status string

const (
	StatusOpen      Status = "OPEN"
	StatusConfirmed Status = "CONFIRMED"
	StatusReopened  Status = "REOPENED"
	StatusResolved  Status = "RESOLVED"
	StatusClosed    Status = "CLOSED"
)

// Statuses lists all statuses.
var Statuses = []Status{StatusOpen, StatusConfirmed, StatusReopened, StatusResolved, StatusClosed}

// Resolution explains why an issue was resolved.
type Resolution string

const (
	ResolutionFixed         Resolution = "FIXED"
	ResolutionFalsePositive Resolution = "FALSE-POSITIVE"
	ResolutionWontFix       Resolution = "WONTFIX"
	ResolutionRemoved       Resolution = "REMOVED"
)

// Resolutions lists all resolutions.
var Resolutions = []Resolution{ResolutionFixed, ResolutionFalsePositive, ResolutionWontFix, ResolutionRemoved}

// ParseSeverity parses a case-insensitive severity name.
func ParseSeverity(s string) (Severity, error) {
	v := Severity(strings.ToUpper(strings.TrimSpace(s)))
	if v.Rank() < 0 {
		return "", errclass.ErrValueInvalid.WithMessagef("unknown severity %q", s)
	}
	return v, nil
}

// ParseStatus parses a case-insensitive status name.
func ParseStatus(s string) (Status, error) {
	v := Status(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Statuses {
		if v == known {
			return v, nil
		}
	}
	return "", errclass.ErrValueInvalid.WithMessagef("unknown status %q", s)
}

// ParseResolution parses a case-insensitive resolution name. The empty
// string parses to no resolution.
func ParseResolution(s string) (Resolution, error) {
	v := Resolution(strings.ToUpper(strings.TrimSpace(s)))
	if v == "" {
		return "", nil
	}
	for _, known := range Resolutions {
		if v == known {
			return v, nil
		}
	}
	return "", errclass.ErrValueInvalid.WithMessagef("unknown resolution %q", s)
}
