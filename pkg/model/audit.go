package model

import "time"

// AuditEventType identifies the type of auditable event.
type AuditEventType string

const (
	EventTypeIssueCreate AuditEventType = "issue_create"
	EventTypeIssueUpdate AuditEventType = "issue_update"
)

// HashValue is a SHA-256 hash stored as hex string.
type HashValue string

// AuditRecord is a single line in the audit log (JSONL format).
type AuditRecord struct {
	Timestamp  time.Time      `json:"timestamp"`
	EventType  AuditEventType `json:"event_type"`
	IssueKey   string         `json:"issue_key"`
	Login      string         `json:"login,omitempty"`
	Diffs      []*Diff        `json:"diffs,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	PrevHash   HashValue      `json:"prev_hash"`
	RecordHash HashValue      `json:"record_hash"`
}
