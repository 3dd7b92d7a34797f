package model

import (
	"sort"
	"time"
)

// Canonical field names used as change set keys.
const (
	FieldAssignee       = "assignee"
	FieldSeverity       = "severity"
	FieldManualSeverity = "manualSeverity"
	FieldLine           = "line"
	FieldResolution     = "resolution"
	FieldStatus         = "status"
	FieldActionPlan     = "actionPlanKey"
	FieldEffortToFix    = "effortToFix"
	FieldMessage        = "message"
	FieldAuthor         = "author"
)

// Issue is a tracked code quality issue. String fields use "" for unset.
type Issue struct {
	Key            string     `json:"key"`
	Rule           string     `json:"rule,omitempty"`
	Component      string     `json:"component,omitempty"`
	Assignee       string     `json:"assignee,omitempty"`
	Severity       Severity   `json:"severity,omitempty"`
	ManualSeverity bool       `json:"manual_severity,omitempty"`
	Line           *int       `json:"line,omitempty"`
	Resolution     Resolution `json:"resolution,omitempty"`
	Status         Status     `json:"status,omitempty"`
	Attributes     Attributes `json:"attributes,omitempty"`
	ActionPlanKey  string     `json:"action_plan_key,omitempty"`
	EffortToFix    *float64   `json:"effort_to_fix,omitempty"`
	Message        string     `json:"message,omitempty"`
	AuthorLogin    string     `json:"author_login,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Changes holds committed change sets, oldest first.
	Changes []*FieldDiffs `json:"changes,omitempty"`

	currentChange *FieldDiffs
	past          map[string]any
}

// Attribute returns the value of an attribute and whether it is set.
func (i *Issue) Attribute(key string) (string, bool) {
	return i.Attributes.Get(key)
}

// RecordChange adds a field change to the current change set, creating the
// set from ctx on first use.
func (i *Issue) RecordChange(ctx ChangeContext, field string, oldValue, newValue any) {
	if i.currentChange == nil {
		i.currentChange = NewFieldDiffs(ctx)
	}
	i.currentChange.SetDiff(field, oldValue, newValue)
}

// CurrentChange returns the change set of the current pass, or nil when no
// field changed.
func (i *Issue) CurrentChange() *FieldDiffs {
	if i.currentChange.Len() == 0 {
		return nil
	}
	return i.currentChange
}

// IsChanged reports whether the current pass changed any field.
func (i *Issue) IsChanged() bool {
	return i.CurrentChange() != nil
}

// CommitChange ends the current pass. The change set, if any, is appended to
// Changes and returned; the next pass starts with no change set.
func (i *Issue) CommitChange() *FieldDiffs {
	fd := i.CurrentChange()
	i.currentChange = nil
	if fd != nil {
		i.Changes = append(i.Changes, fd)
	}
	return fd
}

// SetPastValue records the baseline value of field.
func (i *Issue) SetPastValue(field string, v any) {
	if i.past == nil {
		i.past = make(map[string]any)
	}
	i.past[field] = v
}

// PastValue returns the baseline value of field and whether one was set.
func (i *Issue) PastValue(field string) (any, bool) {
	v, ok := i.past[field]
	return v, ok
}

// Attributes is an open set of string attributes. A key is either present
// with a value or absent; there is no present-but-null state.
type Attributes map[string]string

// Get returns the value for key and whether the key is present.
func (a Attributes) Get(key string) (string, bool) {
	v, ok := a[key]
	return v, ok
}

// Keys returns the attribute keys in lexical order.
func (a Attributes) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
