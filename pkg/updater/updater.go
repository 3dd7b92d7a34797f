// Package updater applies diff-tracked field updates to issues.
//
// Every setter compares the proposed value with the current one and only
// mutates the issue on change, recording the old and new values in the
// issue's current change set. Past setters record a baseline value instead:
// they never mutate the current value and never produce a diff.
//
// An Updater holds no state. Callers serialize updates of a given issue.
package updater

import (
	"github.com/issuekit/issuekit/pkg/errclass"
	"github.com/issuekit/issuekit/pkg/model"
)

// SeverityLockedMessage is the message of the error returned when severity
// is changed after a manual override.
const SeverityLockedMessage = "Severity can't be changed"

// Updater applies field updates to issues.
type Updater struct{}

// New creates a new Updater.
func New() *Updater {
	return &Updater{}
}

// Assign sets the assignee. An empty login unassigns the issue.
func (u *Updater) Assign(issue *model.Issue, login string, ctx model.ChangeContext) bool {
	return assigneeField.update(issue, login, ctx, track)
}

// SetSeverity sets the severity computed by an automated source. It fails
// with errclass.ErrGuardedField when the severity was set manually, whatever
// the proposed value.
func (u *Updater) SetSeverity(issue *model.Issue, severity model.Severity, ctx model.ChangeContext) (bool, error) {
	if issue.ManualSeverity {
		return false, errclass.ErrGuardedField.WithMessage(SeverityLockedMessage)
	}
	return severityField.update(issue, severity, ctx, track), nil
}

// SetPastSeverity records the severity the issue had before the current
// pass.
func (u *Updater) SetPastSeverity(issue *model.Issue, severity model.Severity) bool {
	return severityField.update(issue, severity, model.ChangeContext{}, baseline)
}

// SetManualSeverity sets a severity chosen by a human and locks it against
// SetSeverity.
func (u *Updater) SetManualSeverity(issue *model.Issue, severity model.Severity, ctx model.ChangeContext) bool {
	if issue.ManualSeverity && issue.Severity == severity {
		return false
	}
	changed := severityField.update(issue, severity, ctx, track)
	locked := manualSeverityField.update(issue, true, ctx, track)
	return changed || locked
}

// SetLine sets the line. A nil line means the issue is not bound to a line.
func (u *Updater) SetLine(issue *model.Issue, line *int, ctx model.ChangeContext) bool {
	return lineField.update(issue, line, ctx, track)
}

// SetPastLine records the line the issue had before the current pass.
func (u *Updater) SetPastLine(issue *model.Issue, line *int) bool {
	return lineField.update(issue, line, model.ChangeContext{}, baseline)
}

// SetResolution sets the resolution. An empty resolution clears it.
func (u *Updater) SetResolution(issue *model.Issue, resolution model.Resolution, ctx model.ChangeContext) bool {
	return resolutionField.update(issue, resolution, ctx, track)
}

// SetStatus sets the workflow status.
func (u *Updater) SetStatus(issue *model.Issue, status model.Status, ctx model.ChangeContext) bool {
	return statusField.update(issue, status, ctx, track)
}

// SetAttribute sets the attribute key. A nil value removes it. The diff is
// recorded under key itself.
func (u *Updater) SetAttribute(issue *model.Issue, key string, value *string, ctx model.ChangeContext) bool {
	return attributeField(key).update(issue, value, ctx, track)
}

// UnsetAttribute removes the attribute key.
func (u *Updater) UnsetAttribute(issue *model.Issue, key string, ctx model.ChangeContext) bool {
	return u.SetAttribute(issue, key, nil, ctx)
}

// Plan attaches the issue to an action plan. An empty key detaches it.
func (u *Updater) Plan(issue *model.Issue, actionPlanKey string, ctx model.ChangeContext) bool {
	return actionPlanField.update(issue, actionPlanKey, ctx, track)
}

// SetEffortToFix sets the effort estimate. Values are compared exactly.
func (u *Updater) SetEffortToFix(issue *model.Issue, effort *float64, ctx model.ChangeContext) bool {
	return effortField.update(issue, effort, ctx, track)
}

// SetPastEffortToFix records the effort the issue had before the current
// pass.
func (u *Updater) SetPastEffortToFix(issue *model.Issue, effort *float64) bool {
	return effortField.update(issue, effort, model.ChangeContext{}, baseline)
}

// SetMessage sets the issue message.
func (u *Updater) SetMessage(issue *model.Issue, message string, ctx model.ChangeContext) bool {
	return messageField.update(issue, message, ctx, track)
}

// SetPastMessage records the message the issue had before the current pass.
func (u *Updater) SetPastMessage(issue *model.Issue, message string) bool {
	return messageField.update(issue, message, model.ChangeContext{}, baseline)
}

// SetAuthorLogin sets the SCM author of the issue.
func (u *Updater) SetAuthorLogin(issue *model.Issue, login string, ctx model.ChangeContext) bool {
	return authorField.update(issue, login, ctx, track)
}
