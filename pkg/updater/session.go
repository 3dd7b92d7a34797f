package updater

import "github.com/issuekit/issuekit/pkg/model"

// Session binds an Updater to one issue and one change context, so a
// workflow can apply a batch of edits without repeating them.
type Session struct {
	u     *Updater
	issue *model.Issue
	ctx   model.ChangeContext
}

// Session starts a batch of edits on issue attributed to ctx.
func (u *Updater) Session(issue *model.Issue, ctx model.ChangeContext) *Session {
	return &Session{u: u, issue: issue, ctx: ctx}
}

// Issue returns the issue being edited.
func (s *Session) Issue() *model.Issue { return s.issue }

// Context returns the change context edits are attributed to.
func (s *Session) Context() model.ChangeContext { return s.ctx }

// Assign sets the assignee. An empty login unassigns the issue.
func (s *Session) Assign(login string) bool { return s.u.Assign(s.issue, login, s.ctx) }

// SetLine sets the line. A nil line unbinds the issue from a line.
func (s *Session) SetLine(line *int) bool { return s.u.SetLine(s.issue, line, s.ctx) }

// Plan attaches the issue to an action plan. An empty key detaches it.
func (s *Session) Plan(actionPlanKey string) bool { return s.u.Plan(s.issue, actionPlanKey, s.ctx) }

// SetMessage sets the issue message.
func (s *Session) SetMessage(message string) bool { return s.u.SetMessage(s.issue, message, s.ctx) }

// SetAuthorLogin sets the author login.
func (s *Session) SetAuthorLogin(login string) bool {
	return s.u.SetAuthorLogin(s.issue, login, s.ctx)
}

// SetEffortToFix sets the effort estimate.
func (s *Session) SetEffortToFix(effort *float64) bool {
	return s.u.SetEffortToFix(s.issue, effort, s.ctx)
}

// SetSeverity sets the severity unless it was set manually.
func (s *Session) SetSeverity(severity model.Severity) (bool, error) {
	return s.u.SetSeverity(s.issue, severity, s.ctx)
}

// SetManualSeverity sets the severity and locks it against SetSeverity.
func (s *Session) SetManualSeverity(severity model.Severity) bool {
	return s.u.SetManualSeverity(s.issue, severity, s.ctx)
}

// SetResolution sets the resolution. An empty resolution clears it.
func (s *Session) SetResolution(resolution model.Resolution) bool {
	return s.u.SetResolution(s.issue, resolution, s.ctx)
}

// SetStatus sets the workflow status.
func (s *Session) SetStatus(status model.Status) bool {
	return s.u.SetStatus(s.issue, status, s.ctx)
}

// SetAttribute sets the attribute key. A nil value removes it.
func (s *Session) SetAttribute(key string, value *string) bool {
	return s.u.SetAttribute(s.issue, key, value, s.ctx)
}

// UnsetAttribute removes the attribute key.
func (s *Session) UnsetAttribute(key string) bool {
	return s.u.UnsetAttribute(s.issue, key, s.ctx)
}
