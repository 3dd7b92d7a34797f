package model

import "time"

// ChangeContext identifies who changed an issue and when. It is created by
// the caller of the updater and shared by every field change of one pass.
type ChangeContext struct {
	login string
	date  time.Time
	scan  bool
}

// NewUserChange returns a context for a change made by a human user.
func NewUserChange(date time.Time, login string) ChangeContext {
	return ChangeContext{login: login, date: date}
}

// NewScanChange returns a context for a change made by an analysis scan.
func NewScanChange(date time.Time) ChangeContext {
	return ChangeContext{date: date, scan: true}
}

func (c ChangeContext) Login() string   { return c.login }
func (c ChangeContext) Date() time.Time { return c.date }
func (c ChangeContext) IsScan() bool    { return c.scan }
