// Package color provides terminal color output for issuekit.
// It respects the NO_COLOR environment variable (https://no-color.org/).
package color

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/issuekit/issuekit/pkg/model"
)

var state struct {
	once       sync.Once
	enabled    atomic.Bool
	overridden atomic.Bool
}

// Init initializes color support from the environment and the --no-color
// flag. Only the first call has an effect unless Enable or Disable is used.
func Init(noColorFlag bool) {
	state.once.Do(func() {
		if state.overridden.Load() {
			return
		}
		disabled := noColorFlag
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			disabled = true
		}
		if os.Getenv("TERM") == "dumb" {
			disabled = true
		}
		state.enabled.Store(!disabled)
	})
}

// Enabled returns true if color output is enabled.
func Enabled() bool {
	Init(false)
	return state.enabled.Load()
}

// Disable turns off color output.
func Disable() {
	state.overridden.Store(true)
	state.enabled.Store(false)
}

// Enable turns on color output.
func Enable() {
	state.overridden.Store(true)
	state.enabled.Store(true)
}

const (
	Reset   = "\033[0m"
	Bold    = "\033[1m"
	DimCode = "\033[2m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	BgRed   = "\033[41m"
)

func makeColorFunc(code string) func(string) string {
	return func(s string) string {
		if !Enabled() {
			return s
		}
		return code + s + Reset
	}
}

var (
	Redf     = makeColorFunc(Red)
	Greenf   = makeColorFunc(Green)
	Yellowf  = makeColorFunc(Yellow)
	Bluef    = makeColorFunc(Blue)
	Magentaf = makeColorFunc(Magenta)
	Cyanf    = makeColorFunc(Cyan)
	Boldf    = makeColorFunc(Bold)
	Dimf     = makeColorFunc(DimCode)
)

func Success(s string) string { return Greenf(s) }
func Error(s string) string   { return Redf(s) }
func Warning(s string) string { return Yellowf(s) }
func Info(s string) string    { return Cyanf(s) }
func Header(s string) string  { return Boldf(s) }
func Dim(s string) string     { return Dimf(s) }

// Successf formats a success message with printf-style arguments.
func Successf(format string, args ...any) string {
	return Greenf(fmt.Sprintf(format, args...))
}

// IssueKey formats an issue key in cyan.
func IssueKey(s string) string { return Cyanf(s) }

// Field formats a field name in blue.
func Field(s string) string { return Bluef(s) }

// Old and New format the two sides of a field change.
func Old(s string) string { return Redf(s) }
func New(s string) string { return Greenf(s) }

// Severity colors a severity by rank: blocker and critical red, major
// yellow, the rest dim.
func Severity(s model.Severity) string {
	switch s {
	case model.SeverityBlocker:
		return makeColorFunc(Bold + BgRed)(string(s))
	case model.SeverityCritical:
		return Redf(string(s))
	case model.SeverityMajor:
		return Yellowf(string(s))
	case model.SeverityMinor, model.SeverityInfo:
		return Dimf(string(s))
	default:
		return string(s)
	}
}
