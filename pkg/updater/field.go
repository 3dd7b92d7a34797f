package updater

import "github.com/issuekit/issuekit/pkg/model"

type mode int

const (
	// track mutates the field and records a diff in the current change set.
	track mode = iota
	// baseline records a past value without touching the field.
	baseline
)

// field describes how to read, write and compare one issue field.
type field[T any] struct {
	name  string
	get   func(*model.Issue) T
	set   func(*model.Issue, T)
	equal func(a, b T) bool
	value func(T) any
}

// update is the single compare-and-set primitive behind every setter.
func (f field[T]) update(issue *model.Issue, proposed T, ctx model.ChangeContext, m mode) bool {
	current := f.get(issue)
	if m == baseline {
		issue.SetPastValue(f.name, f.value(proposed))
		return !f.equal(current, proposed)
	}
	if f.equal(current, proposed) {
		return false
	}
	f.set(issue, proposed)
	issue.RecordChange(ctx, f.name, f.value(current), f.value(proposed))
	issue.UpdatedAt = ctx.Date()
	return true
}

func eq[T comparable](a, b T) bool { return a == b }

func ptrEq[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// str maps the unset string to nil so diffs read old=null.
func str[T ~string](v T) any {
	if v == "" {
		return nil
	}
	return string(v)
}

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

var (
	assigneeField = field[string]{
		name:  model.FieldAssignee,
		get:   func(i *model.Issue) string { return i.Assignee },
		set:   func(i *model.Issue, v string) { i.Assignee = v },
		equal: eq[string],
		value: str[string],
	}
	severityField = field[model.Severity]{
		name:  model.FieldSeverity,
		get:   func(i *model.Issue) model.Severity { return i.Severity },
		set:   func(i *model.Issue, v model.Severity) { i.Severity = v },
		equal: eq[model.Severity],
		value: str[model.Severity],
	}
	manualSeverityField = field[bool]{
		name:  model.FieldManualSeverity,
		get:   func(i *model.Issue) bool { return i.ManualSeverity },
		set:   func(i *model.Issue, v bool) { i.ManualSeverity = v },
		equal: eq[bool],
		value: func(v bool) any { return v },
	}
	lineField = field[*int]{
		name:  model.FieldLine,
		get:   func(i *model.Issue) *int { return i.Line },
		set:   func(i *model.Issue, v *int) { i.Line = clone(v) },
		equal: ptrEq[int],
		value: deref[int],
	}
	resolutionField = field[model.Resolution]{
		name:  model.FieldResolution,
		get:   func(i *model.Issue) model.Resolution { return i.Resolution },
		set:   func(i *model.Issue, v model.Resolution) { i.Resolution = v },
		equal: eq[model.Resolution],
		value: str[model.Resolution],
	}
	statusField = field[model.Status]{
		name:  model.FieldStatus,
		get:   func(i *model.Issue) model.Status { return i.Status },
		set:   func(i *model.Issue, v model.Status) { i.Status = v },
		equal: eq[model.Status],
		value: str[model.Status],
	}
	actionPlanField = field[string]{
		name:  model.FieldActionPlan,
		get:   func(i *model.Issue) string { return i.ActionPlanKey },
		set:   func(i *model.Issue, v string) { i.ActionPlanKey = v },
		equal: eq[string],
		value: str[string],
	}
	effortField = field[*float64]{
		name:  model.FieldEffortToFix,
		get:   func(i *model.Issue) *float64 { return i.EffortToFix },
		set:   func(i *model.Issue, v *float64) { i.EffortToFix = clone(v) },
		equal: ptrEq[float64],
		value: deref[float64],
	}
	messageField = field[string]{
		name:  model.FieldMessage,
		get:   func(i *model.Issue) string { return i.Message },
		set:   func(i *model.Issue, v string) { i.Message = v },
		equal: eq[string],
		value: str[string],
	}
	authorField = field[string]{
		name:  model.FieldAuthor,
		get:   func(i *model.Issue) string { return i.AuthorLogin },
		set:   func(i *model.Issue, v string) { i.AuthorLogin = v },
		equal: eq[string],
		value: str[string],
	}
)

// attributeField tracks one attribute under its own key. A nil value is the
// absent key.
func attributeField(key string) field[*string] {
	return field[*string]{
		name: key,
		get: func(i *model.Issue) *string {
			if v, ok := i.Attributes.Get(key); ok {
				return &v
			}
			return nil
		},
		set: func(i *model.Issue, v *string) {
			if v == nil {
				delete(i.Attributes, key)
				return
			}
			if i.Attributes == nil {
				i.Attributes = make(model.Attributes)
			}
			i.Attributes[key] = *v
		},
		equal: ptrEq[string],
		value: deref[string],
	}
}
