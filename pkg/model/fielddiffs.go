package model

import (
	"sort"
	"time"
)

// Diff is the recorded change of one field during one update pass.
// A nil value means the field was unset.
type Diff struct {
	Field    string `json:"field"`
	OldValue any    `json:"old_value"`
	NewValue any    `json:"new_value"`
}

// FieldDiffs is the change set of one update pass, keyed by field name.
type FieldDiffs struct {
	Login     string           `json:"login,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	Diffs     map[string]*Diff `json:"diffs"`
}

// NewFieldDiffs returns an empty change set stamped with ctx.
func NewFieldDiffs(ctx ChangeContext) *FieldDiffs {
	return &FieldDiffs{
		Login:     ctx.Login(),
		CreatedAt: ctx.Date(),
		Diffs:     make(map[string]*Diff),
	}
}

// Get returns the diff recorded for field, or nil.
func (f *FieldDiffs) Get(field string) *Diff {
	if f == nil {
		return nil
	}
	return f.Diffs[field]
}

// SetDiff records a change of field. When the field was already changed in
// this pass the original old value is kept and only the new value moves,
// even if it ends up equal to the old one.
func (f *FieldDiffs) SetDiff(field string, oldValue, newValue any) {
	if f.Diffs == nil {
		f.Diffs = make(map[string]*Diff)
	}
	if d, ok := f.Diffs[field]; ok {
		d.NewValue = newValue
		return
	}
	f.Diffs[field] = &Diff{Field: field, OldValue: oldValue, NewValue: newValue}
}

// Len returns the number of changed fields.
func (f *FieldDiffs) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Diffs)
}

// Fields returns the changed field names in lexical order.
func (f *FieldDiffs) Fields() []string {
	if f == nil {
		return nil
	}
	fields := make([]string, 0, len(f.Diffs))
	for k := range f.Diffs {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}

// Sorted returns the diffs ordered by field name.
func (f *FieldDiffs) Sorted() []*Diff {
	fields := f.Fields()
	out := make([]*Diff, 0, len(fields))
	for _, name := range fields {
		out = append(out, f.Diffs[name])
	}
	return out
}
