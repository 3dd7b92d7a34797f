// Package render formats issues and their change sets for the terminal.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/issuekit/issuekit/pkg/color"
	"github.com/issuekit/issuekit/pkg/model"
)

const timeLayout = "2006-01-02 15:04:05"

// Value formats one side of a diff. Unset values print as "(none)".
func Value(v any) string {
	switch val := v.(type) {
	case nil:
		return "(none)"
	case string:
		return strconv.Quote(val)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

// Change formats a change set, one line per field in name order.
func Change(fd *model.FieldDiffs) string {
	if fd.Len() == 0 {
		return "No changes.\n"
	}

	var sb strings.Builder
	by := fd.Login
	if by == "" {
		by = "scan"
	}
	fmt.Fprintf(&sb, "%s by %s\n", color.Dim(fd.CreatedAt.Format(timeLayout)), color.Header(by))
	for _, d := range fd.Sorted() {
		fmt.Fprintf(&sb, "  ~ %s: %s -> %s\n", color.Field(d.Field), color.Old(Value(d.OldValue)), color.New(Value(d.NewValue)))
		if d.Field != model.FieldMessage {
			continue
		}
		oldMsg, okOld := d.OldValue.(string)
		newMsg, okNew := d.NewValue.(string)
		if okOld && okNew {
			fmt.Fprintf(&sb, "      %s\n", InlineDiff(oldMsg, newMsg))
		}
	}
	return sb.String()
}

// InlineDiff renders a character-level diff of two strings, with deletions
// as [-text-] and insertions as {+text+}.
func InlineDiff(before, after string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(before, after, false))

	var sb strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			sb.WriteString(color.Old("[-" + d.Text + "-]"))
		case diffmatchpatch.DiffInsert:
			sb.WriteString(color.New("{+" + d.Text + "+}"))
		default:
			sb.WriteString(d.Text)
		}
	}
	return sb.String()
}

// Issue formats the current state of an issue.
func Issue(issue *model.Issue) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Issue %s\n", color.IssueKey(issue.Key))

	row := func(name, value string) {
		if value == "" {
			value = color.Dim("(none)")
		}
		fmt.Fprintf(&sb, "  %-16s %s\n", name+":", value)
	}

	row("rule", issue.Rule)
	row("component", issue.Component)
	if issue.Line != nil {
		row("line", strconv.Itoa(*issue.Line))
	} else {
		row("line", "")
	}
	sev := color.Severity(issue.Severity)
	if issue.ManualSeverity && issue.Severity != "" {
		sev += color.Dim(" (manual)")
	}
	row("severity", sev)
	row("status", string(issue.Status))
	row("resolution", string(issue.Resolution))
	row("assignee", issue.Assignee)
	row("author", issue.AuthorLogin)
	row("action plan", issue.ActionPlanKey)
	if issue.EffortToFix != nil {
		row("effort to fix", strconv.FormatFloat(*issue.EffortToFix, 'g', -1, 64))
	} else {
		row("effort to fix", "")
	}
	row("message", issue.Message)
	row("created", issue.CreatedAt.Format(timeLayout))
	row("updated", issue.UpdatedAt.Format(timeLayout))

	if len(issue.Attributes) > 0 {
		sb.WriteString("  attributes:\n")
		for _, k := range issue.Attributes.Keys() {
			fmt.Fprintf(&sb, "    %s = %s\n", color.Field(k), issue.Attributes[k])
		}
	}
	return sb.String()
}

// History formats the committed change sets of an issue, newest first.
func History(issue *model.Issue) string {
	if len(issue.Changes) == 0 {
		return "No changes recorded.\n"
	}
	var sb strings.Builder
	for i := len(issue.Changes) - 1; i >= 0; i-- {
		sb.WriteString(Change(issue.Changes[i]))
	}
	return sb.String()
}

// Summary formats an issue as a single list line.
func Summary(issue *model.Issue) string {
	key := issue.Key
	if len(key) > 8 {
		key = key[:8]
	}
	assignee := issue.Assignee
	if assignee == "" {
		assignee = "-"
	}
	return fmt.Sprintf("%s  %-9s %-10s %-12s %s",
		color.IssueKey(key),
		color.Severity(issue.Severity),
		string(issue.Status),
		assignee,
		issue.Message,
	)
}
