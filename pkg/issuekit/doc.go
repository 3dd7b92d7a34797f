// Package issuekit provides a high-level library API for issue workspaces.
//
// This package is the primary integration point for external consumers. It
// wraps the store, the audit log and the field updater into one client.
//
// # Change passes
//
// Every mutation goes through Update, which runs one change pass:
//
//	client, err := issuekit.Open(".")
//	ctx = issuekit.WithLogin(ctx, "emmerik")
//	res, err := client.Update(ctx, "AX1", func(s *updater.Session) error {
//	    s.Assign("emmerik")
//	    _, err := s.SetSeverity(model.SeverityMajor)
//	    return err
//	})
//
// The edits are applied in memory. If the function returns an error nothing
// is written. Otherwise the change set is committed to the issue history,
// the issue is saved and an issue_update record is appended to the audit log.
// A pass that changes nothing writes nothing.
//
// # Concurrency Safety
//
// Audit appends are serialized across processes, but issue files are not
// locked. Callers must not run concurrent passes on the same issue.
package issuekit
