package issuekit_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/issuekit/issuekit/pkg/config"
	"github.com/issuekit/issuekit/pkg/errclass"
	"github.com/issuekit/issuekit/pkg/issuekit"
	"github.com/issuekit/issuekit/pkg/model"
	"github.com/issuekit/issuekit/pkg/updater"
)

func setupClient(t *testing.T) *issuekit.Client {
	t.Helper()
	c, err := issuekit.Init(t.TempDir())
	require.NoError(t, err)
	return c
}

func createIssue(t *testing.T, c *issuekit.Client) *model.Issue {
	t.Helper()
	issue, err := c.Create(context.Background(), issuekit.CreateOptions{
		Key:       "AX1",
		Rule:      "go:S1234",
		Component: "main.go",
		Message:   "remove unused variable",
		Line:      model.Ptr(10),
	})
	require.NoError(t, err)
	return issue
}

func TestInitAndOpen(t *testing.T) {
	dir := t.TempDir()
	c, err := issuekit.Init(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, c.Root())
	assert.NotEmpty(t, c.WorkspaceID())

	sub := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0755))
	opened, err := issuekit.Open(sub)
	require.NoError(t, err)
	assert.Equal(t, dir, opened.Root())
	assert.Equal(t, c.WorkspaceID(), opened.WorkspaceID())

	_, err = issuekit.Init(dir)
	assert.Error(t, err)
}

func TestOpen_NoWorkspace(t *testing.T) {
	_, err := issuekit.Open(t.TempDir())
	assert.Error(t, err)
}

func TestCreate_Defaults(t *testing.T) {
	c := setupClient(t)
	ctx := issuekit.WithLogin(context.Background(), "simon")

	issue, err := c.Create(ctx, issuekit.CreateOptions{Rule: "go:S1", Message: "m"})
	require.NoError(t, err)
	assert.NotEmpty(t, issue.Key)
	assert.Equal(t, model.SeverityMajor, issue.Severity)
	assert.Equal(t, model.StatusOpen, issue.Status)
	assert.Equal(t, "simon", issue.AuthorLogin)
	assert.False(t, issue.CreatedAt.IsZero())

	got, err := c.Get(ctx, issue.Key[:8])
	require.NoError(t, err)
	assert.Equal(t, issue.Key, got.Key)
}

func TestCreate_InvalidAttributeKey(t *testing.T) {
	c := setupClient(t)
	_, err := c.Create(context.Background(), issuekit.CreateOptions{
		Attributes: map[string]string{"bad key": "v"},
	})
	assert.True(t, errors.Is(err, errclass.ErrNameInvalid))
}

func TestUpdate_RecordsChangeAndAudit(t *testing.T) {
	c := setupClient(t)
	createIssue(t, c)
	ctx := issuekit.WithLogin(context.Background(), "emmerik")

	res, err := c.Update(ctx, "AX1", func(s *updater.Session) error {
		s.Assign("emmerik")
		s.SetLine(model.Ptr(12))
		_, err := s.SetSeverity(model.SeverityCritical)
		return err
	})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	require.NotNil(t, res.Change)
	assert.Equal(t, []string{"assignee", "line", "severity"}, res.Change.Fields())
	assert.Equal(t, "emmerik", res.Change.Login)
	assert.Nil(t, res.Issue.CurrentChange())

	stored, err := c.Get(ctx, "AX1")
	require.NoError(t, err)
	assert.Equal(t, "emmerik", stored.Assignee)
	assert.Equal(t, model.SeverityCritical, stored.Severity)
	require.Len(t, stored.Changes, 1)

	history, err := c.History(ctx, "AX1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 3, history[0].Len())

	records, err := c.AuditRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, model.EventTypeIssueCreate, records[0].EventType)
	assert.Equal(t, model.EventTypeIssueUpdate, records[1].EventType)
	assert.Len(t, records[1].Diffs, 3)
	assert.Equal(t, records[0].RecordHash, records[1].PrevHash)

	result, err := c.VerifyAudit(ctx)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, 2, result.Records)
}

func TestUpdate_NoChangeWritesNothing(t *testing.T) {
	c := setupClient(t)
	createIssue(t, c)
	ctx := context.Background()

	res, err := c.Update(ctx, "AX1", func(s *updater.Session) error {
		s.SetMessage("remove unused variable")
		s.SetLine(model.Ptr(10))
		return nil
	})
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Nil(t, res.Change)

	records, err := c.AuditRecords(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	history, err := c.History(ctx, "AX1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestUpdate_GuardedSeverityAbortsPass(t *testing.T) {
	c := setupClient(t)
	createIssue(t, c)
	ctx := issuekit.WithLogin(context.Background(), "emmerik")

	_, err := c.Update(ctx, "AX1", func(s *updater.Session) error {
		s.SetManualSeverity(model.SeverityMinor)
		return nil
	})
	require.NoError(t, err)

	_, err = c.Update(ctx, "AX1", func(s *updater.Session) error {
		s.Assign("someone")
		_, err := s.SetSeverity(model.SeverityMajor)
		return err
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errclass.ErrGuardedField))
	assert.Contains(t, err.Error(), "Severity can't be changed")

	stored, err := c.Get(ctx, "AX1")
	require.NoError(t, err)
	assert.Empty(t, stored.Assignee)
	assert.Equal(t, model.SeverityMinor, stored.Severity)
	assert.True(t, stored.ManualSeverity)
	assert.Len(t, stored.Changes, 1)
}

func TestUpdate_LoginFallback(t *testing.T) {
	c := setupClient(t)
	createIssue(t, c)

	res, err := c.Update(context.Background(), "AX1", func(s *updater.Session) error {
		assert.True(t, s.Context().IsScan())
		s.SetStatus(model.StatusConfirmed)
		return nil
	})
	require.NoError(t, err)
	assert.Empty(t, res.Change.Login)

	cfg, err := config.Load(c.Root())
	require.NoError(t, err)
	require.NoError(t, cfg.Set("default_login", "fabrice"))
	require.NoError(t, config.Save(c.Root(), cfg))

	reopened, err := issuekit.Open(c.Root())
	require.NoError(t, err)
	res, err = reopened.Update(context.Background(), "AX1", func(s *updater.Session) error {
		assert.Equal(t, "fabrice", s.Context().Login())
		s.SetStatus(model.StatusResolved)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fabrice", res.Change.Login)
}

func TestUpdate_AuditDisabled(t *testing.T) {
	c := setupClient(t)
	cfg, err := config.Load(c.Root())
	require.NoError(t, err)
	require.NoError(t, cfg.Set("audit.enabled", "false"))
	require.NoError(t, config.Save(c.Root(), cfg))

	c, err = issuekit.Open(c.Root())
	require.NoError(t, err)
	createIssue(t, c)
	_, err = c.Update(context.Background(), "AX1", func(s *updater.Session) error {
		s.Plan("PLAN-1")
		return nil
	})
	require.NoError(t, err)

	records, err := c.AuditRecords(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestUpdate_NotFound(t *testing.T) {
	c := setupClient(t)
	_, err := c.Update(context.Background(), "missing", func(*updater.Session) error { return nil })
	assert.True(t, errors.Is(err, errclass.ErrIssueNotFound))
}

func TestList(t *testing.T) {
	c := setupClient(t)
	ctx := context.Background()
	for _, key := range []string{"A1", "A2", "A3"} {
		_, err := c.Create(ctx, issuekit.CreateOptions{Key: key, Assignee: "bob"})
		require.NoError(t, err)
	}
	_, err := c.Update(ctx, "A2", func(s *updater.Session) error {
		s.SetStatus(model.StatusClosed)
		return nil
	})
	require.NoError(t, err)

	all, err := c.List(ctx, issuekit.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	closed, err := c.List(ctx, issuekit.ListOptions{Status: model.StatusClosed})
	require.NoError(t, err)
	require.Len(t, closed, 1)
	assert.Equal(t, "A2", closed[0].Key)
}

func TestLoginFromContext(t *testing.T) {
	_, ok := issuekit.LoginFromContext(context.Background())
	assert.False(t, ok)

	login, ok := issuekit.LoginFromContext(issuekit.WithLogin(context.Background(), "emmerik"))
	assert.True(t, ok)
	assert.Equal(t, "emmerik", login)
}

func TestUpdate_ChangeThenRevertIsCommitted(t *testing.T) {
	c := setupClient(t)
	createIssue(t, c)
	ctx := issuekit.WithLogin(context.Background(), "emmerik")

	res, err := c.Update(ctx, "AX1", func(s *updater.Session) error {
		s.SetStatus(model.StatusConfirmed)
		s.SetStatus(model.StatusOpen)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, []string{"status"}, res.Change.Fields())

	history, err := c.History(ctx, "AX1")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
