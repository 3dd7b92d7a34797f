package issuekit

import (
	"context"
	"fmt"
	"time"

	"github.com/issuekit/issuekit/internal/audit"
	"github.com/issuekit/issuekit/internal/repo"
	"github.com/issuekit/issuekit/internal/store"
	"github.com/issuekit/issuekit/pkg/config"
	"github.com/issuekit/issuekit/pkg/keyutil"
	"github.com/issuekit/issuekit/pkg/logging"
	"github.com/issuekit/issuekit/pkg/model"
	"github.com/issuekit/issuekit/pkg/updater"
)

// VerifyResult summarizes an audit chain check.
type VerifyResult = audit.VerifyResult

// Client provides high-level operations on an issue workspace.
type Client struct {
	root        string
	workspaceID string
	cfg         *config.Config
	store       *store.Store
	audit       *audit.FileAppender
	updater     *updater.Updater
	now         func() time.Time
}

// CreateOptions configures issue creation.
type CreateOptions struct {
	Key         string // Generated when empty
	Rule        string
	Component   string
	Message     string
	Severity    model.Severity // Defaults to MAJOR
	Line        *int
	Assignee    string
	AuthorLogin string
	EffortToFix *float64
	Attributes  map[string]string
}

// ListOptions filters List. Empty fields match everything.
type ListOptions = store.FilterOptions

// UpdateResult describes a finished change pass.
type UpdateResult struct {
	Issue   *model.Issue      `json:"issue"`
	Change  *model.FieldDiffs `json:"change,omitempty"`
	Changed bool              `json:"changed"`
}

// Init initializes a new workspace at path.
func Init(path string) (*Client, error) {
	if _, err := repo.Init(path); err != nil {
		return nil, fmt.Errorf("issuekit init: %w", err)
	}
	return Open(path)
}

// Open opens an existing workspace at or above path.
func Open(path string) (*Client, error) {
	r, err := repo.Discover(path)
	if err != nil {
		return nil, fmt.Errorf("issuekit open: %w", err)
	}
	cfg, err := config.Load(r.Root)
	if err != nil {
		return nil, fmt.Errorf("issuekit open: %w", err)
	}
	return &Client{
		root:        r.Root,
		workspaceID: r.WorkspaceID,
		cfg:         cfg,
		store:       store.New(r.Root),
		audit:       audit.NewFileAppender(repo.AuditLogPath(r.Root)),
		updater:     updater.New(),
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

// Root returns the workspace root directory.
func (c *Client) Root() string { return c.root }

// WorkspaceID returns the workspace's unique identifier.
func (c *Client) WorkspaceID() string { return c.workspaceID }

// Config returns the configuration loaded when the client was opened.
func (c *Client) Config() *config.Config { return c.cfg }

// Create stores a new open issue.
func (c *Client) Create(ctx context.Context, opts CreateOptions) (*model.Issue, error) {
	login, err := c.login(ctx)
	if err != nil {
		return nil, err
	}
	author := opts.AuthorLogin
	if author == "" {
		author = login
	}
	if author, err = keyutil.NormalizeLogin(author); err != nil {
		return nil, err
	}
	assignee, err := keyutil.NormalizeLogin(opts.Assignee)
	if err != nil {
		return nil, err
	}

	severity := opts.Severity
	if severity == "" {
		severity = model.SeverityMajor
	}

	var attrs model.Attributes
	for k, v := range opts.Attributes {
		key, err := keyutil.NormalizeAttributeKey(k)
		if err != nil {
			return nil, err
		}
		if attrs == nil {
			attrs = model.Attributes{}
		}
		attrs[key] = v
	}

	now := c.now()
	issue := &model.Issue{
		Key:         opts.Key,
		Rule:        opts.Rule,
		Component:   opts.Component,
		Message:     opts.Message,
		Severity:    severity,
		Line:        opts.Line,
		Assignee:    assignee,
		AuthorLogin: author,
		EffortToFix: opts.EffortToFix,
		Attributes:  attrs,
		Status:      model.StatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := c.store.Create(issue); err != nil {
		return nil, fmt.Errorf("create issue: %w", err)
	}

	logging.Info("issue created", map[string]any{"key": issue.Key, "rule": issue.Rule})
	if err := c.appendAudit(&model.AuditRecord{
		EventType: model.EventTypeIssueCreate,
		IssueKey:  issue.Key,
		Login:     login,
		Details: map[string]any{
			"rule":      issue.Rule,
			"component": issue.Component,
			"severity":  string(issue.Severity),
		},
	}); err != nil {
		return issue, err
	}
	return issue, nil
}

// Get returns the issue whose key is ref or uniquely starts with ref.
func (c *Client) Get(_ context.Context, ref string) (*model.Issue, error) {
	return c.store.Resolve(ref)
}

// List returns matching issues, newest first.
func (c *Client) List(_ context.Context, opts ListOptions) ([]*model.Issue, error) {
	return c.store.List(opts)
}

// Update runs one change pass on the issue identified by ref. The change
// context carries the login from WithLogin, or the configured default
// login. Without a login the change is attributed to a scan.
func (c *Client) Update(ctx context.Context, ref string, fn func(*updater.Session) error) (*UpdateResult, error) {
	issue, err := c.store.Resolve(ref)
	if err != nil {
		return nil, err
	}
	login, err := c.login(ctx)
	if err != nil {
		return nil, err
	}

	var changeCtx model.ChangeContext
	if login == "" {
		changeCtx = model.NewScanChange(c.now())
	} else {
		changeCtx = model.NewUserChange(c.now(), login)
	}

	if err := fn(c.updater.Session(issue, changeCtx)); err != nil {
		return nil, fmt.Errorf("update issue %s: %w", issue.Key, err)
	}

	if !issue.IsChanged() {
		logging.Debug("no change", map[string]any{"key": issue.Key})
		return &UpdateResult{Issue: issue}, nil
	}

	change := issue.CommitChange()
	if err := c.store.Save(issue); err != nil {
		return nil, fmt.Errorf("save issue %s: %w", issue.Key, err)
	}
	logging.Info("issue updated", map[string]any{
		"key":    issue.Key,
		"login":  login,
		"fields": change.Fields(),
	})

	result := &UpdateResult{Issue: issue, Change: change, Changed: true}
	if err := c.appendAudit(&model.AuditRecord{
		EventType: model.EventTypeIssueUpdate,
		IssueKey:  issue.Key,
		Login:     login,
		Diffs:     change.Sorted(),
	}); err != nil {
		return result, err
	}
	return result, nil
}

// History returns the committed change sets of an issue, oldest first.
func (c *Client) History(_ context.Context, ref string) ([]*model.FieldDiffs, error) {
	issue, err := c.store.Resolve(ref)
	if err != nil {
		return nil, err
	}
	return issue.Changes, nil
}

// AuditRecords returns every record of the audit log, oldest first.
func (c *Client) AuditRecords(_ context.Context) ([]*model.AuditRecord, error) {
	return audit.ReadAll(c.audit.Path())
}

// VerifyAudit checks the hash chain of the audit log.
func (c *Client) VerifyAudit(_ context.Context) (*VerifyResult, error) {
	return audit.Verify(c.audit.Path())
}

func (c *Client) login(ctx context.Context) (string, error) {
	login, ok := LoginFromContext(ctx)
	if !ok || login == "" {
		login = c.cfg.DefaultLogin
	}
	return keyutil.NormalizeLogin(login)
}

func (c *Client) appendAudit(record *model.AuditRecord) error {
	if !c.cfg.AuditEnabled() {
		return nil
	}
	if err := c.audit.Append(record); err != nil {
		logging.ErrorErr("audit append failed", err, map[string]any{"key": record.IssueKey})
		return fmt.Errorf("append audit record: %w", err)
	}
	return nil
}
