// Package store keeps issues as JSON files under .issuekit/issues.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/issuekit/issuekit/internal/repo"
	"github.com/issuekit/issuekit/pkg/errclass"
	"github.com/issuekit/issuekit/pkg/fsutil"
	"github.com/issuekit/issuekit/pkg/keyutil"
	"github.com/issuekit/issuekit/pkg/model"
)

// Store reads and writes issue files of one workspace.
type Store struct {
	dir string
}

// New returns the store of the workspace rooted at root.
func New(root string) *Store {
	return &Store{dir: repo.IssuesDir(root)}
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Create writes a new issue. A missing key is generated and missing dates are
// set to now.
func (s *Store) Create(issue *model.Issue) error {
	if issue.Key == "" {
		issue.Key = uuid.NewString()
	}
	if err := keyutil.ValidateIssueKey(issue.Key); err != nil {
		return err
	}
	if _, err := os.Stat(s.path(issue.Key)); err == nil {
		return fmt.Errorf("issue %s already exists", issue.Key)
	}
	now := time.Now().UTC()
	if issue.CreatedAt.IsZero() {
		issue.CreatedAt = now
	}
	if issue.UpdatedAt.IsZero() {
		issue.UpdatedAt = issue.CreatedAt
	}
	return s.Save(issue)
}

// Save overwrites the issue file atomically.
func (s *Store) Save(issue *model.Issue) error {
	if err := keyutil.ValidateIssueKey(issue.Key); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create issues dir: %w", err)
	}
	return fsutil.WriteJSON(s.path(issue.Key), issue)
}

// Load reads the issue with the exact key.
func (s *Store) Load(key string) (*model.Issue, error) {
	if err := keyutil.ValidateIssueKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errclass.ErrIssueNotFound.WithMessagef("issue %s", key)
		}
		return nil, fmt.Errorf("read issue: %w", err)
	}
	var issue model.Issue
	if err := json.Unmarshal(data, &issue); err != nil {
		return nil, fmt.Errorf("parse issue %s: %w", key, err)
	}
	return &issue, nil
}

// Resolve finds the issue whose key is ref or starts with ref.
func (s *Store) Resolve(ref string) (*model.Issue, error) {
	if issue, err := s.Load(ref); err == nil {
		return issue, nil
	}
	all, err := s.List(FilterOptions{})
	if err != nil {
		return nil, err
	}
	var matches []*model.Issue
	for _, issue := range all {
		if strings.HasPrefix(issue.Key, ref) {
			matches = append(matches, issue)
		}
	}
	switch len(matches) {
	case 0:
		return nil, errclass.ErrIssueNotFound.WithMessagef("no issue matching %q", ref)
	case 1:
		return matches[0], nil
	default:
		keys := make([]string, len(matches))
		for i, m := range matches {
			keys[i] = m.Key
		}
		return nil, fmt.Errorf("ambiguous key %q matches multiple issues: %s", ref, strings.Join(keys, ", "))
	}
}

// FilterOptions for listing issues. Empty fields match everything.
type FilterOptions struct {
	Status   model.Status
	Severity model.Severity
	Assignee string
}

// List returns matching issues sorted by creation time, newest first.
// Unreadable files are skipped.
func (s *Store) List(opts FilterOptions) ([]*model.Issue, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read issues directory: %w", err)
	}

	var issues []*model.Issue
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		issue, err := s.Load(strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}
		if matchesFilter(issue, opts) {
			issues = append(issues, issue)
		}
	}

	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].CreatedAt.Equal(issues[j].CreatedAt) {
			return issues[i].Key < issues[j].Key
		}
		return issues[i].CreatedAt.After(issues[j].CreatedAt)
	})
	return issues, nil
}

func matchesFilter(issue *model.Issue, opts FilterOptions) bool {
	if opts.Status != "" && issue.Status != opts.Status {
		return false
	}
	if opts.Severity != "" && issue.Severity != opts.Severity {
		return false
	}
	if opts.Assignee != "" && issue.Assignee != opts.Assignee {
		return false
	}
	return true
}
