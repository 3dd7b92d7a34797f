// Package doctor checks the health of an issue workspace.
package doctor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/issuekit/issuekit/internal/audit"
	"github.com/issuekit/issuekit/internal/repo"
	"github.com/issuekit/issuekit/pkg/config"
	"github.com/issuekit/issuekit/pkg/fsutil"
	"github.com/issuekit/issuekit/pkg/model"
)

// Finding represents a detected problem.
type Finding struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Path        string `json:"path,omitempty"`
}

// Result contains doctor check results.
type Result struct {
	Healthy  bool      `json:"healthy"`
	Findings []Finding `json:"findings"`
}

func (r *Result) add(f Finding) {
	if f.Severity == "critical" || f.Severity == "error" {
		r.Healthy = false
	}
	r.Findings = append(r.Findings, f)
}

// Doctor performs workspace health checks.
type Doctor struct {
	root string
}

// NewDoctor creates a new doctor.
func NewDoctor(root string) *Doctor {
	return &Doctor{root: root}
}

// Check runs all diagnostic checks. Strict mode also verifies the audit
// log hash chain.
func (d *Doctor) Check(strict bool) (*Result, error) {
	result := &Result{Healthy: true}

	d.checkFormatVersion(result)
	d.checkIssues(result)
	if strict {
		d.checkAuditChain(result)
	}
	d.checkOrphanTmp(result)

	return result, nil
}

func (d *Doctor) checkFormatVersion(result *Result) {
	versionPath := filepath.Join(d.root, config.DirName, repo.FormatVersionFile)
	data, err := os.ReadFile(versionPath)
	if err != nil {
		result.add(Finding{
			Category:    "format",
			Description: "format_version file missing or unreadable",
			Severity:    "critical",
			Path:        versionPath,
		})
		return
	}

	var version int
	fmt.Sscanf(string(data), "%d", &version)
	if version > repo.FormatVersion {
		result.add(Finding{
			Category:    "format",
			Description: fmt.Sprintf("format version %d > supported %d", version, repo.FormatVersion),
			Severity:    "critical",
		})
	}
}

func (d *Doctor) checkIssues(result *Result) {
	dir := repo.IssuesDir(d.root)
	entries, err := os.ReadDir(dir)
	if err != nil {
		result.add(Finding{
			Category:    "issue",
			Description: fmt.Sprintf("cannot read issues directory: %v", err),
			Severity:    "error",
			Path:        dir,
		})
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			result.add(Finding{Category: "issue", Description: fmt.Sprintf("unreadable issue file: %v", err), Severity: "error", Path: path})
			continue
		}
		var issue model.Issue
		if err := json.Unmarshal(data, &issue); err != nil {
			result.add(Finding{Category: "issue", Description: fmt.Sprintf("malformed issue file: %v", err), Severity: "error", Path: path})
			continue
		}
		if key := strings.TrimSuffix(name, ".json"); issue.Key != key {
			result.add(Finding{
				Category:    "issue",
				Description: fmt.Sprintf("issue key %q does not match file name", issue.Key),
				Severity:    "error",
				Path:        path,
			})
		}
		for i, change := range issue.Changes {
			if change.Len() == 0 {
				result.add(Finding{
					Category:    "history",
					Description: fmt.Sprintf("issue %s: change set %d is empty", issue.Key, i+1),
					Severity:    "warning",
					Path:        path,
				})
			}
		}
	}
}

func (d *Doctor) checkAuditChain(result *Result) {
	path := repo.AuditLogPath(d.root)
	res, err := audit.Verify(path)
	if err != nil {
		desc := err.Error()
		if res != nil && !res.Valid {
			desc = fmt.Sprintf("audit chain broken at line %d: %s", res.BrokenAt, res.Error)
		}
		result.add(Finding{Category: "audit", Description: desc, Severity: "critical", Path: path})
	}
}

func (d *Doctor) checkOrphanTmp(result *Result) {
	filepath.Walk(filepath.Join(d.root, config.DirName), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if strings.HasPrefix(info.Name(), fsutil.TmpPrefix) {
			result.add(Finding{
				Category:    "tmp",
				Description: fmt.Sprintf("orphan temp file: %s", info.Name()),
				Severity:    "info",
				Path:        path,
			})
		}
		return nil
	})
}
