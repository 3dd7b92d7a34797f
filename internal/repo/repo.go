// Package repo locates and initializes issue workspaces.
package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/issuekit/issuekit/pkg/config"
	"github.com/issuekit/issuekit/pkg/errclass"
	"github.com/issuekit/issuekit/pkg/fsutil"
)

const (
	FormatVersion     = 1
	FormatVersionFile = "format_version"
	WorkspaceIDFile   = "workspace_id"
)

// Repo represents an initialized issue workspace.
type Repo struct {
	Root          string
	FormatVersion int
	WorkspaceID   string
}

// Init creates a new workspace at path. Initializing an existing workspace
// is an error.
func Init(path string) (*Repo, error) {
	metaDir := filepath.Join(path, config.DirName)
	if _, err := os.Stat(metaDir); err == nil {
		return nil, fmt.Errorf("workspace already initialized at %s", path)
	}

	for _, dir := range []string{
		metaDir,
		IssuesDir(path),
		filepath.Dir(AuditLogPath(path)),
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	if err := fsutil.AtomicWrite(filepath.Join(metaDir, FormatVersionFile), []byte("1\n"), 0644); err != nil {
		return nil, fmt.Errorf("write format_version: %w", err)
	}

	id := uuid.NewString()
	if err := fsutil.AtomicWrite(filepath.Join(metaDir, WorkspaceIDFile), []byte(id+"\n"), 0644); err != nil {
		return nil, fmt.Errorf("write workspace_id: %w", err)
	}

	if err := config.Save(path, config.Default()); err != nil {
		return nil, err
	}

	if err := fsutil.FsyncDir(path); err != nil {
		return nil, fmt.Errorf("fsync workspace root: %w", err)
	}

	return &Repo{Root: path, FormatVersion: FormatVersion, WorkspaceID: id}, nil
}

// Discover walks up from cwd to find the workspace root (the directory
// containing .issuekit/).
func Discover(cwd string) (*Repo, error) {
	path := cwd
	for {
		metaDir := filepath.Join(path, config.DirName)
		if info, err := os.Stat(metaDir); err == nil && info.IsDir() {
			version, err := readFormatVersion(metaDir)
			if err != nil {
				return nil, err
			}
			if version > FormatVersion {
				return nil, errclass.ErrFormatUnsupported.WithMessagef(
					"format version %d > supported %d", version, FormatVersion)
			}
			id, _ := readWorkspaceID(metaDir)
			return &Repo{Root: path, FormatVersion: version, WorkspaceID: id}, nil
		}

		parent := filepath.Dir(path)
		if parent == path {
			return nil, fmt.Errorf("no issue workspace found (no %s/ in parent directories)", config.DirName)
		}
		path = parent
	}
}

// IssuesDir returns the directory holding issue files.
func IssuesDir(root string) string {
	return filepath.Join(root, config.DirName, "issues")
}

// AuditLogPath returns the path of the change audit log.
func AuditLogPath(root string) string {
	return filepath.Join(root, config.DirName, "audit", "audit.jsonl")
}

func readFormatVersion(metaDir string) (int, error) {
	data, err := os.ReadFile(filepath.Join(metaDir, FormatVersionFile))
	if err != nil {
		return 0, fmt.Errorf("read format_version: %w", err)
	}
	var version int
	if _, err := fmt.Sscanf(string(data), "%d", &version); err != nil {
		return 0, fmt.Errorf("parse format_version: %w", err)
	}
	return version, nil
}

func readWorkspaceID(metaDir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(metaDir, WorkspaceIDFile))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
