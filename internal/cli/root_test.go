package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/issuekit/issuekit/pkg/color"
	"github.com/issuekit/issuekit/pkg/model"
)

func TestMain(m *testing.M) {
	color.Disable()
	os.Exit(m.Run())
}

func executeCommand(args ...string) (stdout string, err error) {
	// Capture os.Stdout since commands print with fmt.Printf
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	root := newRootCmd()
	root.SetArgs(args)
	err = root.Execute()

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String(), err
}

func setupTestDir(t *testing.T) string {
	dir := t.TempDir()
	originalWd, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		os.Chdir(originalWd)
	})
	return dir
}

// setupWorkspace initializes a workspace with one issue AX1.
func setupWorkspace(t *testing.T) string {
	dir := setupTestDir(t)
	_, err := executeCommand("init")
	require.NoError(t, err)
	_, err = executeCommand("create", "--key", "AX1", "--rule", "go:S1234",
		"--component", "main.go", "--message", "remove unused variable", "--line", "10")
	require.NoError(t, err)
	return dir
}

func TestRootCommand_Help(t *testing.T) {
	stdout, err := executeCommand("--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "diff-tracked")
}

func TestRootCommand_JSONFlag(t *testing.T) {
	_, err := executeCommand("--json", "--help")
	require.NoError(t, err)
	assert.True(t, jsonOutput)
}

func TestInitCommand_CreatesWorkspace(t *testing.T) {
	dir := setupTestDir(t)
	stdout, err := executeCommand("init", "ws")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Initialized issue workspace")

	for _, p := range []string{".issuekit/issues", ".issuekit/audit", ".issuekit/config.yaml"} {
		_, statErr := os.Stat(filepath.Join(dir, "ws", p))
		assert.NoError(t, statErr, p)
	}

	_, err = executeCommand("init", "ws")
	assert.Error(t, err)
}

func TestCommands_OutsideWorkspace(t *testing.T) {
	setupTestDir(t)
	_, err := executeCommand("list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "issuekit init")
}

func TestCreateAndShow(t *testing.T) {
	setupWorkspace(t)

	stdout, err := executeCommand("show", "AX1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Issue AX1")
	assert.Contains(t, stdout, "go:S1234")
	assert.Contains(t, stdout, "MAJOR")

	stdout, err = executeCommand("--json", "show", "AX1")
	require.NoError(t, err)
	var issue model.Issue
	require.NoError(t, json.Unmarshal([]byte(stdout), &issue))
	assert.Equal(t, "AX1", issue.Key)
	require.NotNil(t, issue.Line)
	assert.Equal(t, 10, *issue.Line)
}

func TestCreate_InvalidSeverity(t *testing.T) {
	setupWorkspace(t)
	_, err := executeCommand("create", "--rule", "r", "--severity", "HUGE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E_VALUE_INVALID")
}

func TestShow_NotFoundSuggests(t *testing.T) {
	setupWorkspace(t)
	_, err := executeCommand("show", "ZZZ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E_ISSUE_NOT_FOUND")
	assert.Contains(t, err.Error(), "issuekit list")

	_, err = executeCommand("show", "X1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Did you mean: AX1?")
}

func TestUpdate_AssignTwice(t *testing.T) {
	setupWorkspace(t)

	stdout, err := executeCommand("update", "AX1", "--assign", "emmerik", "--as", "simon")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Updated issue AX1")
	assert.Contains(t, stdout, `assignee: (none) -> "emmerik"`)
	assert.Contains(t, stdout, "by simon")

	stdout, err = executeCommand("update", "AX1", "--assign", "emmerik")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No changes.")
}

func TestUpdate_GuardedSeverity(t *testing.T) {
	setupWorkspace(t)

	_, err := executeCommand("update", "AX1", "--manual-severity", "MINOR")
	require.NoError(t, err)

	_, err = executeCommand("update", "AX1", "--severity", "MAJOR", "--assign", "someone")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E_GUARDED_FIELD: Severity can't be changed")

	stdout, err := executeCommand("--json", "show", "AX1")
	require.NoError(t, err)
	var issue model.Issue
	require.NoError(t, json.Unmarshal([]byte(stdout), &issue))
	assert.Equal(t, model.SeverityMinor, issue.Severity)
	assert.True(t, issue.ManualSeverity)
	assert.Empty(t, issue.Assignee)
}

func TestUpdate_Attributes(t *testing.T) {
	setupWorkspace(t)

	stdout, err := executeCommand("update", "AX1", "--attr", "JIRA=FOO-123", "--attr", "legacy=yes")
	require.NoError(t, err)
	assert.Contains(t, stdout, `JIRA: (none) -> "FOO-123"`)

	stdout, err = executeCommand("update", "AX1", "--unset-attr", "legacy")
	require.NoError(t, err)
	assert.Contains(t, stdout, `legacy: "yes" -> (none)`)

	_, err = executeCommand("update", "AX1", "--attr", "no-equals-sign")
	assert.Error(t, err)
	_, err = executeCommand("update", "AX1", "--attr", "bad key=v")
	assert.Error(t, err)
}

func TestUpdate_ManyFieldsJSON(t *testing.T) {
	setupWorkspace(t)

	stdout, err := executeCommand("--json", "update", "AX1",
		"--status", "RESOLVED", "--resolution", "FIXED", "--plan", "P1",
		"--effort", "2.5", "--no-line", "--message", "remove unused import", "--author", "simon")
	require.NoError(t, err)

	var res struct {
		Changed bool              `json:"changed"`
		Change  *model.FieldDiffs `json:"change"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	assert.True(t, res.Changed)
	assert.Equal(t, []string{"actionPlanKey", "author", "effortToFix", "line", "message", "resolution", "status"}, res.Change.Fields())
}

func TestUpdate_NothingToUpdate(t *testing.T) {
	setupWorkspace(t)
	_, err := executeCommand("update", "AX1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to update")
}

func TestHistory(t *testing.T) {
	setupWorkspace(t)
	_, err := executeCommand("update", "AX1", "--status", "CONFIRMED", "--as", "first")
	require.NoError(t, err)
	_, err = executeCommand("update", "AX1", "--status", "RESOLVED", "--as", "second")
	require.NoError(t, err)

	stdout, err := executeCommand("history", "AX1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "History of AX1")
	assert.Contains(t, stdout, "by first")
	assert.Contains(t, stdout, "by second")

	stdout, err = executeCommand("--json", "history", "AX1")
	require.NoError(t, err)
	var changes []*model.FieldDiffs
	require.NoError(t, json.Unmarshal([]byte(stdout), &changes))
	assert.Len(t, changes, 2)
}

func TestList(t *testing.T) {
	setupWorkspace(t)
	_, err := executeCommand("create", "--key", "BX2", "--rule", "r", "--severity", "BLOCKER")
	require.NoError(t, err)

	stdout, err := executeCommand("list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "AX1")
	assert.Contains(t, stdout, "BX2")

	stdout, err = executeCommand("list", "--severity", "BLOCKER")
	require.NoError(t, err)
	assert.Contains(t, stdout, "BX2")
	assert.NotContains(t, stdout, "AX1")

	stdout, err = executeCommand("list", "--status", "CLOSED")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No issues.")

	stdout, err = executeCommand("--json", "list", "--status", "CLOSED")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", stdout)
}

func TestAuditVerify(t *testing.T) {
	dir := setupWorkspace(t)
	_, err := executeCommand("update", "AX1", "--assign", "emmerik")
	require.NoError(t, err)

	stdout, err := executeCommand("audit", "verify")
	require.NoError(t, err)
	assert.Contains(t, stdout, "2 records, chain intact")

	stdout, err = executeCommand("audit", "log")
	require.NoError(t, err)
	assert.Contains(t, stdout, "issue_create")
	assert.Contains(t, stdout, "issue_update")

	logPath := filepath.Join(dir, ".issuekit", "audit", "audit.jsonl")
	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	tampered := bytes.Replace(data, []byte("emmerik"), []byte("mallory"), 1)
	require.NoError(t, os.WriteFile(logPath, tampered, 0644))

	stdout, err = executeCommand("audit", "verify")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E_AUDIT_CHAIN_BROKEN")
	assert.Contains(t, stdout, "chain broken at line 2")
}

func TestConfigCommands(t *testing.T) {
	setupWorkspace(t)

	stdout, err := executeCommand("config", "get", "default_login")
	require.NoError(t, err)
	assert.Contains(t, stdout, "(not set)")

	_, err = executeCommand("config", "set", "default_login", "fabrice")
	require.NoError(t, err)

	stdout, err = executeCommand("config", "get", "default_login")
	require.NoError(t, err)
	assert.Equal(t, "fabrice\n", stdout)

	stdout, err = executeCommand("config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "default_login: fabrice")
	assert.Contains(t, stdout, "logging.level: info")

	_, err = executeCommand("config", "set", "output_format", "xml")
	assert.Error(t, err)
	_, err = executeCommand("config", "get", "nope")
	assert.Error(t, err)

	stdout, err = executeCommand("update", "AX1", "--status", "CONFIRMED")
	require.NoError(t, err)
	assert.Contains(t, stdout, "by fabrice")
}

func TestDoctorCommand(t *testing.T) {
	setupWorkspace(t)
	stdout, err := executeCommand("doctor", "--strict")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Workspace is healthy.")

	require.NoError(t, os.WriteFile(filepath.Join(".issuekit", "issues", "BAD.json"), []byte("{"), 0644))
	stdout, err = executeCommand("doctor")
	require.Error(t, err)
	assert.Contains(t, stdout, "malformed issue file")
}
