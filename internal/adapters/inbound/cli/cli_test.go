package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regencheck/regencheck/internal/adapters/inbound/cli"
	"github.com/regencheck/regencheck/internal/domain"
)

const copyGenConfig = `
generator:
  command: ["sh", "-c", "cp \"$1\" \"$2/client.txt\"", "fakegen", "{spec}", "{out}"]
`

const specContent = "openapi: 3.0.0\ninfo:\n  title: Petstore\n  version: 1.0.0\npaths: {}\n"

// newRepo lays out a repository with one petstore service directory whose
// checked-in client matches (or diverges from) a fresh generation.
func newRepo(t *testing.T, clientContent string) string {
	t.Helper()
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".regencheck.yaml"), []byte(copyGenConfig), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "petstore"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "petstore", "openapi.yaml"), []byte(specContent), 0o644))
	if clientContent != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "petstore", "client.txt"), []byte(clientContent), 0o644))
	}

	return dir
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCmdForTest()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "regencheck")
}

func TestVerifyCommand_NoService(t *testing.T) {
	_, err := runCommand(t, "verify")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--service_directory")
}

func TestVerifyCommand_Unchanged(t *testing.T) {
	repo := newRepo(t, specContent)

	out, err := runCommand(t, "verify", "--service_directory=petstore", "--path", repo)
	require.NoError(t, err)
	assert.Contains(t, out, "UNCHANGED")
}

func TestVerifyCommand_PositionalService(t *testing.T) {
	repo := newRepo(t, specContent)

	_, err := runCommand(t, "verify", "petstore", "--path", repo)
	require.NoError(t, err)
}

func TestVerifyCommand_Changed(t *testing.T) {
	repo := newRepo(t, "stale bytes\n")

	out, err := runCommand(t, "verify", "--service_directory=petstore", "--path", repo)
	require.Error(t, err, "drift must exit non-zero")
	assert.Contains(t, err.Error(), "differs from the checked-in tree")
	assert.Contains(t, out, "CHANGED")
	assert.Contains(t, out, "client.txt")
}

func TestVerifyCommand_JSON(t *testing.T) {
	repo := newRepo(t, specContent)

	out, err := runCommand(t, "verify", "--service_directory=petstore", "--path", repo, "--json")
	require.NoError(t, err)

	var outcome domain.VerificationOutcome
	require.NoError(t, json.Unmarshal([]byte(out), &outcome))
	assert.Equal(t, domain.StatusUnchanged, outcome.Status)
	assert.Equal(t, "petstore", outcome.Service)
}

func TestVerifyCommand_All(t *testing.T) {
	repo := newRepo(t, specContent)

	out, err := runCommand(t, "verify", "--all", "--path", repo)
	require.NoError(t, err)
	assert.Contains(t, out, "1 unchanged")
}

func TestVerifyCommand_AllWithDrift(t *testing.T) {
	repo := newRepo(t, "stale bytes\n")

	_, err := runCommand(t, "verify", "--all", "--path", repo)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 service directories drifted or failed")
}

func TestListCommand(t *testing.T) {
	repo := newRepo(t, specContent)

	out, err := runCommand(t, "list", "--path", repo, "--json")
	require.NoError(t, err)

	var services []string
	require.NoError(t, json.Unmarshal([]byte(out), &services))
	assert.Equal(t, []string{"petstore"}, services)
}

func TestProposeCommand_BlockedOnPullRequestRun(t *testing.T) {
	t.Setenv("BUILD_REASON", "PullRequest")
	t.Setenv("SYSTEM_TEAMPROJECT", "internal")
	repo := newRepo(t, "stale bytes\n")

	_, err := runCommand(t, "propose", "--service_directory=petstore", "--path", repo)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disabled in this build context")
}

func TestProposeCommand_DryRun(t *testing.T) {
	t.Setenv("BUILD_REASON", "Schedule")
	t.Setenv("SYSTEM_TEAMPROJECT", "internal")
	repo := newRepo(t, "stale bytes\n")

	out, err := runCommand(t, "propose", "--service_directory=petstore", "--path", repo, "--dry-run", "--json")
	require.NoError(t, err)

	var prop domain.Proposal
	require.NoError(t, json.Unmarshal([]byte(out), &prop))
	assert.Equal(t, "regen/petstore", prop.Branch)
	assert.True(t, prop.DryRun)
	assert.Equal(t, []string{"client.txt"}, prop.Files)
}

func TestProposeCommand_NothingToPropose(t *testing.T) {
	t.Setenv("BUILD_REASON", "Schedule")
	t.Setenv("SYSTEM_TEAMPROJECT", "internal")
	repo := newRepo(t, specContent)

	out, err := runCommand(t, "propose", "--service_directory=petstore", "--path", repo)
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to propose")
}

func TestHistoryCommand(t *testing.T) {
	repo := newRepo(t, specContent)

	_, err := runCommand(t, "verify", "--service_directory=petstore", "--path", repo)
	require.NoError(t, err)

	out, err := runCommand(t, "history", "petstore", "--path", repo, "--json")
	require.NoError(t, err)

	var entries []domain.OutcomeEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, domain.StatusUnchanged, entries[0].Status)
}

func TestHistoryCommand_Empty(t *testing.T) {
	repo := newRepo(t, specContent)

	out, err := runCommand(t, "history", "--path", repo)
	require.NoError(t, err)
	assert.Contains(t, out, "No verification history found.")
}
