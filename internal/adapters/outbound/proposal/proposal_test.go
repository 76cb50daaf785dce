package proposal_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regencheck/regencheck/internal/adapters/outbound/proposal"
	"github.com/regencheck/regencheck/internal/domain"
)

// initRepo creates a repository with a petstore service whose generated
// client and a stale helper are already committed.
func initRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "petstore"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "petstore", "client.go"), []byte("old client\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "petstore", "stale.go"), []byte("stale\n"), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("petstore")
	require.NoError(t, err)
	_, err = wt.Commit("initial commit", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@localhost", When: time.Now()},
	})
	require.NoError(t, err)

	return dir, repo
}

func TestCreate(t *testing.T) {
	dir, repo := initRepo(t)
	origHead, err := repo.Head()
	require.NoError(t, err)

	prop := domain.Proposal{
		Service:   "petstore",
		Branch:    "regen/petstore",
		Target:    "main",
		Title:     "Regenerate Petstore client",
		CommitMsg: "Regenerate Petstore from checked-in specification",
	}
	files := map[string][]byte{
		"client.go": []byte("new client\n"),
		"models.go": []byte("new models\n"),
		"stale.go":  nil,
	}

	created, err := proposal.New().Create(dir, prop, files, "petstore")
	require.NoError(t, err)
	require.NotEmpty(t, created.CommitHash)

	branchRef, err := repo.Reference(plumbing.NewBranchReferenceName("regen/petstore"), true)
	require.NoError(t, err)
	assert.Equal(t, created.CommitHash, branchRef.Hash().String())

	commit, err := repo.CommitObject(branchRef.Hash())
	require.NoError(t, err)
	assert.Equal(t, prop.CommitMsg, commit.Message)
	assert.Equal(t, "regencheck", commit.Author.Name)

	tree, err := commit.Tree()
	require.NoError(t, err)

	file, err := tree.File("petstore/client.go")
	require.NoError(t, err)
	content, err := file.Contents()
	require.NoError(t, err)
	assert.Equal(t, "new client\n", content)

	_, err = tree.File("petstore/models.go")
	assert.NoError(t, err, "added file should be part of the proposal commit")

	_, err = tree.File("petstore/stale.go")
	assert.Error(t, err, "stale file should be removed in the proposal commit")

	// The caller's branch is restored afterwards.
	head, err := repo.Head()
	require.NoError(t, err)
	assert.Equal(t, origHead.Name(), head.Name())
}

func TestCreate_BranchAlreadyExists(t *testing.T) {
	dir, _ := initRepo(t)

	prop := domain.Proposal{Service: "petstore", Branch: "regen/petstore", CommitMsg: "regen"}
	files := map[string][]byte{"client.go": []byte("v1\n")}

	_, err := proposal.New().Create(dir, prop, files, "petstore")
	require.NoError(t, err)

	_, err = proposal.New().Create(dir, prop, files, "petstore")
	assert.Error(t, err)
}

func TestCreate_NotARepo(t *testing.T) {
	_, err := proposal.New().Create(t.TempDir(), domain.Proposal{Branch: "regen/x"}, nil, "x")
	assert.Error(t, err)
}
