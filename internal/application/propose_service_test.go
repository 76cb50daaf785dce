package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regencheck/regencheck/internal/adapters/outbound/config"
	"github.com/regencheck/regencheck/internal/adapters/outbound/proposal"
	"github.com/regencheck/regencheck/internal/application"
	"github.com/regencheck/regencheck/internal/domain"
)

var allowingContext = domain.BuildContext{PullRequestRun: false, InternalProject: true}

func newProposalService() *application.ProposalService {
	return application.NewProposalService(newVerifyService(), proposal.New(), config.New())
}

// commitAll turns the fixture repository into a git repository with
// everything committed, so proposal branches have a base to grow from.
func commitAll(t *testing.T, repoPath string) *git.Repository {
	t.Helper()

	repo, err := git.PlainInit(repoPath, false)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(".")
	require.NoError(t, err)
	_, err = wt.Commit("initial commit", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@localhost", When: time.Now()},
	})
	require.NoError(t, err)

	return repo
}

func TestPropose_BlockedBuildContext(t *testing.T) {
	repo := newRepo(t, copyGenConfig, nil)
	svc := newProposalService()

	for _, bctx := range []domain.BuildContext{
		{PullRequestRun: true, InternalProject: true},
		{PullRequestRun: false, InternalProject: false},
		{PullRequestRun: true, InternalProject: false},
	} {
		_, _, err := svc.Propose(context.Background(), repo, "petstore", bctx, domain.ProposeOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disabled in this build context")
	}
}

func TestPropose_ForceBypassesBuildContext(t *testing.T) {
	repo := newRepo(t, copyGenConfig, nil)
	svc := newProposalService()

	blocked := domain.BuildContext{PullRequestRun: true}
	prop, outcome, err := svc.Propose(context.Background(), repo, "petstore", blocked, domain.ProposeOptions{Force: true, DryRun: true})
	require.NoError(t, err)
	require.NotNil(t, prop)
	assert.Equal(t, domain.StatusChanged, outcome.Status)
}

func TestPropose_Unchanged(t *testing.T) {
	repo := newRepo(t, copyGenConfig, map[string]string{"client.txt": specContent})
	svc := newProposalService()

	prop, outcome, err := svc.Propose(context.Background(), repo, "petstore", allowingContext, domain.ProposeOptions{})
	require.NoError(t, err)
	assert.Nil(t, prop, "nothing to propose when the tree is up to date")
	assert.Equal(t, domain.StatusUnchanged, outcome.Status)
}

func TestPropose_VerificationFailed(t *testing.T) {
	repo := newRepo(t, failGenConfig, nil)
	svc := newProposalService()

	_, outcome, err := svc.Propose(context.Background(), repo, "petstore", allowingContext, domain.ProposeOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verification failed")
	assert.Equal(t, domain.StatusFailed, outcome.Status)
}

func TestPropose_DryRun(t *testing.T) {
	repo := newRepo(t, copyGenConfig, map[string]string{"client.txt": "stale bytes\n"})
	gitRepo := commitAll(t, repo)
	svc := newProposalService()

	prop, outcome, err := svc.Propose(context.Background(), repo, "petstore", allowingContext, domain.ProposeOptions{DryRun: true})
	require.NoError(t, err)
	require.NotNil(t, prop)

	assert.True(t, prop.DryRun)
	assert.Empty(t, prop.CommitHash)
	assert.Equal(t, "regen/petstore", prop.Branch)
	assert.Equal(t, "main", prop.Target)
	assert.Equal(t, "Regenerate Petstore client", prop.Title)
	assert.Equal(t, []string{"client.txt"}, prop.Files)
	assert.Equal(t, domain.StatusChanged, outcome.Status)

	_, err = gitRepo.Reference(plumbing.NewBranchReferenceName("regen/petstore"), true)
	assert.Error(t, err, "dry run must not create the branch")
}

func TestPropose(t *testing.T) {
	repo := newRepo(t, copyGenConfig, map[string]string{
		"client.txt": "stale bytes\n",
		"stale.txt":  "no longer generated\n",
	})
	gitRepo := commitAll(t, repo)
	origHead, err := gitRepo.Head()
	require.NoError(t, err)

	svc := newProposalService()
	prop, outcome, err := svc.Propose(context.Background(), repo, "petstore", allowingContext, domain.ProposeOptions{})
	require.NoError(t, err)
	require.NotNil(t, prop)
	assert.Equal(t, domain.StatusChanged, outcome.Status)
	require.NotEmpty(t, prop.CommitHash)

	branchRef, err := gitRepo.Reference(plumbing.NewBranchReferenceName("regen/petstore"), true)
	require.NoError(t, err)
	commit, err := gitRepo.CommitObject(branchRef.Hash())
	require.NoError(t, err)
	assert.Equal(t, "Regenerate Petstore from checked-in specification", commit.Message)

	tree, err := commit.Tree()
	require.NoError(t, err)

	file, err := tree.File("petstore/client.txt")
	require.NoError(t, err)
	content, err := file.Contents()
	require.NoError(t, err)
	assert.Equal(t, specContent, content, "proposal carries the freshly generated bytes")

	_, err = tree.File("petstore/stale.txt")
	assert.Error(t, err, "stale file is removed on the proposal branch")

	head, err := gitRepo.Head()
	require.NoError(t, err)
	assert.Equal(t, origHead.Name(), head.Name(), "worktree returns to the original branch")
}

func TestHumanizeService(t *testing.T) {
	cases := map[string]string{
		"petstore":        "Petstore",
		"sdk/petstoreV2":  "Sdk Petstore V 2",
		"billing-service": "Billing Service",
		"key_vault":       "Key Vault",
	}
	for in, want := range cases {
		assert.Equal(t, want, application.HumanizeService(in), in)
	}
}
