package proposal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/regencheck/regencheck/internal/domain"
)

// GitProposer implements domain.ProposalCreator using go-git. It materializes
// the regenerated files on a fresh branch, commits them, and restores the
// original branch so the working copy is left where it started.
type GitProposer struct{}

func New() *GitProposer {
	return &GitProposer{}
}

// Create writes the proposal branch and commit. A nil content in files marks
// a stale path to delete. The returned proposal carries the commit hash.
func (p *GitProposer) Create(repoPath string, prop domain.Proposal, files map[string][]byte, generatedRoot string) (*domain.Proposal, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return nil, fmt.Errorf("opening git repo: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("getting HEAD: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}

	branch := plumbing.NewBranchReferenceName(prop.Branch)
	if err := wt.Checkout(&git.CheckoutOptions{Branch: branch, Create: true}); err != nil {
		return nil, fmt.Errorf("creating branch %s: %w", prop.Branch, err)
	}

	for rel, content := range files {
		gitPath := filepath.ToSlash(filepath.Join(generatedRoot, rel))
		absPath := filepath.Join(repoPath, filepath.FromSlash(gitPath))

		if content == nil {
			if err := os.Remove(absPath); err != nil && !os.IsNotExist(err) {
				return nil, fmt.Errorf("removing %s: %w", gitPath, err)
			}
		} else {
			if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
				return nil, fmt.Errorf("creating directory for %s: %w", gitPath, err)
			}
			if err := os.WriteFile(absPath, content, 0644); err != nil {
				return nil, fmt.Errorf("writing %s: %w", gitPath, err)
			}
		}

		if _, err := wt.Add(gitPath); err != nil {
			return nil, fmt.Errorf("staging %s: %w", gitPath, err)
		}
	}

	hash, err := wt.Commit(prop.CommitMsg, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "regencheck",
			Email: "regencheck@localhost",
			When:  time.Now(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("committing proposal: %w", err)
	}

	// Put the worktree back where the caller left it.
	if head.Name().IsBranch() {
		if err := wt.Checkout(&git.CheckoutOptions{Branch: head.Name()}); err != nil {
			return nil, fmt.Errorf("restoring branch %s: %w", head.Name().Short(), err)
		}
	}

	result := prop
	result.CommitHash = hash.String()
	return &result, nil
}
