package application

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/fatih/camelcase"

	"github.com/regencheck/regencheck/internal/domain"
)

// ProposalService turns a drifted verification into a local change-proposal
// branch. Publishing the branch is owned by the surrounding automation.
type ProposalService struct {
	verify   *VerifyService
	proposer domain.ProposalCreator
	config   domain.ConfigLoader
}

func NewProposalService(verify *VerifyService, proposer domain.ProposalCreator, config domain.ConfigLoader) *ProposalService {
	return &ProposalService{verify: verify, proposer: proposer, config: config}
}

// Propose verifies the service directory and, when it drifted and the build
// context permits, commits the regenerated files onto a proposal branch.
// A nil proposal with an unchanged outcome means there was nothing to do.
func (s *ProposalService) Propose(ctx context.Context, repoPath, service string, bctx domain.BuildContext, opts domain.ProposeOptions) (*domain.Proposal, *domain.VerificationOutcome, error) {
	if !opts.Force && !bctx.AllowsProposal() {
		return nil, nil, fmt.Errorf("change proposals are disabled in this build context (pull-request validation run or non-internal project)")
	}

	cfg, err := s.config.Load(repoPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	// Proposals must reflect a fresh generation, never a cache hit.
	outcome, scan, result, err := s.verify.verifyDetailed(ctx, repoPath, service, domain.VerifyOptions{NoCache: true})
	if err != nil {
		return nil, nil, err
	}

	switch outcome.Status {
	case domain.StatusFailed:
		return nil, outcome, fmt.Errorf("verification failed for %s: %s", service, outcome.Reason)
	case domain.StatusUnchanged:
		return nil, outcome, nil
	}

	title := HumanizeService(service)
	prop := domain.Proposal{
		Service:   service,
		Branch:    cfg.Proposal.BranchFor(service),
		Target:    cfg.Proposal.TargetBranch,
		Title:     cfg.Proposal.RenderTitle(title),
		CommitMsg: cfg.Proposal.RenderCommitMessage(title),
		Files:     outcome.ChangedPaths(),
		DryRun:    opts.DryRun,
	}

	if opts.DryRun {
		return &prop, outcome, nil
	}

	files := make(map[string][]byte, len(outcome.Changes))
	for _, c := range outcome.Changes {
		if c.Kind == domain.ChangeRemoved {
			files[c.Path] = nil // stale path, delete on the proposal branch
			continue
		}
		files[c.Path] = result.Files[c.Path]
	}

	created, err := s.proposer.Create(repoPath, prop, files, scan.GeneratedRoot)
	if err != nil {
		return nil, outcome, fmt.Errorf("creating proposal: %w", err)
	}

	return created, outcome, nil
}

// HumanizeService turns a service directory path into a readable name:
// "sdk/keyVault" becomes "Sdk Key Vault".
func HumanizeService(service string) string {
	var words []string
	for _, segment := range strings.FieldsFunc(service, func(r rune) bool {
		return r == '/' || r == '-' || r == '_' || r == '.'
	}) {
		words = append(words, camelcase.Split(segment)...)
	}

	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
