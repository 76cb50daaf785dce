package application

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/regencheck/regencheck/internal/domain"
)

// verifyConcurrency bounds parallel service verifications in VerifyAll.
const verifyConcurrency = 4

// VerifyService orchestrates the verification pipeline:
// load config -> scan service -> generate into scratch dir -> compare.
type VerifyService struct {
	scanner domain.ServiceScanner
	gen     domain.Generator
	config  domain.ConfigLoader
	git     domain.GitInfo
	cache   domain.FingerprintStore
	history domain.OutcomeHistory

	// cacheMu serializes the fingerprint store's load-modify-save cycles,
	// which would otherwise lose entries under VerifyAll's parallelism.
	cacheMu sync.Mutex
}

func NewVerifyService(
	scanner domain.ServiceScanner,
	gen domain.Generator,
	config domain.ConfigLoader,
	git domain.GitInfo,
	cache domain.FingerprintStore,
	history domain.OutcomeHistory,
) *VerifyService {
	return &VerifyService{
		scanner: scanner,
		gen:     gen,
		config:  config,
		git:     git,
		cache:   cache,
		history: history,
	}
}

// Verify regenerates one service directory into an isolated scratch directory
// and compares the result byte-for-byte against the checked-in tree. The
// repository itself is never written to.
func (s *VerifyService) Verify(ctx context.Context, repoPath, service string, opts domain.VerifyOptions) (*domain.VerificationOutcome, error) {
	outcome, _, _, err := s.verifyDetailed(ctx, repoPath, service, opts)
	return outcome, err
}

// verifyDetailed additionally returns the scan and generation result so the
// proposal flow can reuse the regenerated files without a second run.
func (s *VerifyService) verifyDetailed(ctx context.Context, repoPath, service string, opts domain.VerifyOptions) (*domain.VerificationOutcome, *domain.ServiceScan, *domain.GenerationResult, error) {
	cfg, err := s.config.Load(repoPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if !cfg.HasGenerator() {
		return nil, nil, nil, fmt.Errorf("generator.command is not configured in .regencheck.yaml")
	}

	outcome := &domain.VerificationOutcome{
		Service:   service,
		Timestamp: time.Now(),
	}
	if s.git.IsGitRepo(repoPath) {
		if hash, err := s.git.CommitHash(repoPath); err == nil {
			outcome.CommitHash = hash
		}
	}

	scan, err := s.scanner.ScanService(repoPath, service, cfg)
	if err != nil {
		outcome.Status = domain.StatusFailed
		outcome.Reason = err.Error()
		s.record(repoPath, outcome)
		return outcome, nil, nil, nil
	}
	outcome.SpecPath = scan.SpecPath

	digest := domain.InputDigest(cfg, scan.SpecContent, scan.CheckedIn)
	if !opts.NoCache {
		if hit := s.cacheHit(repoPath, service, digest); hit {
			outcome.Status = domain.StatusUnchanged
			outcome.FromCache = true
			s.record(repoPath, outcome)
			return outcome, scan, nil, nil
		}
	}

	outDir, err := os.MkdirTemp("", "regencheck-*")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(outDir)

	specAbs := filepath.Join(repoPath, filepath.FromSlash(scan.SpecPath))
	result, err := s.gen.Generate(ctx, specAbs, outDir, cfg.Generator)
	if err != nil {
		outcome.Status = domain.StatusFailed
		outcome.Reason = err.Error()
		s.record(repoPath, outcome)
		return outcome, scan, result, nil
	}
	outcome.Duration = result.Duration

	changes := domain.Compare(result.Files, scan.CheckedIn)
	if len(changes) == 0 {
		outcome.Status = domain.StatusUnchanged
		if !opts.NoCache {
			s.rememberUnchanged(repoPath, service, digest, outcome.CommitHash)
		}
	} else {
		outcome.Status = domain.StatusChanged
		outcome.Changes = changes
		s.forget(repoPath, service)
		if opts.IncludeDiffs {
			outcome.Diffs = buildDiffs(changes, result.Files, scan.CheckedIn)
		}
	}

	s.record(repoPath, outcome)
	return outcome, scan, result, nil
}

// VerifyAll verifies every discovered service directory. Sibling
// verifications share no mutable state, so they run with bounded parallelism.
func (s *VerifyService) VerifyAll(ctx context.Context, repoPath string, opts domain.VerifyOptions) ([]*domain.VerificationOutcome, error) {
	services, err := s.Discover(repoPath)
	if err != nil {
		return nil, err
	}

	outcomes := make([]*domain.VerificationOutcome, len(services))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(verifyConcurrency)

	for i, service := range services {
		g.Go(func() error {
			outcome, err := s.Verify(ctx, repoPath, service, opts)
			if err != nil {
				return fmt.Errorf("verifying %s: %w", service, err)
			}
			outcomes[i] = outcome
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// Discover lists the repository's service directories.
func (s *VerifyService) Discover(repoPath string) ([]string, error) {
	cfg, err := s.config.Load(repoPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	services, err := s.scanner.Discover(repoPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("discovering service directories: %w", err)
	}
	return services, nil
}

// History returns past outcomes for one service directory.
func (s *VerifyService) History(repoPath, service string) ([]domain.OutcomeEntry, error) {
	return s.history.Load(repoPath, service)
}

func (s *VerifyService) cacheHit(repoPath, service, digest string) bool {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	fp, err := s.cache.Load(repoPath)
	if err != nil {
		return false
	}
	entry, ok := fp.Entries[service]
	return ok && entry.Digest == digest
}

func (s *VerifyService) rememberUnchanged(repoPath, service, digest, commit string) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	fp, err := s.cache.Load(repoPath)
	if err != nil {
		return
	}
	fp.Entries[service] = domain.FingerprintEntry{
		Digest:     digest,
		CommitHash: commit,
		VerifiedAt: time.Now(),
	}
	_ = s.cache.Save(fp)
}

func (s *VerifyService) forget(repoPath, service string) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	fp, err := s.cache.Load(repoPath)
	if err != nil {
		return
	}
	if _, ok := fp.Entries[service]; !ok {
		return
	}
	delete(fp.Entries, service)
	_ = s.cache.Save(fp)
}

// record appends the outcome to history. History is advisory and never
// changes the verification result.
func (s *VerifyService) record(repoPath string, outcome *domain.VerificationOutcome) {
	_ = s.history.Append(repoPath, domain.OutcomeEntry{
		Service:      outcome.Service,
		Status:       outcome.Status,
		ChangedCount: len(outcome.Changes),
		Reason:       outcome.Reason,
		CommitHash:   outcome.CommitHash,
		Timestamp:    outcome.Timestamp,
		FromCache:    outcome.FromCache,
	})
}

func buildDiffs(changes []domain.FileChange, generated, checkedIn map[string][]byte) []domain.FileDiff {
	diffs := make([]domain.FileDiff, 0, len(changes))
	for _, c := range changes {
		diffs = append(diffs, domain.FileDiff{
			Path: c.Path,
			Old:  string(checkedIn[c.Path]),
			New:  string(generated[c.Path]),
		})
	}
	return diffs
}
