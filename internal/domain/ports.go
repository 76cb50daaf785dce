package domain

import "context"

// ServiceScanner discovers service directories and collects their contents.
type ServiceScanner interface {
	Discover(repoPath string, cfg RepoConfig) ([]string, error)
	ScanService(repoPath, service string, cfg RepoConfig) (*ServiceScan, error)
}

// Generator runs the external code generator against a specification,
// emitting files into an isolated output directory.
type Generator interface {
	Generate(ctx context.Context, specPath, outDir string, cfg GeneratorConfig) (*GenerationResult, error)
}

// ConfigLoader reads repository-level configuration.
type ConfigLoader interface {
	Load(repoPath string) (RepoConfig, error)
}

// GitInfo exposes read-only source-control facts about the repository.
type GitInfo interface {
	IsGitRepo(repoPath string) bool
	CommitHash(repoPath string) (string, error)
	IsClean(repoPath string) (bool, error)
}

// ProposalCreator prepares a local change-proposal branch from regenerated files.
type ProposalCreator interface {
	Create(repoPath string, proposal Proposal, files map[string][]byte, generatedRoot string) (*Proposal, error)
}

// OutcomeHistory persists past verification outcomes.
type OutcomeHistory interface {
	Append(repoPath string, entry OutcomeEntry) error
	Load(repoPath, service string) ([]OutcomeEntry, error)
}

// FingerprintStore caches input digests of unchanged verifications.
type FingerprintStore interface {
	Load(repoPath string) (*Fingerprints, error)
	Save(fp *Fingerprints) error
	Invalidate(repoPath string) error
}
