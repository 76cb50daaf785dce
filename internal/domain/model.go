package domain

import (
	"errors"
	"time"
)

// Verification statuses.
const (
	StatusUnchanged = "unchanged"
	StatusChanged   = "changed"
	StatusFailed    = "failed"
)

// Change kinds for a single generated file path.
const (
	ChangeAdded    = "added"    // generated but not checked in
	ChangeModified = "modified" // checked in, but bytes differ
	ChangeRemoved  = "removed"  // checked in, but no longer generated
)

// Sentinel errors surfaced by the verify pipeline.
var (
	ErrSpecNotFound    = errors.New("no API specification found")
	ErrGeneratorFailed = errors.New("generator invocation failed")
)

// ServiceScan holds everything the scanner collects for one service directory.
type ServiceScan struct {
	Service       string            `json:"service"`
	SpecPath      string            `json:"spec_path"`
	SpecContent   []byte            `json:"-"`
	GeneratedRoot string            `json:"generated_root"`
	CheckedIn     map[string][]byte `json:"-"`
}

// VerifyOptions tunes a single verification run.
type VerifyOptions struct {
	NoCache      bool
	IncludeDiffs bool
}

// ProposeOptions tunes the change-proposal flow.
type ProposeOptions struct {
	Force  bool
	DryRun bool
}

// FileDiff carries both sides of a diverging file for diff rendering.
type FileDiff struct {
	Path string `json:"path"`
	Old  string `json:"old,omitempty"`
	New  string `json:"new,omitempty"`
}

// GenerationResult is the file set produced by one generator run.
type GenerationResult struct {
	Files    map[string][]byte `json:"-"`
	Output   string            `json:"output,omitempty"`
	Duration time.Duration     `json:"duration"`
}

// FileChange describes one path that diverged between a fresh generation
// and the checked-in tree.
type FileChange struct {
	Path string `json:"path"`
	Kind string `json:"kind"`
}

// VerificationOutcome is the result of verifying a single service directory.
// It is produced once per invocation and never persisted by verify itself.
type VerificationOutcome struct {
	Service    string        `json:"service"`
	Status     string        `json:"status"`
	Changes    []FileChange  `json:"changes,omitempty"`
	Diffs      []FileDiff    `json:"diffs,omitempty"`
	Reason     string        `json:"reason,omitempty"`
	SpecPath   string        `json:"spec_path,omitempty"`
	CommitHash string        `json:"commit_hash,omitempty"`
	Duration   time.Duration `json:"duration,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
	FromCache  bool          `json:"from_cache,omitempty"`
}

func (o *VerificationOutcome) Unchanged() bool { return o.Status == StatusUnchanged }

// ChangedPaths returns the paths of all changes, in report order.
func (o *VerificationOutcome) ChangedPaths() []string {
	paths := make([]string, 0, len(o.Changes))
	for _, c := range o.Changes {
		paths = append(paths, c.Path)
	}
	return paths
}

// Proposal describes a locally prepared change proposal: a branch holding a
// commit with the regenerated files. Publishing it is the orchestrator's job.
type Proposal struct {
	Service    string   `json:"service"`
	Branch     string   `json:"branch"`
	Target     string   `json:"target"`
	Title      string   `json:"title"`
	CommitMsg  string   `json:"commit_msg"`
	CommitHash string   `json:"commit_hash,omitempty"`
	Files      []string `json:"files"`
	DryRun     bool     `json:"dry_run,omitempty"`
}

// OutcomeEntry is one persisted record of a past verification run.
type OutcomeEntry struct {
	Service      string    `json:"service"`
	Status       string    `json:"status"`
	ChangedCount int       `json:"changed_count,omitempty"`
	Reason       string    `json:"reason,omitempty"`
	CommitHash   string    `json:"commit_hash,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	FromCache    bool      `json:"from_cache,omitempty"`
}

// Fingerprints caches input digests of service directories whose last
// verification came back unchanged.
type Fingerprints struct {
	RepoPath string                      `json:"repo_path"`
	Entries  map[string]FingerprintEntry `json:"entries"`
}

// FingerprintEntry records the input digest of one unchanged verification.
type FingerprintEntry struct {
	Digest     string    `json:"digest"`
	CommitHash string    `json:"commit_hash,omitempty"`
	VerifiedAt time.Time `json:"verified_at"`
}
