package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/regencheck/regencheck/internal/domain"
	"gopkg.in/yaml.v3"
)

const fileName = ".regencheck.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .regencheck.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .regencheck.yaml from repoPath.
// Returns DefaultConfig if the file does not exist.
func (l *YAMLLoader) Load(repoPath string) (domain.RepoConfig, error) {
	data, err := os.ReadFile(filepath.Join(repoPath, fileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		return domain.RepoConfig{}, err
	}

	var cfg domain.RepoConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.RepoConfig{}, fmt.Errorf("parsing %s: %w", fileName, err)
	}

	if err := cfg.Validate(); err != nil {
		return domain.RepoConfig{}, fmt.Errorf("invalid %s: %w", fileName, err)
	}

	return mergeConfig(domain.DefaultConfig(), cfg), nil
}

// mergeConfig overlays explicit values on top of the defaults.
// Explicit (non-zero) values always win.
func mergeConfig(base, override domain.RepoConfig) domain.RepoConfig {
	result := base

	result.Generator = override.Generator

	if len(override.SpecFiles) > 0 {
		result.SpecFiles = override.SpecFiles
	}
	if override.GeneratedDir != "" {
		result.GeneratedDir = override.GeneratedDir
	}
	if len(override.ServiceDirs) > 0 {
		result.ServiceDirs = override.ServiceDirs
	}
	if len(override.ExcludePaths) > 0 {
		result.ExcludePaths = override.ExcludePaths
	}

	if override.Proposal.TargetBranch != "" {
		result.Proposal.TargetBranch = override.Proposal.TargetBranch
	}
	if override.Proposal.BranchPrefix != "" {
		result.Proposal.BranchPrefix = override.Proposal.BranchPrefix
	}
	if override.Proposal.TitleTemplate != "" {
		result.Proposal.TitleTemplate = override.Proposal.TitleTemplate
	}
	if override.Proposal.CommitTemplate != "" {
		result.Proposal.CommitTemplate = override.Proposal.CommitTemplate
	}

	return result
}
