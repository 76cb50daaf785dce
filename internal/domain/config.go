package domain

import (
	"fmt"
	"strings"
	"time"
)

// Command placeholders substituted at generator invocation time.
const (
	PlaceholderSpec = "{spec}"
	PlaceholderOut  = "{out}"
)

const defaultTimeout = 5 * time.Minute

// DefaultSpecFiles lists the specification filenames recognized when a
// repository does not configure its own.
var DefaultSpecFiles = []string{
	"openapi.yaml",
	"openapi.json",
	"swagger.json",
	"apispec.yaml",
}

// RepoConfig holds repository-level configuration loaded from .regencheck.yaml.
type RepoConfig struct {
	Generator    GeneratorConfig `yaml:"generator"      json:"generator"`
	SpecFiles    []string        `yaml:"spec_files"     json:"spec_files,omitempty"`
	GeneratedDir string          `yaml:"generated_dir"  json:"generated_dir,omitempty"`
	ServiceDirs  []string        `yaml:"service_dirs"   json:"service_dirs,omitempty"`
	ExcludePaths []string        `yaml:"exclude_paths"  json:"exclude_paths,omitempty"`
	Proposal     ProposalConfig  `yaml:"proposal"       json:"proposal,omitempty"`
}

// GeneratorConfig describes how to invoke the external code generator.
// Command tokens may reference {spec} and {out}; both are substituted with
// absolute paths before the process starts.
type GeneratorConfig struct {
	Command []string `yaml:"command" json:"command"`
	Timeout string   `yaml:"timeout" json:"timeout,omitempty"`
}

// ProposalConfig tunes how change proposals are prepared.
type ProposalConfig struct {
	TargetBranch   string `yaml:"target_branch"   json:"target_branch,omitempty"`
	BranchPrefix   string `yaml:"branch_prefix"   json:"branch_prefix,omitempty"`
	TitleTemplate  string `yaml:"title_template"  json:"title_template,omitempty"`
	CommitTemplate string `yaml:"commit_template" json:"commit_template,omitempty"`
}

// DefaultConfig returns the configuration used when .regencheck.yaml is absent.
// The generator command has no sensible default and stays empty.
func DefaultConfig() RepoConfig {
	return RepoConfig{
		SpecFiles: append([]string(nil), DefaultSpecFiles...),
		Proposal: ProposalConfig{
			TargetBranch:   "main",
			BranchPrefix:   "regen/",
			TitleTemplate:  "Regenerate {service} client",
			CommitTemplate: "Regenerate {service} from checked-in specification",
		},
	}
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c RepoConfig) Validate() error {
	for i, tok := range c.Generator.Command {
		if strings.TrimSpace(tok) == "" {
			return fmt.Errorf("generator.command[%d] must not be blank", i)
		}
	}

	if c.Generator.Timeout != "" {
		if _, err := time.ParseDuration(c.Generator.Timeout); err != nil {
			return fmt.Errorf("generator.timeout %q is not a duration: %w", c.Generator.Timeout, err)
		}
	}

	for i, sf := range c.SpecFiles {
		if strings.ContainsAny(sf, "/\\") {
			return fmt.Errorf("spec_files[%d] %q must be a bare filename", i, sf)
		}
	}

	if strings.HasPrefix(c.GeneratedDir, "/") || strings.HasPrefix(c.GeneratedDir, "..") {
		return fmt.Errorf("generated_dir %q must be relative to the service directory", c.GeneratedDir)
	}

	if strings.ContainsAny(c.Proposal.BranchPrefix, " ~^:?*[") {
		return fmt.Errorf("proposal.branch_prefix %q contains characters invalid in a branch name", c.Proposal.BranchPrefix)
	}

	return nil
}

// HasGenerator reports whether a generator command is configured.
func (c RepoConfig) HasGenerator() bool { return len(c.Generator.Command) > 0 }

// EffectiveSpecFiles returns the configured spec filenames or the defaults.
func (c RepoConfig) EffectiveSpecFiles() []string {
	if len(c.SpecFiles) > 0 {
		return c.SpecFiles
	}
	return DefaultSpecFiles
}

// EffectiveTimeout returns the configured generator timeout or the default.
func (g GeneratorConfig) EffectiveTimeout() time.Duration {
	if g.Timeout == "" {
		return defaultTimeout
	}
	d, err := time.ParseDuration(g.Timeout)
	if err != nil {
		return defaultTimeout
	}
	return d
}

// ExpandCommand substitutes the {spec} and {out} placeholders into the
// generator command tokens.
func (g GeneratorConfig) ExpandCommand(specPath, outDir string) []string {
	expanded := make([]string, len(g.Command))
	for i, tok := range g.Command {
		tok = strings.ReplaceAll(tok, PlaceholderSpec, specPath)
		tok = strings.ReplaceAll(tok, PlaceholderOut, outDir)
		expanded[i] = tok
	}
	return expanded
}

// BranchFor derives the proposal branch name for a service directory.
func (p ProposalConfig) BranchFor(service string) string {
	prefix := p.BranchPrefix
	if prefix == "" {
		prefix = "regen/"
	}
	return prefix + strings.ReplaceAll(service, "/", "-")
}

// RenderTitle expands the title template for a humanized service name.
func (p ProposalConfig) RenderTitle(serviceTitle string) string {
	tmpl := p.TitleTemplate
	if tmpl == "" {
		tmpl = "Regenerate {service} client"
	}
	return strings.ReplaceAll(tmpl, "{service}", serviceTitle)
}

// RenderCommitMessage expands the commit template for a humanized service name.
func (p ProposalConfig) RenderCommitMessage(serviceTitle string) string {
	tmpl := p.CommitTemplate
	if tmpl == "" {
		tmpl = "Regenerate {service} from checked-in specification"
	}
	return strings.ReplaceAll(tmpl, "{service}", serviceTitle)
}
