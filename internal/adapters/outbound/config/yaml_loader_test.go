package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/regencheck/regencheck/internal/adapters/outbound/config"
	"github.com/regencheck/regencheck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".regencheck.yaml"), []byte(content), 0o644))
	return dir
}

func TestLoad_MissingFile(t *testing.T) {
	loader := config.New()
	cfg, err := loader.Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultConfig(), cfg)
	assert.False(t, cfg.HasGenerator())
}

func TestLoad(t *testing.T) {
	dir := writeConfig(t, `
generator:
  command: ["openapi-gen", "--input", "{spec}", "--output", "{out}"]
  timeout: 2m
generated_dir: generated
exclude_paths:
  - docs
`)

	loader := config.New()
	cfg, err := loader.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"openapi-gen", "--input", "{spec}", "--output", "{out}"}, cfg.Generator.Command)
	assert.Equal(t, "2m", cfg.Generator.Timeout)
	assert.Equal(t, "generated", cfg.GeneratedDir)
	assert.Equal(t, []string{"docs"}, cfg.ExcludePaths)
}

func TestLoad_MergesDefaults(t *testing.T) {
	dir := writeConfig(t, `
generator:
  command: ["gen", "{spec}", "{out}"]
proposal:
  target_branch: develop
`)

	loader := config.New()
	cfg, err := loader.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultSpecFiles, cfg.SpecFiles)
	assert.Equal(t, "develop", cfg.Proposal.TargetBranch)
	assert.Equal(t, "regen/", cfg.Proposal.BranchPrefix)
	assert.Equal(t, "Regenerate {service} client", cfg.Proposal.TitleTemplate)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := writeConfig(t, "generator: [not a mapping")

	loader := config.New()
	_, err := loader.Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".regencheck.yaml")
}

func TestLoad_InvalidTimeout(t *testing.T) {
	dir := writeConfig(t, `
generator:
  command: ["gen"]
  timeout: soon
`)

	loader := config.New()
	_, err := loader.Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

func TestLoad_SpecFileWithPath(t *testing.T) {
	dir := writeConfig(t, `
spec_files:
  - nested/openapi.yaml
`)

	loader := config.New()
	_, err := loader.Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bare filename")
}
