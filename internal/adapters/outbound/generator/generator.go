package generator

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/regencheck/regencheck/internal/domain"
)

// ExecGenerator implements domain.Generator by running the configured
// code generator as an external process.
type ExecGenerator struct{}

func New() *ExecGenerator {
	return &ExecGenerator{}
}

// Generate invokes the generator with {spec} and {out} substituted and
// collects everything it wrote under outDir. A non-zero exit wraps
// domain.ErrGeneratorFailed; the invocation is never retried.
func (g *ExecGenerator) Generate(ctx context.Context, specPath, outDir string, cfg domain.GeneratorConfig) (*domain.GenerationResult, error) {
	if len(cfg.Command) == 0 {
		return nil, fmt.Errorf("generator command not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.EffectiveTimeout())
	defer cancel()

	argv := cfg.ExpandCommand(specPath, outDir)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	start := time.Now()
	if err := cmd.Run(); err != nil {
		output := strings.TrimSpace(buf.String())
		return &domain.GenerationResult{Output: output, Duration: time.Since(start)},
			fmt.Errorf("%w: %s: %v: %s", domain.ErrGeneratorFailed, argv[0], err, output)
	}

	files, err := collectFiles(outDir)
	if err != nil {
		return nil, fmt.Errorf("collecting generated files: %w", err)
	}

	return &domain.GenerationResult{
		Files:    files,
		Output:   strings.TrimSpace(buf.String()),
		Duration: time.Since(start),
	}, nil
}

func collectFiles(outDir string) (map[string][]byte, error) {
	files := make(map[string][]byte)
	err := filepath.WalkDir(outDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(outDir, path)
		files[filepath.ToSlash(rel)] = content
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
