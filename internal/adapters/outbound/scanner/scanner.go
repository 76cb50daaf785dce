package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/regencheck/regencheck/internal/domain"
)

var skipDirs = map[string]bool{
	"vendor":       true,
	"node_modules": true,
	".git":         true,
	".regencheck":  true,
	"dist":         true,
	"bin":          true,
}

// ServiceScanner implements domain.ServiceScanner by walking the filesystem.
type ServiceScanner struct{}

func New() *ServiceScanner {
	return &ServiceScanner{}
}

// Discover returns every service directory in the repository, sorted.
// When service_dirs is configured those are used verbatim; otherwise any
// directory containing a recognized spec filename counts as a service.
func (s *ServiceScanner) Discover(repoPath string, cfg domain.RepoConfig) ([]string, error) {
	absPath, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}

	if len(cfg.ServiceDirs) > 0 {
		for _, dir := range cfg.ServiceDirs {
			info, err := os.Stat(filepath.Join(absPath, dir))
			if err != nil || !info.IsDir() {
				return nil, fmt.Errorf("configured service directory %q not found under %s", dir, repoPath)
			}
		}
		dirs := append([]string(nil), cfg.ServiceDirs...)
		sort.Strings(dirs)
		return dirs, nil
	}

	specNames := make(map[string]bool)
	for _, name := range cfg.EffectiveSpecFiles() {
		specNames[name] = true
	}

	found := make(map[string]bool)
	err = filepath.WalkDir(absPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		relPath, _ := filepath.Rel(absPath, path)
		if d.IsDir() {
			if skipDirs[d.Name()] || isExcluded(relPath, cfg.ExcludePaths) {
				return filepath.SkipDir
			}
			return nil
		}
		if specNames[d.Name()] {
			dir := filepath.ToSlash(filepath.Dir(relPath))
			if !isExcluded(dir, cfg.ExcludePaths) {
				found[dir] = true
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dirs := make([]string, 0, len(found))
	for dir := range found {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs, nil
}

// ScanService locates the API specification for one service directory and
// collects every checked-in file under its generated root.
func (s *ServiceScanner) ScanService(repoPath, service string, cfg domain.RepoConfig) (*domain.ServiceScan, error) {
	absPath, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}

	serviceAbs := filepath.Join(absPath, filepath.FromSlash(service))
	info, err := os.Stat(serviceAbs)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("service directory %q not found under %s", service, repoPath)
	}

	specRel, err := locateSpec(serviceAbs, cfg.EffectiveSpecFiles())
	if err != nil {
		return nil, fmt.Errorf("%w under %q", err, service)
	}

	specContent, err := os.ReadFile(filepath.Join(serviceAbs, specRel))
	if err != nil {
		return nil, fmt.Errorf("reading specification: %w", err)
	}

	scan := &domain.ServiceScan{
		Service:       service,
		SpecPath:      filepath.ToSlash(filepath.Join(service, specRel)),
		SpecContent:   specContent,
		GeneratedRoot: filepath.ToSlash(filepath.Join(service, cfg.GeneratedDir)),
		CheckedIn:     make(map[string][]byte),
	}

	genRootAbs := filepath.Join(absPath, filepath.FromSlash(scan.GeneratedRoot))
	if _, err := os.Stat(genRootAbs); os.IsNotExist(err) {
		// Nothing checked in yet: everything generated will show up as added.
		return scan, nil
	}

	specAbs := filepath.Join(serviceAbs, specRel)
	err = filepath.WalkDir(genRootAbs, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if path == specAbs {
			return nil // the spec is input, not generated output
		}
		relRepo, _ := filepath.Rel(absPath, path)
		if isExcluded(filepath.ToSlash(relRepo), cfg.ExcludePaths) {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		relGen, _ := filepath.Rel(genRootAbs, path)
		scan.CheckedIn[filepath.ToSlash(relGen)] = content
		return nil
	})
	if err != nil {
		return nil, err
	}

	return scan, nil
}

// locateSpec finds the first recognized spec filename under serviceAbs,
// preferring direct children over nested matches.
func locateSpec(serviceAbs string, specFiles []string) (string, error) {
	for _, name := range specFiles {
		if info, err := os.Stat(filepath.Join(serviceAbs, name)); err == nil && !info.IsDir() {
			return name, nil
		}
	}

	specNames := make(map[string]bool, len(specFiles))
	for _, name := range specFiles {
		specNames[name] = true
	}

	var found string
	err := filepath.WalkDir(serviceAbs, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if specNames[d.Name()] {
			found, _ = filepath.Rel(serviceAbs, path)
			found = filepath.ToSlash(found)
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", domain.ErrSpecNotFound
	}
	return found, nil
}

func isExcluded(relPath string, excludes []string) bool {
	relPath = filepath.ToSlash(relPath)
	for _, ex := range excludes {
		ex = strings.TrimSuffix(filepath.ToSlash(ex), "/")
		if relPath == ex || strings.HasPrefix(relPath, ex+"/") {
			return true
		}
	}
	return false
}
