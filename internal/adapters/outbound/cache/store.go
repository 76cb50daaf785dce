package cache

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/regencheck/regencheck/internal/domain"
)

// Store is a file-based implementation of domain.FingerprintStore.
type Store struct{}

// New creates a new file-based fingerprint store.
func New() *Store {
	return &Store{}
}

// Load reads the repository's fingerprint cache. Returns an empty cache if
// none exists yet.
func (s *Store) Load(repoPath string) (*domain.Fingerprints, error) {
	data, err := os.ReadFile(cachePath(repoPath))
	if err != nil {
		if os.IsNotExist(err) {
			return &domain.Fingerprints{
				RepoPath: repoPath,
				Entries:  make(map[string]domain.FingerprintEntry),
			}, nil
		}
		return nil, err
	}

	var fp domain.Fingerprints
	if err := json.Unmarshal(data, &fp); err != nil {
		return nil, err
	}
	if fp.Entries == nil {
		fp.Entries = make(map[string]domain.FingerprintEntry)
	}
	return &fp, nil
}

// Save writes the fingerprint cache to disk, creating directories as needed.
func (s *Store) Save(fp *domain.Fingerprints) error {
	dir := cacheDir(fp.RepoPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(fp, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(cachePath(fp.RepoPath), data, 0644)
}

// Invalidate removes the fingerprint cache for the given repository.
func (s *Store) Invalidate(repoPath string) error {
	if err := os.Remove(cachePath(repoPath)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func cacheDir(repoPath string) string {
	return filepath.Join(repoPath, ".regencheck", "cache")
}

func cachePath(repoPath string) string {
	return filepath.Join(repoPath, ".regencheck", "cache", "fingerprints.json")
}
