package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/regencheck/regencheck/internal/domain"
)

const historyFile = ".regencheck/history/outcomes.json"

// FileHistory implements domain.OutcomeHistory using JSON file storage.
// Appends are read-modify-write cycles on one shared file, so they are
// serialized; sibling verifications append concurrently.
type FileHistory struct {
	mu sync.Mutex
}

func New() *FileHistory {
	return &FileHistory{}
}

func (h *FileHistory) Append(repoPath string, entry domain.OutcomeEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries, err := h.load(repoPath)
	if err != nil {
		return err
	}

	entries = append(entries, entry)

	fp := filepath.Join(repoPath, historyFile)
	if err := os.MkdirAll(filepath.Dir(fp), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(fp, data, 0644)
}

// Load returns past outcomes for one service, oldest first.
// An empty service returns everything.
func (h *FileHistory) Load(repoPath, service string) ([]domain.OutcomeEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries, err := h.load(repoPath)
	if err != nil {
		return nil, err
	}
	if service == "" {
		return entries, nil
	}

	var filtered []domain.OutcomeEntry
	for _, e := range entries {
		if e.Service == service {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

func (h *FileHistory) load(repoPath string) ([]domain.OutcomeEntry, error) {
	data, err := os.ReadFile(filepath.Join(repoPath, historyFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []domain.OutcomeEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	return entries, nil
}
