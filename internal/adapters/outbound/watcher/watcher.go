package watcher

import (
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// DirWatcher watches a directory tree for changes via fsnotify.
type DirWatcher struct {
	w *fsnotify.Watcher
}

func New() (*DirWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &DirWatcher{w: w}, nil
}

// AddRecursive registers root and every subdirectory beneath it.
// fsnotify watches are not recursive on their own.
func (d *DirWatcher) AddRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		if entry.Name() == ".git" || entry.Name() == ".regencheck" {
			return filepath.SkipDir
		}
		return d.w.Add(path)
	})
}

func (d *DirWatcher) Events() <-chan fsnotify.Event { return d.w.Events }
func (d *DirWatcher) Errors() <-chan error          { return d.w.Errors }
func (d *DirWatcher) Close() error                  { return d.w.Close() }
