package domain

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// Compare diffs a fresh generation against the checked-in file set,
// byte-for-byte. Paths are relative to the service's generated root.
// A path missing on either side is a change, never an error.
func Compare(generated, checkedIn map[string][]byte) []FileChange {
	var changes []FileChange

	for path, content := range generated {
		existing, ok := checkedIn[path]
		switch {
		case !ok:
			changes = append(changes, FileChange{Path: path, Kind: ChangeAdded})
		case !bytes.Equal(content, existing):
			changes = append(changes, FileChange{Path: path, Kind: ChangeModified})
		}
	}

	for path := range checkedIn {
		if _, ok := generated[path]; !ok {
			changes = append(changes, FileChange{Path: path, Kind: ChangeRemoved})
		}
	}

	sort.Slice(changes, func(i, j int) bool {
		return changes[i].Path < changes[j].Path
	})

	return changes
}

// InputDigest hashes everything that determines a verification result: the
// generator identity from the config, the specification, and all checked-in
// files. Two scans with identical inputs always produce the same digest, so an
// unchanged verification can be replayed without rerunning the generator.
// Switching the generator command, generated_dir, or spec_files changes the
// digest and misses the cache. The timeout is excluded: it bounds the run but
// never alters the generated bytes.
func InputDigest(cfg RepoConfig, specContent []byte, checkedIn map[string][]byte) string {
	paths := make([]string, 0, len(checkedIn))
	for p := range checkedIn {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	h := sha256.New()
	for _, tok := range cfg.Generator.Command {
		h.Write([]byte(tok))
		h.Write([]byte{0})
	}
	h.Write([]byte(cfg.GeneratedDir))
	h.Write([]byte{0})
	for _, name := range cfg.EffectiveSpecFiles() {
		h.Write([]byte(name))
		h.Write([]byte{0})
	}
	h.Write(specContent)
	for _, p := range paths {
		h.Write([]byte{0})
		h.Write([]byte(p))
		h.Write([]byte{0})
		h.Write(checkedIn[p])
	}
	return hex.EncodeToString(h.Sum(nil))
}
