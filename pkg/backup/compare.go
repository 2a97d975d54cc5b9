package backup

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"
)

// FileDiff describes a critical file that differs between the running
// system and the backup.
type FileDiff struct {
	Path   string
	Reason string
}

// compareFiles hashes each configured file below the live root and below
// backupRoot and returns the ones that do not match.
func (h *Handler) compareFiles(backupRoot string) []FileDiff {
	var diffs []FileDiff

	for _, rel := range h.cfg.CompareFiles {
		liveSum, err := fileDigest(filepath.Join(h.liveRoot, rel))
		if err != nil {
			h.log.Debug("Skipping comparison, unreadable on the running system.", "file", rel, "err", err)

			continue
		}

		backupSum, err := fileDigest(filepath.Join(backupRoot, rel))
		if err != nil {
			diffs = append(diffs, FileDiff{Path: rel, Reason: "missing on backup"})

			continue
		}

		if !bytes.Equal(liveSum, backupSum) {
			diffs = append(diffs, FileDiff{Path: rel, Reason: "content differs"})

			continue
		}

		h.log.Debug("File matches running system.", "file", rel, "blake3", fmt.Sprintf("%x", backupSum[:8]))
	}

	return diffs
}

func fileDigest(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	hasher := blake3.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return nil, fmt.Errorf("failed to hash %s: %w", path, err)
	}

	return hasher.Sum(nil), nil
}
