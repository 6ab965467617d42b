package savefile

import (
	"errors"
	"fmt"
	"os"
)

// BackupPath returns the first non-colliding backup name for path:
// <path>.bak, then <path>.bak.1, <path>.bak.2, and so on. An existing
// backup is never reused.
func BackupPath(path string) (string, error) {
	candidate := path + ".bak"
	for n := 1; ; n++ {
		_, err := os.Stat(candidate)
		if errors.Is(err, os.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to probe backup path %s: %w", candidate, err)
		}
		candidate = fmt.Sprintf("%s.bak.%d", path, n)
	}
}

// Backup writes contents to a fresh backup name next to path and
// returns the name used. The save file itself is left in place so a
// run that ends up writing nothing still leaves a usable original.
func Backup(path string, contents []byte) (string, error) {
	target, err := BackupPath(path)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(target, contents, 0644); err != nil {
		return "", fmt.Errorf("failed to back up save file: %w", err)
	}
	return target, nil
}

// RewriteResult describes how the backup-and-rewrite step finished.
type RewriteResult struct {
	// BackupPath is the backup file written before the change check.
	BackupPath string

	// Written is false when serialization matched the original bytes
	// and the save file was left untouched.
	Written bool
}

// Rewrite backs up the document's load-time contents, then writes the
// mutated tree back to its path unless serialization is byte-identical
// to the original. The backup is taken before the change check, so
// even a no-op run leaves one behind.
func (document *Document) Rewrite() (*RewriteResult, error) {
	backupPath, err := Backup(document.Path, document.original)
	if err != nil {
		return nil, err
	}
	result := &RewriteResult{BackupPath: backupPath}

	changed, contents, err := document.Changed()
	if err != nil {
		return nil, err
	}
	if !changed {
		return result, nil
	}

	if err := os.WriteFile(document.Path, contents, 0644); err != nil {
		return nil, fmt.Errorf("failed to write save file: %w", err)
	}
	result.Written = true
	return result, nil
}
