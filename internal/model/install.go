package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Install replaces destDir with srcDir by renaming.
//
// The swap is serialized across processes by a lock file next to destDir; a
// concurrent Install fails with ErrInstallInProgress rather than waiting.
func Install(srcDir, destDir string) error {
	if _, err := ReadManifest(srcDir); err != nil {
		return fmt.Errorf("refusing to install %s: %w", srcDir, err)
	}

	parent := filepath.Dir(destDir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return err
	}

	lockPath := destDir + ".lock"
	l := flock.New(lockPath)
	locked, err := l.TryLock()
	if err != nil {
		return fmt.Errorf("cannot acquire install lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("%w (lock: %s)", ErrInstallInProgress, lockPath)
	}
	defer func() { _ = l.Unlock() }()

	backup := destDir + ".bak"
	_ = cleanupBackup(backup)
	if _, err := os.Stat(destDir); err == nil {
		if err := os.Rename(destDir, backup); err != nil {
			return err
		}
	}
	if err := os.Rename(srcDir, destDir); err != nil {
		// rollback best-effort
		if _, stErr := os.Stat(backup); stErr == nil {
			_ = os.Rename(backup, destDir)
		}
		return err
	}
	return cleanupBackup(backup)
}
