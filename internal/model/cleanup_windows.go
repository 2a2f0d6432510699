//go:build windows

package model

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/windows"
)

// cleanupBackup removes the previous model directory.
//
// On Windows a process still serving the old model (or an indexer) can hold
// the weights file open; we retry for a short period and fall back to
// scheduling deletion at next reboot.
func cleanupBackup(backupDir string) error {
	if backupDir == "" {
		return nil
	}

	var lastErr error
	for i := 0; i < 15; i++ {
		if lastErr = os.RemoveAll(backupDir); lastErr == nil {
			return nil
		}
		time.Sleep(200 * time.Millisecond)
	}

	// Files must be scheduled before the directories that contain them.
	var paths []string
	_ = filepath.WalkDir(backupDir, func(path string, _ fs.DirEntry, err error) error {
		if err == nil {
			paths = append(paths, path)
		}
		return nil
	})
	for i := len(paths) - 1; i >= 0; i-- {
		p, err := windows.UTF16PtrFromString(paths[i])
		if err != nil {
			return lastErr
		}
		if err := windows.MoveFileEx(p, nil, windows.MOVEFILE_DELAY_UNTIL_REBOOT); err != nil {
			return lastErr
		}
	}
	return nil
}
