//go:build !windows

package model

import "os"

// cleanupBackup removes the previous model directory.
func cleanupBackup(backupDir string) error {
	if backupDir == "" {
		return nil
	}
	return os.RemoveAll(backupDir)
}
