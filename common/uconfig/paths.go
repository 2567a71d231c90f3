/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package uconfig

import (
	"fmt"
	"os"
	"path/filepath"
)

// CreateDir creates path and its parents. An existing directory is a success.
func CreateDir(path string) bool {
	return os.MkdirAll(path, 0700) == nil
}

// CreateSubDir creates dir/subDir and returns its path, or "" on failure
func CreateSubDir(dir string, subDir string) string {
	newDir := filepath.Join(dir, subDir)
	if CreateDir(newDir) {
		return newDir
	}
	return ""
}

// UserDir returns ~/<name>, creating it with owner-only permissions
func UserDir(name string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("unable to determine home directory: %w", err)
	}
	dir := filepath.Join(home, name)
	if !CreateDir(dir) {
		return "", fmt.Errorf("unable to create %s", dir)
	}
	return dir, nil
}
