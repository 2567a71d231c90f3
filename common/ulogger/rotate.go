/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package ulogger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// rotateLogs renames the log file to <logfile>-YYYYMMDD when the date changes
// and removes rotated files older than the retention period. The caller
// holds u.mu.
func (u *FileLogger) rotateLogs() error {
	if u.logfile == "" {
		return nil
	}

	today := time.Now().Format("20060102")
	if u.currentLogDate == today {
		return nil
	}

	previous := u.currentLogDate
	if u.fileHandle != nil {
		_ = u.fileHandle.Sync()
		_ = u.fileHandle.Close()
		u.fileHandle = nil
	}

	if err := os.Rename(u.logfile, fmt.Sprintf("%s-%s", u.logfile, previous)); err != nil && !os.IsNotExist(err) {
		// Keep writing to the current file rather than losing entries
		_ = u.openFile()
		u.currentLogDate = today
		return fmt.Errorf("failed to rotate log file: %w", err)
	}

	u.currentLogDate = today
	if err := u.openFile(); err != nil {
		u.logStdout = true
		return fmt.Errorf("failed to open new log file after rotating: %w", err)
	}

	if err := u.deleteOldLogs(); err != nil {
		return fmt.Errorf("failed to delete old log files: %w", err)
	}
	return nil
}

// deleteOldLogs deletes rotated log files older than retainDays
func (u *FileLogger) deleteOldLogs() error {
	if u.retainDays <= 1 {
		return nil
	}

	cutoff := time.Now().AddDate(0, 0, -u.retainDays).Format("20060102")
	dir := filepath.Dir(u.logfile)
	prefix := filepath.Base(u.logfile) + "-"

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read log directory: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		date := strings.TrimPrefix(name, prefix)
		if len(date) != 8 || date >= cutoff {
			continue
		}
		if err = os.Remove(filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("failed to delete old log file: %w", err)
		}
	}
	return nil
}
