/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

// Package ulogger implements interfaces.Logger with a log file that rotates
// daily, optional console output, and the event log on windows.
package ulogger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/CardScan/CardScan/common/interfaces"
)

var _ interfaces.Logger = (*FileLogger)(nil)

const (
	levelDebug   = "DEBUG"
	levelInfo    = "INFO"
	levelWarning = "WARNING"
	levelError   = "ERROR"
	levelFatal   = "FATAL"
)

// eventSink is an OS specific destination in addition to file and console
type eventSink interface {
	write(level, message string)
	close()
}

type FileLogger struct {
	mu               sync.Mutex
	fileHandle       *os.File
	console          io.Writer
	sink             eventSink
	logfile          string
	logStdout        bool
	logWindowsEvents bool
	debug            bool
	prefix           string
	retainDays       int
	currentLogDate   string
}

// New creates a FileLogger with the provided options
func New(options ...Option) (*FileLogger, error) {
	u := &FileLogger{retainDays: 30, console: os.Stdout}

	for _, option := range options {
		if err := option(u); err != nil {
			return nil, err
		}
	}

	if u.logWindowsEvents {
		u.sink = newEventSink(u.prefix)
	}

	if u.logfile == "" {
		u.logStdout = true
		return u, nil
	}

	u.logfile = filepath.Clean(u.logfile)
	if err := os.MkdirAll(filepath.Dir(u.logfile), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// A log file left over from a previous day is rotated on the first write
	if info, err := os.Stat(u.logfile); err == nil {
		u.currentLogDate = info.ModTime().Format("20060102")
	} else {
		u.currentLogDate = time.Now().Format("20060102")
	}

	if err := u.openFile(); err != nil {
		u.logStdout = true
	}
	return u, nil
}

func (u *FileLogger) openFile() error {
	fh, err := os.OpenFile(u.logfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		u.fileHandle = nil
		return err
	}
	u.fileHandle = fh
	return nil
}

// Close flushes and closes the log file
func (u *FileLogger) Close() {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.sink != nil {
		u.sink.close()
	}
	if u.fileHandle != nil {
		_ = u.fileHandle.Sync()
		_ = u.fileHandle.Close()
		u.fileHandle = nil
	}
}

func (u *FileLogger) format(eid uint32, level string, message string, fields interfaces.Fields) string {
	msg := fmt.Sprintf("[%s] %04d %s", level, eid, message)
	if fields != nil {
		if text := fields.ToText(); text != "" {
			msg += ": " + text
		}
	}
	return msg
}

func (u *FileLogger) write(eid uint32, level string, message string, fields interfaces.Fields) {
	if level == levelDebug && !u.debug {
		return
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if err := u.rotateLogs(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "log rotation error: %s\n", err.Error())
	}

	body := u.format(eid, level, message, fields)
	if u.sink != nil {
		u.sink.write(level, body)
	}

	line := time.Now().Format("2006-01-02 15:04:05") + " "
	if u.prefix != "" {
		line += u.prefix + " "
	}
	line += body + lineEnding

	if u.fileHandle != nil {
		_, _ = u.fileHandle.WriteString(line)
		_ = u.fileHandle.Sync()
	}

	if u.logStdout && u.console != nil {
		_, _ = io.WriteString(u.console, line)
	}
}

func (u *FileLogger) Debug(eid uint32, message string, fields interfaces.Fields) {
	u.write(eid, levelDebug, message, fields)
}

func (u *FileLogger) Info(eid uint32, message string, fields interfaces.Fields) {
	u.write(eid, levelInfo, message, fields)
}

func (u *FileLogger) Warning(eid uint32, message string, fields interfaces.Fields) {
	u.write(eid, levelWarning, message, fields)
}

func (u *FileLogger) Error(eid uint32, message string, fields interfaces.Fields) {
	u.write(eid, levelError, message, fields)
}

func (u *FileLogger) Fatal(eid uint32, message string, fields interfaces.Fields) {
	u.write(eid, levelFatal, message, fields)
}

func (u *FileLogger) Debugf(eid uint32, format string, v ...any) {
	u.write(eid, levelDebug, fmt.Sprintf(format, v...), nil)
}

func (u *FileLogger) Infof(eid uint32, format string, v ...any) {
	u.write(eid, levelInfo, fmt.Sprintf(format, v...), nil)
}

func (u *FileLogger) Warningf(eid uint32, format string, v ...any) {
	u.write(eid, levelWarning, fmt.Sprintf(format, v...), nil)
}

func (u *FileLogger) Errorf(eid uint32, format string, v ...any) {
	u.write(eid, levelError, fmt.Sprintf(format, v...), nil)
}

func (u *FileLogger) Fatalf(eid uint32, format string, v ...any) {
	u.write(eid, levelFatal, fmt.Sprintf(format, v...), nil)
}
