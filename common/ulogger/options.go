/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package ulogger

import "io"

// Option configures a FileLogger
type Option func(*FileLogger) error

// WithPrefix sets a process name or similar short identifier
func WithPrefix(prefix string) Option {
	return func(u *FileLogger) error {
		u.prefix = prefix
		return nil
	}
}

// WithLogFile sets the log file. Without one, entries go to the console.
func WithLogFile(logfile string) Option {
	return func(u *FileLogger) error {
		u.logfile = logfile
		return nil
	}
}

// WithLogStdout enables or disables console output
func WithLogStdout(logStdout bool) Option {
	return func(u *FileLogger) error {
		u.logStdout = logStdout
		return nil
	}
}

// WithWriter replaces stdout as the console destination
func WithWriter(w io.Writer) Option {
	return func(u *FileLogger) error {
		u.console = w
		return nil
	}
}

// WithWindowsEvents enables the windows event log. It is ignored elsewhere.
func WithWindowsEvents(logWindowsEvents bool) Option {
	return func(u *FileLogger) error {
		u.logWindowsEvents = logWindowsEvents
		return nil
	}
}

// WithDebug enables or disables debug entries
func WithDebug(debug bool) Option {
	return func(u *FileLogger) error {
		u.debug = debug
		return nil
	}
}

// WithRetention sets the number of days to retain rotated logs
func WithRetention(retainDays int) Option {
	return func(u *FileLogger) error {
		u.retainDays = retainDays
		return nil
	}
}
