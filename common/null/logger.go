//
// Copyright (c) 2024-2026 Tenebris Technologies Inc.
// Please see the LICENSE file for details
//

// Package null provides a logger that discards everything, for tests and
// for CLI commands that run without a log file.
package null

import (
	"github.com/CardScan/CardScan/common/interfaces"
)

type LoggerNull struct{}

func Logger() interfaces.Logger {
	return LoggerNull{}
}

func (LoggerNull) Debug(uint32, string, interfaces.Fields)   {}
func (LoggerNull) Info(uint32, string, interfaces.Fields)    {}
func (LoggerNull) Warning(uint32, string, interfaces.Fields) {}
func (LoggerNull) Error(uint32, string, interfaces.Fields)   {}
func (LoggerNull) Fatal(uint32, string, interfaces.Fields)   {}
func (LoggerNull) Debugf(uint32, string, ...any)             {}
func (LoggerNull) Infof(uint32, string, ...any)              {}
func (LoggerNull) Warningf(uint32, string, ...any)           {}
func (LoggerNull) Errorf(uint32, string, ...any)             {}
func (LoggerNull) Fatalf(uint32, string, ...any)             {}
