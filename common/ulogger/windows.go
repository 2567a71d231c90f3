/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

//go:build windows

package ulogger

import (
	"golang.org/x/sys/windows/svc/eventlog"
)

const lineEnding = "\r\n"

// windowsEID is the only event ID registered for the source. Other IDs
// produce messy entries without a message DLL.
const windowsEID = 1

type windowsSink struct {
	log *eventlog.Log
}

func newEventSink(source string) eventSink {
	_ = eventlog.InstallAsEventCreate(source, eventlog.Info|eventlog.Warning|eventlog.Error)
	l, err := eventlog.Open(source)
	if err != nil {
		return nil
	}
	return &windowsSink{log: l}
}

func (w *windowsSink) write(level, message string) {
	switch level {
	case levelWarning:
		_ = w.log.Warning(windowsEID, message)
	case levelError, levelFatal:
		_ = w.log.Error(windowsEID, message)
	default:
		_ = w.log.Info(windowsEID, message)
	}
}

func (w *windowsSink) close() {
	_ = w.log.Close()
}
