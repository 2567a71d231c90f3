//
// Copyright (c) 2024-2026 Tenebris Technologies Inc.
// Please see the LICENSE file for details
//

//go:build !windows

package ulogger

const lineEnding = "\n"

// newEventSink returns nil because only windows has an event log
func newEventSink(_ string) eventSink {
	return nil
}
