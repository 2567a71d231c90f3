/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package mailer

import (
	"context"

	"github.com/CardScan/CardScan/common/fields"
	"github.com/CardScan/CardScan/common/interfaces"
	"github.com/CardScan/CardScan/common/null"
)

var _ Mailer = (*Log)(nil)

// Log writes messages to the server log instead of sending them. The body,
// which carries the code, is only logged at debug level.
type Log struct {
	logger interfaces.Logger
}

func NewLog(logger interfaces.Logger) *Log {
	if logger == nil {
		logger = null.Logger()
	}
	return &Log{logger: logger}
}

func (l *Log) Send(_ context.Context, msg Message) error {
	if msg.ToAddress == "" {
		return ErrNoRecipient
	}

	l.logger.Warning(2402, "email not sent, no mail service configured", fields.NewFields(
		fields.NewField("to", msg.ToAddress),
		fields.NewField("subject", msg.Subject)))
	l.logger.Debug(2403, "unsent email", fields.NewFields(
		fields.NewField("to", msg.ToAddress),
		fields.NewField("body", msg.Text)))
	return nil
}
