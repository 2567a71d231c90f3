/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

// Package mailer delivers account email: password reset codes and address
// verification codes.
package mailer

import (
	"context"
	"errors"
)

var ErrNoRecipient = errors.New("message has no recipient")

// Message is a single email with plain text and HTML bodies
type Message struct {
	ToName    string
	ToAddress string
	Subject   string
	Text      string
	HTML      string
}

// Mailer is implemented by SendGrid and Log
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
