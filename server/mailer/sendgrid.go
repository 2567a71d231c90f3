/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/CardScan/CardScan/common/fields"
	"github.com/CardScan/CardScan/common/interfaces"
	"github.com/CardScan/CardScan/common/null"
)

// DefaultSendGridHost is the SendGrid v3 API
const DefaultSendGridHost = "https://api.sendgrid.com"

const sendEndpoint = "/v3/mail/send"

var _ Mailer = (*SendGrid)(nil)

type SendGrid struct {
	apiKey string
	host   string
	from   *mail.Email
	logger interfaces.Logger
}

// NewSendGrid returns a mailer that sends through the SendGrid API at host
func NewSendGrid(apiKey, host, fromName, fromAddress string, logger interfaces.Logger) (*SendGrid, error) {
	if apiKey == "" {
		return nil, errors.New("sendgrid API key is required")
	}
	if fromAddress == "" {
		return nil, errors.New("sender address is required")
	}
	if host == "" {
		host = DefaultSendGridHost
	}
	if logger == nil {
		logger = null.Logger()
	}
	return &SendGrid{
		apiKey: apiKey,
		host:   host,
		from:   mail.NewEmail(fromName, fromAddress),
		logger: logger,
	}, nil
}

// Send delivers msg. A response outside 2xx is an error.
func (s *SendGrid) Send(ctx context.Context, msg Message) error {
	if msg.ToAddress == "" {
		return ErrNoRecipient
	}

	email := mail.NewSingleEmail(s.from, msg.Subject, mail.NewEmail(msg.ToName, msg.ToAddress), msg.Text, msg.HTML)

	request := sendgrid.GetRequest(s.apiKey, sendEndpoint, s.host)
	request.Method = "POST"
	client := &sendgrid.Client{Request: request}

	response, err := client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return fmt.Errorf("sendgrid rejected message: HTTP %d: %s", response.StatusCode, response.Body)
	}

	s.logger.Debug(2401, "email sent", fields.NewFields(
		fields.NewField("subject", msg.Subject),
		fields.NewField("status", response.StatusCode)))
	return nil
}
