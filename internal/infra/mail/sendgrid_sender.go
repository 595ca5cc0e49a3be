// Package mail delivers rendered notification emails.
package mail

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	deliverycontext "storefront/internal/delivery/context"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// sendFunc posts a message and reports the provider status code and body.
type sendFunc func(ctx context.Context, msg *sgmail.SGMailV3) (int, string, error)

type sendGridSender struct {
	from   *sgmail.Email
	send   sendFunc
	logger *slog.Logger
}

// NewSendGridSender builds a MailSender on the SendGrid v3 API.
func NewSendGridSender(apiKey, fromAddress, fromName string, logger *slog.Logger) (service.MailSender, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("sendgrid api key is empty")
	}
	if strings.TrimSpace(fromAddress) == "" {
		return nil, errors.New("mail from address is empty")
	}

	client := sendgrid.NewSendClient(apiKey)

	return &sendGridSender{
		from: sgmail.NewEmail(fromName, fromAddress),
		send: func(ctx context.Context, msg *sgmail.SGMailV3) (int, string, error) {
			resp, err := client.SendWithContext(ctx, msg)
			if err != nil {
				return 0, "", err
			}

			return resp.StatusCode, resp.Body, nil
		},
		logger: logger,
	}, nil
}

// Send delivers one message per recipient so addresses are never disclosed to each other.
// Throttling and provider outages are reported as transient errors.
func (s *sendGridSender) Send(ctx context.Context, to []string, subject, body string) error {
	if len(to) == 0 {
		return domainerrors.ErrValidationFailed.WithDetails("mail has no recipients")
	}

	msg := sgmail.NewV3Mail()
	msg.SetFrom(s.from)
	msg.Subject = subject
	for _, addr := range to {
		p := sgmail.NewPersonalization()
		p.AddTos(sgmail.NewEmail("", addr))
		msg.AddPersonalizations(p)
	}
	msg.AddContent(sgmail.NewContent("text/plain", body))

	status, respBody, err := s.send(ctx, msg)
	if err != nil {
		return errors.Wrap(domainerrors.ErrMailDelivery.WithDetails(err.Error()), "sendgrid request failed")
	}

	logger := deliverycontext.GetLoggerOrDefault(ctx, s.logger)

	switch {
	case status == http.StatusTooManyRequests || status >= http.StatusInternalServerError:
		return domainerrors.ErrMailDelivery.WithDetails(respBody)
	case status >= http.StatusBadRequest:
		logger.Error("[SendGrid] Message rejected",
			slog.Int("status", status),
			slog.String("body", respBody),
		)

		return domainerrors.ErrValidationFailed.WithDetails("sendgrid rejected message: " + respBody)
	}

	logger.Info("[SendGrid] Mail sent",
		slog.Int("status", status),
		slog.Int("recipients", len(to)),
		slog.String("subject", subject),
	)

	return nil
}
