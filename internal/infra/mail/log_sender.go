package mail

import (
	"context"
	"log/slog"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/service"
)

type logSender struct {
	logger *slog.Logger
}

// NewLogSender returns a MailSender that writes messages to the log instead of sending them.
func NewLogSender(logger *slog.Logger) service.MailSender {
	return &logSender{logger: logger}
}

func (s *logSender) Send(ctx context.Context, to []string, subject, body string) error {
	deliverycontext.GetLoggerOrDefault(ctx, s.logger).Info("[LogMail] Mail captured",
		slog.Any("to", to),
		slog.String("subject", subject),
		slog.String("body", body),
	)

	return nil
}
