package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "storefront/internal/delivery/context"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type mailDeliveryService struct {
	sender service.MailSender
	pusher service.NotificationService
	logger *slog.Logger
}

// MailDeliveryServiceParams holds dependencies for MailDeliveryService, injected by Fx.
type MailDeliveryServiceParams struct {
	fx.In

	Sender service.MailSender
	Pusher service.NotificationService
	Logger *slog.Logger
}

// NewMailDeliveryService creates the handler that turns queued mail events into sent mail.
func NewMailDeliveryService(params MailDeliveryServiceParams) service.MailEventHandler {
	return &mailDeliveryService{
		sender: params.Sender,
		pusher: params.Pusher,
		logger: params.Logger,
	}
}

// HandleMailEvent sends the mail and, when present, the accompanying topic push.
// Only a failed mail send is reported; push failures are logged.
func (s *mailDeliveryService) HandleMailEvent(ctx context.Context, event *service.MailEvent) error {
	logger := deliverycontext.GetLoggerOrDefault(ctx, s.logger).With(
		slog.String("eventID", event.EventID),
		slog.String("kind", event.Kind),
	)

	if len(event.To) == 0 && event.Push == nil {
		return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("mail event has no recipients"))
	}

	if len(event.To) > 0 {
		if strings.TrimSpace(event.Subject) == "" {
			return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("mail event has no subject"))
		}

		if err := s.sender.Send(ctx, event.To, event.Subject, event.Body); err != nil {
			logger.Warn("Mail delivery failed", slog.Any("error", err))

			var appErr domainerrors.AppError
			if errors.As(err, &appErr) {
				return err
			}

			return errors.Wrap(domainerrors.ErrMailDelivery.WithDetails(err.Error()), "send mail")
		}

		logger.Info("Mail delivered", slog.Int("recipients", len(event.To)))
	}

	if event.Push != nil && event.Push.Topic != "" {
		if err := s.pusher.SendTopicNotification(ctx, event.Push.Topic, event.Push.Title, event.Push.Body, event.Push.Data); err != nil {
			logger.Warn("Topic push failed", slog.String("topic", event.Push.Topic), slog.Any("error", err))
		}
	}

	return nil
}
