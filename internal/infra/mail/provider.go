package mail

import (
	"log/slog"

	"storefront/config"
	"storefront/internal/domain/constants"
	"storefront/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// SenderParams holds dependencies for the MailSender, injected by Fx
type SenderParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// NewMailSender picks the sender named by mail.provider; unset means log.
func NewMailSender(params SenderParams) (service.MailSender, error) {
	cfg := params.Config.Mail
	if cfg == nil || cfg.Provider == "" || cfg.Provider == constants.MailProviderLog {
		params.Logger.Info("Using log mail sender")

		return NewLogSender(params.Logger), nil
	}

	switch cfg.Provider {
	case constants.MailProviderSendGrid:
		params.Logger.Info("Using SendGrid mail sender", slog.String("from", cfg.FromAddress))

		return NewSendGridSender(cfg.SendGridAPIKey, cfg.FromAddress, cfg.FromName, params.Logger)
	default:
		return nil, errors.Errorf("unknown mail provider: %s", cfg.Provider)
	}
}
