package impl

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"time"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/util"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	defaultOTPTTL            = 5 * time.Minute
	defaultOTPResendCooldown = 60 * time.Second
)

// otpApplyFunc applies a verified request's payload inside the verifying transaction.
type otpApplyFunc func(ctx context.Context, repos repository.RepositoryFactory, req *entity.OTPRequest) error

// otpEngine runs the request, resend and verify steps shared by every code-confirmed flow.
// All mutations of one (user, purpose) row happen under its row lock.
type otpEngine struct {
	txManager repository.TransactionManager
	codes     service.CodeGenerator
	notifier  service.Notifier
	ttl       time.Duration
	cooldown  time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

func newOTPEngine(
	txManager repository.TransactionManager,
	codes service.CodeGenerator,
	notifier service.Notifier,
	cfg *config.Config,
	logger *slog.Logger,
) *otpEngine {
	ttl, cooldown := defaultOTPTTL, defaultOTPResendCooldown
	if cfg != nil && cfg.OTP != nil {
		if cfg.OTP.TTL > 0 {
			ttl = cfg.OTP.TTL
		}
		if cfg.OTP.ResendCooldown > 0 {
			cooldown = cfg.OTP.ResendCooldown
		}
	}

	return &otpEngine{
		txManager: txManager,
		codes:     codes,
		notifier:  notifier,
		ttl:       ttl,
		cooldown:  cooldown,
		now:       time.Now,
		logger:    logger,
	}
}

// request supersedes any pending request for (user, purpose) and mails a new code to recipient.
func (e *otpEngine) request(ctx context.Context, userID uuid.UUID, purpose entity.OTPPurpose, payload entity.OTPPayload, recipient string) error {
	code, err := e.codes.Generate()
	if err != nil {
		return errors.Wrap(err, "failed to generate verification code")
	}

	req := &entity.OTPRequest{
		UserID:    userID,
		Purpose:   purpose,
		Code:      code,
		Payload:   payload,
		CreatedAt: e.now(),
	}

	if err := e.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		return repos.OTPRepo().Upsert(ctx, req)
	}); err != nil {
		return wrapRepoError(err, "failed to store verification request")
	}

	e.sendCode(ctx, purpose, recipient, code, false)

	return nil
}

// resend issues a fresh code for the pending request, keeping its payload.
// recipientOf picks the address from the stored request.
func (e *otpEngine) resend(ctx context.Context, userID uuid.UUID, purpose entity.OTPPurpose, recipientOf func(*entity.OTPRequest) string) error {
	var (
		code      string
		recipient string
	)

	err := e.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		otpRepo := repos.OTPRepo()

		req, err := otpRepo.FindForUpdate(ctx, userID, purpose)
		if err != nil {
			return wrapRepoError(err, "failed to load pending verification")
		}

		now := e.now()
		if !req.ResendAllowedAt(now, e.cooldown) {
			wait := e.cooldown - now.Sub(req.CreatedAt)

			return domainerrors.ErrOTPResendTooSoon.WithDetails("retry in " + util.FormatDuration(wait))
		}

		code, err = e.codes.Generate()
		if err != nil {
			return errors.Wrap(err, "failed to generate verification code")
		}

		req.Code = code
		req.CreatedAt = now
		recipient = recipientOf(req)

		return otpRepo.Upsert(ctx, req)
	})
	if err != nil {
		return errors.Wrap(err, "failed to resend verification code")
	}

	e.sendCode(ctx, purpose, recipient, code, true)

	return nil
}

// verify checks code against the pending request and, on a match, runs apply and deletes the
// request in one transaction so a replay finds nothing. Checks run in the order
// not found, expired, mismatch.
func (e *otpEngine) verify(ctx context.Context, userID uuid.UUID, purpose entity.OTPPurpose, code string, apply otpApplyFunc) error {
	err := e.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		otpRepo := repos.OTPRepo()

		req, err := otpRepo.FindForUpdate(ctx, userID, purpose)
		if err != nil {
			return wrapRepoError(err, "failed to load pending verification")
		}

		if req.ExpiredAt(e.now(), e.ttl) {
			return errors.WithStack(domainerrors.ErrOTPExpired)
		}

		if subtle.ConstantTimeCompare([]byte(req.Code), []byte(code)) != 1 {
			return errors.WithStack(domainerrors.ErrOTPMismatch)
		}

		if err := apply(ctx, repos, req); err != nil {
			return err
		}

		if err := otpRepo.Delete(ctx, req.ID); err != nil {
			return wrapRepoError(err, "failed to consume verification request")
		}

		return nil
	})
	if err != nil {
		deliverycontext.GetLoggerOrDefault(ctx, e.logger).Warn("Verification failed",
			slog.String("purpose", string(purpose)),
			slog.Any("userID", userID),
			slog.Any("error", err),
		)

		return err
	}

	return nil
}

func (e *otpEngine) sendCode(ctx context.Context, purpose entity.OTPPurpose, recipient, code string, resent bool) {
	subject, body := otpMessage(purpose, code, e.ttl, resent)

	e.notifier.Enqueue(ctx, &service.MailEvent{
		Kind:    service.MailKindOTP,
		To:      []string{recipient},
		Subject: subject,
		Body:    body,
	})
}
