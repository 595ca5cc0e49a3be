package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// accountService implements the AccountUsecase interface on top of the shared OTP engine.
type accountService struct {
	userRepo         repository.UserRepository
	authRepo         repository.AuthRepository
	refreshTokenRepo repository.RefreshTokenRepository
	hasher           service.PasswordHasher
	tokenService     service.TokenService
	notifier         service.Notifier
	otp              *otpEngine
	now              func() time.Time
	logger           *slog.Logger
}

// AccountServiceParams holds dependencies for AccountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager        repository.TransactionManager
	UserRepo         repository.UserRepository
	AuthRepo         repository.AuthRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	Hasher           service.PasswordHasher
	TokenService     service.TokenService
	CodeGenerator    service.CodeGenerator
	Notifier         service.Notifier
	Config           *config.Config
	Logger           *slog.Logger
}

// NewAccountService creates a new account service instance.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		userRepo:         params.UserRepo,
		authRepo:         params.AuthRepo,
		refreshTokenRepo: params.RefreshTokenRepo,
		hasher:           params.Hasher,
		tokenService:     params.TokenService,
		notifier:         params.Notifier,
		otp:              newOTPEngine(params.TxManager, params.CodeGenerator, params.Notifier, params.Config, params.Logger),
		now:              time.Now,
		logger:           params.Logger,
	}
}

func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetProfile returns the user's profile.
func (srv *accountService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, wrapRepoError(err, "failed to get profile")
	}

	return user, nil
}

// RequestPasswordReset stores the hashed new password and mails a reset code.
func (srv *accountService) RequestPasswordReset(ctx context.Context, input *usecase.PasswordResetInput) error {
	if err := validateNewPassword(srv.hasher, input.NewPassword, input.VerifyPassword); err != nil {
		return err
	}

	user, err := srv.userRepo.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		return wrapRepoError(err, "failed to find user for password reset")
	}

	hash, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return errors.Wrap(err, "failed to hash new password")
	}

	srv.log(ctx).Info("Password reset requested", slog.Any("userID", user.ID))

	return srv.otp.request(ctx, user.ID, entity.OTPPurposeForgotPassword, entity.OTPPayload{PasswordHash: hash}, user.Email)
}

// ResendPasswordResetOTP mails a fresh code for a pending reset.
func (srv *accountService) ResendPasswordResetOTP(ctx context.Context, email string) error {
	user, err := srv.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return wrapRepoError(err, "failed to find user for password reset")
	}

	return srv.otp.resend(ctx, user.ID, entity.OTPPurposeForgotPassword, func(*entity.OTPRequest) string { return user.Email })
}

// ConfirmPasswordReset applies the pending password, verifies the account, ends every
// existing session and signs the user in again.
func (srv *accountService) ConfirmPasswordReset(ctx context.Context, input *usecase.ConfirmPasswordResetInput) (*usecase.LoginOutput, error) {
	user, err := srv.userRepo.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		return nil, wrapRepoError(err, "failed to find user for password reset")
	}

	err = srv.otp.verify(ctx, user.ID, entity.OTPPurposeForgotPassword, input.Code,
		func(ctx context.Context, repos repository.RepositoryFactory, req *entity.OTPRequest) error {
			if err := applyPassword(ctx, repos, user.ID, req.Payload.PasswordHash); err != nil {
				return err
			}

			if !user.IsVerified {
				user.IsVerified = true
				if err := repos.UserRepo().Update(ctx, user); err != nil {
					return wrapRepoError(err, "failed to mark user verified")
				}
			}

			return nil
		})
	if err != nil {
		return nil, errors.Wrap(err, "password reset failed")
	}

	subject, body := changeConfirmationMessage(user, "password")
	enqueueMail(ctx, srv.notifier, service.MailKindConfirmation, user.Email, subject, body)

	return issueSession(ctx, srv.tokenService, srv.refreshTokenRepo, srv.now, user)
}

// RequestPasswordChange starts a password change for a signed-in user.
func (srv *accountService) RequestPasswordChange(ctx context.Context, userID uuid.UUID, input *usecase.PasswordChangeInput) error {
	if err := validateNewPassword(srv.hasher, input.NewPassword, input.VerifyPassword); err != nil {
		return err
	}

	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return wrapRepoError(err, "failed to find user for password change")
	}

	hash, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return errors.Wrap(err, "failed to hash new password")
	}

	return srv.otp.request(ctx, user.ID, entity.OTPPurposePasswordChange, entity.OTPPayload{PasswordHash: hash}, user.Email)
}

// ConfirmPasswordChange applies the pending password and revokes every refresh token.
func (srv *accountService) ConfirmPasswordChange(ctx context.Context, userID uuid.UUID, code string) error {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return wrapRepoError(err, "failed to find user for password change")
	}

	err = srv.otp.verify(ctx, userID, entity.OTPPurposePasswordChange, code,
		func(ctx context.Context, repos repository.RepositoryFactory, req *entity.OTPRequest) error {
			return applyPassword(ctx, repos, userID, req.Payload.PasswordHash)
		})
	if err != nil {
		return errors.Wrap(err, "password change failed")
	}

	subject, body := changeConfirmationMessage(user, "password")
	enqueueMail(ctx, srv.notifier, service.MailKindConfirmation, user.Email, subject, body)
	srv.log(ctx).Info("Password changed, sessions revoked", slog.Any("userID", userID))

	return nil
}

// RequestEmailChange checks the current password and that the new address is unused,
// then mails a code to the new address.
func (srv *accountService) RequestEmailChange(ctx context.Context, userID uuid.UUID, input *usecase.EmailChangeInput) error {
	newEmail := normalizeEmail(input.NewEmail)

	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return wrapRepoError(err, "failed to find user for email change")
	}

	if newEmail == user.Email {
		return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("new email matches the current one"))
	}

	credential, err := srv.authRepo.FindAuthenticationByUserID(ctx, userID, entity.ProviderTypeEmail)
	if err != nil {
		return wrapRepoError(err, "failed to load credentials")
	}

	if !srv.hasher.Check(input.Password, credential.PasswordHash) {
		return errors.WithStack(domainerrors.ErrCurrentPasswordInvalid)
	}

	if err := srv.ensureEmailUnused(ctx, srv.userRepo, newEmail); err != nil {
		return err
	}

	return srv.otp.request(ctx, userID, entity.OTPPurposeEmailChange, entity.OTPPayload{NewEmail: newEmail}, newEmail)
}

// ConfirmEmailChange moves the account and its login identifier to the new address.
func (srv *accountService) ConfirmEmailChange(ctx context.Context, userID uuid.UUID, code string) (*entity.User, error) {
	var updated *entity.User

	err := srv.otp.verify(ctx, userID, entity.OTPPurposeEmailChange, code,
		func(ctx context.Context, repos repository.RepositoryFactory, req *entity.OTPRequest) error {
			userRepo := repos.UserRepo()

			if err := srv.ensureEmailUnused(ctx, userRepo, req.Payload.NewEmail); err != nil {
				return err
			}

			user, err := userRepo.FindByID(ctx, userID)
			if err != nil {
				return wrapRepoError(err, "failed to load user")
			}

			user.Email = req.Payload.NewEmail
			if err := userRepo.Update(ctx, user); err != nil {
				return wrapRepoError(err, "failed to update email")
			}

			if err := repos.AuthRepo().UpdateProviderUserID(ctx, userID, entity.ProviderTypeEmail, user.Email); err != nil {
				return wrapRepoError(err, "failed to update login identifier")
			}

			updated = user

			return nil
		})
	if err != nil {
		return nil, errors.Wrap(err, "email change failed")
	}

	subject, body := changeConfirmationMessage(updated, "email address")
	enqueueMail(ctx, srv.notifier, service.MailKindConfirmation, updated.Email, subject, body)

	return updated, nil
}

// RequestNameChange mails a code confirming a new first and/or last name.
func (srv *accountService) RequestNameChange(ctx context.Context, userID uuid.UUID, input *usecase.NameChangeInput) error {
	payload := entity.OTPPayload{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
	}
	if payload.FirstName == "" && payload.LastName == "" {
		return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("first_name or last_name is required"))
	}

	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return wrapRepoError(err, "failed to find user for name change")
	}

	return srv.otp.request(ctx, userID, entity.OTPPurposeNameChange, payload, user.Email)
}

// ConfirmNameChange applies the pending name fields that were set.
func (srv *accountService) ConfirmNameChange(ctx context.Context, userID uuid.UUID, code string) (*entity.User, error) {
	var updated *entity.User

	err := srv.otp.verify(ctx, userID, entity.OTPPurposeNameChange, code,
		func(ctx context.Context, repos repository.RepositoryFactory, req *entity.OTPRequest) error {
			userRepo := repos.UserRepo()

			user, err := userRepo.FindByID(ctx, userID)
			if err != nil {
				return wrapRepoError(err, "failed to load user")
			}

			if req.Payload.FirstName != "" {
				user.FirstName = req.Payload.FirstName
			}
			if req.Payload.LastName != "" {
				user.LastName = req.Payload.LastName
			}

			if err := userRepo.Update(ctx, user); err != nil {
				return wrapRepoError(err, "failed to update name")
			}
			updated = user

			return nil
		})
	if err != nil {
		return nil, errors.Wrap(err, "name change failed")
	}

	subject, body := changeConfirmationMessage(updated, "name")
	enqueueMail(ctx, srv.notifier, service.MailKindConfirmation, updated.Email, subject, body)

	return updated, nil
}

// ResendOTP re-issues the code of a pending authenticated change. Email change codes go
// to the pending new address.
func (srv *accountService) ResendOTP(ctx context.Context, userID uuid.UUID, purpose entity.OTPPurpose) error {
	switch purpose {
	case entity.OTPPurposePasswordChange, entity.OTPPurposeEmailChange, entity.OTPPurposeNameChange:
	default:
		return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("unsupported purpose: " + string(purpose)))
	}

	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return wrapRepoError(err, "failed to find user")
	}

	return srv.otp.resend(ctx, userID, purpose, func(req *entity.OTPRequest) string {
		if purpose == entity.OTPPurposeEmailChange {
			return req.Payload.NewEmail
		}

		return user.Email
	})
}

func (srv *accountService) ensureEmailUnused(ctx context.Context, userRepo repository.UserRepository, email string) error {
	_, err := userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return errors.WithStack(domainerrors.ErrEmailInUse)
	case errors.Is(err, repository.ErrUserNotFound):
		return nil
	default:
		return wrapRepoError(err, "failed to check email availability")
	}
}

// applyPassword stores a new password hash and ends every session of the user.
func applyPassword(ctx context.Context, repos repository.RepositoryFactory, userID uuid.UUID, hash string) error {
	if err := repos.AuthRepo().UpdatePasswordHash(ctx, userID, hash); err != nil {
		return wrapRepoError(err, "failed to update password")
	}

	if err := repos.RefreshTokenRepo().DeleteRefreshTokensByUserID(ctx, userID); err != nil {
		return wrapRepoError(err, "failed to revoke sessions")
	}

	return nil
}
