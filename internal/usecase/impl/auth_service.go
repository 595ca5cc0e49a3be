// Package impl contains the implementation of the application's business logic.
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

const minPasswordLength = 8

// authService implements the AuthUsecase interface.
type authService struct {
	txManager        repository.TransactionManager
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

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
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

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager:        params.TxManager,
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

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Signup creates an unverified account and mails the signup code. An existing unverified
// account only gets a fresh code.
func (srv *authService) Signup(ctx context.Context, input *usecase.SignupInput) (*usecase.SignupOutput, error) {
	email := normalizeEmail(input.Email)
	srv.log(ctx).Info("Starting signup", slog.String("email", email))

	if err := validateNewPassword(srv.hasher, input.Password, input.VerifyPassword); err != nil {
		return nil, err
	}

	existing, err := srv.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil && existing.IsVerified:
		return nil, errors.WithStack(domainerrors.ErrUserAlreadyExists)
	case err == nil:
		if err := srv.otp.request(ctx, existing.ID, entity.OTPPurposeSignup, entity.OTPPayload{}, existing.Email); err != nil {
			return nil, errors.Wrap(err, "failed to re-issue signup code")
		}
		srv.log(ctx).Info("Re-issued signup code for unverified account", slog.Any("userID", existing.ID))

		return &usecase.SignupOutput{User: existing, Created: false}, nil
	case !errors.Is(err, repository.ErrUserNotFound):
		return nil, wrapRepoError(err, "failed to look up account")
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password during signup")
	}

	newUser := &entity.User{
		Email:       email,
		FirstName:   strings.TrimSpace(input.FirstName),
		LastName:    strings.TrimSpace(input.LastName),
		PhoneNumber: strings.TrimSpace(input.PhoneNumber),
	}

	err = srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		if err := repos.UserRepo().Create(ctx, newUser); err != nil {
			return wrapRepoError(err, "failed to create user during signup")
		}

		return repos.AuthRepo().CreateAuthentication(ctx, &entity.Authentication{
			UserID:         newUser.ID,
			Provider:       entity.ProviderTypeEmail,
			ProviderUserID: email,
			PasswordHash:   hashedPassword,
		})
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute signup transaction", slog.String("email", email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute signup transaction")
	}

	if err := srv.otp.request(ctx, newUser.ID, entity.OTPPurposeSignup, entity.OTPPayload{}, newUser.Email); err != nil {
		return nil, errors.Wrap(err, "failed to issue signup code")
	}

	srv.log(ctx).Debug("Signup completed", slog.Any("userID", newUser.ID))

	return &usecase.SignupOutput{User: newUser, Created: true}, nil
}

// VerifySignup confirms the signup code, marks the account verified and signs the user in.
func (srv *authService) VerifySignup(ctx context.Context, input *usecase.VerifySignupInput) (*usecase.LoginOutput, error) {
	user, err := srv.userRepo.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		return nil, wrapRepoError(err, "failed to find user for signup verification")
	}

	if user.IsVerified {
		return nil, errors.WithStack(domainerrors.ErrUserAlreadyVerified)
	}

	err = srv.otp.verify(ctx, user.ID, entity.OTPPurposeSignup, input.Code,
		func(ctx context.Context, repos repository.RepositoryFactory, _ *entity.OTPRequest) error {
			user.IsVerified = true

			return wrapRepoError(repos.UserRepo().Update(ctx, user), "failed to mark user verified")
		})
	if err != nil {
		return nil, errors.Wrap(err, "signup verification failed")
	}

	subject, body := welcomeMessage(user)
	enqueueMail(ctx, srv.notifier, service.MailKindWelcome, user.Email, subject, body)

	return srv.issueSession(ctx, user)
}

// ResendSignupOTP mails a new signup code to an unverified account.
func (srv *authService) ResendSignupOTP(ctx context.Context, email string) error {
	user, err := srv.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return wrapRepoError(err, "failed to find user for signup resend")
	}

	if user.IsVerified {
		return errors.WithStack(domainerrors.ErrUserAlreadyVerified)
	}

	err = srv.otp.resend(ctx, user.ID, entity.OTPPurposeSignup, func(*entity.OTPRequest) string { return user.Email })
	if errors.Is(err, domainerrors.ErrOTPNotFound) {
		return srv.otp.request(ctx, user.ID, entity.OTPPurposeSignup, entity.OTPPayload{}, user.Email)
	}

	return err
}

// Login orchestrates the user login process.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	email := normalizeEmail(input.Email)
	srv.log(ctx).Debug("Starting user login", slog.String("email", email))

	authRecord, err := srv.authRepo.FindAuthentication(ctx, entity.ProviderTypeEmail, email)
	if err != nil {
		if errors.Is(err, repository.ErrAuthNotFound) {
			srv.log(ctx).Warn("Login failed", slog.String("email", email), slog.String("reason", "unknown email"))

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		return nil, wrapRepoError(err, "failed to find authentication")
	}

	// bcrypt is CPU-bound, keep it outside any transaction.
	if !srv.hasher.Check(input.Password, authRecord.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", email), slog.String("reason", "bad password"))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	user, err := srv.userRepo.FindByID(ctx, authRecord.UserID)
	if err != nil {
		return nil, wrapRepoError(err, "failed to load login user")
	}

	if !user.IsVerified {
		return nil, errors.WithStack(domainerrors.ErrUserNotVerified)
	}

	output, err := srv.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	subject, body := loginMessage(user, srv.now())
	enqueueMail(ctx, srv.notifier, service.MailKindLoginSuccess, user.Email, subject, body)
	srv.log(ctx).Debug("User logged in successfully", slog.Any("userID", user.ID))

	return output, nil
}

// RefreshToken handles the process of issuing a new access token using a refresh token.
// The refresh token itself is not rotated.
func (srv *authService) RefreshToken(ctx context.Context, input *usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error) {
	claims, err := srv.tokenService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, err.Error())
	}

	if _, err := srv.refreshTokenRepo.FindRefreshTokenByHash(ctx, srv.tokenService.HashToken(input.RefreshToken)); err != nil {
		return nil, wrapRepoError(err, "refresh token not found or expired")
	}

	user, err := srv.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, wrapRepoError(err, "failed to find user")
	}

	accessToken, _, err := srv.tokenService.GenerateTokens(user.ID, user.Roles().ToStrings())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate new access token")
	}

	return &usecase.RefreshTokenOutput{AccessToken: accessToken}, nil
}

// Logout handles the process of invalidating a user's session by deleting their refresh token.
func (srv *authService) Logout(ctx context.Context, input *usecase.LogoutInput) error {
	if _, err := srv.tokenService.ValidateRefreshToken(input.RefreshToken); err != nil {
		// The stored hash is removed regardless.
		srv.log(ctx).Warn("Logout with invalid token", slog.Any("error", err))
	}

	if err := srv.refreshTokenRepo.DeleteRefreshTokenByHash(ctx, srv.tokenService.HashToken(input.RefreshToken)); err != nil {
		return wrapRepoError(err, "failed to delete refresh token")
	}
	srv.log(ctx).Info("Successfully logged out")

	return nil
}

// LogoutAll ends every session of the user.
func (srv *authService) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	if err := srv.refreshTokenRepo.DeleteRefreshTokensByUserID(ctx, userID); err != nil {
		return wrapRepoError(err, "failed to delete refresh tokens")
	}

	return nil
}

func (srv *authService) issueSession(ctx context.Context, user *entity.User) (*usecase.LoginOutput, error) {
	return issueSession(ctx, srv.tokenService, srv.refreshTokenRepo, srv.now, user)
}

func enqueueMail(ctx context.Context, notifier service.Notifier, kind, to, subject, body string) {
	notifier.Enqueue(ctx, &service.MailEvent{
		Kind:    kind,
		To:      []string{to},
		Subject: subject,
		Body:    body,
	})
}

// issueSession generates a token pair and stores the refresh token hash.
func issueSession(
	ctx context.Context,
	tokenService service.TokenService,
	refreshRepo repository.RefreshTokenRepository,
	now func() time.Time,
	user *entity.User,
) (*usecase.LoginOutput, error) {
	accessToken, refreshToken, err := tokenService.GenerateTokens(user.ID, user.Roles().ToStrings())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	record := &entity.RefreshToken{
		UserID:    user.ID,
		TokenHash: tokenService.HashToken(refreshToken),
		ExpiresAt: now().Add(tokenService.GetRefreshTokenDuration()),
	}
	if err := refreshRepo.CreateRefreshToken(ctx, record); err != nil {
		return nil, wrapRepoError(err, "failed to store refresh token")
	}

	return &usecase.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// validateNewPassword checks confirmation and strength of a password about to be stored.
func validateNewPassword(hasher service.PasswordHasher, password, verify string) error {
	if password != verify {
		return errors.WithStack(domainerrors.ErrPasswordMismatch)
	}

	if len(password) < minPasswordLength {
		return errors.WithStack(domainerrors.ErrPasswordStrength.WithDetails("password must be at least 8 characters"))
	}

	if err := hasher.ValidatePasswordStrength(password); err != nil {
		return errors.Wrap(err, "password does not meet security requirements")
	}

	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
