package impl

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const newTestPassword = "Fresh-Passw0rd"

func TestAccountService_PasswordReset(t *testing.T) {
	fx := createTestAccountServices(t, "111111", "222222", "333333")
	ctx := context.Background()

	session := signupAndVerify(t, fx, "ada@example.com")
	userID := session.User.ID
	require.Equal(t, 1, fx.store.sessionCount(userID))

	err := fx.account.RequestPasswordReset(ctx, &usecase.PasswordResetInput{
		Email:          "ada@example.com",
		NewPassword:    newTestPassword,
		VerifyPassword: newTestPassword,
	})
	require.NoError(t, err)

	pending := fx.store.pendingOTP(userID, entity.OTPPurposeForgotPassword)
	require.NotNil(t, pending)
	assert.NotEmpty(t, pending.Payload.PasswordHash)
	assert.NotEqual(t, newTestPassword, pending.Payload.PasswordHash)

	// Nothing changes before confirmation.
	_, err = fx.auth.Login(ctx, &usecase.LoginInput{Email: "ada@example.com", Password: testPassword})
	require.NoError(t, err)

	out, err := fx.account.ConfirmPasswordReset(ctx, &usecase.ConfirmPasswordResetInput{Email: "ada@example.com", Code: pending.Code})
	require.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)

	// Earlier sessions are revoked, only the new one remains.
	assert.Equal(t, 1, fx.store.sessionCount(userID))
	_, err = fx.auth.RefreshToken(ctx, &usecase.RefreshTokenInput{RefreshToken: session.RefreshToken})
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))

	_, err = fx.auth.Login(ctx, &usecase.LoginInput{Email: "ada@example.com", Password: testPassword})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	_, err = fx.auth.Login(ctx, &usecase.LoginInput{Email: "ada@example.com", Password: newTestPassword})
	require.NoError(t, err)

	_, err = fx.account.ConfirmPasswordReset(ctx, &usecase.ConfirmPasswordResetInput{Email: "ada@example.com", Code: pending.Code})
	assert.True(t, errors.Is(err, domainerrors.ErrOTPNotFound), "a consumed code cannot be replayed")
}

func TestAccountService_PasswordChange_RevokesSessions(t *testing.T) {
	fx := createTestAccountServices(t, "111111", "222222")
	ctx := context.Background()

	session := signupAndVerify(t, fx, "ada@example.com")
	userID := session.User.ID

	err := fx.account.RequestPasswordChange(ctx, userID, &usecase.PasswordChangeInput{
		NewPassword:    newTestPassword,
		VerifyPassword: newTestPassword,
	})
	require.NoError(t, err)

	err = fx.account.ConfirmPasswordChange(ctx, userID, "000000")
	assert.True(t, errors.Is(err, domainerrors.ErrOTPMismatch))

	require.NoError(t, fx.account.ConfirmPasswordChange(ctx, userID, "222222"))

	assert.Zero(t, fx.store.sessionCount(userID))
	_, err = fx.auth.Login(ctx, &usecase.LoginInput{Email: "ada@example.com", Password: newTestPassword})
	require.NoError(t, err)
	assert.NotEmpty(t, fx.notifier.byKind(service.MailKindConfirmation))
}

func TestAccountService_EmailChange(t *testing.T) {
	fx := createTestAccountServices(t, "111111", "222222", "333333")
	ctx := context.Background()

	session := signupAndVerify(t, fx, "ada@example.com")
	userID := session.User.ID
	fx.store.seedUser(&entity.User{Email: "taken@example.com", IsVerified: true})

	t.Run("wrong current password", func(t *testing.T) {
		err := fx.account.RequestEmailChange(ctx, userID, &usecase.EmailChangeInput{NewEmail: "new@example.com", Password: "wrong-pass"})
		assert.True(t, errors.Is(err, domainerrors.ErrCurrentPasswordInvalid))
	})

	t.Run("address in use", func(t *testing.T) {
		err := fx.account.RequestEmailChange(ctx, userID, &usecase.EmailChangeInput{NewEmail: "Taken@example.com", Password: testPassword})
		assert.True(t, errors.Is(err, domainerrors.ErrEmailInUse))
	})

	t.Run("same address", func(t *testing.T) {
		err := fx.account.RequestEmailChange(ctx, userID, &usecase.EmailChangeInput{NewEmail: "ada@example.com", Password: testPassword})
		assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	})

	t.Run("confirmed change moves the login", func(t *testing.T) {
		err := fx.account.RequestEmailChange(ctx, userID, &usecase.EmailChangeInput{NewEmail: "new@example.com", Password: testPassword})
		require.NoError(t, err)

		codes := fx.notifier.byKind(service.MailKindOTP)
		last := codes[len(codes)-1]
		assert.Equal(t, []string{"new@example.com"}, last.To, "code goes to the new address")

		updated, err := fx.account.ConfirmEmailChange(ctx, userID, extractCode(t, last.Body))
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", updated.Email)

		_, err = fx.auth.Login(ctx, &usecase.LoginInput{Email: "new@example.com", Password: testPassword})
		require.NoError(t, err)
		_, err = fx.auth.Login(ctx, &usecase.LoginInput{Email: "ada@example.com", Password: testPassword})
		assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	})
}

func TestAccountService_NameChange(t *testing.T) {
	fx := createTestAccountServices(t, "111111", "222222")
	ctx := context.Background()

	session := signupAndVerify(t, fx, "ada@example.com")
	userID := session.User.ID

	err := fx.account.RequestNameChange(ctx, userID, &usecase.NameChangeInput{})
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

	require.NoError(t, fx.account.RequestNameChange(ctx, userID, &usecase.NameChangeInput{LastName: "Okafor"}))

	updated, err := fx.account.ConfirmNameChange(ctx, userID, "222222")
	require.NoError(t, err)
	assert.Equal(t, "Ada", updated.FirstName)
	assert.Equal(t, "Okafor", updated.LastName)
}

func TestAccountService_ResendOTP(t *testing.T) {
	fx := createTestAccountServices(t, "111111", "222222", "333333")
	ctx := context.Background()

	session := signupAndVerify(t, fx, "ada@example.com")
	userID := session.User.ID

	err := fx.account.ResendOTP(ctx, userID, entity.OTPPurposeSignup)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

	err = fx.account.ResendOTP(ctx, userID, entity.OTPPurposeNameChange)
	assert.True(t, errors.Is(err, domainerrors.ErrOTPNotFound))

	require.NoError(t, fx.account.RequestEmailChange(ctx, userID, &usecase.EmailChangeInput{NewEmail: "new@example.com", Password: testPassword}))
	fx.clock.Advance(61 * time.Second)
	require.NoError(t, fx.account.ResendOTP(ctx, userID, entity.OTPPurposeEmailChange))

	codes := fx.notifier.byKind(service.MailKindOTP)
	last := codes[len(codes)-1]
	assert.Equal(t, []string{"new@example.com"}, last.To)
	assert.Contains(t, last.Subject, "resent")
	assert.Equal(t, "new@example.com", fx.store.pendingOTP(userID, entity.OTPPurposeEmailChange).Payload.NewEmail)
}
